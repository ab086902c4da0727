package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"CryptoSentinel/internal/analysis"
	"CryptoSentinel/internal/collector"
	"CryptoSentinel/internal/indicator"
	"CryptoSentinel/internal/notifier"
	"CryptoSentinel/internal/recorder"
	"CryptoSentinel/internal/scheduler"
)

func testServer() *Server {
	col := collector.NewCollector(
		[]collector.Fetcher{&collector.MockFetcher{Price: 2000}},
		[]string{"15m", "1d"}, 60,
	)
	an := analysis.NewAnalyzer(indicator.NewFormulaBackend())
	tn := notifier.NewTelegramNotifier("", "", "")
	sched := scheduler.NewScheduler(context.Background(), col, an, tn, recorder.NewNoopRecorder(), "ETH/USDT")
	return NewServer(0, sched)
}

func TestHandleHealth(t *testing.T) {
	s := testServer()
	rec := httptest.NewRecorder()
	s.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status field = %q", body["status"])
	}
}

func TestHandleHealth_MethodNotAllowed(t *testing.T) {
	s := testServer()
	rec := httptest.NewRecorder()
	s.handleHealth(rec, httptest.NewRequest(http.MethodPost, "/health", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestHandleStatus(t *testing.T) {
	s := testServer()
	rec := httptest.NewRecorder()
	s.handleStatus(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["primary_symbol"] != "ETH/USDT" {
		t.Errorf("primary_symbol = %v", body["primary_symbol"])
	}
	if body["last_report"] != "never" {
		t.Errorf("last_report = %v, want never before any run", body["last_report"])
	}
}

func TestHandleAnalyze_Default(t *testing.T) {
	s := testServer()
	rec := httptest.NewRecorder()
	s.handleAnalyze(rec, httptest.NewRequest(http.MethodGet, "/analyze", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var body map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["symbol"] != "ETH/USDT" {
		t.Errorf("symbol = %v, want the default", body["symbol"])
	}
	if body["analysis"] == "" {
		t.Error("analysis text missing")
	}
}

func TestHandleAnalyze_PathSymbol(t *testing.T) {
	s := testServer()
	rec := httptest.NewRecorder()
	s.handleAnalyze(rec, httptest.NewRequest(http.MethodGet, "/analyze/BTCUSDT", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["symbol"] != "BTC/USDT" {
		t.Errorf("symbol = %v, want BTC/USDT", body["symbol"])
	}
}

func TestHandleAnalyze_UpstreamFailure(t *testing.T) {
	s := testServer()
	s.scheduler.Collector = collector.NewCollector(nil, []string{"15m"}, 60)
	rec := httptest.NewRecorder()
	s.handleAnalyze(rec, httptest.NewRequest(http.MethodGet, "/analyze", nil))
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
}

func TestHandleRoot_NotFound(t *testing.T) {
	s := testServer()
	rec := httptest.NewRecorder()
	s.handleRoot(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
