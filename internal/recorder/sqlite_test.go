package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"CryptoSentinel/internal/model"
)

func testReport() *model.Report {
	return &model.Report{
		Symbol:      "ETH/USDT",
		GeneratedAt: time.Now(),
		Anchor:      model.Candle{Close: 2000},
		HasAnchor:   true,
		Price:       model.PriceInfo{Price: 2001.5},
		Context:     model.MarketContext{PriceChange24h: 1.2, Sentiment: "neutral"},
		Timeframes: map[string]*model.TimeframeAnalysis{
			"15m": {
				Timeframe:    "15m",
				CurrentPrice: 2001.5,
				Trend:        model.TrendBullish,
				Confidence:   65,
				RSI:          model.RSIResult{Value: 62, Condition: model.CondBullish, Valid: true},
			},
			"1d": {
				Timeframe:  "1d",
				Trend:      model.TrendNeutral,
				Confidence: 50,
			},
		},
		Intraday: model.TradeLevels{Horizon: "intraday", Action: model.ActionBuy, Entry: 2000, StopLoss: 1970, TakeProfit: 2060, RewardRisk: 2},
		Swing:    model.TradeLevels{Horizon: "swing", Action: model.ActionHold, Entry: 2000, StopLoss: 2100, TakeProfit: 1800, RewardRisk: 2},
	}
}

func TestSQLiteRecorder_RecordReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	r, err := NewSQLiteRecorder(path)
	if err != nil {
		t.Fatalf("NewSQLiteRecorder: %v", err)
	}
	defer r.Close()

	if err := r.RecordReport(testReport()); err != nil {
		t.Fatalf("RecordReport: %v", err)
	}

	var reports, snapshots, levels int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM reports").Scan(&reports); err != nil {
		t.Fatal(err)
	}
	if err := r.db.QueryRow("SELECT COUNT(*) FROM analysis_snapshots").Scan(&snapshots); err != nil {
		t.Fatal(err)
	}
	if err := r.db.QueryRow("SELECT COUNT(*) FROM trade_levels").Scan(&levels); err != nil {
		t.Fatal(err)
	}
	if reports != 1 {
		t.Errorf("reports = %d, want 1", reports)
	}
	if snapshots != 2 {
		t.Errorf("snapshots = %d, want one per timeframe", snapshots)
	}
	if levels != 2 {
		t.Errorf("trade levels = %d, want one per horizon", levels)
	}

	var symbol string
	var anchorClose float64
	if err := r.db.QueryRow("SELECT symbol, anchor_close FROM reports").Scan(&symbol, &anchorClose); err != nil {
		t.Fatal(err)
	}
	if symbol != "ETH/USDT" || anchorClose != 2000 {
		t.Errorf("stored report = %s/%v, want ETH/USDT/2000", symbol, anchorClose)
	}
}

func TestSQLiteRecorder_ReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	r, err := NewSQLiteRecorder(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.RecordReport(testReport()); err != nil {
		t.Fatal(err)
	}
	r.Close()

	r, err = NewSQLiteRecorder(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer r.Close()
	if err := r.RecordReport(testReport()); err != nil {
		t.Fatal(err)
	}

	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM reports").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("reports after reopen = %d, want 2", count)
	}
}

func TestNoopRecorder(t *testing.T) {
	r := NewNoopRecorder()
	if err := r.RecordReport(testReport()); err != nil {
		t.Errorf("noop recorder should never fail: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("noop close: %v", err)
	}
}
