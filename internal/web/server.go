package web

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"CryptoSentinel/internal/scheduler"
)

// Server exposes the analysis over HTTP: health/status probes and a
// manual analysis trigger mirroring the Telegram /analyze command.
type Server struct {
	port      int
	scheduler *scheduler.Scheduler
	server    *http.Server
}

// NewServer creates the HTTP server.
func NewServer(port int, sched *scheduler.Scheduler) *Server {
	return &Server{port: port, scheduler: sched}
}

// Start starts serving. Blocks until the listener fails or Stop is called.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/analyze", s.handleAnalyze)
	mux.HandleFunc("/analyze/", s.handleAnalyze)
	mux.HandleFunc("/", s.handleRoot)

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	log.Printf("[INFO] HTTP server listening on :%d", s.port)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "CryptoSentinel active",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"last_report": lastAnalysisLabel(s.scheduler),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"primary_symbol":    s.scheduler.DefaultSymbol,
		"indicator_backend": s.scheduler.Analyzer.Backend.Name(),
		"last_report":       lastAnalysisLabel(s.scheduler),
		"timestamp":         time.Now().UTC().Format(time.RFC3339),
	})
}

// handleAnalyze triggers a full analysis cycle for the default symbol
// (GET /analyze) or a requested one (GET /analyze/BTCUSDT).
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	symbol := s.scheduler.DefaultSymbol
	if raw := strings.TrimPrefix(r.URL.Path, "/analyze"); raw != "" && raw != "/" {
		symbol = strings.ToUpper(strings.Trim(raw, "/"))
		if !strings.Contains(symbol, "/") {
			if strings.HasSuffix(symbol, "USDT") && len(symbol) > 4 {
				symbol = symbol[:len(symbol)-4] + "/USDT"
			} else {
				symbol = symbol + "/USDT"
			}
		}
	}

	log.Printf("[INFO] manual analysis requested via HTTP for %s", symbol)
	rep, text, err := s.scheduler.RunAnalysis(symbol)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{
			"symbol": symbol,
			"error":  err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"symbol":               symbol,
		"generated_at":         rep.GeneratedAt.UTC().Format(time.RFC3339),
		"analysis":             text,
		"short_term_sentiment": rep.ShortTermSentiment,
		"long_term_sentiment":  rep.LongTermSentiment,
		"intraday":             rep.Intraday,
		"swing":                rep.Swing,
		"failed_timeframes":    rep.Errors,
	})
}

func lastAnalysisLabel(sched *scheduler.Scheduler) string {
	if t := sched.LastAnalysis(); !t.IsZero() {
		return t.UTC().Format(time.RFC3339)
	}
	return "never"
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[ERROR] encode response: %v", err)
	}
}
