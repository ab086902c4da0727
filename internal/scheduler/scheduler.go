package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"CryptoSentinel/internal/analysis"
	"CryptoSentinel/internal/collector"
	"CryptoSentinel/internal/model"
	"CryptoSentinel/internal/notifier"
	"CryptoSentinel/internal/recorder"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the periodic analysis task and serves manual triggers
// coming from Telegram commands and the HTTP endpoints.
type Scheduler struct {
	Cron          *cron.Cron
	Collector     *collector.Collector
	Analyzer      *analysis.Analyzer
	Notifier      *notifier.TelegramNotifier
	Recorder      recorder.Recorder
	Ctx           context.Context
	DefaultSymbol string

	mu           sync.Mutex
	lastAnalysis time.Time
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, an *analysis.Analyzer, tn *notifier.TelegramNotifier, rec recorder.Recorder, defaultSymbol string) *Scheduler {
	return &Scheduler{
		Cron:          cron.New(cron.WithSeconds()),
		Collector:     col,
		Analyzer:      an,
		Notifier:      tn,
		Recorder:      rec,
		Ctx:           ctx,
		DefaultSymbol: defaultSymbol,
	}
}

// Register registers the periodic analysis task.
func (s *Scheduler) Register(analysisCron string) error {
	if _, err := s.Cron.AddFunc(analysisCron, s.analysisTask); err != nil {
		return fmt.Errorf("register analysis task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunAnalysisNow executes the analysis task immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunAnalysisNow() {
	s.analysisTask()
}

// LastAnalysis returns when the last successful analysis completed.
func (s *Scheduler) LastAnalysis() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAnalysis
}

func (s *Scheduler) analysisTask() {
	log.Printf("[INFO] running scheduled analysis for %s", s.DefaultSymbol)
	_, text, err := s.RunAnalysis(s.DefaultSymbol)
	if err != nil {
		log.Printf("[ERROR] scheduled analysis: %v", err)
		s.trySend(fmt.Sprintf("❌ Scheduled analysis failed: %v", err))
		return
	}
	s.trySend(text)
}

// RunAnalysis performs one full collect-analyze-format-record cycle for a
// symbol and returns the report and its rendered text.
func (s *Scheduler) RunAnalysis(symbol string) (*model.Report, string, error) {
	snap, err := s.Collector.Snapshot(s.Ctx, symbol)
	if err != nil {
		return nil, "", fmt.Errorf("collect %s: %w", symbol, err)
	}

	rep, err := s.Analyzer.Analyze(snap)
	if err != nil {
		return nil, "", fmt.Errorf("analyze %s: %w", symbol, err)
	}

	text := notifier.FormatReport(rep)

	if err := s.Recorder.RecordReport(rep); err != nil {
		log.Printf("[ERROR] record report: %v", err)
	}

	s.mu.Lock()
	s.lastAnalysis = time.Now()
	s.mu.Unlock()

	return rep, text, nil
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.FormatHelp()
	}

	switch fields[0] {
	case "/analyze":
		symbol := s.DefaultSymbol
		if len(fields) > 1 {
			symbol = canonicalSymbol(fields[1])
		}
		_, text, err := s.RunAnalysis(symbol)
		if err != nil {
			log.Printf("[ERROR] manual analysis: %v", err)
			return fmt.Sprintf("❌ Analysis failed for %s: %v", symbol, err)
		}
		return text
	case "/status", "/start":
		return s.statusText()
	case "/help":
		return notifier.FormatHelp()
	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) statusText() string {
	last := "never"
	if t := s.LastAnalysis(); !t.IsZero() {
		last = t.UTC().Format("2006-01-02 15:04:05 MST")
	}
	return fmt.Sprintf("✅ *CryptoSentinel Status*\n\nPrimary symbol: %s\nLast analysis: %s\nIndicator backend: %s",
		s.DefaultSymbol, last, s.Analyzer.Backend.Name())
}

// canonicalSymbol normalizes user input like "btcusdt" or "BTC" into the
// "BTC/USDT" pair form.
func canonicalSymbol(input string) string {
	symbol := strings.ToUpper(strings.TrimSpace(input))
	if strings.Contains(symbol, "/") {
		return symbol
	}
	if strings.HasSuffix(symbol, "USDT") && len(symbol) > 4 {
		return symbol[:len(symbol)-4] + "/USDT"
	}
	return symbol + "/USDT"
}

func (s *Scheduler) trySend(text string) {
	if !s.Notifier.Enabled() {
		log.Println("[INFO] Telegram not configured, report not delivered")
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
