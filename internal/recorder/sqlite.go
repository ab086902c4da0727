package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"CryptoSentinel/internal/model"
)

// SQLiteRecorder persists analysis history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance while the bot writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS reports (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp       INTEGER NOT NULL,
			symbol          TEXT NOT NULL,
			anchor_close    REAL,
			last_price      REAL,
			change_24h      REAL,
			market_sentiment TEXT,
			short_sentiment REAL,
			long_sentiment  REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_ts ON reports(timestamp)`,

		`CREATE TABLE IF NOT EXISTS analysis_snapshots (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			report_id      INTEGER NOT NULL,
			timestamp      INTEGER NOT NULL,
			symbol         TEXT NOT NULL,
			timeframe      TEXT NOT NULL,
			price          REAL,
			rsi            REAL,
			rsi_condition  TEXT,
			macd           REAL,
			macd_signal    REAL,
			macd_histogram REAL,
			macd_condition TEXT,
			bb_position    TEXT,
			obv            REAL,
			obv_trend      TEXT,
			level_strength INTEGER,
			trend          TEXT,
			confidence     REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_ts ON analysis_snapshots(timestamp)`,

		`CREATE TABLE IF NOT EXISTS trade_levels (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			report_id   INTEGER NOT NULL,
			timestamp   INTEGER NOT NULL,
			symbol      TEXT NOT NULL,
			horizon     TEXT NOT NULL,
			action      TEXT NOT NULL,
			entry       REAL,
			stop_loss   REAL,
			take_profit REAL,
			reward_risk REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_levels_ts ON trade_levels(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordReport stores one report row plus a snapshot row per timeframe
// and a trade-level row per horizon.
func (r *SQLiteRecorder) RecordReport(rep *model.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().Unix()

	res, err := r.db.Exec(`INSERT INTO reports
		(timestamp, symbol, anchor_close, last_price, change_24h, market_sentiment, short_sentiment, long_sentiment)
		VALUES (?,?,?,?,?,?,?,?)`,
		now, rep.Symbol, rep.Anchor.Close, rep.Price.Price,
		rep.Context.PriceChange24h, rep.Context.Sentiment,
		rep.ShortTermSentiment, rep.LongTermSentiment,
	)
	if err != nil {
		return err
	}
	reportID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for tf, ta := range rep.Timeframes {
		if _, err := r.db.Exec(`INSERT INTO analysis_snapshots
			(report_id, timestamp, symbol, timeframe, price,
			 rsi, rsi_condition, macd, macd_signal, macd_histogram, macd_condition,
			 bb_position, obv, obv_trend, level_strength, trend, confidence)
			VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
			reportID, now, rep.Symbol, tf, ta.CurrentPrice,
			ta.RSI.Value, string(ta.RSI.Condition),
			ta.MACD.MACD, ta.MACD.Signal, ta.MACD.Histogram, string(ta.MACD.Condition),
			string(ta.Bollinger.Position), ta.OBV.Value, string(ta.OBV.Trend),
			ta.Levels.Strength, string(ta.Trend), ta.Confidence,
		); err != nil {
			return err
		}
	}

	for _, tl := range []model.TradeLevels{rep.Intraday, rep.Swing} {
		if _, err := r.db.Exec(`INSERT INTO trade_levels
			(report_id, timestamp, symbol, horizon, action, entry, stop_loss, take_profit, reward_risk)
			VALUES (?,?,?,?,?,?,?,?,?)`,
			reportID, now, rep.Symbol, tl.Horizon, string(tl.Action),
			tl.Entry, tl.StopLoss, tl.TakeProfit, tl.RewardRisk,
		); err != nil {
			return err
		}
	}

	return nil
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
