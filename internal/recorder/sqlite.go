// Package recorder persists analysis and order history.
package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"trading-assistant/internal/interfaces"
	"trading-assistant/internal/logger"
	"trading-assistant/internal/types"
)

var (
	_ interfaces.Recorder = (*SQLiteRecorder)(nil)
	_ interfaces.Recorder = (*NoopRecorder)(nil)
)

// SQLiteRecorder writes history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the database and runs migrations.
func NewSQLiteRecorder(ctx context.Context, dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets a reader (report, dashboard) query while an analysis writes.
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info(ctx, "SQLite recorder opened", "path", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analyses (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp     INTEGER NOT NULL,
			symbol        TEXT NOT NULL,
			as_of         INTEGER,
			close         REAL,
			regime        TEXT,
			sentiment     REAL,
			headlines     INTEGER,
			prediction    TEXT,
			rule_signal   TEXT,
			decision      TEXT,
			rsi14         REAL,
			macd          REAL,
			macd_signal   REAL,
			macd_hist     REAL,
			sma20         REAL,
			sma50         REAL,
			stop_loss     REAL,
			target_profit REAL,
			position_size REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_symbol_ts ON analyses(symbol, timestamp)`,

		`CREATE TABLE IF NOT EXISTS orders (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			symbol    TEXT NOT NULL,
			side      TEXT,
			qty       INTEGER,
			tag       TEXT,
			order_id  TEXT,
			status    TEXT,
			message   TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_ts ON orders(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// nullable stores undefined indicator values as NULL.
func nullable(v types.Value) sql.NullFloat64 {
	f, ok := v.Get()
	return sql.NullFloat64{Float64: f, Valid: ok}
}

func (r *SQLiteRecorder) RecordAnalysis(ctx context.Context, a *types.Analysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := a.Latest
	_, err := r.db.ExecContext(ctx, `INSERT INTO analyses
		(timestamp, symbol, as_of, close, regime, sentiment, headlines,
		 prediction, rule_signal, decision,
		 rsi14, macd, macd_signal, macd_hist, sma20, sma50,
		 stop_loss, target_profit, position_size)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().UnixMilli(), a.Symbol, a.AsOf.Unix(), a.Close, string(a.Regime),
		a.Sentiment.Compound, a.Sentiment.Count,
		string(a.Prediction), string(a.RuleSignal), string(a.Decision),
		nullable(s.RSI14), nullable(s.MACD), nullable(s.MACDSignal), nullable(s.MACDHist),
		nullable(s.SMA20), nullable(s.SMA50),
		a.Plan.StopLoss, a.Plan.TargetProfit, a.Plan.PositionSize,
	)
	if err != nil {
		return fmt.Errorf("record analysis: %w", err)
	}
	return nil
}

func (r *SQLiteRecorder) RecordOrder(ctx context.Context, req types.OrderReq, resp types.OrderResp) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx, `INSERT INTO orders
		(timestamp, symbol, side, qty, tag, order_id, status, message)
		VALUES (?,?,?,?,?,?,?,?)`,
		time.Now().UnixMilli(), req.Symbol, req.Side, req.Qty, req.Tag,
		resp.OrderID, resp.Status, resp.Message,
	)
	if err != nil {
		return fmt.Errorf("record order: %w", err)
	}
	return nil
}

// Recent returns the latest limit analyses for symbol, newest first.
func (r *SQLiteRecorder) Recent(ctx context.Context, symbol string, limit int) ([]types.DecisionRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.QueryContext(ctx, `SELECT
		id, timestamp, symbol, as_of, close, regime, sentiment,
		prediction, rule_signal, decision, stop_loss, target_profit, position_size
		FROM analyses WHERE symbol = ? ORDER BY timestamp DESC, id DESC LIMIT ?`,
		symbol, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent analyses: %w", err)
	}
	defer rows.Close()

	var out []types.DecisionRecord
	for rows.Next() {
		var (
			rec                                      types.DecisionRecord
			ts, asOf                                 int64
			regime, prediction, ruleSignal, decision string
		)
		if err := rows.Scan(&rec.ID, &ts, &rec.Symbol, &asOf, &rec.Close, &regime, &rec.Sentiment,
			&prediction, &ruleSignal, &decision, &rec.StopLoss, &rec.TargetProfit, &rec.PositionSize); err != nil {
			return nil, fmt.Errorf("scan analysis: %w", err)
		}
		rec.RecordedAt = time.UnixMilli(ts).UTC()
		rec.AsOf = time.Unix(asOf, 0).UTC()
		rec.Regime = types.Regime(regime)
		rec.Prediction = types.Prediction(prediction)
		rec.RuleSignal = types.Decision(ruleSignal)
		rec.Decision = types.Decision(decision)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	logger.Info(context.Background(), "Closing SQLite recorder")
	return r.db.Close()
}
