// Package tradelog writes a daily JSON-lines journal of decisions and orders.
package tradelog

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"trading-assistant/internal/types"
)

type Entry struct {
	Time    string `json:"time"`
	Symbol  string `json:"symbol"`
	Side    string `json:"side"`
	Qty     int    `json:"qty"`
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type DecisionEntry struct {
	Time         string             `json:"time"`
	Symbol       string             `json:"symbol"`
	AsOf         string             `json:"as_of"`
	Close        float64            `json:"close"`
	Regime       string             `json:"regime"`
	Sentiment    float64            `json:"sentiment"`
	Headlines    int                `json:"headlines"`
	Prediction   string             `json:"prediction"`
	RuleSignal   string             `json:"rule_signal"`
	Action       string             `json:"action"`
	Indicators   map[string]float64 `json:"indicators"`
	Triggers     types.Triggers     `json:"triggers"`
	StopLoss     float64            `json:"stop_loss"`
	TargetProfit float64            `json:"target_profit"`
	PositionSize float64            `json:"position_size"`
}

// Journal appends entries to one file per day under dir.
type Journal struct {
	dir string
	loc *time.Location
	now func() time.Time
	mu  sync.Mutex
}

// New returns a journal writing under dir with day boundaries in loc.
func New(dir string, loc *time.Location) *Journal {
	if dir == "" {
		dir = "logs"
	}
	if loc == nil {
		loc = time.Local
	}
	return &Journal{dir: dir, loc: loc, now: time.Now}
}

func (j *Journal) Dir() string { return j.dir }

func (j *Journal) dailyFilepath(t time.Time) string {
	return filepath.Join(j.dir, "orders", t.In(j.loc).Format(time.DateOnly)+".txt")
}

func (j *Journal) decisionsFilepath(t time.Time) string {
	return filepath.Join(j.dir, "decisions", t.In(j.loc).Format(time.DateOnly)+".txt")
}

func (j *Journal) appendLine(p string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode journal entry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = fmt.Fprintln(f, string(b))
	return err
}

func (j *Journal) AppendOrder(req types.OrderReq, resp types.OrderResp) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	now := j.now().In(j.loc)
	return j.appendLine(j.dailyFilepath(now), Entry{
		Time:    now.Format(time.DateTime),
		Symbol:  req.Symbol,
		Side:    req.Side,
		Qty:     req.Qty,
		OrderID: resp.OrderID,
		Status:  resp.Status,
		Message: resp.Message,
	})
}

// AppendDecision journals one analysis. Undefined indicators are omitted.
func (j *Journal) AppendDecision(a *types.Analysis) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	now := j.now().In(j.loc)

	ind := make(map[string]float64, 6)
	for name, v := range map[string]types.Value{
		"rsi14":       a.Latest.RSI14,
		"macd":        a.Latest.MACD,
		"macd_signal": a.Latest.MACDSignal,
		"macd_hist":   a.Latest.MACDHist,
		"sma20":       a.Latest.SMA20,
		"sma50":       a.Latest.SMA50,
		"atr14":       a.ATR14,
	} {
		if f, ok := v.Get(); ok {
			ind[name] = f
		}
	}

	return j.appendLine(j.decisionsFilepath(now), DecisionEntry{
		Time:         now.Format(time.DateTime),
		Symbol:       a.Symbol,
		AsOf:         a.AsOf.Format(time.DateOnly),
		Close:        a.Close,
		Regime:       string(a.Regime),
		Sentiment:    a.Sentiment.Compound,
		Headlines:    a.Sentiment.Count,
		Prediction:   string(a.Prediction),
		RuleSignal:   string(a.RuleSignal),
		Action:       string(a.Decision),
		Indicators:   ind,
		Triggers:     a.Triggers,
		StopLoss:     a.Plan.StopLoss,
		TargetProfit: a.Plan.TargetProfit,
		PositionSize: a.Plan.PositionSize,
	})
}

// ReadDecisions returns the decisions journaled on day, oldest first.
func (j *Journal) ReadDecisions(day time.Time) ([]DecisionEntry, error) {
	return readLines[DecisionEntry](j.decisionsFilepath(day))
}

// ReadOrders returns the orders journaled on day, oldest first.
func (j *Journal) ReadOrders(day time.Time) ([]Entry, error) {
	return readLines[Entry](j.dailyFilepath(day))
}

// Today is the current day in the journal's location.
func (j *Journal) Today() time.Time { return j.now().In(j.loc) }

func readLines[T any](p string) ([]T, error) {
	f, err := os.Open(p)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []T
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		if len(sc.Bytes()) == 0 {
			continue
		}
		var e T
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			return out, fmt.Errorf("decode journal line: %w", err)
		}
		out = append(out, e)
	}
	return out, sc.Err()
}

// CompressOlder gzips journal files last modified more than retentionDays ago.
func (j *Journal) CompressOlder(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	cutoff := j.now().AddDate(0, 0, -retentionDays)
	return filepath.WalkDir(j.dir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if filepath.Ext(p) != ".txt" {
			return nil
		}
		info, er := d.Info()
		if er != nil {
			return nil
		}
		if info.ModTime().Before(cutoff) {
			gz := p + ".gz"
			// if already gz exists, remove original .txt
			if _, e2 := os.Stat(gz); e2 == nil {
				_ = os.Remove(p)
				return nil
			}
			if err := gzipFile(p, gz); err != nil {
				return fmt.Errorf("compress %s: %w", p, err)
			}
			_ = os.Remove(p)
		}
		return nil
	})
}

func gzipFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	gw := gzip.NewWriter(out)
	if _, err := io.Copy(gw, in); err != nil {
		gw.Close()
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := gw.Close(); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}
