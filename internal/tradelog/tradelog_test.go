package tradelog

import (
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"trading-assistant/internal/types"
)

var ist = time.FixedZone("IST", 19800)

func newTestJournal(t *testing.T, now time.Time) *Journal {
	t.Helper()
	j := New(t.TempDir(), ist)
	j.now = func() time.Time { return now }
	return j
}

func TestAppendDecisionAndRead(t *testing.T) {
	// 20:00 UTC is already the next day in IST.
	now := time.Date(2024, 6, 3, 20, 0, 0, 0, time.UTC)
	j := newTestJournal(t, now)

	a := &types.Analysis{
		Symbol:     "INFY",
		AsOf:       time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
		Close:      1425,
		Regime:     types.RangeBound,
		Sentiment:  types.Sentiment{Compound: -0.2, Count: 3},
		Prediction: types.Down,
		RuleSignal: types.Hold,
		Decision:   types.Sell,
		Latest:     types.Snapshot{RSI14: types.Of(48), SMA20: types.Of(1410)},
		Plan:       types.RiskPlan{StopLoss: 1439.25, TargetProfit: 1396.5, PositionSize: 7.01},
	}
	if err := j.AppendDecision(a); err != nil {
		t.Fatalf("AppendDecision failed: %v", err)
	}
	if err := j.AppendDecision(a); err != nil {
		t.Fatalf("AppendDecision failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(j.Dir(), "decisions", "2024-06-04.txt")); err != nil {
		t.Fatalf("Expected IST-dated journal file: %v", err)
	}

	got, err := j.ReadDecisions(now)
	if err != nil {
		t.Fatalf("ReadDecisions failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(got))
	}
	e := got[0]
	if e.Action != "SELL" || e.Prediction != "Down" || e.Regime != "Range-Bound" || e.Headlines != 3 {
		t.Errorf("Unexpected entry %+v", e)
	}
	if e.Time != "2024-06-04 01:30:00" {
		t.Errorf("Expected IST timestamp, got %s", e.Time)
	}
	if _, ok := e.Indicators["macd"]; ok {
		t.Error("Expected undefined MACD to be omitted")
	}
	if e.Indicators["rsi14"] != 48 {
		t.Errorf("Expected rsi14 48, got %v", e.Indicators["rsi14"])
	}
}

func TestReadDecisionsMissingDay(t *testing.T) {
	j := newTestJournal(t, time.Now())
	got, err := j.ReadDecisions(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil || got != nil {
		t.Errorf("Expected nothing, got %v %v", got, err)
	}
}

func TestAppendOrder(t *testing.T) {
	now := time.Date(2024, 6, 3, 5, 0, 0, 0, time.UTC)
	j := newTestJournal(t, now)

	err := j.AppendOrder(
		types.OrderReq{Symbol: "INFY", Side: "BUY", Qty: 7},
		types.OrderResp{OrderID: "SIM-1", Status: "SIMULATED", Message: "dry-run"},
	)
	if err != nil {
		t.Fatalf("AppendOrder failed: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(j.Dir(), "orders", "2024-06-03.txt"))
	if err != nil {
		t.Fatalf("read order log: %v", err)
	}
	if !strings.Contains(string(b), `"order_id":"SIM-1"`) {
		t.Errorf("Unexpected order line %s", b)
	}

	orders, err := j.ReadOrders(now)
	if err != nil {
		t.Fatalf("ReadOrders failed: %v", err)
	}
	if len(orders) != 1 || orders[0].Qty != 7 || orders[0].Side != "BUY" {
		t.Errorf("ReadOrders = %+v", orders)
	}
}

func TestCompressOlder(t *testing.T) {
	now := time.Now()
	j := newTestJournal(t, now)

	oldPath := filepath.Join(j.Dir(), "decisions", "old.txt")
	newPath := filepath.Join(j.Dir(), "decisions", "new.txt")
	if err := os.MkdirAll(filepath.Dir(oldPath), 0o755); err != nil {
		t.Fatal(err)
	}
	for _, p := range []string{oldPath, newPath} {
		if err := os.WriteFile(p, []byte("{\"symbol\":\"INFY\"}\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	old := now.AddDate(0, 0, -10)
	if err := os.Chtimes(oldPath, old, old); err != nil {
		t.Fatal(err)
	}

	if err := j.CompressOlder(7); err != nil {
		t.Fatalf("CompressOlder failed: %v", err)
	}

	if _, err := os.Stat(oldPath); !os.IsNotExist(err) {
		t.Error("Expected old file to be removed")
	}
	if _, err := os.Stat(newPath); err != nil {
		t.Error("Expected recent file to remain")
	}

	f, err := os.Open(oldPath + ".gz")
	if err != nil {
		t.Fatalf("Expected gzip file: %v", err)
	}
	defer f.Close()
	gr, err := gzip.NewReader(f)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := io.ReadAll(gr)
	if string(b) != "{\"symbol\":\"INFY\"}\n" {
		t.Errorf("Unexpected gzip content %q", b)
	}

	if err := j.CompressOlder(0); err != nil {
		t.Errorf("Expected no-op for zero retention, got %v", err)
	}
}
