package main

import (
	"strings"
	"testing"
	"time"

	"trading-assistant/internal/types"
)

func TestRenderAnalysis(t *testing.T) {
	a := &types.Analysis{
		Symbol:     "INFY",
		AsOf:       time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC),
		Close:      1500,
		Regime:     types.TrendingUp,
		Prediction: types.Up,
		RuleSignal: types.Buy,
		Decision:   types.Buy,
		Triggers:   types.Triggers{RSIOversold: true},
		Plan:       types.RiskPlan{EntryPrice: 1500, StopLoss: 1485, TargetProfit: 1530, PositionSize: 6.67, IsLong: true},
		Headlines:  []types.Headline{{Text: "Record quarter"}},
	}
	out := renderAnalysis(a)
	for _, want := range []string{"INFY", "2024-06-28", "Trending Up", "BUY", "RSI oversold", "1485.00", "6 shares", "Record quarter", "n/a"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}

	a.Decision = types.Hold
	if out := renderAnalysis(a); strings.Contains(out, "Stop-loss") {
		t.Errorf("HOLD report should not show a plan:\n%s", out)
	}
}

func TestTriggerList(t *testing.T) {
	if got := triggerList(types.Triggers{}); got != "none" {
		t.Errorf("triggerList(empty) = %q", got)
	}
	got := triggerList(types.Triggers{SMACrossUp: true, MACDCrossUp: true})
	if got != "SMA cross up, MACD cross up" {
		t.Errorf("triggerList = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("abcdefghij", 5); got != "abcd…" {
		t.Errorf("truncate = %q", got)
	}
}

func TestRenderHistoryEmpty(t *testing.T) {
	if got := renderHistory("tcs", nil); !strings.Contains(got, "No recorded decisions for TCS") {
		t.Errorf("renderHistory = %q", got)
	}
}
