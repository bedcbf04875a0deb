// Package signal turns indicator snapshots, a sentiment score and a
// directional prediction into one trading decision.
package signal

import (
	"trading-assistant/internal/indicator"
	"trading-assistant/internal/types"
)

const (
	rsiOversold   = 30.0
	rsiOverbought = 70.0
)

// Outcome is the full result of a decision.
type Outcome struct {
	Rule     types.Decision `json:"rule"`
	Final    types.Decision `json:"final"`
	Triggers types.Triggers `json:"triggers"`
}

// Evaluate computes the technical triggers from the previous and latest
// snapshots. A condition that needs an undefined value is false.
func Evaluate(prev, latest types.Snapshot) types.Triggers {
	var t types.Triggers
	t.SMACrossUp = crossUp(prev.SMA20, prev.SMA50, latest.SMA20, latest.SMA50)
	t.SMACrossDown = crossDown(prev.SMA20, prev.SMA50, latest.SMA20, latest.SMA50)
	t.MACDCrossUp = crossUp(prev.MACD, prev.MACDSignal, latest.MACD, latest.MACDSignal)
	t.MACDCrossDown = crossDown(prev.MACD, prev.MACDSignal, latest.MACD, latest.MACDSignal)

	if p, ok := prev.RSI14.Get(); ok {
		if l, ok := latest.RSI14.Get(); ok {
			t.RSIOversold = l < rsiOversold && p <= l
			t.RSIOverbought = l > rsiOverbought && p >= l
		}
	}
	return t
}

func crossUp(pa, pb, la, lb types.Value) bool {
	vals, ok := all(pa, pb, la, lb)
	return ok && vals[0] <= vals[1] && vals[2] > vals[3]
}

func crossDown(pa, pb, la, lb types.Value) bool {
	vals, ok := all(pa, pb, la, lb)
	return ok && vals[0] >= vals[1] && vals[2] < vals[3]
}

func all(vs ...types.Value) ([]float64, bool) {
	out := make([]float64, len(vs))
	for i, v := range vs {
		f, ok := v.Get()
		if !ok {
			return nil, false
		}
		out[i] = f
	}
	return out, true
}

// Generate is the rule-based signal. The frame needs computed indicators, at
// least two bars and every indicator defined on the latest bar; otherwise the
// result is Undetermined.
func Generate(f indicator.Frame, s types.Sentiment) (types.Decision, types.Triggers) {
	prev, latest, ok := f.LastTwo()
	if !ok || !latest.Complete() {
		return types.Undetermined, types.Triggers{}
	}
	t := Evaluate(prev, latest)
	return resolve(t.Buy(), t.Sell(), s), t
}

// resolve applies the precedence. Order matters when buy and sell both fire.
func resolve(buy, sell bool, s types.Sentiment) types.Decision {
	pos, neg := s.Positive(), s.Negative()
	switch {
	case buy && pos:
		return types.Buy
	case sell && neg:
		return types.Sell
	case buy && !neg:
		return types.Buy
	case sell && !pos:
		return types.Sell
	default:
		return types.Hold
	}
}

// Fuse combines the rule signal with the predictor. A prediction that
// contradicts an actionable rule signal yields Hold.
func Fuse(rule types.Decision, p types.Prediction) types.Decision {
	switch p {
	case types.Up:
		switch rule {
		case types.Buy, types.Hold, types.Undetermined:
			return types.Buy
		default:
			return types.Hold
		}
	case types.Down:
		switch rule {
		case types.Sell, types.Hold, types.Undetermined:
			return types.Sell
		default:
			return types.Hold
		}
	default:
		return rule
	}
}

// Decide runs both steps.
func Decide(f indicator.Frame, s types.Sentiment, p types.Prediction) Outcome {
	rule, t := Generate(f, s)
	return Outcome{Rule: rule, Final: Fuse(rule, p), Triggers: t}
}
