// Package predictor maps the latest indicator snapshot to a next-bar
// direction using a trained binary classifier.
package predictor

import (
	"context"

	"trading-assistant/internal/indicator"
	"trading-assistant/internal/logger"
	"trading-assistant/internal/types"
)

// FeatureNames is the order of the feature vector.
var FeatureNames = []string{"rsi14", "macd", "macd_hist", "macd_signal", "sma20", "sma50"}

// Classifier answers whether a feature vector points up.
type Classifier interface {
	PredictUp(features []float64) bool
}

// Features returns the feature vector for s, or false if any feature is
// undefined.
func Features(s types.Snapshot) ([]float64, bool) {
	vals := []types.Value{s.RSI14, s.MACD, s.MACDHist, s.MACDSignal, s.SMA20, s.SMA50}
	out := make([]float64, len(vals))
	for i, v := range vals {
		f, ok := v.Get()
		if !ok {
			return nil, false
		}
		out[i] = f
	}
	return out, true
}

// Predict returns Up or Down for s, or Unavailable when c is nil, a feature
// is undefined, or the classifier panics.
func Predict(ctx context.Context, c Classifier, s types.Snapshot) (p types.Prediction) {
	if c == nil {
		logger.Warn(ctx, "No classifier available; prediction skipped")
		return types.Unavailable
	}
	x, ok := Features(s)
	if !ok {
		logger.Info(ctx, "Latest snapshot has undefined features; prediction skipped")
		return types.Unavailable
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error(ctx, "Classifier panicked", "panic", r)
			p = types.Unavailable
		}
	}()
	if c.PredictUp(x) {
		return types.Up
	}
	return types.Down
}

// Row is one training example.
type Row struct {
	Features []float64
	Up       bool
}

// Dataset builds rows labelled with whether the next close is higher. Rows
// with undefined features and the final bar (no next close) are dropped.
func Dataset(f indicator.Frame) []Row {
	if !f.Computed {
		return nil
	}
	rows := make([]Row, 0, len(f.Snapshots))
	for i := 0; i+1 < len(f.Snapshots) && i+1 < len(f.Bars); i++ {
		x, ok := Features(f.Snapshots[i])
		if !ok {
			continue
		}
		rows = append(rows, Row{Features: x, Up: f.Bars[i+1].Close > f.Bars[i].Close})
	}
	return rows
}
