// Package indicator turns a price history into per-bar indicator snapshots
// and classifies the market regime from the latest one.
package indicator

import (
	"context"
	"fmt"
	"math"

	"trading-assistant/internal/logger"
	"trading-assistant/internal/ta"
	"trading-assistant/internal/types"
)

// Params are the indicator periods. The zero value is not usable; start
// from DefaultParams.
type Params struct {
	RSIPeriod  int
	MACDFast   int
	MACDSlow   int
	MACDSignal int
	SMAFast    int
	SMASlow    int
}

// DefaultParams is RSI(14), MACD(12,26,9), SMA(20) and SMA(50).
func DefaultParams() Params {
	return Params{
		RSIPeriod:  14,
		MACDFast:   12,
		MACDSlow:   26,
		MACDSignal: 9,
		SMAFast:    20,
		SMASlow:    50,
	}
}

// MinMomentumBars is the shortest history for which RSI and MACD are
// computed at all.
func (p Params) MinMomentumBars() int { return p.MACDSlow }

// Frame is a price history with its indicator snapshots. Computed is false
// when indicators could not be produced; Snapshots is then nil.
type Frame struct {
	Bars      []types.PriceBar
	Snapshots []types.Snapshot
	Computed  bool
}

// Len is the number of bars.
func (f Frame) Len() int { return len(f.Bars) }

// Latest returns the last snapshot and close.
func (f Frame) Latest() (types.Snapshot, float64, bool) {
	if !f.Computed || len(f.Snapshots) == 0 || len(f.Bars) == 0 {
		return types.Snapshot{}, 0, false
	}
	return f.Snapshots[len(f.Snapshots)-1], f.Bars[len(f.Bars)-1].Close, true
}

// LastTwo returns the previous and latest snapshots.
func (f Frame) LastTwo() (prev, latest types.Snapshot, ok bool) {
	n := len(f.Snapshots)
	if !f.Computed || n < 2 {
		return types.Snapshot{}, types.Snapshot{}, false
	}
	return f.Snapshots[n-2], f.Snapshots[n-1], true
}

// Closes returns the close series.
func (f Frame) Closes() []float64 {
	out := make([]float64, len(f.Bars))
	for i, b := range f.Bars {
		out[i] = b.Close
	}
	return out
}

// Compute runs Params on bars. See ComputeWith.
func Compute(ctx context.Context, bars []types.PriceBar) (Frame, error) {
	return ComputeWith(ctx, bars, DefaultParams())
}

// ComputeWith derives one Snapshot per bar. An empty history or a bar with a
// non-finite field fails with ErrInvalidInput; the returned Frame then holds
// the input bars with Computed=false.
func ComputeWith(ctx context.Context, bars []types.PriceBar, p Params) (f Frame, err error) {
	f = Frame{Bars: bars}
	if len(bars) == 0 {
		logger.Warn(ctx, "No price history to compute indicators on")
		return f, fmt.Errorf("compute indicators: empty history: %w", types.ErrInvalidInput)
	}
	for i, b := range bars {
		if !finite(b.Open, b.High, b.Low, b.Close, b.Volume) {
			logger.Error(ctx, "Price bar has missing fields", "index", i, "time", b.Time)
			return f, fmt.Errorf("compute indicators: bar %d has non-finite OHLCV: %w", i, types.ErrInvalidInput)
		}
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error(ctx, "Indicator computation panicked", "panic", r)
			f = Frame{Bars: bars}
			err = fmt.Errorf("compute indicators: %v: %w", r, types.ErrComputationDegenerate)
		}
	}()

	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}

	n := len(bars)
	smaFast := ta.SMA(closes, p.SMAFast)
	smaSlow := ta.SMA(closes, p.SMASlow)

	var rsi, line, sig, hist []float64
	if n >= p.MinMomentumBars() {
		rsi = ta.RSI(closes, p.RSIPeriod)
		line, sig, hist = ta.MACD(closes, p.MACDFast, p.MACDSlow, p.MACDSignal)
	} else {
		logger.Debug(ctx, "History too short for momentum indicators", "bars", n, "min", p.MinMomentumBars())
	}

	snaps := make([]types.Snapshot, n)
	for i := range snaps {
		s := types.Snapshot{
			SMA20: types.Of(smaFast[i]),
			SMA50: types.Of(smaSlow[i]),
		}
		if rsi != nil {
			s.RSI14 = types.Of(rsi[i])
			s.MACD = types.Of(line[i])
			s.MACDSignal = types.Of(sig[i])
			s.MACDHist = types.Of(hist[i])
		}
		snaps[i] = s
	}

	f.Snapshots = snaps
	f.Computed = true
	return f, nil
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
