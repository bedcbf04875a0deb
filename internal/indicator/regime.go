package indicator

import (
	"context"
	"fmt"
	"math"

	"trading-assistant/internal/logger"
	"trading-assistant/internal/types"
)

const (
	rangeRSILow    = 40.0
	rangeRSIHigh   = 60.0
	rangeMaxSpread = 0.02
)

// Classify labels the regime from the latest snapshot and close. It never
// fails; anything that cannot be decided is RegimeUndetermined.
func Classify(ctx context.Context, f Frame) (r types.Regime) {
	defer func() {
		if p := recover(); p != nil {
			logger.Error(ctx, "Regime classification panicked", "panic", p)
			r = types.RegimeUndetermined
		}
	}()

	s, last, ok := f.Latest()
	if !ok {
		logger.Warn(ctx, "No indicator data for regime classification")
		return types.RegimeUndetermined
	}
	return classify(ctx, s, last)
}

func classify(ctx context.Context, s types.Snapshot, last float64) types.Regime {
	sma20, ok20 := s.SMA20.Get()
	sma50, ok50 := s.SMA50.Get()
	hist, okHist := s.MACDHist.Get()

	if ok20 && ok50 {
		switch {
		case sma20 > sma50 && last > sma20:
			if !okHist || hist > 0 {
				return types.TrendingUp
			}
		case sma20 < sma50 && last < sma20:
			if !okHist || hist < 0 {
				return types.TrendingDown
			}
		}
	}

	rsi, okRSI := s.RSI14.Get()
	if !okRSI || rsi <= rangeRSILow || rsi >= rangeRSIHigh {
		return types.RegimeUndetermined
	}
	if !ok20 || !ok50 || sma50 == 0 {
		err := fmt.Errorf("regime spread: sma50=%s: %w", s.SMA50, types.ErrComputationDegenerate)
		logger.ErrorWithErr(ctx, "Cannot measure SMA spread", err)
		return types.RegimeUndetermined
	}
	if math.Abs(sma20-sma50)/sma50 < rangeMaxSpread {
		return types.RangeBound
	}
	return types.RegimeUndetermined
}
