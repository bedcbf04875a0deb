// Package risk derives stop-loss, target and position size for a decision.
// Every function returns 0 with a wrapped error on bad input; callers read
// 0 as "not available".
package risk

import (
	"context"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"trading-assistant/internal/logger"
	"trading-assistant/internal/types"
)

var one = decimal.NewFromInt(1)

func dec(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func invalid(ctx context.Context, op, msg string, fields ...any) error {
	err := fmt.Errorf("%s: %s: %w", op, msg, types.ErrInvalidInput)
	logger.ErrorWithErr(ctx, "Risk calculation rejected input", err, fields...)
	return err
}

// StopLoss returns the protective stop for a position entered at entry.
//
// Parameters:
//   - entry: Entry price, must be positive
//   - tolerance: A fraction of entry when 0 < tolerance < 1, otherwise an
//     absolute price offset. Must be non-negative.
//   - isLong: Long positions stop below entry, shorts above
func StopLoss(ctx context.Context, entry, tolerance float64, isLong bool) (float64, error) {
	if !finite(entry, tolerance) || entry <= 0 {
		return 0, invalid(ctx, "stop loss", "entry price must be positive", "entry", entry)
	}
	if tolerance < 0 {
		return 0, invalid(ctx, "stop loss", "risk tolerance must be non-negative", "tolerance", tolerance)
	}

	e, t := dec(entry), dec(tolerance)
	var stop decimal.Decimal
	if tolerance > 0 && tolerance < 1 {
		if isLong {
			stop = e.Mul(one.Sub(t))
		} else {
			stop = e.Mul(one.Add(t))
		}
	} else {
		if isLong {
			stop = e.Sub(t)
		} else {
			stop = e.Add(t)
		}
	}
	return stop.InexactFloat64(), nil
}

// TargetProfit returns entry moved by factor in the direction of the trade.
// factor is a fraction of entry and must be positive.
func TargetProfit(ctx context.Context, entry, factor float64, isLong bool) (float64, error) {
	if !finite(entry, factor) || entry <= 0 {
		return 0, invalid(ctx, "target profit", "entry price must be positive", "entry", entry)
	}
	if factor <= 0 {
		return 0, invalid(ctx, "target profit", "target factor must be positive", "factor", factor)
	}

	e, f := dec(entry), dec(factor)
	if isLong {
		return e.Mul(one.Add(f)).InexactFloat64(), nil
	}
	return e.Mul(one.Sub(f)).InexactFloat64(), nil
}

// PositionSize is the share count that risks riskPct of capital between
// entry and stop.
//
// Returns:
//   - shares: capital*riskPct / |entry-stop|, fractional
//   - err: ErrInvalidInput for out-of-range arguments, ErrComputationDegenerate
//     when stop equals entry
func PositionSize(ctx context.Context, capital, riskPct, stop, entry float64) (float64, error) {
	switch {
	case !finite(capital, riskPct, stop, entry):
		return 0, invalid(ctx, "position size", "arguments must be finite")
	case capital <= 0:
		return 0, invalid(ctx, "position size", "capital must be positive", "capital", capital)
	case riskPct <= 0 || riskPct > 1:
		return 0, invalid(ctx, "position size", "risk percentage must be in (0, 1]", "risk_pct", riskPct)
	case stop <= 0:
		return 0, invalid(ctx, "position size", "stop-loss must be positive", "stop", stop)
	case entry <= 0:
		return 0, invalid(ctx, "position size", "entry price must be positive", "entry", entry)
	}

	perShare := dec(entry).Sub(dec(stop)).Abs()
	if perShare.IsZero() {
		err := fmt.Errorf("position size: stop-loss equals entry %v: %w", entry, types.ErrComputationDegenerate)
		logger.ErrorWithErr(ctx, "Risk per share is zero", err, "entry", entry, "stop", stop)
		return 0, err
	}
	return dec(capital).Mul(dec(riskPct)).Div(perShare).InexactFloat64(), nil
}
