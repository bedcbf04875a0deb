package risk

import (
	"context"
	"fmt"

	"trading-assistant/internal/logger"
	"trading-assistant/internal/types"
)

// Params configure plan construction.
type Params struct {
	Capital float64
	// RiskPct is both the stop distance (as a fraction of entry) and the
	// share of capital put at risk.
	RiskPct float64
	// TargetMultiple scales RiskPct into the target distance.
	TargetMultiple float64
}

// DefaultParams: 10 000 capital, 1% risk, 2:1 reward.
func DefaultParams() Params {
	return Params{Capital: 10000, RiskPct: 0.01, TargetMultiple: 2}
}

// Validate checks ranges.
func (p Params) Validate() error {
	if p.Capital <= 0 {
		return fmt.Errorf("capital must be positive, got %v: %w", p.Capital, types.ErrInvalidInput)
	}
	if p.RiskPct <= 0 || p.RiskPct > 1 {
		return fmt.Errorf("risk percentage must be in (0, 1], got %v: %w", p.RiskPct, types.ErrInvalidInput)
	}
	if p.TargetMultiple <= 0 {
		return fmt.Errorf("target multiple must be positive, got %v: %w", p.TargetMultiple, types.ErrInvalidInput)
	}
	return nil
}

// Calculator builds risk plans.
type Calculator struct {
	params Params
}

// NewCalculator validates p.
func NewCalculator(p Params) (*Calculator, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Calculator{params: p}, nil
}

func (c *Calculator) Params() Params { return c.params }

// Plan computes the plan for entering at entry on decision d. Only BUY is
// long; every other decision is planned as a short. Failed components are
// left at 0, so the plan is always returned.
func (c *Calculator) Plan(ctx context.Context, symbol string, d types.Decision, entry float64) types.RiskPlan {
	p := c.params
	plan := types.RiskPlan{EntryPrice: entry, IsLong: d == types.Buy}

	stop, err := StopLoss(ctx, entry, p.RiskPct, plan.IsLong)
	if err == nil {
		plan.StopLoss = stop
	}
	target, err := TargetProfit(ctx, entry, p.RiskPct*p.TargetMultiple, plan.IsLong)
	if err == nil {
		plan.TargetProfit = target
	}
	size, err := PositionSize(ctx, p.Capital, p.RiskPct, plan.StopLoss, entry)
	if err == nil {
		plan.PositionSize = size
	}

	if !plan.Sizable() {
		logger.Risk(ctx, symbol, "SIZING_UNAVAILABLE", "entry", entry, "stop", plan.StopLoss, "decision", d)
	}
	return plan
}
