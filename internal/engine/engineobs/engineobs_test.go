package engineobs

import (
	"context"
	"errors"
	"testing"

	"trading-assistant/internal/predictor"
	"trading-assistant/internal/types"
)

type stubEngine struct {
	err error
}

func (s stubEngine) Analyze(_ context.Context, symbol string) (*types.Analysis, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &types.Analysis{Symbol: symbol, Decision: types.Hold}, nil
}

func (s stubEngine) Submit(_ context.Context, a *types.Analysis) (types.OrderResp, error) {
	if s.err != nil {
		return types.OrderResp{}, s.err
	}
	return types.OrderResp{OrderID: "SIM-1"}, nil
}

func (s stubEngine) Retrain(context.Context, string) (*predictor.Model, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &predictor.Model{Accuracy: 0.55}, nil
}

func TestWrapPassesThrough(t *testing.T) {
	ctx := context.Background()
	eng := Wrap(stubEngine{})

	a, err := eng.Analyze(ctx, "INFY")
	if err != nil || a.Symbol != "INFY" {
		t.Fatalf("Analyze = %+v, %v", a, err)
	}
	if resp, err := eng.Submit(ctx, a); err != nil || resp.OrderID != "SIM-1" {
		t.Errorf("Submit = %+v, %v", resp, err)
	}
	if m, err := eng.Retrain(ctx, "INFY"); err != nil || m.Accuracy != 0.55 {
		t.Errorf("Retrain = %+v, %v", m, err)
	}
}

func TestWrapReturnsErrors(t *testing.T) {
	ctx := context.Background()
	eng := Wrap(stubEngine{err: types.ErrDataUnavailable})

	if _, err := eng.Analyze(ctx, "INFY"); !errors.Is(err, types.ErrDataUnavailable) {
		t.Errorf("Analyze err = %v", err)
	}
	if _, err := eng.Submit(ctx, &types.Analysis{}); !errors.Is(err, types.ErrDataUnavailable) {
		t.Errorf("Submit err = %v", err)
	}
	if _, err := eng.Retrain(ctx, "INFY"); !errors.Is(err, types.ErrDataUnavailable) {
		t.Errorf("Retrain err = %v", err)
	}
}
