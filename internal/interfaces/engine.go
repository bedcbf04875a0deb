package interfaces

import (
	"context"

	"trading-assistant/internal/predictor"
	"trading-assistant/internal/types"
)

type Engine interface {
	Analyze(ctx context.Context, symbol string) (*types.Analysis, error)
	Submit(ctx context.Context, a *types.Analysis) (types.OrderResp, error)
	Retrain(ctx context.Context, symbol string) (*predictor.Model, error)
}
