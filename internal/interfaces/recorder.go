package interfaces

import (
	"context"

	"trading-assistant/internal/types"
)

// Recorder keeps a queryable history of analyses and orders.
type Recorder interface {
	RecordAnalysis(ctx context.Context, a *types.Analysis) error
	RecordOrder(ctx context.Context, req types.OrderReq, resp types.OrderResp) error
	Recent(ctx context.Context, symbol string, limit int) ([]types.DecisionRecord, error)
	Close() error
}
