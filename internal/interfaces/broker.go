package interfaces

import (
	"context"

	"trading-assistant/internal/types"
)

// Broker submits orders. It is only called for BUY/SELL decisions that the
// user has confirmed.
type Broker interface {
	PlaceOrder(ctx context.Context, req types.OrderReq) (types.OrderResp, error)
}
