package brokerobs

import (
	"context"

	"trading-assistant/internal/interfaces"
	"trading-assistant/internal/logger"
	"trading-assistant/internal/trace"
	"trading-assistant/internal/types"
)

type observableBroker struct {
	broker interfaces.Broker
}

var _ interfaces.Broker = (*observableBroker)(nil)

func Wrap(broker interfaces.Broker) interfaces.Broker {
	return &observableBroker{
		broker: broker,
	}
}

// PlaceOrder records every submission attempt as a risk event, since it is
// the only call that can move money.
func (ob *observableBroker) PlaceOrder(ctx context.Context, req types.OrderReq) (types.OrderResp, error) {
	ctx, span := trace.StartSpan(ctx, "broker.PlaceOrder")
	defer span.End()

	op := logger.StartOperation(ctx, "broker.PlaceOrder",
		"symbol", req.Symbol,
		"side", req.Side,
		"qty", req.Qty,
	)

	resp, err := ob.broker.PlaceOrder(ctx, req)
	if err != nil {
		op.EndWithError(err, "tag", req.Tag)
		logger.Risk(ctx, req.Symbol, "ORDER_REJECTED", "side", req.Side, "qty", req.Qty, "error", err.Error())
		return types.OrderResp{}, err
	}
	op.End("order_id", resp.OrderID, "status", resp.Status)

	logger.Risk(ctx, req.Symbol, "ORDER_"+resp.Status,
		"side", req.Side,
		"qty", req.Qty,
		"order_id", resp.OrderID,
	)
	return resp, nil
}
