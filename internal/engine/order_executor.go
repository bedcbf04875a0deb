package engine

import (
	"context"
	"fmt"

	"trading-assistant/internal/interfaces"
	"trading-assistant/internal/logger"
	"trading-assistant/internal/types"
)

// orderExecutor handles order placement and the decision/trade logs.
type orderExecutor struct {
	broker   interfaces.Broker
	journal  Journal
	recorder interfaces.Recorder
	tag      string
}

func newOrderExecutor(broker interfaces.Broker, journal Journal, recorder interfaces.Recorder, tag string) *orderExecutor {
	return &orderExecutor{
		broker:   broker,
		journal:  journal,
		recorder: recorder,
		tag:      tag,
	}
}

// place submits a market order and logs it. Logging failures do not fail
// the order.
func (oe *orderExecutor) place(ctx context.Context, symbol, side string, qty int, price float64) (types.OrderResp, error) {
	if oe.broker == nil {
		return types.OrderResp{}, fmt.Errorf("no broker configured: %w", types.ErrInvalidInput)
	}
	req := types.OrderReq{
		Symbol: symbol,
		Side:   side,
		Qty:    qty,
		Tag:    oe.tag,
	}

	resp, err := oe.broker.PlaceOrder(ctx, req)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to place order", err,
			"symbol", symbol,
			"side", side,
			"qty", qty,
			"price", price,
		)
		return types.OrderResp{}, err
	}

	if oe.journal != nil {
		if err := oe.journal.AppendOrder(req, resp); err != nil {
			logger.ErrorWithErr(ctx, "Failed to journal order", err, "order_id", resp.OrderID)
		}
	}
	if oe.recorder != nil {
		if err := oe.recorder.RecordOrder(ctx, req, resp); err != nil {
			logger.ErrorWithErr(ctx, "Failed to record order", err, "order_id", resp.OrderID)
		}
	}

	return resp, nil
}

// logDecision writes the analysis to the journal and the history store.
func (oe *orderExecutor) logDecision(ctx context.Context, a *types.Analysis) {
	if oe.journal != nil {
		if err := oe.journal.AppendDecision(a); err != nil {
			logger.ErrorWithErr(ctx, "Failed to journal decision", err, "symbol", a.Symbol)
		}
	}
	if oe.recorder != nil {
		if err := oe.recorder.RecordAnalysis(ctx, a); err != nil {
			logger.ErrorWithErr(ctx, "Failed to record decision", err, "symbol", a.Symbol)
		}
	}
}
