package engineobs

import (
	"context"
	"time"

	"trading-assistant/internal/interfaces"
	"trading-assistant/internal/logger"
	"trading-assistant/internal/predictor"
	"trading-assistant/internal/trace"
	"trading-assistant/internal/types"
)

type observableEngine struct {
	engine interfaces.Engine
}

var _ interfaces.Engine = (*observableEngine)(nil)

func Wrap(eng interfaces.Engine) interfaces.Engine {
	return &observableEngine{
		engine: eng,
	}
}

func (oe *observableEngine) Analyze(ctx context.Context, symbol string) (*types.Analysis, error) {
	ctx, span := trace.StartSpan(ctx, "engine.Analyze")
	defer span.End()

	start := time.Now()

	logger.InfoSkip(ctx, 1, "Starting analysis",
		"symbol", symbol,
	)

	a, err := oe.engine.Analyze(ctx, symbol)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Analysis failed", err,
			"symbol", symbol,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	trace.Annotate(ctx,
		"symbol", a.Symbol,
		"decision", string(a.Decision),
		"regime", string(a.Regime),
	)
	logger.InfoSkip(ctx, 1, "Analysis completed",
		"symbol", symbol,
		"decision", a.Decision,
		"regime", a.Regime,
		"prediction", a.Prediction,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return a, nil
}

func (oe *observableEngine) Submit(ctx context.Context, a *types.Analysis) (types.OrderResp, error) {
	ctx, span := trace.StartSpan(ctx, "engine.Submit")
	defer span.End()

	resp, err := oe.engine.Submit(ctx, a)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Order submission failed", err)
		return types.OrderResp{}, err
	}

	logger.InfoSkip(ctx, 1, "Order submitted",
		"symbol", a.Symbol,
		"decision", a.Decision,
		"order_id", resp.OrderID,
		"status", resp.Status,
	)
	return resp, nil
}

func (oe *observableEngine) Retrain(ctx context.Context, symbol string) (*predictor.Model, error) {
	ctx, span := trace.StartSpan(ctx, "engine.Retrain")
	defer span.End()

	start := time.Now()

	m, err := oe.engine.Retrain(ctx, symbol)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Retrain failed", err,
			"symbol", symbol,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "Retrain completed",
		"symbol", symbol,
		"accuracy", m.Accuracy,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return m, nil
}
