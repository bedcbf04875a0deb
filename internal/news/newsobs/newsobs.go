package newsobs

import (
	"context"

	"trading-assistant/internal/interfaces"
	"trading-assistant/internal/logger"
	"trading-assistant/internal/trace"
	"trading-assistant/internal/types"
)

// observableNews wraps a NewsProvider with observability (logging & tracing)
type observableNews struct {
	name     string
	provider interfaces.NewsProvider
}

// Compile-time interface check
var _ interfaces.NewsProvider = (*observableNews)(nil)

// Wrap wraps a news provider with observability middleware
func Wrap(name string, p interfaces.NewsProvider) interfaces.NewsProvider {
	return &observableNews{name: name, provider: p}
}

func (o *observableNews) Headlines(ctx context.Context, symbol string, windowDays int) ([]types.Headline, error) {
	ctx, span := trace.StartSpan(ctx, "news.Headlines")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching headlines", "provider", o.name, "symbol", symbol, "window_days", windowDays)

	heads, err := o.provider.Headlines(ctx, symbol, windowDays)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch headlines", err, "provider", o.name, "symbol", symbol)
		return nil, err
	}

	logger.DebugSkip(ctx, 1, "Headlines fetched", "provider", o.name, "symbol", symbol, "count", len(heads))
	return heads, nil
}
