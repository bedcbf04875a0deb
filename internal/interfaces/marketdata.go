package interfaces

import (
	"context"
	"time"

	"trading-assistant/internal/types"
)

// MarketData returns chronological daily bars in [start, end]. An empty
// result is reported as types.ErrDataUnavailable.
type MarketData interface {
	History(ctx context.Context, symbol string, start, end time.Time) ([]types.PriceBar, error)
}
