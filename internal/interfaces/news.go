package interfaces

import (
	"context"

	"trading-assistant/internal/types"
)

// NewsProvider returns headlines published in the last windowDays days.
type NewsProvider interface {
	Headlines(ctx context.Context, symbol string, windowDays int) ([]types.Headline, error)
}
