package interfaces

import (
	"context"

	"trading-assistant/internal/predictor"
)

// ModelStore persists the trained classifier. Load returns
// types.ErrModelAbsent when nothing has been saved yet.
type ModelStore interface {
	Load(ctx context.Context) (*predictor.Model, error)
	Save(ctx context.Context, m *predictor.Model) error
}
