package recorder

import (
	"context"

	"trading-assistant/internal/types"
)

// NoopRecorder is used when no history database is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordAnalysis(_ context.Context, _ *types.Analysis) error { return nil }
func (n *NoopRecorder) RecordOrder(_ context.Context, _ types.OrderReq, _ types.OrderResp) error {
	return nil
}
func (n *NoopRecorder) Recent(_ context.Context, _ string, _ int) ([]types.DecisionRecord, error) {
	return nil, nil
}
func (n *NoopRecorder) Close() error { return nil }
