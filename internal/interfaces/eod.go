package interfaces

import (
	"context"
	"time"
)

// EodSummarizer writes a per-symbol CSV of one day's decisions and orders.
// An empty path with a nil error means nothing was journaled that day.
type EodSummarizer interface {
	SummarizeDay(ctx context.Context, day time.Time) (csvPath string, err error)
	SummarizeToday(ctx context.Context) (csvPath string, err error)
}
