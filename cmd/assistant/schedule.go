package main

import (
	"context"

	"github.com/robfig/cron/v3"

	"trading-assistant/internal/logger"
)

// cronLogger routes scheduler messages into the structured log.
type cronLogger struct {
	ctx context.Context
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	logger.Debug(l.ctx, "cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	logger.ErrorWithErr(l.ctx, "cron: "+msg, err, keysAndValues...)
}

// newScheduler returns a cron whose jobs never overlap themselves: a tick
// that fires while the previous run of the same job is still going is
// dropped.
func newScheduler(ctx context.Context) *cron.Cron {
	l := cronLogger{ctx: ctx}
	return cron.New(
		cron.WithLogger(l),
		cron.WithChain(cron.Recover(l), cron.SkipIfStillRunning(l)),
	)
}
