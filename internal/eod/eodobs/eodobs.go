package eodobs

import (
	"context"
	"time"

	"trading-assistant/internal/interfaces"
	"trading-assistant/internal/logger"
	"trading-assistant/internal/trace"
)

type observableEodSummarizer struct {
	summarizer interfaces.EodSummarizer
}

var _ interfaces.EodSummarizer = (*observableEodSummarizer)(nil)

func Wrap(summarizer interfaces.EodSummarizer) interfaces.EodSummarizer {
	return &observableEodSummarizer{
		summarizer: summarizer,
	}
}

func (oes *observableEodSummarizer) SummarizeDay(ctx context.Context, day time.Time) (string, error) {
	ctx, span := trace.StartSpan(ctx, "eod.SummarizeDay")
	defer span.End()

	return oes.report(ctx, day.Format(time.DateOnly), func() (string, error) {
		return oes.summarizer.SummarizeDay(ctx, day)
	})
}

func (oes *observableEodSummarizer) SummarizeToday(ctx context.Context) (string, error) {
	ctx, span := trace.StartSpan(ctx, "eod.SummarizeToday")
	defer span.End()

	return oes.report(ctx, "today", func() (string, error) {
		return oes.summarizer.SummarizeToday(ctx)
	})
}

func (oes *observableEodSummarizer) report(ctx context.Context, date string, fn func() (string, error)) (string, error) {
	logger.InfoSkip(ctx, 2, "Starting EOD summary generation", "date", date)

	csvPath, err := fn()
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 2, "EOD summary generation failed", err, "date", date)
		return "", err
	}
	if csvPath == "" {
		logger.InfoSkip(ctx, 2, "Nothing journaled for EOD summary", "date", date)
		return "", nil
	}

	logger.InfoSkip(ctx, 2, "EOD summary generated successfully",
		"date", date,
		"csv_path", csvPath,
	)
	return csvPath, nil
}
