package sentiment

import (
	"context"

	"trading-assistant/internal/logger"
	"trading-assistant/internal/types"
)

// MaxHeadlines is the most headlines that contribute to a batch score.
const MaxHeadlines = 10

// Aggregate is the mean compound over at most the first MaxHeadlines
// polarities. An empty batch is 0.
func Aggregate(ps []Polarity) float64 {
	if len(ps) > MaxHeadlines {
		ps = ps[:MaxHeadlines]
	}
	if len(ps) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range ps {
		sum += p.Compound
	}
	return sum / float64(len(ps))
}

// Score analyses the first MaxHeadlines texts and aggregates them. Texts the
// analyzer rejects are logged and skipped.
func (a *Analyzer) Score(ctx context.Context, texts []string) types.Sentiment {
	if len(texts) > MaxHeadlines {
		texts = texts[:MaxHeadlines]
	}
	ps := make([]Polarity, 0, len(texts))
	for i, t := range texts {
		p, err := a.PolarityScores(t)
		if err != nil {
			logger.Warn(ctx, "Skipping headline", "index", i, "error", err)
			continue
		}
		ps = append(ps, p)
	}
	return types.Sentiment{Compound: Aggregate(ps), Count: len(ps)}
}
