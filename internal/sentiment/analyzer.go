// Package sentiment scores news headlines with VADER.
package sentiment

import (
	"fmt"
	"strings"

	"github.com/jonreiter/govader"

	"trading-assistant/internal/types"
)

// Polarity is the VADER score of one text.
type Polarity struct {
	Negative float64 `json:"neg"`
	Neutral  float64 `json:"neu"`
	Positive float64 `json:"pos"`
	Compound float64 `json:"compound"`
}

// Analyzer scores text against a fixed lexicon. It is safe for concurrent
// use.
type Analyzer struct {
	sia *govader.SentimentIntensityAnalyzer
}

// NewAnalyzer returns an Analyzer over lex. The VADER booster, negation and
// idiom rules are the library's own.
func NewAnalyzer(lex Lexicon) *Analyzer {
	sia := govader.NewSentimentIntensityAnalyzer()
	sia.Lexicon = lex
	return &Analyzer{sia: sia}
}

// Entries is the size of the lexicon in use.
func (a *Analyzer) Entries() int {
	return len(a.sia.Lexicon)
}

// PolarityScores scores one text. Empty or whitespace-only text fails with
// ErrInvalidInput.
func (a *Analyzer) PolarityScores(text string) (Polarity, error) {
	if strings.TrimSpace(text) == "" {
		return Polarity{}, fmt.Errorf("polarity scores: empty text: %w", types.ErrInvalidInput)
	}
	s := a.sia.PolarityScores(text)
	return Polarity{
		Negative: s.Negative,
		Neutral:  s.Neutral,
		Positive: s.Positive,
		Compound: s.Compound,
	}, nil
}
