package sentiment

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jonreiter/govader"

	"trading-assistant/internal/types"
)

// Lexicon maps a lower-case token to its mean valence.
type Lexicon map[string]float64

// DefaultLexicon returns the standard VADER lexicon.
func DefaultLexicon() (Lexicon, error) {
	lex := Lexicon(govader.NewSentimentIntensityAnalyzer().Lexicon)
	if len(lex) == 0 {
		return nil, fmt.Errorf("vader lexicon is empty: %w", types.ErrModelAbsent)
	}
	return lex, nil
}

// ParseLexicon reads tab-separated "token<TAB>valence[<TAB>...]" lines.
// Blank lines and lines starting with '#' are skipped.
func ParseLexicon(r io.Reader) (Lexicon, error) {
	lex := Lexicon{}
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Split(text, "\t")
		if len(fields) < 2 {
			return nil, fmt.Errorf("lexicon line %d: want token and valence: %w", line, types.ErrInvalidInput)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("lexicon line %d: %v: %w", line, err, types.ErrInvalidInput)
		}
		lex[strings.ToLower(strings.TrimSpace(fields[0]))] = v
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}
	return lex, nil
}
