package news

import (
	"context"
	"fmt"
	"strings"
	"time"

	"trading-assistant/internal/api"
	"trading-assistant/internal/interfaces"
	"trading-assistant/internal/logger"
	"trading-assistant/internal/types"
)

const finnhubBaseURL = "https://finnhub.io/api/v1"

var _ interfaces.NewsProvider = (*Finnhub)(nil)

// Finnhub reads company news from the Finnhub REST API.
type Finnhub struct {
	client *api.Client
	apiKey string
	now    func() time.Time
}

// finnhubNews is one item of the /company-news response.
type finnhubNews struct {
	Category string `json:"category"`
	DateTime int64  `json:"datetime"`
	Headline string `json:"headline"`
	ID       int64  `json:"id"`
	Related  string `json:"related"`
	Source   string `json:"source"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
}

// NewFinnhub creates a client. Extra options are applied after the defaults,
// so WithBaseURL can point it at a test server.
func NewFinnhub(apiKey string, opts ...api.ClientOption) *Finnhub {
	base := []api.ClientOption{
		api.WithBaseURL(finnhubBaseURL),
		api.WithTimeout(30 * time.Second),
		api.WithRetry(api.DefaultRetryConfig()),
		api.WithLogging(true),
	}
	return &Finnhub{
		client: api.NewClient(append(base, opts...)...),
		apiKey: apiKey,
		now:    time.Now,
	}
}

func (f *Finnhub) Headlines(ctx context.Context, symbol string, windowDays int) ([]types.Headline, error) {
	if f.apiKey == "" {
		return nil, fmt.Errorf("finnhub API key not configured: %w", types.ErrDataUnavailable)
	}
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("empty symbol: %w", types.ErrInvalidInput)
	}

	to := f.now().UTC()
	from := to.AddDate(0, 0, -windowDays)
	resp, err := f.client.GET(ctx, "/company-news", map[string]string{
		"symbol": symbol,
		"from":   from.Format(time.DateOnly),
		"to":     to.Format(time.DateOnly),
		"token":  f.apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("finnhub company news for %s: %w", symbol, err)
	}

	var items []finnhubNews
	if err := resp.ParseJSON(&items); err != nil {
		return nil, err
	}

	out := make([]types.Headline, 0, len(items))
	for _, it := range items {
		text := strings.TrimSpace(it.Headline)
		if text == "" {
			continue
		}
		out = append(out, types.Headline{
			Text:        text,
			Source:      it.Source,
			URL:         it.URL,
			PublishedAt: time.Unix(it.DateTime, 0).UTC(),
		})
	}
	logger.Debug(ctx, "Finnhub news fetched", "symbol", symbol, "items", len(items), "headlines", len(out))
	return out, nil
}
