// Package marketdata provides daily price history.
package marketdata

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"

	"trading-assistant/internal/interfaces"
	"trading-assistant/internal/logger"
	"trading-assistant/internal/types"
)

var (
	_ interfaces.MarketData = (*Yahoo)(nil)
	_ interfaces.MarketData = (*Static)(nil)
)

// Yahoo reads daily bars from the Yahoo Finance chart endpoint.
type Yahoo struct {
	// Suffix is appended to bare symbols, e.g. ".NS" for NSE listings.
	Suffix string
}

func NewYahoo(suffix string) *Yahoo {
	return &Yahoo{Suffix: suffix}
}

func (y *Yahoo) symbol(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if y.Suffix != "" && !strings.Contains(s, ".") && !strings.HasPrefix(s, "^") {
		s += y.Suffix
	}
	return s
}

func (y *Yahoo) History(ctx context.Context, symbol string, start, end time.Time) ([]types.PriceBar, error) {
	if strings.TrimSpace(symbol) == "" {
		return nil, fmt.Errorf("empty symbol: %w", types.ErrInvalidInput)
	}
	if !end.After(start) {
		return nil, fmt.Errorf("end %s not after start %s: %w", end.Format(time.DateOnly), start.Format(time.DateOnly), types.ErrInvalidInput)
	}
	sym := y.symbol(symbol)

	timer := logger.StartOperation(ctx, "yahoo_history", "symbol", sym)
	params := &chart.Params{
		Symbol:   sym,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	}
	iter := chart.Get(params)

	bars := make([]types.PriceBar, 0, 256)
	skipped := 0
	for iter.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b := iter.Bar()
		bar := types.PriceBar{
			Time:   time.Unix(int64(b.Timestamp), 0).UTC(),
			Open:   b.Open.InexactFloat64(),
			High:   b.High.InexactFloat64(),
			Low:    b.Low.InexactFloat64(),
			Close:  b.Close.InexactFloat64(),
			Volume: float64(b.Volume),
		}
		// Yahoo reports halted sessions as all-zero rows.
		if bar.Close <= 0 {
			skipped++
			continue
		}
		bars = append(bars, bar)
	}
	if err := iter.Err(); err != nil {
		timer.EndWithError(err)
		return nil, fmt.Errorf("yahoo history for %s: %v: %w", sym, err, types.ErrDataUnavailable)
	}
	if len(bars) == 0 {
		err := fmt.Errorf("no bars for %s: %w", sym, types.ErrDataUnavailable)
		timer.EndWithError(err)
		return nil, err
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	timer.End("bars", len(bars), "skipped", skipped)
	return bars, nil
}
