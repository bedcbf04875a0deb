package marketdata

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"strings"
	"time"

	"trading-assistant/internal/types"
)

// Static generates a reproducible random-walk history per symbol. It backs
// the STATIC data source used for demos and offline runs.
type Static struct {
	// Start is the price of the first generated bar. Zero means 100.
	Start float64
	// Drift and Vol are daily log-return mean and deviation.
	Drift, Vol float64
}

func NewStatic() *Static {
	return &Static{Start: 100, Drift: 0.0004, Vol: 0.015}
}

func seedFor(symbol string) int64 {
	h := fnv.New64a()
	h.Write([]byte(strings.ToUpper(symbol)))
	return int64(h.Sum64() & math.MaxInt64)
}

// History returns one bar per weekday in [start, end]. The same symbol and
// range always produce the same bars.
func (s *Static) History(ctx context.Context, symbol string, start, end time.Time) ([]types.PriceBar, error) {
	if strings.TrimSpace(symbol) == "" {
		return nil, fmt.Errorf("empty symbol: %w", types.ErrInvalidInput)
	}
	price := s.Start
	if price <= 0 {
		price = 100
	}
	rng := rand.New(rand.NewSource(seedFor(symbol)))

	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	var bars []types.PriceBar
	for !day.After(end) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if wd := day.Weekday(); wd != time.Saturday && wd != time.Sunday {
			open := price
			price *= math.Exp(s.Drift + s.Vol*rng.NormFloat64())
			spread := price * s.Vol * rng.Float64()
			bars = append(bars, types.PriceBar{
				Time:   day,
				Open:   open,
				High:   math.Max(open, price) + spread,
				Low:    math.Min(open, price) - spread,
				Close:  price,
				Volume: float64(100_000 + rng.Intn(900_000)),
			})
		}
		day = day.AddDate(0, 0, 1)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("no weekdays between %s and %s: %w",
			start.Format(time.DateOnly), end.Format(time.DateOnly), types.ErrDataUnavailable)
	}
	return bars, nil
}
