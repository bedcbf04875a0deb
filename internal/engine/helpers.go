package engine

import (
	"time"

	"trading-assistant/internal/ta"
	"trading-assistant/internal/types"
)

// historyWindow is [now - days, now] in UTC.
func historyWindow(now time.Time, days int) (start, end time.Time) {
	end = now.UTC()
	return end.AddDate(0, 0, -days), end
}

func atrValue(bars []types.PriceBar, period int) types.Value {
	highs := make([]float64, len(bars))
	lows := make([]float64, len(bars))
	closes := make([]float64, len(bars))

	for i, b := range bars {
		highs[i] = b.High
		lows[i] = b.Low
		closes[i] = b.Close
	}

	return types.Of(ta.ATR(highs, lows, closes, period))
}
