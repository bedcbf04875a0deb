// Package ta holds series indicator math. Every function returns a slice
// aligned with its input; positions inside the warm-up window hold NaN.
package ta

import "math"

func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// SMA is the rolling arithmetic mean over n values. Out[i] is defined from
// i = n-1. A NaN inside the window makes that position NaN.
func SMA(vals []float64, n int) []float64 {
	out := nanSeries(len(vals))
	if n <= 0 || len(vals) < n {
		return out
	}
	for i := n - 1; i < len(vals); i++ {
		sum := 0.0
		for j := i - n + 1; j <= i; j++ {
			sum += vals[j]
		}
		out[i] = sum / float64(n)
	}
	return out
}

// EMA with alpha = 2/(n+1), seeded by the SMA of the first n defined values.
// Leading NaNs are skipped so the function can be applied to a series that is
// itself the output of another indicator.
func EMA(vals []float64, n int) []float64 {
	out := nanSeries(len(vals))
	if n <= 0 {
		return out
	}
	start := 0
	for start < len(vals) && math.IsNaN(vals[start]) {
		start++
	}
	if len(vals)-start < n {
		return out
	}

	seed := 0.0
	for i := start; i < start+n; i++ {
		seed += vals[i]
	}
	prev := seed / float64(n)
	out[start+n-1] = prev

	alpha := 2.0 / float64(n+1)
	for i := start + n; i < len(vals); i++ {
		prev = alpha*vals[i] + (1-alpha)*prev
		out[i] = prev
	}
	return out
}

// RSI with Wilder smoothing. The first average gain/loss is the simple mean of
// the first period changes, so out[period] is the first defined value.
func RSI(closes []float64, period int) []float64 {
	out := nanSeries(len(closes))
	if period <= 0 || len(closes) < period+1 {
		return out
	}

	gain, loss := 0.0, 0.0
	for i := 1; i <= period; i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	avgGain := gain / float64(period)
	avgLoss := loss / float64(period)
	out[period] = rsiFrom(avgGain, avgLoss)

	p := float64(period)
	for i := period + 1; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		g, l := 0.0, 0.0
		if d > 0 {
			g = d
		} else {
			l = -d
		}
		avgGain = (avgGain*(p-1) + g) / p
		avgLoss = (avgLoss*(p-1) + l) / p
		out[i] = rsiFrom(avgGain, avgLoss)
	}
	return out
}

func rsiFrom(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return math.NaN()
		}
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - (100.0 / (1.0 + rs))
}

// MACD returns the line (fast EMA - slow EMA), its signal EMA and the
// histogram (line - signal). With the usual 12/26/9 the line is defined from
// index 25 and signal/histogram from index 33.
func MACD(closes []float64, fast, slow, signal int) (line, sig, hist []float64) {
	n := len(closes)
	fastEMA := EMA(closes, fast)
	slowEMA := EMA(closes, slow)

	line = nanSeries(n)
	for i := 0; i < n; i++ {
		if !math.IsNaN(fastEMA[i]) && !math.IsNaN(slowEMA[i]) {
			line[i] = fastEMA[i] - slowEMA[i]
		}
	}
	sig = EMA(line, signal)
	hist = nanSeries(n)
	for i := 0; i < n; i++ {
		if !math.IsNaN(line[i]) && !math.IsNaN(sig[i]) {
			hist[i] = line[i] - sig[i]
		}
	}
	return line, sig, hist
}

// ATR is the simple average true range over the last period bars.
func ATR(highs, lows, closes []float64, period int) float64 {
	if len(highs) != len(lows) || len(lows) != len(closes) {
		return math.NaN()
	}
	n := period
	if n <= 0 || len(closes) < n+1 {
		return math.NaN()
	}
	sum := 0.0
	for i := len(closes) - n; i < len(closes); i++ {
		tr1 := highs[i] - lows[i]
		tr2 := math.Abs(highs[i] - closes[i-1])
		tr3 := math.Abs(lows[i] - closes[i-1])
		sum += math.Max(tr1, math.Max(tr2, tr3))
	}
	return sum / float64(n)
}

// Last returns the final element or NaN for an empty slice.
func Last(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	return vals[len(vals)-1]
}
