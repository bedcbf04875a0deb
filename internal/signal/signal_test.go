package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"trading-assistant/internal/indicator"
	"trading-assistant/internal/types"
)

var (
	neutral  = types.Sentiment{Compound: 0}
	positive = types.Sentiment{Compound: 0.5}
	negative = types.Sentiment{Compound: -0.5}
)

func v(f float64) types.Value { return types.Of(f) }

// flat returns a snapshot with no crossings and RSI mid-range.
func flat() types.Snapshot {
	return types.Snapshot{
		RSI14:      v(50),
		MACD:       v(0.5),
		MACDSignal: v(0.2),
		MACDHist:   v(0.3),
		SMA20:      v(105),
		SMA50:      v(100),
	}
}

func frameOf(snaps ...types.Snapshot) indicator.Frame {
	bars := make([]types.PriceBar, len(snaps))
	for i := range bars {
		bars[i] = types.PriceBar{Open: 100, High: 101, Low: 99, Close: 100, Volume: 1}
	}
	return indicator.Frame{Bars: bars, Snapshots: snaps, Computed: true}
}

func buyFrame() indicator.Frame {
	prev, latest := flat(), flat()
	prev.SMA20 = v(99)
	return frameOf(prev, latest)
}

func sellFrame() indicator.Frame {
	prev, latest := flat(), flat()
	prev.SMA20, prev.SMA50 = v(100), v(100)
	latest.SMA20, latest.SMA50 = v(99), v(100)
	return frameOf(prev, latest)
}

func bothFrame() indicator.Frame {
	// SMA crosses up while MACD crosses down.
	prev, latest := flat(), flat()
	prev.SMA20 = v(99)
	prev.MACD, prev.MACDSignal = v(0.5), v(0.2)
	latest.MACD, latest.MACDSignal = v(0.1), v(0.2)
	return frameOf(prev, latest)
}

func TestFuseTable(t *testing.T) {
	tests := []struct {
		rule types.Decision
		pred types.Prediction
		want types.Decision
	}{
		{types.Buy, types.Up, types.Buy},
		{types.Buy, types.Down, types.Hold},
		{types.Sell, types.Up, types.Hold},
		{types.Sell, types.Down, types.Sell},
		{types.Hold, types.Up, types.Buy},
		{types.Hold, types.Down, types.Sell},
		{types.Undetermined, types.Up, types.Buy},
		{types.Undetermined, types.Down, types.Sell},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Fuse(tc.rule, tc.pred), "%s + %s", tc.rule, tc.pred)
	}
}

func TestFuseUnavailableKeepsRule(t *testing.T) {
	for _, rule := range []types.Decision{types.Buy, types.Sell, types.Hold, types.Undetermined} {
		assert.Equal(t, rule, Fuse(rule, types.Unavailable))
	}
}

func TestFuseNeverFlipsDirection(t *testing.T) {
	assert.NotEqual(t, types.Sell, Fuse(types.Buy, types.Down))
	assert.NotEqual(t, types.Buy, Fuse(types.Sell, types.Up))
}

func TestGenerateUndetermined(t *testing.T) {
	notComputed := buyFrame()
	notComputed.Computed = false

	// RSI would fire oversold, but the slow SMA is still warming up.
	oversold := func(mut func(*types.Snapshot)) indicator.Frame {
		prev, latest := flat(), flat()
		prev.RSI14, latest.RSI14 = v(20), v(25)
		prev.SMA50 = types.Undefined()
		mut(&latest)
		return frameOf(flat(), prev, latest)
	}
	noSMA50 := oversold(func(s *types.Snapshot) { s.SMA50 = types.Undefined() })
	noMACDSignal := oversold(func(s *types.Snapshot) {
		s.MACDSignal = types.Undefined()
		s.MACDHist = types.Undefined()
	})

	tests := []struct {
		name  string
		frame indicator.Frame
		sent  types.Sentiment
	}{
		{"one row", frameOf(flat()), positive},
		{"not computed", notComputed, positive},
		{"empty", indicator.Frame{}, neutral},
		{"latest missing sma50", noSMA50, positive},
		{"latest missing macd signal", noMACDSignal, negative},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d, tr := Generate(tc.frame, tc.sent)
			assert.Equal(t, types.Undetermined, d)
			assert.Equal(t, types.Triggers{}, tr)
		})
	}

	// Same frame with the slow SMA defined on the latest bar does fire.
	d, _ := Generate(oversold(func(*types.Snapshot) {}), positive)
	assert.Equal(t, types.Buy, d)
}

func TestGeneratePrecedence(t *testing.T) {
	tests := []struct {
		name  string
		frame indicator.Frame
		sent  types.Sentiment
		want  types.Decision
	}{
		{"buy with positive news", buyFrame(), positive, types.Buy},
		{"buy with neutral news", buyFrame(), neutral, types.Buy},
		{"buy with negative news", buyFrame(), negative, types.Hold},
		{"sell with negative news", sellFrame(), negative, types.Sell},
		{"sell with neutral news", sellFrame(), neutral, types.Sell},
		{"sell with positive news", sellFrame(), positive, types.Hold},
		{"nothing fires", frameOf(flat(), flat()), positive, types.Hold},
		{"both fire, positive favours buy", bothFrame(), positive, types.Buy},
		{"both fire, negative favours sell", bothFrame(), negative, types.Sell},
		{"both fire, neutral favours buy", bothFrame(), neutral, types.Buy},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, _ := Generate(tc.frame, tc.sent)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEvaluateRSI(t *testing.T) {
	prev, latest := flat(), flat()
	prev.RSI14, latest.RSI14 = v(25), v(28)
	tr := Evaluate(prev, latest)
	assert.True(t, tr.RSIOversold)
	assert.True(t, tr.Buy())

	prev.RSI14, latest.RSI14 = v(28), v(25)
	assert.False(t, Evaluate(prev, latest).RSIOversold, "still falling")

	prev.RSI14, latest.RSI14 = v(78), v(75)
	tr = Evaluate(prev, latest)
	assert.True(t, tr.RSIOverbought)
	assert.True(t, tr.Sell())

	prev.RSI14, latest.RSI14 = v(75), v(75)
	assert.True(t, Evaluate(prev, latest).RSIOverbought, "flat counts as non-increasing")
}

func TestEvaluateMACDCross(t *testing.T) {
	prev, latest := flat(), flat()
	prev.MACD, prev.MACDSignal = v(0.1), v(0.2)
	latest.MACD, latest.MACDSignal = v(0.3), v(0.2)
	tr := Evaluate(prev, latest)
	assert.True(t, tr.MACDCrossUp)
	assert.False(t, tr.MACDCrossDown)
}

func TestEvaluateUndefinedIsFalse(t *testing.T) {
	prev, latest := flat(), flat()
	prev.SMA20 = types.Undefined()
	prev.RSI14 = types.Undefined()
	latest.RSI14 = v(10)
	prev.MACD = types.Undefined()
	tr := Evaluate(prev, latest)
	assert.False(t, tr.Buy())
	assert.False(t, tr.Sell())
}

func TestDecide(t *testing.T) {
	o := Decide(buyFrame(), neutral, types.Down)
	assert.Equal(t, types.Buy, o.Rule)
	assert.Equal(t, types.Hold, o.Final)
	assert.True(t, o.Triggers.SMACrossUp)

	o = Decide(frameOf(flat()), neutral, types.Up)
	assert.Equal(t, types.Undetermined, o.Rule)
	assert.Equal(t, types.Buy, o.Final)
}

func TestDecideEmptySentimentIsNeutral(t *testing.T) {
	empty := types.Sentiment{}
	assert.Equal(t, types.Buy, Decide(buyFrame(), empty, types.Unavailable).Final)
	assert.Equal(t, types.Sell, Decide(sellFrame(), empty, types.Unavailable).Final)
}

func TestDecideIsIdempotent(t *testing.T) {
	f := bothFrame()
	first := Decide(f, negative, types.Up)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Decide(f, negative, types.Up))
	}
}
