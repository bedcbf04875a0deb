package predictor

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trading-assistant/internal/indicator"
	"trading-assistant/internal/types"
)

type constClassifier bool

func (c constClassifier) PredictUp([]float64) bool { return bool(c) }

type panicClassifier struct{}

func (panicClassifier) PredictUp([]float64) bool { panic("boom") }

func fullSnapshot() types.Snapshot {
	return types.Snapshot{
		RSI14:      types.Of(55),
		MACD:       types.Of(1.2),
		MACDSignal: types.Of(0.8),
		MACDHist:   types.Of(0.4),
		SMA20:      types.Of(105),
		SMA50:      types.Of(100),
	}
}

func TestFeaturesOrder(t *testing.T) {
	x, ok := Features(fullSnapshot())
	require.True(t, ok)
	assert.Equal(t, []float64{55, 1.2, 0.4, 0.8, 105, 100}, x)
	assert.Len(t, FeatureNames, len(x))
}

func TestPredict(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, types.Up, Predict(ctx, constClassifier(true), fullSnapshot()))
	assert.Equal(t, types.Down, Predict(ctx, constClassifier(false), fullSnapshot()))
	assert.Equal(t, types.Unavailable, Predict(ctx, nil, fullSnapshot()))
	assert.Equal(t, types.Unavailable, Predict(ctx, panicClassifier{}, fullSnapshot()))

	s := fullSnapshot()
	s.MACDHist = types.Undefined()
	assert.Equal(t, types.Unavailable, Predict(ctx, constClassifier(true), s))
}

func TestPredictNilModelPointer(t *testing.T) {
	var m *Model
	// A typed nil is still a non-nil interface; Predict must not crash.
	assert.Equal(t, types.Unavailable, Predict(context.Background(), m, fullSnapshot()))
}

func sineBars(n int) []types.PriceBar {
	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]types.PriceBar, n)
	for i := range bars {
		c := 100 + 8*math.Sin(float64(i)/5) + 0.05*float64(i)
		bars[i] = types.PriceBar{Time: start.AddDate(0, 0, i), Open: c, High: c + 1, Low: c - 1, Close: c, Volume: 1e5}
	}
	return bars
}

func TestDataset(t *testing.T) {
	f, err := indicator.Compute(context.Background(), sineBars(80))
	require.NoError(t, err)

	rows := Dataset(f)
	// Features are complete from index 49 (SMA50); the last bar has no label.
	require.Len(t, rows, 80-49-1)
	for i, r := range rows {
		bar := 49 + i
		assert.Equal(t, f.Bars[bar+1].Close > f.Bars[bar].Close, r.Up, "row %d", i)
		assert.Len(t, r.Features, len(FeatureNames))
	}

	assert.Nil(t, Dataset(indicator.Frame{Bars: f.Bars}))
}

func separable(n int) []Row {
	rows := make([]Row, 0, n)
	for i := 0; i < n; i++ {
		up := i%2 == 0
		rsi := 30.0 + float64(i%7)
		if up {
			rsi = 70.0 - float64(i%7)
		}
		rows = append(rows, Row{Features: []float64{rsi, 0.1, 0.1, 0.1, 100, 100}, Up: up})
	}
	return rows
}

func TestTrainLearnsSeparableData(t *testing.T) {
	m, err := Train(context.Background(), separable(100), TrainOptions{})
	require.NoError(t, err)
	require.NoError(t, m.Validate())

	assert.Equal(t, 1.0, m.Accuracy)
	assert.Equal(t, 80, m.TrainRows)
	assert.Equal(t, 20, m.TestRows)
	assert.True(t, m.PredictUp([]float64{75, 0.1, 0.1, 0.1, 100, 100}))
	assert.False(t, m.PredictUp([]float64{25, 0.1, 0.1, 0.1, 100, 100}))
}

func TestTrainIsDeterministic(t *testing.T) {
	a, err := Train(context.Background(), separable(60), TrainOptions{Epochs: 50})
	require.NoError(t, err)
	b, err := Train(context.Background(), separable(60), TrainOptions{Epochs: 50})
	require.NoError(t, err)
	assert.Equal(t, a.Weights, b.Weights)
	assert.Equal(t, a.Bias, b.Bias)
	assert.Equal(t, a.Accuracy, b.Accuracy)
}

func TestTrainRejectsDegenerateInput(t *testing.T) {
	_, err := Train(context.Background(), nil, TrainOptions{})
	assert.ErrorIs(t, err, types.ErrInvalidInput)

	oneClass := []Row{
		{Features: make([]float64, 6), Up: true},
		{Features: make([]float64, 6), Up: true},
		{Features: make([]float64, 6), Up: true},
	}
	_, err = Train(context.Background(), oneClass, TrainOptions{})
	assert.ErrorIs(t, err, types.ErrInvalidInput)

	_, err = Train(context.Background(), []Row{{Features: []float64{1}}}, TrainOptions{})
	assert.ErrorIs(t, err, types.ErrInvalidInput)
}

func TestModelValidate(t *testing.T) {
	m := &Model{Features: []string{"rsi14"}}
	assert.ErrorIs(t, m.Validate(), types.ErrInvalidInput)

	m, err := Train(context.Background(), separable(40), TrainOptions{Epochs: 10})
	require.NoError(t, err)
	m.Features[0] = "close"
	assert.ErrorIs(t, m.Validate(), types.ErrInvalidInput)
}
