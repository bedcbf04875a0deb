package predictor

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"trading-assistant/internal/logger"
	"trading-assistant/internal/types"
)

// Model is a standardised logistic-regression classifier.
type Model struct {
	Features  []string  `json:"features"`
	Means     []float64 `json:"means"`
	Scales    []float64 `json:"scales"`
	Weights   []float64 `json:"weights"`
	Bias      float64   `json:"bias"`
	Accuracy  float64   `json:"accuracy"`
	TrainRows int       `json:"train_rows"`
	TestRows  int       `json:"test_rows"`
	TrainedAt time.Time `json:"trained_at"`
}

var _ Classifier = (*Model)(nil)

// Probability is P(up | x).
func (m *Model) Probability(x []float64) float64 {
	z := m.Bias
	for i := range m.Weights {
		z += m.Weights[i] * (x[i] - m.Means[i]) / m.Scales[i]
	}
	return sigmoid(z)
}

func (m *Model) PredictUp(x []float64) bool {
	return m.Probability(x) > 0.5
}

// Validate checks that the model matches the feature layout.
func (m *Model) Validate() error {
	n := len(FeatureNames)
	if len(m.Features) != n || len(m.Means) != n || len(m.Scales) != n || len(m.Weights) != n {
		return fmt.Errorf("model has %d features, want %d: %w", len(m.Weights), n, types.ErrInvalidInput)
	}
	for i, name := range FeatureNames {
		if m.Features[i] != name {
			return fmt.Errorf("model feature %d is %q, want %q: %w", i, m.Features[i], name, types.ErrInvalidInput)
		}
		if m.Scales[i] == 0 {
			return fmt.Errorf("model feature %q has zero scale: %w", name, types.ErrComputationDegenerate)
		}
	}
	return nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// TrainOptions control fitting. Zero fields take the defaults.
type TrainOptions struct {
	Epochs       int
	LearningRate float64
	L2           float64
	TestFraction float64
	Seed         int64
}

func (o TrainOptions) withDefaults() TrainOptions {
	if o.Epochs <= 0 {
		o.Epochs = 500
	}
	if o.LearningRate <= 0 {
		o.LearningRate = 0.1
	}
	if o.L2 < 0 {
		o.L2 = 0
	}
	if o.TestFraction <= 0 || o.TestFraction >= 1 {
		o.TestFraction = 0.2
	}
	if o.Seed == 0 {
		o.Seed = 42
	}
	return o
}

// Train fits a model on rows with a stratified hold-out split. The same
// rows and options always give the same weights.
func Train(ctx context.Context, rows []Row, opts TrainOptions) (*Model, error) {
	opts = opts.withDefaults()
	timer := logger.StartOperation(ctx, "train_model", "rows", len(rows))

	train, test, err := stratifiedSplit(rows, opts.TestFraction, opts.Seed)
	if err != nil {
		timer.EndWithError(err)
		return nil, err
	}

	dim := len(FeatureNames)
	means, scales := standardise(train, dim)

	xs := make([][]float64, len(train))
	ys := make([]float64, len(train))
	for i, r := range train {
		x := make([]float64, dim)
		for j := range x {
			x[j] = (r.Features[j] - means[j]) / scales[j]
		}
		xs[i] = x
		if r.Up {
			ys[i] = 1
		}
	}

	w := make([]float64, dim)
	b := 0.0
	n := float64(len(train))
	grad := make([]float64, dim)
	for epoch := 0; epoch < opts.Epochs; epoch++ {
		for j := range grad {
			grad[j] = 0
		}
		gb := 0.0
		for i, x := range xs {
			z := b
			for j := range x {
				z += w[j] * x[j]
			}
			d := sigmoid(z) - ys[i]
			for j := range x {
				grad[j] += d * x[j]
			}
			gb += d
		}
		for j := range w {
			w[j] -= opts.LearningRate * (grad[j]/n + opts.L2*w[j])
		}
		b -= opts.LearningRate * gb / n
	}

	m := &Model{
		Features:  append([]string(nil), FeatureNames...),
		Means:     means,
		Scales:    scales,
		Weights:   w,
		Bias:      b,
		TrainRows: len(train),
		TestRows:  len(test),
		TrainedAt: time.Now().UTC(),
	}
	m.Accuracy = accuracy(m, test)

	timer.End("accuracy", m.Accuracy, "train_rows", len(train), "test_rows", len(test))
	logger.Info(ctx, "Model trained", "accuracy", m.Accuracy, "train_rows", len(train), "test_rows", len(test))
	return m, nil
}

func accuracy(m *Model, rows []Row) float64 {
	if len(rows) == 0 {
		return 0
	}
	hit := 0
	for _, r := range rows {
		if m.PredictUp(r.Features) == r.Up {
			hit++
		}
	}
	return float64(hit) / float64(len(rows))
}

// stratifiedSplit holds out frac of each class. Both classes need at least
// two rows so that each side of the split sees them.
func stratifiedSplit(rows []Row, frac float64, seed int64) (train, test []Row, err error) {
	var up, down []Row
	for _, r := range rows {
		if len(r.Features) != len(FeatureNames) {
			return nil, nil, fmt.Errorf("row has %d features, want %d: %w", len(r.Features), len(FeatureNames), types.ErrInvalidInput)
		}
		if r.Up {
			up = append(up, r)
		} else {
			down = append(down, r)
		}
	}
	if len(up) < 2 || len(down) < 2 {
		return nil, nil, fmt.Errorf("need at least two rows per class, have up=%d down=%d: %w", len(up), len(down), types.ErrInvalidInput)
	}

	rng := rand.New(rand.NewSource(seed))
	for _, class := range [][]Row{up, down} {
		rng.Shuffle(len(class), func(i, j int) { class[i], class[j] = class[j], class[i] })
		k := int(math.Round(float64(len(class)) * frac))
		if k < 1 {
			k = 1
		}
		test = append(test, class[:k]...)
		train = append(train, class[k:]...)
	}
	return train, test, nil
}

func standardise(rows []Row, dim int) (means, scales []float64) {
	means = make([]float64, dim)
	scales = make([]float64, dim)
	n := float64(len(rows))
	for _, r := range rows {
		for j := 0; j < dim; j++ {
			means[j] += r.Features[j]
		}
	}
	for j := range means {
		means[j] /= n
	}
	for _, r := range rows {
		for j := 0; j < dim; j++ {
			d := r.Features[j] - means[j]
			scales[j] += d * d
		}
	}
	for j := range scales {
		scales[j] = math.Sqrt(scales[j] / n)
		if scales[j] == 0 {
			scales[j] = 1
		}
	}
	return means, scales
}
