package ransac

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// meanSolver fits a constant to scalar data.
type meanSolver struct{}

func (meanSolver) MinSampleSize() int { return 1 }

func (meanSolver) Fit(sample []float64) (float64, error) {
	if len(sample) == 0 {
		return 0, ErrInsufficientData
	}
	var sum float64
	for _, v := range sample {
		sum += v
	}
	return sum / float64(len(sample)), nil
}

func (meanSolver) Residual(model, d float64) float64 {
	return math.Abs(d - model)
}

// failingSolver never produces a model.
type failingSolver struct{ meanSolver }

func (failingSolver) Fit([]float64) (float64, error) {
	return 0, ErrDegenerateSample
}

// scriptedSampler replays a fixed index sequence, one index per sample.
type scriptedSampler struct {
	seq []int
	pos int
}

func (s *scriptedSampler) Sample(idxs []int, n int) {
	for i := range idxs {
		idxs[i] = s.seq[s.pos%len(s.seq)]
		s.pos++
	}
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.MaxError = 0.5
	cfg.Confidence = 0.99
	return cfg
}

func TestFitModelRecoversInlierLevel(t *testing.T) {
	data := []float64{5, 5.1, 4.9, 5.05, 4.95, 100, -40, 5.02, 37, 4.98}

	res, err := New[float64, float64](meanSolver{}, NewSampler(1)).FitModel(data, testConfig())
	require.NoError(t, err)
	require.True(t, res.Found)

	assert.InDelta(t, 5.0, res.Model, 0.01)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 7, 9}, res.Inliers)
	assert.LessOrEqual(t, res.Iterations, testConfig().MaxIterations)
}

func TestFitModelInsufficientData(t *testing.T) {
	res, err := New[float64, float64](meanSolver{}, NewSampler(1)).FitModel(nil, testConfig())
	require.ErrorIs(t, err, ErrInsufficientData)
	assert.False(t, res.Found)
	assert.Zero(t, res.Iterations)
}

func TestFitModelInvalidConfig(t *testing.T) {
	data := []float64{1, 2, 3}
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero max error", func(c *Config) { c.MaxError = 0 }},
		{"nan max error", func(c *Config) { c.MaxError = math.NaN() }},
		{"confidence one", func(c *Config) { c.Confidence = 1 }},
		{"confidence zero", func(c *Config) { c.Confidence = 0 }},
		{"no iterations", func(c *Config) { c.MaxIterations = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			_, err := New[float64, float64](meanSolver{}, NewSampler(1)).FitModel(data, cfg)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	t.Run("nil sampler", func(t *testing.T) {
		_, err := New[float64, float64](meanSolver{}, nil).FitModel(data, testConfig())
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestFitModelNoModel(t *testing.T) {
	cfg := testConfig()
	cfg.MaxIterations = 50

	res, err := New[float64, float64](failingSolver{}, NewSampler(3)).FitModel([]float64{1, 2, 3}, cfg)
	require.ErrorIs(t, err, ErrNoModelFound)
	assert.False(t, res.Found)
	assert.Equal(t, 50, res.Iterations)
}

func TestFitModelStopsEarlyWithoutOutliers(t *testing.T) {
	data := []float64{2, 2, 2, 2, 2, 2}

	res, err := New[float64, float64](meanSolver{}, NewSampler(9)).FitModel(data, testConfig())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Iterations)
	assert.Len(t, res.Inliers, len(data))
}

func TestFitModelTieKeepsFirstCandidate(t *testing.T) {
	data := []float64{0, 0, 10, 10}
	cfg := testConfig()
	cfg.Refine = false

	sampler := &scriptedSampler{seq: []int{0, 2, 1, 3}}
	res, err := New[float64, float64](meanSolver{}, sampler).FitModel(data, cfg)
	require.NoError(t, err)

	assert.Equal(t, 0.0, res.Model)
	assert.Equal(t, []int{0, 1}, res.Inliers)
	// Half the data agrees with the first candidate, which needs
	// ceil(log(0.01)/log(0.5)) = 7 samples at 99% confidence.
	assert.Equal(t, 7, res.Iterations)
}

func TestFitModelRefine(t *testing.T) {
	// Every sample lands on 1.3. Refitting pulls the model to the inlier
	// mean and the re-score picks up 0.6, which the sampled candidate
	// rejected. The second round converges on the mean of four values.
	data := []float64{0.9, 1.3, 1.0, 0.6, 20}
	cfg := testConfig()

	sampler := &scriptedSampler{seq: []int{1}}

	unrefined := cfg
	unrefined.Refine = false
	res, err := New[float64, float64](meanSolver{}, sampler).FitModel(data, unrefined)
	require.NoError(t, err)
	assert.Equal(t, 1.3, res.Model)
	assert.Equal(t, []int{0, 1, 2}, res.Inliers)
	assert.Equal(t, 6, res.Iterations)

	sampler.pos = 0
	res, err = New[float64, float64](meanSolver{}, sampler).FitModel(data, cfg)
	require.NoError(t, err)
	assert.InDelta(t, 0.95, res.Model, 1e-12)
	assert.Equal(t, []int{0, 1, 2, 3}, res.Inliers)
}

func TestFitModelDeterministic(t *testing.T) {
	data := make([]float64, 200)
	for i := range data {
		data[i] = float64(i%7) * 0.05
		if i%5 == 0 {
			data[i] = float64(i)
		}
	}

	run := func() Result[float64] {
		res, err := New[float64, float64](meanSolver{}, NewSampler(42)).FitModel(data, testConfig())
		require.NoError(t, err)
		return res
	}

	first, second := run(), run()
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("runs with the same seed differ (-first +second):\n%s", diff)
	}
}

func TestFitModelLeavesDataUntouched(t *testing.T) {
	data := []float64{3, 1, 4, 1, 5, 9, 2, 6}
	orig := append([]float64(nil), data...)

	_, err := New[float64, float64](meanSolver{}, NewSampler(5)).FitModel(data, testConfig())
	require.NoError(t, err)
	assert.Equal(t, orig, data)
}

func TestSamplerDistinctAndDeterministic(t *testing.T) {
	a, b := NewSampler(11), NewSampler(11)
	idxsA := make([]int, 4)
	idxsB := make([]int, 4)

	for round := 0; round < 100; round++ {
		a.Sample(idxsA, 10)
		b.Sample(idxsB, 10)
		require.Equal(t, idxsA, idxsB)

		seen := make(map[int]bool)
		for _, idx := range idxsA {
			assert.GreaterOrEqual(t, idx, 0)
			assert.Less(t, idx, 10)
			assert.False(t, seen[idx], "duplicate index %d", idx)
			seen[idx] = true
		}
	}
}

func TestErrorsAreDistinct(t *testing.T) {
	all := []error{ErrInvalidConfig, ErrInsufficientData, ErrDegenerateSample, ErrNumericFailure, ErrNoModelFound}
	for i, a := range all {
		for j, b := range all {
			assert.Equal(t, i == j, errors.Is(a, b))
		}
	}
}
