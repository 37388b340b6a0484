// Package ransac implements a RANSAC driver that robustly fits a model to data
// containing outliers. The driver is generic over the model family: a Solver
// supplies the minimal sample size, a closed-form fit, and a residual.
//
// A run samples minimal subsets with the injected Sampler, fits a candidate to
// each, counts the data within Config.MaxError of the candidate, and keeps the
// candidate with the most inliers. The number of iterations adapts to the
// observed inlier ratio (see RequiredIterations) and never exceeds
// Config.MaxIterations. Runs are single-threaded and fully determined by the
// sampler's seed and the input.
package ransac

import (
	"fmt"
	"slices"

	"modelfit/internal/monitoring"
)

// Solver fits models of one algebraic family to data elements of type D.
type Solver[D, M any] interface {
	// MinSampleSize is the smallest number of elements that determines a model.
	MinSampleSize() int

	// Fit computes a model from at least MinSampleSize elements. More
	// elements give a least-squares fit. Degenerate input returns an error
	// wrapping ErrDegenerateSample or ErrNumericFailure.
	Fit(sample []D) (M, error)

	// Residual returns the non-negative error of d under model.
	Residual(model M, d D) float64
}

// Result is the outcome of a RANSAC run.
type Result[M any] struct {
	Model      M     // Best model; the zero value unless Found
	Found      bool  // Whether a model was established
	Inliers    []int // Indices of the data within MaxError of Model, ascending
	Iterations int   // Sampling iterations consumed
}

// Ransac runs RANSAC with a fixed solver and sampler. The sampler is the only
// state kept between runs, so a Ransac must not be used from several
// goroutines at once.
type Ransac[D, M any] struct {
	solver  Solver[D, M]
	sampler Sampler
}

// New creates a driver. Both the solver and the sampler are required.
func New[D, M any](solver Solver[D, M], sampler Sampler) *Ransac[D, M] {
	return &Ransac[D, M]{solver: solver, sampler: sampler}
}

// FitModel runs RANSAC over data. data is only read.
//
// It returns ErrInvalidConfig for an unusable configuration,
// ErrInsufficientData when data holds fewer elements than a minimal sample,
// and ErrNoModelFound when no candidate gathered at least a minimal sample of
// inliers. In every failure case the returned Result has Found == false and
// reports the iterations consumed.
func (r *Ransac[D, M]) FitModel(data []D, cfg Config) (Result[M], error) {
	if err := cfg.Validate(); err != nil {
		return Result[M]{}, err
	}
	if r.sampler == nil {
		return Result[M]{}, fmt.Errorf("%w: nil sampler", ErrInvalidConfig)
	}

	k := r.solver.MinSampleSize()
	n := len(data)
	if k < 1 || n < k {
		return Result[M]{}, fmt.Errorf("%w: have %d correspondences, need %d", ErrInsufficientData, n, k)
	}

	var (
		best        M
		bestInliers []int
		found       bool
		required    = cfg.MaxIterations
		idxs        = make([]int, k)
		sample      = make([]D, k)
		inliers     = make([]int, 0, n)
		iter        int
	)

	for iter < required {
		iter++

		r.sampler.Sample(idxs, n)
		for i, idx := range idxs {
			sample[i] = data[idx]
		}

		candidate, err := r.solver.Fit(sample)
		if err != nil {
			continue
		}

		inliers = r.score(candidate, data, cfg.MaxError, inliers[:0])

		// Strictly greater keeps the earliest of equally supported candidates.
		if len(inliers) > len(bestInliers) {
			best = candidate
			found = true
			bestInliers = append(bestInliers[:0], inliers...)
			required = RequiredIterations(len(inliers), n, k, cfg.Confidence, cfg.MaxIterations)

			if cfg.Debug {
				monitoring.Logf("ransac: iteration %d: %d/%d inliers, %d iterations required",
					iter, len(inliers), n, required)
			}
		}
	}

	if !found || len(bestInliers) < k {
		if cfg.Debug {
			monitoring.Logf("ransac: no model after %d iterations (best support %d, need %d)",
				iter, len(bestInliers), k)
		}
		return Result[M]{Iterations: iter}, fmt.Errorf("%w after %d iterations", ErrNoModelFound, iter)
	}

	if cfg.Refine {
		best, bestInliers = r.refine(data, cfg, best, bestInliers)
	}

	return Result[M]{
		Model:      best,
		Found:      true,
		Inliers:    bestInliers,
		Iterations: iter,
	}, nil
}

// refineRounds bounds the refit and re-score passes in refine.
const refineRounds = 5

// refine re-fits the model on its inlier set, re-scores every element under
// the refit and repeats until the inlier set stops changing. The returned
// inliers are always exactly the elements within MaxError of the returned
// model. A failed refit, or one supported by fewer than a minimal sample,
// leaves the previous model in place.
func (r *Ransac[D, M]) refine(data []D, cfg Config, model M, inliers []int) (M, []int) {
	k := r.solver.MinSampleSize()
	for round := 0; round < refineRounds && len(inliers) > k; round++ {
		subset := make([]D, len(inliers))
		for i, idx := range inliers {
			subset[i] = data[idx]
		}

		refined, err := r.solver.Fit(subset)
		if err != nil {
			if cfg.Debug {
				monitoring.Logf("ransac: refit on %d inliers failed, keeping previous model: %v", len(subset), err)
			}
			break
		}

		next := r.score(refined, data, cfg.MaxError, nil)
		if len(next) < k {
			break
		}

		converged := slices.Equal(next, inliers)
		model, inliers = refined, next
		if cfg.Debug {
			monitoring.Logf("ransac: refine round %d: %d inliers", round+1, len(inliers))
		}
		if converged {
			break
		}
	}
	return model, inliers
}

// score appends to dst the indices of the elements within maxError of model.
func (r *Ransac[D, M]) score(model M, data []D, maxError float64, dst []int) []int {
	for i := range data {
		if r.solver.Residual(model, data[i]) <= maxError {
			dst = append(dst, i)
		}
	}
	return dst
}
