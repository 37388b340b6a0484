package ransac

import "errors"

var (
	// ErrInvalidConfig is returned when a Config fails validation or the
	// driver has no sampler.
	ErrInvalidConfig = errors.New("invalid ransac config")

	// ErrInsufficientData is returned when there are fewer correspondences
	// than the solver's minimal sample size.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrDegenerateSample is returned by solvers when a sample cannot
	// determine a model (coincident or collinear points, zero scale).
	ErrDegenerateSample = errors.New("degenerate sample")

	// ErrNumericFailure is returned by solvers when a decomposition fails or
	// produces non-finite values.
	ErrNumericFailure = errors.New("numeric failure")

	// ErrNoModelFound is returned when every iteration was spent without
	// establishing a candidate supported by at least a minimal sample of
	// inliers.
	ErrNoModelFound = errors.New("no model found")
)
