package ransac

import (
	"fmt"
	"math"
)

// Config configures a single RANSAC run.
type Config struct {
	MaxError      float64 // Residual at or below which a correspondence is an inlier
	Confidence    float64 // Target probability that some sample is outlier-free, in (0, 1)
	MaxIterations int     // Hard cap on sampling iterations
	Refine        bool    // Re-fit the winning model on its full inlier set
	Debug         bool    // Log progress through the monitoring logger
}

// DefaultConfig returns the default RANSAC settings.
func DefaultConfig() Config {
	return Config{
		MaxError:      1.0,
		Confidence:    0.9,
		MaxIterations: 1000,
		Refine:        true,
	}
}

// Validate checks that the configuration can drive a run.
func (c Config) Validate() error {
	if !(c.MaxError > 0) || math.IsInf(c.MaxError, 1) {
		return fmt.Errorf("%w: max error must be positive and finite, got %v", ErrInvalidConfig, c.MaxError)
	}
	if !(c.Confidence > 0 && c.Confidence < 1) {
		return fmt.Errorf("%w: confidence must be in (0, 1), got %v", ErrInvalidConfig, c.Confidence)
	}
	if c.MaxIterations < 1 {
		return fmt.Errorf("%w: max iterations must be at least 1, got %d", ErrInvalidConfig, c.MaxIterations)
	}
	return nil
}
