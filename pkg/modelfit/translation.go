package modelfit

import (
	"fmt"

	"modelfit/pkg/geometry"
	"modelfit/pkg/ransac"

	"gonum.org/v1/gonum/floats"
)

// Translation2D fits a pure 2D translation. The model is an AffineTransform
// with an identity linear part.
type Translation2D struct{}

// MinSampleSize implements ransac.Solver.
func (Translation2D) MinSampleSize() int { return 1 }

// Fit returns the mean displacement, which is the least-squares translation.
func (Translation2D) Fit(sample []Pair2D) (geometry.AffineTransform, error) {
	if err := checkSampleSize(len(sample), 1); err != nil {
		return geometry.AffineTransform{}, err
	}

	dx := make([]float64, len(sample))
	dy := make([]float64, len(sample))
	for i, p := range sample {
		dx[i] = p.Dst.X - p.Src.X
		dy[i] = p.Dst.Y - p.Src.Y
	}
	n := float64(len(sample))

	t := geometry.Translation(floats.Sum(dx)/n, floats.Sum(dy)/n)
	if !t.IsFinite() {
		return geometry.AffineTransform{}, fmt.Errorf("%w: non-finite translation", ransac.ErrNumericFailure)
	}
	return t, nil
}

// Residual implements ransac.Solver.
func (Translation2D) Residual(t geometry.AffineTransform, p Pair2D) float64 {
	return residual2D(t, p)
}
