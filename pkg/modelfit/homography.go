package modelfit

import (
	"fmt"
	"math"

	"modelfit/pkg/geometry"
	"modelfit/pkg/ransac"

	"gonum.org/v1/gonum/mat"
)

// Homography2D fits a planar homography.
type Homography2D struct{}

// MinSampleSize implements ransac.Solver.
func (Homography2D) MinSampleSize() int { return 4 }

// Fit estimates the homography with the normalized direct linear transform:
// both point sets are shifted to their centroid and scaled to a mean distance
// of √2, the null vector of the 2n x 9 constraint matrix is taken from the SVD,
// and the result is denormalized and scaled so H[2][2] = 1.
func (Homography2D) Fit(sample []Pair2D) (geometry.Homography, error) {
	if err := checkSampleSize(len(sample), 4); err != nil {
		return geometry.Homography{}, err
	}

	src := make([]geometry.Point2D, len(sample))
	dst := make([]geometry.Point2D, len(sample))
	for i, p := range sample {
		src[i] = p.Src
		dst[i] = p.Dst
	}
	if len(sample) == 4 && (geometry.AnyCollinear(src, collinearTolerance) || geometry.AnyCollinear(dst, collinearTolerance)) {
		return geometry.Homography{}, fmt.Errorf("%w: three collinear points", ransac.ErrDegenerateSample)
	}

	srcT, _, err := hartleyNormalization(src)
	if err != nil {
		return geometry.Homography{}, err
	}
	dstT, dstInv, err := hartleyNormalization(dst)
	if err != nil {
		return geometry.Homography{}, err
	}

	// Each correspondence (x, y) -> (u, v) contributes two rows:
	// [-x -y -1  0  0  0 ux uy u]
	// [ 0  0  0 -x -y -1 vx vy v]
	a := mat.NewDense(2*len(sample), 9, nil)
	for i := range sample {
		s, _ := srcT.Apply(src[i])
		d, _ := dstT.Apply(dst[i])
		r := 2 * i
		a.SetRow(r, []float64{-s.X, -s.Y, -1, 0, 0, 0, d.X * s.X, d.X * s.Y, d.X})
		a.SetRow(r+1, []float64{0, 0, 0, -s.X, -s.Y, -1, d.Y * s.X, d.Y * s.Y, d.Y})
	}

	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDFullV) {
		return geometry.Homography{}, fmt.Errorf("%w: svd did not converge", ransac.ErrNumericFailure)
	}
	values := svd.Values(nil)
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return geometry.Homography{}, fmt.Errorf("%w: non-finite singular value", ransac.ErrNumericFailure)
		}
	}
	// Values has min(2n, 9) >= 8 entries. A second near-zero singular value
	// means the null space is not unique.
	if values[0] <= 0 || values[7] <= rankTolerance*values[0] {
		return geometry.Homography{}, fmt.Errorf("%w: constraint matrix rank deficient", ransac.ErrDegenerateSample)
	}

	var v mat.Dense
	svd.VTo(&v)
	var hn geometry.Homography
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			hn[i][j] = v.At(3*i+j, 8)
		}
	}

	h := dstInv.Compose(hn).Compose(srcT)
	if !h.IsFinite() {
		return geometry.Homography{}, fmt.Errorf("%w: non-finite homography", ransac.ErrNumericFailure)
	}

	var norm float64
	for i := range h {
		for j := range h[i] {
			norm = math.Max(norm, math.Abs(h[i][j]))
		}
	}
	if math.Abs(h[2][2]) <= 1e-10*norm {
		return geometry.Homography{}, fmt.Errorf("%w: homography maps the origin to infinity", ransac.ErrDegenerateSample)
	}
	h, ok := h.Normalize()
	if !ok {
		return geometry.Homography{}, fmt.Errorf("%w: cannot normalize homography", ransac.ErrNumericFailure)
	}
	return h, nil
}

// Residual implements ransac.Solver. Points mapped to infinity have an
// infinite residual.
func (Homography2D) Residual(h geometry.Homography, p Pair2D) float64 {
	mapped, ok := h.Apply(p.Src)
	if !ok {
		return math.Inf(1)
	}
	return mapped.Distance(p.Dst)
}

// hartleyNormalization returns the similarity moving the points' centroid to
// the origin with mean distance √2, and its inverse.
func hartleyNormalization(points []geometry.Point2D) (t, inv geometry.Homography, err error) {
	c := geometry.Centroid(points)
	var mean float64
	for _, p := range points {
		mean += p.Distance(c)
	}
	mean /= float64(len(points))
	if mean <= math.Sqrt(minSpread) {
		return t, inv, fmt.Errorf("%w: coincident points", ransac.ErrDegenerateSample)
	}

	s := math.Sqrt2 / mean
	t = geometry.Homography{
		{s, 0, -s * c.X},
		{0, s, -s * c.Y},
		{0, 0, 1},
	}
	inv = geometry.Homography{
		{1 / s, 0, c.X},
		{0, 1 / s, c.Y},
		{0, 0, 1},
	}
	return t, inv, nil
}
