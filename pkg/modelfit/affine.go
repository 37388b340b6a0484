package modelfit

import (
	"fmt"

	"modelfit/pkg/geometry"
	"modelfit/pkg/ransac"

	"gonum.org/v1/gonum/mat"
)

// Affine2D fits a general 2x3 affine transform.
type Affine2D struct{}

// MinSampleSize implements ransac.Solver.
func (Affine2D) MinSampleSize() int { return 3 }

// Fit solves exactly for three correspondences and by least squares for more.
// Samples whose source points all lie on one line are degenerate.
func (Affine2D) Fit(sample []Pair2D) (geometry.AffineTransform, error) {
	if err := checkSampleSize(len(sample), 3); err != nil {
		return geometry.AffineTransform{}, err
	}

	src := make([]geometry.Point2D, len(sample))
	for i, p := range sample {
		src[i] = p.Src
	}
	if geometry.AllCollinear(src, collinearTolerance) {
		return geometry.AffineTransform{}, fmt.Errorf("%w: collinear source points", ransac.ErrDegenerateSample)
	}

	var (
		t   geometry.AffineTransform
		err error
	)
	if len(sample) == 3 {
		t, err = affineFromPoints(sample)
	} else {
		t, err = affineLeastSquares(sample)
	}
	if err != nil {
		return geometry.AffineTransform{}, fmt.Errorf("%w: %v", ransac.ErrNumericFailure, err)
	}
	if !t.IsFinite() {
		return geometry.AffineTransform{}, fmt.Errorf("%w: non-finite affine transform", ransac.ErrNumericFailure)
	}
	return t, nil
}

// Residual implements ransac.Solver.
func (Affine2D) Residual(t geometry.AffineTransform, p Pair2D) float64 {
	return residual2D(t, p)
}

// affineSystem builds the 2n x 6 system A * params = B where
// [x', y'] = [a, b, tx; c, d, ty] * [x, y, 1].
func affineSystem(sample []Pair2D) (*mat.Dense, *mat.VecDense) {
	n := len(sample)
	A := mat.NewDense(n*2, 6, nil)
	B := mat.NewVecDense(n*2, nil)

	for i, p := range sample {
		x, y := p.Src.X, p.Src.Y

		// x' = a*x + b*y + tx
		A.Set(i*2, 0, x)
		A.Set(i*2, 1, y)
		A.Set(i*2, 2, 1)
		B.SetVec(i*2, p.Dst.X)

		// y' = c*x + d*y + ty
		A.Set(i*2+1, 3, x)
		A.Set(i*2+1, 4, y)
		A.Set(i*2+1, 5, 1)
		B.SetVec(i*2+1, p.Dst.Y)
	}
	return A, B
}

// affineFromPoints computes an affine transform from exactly 3 point pairs.
func affineFromPoints(sample []Pair2D) (geometry.AffineTransform, error) {
	A, B := affineSystem(sample)

	var params mat.VecDense
	if err := params.SolveVec(A, B); err != nil {
		return geometry.AffineTransform{}, err
	}
	return affineFromParams(&params), nil
}

// affineLeastSquares computes an affine transform from an overdetermined
// system using QR decomposition.
func affineLeastSquares(sample []Pair2D) (geometry.AffineTransform, error) {
	A, B := affineSystem(sample)

	var qr mat.QR
	qr.Factorize(A)

	var params mat.VecDense
	if err := qr.SolveVecTo(&params, false, B); err != nil {
		return geometry.AffineTransform{}, err
	}
	return affineFromParams(&params), nil
}

func affineFromParams(params *mat.VecDense) geometry.AffineTransform {
	return geometry.AffineTransform{
		A:  params.AtVec(0),
		B:  params.AtVec(1),
		TX: params.AtVec(2),
		C:  params.AtVec(3),
		D:  params.AtVec(4),
		TY: params.AtVec(5),
	}
}
