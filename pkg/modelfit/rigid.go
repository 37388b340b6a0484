package modelfit

import (
	"fmt"
	"math"

	"modelfit/pkg/geometry"
	"modelfit/pkg/ransac"

	"gonum.org/v1/gonum/mat"
)

// Rigid2D fits a 2D rotation plus translation (no scale or shear).
type Rigid2D struct{}

// MinSampleSize implements ransac.Solver.
func (Rigid2D) MinSampleSize() int { return 2 }

// Fit computes the least-squares rigid transform by Procrustes alignment.
func (Rigid2D) Fit(sample []Pair2D) (geometry.AffineTransform, error) {
	if err := checkSampleSize(len(sample), 2); err != nil {
		return geometry.AffineTransform{}, err
	}

	var srcC, dstC geometry.Point2D
	for _, p := range sample {
		srcC = srcC.Add(p.Src)
		dstC = dstC.Add(p.Dst)
	}
	n := float64(len(sample))
	srcC = srcC.Scale(1 / n)
	dstC = dstC.Scale(1 / n)

	// Cross-covariance H = sum (s - s̄)(d - d̄)ᵀ
	h := mat.NewDense(2, 2, nil)
	var srcSpread, dstSpread float64
	for _, p := range sample {
		s := p.Src.Sub(srcC)
		d := p.Dst.Sub(dstC)
		h.Set(0, 0, h.At(0, 0)+s.X*d.X)
		h.Set(0, 1, h.At(0, 1)+s.X*d.Y)
		h.Set(1, 0, h.At(1, 0)+s.Y*d.X)
		h.Set(1, 1, h.At(1, 1)+s.Y*d.Y)
		srcSpread += s.X*s.X + s.Y*s.Y
		dstSpread += d.X*d.X + d.Y*d.Y
	}
	if srcSpread <= minSpread || dstSpread <= minSpread {
		return geometry.AffineTransform{}, fmt.Errorf("%w: coincident points", ransac.ErrDegenerateSample)
	}

	r, err := procrustesRotation(h, false)
	if err != nil {
		return geometry.AffineTransform{}, err
	}

	t := geometry.AffineTransform{
		A: r.At(0, 0), B: r.At(0, 1),
		C: r.At(1, 0), D: r.At(1, 1),
	}
	t.TX = dstC.X - (t.A*srcC.X + t.B*srcC.Y)
	t.TY = dstC.Y - (t.C*srcC.X + t.D*srcC.Y)
	if !t.IsFinite() {
		return geometry.AffineTransform{}, fmt.Errorf("%w: non-finite rigid transform", ransac.ErrNumericFailure)
	}
	return t, nil
}

// Residual implements ransac.Solver.
func (Rigid2D) Residual(t geometry.AffineTransform, p Pair2D) float64 {
	return residual2D(t, p)
}

// Rigid3D fits a 3D rotation plus translation.
type Rigid3D struct{}

// MinSampleSize implements ransac.Solver.
func (Rigid3D) MinSampleSize() int { return 3 }

// Fit computes the least-squares rigid transform by Procrustes alignment.
// Collinear samples are rejected since the rotation about their common line
// is undetermined.
func (Rigid3D) Fit(sample []Pair3D) (geometry.RigidTransform3D, error) {
	if err := checkSampleSize(len(sample), 3); err != nil {
		return geometry.RigidTransform3D{}, err
	}

	src := make([]geometry.Point3D, len(sample))
	dst := make([]geometry.Point3D, len(sample))
	for i, p := range sample {
		src[i] = p.Src
		dst[i] = p.Dst
	}
	srcC := geometry.Centroid3D(src)
	dstC := geometry.Centroid3D(dst)

	h := mat.NewDense(3, 3, nil)
	var srcSpread, dstSpread float64
	for i := range sample {
		s := [3]float64{src[i].X - srcC.X, src[i].Y - srcC.Y, src[i].Z - srcC.Z}
		d := [3]float64{dst[i].X - dstC.X, dst[i].Y - dstC.Y, dst[i].Z - dstC.Z}
		for r := 0; r < 3; r++ {
			for c := 0; c < 3; c++ {
				h.Set(r, c, h.At(r, c)+s[r]*d[c])
			}
			srcSpread += s[r] * s[r]
			dstSpread += d[r] * d[r]
		}
	}
	if srcSpread <= minSpread || dstSpread <= minSpread {
		return geometry.RigidTransform3D{}, fmt.Errorf("%w: coincident points", ransac.ErrDegenerateSample)
	}

	r, err := procrustesRotation(h, true)
	if err != nil {
		return geometry.RigidTransform3D{}, err
	}

	var out geometry.RigidTransform3D
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out.R[i][j] = r.At(i, j)
		}
	}
	rotated := geometry.RigidTransform3D{R: out.R}.Apply(srcC)
	out.T = dstC.Sub(rotated)
	if !out.IsFinite() {
		return geometry.RigidTransform3D{}, fmt.Errorf("%w: non-finite rigid transform", ransac.ErrNumericFailure)
	}
	return out, nil
}

// Residual implements ransac.Solver.
func (Rigid3D) Residual(t geometry.RigidTransform3D, p Pair3D) float64 {
	return t.Apply(p.Src).Distance(p.Dst)
}

// procrustesRotation returns the proper rotation R maximizing tr(R·H) for the
// cross-covariance H = U·Σ·Vᵀ, that is R = V·diag(1, …, det(V·Uᵀ))·Uᵀ. The
// determinant term flips the last axis when V·Uᵀ would be a reflection. When
// needRank2 is set, H must have at least two significant singular values.
func procrustesRotation(h *mat.Dense, needRank2 bool) (*mat.Dense, error) {
	var svd mat.SVD
	if !svd.Factorize(h, mat.SVDFull) {
		return nil, fmt.Errorf("%w: svd did not converge", ransac.ErrNumericFailure)
	}

	values := svd.Values(nil)
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: non-finite singular value", ransac.ErrNumericFailure)
		}
	}
	if values[0] <= 0 {
		return nil, fmt.Errorf("%w: zero cross-covariance", ransac.ErrDegenerateSample)
	}
	if needRank2 && values[1] <= rankTolerance*values[0] {
		return nil, fmt.Errorf("%w: collinear points", ransac.ErrDegenerateSample)
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	var vut mat.Dense
	vut.Mul(&v, u.T())
	if mat.Det(&vut) < 0 {
		dim, _ := v.Dims()
		for i := 0; i < dim; i++ {
			v.Set(i, dim-1, -v.At(i, dim-1))
		}
	}

	var r mat.Dense
	r.Mul(&v, u.T())
	return &r, nil
}
