package modelfit

import (
	"fmt"

	"modelfit/pkg/correspond"
	"modelfit/pkg/geometry"
	"modelfit/pkg/ransac"
)

// Pair2D is a 2D correspondence.
type Pair2D = correspond.Pair[geometry.Point2D]

// Pair3D is a 3D correspondence.
type Pair3D = correspond.Pair[geometry.Point3D]

const (
	// Doubled triangle area relative to the squared longest side below which
	// three points are treated as collinear.
	collinearTolerance = 1e-6

	// Squared spread around the centroid below which a point set is treated
	// as a single point.
	minSpread = 1e-12

	// Singular value ratio below which a matrix is treated as rank deficient.
	rankTolerance = 1e-9
)

// Compile-time checks that the solvers satisfy ransac.Solver.
var (
	_ ransac.Solver[Pair2D, geometry.AffineTransform]  = Translation2D{}
	_ ransac.Solver[Pair2D, geometry.AffineTransform]  = Rigid2D{}
	_ ransac.Solver[Pair2D, geometry.AffineTransform]  = Affine2D{}
	_ ransac.Solver[Pair2D, geometry.Homography]       = Homography2D{}
	_ ransac.Solver[Pair3D, geometry.RigidTransform3D] = Rigid3D{}
)

func checkSampleSize(n, need int) error {
	if n < need {
		return fmt.Errorf("%w: have %d correspondences, need %d", ransac.ErrInsufficientData, n, need)
	}
	return nil
}

// residual2D is the distance between the destination and the mapped source.
func residual2D(t geometry.AffineTransform, p Pair2D) float64 {
	return t.Apply(p.Src).Distance(p.Dst)
}
