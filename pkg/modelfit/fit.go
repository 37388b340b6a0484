package modelfit

import (
	"fmt"
	"math"

	"modelfit/pkg/correspond"
	"modelfit/pkg/geometry"
	"modelfit/pkg/ransac"
)

// FitTranslation2D returns the least-squares translation over all pairs.
func FitTranslation2D(src, dst []geometry.Point2D) (geometry.AffineTransform, error) {
	return fit[geometry.Point2D, geometry.AffineTransform](src, dst, Translation2D{})
}

// FitRigidTransform2D returns the least-squares rigid transform over all pairs.
func FitRigidTransform2D(src, dst []geometry.Point2D) (geometry.AffineTransform, error) {
	return fit[geometry.Point2D, geometry.AffineTransform](src, dst, Rigid2D{})
}

// FitAffineTransform2D returns the least-squares affine transform over all pairs.
func FitAffineTransform2D(src, dst []geometry.Point2D) (geometry.AffineTransform, error) {
	return fit[geometry.Point2D, geometry.AffineTransform](src, dst, Affine2D{})
}

// FitHomography returns the DLT homography over all pairs.
func FitHomography(src, dst []geometry.Point2D) (geometry.Homography, error) {
	return fit[geometry.Point2D, geometry.Homography](src, dst, Homography2D{})
}

// FitRigidTransform3D returns the least-squares 3D rigid transform over all pairs.
func FitRigidTransform3D(src, dst []geometry.Point3D) (geometry.RigidTransform3D, error) {
	return fit[geometry.Point3D, geometry.RigidTransform3D](src, dst, Rigid3D{})
}

func fit[P, M any](src, dst []P, solver ransac.Solver[correspond.Pair[P], M]) (M, error) {
	pairs, err := correspond.Zip(src, dst)
	if err != nil {
		var zero M
		return zero, fmt.Errorf("%w: %w", ransac.ErrInsufficientData, err)
	}
	return solver.Fit(pairs)
}

// MeanResidual returns the mean residual of model over pairs, or +Inf for an
// empty set.
func MeanResidual[D, M any](solver ransac.Solver[D, M], model M, pairs []D) float64 {
	if len(pairs) == 0 {
		return math.Inf(1)
	}

	var total float64
	for _, p := range pairs {
		total += solver.Residual(model, p)
	}
	return total / float64(len(pairs))
}
