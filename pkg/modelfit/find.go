package modelfit

import (
	"fmt"

	"modelfit/pkg/correspond"
	"modelfit/pkg/geometry"
	"modelfit/pkg/ransac"
)

// Estimate is the result of a robust fit.
type Estimate[P, M any] struct {
	Model      M     // Fitted model
	Inliers    []int // Indices of the inlier correspondences, ascending
	SrcInliers []P   // Source points of the inliers
	DstInliers []P   // Destination points of the inliers
	Iterations int   // RANSAC iterations consumed
}

type (
	// Estimate2D is a robust 2D affine-family fit.
	Estimate2D = Estimate[geometry.Point2D, geometry.AffineTransform]

	// HomographyEstimate is a robust homography fit.
	HomographyEstimate = Estimate[geometry.Point2D, geometry.Homography]

	// Estimate3D is a robust 3D rigid fit.
	Estimate3D = Estimate[geometry.Point3D, geometry.RigidTransform3D]
)

// FindTranslation2D robustly fits a translation mapping src onto dst.
func FindTranslation2D(src, dst []geometry.Point2D, cfg ransac.Config, sampler ransac.Sampler) (Estimate2D, error) {
	return find[geometry.Point2D, geometry.AffineTransform](src, dst, Translation2D{}, cfg, sampler)
}

// FindRigidTransform2D robustly fits a rotation and translation mapping src onto dst.
func FindRigidTransform2D(src, dst []geometry.Point2D, cfg ransac.Config, sampler ransac.Sampler) (Estimate2D, error) {
	return find[geometry.Point2D, geometry.AffineTransform](src, dst, Rigid2D{}, cfg, sampler)
}

// FindAffineTransform2D robustly fits an affine transform mapping src onto dst.
func FindAffineTransform2D(src, dst []geometry.Point2D, cfg ransac.Config, sampler ransac.Sampler) (Estimate2D, error) {
	return find[geometry.Point2D, geometry.AffineTransform](src, dst, Affine2D{}, cfg, sampler)
}

// FindHomography robustly fits a homography mapping src onto dst.
func FindHomography(src, dst []geometry.Point2D, cfg ransac.Config, sampler ransac.Sampler) (HomographyEstimate, error) {
	return find[geometry.Point2D, geometry.Homography](src, dst, Homography2D{}, cfg, sampler)
}

// FindRigidTransform3D robustly fits a 3D rotation and translation mapping src onto dst.
func FindRigidTransform3D(src, dst []geometry.Point3D, cfg ransac.Config, sampler ransac.Sampler) (Estimate3D, error) {
	return find[geometry.Point3D, geometry.RigidTransform3D](src, dst, Rigid3D{}, cfg, sampler)
}

func find[P, M any](src, dst []P, solver ransac.Solver[correspond.Pair[P], M], cfg ransac.Config, sampler ransac.Sampler) (Estimate[P, M], error) {
	pairs, err := correspond.Zip(src, dst)
	if err != nil {
		return Estimate[P, M]{}, fmt.Errorf("%w: %w", ransac.ErrInsufficientData, err)
	}

	res, err := ransac.New(solver, sampler).FitModel(pairs, cfg)
	if err != nil {
		return Estimate[P, M]{Iterations: res.Iterations}, err
	}

	inlierSrc, inlierDst := correspond.Unzip(correspond.Select(pairs, res.Inliers))
	return Estimate[P, M]{
		Model:      res.Model,
		Inliers:    res.Inliers,
		SrcInliers: inlierSrc,
		DstInliers: inlierDst,
		Iterations: res.Iterations,
	}, nil
}
