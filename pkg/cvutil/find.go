package cvutil

import (
	"fmt"

	"modelfit/pkg/geometry"
	"modelfit/pkg/modelfit"
	"modelfit/pkg/ransac"

	"gocv.io/x/gocv"
)

// MatEstimate is a robust fit over OpenCV point arrays. Inliers1 and Inliers2
// keep the orientation of the input arrays. Call Close to release the Mats.
type MatEstimate struct {
	Model      gocv.Mat
	Inliers1   gocv.Mat
	Inliers2   gocv.Mat
	GoodPoints []int
	Iterations int
}

// Close releases the matrices held by the estimate.
func (e *MatEstimate) Close() {
	e.Model.Close()
	e.Inliers1.Close()
	e.Inliers2.Close()
}

// FindTranslation2D fits a translation between two CV_32FC2/CV_64FC2 point arrays.
func FindTranslation2D(points1, points2 gocv.Mat, cfg ransac.Config, sampler ransac.Sampler) (MatEstimate, error) {
	return findModel2D(points1, points2, modelfit.FindTranslation2D, AffineToMat, cfg, sampler)
}

// FindRigidTransform2D fits a rigid transform between two point arrays. The
// model is a 2x3 CV_64F matrix.
func FindRigidTransform2D(points1, points2 gocv.Mat, cfg ransac.Config, sampler ransac.Sampler) (MatEstimate, error) {
	return findModel2D(points1, points2, modelfit.FindRigidTransform2D, AffineToMat, cfg, sampler)
}

// FindAffineTransform2D fits an affine transform between two point arrays.
func FindAffineTransform2D(points1, points2 gocv.Mat, cfg ransac.Config, sampler ransac.Sampler) (MatEstimate, error) {
	return findModel2D(points1, points2, modelfit.FindAffineTransform2D, AffineToMat, cfg, sampler)
}

// FindHomography fits a homography between two point arrays. The model is a
// 3x3 CV_64F matrix.
func FindHomography(points1, points2 gocv.Mat, cfg ransac.Config, sampler ransac.Sampler) (MatEstimate, error) {
	return findModel2D(points1, points2, modelfit.FindHomography, HomographyToMat, cfg, sampler)
}

func findModel2D[M any](
	points1, points2 gocv.Mat,
	find func(src, dst []geometry.Point2D, cfg ransac.Config, sampler ransac.Sampler) (modelfit.Estimate[geometry.Point2D, M], error),
	toMat func(M) gocv.Mat,
	cfg ransac.Config,
	sampler ransac.Sampler,
) (MatEstimate, error) {
	src, err := PointsFromMat(points1)
	if err != nil {
		return MatEstimate{}, fmt.Errorf("points1: %w", err)
	}
	dst, err := PointsFromMat(points2)
	if err != nil {
		return MatEstimate{}, fmt.Errorf("points2: %w", err)
	}

	est, err := find(src, dst, cfg, sampler)
	if err != nil {
		return MatEstimate{Iterations: est.Iterations}, err
	}

	columnVector := points1.Rows() > 1
	return MatEstimate{
		Model:      toMat(est.Model),
		Inliers1:   MatFromPoints(est.SrcInliers, columnVector),
		Inliers2:   MatFromPoints(est.DstInliers, columnVector),
		GoodPoints: est.Inliers,
		Iterations: est.Iterations,
	}, nil
}
