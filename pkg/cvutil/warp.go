package cvutil

import (
	"image"
	"image/color"

	"modelfit/pkg/geometry"

	"gocv.io/x/gocv"
)

// WarpAffine applies an affine transform to an image.
func WarpAffine(src gocv.Mat, transform geometry.AffineTransform, width, height int) gocv.Mat {
	transformMat := AffineToMat(transform)
	defer transformMat.Close()

	dst := gocv.NewMat()
	gocv.WarpAffineWithParams(src, &dst, transformMat, image.Point{width, height},
		gocv.InterpolationLinear, gocv.BorderConstant, color.RGBA{R: 0, G: 0, B: 0, A: 0})

	return dst
}

// WarpPerspective applies a homography to an image.
func WarpPerspective(src gocv.Mat, h geometry.Homography, width, height int) gocv.Mat {
	hMat := HomographyToMat(h)
	defer hMat.Close()

	dst := gocv.NewMat()
	gocv.WarpPerspective(src, &dst, hMat, image.Point{width, height})

	return dst
}
