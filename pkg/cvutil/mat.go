// Package cvutil converts between gocv matrices and the point and model types
// of this module, and runs the robust fits directly on OpenCV point arrays.
package cvutil

import (
	"fmt"

	"modelfit/pkg/geometry"

	"gocv.io/x/gocv"
)

// PointsFromMat reads a 1xN or Nx1 two-channel float32 or float64 matrix.
func PointsFromMat(m gocv.Mat) ([]geometry.Point2D, error) {
	vals, err := readVectors(m, 2)
	if err != nil {
		return nil, err
	}
	points := make([]geometry.Point2D, len(vals))
	for i, v := range vals {
		points[i] = geometry.Point2D{X: v[0], Y: v[1]}
	}
	return points, nil
}

// Points3FromMat reads a 1xN or Nx1 three-channel float32 or float64 matrix.
func Points3FromMat(m gocv.Mat) ([]geometry.Point3D, error) {
	vals, err := readVectors(m, 3)
	if err != nil {
		return nil, err
	}
	points := make([]geometry.Point3D, len(vals))
	for i, v := range vals {
		points[i] = geometry.Point3D{X: v[0], Y: v[1], Z: v[2]}
	}
	return points, nil
}

// MatFromPoints writes points to a CV_32FC2 matrix, Nx1 when columnVector is
// set and 1xN otherwise. The caller owns the returned Mat.
func MatFromPoints(points []geometry.Point2D, columnVector bool) gocv.Mat {
	rows, cols := 1, len(points)
	if columnVector {
		rows, cols = len(points), 1
	}
	m := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV32FC2)
	for i, p := range points {
		r, c := i, 0
		if !columnVector {
			r, c = 0, i
		}
		m.SetFloatAt(r, c*2, float32(p.X))
		m.SetFloatAt(r, c*2+1, float32(p.Y))
	}
	return m
}

// MatFromPoints3 writes points to a CV_32FC3 matrix, Nx1 when columnVector is
// set and 1xN otherwise. The caller owns the returned Mat.
func MatFromPoints3(points []geometry.Point3D, columnVector bool) gocv.Mat {
	rows, cols := 1, len(points)
	if columnVector {
		rows, cols = len(points), 1
	}
	m := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV32FC3)
	for i, p := range points {
		r, c := i, 0
		if !columnVector {
			r, c = 0, i
		}
		m.SetFloatAt(r, c*3, float32(p.X))
		m.SetFloatAt(r, c*3+1, float32(p.Y))
		m.SetFloatAt(r, c*3+2, float32(p.Z))
	}
	return m
}

// AffineToMat returns the transform as a 2x3 CV_64F matrix.
func AffineToMat(t geometry.AffineTransform) gocv.Mat {
	m := gocv.NewMatWithSize(2, 3, gocv.MatTypeCV64F)
	for r, row := range t.ToMatrix() {
		for c, v := range row {
			m.SetDoubleAt(r, c, v)
		}
	}
	return m
}

// AffineFromMat reads a 2x3 single-channel float32 or float64 matrix.
func AffineFromMat(m gocv.Mat) (geometry.AffineTransform, error) {
	if m.Rows() != 2 || m.Cols() != 3 || m.Channels() != 1 {
		return geometry.AffineTransform{}, fmt.Errorf("expected 2x3 matrix, got %dx%dx%d", m.Rows(), m.Cols(), m.Channels())
	}
	var a [2][3]float64
	for r := 0; r < 2; r++ {
		for c := 0; c < 3; c++ {
			v, err := scalarAt(m, r, c)
			if err != nil {
				return geometry.AffineTransform{}, err
			}
			a[r][c] = v
		}
	}
	return geometry.FromMatrix(a), nil
}

// HomographyToMat returns the homography as a 3x3 CV_64F matrix.
func HomographyToMat(h geometry.Homography) gocv.Mat {
	m := gocv.NewMatWithSize(3, 3, gocv.MatTypeCV64F)
	for r := range h {
		for c := range h[r] {
			m.SetDoubleAt(r, c, h[r][c])
		}
	}
	return m
}

// RigidToMat returns the transform as a 3x4 CV_64F matrix [R | T].
func RigidToMat(t geometry.RigidTransform3D) gocv.Mat {
	m := gocv.NewMatWithSize(3, 4, gocv.MatTypeCV64F)
	for r, row := range t.ToMatrix() {
		for c, v := range row {
			m.SetDoubleAt(r, c, v)
		}
	}
	return m
}

// readVectors reads every element of a single row or column matrix with the
// given channel count.
func readVectors(m gocv.Mat, channels int) ([][]float64, error) {
	if m.Empty() {
		return nil, fmt.Errorf("empty matrix")
	}
	if m.Channels() != channels {
		return nil, fmt.Errorf("expected %d channels, got %d", channels, m.Channels())
	}
	if m.Rows() != 1 && m.Cols() != 1 {
		return nil, fmt.Errorf("expected a 1xN or Nx1 matrix, got %dx%d", m.Rows(), m.Cols())
	}

	var get func(r, c int) float64
	switch m.Type() {
	case gocv.MatTypeCV32FC2, gocv.MatTypeCV32FC3:
		get = func(r, c int) float64 { return float64(m.GetFloatAt(r, c)) }
	case gocv.MatTypeCV64FC2, gocv.MatTypeCV64FC3:
		get = func(r, c int) float64 { return m.GetDoubleAt(r, c) }
	default:
		return nil, fmt.Errorf("unsupported matrix type %v", m.Type())
	}

	n := m.Rows() * m.Cols()
	out := make([][]float64, n)
	for i := 0; i < n; i++ {
		r, c := i, 0
		if m.Rows() == 1 {
			r, c = 0, i
		}
		v := make([]float64, channels)
		for ch := 0; ch < channels; ch++ {
			v[ch] = get(r, c*channels+ch)
		}
		out[i] = v
	}
	return out, nil
}

func scalarAt(m gocv.Mat, r, c int) (float64, error) {
	switch m.Type() {
	case gocv.MatTypeCV32F:
		return float64(m.GetFloatAt(r, c)), nil
	case gocv.MatTypeCV64F:
		return m.GetDoubleAt(r, c), nil
	default:
		return 0, fmt.Errorf("unsupported matrix type %v", m.Type())
	}
}
