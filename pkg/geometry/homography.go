package geometry

import "math"

// Homography is a 3x3 planar projective transform acting on homogeneous
// coordinates (x, y, 1).
type Homography [3][3]float64

// IdentityHomography returns the identity homography.
func IdentityHomography() Homography {
	return Homography{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// HomographyFromAffine lifts an affine transform to a homography.
func HomographyFromAffine(t AffineTransform) Homography {
	return Homography{
		{t.A, t.B, t.TX},
		{t.C, t.D, t.TY},
		{0, 0, 1},
	}
}

// Apply maps a point through the homography. The second return value is
// false when the point maps to infinity.
func (h Homography) Apply(p Point2D) (Point2D, bool) {
	w := h[2][0]*p.X + h[2][1]*p.Y + h[2][2]
	if math.Abs(w) < 1e-12 {
		return Point2D{}, false
	}
	return Point2D{
		X: (h[0][0]*p.X + h[0][1]*p.Y + h[0][2]) / w,
		Y: (h[1][0]*p.X + h[1][1]*p.Y + h[1][2]) / w,
	}, true
}

// Compose returns h * other.
func (h Homography) Compose(other Homography) Homography {
	var out Homography
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				out[i][j] += h[i][k] * other[k][j]
			}
		}
	}
	return out
}

// Normalize scales the homography so the bottom-right entry is 1. It fails
// when that entry is too close to zero to divide by.
func (h Homography) Normalize() (Homography, bool) {
	s := h[2][2]
	if math.Abs(s) < 1e-12 || !isFinite(s) {
		return Homography{}, false
	}
	for i := range h {
		for j := range h[i] {
			h[i][j] /= s
		}
	}
	return h, true
}

// IsFinite reports whether every entry is finite.
func (h Homography) IsFinite() bool {
	for i := range h {
		for j := range h[i] {
			if !isFinite(h[i][j]) {
				return false
			}
		}
	}
	return true
}
