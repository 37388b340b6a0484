package modelfit

import (
	"math"
	"math/rand/v2"
	"testing"

	"modelfit/pkg/geometry"
	"modelfit/pkg/ransac"

	"github.com/stretchr/testify/assert"
)

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed+1))
}

// uniformPoints returns n points uniform in [-50, 50] x [-50, 50].
func uniformPoints(rng *rand.Rand, n int) []geometry.Point2D {
	points := make([]geometry.Point2D, n)
	for i := range points {
		points[i] = geometry.NewPoint2D(rng.Float64()*100-50, rng.Float64()*100-50)
	}
	return points
}

// uniformPoints3D returns n points uniform in the cube [-50, 50]^3.
func uniformPoints3D(rng *rand.Rand, n int) []geometry.Point3D {
	points := make([]geometry.Point3D, n)
	for i := range points {
		points[i] = geometry.NewPoint3D(rng.Float64()*100-50, rng.Float64()*100-50, rng.Float64()*100-50)
	}
	return points
}

func mapPoints(src []geometry.Point2D, f func(geometry.Point2D) geometry.Point2D) []geometry.Point2D {
	out := make([]geometry.Point2D, len(src))
	for i, p := range src {
		out[i] = f(p)
	}
	return out
}

func mapPoints3D(src []geometry.Point3D, t geometry.RigidTransform3D) []geometry.Point3D {
	out := make([]geometry.Point3D, len(src))
	for i, p := range src {
		out[i] = t.Apply(p)
	}
	return out
}

func applyHomography(t *testing.T, h geometry.Homography, src []geometry.Point2D) []geometry.Point2D {
	t.Helper()
	return mapPoints(src, func(p geometry.Point2D) geometry.Point2D {
		q, ok := h.Apply(p)
		if !ok {
			t.Fatalf("test homography maps %v to infinity", p)
		}
		return q
	})
}

// jitter adds independent uniform noise in [-bound, bound] to each coordinate.
func jitter(rng *rand.Rand, points []geometry.Point2D, bound float64) {
	for i := range points {
		points[i].X += (rng.Float64()*2 - 1) * bound
		points[i].Y += (rng.Float64()*2 - 1) * bound
	}
}

func jitter3D(rng *rand.Rand, points []geometry.Point3D, bound float64) {
	for i := range points {
		points[i].X += (rng.Float64()*2 - 1) * bound
		points[i].Y += (rng.Float64()*2 - 1) * bound
		points[i].Z += (rng.Float64()*2 - 1) * bound
	}
}

// corrupt offsets every fifth point by uniform noise in [-bound, bound] per
// coordinate and returns the corrupted indices.
func corrupt(rng *rand.Rand, points []geometry.Point2D, bound float64) []int {
	var idxs []int
	for i := 0; i < len(points); i += 5 {
		points[i].X += (rng.Float64()*2 - 1) * bound
		points[i].Y += (rng.Float64()*2 - 1) * bound
		idxs = append(idxs, i)
	}
	return idxs
}

func corrupt3D(rng *rand.Rand, points []geometry.Point3D, bound float64) []int {
	var idxs []int
	for i := 0; i < len(points); i += 5 {
		points[i].X += (rng.Float64()*2 - 1) * bound
		points[i].Y += (rng.Float64()*2 - 1) * bound
		points[i].Z += (rng.Float64()*2 - 1) * bound
		idxs = append(idxs, i)
	}
	return idxs
}

// rotatedFortyFive is the transform [cos sin -10; -sin cos 15] at 45 degrees.
func rotatedFortyFive() geometry.AffineTransform {
	return geometry.Rigid(-math.Pi/4, -10, 15)
}

func assertAffineNear(t *testing.T, want, got geometry.AffineTransform, linTol, transTol float64) {
	t.Helper()
	assert.InDelta(t, want.A, got.A, linTol, "a")
	assert.InDelta(t, want.B, got.B, linTol, "b")
	assert.InDelta(t, want.C, got.C, linTol, "c")
	assert.InDelta(t, want.D, got.D, linTol, "d")
	assert.InDelta(t, want.TX, got.TX, transTol, "tx")
	assert.InDelta(t, want.TY, got.TY, transTol, "ty")
}

func assertHomographyNear(t *testing.T, want, got geometry.Homography, tol float64) {
	t.Helper()
	for i := range want {
		for j := range want[i] {
			assert.InDelta(t, want[i][j], got[i][j], tol, "h[%d][%d]", i, j)
		}
	}
}

func assertRigid3DNear(t *testing.T, want, got geometry.RigidTransform3D, rotTol, transTol float64) {
	t.Helper()
	for i := range want.R {
		for j := range want.R[i] {
			assert.InDelta(t, want.R[i][j], got.R[i][j], rotTol, "r[%d][%d]", i, j)
		}
	}
	assert.InDelta(t, want.T.X, got.T.X, transTol, "tx")
	assert.InDelta(t, want.T.Y, got.T.Y, transTol, "ty")
	assert.InDelta(t, want.T.Z, got.T.Z, transTol, "tz")
}

// assertProperRotation checks that r is orthonormal with determinant +1.
func assertProperRotation(t *testing.T, r [3][3]float64) {
	t.Helper()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var dot float64
			for k := 0; k < 3; k++ {
				dot += r[i][k] * r[j][k]
			}
			want := 0.0
			if i == j {
				want = 1
			}
			assert.InDelta(t, want, dot, 1e-9, "row %d . row %d", i, j)
		}
	}
	det := r[0][0]*(r[1][1]*r[2][2]-r[1][2]*r[2][1]) -
		r[0][1]*(r[1][0]*r[2][2]-r[1][2]*r[2][0]) +
		r[0][2]*(r[1][0]*r[2][1]-r[1][1]*r[2][0])
	assert.InDelta(t, 1, det, 1e-9)
}

func assertNoneOf(t *testing.T, inliers, excluded []int) {
	t.Helper()
	bad := make(map[int]bool, len(excluded))
	for _, i := range excluded {
		bad[i] = true
	}
	for _, i := range inliers {
		assert.False(t, bad[i], "corrupted correspondence %d reported as inlier", i)
	}
}

func robustConfig(maxError float64) ransac.Config {
	cfg := ransac.DefaultConfig()
	cfg.MaxError = maxError
	cfg.Confidence = 0.99
	return cfg
}
