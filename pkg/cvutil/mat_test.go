package cvutil

import (
	"math"
	"testing"

	"modelfit/pkg/geometry"
	"modelfit/pkg/ransac"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func TestPointsRoundTrip(t *testing.T) {
	points := []geometry.Point2D{{X: 1.5, Y: -2}, {X: 30, Y: 0.25}, {X: -7, Y: 8}}

	for _, column := range []bool{false, true} {
		m := MatFromPoints(points, column)
		defer m.Close()

		if column {
			assert.Equal(t, 3, m.Rows())
		} else {
			assert.Equal(t, 3, m.Cols())
		}

		got, err := PointsFromMat(m)
		require.NoError(t, err)
		assert.Equal(t, points, got)
	}
}

func TestPoints3RoundTrip(t *testing.T) {
	points := []geometry.Point3D{geometry.NewPoint3D(1, 2, 3), geometry.NewPoint3D(-0.5, 4, 16)}

	m := MatFromPoints3(points, true)
	defer m.Close()

	got, err := Points3FromMat(m)
	require.NoError(t, err)
	assert.Equal(t, points, got)

	_, err = PointsFromMat(m)
	assert.Error(t, err)
}

func TestPointsFromMatRejectsBadShapes(t *testing.T) {
	empty := gocv.NewMat()
	defer empty.Close()
	_, err := PointsFromMat(empty)
	assert.Error(t, err)

	grid := gocv.NewMatWithSize(2, 2, gocv.MatTypeCV32FC2)
	defer grid.Close()
	_, err = PointsFromMat(grid)
	assert.Error(t, err)

	ints := gocv.NewMatWithSize(1, 4, gocv.MatTypeCV32SC2)
	defer ints.Close()
	_, err = PointsFromMat(ints)
	assert.Error(t, err)
}

func TestAffineMatRoundTrip(t *testing.T) {
	tr := geometry.Rigid(0.4, -3, 12)

	m := AffineToMat(tr)
	defer m.Close()
	assert.Equal(t, 2, m.Rows())
	assert.Equal(t, 3, m.Cols())

	got, err := AffineFromMat(m)
	require.NoError(t, err)
	assert.Equal(t, tr, got)

	h := HomographyToMat(geometry.HomographyFromAffine(tr))
	defer h.Close()
	_, err = AffineFromMat(h)
	assert.Error(t, err)
}

func TestFindRigidTransform2DMat(t *testing.T) {
	truth := geometry.Rigid(-math.Pi/4, -10, 15)
	src := make([]geometry.Point2D, 40)
	for i := range src {
		src[i] = geometry.NewPoint2D(float64(i%8)*6-20, float64(i/8)*9-18)
	}
	dst := make([]geometry.Point2D, len(src))
	for i, p := range src {
		dst[i] = truth.Apply(p)
	}
	dst[5] = geometry.NewPoint2D(400, -300)

	p1 := MatFromPoints(src, true)
	defer p1.Close()
	p2 := MatFromPoints(dst, true)
	defer p2.Close()

	cfg := ransac.DefaultConfig()
	est, err := FindRigidTransform2D(p1, p2, cfg, ransac.NewSampler(8))
	require.NoError(t, err)
	defer est.Close()

	model, err := AffineFromMat(est.Model)
	require.NoError(t, err)
	assert.InDelta(t, truth.A, model.A, 1e-4)
	assert.InDelta(t, truth.B, model.B, 1e-4)
	assert.InDelta(t, truth.TX, model.TX, 1e-3)
	assert.InDelta(t, truth.TY, model.TY, 1e-3)

	assert.NotContains(t, est.GoodPoints, 5)
	assert.Len(t, est.GoodPoints, len(src)-1)
	assert.Equal(t, len(est.GoodPoints), est.Inliers1.Rows())
	assert.Equal(t, 1, est.Inliers1.Cols())
}

func TestFindMatInputErrors(t *testing.T) {
	p1 := MatFromPoints([]geometry.Point2D{{X: 0, Y: 0}, {X: 1, Y: 0}}, false)
	defer p1.Close()
	p2 := MatFromPoints([]geometry.Point2D{{X: 0, Y: 0}}, false)
	defer p2.Close()

	_, err := FindAffineTransform2D(p1, p2, ransac.DefaultConfig(), ransac.NewSampler(1))
	assert.ErrorIs(t, err, ransac.ErrInsufficientData)
}
