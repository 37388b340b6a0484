package main

import (
	"math/rand/v2"

	"modelfit/pkg/geometry"
)

// scenario generates source points uniformly in [-50, 50], maps them through
// a known transform, adds uniform noise and corrupts a fraction of them.
type scenario struct {
	rng          *rand.Rand
	n            int
	noise        float64
	outliers     float64
	outlierScale float64
}

func (s scenario) uniform(bound float64) float64 {
	return (s.rng.Float64()*2 - 1) * bound
}

func (s scenario) corrupt(i int) bool {
	if s.outliers <= 0 {
		return false
	}
	stride := int(1 / s.outliers)
	return stride > 0 && i%stride == 0
}

func (s scenario) points2D(apply func(geometry.Point2D) geometry.Point2D) (src, dst []geometry.Point2D, corrupted int) {
	src = make([]geometry.Point2D, s.n)
	dst = make([]geometry.Point2D, s.n)
	for i := range src {
		src[i] = geometry.NewPoint2D(s.uniform(50), s.uniform(50))
		dst[i] = apply(src[i]).Add(geometry.NewPoint2D(s.uniform(s.noise), s.uniform(s.noise)))
		if s.corrupt(i) {
			dst[i] = dst[i].Add(geometry.NewPoint2D(s.uniform(s.outlierScale), s.uniform(s.outlierScale)))
			corrupted++
		}
	}
	return src, dst, corrupted
}

func (s scenario) points3D(apply func(geometry.Point3D) geometry.Point3D) (src, dst []geometry.Point3D, corrupted int) {
	src = make([]geometry.Point3D, s.n)
	dst = make([]geometry.Point3D, s.n)
	for i := range src {
		src[i] = geometry.NewPoint3D(s.uniform(50), s.uniform(50), s.uniform(50))
		dst[i] = apply(src[i]).Add(geometry.NewPoint3D(s.uniform(s.noise), s.uniform(s.noise), s.uniform(s.noise)))
		if s.corrupt(i) {
			o := s.outlierScale
			dst[i] = dst[i].Add(geometry.NewPoint3D(s.uniform(o), s.uniform(o), s.uniform(o)))
			corrupted++
		}
	}
	return src, dst, corrupted
}
