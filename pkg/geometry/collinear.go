package geometry

import "math"

// Collinear reports whether a, b and c lie on a common line. tol is relative:
// the doubled triangle area is compared against tol times the squared length
// of the longest side, so the test does not depend on the coordinate scale.
// Coincident points count as collinear.
func Collinear(a, b, c Point2D, tol float64) bool {
	longest := math.Max(distSq(a, b), math.Max(distSq(a, c), distSq(b, c)))
	if longest == 0 {
		return true
	}
	return math.Abs(crossProduct(a, b, c)) <= tol*longest
}

// AnyCollinear reports whether any three of the given points are collinear.
// It is meant for the small point sets of a minimal sample.
func AnyCollinear(points []Point2D, tol float64) bool {
	n := len(points)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			for k := j + 1; k < n; k++ {
				if Collinear(points[i], points[j], points[k], tol) {
					return true
				}
			}
		}
	}
	return false
}

// AllCollinear reports whether every point lies on one line. Fewer than three
// points are always collinear.
func AllCollinear(points []Point2D, tol float64) bool {
	if len(points) < 3 {
		return true
	}

	// Anchor the line on the first point and the point farthest from it.
	far := 0
	for i := range points {
		if distSq(points[0], points[i]) > distSq(points[0], points[far]) {
			far = i
		}
	}
	if far == 0 {
		return true
	}

	longest := distSq(points[0], points[far])
	for _, p := range points {
		if math.Abs(crossProduct(points[0], points[far], p)) > tol*longest {
			return false
		}
	}
	return true
}

// crossProduct computes the cross product of vectors OA and OB.
func crossProduct(o, a, b Point2D) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// distSq computes the squared distance between two points.
func distSq(a, b Point2D) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return dx*dx + dy*dy
}
