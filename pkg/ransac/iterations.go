package ransac

import "math"

// RequiredIterations returns the number of samples needed so that, with
// probability confidence, at least one minimal sample of size sampleSize is
// drawn entirely from inliers, given that inliers of total correspondences
// currently agree with the best model. The result is clamped to
// [1, maxIterations]. With no inliers the estimate stays at maxIterations;
// with no outliers a single sample suffices.
func RequiredIterations(inliers, total, sampleSize int, confidence float64, maxIterations int) int {
	if maxIterations < 1 {
		return 1
	}
	if total <= 0 || inliers <= 0 {
		return maxIterations
	}
	if inliers >= total {
		return 1
	}

	w := float64(inliers) / float64(total)
	p := math.Pow(w, float64(sampleSize))
	if p >= 1 {
		return 1
	}

	denom := math.Log1p(-p)
	if denom == 0 {
		return maxIterations
	}
	n := math.Ceil(math.Log(1-confidence) / denom)
	if math.IsNaN(n) || n >= float64(maxIterations) {
		return maxIterations
	}
	if n < 1 {
		return 1
	}
	return int(n)
}
