// Package correspond pairs source and destination point sets into the
// correspondence lists consumed by the model solvers.
package correspond

import (
	"errors"
	"fmt"
)

var (
	// ErrEmpty is returned when either point set has no points.
	ErrEmpty = errors.New("empty point set")

	// ErrLengthMismatch is returned when the point sets differ in length.
	ErrLengthMismatch = errors.New("point count mismatch")
)

// Pair is a single correspondence: a source point believed to map onto a
// destination point.
type Pair[P any] struct {
	Src P
	Dst P
}

// Zip pairs src[i] with dst[i], preserving order.
func Zip[P any](src, dst []P) ([]Pair[P], error) {
	if len(src) != len(dst) {
		return nil, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(src), len(dst))
	}
	if len(src) == 0 {
		return nil, ErrEmpty
	}

	pairs := make([]Pair[P], len(src))
	for i := range src {
		pairs[i] = Pair[P]{Src: src[i], Dst: dst[i]}
	}
	return pairs, nil
}

// Unzip splits a correspondence list back into its source and destination
// point sets.
func Unzip[P any](pairs []Pair[P]) (src, dst []P) {
	src = make([]P, len(pairs))
	dst = make([]P, len(pairs))
	for i, p := range pairs {
		src[i] = p.Src
		dst[i] = p.Dst
	}
	return src, dst
}

// Select returns the correspondences at the given indices, in index order.
// Indices must be in range.
func Select[P any](pairs []Pair[P], idxs []int) []Pair[P] {
	out := make([]Pair[P], len(idxs))
	for i, idx := range idxs {
		out[i] = pairs[idx]
	}
	return out
}
