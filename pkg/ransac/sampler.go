package ransac

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/sampleuv"
)

// Sampler draws distinct indices uniformly at random.
type Sampler interface {
	// Sample fills idxs with len(idxs) distinct integers from [0, n).
	Sample(idxs []int, n int)
}

// RandSampler is a Sampler backed by a seedable PCG source. The same seed
// always yields the same index sequence. It is not safe for concurrent use.
type RandSampler struct {
	src rand.Source
}

// NewSampler returns a sampler seeded with seed.
func NewSampler(seed uint64) *RandSampler {
	return &RandSampler{src: rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)}
}

// NewSamplerFromSource wraps an existing random source, for callers that
// share one generator across several fits.
func NewSamplerFromSource(src rand.Source) *RandSampler {
	return &RandSampler{src: src}
}

// Sample implements Sampler.
func (s *RandSampler) Sample(idxs []int, n int) {
	sampleuv.WithoutReplacement(idxs, n, s.src)
}
