package testutil

import (
	"math/rand"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float32 returns, as a float32, a pseudo-random number in [0.0,1.0).
func (r *RNG) Float32() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float32()
}

// NormFloat64 returns a normally distributed float64 (mean 0, stddev 1).
func (r *RNG) NormFloat64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.NormFloat64()
}

// Perm returns a pseudo-random permutation of the integers [0,n).
func (r *RNG) Perm(n int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Perm(n)
}

// FillUniform fills dst with random values in range [0, 1).
// Locks only once per call (preferred over calling Float32 in a loop).
func (r *RNG) FillUniform(dst []float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range dst {
		dst[i] = r.rand.Float32()
	}
}

// Blobs generates perCenter points around each center by adding Gaussian
// noise with the given spread, returning a flattened dataset. Points are
// emitted center by center, so the ground-truth label of point i is
// i / perCenter.
func Blobs(r *RNG, centers [][]float32, perCenter int, spread float32) []float32 {
	if len(centers) == 0 || perCenter <= 0 {
		return nil
	}

	dim := len(centers[0])

	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float32, 0, len(centers)*perCenter*dim)
	for _, center := range centers {
		for i := 0; i < perCenter; i++ {
			for j := 0; j < dim; j++ {
				data = append(data, center[j]+float32(r.rand.NormFloat64())*spread)
			}
		}
	}

	return data
}

// Flatten concatenates points into a single flattened dataset slice.
func Flatten(points [][]float32) []float32 {
	var data []float32
	for _, p := range points {
		data = append(data, p...)
	}

	return data
}
