// Package pool provides object pools for allocation-free iteration scratch
// space. Uses sync.Pool for automatic memory reuse across Lloyd iterations.
package pool

import "sync"

// Accumulator holds per-worker scratch for one parallel accumulation pass:
// partial centroid sums and population counts over a disjoint point range.
type Accumulator struct {
	Sums   []float32
	Counts []int
}

var accumulatorPool = sync.Pool{
	New: func() interface{} {
		return &Accumulator{}
	},
}

// GetAccumulator retrieves an accumulator from the pool, resized for
// clusters centroids of the given dimension and zeroed.
func GetAccumulator(clusters, dim int) *Accumulator {
	a := accumulatorPool.Get().(*Accumulator)

	if cap(a.Sums) < clusters*dim {
		a.Sums = make([]float32, clusters*dim)
	} else {
		a.Sums = a.Sums[:clusters*dim]
		for i := range a.Sums {
			a.Sums[i] = 0
		}
	}

	if cap(a.Counts) < clusters {
		a.Counts = make([]int, clusters)
	} else {
		a.Counts = a.Counts[:clusters]
		clear(a.Counts)
	}

	return a
}

// PutAccumulator returns an accumulator to the pool for reuse.
func PutAccumulator(a *Accumulator) {
	accumulatorPool.Put(a)
}
