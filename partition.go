package kmeansgo

import (
	"math/rand"
	"sync"
)

// Partitioner produces an initial cluster assignment for all points.
//
// A partitioner is NOT required to use every cluster id at least once: ids
// it never emits simply start out as empty clusters, which the engine hands
// to the EmptyClusterPolicy on the first iteration.
type Partitioner interface {
	// Partition writes an initial id in [0, clusters) for every point into
	// assignments (len(assignments) == data.Len()).
	Partition(data *Dataset, clusters int, assignments []int) error
}

// RandomPartition assigns points uniformly at random across cluster ids.
//
// Construct it with NewRandomPartition for reproducible runs; the engine's
// default instance is seeded from the clock and therefore non-deterministic.
type RandomPartition struct {
	rand *rand.Rand
	mu   sync.Mutex
}

// NewRandomPartition creates a RandomPartition with the given seed.
func NewRandomPartition(seed int64) *RandomPartition {
	return &RandomPartition{
		rand: rand.New(rand.NewSource(seed)),
	}
}

// Partition implements Partitioner.
func (p *RandomPartition) Partition(data *Dataset, clusters int, assignments []int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := range assignments {
		assignments[i] = p.rand.Intn(clusters)
	}

	return nil
}

// RoundRobinPartition deterministically assigns point i to cluster
// i % clusters. Every id is used as long as there are at least as many
// points as clusters.
type RoundRobinPartition struct{}

// Partition implements Partitioner.
func (RoundRobinPartition) Partition(data *Dataset, clusters int, assignments []int) error {
	for i := range assignments {
		assignments[i] = i % clusters
	}

	return nil
}
