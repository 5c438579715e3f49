package kmeansgo

import (
	"github.com/hupe1980/kmeansgo/distance"
)

type options struct {
	maxIterations        int
	overclusteringFactor float64
	metric               distance.Metric
	partitioner          Partitioner
	emptyClusterAction   EmptyClusterPolicy
	parallelism          int
	logger               *Logger
}

// Option configures KMeans constructor behavior.
type Option func(*options)

// WithMaxIterations configures the iteration cap. 0 means unbounded: the run
// only stops at convergence (no assignment changes), which is guaranteed to
// happen eventually.
func WithMaxIterations(n int) Option {
	return func(o *options) {
		o.maxIterations = n
	}
}

// WithOverclusteringFactor configures overclustering: the engine finds
// factor × k clusters and merges the closest ones down to k. 1.0 disables
// overclustering. Must be >= 1.0.
func WithOverclusteringFactor(factor float64) Option {
	return func(o *options) {
		o.overclusteringFactor = factor
	}
}

// WithMetric configures the distance metric.
//
// If nil is passed, distance.SquaredL2 is used.
func WithMetric(m distance.Metric) Option {
	return func(o *options) {
		if m == nil {
			m = distance.SquaredL2{}
		}
		o.metric = m
	}
}

// WithPartitioner configures the initial partition policy.
//
// If nil is passed, a time-seeded RandomPartition is used.
func WithPartitioner(p Partitioner) Option {
	return func(o *options) {
		o.partitioner = p
	}
}

// WithEmptyClusterAction configures the policy applied to clusters that end
// an update pass with zero points.
//
// If nil is passed, MaxVarianceNewCluster is used.
func WithEmptyClusterAction(a EmptyClusterPolicy) Option {
	return func(o *options) {
		o.emptyClusterAction = a
	}
}

// WithParallelism configures how many goroutines the assignment and centroid
// update phases may use. Values <= 1 keep the run single-threaded.
//
// Runs are deterministic for a fixed parallelism level: workers own disjoint
// point ranges and their partial sums are reduced in a fixed order at a
// per-iteration barrier. Across different parallelism levels the float32
// summation order changes, so centroid trajectories and final labelings may
// differ.
func WithParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = n
	}
}

// WithLogger configures structured logging for run statistics.
//
// If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
