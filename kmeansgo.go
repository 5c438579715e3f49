package kmeansgo

import (
	"context"
	"math"
	"sync/atomic"
	"time"

	"github.com/hupe1980/kmeansgo/distance"
)

const (
	// DefaultMaxIterations is the default iteration cap.
	DefaultMaxIterations = 1000

	// DefaultOverclusteringFactor disables overclustering.
	DefaultOverclusteringFactor = 1.0
)

// KMeans clusters datasets with Lloyd's algorithm. It supports
// overclustering: with a factor of 4, asking for 3 clusters actually finds
// 12, then merges the closest ones until 3 are left.
//
// The distance metric, initial partition policy, and empty cluster policy
// are injected at construction time and interchangeable.
//
// A KMeans is safe for concurrent Cluster calls as long as the injected
// policies are (the built-in ones are). Reconfiguring through the setters
// while a run is in flight is not.
type KMeans struct {
	maxIterations        int
	overclusteringFactor float64
	metric               distance.Metric
	partitioner          Partitioner
	emptyClusterAction   EmptyClusterPolicy
	parallelism          int
	logger               *Logger
	lastRun              atomic.Pointer[RunInfo]
}

// RunInfo reports ancillary statistics about a clustering run.
type RunInfo struct {
	// Iterations is the number of refinement iterations performed.
	Iterations int
	// Converged reports whether the run stopped because no assignment
	// changed (as opposed to hitting the iteration cap).
	Converged bool
	// EmptyRepairs is the total number of assignments forcibly changed by
	// the empty cluster policy.
	EmptyRepairs int
	// Merges is the number of cluster merges performed by overclustering.
	Merges int
}

// New creates a KMeans engine. Without options it runs with an iteration cap
// of 1000, overclustering disabled, the squared Euclidean metric, a
// time-seeded RandomPartition, and the MaxVarianceNewCluster empty cluster
// policy.
func New(optFns ...Option) (*KMeans, error) {
	o := options{
		maxIterations:        DefaultMaxIterations,
		overclusteringFactor: DefaultOverclusteringFactor,
		metric:               distance.SquaredL2{},
		parallelism:          1,
	}

	for _, fn := range optFns {
		fn(&o)
	}

	if o.maxIterations < 0 {
		return nil, ErrInvalidMaxIterations
	}

	if o.overclusteringFactor < 1.0 {
		return nil, ErrInvalidOverclusteringFactor
	}

	if o.partitioner == nil {
		o.partitioner = NewRandomPartition(time.Now().UnixNano())
	}

	if o.emptyClusterAction == nil {
		o.emptyClusterAction = MaxVarianceNewCluster{}
	}

	if o.logger == nil {
		o.logger = NoopLogger()
	}

	if o.parallelism < 1 {
		o.parallelism = 1
	}

	return &KMeans{
		maxIterations:        o.maxIterations,
		overclusteringFactor: o.overclusteringFactor,
		metric:               o.metric,
		partitioner:          o.partitioner,
		emptyClusterAction:   o.emptyClusterAction,
		parallelism:          o.parallelism,
		logger:               o.logger,
	}, nil
}

// MaxIterations returns the iteration cap (0 = unbounded).
func (k *KMeans) MaxIterations() int { return k.maxIterations }

// SetMaxIterations sets the iteration cap. 0 means run until convergence.
func (k *KMeans) SetMaxIterations(n int) error {
	if n < 0 {
		return ErrInvalidMaxIterations
	}
	k.maxIterations = n
	return nil
}

// OverclusteringFactor returns the overclustering factor.
func (k *KMeans) OverclusteringFactor() float64 { return k.overclusteringFactor }

// SetOverclusteringFactor sets the overclustering factor. Must be >= 1.0.
func (k *KMeans) SetOverclusteringFactor(factor float64) error {
	if factor < 1.0 {
		return ErrInvalidOverclusteringFactor
	}
	k.overclusteringFactor = factor
	return nil
}

// Metric returns the distance metric.
func (k *KMeans) Metric() distance.Metric { return k.metric }

// SetMetric sets the distance metric.
func (k *KMeans) SetMetric(m distance.Metric) error {
	if m == nil {
		return ErrNilMetric
	}
	k.metric = m
	return nil
}

// Partitioner returns the initial partition policy.
func (k *KMeans) Partitioner() Partitioner { return k.partitioner }

// SetPartitioner sets the initial partition policy.
func (k *KMeans) SetPartitioner(p Partitioner) error {
	if p == nil {
		return ErrNilPartitioner
	}
	k.partitioner = p
	return nil
}

// EmptyClusterAction returns the empty cluster policy.
func (k *KMeans) EmptyClusterAction() EmptyClusterPolicy { return k.emptyClusterAction }

// SetEmptyClusterAction sets the empty cluster policy.
func (k *KMeans) SetEmptyClusterAction(a EmptyClusterPolicy) error {
	if a == nil {
		return ErrNilEmptyClusterAction
	}
	k.emptyClusterAction = a
	return nil
}

// Parallelism returns the worker count for the per-iteration parallel phases.
func (k *KMeans) Parallelism() int { return k.parallelism }

// SetParallelism sets the worker count. Values <= 1 mean single-threaded.
// See WithParallelism for the determinism contract.
func (k *KMeans) SetParallelism(n int) {
	if n < 1 {
		n = 1
	}
	k.parallelism = n
}

// LastRun returns statistics for the most recent completed run, or nil if no
// run has completed yet.
func (k *KMeans) LastRun() *RunInfo {
	return k.lastRun.Load()
}

// Cluster partitions data into clusters groups and returns one cluster id
// per point, in the dense range 0..clusters-1.
//
// assignments may be nil (the engine allocates the result) or a full-length
// initial guess, which is refined and mutated in place; the returned slice
// is the same slice in that case. Any other length is rejected. An initial
// guess whose ids do not cover the working cluster range while
// overclustering is active is discarded and recomputed by the partitioner.
//
// data is read-only for the duration of the call.
func (k *KMeans) Cluster(ctx context.Context, data *Dataset, clusters int, assignments []int) ([]int, error) {
	working, asn, err := k.prepare(data, clusters, assignments)
	if err != nil {
		k.logger.LogRun(ctx, clusters, datasetLen(data), nil, err)
		return nil, err
	}

	info, err := k.run(ctx, data, working, clusters, asn)
	k.logger.LogRun(ctx, clusters, data.Len(), info, err)
	if err != nil {
		return nil, err
	}

	return asn, nil
}

// FastCluster is Cluster with permission to reorder data for cache locality:
// after the initial partition it groups points of the same working cluster
// contiguously, so the per-iteration passes walk memory mostly sequentially.
//
// The dataset remains reordered when FastCluster returns; the returned
// assignments, however, have the reordering permutation applied back, so
// assignments[i] is the label of the caller's ORIGINAL point i.
func (k *KMeans) FastCluster(ctx context.Context, data *Dataset, clusters int, assignments []int) ([]int, error) {
	working, asn, err := k.prepare(data, clusters, assignments)
	if err != nil {
		k.logger.LogRun(ctx, clusters, datasetLen(data), nil, err)
		return nil, err
	}

	perm := reorderByCluster(data, working, asn)

	info, err := k.run(ctx, data, working, clusters, asn)
	k.logger.LogRun(ctx, clusters, data.Len(), info, err)
	if err != nil {
		return nil, err
	}

	// Undo the permutation on the labels only; data stays reordered.
	final := make([]int, len(asn))
	for newPos, orig := range perm {
		final[orig] = asn[newPos]
	}
	copy(asn, final)

	return asn, nil
}

// prepare validates the inputs, determines the working cluster count, and
// produces the initial assignment (seed or partitioner output).
func (k *KMeans) prepare(data *Dataset, clusters int, assignments []int) (int, []int, error) {
	if data == nil {
		return 0, nil, ErrNilDataset
	}

	n := data.Len()
	if n == 0 {
		return 0, nil, ErrEmptyDataset
	}

	if clusters < 1 || clusters > n {
		return 0, nil, &ErrInvalidClusterCount{Clusters: clusters, Points: n}
	}

	working := int(math.Round(float64(clusters) * k.overclusteringFactor))
	if working < clusters {
		working = clusters
	}
	if working > n {
		// More working clusters than points would leave unrepairable empty
		// clusters; cap at one point per cluster.
		working = n
	}

	switch {
	case len(assignments) == 0:
		assignments = make([]int, n)
		if err := k.partitioner.Partition(data, working, assignments); err != nil {
			return 0, nil, err
		}
	case len(assignments) == n:
		seen := make([]bool, working)
		distinct := 0
		for i, c := range assignments {
			if c < 0 || c >= working {
				return 0, nil, &ErrAssignmentRange{Index: i, ID: c, Clusters: working}
			}
			if !seen[c] {
				seen[c] = true
				distinct++
			}
		}
		if working > clusters && distinct != working {
			// The seed does not cover the overclustered range (e.g. it comes
			// from a run without overclustering); start from scratch.
			if err := k.partitioner.Partition(data, working, assignments); err != nil {
				return 0, nil, err
			}
		}
	default:
		return 0, nil, &ErrAssignmentLength{Expected: n, Actual: len(assignments)}
	}

	return working, assignments, nil
}

// run executes the refinement loop and, when overclustering is active, the
// merge-down phase. It records the run statistics.
func (k *KMeans) run(ctx context.Context, data *Dataset, working, clusters int, assignments []int) (*RunInfo, error) {
	wp := newWorkingPartition(working, data.Dim())

	stats, err := k.refine(ctx, data, assignments, wp)
	if err != nil {
		return nil, err
	}

	merges := 0
	if working > clusters {
		merges = k.mergeDown(wp, clusters, assignments)
	}

	info := &RunInfo{
		Iterations:   stats.iterations,
		Converged:    stats.converged,
		EmptyRepairs: stats.emptyRepairs,
		Merges:       merges,
	}
	k.lastRun.Store(info)

	return info, nil
}

// reorderByCluster permutes the dataset and assignments in place so that
// points with the same assignment id are contiguous (stable within a
// cluster). Returns perm with perm[newPos] = original index.
func reorderByCluster(data *Dataset, clusters int, assignments []int) []int {
	n := data.Len()
	dim := data.Dim()

	cursor := make([]int, clusters)
	for _, c := range assignments {
		cursor[c]++
	}
	offset := 0
	for j := 0; j < clusters; j++ {
		count := cursor[j]
		cursor[j] = offset
		offset += count
	}

	perm := make([]int, n)
	for i := 0; i < n; i++ {
		c := assignments[i]
		perm[cursor[c]] = i
		cursor[c]++
	}

	reordered := make([]float32, len(data.data))
	sorted := make([]int, n)
	for newPos, orig := range perm {
		copy(reordered[newPos*dim:(newPos+1)*dim], data.At(orig))
		sorted[newPos] = assignments[orig]
	}
	copy(data.data, reordered)
	copy(assignments, sorted)

	return perm
}

func datasetLen(data *Dataset) int {
	if data == nil {
		return 0
	}
	return data.Len()
}
