package kmeansgo

import (
	"context"

	"github.com/hupe1980/kmeansgo/distance"
	"github.com/hupe1980/kmeansgo/internal/math32"
	"github.com/hupe1980/kmeansgo/internal/pool"
	"golang.org/x/sync/errgroup"
)

// workingPartition is the transient state of a refinement run: one centroid
// and one population count per working cluster. When overclustering is
// active it holds more clusters than the caller asked for; mergeDown reduces
// it to the final partition.
type workingPartition struct {
	centroids *Centroids
	counts    []int
	sums      []float32 // scratch accumulator, same layout as centroids
}

func newWorkingPartition(clusters, dim int) *workingPartition {
	return &workingPartition{
		centroids: NewCentroids(clusters, dim),
		counts:    make([]int, clusters),
		sums:      make([]float32, clusters*dim),
	}
}

// recount rebuilds the population counts from the current assignments.
func (wp *workingPartition) recount(assignments []int) {
	clear(wp.counts)
	for _, c := range assignments {
		wp.counts[c]++
	}
}

type runStats struct {
	iterations   int
	converged    bool
	emptyRepairs int
}

// refine runs Lloyd iterations over the working clusters until no
// assignment changes or the iteration cap is reached. Each iteration
// recomputes centroids as the mean of their assigned points, repairs empty
// clusters through the configured policy, and reassigns every point to its
// nearest centroid (lowest index wins ties).
//
// On return wp's counts are consistent with the final assignments.
func (k *KMeans) refine(ctx context.Context, data *Dataset, assignments []int, wp *workingPartition) (runStats, error) {
	var stats runStats

	for iter := 0; k.maxIterations == 0 || iter < k.maxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		if err := k.updateCentroids(ctx, data, assignments, wp); err != nil {
			return stats, err
		}

		for j := 0; j < wp.centroids.Len(); j++ {
			if wp.counts[j] != 0 {
				continue
			}

			changed, err := k.emptyClusterAction.EmptyCluster(data, j, wp.centroids, wp.counts, assignments, k.metric)
			if err != nil {
				return stats, err
			}
			stats.emptyRepairs += changed
		}

		changes, err := k.assign(ctx, data, wp.centroids, assignments)
		if err != nil {
			return stats, err
		}

		stats.iterations = iter + 1

		if changes == 0 {
			stats.converged = true
			break
		}
	}

	wp.recount(assignments)

	return stats, nil
}

// updateCentroids recomputes every working centroid as the mean of its
// assigned points. Clusters that currently have no points keep their
// previous centroid (the empty cluster policy decides what happens to them).
func (k *KMeans) updateCentroids(ctx context.Context, data *Dataset, assignments []int, wp *workingPartition) error {
	n := data.Len()
	dim := data.Dim()

	math32.Zero(wp.sums)
	clear(wp.counts)

	if k.parallelism > 1 {
		if err := k.accumulateParallel(ctx, data, assignments, wp); err != nil {
			return err
		}
	} else {
		for i := 0; i < n; i++ {
			c := assignments[i]
			math32.AddInPlace(wp.sums[c*dim:(c+1)*dim], data.At(i))
			wp.counts[c]++
		}
	}

	for j := 0; j < wp.centroids.Len(); j++ {
		if wp.counts[j] == 0 {
			continue
		}

		centroid := wp.centroids.At(j)
		copy(centroid, wp.sums[j*dim:(j+1)*dim])
		math32.ScaleInPlace(centroid, 1/float32(wp.counts[j]))
	}

	return nil
}

// accumulateParallel splits the points into disjoint ranges, accumulates
// per-worker partial sums and counts, and reduces them into wp after all
// workers finish. Workers never write shared state, so no locks are needed.
func (k *KMeans) accumulateParallel(ctx context.Context, data *Dataset, assignments []int, wp *workingPartition) error {
	n := data.Len()
	dim := data.Dim()
	clusters := wp.centroids.Len()

	workers := k.parallelism
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers

	locals := make([]*pool.Accumulator, workers)

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for w := 0; w < workers; w++ {
		start := w * chunk
		end := min(start+chunk, n)
		if start >= end {
			break
		}

		acc := pool.GetAccumulator(clusters, dim)
		locals[w] = acc

		g.Go(func() error {
			for i := start; i < end; i++ {
				c := assignments[i]
				math32.AddInPlace(acc.Sums[c*dim:(c+1)*dim], data.At(i))
				acc.Counts[c]++
			}
			return nil
		})
	}

	err := g.Wait()

	for _, acc := range locals {
		if acc == nil {
			continue
		}
		if err == nil {
			math32.AddInPlace(wp.sums, acc.Sums)
			for j, c := range acc.Counts {
				wp.counts[j] += c
			}
		}
		pool.PutAccumulator(acc)
	}

	return err
}

// assign moves every point to its nearest centroid and reports how many
// assignments changed. Workers own disjoint assignment slots, so the
// parallel path needs no synchronization beyond the final reduction.
func (k *KMeans) assign(ctx context.Context, data *Dataset, centroids *Centroids, assignments []int) (int, error) {
	n := data.Len()

	if k.parallelism <= 1 {
		changes := 0
		for i := 0; i < n; i++ {
			best := nearestCentroid(k.metric, centroids, data.At(i))
			if assignments[i] != best {
				assignments[i] = best
				changes++
			}
		}
		return changes, nil
	}

	workers := k.parallelism
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers
	localChanges := make([]int, workers)

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for w := 0; w < workers; w++ {
		w := w
		start := w * chunk
		end := min(start+chunk, n)
		if start >= end {
			break
		}

		g.Go(func() error {
			changes := 0
			for i := start; i < end; i++ {
				best := nearestCentroid(k.metric, centroids, data.At(i))
				if assignments[i] != best {
					assignments[i] = best
					changes++
				}
			}
			localChanges[w] = changes
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}

	changes := 0
	for _, c := range localChanges {
		changes += c
	}

	return changes, nil
}

// nearestCentroid returns the index of the closest centroid. Strict
// less-than keeps the lowest-indexed centroid on ties.
func nearestCentroid(metric distance.Metric, centroids *Centroids, vec []float32) int {
	best := 0
	bestDist := metric.Distance(vec, centroids.At(0))

	for j := 1; j < centroids.Len(); j++ {
		if d := metric.Distance(vec, centroids.At(j)); d < bestDist {
			bestDist = d
			best = j
		}
	}

	return best
}
