package kmeansgo

import (
	"github.com/hupe1980/kmeansgo/distance"
)

// EmptyClusterPolicy decides what to do when a cluster ends an update pass
// with zero assigned points.
type EmptyClusterPolicy interface {
	// EmptyCluster repairs the empty cluster with the given id. It may
	// rewrite assignments, adjust counts, and relocate centroids, and
	// returns how many assignments it changed. The engine guarantees
	// counts[emptyCluster] == 0 on entry.
	EmptyCluster(data *Dataset, emptyCluster int, centroids *Centroids, counts []int, assignments []int, metric distance.Metric) (int, error)
}

// MaxVarianceNewCluster relocates an empty cluster to the point contributing
// the most variance: the member farthest from its own centroid, drawn from
// the highest-variance cluster.
//
// The selection rule is deterministic: cluster variance is the mean metric
// distance of members to their centroid; the donor cluster is the
// highest-variance cluster, preferring clusters with at least two points so
// the repair cannot itself create a new empty cluster (a singleton donor is
// used only when nothing else is populated, which re-triggers repair on a
// later iteration); ties are broken toward the lowest cluster id and then
// the lowest point index.
type MaxVarianceNewCluster struct{}

// EmptyCluster implements EmptyClusterPolicy. It moves exactly one point.
func (MaxVarianceNewCluster) EmptyCluster(data *Dataset, emptyCluster int, centroids *Centroids, counts []int, assignments []int, metric distance.Metric) (int, error) {
	n := data.Len()
	k := centroids.Len()

	pointDist := make([]float32, n)
	variance := make([]float64, k)

	for i := 0; i < n; i++ {
		c := assignments[i]
		d := metric.Distance(data.At(i), centroids.At(c))
		pointDist[i] = d
		variance[c] += float64(d)
	}

	for j := 0; j < k; j++ {
		if counts[j] > 0 {
			variance[j] /= float64(counts[j])
		}
	}

	donorCluster := -1
	for _, minCount := range []int{2, 1} {
		best := -1.0
		for j := 0; j < k; j++ {
			if j == emptyCluster || counts[j] < minCount {
				continue
			}
			if variance[j] > best {
				best = variance[j]
				donorCluster = j
			}
		}
		if donorCluster != -1 {
			break
		}
	}

	if donorCluster == -1 {
		// Nothing is populated; leave the cluster to a later iteration.
		return 0, nil
	}

	donor := -1
	best := float32(-1)
	for i := 0; i < n; i++ {
		if assignments[i] != donorCluster {
			continue
		}
		if pointDist[i] > best {
			best = pointDist[i]
			donor = i
		}
	}

	assignments[donor] = emptyCluster
	counts[donorCluster]--
	counts[emptyCluster]++
	centroids.Set(emptyCluster, data.At(donor))

	return 1, nil
}

// AllowEmptyClusters leaves empty clusters alone. With this policy the final
// partition may contain fewer than the requested number of non-empty
// clusters.
type AllowEmptyClusters struct{}

// EmptyCluster implements EmptyClusterPolicy as a no-op.
func (AllowEmptyClusters) EmptyCluster(data *Dataset, emptyCluster int, centroids *Centroids, counts []int, assignments []int, metric distance.Metric) (int, error) {
	return 0, nil
}
