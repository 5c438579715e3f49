package kmeansgo

import (
	"math"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/kmeansgo/internal/math32"
)

// mergeDown collapses an overclustered working partition to exactly clusters
// clusters: it repeatedly merges the pair of live centroids with the lowest
// population-weighted distance, then relabels the assignments to the dense
// range 0..clusters-1 (in ascending order of the surviving working ids).
// Returns the number of merges performed.
//
// The merge score for clusters i and j is d(ci, cj) * ni*nj/(ni+nj): close,
// well-populated cluster pairs merge first, while empty clusters cost
// nothing to absorb. Ties go to the lowest-indexed pair. The merged centroid
// is the population-weighted mean, so it equals the true mean of the union.
func (k *KMeans) mergeDown(wp *workingPartition, clusters int, assignments []int) int {
	working := wp.centroids.Len()

	live := roaring.New()
	live.AddRange(0, uint64(working))

	parent := make([]int, working)
	for j := range parent {
		parent[j] = j
	}

	merges := 0
	for int(live.GetCardinality()) > clusters {
		ids := live.ToArray()

		bi, bj := -1, -1
		best := math.Inf(1)

		for x := 0; x < len(ids); x++ {
			for y := x + 1; y < len(ids); y++ {
				i, j := int(ids[x]), int(ids[y])
				score := k.mergeScore(wp, i, j)
				if score < best {
					best = score
					bi, bj = i, j
				}
			}
		}

		k.mergePair(wp, bi, bj)
		parent[bj] = bi
		live.Remove(uint32(bj))
		merges++
	}

	// Dense relabeling: surviving ids map to 0..clusters-1 in ascending order.
	dense := make([]int, working)
	next := 0
	live.Iterate(func(id uint32) bool {
		dense[id] = next
		next++
		return true
	})

	for p, c := range assignments {
		for parent[c] != c {
			c = parent[c]
		}
		assignments[p] = dense[c]
	}

	return merges
}

func (k *KMeans) mergeScore(wp *workingPartition, i, j int) float64 {
	ni, nj := float64(wp.counts[i]), float64(wp.counts[j])
	if ni+nj == 0 {
		return 0
	}

	d := float64(k.metric.Distance(wp.centroids.At(i), wp.centroids.At(j)))

	return d * (ni * nj / (ni + nj))
}

// mergePair folds cluster j into cluster i.
func (k *KMeans) mergePair(wp *workingPartition, i, j int) {
	ni, nj := wp.counts[i], wp.counts[j]

	if ni+nj > 0 {
		ci := wp.centroids.At(i)
		wi := float32(ni) / float32(ni+nj)
		wj := float32(nj) / float32(ni+nj)
		math32.ScaleInPlace(ci, wi)
		math32.AddScaledInPlace(ci, wp.centroids.At(j), wj)
	}

	wp.counts[i] += nj
	wp.counts[j] = 0
}
