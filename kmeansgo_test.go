package kmeansgo

import (
	"context"
	"slices"
	"testing"

	"github.com/hupe1980/kmeansgo/distance"
	"github.com/hupe1980/kmeansgo/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stuckPartitioner assigns every point to cluster 0, deterministically
// producing empty clusters for every other id.
type stuckPartitioner struct{}

func (stuckPartitioner) Partition(data *Dataset, clusters int, assignments []int) error {
	for i := range assignments {
		assignments[i] = 0
	}
	return nil
}

// spyEmptyClusterPolicy wraps a policy and counts invocations.
type spyEmptyClusterPolicy struct {
	inner EmptyClusterPolicy
	calls int
}

func (s *spyEmptyClusterPolicy) EmptyCluster(data *Dataset, emptyCluster int, centroids *Centroids, counts []int, assignments []int, metric distance.Metric) (int, error) {
	s.calls++
	return s.inner.EmptyCluster(data, emptyCluster, centroids, counts, assignments, metric)
}

func twoGroups1D(t *testing.T) *Dataset {
	t.Helper()

	data, err := NewDataset([]float32{0, 1, 2, 10, 11, 12}, 1)
	require.NoError(t, err)

	return data
}

func TestNewDefaults(t *testing.T) {
	km, err := New()
	require.NoError(t, err)

	assert.Equal(t, DefaultMaxIterations, km.MaxIterations())
	assert.Equal(t, DefaultOverclusteringFactor, km.OverclusteringFactor())
	assert.IsType(t, distance.SquaredL2{}, km.Metric())
	assert.IsType(t, &RandomPartition{}, km.Partitioner())
	assert.IsType(t, MaxVarianceNewCluster{}, km.EmptyClusterAction())
	assert.Equal(t, 1, km.Parallelism())
	assert.Nil(t, km.LastRun())
}

func TestNewInvalidOptions(t *testing.T) {
	_, err := New(WithMaxIterations(-1))
	assert.ErrorIs(t, err, ErrInvalidMaxIterations)

	_, err = New(WithOverclusteringFactor(0.5))
	assert.ErrorIs(t, err, ErrInvalidOverclusteringFactor)
}

func TestAccessors(t *testing.T) {
	km := newTestEngine(t)

	require.NoError(t, km.SetMaxIterations(5))
	assert.Equal(t, 5, km.MaxIterations())
	assert.ErrorIs(t, km.SetMaxIterations(-1), ErrInvalidMaxIterations)

	require.NoError(t, km.SetOverclusteringFactor(2.5))
	assert.Equal(t, 2.5, km.OverclusteringFactor())
	assert.ErrorIs(t, km.SetOverclusteringFactor(0.9), ErrInvalidOverclusteringFactor)

	require.NoError(t, km.SetMetric(distance.L1{}))
	assert.IsType(t, distance.L1{}, km.Metric())
	assert.ErrorIs(t, km.SetMetric(nil), ErrNilMetric)

	p := NewRandomPartition(1)
	require.NoError(t, km.SetPartitioner(p))
	assert.Same(t, p, km.Partitioner())
	assert.ErrorIs(t, km.SetPartitioner(nil), ErrNilPartitioner)

	require.NoError(t, km.SetEmptyClusterAction(AllowEmptyClusters{}))
	assert.IsType(t, AllowEmptyClusters{}, km.EmptyClusterAction())
	assert.ErrorIs(t, km.SetEmptyClusterAction(nil), ErrNilEmptyClusterAction)

	km.SetParallelism(8)
	assert.Equal(t, 8, km.Parallelism())
	km.SetParallelism(0)
	assert.Equal(t, 1, km.Parallelism())
}

func TestClusterInvalidArguments(t *testing.T) {
	ctx := context.Background()
	km := newTestEngine(t)
	data := twoGroups1D(t)

	t.Run("NilDataset", func(t *testing.T) {
		_, err := km.Cluster(ctx, nil, 2, nil)
		assert.ErrorIs(t, err, ErrNilDataset)
	})

	t.Run("EmptyDataset", func(t *testing.T) {
		empty, err := NewDataset(nil, 1)
		require.NoError(t, err)
		_, err = km.Cluster(ctx, empty, 1, nil)
		assert.ErrorIs(t, err, ErrEmptyDataset)
	})

	t.Run("ZeroClusters", func(t *testing.T) {
		_, err := km.Cluster(ctx, data, 0, nil)
		var countErr *ErrInvalidClusterCount
		assert.ErrorAs(t, err, &countErr)
	})

	t.Run("MoreClustersThanPoints", func(t *testing.T) {
		_, err := km.Cluster(ctx, data, 7, nil)
		var countErr *ErrInvalidClusterCount
		require.ErrorAs(t, err, &countErr)
		assert.Equal(t, 7, countErr.Clusters)
		assert.Equal(t, 6, countErr.Points)
	})

	t.Run("WrongSeedLength", func(t *testing.T) {
		_, err := km.Cluster(ctx, data, 2, []int{0, 1})
		var lenErr *ErrAssignmentLength
		require.ErrorAs(t, err, &lenErr)
		assert.Equal(t, 6, lenErr.Expected)
	})

	t.Run("SeedIDOutOfRange", func(t *testing.T) {
		_, err := km.Cluster(ctx, data, 2, []int{0, 1, 0, 1, 0, 9})
		var rangeErr *ErrAssignmentRange
		require.ErrorAs(t, err, &rangeErr)
		assert.Equal(t, 5, rangeErr.Index)
		assert.Equal(t, 9, rangeErr.ID)
	})
}

func TestClusterTwoWellSeparatedGroups(t *testing.T) {
	ctx := context.Background()
	data := twoGroups1D(t)

	// The recovered partition must not depend on the random seed.
	for _, seed := range []int64{1, 2, 3, 42, 1234} {
		km := newTestEngine(t, WithPartitioner(NewRandomPartition(seed)))

		assignments, err := km.Cluster(ctx, data, 2, nil)
		require.NoError(t, err)
		require.Len(t, assignments, 6)

		assert.Equal(t, assignments[0], assignments[1], "seed %d", seed)
		assert.Equal(t, assignments[0], assignments[2], "seed %d", seed)
		assert.Equal(t, assignments[3], assignments[4], "seed %d", seed)
		assert.Equal(t, assignments[3], assignments[5], "seed %d", seed)
		assert.NotEqual(t, assignments[0], assignments[3], "seed %d", seed)

		assertDenseLabels(t, assignments, 2)
	}
}

func TestClusterOnePointPerCluster(t *testing.T) {
	ctx := context.Background()

	data, err := NewDataset([]float32{0, 100, 200, 300}, 1)
	require.NoError(t, err)

	for _, seed := range []int64{1, 7, 99} {
		km := newTestEngine(t, WithPartitioner(NewRandomPartition(seed)))

		assignments, err := km.Cluster(ctx, data, 4, nil)
		require.NoError(t, err)

		assertDenseLabels(t, assignments, 4)
		// Maximally separated degenerate input: every point its own cluster,
		// recovered within two iterations.
		assert.LessOrEqual(t, km.LastRun().Iterations, 2, "seed %d", seed)
		assert.True(t, km.LastRun().Converged, "seed %d", seed)
	}
}

func TestClusterDenseLabels(t *testing.T) {
	ctx := context.Background()

	rng := testutil.NewRNG(11)
	raw := make([]float32, 50*3)
	rng.FillUniform(raw)
	data, err := NewDataset(raw, 3)
	require.NoError(t, err)

	km := newTestEngine(t,
		WithPartitioner(NewRandomPartition(5)),
		WithOverclusteringFactor(2.0),
	)

	assignments, err := km.Cluster(ctx, data, 5, nil)
	require.NoError(t, err)

	assertDenseLabels(t, assignments, 5)
}

func TestClusterNoMergeWithoutOverclustering(t *testing.T) {
	ctx := context.Background()
	km := newTestEngine(t, WithPartitioner(NewRandomPartition(3)))

	_, err := km.Cluster(ctx, twoGroups1D(t), 2, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, km.LastRun().Merges)
}

func TestClusterOverclustering(t *testing.T) {
	ctx := context.Background()

	rng := testutil.NewRNG(21)
	raw := testutil.Blobs(rng, [][]float32{{0, 0}, {10, 10}}, 20, 0.5)
	data, err := NewDataset(raw, 2)
	require.NoError(t, err)

	km := newTestEngine(t,
		WithPartitioner(NewRandomPartition(9)),
		WithOverclusteringFactor(2.0),
	)

	assignments, err := km.Cluster(ctx, data, 2, nil)
	require.NoError(t, err)

	// 4 working clusters merged down to 2.
	assert.Equal(t, 2, km.LastRun().Merges)
	assertDenseLabels(t, assignments, 2)

	// The blobs are far apart relative to their spread: each one must end
	// up in a single final cluster.
	for i := 1; i < 20; i++ {
		assert.Equal(t, assignments[0], assignments[i])
	}
	for i := 21; i < 40; i++ {
		assert.Equal(t, assignments[20], assignments[i])
	}
	assert.NotEqual(t, assignments[0], assignments[20])
}

func TestClusterIdempotence(t *testing.T) {
	ctx := context.Background()
	data := twoGroups1D(t)

	km := newTestEngine(t, WithPartitioner(NewRandomPartition(17)))

	first, err := km.Cluster(ctx, data, 2, nil)
	require.NoError(t, err)
	require.True(t, km.LastRun().Converged)

	// Re-clustering from a fixed point with an unbounded iteration budget
	// must terminate immediately without changing anything.
	require.NoError(t, km.SetMaxIterations(0))

	seed := slices.Clone(first)
	second, err := km.Cluster(ctx, data, 2, seed)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, km.LastRun().Iterations)
	assert.True(t, km.LastRun().Converged)
}

func TestClusterDeterminism(t *testing.T) {
	ctx := context.Background()

	rng := testutil.NewRNG(8)
	raw := testutil.Blobs(rng, [][]float32{{0, 0}, {5, 5}, {10, 0}}, 30, 0.7)

	run := func() []int {
		data, err := NewDataset(slices.Clone(raw), 2)
		require.NoError(t, err)

		km := newTestEngine(t, WithPartitioner(NewRandomPartition(123)))

		assignments, err := km.Cluster(ctx, data, 3, nil)
		require.NoError(t, err)

		return assignments
	}

	assert.Equal(t, run(), run())
}

func TestClusterEmptyClusterRepair(t *testing.T) {
	ctx := context.Background()
	data := twoGroups1D(t)

	spy := &spyEmptyClusterPolicy{inner: MaxVarianceNewCluster{}}
	km := newTestEngine(t,
		WithPartitioner(stuckPartitioner{}),
		WithEmptyClusterAction(spy),
	)

	assignments, err := km.Cluster(ctx, data, 2, nil)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, spy.calls, 1)
	assert.GreaterOrEqual(t, km.LastRun().EmptyRepairs, 1)
	assertDenseLabels(t, assignments, 2)
}

func TestClusterAllowEmptyClusters(t *testing.T) {
	ctx := context.Background()

	// All points far from the origin, everything seeded into cluster 0:
	// with the no-op policy, cluster 1 stays empty.
	data, err := NewDataset([]float32{10, 11, 12, 13}, 1)
	require.NoError(t, err)

	km := newTestEngine(t,
		WithPartitioner(stuckPartitioner{}),
		WithEmptyClusterAction(AllowEmptyClusters{}),
	)

	assignments, err := km.Cluster(ctx, data, 2, nil)
	require.NoError(t, err)

	for _, c := range assignments {
		assert.Equal(t, 0, c)
	}
	assert.Equal(t, 0, km.LastRun().EmptyRepairs)
}

func TestClusterSeededGuess(t *testing.T) {
	ctx := context.Background()
	data := twoGroups1D(t)

	km := newTestEngine(t)

	// A deliberately wrong but in-range seed is refined in place.
	seed := []int{1, 0, 1, 0, 1, 0}
	assignments, err := km.Cluster(ctx, data, 2, seed)
	require.NoError(t, err)

	// Mutated in place: the returned slice is the seed.
	assert.Equal(t, &seed[0], &assignments[0])
	assert.Equal(t, assignments[0], assignments[1])
	assert.Equal(t, assignments[3], assignments[4])
	assert.NotEqual(t, assignments[0], assignments[3])
}

func TestClusterContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	km := newTestEngine(t, WithPartitioner(NewRandomPartition(1)))

	_, err := km.Cluster(ctx, twoGroups1D(t), 2, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClusterParallel(t *testing.T) {
	ctx := context.Background()

	rng := testutil.NewRNG(33)
	raw := testutil.Blobs(rng, [][]float32{{0, 0}, {20, 20}}, 100, 0.5)
	data, err := NewDataset(raw, 2)
	require.NoError(t, err)

	km := newTestEngine(t,
		WithPartitioner(NewRandomPartition(4)),
		WithParallelism(4),
	)

	assignments, err := km.Cluster(ctx, data, 2, nil)
	require.NoError(t, err)

	assertDenseLabels(t, assignments, 2)
	for i := 1; i < 100; i++ {
		assert.Equal(t, assignments[0], assignments[i])
	}
	assert.NotEqual(t, assignments[0], assignments[100])
}

func TestClusterParallelDeterminism(t *testing.T) {
	ctx := context.Background()

	// Repeated runs at a fixed parallelism level must produce identical
	// labelings: workers own fixed point ranges and partial sums are reduced
	// in worker order. (Different parallelism levels change the float32
	// summation order and may converge to different labelings; only
	// same-level determinism is guaranteed.)
	rng := testutil.NewRNG(5)
	raw := make([]float32, 200*4)
	rng.FillUniform(raw)

	run := func() []int {
		data, err := NewDataset(slices.Clone(raw), 4)
		require.NoError(t, err)

		km := newTestEngine(t,
			WithPartitioner(NewRandomPartition(5)),
			WithParallelism(4),
		)

		assignments, err := km.Cluster(ctx, data, 7, nil)
		require.NoError(t, err)
		assertDenseLabels(t, assignments, 7)

		return assignments
	}

	first := run()
	assert.Equal(t, first, run())
	assert.Equal(t, first, run())
}

func TestFastCluster(t *testing.T) {
	ctx := context.Background()

	raw := []float32{0, 10, 1, 11, 2, 12}
	data, err := NewDataset(slices.Clone(raw), 1)
	require.NoError(t, err)

	km := newTestEngine(t, WithPartitioner(NewRandomPartition(6)))

	assignments, err := km.FastCluster(ctx, data, 2, nil)
	require.NoError(t, err)
	require.Len(t, assignments, 6)

	// Labels are reported in the caller's original point order even though
	// the dataset has been reordered.
	assert.Equal(t, assignments[0], assignments[2])
	assert.Equal(t, assignments[0], assignments[4])
	assert.Equal(t, assignments[1], assignments[3])
	assert.Equal(t, assignments[1], assignments[5])
	assert.NotEqual(t, assignments[0], assignments[1])
	assertDenseLabels(t, assignments, 2)

	// The dataset still holds the same multiset of points.
	got := slices.Clone(data.data)
	slices.Sort(got)
	want := slices.Clone(raw)
	slices.Sort(want)
	assert.Equal(t, want, got)
}

func TestFastClusterInvalidArguments(t *testing.T) {
	km := newTestEngine(t)

	_, err := km.FastCluster(context.Background(), nil, 2, nil)
	assert.ErrorIs(t, err, ErrNilDataset)
}

// assertDenseLabels verifies that assignments contain exactly clusters
// distinct values spanning 0..clusters-1 with no gaps.
func assertDenseLabels(t *testing.T, assignments []int, clusters int) {
	t.Helper()

	seen := make([]bool, clusters)
	for i, c := range assignments {
		require.GreaterOrEqual(t, c, 0, "assignment %d", i)
		require.Less(t, c, clusters, "assignment %d", i)
		seen[c] = true
	}

	for c, ok := range seen {
		assert.True(t, ok, "cluster %d is unused", c)
	}
}
