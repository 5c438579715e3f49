// Package kmeansgo implements K-Means clustering with pluggable policies:
// the distance metric, the initial partition strategy, and the action taken
// when a cluster runs empty are all injected at construction time.
//
// It also supports overclustering: with an overclustering factor of 4,
// asking for 3 clusters actually finds 12, then merges the closest pairs of
// clusters until only 3 remain. Overclustering can recover structure that a
// direct k-cluster run misses on awkward initializations.
//
// # Quick Start
//
//	data, _ := kmeansgo.NewDataset(vectors, 128) // flattened []float32
//
//	km, _ := kmeansgo.New() // default options
//	assignments, _ := km.Cluster(ctx, data, 3, nil) // 3 clusters
//
//	// Manhattan distance, 100 iterations maximum, overclustering factor 4.0.
//	km, _ = kmeansgo.New(
//		kmeansgo.WithMetric(distance.L1{}),
//		kmeansgo.WithMaxIterations(100),
//		kmeansgo.WithOverclusteringFactor(4.0),
//	)
//	assignments, _ = km.Cluster(ctx, data, 6, nil) // 6 clusters
//
// # Reproducibility
//
// The default initial partition is seeded from the clock. Inject a seeded
// partitioner for deterministic runs:
//
//	km, _ := kmeansgo.New(kmeansgo.WithPartitioner(kmeansgo.NewRandomPartition(42)))
//
// # FastCluster
//
// FastCluster trades dataset immutability for locality: it reorders the
// dataset in place so points of the same cluster sit contiguously. The
// returned assignments are reported in the caller's original point order;
// the dataset itself stays reordered.
package kmeansgo
