// Package testutil provides testing utilities for kmeansgo.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded, thread-safe random number generator and helpers for
// generating clustered datasets with known ground-truth structure.
//
// # Random Generation
//
//	rng := testutil.NewRNG(seed)
//	vec := make([]float32, 16)
//	rng.FillUniform(vec) // uniform [0, 1)
//
// # Clustered Datasets
//
//	data := testutil.Blobs(rng, [][]float32{{0, 0}, {10, 10}}, 50, 0.5)
package testutil
