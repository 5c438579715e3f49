// Package distance provides the distance-metric contract used by the
// clustering engine, plus a small set of ready-to-use metrics.
//
// # Supported Metrics
//
//   - SquaredL2: Squared Euclidean distance (default)
//   - L2: Euclidean distance (SIMD-accelerated via viant/vec)
//   - L1: Manhattan distance
//   - Cosine: Cosine distance (1 - cosine similarity)
//
// # Usage
//
//	m, _ := distance.Provider(distance.KindL2)
//	dist := m.Distance(a, b)
//
// Any function of two equal-length vectors can be supplied as a metric via
// the Func adapter:
//
//	m := distance.Func(func(a, b []float32) float32 { ... })
package distance
