package distance

import (
	"fmt"

	"github.com/hupe1980/kmeansgo/internal/math32"
	"github.com/viant/vec/search"
)

// Metric computes the pairwise distance between two points.
// Implementations may carry state (e.g. precomputed weights); the built-in
// metrics are stateless zero-sized structs. Both arguments are read-only and
// have the same length (caller's responsibility).
type Metric interface {
	Distance(a, b []float32) float32
}

// Func adapts a plain function to the Metric interface.
type Func func(a, b []float32) float32

// Distance implements Metric.
func (f Func) Distance(a, b []float32) float32 {
	return f(a, b)
}

// SquaredL2 is the squared Euclidean distance. It is the default metric for
// clustering: it induces the same nearest-centroid ordering as L2 without
// the square root.
type SquaredL2 struct{}

// Distance implements Metric.
func (SquaredL2) Distance(a, b []float32) float32 {
	return math32.SquaredL2(a, b)
}

// L2 is the Euclidean distance, delegating to the SIMD kernels in viant/vec.
type L2 struct{}

// Distance implements Metric.
func (L2) Distance(a, b []float32) float32 {
	return search.Float32s(a).EuclideanDistance(b)
}

// L1 is the Manhattan distance.
type L1 struct{}

// Distance implements Metric.
func (L1) Distance(a, b []float32) float32 {
	return math32.L1(a, b)
}

// Cosine is the cosine distance (1 - cosine similarity), delegating to the
// SIMD kernels in viant/vec. Zero vectors have distance 1 to everything.
type Cosine struct{}

// Distance implements Metric.
func (Cosine) Distance(a, b []float32) float32 {
	va := search.Float32s(a)
	if va.Magnitude() == 0 || search.Float32s(b).Magnitude() == 0 {
		return 1
	}

	return va.CosineDistance(b)
}

// Kind identifies a built-in metric.
type Kind int

const (
	KindSquaredL2 Kind = iota
	KindL2
	KindL1
	KindCosine
)

func (k Kind) String() string {
	switch k {
	case KindSquaredL2:
		return "SquaredL2"
	case KindL2:
		return "L2"
	case KindL1:
		return "L1"
	case KindCosine:
		return "Cosine"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// Provider returns the built-in metric for the given kind.
func Provider(k Kind) (Metric, error) {
	switch k {
	case KindSquaredL2:
		return SquaredL2{}, nil
	case KindL2:
		return L2{}, nil
	case KindL1:
		return L1{}, nil
	case KindCosine:
		return Cosine{}, nil
	default:
		return nil, fmt.Errorf("unsupported metric kind: %v", k)
	}
}
