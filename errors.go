package kmeansgo

import (
	"errors"
	"fmt"
)

var (
	// ErrNilDataset is returned when clustering is invoked without a dataset.
	ErrNilDataset = errors.New("dataset must not be nil")

	// ErrEmptyDataset is returned when the dataset contains no points.
	ErrEmptyDataset = errors.New("dataset must contain at least one point")

	// ErrInvalidOverclusteringFactor is returned when the overclustering
	// factor is below 1.0.
	ErrInvalidOverclusteringFactor = errors.New("overclustering factor must be >= 1.0")

	// ErrInvalidMaxIterations is returned when a negative iteration cap is
	// configured.
	ErrInvalidMaxIterations = errors.New("max iterations must be >= 0")

	// ErrNilMetric is returned when a nil distance metric is configured.
	ErrNilMetric = errors.New("metric must not be nil")

	// ErrNilPartitioner is returned when a nil partitioner is configured.
	ErrNilPartitioner = errors.New("partitioner must not be nil")

	// ErrNilEmptyClusterAction is returned when a nil empty cluster policy
	// is configured.
	ErrNilEmptyClusterAction = errors.New("empty cluster action must not be nil")
)

// ErrInvalidClusterCount indicates that the requested number of clusters is
// zero or exceeds the number of points.
type ErrInvalidClusterCount struct {
	Clusters int
	Points   int
}

func (e *ErrInvalidClusterCount) Error() string {
	return fmt.Sprintf("invalid cluster count: %d (dataset has %d points)", e.Clusters, e.Points)
}

// ErrInvalidDimension indicates an invalid configured dimension.
type ErrInvalidDimension struct {
	Dimension int
}

func (e *ErrInvalidDimension) Error() string {
	return fmt.Sprintf("invalid dimension: %d", e.Dimension)
}

// ErrRaggedData indicates that a flattened data slice is not a whole number
// of points for the configured dimension.
type ErrRaggedData struct {
	Len       int
	Dimension int
}

func (e *ErrRaggedData) Error() string {
	return fmt.Sprintf("data length %d is not a multiple of dimension %d", e.Len, e.Dimension)
}

// ErrAssignmentLength indicates a pre-seeded assignment vector whose length
// does not match the number of points.
type ErrAssignmentLength struct {
	Expected int
	Actual   int
}

func (e *ErrAssignmentLength) Error() string {
	return fmt.Sprintf("assignment length mismatch: expected 0 or %d, got %d", e.Expected, e.Actual)
}

// ErrAssignmentRange indicates a pre-seeded assignment with an id outside
// the working cluster range.
type ErrAssignmentRange struct {
	Index    int
	ID       int
	Clusters int
}

func (e *ErrAssignmentRange) Error() string {
	return fmt.Sprintf("assignment %d out of range: id %d not in [0, %d)", e.Index, e.ID, e.Clusters)
}
