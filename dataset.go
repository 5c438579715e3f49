package kmeansgo

// Dataset is an ordered collection of fixed-dimension points stored as a
// single flattened []float32 (point i occupies data[i*dim : (i+1)*dim]).
//
// Cluster treats the dataset as read-only. FastCluster is permitted to
// reorder it in place; see the FastCluster documentation.
type Dataset struct {
	data []float32
	dim  int
}

// NewDataset wraps the flattened data as a dataset of dim-dimensional
// points. The slice is not copied.
func NewDataset(data []float32, dim int) (*Dataset, error) {
	if dim <= 0 {
		return nil, &ErrInvalidDimension{Dimension: dim}
	}

	if len(data)%dim != 0 {
		return nil, &ErrRaggedData{Len: len(data), Dimension: dim}
	}

	return &Dataset{data: data, dim: dim}, nil
}

// Len returns the number of points.
func (d *Dataset) Len() int {
	return len(d.data) / d.dim
}

// Dim returns the dimensionality of each point.
func (d *Dataset) Dim() int {
	return d.dim
}

// At returns the i-th point. The returned slice is a view into the dataset's
// backing array and must not be modified.
func (d *Dataset) At(i int) []float32 {
	return d.data[i*d.dim : (i+1)*d.dim]
}

// Centroids is an ordered set of cluster centers in the same flattened
// layout as Dataset.
type Centroids struct {
	data []float32
	dim  int
}

// NewCentroids allocates a zeroed centroid set for k clusters of the given
// dimension.
func NewCentroids(k, dim int) *Centroids {
	return &Centroids{data: make([]float32, k*dim), dim: dim}
}

// Len returns the number of centroids.
func (c *Centroids) Len() int {
	return len(c.data) / c.dim
}

// Dim returns the dimensionality of each centroid.
func (c *Centroids) Dim() int {
	return c.dim
}

// At returns the j-th centroid as a mutable view into the backing array.
func (c *Centroids) At(j int) []float32 {
	return c.data[j*c.dim : (j+1)*c.dim]
}

// Set overwrites the j-th centroid with v.
func (c *Centroids) Set(j int, v []float32) {
	copy(c.At(j), v)
}
