// Package math32 provides float32 vector kernels for centroid arithmetic.
// This is an internal package - external users should use the distance package.
package math32

// SquaredL2 calculates the squared L2 distance.
// Public for use by the distance package.
// Assumes vectors are the same length (caller's responsibility).
func SquaredL2(a, b []float32) float32 {
	var distance float32
	for i := range a {
		distance += (a[i] - b[i]) * (a[i] - b[i])
	}

	return distance
}

// L1 calculates the Manhattan distance.
// Public for use by the distance package.
func L1(a, b []float32) float32 {
	var distance float32
	for i := range a {
		d := a[i] - b[i]
		if d < 0 {
			d = -d
		}
		distance += d
	}

	return distance
}

// AddInPlace adds src to dst element-wise.
//
// This is primarily used by centroid accumulation.
func AddInPlace(dst, src []float32) {
	for i := range dst {
		dst[i] += src[i]
	}
}

// AddScaledInPlace adds scalar*src to dst element-wise.
//
// Used to fold one population-weighted centroid into another during merging.
func AddScaledInPlace(dst, src []float32, scalar float32) {
	for i := range dst {
		dst[i] += src[i] * scalar
	}
}

// ScaleInPlace multiplies all elements of a by scalar.
func ScaleInPlace(a []float32, scalar float32) {
	for i := range a {
		a[i] *= scalar
	}
}

// Zero sets all elements of a to zero.
func Zero(a []float32) {
	for i := range a {
		a[i] = 0
	}
}
