package features

import "sort"

// Vector is a sparse row of fixed dimensionality. Indices are strictly increasing.
type Vector struct {
	Dim     int
	Indices []int
	Values  []float64
}

// NNZ returns the number of stored (non-zero) entries.
func (v Vector) NNZ() int {
	return len(v.Indices)
}

// At returns the value at column i, zero when absent.
func (v Vector) At(i int) float64 {
	pos := sort.SearchInts(v.Indices, i)
	if pos < len(v.Indices) && v.Indices[pos] == i {
		return v.Values[pos]
	}
	return 0
}

// Zero returns an empty vector of dimension dim.
func Zero(dim int) Vector {
	return Vector{Dim: dim}
}
