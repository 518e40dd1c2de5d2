// Package classifier implements the decision tree and random forest used to label
// TF-IDF vectors as FAKE or REAL.
package classifier

import (
	"fmt"
	"sort"

	"FakeNewsDetector/internal/domain"
	"FakeNewsDetector/internal/features"
)

type colEntry struct {
	sample int32
	value  float64
}

// Dataset is a labeled feature matrix with a column index used during splitting.
type Dataset struct {
	rows   []features.Vector
	labels []int
	dim    int
	cols   [][]colEntry
}

// NewDataset validates rows and labels and builds the column index.
func NewDataset(rows []features.Vector, labels []domain.Label) (*Dataset, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no training rows", domain.ErrConfig)
	}
	if len(rows) != len(labels) {
		return nil, fmt.Errorf("%w: %d rows but %d labels", domain.ErrConfig, len(rows), len(labels))
	}

	dim := rows[0].Dim
	if dim <= 0 {
		return nil, fmt.Errorf("%w: feature dimension must be positive", domain.ErrConfig)
	}

	ds := &Dataset{
		rows:   rows,
		labels: make([]int, len(labels)),
		dim:    dim,
		cols:   make([][]colEntry, dim),
	}
	for i, label := range labels {
		idx := label.Index()
		if idx < 0 {
			return nil, fmt.Errorf("%w: row %d has unknown label %q", domain.ErrTraining, i, label)
		}
		ds.labels[i] = idx
	}

	for i, row := range rows {
		if row.Dim != dim {
			return nil, fmt.Errorf("%w: row %d has dimension %d, want %d", domain.ErrConfig, i, row.Dim, dim)
		}
		for k, col := range row.Indices {
			ds.cols[col] = append(ds.cols[col], colEntry{sample: int32(i), value: row.Values[k]})
		}
	}
	for _, col := range ds.cols {
		sort.Slice(col, func(a, b int) bool {
			if col[a].value != col[b].value {
				return col[a].value < col[b].value
			}
			return col[a].sample < col[b].sample
		})
	}

	return ds, nil
}

// Len is the number of rows.
func (d *Dataset) Len() int {
	return len(d.rows)
}

// Dim is the feature dimensionality.
func (d *Dataset) Dim() int {
	return d.dim
}
