// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package model

import (
	"errors"
	"fmt"
	"math"
)

// NormEpsilon is added to every row norm before division so that genuinely
// zero rows normalize to zero instead of NaN.
const NormEpsilon = 1e-8

var (
	// ErrDimensionMismatch is returned when embedding rows (or factor rows)
	// do not share a single dimensionality. It is fatal at load time.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrEmptyCatalog is returned when a catalog has no rows or zero dimensions.
	ErrEmptyCatalog = errors.New("embedding catalog is empty")
)

// Catalog is the immutable dense embedding matrix, one row per item id.
//
// Rows are stored flat (row-major) together with a unit-normalized copy that
// the content scorer uses for cosine similarity. A Catalog is never mutated
// after construction and is safe for concurrent readers without locking.
type Catalog struct {
	dim        int
	rows       int
	raw        []float64
	normalized []float64
}

// NewCatalog validates and copies the given rows into a Catalog.
// All rows must have the same, non-zero length.
func NewCatalog(rows [][]float64) (*Catalog, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyCatalog
	}

	dim := len(rows[0])
	raw := make([]float64, 0, len(rows)*dim)
	for i, row := range rows {
		if len(row) != dim {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrDimensionMismatch, i, len(row), dim)
		}
		raw = append(raw, row...)
	}

	c := &Catalog{
		dim:        dim,
		rows:       len(rows),
		raw:        raw,
		normalized: make([]float64, len(raw)),
	}

	for i := 0; i < c.rows; i++ {
		src := c.raw[i*dim : (i+1)*dim]
		dst := c.normalized[i*dim : (i+1)*dim]
		norm := Norm(src) + NormEpsilon
		for j, v := range src {
			dst[j] = v / norm
		}
	}

	return c, nil
}

// Len returns the number of items (rows).
func (c *Catalog) Len() int { return c.rows }

// Dim returns the embedding dimensionality D.
func (c *Catalog) Dim() int { return c.dim }

// Contains reports whether id addresses a row.
func (c *Catalog) Contains(id int) bool {
	return id >= 0 && id < c.rows
}

// Row returns the raw embedding for id. The slice aliases catalog storage
// and must not be modified.
func (c *Catalog) Row(id int) []float64 {
	return c.raw[id*c.dim : (id+1)*c.dim : (id+1)*c.dim]
}

// NormalizedRow returns the unit-normalized embedding for id. The slice
// aliases catalog storage and must not be modified.
func (c *Catalog) NormalizedRow(id int) []float64 {
	return c.normalized[id*c.dim : (id+1)*c.dim : (id+1)*c.dim]
}

// Norm returns the Euclidean norm of v.
func Norm(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Dot returns the dot product of a and b, which must have equal length.
func Dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
