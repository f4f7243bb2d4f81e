// Hybridrec - Hybrid Content and Collaborative Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package model

import "fmt"

// Factors holds pre-computed latent factors from a matrix factorization
// (e.g. truncated SVD). Users and items share dimensionality K.
// Factors are immutable after construction.
type Factors struct {
	k     int
	users map[int][]float64
	items [][]float64
}

// NewFactors validates and copies user and item factor rows.
// users maps user id to its factor row; items is indexed by item id.
func NewFactors(users map[int][]float64, items [][]float64) (*Factors, error) {
	if len(items) == 0 || len(items[0]) == 0 {
		return nil, fmt.Errorf("factors: %w", ErrEmptyCatalog)
	}

	k := len(items[0])
	f := &Factors{
		k:     k,
		users: make(map[int][]float64, len(users)),
		items: make([][]float64, len(items)),
	}

	for i, row := range items {
		if len(row) != k {
			return nil, fmt.Errorf("%w: item factor %d has %d columns, want %d", ErrDimensionMismatch, i, len(row), k)
		}
		f.items[i] = append([]float64(nil), row...)
	}
	for id, row := range users {
		if len(row) != k {
			return nil, fmt.Errorf("%w: user factor %d has %d columns, want %d", ErrDimensionMismatch, id, len(row), k)
		}
		f.users[id] = append([]float64(nil), row...)
	}

	return f, nil
}

// Rank returns the latent dimensionality K.
func (f *Factors) Rank() int { return f.k }

// ItemCount returns the number of item factor rows.
func (f *Factors) ItemCount() int { return len(f.items) }

// UserCount returns the number of users with a factor row.
func (f *Factors) UserCount() int { return len(f.users) }

// User returns the factor row for userID.
func (f *Factors) User(userID int) ([]float64, bool) {
	row, ok := f.users[userID]
	return row, ok
}

// Item returns the factor row for itemID. The slice must not be modified.
func (f *Factors) Item(itemID int) []float64 {
	return f.items[itemID]
}
