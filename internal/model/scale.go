// Boxoffice - Movie Box-Office Revenue Analysis
// Copyright 2026 BM Datalab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bm-datalab/boxoffice

package model

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Standardizer centers and scales feature columns to zero mean and unit
// standard deviation. Statistics come from the data passed to Fit; the
// same transform is then applied everywhere else, so distance-based models
// never learn test-set scale.
type Standardizer struct {
	Means []float64
	Stds  []float64
}

// Fit computes per-column means and standard deviations.
func (s *Standardizer) Fit(x [][]float64) error {
	if len(x) == 0 {
		return fmt.Errorf("model: cannot standardize empty matrix")
	}
	cols := len(x[0])
	s.Means = make([]float64, cols)
	s.Stds = make([]float64, cols)

	col := make([]float64, len(x))
	for j := 0; j < cols; j++ {
		for i := range x {
			col[i] = x[i][j]
		}
		s.Means[j] = stat.Mean(col, nil)
		s.Stds[j] = stat.StdDev(col, nil)
		if s.Stds[j] == 0 || s.Stds[j] != s.Stds[j] {
			// Constant column: leave it centered only.
			s.Stds[j] = 1
		}
	}
	return nil
}

// Transform returns a standardized copy of x.
func (s *Standardizer) Transform(x [][]float64) ([][]float64, error) {
	if s.Means == nil {
		return nil, ErrNotFitted
	}
	out := make([][]float64, len(x))
	for i, row := range x {
		if len(row) != len(s.Means) {
			return nil, fmt.Errorf("model: row has %d columns, standardizer fitted on %d", len(row), len(s.Means))
		}
		scaled := make([]float64, len(row))
		for j, v := range row {
			scaled[j] = (v - s.Means[j]) / s.Stds[j]
		}
		out[i] = scaled
	}
	return out, nil
}

// TransformRow standardizes a single feature vector.
func (s *Standardizer) TransformRow(row []float64) ([]float64, error) {
	out, err := s.Transform([][]float64{row})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}
