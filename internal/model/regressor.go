// Boxoffice - Movie Box-Office Revenue Analysis
// Copyright 2026 BM Datalab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bm-datalab/boxoffice

// Package model implements the regression algorithms compared by the
// pipeline (regression trees, bagged trees, random forests, gradient
// boosting, k-nearest-neighbor regression) together with the shared
// cross-validation harness and model selection.
//
// # Fair comparison
//
// Every candidate is evaluated under the same FoldAssignment, built once
// from a seed. Sharing the fold object - rather than replaying a seed
// before each training call - removes any dependence on a particular
// pseudo-random generator's replay behavior.
package model

import (
	"errors"
	"fmt"
)

// ErrNotFitted is returned when predicting with an untrained model.
var ErrNotFitted = errors.New("model: not fitted")

// Dataset is a dense design matrix with aligned targets and feature names.
type Dataset struct {
	// X is row-major: X[i][j] is feature j of sample i.
	X [][]float64

	// Y is the regression target, aligned with X.
	Y []float64

	// Names holds one name per feature column, used for importance
	// reporting.
	Names []string
}

// NewDataset validates and wraps a design matrix.
func NewDataset(x [][]float64, y []float64, names []string) (*Dataset, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("model: %d rows but %d targets", len(x), len(y))
	}
	if len(x) > 0 && len(names) != len(x[0]) {
		return nil, fmt.Errorf("model: %d feature names for %d columns", len(names), len(x[0]))
	}
	return &Dataset{X: x, Y: y, Names: names}, nil
}

// Len returns the number of samples.
func (d *Dataset) Len() int {
	return len(d.Y)
}

// Subset returns a view-free copy restricted to the given row indices.
func (d *Dataset) Subset(idx []int) *Dataset {
	x := make([][]float64, len(idx))
	y := make([]float64, len(idx))
	for k, i := range idx {
		x[k] = d.X[i]
		y[k] = d.Y[i]
	}
	return &Dataset{X: x, Y: y, Names: d.Names}
}

// Regressor is a trainable regression model.
type Regressor interface {
	// Fit trains the model on the dataset.
	Fit(ds *Dataset) error

	// Predict returns the prediction for a single feature vector.
	// Returns ErrNotFitted before Fit.
	Predict(x []float64) (float64, error)
}

// Importancer is implemented by models that expose a feature-importance
// ranking after fitting.
type Importancer interface {
	// Importance maps feature name to a non-negative importance score.
	Importance() map[string]float64
}

// predictAll scores every row of X with the fitted regressor.
func predictAll(r Regressor, x [][]float64) ([]float64, error) {
	preds := make([]float64, len(x))
	for i, row := range x {
		p, err := r.Predict(row)
		if err != nil {
			return nil, err
		}
		preds[i] = p
	}
	return preds, nil
}
