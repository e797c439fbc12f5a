// Boxoffice - Movie Box-Office Revenue Analysis
// Copyright 2026 BM Datalab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bm-datalab/boxoffice

package model

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// KNNConfig contains configuration for the k-nearest-neighbor regressor.
type KNNConfig struct {
	// K is the number of neighbors averaged per prediction.
	// Typical range: 3-25.
	K int
}

// KNNRegressor predicts the mean target of the K training samples nearest
// in Euclidean distance. Callers are expected to standardize features
// first (see Standardizer) so no single column dominates the distance.
type KNNRegressor struct {
	config KNNConfig

	x      *mat.Dense
	y      []float64
	fitted bool
}

// NewKNNRegressor creates a KNN regressor.
func NewKNNRegressor(cfg KNNConfig) *KNNRegressor {
	if cfg.K <= 0 {
		cfg.K = 5
	}
	return &KNNRegressor{config: cfg}
}

// Fit memorizes the training samples.
func (k *KNNRegressor) Fit(ds *Dataset) error {
	n := ds.Len()
	if n == 0 {
		return ErrNotFitted
	}
	cols := len(ds.Names)

	flat := make([]float64, 0, n*cols)
	for _, row := range ds.X {
		flat = append(flat, row...)
	}
	k.x = mat.NewDense(n, cols, flat)
	k.y = make([]float64, n)
	copy(k.y, ds.Y)
	k.fitted = true
	return nil
}

// neighborDist pairs a training row with its distance to the query.
type neighborDist struct {
	row  int
	dist float64
}

// Predict averages the targets of the K nearest training rows.
func (k *KNNRegressor) Predict(q []float64) (float64, error) {
	if !k.fitted {
		return 0, ErrNotFitted
	}

	n, _ := k.x.Dims()
	neighbors := make([]neighborDist, n)
	for i := 0; i < n; i++ {
		neighbors[i] = neighborDist{
			row:  i,
			dist: floats.Distance(k.x.RawRowView(i), q, 2),
		}
	}

	sort.Slice(neighbors, func(a, b int) bool {
		if neighbors[a].dist != neighbors[b].dist {
			return neighbors[a].dist < neighbors[b].dist
		}
		return neighbors[a].row < neighbors[b].row
	})

	kk := k.config.K
	if kk > n {
		kk = n
	}

	var sum float64
	for _, nb := range neighbors[:kk] {
		sum += k.y[nb.row]
	}
	return sum / float64(kk), nil
}

var _ Regressor = (*KNNRegressor)(nil)
