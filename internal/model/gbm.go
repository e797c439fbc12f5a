// Boxoffice - Movie Box-Office Revenue Analysis
// Copyright 2026 BM Datalab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bm-datalab/boxoffice

package model

import "math/rand"

// GBMConfig contains configuration for gradient-boosted trees.
type GBMConfig struct {
	// Rounds is the number of boosting iterations. Typical: 100-500.
	Rounds int

	// Depth limits each boosting tree. Typical range: 2-6.
	Depth int

	// LearningRate shrinks each tree's contribution. Typical: 0.01-0.1.
	LearningRate float64

	// Subsample is the row fraction drawn (without replacement) per
	// round. Typical: 0.5-1.0.
	Subsample float64

	// Lambda is the L2 regularization on leaf values.
	Lambda float64

	// MinLeaf is the minimum number of samples per leaf.
	MinLeaf int

	// Seed fixes the row subsampling.
	Seed int64
}

// GBM fits shallow regression trees to the residuals of the running
// prediction, shrunk by the learning rate.
type GBM struct {
	config GBMConfig

	base   float64
	trees  []*Tree
	names  []string
	fitted bool
}

// NewGBM creates a gradient-boosted tree model.
func NewGBM(cfg GBMConfig) *GBM {
	if cfg.Rounds <= 0 {
		cfg.Rounds = 100
	}
	if cfg.Depth <= 0 {
		cfg.Depth = 4
	}
	if cfg.LearningRate <= 0 {
		cfg.LearningRate = 0.05
	}
	if cfg.Subsample <= 0 || cfg.Subsample > 1 {
		cfg.Subsample = 1
	}
	if cfg.MinLeaf <= 0 {
		cfg.MinLeaf = 5
	}
	return &GBM{config: cfg}
}

// Fit runs the boosting iterations.
func (g *GBM) Fit(ds *Dataset) error {
	n := ds.Len()
	if n == 0 {
		return ErrNotFitted
	}
	g.names = ds.Names
	g.trees = make([]*Tree, 0, g.config.Rounds)

	var sum float64
	for _, y := range ds.Y {
		sum += y
	}
	g.base = sum / float64(n)

	pred := make([]float64, n)
	for i := range pred {
		pred[i] = g.base
	}

	residual := make([]float64, n)
	rng := rand.New(rand.NewSource(g.config.Seed)) //nolint:gosec // reproducible subsampling
	sampleSize := int(g.config.Subsample * float64(n))
	if sampleSize < 1 {
		sampleSize = 1
	}

	for round := 0; round < g.config.Rounds; round++ {
		for i := range residual {
			residual[i] = ds.Y[i] - pred[i]
		}

		sample := rng.Perm(n)[:sampleSize]
		sub := &Dataset{
			X:     make([][]float64, sampleSize),
			Y:     make([]float64, sampleSize),
			Names: ds.Names,
		}
		for k, i := range sample {
			sub.X[k] = ds.X[i]
			sub.Y[k] = residual[i]
		}

		tree := NewTree(TreeConfig{
			MaxDepth:   g.config.Depth,
			MinLeaf:    g.config.MinLeaf,
			MinSplit:   2 * g.config.MinLeaf,
			LeafLambda: g.config.Lambda,
			Seed:       rng.Int63(),
		})
		if err := tree.Fit(sub); err != nil {
			return err
		}
		g.trees = append(g.trees, tree)

		for i := range pred {
			p, err := tree.Predict(ds.X[i])
			if err != nil {
				return err
			}
			pred[i] += g.config.LearningRate * p
		}
	}

	g.fitted = true
	return nil
}

// Predict sums the shrunk tree contributions on top of the base value.
func (g *GBM) Predict(x []float64) (float64, error) {
	if !g.fitted {
		return 0, ErrNotFitted
	}
	out := g.base
	for _, tree := range g.trees {
		p, err := tree.Predict(x)
		if err != nil {
			return 0, err
		}
		out += g.config.LearningRate * p
	}
	return out, nil
}

// Importance aggregates split gain across all boosting trees.
func (g *GBM) Importance() map[string]float64 {
	imp := make(map[string]float64, len(g.names))
	for _, tree := range g.trees {
		for name, gain := range tree.Importance() {
			imp[name] += gain
		}
	}
	return imp
}

var (
	_ Regressor   = (*GBM)(nil)
	_ Importancer = (*GBM)(nil)
)
