// Boxoffice - Movie Box-Office Revenue Analysis
// Copyright 2026 BM Datalab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bm-datalab/boxoffice

package model

import (
	"math/rand"
	"sync"
)

// ForestConfig contains configuration for bagged trees and random forests.
type ForestConfig struct {
	// Trees is the ensemble size. Typical range: 100-500.
	Trees int

	// MaxFeatures is the number of split candidates drawn per node.
	// 0 means all features, which turns the forest into plain bagging.
	MaxFeatures int

	// MinLeaf is the minimum number of samples per leaf.
	MinLeaf int

	// MaxDepth limits individual tree depth. 0 means unlimited.
	MaxDepth int

	// Seed fixes bootstrap sampling and feature subsampling.
	Seed int64

	// Workers bounds parallel tree fitting. 0 means sequential.
	// Parallelism is a throughput optimization only; results are
	// identical either way because every tree owns its seed.
	Workers int
}

// Forest averages bootstrap-sampled regression trees. With MaxFeatures 0
// it is a bagged ensemble; with MaxFeatures > 0 it is a random forest.
type Forest struct {
	config ForestConfig

	trees  []*Tree
	names  []string
	fitted bool
}

// NewForest creates a tree ensemble with the given configuration.
func NewForest(cfg ForestConfig) *Forest {
	if cfg.Trees <= 0 {
		cfg.Trees = 100
	}
	if cfg.MinLeaf <= 0 {
		cfg.MinLeaf = 5
	}
	return &Forest{config: cfg}
}

// Fit grows the ensemble. Each tree sees a bootstrap sample of the rows
// and, when MaxFeatures is set, a random feature subset per split.
func (f *Forest) Fit(ds *Dataset) error {
	if ds.Len() == 0 {
		return ErrNotFitted
	}
	f.names = ds.Names
	f.trees = make([]*Tree, f.config.Trees)

	// Bootstrap indices are drawn up front from a single seeded source
	// so the fit is reproducible regardless of worker scheduling.
	rng := rand.New(rand.NewSource(f.config.Seed)) //nolint:gosec // reproducible sampling
	samples := make([][]int, f.config.Trees)
	seeds := make([]int64, f.config.Trees)
	n := ds.Len()
	for b := range samples {
		sample := make([]int, n)
		for i := range sample {
			sample[i] = rng.Intn(n)
		}
		samples[b] = sample
		seeds[b] = rng.Int63()
	}

	fitTree := func(b int) error {
		tree := NewTree(TreeConfig{
			MaxDepth:    f.config.MaxDepth,
			MinLeaf:     f.config.MinLeaf,
			MaxFeatures: f.config.MaxFeatures,
			Seed:        seeds[b],
		})
		if err := tree.Fit(ds.Subset(samples[b])); err != nil {
			return err
		}
		f.trees[b] = tree
		return nil
	}

	if f.config.Workers <= 1 {
		for b := 0; b < f.config.Trees; b++ {
			if err := fitTree(b); err != nil {
				return err
			}
		}
	} else {
		var wg sync.WaitGroup
		var mu sync.Mutex
		var firstErr error

		chunkSize := (f.config.Trees + f.config.Workers - 1) / f.config.Workers
		for w := 0; w < f.config.Workers; w++ {
			start := w * chunkSize
			end := start + chunkSize
			if end > f.config.Trees {
				end = f.config.Trees
			}
			if start >= end {
				break
			}

			wg.Add(1)
			go func(start, end int) {
				defer wg.Done()
				for b := start; b < end; b++ {
					if err := fitTree(b); err != nil {
						mu.Lock()
						if firstErr == nil {
							firstErr = err
						}
						mu.Unlock()
						return
					}
				}
			}(start, end)
		}
		wg.Wait()
		if firstErr != nil {
			return firstErr
		}
	}

	f.fitted = true
	return nil
}

// Predict averages the tree predictions.
func (f *Forest) Predict(x []float64) (float64, error) {
	if !f.fitted {
		return 0, ErrNotFitted
	}
	var sum float64
	for _, tree := range f.trees {
		p, err := tree.Predict(x)
		if err != nil {
			return 0, err
		}
		sum += p
	}
	return sum / float64(len(f.trees)), nil
}

// Importance aggregates impurity-based importance across trees.
func (f *Forest) Importance() map[string]float64 {
	imp := make(map[string]float64, len(f.names))
	for _, tree := range f.trees {
		for name, g := range tree.Importance() {
			imp[name] += g
		}
	}
	for name := range imp {
		imp[name] /= float64(len(f.trees))
	}
	return imp
}

var (
	_ Regressor   = (*Forest)(nil)
	_ Importancer = (*Forest)(nil)
)
