// Boxoffice - Movie Box-Office Revenue Analysis
// Copyright 2026 BM Datalab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bm-datalab/boxoffice

package model

import (
	"math"
	"math/rand"
	"sort"
)

// TreeConfig contains configuration for the regression tree.
type TreeConfig struct {
	// MaxDepth limits tree depth. 0 means unlimited.
	MaxDepth int

	// MinSplit is the minimum number of samples a node needs before a
	// split is attempted. Typical range: 5-20.
	MinSplit int

	// MinLeaf is the minimum number of samples per leaf.
	MinLeaf int

	// CP is the complexity parameter: a split is kept only when its
	// error reduction exceeds CP times the root node's total squared
	// error. Typical range: 0.0001-0.05.
	CP float64

	// MaxFeatures is the number of candidate features drawn at random
	// for each split. 0 means all features (plain CART / bagging).
	MaxFeatures int

	// LeafLambda adds L2 shrinkage to leaf values:
	// value = sum(y) / (n + lambda). Used by gradient boosting.
	LeafLambda float64

	// Seed drives the feature subsampling when MaxFeatures > 0.
	Seed int64
}

// treeNode is one node of a fitted regression tree.
type treeNode struct {
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
	value     float64
	leaf      bool
}

// Tree is a CART-style regression tree grown by greedy variance reduction.
type Tree struct {
	config TreeConfig

	root    *treeNode
	names   []string
	gains   []float64
	rootSSE float64
	rng     *rand.Rand
	fitted  bool
}

// NewTree creates a regression tree with the given configuration.
func NewTree(cfg TreeConfig) *Tree {
	if cfg.MinSplit <= 0 {
		cfg.MinSplit = 10
	}
	if cfg.MinLeaf <= 0 {
		cfg.MinLeaf = 5
	}
	if cfg.MinSplit < 2*cfg.MinLeaf {
		cfg.MinSplit = 2 * cfg.MinLeaf
	}
	return &Tree{config: cfg}
}

// Fit grows the tree on the dataset.
func (t *Tree) Fit(ds *Dataset) error {
	if ds.Len() == 0 {
		return ErrNotFitted
	}

	t.names = ds.Names
	t.gains = make([]float64, len(ds.Names))
	t.rng = rand.New(rand.NewSource(t.config.Seed)) //nolint:gosec // reproducible feature sampling

	idx := make([]int, ds.Len())
	for i := range idx {
		idx[i] = i
	}

	_, sse := meanSSE(ds.Y, idx)
	t.rootSSE = sse
	t.root = t.grow(ds, idx, 1)
	t.fitted = true
	return nil
}

// grow recursively builds the subtree over the given sample indices.
func (t *Tree) grow(ds *Dataset, idx []int, depth int) *treeNode {
	sum := 0.0
	for _, i := range idx {
		sum += ds.Y[i]
	}
	n := float64(len(idx))
	node := &treeNode{
		leaf:  true,
		value: sum / (n + t.config.LeafLambda),
	}

	if t.config.MaxDepth > 0 && depth > t.config.MaxDepth {
		return node
	}
	if len(idx) < t.config.MinSplit {
		return node
	}

	_, sse := meanSSE(ds.Y, idx)
	if sse <= 1e-12 {
		return node
	}

	feature, threshold, gain := t.bestSplit(ds, idx, sse)
	if feature < 0 || gain <= t.config.CP*t.rootSSE {
		return node
	}

	var leftIdx, rightIdx []int
	for _, i := range idx {
		if ds.X[i][feature] <= threshold {
			leftIdx = append(leftIdx, i)
		} else {
			rightIdx = append(rightIdx, i)
		}
	}
	if len(leftIdx) < t.config.MinLeaf || len(rightIdx) < t.config.MinLeaf {
		return node
	}

	t.gains[feature] += gain

	node.leaf = false
	node.feature = feature
	node.threshold = threshold
	node.left = t.grow(ds, leftIdx, depth+1)
	node.right = t.grow(ds, rightIdx, depth+1)
	return node
}

// bestSplit scans candidate features for the split with the largest
// squared-error reduction. Returns feature -1 when no legal split exists.
func (t *Tree) bestSplit(ds *Dataset, idx []int, nodeSSE float64) (feature int, threshold, gain float64) {
	feature = -1

	candidates := t.candidateFeatures(len(ds.Names))

	sorted := make([]int, len(idx))
	for _, j := range candidates {
		copy(sorted, idx)
		sort.Slice(sorted, func(a, b int) bool {
			return ds.X[sorted[a]][j] < ds.X[sorted[b]][j]
		})

		var sumL, sumSqL float64
		var sumR, sumSqR float64
		for _, i := range sorted {
			sumR += ds.Y[i]
			sumSqR += ds.Y[i] * ds.Y[i]
		}

		n := len(sorted)
		for k := 1; k < n; k++ {
			y := ds.Y[sorted[k-1]]
			sumL += y
			sumSqL += y * y
			sumR -= y
			sumSqR -= y * y

			prev := ds.X[sorted[k-1]][j]
			cur := ds.X[sorted[k]][j]
			if prev == cur {
				continue
			}
			if k < t.config.MinLeaf || n-k < t.config.MinLeaf {
				continue
			}

			sseL := sumSqL - sumL*sumL/float64(k)
			sseR := sumSqR - sumR*sumR/float64(n-k)
			g := nodeSSE - sseL - sseR
			if g > gain {
				gain = g
				feature = j
				threshold = (prev + cur) / 2
			}
		}
	}

	return feature, threshold, gain
}

// candidateFeatures returns the feature indices considered for a split:
// all of them, or a random subset of size MaxFeatures.
func (t *Tree) candidateFeatures(total int) []int {
	m := t.config.MaxFeatures
	if m <= 0 || m >= total {
		all := make([]int, total)
		for j := range all {
			all[j] = j
		}
		return all
	}
	perm := t.rng.Perm(total)
	return perm[:m]
}

// Predict walks the tree for a single feature vector.
func (t *Tree) Predict(x []float64) (float64, error) {
	if !t.fitted {
		return 0, ErrNotFitted
	}
	node := t.root
	for !node.leaf {
		if x[node.feature] <= node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node.value, nil
}

// Importance returns the accumulated squared-error reduction per feature.
func (t *Tree) Importance() map[string]float64 {
	imp := make(map[string]float64, len(t.names))
	for j, g := range t.gains {
		if g > 0 {
			imp[t.names[j]] = g
		}
	}
	return imp
}

// meanSSE returns the mean of Y over idx and the total squared error
// around that mean.
func meanSSE(y []float64, idx []int) (mean, sse float64) {
	if len(idx) == 0 {
		return 0, 0
	}
	var sum, sumSq float64
	for _, i := range idx {
		sum += y[i]
		sumSq += y[i] * y[i]
	}
	n := float64(len(idx))
	mean = sum / n
	sse = sumSq - sum*sum/n
	if sse < 0 || math.IsNaN(sse) {
		sse = 0
	}
	return mean, sse
}

var (
	_ Regressor   = (*Tree)(nil)
	_ Importancer = (*Tree)(nil)
)
