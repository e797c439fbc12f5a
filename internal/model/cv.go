// Boxoffice - Movie Box-Office Revenue Analysis
// Copyright 2026 BM Datalab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bm-datalab/boxoffice

package model

import (
	"fmt"
	"math/rand"
)

// FoldAssignment maps every training row to a cross-validation fold. It
// is built once from a seed and shared by all candidate models, so every
// candidate trains and validates on exactly the same row sets.
type FoldAssignment struct {
	k    int
	fold []int
}

// NewFoldAssignment assigns n rows to k folds in shuffled round-robin
// order, which keeps fold sizes within one row of each other.
func NewFoldAssignment(n, k int, seed int64) (*FoldAssignment, error) {
	if k < 2 {
		return nil, fmt.Errorf("model: need at least 2 folds, got %d", k)
	}
	if n < k {
		return nil, fmt.Errorf("model: %d rows cannot fill %d folds", n, k)
	}

	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // reproducible folds
	perm := rng.Perm(n)

	fold := make([]int, n)
	for pos, row := range perm {
		fold[row] = pos % k
	}
	return &FoldAssignment{k: k, fold: fold}, nil
}

// K returns the fold count.
func (f *FoldAssignment) K() int {
	return f.k
}

// Len returns the number of assigned rows.
func (f *FoldAssignment) Len() int {
	return len(f.fold)
}

// Split returns the train and validation row indices for fold k.
func (f *FoldAssignment) Split(k int) (train, val []int) {
	for i, fk := range f.fold {
		if fk == k {
			val = append(val, i)
		} else {
			train = append(train, i)
		}
	}
	return train, val
}

// CrossValidate trains a fresh model per fold and returns one validation
// RMSE per fold.
func CrossValidate(ds *Dataset, folds *FoldAssignment, factory func() Regressor) ([]float64, error) {
	if folds.Len() != ds.Len() {
		return nil, fmt.Errorf("model: fold assignment covers %d rows, dataset has %d", folds.Len(), ds.Len())
	}

	rmses := make([]float64, 0, folds.K())
	for k := 0; k < folds.K(); k++ {
		trainIdx, valIdx := folds.Split(k)

		m := factory()
		if err := m.Fit(ds.Subset(trainIdx)); err != nil {
			return nil, fmt.Errorf("fold %d: %w", k, err)
		}

		val := ds.Subset(valIdx)
		preds, err := predictAll(m, val.X)
		if err != nil {
			return nil, fmt.Errorf("fold %d: %w", k, err)
		}
		rmse, err := RMSE(preds, val.Y)
		if err != nil {
			return nil, fmt.Errorf("fold %d: %w", k, err)
		}
		rmses = append(rmses, rmse)
	}
	return rmses, nil
}

// RepeatedCV runs k-fold cross-validation `repeats` times with distinct
// fold assignments and concatenates the per-fold RMSEs.
func RepeatedCV(ds *Dataset, k, repeats int, seed int64, factory func() Regressor) ([]float64, error) {
	var all []float64
	for r := 0; r < repeats; r++ {
		folds, err := NewFoldAssignment(ds.Len(), k, seed+int64(r))
		if err != nil {
			return nil, err
		}
		rmses, err := CrossValidate(ds, folds, factory)
		if err != nil {
			return nil, err
		}
		all = append(all, rmses...)
	}
	return all, nil
}
