// Boxoffice - Movie Box-Office Revenue Analysis
// Copyright 2026 BM Datalab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bm-datalab/boxoffice

package dataset

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// SplitOptions controls the stratified train/test partition.
type SplitOptions struct {
	// Fraction is the share of records labelled train. Typical: 0.8.
	Fraction float64

	// Seed fixes the shuffle so the same input always yields the same
	// partition.
	Seed int64

	// Bins is the number of target quantile bins used for
	// stratification. Typical: 10.
	Bins int

	// MaxNonFiniteFrac is the tolerated share of non-finite target
	// values before the split aborts.
	MaxNonFiniteFrac float64
}

// StratifiedSplit labels every finite-target record train or test,
// stratified on the revenue target so both partitions carry approximately
// the same target distribution. Records whose target is non-finite stay
// unlabelled and belong to neither partition; more than
// MaxNonFiniteFrac of them aborts the split. The partition is fixed once;
// callers must not re-split.
func StratifiedSplit(t *Table, opts SplitOptions) error {
	if opts.Fraction <= 0 || opts.Fraction >= 1 {
		return fmt.Errorf("split fraction %v outside (0, 1)", opts.Fraction)
	}
	if opts.Bins < 2 {
		opts.Bins = 10
	}
	n := t.Len()
	if n == 0 {
		return fmt.Errorf("cannot split empty table")
	}

	nonFinite := 0
	for i := range t.Records {
		if !isFinite(t.Records[i].Revenue) {
			nonFinite++
		}
	}
	if frac := float64(nonFinite) / float64(n); frac > opts.MaxNonFiniteFrac {
		return fmt.Errorf("target column has %.1f%% non-finite values (limit %.1f%%)",
			frac*100, opts.MaxNonFiniteFrac*100)
	}

	// Order the finite-target records by target, then slice the ordering
	// into quantile bins. Ties sort by record position, which is stable
	// for a fixed input file. Tolerated non-finite rows are left out so a
	// NaN target can never reach training.
	order := make([]int, 0, n)
	for i := range t.Records {
		if isFinite(t.Records[i].Revenue) {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return t.Records[order[a]].Revenue < t.Records[order[b]].Revenue
	})

	rng := rand.New(rand.NewSource(opts.Seed)) //nolint:gosec // reproducible sampling, not cryptography

	finite := len(order)
	binSize := (finite + opts.Bins - 1) / opts.Bins
	for start := 0; start < finite; start += binSize {
		end := start + binSize
		if end > finite {
			end = finite
		}
		bin := make([]int, end-start)
		copy(bin, order[start:end])

		rng.Shuffle(len(bin), func(i, j int) {
			bin[i], bin[j] = bin[j], bin[i]
		})

		cut := int(math.Round(opts.Fraction * float64(len(bin))))
		for k, idx := range bin {
			if k < cut {
				t.Records[idx].Label = LabelTrain
			} else {
				t.Records[idx].Label = LabelTest
			}
		}
	}

	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
