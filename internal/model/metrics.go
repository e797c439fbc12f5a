// Boxoffice - Movie Box-Office Revenue Analysis
// Copyright 2026 BM Datalab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bm-datalab/boxoffice

package model

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// RMSE returns the root-mean-square error between predictions and truth.
func RMSE(pred, truth []float64) (float64, error) {
	if len(pred) != len(truth) {
		return 0, fmt.Errorf("model: %d predictions for %d targets", len(pred), len(truth))
	}
	if len(pred) == 0 {
		return 0, fmt.Errorf("model: RMSE of empty slice")
	}

	var sum float64
	for i := range pred {
		d := pred[i] - truth[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(pred))), nil
}

// FiveNumber is the five-number summary of an error distribution.
type FiveNumber struct {
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// Summarize computes the five-number summary of vals.
func Summarize(vals []float64) FiveNumber {
	if len(vals) == 0 {
		return FiveNumber{}
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	return FiveNumber{
		Min:    sorted[0],
		Q1:     stat.Quantile(0.25, stat.Empirical, sorted, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Q3:     stat.Quantile(0.75, stat.Empirical, sorted, nil),
		Max:    sorted[len(sorted)-1],
	}
}

// ImportancePair is one entry of a ranked feature-importance table.
type ImportancePair struct {
	Feature string  `json:"feature"`
	Score   float64 `json:"score"`
}

// TopImportances ranks an importance map descending by score (feature
// name ascending on ties) and keeps the first n entries.
func TopImportances(imp map[string]float64, n int) []ImportancePair {
	pairs := make([]ImportancePair, 0, len(imp))
	for f, s := range imp {
		pairs = append(pairs, ImportancePair{Feature: f, Score: s})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Score != pairs[j].Score {
			return pairs[i].Score > pairs[j].Score
		}
		return pairs[i].Feature < pairs[j].Feature
	})
	if n > 0 && len(pairs) > n {
		pairs = pairs[:n]
	}
	return pairs
}
