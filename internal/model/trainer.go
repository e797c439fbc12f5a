// Boxoffice - Movie Box-Office Revenue Analysis
// Copyright 2026 BM Datalab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bm-datalab/boxoffice

package model

import (
	"fmt"
	"math"
	"sync"

	"github.com/rs/zerolog"
)

// GridPoint is one hyperparameter combination of a candidate model.
type GridPoint struct {
	// Label identifies the combination in logs and reports,
	// e.g. "cp=0.001" or "mtry=8 min_leaf=5".
	Label string

	// Factory builds an unfitted model with this combination.
	Factory func() Regressor
}

// Candidate is one algorithm entered into the model comparison, together
// with its hyperparameter grid.
type Candidate struct {
	Name   string
	Points []GridPoint
}

// GridPointResult holds the cross-validated error distribution of one
// grid point.
type GridPointResult struct {
	Label   string     `json:"label"`
	RMSEs   []float64  `json:"rmses"`
	Summary FiveNumber `json:"summary"`
}

// CandidateResult holds a candidate's surviving grid points and its best
// point by median RMSE. Immutable once cross-validation completes.
type CandidateResult struct {
	Name   string            `json:"name"`
	Best   GridPointResult   `json:"best"`
	Points []GridPointResult `json:"points"`

	bestFactory func() Regressor
}

// Selection is the outcome of the model comparison: every candidate's CV
// distribution plus the final model refitted on the full training data.
type Selection struct {
	Candidates []CandidateResult
	BestIndex  int
	Final      Regressor
}

// TrainOptions configures TrainAndSelect.
type TrainOptions struct {
	// Folds is the shared fold assignment used by every candidate.
	Folds *FoldAssignment

	// Workers bounds parallel grid-point evaluations. 0 means
	// sequential. Evaluations are independent, so this only affects
	// throughput.
	Workers int

	Logger zerolog.Logger
}

// TrainAndSelect cross-validates every candidate's grid under the shared
// folds, keeps the best grid point per candidate by median RMSE, and
// selects the candidate with the lowest median. The winner is refitted on
// the full dataset.
//
// A grid point whose fit fails or produces a non-finite RMSE is excluded
// from its candidate's summary with a warning; other points and candidates
// are unaffected.
func TrainAndSelect(ds *Dataset, candidates []Candidate, opts TrainOptions) (*Selection, error) {
	if opts.Folds == nil {
		return nil, fmt.Errorf("model: fold assignment required")
	}

	type job struct {
		cand  int
		point int
	}
	type outcome struct {
		job    job
		result GridPointResult
		err    error
	}

	var jobs []job
	for c := range candidates {
		for p := range candidates[c].Points {
			jobs = append(jobs, job{cand: c, point: p})
		}
	}

	outcomes := make([]outcome, len(jobs))
	run := func(ji int) {
		j := jobs[ji]
		point := candidates[j.cand].Points[j.point]
		rmses, err := CrossValidate(ds, opts.Folds, point.Factory)
		if err != nil {
			outcomes[ji] = outcome{job: j, err: err}
			return
		}
		outcomes[ji] = outcome{
			job: j,
			result: GridPointResult{
				Label:   point.Label,
				RMSEs:   rmses,
				Summary: Summarize(rmses),
			},
		}
	}

	if opts.Workers <= 1 {
		for ji := range jobs {
			run(ji)
		}
	} else {
		var wg sync.WaitGroup
		chunkSize := (len(jobs) + opts.Workers - 1) / opts.Workers
		for w := 0; w < opts.Workers; w++ {
			start := w * chunkSize
			end := start + chunkSize
			if end > len(jobs) {
				end = len(jobs)
			}
			if start >= end {
				break
			}
			wg.Add(1)
			go func(start, end int) {
				defer wg.Done()
				for ji := start; ji < end; ji++ {
					run(ji)
				}
			}(start, end)
		}
		wg.Wait()
	}

	results := make([]CandidateResult, 0, len(candidates))
	for c := range candidates {
		cr := CandidateResult{Name: candidates[c].Name}
		bestMedian := math.Inf(1)

		for ji := range jobs {
			if jobs[ji].cand != c {
				continue
			}
			o := outcomes[ji]
			point := candidates[c].Points[jobs[ji].point]

			if o.err != nil || !finiteSummary(o.result.Summary) {
				opts.Logger.Warn().
					Str("candidate", cr.Name).
					Str("grid_point", point.Label).
					AnErr("error", o.err).
					Msg("degenerate grid point excluded from summary")
				continue
			}

			cr.Points = append(cr.Points, o.result)
			if o.result.Summary.Median < bestMedian {
				bestMedian = o.result.Summary.Median
				cr.Best = o.result
				cr.bestFactory = point.Factory
			}
		}

		if len(cr.Points) == 0 {
			opts.Logger.Warn().
				Str("candidate", cr.Name).
				Msg("candidate has no valid grid points, excluded from comparison")
			continue
		}

		opts.Logger.Info().
			Str("candidate", cr.Name).
			Str("best_grid_point", cr.Best.Label).
			Float64("median_rmse", cr.Best.Summary.Median).
			Msg("candidate cross-validated")
		results = append(results, cr)
	}

	if len(results) == 0 {
		return nil, fmt.Errorf("model: no candidate produced a valid cross-validation result")
	}

	best := SelectBest(results)
	final := results[best].bestFactory()
	if err := final.Fit(ds); err != nil {
		return nil, fmt.Errorf("model: refit of selected candidate %q: %w", results[best].Name, err)
	}

	opts.Logger.Info().
		Str("selected", results[best].Name).
		Float64("median_rmse", results[best].Best.Summary.Median).
		Msg("final model selected")

	return &Selection{Candidates: results, BestIndex: best, Final: final}, nil
}

// SelectBest returns the index of the candidate with the lowest median
// cross-validated RMSE. The spread of the distribution does not matter;
// only the median is compared. Ties keep the earlier candidate.
func SelectBest(results []CandidateResult) int {
	best := 0
	for i := 1; i < len(results); i++ {
		if results[i].Best.Summary.Median < results[best].Best.Summary.Median {
			best = i
		}
	}
	return best
}

func finiteSummary(s FiveNumber) bool {
	for _, v := range []float64{s.Min, s.Q1, s.Median, s.Q3, s.Max} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
