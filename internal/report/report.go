// Boxoffice - Movie Box-Office Revenue Analysis
// Copyright 2026 BM Datalab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bm-datalab/boxoffice

// Package report assembles and renders the run report: every candidate's
// cross-validated error distribution, the selected model's held-out test
// error against the mean-prediction baseline, and the ranked feature
// importances.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/bm-datalab/boxoffice/internal/model"
)

// TopFeatureCount is the number of ranked importances kept in the report.
const TopFeatureCount = 20

// Report is the final artifact of a pipeline run. All error figures are
// on the log1p(revenue) scale.
type Report struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`

	TrainRows int `json:"train_rows"`
	TestRows  int `json:"test_rows"`

	Candidates []model.CandidateResult `json:"candidates"`
	Selected   string                  `json:"selected"`

	TestRMSE     float64 `json:"test_rmse"`
	BaselineRMSE float64 `json:"baseline_rmse"`

	// Improvement is the relative reduction of the test RMSE against
	// the baseline, e.g. 0.25 for a quarter less error.
	Improvement float64 `json:"improvement"`

	TopFeatures []model.ImportancePair `json:"top_features"`
}

// Build evaluates the selected model on the held-out test set and
// assembles the report. The naive baseline predicts the test-set target
// mean for every row; the selected model never sees a test row before
// this point.
func Build(sel *model.Selection, train, test *model.Dataset) (*Report, error) {
	if test.Len() == 0 {
		return nil, fmt.Errorf("report: empty test set")
	}

	preds := make([]float64, test.Len())
	for i, row := range test.X {
		p, err := sel.Final.Predict(row)
		if err != nil {
			return nil, fmt.Errorf("report: test prediction %d: %w", i, err)
		}
		preds[i] = p
	}
	testRMSE, err := model.RMSE(preds, test.Y)
	if err != nil {
		return nil, err
	}

	var mean float64
	for _, y := range test.Y {
		mean += y
	}
	mean /= float64(test.Len())

	baseline := make([]float64, test.Len())
	for i := range baseline {
		baseline[i] = mean
	}
	baselineRMSE, err := model.RMSE(baseline, test.Y)
	if err != nil {
		return nil, err
	}

	var top []model.ImportancePair
	if imp, ok := sel.Final.(model.Importancer); ok {
		top = model.TopImportances(imp.Importance(), TopFeatureCount)
	}

	return &Report{
		RunID:        uuid.NewString(),
		GeneratedAt:  time.Now().UTC(),
		TrainRows:    train.Len(),
		TestRows:     test.Len(),
		Candidates:   sel.Candidates,
		Selected:     sel.Candidates[sel.BestIndex].Name,
		TestRMSE:     testRMSE,
		BaselineRMSE: baselineRMSE,
		Improvement:  1 - testRMSE/baselineRMSE,
		TopFeatures:  top,
	}, nil
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteText renders the report as aligned console tables.
func (r *Report) WriteText(w io.Writer) error {
	fmt.Fprintf(w, "Run %s (%s)\n", r.RunID, r.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Rows: %d train / %d test\n\n", r.TrainRows, r.TestRows)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CANDIDATE\tBEST GRID POINT\tMIN\tQ1\tMEDIAN\tQ3\tMAX")
	for _, c := range r.Candidates {
		s := c.Best.Summary
		marker := ""
		if c.Name == r.Selected {
			marker = " *"
		}
		fmt.Fprintf(tw, "%s%s\t%s\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\n",
			c.Name, marker, c.Best.Label, s.Min, s.Q1, s.Median, s.Q3, s.Max)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nSelected: %s\n", r.Selected)
	fmt.Fprintf(w, "Test RMSE: %.4f (baseline %.4f, %.1f%% better)\n",
		r.TestRMSE, r.BaselineRMSE, r.Improvement*100)

	if len(r.TopFeatures) > 0 {
		fmt.Fprintf(w, "\nTop %d features by importance:\n", len(r.TopFeatures))
		tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for i, f := range r.TopFeatures {
			fmt.Fprintf(tw, "%2d.\t%s\t%.4f\n", i+1, f.Feature, f.Score)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}
