// Boxoffice - Movie Box-Office Revenue Analysis
// Copyright 2026 BM Datalab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bm-datalab/boxoffice

package report

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/bm-datalab/boxoffice/internal/model"
)

// meanRegressor always predicts the mean of its training targets.
type meanRegressor struct {
	mean   float64
	fitted bool
}

func (m *meanRegressor) Fit(ds *model.Dataset) error {
	var sum float64
	for _, y := range ds.Y {
		sum += y
	}
	m.mean = sum / float64(ds.Len())
	m.fitted = true
	return nil
}

func (m *meanRegressor) Predict([]float64) (float64, error) {
	if !m.fitted {
		return 0, model.ErrNotFitted
	}
	return m.mean, nil
}

func (m *meanRegressor) Importance() map[string]float64 {
	return map[string]float64{"alpha": 2, "beta": 1}
}

func newTestSelection(t *testing.T, train *model.Dataset) *model.Selection {
	t.Helper()
	final := &meanRegressor{}
	if err := final.Fit(train); err != nil {
		t.Fatalf("Fit() = %v", err)
	}
	return &model.Selection{
		Candidates: []model.CandidateResult{
			{
				Name: "mean",
				Best: model.GridPointResult{
					Label:   "k=1",
					RMSEs:   []float64{1, 1, 1, 1, 1},
					Summary: model.Summarize([]float64{1, 1, 1, 1, 1}),
				},
			},
		},
		BestIndex: 0,
		Final:     final,
	}
}

func newDatasets(t *testing.T) (train, test *model.Dataset) {
	t.Helper()
	train, err := model.NewDataset(
		[][]float64{{1}, {2}, {3}, {4}},
		[]float64{10, 10, 10, 10},
		[]string{"x"},
	)
	if err != nil {
		t.Fatalf("NewDataset(train) = %v", err)
	}
	test, err = model.NewDataset(
		[][]float64{{1}, {2}},
		[]float64{9, 11},
		[]string{"x"},
	)
	if err != nil {
		t.Fatalf("NewDataset(test) = %v", err)
	}
	return train, test
}

func TestBuild(t *testing.T) {
	train, test := newDatasets(t)
	rep, err := Build(newTestSelection(t, train), train, test)
	if err != nil {
		t.Fatalf("Build() = %v", err)
	}

	if rep.RunID == "" {
		t.Error("RunID is empty")
	}
	if rep.Selected != "mean" {
		t.Errorf("Selected = %q, want %q", rep.Selected, "mean")
	}
	if rep.TrainRows != 4 || rep.TestRows != 2 {
		t.Errorf("rows = %d/%d, want 4/2", rep.TrainRows, rep.TestRows)
	}

	// The model predicts the train mean (10), which coincides with the
	// test mean, so its RMSE equals the baseline and the improvement is
	// zero.
	if math.Abs(rep.TestRMSE-1) > 1e-12 {
		t.Errorf("TestRMSE = %v, want 1", rep.TestRMSE)
	}
	if rep.BaselineRMSE != rep.TestRMSE {
		t.Errorf("BaselineRMSE = %v, want %v", rep.BaselineRMSE, rep.TestRMSE)
	}
	if math.Abs(rep.Improvement) > 1e-12 {
		t.Errorf("Improvement = %v, want 0", rep.Improvement)
	}

	if len(rep.TopFeatures) != 2 || rep.TopFeatures[0].Feature != "alpha" {
		t.Errorf("TopFeatures = %v, want alpha ranked first", rep.TopFeatures)
	}
}

func TestBuildEmptyTest(t *testing.T) {
	train, _ := newDatasets(t)
	empty := &model.Dataset{Names: []string{"x"}}
	if _, err := Build(newTestSelection(t, train), train, empty); err == nil {
		t.Fatal("Build() with empty test set should fail")
	}
}

func TestWriteJSON(t *testing.T) {
	train, test := newDatasets(t)
	rep, err := Build(newTestSelection(t, train), train, test)
	if err != nil {
		t.Fatalf("Build() = %v", err)
	}

	var buf bytes.Buffer
	if err := rep.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON() = %v", err)
	}

	var decoded Report
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Unmarshal() = %v", err)
	}
	if decoded.RunID != rep.RunID {
		t.Errorf("decoded RunID = %q, want %q", decoded.RunID, rep.RunID)
	}
	if decoded.Selected != "mean" {
		t.Errorf("decoded Selected = %q, want %q", decoded.Selected, "mean")
	}
	if len(decoded.Candidates) != 1 || decoded.Candidates[0].Best.Label != "k=1" {
		t.Errorf("decoded Candidates = %+v, want one with best label k=1", decoded.Candidates)
	}
}

func TestWriteText(t *testing.T) {
	train, test := newDatasets(t)
	rep, err := Build(newTestSelection(t, train), train, test)
	if err != nil {
		t.Fatalf("Build() = %v", err)
	}

	var buf bytes.Buffer
	if err := rep.WriteText(&buf); err != nil {
		t.Fatalf("WriteText() = %v", err)
	}
	out := buf.String()

	for _, want := range []string{"CANDIDATE", "mean *", "Selected: mean", "Test RMSE", "alpha"} {
		if !strings.Contains(out, want) {
			t.Errorf("WriteText output missing %q:\n%s", want, out)
		}
	}
}
