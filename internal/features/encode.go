// Boxoffice - Movie Box-Office Revenue Analysis
// Copyright 2026 BM Datalab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bm-datalab/boxoffice

package features

import (
	"fmt"
	"sort"

	"github.com/bm-datalab/boxoffice/internal/dataset"
)

// Record-level column names.
const (
	ColStatus           = "status"
	ColOriginalLanguage = "original_language"
	ColRuntime          = "runtime"
	ColPopularity       = "popularity"
)

// AddRecordNumerics copies the imputed record-level numeric fields into
// table columns so they join the design matrix.
func AddRecordNumerics(t *dataset.Table) error {
	n := t.Len()
	runtime := make([]float64, n)
	popularity := make([]float64, n)
	for i := range t.Records {
		runtime[i] = t.Records[i].Runtime
		popularity[i] = t.Records[i].Popularity
	}
	if err := t.AddNumeric(ColRuntime, runtime); err != nil {
		return err
	}
	return t.AddNumeric(ColPopularity, popularity)
}

// AddRecordCategoricals copies the imputed record-level categorical
// fields into table columns so they can be encoded with the rest.
func AddRecordCategoricals(t *dataset.Table) error {
	n := t.Len()
	status := make([]string, n)
	lang := make([]string, n)
	for i := range t.Records {
		status[i] = t.Records[i].Status
		lang[i] = t.Records[i].OriginalLanguage
	}
	if err := t.AddCategorical(ColStatus, status); err != nil {
		return err
	}
	return t.AddCategorical(ColOriginalLanguage, lang)
}

// Encoder maps categorical levels to integer codes. The vocabulary is the
// lexicographically sorted set of train-partition levels; unseen test
// levels map to -1. Tree splits only need a consistent ordering of
// levels, not a meaningful one.
type Encoder struct {
	codes map[string]float64
}

// FitEncoder builds the code table from train-partition values.
func FitEncoder(values []string, trainIdx []int) *Encoder {
	levels := make(map[string]struct{})
	for _, i := range trainIdx {
		levels[values[i]] = struct{}{}
	}

	sorted := make([]string, 0, len(levels))
	for l := range levels {
		sorted = append(sorted, l)
	}
	sort.Strings(sorted)

	codes := make(map[string]float64, len(sorted))
	for c, l := range sorted {
		codes[l] = float64(c)
	}
	return &Encoder{codes: codes}
}

// Encode maps values to their codes; unseen levels become -1.
func (e *Encoder) Encode(values []string) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		if code, ok := e.codes[v]; ok {
			out[i] = code
		} else {
			out[i] = -1
		}
	}
	return out
}

// EncodeCategoricals fits an encoder per categorical column on the train
// partition and adds a "<column>_code" numeric column for each.
func EncodeCategoricals(t *dataset.Table) error {
	trainIdx := t.TrainIdx()
	for _, name := range t.CategoricalNames() {
		values, err := t.Categorical(name)
		if err != nil {
			return err
		}
		enc := FitEncoder(values, trainIdx)
		if err := t.AddNumeric(fmt.Sprintf("%s_code", name), enc.Encode(values)); err != nil {
			return err
		}
	}
	return nil
}
