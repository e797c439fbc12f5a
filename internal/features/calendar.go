// Boxoffice - Movie Box-Office Revenue Analysis
// Copyright 2026 BM Datalab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bm-datalab/boxoffice

// Package features derives the model's predictor columns from cleaned and
// parsed record fields: calendar breakdowns of the release date,
// availability and studio flags, embedded-text counts, the reduced
// production-company vocabulary, categorical encodings, and the imputed
// budget. All vocabulary and encoding statistics are fitted on the train
// partition only.
package features

import (
	"fmt"
	"time"

	"github.com/bm-datalab/boxoffice/internal/dataset"
	"github.com/bm-datalab/boxoffice/internal/impute"
)

// Calendar column names.
const (
	ColReleaseYear    = "release_year"
	ColReleaseMonth   = "release_month"
	ColReleaseDay     = "release_day"
	ColReleaseWeek    = "release_week"
	ColReleaseDow     = "release_dow"
	ColReleaseDecade  = "release_decade"
	ColBefore2000     = "before_2000"
	ColBefore1980     = "before_1980"
	ColReleaseQuarter = "release_quarter"
)

// AddCalendar derives calendar columns from the imputed release date.
// Requires the release_ts column produced by the imputer.
func AddCalendar(t *dataset.Table) error {
	ts, err := t.Numeric(impute.ColReleaseTS)
	if err != nil {
		return fmt.Errorf("calendar features: %w", err)
	}

	n := t.Len()
	year := make([]float64, n)
	month := make([]float64, n)
	day := make([]float64, n)
	week := make([]float64, n)
	dow := make([]float64, n)
	decade := make([]float64, n)
	before2000 := make([]float64, n)
	before1980 := make([]float64, n)
	quarter := make([]string, n)

	for i := range ts {
		d := time.Unix(int64(ts[i]), 0).UTC()

		y := d.Year()
		year[i] = float64(y)
		month[i] = float64(d.Month())
		day[i] = float64(d.Day())
		_, isoWeek := d.ISOWeek()
		week[i] = float64(isoWeek)
		dow[i] = float64(d.Weekday())
		decade[i] = float64(y / 10 * 10)
		if y < 2000 {
			before2000[i] = 1
		}
		if y < 1980 {
			before1980[i] = 1
		}
		quarter[i] = fmt.Sprintf("Q%d", (int(d.Month())-1)/3+1)
	}

	cols := []struct {
		name string
		vals []float64
	}{
		{ColReleaseYear, year},
		{ColReleaseMonth, month},
		{ColReleaseDay, day},
		{ColReleaseWeek, week},
		{ColReleaseDow, dow},
		{ColReleaseDecade, decade},
		{ColBefore2000, before2000},
		{ColBefore1980, before1980},
	}
	for _, c := range cols {
		if err := t.AddNumeric(c.name, c.vals); err != nil {
			return err
		}
	}
	return t.AddCategorical(ColReleaseQuarter, quarter)
}
