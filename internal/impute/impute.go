// Boxoffice - Movie Box-Office Revenue Analysis
// Copyright 2026 BM Datalab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bm-datalab/boxoffice

// Package impute fills missing values with column-specific strategies:
// median for runtime and popularity, mode for status and first spoken
// language, the
// "Missing" sentinel for free-text fields, and the median disambiguated
// date for unparseable release dates.
//
// Every statistic is computed from the train partition only and then
// applied unchanged to both partitions, so no information flows from the
// test set into training.
package impute

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/bm-datalab/boxoffice/internal/dataset"
	"github.com/bm-datalab/boxoffice/internal/textparse"
)

// ErrNoStatistic reports a median/mode column with zero non-missing
// training values. No valid substitute exists, so the run aborts.
var ErrNoStatistic = errors.New("impute: no non-missing training values")

// Column names added by Apply.
const (
	ColReleaseTS     = "release_ts"
	ColFirstLanguage = "first_language"
)

// Stats holds the imputation statistics fitted on the train partition.
type Stats struct {
	MedianRuntime    float64
	MedianPopularity float64
	ModeStatus       string
	ModeLanguage     string
	MedianDate       time.Time
	PivotYear        int
}

// Fit computes imputation statistics from train-partition records only.
func Fit(t *dataset.Table, pivotYear int) (*Stats, error) {
	train := t.TrainIdx()
	if len(train) == 0 {
		return nil, fmt.Errorf("%w: table has no train partition", ErrNoStatistic)
	}

	var runtimes, popularities []float64
	var statuses, languages []string
	var dates []time.Time

	for _, i := range train {
		rec := &t.Records[i]
		if !isMissingNum(rec.Runtime) {
			runtimes = append(runtimes, rec.Runtime)
		}
		if !isMissingNum(rec.Popularity) {
			popularities = append(popularities, rec.Popularity)
		}
		if rec.Status != "" {
			statuses = append(statuses, rec.Status)
		}
		if lang := textparse.FirstValue(rec.SpokenLanguages, "iso_639_1"); lang != textparse.Missing {
			languages = append(languages, lang)
		}
		if d, ok := ParseReleaseDate(rec.ReleaseDate, pivotYear); ok {
			dates = append(dates, d)
		}
	}

	medianRuntime, err := median(runtimes, "runtime")
	if err != nil {
		return nil, err
	}
	medianPopularity, err := median(popularities, "popularity")
	if err != nil {
		return nil, err
	}
	modeStatus, err := mode(statuses, "status")
	if err != nil {
		return nil, err
	}
	modeLanguage, err := mode(languages, "spoken_languages")
	if err != nil {
		return nil, err
	}
	medianDate, err := medianDate(dates)
	if err != nil {
		return nil, err
	}

	return &Stats{
		MedianRuntime:    medianRuntime,
		MedianPopularity: medianPopularity,
		ModeStatus:       modeStatus,
		ModeLanguage:     modeLanguage,
		MedianDate:       medianDate,
		PivotYear:        pivotYear,
	}, nil
}

// Apply fills missing values in every record (train and test) and adds the
// release_ts numeric column and the first_language categorical column.
func (s *Stats) Apply(t *dataset.Table) error {
	n := t.Len()
	releaseTS := make([]float64, n)
	firstLang := make([]string, n)

	for i := range t.Records {
		rec := &t.Records[i]

		if isMissingNum(rec.Runtime) {
			rec.Runtime = s.MedianRuntime
		}
		if isMissingNum(rec.Popularity) {
			rec.Popularity = s.MedianPopularity
		}
		if rec.Status == "" {
			rec.Status = s.ModeStatus
		}

		// Free-text fields fall back to the sentinel.
		fillSentinel(&rec.Homepage)
		fillSentinel(&rec.Tagline)
		fillSentinel(&rec.Overview)
		fillSentinel(&rec.PosterPath)
		fillSentinel(&rec.Title)
		fillSentinel(&rec.OriginalTitle)
		fillSentinel(&rec.BelongsToCollection)

		lang := textparse.FirstValue(rec.SpokenLanguages, "iso_639_1")
		if lang == textparse.Missing {
			lang = s.ModeLanguage
		}
		firstLang[i] = lang

		d, ok := ParseReleaseDate(rec.ReleaseDate, s.PivotYear)
		if !ok {
			d = s.MedianDate
		}
		releaseTS[i] = float64(d.Unix())
	}

	if err := t.AddNumeric(ColReleaseTS, releaseTS); err != nil {
		return err
	}
	return t.AddCategorical(ColFirstLanguage, firstLang)
}

func fillSentinel(field *string) {
	if *field == "" {
		*field = textparse.Missing
	}
}

func isMissingNum(v float64) bool {
	return v != v // NaN
}

// median returns the empirical median of vals.
func median(vals []float64, column string) (float64, error) {
	if len(vals) == 0 {
		return 0, fmt.Errorf("%w for column %q", ErrNoStatistic, column)
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)
	return stat.Quantile(0.5, stat.Empirical, sorted, nil), nil
}

// mode returns the most frequent value; ties break lexicographically so
// the statistic is deterministic.
func mode(vals []string, column string) (string, error) {
	if len(vals) == 0 {
		return "", fmt.Errorf("%w for column %q", ErrNoStatistic, column)
	}

	counts := make(map[string]int, len(vals))
	for _, v := range vals {
		counts[v]++
	}

	best, bestCount := "", -1
	for v, c := range counts {
		if c > bestCount || (c == bestCount && v < best) {
			best, bestCount = v, c
		}
	}
	return best, nil
}

// medianDate returns the middle element of the sorted dates.
func medianDate(dates []time.Time) (time.Time, error) {
	if len(dates) == 0 {
		return time.Time{}, fmt.Errorf("%w for column %q", ErrNoStatistic, "release_date")
	}
	sorted := make([]time.Time, len(dates))
	copy(sorted, dates)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })
	return sorted[len(sorted)/2], nil
}
