// Boxoffice - Movie Box-Office Revenue Analysis
// Copyright 2026 BM Datalab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bm-datalab/boxoffice

package features

import (
	"testing"
	"time"

	"github.com/bm-datalab/boxoffice/internal/dataset"
	"github.com/bm-datalab/boxoffice/internal/impute"
)

// newCalendarTable builds a table whose release_ts column holds the given
// dates, bypassing the imputer.
func newCalendarTable(t *testing.T, dates ...time.Time) *dataset.Table {
	t.Helper()
	records := make([]dataset.Record, len(dates))
	ts := make([]float64, len(dates))
	for i, d := range dates {
		records[i] = dataset.Record{ID: i + 1}
		ts[i] = float64(d.Unix())
	}
	tbl := dataset.NewTable(records)
	if err := tbl.AddNumeric(impute.ColReleaseTS, ts); err != nil {
		t.Fatalf("AddNumeric(release_ts) = %v", err)
	}
	return tbl
}

func numericAt(t *testing.T, tbl *dataset.Table, name string, i int) float64 {
	t.Helper()
	col, err := tbl.Numeric(name)
	if err != nil {
		t.Fatalf("Numeric(%q) = %v", name, err)
	}
	return col[i]
}

func TestAddCalendar(t *testing.T) {
	tbl := newCalendarTable(t,
		time.Date(1995, time.July, 14, 0, 0, 0, 0, time.UTC),
		time.Date(2014, time.January, 3, 0, 0, 0, 0, time.UTC),
		time.Date(1976, time.November, 21, 0, 0, 0, 0, time.UTC),
	)
	if err := AddCalendar(tbl); err != nil {
		t.Fatalf("AddCalendar() = %v", err)
	}

	tests := []struct {
		col  string
		row  int
		want float64
	}{
		{ColReleaseYear, 0, 1995},
		{ColReleaseMonth, 0, 7},
		{ColReleaseDay, 0, 14},
		{ColReleaseDow, 0, float64(time.Friday)},
		{ColReleaseDecade, 0, 1990},
		{ColBefore2000, 0, 1},
		{ColBefore1980, 0, 0},
		{ColReleaseYear, 1, 2014},
		{ColBefore2000, 1, 0},
		{ColReleaseDecade, 2, 1970},
		{ColBefore1980, 2, 1},
	}
	for _, tt := range tests {
		if got := numericAt(t, tbl, tt.col, tt.row); got != tt.want {
			t.Errorf("%s[%d] = %v, want %v", tt.col, tt.row, got, tt.want)
		}
	}

	quarters, err := tbl.Categorical(ColReleaseQuarter)
	if err != nil {
		t.Fatalf("Categorical(release_quarter) = %v", err)
	}
	wantQuarters := []string{"Q3", "Q1", "Q4"}
	for i, want := range wantQuarters {
		if quarters[i] != want {
			t.Errorf("release_quarter[%d] = %q, want %q", i, quarters[i], want)
		}
	}
}

func TestAddCalendarMissingColumn(t *testing.T) {
	tbl := dataset.NewTable([]dataset.Record{{ID: 1}})
	if err := AddCalendar(tbl); err == nil {
		t.Fatal("AddCalendar() on table without release_ts should fail")
	}
}

func TestAddFlags(t *testing.T) {
	tbl := dataset.NewTable([]dataset.Record{
		{
			ID:                  1,
			Homepage:            "http://www.disney.com/ratatouille",
			Tagline:             "Dinner is served.",
			BelongsToCollection: "[{'id': 87, 'name': 'Pixar Collection'}]",
		},
		{
			ID:                  2,
			Homepage:            "Missing",
			Tagline:             "Missing",
			BelongsToCollection: "[]",
		},
		{
			ID:                  3,
			Homepage:            "http://www.warnerbros.com/gravity",
			BelongsToCollection: "Missing",
		},
	})
	if err := AddFlags(tbl); err != nil {
		t.Fatalf("AddFlags() = %v", err)
	}

	tests := []struct {
		col  string
		row  int
		want float64
	}{
		{ColHasHomepage, 0, 1},
		{ColHasTagline, 0, 1},
		{ColHasCollection, 0, 1},
		{"studio_disney", 0, 1},
		{"studio_warner", 0, 0},
		{ColHasHomepage, 1, 0},
		{ColHasTagline, 1, 0},
		{ColHasCollection, 1, 0},
		{"studio_disney", 1, 0},
		{"studio_warner", 2, 1},
		{ColHasTagline, 2, 0},
		// The imputer's sentinel never counts as a collection.
		{ColHasCollection, 2, 0},
	}
	for _, tt := range tests {
		if got := numericAt(t, tbl, tt.col, tt.row); got != tt.want {
			t.Errorf("%s[%d] = %v, want %v", tt.col, tt.row, got, tt.want)
		}
	}
}

func TestAddTextCounts(t *testing.T) {
	tbl := dataset.NewTable([]dataset.Record{
		{
			ID:                  1,
			Genres:              "[{'id': 35, 'name': 'Comedy'}, {'id': 18, 'name': 'Drama'}]",
			ProductionCompanies: "[{'name': 'Pixar', 'id': 3}]",
			ProductionCountries: "[{'iso_3166_1': 'US', 'name': 'United States of America'}]",
			SpokenLanguages:     "[{'iso_639_1': 'en', 'name': 'English'}, {'iso_639_1': 'fr', 'name': 'Français'}]",
			Keywords:            "[{'id': 4, 'name': 'chef'}]",
			Cast:                "[{'cast_id': 1, 'gender': 2, 'name': 'A'}, {'cast_id': 2, 'gender': 1, 'name': 'B'}, {'cast_id': 3, 'gender': 0, 'name': 'C'}]",
			Crew:                "[{'job': 'Director', 'name': 'D'}, {'job': 'Producer', 'name': 'E'}, {'job': 'Executive Producer', 'name': 'F'}]",
		},
		{
			ID:                  2,
			Genres:              "[]",
			ProductionCompanies: "[]",
		},
	})
	if err := AddTextCounts(tbl); err != nil {
		t.Fatalf("AddTextCounts() = %v", err)
	}

	tests := []struct {
		col  string
		row  int
		want float64
	}{
		{ColGenresCount, 0, 2},
		{ColCompaniesCount, 0, 1},
		{ColCountriesCount, 0, 1},
		{ColLanguagesCount, 0, 2},
		{ColKeywordsCount, 0, 1},
		{ColCastCount, 0, 3},
		{ColCrewCount, 0, 3},
		{ColDirectorCount, 0, 1},
		{ColProducerCount, 0, 1},
		{ColExecProducerCount, 0, 1},
		{ColCastGender0Count, 0, 1},
		{ColCastGender1Count, 0, 1},
		{ColCastGender2Count, 0, 1},
		{ColIndependentFilm, 0, 0},
		{ColGenresCount, 1, 0},
		{ColCastCount, 1, 0},
		{ColIndependentFilm, 1, 1},
	}
	for _, tt := range tests {
		if got := numericAt(t, tbl, tt.col, tt.row); got != tt.want {
			t.Errorf("%s[%d] = %v, want %v", tt.col, tt.row, got, tt.want)
		}
	}
}

func TestEncoderTrainOnlyVocabulary(t *testing.T) {
	values := []string{"beta", "alpha", "beta", "gamma"}
	// Row 3 ("gamma") is excluded from training.
	enc := FitEncoder(values, []int{0, 1, 2})

	got := enc.Encode(values)
	// Sorted train levels: alpha=0, beta=1; gamma is unseen.
	want := []float64{1, 0, 1, -1}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Encode()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestEncodeCategoricals(t *testing.T) {
	tbl := dataset.NewTable([]dataset.Record{
		{ID: 1, Label: dataset.LabelTrain},
		{ID: 2, Label: dataset.LabelTrain},
		{ID: 3, Label: dataset.LabelTest},
	})
	if err := tbl.AddCategorical("status", []string{"Released", "Rumored", "PostProduction"}); err != nil {
		t.Fatalf("AddCategorical() = %v", err)
	}

	if err := EncodeCategoricals(tbl); err != nil {
		t.Fatalf("EncodeCategoricals() = %v", err)
	}

	codes, err := tbl.Numeric("status_code")
	if err != nil {
		t.Fatalf("Numeric(status_code) = %v", err)
	}
	// Train vocabulary sorted: Released=0, Rumored=1. The test-only level
	// maps to -1.
	want := []float64{0, 1, -1}
	for i := range want {
		if codes[i] != want[i] {
			t.Errorf("status_code[%d] = %v, want %v", i, codes[i], want[i])
		}
	}
}

func TestAddRecordNumerics(t *testing.T) {
	tbl := dataset.NewTable([]dataset.Record{
		{ID: 1, Runtime: 95, Popularity: 7.5},
		{ID: 2, Runtime: 120, Popularity: 2.25},
	})
	if err := AddRecordNumerics(tbl); err != nil {
		t.Fatalf("AddRecordNumerics() = %v", err)
	}

	if got := numericAt(t, tbl, ColRuntime, 1); got != 120 {
		t.Errorf("runtime[1] = %v, want 120", got)
	}
	if got := numericAt(t, tbl, ColPopularity, 0); got != 7.5 {
		t.Errorf("popularity[0] = %v, want 7.5", got)
	}
}

func TestAddRecordCategoricals(t *testing.T) {
	tbl := dataset.NewTable([]dataset.Record{
		{ID: 1, Status: "Released", OriginalLanguage: "en"},
		{ID: 2, Status: "Rumored", OriginalLanguage: "fr"},
	})
	if err := AddRecordCategoricals(tbl); err != nil {
		t.Fatalf("AddRecordCategoricals() = %v", err)
	}

	status, err := tbl.Categorical(ColStatus)
	if err != nil {
		t.Fatalf("Categorical(status) = %v", err)
	}
	if status[1] != "Rumored" {
		t.Errorf("status[1] = %q, want %q", status[1], "Rumored")
	}
	lang, err := tbl.Categorical(ColOriginalLanguage)
	if err != nil {
		t.Fatalf("Categorical(original_language) = %v", err)
	}
	if lang[0] != "en" {
		t.Errorf("original_language[0] = %q, want %q", lang[0], "en")
	}
}
