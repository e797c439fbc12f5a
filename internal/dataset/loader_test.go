// Boxoffice - Movie Box-Office Revenue Analysis
// Copyright 2026 BM Datalab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bm-datalab/boxoffice

package dataset

import (
	"errors"
	"math"
	"strings"
	"testing"
)

const testHeader = "id,belongs_to_collection,budget,genres,homepage,imdb_id,original_language,original_title,overview,popularity,poster_path,production_companies,production_countries,release_date,runtime,spoken_languages,status,tagline,title,Keywords,cast,crew,revenue"

func testRow(id, budget, runtime, revenue string) string {
	return id + `,,` + budget + `,"[{'id': 35, 'name': 'Comedy'}]",,tt0111,en,A Movie,Some overview,7.5,,"[{'name': 'Paramount Pictures', 'id': 4}]","[{'iso_3166_1': 'US', 'name': 'United States of America'}]",2/20/15,` + runtime + `,"[{'iso_639_1': 'en', 'name': 'English'}]",Released,,A Movie,,"[{'cast_id': 1, 'name': 'Some Actor', 'gender': 2}]","[{'job': 'Director', 'name': 'Some Director', 'gender': 2}]",` + revenue
}

func TestRead(t *testing.T) {
	data := testHeader + "\n" +
		testRow("1", "40000000", "93", "12314651") + "\n" +
		testRow("2", "", "", "95149435") + "\n"

	table, err := Read(strings.NewReader(data), ',')
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if table.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", table.Len())
	}

	r := table.Records[0]
	if r.ID != 1 {
		t.Errorf("ID = %d, want 1", r.ID)
	}
	if r.Budget != 40000000 {
		t.Errorf("Budget = %v, want 40000000", r.Budget)
	}
	if r.Status != "Released" {
		t.Errorf("Status = %q, want Released", r.Status)
	}
	if !strings.Contains(r.Genres, "Comedy") {
		t.Errorf("Genres = %q, want embedded Comedy entry", r.Genres)
	}

	// Empty numeric cells load as NaN, not zero.
	r2 := table.Records[1]
	if !math.IsNaN(r2.Budget) {
		t.Errorf("missing budget = %v, want NaN", r2.Budget)
	}
	if !math.IsNaN(r2.Runtime) {
		t.Errorf("missing runtime = %v, want NaN", r2.Runtime)
	}
}

func TestReadSchemaErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{
			name: "missing required column",
			data: strings.Replace(testHeader, "runtime,", "", 1) + "\n",
		},
		{
			name: "non-integer id",
			data: testHeader + "\n" + testRow("abc", "1", "90", "100") + "\n",
		},
		{
			name: "non-numeric revenue",
			data: testHeader + "\n" + testRow("1", "1", "90", "lots") + "\n",
		},
		{
			name: "duplicate id",
			data: testHeader + "\n" + testRow("7", "1", "90", "100") + "\n" + testRow("7", "2", "95", "200") + "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.data), ',')
			if !errors.Is(err, ErrSchema) {
				t.Errorf("Read() error = %v, want ErrSchema", err)
			}
		})
	}
}

func TestTableColumns(t *testing.T) {
	table := NewTable([]Record{{ID: 1}, {ID: 2}})

	if _, err := table.Numeric("not_yet_added"); !errors.Is(err, ErrSchema) {
		t.Errorf("Numeric() on absent column error = %v, want ErrSchema", err)
	}

	if err := table.AddNumeric("release_year", []float64{2015, 2016}); err != nil {
		t.Fatalf("AddNumeric() error = %v", err)
	}
	vals, err := table.Numeric("release_year")
	if err != nil {
		t.Fatalf("Numeric() error = %v", err)
	}
	if vals[1] != 2016 {
		t.Errorf("Numeric()[1] = %v, want 2016", vals[1])
	}

	// Duplicate and mis-sized columns are rejected.
	if err := table.AddNumeric("release_year", []float64{1, 2}); !errors.Is(err, ErrSchema) {
		t.Errorf("duplicate AddNumeric() error = %v, want ErrSchema", err)
	}
	if err := table.AddCategorical("release_year", []string{"a", "b"}); !errors.Is(err, ErrSchema) {
		t.Errorf("cross-kind duplicate error = %v, want ErrSchema", err)
	}
	if err := table.AddNumeric("short", []float64{1}); !errors.Is(err, ErrSchema) {
		t.Errorf("mis-sized AddNumeric() error = %v, want ErrSchema", err)
	}

	if got := table.NumericNames(); len(got) != 1 || got[0] != "release_year" {
		t.Errorf("NumericNames() = %v", got)
	}
}
