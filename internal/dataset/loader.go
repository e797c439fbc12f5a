// Boxoffice - Movie Box-Office Revenue Analysis
// Copyright 2026 BM Datalab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bm-datalab/boxoffice

package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
)

// requiredColumns is the fixed column set the loader expects. A missing
// column is a fatal schema error; extra columns are ignored.
var requiredColumns = []string{
	"id",
	"belongs_to_collection",
	"budget",
	"genres",
	"homepage",
	"imdb_id",
	"original_language",
	"original_title",
	"overview",
	"popularity",
	"poster_path",
	"production_companies",
	"production_countries",
	"release_date",
	"runtime",
	"spoken_languages",
	"status",
	"tagline",
	"title",
	"Keywords",
	"cast",
	"crew",
	"revenue",
}

// Load reads the delimited input file into a Table. The file is consumed
// exactly once; all later stages operate on the in-memory table.
func Load(path string, delimiter rune) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	table, err := Read(f, delimiter)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	return table, nil
}

// Read parses delimited records from r into a Table.
func Read(r io.Reader, delimiter rune) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = delimiter
	// Embedded JSON-like text fields routinely contain the delimiter and
	// quote characters; the csv package handles the quoting, but field
	// counts must still be uniform.
	cr.FieldsPerRecord = 0

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read header: %v", ErrSchema, err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, name := range requiredColumns {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("%w: required column %q absent", ErrSchema, name)
		}
	}

	var records []Record
	seen := make(map[int]struct{})
	line := 1

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrSchema, line+1, err)
		}
		line++

		rec, err := parseRow(row, col, line)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[rec.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %d at row %d", ErrSchema, rec.ID, line)
		}
		seen[rec.ID] = struct{}{}
		records = append(records, rec)
	}

	return NewTable(records), nil
}

func parseRow(row []string, col map[string]int, line int) (Record, error) {
	get := func(name string) string { return row[col[name]] }

	id, err := strconv.Atoi(get("id"))
	if err != nil {
		return Record{}, fmt.Errorf("%w: row %d: id %q is not an integer", ErrSchema, line, get("id"))
	}

	budget, err := parseFloatColumn(get("budget"), "budget", line)
	if err != nil {
		return Record{}, err
	}
	popularity, err := parseFloatColumn(get("popularity"), "popularity", line)
	if err != nil {
		return Record{}, err
	}
	runtime, err := parseFloatColumn(get("runtime"), "runtime", line)
	if err != nil {
		return Record{}, err
	}
	revenue, err := parseFloatColumn(get("revenue"), "revenue", line)
	if err != nil {
		return Record{}, err
	}

	return Record{
		ID:                  id,
		IMDBID:              get("imdb_id"),
		Title:               get("title"),
		OriginalTitle:       get("original_title"),
		Overview:            get("overview"),
		Tagline:             get("tagline"),
		Homepage:            get("homepage"),
		PosterPath:          get("poster_path"),
		Status:              get("status"),
		OriginalLanguage:    get("original_language"),
		Genres:              get("genres"),
		ProductionCompanies: get("production_companies"),
		ProductionCountries: get("production_countries"),
		SpokenLanguages:     get("spoken_languages"),
		Keywords:            get("Keywords"),
		Cast:                get("cast"),
		Crew:                get("crew"),
		BelongsToCollection: get("belongs_to_collection"),
		ReleaseDate:         get("release_date"),
		Budget:              budget,
		Popularity:          popularity,
		Runtime:             runtime,
		Revenue:             revenue,
	}, nil
}

// parseFloatColumn parses a numeric cell. Empty cells are missing values
// (NaN); non-empty cells that fail to parse are a schema error.
func parseFloatColumn(s, name string, line int) (float64, error) {
	if s == "" {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: row %d: column %q value %q is not numeric", ErrSchema, line, name, s)
	}
	return v, nil
}
