// Boxoffice - Movie Box-Office Revenue Analysis
// Copyright 2026 BM Datalab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bm-datalab/boxoffice

// Package dataset holds the in-memory movie table: raw records loaded from
// the delimited input file, the train/test partition, and the derived
// feature columns added by later pipeline stages.
package dataset

import "errors"

// ErrSchema reports a missing or ill-typed column, either in the input
// file or when a stage reads a derived column before its producer ran.
var ErrSchema = errors.New("dataset: schema error")

// Label tags a record's partition membership.
type Label string

// Partition labels. Assigned once by the partitioner, never re-split.
const (
	LabelNone  Label = ""
	LabelTrain Label = "train"
	LabelTest  Label = "test"
)

// Record is one movie row from the input file. Numeric fields that are
// absent in the source are NaN; text fields are empty strings until the
// imputer substitutes its sentinel.
type Record struct {
	ID     int
	IMDBID string

	Title         string
	OriginalTitle string
	Overview      string
	Tagline       string
	Homepage      string
	PosterPath    string
	Status        string

	OriginalLanguage string

	// Semi-structured embedded text fields ([{'id': ..., 'name': ...}, ...]).
	Genres              string
	ProductionCompanies string
	ProductionCountries string
	SpokenLanguages     string
	Keywords            string
	Cast                string
	Crew                string
	BelongsToCollection string

	// ReleaseDate is kept raw (M/D/YY); the imputer parses and
	// disambiguates it.
	ReleaseDate string

	Budget     float64
	Popularity float64
	Runtime    float64
	Revenue    float64

	Label Label
}
