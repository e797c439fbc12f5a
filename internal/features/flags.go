// Boxoffice - Movie Box-Office Revenue Analysis
// Copyright 2026 BM Datalab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bm-datalab/boxoffice

package features

import (
	"strings"

	"github.com/bm-datalab/boxoffice/internal/dataset"
	"github.com/bm-datalab/boxoffice/internal/textparse"
)

// Availability flag column names.
const (
	ColHasHomepage   = "has_homepage"
	ColHasTagline    = "has_tagline"
	ColHasCollection = "has_collection"
)

// studioDomains maps studio flag columns to the homepage fragment that
// identifies the studio. Matching is plain substring search on the
// lowercased homepage; a studio hosting a film on an unrelated domain is
// simply not flagged.
var studioDomains = map[string]string{
	"studio_disney":    "disney",
	"studio_warner":    "warnerbros",
	"studio_sony":      "sonypictures",
	"studio_universal": "universal",
	"studio_fox":       "foxmovies",
	"studio_paramount": "paramount",
	"studio_mgm":       "mgm.com",
	"studio_weinstein": "weinsteinco",
}

// AddFlags derives availability flags and studio-homepage identity flags.
func AddFlags(t *dataset.Table) error {
	n := t.Len()
	hasHomepage := make([]float64, n)
	hasTagline := make([]float64, n)
	hasCollection := make([]float64, n)

	studios := make(map[string][]float64, len(studioDomains))
	for col := range studioDomains {
		studios[col] = make([]float64, n)
	}

	for i := range t.Records {
		rec := &t.Records[i]

		if rec.Homepage != "" && rec.Homepage != textparse.Missing {
			hasHomepage[i] = 1
		}
		if rec.Tagline != "" && rec.Tagline != textparse.Missing {
			hasTagline[i] = 1
		}
		if !textparse.IsEmpty(rec.BelongsToCollection) && rec.BelongsToCollection != textparse.Missing {
			hasCollection[i] = 1
		}

		homepage := strings.ToLower(rec.Homepage)
		for col, fragment := range studioDomains {
			if hasHomepage[i] == 1 && strings.Contains(homepage, fragment) {
				studios[col][i] = 1
			}
		}
	}

	if err := t.AddNumeric(ColHasHomepage, hasHomepage); err != nil {
		return err
	}
	if err := t.AddNumeric(ColHasTagline, hasTagline); err != nil {
		return err
	}
	if err := t.AddNumeric(ColHasCollection, hasCollection); err != nil {
		return err
	}

	// Fixed iteration order keeps column addition deterministic.
	for _, col := range studioFlagColumns() {
		if err := t.AddNumeric(col, studios[col]); err != nil {
			return err
		}
	}
	return nil
}

// studioFlagColumns returns the studio flag names in a fixed order.
func studioFlagColumns() []string {
	return []string{
		"studio_disney",
		"studio_warner",
		"studio_sony",
		"studio_universal",
		"studio_fox",
		"studio_paramount",
		"studio_mgm",
		"studio_weinstein",
	}
}
