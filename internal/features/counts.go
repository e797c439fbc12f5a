// Boxoffice - Movie Box-Office Revenue Analysis
// Copyright 2026 BM Datalab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bm-datalab/boxoffice

package features

import (
	"github.com/bm-datalab/boxoffice/internal/dataset"
	"github.com/bm-datalab/boxoffice/internal/textparse"
)

// Count column names derived from the embedded text fields.
const (
	ColGenresCount       = "genres_count"
	ColCompaniesCount    = "companies_count"
	ColCountriesCount    = "countries_count"
	ColLanguagesCount    = "languages_count"
	ColKeywordsCount     = "keywords_count"
	ColCastCount         = "cast_count"
	ColCrewCount         = "crew_count"
	ColDirectorCount     = "director_count"
	ColProducerCount     = "producer_count"
	ColExecProducerCount = "exec_producer_count"
	ColCastGender0Count  = "cast_gender0_count"
	ColCastGender1Count  = "cast_gender1_count"
	ColCastGender2Count  = "cast_gender2_count"
	ColIndependentFilm   = "independent_film"
)

// AddTextCounts derives entry and predicate counts from every embedded
// text field. A field the patterns fail to match simply counts zero; the
// run never aborts on a parse miss.
//
// The gender codes are opaque category buckets (0, 1, 2) taken from the
// source text as-is; no meaning is assigned to them beyond identity.
func AddTextCounts(t *dataset.Table) error {
	n := t.Len()

	counts := map[string][]float64{
		ColGenresCount:       make([]float64, n),
		ColCompaniesCount:    make([]float64, n),
		ColCountriesCount:    make([]float64, n),
		ColLanguagesCount:    make([]float64, n),
		ColKeywordsCount:     make([]float64, n),
		ColCastCount:         make([]float64, n),
		ColCrewCount:         make([]float64, n),
		ColDirectorCount:     make([]float64, n),
		ColProducerCount:     make([]float64, n),
		ColExecProducerCount: make([]float64, n),
		ColCastGender0Count:  make([]float64, n),
		ColCastGender1Count:  make([]float64, n),
		ColCastGender2Count:  make([]float64, n),
		ColIndependentFilm:   make([]float64, n),
	}

	for i := range t.Records {
		rec := &t.Records[i]

		counts[ColGenresCount][i] = float64(textparse.Count(rec.Genres, "'name':"))
		counts[ColCompaniesCount][i] = float64(textparse.Count(rec.ProductionCompanies, "'name':"))
		counts[ColCountriesCount][i] = float64(textparse.Count(rec.ProductionCountries, "'name':"))
		counts[ColLanguagesCount][i] = float64(textparse.Count(rec.SpokenLanguages, "'iso_639_1':"))
		counts[ColKeywordsCount][i] = float64(textparse.Count(rec.Keywords, "'name':"))
		counts[ColCastCount][i] = float64(textparse.Count(rec.Cast, "'cast_id':"))
		counts[ColCrewCount][i] = float64(textparse.Count(rec.Crew, "'job':"))

		counts[ColDirectorCount][i] = float64(textparse.CountWhere(rec.Crew, "'job': 'Director'"))
		counts[ColProducerCount][i] = float64(textparse.CountWhere(rec.Crew, "'job': 'Producer'"))
		counts[ColExecProducerCount][i] = float64(textparse.CountWhere(rec.Crew, "'job': 'Executive Producer'"))
		counts[ColCastGender0Count][i] = float64(textparse.CountWhere(rec.Cast, "'gender': 0"))
		counts[ColCastGender1Count][i] = float64(textparse.CountWhere(rec.Cast, "'gender': 1"))
		counts[ColCastGender2Count][i] = float64(textparse.CountWhere(rec.Cast, "'gender': 2"))

		if counts[ColCompaniesCount][i] == 0 {
			counts[ColIndependentFilm][i] = 1
		}
	}

	for _, name := range countColumns() {
		if err := t.AddNumeric(name, counts[name]); err != nil {
			return err
		}
	}
	return nil
}

// countColumns returns the count column names in a fixed order.
func countColumns() []string {
	return []string{
		ColGenresCount,
		ColCompaniesCount,
		ColCountriesCount,
		ColLanguagesCount,
		ColKeywordsCount,
		ColCastCount,
		ColCrewCount,
		ColDirectorCount,
		ColProducerCount,
		ColExecProducerCount,
		ColCastGender0Count,
		ColCastGender1Count,
		ColCastGender2Count,
		ColIndependentFilm,
	}
}
