// Boxoffice - Movie Box-Office Revenue Analysis
// Copyright 2026 BM Datalab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bm-datalab/boxoffice

package features

import (
	"sort"
	"strings"

	"github.com/bm-datalab/boxoffice/internal/dataset"
	"github.com/bm-datalab/boxoffice/internal/textparse"
)

// Company-derived column names.
const (
	ColFirstCompany      = "first_company"
	ColKnownCompanyCount = "known_company_count"
)

// OtherCompany is the bucket for first companies outside the kept
// vocabulary.
const OtherCompany = "Other"

// CompanyVocabulary reduces the high-cardinality production-company field
// to fixed-size vocabularies fitted on the train partition: a small
// "well known" set and a larger kept set for the categorical feature.
type CompanyVocabulary struct {
	known map[string]struct{}
	keep  map[string]struct{}
}

// FitCompanyVocabulary ranks first-listed production companies by train
// frequency (ties lexicographic) and keeps the topKnown and topKeep cuts.
func FitCompanyVocabulary(t *dataset.Table, topKnown, topKeep int) *CompanyVocabulary {
	counts := make(map[string]int)
	for _, i := range t.TrainIdx() {
		name := textparse.FirstValue(t.Records[i].ProductionCompanies, "name")
		if name == textparse.Missing {
			continue
		}
		counts[name]++
	}

	ranked := make([]string, 0, len(counts))
	for name := range counts {
		ranked = append(ranked, name)
	}
	sort.Slice(ranked, func(a, b int) bool {
		if counts[ranked[a]] != counts[ranked[b]] {
			return counts[ranked[a]] > counts[ranked[b]]
		}
		return ranked[a] < ranked[b]
	})

	v := &CompanyVocabulary{
		known: make(map[string]struct{}),
		keep:  make(map[string]struct{}),
	}
	for r, name := range ranked {
		if r < topKnown {
			v.known[name] = struct{}{}
		}
		if r < topKeep {
			v.keep[name] = struct{}{}
		}
	}
	return v
}

// Known reports whether a company is in the well-known (top-20) set.
func (v *CompanyVocabulary) Known(name string) bool {
	_, ok := v.known[name]
	return ok
}

// Apply adds the known-company count and the collapsed first-company
// categorical column to the table (both partitions, same vocabulary).
func (v *CompanyVocabulary) Apply(t *dataset.Table) error {
	n := t.Len()
	knownCount := make([]float64, n)
	firstCompany := make([]string, n)

	for i := range t.Records {
		rec := &t.Records[i]

		// Count listed companies inside the well-known set. The
		// canonical extracted string is split on commas, which cuts
		// company names containing commas apart; those fragments
		// simply never match the vocabulary.
		all := textparse.ExtractAllSorted(rec.ProductionCompanies, "name")
		if all != textparse.Missing {
			for _, name := range strings.Split(all, ",") {
				if v.Known(name) {
					knownCount[i]++
				}
			}
		}

		first := textparse.FirstValue(rec.ProductionCompanies, "name")
		if _, ok := v.keep[first]; ok {
			firstCompany[i] = first
		} else {
			firstCompany[i] = OtherCompany
		}
	}

	if err := t.AddNumeric(ColKnownCompanyCount, knownCount); err != nil {
		return err
	}
	return t.AddCategorical(ColFirstCompany, firstCompany)
}
