// Boxoffice - Movie Box-Office Revenue Analysis
// Copyright 2026 BM Datalab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bm-datalab/boxoffice

// Package textparse extracts counts and values from the semi-structured
// embedded text fields of the movie dataset (genres, cast, crew, companies,
// countries, languages, collection membership).
//
// The embedded text looks like JSON but is not: it uses single quotes and
// its escaping is inconsistent, so a structured parser rejects a large
// share of rows. Extraction therefore works by direct pattern matching on
// the raw text. This is fragile on purpose - values containing a single
// quote (e.g. names like O'Brien) are truncated or missed - and a miss is
// never an error: counts fall back to zero and lookups to the Missing
// sentinel.
package textparse

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// Missing is the sentinel substituted for absent or unmatched values.
const Missing = "Missing"

// IsEmpty reports whether the field carries no embedded entries: empty
// string or the empty-list placeholder.
func IsEmpty(field string) bool {
	s := strings.TrimSpace(field)
	return s == "" || s == "[]"
}

// Count counts occurrences of a structural marker token inside the field,
// e.g. Count(genres, "'name':") counts genre entries. Empty or
// placeholder fields count zero.
func Count(field, marker string) int {
	if IsEmpty(field) || marker == "" {
		return 0
	}
	return strings.Count(field, marker)
}

// CountWhere counts occurrences of a literal predicate inside the field,
// e.g. CountWhere(crew, "'job': 'Director'") or
// CountWhere(cast, "'gender': 1,"). Empty fields count zero.
func CountWhere(field, predicate string) int {
	if IsEmpty(field) || predicate == "" {
		return 0
	}
	return strings.Count(field, predicate)
}

// FirstValue returns the first value listed for key inside the field, or
// Missing when the field is empty or the pattern never matches.
func FirstValue(field, key string) string {
	if IsEmpty(field) {
		return Missing
	}
	m := keyPattern(key).FindStringSubmatch(field)
	if m == nil || m[1] == "" {
		return Missing
	}
	return m[1]
}

// ExtractAllSorted extracts every value listed for key inside the field,
// sorts them lexicographically and joins them with commas into a single
// canonical string. The result is independent of the original entry order.
// Returns Missing when nothing matches.
func ExtractAllSorted(field, key string) string {
	if IsEmpty(field) {
		return Missing
	}
	matches := keyPattern(key).FindAllStringSubmatch(field, -1)
	if len(matches) == 0 {
		return Missing
	}

	vals := make([]string, 0, len(matches))
	for _, m := range matches {
		if m[1] != "" {
			vals = append(vals, m[1])
		}
	}
	if len(vals) == 0 {
		return Missing
	}

	sort.Strings(vals)
	return strings.Join(vals, ",")
}

var (
	patternMu    sync.RWMutex
	patternCache = make(map[string]*regexp.Regexp)
)

// keyPattern returns the compiled pattern matching a single-quoted value
// for the given key: 'key': 'value'. Values containing a single quote are
// cut short at the quote; that matches the source text's own brokenness
// and is left uncorrected.
func keyPattern(key string) *regexp.Regexp {
	patternMu.RLock()
	re, ok := patternCache[key]
	patternMu.RUnlock()
	if ok {
		return re
	}

	re = regexp.MustCompile(fmt.Sprintf(`'%s': '([^']*)'`, regexp.QuoteMeta(key)))

	patternMu.Lock()
	patternCache[key] = re
	patternMu.Unlock()
	return re
}
