// Boxoffice - Movie Box-Office Revenue Analysis
// Copyright 2026 BM Datalab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bm-datalab/boxoffice

package impute

import (
	"strconv"
	"strings"
	"time"
)

// DisambiguateYear resolves a two-digit year against the pivot year. Years
// greater than the pivot's two-digit remainder belong to the 1900s, the
// rest to the 2000s: with pivot 1917, 45 -> 1945 and 17 -> 2017.
func DisambiguateYear(yy, pivotYear int) int {
	if yy > pivotYear%100 {
		return 1900 + yy
	}
	return 2000 + yy
}

// ParseReleaseDate parses the raw M/D/YY release date. Two-digit years are
// disambiguated against the pivot; four-digit years pass through. Returns
// false when the value is absent or malformed.
func ParseReleaseDate(s string, pivotYear int) (time.Time, bool) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return time.Time{}, false
	}

	month, err := strconv.Atoi(parts[0])
	if err != nil || month < 1 || month > 12 {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(parts[1])
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil || year < 0 {
		return time.Time{}, false
	}
	if len(parts[2]) <= 2 {
		year = DisambiguateYear(year, pivotYear)
	}

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}
