// Boxoffice - Movie Box-Office Revenue Analysis
// Copyright 2026 BM Datalab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bm-datalab/boxoffice

package pipeline

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bm-datalab/boxoffice/internal/config"
	"github.com/bm-datalab/boxoffice/internal/dataset"
)

// writeMovieCSV writes a synthetic 100-row input file where revenue
// roughly doubles the budget, so the tree models have signal to find.
func writeMovieCSV(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "train.csv")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := csv.NewWriter(f)
	require.NoError(t, w.Write([]string{
		"id", "belongs_to_collection", "budget", "genres", "homepage",
		"imdb_id", "original_language", "original_title", "overview",
		"popularity", "poster_path", "production_companies",
		"production_countries", "release_date", "runtime",
		"spoken_languages", "status", "tagline", "title", "Keywords",
		"cast", "crew", "revenue",
	}))

	for i := 0; i < 100; i++ {
		budget := float64(i+5) * 1_000_000
		budgetCell := fmt.Sprintf("%.0f", budget)
		if i%10 == 0 {
			// Placeholder budget for the estimator to impute.
			budgetCell = "0"
		}
		runtime := fmt.Sprintf("%d", 90+i%40)
		if i%15 == 0 {
			runtime = ""
		}
		homepage := ""
		if i%3 == 0 {
			homepage = "http://www.disney.com/movie"
		}
		cast := "[{'cast_id': 1, 'gender': 2, 'name': 'Lead'}]"
		if i%2 == 0 {
			cast = "[{'cast_id': 1, 'gender': 2, 'name': 'Lead'}, {'cast_id': 2, 'gender': 1, 'name': 'Support'}]"
		}
		revenue := budget*2 + 1_000_000

		require.NoError(t, w.Write([]string{
			fmt.Sprintf("%d", i+1),
			"[]",
			budgetCell,
			"[{'id': 35, 'name': 'Comedy'}]",
			homepage,
			fmt.Sprintf("tt%07d", i+1),
			"en",
			fmt.Sprintf("Movie %d", i+1),
			"An overview.",
			fmt.Sprintf("%.3f", 2.5+float64(i%20)),
			"/poster.jpg",
			"[{'name': 'Big Studio', 'id': 1}]",
			"[{'iso_3166_1': 'US', 'name': 'United States of America'}]",
			fmt.Sprintf("%d/%d/%02d", i%12+1, i%28+1, 40+i%50),
			runtime,
			"[{'iso_639_1': 'en', 'name': 'English'}]",
			"Released",
			"A tagline.",
			fmt.Sprintf("Movie %d", i+1),
			"[{'id': 4, 'name': 'chef'}]",
			cast,
			"[{'job': 'Director', 'name': 'D'}, {'job': 'Producer', 'name': 'P'}]",
			fmt.Sprintf("%.0f", revenue),
		}))
	}
	w.Flush()
	require.NoError(t, w.Error())
	return path
}

// testConfig keeps the grids tiny so the end-to-end run stays fast.
func testConfig(path string) *config.Config {
	return &config.Config{
		Data: config.DataConfig{Path: path, Delimiter: ","},
		Split: config.SplitConfig{
			Fraction:         0.8,
			Seed:             1,
			Bins:             10,
			MaxNonFiniteFrac: 0.01,
		},
		Impute: config.ImputeConfig{PivotYear: 1917},
		Budget: config.BudgetConfig{
			Threshold:    1000,
			NeighborGrid: []int{3},
			Folds:        3,
			Repeats:      1,
			Seed:         7,
		},
		Companies: config.CompaniesConfig{TopKnown: 5, TopKeep: 10},
		Model: config.ModelConfig{
			Folds:           3,
			Seed:            42,
			Workers:         2,
			CPGrid:          []float64{0.01},
			MaxDepthGrid:    []int{3},
			Trees:           10,
			MtryGrid:        []int{3},
			MinLeafGrid:     []int{2},
			BoostDepthGrid:  []int{2},
			BoostLambdaGrid: []float64{0},
			BoostRounds:     20,
			LearningRate:    0.1,
			Subsample:       0.8,
		},
		Logging: config.LoggingConfig{Level: "disabled", Format: "console"},
	}
}

func TestRunEndToEnd(t *testing.T) {
	cfg := testConfig(writeMovieCSV(t))

	rep, err := Run(cfg)
	require.NoError(t, err)

	assert.NotEmpty(t, rep.RunID)
	assert.Equal(t, 80, rep.TrainRows)
	assert.Equal(t, 20, rep.TestRows)
	assert.Len(t, rep.Candidates, 5)
	assert.NotEmpty(t, rep.Selected)

	// Revenue is a near-deterministic function of budget, so the winner
	// must comfortably beat predicting the mean.
	assert.False(t, math.IsNaN(rep.TestRMSE))
	assert.Less(t, rep.TestRMSE, rep.BaselineRMSE)
	assert.Greater(t, rep.Improvement, 0.0)

	assert.NotEmpty(t, rep.TopFeatures)
	assert.LessOrEqual(t, len(rep.TopFeatures), 20)
}

func TestBaggedTreesHaveNoGrid(t *testing.T) {
	cfg := testConfig("unused.csv")
	cfg.Model.MinLeafGrid = []int{2, 5, 10}
	cfg.Model.MtryGrid = []int{2, 3}

	byName := map[string]int{}
	for _, c := range candidates(cfg, 8) {
		byName[c.Name] = len(c.Points)
	}

	// Bagging is compared untuned; only the random forest sweeps the
	// min-leaf grid.
	assert.Equal(t, 1, byName["bagged_trees"])
	assert.Equal(t, len(cfg.Model.MtryGrid)*len(cfg.Model.MinLeafGrid), byName["random_forest"])
}

func TestDeriveFeaturesLeavesNoMissingValues(t *testing.T) {
	cfg := testConfig(writeMovieCSV(t))

	tbl, err := dataset.Load(cfg.Data.Path, []rune(cfg.Data.Delimiter)[0])
	require.NoError(t, err)
	require.NoError(t, dataset.StratifiedSplit(tbl, dataset.SplitOptions{
		Fraction:         cfg.Split.Fraction,
		Seed:             cfg.Split.Seed,
		Bins:             cfg.Split.Bins,
		MaxNonFiniteFrac: cfg.Split.MaxNonFiniteFrac,
	}))
	require.NoError(t, deriveFeatures(tbl, cfg, zerolog.Nop()))

	for _, name := range tbl.NumericNames() {
		col, err := tbl.Numeric(name)
		require.NoError(t, err)
		for i, v := range col {
			assert.Falsef(t, math.IsNaN(v), "column %q row %d is NaN after feature derivation", name, i)
		}
	}
	for _, name := range tbl.CategoricalNames() {
		col, err := tbl.Categorical(name)
		require.NoError(t, err)
		for i, v := range col {
			assert.NotEmptyf(t, v, "column %q row %d is empty after feature derivation", name, i)
		}
	}
}

func TestRunDeterministic(t *testing.T) {
	path := writeMovieCSV(t)

	first, err := Run(testConfig(path))
	require.NoError(t, err)
	second, err := Run(testConfig(path))
	require.NoError(t, err)

	assert.Equal(t, first.Selected, second.Selected)
	assert.Equal(t, first.TestRMSE, second.TestRMSE)
	assert.Equal(t, first.BaselineRMSE, second.BaselineRMSE)
	// Run identifiers are always fresh.
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestRunMissingFile(t *testing.T) {
	cfg := testConfig(filepath.Join(t.TempDir(), "absent.csv"))
	_, err := Run(cfg)
	require.Error(t, err)
}
