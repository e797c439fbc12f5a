// Boxoffice - Movie Box-Office Revenue Analysis
// Copyright 2026 BM Datalab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bm-datalab/boxoffice

// Package config loads and validates pipeline configuration.
//
// Configuration is layered via Koanf v2 (highest priority wins):
//   - Environment variables (BOXOFFICE_ prefix, "__" for nesting)
//   - Config file (config.yaml)
//   - Built-in defaults
//
// All analysis constants (split fraction, seeds, fold counts, grids) live
// here so a run is fully reproducible from its configuration.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Config is the root configuration for an analysis run.
type Config struct {
	Data      DataConfig      `koanf:"data"`
	Split     SplitConfig     `koanf:"split"`
	Impute    ImputeConfig    `koanf:"impute"`
	Budget    BudgetConfig    `koanf:"budget"`
	Companies CompaniesConfig `koanf:"companies"`
	Model     ModelConfig     `koanf:"model"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// DataConfig describes the input dataset.
type DataConfig struct {
	// Path is the delimited input file consumed once at startup.
	Path string `koanf:"path" validate:"required"`

	// Delimiter is the field separator. Default: comma.
	Delimiter string `koanf:"delimiter" validate:"len=1"`
}

// SplitConfig controls the train/test partition.
type SplitConfig struct {
	// Fraction is the share of records assigned to the train partition.
	Fraction float64 `koanf:"fraction" validate:"gt=0,lt=1"`

	// Seed fixes the pseudo-random split for reproducible reports.
	Seed int64 `koanf:"seed"`

	// Bins is the number of target quantile bins used for stratification.
	Bins int `koanf:"bins" validate:"gte=2"`

	// MaxNonFiniteFrac is the tolerated share of non-finite target values
	// before the split aborts.
	MaxNonFiniteFrac float64 `koanf:"max_non_finite_frac" validate:"gte=0,lt=1"`
}

// ImputeConfig controls missing-value handling.
type ImputeConfig struct {
	// PivotYear disambiguates two-digit release years. Two-digit years
	// greater than the pivot's remainder map to the 1900s, the rest to
	// the 2000s.
	PivotYear int `koanf:"pivot_year" validate:"gte=1900,lte=1999"`
}

// BudgetConfig controls the budget estimator.
type BudgetConfig struct {
	// Threshold marks budgets at or below it as unknown placeholders.
	Threshold float64 `koanf:"threshold" validate:"gt=0"`

	// NeighborGrid is the candidate neighbor counts for the KNN regressor.
	NeighborGrid []int `koanf:"neighbor_grid" validate:"min=1,dive,gte=1"`

	// Folds and Repeats control the repeated k-fold used to pick the
	// neighbor count.
	Folds   int   `koanf:"folds" validate:"gte=2"`
	Repeats int   `koanf:"repeats" validate:"gte=1"`
	Seed    int64 `koanf:"seed"`
}

// CompaniesConfig controls production-company vocabulary reduction.
type CompaniesConfig struct {
	// TopKnown is the vocabulary size behind the well-known-company count.
	TopKnown int `koanf:"top_known" validate:"gte=1"`

	// TopKeep is the vocabulary size kept for the first-company
	// categorical; everything else collapses to "Other".
	TopKeep int `koanf:"top_keep" validate:"gte=1"`
}

// ModelConfig controls candidate training and selection.
type ModelConfig struct {
	// Folds is the shared cross-validation fold count.
	Folds int `koanf:"folds" validate:"gte=2"`

	// Seed fixes the shared fold assignment used by every candidate.
	Seed int64 `koanf:"seed"`

	// Workers bounds parallel fold/grid evaluations. 0 means sequential.
	Workers int `koanf:"workers" validate:"gte=0"`

	// Tree grids.
	CPGrid       []float64 `koanf:"cp_grid" validate:"min=1,dive,gte=0"`
	MaxDepthGrid []int     `koanf:"max_depth_grid" validate:"min=1,dive,gte=1"`

	// Ensemble settings.
	Trees       int   `koanf:"trees" validate:"gte=1"`
	MtryGrid    []int `koanf:"mtry_grid" validate:"min=1,dive,gte=1"`
	MinLeafGrid []int `koanf:"min_leaf_grid" validate:"min=1,dive,gte=1"`

	// Boosting settings.
	BoostDepthGrid  []int     `koanf:"boost_depth_grid" validate:"min=1,dive,gte=1"`
	BoostLambdaGrid []float64 `koanf:"boost_lambda_grid" validate:"min=1,dive,gte=0"`
	BoostRounds     int       `koanf:"boost_rounds" validate:"gte=1"`
	LearningRate    float64   `koanf:"learning_rate" validate:"gt=0,lte=1"`
	Subsample       float64   `koanf:"subsample" validate:"gt=0,lte=1"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Path:      "train.csv",
			Delimiter: ",",
		},
		Split: SplitConfig{
			Fraction:         0.8,
			Seed:             1,
			Bins:             10,
			MaxNonFiniteFrac: 0.01,
		},
		Impute: ImputeConfig{
			PivotYear: 1917,
		},
		Budget: BudgetConfig{
			Threshold:    1000,
			NeighborGrid: []int{3, 5, 7, 9, 11, 15, 21},
			Folds:        5,
			Repeats:      3,
			Seed:         7,
		},
		Companies: CompaniesConfig{
			TopKnown: 20,
			TopKeep:  200,
		},
		Model: ModelConfig{
			Folds:           5,
			Seed:            42,
			Workers:         4,
			CPGrid:          []float64{0.0005, 0.001, 0.005, 0.01, 0.05},
			MaxDepthGrid:    []int{2, 4, 6, 8, 10, 12},
			Trees:           200,
			MtryGrid:        []int{4, 8, 12, 16},
			MinLeafGrid:     []int{1, 5, 10},
			BoostDepthGrid:  []int{2, 4, 6},
			BoostLambdaGrid: []float64{0, 0.01, 0.1},
			BoostRounds:     300,
			LearningRate:    0.05,
			Subsample:       0.75,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
