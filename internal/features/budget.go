// Boxoffice - Movie Box-Office Revenue Analysis
// Copyright 2026 BM Datalab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bm-datalab/boxoffice

package features

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/bm-datalab/boxoffice/internal/dataset"
	"github.com/bm-datalab/boxoffice/internal/model"
)

// ColLogBudget is the log1p-transformed budget column added after imputation.
const ColLogBudget = "log_budget"

// budgetPredictors are the table columns the estimator regresses on.
// Budget correlates with production scale, so the predictors are all
// scale proxies that are never missing after imputation.
var budgetPredictors = []string{
	ColReleaseYear,
	ColCastCount,
	ColCrewCount,
	ColDirectorCount,
	ColExecProducerCount,
	ColCompaniesCount,
	ColCountriesCount,
	ColIndependentFilm,
}

// BudgetEstimatorConfig contains configuration for the KNN budget estimator.
type BudgetEstimatorConfig struct {
	// Threshold marks budgets at or below it as unknown placeholders.
	// Typical range: 100-10000.
	Threshold float64

	// NeighborGrid is the candidate neighbor counts evaluated by
	// repeated cross-validation.
	NeighborGrid []int

	// Folds and Repeats control the repeated k-fold used to pick the
	// neighbor count.
	Folds   int
	Repeats int

	// Seed fixes the fold assignments for reproducible selection.
	Seed int64
}

// DefaultBudgetEstimatorConfig returns a BudgetEstimatorConfig with
// sensible defaults.
func DefaultBudgetEstimatorConfig() BudgetEstimatorConfig {
	return BudgetEstimatorConfig{
		Threshold:    1000,
		NeighborGrid: []int{3, 5, 7, 9, 11, 15, 21},
		Folds:        5,
		Repeats:      3,
		Seed:         7,
	}
}

// BudgetEstimator replaces placeholder budgets with KNN predictions.
// It trains only on train-partition records whose budget exceeds the
// threshold, standardizes predictors with statistics from those same
// rows, and regresses on log1p(budget) so blockbuster budgets do not
// dominate the distance metric's targets.
type BudgetEstimator struct {
	config BudgetEstimatorConfig
	logger zerolog.Logger

	scaler *model.Standardizer
	knn    *model.KNNRegressor

	// ChosenK is the neighbor count selected by cross-validation.
	ChosenK int
}

// NewBudgetEstimator creates a budget estimator.
func NewBudgetEstimator(cfg BudgetEstimatorConfig, logger zerolog.Logger) *BudgetEstimator {
	def := DefaultBudgetEstimatorConfig()
	if cfg.Threshold <= 0 {
		cfg.Threshold = def.Threshold
	}
	if len(cfg.NeighborGrid) == 0 {
		cfg.NeighborGrid = def.NeighborGrid
	}
	if cfg.Folds < 2 {
		cfg.Folds = def.Folds
	}
	if cfg.Repeats < 1 {
		cfg.Repeats = def.Repeats
	}
	return &BudgetEstimator{config: cfg, logger: logger}
}

// predictorRows assembles the predictor matrix for the given row indices.
func predictorRows(t *dataset.Table, idx []int) ([][]float64, error) {
	cols := make([][]float64, len(budgetPredictors))
	for j, name := range budgetPredictors {
		col, err := t.Numeric(name)
		if err != nil {
			return nil, err
		}
		cols[j] = col
	}

	rows := make([][]float64, len(idx))
	for r, i := range idx {
		row := make([]float64, len(cols))
		for j := range cols {
			row[j] = cols[j][i]
		}
		rows[r] = row
	}
	return rows, nil
}

// Fit selects the neighbor count by repeated cross-validation over
// train-partition rows with a known budget, then fits the final model
// on all of them.
func (b *BudgetEstimator) Fit(t *dataset.Table) error {
	var trainIdx []int
	for i := range t.Records {
		if t.Records[i].Label == dataset.LabelTrain && t.Records[i].Budget > b.config.Threshold {
			trainIdx = append(trainIdx, i)
		}
	}
	if len(trainIdx) < b.config.Folds {
		return fmt.Errorf("features: %d known-budget rows cannot fill %d folds", len(trainIdx), b.config.Folds)
	}

	raw, err := predictorRows(t, trainIdx)
	if err != nil {
		return err
	}

	b.scaler = &model.Standardizer{}
	if err := b.scaler.Fit(raw); err != nil {
		return err
	}
	x, err := b.scaler.Transform(raw)
	if err != nil {
		return err
	}

	y := make([]float64, len(trainIdx))
	for r, i := range trainIdx {
		y[r] = math.Log1p(t.Records[i].Budget)
	}

	ds, err := model.NewDataset(x, y, budgetPredictors)
	if err != nil {
		return err
	}

	bestK := 0
	bestMedian := math.Inf(1)
	for _, k := range b.config.NeighborGrid {
		kk := k
		rmses, err := model.RepeatedCV(ds, b.config.Folds, b.config.Repeats, b.config.Seed, func() model.Regressor {
			return model.NewKNNRegressor(model.KNNConfig{K: kk})
		})
		if err != nil {
			return fmt.Errorf("features: neighbor grid k=%d: %w", kk, err)
		}
		median := model.Summarize(rmses).Median
		b.logger.Debug().
			Int("k", kk).
			Float64("median_rmse", median).
			Msg("Budget neighbor candidate scored")
		if median < bestMedian {
			bestMedian = median
			bestK = kk
		}
	}

	b.ChosenK = bestK
	b.knn = model.NewKNNRegressor(model.KNNConfig{K: bestK})
	if err := b.knn.Fit(ds); err != nil {
		return err
	}

	b.logger.Info().
		Int("k", bestK).
		Float64("median_rmse", bestMedian).
		Int("training_rows", len(trainIdx)).
		Msg("Budget estimator fitted")
	return nil
}

// Apply replaces placeholder budgets in both partitions with estimator
// predictions and adds the log-budget column. Budgets above the
// threshold are never modified.
func (b *BudgetEstimator) Apply(t *dataset.Table) error {
	if b.knn == nil {
		return model.ErrNotFitted
	}

	var missingIdx []int
	for i := range t.Records {
		if !(t.Records[i].Budget > b.config.Threshold) {
			missingIdx = append(missingIdx, i)
		}
	}

	if len(missingIdx) > 0 {
		raw, err := predictorRows(t, missingIdx)
		if err != nil {
			return err
		}
		x, err := b.scaler.Transform(raw)
		if err != nil {
			return err
		}
		for r, i := range missingIdx {
			pred, err := b.knn.Predict(x[r])
			if err != nil {
				return err
			}
			t.Records[i].Budget = math.Expm1(pred)
		}
		b.logger.Info().
			Int("imputed", len(missingIdx)).
			Msg("Placeholder budgets replaced")
	}

	logBudget := make([]float64, t.Len())
	for i := range t.Records {
		logBudget[i] = math.Log1p(t.Records[i].Budget)
	}
	return t.AddNumeric(ColLogBudget, logBudget)
}
