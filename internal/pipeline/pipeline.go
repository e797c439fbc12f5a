// Boxoffice - Movie Box-Office Revenue Analysis
// Copyright 2026 BM Datalab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bm-datalab/boxoffice

// Package pipeline runs the full analysis: load, split, impute, derive
// features, impute budgets, cross-validate the candidate models under a
// shared fold assignment, and evaluate the winner on the held-out test
// partition.
package pipeline

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/bm-datalab/boxoffice/internal/config"
	"github.com/bm-datalab/boxoffice/internal/dataset"
	"github.com/bm-datalab/boxoffice/internal/features"
	"github.com/bm-datalab/boxoffice/internal/impute"
	"github.com/bm-datalab/boxoffice/internal/logging"
	"github.com/bm-datalab/boxoffice/internal/model"
	"github.com/bm-datalab/boxoffice/internal/report"
)

// Run executes the pipeline end to end and returns the run report.
func Run(cfg *config.Config) (*report.Report, error) {
	log := logging.With().Str("component", "pipeline").Logger()

	tbl, err := dataset.Load(cfg.Data.Path, []rune(cfg.Data.Delimiter)[0])
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	log.Info().Int("records", tbl.Len()).Str("path", cfg.Data.Path).Msg("Dataset loaded")

	if err := dataset.StratifiedSplit(tbl, dataset.SplitOptions{
		Fraction:         cfg.Split.Fraction,
		Seed:             cfg.Split.Seed,
		Bins:             cfg.Split.Bins,
		MaxNonFiniteFrac: cfg.Split.MaxNonFiniteFrac,
	}); err != nil {
		return nil, fmt.Errorf("split: %w", err)
	}
	log.Info().
		Int("train", len(tbl.TrainIdx())).
		Int("test", len(tbl.TestIdx())).
		Msg("Partition assigned")

	if err := deriveFeatures(tbl, cfg, log); err != nil {
		return nil, err
	}

	train, test, err := designMatrices(tbl)
	if err != nil {
		return nil, err
	}
	log.Info().
		Int("features", len(train.Names)).
		Msg("Design matrices assembled")

	folds, err := model.NewFoldAssignment(train.Len(), cfg.Model.Folds, cfg.Model.Seed)
	if err != nil {
		return nil, fmt.Errorf("folds: %w", err)
	}

	sel, err := model.TrainAndSelect(train, candidates(cfg, len(train.Names)), model.TrainOptions{
		Folds:   folds,
		Workers: cfg.Model.Workers,
		Logger:  log,
	})
	if err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}

	rep, err := report.Build(sel, train, test)
	if err != nil {
		return nil, fmt.Errorf("report: %w", err)
	}
	log.Info().
		Str("run_id", rep.RunID).
		Str("selected", rep.Selected).
		Float64("test_rmse", rep.TestRMSE).
		Float64("baseline_rmse", rep.BaselineRMSE).
		Msg("Run complete")
	return rep, nil
}

// deriveFeatures runs the feature stages in their strict order. Every
// statistic involved is fitted on the train partition.
func deriveFeatures(tbl *dataset.Table, cfg *config.Config, log zerolog.Logger) error {
	stats, err := impute.Fit(tbl, cfg.Impute.PivotYear)
	if err != nil {
		return fmt.Errorf("impute fit: %w", err)
	}
	if err := stats.Apply(tbl); err != nil {
		return fmt.Errorf("impute apply: %w", err)
	}

	if err := features.AddCalendar(tbl); err != nil {
		return err
	}
	if err := features.AddFlags(tbl); err != nil {
		return err
	}
	if err := features.AddTextCounts(tbl); err != nil {
		return err
	}

	vocab := features.FitCompanyVocabulary(tbl, cfg.Companies.TopKnown, cfg.Companies.TopKeep)
	if err := vocab.Apply(tbl); err != nil {
		return err
	}

	if err := features.AddRecordCategoricals(tbl); err != nil {
		return err
	}
	if err := features.AddRecordNumerics(tbl); err != nil {
		return err
	}

	est := features.NewBudgetEstimator(features.BudgetEstimatorConfig{
		Threshold:    cfg.Budget.Threshold,
		NeighborGrid: cfg.Budget.NeighborGrid,
		Folds:        cfg.Budget.Folds,
		Repeats:      cfg.Budget.Repeats,
		Seed:         cfg.Budget.Seed,
	}, log)
	if err := est.Fit(tbl); err != nil {
		return fmt.Errorf("budget fit: %w", err)
	}
	if err := est.Apply(tbl); err != nil {
		return fmt.Errorf("budget apply: %w", err)
	}

	// Encoding runs last so every categorical column exists by now.
	if err := features.EncodeCategoricals(tbl); err != nil {
		return err
	}
	return nil
}

// designMatrices assembles the train and test datasets. Every derived
// numeric column except the raw release timestamp becomes a feature; the
// target is log1p(revenue).
func designMatrices(tbl *dataset.Table) (train, test *model.Dataset, err error) {
	var names []string
	var cols [][]float64
	for _, name := range tbl.NumericNames() {
		if name == impute.ColReleaseTS {
			continue
		}
		col, err := tbl.Numeric(name)
		if err != nil {
			return nil, nil, err
		}
		names = append(names, name)
		cols = append(cols, col)
	}

	build := func(idx []int) (*model.Dataset, error) {
		x := make([][]float64, len(idx))
		y := make([]float64, len(idx))
		for r, i := range idx {
			row := make([]float64, len(cols))
			for j := range cols {
				row[j] = cols[j][i]
			}
			x[r] = row
			y[r] = math.Log1p(tbl.Records[i].Revenue)
		}
		return model.NewDataset(x, y, names)
	}

	if train, err = build(tbl.TrainIdx()); err != nil {
		return nil, nil, err
	}
	if test, err = build(tbl.TestIdx()); err != nil {
		return nil, nil, err
	}
	return train, test, nil
}

// candidates builds the five-model comparison: a cost-pruned tree, a
// depth-limited tree, bagged trees in a single fixed configuration, a
// random forest, and gradient-boosted trees. Grids come from configuration.
func candidates(cfg *config.Config, featureCount int) []model.Candidate {
	m := cfg.Model

	var cpPoints []model.GridPoint
	for _, cp := range m.CPGrid {
		cp := cp
		cpPoints = append(cpPoints, model.GridPoint{
			Label: fmt.Sprintf("cp=%g", cp),
			Factory: func() model.Regressor {
				return model.NewTree(model.TreeConfig{CP: cp, Seed: m.Seed})
			},
		})
	}

	var depthPoints []model.GridPoint
	for _, d := range m.MaxDepthGrid {
		d := d
		depthPoints = append(depthPoints, model.GridPoint{
			Label: fmt.Sprintf("max_depth=%d", d),
			Factory: func() model.Regressor {
				return model.NewTree(model.TreeConfig{MaxDepth: d, Seed: m.Seed})
			},
		})
	}

	// Bagging enters the comparison untuned: one fixed configuration,
	// MaxFeatures 0 keeps every feature per split. The min-leaf grid
	// belongs to the random forest only.
	bagPoints := []model.GridPoint{{
		Label: "default",
		Factory: func() model.Regressor {
			return model.NewForest(model.ForestConfig{
				Trees:   m.Trees,
				Seed:    m.Seed,
				Workers: m.Workers,
			})
		},
	}}

	var rfPoints []model.GridPoint
	for _, mtry := range m.MtryGrid {
		if mtry > featureCount {
			continue
		}
		for _, leaf := range m.MinLeafGrid {
			mtry, leaf := mtry, leaf
			rfPoints = append(rfPoints, model.GridPoint{
				Label: fmt.Sprintf("mtry=%d min_leaf=%d", mtry, leaf),
				Factory: func() model.Regressor {
					return model.NewForest(model.ForestConfig{
						Trees:       m.Trees,
						MaxFeatures: mtry,
						MinLeaf:     leaf,
						Seed:        m.Seed,
						Workers:     m.Workers,
					})
				},
			})
		}
	}

	var gbmPoints []model.GridPoint
	for _, d := range m.BoostDepthGrid {
		for _, lambda := range m.BoostLambdaGrid {
			d, lambda := d, lambda
			gbmPoints = append(gbmPoints, model.GridPoint{
				Label: fmt.Sprintf("depth=%d lambda=%g", d, lambda),
				Factory: func() model.Regressor {
					return model.NewGBM(model.GBMConfig{
						Rounds:       m.BoostRounds,
						Depth:        d,
						LearningRate: m.LearningRate,
						Subsample:    m.Subsample,
						Lambda:       lambda,
						Seed:         m.Seed,
					})
				},
			})
		}
	}

	return []model.Candidate{
		{Name: "tree_cp", Points: cpPoints},
		{Name: "tree_depth", Points: depthPoints},
		{Name: "bagged_trees", Points: bagPoints},
		{Name: "random_forest", Points: rfPoints},
		{Name: "boosted_trees", Points: gbmPoints},
	}
}
