// Boxoffice - Movie Box-Office Revenue Analysis
// Copyright 2026 BM Datalab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bm-datalab/boxoffice

// Package main is the entry point for the boxoffice CLI.
//
// Boxoffice ingests a delimited movie dataset, derives predictive features
// from its semi-structured text fields, compares five regression models
// under a shared cross-validation design, and reports the selected model's
// held-out error together with its feature importances.
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables (BOXOFFICE_ prefix, __ for nesting)
//   - Config file (config.yaml, or --config / BOXOFFICE_CONFIG)
//   - Built-in defaults
//
// # Example Usage
//
// Run against a local file with defaults:
//
//	boxoffice --data train.csv
//
// Emit the machine-readable report and store it:
//
//	boxoffice --data train.csv --format json --output report.json
//
// Override a grid through the environment:
//
//	export BOXOFFICE_MODEL__BOOST_ROUNDS=500
//	boxoffice --data train.csv
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bm-datalab/boxoffice/internal/config"
	"github.com/bm-datalab/boxoffice/internal/logging"
	"github.com/bm-datalab/boxoffice/internal/pipeline"
	"github.com/bm-datalab/boxoffice/internal/report"
)

var (
	flagConfig string
	flagData   string
	flagFormat string
	flagOutput string
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "boxoffice",
		Short:         "Movie box-office revenue analysis",
		Long:          "Trains and compares revenue regression models on a movie dataset and reports held-out error and feature importances.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}
	cmd.Flags().StringVarP(&flagConfig, "config", "c", "", "path to config file (default: search standard locations)")
	cmd.Flags().StringVarP(&flagData, "data", "d", "", "path to the input dataset (overrides config)")
	cmd.Flags().StringVarP(&flagFormat, "format", "f", "text", "report format: text or json")
	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "also write the JSON report to this file")
	return cmd
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if flagData != "" {
		cfg.Data.Path = flagData
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	logging.Info().
		Str("data", cfg.Data.Path).
		Int("folds", cfg.Model.Folds).
		Msg("Starting boxoffice run")

	rep, err := pipeline.Run(cfg)
	if err != nil {
		return err
	}

	if flagOutput != "" {
		if err := writeArtifact(rep, flagOutput); err != nil {
			return err
		}
		logging.Info().Str("path", flagOutput).Msg("Report artifact written")
	}

	switch flagFormat {
	case "text":
		return rep.WriteText(cmd.OutOrStdout())
	case "json":
		return rep.WriteJSON(cmd.OutOrStdout())
	default:
		return fmt.Errorf("unknown format %q (want text or json)", flagFormat)
	}
}

func writeArtifact(rep *report.Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report artifact: %w", err)
	}
	defer f.Close()

	if err := rep.WriteJSON(f); err != nil {
		return fmt.Errorf("write report artifact: %w", err)
	}
	return f.Sync()
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logging.Error().Err(err).Msg("Run failed")
		os.Exit(1)
	}
}
