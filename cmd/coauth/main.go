// Package main provides the coauth CLI entry point.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/matsen/coauth/internal/coauthor"
	"github.com/matsen/coauth/internal/config"
	"github.com/matsen/coauth/internal/dataset"
	"github.com/matsen/coauth/internal/logging"
	"github.com/matsen/coauth/internal/paper"
	"github.com/matsen/coauth/internal/viz"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

// Global dataset overrides
var (
	datasetFlag  string
	formatFlag   string
	logLevelFlag string
	baseSizeFlag float64
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "coauth",
	Short: "Explore how a co-authorship network grows over time",
	Long: `coauth builds a co-authorship graph from a table of papers and shows it
as it stood at any year.

Each paper row has a title, a publication year, and an author mapping of
display name to external id. Every pair of authors on a paper becomes an
edge; an edge's weight is the number of papers the pair shares up to the
selected year. Recent collaborations are drawn more opaque than old ones.

The dataset is read from --dataset, $COAUTH_DATASET, or the config file.
All commands output JSON by default; pass --human for readable text.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&datasetFlag, "dataset", "", "Dataset file path or http(s) URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&formatFlag, "format", "", "Dataset format: csv, jsonl, or sqlite (default: from extension)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Float64Var(&baseSizeFlag, "base-size", -1, "Node size before adding the collaboration tally")
	rootCmd.Version = Version
}

// mustLoadConfig loads configuration and applies command-line overrides, exits on error.
func mustLoadConfig() *config.Config {
	loaded, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	cfg := *loaded
	if datasetFlag != "" {
		cfg.Dataset = config.ExpandPath(datasetFlag)
	}
	if formatFlag != "" {
		cfg.Format = formatFlag
	}
	if logLevelFlag != "" {
		cfg.LogLevel = logLevelFlag
	}
	if baseSizeFlag >= 0 {
		cfg.BaseNodeSize = baseSizeFlag
	}

	if err := cfg.Validate(); err != nil {
		if cfg.Dataset == "" {
			fmt.Fprintln(os.Stderr, config.HelpfulConfigMessage())
		}
		exitWithError(ExitConfigError, "invalid config: %v", err)
	}
	return &cfg
}

// mustNewLogger builds the stderr logger for cfg, exits on error.
func mustNewLogger(cfg *config.Config) *logrus.Logger {
	log, err := logging.New(cfg.LogLevel, nil)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	return log
}

// sourceFor converts the configured dataset into a loader source.
func sourceFor(cfg *config.Config) dataset.Source {
	return dataset.Source{
		Location: cfg.Dataset,
		Format:   cfg.Format,
		Columns: dataset.Columns{
			Title:   cfg.Columns.Title,
			Year:    cfg.Columns.Year,
			Authors: cfg.Columns.Authors,
		},
		Table: cfg.Table,
	}
}

// mustLoadRows reads every dataset row, exits on error.
func mustLoadRows(ctx context.Context, cfg *config.Config, log *logrus.Logger) []paper.Row {
	loader := dataset.NewLoader(dataset.NewFetcher(dataset.WithLogger(log)), log)
	rows, err := loader.Load(ctx, sourceFor(cfg))
	if err != nil {
		exitWithError(ExitDataError, "loading dataset: %v", err)
	}
	return rows
}

// session holds what every query command needs after the dataset is built.
type session struct {
	cfg    *config.Config
	log    *logrus.Logger
	agg    *coauthor.Aggregator
	report *coauthor.BuildReport
}

// windowOptions returns the window options for the session's config.
func (s *session) windowOptions() coauthor.WindowOptions {
	return coauthor.WindowOptions{BaseNodeSize: s.cfg.BaseNodeSize}
}

// mustIndex returns the built index, exits on error.
func (s *session) mustIndex() *coauthor.Index {
	idx, err := s.agg.Index()
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	return idx
}

// mustBuildSession loads the config and dataset and builds the aggregator, exits on error.
func mustBuildSession(ctx context.Context) *session {
	cfg := mustLoadConfig()
	log := mustNewLogger(cfg)
	rows := mustLoadRows(ctx, cfg, log)

	agg := coauthor.NewAggregator(log)
	report, err := agg.Build(rows)
	if err != nil {
		if errors.Is(err, coauthor.ErrDatasetEmpty) {
			exitWithError(ExitDataError, "%v", err)
		}
		exitWithError(ExitError, "building index: %v", err)
	}

	return &session{cfg: cfg, log: log, agg: agg, report: report}
}

// mustBuildTimeline computes every year's frame, exits on error.
func (s *session) mustBuildTimeline(ctx context.Context, workers int) *viz.Timeline {
	tl, err := viz.BuildTimeline(ctx, s.mustIndex(), s.windowOptions(), workers)
	if err != nil {
		if errors.Is(err, viz.ErrYearSpan) {
			exitWithError(ExitDataError, "%v (render a single year with --year)", err)
		}
		exitWithError(ExitError, "%v", err)
	}
	return tl
}
