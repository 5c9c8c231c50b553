package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/coauth/internal/config"
)

var configForce bool

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing config file")
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show the configuration coauth will use, after applying the config file,
COAUTH_* environment variables, and command-line flags.

The config file lives at $XDG_CONFIG_HOME/coauth/config.yml
(default ~/.config/coauth/config.yml).

Examples:
  coauth config
  coauth config --dataset papers.csv --human
  coauth config init`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	path := config.Path()

	_, statErr := os.Stat(path)
	resp := ConfigResponse{Path: path, Exists: statErr == nil, Config: cfg}

	if !humanOutput {
		return outputJSON(resp)
	}

	exists := "not found, using defaults"
	if resp.Exists {
		exists = "found"
	}
	outputHuman("Config file:     %s (%s)\n", path, exists)
	outputHuman("dataset:         %s\n", cfg.Dataset)
	outputHuman("format:          %s\n", orDefault(cfg.Format, "(from extension)"))
	outputHuman("columns:         title=%q year=%q authors=%q\n", cfg.Columns.Title, cfg.Columns.Year, cfg.Columns.Authors)
	outputHuman("table:           %s\n", cfg.Table)
	outputHuman("base_node_size:  %g\n", cfg.BaseNodeSize)
	outputHuman("layout:          %s\n", cfg.Layout)
	outputHuman("log_level:       %s\n", cfg.LogLevel)
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.Path()
	if path == "" {
		exitWithError(ExitConfigError, "cannot determine config directory")
	}

	if _, err := os.Stat(path); err == nil && !configForce {
		exitWithError(ExitConfigError, "config already exists at %s (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		exitWithError(ExitConfigError, "checking config: %v", err)
	}

	cfg := config.Defaults()
	if err := cfg.Save(path); err != nil {
		exitWithError(ExitError, "%v", err)
	}
	config.ResetCache()

	if humanOutput {
		outputHuman("Wrote default config to %s\n", path)
		return nil
	}
	return outputJSON(ConfigResponse{Path: path, Exists: true, Config: cfg})
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
