// Package config handles coauth configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Config represents configuration stored in ~/.config/coauth/config.yml.
type Config struct {
	Dataset      string  `yaml:"dataset" json:"dataset"`               // File path or http(s) URL of the paper table
	Format       string  `yaml:"format,omitempty" json:"format"`       // csv, jsonl, or sqlite; empty = detect from extension
	Columns      Columns `yaml:"columns" json:"columns"`               // Column names for CSV and SQLite sources
	Table        string  `yaml:"table,omitempty" json:"table"`         // SQLite table holding the papers
	BaseNodeSize float64 `yaml:"base_node_size" json:"base_node_size"` // Node size before adding the collaboration tally
	Layout       string  `yaml:"layout,omitempty" json:"layout"`       // force, circle, or grid
	LogLevel     string  `yaml:"log_level,omitempty" json:"log_level"` // logrus level name
}

// Columns names the dataset columns holding each paper field.
type Columns struct {
	Title   string `yaml:"title" json:"title"`
	Year    string `yaml:"year" json:"year"`
	Authors string `yaml:"authors" json:"authors"`
}

const (
	// ConfigDir is the directory name under XDG_CONFIG_HOME.
	ConfigDir = "coauth"
	// ConfigFile is the config file name.
	ConfigFile = "config.yml"

	// DefaultDataset is the co-authorship table the tool was first built around.
	DefaultDataset = "https://raw.githubusercontent.com/22sgarg/PSB_Networks/main/full_author_results.csv"
	// DefaultTable is the SQLite table read when none is configured.
	DefaultTable = "papers"
	// DefaultBaseNodeSize matches coauthor.DefaultBaseNodeSize.
	DefaultBaseNodeSize = 10.0

	// EnvDataset overrides the dataset location.
	EnvDataset = "COAUTH_DATASET"
	// EnvLogLevel overrides the log level.
	EnvLogLevel = "COAUTH_LOG_LEVEL"
)

// ValidLayouts lists the supported layout algorithm names.
var ValidLayouts = []string{"force", "circle", "grid"}

// ValidFormats lists the supported dataset formats. Empty means auto-detect.
var ValidFormats = []string{"", "csv", "jsonl", "sqlite"}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// configCache caches the loaded config.
var configCache *Config

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Dataset: DefaultDataset,
		Columns: Columns{
			Title:   "Title",
			Year:    "Year",
			Authors: "Full Authors",
		},
		Table:        DefaultTable,
		BaseNodeSize: DefaultBaseNodeSize,
		Layout:       "force",
		LogLevel:     "info",
	}
}

// Path returns the path to the config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/coauth/config.yml.
func Path() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, ConfigDir, ConfigFile)
}

// Load reads the config file over the defaults, then applies environment overrides.
// A missing file is not an error.
func Load() (*Config, error) {
	if configCache != nil {
		return configCache, nil
	}

	cfg, err := LoadFile(Path())
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()

	configCache = cfg
	return cfg, nil
}

// LoadFile reads a config file over the defaults without consulting the environment.
func LoadFile(path string) (*Config, error) {
	cfg := Defaults()
	if path == "" {
		return &cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Dataset = ExpandPath(cfg.Dataset)
	return &cfg, nil
}

// ResetCache clears the cached config.
// Useful for testing.
func ResetCache() {
	configCache = nil
}

// ApplyEnv overrides fields from COAUTH_* environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvDataset); v != "" {
		c.Dataset = ExpandPath(v)
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
}

// Save writes the configuration as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Validate checks field values that would otherwise fail deep inside a command.
func (c *Config) Validate() error {
	if c.Dataset == "" {
		return errors.New("dataset is not configured")
	}
	if !contains(ValidFormats, c.Format) {
		return fmt.Errorf("invalid format %q (valid: csv, jsonl, sqlite)", c.Format)
	}
	if !contains(ValidLayouts, c.Layout) {
		return fmt.Errorf("invalid layout %q (valid: %v)", c.Layout, ValidLayouts)
	}
	if c.BaseNodeSize < 0 {
		return fmt.Errorf("base_node_size must be >= 0, got %v", c.BaseNodeSize)
	}
	if c.Table != "" && !identRe.MatchString(c.Table) {
		return fmt.Errorf("invalid table name %q", c.Table)
	}
	if c.Columns.Title == "" || c.Columns.Year == "" || c.Columns.Authors == "" {
		return errors.New("columns.title, columns.year, and columns.authors must be set")
	}
	return nil
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}

// HelpfulConfigMessage explains where the config lives and how to point it at a dataset.
func HelpfulConfigMessage() string {
	configPath := Path()
	return fmt.Sprintf(`No usable dataset configured.

Tip: Create %s to set a default dataset:
  mkdir -p %s
  echo 'dataset: /path/to/papers.csv' > %s

Or pass --dataset, or set %s.`,
		configPath,
		filepath.Dir(configPath),
		configPath,
		EnvDataset)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
