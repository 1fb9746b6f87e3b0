// Package config provides configuration loading and management for outlineflow.
//
// Configuration is loaded using Viper, supporting YAML config files and
// environment variable overrides. [DefaultConfig] works out of the box; a
// config file only needs the keys it changes.
//
// Key types:
//   - [Config] is the root configuration container with all settings
//   - [Loader] handles Viper-based configuration loading
//   - [CatalogueConfig] selects where workflow definitions are stored
//
// Configuration priority (highest to lowest):
//  1. Environment variables (OUTLINEFLOW_ prefix, dots become underscores,
//     e.g. OUTLINEFLOW_CATALOGUE_PATH)
//  2. Config file specified by OUTLINEFLOW_CONFIG_PATH
//  3. ./outlineflow.yaml
//  4. User config directory (platform-standard):
//     - Linux: ~/.config/outlineflow/config.yaml
//     - macOS: ~/Library/Application Support/outlineflow/config.yaml
//     - Windows: %APPDATA%\outlineflow\config.yaml
//  5. [DefaultConfig] defaults
//
// Files are merged, so a project file can override a single key of the user
// file.
package config

import "fmt"

// Config represents the root configuration structure.
type Config struct {
	// Catalogue selects the workflow catalogue backend.
	Catalogue CatalogueConfig `mapstructure:"catalogue"`

	// Records locates the task-instance records file.
	Records RecordsConfig `mapstructure:"records"`

	// Suggest tunes workflow suggestions.
	Suggest SuggestConfig `mapstructure:"suggest"`

	// Output contains terminal output formatting configuration.
	Output OutputConfig `mapstructure:"output"`

	// Log configures the structured logger.
	Log LogConfig `mapstructure:"log"`
}

// CatalogueConfig selects where workflow definitions are stored.
type CatalogueConfig struct {
	// Path is the YAML file or SQLite database holding the catalogue.
	// Default: "workflows.yaml"
	Path string `mapstructure:"path"`

	// Driver is "yaml" or "sqlite".
	// Default: "yaml"
	Driver string `mapstructure:"driver"`
}

// RecordsConfig locates the task-instance records.
type RecordsConfig struct {
	// Path is the YAML records file.
	// Default: "task-records.yaml"
	Path string `mapstructure:"path"`
}

// SuggestConfig tunes workflow suggestions.
type SuggestConfig struct {
	// Tolerance is the largest stage-count difference between an outline and
	// a catalogue entry that still counts as similar.
	// Default: 1
	Tolerance int `mapstructure:"tolerance"`
}

// OutputConfig contains terminal output formatting configuration.
type OutputConfig struct {
	// BarWidth is the number of cells in the progress bar.
	// Default: 30
	BarWidth int `mapstructure:"bar_width"`

	// Color enables lipgloss styling. Plain text is used when false.
	// Default: true
	Color bool `mapstructure:"color"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	// Default: "info"
	Level string `mapstructure:"level"`

	// Format is "text" or "json".
	// Default: "text"
	Format string `mapstructure:"format"`
}

// DefaultConfig returns a new [Config] with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Catalogue: CatalogueConfig{
			Path:   "workflows.yaml",
			Driver: "yaml",
		},
		Records: RecordsConfig{
			Path: "task-records.yaml",
		},
		Suggest: SuggestConfig{
			Tolerance: 1,
		},
		Output: OutputConfig{
			BarWidth: 30,
			Color:    true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	switch c.Catalogue.Driver {
	case "yaml", "sqlite":
	default:
		return fmt.Errorf("invalid catalogue.driver %q: want yaml or sqlite", c.Catalogue.Driver)
	}
	if c.Catalogue.Path == "" {
		return fmt.Errorf("catalogue.path must not be empty")
	}
	if c.Suggest.Tolerance < 0 {
		return fmt.Errorf("invalid suggest.tolerance %d: must not be negative", c.Suggest.Tolerance)
	}
	if c.Output.BarWidth <= 0 {
		return fmt.Errorf("invalid output.bar_width %d: must be positive", c.Output.BarWidth)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log.format %q: want text or json", c.Log.Format)
	}
	return nil
}
