package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "OUTLINEFLOW"

// ConfigPathEnv names an explicit config file.
const ConfigPathEnv = EnvPrefix + "_CONFIG_PATH"

// ProjectConfigFile is the config file looked up in the working directory.
const ProjectConfigFile = "outlineflow.yaml"

// Loader handles configuration loading using Viper.
//
// Create with [NewLoader]. Each Loader owns its Viper instance, so loaders
// do not share state.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a [Loader] with a fresh Viper instance.
func NewLoader() *Loader {
	return &Loader{
		v: viper.New(),
	}
}

func (l *Loader) setDefaults() {
	d := DefaultConfig()
	l.v.SetDefault("catalogue.path", d.Catalogue.Path)
	l.v.SetDefault("catalogue.driver", d.Catalogue.Driver)
	l.v.SetDefault("records.path", d.Records.Path)
	l.v.SetDefault("suggest.tolerance", d.Suggest.Tolerance)
	l.v.SetDefault("output.bar_width", d.Output.BarWidth)
	l.v.SetDefault("output.color", d.Output.Color)
	l.v.SetDefault("log.level", d.Log.Level)
	l.v.SetDefault("log.format", d.Log.Format)
}

func (l *Loader) bindEnv() {
	l.v.SetEnvPrefix(EnvPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()
}

// searchPaths returns the config files to merge, lowest priority first.
func searchPaths() []string {
	var paths []string
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "outlineflow", "config.yaml"))
	}
	paths = append(paths, ProjectConfigFile)
	if explicit := os.Getenv(ConfigPathEnv); explicit != "" {
		paths = append(paths, explicit)
	}
	return paths
}

// Load loads configuration from the standard locations and the environment.
//
// Missing files are skipped, except the one named by OUTLINEFLOW_CONFIG_PATH,
// which must exist.
func (l *Loader) Load() (*Config, error) {
	l.setDefaults()
	l.bindEnv()

	explicit := os.Getenv(ConfigPathEnv)
	for _, path := range searchPaths() {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) && path != explicit {
				continue
			}
			return nil, fmt.Errorf("error reading config file: %w", err)
		}

		l.v.SetConfigFile(path)
		if err := l.v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return l.unmarshal()
}

// LoadFromFile loads configuration from one file on top of the defaults and
// environment. The file must exist.
func (l *Loader) LoadFromFile(path string) (*Config, error) {
	l.setDefaults()
	l.bindEnv()

	l.v.SetConfigFile(path)
	if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	return l.unmarshal()
}

func (l *Loader) unmarshal() (*Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ConfigFileUsed returns the last file merged by [Loader.Load] or read by
// [Loader.LoadFromFile], or "" when none was.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}
