// Package config loads runtime configuration from .diffview.yaml,
// DIFFVIEW_* environment variables, and CLI flags bound through viper.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all runtime settings for a diffview invocation.
type Config struct {
	// GitPath is the git executable used by the CLI backend.
	GitPath string `mapstructure:"git_path"`
	// Backend selects the repository query implementation: "git" or
	// "native".
	Backend string `mapstructure:"backend"`
	// Watch keeps open commands running and reports repository changes.
	Watch           bool `mapstructure:"watch"`
	WatchDebounceMS int  `mapstructure:"watch_debounce_ms"`
	// ImplyLocal is the default for the --imply-local flag.
	ImplyLocal bool `mapstructure:"imply_local"`
	Verbose    bool `mapstructure:"verbose"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetDefault("git_path", "git")
	viper.SetDefault("backend", "git")
	viper.SetDefault("watch", false)
	viper.SetDefault("watch_debounce_ms", 350)
	viper.SetDefault("imply_local", false)
	viper.SetDefault("verbose", false)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}
