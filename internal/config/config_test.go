package config

import (
	"testing"

	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GitPath != "git" {
		t.Fatalf("GitPath = %q, want %q", cfg.GitPath, "git")
	}
	if cfg.Backend != "git" {
		t.Fatalf("Backend = %q, want %q", cfg.Backend, "git")
	}
	if cfg.Watch || cfg.ImplyLocal || cfg.Verbose {
		t.Fatalf("boolean defaults should be off: %+v", cfg)
	}
	if cfg.WatchDebounceMS != 350 {
		t.Fatalf("WatchDebounceMS = %d, want 350", cfg.WatchDebounceMS)
	}
}

func TestLoadOverrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("backend", "native")
	viper.Set("watch_debounce_ms", 100)
	viper.Set("imply_local", true)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend != "native" || cfg.WatchDebounceMS != 100 || !cfg.ImplyLocal {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}
