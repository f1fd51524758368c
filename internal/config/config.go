// Package config reads the regionui CLI settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the CLI settings. Command line flags override them.
type Config struct {
	// Layout is the path of the YAML page description.
	Layout string `env:"REGIONUI_LAYOUT" envDefault:"layout.yaml"`
	// Templates is a directory of html/template files, referenced by their
	// path relative to it.
	Templates string `env:"REGIONUI_TEMPLATES"`
	// DB is the path of the sqlite database queried by data sets.
	DB string `env:"REGIONUI_DB"`
	// Output is the file the page is written to, stdout when empty.
	Output        string        `env:"REGIONUI_OUTPUT"`
	Debug         bool          `env:"REGIONUI_DEBUG"`
	WatchDebounce time.Duration `env:"REGIONUI_WATCH_DEBOUNCE" envDefault:"100ms"`
}

// Load parses the environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv fills target from the environment.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
