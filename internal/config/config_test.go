package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Layout != "layout.yaml" {
		t.Errorf("layout: got %q", cfg.Layout)
	}
	if cfg.WatchDebounce != 100*time.Millisecond {
		t.Errorf("debounce: got %v", cfg.WatchDebounce)
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("REGIONUI_LAYOUT", "site/page.yaml")
	t.Setenv("REGIONUI_DEBUG", "true")
	t.Setenv("REGIONUI_WATCH_DEBOUNCE", "1s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Layout != "site/page.yaml" || !cfg.Debug || cfg.WatchDebounce != time.Second {
		t.Errorf("got %+v", cfg)
	}
}

func TestLoadError(t *testing.T) {
	t.Setenv("REGIONUI_DEBUG", "maybe")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}
