package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Relay.URL == "" {
		t.Error("expected default relay URL")
	}
	if cfg.API.BaseURL == "" {
		t.Error("expected default API base URL")
	}
	if cfg.Database.Path == "" {
		t.Error("expected default database path")
	}
}

func TestLoadFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
viewer:
  id: u1
  label: Alice
relay:
  url: ws://relay.example.com/ws
seed:
  path: ./seed.yaml
  watch: true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, loadedPath, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if loadedPath != path {
		t.Errorf("expected path %s, got %s", path, loadedPath)
	}
	if cfg.Viewer.ID != "u1" {
		t.Errorf("expected viewer u1, got %s", cfg.Viewer.ID)
	}
	if cfg.Relay.URL != "ws://relay.example.com/ws" {
		t.Errorf("relay URL not loaded, got %s", cfg.Relay.URL)
	}
	if !cfg.Seed.Watch {
		t.Error("seed watch flag not loaded")
	}

	// Unset values are defaulted
	if cfg.API.BaseURL == "" {
		t.Error("missing API base URL should default")
	}
	if cfg.Database.Path == "" {
		t.Error("missing database path should default")
	}
}

func TestLoadFromPathErrors(t *testing.T) {
	if _, _, err := LoadFromPath("/does/not/exist.yaml"); err == nil {
		t.Error("expected error for missing file")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("viewer: [broken"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if _, _, err := LoadFromPath(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Viewer.ID = "u9"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	back, _, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}
	if back.Viewer.ID != "u9" {
		t.Errorf("viewer lost in round trip, got %s", back.Viewer.ID)
	}
}

func TestFindConfigPathEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("viewer:\n  id: u1\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	t.Setenv(EnvConfigPath, path)
	if got := FindConfigPath(); got != path {
		t.Errorf("expected env override %s, got %s", path, got)
	}

	t.Setenv(EnvConfigPath, filepath.Join(dir, "missing.yaml"))
	if got := FindConfigPath(); got == filepath.Join(dir, "missing.yaml") {
		t.Error("env override pointing at a missing file should be skipped")
	}
}
