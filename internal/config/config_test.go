package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test window defaults
	if cfg.Window.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Window.Height)
	}
	if cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if !cfg.Window.VSync {
		t.Error("expected vsync to be true by default")
	}

	// Test camera defaults
	if cfg.Camera.FOV != 45 {
		t.Errorf("expected fov 45, got %f", cfg.Camera.FOV)
	}
	if cfg.Camera.LookAtDuration != 400*time.Millisecond {
		t.Errorf("expected look-at duration 400ms, got %v", cfg.Camera.LookAtDuration)
	}
	if cfg.Camera.InitialView != "home" {
		t.Errorf("expected initial view 'home', got %s", cfg.Camera.InitialView)
	}
	if cfg.Camera.MinDistance >= cfg.Camera.MaxDistance {
		t.Error("expected min_distance below max_distance")
	}

	// Test input defaults
	if cfg.Input.PivotRepick != 180*time.Millisecond {
		t.Errorf("expected pivot repick 180ms, got %v", cfg.Input.PivotRepick)
	}
	if cfg.Input.OrbitSpeed <= 0 {
		t.Error("expected positive orbit speed")
	}

	// Test binding defaults
	if cfg.Bindings.Views["cmd+1"] != "home" {
		t.Errorf("expected cmd+1 bound to home, got %s", cfg.Bindings.Views["cmd+1"])
	}
	if cfg.Bindings.ProjectionToggle != "cmd+0" {
		t.Errorf("expected projection toggle cmd+0, got %s", cfg.Bindings.ProjectionToggle)
	}

	// Test geodetic defaults
	if cfg.Geodetic.Enabled {
		t.Error("expected geodetic mode off by default")
	}
	if cfg.Geodetic.RebaseDistance != 10000 {
		t.Errorf("expected rebase distance 10000, got %f", cfg.Geodetic.RebaseDistance)
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
window:
  title: "Site Viewer"
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false

camera:
  fov: 60
  look_at_duration: 250ms
  toggle_duration: 500ms
  initial_view: "top"

input:
  pan_speed: 45
  pivot_repick: 100ms

bindings:
  views:
    ctrl+1: "home"
    ctrl+2: "top"
  projection_toggle: "ctrl+0"

geodetic:
  enabled: true
  origin_lat: 59.9139
  origin_lon: 10.7522
  origin_height: 12.5
  rebase_distance: 2500

logging:
  level: "debug"
  log_file: "viewer.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Load config
	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Verify values were loaded
	if cfg.Window.Title != "Site Viewer" {
		t.Errorf("expected title 'Site Viewer', got %s", cfg.Window.Title)
	}
	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920, got %d", cfg.Window.Width)
	}
	if !cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Window.VSync {
		t.Error("expected vsync to be false")
	}

	if cfg.Camera.FOV != 60 {
		t.Errorf("expected fov 60, got %f", cfg.Camera.FOV)
	}
	if cfg.Camera.LookAtDuration != 250*time.Millisecond {
		t.Errorf("expected look-at duration 250ms, got %v", cfg.Camera.LookAtDuration)
	}
	if cfg.Camera.InitialView != "top" {
		t.Errorf("expected initial view 'top', got %s", cfg.Camera.InitialView)
	}
	// Fields absent from the file keep their defaults.
	if cfg.Camera.MaxDistance != 5000 {
		t.Errorf("expected default max_distance 5000, got %f", cfg.Camera.MaxDistance)
	}

	if cfg.Input.PanSpeed != 45 {
		t.Errorf("expected pan speed 45, got %f", cfg.Input.PanSpeed)
	}
	if cfg.Input.PivotRepick != 100*time.Millisecond {
		t.Errorf("expected pivot repick 100ms, got %v", cfg.Input.PivotRepick)
	}

	if cfg.Bindings.Views["ctrl+2"] != "top" {
		t.Errorf("expected ctrl+2 bound to top, got %s", cfg.Bindings.Views["ctrl+2"])
	}
	if cfg.Bindings.ProjectionToggle != "ctrl+0" {
		t.Errorf("expected projection toggle ctrl+0, got %s", cfg.Bindings.ProjectionToggle)
	}

	if !cfg.Geodetic.Enabled {
		t.Error("expected geodetic mode enabled")
	}
	if cfg.Geodetic.OriginLat != 59.9139 {
		t.Errorf("expected origin lat 59.9139, got %f", cfg.Geodetic.OriginLat)
	}
	if cfg.Geodetic.RebaseDistance != 2500 {
		t.Errorf("expected rebase distance 2500, got %f", cfg.Geodetic.RebaseDistance)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "viewer.log" {
		t.Errorf("expected log file 'viewer.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	// Create temporary config file with invalid YAML
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
window:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Try to load - should error
	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("expected non-empty config dir")
	}
	if !filepath.IsAbs(dir) && !strings.HasPrefix(dir, "viewer") {
		t.Errorf("unexpected config dir %q", dir)
	}
}

func TestSaveTo(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "config.yaml")

	cfg := Default()
	cfg.Window.Width = 1600
	cfg.Geodetic.Enabled = true

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}
	if loaded.Window.Width != 1600 {
		t.Errorf("expected width 1600 after reload, got %d", loaded.Window.Width)
	}
	if !loaded.Geodetic.Enabled {
		t.Error("expected geodetic enabled after reload")
	}
}
