package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Graphics.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Graphics.Height)
	}
	if cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if !cfg.Graphics.VSync {
		t.Error("expected vsync to be true by default")
	}

	if cfg.Rendering.Wireframe {
		t.Error("expected wireframe to be false by default")
	}
	if cfg.Rendering.SpinDegPerSec != 20 {
		t.Errorf("expected spin 20 deg/s, got %f", cfg.Rendering.SpinDegPerSec)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "lumen.yaml")

	yamlContent := `
graphics:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false

rendering:
  wireframe: true
  spin_deg_per_sec: 45

model:
  path: "assets/rig.gltf"

logging:
  level: debug
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("loadFromFile: %v", err)
	}

	if cfg.Graphics.Width != 1920 || cfg.Graphics.Height != 1080 {
		t.Errorf("graphics size: got %dx%d, want 1920x1080", cfg.Graphics.Width, cfg.Graphics.Height)
	}
	if !cfg.Graphics.Fullscreen || cfg.Graphics.VSync {
		t.Error("graphics booleans not loaded")
	}
	if !cfg.Rendering.Wireframe {
		t.Error("rendering.wireframe not loaded")
	}
	if cfg.Rendering.SpinDegPerSec != 45 {
		t.Errorf("rendering.spin_deg_per_sec: got %f, want 45", cfg.Rendering.SpinDegPerSec)
	}
	if cfg.Model.Path != "assets/rig.gltf" {
		t.Errorf("model.path: got %q", cfg.Model.Path)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("logging.level: got %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "lumen.yaml")

	yamlContent := `
model:
  path: "only/this.gltf"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("loadFromFile: %v", err)
	}

	if cfg.Model.Path != "only/this.gltf" {
		t.Errorf("model.path: got %q", cfg.Model.Path)
	}
	if cfg.Graphics.Width != 1280 {
		t.Error("unset fields must keep their defaults")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "lumen.yaml")

	cfg := Default()
	cfg.Graphics.Width = 800
	cfg.Rendering.Wireframe = true
	cfg.Model.Path = "a/b.glb"

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, configPath); err != nil {
		t.Fatalf("loadFromFile: %v", err)
	}

	if *loaded != *cfg {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", loaded, cfg)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "lumen.yaml")

	if err := os.WriteFile(configPath, []byte("graphics: [not a map"), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	if err := loadFromFile(Default(), configPath); err == nil {
		t.Error("expected error for invalid YAML")
	}
}
