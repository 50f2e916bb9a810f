// Package config handles viewer configuration loading and management.
package config

// Config holds all viewer settings.
type Config struct {
	Graphics  GraphicsConfig  `yaml:"graphics"`
	Rendering RenderingConfig `yaml:"rendering"`
	Model     ModelConfig     `yaml:"model"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// GraphicsConfig holds display settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// RenderingConfig holds render settings.
type RenderingConfig struct {
	// Wireframe starts all mesh nodes in wireframe style and makes the
	// loader generate wireframe data up front.
	Wireframe bool `yaml:"wireframe"`
	// SpinDegPerSec rotates the loaded model around Y, 0 disables.
	SpinDegPerSec float32 `yaml:"spin_deg_per_sec"`
}

// ModelConfig holds model loading settings.
type ModelConfig struct {
	Path string `yaml:"path"` // glTF file to load
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Rendering: RenderingConfig{
			Wireframe:     false,
			SpinDegPerSec: 20,
		},
		Model: ModelConfig{
			Path: "",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
