package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Window systems and renderers known to the daemon.
var (
	WindowSystems = []string{"x11", "memory"}
	Renderers     = []string{"ebiten", "headless"}
	LogLevels     = []string{"trace", "debug", "info", "warn", "error"}
	LogFormats    = []string{"text", "json"}
)

// PreviewConfig configures the ebiten preview window.
type PreviewConfig struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Title      string `yaml:"title"`
	ShowCursor bool   `yaml:"show_cursor"`
}

// IPCConfig configures the control socket.
type IPCConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Config is the effective daemon configuration.
type Config struct {
	// Display is the X display to connect to. Empty uses $DISPLAY.
	Display        string `yaml:"display"`
	WindowSystem   string `yaml:"window_system"`
	Renderer       string `yaml:"renderer"`
	LogLevel       string `yaml:"log_level"`
	LogFormat      string `yaml:"log_format"`
	PollInterval   int    `yaml:"poll_interval_ms"`
	RenderInterval int    `yaml:"render_interval_ms"`
	// RefreshEvery copies window contents every N frames; 0 only copies on
	// bind.
	RefreshEvery         int           `yaml:"refresh_every"`
	RequireWindowManager bool          `yaml:"require_window_manager"`
	Preview              PreviewConfig `yaml:"preview"`
	IPC                  IPCConfig     `yaml:"ipc"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		WindowSystem:   "x11",
		Renderer:       "ebiten",
		LogLevel:       "info",
		LogFormat:      "text",
		PollInterval:   5,
		RenderInterval: 16,
		RefreshEvery:   1,
		Preview: PreviewConfig{
			Width:      1280,
			Height:     720,
			Title:      "xveearr",
			ShowCursor: true,
		},
		IPC: IPCConfig{Enabled: true},
	}
}

func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "xveearr", "config.yaml"), nil
}

// Validate checks value ranges and names.
func (c *Config) Validate() error {
	if !slices.Contains(WindowSystems, c.WindowSystem) {
		return &ValidationError{Path: "window_system", Err: fmt.Errorf("window_system must be one of: %s", strings.Join(WindowSystems, ", "))}
	}
	if !slices.Contains(Renderers, c.Renderer) {
		return &ValidationError{Path: "renderer", Err: fmt.Errorf("renderer must be one of: %s", strings.Join(Renderers, ", "))}
	}
	if !slices.Contains(LogLevels, c.LogLevel) {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: %s", strings.Join(LogLevels, ", "))}
	}
	if !slices.Contains(LogFormats, c.LogFormat) {
		return &ValidationError{Path: "log_format", Err: fmt.Errorf("log_format must be one of: %s", strings.Join(LogFormats, ", "))}
	}
	if c.PollInterval <= 0 {
		return &ValidationError{Path: "poll_interval_ms", Err: fmt.Errorf("poll_interval_ms must be > 0")}
	}
	if c.RenderInterval <= 0 {
		return &ValidationError{Path: "render_interval_ms", Err: fmt.Errorf("render_interval_ms must be > 0")}
	}
	if c.RefreshEvery < 0 {
		return &ValidationError{Path: "refresh_every", Err: fmt.Errorf("refresh_every must be >= 0")}
	}
	if c.Preview.Width <= 0 || c.Preview.Height <= 0 {
		return &ValidationError{Path: "preview", Err: fmt.Errorf("preview width and height must be > 0")}
	}
	return nil
}

// Marshal renders c as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}
