package config

// RawConfig mirrors Config with optional fields so a file only overrides
// what it sets.
type RawConfig struct {
	Display              *string           `yaml:"display"`
	WindowSystem         *string           `yaml:"window_system"`
	Renderer             *string           `yaml:"renderer"`
	LogLevel             *string           `yaml:"log_level"`
	LogFormat            *string           `yaml:"log_format"`
	PollInterval         *int              `yaml:"poll_interval_ms"`
	RenderInterval       *int              `yaml:"render_interval_ms"`
	RefreshEvery         *int              `yaml:"refresh_every"`
	RequireWindowManager *bool             `yaml:"require_window_manager"`
	Preview              *RawPreviewConfig `yaml:"preview"`
	IPC                  *RawIPCConfig     `yaml:"ipc"`
}

type RawPreviewConfig struct {
	Width      *int    `yaml:"width"`
	Height     *int    `yaml:"height"`
	Title      *string `yaml:"title"`
	ShowCursor *bool   `yaml:"show_cursor"`
}

type RawIPCConfig struct {
	Enabled *bool `yaml:"enabled"`
}
