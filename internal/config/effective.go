package config

import "fmt"

type SourceKind string

const (
	SourceDefault SourceKind = "default"
	SourceFile    SourceKind = "file"
)

// Source locates the value of a config key.
type Source struct {
	Kind   SourceKind
	File   string
	Line   int
	Column int
}

// ValidationError reports an invalid value at a YAML path.
type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// BuildEffectiveConfig applies raw on top of the defaults.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()

	if raw.Display != nil {
		cfg.Display = *raw.Display
	}
	if raw.WindowSystem != nil {
		cfg.WindowSystem = *raw.WindowSystem
	}
	if raw.Renderer != nil {
		cfg.Renderer = *raw.Renderer
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}
	if raw.LogFormat != nil {
		cfg.LogFormat = *raw.LogFormat
	}
	if raw.PollInterval != nil {
		cfg.PollInterval = *raw.PollInterval
	}
	if raw.RenderInterval != nil {
		cfg.RenderInterval = *raw.RenderInterval
	}
	if raw.RefreshEvery != nil {
		cfg.RefreshEvery = *raw.RefreshEvery
	}
	if raw.RequireWindowManager != nil {
		cfg.RequireWindowManager = *raw.RequireWindowManager
	}
	if p := raw.Preview; p != nil {
		if p.Width != nil {
			cfg.Preview.Width = *p.Width
		}
		if p.Height != nil {
			cfg.Preview.Height = *p.Height
		}
		if p.Title != nil {
			cfg.Preview.Title = *p.Title
		}
		if p.ShowCursor != nil {
			cfg.Preview.ShowCursor = *p.ShowCursor
		}
	}
	if raw.IPC != nil && raw.IPC.Enabled != nil {
		cfg.IPC.Enabled = *raw.IPC.Enabled
	}
	return cfg
}
