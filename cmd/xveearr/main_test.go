package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestRunConfigValidate(t *testing.T) {
	good := writeConfig(t, "renderer: headless\n")
	if code := runConfig([]string{"validate", "--path", good}); code != 0 {
		t.Fatalf("validate good config = %d, want 0", code)
	}

	bad := writeConfig(t, "renderer: vulkan\n")
	if code := runConfig([]string{"validate", "--path", bad}); code != 1 {
		t.Fatalf("validate bad config = %d, want 1", code)
	}
}

func TestRunConfigUsage(t *testing.T) {
	if code := runConfig(nil); code != 2 {
		t.Fatalf("config without subcommand = %d, want 2", code)
	}
	if code := runConfig([]string{"explain"}); code != 2 {
		t.Fatalf("unknown subcommand = %d, want 2", code)
	}
}

func TestLoadConfig_ExplicitPath(t *testing.T) {
	path := writeConfig(t, "window_system: memory\n")
	res, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if res.Config.WindowSystem != "memory" || res.File == "" {
		t.Fatalf("loaded %+v from %q", res.Config, res.File)
	}
}

func TestWindowSystems(t *testing.T) {
	names := windowSystems().Names()
	if len(names) != 2 || names[0] != "memory" || names[1] != "x11" {
		t.Fatalf("window systems = %v", names)
	}
}

func TestStatusWithoutDaemon(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())
	if code := runStatus(nil); code != 1 {
		t.Fatalf("status without daemon = %d, want 1", code)
	}
}
