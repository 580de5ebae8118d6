package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/1broseidon/xveearr/internal/binding"
	"github.com/1broseidon/xveearr/internal/cursor"
	"github.com/1broseidon/xveearr/internal/daemon"
	"github.com/1broseidon/xveearr/internal/desktop"
	"github.com/1broseidon/xveearr/internal/ipc"
	"github.com/1broseidon/xveearr/internal/platform"
)

type fakeDaemon struct {
	windows []daemon.Window
	reloads int
	err     error
}

func (f *fakeDaemon) GetStatus() (*ipc.StatusData, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &ipc.StatusData{
		WindowSystem: "memory",
		Renderer:     "headless",
		HostPID:      10,
		WindowCount:  len(f.windows),
		Stats:        daemon.Stats{Windows: len(f.windows), Added: 3, Removed: 1},
		Pipeline: &ipc.PipelineStats{
			QueueDepth:    2,
			Binder:        binding.Stats{Bound: 2, Frames: 40},
			CachedCursors: 1,
		},
	}, nil
}

func (f *fakeDaemon) ListWindows() (*ipc.WindowsData, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &ipc.WindowsData{Windows: f.windows}, nil
}

func (f *fakeDaemon) GetWindow(id uint32) (*daemon.Window, error) {
	for _, w := range f.windows {
		if uint32(w.ID) == id {
			return &w, nil
		}
	}
	return nil, errors.New("daemon error: Unknown window")
}

func (f *fakeDaemon) GetCursor() (*ipc.CursorData, error) {
	return &ipc.CursorData{Info: cursor.Info{Serial: 4, Texture: 9, Width: 24, Height: 24, XHot: 1, YHot: 2}, Valid: true}, nil
}

func (f *fakeDaemon) GetDisplays() (*ipc.DisplaysData, error) {
	return &ipc.DisplaysData{Displays: []platform.Display{{ID: 0, Name: "DP-1", Bounds: platform.Rect{Width: 2560, Height: 1440}}}}, nil
}

func (f *fakeDaemon) Reload() error {
	if f.err != nil {
		return f.err
	}
	f.reloads++
	return nil
}

func newFake() *fakeDaemon {
	return &fakeDaemon{windows: []daemon.Window{
		{ID: 5, WindowInfo: desktop.WindowInfo{Texture: 1, PID: 50, Bounds: platform.Rect{X: 1, Y: 2, Width: 30, Height: 40}}, Order: 1},
		{ID: 6, WindowInfo: desktop.WindowInfo{Texture: 2, PID: 60}, Order: 2},
	}}
}

func TestGetStatus(t *testing.T) {
	s := NewServer(newFake(), nil)
	_, out, err := s.handleGetStatus(context.Background(), nil, GetStatusInput{})
	if err != nil {
		t.Fatalf("get_status: %v", err)
	}
	if out.WindowSystem != "memory" || out.WindowCount != 2 || out.Added != 3 || out.Removed != 1 || out.HostPID != 10 {
		t.Fatalf("status = %+v", out)
	}
	if out.QueueDepth != 2 || out.Bound != 2 || out.Frames != 40 || out.CachedCursors != 1 {
		t.Fatalf("pipeline fields = %+v", out)
	}
}

func TestGetStatus_DaemonDown(t *testing.T) {
	s := NewServer(&fakeDaemon{err: errors.New("failed to connect to daemon")}, nil)
	if _, _, err := s.handleGetStatus(context.Background(), nil, GetStatusInput{}); err == nil {
		t.Fatal("expected error when daemon is unreachable")
	}
}

func TestListWindows_FiltersByPID(t *testing.T) {
	s := NewServer(newFake(), nil)

	_, all, err := s.handleListWindows(context.Background(), nil, ListWindowsInput{})
	if err != nil {
		t.Fatalf("list_windows: %v", err)
	}
	if all.Count != 2 || all.Windows[0].Window != 5 || all.Windows[0].Width != 30 {
		t.Fatalf("windows = %+v", all)
	}

	_, some, err := s.handleListWindows(context.Background(), nil, ListWindowsInput{PID: 60})
	if err != nil {
		t.Fatalf("list_windows: %v", err)
	}
	if some.Count != 1 || some.Windows[0].Window != 6 {
		t.Fatalf("filtered windows = %+v", some)
	}

	_, none, _ := s.handleListWindows(context.Background(), nil, ListWindowsInput{PID: 1})
	if none.Count != 0 || none.Windows == nil {
		t.Fatalf("expected empty non-nil list, got %+v", none)
	}
}

func TestGetWindow(t *testing.T) {
	s := NewServer(newFake(), nil)

	_, w, err := s.handleGetWindow(context.Background(), nil, GetWindowInput{Window: 5})
	if err != nil {
		t.Fatalf("get_window: %v", err)
	}
	if w.Texture != 1 || w.PID != 50 || w.X != 1 || w.Height != 40 {
		t.Fatalf("window = %+v", w)
	}
	if _, _, err := s.handleGetWindow(context.Background(), nil, GetWindowInput{}); err == nil {
		t.Fatal("expected error for missing window id")
	}
	if _, _, err := s.handleGetWindow(context.Background(), nil, GetWindowInput{Window: 99}); err == nil {
		t.Fatal("expected error for unknown window")
	}
}

func TestGetCursor(t *testing.T) {
	s := NewServer(newFake(), nil)
	_, c, err := s.handleGetCursor(context.Background(), nil, GetCursorInput{})
	if err != nil {
		t.Fatalf("get_cursor: %v", err)
	}
	if !c.Valid || c.Serial != 4 || c.Texture != 9 || c.XHot != 1 || c.YHot != 2 {
		t.Fatalf("cursor = %+v", c)
	}
}

func TestListDisplays(t *testing.T) {
	s := NewServer(newFake(), nil)
	_, out, err := s.handleListDisplays(context.Background(), nil, ListDisplaysInput{})
	if err != nil {
		t.Fatalf("list_displays: %v", err)
	}
	if len(out.Displays) != 1 || out.Displays[0].Name != "DP-1" || out.Displays[0].Width != 2560 {
		t.Fatalf("displays = %+v", out.Displays)
	}
}

func TestReloadConfig(t *testing.T) {
	f := newFake()
	s := NewServer(f, nil)
	res, out, err := s.handleReloadConfig(context.Background(), nil, ReloadConfigInput{})
	if err != nil {
		t.Fatalf("reload_config: %v", err)
	}
	if !out.Reloaded || f.reloads != 1 || res == nil || len(res.Content) != 1 {
		t.Fatalf("reload result = %+v %+v", res, out)
	}
}
