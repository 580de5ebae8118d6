package mcp

import (
	"github.com/1broseidon/xveearr/internal/daemon"
	"github.com/1broseidon/xveearr/internal/ipc"
)

// GetStatusInput is the input for the get_status tool.
type GetStatusInput struct{}

// GetStatusOutput is the output for the get_status tool.
type GetStatusOutput struct {
	WindowSystem  string `json:"window_system"`
	Renderer      string `json:"renderer"`
	HostPID       int    `json:"host_pid"`
	OwnPID        int    `json:"own_pid"`
	WindowCount   int    `json:"window_count"`
	CursorSerial  uint32 `json:"cursor_serial"`
	Added         uint64 `json:"added"`
	Removed       uint64 `json:"removed"`
	Updated       uint64 `json:"updated"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	QueueDepth    int    `json:"queue_depth"`
	Bound         int    `json:"bound_textures"`
	Deferred      int    `json:"deferred_binds"`
	Frames        uint64 `json:"frames"`
	CachedCursors int    `json:"cached_cursors"`
}

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct {
	PID int `json:"pid,omitempty" jsonschema:"Only list windows owned by this process ID"`
}

// WindowInfo describes a single scene window.
type WindowInfo struct {
	Window    uint32 `json:"window"`
	Texture   uint32 `json:"texture"`
	PID       int    `json:"pid"`
	InvertedY bool   `json:"inverted_y"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Order     int    `json:"order"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Count   int          `json:"count"`
	Windows []WindowInfo `json:"windows"`
}

// GetWindowInput is the input for the get_window tool.
type GetWindowInput struct {
	Window uint32 `json:"window" jsonschema:"X11 window ID of a scene window"`
}

// GetCursorInput is the input for the get_cursor tool.
type GetCursorInput struct{}

// GetCursorOutput is the output for the get_cursor tool.
type GetCursorOutput struct {
	Valid   bool   `json:"valid"`
	Serial  uint32 `json:"serial"`
	Texture uint32 `json:"texture"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	XHot    int    `json:"x_hot"`
	YHot    int    `json:"y_hot"`
}

// ListDisplaysInput is the input for the list_displays tool.
type ListDisplaysInput struct{}

// DisplayInfo describes one host output.
type DisplayInfo struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// ListDisplaysOutput is the output for the list_displays tool.
type ListDisplaysOutput struct {
	Displays []DisplayInfo `json:"displays"`
}

// ReloadConfigInput is the input for the reload_config tool.
type ReloadConfigInput struct{}

// ReloadConfigOutput is the output for the reload_config tool.
type ReloadConfigOutput struct {
	Reloaded bool `json:"reloaded"`
}

func statusOutput(st *ipc.StatusData) GetStatusOutput {
	out := GetStatusOutput{
		WindowSystem:  st.WindowSystem,
		Renderer:      st.Renderer,
		HostPID:       st.HostPID,
		OwnPID:        st.OwnPID,
		WindowCount:   st.WindowCount,
		CursorSerial:  st.CursorSerial,
		Added:         st.Stats.Added,
		Removed:       st.Stats.Removed,
		Updated:       st.Stats.Updated,
		UptimeSeconds: st.UptimeSeconds,
	}
	if p := st.Pipeline; p != nil {
		out.QueueDepth = p.QueueDepth
		out.Bound = p.Binder.Bound
		out.Deferred = p.Binder.Deferred
		out.Frames = p.Binder.Frames
		out.CachedCursors = p.CachedCursors
	}
	return out
}

func windowInfo(w daemon.Window) WindowInfo {
	return WindowInfo{
		Window:    uint32(w.ID),
		Texture:   uint32(w.Texture),
		PID:       w.PID,
		InvertedY: w.InvertedY,
		X:         w.Bounds.X,
		Y:         w.Bounds.Y,
		Width:     w.Bounds.Width,
		Height:    w.Bounds.Height,
		Order:     w.Order,
	}
}

func cursorOutput(c *ipc.CursorData) GetCursorOutput {
	return GetCursorOutput{
		Valid:   c.Valid,
		Serial:  c.Serial,
		Texture: uint32(c.Texture),
		Width:   c.Width,
		Height:  c.Height,
		XHot:    c.XHot,
		YHot:    c.YHot,
	}
}
