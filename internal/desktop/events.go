// Package desktop turns host window notifications into logical window events
// and keeps the table of windows shown to the renderer.
package desktop

import (
	"fmt"

	"github.com/1broseidon/xveearr/internal/platform"
	"github.com/1broseidon/xveearr/internal/texture"
)

// WindowInfo is a snapshot of a known window.
type WindowInfo struct {
	Texture   texture.Handle `json:"texture"`
	InvertedY bool           `json:"inverted_y"`
	PID       int            `json:"pid"`
	Bounds    platform.Rect  `json:"bounds"`
}

// EventType is the kind of a logical window event.
type EventType int

const (
	Added EventType = iota + 1
	Removed
	Updated
)

func (t EventType) String() string {
	switch t {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Updated:
		return "updated"
	default:
		return fmt.Sprintf("event(%d)", int(t))
	}
}

// Event is a logical window event. Info is zero for Removed.
type Event struct {
	Type   EventType
	Window platform.WindowID
	Info   WindowInfo
}

func (e Event) String() string {
	if e.Type == Removed {
		return fmt.Sprintf("%s{%d}", e.Type, e.Window)
	}
	b := e.Info.Bounds
	return fmt.Sprintf("%s{%d, %dx%d+%d+%d pid=%d}", e.Type, e.Window, b.Width, b.Height, b.X, b.Y, e.Info.PID)
}
