package platform

import "errors"

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Rect describes a rectangular region in desktop coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// SameSize reports whether r and o have identical dimensions.
func (r Rect) SameSize(o Rect) bool {
	return r.Width == o.Width && r.Height == o.Height
}

// NotificationKind enumerates raw window-system notifications.
type NotificationKind int

const (
	NotifyMapped NotificationKind = iota
	NotifyUnmapped
	NotifyReparented
	NotifyConfigured
	NotifyCursorChanged
)

func (k NotificationKind) String() string {
	switch k {
	case NotifyMapped:
		return "mapped"
	case NotifyUnmapped:
		return "unmapped"
	case NotifyReparented:
		return "reparented"
	case NotifyConfigured:
		return "configured"
	case NotifyCursorChanged:
		return "cursor-changed"
	default:
		return "unknown"
	}
}

// Notification is a raw, untranslated event from the host window system.
type Notification struct {
	Kind   NotificationKind
	Window WindowID
	// Bounds is set for NotifyConfigured.
	Bounds Rect
	// ToRoot is set for NotifyReparented when the window became a
	// top-level window.
	ToRoot bool
	// Serial is set for NotifyCursorChanged.
	Serial uint32
}

// Geometry is the current state of a window as reported by the host.
type Geometry struct {
	Bounds   Rect
	Depth    int
	Viewable bool
	// InputOnly windows have no pixels to composite.
	InputOnly bool
}

// CursorImage is a pointer image in host (ARGB, one uint32 per pixel) layout.
type CursorImage struct {
	Serial uint32
	X      int
	Y      int
	Width  int
	Height int
	XHot   int
	YHot   int
	Pixels []uint32
}

// Surface is a named, composited backing store for one window.
type Surface struct {
	ID     uint32
	Window WindowID
	Width  int
	Height int
	Depth  int
}

// ErrUnknownWindow is returned when the host has no record of a window.
var ErrUnknownWindow = errors.New("unknown window")

// Source delivers raw notifications without blocking.
type Source interface {
	// Poll returns the next pending notification, or ok=false when
	// none is queued.
	Poll() (n Notification, ok bool, err error)
}

// SurfaceSource gives the render thread access to window backing stores.
type SurfaceSource interface {
	ResolveSurface(window WindowID) (Surface, error)
	// ReadSurface returns the surface contents as tightly packed RGBA8.
	ReadSurface(s Surface) ([]byte, error)
	ReleaseSurface(s Surface)
}

// Backend abstracts the host window system.
type Backend interface {
	Source
	SurfaceSource

	// TopLevelWindows lists the currently known direct children of the root.
	TopLevelWindows() ([]WindowID, error)
	Geometry(window WindowID) (Geometry, error)
	WindowPID(window WindowID) (int, error)
	Children(window WindowID) ([]WindowID, error)
	// HostPID returns the PID of the window-manager host process.
	HostPID() (int, error)
	CursorImage() (CursorImage, error)
	Close()
}

// Display is one output of the host, in desktop coordinates.
type Display struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Bounds Rect   `json:"bounds"`
}

// DisplayLister is implemented by backends that can enumerate outputs.
type DisplayLister interface {
	Displays() ([]Display, error)
}
