//go:build linux

package platform

import (
	"fmt"
	"sync"

	"github.com/BurntSushi/xgb/xfixes"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/xveearr/internal/texture"
	"github.com/1broseidon/xveearr/internal/x11"
)

// LinuxBackend is the X11 window system: Composite-redirected top-level
// windows, XFixes cursor tracking and X-Resource owner lookup.
type LinuxBackend struct {
	conn *x11.Connection

	// pixmaps maps Surface IDs to named pixmaps. Surfaces are resolved and
	// read on the render thread while the event thread polls.
	mu      sync.Mutex
	pixmaps map[uint32]x11.Pixmap
}

var (
	_ Backend       = (*LinuxBackend)(nil)
	_ DisplayLister = (*LinuxBackend)(nil)
)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn, pixmaps: make(map[uint32]x11.Pixmap)}
}

// NewX11Backend is a Factory for the x11 window system.
func NewX11Backend(opts Options) (Backend, error) {
	conn, err := x11.NewConnection(opts.Display, opts.Logger)
	if err != nil {
		return nil, err
	}
	return NewLinuxBackend(conn), nil
}

// Poll converts the next X event into a Notification. Events that carry no
// window lifecycle information are consumed and reported as not ok only when
// the queue is empty.
func (b *LinuxBackend) Poll() (Notification, bool, error) {
	for {
		ev, err := b.conn.Poll()
		if err != nil {
			return Notification{}, true, err
		}
		if ev == nil {
			return Notification{}, false, nil
		}
		if n, ok := b.convert(ev); ok {
			return n, true, nil
		}
	}
}

func (b *LinuxBackend) convert(ev any) (Notification, bool) {
	root := b.conn.Root
	switch e := ev.(type) {
	case xproto.MapNotifyEvent:
		if e.Event != root {
			return Notification{}, false
		}
		return Notification{Kind: NotifyMapped, Window: WindowID(e.Window)}, true
	case xproto.UnmapNotifyEvent:
		if e.Event != root {
			return Notification{}, false
		}
		return Notification{Kind: NotifyUnmapped, Window: WindowID(e.Window)}, true
	case xproto.DestroyNotifyEvent:
		if e.Event != root {
			return Notification{}, false
		}
		return Notification{Kind: NotifyUnmapped, Window: WindowID(e.Window)}, true
	case xproto.ReparentNotifyEvent:
		if e.Event != root {
			return Notification{}, false
		}
		return Notification{Kind: NotifyReparented, Window: WindowID(e.Window), ToRoot: e.Parent == root}, true
	case xproto.ConfigureNotifyEvent:
		if e.Event != root {
			return Notification{}, false
		}
		border := 2 * int(e.BorderWidth)
		return Notification{
			Kind:   NotifyConfigured,
			Window: WindowID(e.Window),
			Bounds: Rect{
				X:      int(e.X),
				Y:      int(e.Y),
				Width:  int(e.Width) + border,
				Height: int(e.Height) + border,
			},
		}, true
	case xfixes.CursorNotifyEvent:
		return Notification{Kind: NotifyCursorChanged, Serial: e.CursorSerial}, true
	}
	return Notification{}, false
}

func (b *LinuxBackend) TopLevelWindows() ([]WindowID, error) {
	wins, err := b.conn.MappedTopLevels()
	if err != nil {
		return nil, err
	}
	ids := make([]WindowID, len(wins))
	for i, w := range wins {
		ids[i] = WindowID(w)
	}
	return ids, nil
}

func (b *LinuxBackend) Geometry(id WindowID) (Geometry, error) {
	g, err := b.conn.WindowGeometry(xproto.Window(id))
	if err != nil {
		return Geometry{}, err
	}
	return Geometry{
		Bounds:    Rect{X: g.X, Y: g.Y, Width: g.Width, Height: g.Height},
		Depth:     g.Depth,
		Viewable:  g.Viewable,
		InputOnly: g.InputOnly,
	}, nil
}

// Displays lists the RandR outputs.
func (b *LinuxBackend) Displays() ([]Display, error) {
	outputs, err := b.conn.Outputs()
	if err != nil {
		return nil, err
	}
	displays := make([]Display, len(outputs))
	for i, o := range outputs {
		displays[i] = Display{
			ID:     o.ID,
			Name:   o.Name,
			Bounds: Rect{X: o.X, Y: o.Y, Width: o.Width, Height: o.Height},
		}
	}
	return displays, nil
}

func (b *LinuxBackend) WindowPID(id WindowID) (int, error) {
	return b.conn.WindowPID(xproto.Window(id))
}

func (b *LinuxBackend) Children(id WindowID) ([]WindowID, error) {
	wins, err := b.conn.Children(xproto.Window(id))
	if err != nil {
		return nil, err
	}
	ids := make([]WindowID, len(wins))
	for i, w := range wins {
		ids[i] = WindowID(w)
	}
	return ids, nil
}

func (b *LinuxBackend) HostPID() (int, error) {
	return b.conn.WindowManagerPID()
}

func (b *LinuxBackend) CursorImage() (CursorImage, error) {
	cur, err := b.conn.CurrentCursor()
	if err != nil {
		return CursorImage{}, err
	}
	return CursorImage{
		Serial: cur.Serial,
		X:      cur.X,
		Y:      cur.Y,
		Width:  cur.Width,
		Height: cur.Height,
		XHot:   cur.XHot,
		YHot:   cur.YHot,
		Pixels: cur.Pixels,
	}, nil
}

func (b *LinuxBackend) ResolveSurface(id WindowID) (Surface, error) {
	p, err := b.conn.NameWindowPixmap(xproto.Window(id))
	if err != nil {
		return Surface{}, err
	}
	if p.Width == 0 || p.Height == 0 {
		b.conn.FreePixmap(p)
		return Surface{}, fmt.Errorf("window %d has an empty surface", id)
	}
	b.mu.Lock()
	b.pixmaps[uint32(p.ID)] = p
	b.mu.Unlock()
	return Surface{
		ID:     uint32(p.ID),
		Window: id,
		Width:  p.Width,
		Height: p.Height,
		Depth:  p.Depth,
	}, nil
}

func (b *LinuxBackend) ReadSurface(s Surface) ([]byte, error) {
	b.mu.Lock()
	p, ok := b.pixmaps[s.ID]
	b.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("read surface %d: %w", s.ID, ErrUnknownWindow)
	}
	data, err := b.conn.ReadPixmap(p)
	if err != nil {
		return nil, err
	}
	return texture.BGRXToRGBA(data, p.Width, p.Height, p.Depth != 32)
}

func (b *LinuxBackend) ReleaseSurface(s Surface) {
	b.mu.Lock()
	p, ok := b.pixmaps[s.ID]
	delete(b.pixmaps, s.ID)
	b.mu.Unlock()
	if ok {
		b.conn.FreePixmap(p)
	}
}

// Close frees outstanding pixmaps and disconnects from the X11 server.
func (b *LinuxBackend) Close() {
	if b == nil || b.conn == nil {
		return
	}
	b.mu.Lock()
	for id, p := range b.pixmaps {
		b.conn.FreePixmap(p)
		delete(b.pixmaps, id)
	}
	b.mu.Unlock()
	b.conn.Close()
}
