package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/composite"
	"github.com/BurntSushi/xgb/xproto"
)

// redirect sends every child of root to offscreen storage and selects
// SubstructureNotify on root. The server is grabbed so no window can be
// mapped between the two steps without being seen.
func (c *Connection) redirect() error {
	conn := c.Conn()
	if err := xproto.GrabServerChecked(conn).Check(); err != nil {
		return fmt.Errorf("failed to grab server: %w", err)
	}
	defer xproto.UngrabServer(conn)

	if err := composite.RedirectSubwindowsChecked(conn, c.Root, composite.RedirectAutomatic).Check(); err != nil {
		return fmt.Errorf("failed to redirect root subwindows: %w", err)
	}

	mask := []uint32{xproto.EventMaskSubstructureNotify}
	if err := xproto.ChangeWindowAttributesChecked(conn, c.Root, xproto.CwEventMask, mask).Check(); err != nil {
		return fmt.Errorf("failed to select structure events on root: %w", err)
	}
	return nil
}

// Pixmap is a named composite backing pixmap of a window.
type Pixmap struct {
	ID            xproto.Pixmap
	Window        xproto.Window
	Width, Height int
	Depth         int
}

// NameWindowPixmap names the current offscreen storage of w. The pixmap keeps
// the size the window had when it was named; a resized window needs a new
// one.
func (c *Connection) NameWindowPixmap(w xproto.Window) (Pixmap, error) {
	conn := c.Conn()
	geom, err := xproto.GetGeometry(conn, xproto.Drawable(w)).Reply()
	if err != nil {
		return Pixmap{}, fmt.Errorf("failed to get geometry of window %d: %w", w, err)
	}

	id, err := xproto.NewPixmapId(conn)
	if err != nil {
		return Pixmap{}, fmt.Errorf("failed to allocate pixmap id: %w", err)
	}
	if err := composite.NameWindowPixmapChecked(conn, w, id).Check(); err != nil {
		return Pixmap{}, fmt.Errorf("failed to name pixmap of window %d: %w", w, err)
	}

	// Redirected storage includes the border.
	border := 2 * int(geom.BorderWidth)
	return Pixmap{
		ID:     id,
		Window: w,
		Width:  int(geom.Width) + border,
		Height: int(geom.Height) + border,
		Depth:  int(geom.Depth),
	}, nil
}

// ReadPixmap copies the contents of p in ZPixmap format. On little-endian
// servers each pixel is four bytes, B G R X.
func (c *Connection) ReadPixmap(p Pixmap) ([]byte, error) {
	reply, err := xproto.GetImage(c.Conn(), xproto.ImageFormatZPixmap, xproto.Drawable(p.ID),
		0, 0, uint16(p.Width), uint16(p.Height), ^uint32(0)).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to read pixmap %d: %w", p.ID, err)
	}
	return reply.Data, nil
}

// FreePixmap releases a named pixmap.
func (c *Connection) FreePixmap(p Pixmap) {
	xproto.FreePixmap(c.Conn(), p.ID)
}
