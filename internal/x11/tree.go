package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
)

// Geometry is the geometry and visibility of a window. Width and Height
// include the border, matching the redirected storage.
type Geometry struct {
	X, Y          int
	Width, Height int
	Depth         int
	Viewable      bool
	InputOnly     bool
}

// WindowGeometry queries geometry and attributes of w.
func (c *Connection) WindowGeometry(w xproto.Window) (Geometry, error) {
	conn := c.Conn()
	geomCookie := xproto.GetGeometry(conn, xproto.Drawable(w))
	attrCookie := xproto.GetWindowAttributes(conn, w)

	geom, err := geomCookie.Reply()
	if err != nil {
		return Geometry{}, fmt.Errorf("failed to get geometry of window %d: %w", w, err)
	}
	attrs, err := attrCookie.Reply()
	if err != nil {
		return Geometry{}, fmt.Errorf("failed to get attributes of window %d: %w", w, err)
	}
	border := 2 * int(geom.BorderWidth)
	return Geometry{
		X:         int(geom.X),
		Y:         int(geom.Y),
		Width:     int(geom.Width) + border,
		Height:    int(geom.Height) + border,
		Depth:     int(geom.Depth),
		Viewable:  attrs.MapState == xproto.MapStateViewable,
		InputOnly: attrs.Class == xproto.WindowClassInputOnly,
	}, nil
}

// Children returns the children of w in stacking order, bottom first.
func (c *Connection) Children(w xproto.Window) ([]xproto.Window, error) {
	tree, err := xproto.QueryTree(c.Conn(), w).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to query tree of window %d: %w", w, err)
	}
	return tree.Children, nil
}

// MappedTopLevels returns the viewable children of the root window.
func (c *Connection) MappedTopLevels() ([]xproto.Window, error) {
	children, err := c.Children(c.Root)
	if err != nil {
		return nil, err
	}
	conn := c.Conn()
	cookies := make([]xproto.GetWindowAttributesCookie, len(children))
	for i, w := range children {
		cookies[i] = xproto.GetWindowAttributes(conn, w)
	}
	mapped := make([]xproto.Window, 0, len(children))
	for i, cookie := range cookies {
		attrs, err := cookie.Reply()
		if err != nil {
			// Destroyed since QueryTree.
			continue
		}
		if attrs.MapState == xproto.MapStateViewable {
			mapped = append(mapped, children[i])
		}
	}
	return mapped, nil
}
