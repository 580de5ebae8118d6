package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xfixes"
)

func (c *Connection) selectCursorInput() error {
	err := xfixes.SelectCursorInputChecked(c.Conn(), c.Root, xfixes.CursorNotifyMaskDisplayCursor).Check()
	if err != nil {
		return fmt.Errorf("failed to select cursor notifications: %w", err)
	}
	return nil
}

// Cursor is the currently displayed pointer image. Pixels are ARGB, one
// uint32 per pixel, row-major.
type Cursor struct {
	Serial        uint32
	X, Y          int
	Width, Height int
	XHot, YHot    int
	Pixels        []uint32
}

// CurrentCursor fetches the displayed pointer image.
func (c *Connection) CurrentCursor() (Cursor, error) {
	reply, err := xfixes.GetCursorImage(c.Conn()).Reply()
	if err != nil {
		return Cursor{}, fmt.Errorf("failed to get cursor image: %w", err)
	}
	return Cursor{
		Serial: reply.CursorSerial,
		X:      int(reply.X),
		Y:      int(reply.Y),
		Width:  int(reply.Width),
		Height: int(reply.Height),
		XHot:   int(reply.Xhot),
		YHot:   int(reply.Yhot),
		Pixels: reply.CursorImage,
	}, nil
}
