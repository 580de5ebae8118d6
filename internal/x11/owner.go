package x11

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb/res"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// ErrNoPID is returned when neither X-Resource nor _NET_WM_PID yields a PID.
var ErrNoPID = errors.New("window has no resolvable pid")

// WindowPID returns the PID of the client that created w. X-Resource is
// asked first because it works for windows that never set _NET_WM_PID.
func (c *Connection) WindowPID(w xproto.Window) (int, error) {
	if c.hasRes {
		if pid, ok := c.clientPID(w); ok {
			return pid, nil
		}
	}
	pid, err := ewmh.WmPidGet(c.XUtil, w)
	if err != nil {
		return 0, fmt.Errorf("%w: window %d: %v", ErrNoPID, w, err)
	}
	return int(pid), nil
}

func (c *Connection) clientPID(w xproto.Window) (int, bool) {
	spec := res.ClientIdSpec{Client: uint32(w), Mask: res.ClientIdMaskLocalClientPID}
	reply, err := res.QueryClientIds(c.Conn(), 1, []res.ClientIdSpec{spec}).Reply()
	if err != nil {
		return 0, false
	}
	for _, id := range reply.Ids {
		if id.Spec.Mask&res.ClientIdMaskLocalClientPID != 0 && len(id.Value) > 0 {
			return int(id.Value[0]), true
		}
	}
	return 0, false
}

// WindowManagerPID returns the PID of the EWMH window manager, read from the
// _NET_SUPPORTING_WM_CHECK window.
func (c *Connection) WindowManagerPID() (int, error) {
	check, err := ewmh.SupportingWmCheckGet(c.XUtil, c.Root)
	if err != nil {
		return 0, fmt.Errorf("failed to find window manager check window: %w", err)
	}
	pid, err := c.WindowPID(check)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve window manager pid: %w", err)
	}
	return pid, nil
}
