package x11

import (
	"fmt"
	"log/slog"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/composite"
	"github.com/BurntSushi/xgb/res"
	"github.com/BurntSushi/xgb/xfixes"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// Connection manages the X11 connection, the extensions the compositor needs
// and the redirection of top-level windows.
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window

	// hasRes is set when X-Resource 1.2 is available for PID lookups.
	hasRes bool
	logger *slog.Logger
}

// NewConnection connects to display (empty means $DISPLAY), initializes
// Composite and XFixes, redirects every child of the root window offscreen
// and subscribes to structure and cursor notifications.
func NewConnection(display string, logger *slog.Logger) (*Connection, error) {
	if logger == nil {
		logger = slog.Default()
	}
	xu, err := xgbutil.NewConnDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X display %q: %w", display, err)
	}
	c := &Connection{XUtil: xu, Root: xu.RootWin(), logger: logger}

	if err := c.initExtensions(); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.redirect(); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.selectCursorInput(); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// Conn returns the raw protocol connection.
func (c *Connection) Conn() *xgb.Conn {
	return c.XUtil.Conn()
}

func (c *Connection) initExtensions() error {
	conn := c.Conn()

	if err := composite.Init(conn); err != nil {
		return fmt.Errorf("failed to initialize Composite extension: %w", err)
	}
	if _, err := composite.QueryVersion(conn, 0, 4).Reply(); err != nil {
		return fmt.Errorf("failed to query Composite version: %w", err)
	}

	if err := xfixes.Init(conn); err != nil {
		return fmt.Errorf("failed to initialize XFixes extension: %w", err)
	}
	// XFixes refuses every other request until the version is negotiated.
	if _, err := xfixes.QueryVersion(conn, 5, 0).Reply(); err != nil {
		return fmt.Errorf("failed to query XFixes version: %w", err)
	}

	if err := res.Init(conn); err != nil {
		c.logger.Debug("X-Resource unavailable, falling back to _NET_WM_PID", "error", err)
		return nil
	}
	v, err := res.QueryVersion(conn, 1, 2).Reply()
	if err != nil {
		c.logger.Debug("X-Resource version query failed", "error", err)
		return nil
	}
	c.hasRes = v.ServerMajor > 1 || (v.ServerMajor == 1 && v.ServerMinor >= 2)
	return nil
}

// Poll returns the next queued event without blocking. Both results are nil
// when nothing is queued.
func (c *Connection) Poll() (xgb.Event, error) {
	ev, xerr := c.Conn().PollForEvent()
	if xerr != nil {
		return nil, xerr
	}
	return ev, nil
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}
