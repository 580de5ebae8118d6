// Package ownership maps windows to the process that created them.
package ownership

import (
	"log/slog"

	"github.com/1broseidon/xveearr/internal/platform"
)

// Host is the part of a window system the resolver needs.
type Host interface {
	WindowPID(platform.WindowID) (int, error)
	Children(platform.WindowID) ([]platform.WindowID, error)
}

// maxDepth bounds recursion into host-owned wrapper windows.
const maxDepth = 8

// Resolver resolves window owners, skipping through windows owned by the
// window manager and hiding windows owned by this process.
type Resolver struct {
	host    Host
	hostPID int
	ownPID  int
	logger  *slog.Logger
}

// NewResolver creates a resolver. hostPID is the window manager's PID, or 0
// when it is unknown; ownPID is the PID whose windows resolve to zero.
func NewResolver(host Host, hostPID, ownPID int, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{host: host, hostPID: hostPID, ownPID: ownPID, logger: logger}
}

// HostPID returns the window manager PID the resolver skips through.
func (r *Resolver) HostPID() int { return r.hostPID }

// OwnPID returns the PID treated as this process.
func (r *Resolver) OwnPID() int { return r.ownPID }

// Resolve returns the PID owning w, or zero if it cannot be determined or
// the only owner found is this process.
func (r *Resolver) Resolve(w platform.WindowID) int {
	pid := r.resolve(w, 0)
	if pid == r.ownPID {
		return 0
	}
	return pid
}

func (r *Resolver) resolve(w platform.WindowID, depth int) int {
	pid, err := r.host.WindowPID(w)
	if err != nil {
		r.logger.Debug("window pid lookup failed", "window", w, "error", err)
		return 0
	}
	if r.hostPID != 0 && pid == r.hostPID {
		return r.fromChildren(w, depth)
	}
	return pid
}

func (r *Resolver) fromChildren(w platform.WindowID, depth int) int {
	if depth >= maxDepth {
		return 0
	}
	children, err := r.host.Children(w)
	if err != nil {
		r.logger.Debug("window children lookup failed", "window", w, "error", err)
		return 0
	}
	for _, c := range children {
		if pid := r.resolve(c, depth+1); pid != 0 && pid != r.ownPID {
			return pid
		}
	}
	return 0
}
