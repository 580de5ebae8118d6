package desktop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/1broseidon/xveearr/internal/binding"
	"github.com/1broseidon/xveearr/internal/cursor"
	"github.com/1broseidon/xveearr/internal/logging"
	"github.com/1broseidon/xveearr/internal/ownership"
	"github.com/1broseidon/xveearr/internal/platform"
	"github.com/1broseidon/xveearr/internal/texture"
)

// maxPerPass bounds how many notifications one pass consumes; the rest are
// left to the next pass.
const maxPerPass = 4096

// ErrNoWindowManager is returned when a window manager is required but the
// host does not report one.
var ErrNoWindowManager = errors.New("window manager host not found")

// Options configures an Environment.
type Options struct {
	Backend  platform.Backend
	Textures texture.Allocator
	Queue    *binding.Queue
	// OwnPID is the process whose windows are hidden. Zero means this
	// process.
	OwnPID int
	// InvertedY is reported in every WindowInfo; it is true when the
	// backend stores surfaces bottom-up.
	InvertedY            bool
	RequireWindowManager bool
	Logger               *slog.Logger
}

// Environment is the consumer side of the pipeline. PollEvent, WindowInfo and
// Close must be called from one goroutine; CursorInfo is safe anywhere.
type Environment struct {
	backend    platform.Backend
	resolver   *ownership.Resolver
	cursors    *cursor.Cache
	translator *translator
	coalescer  coalescer
	logger     *slog.Logger

	events []Event
	next   int
	closed bool
}

// New builds an environment on opts.Backend and seeds the first pass with
// every window already mapped.
func New(opts Options) (*Environment, error) {
	if opts.Backend == nil || opts.Textures == nil || opts.Queue == nil {
		return nil, errors.New("desktop environment needs a backend, a texture allocator and a queue")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	hostPID, err := opts.Backend.HostPID()
	if err != nil {
		if opts.RequireWindowManager {
			return nil, fmt.Errorf("%w: %v", ErrNoWindowManager, err)
		}
		logger.Warn("window manager host not resolved, no windows will be unwrapped", "error", err)
		hostPID = 0
	}
	if hostPID == 0 && opts.RequireWindowManager {
		return nil, ErrNoWindowManager
	}

	ownPID := opts.OwnPID
	if ownPID == 0 {
		ownPID = os.Getpid()
	}

	resolver := ownership.NewResolver(opts.Backend, hostPID, ownPID, logger)
	env := &Environment{
		backend:    opts.Backend,
		resolver:   resolver,
		cursors:    cursor.NewCache(opts.Backend, opts.Textures, logger),
		translator: newTranslator(resolver, opts.Backend, opts.Textures, opts.Queue, opts.InvertedY, logger),
		logger:     logger,
	}

	existing, err := opts.Backend.TopLevelWindows()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate windows: %w", err)
	}
	for _, w := range existing {
		env.coalescer.add(w)
	}
	logger.Debug("desktop environment ready", "host_pid", hostPID, "own_pid", ownPID, "existing_windows", len(existing))
	return env, nil
}

// PollEvent returns the next logical event. When the current batch is empty
// it runs one polling pass first; ok is false when that pass produced
// nothing.
func (e *Environment) PollEvent() (Event, bool) {
	if e.closed {
		return Event{}, false
	}
	if e.next == len(e.events) {
		e.events = e.events[:0]
		e.next = 0
		e.pass()
		if len(e.events) == 0 {
			return Event{}, false
		}
	}
	ev := e.events[e.next]
	e.events[e.next] = Event{}
	e.next++
	return ev, true
}

func (e *Environment) pass() {
	for i := 0; i < maxPerPass; i++ {
		n, ok, err := e.backend.Poll()
		if err != nil {
			e.logger.Debug("window system error", "error", err)
			continue
		}
		if !ok {
			break
		}
		e.ingest(n)
	}
	e.events = e.translator.translate(e.coalescer.take(), e.events)
}

func (e *Environment) ingest(n platform.Notification) {
	e.logger.Log(context.Background(), logging.LevelTrace, "notification",
		"kind", n.Kind.String(), "window", n.Window, "to_root", n.ToRoot, "serial", n.Serial)
	switch n.Kind {
	case platform.NotifyMapped:
		e.coalescer.add(n.Window)
	case platform.NotifyUnmapped:
		e.coalescer.remove(n.Window)
	case platform.NotifyReparented:
		if n.ToRoot {
			e.coalescer.add(n.Window)
		} else {
			e.coalescer.remove(n.Window)
		}
	case platform.NotifyConfigured:
		e.coalescer.update(n.Window, n.Bounds)
	case platform.NotifyCursorChanged:
		if err := e.cursors.Notify(n.Serial); err != nil {
			e.logger.Debug("cursor update failed", "serial", n.Serial, "error", err)
		}
	default:
		e.logger.Debug("unhandled notification", "kind", n.Kind.String(), "window", n.Window)
	}
}

// WindowInfo returns the table entry for w.
func (e *Environment) WindowInfo(w platform.WindowID) (WindowInfo, bool) {
	return e.translator.lookup(w)
}

// CursorInfo returns the displayed pointer, or an invalid Info if none has
// been resolved yet.
func (e *Environment) CursorInfo() cursor.Info {
	return e.cursors.Current()
}

// CachedCursors is the number of cursor images cached so far. It is safe to
// call from any goroutine.
func (e *Environment) CachedCursors() int { return e.cursors.Len() }

// HostPID is the window manager PID in use.
func (e *Environment) HostPID() int { return e.resolver.HostPID() }

// OwnPID is the PID whose windows are hidden.
func (e *Environment) OwnPID() int { return e.resolver.OwnPID() }

// Close destroys every window texture and cursor texture and closes the
// backend. Binder records must already be shut down.
func (e *Environment) Close() {
	if e.closed {
		return
	}
	e.closed = true
	e.translator.drop()
	e.cursors.Close()
	e.backend.Close()
}
