package daemon

import (
	"context"
	"log/slog"
	"runtime"
	"time"
)

// Renderer is the render-thread side of the binding channel.
type Renderer interface {
	BeginRender()
	EndRender()
	Shutdown()
}

// HeadlessRenderer drives a Renderer without drawing anything, for the
// headless renderer and for tests.
type HeadlessRenderer struct {
	interval time.Duration
	binder   Renderer
	logger   *slog.Logger
	// OnFrame runs between BeginRender and EndRender.
	OnFrame func()
}

// NewHeadlessRenderer creates a render loop ticking every interval.
func NewHeadlessRenderer(binder Renderer, interval time.Duration, logger *slog.Logger) *HeadlessRenderer {
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HeadlessRenderer{interval: interval, binder: binder, logger: logger}
}

// Run renders frames on a locked OS thread until ctx is cancelled, then
// shuts the binder down on the same thread.
func (r *HeadlessRenderer) Run(ctx context.Context) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer r.binder.Shutdown()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("headless renderer started", "interval", r.interval)
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("headless renderer stopped")
			return
		case <-ticker.C:
			r.Frame()
		}
	}
}

// Frame renders one frame.
func (r *HeadlessRenderer) Frame() {
	r.binder.BeginRender()
	if r.OnFrame != nil {
		r.OnFrame()
	}
	r.binder.EndRender()
}
