package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/1broseidon/xveearr/internal/cursor"
	"github.com/1broseidon/xveearr/internal/desktop"
)

// EventSource is the pull side of the desktop environment.
type EventSource interface {
	PollEvent() (desktop.Event, bool)
	CursorInfo() cursor.Info
}

// PumpConfig holds configuration for the pump.
type PumpConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Pump drains the environment into a scene on a fixed interval. It is the
// only goroutine touching the environment.
type Pump struct {
	interval time.Duration
	source   EventSource
	scene    *Scene
	logger   *slog.Logger
}

// NewPump creates a pump feeding scene from source.
func NewPump(cfg PumpConfig, source EventSource, scene *Scene) *Pump {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 5 * time.Millisecond
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pump{
		interval: interval,
		source:   source,
		scene:    scene,
		logger:   logger,
	}
}

// Run starts the pump loop. Blocks until context is cancelled.
func (p *Pump) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Info("event pump started", "interval", p.interval)

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("event pump stopped")
			return
		case <-ticker.C:
			p.PumpNow()
		}
	}
}

// PumpNow drains every pending event into the scene and returns how many
// were applied.
func (p *Pump) PumpNow() (n int) {
	defer func() {
		if err := recover(); err != nil {
			p.logger.Error("event pump panic recovered", "error", err)
		}
	}()

	for {
		ev, ok := p.source.PollEvent()
		if !ok {
			break
		}
		p.logger.Debug("window event", "event", ev.String())
		p.scene.Apply(ev)
		n++
	}
	p.scene.SetCursor(p.source.CursorInfo())
	return n
}
