package desktop

import (
	"log/slog"

	"github.com/1broseidon/xveearr/internal/binding"
	"github.com/1broseidon/xveearr/internal/platform"
	"github.com/1broseidon/xveearr/internal/texture"
)

// Owners resolves the owning process of a window; zero rejects it.
type Owners interface {
	Resolve(platform.WindowID) int
}

// Geometries reports window geometry.
type Geometries interface {
	Geometry(platform.WindowID) (platform.Geometry, error)
}

// translator owns the window table. It runs on the event goroutine only.
type translator struct {
	owners    Owners
	geoms     Geometries
	textures  texture.Allocator
	queue     *binding.Queue
	invertedY bool
	logger    *slog.Logger

	table map[platform.WindowID]WindowInfo
}

func newTranslator(owners Owners, geoms Geometries, textures texture.Allocator, queue *binding.Queue, invertedY bool, logger *slog.Logger) *translator {
	return &translator{
		owners:    owners,
		geoms:     geoms,
		textures:  textures,
		queue:     queue,
		invertedY: invertedY,
		logger:    logger,
		table:     make(map[platform.WindowID]WindowInfo),
	}
}

// translate applies a pass of coalesced events to the table and appends the
// resulting logical events to out.
func (t *translator) translate(in []pending, out []Event) []Event {
	for _, p := range in {
		var (
			ev Event
			ok bool
		)
		switch p.kind {
		case Added:
			ev, ok = t.added(p)
		case Removed:
			ev, ok = t.removed(p)
		case Updated:
			ev, ok = t.updated(p)
		}
		if ok {
			out = append(out, ev)
		}
	}
	return out
}

func (t *translator) added(p pending) (Event, bool) {
	if _, known := t.table[p.window]; known {
		t.logger.Debug("duplicate add ignored", "window", p.window)
		return Event{}, false
	}

	pid := t.owners.Resolve(p.window)
	if pid == 0 {
		t.logger.Debug("window rejected, no foreign owner", "window", p.window)
		return Event{}, false
	}

	geom, err := t.geoms.Geometry(p.window)
	if err != nil {
		t.logger.Debug("window rejected, geometry unavailable", "window", p.window, "error", err)
		return Event{}, false
	}
	if geom.Depth == 0 || geom.InputOnly || !geom.Viewable {
		t.logger.Debug("window rejected, not displayable", "window", p.window,
			"depth", geom.Depth, "input_only", geom.InputOnly, "viewable", geom.Viewable)
		return Event{}, false
	}

	h, err := t.textures.Create(1, 1, nil)
	if err != nil {
		t.logger.Error("failed to allocate window texture", "window", p.window, "error", err)
		return Event{}, false
	}

	info := WindowInfo{
		Texture:   h,
		InvertedY: t.invertedY,
		PID:       pid,
		Bounds:    geom.Bounds,
	}
	t.table[p.window] = info
	t.queue.Push(binding.BindRequest(h, p.window))
	return Event{Type: Added, Window: p.window, Info: info}, true
}

func (t *translator) updated(p pending) (Event, bool) {
	info, known := t.table[p.window]
	if !known {
		t.logger.Debug("update for unknown window ignored", "window", p.window)
		return Event{}, false
	}
	if p.hasBounds {
		if !info.Bounds.SameSize(p.bounds) {
			t.queue.Push(binding.RebindRequest(info.Texture))
		}
		info.Bounds = p.bounds
		t.table[p.window] = info
	}
	return Event{Type: Updated, Window: p.window, Info: info}, true
}

func (t *translator) removed(p pending) (Event, bool) {
	info, known := t.table[p.window]
	if !known {
		t.logger.Debug("remove for unknown window ignored", "window", p.window)
		return Event{}, false
	}
	t.queue.Push(binding.UnbindRequest(info.Texture))
	t.textures.Destroy(info.Texture)
	delete(t.table, p.window)
	return Event{Type: Removed, Window: p.window}, true
}

func (t *translator) lookup(w platform.WindowID) (WindowInfo, bool) {
	info, ok := t.table[w]
	return info, ok
}

// drop releases every table entry without emitting events.
func (t *translator) drop() {
	for w, info := range t.table {
		t.textures.Destroy(info.Texture)
		delete(t.table, w)
	}
}
