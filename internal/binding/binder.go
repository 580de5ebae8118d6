package binding

import (
	"log/slog"
	"sync/atomic"

	"github.com/1broseidon/xveearr/internal/platform"
	"github.com/1broseidon/xveearr/internal/texture"
)

// Record is the render-thread state behind one bound backend handle.
type Record struct {
	Handle   texture.Handle
	Window   platform.WindowID
	Surface  platform.Surface
	Resource texture.Resource
}

func (r *Record) hasSurface() bool {
	return r.Surface.ID != 0
}

// Stats is a snapshot of binder state published at the end of each render
// call. It is safe to read from any goroutine.
type Stats struct {
	Bound    int    `json:"bound"`
	Deferred int    `json:"deferred"`
	Frames   uint64 `json:"frames"`
}

// BinderConfig holds the collaborators of a Binder.
type BinderConfig struct {
	Queue    *Queue
	Surfaces platform.SurfaceSource
	Device   texture.Device
	// RefreshEvery copies surface contents into bound resources every N
	// render cycles. Zero disables refreshing after the initial attach.
	RefreshEvery int
	Logger       *slog.Logger
}

// Binder executes binding requests. Every method must be called from the
// render thread.
type Binder struct {
	queue        *Queue
	surfaces     platform.SurfaceSource
	device       texture.Device
	refreshEvery int
	logger       *slog.Logger

	records  map[texture.Handle]*Record
	deferred []Request
	// pendingBinds counts deferred Bind requests per handle; later requests
	// for such a handle are deferred behind them.
	pendingBinds map[texture.Handle]int
	frame        int
	closed       bool

	bound         atomic.Int64
	deferredCount atomic.Int64
	frames        atomic.Uint64
}

// NewBinder creates a binder draining cfg.Queue.
func NewBinder(cfg BinderConfig) *Binder {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Binder{
		queue:        cfg.Queue,
		surfaces:     cfg.Surfaces,
		device:       cfg.Device,
		refreshEvery: cfg.RefreshEvery,
		logger:       logger,
		records:      make(map[texture.Handle]*Record),
		pendingBinds: make(map[texture.Handle]int),
	}
}

// BeginRender drains the queue. Unbind and Rebind run immediately; Bind is
// deferred to EndRender so the host has settled the new window by then.
func (b *Binder) BeginRender() {
	if b.closed {
		return
	}
	defer b.publish()
	for {
		req, ok := b.queue.Pop()
		if !ok {
			return
		}
		switch {
		case req.Kind == Bind:
			b.deferred = append(b.deferred, req)
			b.pendingBinds[req.Handle]++
		case b.pendingBinds[req.Handle] > 0:
			b.deferred = append(b.deferred, req)
		default:
			b.execute(req)
		}
	}
}

// EndRender runs the requests deferred by BeginRender, then refreshes bound
// resources from their surfaces.
func (b *Binder) EndRender() {
	if b.closed {
		return
	}
	for i, req := range b.deferred {
		b.execute(req)
		b.deferred[i] = Request{}
	}
	b.deferred = b.deferred[:0]
	clear(b.pendingBinds)

	b.frame++
	if b.refreshEvery > 0 && b.frame%b.refreshEvery == 0 {
		b.refresh()
	}
	b.frames.Add(1)
	b.publish()
}

// Shutdown discards queued and deferred work and releases every record
// exactly once. Later calls do nothing.
func (b *Binder) Shutdown() {
	if b.closed {
		return
	}
	b.closed = true

	dropped := b.queue.Discard() + len(b.deferred)
	b.deferred = nil
	clear(b.pendingBinds)

	released := len(b.records)
	for h, rec := range b.records {
		b.release(rec)
		delete(b.records, h)
	}
	b.publish()
	b.logger.Debug("binder shut down", "dropped_requests", dropped, "released_records", released)
}

// Stats returns the state published by the last render call.
func (b *Binder) Stats() Stats {
	return Stats{
		Bound:    int(b.bound.Load()),
		Deferred: int(b.deferredCount.Load()),
		Frames:   b.frames.Load(),
	}
}

func (b *Binder) publish() {
	b.bound.Store(int64(len(b.records)))
	b.deferredCount.Store(int64(len(b.deferred)))
}

func (b *Binder) record(h texture.Handle) (Record, bool) {
	rec, ok := b.records[h]
	if !ok {
		return Record{}, false
	}
	return *rec, true
}


func (b *Binder) execute(req Request) {
	switch req.Kind {
	case Bind:
		b.bind(req.Handle, req.Window)
	case Rebind:
		b.rebind(req.Handle)
	case Unbind:
		b.unbind(req.Handle)
	default:
		b.logger.Error("unknown binding request", "request", req.String())
	}
}

func (b *Binder) bind(h texture.Handle, w platform.WindowID) {
	if _, exists := b.records[h]; exists {
		b.logger.Debug("bind for already bound handle ignored", "handle", h, "window", w)
		return
	}

	surface, err := b.surfaces.ResolveSurface(w)
	if err != nil {
		// The window went away before the bind ran; a later Unbind finds no
		// record and does nothing.
		b.logger.Debug("bind skipped, surface unavailable", "handle", h, "window", w, "error", err)
		return
	}

	res, err := b.attach(surface)
	if err != nil {
		b.surfaces.ReleaseSurface(surface)
		b.logger.Error("bind failed", "handle", h, "window", w, "error", err)
		return
	}

	b.records[h] = &Record{Handle: h, Window: w, Surface: surface, Resource: res}
	b.device.Install(h, res)
	b.logger.Debug("bound window texture", "handle", h, "window", w,
		"width", surface.Width, "height", surface.Height)
}

func (b *Binder) rebind(h texture.Handle) {
	rec, ok := b.records[h]
	if !ok {
		return
	}

	if rec.hasSurface() {
		b.surfaces.ReleaseSurface(rec.Surface)
		rec.Surface = platform.Surface{}
	}

	surface, err := b.surfaces.ResolveSurface(rec.Window)
	if err != nil {
		// Keep the stale resource installed until the matching Unbind.
		b.logger.Debug("rebind skipped, surface unavailable", "handle", h, "window", rec.Window, "error", err)
		return
	}

	res, err := b.attach(surface)
	if err != nil {
		b.surfaces.ReleaseSurface(surface)
		b.logger.Error("rebind failed", "handle", h, "window", rec.Window, "error", err)
		return
	}

	old := rec.Resource
	rec.Surface = surface
	rec.Resource = res
	b.device.Install(h, res)
	if old != nil {
		b.device.ReleaseResource(old)
	}
	b.logger.Debug("rebound window texture", "handle", h, "window", rec.Window,
		"width", surface.Width, "height", surface.Height)
}

func (b *Binder) unbind(h texture.Handle) {
	rec, ok := b.records[h]
	if !ok {
		return
	}
	b.release(rec)
	delete(b.records, h)
	b.logger.Debug("unbound window texture", "handle", h, "window", rec.Window)
}

// attach creates a resource sized to surface and fills it.
func (b *Binder) attach(surface platform.Surface) (texture.Resource, error) {
	res, err := b.device.NewResource(surface.Width, surface.Height)
	if err != nil {
		return nil, err
	}
	pix, err := b.surfaces.ReadSurface(surface)
	if err == nil {
		err = b.device.Upload(res, pix)
	}
	if err != nil {
		b.device.ReleaseResource(res)
		return nil, err
	}
	return res, nil
}

func (b *Binder) release(rec *Record) {
	b.device.Uninstall(rec.Handle)
	if rec.Resource != nil {
		b.device.ReleaseResource(rec.Resource)
		rec.Resource = nil
	}
	if rec.hasSurface() {
		b.surfaces.ReleaseSurface(rec.Surface)
		rec.Surface = platform.Surface{}
	}
}

func (b *Binder) refresh() {
	for h, rec := range b.records {
		if !rec.hasSurface() || rec.Resource == nil {
			continue
		}
		pix, err := b.surfaces.ReadSurface(rec.Surface)
		if err != nil {
			b.logger.Debug("surface refresh failed", "handle", h, "window", rec.Window, "error", err)
			continue
		}
		if err := b.device.Upload(rec.Resource, pix); err != nil {
			b.logger.Debug("resource upload failed", "handle", h, "window", rec.Window, "error", err)
		}
	}
}
