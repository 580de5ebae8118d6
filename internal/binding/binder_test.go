package binding

import (
	"testing"

	"github.com/1broseidon/xveearr/internal/platform"
	"github.com/1broseidon/xveearr/internal/texture"
)

type binderFixture struct {
	host   *platform.Memory
	tex    *texture.Memory
	queue  *Queue
	binder *Binder
}

func newBinderFixture(t *testing.T, refreshEvery int) *binderFixture {
	t.Helper()
	host := platform.NewMemory(0)
	tex := texture.NewMemory()
	q := NewQueue()
	return &binderFixture{
		host:  host,
		tex:   tex,
		queue: q,
		binder: NewBinder(BinderConfig{
			Queue:        q,
			Surfaces:     host,
			Device:       tex,
			RefreshEvery: refreshEvery,
		}),
	}
}

func (f *binderFixture) handle(t *testing.T) texture.Handle {
	t.Helper()
	h, err := f.tex.Create(1, 1, nil)
	if err != nil {
		t.Fatalf("create handle: %v", err)
	}
	return h
}

func (f *binderFixture) frame() {
	f.binder.BeginRender()
	f.binder.EndRender()
}

func TestQueue_FIFO(t *testing.T) {
	q := NewQueue()
	q.Push(BindRequest(1, 10))
	q.Push(RebindRequest(1))
	q.Push(UnbindRequest(1))

	if got := len(q.snapshot()); got != 3 {
		t.Fatalf("snapshot len = %d, want 3", got)
	}
	if q.Len() != 3 {
		t.Fatalf("records = %d after snapshot, want 3", q.Len())
	}

	want := []Kind{Bind, Rebind, Unbind}
	for i, k := range want {
		r, ok := q.Pop()
		if !ok {
			t.Fatalf("Pop %d: queue empty", i)
		}
		if r.Kind != k {
			t.Fatalf("Pop %d = %s, want %s", i, r.Kind, k)
		}
	}
	if _, ok := q.Pop(); ok {
		t.Fatal("expected empty queue")
	}
}

func TestQueue_Discard(t *testing.T) {
	q := NewQueue()
	q.Push(BindRequest(1, 10))
	q.Push(UnbindRequest(1))
	if n := q.Discard(); n != 2 {
		t.Fatalf("Discard = %d, want 2", n)
	}
	if q.Len() != 0 {
		t.Fatalf("records = %d after Discard, want 0", q.Len())
	}
}

func TestBinder_BindDeferredToEndRender(t *testing.T) {
	f := newBinderFixture(t, 0)
	f.host.Map(10, platform.Rect{Width: 4, Height: 2}, 42)
	h := f.handle(t)

	f.queue.Push(BindRequest(h, 10))
	f.binder.BeginRender()
	if len(f.binder.records) != 0 {
		t.Fatal("bind must not run at BeginRender")
	}
	if len(f.binder.deferred) != 1 {
		t.Fatalf("Deferred = %d, want 1", len(f.binder.deferred))
	}

	f.binder.EndRender()
	rec, ok := f.binder.record(h)
	if !ok {
		t.Fatal("expected record after EndRender")
	}
	if rec.Window != 10 || rec.Surface.Width != 4 || rec.Surface.Height != 2 {
		t.Fatalf("unexpected record %+v", rec)
	}
	res, ok := f.tex.Installed(h)
	if !ok {
		t.Fatal("expected resource installed under handle")
	}
	if w, hgt := res.Size(); w != 4 || hgt != 2 {
		t.Fatalf("installed resource is %dx%d, want 4x2", w, hgt)
	}
	if len(res.Pixels()) != 4*4*2 {
		t.Fatalf("initial upload is %d bytes, want %d", len(res.Pixels()), 4*4*2)
	}
	if len(f.binder.deferred) != 0 {
		t.Fatalf("Deferred = %d after EndRender, want 0", len(f.binder.deferred))
	}
}

func TestBinder_UnbindAndRebindWithoutRecordAreNoops(t *testing.T) {
	f := newBinderFixture(t, 0)
	f.queue.Push(UnbindRequest(7))
	f.queue.Push(RebindRequest(8))
	f.frame()

	if len(f.binder.records) != 0 {
		t.Fatalf("records = %d, want 0", len(f.binder.records))
	}
	if f.tex.LiveResources() != 0 || f.host.LiveSurfaces() != 0 {
		t.Fatal("no-op requests must not acquire resources")
	}
}

func TestBinder_UnbindBehindPendingBindKeepsOrder(t *testing.T) {
	f := newBinderFixture(t, 0)
	f.host.Map(10, platform.Rect{Width: 2, Height: 2}, 42)
	h := f.handle(t)

	f.queue.Push(BindRequest(h, 10))
	f.queue.Push(UnbindRequest(h))
	f.binder.BeginRender()
	if len(f.binder.deferred) != 2 {
		t.Fatalf("Deferred = %d, want 2", len(f.binder.deferred))
	}
	f.binder.EndRender()

	if len(f.binder.records) != 0 {
		t.Fatal("unbind queued after bind must remove the record")
	}
	if f.tex.LiveResources() != 0 {
		t.Fatalf("LiveResources = %d, want 0", f.tex.LiveResources())
	}
	if f.host.LiveSurfaces() != 0 {
		t.Fatalf("LiveSurfaces = %d, want 0", f.host.LiveSurfaces())
	}
	if _, ok := f.tex.Installed(h); ok {
		t.Fatal("handle still redirected after unbind")
	}
}

func TestBinder_UnbindOtherHandleRunsImmediately(t *testing.T) {
	f := newBinderFixture(t, 0)
	f.host.Map(10, platform.Rect{Width: 2, Height: 2}, 42)
	f.host.Map(11, platform.Rect{Width: 2, Height: 2}, 42)
	a, b := f.handle(t), f.handle(t)

	f.queue.Push(BindRequest(a, 10))
	f.frame()

	f.queue.Push(BindRequest(b, 11))
	f.queue.Push(UnbindRequest(a))
	f.binder.BeginRender()
	if _, ok := f.binder.record(a); ok {
		t.Fatal("unbind for a bound handle must run at BeginRender")
	}
	if len(f.binder.deferred) != 1 {
		t.Fatalf("Deferred = %d, want 1", len(f.binder.deferred))
	}
	f.binder.EndRender()
	if _, ok := f.binder.record(b); !ok {
		t.Fatal("expected record for second handle")
	}
}

func TestBinder_BindFailureIsIgnored(t *testing.T) {
	f := newBinderFixture(t, 0)
	h := f.handle(t)

	f.queue.Push(BindRequest(h, 99))
	f.frame()
	if len(f.binder.records) != 0 {
		t.Fatal("bind of unknown window must not create a record")
	}
	if f.tex.LiveResources() != 0 {
		t.Fatalf("LiveResources = %d, want 0", f.tex.LiveResources())
	}

	f.queue.Push(UnbindRequest(h))
	f.frame()
	if len(f.binder.records) != 0 {
		t.Fatal("unbind after failed bind must be a no-op")
	}
}

func TestBinder_RebindRebuildsInPlace(t *testing.T) {
	f := newBinderFixture(t, 0)
	f.host.Map(10, platform.Rect{Width: 2, Height: 2}, 42)
	h := f.handle(t)
	f.queue.Push(BindRequest(h, 10))
	f.frame()
	before, _ := f.tex.Installed(h)

	f.host.Configure(10, platform.Rect{Width: 6, Height: 3})
	f.queue.Push(RebindRequest(h))
	f.binder.BeginRender()

	rec, ok := f.binder.record(h)
	if !ok {
		t.Fatal("record lost on rebind")
	}
	if rec.Surface.Width != 6 || rec.Surface.Height != 3 {
		t.Fatalf("rebind surface is %dx%d, want 6x3", rec.Surface.Width, rec.Surface.Height)
	}
	after, ok := f.tex.Installed(h)
	if !ok || after == before {
		t.Fatal("expected a new resource installed under the same handle")
	}
	if f.tex.LiveResources() != 1 {
		t.Fatalf("LiveResources = %d, want 1", f.tex.LiveResources())
	}
	if f.host.LiveSurfaces() != 1 {
		t.Fatalf("LiveSurfaces = %d, want 1", f.host.LiveSurfaces())
	}
	f.binder.EndRender()
}

func TestBinder_RebindWithVanishedSurfaceKeepsRecord(t *testing.T) {
	f := newBinderFixture(t, 0)
	f.host.Map(10, platform.Rect{Width: 2, Height: 2}, 42)
	h := f.handle(t)
	f.queue.Push(BindRequest(h, 10))
	f.frame()

	f.host.Unmap(10)
	f.queue.Push(RebindRequest(h))
	f.frame()

	rec, ok := f.binder.record(h)
	if !ok {
		t.Fatal("record must survive a failed rebind")
	}
	if rec.Surface.ID != 0 {
		t.Fatal("expected surface cleared after failed rebind")
	}
	if f.host.LiveSurfaces() != 0 {
		t.Fatalf("LiveSurfaces = %d, want 0", f.host.LiveSurfaces())
	}

	f.queue.Push(UnbindRequest(h))
	f.frame()
	if f.tex.LiveResources() != 0 {
		t.Fatalf("LiveResources = %d after unbind, want 0", f.tex.LiveResources())
	}
}

func TestBinder_ShutdownReleasesOnce(t *testing.T) {
	f := newBinderFixture(t, 0)
	f.host.Map(10, platform.Rect{Width: 2, Height: 2}, 42)
	f.host.Map(11, platform.Rect{Width: 2, Height: 2}, 42)
	a, b := f.handle(t), f.handle(t)
	f.queue.Push(BindRequest(a, 10))
	f.queue.Push(BindRequest(b, 11))
	f.frame()

	f.queue.Push(UnbindRequest(a))
	f.queue.Push(BindRequest(f.handle(t), 10))
	f.binder.Shutdown()

	if len(f.binder.records) != 0 {
		t.Fatalf("records = %d after shutdown, want 0", len(f.binder.records))
	}
	if f.queue.Len() != 0 {
		t.Fatal("queue must be discarded on shutdown")
	}
	if f.tex.LiveResources() != 0 || f.host.LiveSurfaces() != 0 {
		t.Fatal("shutdown leaked resources")
	}

	f.binder.Shutdown()
	f.queue.Push(BindRequest(a, 10))
	f.frame()
	if len(f.binder.records) != 0 || f.queue.Len() != 1 {
		t.Fatal("binder must ignore work after shutdown")
	}
}

func TestBinder_StatsPublishedPerFrame(t *testing.T) {
	f := newBinderFixture(t, 0)
	f.host.Map(10, platform.Rect{Width: 2, Height: 2}, 42)
	h := f.handle(t)
	f.queue.Push(BindRequest(h, 10))

	f.binder.BeginRender()
	if st := f.binder.Stats(); st.Deferred != 1 || st.Bound != 0 || st.Frames != 0 {
		t.Fatalf("stats after BeginRender = %+v, want one deferred", st)
	}
	f.binder.EndRender()
	if st := f.binder.Stats(); st.Deferred != 0 || st.Bound != 1 || st.Frames != 1 {
		t.Fatalf("stats after EndRender = %+v, want one bound", st)
	}

	f.binder.Shutdown()
	if st := f.binder.Stats(); st.Bound != 0 || st.Frames != 1 {
		t.Fatalf("stats after Shutdown = %+v, want nothing bound", st)
	}
}

func TestBinder_RefreshUploadsEveryNFrames(t *testing.T) {
	f := newBinderFixture(t, 2)
	f.host.Map(10, platform.Rect{Width: 1, Height: 1}, 42)
	h := f.handle(t)
	f.queue.Push(BindRequest(h, 10))
	f.frame()

	res, _ := f.tex.Installed(h)
	res.Pixels()[0] = 0xaa

	f.frame()
	if res.Pixels()[0] != 0 {
		t.Fatal("expected refresh to overwrite resource contents on frame 2")
	}
}
