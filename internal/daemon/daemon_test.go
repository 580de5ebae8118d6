package daemon

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/1broseidon/xveearr/internal/binding"
	"github.com/1broseidon/xveearr/internal/desktop"
	"github.com/1broseidon/xveearr/internal/platform"
	"github.com/1broseidon/xveearr/internal/texture"
)

type pipeline struct {
	host   *platform.Memory
	tex    *texture.Memory
	env    *desktop.Environment
	binder *binding.Binder
	scene  *Scene
	pump   *Pump
	render *HeadlessRenderer
}

func newPipeline(t *testing.T) *pipeline {
	t.Helper()
	host := platform.NewMemory(0)
	tex := texture.NewMemory()
	queue := binding.NewQueue()
	env, err := desktop.New(desktop.Options{Backend: host, Textures: tex, Queue: queue, OwnPID: 1})
	if err != nil {
		t.Fatalf("desktop.New: %v", err)
	}
	binder := binding.NewBinder(binding.BinderConfig{Queue: queue, Surfaces: host, Device: tex, RefreshEvery: 1})
	scene := NewScene()
	p := &pipeline{
		host:   host,
		tex:    tex,
		env:    env,
		binder: binder,
		scene:  scene,
		pump:   NewPump(PumpConfig{}, env, scene),
		render: NewHeadlessRenderer(binder, time.Millisecond, nil),
	}
	t.Cleanup(func() {
		binder.Shutdown()
		env.Close()
	})
	return p
}

func TestPipeline_WindowLifecycle(t *testing.T) {
	p := newPipeline(t)
	p.host.Map(1, platform.Rect{X: 10, Y: 10, Width: 200, Height: 100}, 42)

	if n := p.pump.PumpNow(); n != 1 {
		t.Fatalf("PumpNow = %d, want 1", n)
	}
	w, ok := p.scene.Window(1)
	if !ok || w.PID != 42 || w.Bounds.Width != 200 {
		t.Fatalf("scene window = %+v, %v", w, ok)
	}

	p.render.Frame()
	if st := p.binder.Stats(); st.Bound != 1 || st.Frames != 1 {
		t.Fatalf("binder stats after a frame = %+v, want one bound", st)
	}
	res, ok := p.tex.Installed(w.Texture)
	if !ok {
		t.Fatal("expected resource installed for window texture")
	}
	if rw, rh := res.Size(); rw != 200 || rh != 100 {
		t.Fatalf("resource is %dx%d, want 200x100", rw, rh)
	}

	p.host.Configure(1, platform.Rect{X: 10, Y: 10, Width: 300, Height: 150})
	p.pump.PumpNow()
	p.render.Frame()
	res, _ = p.tex.Installed(w.Texture)
	if rw, rh := res.Size(); rw != 300 || rh != 150 {
		t.Fatalf("resource is %dx%d after resize, want 300x150", rw, rh)
	}

	p.host.Unmap(1)
	p.pump.PumpNow()
	if _, ok := p.scene.Window(1); ok {
		t.Fatal("window still in scene after unmap")
	}
	p.render.Frame()
	if p.binder.Stats().Bound != 0 || p.tex.LiveResources() != 0 || p.host.LiveSurfaces() != 0 {
		t.Fatal("expected all native resources released after unmap")
	}

	st := p.scene.Stats()
	if st.Added != 1 || st.Updated != 1 || st.Removed != 1 || st.Windows != 0 {
		t.Fatalf("stats = %+v", st)
	}
}

func TestScene_WindowsInAddOrder(t *testing.T) {
	s := NewScene()
	s.Apply(desktop.Event{Type: desktop.Added, Window: 9})
	s.Apply(desktop.Event{Type: desktop.Added, Window: 3})
	s.Apply(desktop.Event{Type: desktop.Updated, Window: 9, Info: desktop.WindowInfo{PID: 5}})

	ws := s.Windows()
	if len(ws) != 2 || ws[0].ID != 9 || ws[1].ID != 3 {
		t.Fatalf("Windows = %+v, want 9 then 3", ws)
	}
	if ws[0].PID != 5 {
		t.Fatalf("update not applied: %+v", ws[0])
	}
}

type countingRenderer struct {
	begins, ends, shutdowns atomic.Int32
}

func (c *countingRenderer) BeginRender() { c.begins.Add(1) }
func (c *countingRenderer) EndRender()   { c.ends.Add(1) }
func (c *countingRenderer) Shutdown()    { c.shutdowns.Add(1) }

func TestHeadlessRenderer_ShutsDownOnCancel(t *testing.T) {
	r := &countingRenderer{}
	loop := NewHeadlessRenderer(r, time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()

	deadline := time.Now().Add(5 * time.Second)
	for r.ends.Load() < 2 {
		if time.Now().After(deadline) {
			t.Fatal("renderer did not tick")
		}
		time.Sleep(time.Millisecond)
	}
	cancel()
	<-done

	if r.shutdowns.Load() != 1 {
		t.Fatalf("Shutdown called %d times, want 1", r.shutdowns.Load())
	}
	if r.begins.Load() != r.ends.Load() {
		t.Fatalf("begin/end mismatch: %d/%d", r.begins.Load(), r.ends.Load())
	}
}

func TestPump_RunStopsOnCancel(t *testing.T) {
	p := newPipeline(t)
	p.host.Map(1, platform.Rect{Width: 10, Height: 10}, 42)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewPump(PumpConfig{Interval: time.Millisecond}, p.env, p.scene).Run(ctx)
		close(done)
	}()

	deadline := time.Now().Add(5 * time.Second)
	for p.scene.Stats().Windows != 1 {
		if time.Now().After(deadline) {
			t.Fatal("pump did not deliver the window")
		}
		time.Sleep(time.Millisecond)
	}
	cancel()
	<-done
}
