package preview

import (
	"context"
	"errors"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/1broseidon/xveearr/internal/config"
	"github.com/1broseidon/xveearr/internal/cursor"
	"github.com/1broseidon/xveearr/internal/daemon"
	"github.com/1broseidon/xveearr/internal/desktop"
	"github.com/1broseidon/xveearr/internal/platform"
	"github.com/1broseidon/xveearr/internal/texture"
)

type fakeScene struct {
	windows []daemon.Window
}

func (s *fakeScene) Windows() []daemon.Window { return s.windows }
func (s *fakeScene) Cursor() cursor.Info      { return cursor.Info{} }

type countingBinder struct {
	begins, ends, shutdowns int
}

func (b *countingBinder) BeginRender() { b.begins++ }
func (b *countingBinder) EndRender()   { b.ends++ }
func (b *countingBinder) Shutdown()    { b.shutdowns++ }

type noImages struct{ asked []texture.Handle }

func (n *noImages) Image(h texture.Handle) (*ebiten.Image, bool) {
	n.asked = append(n.asked, h)
	return nil, false
}

func previewConfig() config.PreviewConfig {
	return config.PreviewConfig{Width: 320, Height: 240, Title: "test"}
}

func TestGameLayout(t *testing.T) {
	g := NewGame(previewConfig(), &fakeScene{}, &countingBinder{}, &noImages{}, nil)
	w, h := g.Layout(1000, 1000)
	if w != 320 || h != 240 {
		t.Fatalf("Layout = %dx%d, want 320x240", w, h)
	}
}

func TestGameDraw_BracketsBinderWork(t *testing.T) {
	b := &countingBinder{}
	images := &noImages{}
	scene := &fakeScene{windows: []daemon.Window{
		{ID: 1, WindowInfo: desktop.WindowInfo{Texture: 4, Bounds: platform.Rect{Width: 10, Height: 10}}},
		{ID: 2, WindowInfo: desktop.WindowInfo{Texture: 5, Bounds: platform.Rect{Width: 10, Height: 10}}},
	}}
	g := NewGame(previewConfig(), scene, b, images, nil)

	screen := ebiten.NewImage(320, 240)
	g.Draw(screen)
	g.Draw(screen)

	if b.begins != 2 || b.ends != 2 {
		t.Fatalf("begin/end = %d/%d, want 2/2", b.begins, b.ends)
	}
	if g.frames != 2 {
		t.Fatalf("frames = %d, want 2", g.frames)
	}
	if len(images.asked) != 4 || images.asked[0] != 4 || images.asked[1] != 5 {
		t.Fatalf("images requested %v, want scene order", images.asked)
	}
}

func TestGameUpdate_TerminatesOnCancel(t *testing.T) {
	b := &countingBinder{}
	g := NewGame(previewConfig(), &fakeScene{}, b, &noImages{}, nil)

	if err := g.Update(); err != nil {
		t.Fatalf("Update before cancel: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	g.SetContext(ctx)
	cancel()
	if err := g.Update(); !errors.Is(err, ebiten.Termination) {
		t.Fatalf("Update after cancel = %v, want Termination", err)
	}
	g.Update()
	if b.shutdowns != 1 {
		t.Fatalf("Shutdown called %d times, want 1", b.shutdowns)
	}
}

func TestFitScale(t *testing.T) {
	win := func(x, y, w, h int) daemon.Window {
		return daemon.Window{WindowInfo: desktop.WindowInfo{Bounds: platform.Rect{X: x, Y: y, Width: w, Height: h}}}
	}
	tests := []struct {
		name    string
		windows []daemon.Window
		want    float64
	}{
		{"empty", nil, 1},
		{"fits", []daemon.Window{win(0, 0, 100, 100)}, 1},
		{"too wide", []daemon.Window{win(0, 0, 640, 100)}, 0.5},
		{"too tall", []daemon.Window{win(0, 0, 100, 960)}, 0.25},
		{"union", []daemon.Window{win(0, 0, 100, 100), win(540, 200, 100, 40)}, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fitScale(tt.windows, 320, 240); got != tt.want {
				t.Fatalf("fitScale = %v, want %v", got, tt.want)
			}
		})
	}
}
