// Package preview draws the composited scene into a flat ebiten window. It is
// the render thread: binding work queued by the event thread runs inside its
// Draw.
package preview

import (
	"context"
	"errors"
	"image/color"
	"log/slog"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/1broseidon/xveearr/internal/config"
	"github.com/1broseidon/xveearr/internal/cursor"
	"github.com/1broseidon/xveearr/internal/daemon"
	"github.com/1broseidon/xveearr/internal/texture"
)

var background = color.RGBA{R: 0x10, G: 0x10, B: 0x14, A: 0xff}

// Images resolves texture handles to drawable images.
type Images interface {
	Image(h texture.Handle) (*ebiten.Image, bool)
}

var _ Images = (*texture.Ebiten)(nil)

// Scene is the read side of daemon.Scene.
type Scene interface {
	Windows() []daemon.Window
	Cursor() cursor.Info
}

// Game implements ebiten.Game.
type Game struct {
	cfg    config.PreviewConfig
	scene  Scene
	binder daemon.Renderer
	images Images
	logger *slog.Logger
	ctx    context.Context

	shutdown sync.Once
	frames   uint64
}

// NewGame creates a preview for scene. binder is driven from Draw.
func NewGame(cfg config.PreviewConfig, scene Scene, binder daemon.Renderer, images Images, logger *slog.Logger) *Game {
	if logger == nil {
		logger = slog.Default()
	}
	return &Game{
		cfg:    cfg,
		scene:  scene,
		binder: binder,
		images: images,
		logger: logger,
		ctx:    context.Background(),
	}
}

// SetContext makes Update terminate the game once ctx is done.
func (g *Game) SetContext(ctx context.Context) {
	g.ctx = ctx
}

// Update implements ebiten.Game.Update.
func (g *Game) Update() error {
	select {
	case <-g.ctx.Done():
		g.stop()
		return ebiten.Termination
	default:
	}
	return nil
}

// Draw implements ebiten.Game.Draw.
func (g *Game) Draw(screen *ebiten.Image) {
	g.binder.BeginRender()
	defer g.binder.EndRender()
	g.frames++

	screen.Fill(background)
	windows := g.scene.Windows()
	scale := fitScale(windows, g.cfg.Width, g.cfg.Height)

	for _, w := range windows {
		img, ok := g.images.Image(w.Texture)
		if !ok {
			continue
		}
		iw, ih := img.Bounds().Dx(), img.Bounds().Dy()
		if iw == 0 || ih == 0 {
			continue
		}
		op := &ebiten.DrawImageOptions{}
		// Placeholders are 1x1 until bound; stretch them to the window.
		op.GeoM.Scale(float64(w.Bounds.Width)/float64(iw), float64(w.Bounds.Height)/float64(ih))
		if w.InvertedY {
			op.GeoM.Scale(1, -1)
			op.GeoM.Translate(0, float64(w.Bounds.Height))
		}
		op.GeoM.Translate(float64(w.Bounds.X), float64(w.Bounds.Y))
		op.GeoM.Scale(scale, scale)
		screen.DrawImage(img, op)
	}

	if g.cfg.ShowCursor {
		g.drawCursor(screen)
	}
}

func (g *Game) drawCursor(screen *ebiten.Image) {
	cur := g.scene.Cursor()
	if !cur.Valid() {
		return
	}
	img, ok := g.images.Image(cur.Texture)
	if !ok {
		return
	}
	x, y := ebiten.CursorPosition()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(x-cur.XHot), float64(y-cur.YHot))
	screen.DrawImage(img, op)
}

// Layout implements ebiten.Game.Layout.
func (g *Game) Layout(_, _ int) (int, int) {
	return g.cfg.Width, g.cfg.Height
}

func (g *Game) stop() {
	g.shutdown.Do(func() {
		g.binder.Shutdown()
		g.logger.Info("preview stopped", "frames", g.frames)
	})
}

// Run opens the preview window and blocks until it is closed or ctx is done.
// The binder is shut down exactly once before Run returns: from Update when
// ctx is cancelled, or from the Run caller when the window is closed.
func (g *Game) Run(ctx context.Context) error {
	g.SetContext(ctx)
	ebiten.SetWindowSize(g.cfg.Width, g.cfg.Height)
	ebiten.SetWindowTitle(g.cfg.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if g.cfg.ShowCursor {
		ebiten.SetCursorMode(ebiten.CursorModeHidden)
	}

	g.logger.Info("preview started", "width", g.cfg.Width, "height", g.cfg.Height)
	err := ebiten.RunGame(g)
	// Closing the window ends RunGame without a final Update.
	g.stop()
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// fitScale returns the factor that fits the union of the windows' extents
// into width x height. It never enlarges.
func fitScale(windows []daemon.Window, width, height int) float64 {
	maxX, maxY := 0, 0
	for _, w := range windows {
		maxX = max(maxX, w.Bounds.X+w.Bounds.Width)
		maxY = max(maxY, w.Bounds.Y+w.Bounds.Height)
	}
	scale := 1.0
	if maxX > width {
		scale = min(scale, float64(width)/float64(maxX))
	}
	if maxY > height {
		scale = min(scale, float64(height)/float64(maxY))
	}
	return scale
}
