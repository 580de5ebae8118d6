package texture

import (
	"fmt"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
)

// Ebiten is a Backend on top of ebiten images. Placeholders are created
// with ebiten.NewImage, which Ebiten allows from any goroutine; resources are
// uploaded and installed from the draw loop.
type Ebiten struct {
	mu        sync.RWMutex
	next      Handle
	images    map[Handle]*ebiten.Image
	installed map[Handle]*ebitenResource
}

type ebitenResource struct {
	img           *ebiten.Image
	width, height int
}

func (r *ebitenResource) Size() (int, int) { return r.width, r.height }

var _ Backend = (*Ebiten)(nil)

// NewEbiten returns an empty ebiten-backed handle table.
func NewEbiten() *Ebiten {
	return &Ebiten{
		images:    make(map[Handle]*ebiten.Image),
		installed: make(map[Handle]*ebitenResource),
	}
}

func (e *Ebiten) Create(width, height int, pix []byte) (Handle, error) {
	if width <= 0 || height <= 0 {
		return InvalidHandle, fmt.Errorf("invalid texture size %dx%d", width, height)
	}
	if pix != nil && len(pix) != 4*width*height {
		return InvalidHandle, fmt.Errorf("pixel buffer is %d bytes, want %d", len(pix), 4*width*height)
	}
	img := ebiten.NewImage(width, height)
	if pix != nil {
		img.WritePixels(pix)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.next++
	e.images[e.next] = img
	return e.next, nil
}

func (e *Ebiten) Destroy(h Handle) {
	e.mu.Lock()
	img, ok := e.images[h]
	delete(e.images, h)
	e.mu.Unlock()
	if ok {
		img.Deallocate()
	}
}

func (e *Ebiten) NewResource(width, height int) (Resource, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid resource size %dx%d", width, height)
	}
	return &ebitenResource{img: ebiten.NewImage(width, height), width: width, height: height}, nil
}

func (e *Ebiten) Upload(r Resource, pix []byte) error {
	res, ok := r.(*ebitenResource)
	if !ok {
		return fmt.Errorf("foreign resource %T", r)
	}
	if res.img == nil {
		return ErrReleased
	}
	if len(pix) != 4*res.width*res.height {
		return fmt.Errorf("pixel buffer is %d bytes, want %d", len(pix), 4*res.width*res.height)
	}
	res.img.WritePixels(pix)
	return nil
}

func (e *Ebiten) ReleaseResource(r Resource) {
	res, ok := r.(*ebitenResource)
	if !ok || res.img == nil {
		return
	}
	res.img.Deallocate()
	res.img = nil
}

func (e *Ebiten) Install(h Handle, r Resource) {
	res, ok := r.(*ebitenResource)
	if !ok {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.installed[h] = res
}

func (e *Ebiten) Uninstall(h Handle) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.installed, h)
}

// Image returns the image draw calls should use for h: the installed
// resource when bound, otherwise the placeholder.
func (e *Ebiten) Image(h Handle) (*ebiten.Image, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if res, ok := e.installed[h]; ok && res.img != nil {
		return res.img, true
	}
	img, ok := e.images[h]
	return img, ok
}
