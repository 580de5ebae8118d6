// Package cursor caches pointer images as backend textures keyed by the host's
// cursor serial.
package cursor

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/1broseidon/xveearr/internal/platform"
	"github.com/1broseidon/xveearr/internal/texture"
)

// Source fetches the currently displayed pointer image.
type Source interface {
	CursorImage() (platform.CursorImage, error)
}

// Info describes a cached pointer image. The zero Info is invalid.
type Info struct {
	Serial  uint32         `json:"serial"`
	Texture texture.Handle `json:"texture"`
	Width   int            `json:"width"`
	Height  int            `json:"height"`
	XHot    int            `json:"x_hot"`
	YHot    int            `json:"y_hot"`
}

// Valid reports whether the info refers to a texture.
func (i Info) Valid() bool { return i.Texture.Valid() }

// Cache maps cursor serials to textures. Notify runs on the event goroutine;
// Current and Lookup may be called from anywhere. Entries are never evicted.
type Cache struct {
	source  Source
	alloc   texture.Allocator
	logger  *slog.Logger
	entries *xsync.MapOf[uint32, Info]
	current atomic.Uint32
	// resolved is set once any image has been cached.
	resolved atomic.Bool
}

// NewCache creates an empty cache.
func NewCache(source Source, alloc texture.Allocator, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		source:  source,
		alloc:   alloc,
		logger:  logger,
		entries: xsync.NewMapOf[uint32, Info](),
	}
}

// Notify handles a cursor change to serial. A known serial only becomes
// current; an unknown one is fetched and cached.
func (c *Cache) Notify(serial uint32) error {
	if _, ok := c.entries.Load(serial); ok {
		c.current.Store(serial)
		return nil
	}

	img, err := c.source.CursorImage()
	if err != nil {
		return fmt.Errorf("failed to fetch cursor image: %w", err)
	}
	// The pointer may have changed again since the notification was sent;
	// cache what was actually fetched.
	if info, ok := c.entries.Load(img.Serial); ok {
		c.current.Store(info.Serial)
		return nil
	}

	h, err := c.alloc.Create(img.Width, img.Height, texture.ARGBToRGBA(img.Pixels))
	if err != nil {
		return fmt.Errorf("failed to create cursor texture: %w", err)
	}
	info := Info{
		Serial:  img.Serial,
		Texture: h,
		Width:   img.Width,
		Height:  img.Height,
		XHot:    img.XHot,
		YHot:    img.YHot,
	}
	c.entries.Store(img.Serial, info)
	c.current.Store(img.Serial)
	c.resolved.Store(true)
	c.logger.Debug("cached cursor image", "serial", img.Serial,
		"width", img.Width, "height", img.Height, "entries", c.entries.Size())
	return nil
}

// Current returns the info of the displayed pointer, or the zero Info if no
// image has been resolved yet.
func (c *Cache) Current() Info {
	if !c.resolved.Load() {
		return Info{}
	}
	info, _ := c.entries.Load(c.current.Load())
	return info
}

// lookup returns the cached info for serial.
func (c *Cache) lookup(serial uint32) (Info, bool) {
	return c.entries.Load(serial)
}

// Len is the number of cached images.
func (c *Cache) Len() int {
	return c.entries.Size()
}

// Close destroys every cached texture.
func (c *Cache) Close() {
	c.entries.Range(func(serial uint32, info Info) bool {
		c.alloc.Destroy(info.Texture)
		c.entries.Delete(serial)
		return true
	})
	c.resolved.Store(false)
}
