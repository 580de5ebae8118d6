// Package texture defines the renderer-side handle table that window
// textures are bound into.
//
// A Handle is created on the event thread with placeholder contents. The
// render thread later installs a native Resource under it; draw calls that
// reference the handle then sample the installed resource instead.
package texture

// Handle identifies a backend texture. The zero value is never allocated.
type Handle uint32

// InvalidHandle is the zero Handle.
const InvalidHandle Handle = 0

// Valid reports whether h was allocated by a backend.
func (h Handle) Valid() bool {
	return h != InvalidHandle
}

// Resource is a native graphics resource created on the render thread.
type Resource interface {
	Size() (width, height int)
}

// Allocator creates and destroys backend handles. Safe for use from the
// event thread.
type Allocator interface {
	// Create allocates a width x height RGBA8 texture. pix may be nil.
	Create(width, height int, pix []byte) (Handle, error)
	Destroy(h Handle)
}

// Device manages native resources. Only the render thread calls it.
type Device interface {
	NewResource(width, height int) (Resource, error)
	// Upload replaces the resource contents with tightly packed RGBA8.
	Upload(r Resource, pix []byte) error
	ReleaseResource(r Resource)
	// Install redirects h to r. Uninstall restores the placeholder.
	Install(h Handle, r Resource)
	Uninstall(h Handle)
}

// Backend is a renderer exposing both halves of the handle table.
type Backend interface {
	Allocator
	Device
}
