package texture

import (
	"errors"
	"fmt"
	"sync"
)

// ErrReleased is returned when uploading into a released resource.
var ErrReleased = errors.New("resource released")

// Memory is a headless Backend that keeps textures in process memory.
type Memory struct {
	mu        sync.Mutex
	next      Handle
	textures  map[Handle]*memoryTexture
	installed map[Handle]*MemoryResource
	resources int
}

type memoryTexture struct {
	width, height int
	pix           []byte
}

// MemoryResource is the Resource type created by Memory.
type MemoryResource struct {
	width, height int
	pix           []byte
	released      bool
}

func (r *MemoryResource) Size() (int, int) { return r.width, r.height }

// Pixels returns the last uploaded contents.
func (r *MemoryResource) Pixels() []byte { return r.pix }

var _ Backend = (*Memory)(nil)

// NewMemory returns an empty headless backend.
func NewMemory() *Memory {
	return &Memory{
		textures:  make(map[Handle]*memoryTexture),
		installed: make(map[Handle]*MemoryResource),
	}
}

func (m *Memory) Create(width, height int, pix []byte) (Handle, error) {
	if width <= 0 || height <= 0 {
		return InvalidHandle, fmt.Errorf("invalid texture size %dx%d", width, height)
	}
	if pix != nil && len(pix) != 4*width*height {
		return InvalidHandle, fmt.Errorf("pixel buffer is %d bytes, want %d", len(pix), 4*width*height)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	m.textures[m.next] = &memoryTexture{width: width, height: height, pix: append([]byte(nil), pix...)}
	return m.next, nil
}

func (m *Memory) Destroy(h Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.textures, h)
}

func (m *Memory) NewResource(width, height int) (Resource, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid resource size %dx%d", width, height)
	}
	m.mu.Lock()
	m.resources++
	m.mu.Unlock()
	return &MemoryResource{width: width, height: height}, nil
}

func (m *Memory) Upload(r Resource, pix []byte) error {
	res, ok := r.(*MemoryResource)
	if !ok {
		return fmt.Errorf("foreign resource %T", r)
	}
	if res.released {
		return ErrReleased
	}
	if len(pix) != 4*res.width*res.height {
		return fmt.Errorf("pixel buffer is %d bytes, want %d", len(pix), 4*res.width*res.height)
	}
	res.pix = append(res.pix[:0], pix...)
	return nil
}

func (m *Memory) ReleaseResource(r Resource) {
	res, ok := r.(*MemoryResource)
	if !ok || res.released {
		return
	}
	res.released = true
	m.mu.Lock()
	m.resources--
	m.mu.Unlock()
}

func (m *Memory) Install(h Handle, r Resource) {
	res, ok := r.(*MemoryResource)
	if !ok {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.installed[h] = res
}

func (m *Memory) Uninstall(h Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.installed, h)
}

// Exists reports whether h is allocated.
func (m *Memory) Exists(h Handle) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.textures[h]
	return ok
}

// Size returns the placeholder size of h.
func (m *Memory) Size(h Handle) (int, int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.textures[h]
	if !ok {
		return 0, 0, false
	}
	return t.width, t.height, true
}

// Pixels returns the creation-time contents of h.
func (m *Memory) Pixels(h Handle) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.textures[h]; ok {
		return t.pix
	}
	return nil
}

// Installed returns the resource currently redirecting h.
func (m *Memory) Installed(h Handle) (*MemoryResource, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.installed[h]
	return r, ok
}

// LiveResources is the number of created and not yet released resources.
func (m *Memory) LiveResources() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resources
}

// Len is the number of allocated handles.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.textures)
}
