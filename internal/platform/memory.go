package platform

import (
	"fmt"
	"sort"
	"sync"
)

// Memory is an in-process window host. It is used by tests and by the
// headless "memory" window system; every mutation queues the notification a
// real host would emit.
type Memory struct {
	mu       sync.Mutex
	windows  map[WindowID]*memoryWindow
	queue    []Notification
	hostPID  int
	cursor   CursorImage
	nextSurf uint32
	live     map[uint32]Surface
	displays []Display

	cursorFetches int
}

type memoryWindow struct {
	geom     Geometry
	pid      int
	children []WindowID
	topLevel bool
}

var (
	_ Backend       = (*Memory)(nil)
	_ DisplayLister = (*Memory)(nil)
)

// NewMemory creates an empty host whose window manager runs as hostPID.
func NewMemory(hostPID int) *Memory {
	return &Memory{
		windows: make(map[WindowID]*memoryWindow),
		hostPID: hostPID,
		live:    make(map[uint32]Surface),
	}
}

// NewMemoryBackend is a Factory for the memory window system. It reports a
// single 1920x1080 display.
func NewMemoryBackend(opts Options) (Backend, error) {
	m := NewMemory(0)
	m.SetDisplays([]Display{{Name: "memory", Bounds: Rect{Width: 1920, Height: 1080}}})
	return m, nil
}

// Create registers a window without mapping it.
func (m *Memory) Create(id WindowID, bounds Rect, pid int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.windows[id] = &memoryWindow{
		geom:     Geometry{Bounds: bounds, Depth: 24},
		pid:      pid,
		topLevel: true,
	}
}

// Map makes a window viewable, creating it if needed.
func (m *Memory) Map(id WindowID, bounds Rect, pid int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.windows[id]
	if !ok {
		w = &memoryWindow{geom: Geometry{Bounds: bounds, Depth: 24}, pid: pid, topLevel: true}
		m.windows[id] = w
	}
	w.geom.Viewable = true
	m.queue = append(m.queue, Notification{Kind: NotifyMapped, Window: id})
}

// Unmap hides a window.
func (m *Memory) Unmap(id WindowID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if w, ok := m.windows[id]; ok {
		w.geom.Viewable = false
	}
	m.queue = append(m.queue, Notification{Kind: NotifyUnmapped, Window: id})
}

// Destroy forgets a window entirely. No notification is queued beyond the
// unmap a host would send.
func (m *Memory) Destroy(id WindowID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.windows, id)
	m.queue = append(m.queue, Notification{Kind: NotifyUnmapped, Window: id})
}

// Configure moves or resizes a window.
func (m *Memory) Configure(id WindowID, bounds Rect) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if w, ok := m.windows[id]; ok {
		w.geom.Bounds = bounds
	}
	m.queue = append(m.queue, Notification{Kind: NotifyConfigured, Window: id, Bounds: bounds})
}

// Reparent moves a window under parent, or back to the root when parent is 0.
func (m *Memory) Reparent(id, parent WindowID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if w, ok := m.windows[id]; ok {
		w.topLevel = parent == 0
	}
	if p, ok := m.windows[parent]; ok {
		p.children = append(p.children, id)
	}
	m.queue = append(m.queue, Notification{Kind: NotifyReparented, Window: id, ToRoot: parent == 0})
}

// SetDepth overrides the reported depth of a window.
func (m *Memory) SetDepth(id WindowID, depth int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if w, ok := m.windows[id]; ok {
		w.geom.Depth = depth
	}
}

// AddChild records child as a child of parent without queuing anything.
func (m *Memory) AddChild(parent, child WindowID, pid int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.windows[child]; !ok {
		m.windows[child] = &memoryWindow{geom: Geometry{Depth: 24}, pid: pid}
	}
	if p, ok := m.windows[parent]; ok {
		p.children = append(p.children, child)
	}
}

// SetCursor replaces the pointer image and queues a cursor notification.
func (m *Memory) SetCursor(img CursorImage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cursor = img
	m.queue = append(m.queue, Notification{Kind: NotifyCursorChanged, Serial: img.Serial})
}

// SetDisplays replaces the reported outputs.
func (m *Memory) SetDisplays(displays []Display) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.displays = append([]Display(nil), displays...)
}

// CursorFetches is the number of CursorImage calls served so far.
func (m *Memory) CursorFetches() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursorFetches
}

// LiveSurfaces is the number of resolved surfaces not yet released.
func (m *Memory) LiveSurfaces() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.live)
}

func (m *Memory) Poll() (Notification, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.queue) == 0 {
		return Notification{}, false, nil
	}
	n := m.queue[0]
	m.queue = m.queue[1:]
	return n, true, nil
}

func (m *Memory) TopLevelWindows() ([]WindowID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]WindowID, 0, len(m.windows))
	for id, w := range m.windows {
		if w.topLevel && w.geom.Viewable {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (m *Memory) Geometry(id WindowID) (Geometry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.windows[id]
	if !ok {
		return Geometry{}, fmt.Errorf("geometry of window %d: %w", id, ErrUnknownWindow)
	}
	return w.geom, nil
}

func (m *Memory) WindowPID(id WindowID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.windows[id]
	if !ok {
		return 0, fmt.Errorf("pid of window %d: %w", id, ErrUnknownWindow)
	}
	return w.pid, nil
}

func (m *Memory) Children(id WindowID) ([]WindowID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.windows[id]
	if !ok {
		return nil, fmt.Errorf("children of window %d: %w", id, ErrUnknownWindow)
	}
	return append([]WindowID(nil), w.children...), nil
}

func (m *Memory) HostPID() (int, error) {
	return m.hostPID, nil
}

func (m *Memory) CursorImage() (CursorImage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cursorFetches++
	img := m.cursor
	img.Pixels = append([]uint32(nil), m.cursor.Pixels...)
	return img, nil
}

func (m *Memory) ResolveSurface(id WindowID) (Surface, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.windows[id]
	if !ok || !w.geom.Viewable {
		return Surface{}, fmt.Errorf("name surface of window %d: %w", id, ErrUnknownWindow)
	}
	m.nextSurf++
	s := Surface{
		ID:     m.nextSurf,
		Window: id,
		Width:  w.geom.Bounds.Width,
		Height: w.geom.Bounds.Height,
		Depth:  w.geom.Depth,
	}
	m.live[s.ID] = s
	return s, nil
}

func (m *Memory) ReadSurface(s Surface) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.live[s.ID]; !ok {
		return nil, fmt.Errorf("read surface %d: %w", s.ID, ErrUnknownWindow)
	}
	return make([]byte, 4*s.Width*s.Height), nil
}

func (m *Memory) ReleaseSurface(s Surface) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.live, s.ID)
}

func (m *Memory) Displays() ([]Display, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Display(nil), m.displays...), nil
}

func (m *Memory) Close() {}
