package daemon

import (
	"sort"
	"sync"
	"time"

	"github.com/1broseidon/xveearr/internal/cursor"
	"github.com/1broseidon/xveearr/internal/desktop"
	"github.com/1broseidon/xveearr/internal/platform"
)

// Window is a scene entry.
type Window struct {
	ID platform.WindowID `json:"id"`
	desktop.WindowInfo
	// Order is the position in the scene, oldest first.
	Order int `json:"order"`
}

// Stats counts the events a scene has applied.
type Stats struct {
	Windows int    `json:"windows"`
	Added   uint64 `json:"added"`
	Removed uint64 `json:"removed"`
	Updated uint64 `json:"updated"`
}

// Scene is the consumer side of the event stream: the set of windows the
// renderer draws. It is written by the pump and read by the renderer and the
// IPC server.
type Scene struct {
	mu      sync.RWMutex
	windows map[platform.WindowID]*Window
	next    int
	stats   Stats
	cursor  cursor.Info
	started time.Time
}

// NewScene returns an empty scene.
func NewScene() *Scene {
	return &Scene{
		windows: make(map[platform.WindowID]*Window),
		started: time.Now(),
	}
}

// Apply folds one logical event into the scene.
func (s *Scene) Apply(ev desktop.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch ev.Type {
	case desktop.Added:
		s.next++
		s.windows[ev.Window] = &Window{ID: ev.Window, WindowInfo: ev.Info, Order: s.next}
		s.stats.Added++
	case desktop.Updated:
		if w, ok := s.windows[ev.Window]; ok {
			w.WindowInfo = ev.Info
		}
		s.stats.Updated++
	case desktop.Removed:
		delete(s.windows, ev.Window)
		s.stats.Removed++
	}
}

// SetCursor records the current pointer.
func (s *Scene) SetCursor(info cursor.Info) {
	s.mu.Lock()
	s.cursor = info
	s.mu.Unlock()
}

// Cursor returns the last recorded pointer.
func (s *Scene) Cursor() cursor.Info {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cursor
}

// Windows returns the scene in draw order.
func (s *Scene) Windows() []Window {
	s.mu.RLock()
	out := make([]Window, 0, len(s.windows))
	for _, w := range s.windows {
		out = append(out, *w)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// Window returns the entry for id.
func (s *Scene) Window(id platform.WindowID) (Window, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.windows[id]
	if !ok {
		return Window{}, false
	}
	return *w, true
}

// Stats returns the event counters.
func (s *Scene) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.stats
	st.Windows = len(s.windows)
	return st
}

// Uptime is the time since the scene was created.
func (s *Scene) Uptime() time.Duration {
	return time.Since(s.started)
}
