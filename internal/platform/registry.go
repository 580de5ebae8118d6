package platform

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
)

// ErrUnknownBackend is returned by Registry.Open for an unregistered name.
var ErrUnknownBackend = errors.New("unknown window system backend")

// Options is passed to a Factory when opening a backend.
type Options struct {
	Display              string
	RequireWindowManager bool
	Logger               *slog.Logger
}

// Factory opens a backend.
type Factory func(opts Options) (Backend, error)

// Registry maps backend names to factories. It is populated explicitly by
// the caller at start-up.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds or replaces the factory for name.
func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

// Names returns the registered backend names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open creates the backend registered under name.
func (r *Registry) Open(name string, opts Options) (Backend, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownBackend, name, r.Names())
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	b, err := f(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s backend: %w", name, err)
	}
	return b, nil
}
