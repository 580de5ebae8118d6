package ownership

import (
	"testing"

	"github.com/1broseidon/xveearr/internal/platform"
)

const (
	wmPID  = 100
	ownPID = 200
)

func TestResolve_DirectOwner(t *testing.T) {
	host := platform.NewMemory(wmPID)
	host.Map(1, platform.Rect{Width: 10, Height: 10}, 42)

	r := NewResolver(host, wmPID, ownPID, nil)
	if got := r.Resolve(1); got != 42 {
		t.Fatalf("Resolve = %d, want 42", got)
	}
}

func TestResolve_RecursesThroughHostFrame(t *testing.T) {
	host := platform.NewMemory(wmPID)
	host.Map(1, platform.Rect{Width: 10, Height: 10}, wmPID)
	host.AddChild(1, 2, wmPID)
	host.AddChild(2, 3, 0)
	host.AddChild(2, 4, 42)

	r := NewResolver(host, wmPID, ownPID, nil)
	if got := r.Resolve(1); got != 42 {
		t.Fatalf("Resolve = %d, want 42 from nested client", got)
	}
}

func TestResolve_HostOnlyIsZero(t *testing.T) {
	host := platform.NewMemory(wmPID)
	host.Map(1, platform.Rect{Width: 10, Height: 10}, wmPID)
	host.AddChild(1, 2, wmPID)

	r := NewResolver(host, wmPID, ownPID, nil)
	if got := r.Resolve(1); got != 0 {
		t.Fatalf("Resolve = %d, want 0", got)
	}
}

func TestResolve_OwnProcessIsZero(t *testing.T) {
	host := platform.NewMemory(wmPID)
	host.Map(1, platform.Rect{Width: 10, Height: 10}, ownPID)
	host.Map(2, platform.Rect{Width: 10, Height: 10}, wmPID)
	host.AddChild(2, 3, ownPID)

	r := NewResolver(host, wmPID, ownPID, nil)
	if got := r.Resolve(1); got != 0 {
		t.Fatalf("Resolve(own) = %d, want 0", got)
	}
	if got := r.Resolve(2); got != 0 {
		t.Fatalf("Resolve(wrapped own) = %d, want 0", got)
	}
}

func TestResolve_UnknownWindowIsZero(t *testing.T) {
	r := NewResolver(platform.NewMemory(wmPID), wmPID, ownPID, nil)
	if got := r.Resolve(99); got != 0 {
		t.Fatalf("Resolve = %d, want 0", got)
	}
}

func TestResolve_NoHostKnown(t *testing.T) {
	host := platform.NewMemory(0)
	host.Map(1, platform.Rect{Width: 10, Height: 10}, 0)
	host.AddChild(1, 2, 42)

	r := NewResolver(host, 0, ownPID, nil)
	if got := r.Resolve(1); got != 0 {
		t.Fatalf("Resolve = %d, want 0 without recursion", got)
	}
}

func TestResolve_SkipsOwnChildInHostFrame(t *testing.T) {
	host := platform.NewMemory(wmPID)
	host.Map(1, platform.Rect{Width: 10, Height: 10}, wmPID)
	host.AddChild(1, 2, ownPID)
	host.AddChild(1, 3, 42)

	r := NewResolver(host, wmPID, ownPID, nil)
	if got := r.Resolve(1); got != 42 {
		t.Fatalf("Resolve = %d, want 42 past own child", got)
	}
}
