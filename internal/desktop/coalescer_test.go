package desktop

import (
	"testing"

	"github.com/1broseidon/xveearr/internal/platform"
)

func TestCoalescer_RemoveCancelsAdd(t *testing.T) {
	var c coalescer
	c.add(1)
	c.add(2)
	c.update(1, platform.Rect{Width: 5, Height: 5})
	c.remove(1)

	got := c.take()
	if len(got) != 1 || got[0].window != 2 || got[0].kind != Added {
		t.Fatalf("buffer = %+v, want only the add for window 2", got)
	}
	if c.len() != 0 {
		t.Fatal("take must reset the buffer")
	}
}

func TestCoalescer_RemoveCancelsEveryAdd(t *testing.T) {
	var c coalescer
	c.add(1)
	c.add(2)
	c.add(1)
	c.remove(1)

	got := c.take()
	if len(got) != 1 || got[0].window != 2 {
		t.Fatalf("buffer = %+v, want only the add for window 2", got)
	}
}

func TestCoalescer_AddBufferedOnce(t *testing.T) {
	var c coalescer
	c.add(1)
	c.update(1, platform.Rect{Width: 4, Height: 4})
	c.add(1)

	got := c.take()
	if len(got) != 1 || got[0].kind != Added || got[0].bounds.Width != 4 {
		t.Fatalf("buffer = %+v, want a single add with merged geometry", got)
	}
}

func TestCoalescer_AddAfterRemoveIsKept(t *testing.T) {
	var c coalescer
	c.remove(1)
	c.add(1)

	got := c.take()
	if len(got) != 2 || got[0].kind != Removed || got[1].kind != Added {
		t.Fatalf("buffer = %+v, want remove then add", got)
	}
}

func TestCoalescer_RemoveWithoutAddIsBuffered(t *testing.T) {
	var c coalescer
	c.remove(3)
	got := c.take()
	if len(got) != 1 || got[0].kind != Removed {
		t.Fatalf("buffer = %+v, want one remove", got)
	}
}

func TestCoalescer_UpdatesMergeIntoLatestEntry(t *testing.T) {
	var c coalescer
	c.update(1, platform.Rect{Width: 1, Height: 1})
	c.update(1, platform.Rect{Width: 2, Height: 2})
	c.add(2)
	c.update(2, platform.Rect{Width: 3, Height: 3})

	got := c.take()
	if len(got) != 2 {
		t.Fatalf("buffer = %+v, want two entries", got)
	}
	if got[0].kind != Updated || got[0].bounds.Width != 2 {
		t.Fatalf("first entry = %+v, want update with last geometry", got[0])
	}
	if got[1].kind != Added || !got[1].hasBounds || got[1].bounds.Width != 3 {
		t.Fatalf("second entry = %+v, want add carrying merged geometry", got[1])
	}
}
