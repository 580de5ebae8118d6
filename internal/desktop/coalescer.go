package desktop

import "github.com/1broseidon/xveearr/internal/platform"

// pending is a buffered raw event of one polling pass.
type pending struct {
	kind      EventType
	window    platform.WindowID
	bounds    platform.Rect
	hasBounds bool
}

// coalescer buffers the raw events of a single polling pass.
//
// An Added is buffered at most once per window. A Removed cancels every
// buffered Added for the same window and is dropped with them. An Updated folds its geometry into the latest buffered entry for the
// window. Everything else is appended.
type coalescer struct {
	buf []pending
}

func (c *coalescer) add(w platform.WindowID) {
	for _, p := range c.buf {
		if p.window == w && p.kind == Added {
			return
		}
	}
	c.buf = append(c.buf, pending{kind: Added, window: w})
}

func (c *coalescer) remove(w platform.WindowID) {
	kept := c.buf[:0]
	cancelled := false
	for _, p := range c.buf {
		if p.window == w && p.kind == Added {
			cancelled = true
			continue
		}
		kept = append(kept, p)
	}
	c.buf = kept
	if !cancelled {
		c.buf = append(c.buf, pending{kind: Removed, window: w})
	}
}

func (c *coalescer) update(w platform.WindowID, bounds platform.Rect) {
	for i := len(c.buf) - 1; i >= 0; i-- {
		if c.buf[i].window == w {
			c.buf[i].bounds = bounds
			c.buf[i].hasBounds = true
			return
		}
	}
	c.buf = append(c.buf, pending{kind: Updated, window: w, bounds: bounds, hasBounds: true})
}

// take returns the buffered events and resets the buffer.
func (c *coalescer) take() []pending {
	out := c.buf
	c.buf = nil
	return out
}

func (c *coalescer) len() int { return len(c.buf) }
