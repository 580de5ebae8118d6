// Package binding carries texture binding work from the event thread to the
// render thread and executes it there.
package binding

import (
	"fmt"

	"github.com/1broseidon/xveearr/internal/platform"
	"github.com/1broseidon/xveearr/internal/texture"
)

// Kind is the type of a binding request.
type Kind int

const (
	Bind Kind = iota + 1
	Rebind
	Unbind
)

func (k Kind) String() string {
	switch k {
	case Bind:
		return "bind"
	case Rebind:
		return "rebind"
	case Unbind:
		return "unbind"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Request is one unit of binding work. Window is only meaningful for Bind;
// the render thread looks everything else up in its own records.
type Request struct {
	Kind   Kind
	Handle texture.Handle
	Window platform.WindowID
}

// BindRequest builds a Bind request.
func BindRequest(h texture.Handle, w platform.WindowID) Request {
	return Request{Kind: Bind, Handle: h, Window: w}
}

// RebindRequest builds a Rebind request.
func RebindRequest(h texture.Handle) Request {
	return Request{Kind: Rebind, Handle: h}
}

// UnbindRequest builds an Unbind request.
func UnbindRequest(h texture.Handle) Request {
	return Request{Kind: Unbind, Handle: h}
}

func (r Request) String() string {
	if r.Kind == Bind {
		return fmt.Sprintf("%s(%d, window=%d)", r.Kind, r.Handle, r.Window)
	}
	return fmt.Sprintf("%s(%d)", r.Kind, r.Handle)
}
