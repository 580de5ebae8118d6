//go:build !linux

package platform

import "errors"

// NewX11Backend is a Factory for the x11 window system. It is only
// available on Linux.
func NewX11Backend(opts Options) (Backend, error) {
	return nil, errors.New("the x11 window system is only supported on linux")
}
