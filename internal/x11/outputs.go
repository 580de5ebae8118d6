package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
)

// Output is an active RandR output and the root-window area it scans out.
type Output struct {
	ID     int
	Name   string
	X      int
	Y      int
	Width  int
	Height int
}

// Outputs lists the enabled CRTCs. RandR is initialized on first use; a
// server without it reports an error.
func (c *Connection) Outputs() ([]Output, error) {
	conn := c.Conn()
	if err := randr.Init(conn); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(conn, c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var outputs []Output
	for i, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(conn, crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("Output%d", i)
		if out, err := randr.GetOutputInfo(conn, info.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(out.Name)
		}

		outputs = append(outputs, Output{
			ID:     i,
			Name:   name,
			X:      int(info.X),
			Y:      int(info.Y),
			Width:  int(info.Width),
			Height: int(info.Height),
		})
	}
	return outputs, nil
}
