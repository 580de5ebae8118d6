//go:build linux

package platform

import (
	"testing"

	"github.com/BurntSushi/xgb/xfixes"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/xveearr/internal/x11"
)

const testRoot xproto.Window = 1

func TestLinuxBackend_Convert(t *testing.T) {
	b := &LinuxBackend{conn: &x11.Connection{Root: testRoot}, pixmaps: make(map[uint32]x11.Pixmap)}

	tests := []struct {
		name string
		ev   any
		want Notification
	}{
		{
			name: "map",
			ev:   xproto.MapNotifyEvent{Event: testRoot, Window: 5},
			want: Notification{Kind: NotifyMapped, Window: 5},
		},
		{
			name: "unmap",
			ev:   xproto.UnmapNotifyEvent{Event: testRoot, Window: 5},
			want: Notification{Kind: NotifyUnmapped, Window: 5},
		},
		{
			name: "destroy",
			ev:   xproto.DestroyNotifyEvent{Event: testRoot, Window: 5},
			want: Notification{Kind: NotifyUnmapped, Window: 5},
		},
		{
			name: "reparent onto root",
			ev:   xproto.ReparentNotifyEvent{Event: testRoot, Window: 5, Parent: testRoot},
			want: Notification{Kind: NotifyReparented, Window: 5, ToRoot: true},
		},
		{
			name: "reparent away from root",
			ev:   xproto.ReparentNotifyEvent{Event: testRoot, Window: 5, Parent: 40},
			want: Notification{Kind: NotifyReparented, Window: 5, ToRoot: false},
		},
		{
			name: "configure includes border",
			ev: xproto.ConfigureNotifyEvent{
				Event: testRoot, Window: 5,
				X: 10, Y: -4, Width: 200, Height: 100, BorderWidth: 3,
			},
			want: Notification{Kind: NotifyConfigured, Window: 5, Bounds: Rect{X: 10, Y: -4, Width: 206, Height: 106}},
		},
		{
			name: "cursor",
			ev:   xfixes.CursorNotifyEvent{Window: testRoot, CursorSerial: 77},
			want: Notification{Kind: NotifyCursorChanged, Serial: 77},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := b.convert(tt.ev)
			if !ok {
				t.Fatalf("convert(%T) not ok", tt.ev)
			}
			if got != tt.want {
				t.Fatalf("convert = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLinuxBackend_ConvertIgnoresNonRootEvents(t *testing.T) {
	b := &LinuxBackend{conn: &x11.Connection{Root: testRoot}, pixmaps: make(map[uint32]x11.Pixmap)}

	const parent xproto.Window = 40
	events := []any{
		xproto.MapNotifyEvent{Event: parent, Window: 5},
		xproto.UnmapNotifyEvent{Event: parent, Window: 5},
		xproto.DestroyNotifyEvent{Event: parent, Window: 5},
		xproto.ReparentNotifyEvent{Event: parent, Window: 5, Parent: testRoot},
		xproto.ConfigureNotifyEvent{Event: parent, Window: 5, Width: 10, Height: 10},
		xproto.ExposeEvent{Window: testRoot},
	}
	for _, ev := range events {
		if n, ok := b.convert(ev); ok {
			t.Fatalf("convert(%T) = %+v, want ignored", ev, n)
		}
	}
}
