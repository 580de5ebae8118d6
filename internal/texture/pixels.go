package texture

import (
	"encoding/binary"
	"fmt"
)

// ARGBToRGBA converts host cursor pixels (one 0xAARRGGBB word per pixel)
// into RGBA8 bytes.
func ARGBToRGBA(src []uint32) []byte {
	dst := make([]byte, 4*len(src))
	for i, p := range src {
		dst[4*i+0] = byte(p >> 16)
		dst[4*i+1] = byte(p >> 8)
		dst[4*i+2] = byte(p)
		dst[4*i+3] = byte(p >> 24)
	}
	return dst
}

// BGRXToRGBA converts a little-endian 32bpp ZPixmap into RGBA8. When opaque
// is set the alpha byte is forced to 0xff, which is what depth-24 visuals
// need since their padding byte is undefined.
func BGRXToRGBA(src []byte, width, height int, opaque bool) ([]byte, error) {
	n := width * height
	if len(src) < 4*n {
		return nil, fmt.Errorf("pixmap data too short: have %d bytes, need %d", len(src), 4*n)
	}
	dst := make([]byte, 4*n)
	for i := 0; i < n; i++ {
		p := binary.LittleEndian.Uint32(src[4*i:])
		dst[4*i+0] = byte(p >> 16)
		dst[4*i+1] = byte(p >> 8)
		dst[4*i+2] = byte(p)
		if opaque {
			dst[4*i+3] = 0xff
		} else {
			dst[4*i+3] = byte(p >> 24)
		}
	}
	return dst, nil
}
