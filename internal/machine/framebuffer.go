package machine

import (
	"math/bits"
	"strings"
)

// Screen dimensions in pixels.
const (
	Width  = 64
	Height = 32
)

// DrawMode controls how sprites that cross the screen edge are drawn.
type DrawMode uint8

const (
	// DrawWrap wraps sprite pixels around to the opposite screen edge.
	DrawWrap DrawMode = iota
	// DrawClip drops sprite pixels that fall past the right or bottom edge.
	DrawClip
)

// Framebuffer is a 64x32 monochrome bitmap. Each row is stored as a 64-bit
// word, the most significant bit is the leftmost pixel.
type Framebuffer struct {
	rows [Height]uint64
}

// Clear turns all pixels off.
func (f *Framebuffer) Clear() {
	f.rows = [Height]uint64{}
}

// Get returns whether the pixel at x, y is on. Coordinates outside of the
// screen wrap around.
func (f *Framebuffer) Get(x, y int) bool {
	x, y = wrap(x, Width), wrap(y, Height)
	return f.rows[y]&(1<<(Width-1-x)) != 0
}

// Row returns the pixels of row y, the most significant bit being x 0.
func (f *Framebuffer) Row(y int) uint64 {
	return f.rows[wrap(y, Height)]
}

// Draw XORs the sprite onto the screen with its top left corner at x, y.
// Each sprite byte is one row of 8 pixels. Pixels crossing an edge wrap
// around to the opposite edge. It returns whether any pixel that was on
// got turned off.
func (f *Framebuffer) Draw(x, y int, sprite []byte) bool {
	return f.draw(x, y, sprite, DrawWrap)
}

// DrawClipped works like Draw but drops the pixels that fall past the right
// or bottom screen edge. The start coordinates still wrap.
func (f *Framebuffer) DrawClipped(x, y int, sprite []byte) bool {
	return f.draw(x, y, sprite, DrawClip)
}

func (f *Framebuffer) draw(x, y int, sprite []byte, mode DrawMode) bool {
	x, y = wrap(x, Width), wrap(y, Height)
	collision := false

	for i, b := range sprite {
		row := y + i
		var mask uint64
		if mode == DrawClip {
			if row >= Height {
				break
			}
			mask = uint64(b) << (Width - 8) >> x
		} else {
			row %= Height
			mask = bits.RotateLeft64(uint64(b)<<(Width-8), -x)
		}

		if f.rows[row]&mask != 0 {
			collision = true
		}
		f.rows[row] ^= mask
	}

	return collision
}

// String renders the framebuffer as text, one line per row using '#' for
// pixels that are on and '.' for pixels that are off.
func (f *Framebuffer) String() string {
	var sb strings.Builder
	sb.Grow(Height * (Width + 1))
	for y := range Height {
		for x := range Width {
			if f.Get(x, y) {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func wrap(v, size int) int {
	v %= size
	if v < 0 {
		v += size
	}
	return v
}
