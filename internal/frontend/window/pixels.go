// Package window presents a running machine in a desktop window. The
// window drives the runner from its update loop at the runner frame rate.
//
// Building with the headless tag removes the window backend and its
// graphics dependencies.
package window

import (
	"github.com/retroenv/retrochip8/internal/machine"
)

// DefaultScale is the window size factor used when none is configured.
const DefaultScale = 10

// Colors of lit and unlit pixels as RGBA.
var (
	colorOn  = [4]byte{0xE8, 0xE8, 0xE8, 0xFF}
	colorOff = [4]byte{0x10, 0x10, 0x18, 0xFF}
)

// Options controls the window.
type Options struct {
	Scale int
	Title string
}

// fillPixels converts the framebuffer into RGBA pixel data of the
// unscaled screen. pixels must hold Width*Height*4 bytes.
func fillPixels(pixels []byte, fb *machine.Framebuffer) {
	i := 0
	for y := range machine.Height {
		for x := range machine.Width {
			c := colorOff
			if fb.Get(x, y) {
				c = colorOn
			}
			copy(pixels[i:i+4], c[:])
			i += 4
		}
	}
}

// windowTitle returns the title of the window, the buzzer state is shown
// as a note symbol.
func windowTitle(title string, sound bool) string {
	if sound {
		return title + " ♪"
	}
	return title
}

func normalizeOptions(opts Options) Options {
	if opts.Scale <= 0 {
		opts.Scale = DefaultScale
	}
	if opts.Title == "" {
		opts.Title = "retrochip8"
	}
	return opts
}
