// Package headless provides a display without any output device. It keeps
// the last presented frame in memory for batch runs and tests.
package headless

import (
	"io"

	"github.com/retroenv/retrochip8/internal/machine"
)

// Display records presented frames and replays a scripted keypad state.
type Display struct {
	keys        uint16
	frames      int
	soundFrames int
	sound       bool
	screen      machine.Framebuffer
}

// New returns a headless display with no key pressed.
func New() *Display {
	return &Display{}
}

// SetKeys sets the keypad state returned for the following frames.
func (d *Display) SetKeys(keys uint16) {
	d.keys = keys
}

// Keys returns the scripted keypad state.
func (d *Display) Keys() uint16 {
	return d.keys
}

// Present copies the framebuffer.
func (d *Display) Present(fb *machine.Framebuffer, sound bool) error {
	d.frames++
	d.screen = *fb
	d.sound = sound
	if sound {
		d.soundFrames++
	}
	return nil
}

// Frames returns the number of presented frames.
func (d *Display) Frames() int {
	return d.frames
}

// SoundFrames returns the number of presented frames with an active buzzer.
func (d *Display) SoundFrames() int {
	return d.soundFrames
}

// Sound returns the buzzer state of the last frame.
func (d *Display) Sound() bool {
	return d.sound
}

// Snapshot returns a copy of the last presented frame.
func (d *Display) Snapshot() machine.Framebuffer {
	return d.screen
}

// WriteTo writes the last presented frame as text.
func (d *Display) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, d.screen.String())
	return int64(n), err
}
