//go:build !headless

package window

import (
	"context"
	"errors"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrochip8/internal/runner"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/image/font/basicfont"
)

// keymap maps the left side of a QWERTY keyboard to the hexadecimal keypad.
var keymap = [machine.KeyCount]ebiten.Key{
	0x0: ebiten.KeyX,
	0x1: ebiten.Key1,
	0x2: ebiten.Key2,
	0x3: ebiten.Key3,
	0x4: ebiten.KeyQ,
	0x5: ebiten.KeyW,
	0x6: ebiten.KeyE,
	0x7: ebiten.KeyA,
	0x8: ebiten.KeyS,
	0x9: ebiten.KeyD,
	0xA: ebiten.KeyZ,
	0xB: ebiten.KeyC,
	0xC: ebiten.Key4,
	0xD: ebiten.KeyR,
	0xE: ebiten.KeyF,
	0xF: ebiten.KeyV,
}

// Window is an ebiten game that runs the machine of a runner.
type Window struct {
	logger *log.Logger
	runner *runner.Runner
	opts   Options
	ctx    context.Context

	screen *ebiten.Image
	pixels []byte
	sound  bool
	halt   error
}

// New returns a window for the given runner.
func New(logger *log.Logger, r *runner.Runner, opts Options) *Window {
	return &Window{
		logger: logger,
		runner: r,
		opts:   normalizeOptions(opts),
		ctx:    context.Background(),
		pixels: make([]byte, machine.Width*machine.Height*4),
	}
}

// Run opens the window and blocks until it gets closed, escape is pressed,
// the frame limit of the runner is reached or the context is cancelled. After a machine error the window stays open
// showing the halted screen, the error is returned once it gets closed.
func (w *Window) Run(ctx context.Context) error {
	w.ctx = ctx

	ebiten.SetWindowSize(machine.Width*w.opts.Scale, machine.Height*w.opts.Scale)
	ebiten.SetWindowTitle(w.opts.Title)
	ebiten.SetTPS(runner.FrameRate)

	if err := ebiten.RunGame(w); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("running window: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("running window: %w", err)
	}
	return w.halt
}

// Update runs one frame of the machine.
func (w *Window) Update() error {
	if w.ctx.Err() != nil || w.runner.Done() || ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if w.halt != nil {
		return nil
	}

	if err := w.runner.Frame(w.keys()); err != nil {
		w.halt = err
		ebiten.SetWindowTitle(w.opts.Title + " (halted)")
		return nil
	}

	m := w.runner.Machine()
	if sound := m.SoundActive(); sound != w.sound {
		w.sound = sound
		ebiten.SetWindowTitle(windowTitle(w.opts.Title, sound))
	}
	fillPixels(w.pixels, m.Framebuffer())
	return nil
}

// Draw draws the scaled machine screen.
func (w *Window) Draw(screen *ebiten.Image) {
	if w.screen == nil {
		w.screen = ebiten.NewImage(machine.Width, machine.Height)
	}
	w.screen.WritePixels(w.pixels)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(w.opts.Scale), float64(w.opts.Scale))
	screen.DrawImage(w.screen, op)

	if w.halt != nil {
		text.Draw(screen, "halted, press escape", basicfont.Face7x13, 8, 16, color.RGBA{R: 0xFF, A: 0xFF})
	}
}

// Layout returns the fixed size of the scaled screen.
func (w *Window) Layout(_, _ int) (int, int) {
	return machine.Width * w.opts.Scale, machine.Height * w.opts.Scale
}

func (w *Window) keys() uint16 {
	var keys uint16
	for i, key := range keymap {
		if ebiten.IsKeyPressed(key) {
			keys |= 1 << i
		}
	}
	return keys
}
