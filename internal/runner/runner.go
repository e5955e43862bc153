// Package runner drives a machine: it executes a number of instructions per
// frame, paces the frames and hands every finished frame to a display.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrogolib/log"
)

// FrameRate is the number of frames per second of a paced run.
const FrameRate = 60

// ErrQuit is returned by a display when the user asked to quit.
var ErrQuit = errors.New("quit requested")

// Display presents the machine state to the user and reports the keypad.
type Display interface {
	// Keys returns the keypad state, bit i is set while key i is held down.
	Keys() uint16
	// Present shows a finished frame. Returning ErrQuit ends the run.
	Present(fb *machine.Framebuffer, sound bool) error
}

// Options controls the runner.
type Options struct {
	TicksPerFrame int
	Frames        int // frame limit of paced runs, 0 for no limit
}

// Runner owns a machine for the duration of a run.
type Runner struct {
	logger  *log.Logger
	machine *machine.Machine

	ticksPerFrame int
	maxFrames     int
	frameDuration time.Duration
	frames        int
}

// New returns a runner for the given machine.
func New(logger *log.Logger, m *machine.Machine, opts Options) *Runner {
	ticks := opts.TicksPerFrame
	if ticks <= 0 {
		ticks = 1
	}
	return &Runner{
		logger:        logger,
		machine:       m,
		ticksPerFrame: ticks,
		maxFrames:     opts.Frames,
		frameDuration: time.Second / FrameRate,
	}
}

// Machine returns the driven machine.
func (r *Runner) Machine() *machine.Machine {
	return r.machine
}

// Frames returns the number of completed frames.
func (r *Runner) Frames() int {
	return r.frames
}

// Done returns whether the frame limit was reached.
func (r *Runner) Done() bool {
	return r.maxFrames > 0 && r.frames >= r.maxFrames
}

// Frame executes one frame worth of instructions with the given keypad
// state. A failed instruction halts the machine and its error is returned.
func (r *Runner) Frame(keys uint16) error {
	for range r.ticksPerFrame {
		if err := r.machine.Tick(keys); err != nil {
			r.reportHalt(err)
			return fmt.Errorf("frame %d: %w", r.frames, err)
		}
	}
	r.frames++
	return nil
}

// Run executes frames at the frame rate until the context is cancelled,
// the display asks to quit, the frame limit is reached or the machine halts
// on an error. A quit request is not an error.
func (r *Runner) Run(ctx context.Context, display Display) error {
	ticker := time.NewTicker(r.frameDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("running: %w", ctx.Err())
		case <-ticker.C:
		}

		done, err := r.step(display)
		if done {
			return err
		}
		if r.Done() {
			return nil
		}
	}
}

// RunFrames executes up to the given number of frames without pacing.
func (r *Runner) RunFrames(ctx context.Context, display Display, frames int) error {
	for range frames {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("running: %w", err)
		}

		done, err := r.step(display)
		if done {
			return err
		}
	}
	return nil
}

// step runs a single frame and presents it. It returns whether the run
// is over.
func (r *Runner) step(display Display) (bool, error) {
	if err := r.Frame(display.Keys()); err != nil {
		return true, err
	}

	err := display.Present(r.machine.Framebuffer(), r.machine.SoundActive())
	switch {
	case err == nil:
		return false, nil
	case errors.Is(err, ErrQuit):
		r.logger.Debug("Quit requested", log.Int("frames", r.frames))
		return true, nil
	default:
		return true, fmt.Errorf("presenting frame: %w", err)
	}
}

func (r *Runner) reportHalt(err error) {
	var machineErr *machine.Error
	if !errors.As(err, &machineErr) {
		r.logger.Error("Machine halted", log.Err(err))
		return
	}

	r.logger.Error("Machine halted",
		log.Hex("pc", machineErr.PC),
		log.Hex("opcode", machineErr.Opcode),
		log.Stringer("instruction", machineErr.Instruction),
		log.Err(machineErr.Err))
}
