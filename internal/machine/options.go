package machine

import (
	"github.com/retroenv/retrochip8/internal/arch/chip8"
)

// TraceFunc is called for every instruction before it gets executed.
type TraceFunc func(pc uint16, ins chip8.Instruction)

// Option configures a Machine.
type Option func(*options)

type options struct {
	drawMode   DrawMode
	strictZero bool
	trace      TraceFunc
}

// WithDrawMode sets how sprites crossing the screen edge are drawn,
// the default is DrawWrap.
func WithDrawMode(mode DrawMode) Option {
	return func(o *options) {
		o.drawMode = mode
	}
}

// WithStrictZeroOpcode makes the opcode 0x0000 fail with
// ErrInvalidInstruction instead of halting in place.
func WithStrictZeroOpcode() Option {
	return func(o *options) {
		o.strictZero = true
	}
}

// WithTrace sets a handler that gets called for every executed instruction.
func WithTrace(trace TraceFunc) Option {
	return func(o *options) {
		o.trace = trace
	}
}
