package machine

import (
	"errors"
	"fmt"

	"github.com/retroenv/retrochip8/internal/arch/chip8"
)

// Errors returned by the machine. All of them are caused by the running
// program and are fatal to the emulation session.
var (
	ErrInvalidInstruction = errors.New("invalid instruction")
	ErrStackOverflow      = errors.New("stack overflow")
	ErrStackUnderflow     = errors.New("stack underflow")
	ErrInvalidKey         = errors.New("invalid key")
	ErrProgramTooLarge    = errors.New("program too large")
)

// Error describes a failed tick. It wraps one of the machine errors and
// carries the location of the instruction that caused it.
type Error struct {
	PC          uint16            // address of the failing instruction
	Opcode      uint16            // raw opcode fetched at PC
	Instruction chip8.Instruction // decoded instruction
	Err         error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%03x: %04x %s: %s", e.PC, e.Opcode, e.Instruction, e.Err)
}

// Unwrap returns the machine error kind.
func (e *Error) Unwrap() error {
	return e.Err
}
