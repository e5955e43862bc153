// Package machine implements the CHIP-8 virtual machine: registers, memory,
// stack, timers, the framebuffer and the fetch-decode-execute cycle.
package machine

import (
	"fmt"
	"math/bits"
	"math/rand/v2"

	"github.com/retroenv/retrochip8/internal/arch/chip8"
)

const (
	// MemorySize is the size of the addressable memory in bytes.
	MemorySize = 0x1000

	// RegisterCount is the number of general purpose registers V0-VF.
	RegisterCount = 16

	// StackSize is the maximum number of nested subroutine calls.
	StackSize = 16

	// MaxProgramSize is the largest program that fits into memory.
	MaxProgramSize = MemorySize - chip8.ProgramStart

	// KeyCount is the number of keys of the hexadecimal keypad.
	KeyCount = 16

	flagRegister = 0xF
	addressMask  = 0x0FFF
)

// Machine is a CHIP-8 virtual machine. It is not safe for concurrent use,
// the caller drives it by calling Tick and reads the framebuffer in between.
type Machine struct {
	opts options
	seed uint64
	rng  *rand.Rand

	registers [RegisterCount]uint8
	index     uint16 // address register I
	pc        uint16
	stack     [StackSize]uint16
	sp        int

	memory [MemorySize]byte

	delayTimer uint8
	soundTimer uint8

	waiting     bool  // blocked until a key gets pressed
	waitingFor  uint8 // register that receives the pressed key
	framebuffer Framebuffer
}

// New returns a new machine in its initial state. The seed initializes the
// random number generator used by the random instruction, machines created
// with the same seed produce the same random sequence.
func New(seed uint64, opts ...Option) *Machine {
	m := &Machine{seed: seed}
	for _, opt := range opts {
		opt(&m.opts)
	}
	m.Reset()
	return m
}

// Reset restores the initial state: memory, registers, timers, stack and
// framebuffer are cleared, the font is installed and the random number
// generator is reseeded.
func (m *Machine) Reset() {
	m.registers = [RegisterCount]uint8{}
	m.index = 0
	m.pc = chip8.ProgramStart
	m.stack = [StackSize]uint16{}
	m.sp = 0
	m.memory = [MemorySize]byte{}
	copy(m.memory[FontAddress:], fontSet[:])
	m.delayTimer = 0
	m.soundTimer = 0
	m.waiting = false
	m.waitingFor = 0
	m.framebuffer.Clear()
	m.rng = rand.New(rand.NewPCG(m.seed, m.seed^0x9E3779B97F4A7C15))
}

// Load copies the program into memory at the program start address.
func (m *Machine) Load(program []byte) error {
	if len(program) > MaxProgramSize {
		return fmt.Errorf("%w: %d bytes exceed the available %d bytes",
			ErrProgramTooLarge, len(program), MaxProgramSize)
	}
	copy(m.memory[chip8.ProgramStart:], program)
	return nil
}

// Tick executes a single instruction. keys contains the state of the
// keypad, bit i is set while key i is held down.
//
// While the machine waits for a key press, a tick without any key pressed
// has no effect. A tick with a key pressed stores the lowest pressed key in
// the waiting register and executes the next instruction.
//
// A failed tick returns an *Error that wraps one of the machine errors,
// the machine state is undefined afterwards.
func (m *Machine) Tick(keys uint16) error {
	if m.waiting {
		if keys == 0 {
			return nil
		}
		m.registers[m.waitingFor] = uint8(bits.TrailingZeros16(keys))
		m.waiting = false
	}

	opcode := m.fetch()
	if opcode == 0 && !m.opts.strictZero {
		return nil // halt in place on zero filled memory
	}

	m.decrementTimers()

	ins := chip8.Decode(opcode)
	if m.opts.trace != nil {
		m.opts.trace(m.pc, ins)
	}

	pc := m.pc
	jumped, err := m.execute(ins, keys)
	if err != nil {
		return &Error{
			PC:          pc,
			Opcode:      opcode,
			Instruction: ins,
			Err:         err,
		}
	}
	if !jumped {
		m.pc = (m.pc + chip8.OpcodeSize) & addressMask
	}
	return nil
}

// fetch reads the big-endian opcode at the program counter.
func (m *Machine) fetch() uint16 {
	high := m.memory[m.pc&addressMask]
	low := m.memory[(m.pc+1)&addressMask]
	return uint16(high)<<8 | uint16(low)
}

func (m *Machine) decrementTimers() {
	if m.delayTimer > 0 {
		m.delayTimer--
	}
	if m.soundTimer > 0 {
		m.soundTimer--
	}
}

// SoundActive returns whether the buzzer is on.
func (m *Machine) SoundActive() bool {
	return m.soundTimer > 0
}

// Framebuffer returns the screen of the machine. It must only be read
// between ticks.
func (m *Machine) Framebuffer() *Framebuffer {
	return &m.framebuffer
}

// Memory returns the memory of the machine for direct access.
func (m *Machine) Memory() []byte {
	return m.memory[:]
}

// Registers returns a copy of the registers V0-VF.
func (m *Machine) Registers() [RegisterCount]uint8 {
	return m.registers
}

// Register returns the value of register Vx, only the low nibble of x is used.
func (m *Machine) Register(x uint8) uint8 {
	return m.registers[x&0xF]
}

// SetRegister sets register Vx, only the low nibble of x is used.
func (m *Machine) SetRegister(x, value uint8) {
	m.registers[x&0xF] = value
}

// PC returns the program counter.
func (m *Machine) PC() uint16 {
	return m.pc
}

// SetPC sets the program counter.
func (m *Machine) SetPC(pc uint16) {
	m.pc = pc & addressMask
}

// I returns the address register.
func (m *Machine) I() uint16 {
	return m.index
}

// SP returns the number of return addresses on the stack.
func (m *Machine) SP() int {
	return m.sp
}

// DelayTimer returns the value of the delay timer.
func (m *Machine) DelayTimer() uint8 {
	return m.delayTimer
}

// SoundTimer returns the value of the sound timer.
func (m *Machine) SoundTimer() uint8 {
	return m.soundTimer
}

// WaitingForKey returns the register that receives the next key press and
// whether the machine is currently waiting for one.
func (m *Machine) WaitingForKey() (uint8, bool) {
	return m.waitingFor, m.waiting
}
