package machine

import (
	"errors"
	"testing"

	"github.com/retroenv/retrochip8/internal/arch/chip8"
	"github.com/retroenv/retrogolib/assert"
)

// newTestMachine returns a machine with the given opcodes loaded at the
// program start address.
func newTestMachine(t *testing.T, opcodes ...uint16) *Machine {
	t.Helper()
	m := New(1)
	loadOpcodes(t, m, chip8.ProgramStart, opcodes...)
	return m
}

func loadOpcodes(t *testing.T, m *Machine, address uint16, opcodes ...uint16) {
	t.Helper()
	mem := m.Memory()
	for i, op := range opcodes {
		mem[int(address)+2*i] = byte(op >> 8)
		mem[int(address)+2*i+1] = byte(op)
	}
}

func runTicks(t *testing.T, m *Machine, count int) {
	t.Helper()
	for range count {
		assert.NoError(t, m.Tick(0))
	}
}

func TestNew(t *testing.T) {
	m := New(0)

	assert.Equal(t, uint16(chip8.ProgramStart), m.PC())
	assert.Equal(t, uint16(0), m.I())
	assert.Equal(t, 0, m.SP())
	assert.Equal(t, [RegisterCount]uint8{}, m.Registers())
	assert.Equal(t, uint8(0), m.DelayTimer())
	assert.Equal(t, uint8(0), m.SoundTimer())
	assert.False(t, m.SoundActive())
	_, waiting := m.WaitingForKey()
	assert.False(t, waiting)
	assert.Len(t, m.Memory(), MemorySize)
	assert.Equal(t, fontSet[:], m.Memory()[FontAddress:FontAddress+len(fontSet)])
	assert.Equal(t, byte(0), m.Memory()[FontAddress-1])
}

func TestLoad(t *testing.T) {
	m := New(0)
	assert.NoError(t, m.Load([]byte{0x60, 0x2A}))
	assert.Equal(t, byte(0x60), m.Memory()[0x200])
	assert.Equal(t, byte(0x2A), m.Memory()[0x201])

	assert.NoError(t, m.Load(make([]byte, MaxProgramSize)))

	err := m.Load(make([]byte, MaxProgramSize+1))
	assert.True(t, errors.Is(err, ErrProgramTooLarge))
}

func TestReset(t *testing.T) {
	m := newTestMachine(t, 0x6A42, 0xA300, 0x2300)
	runTicks(t, m, 3)
	m.Framebuffer().Draw(0, 0, []byte{0xFF})

	m.Reset()

	assert.Equal(t, uint16(chip8.ProgramStart), m.PC())
	assert.Equal(t, uint8(0), m.Register(0xA))
	assert.Equal(t, uint16(0), m.I())
	assert.Equal(t, 0, m.SP())
	assert.Equal(t, byte(0), m.Memory()[0x200])
	assert.False(t, m.Framebuffer().Get(0, 0))
	assert.Equal(t, fontSet[0], m.Memory()[FontAddress])
}

func TestLoadByteAndAddByte(t *testing.T) {
	m := newTestMachine(t, 0x6AFF, 0x7A02, 0x7A01)

	runTicks(t, m, 1)
	assert.Equal(t, uint8(0xFF), m.Register(0xA))

	runTicks(t, m, 1)
	assert.Equal(t, uint8(0x01), m.Register(0xA))
	assert.Equal(t, uint8(0), m.Register(0xF)) // add byte does not touch the flag

	runTicks(t, m, 1)
	assert.Equal(t, uint8(0x02), m.Register(0xA))
	assert.Equal(t, uint16(0x206), m.PC())
}

func TestAdd(t *testing.T) {
	m := newTestMachine(t, 0x61A1, 0x6242, 0x8124, 0x8124)
	runTicks(t, m, 3)
	assert.Equal(t, uint8(0xE3), m.Register(1))
	assert.Equal(t, uint8(0), m.Register(0xF))

	runTicks(t, m, 1)
	assert.Equal(t, uint8(0x25), m.Register(1))
	assert.Equal(t, uint8(1), m.Register(0xF))
}

func TestSub(t *testing.T) {
	tests := []struct {
		name  string
		x, y  uint8
		want  uint8
		flagV uint8
	}{
		{"no borrow", 0xA1, 0x43, 0x5E, 1},
		{"borrow", 0x43, 0xA1, 0xA2, 0},
		{"equal", 0x10, 0x10, 0x00, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMachine(t, 0x8125)
			m.SetRegister(1, tt.x)
			m.SetRegister(2, tt.y)
			runTicks(t, m, 1)
			assert.Equal(t, tt.want, m.Register(1))
			assert.Equal(t, tt.flagV, m.Register(0xF))
		})
	}
}

func TestSubReverse(t *testing.T) {
	m := newTestMachine(t, 0x8127, 0x8127)
	m.SetRegister(1, 0x43)
	m.SetRegister(2, 0xA1)

	runTicks(t, m, 1)
	assert.Equal(t, uint8(0x5E), m.Register(1))
	assert.Equal(t, uint8(1), m.Register(0xF))

	m.SetRegister(1, 0xA1)
	m.SetRegister(2, 0x43)
	runTicks(t, m, 1)
	assert.Equal(t, uint8(0xA2), m.Register(1))
	assert.Equal(t, uint8(0), m.Register(0xF))
}

func TestShift(t *testing.T) {
	tests := []struct {
		name    string
		opcode  uint16
		x, y    uint8
		wantX   uint8
		wantVF  uint8
		destReg uint8
	}{
		{"right from other register", 0x8126, 0x00, 0x05, 0x02, 1, 1},
		{"right without carry", 0x8126, 0xFF, 0x04, 0x02, 0, 1},
		{"right into itself", 0x8116, 0x03, 0x03, 0x01, 1, 1},
		{"left from other register", 0x812E, 0x00, 0x81, 0x02, 1, 1},
		{"left without carry", 0x812E, 0xFF, 0x41, 0x82, 0, 1},
		{"left into itself", 0x811E, 0xC0, 0xC0, 0x80, 1, 1},
		{"right into flag register", 0x8F26, 0x00, 0x04, 0x00, 0, 0xF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMachine(t, tt.opcode)
			ins := chip8.Decode(tt.opcode)
			m.SetRegister(ins.X, tt.x)
			m.SetRegister(ins.Y, tt.y)
			runTicks(t, m, 1)
			if tt.destReg != 0xF {
				assert.Equal(t, tt.wantX, m.Register(tt.destReg))
			}
			assert.Equal(t, tt.wantVF, m.Register(0xF))
		})
	}
}

func TestLogic(t *testing.T) {
	tests := []struct {
		name   string
		opcode uint16
		want   uint8
	}{
		{"move", 0x8120, 0x3C},
		{"or", 0x8121, 0xFC},
		{"and", 0x8122, 0x0C},
		{"xor", 0x8123, 0xF0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMachine(t, tt.opcode)
			m.SetRegister(1, 0xCC)
			m.SetRegister(2, 0x3C)
			m.SetRegister(0xF, 0x7)
			runTicks(t, m, 1)
			assert.Equal(t, tt.want, m.Register(1))
			assert.Equal(t, uint8(0x3C), m.Register(2))
			assert.Equal(t, uint8(0x7), m.Register(0xF))
		})
	}
}

func TestSkip(t *testing.T) {
	tests := []struct {
		name   string
		opcode uint16
		v1, v2 uint8
		keys   uint16
		wantPC uint16
	}{
		{"equal byte taken", 0x3142, 0x42, 0, 0, 0x204},
		{"equal byte not taken", 0x3142, 0x41, 0, 0, 0x202},
		{"not equal byte taken", 0x4142, 0x41, 0, 0, 0x204},
		{"not equal byte not taken", 0x4142, 0x42, 0, 0, 0x202},
		{"equal registers taken", 0x5120, 0x10, 0x10, 0, 0x204},
		{"equal registers not taken", 0x5120, 0x10, 0x11, 0, 0x202},
		{"not equal registers taken", 0x9120, 0x10, 0x11, 0, 0x204},
		{"not equal registers not taken", 0x9120, 0x10, 0x10, 0, 0x202},
		{"key pressed taken", 0xE19E, 0x0A, 0, 1 << 0xA, 0x204},
		{"key pressed not taken", 0xE19E, 0x0A, 0, 1 << 0xB, 0x202},
		{"key not pressed taken", 0xE1A1, 0x0A, 0, 1 << 0xB, 0x204},
		{"key not pressed not taken", 0xE1A1, 0x0A, 0, 1 << 0xA, 0x202},
		{"key F pressed", 0xE19E, 0x0F, 0, 0x8000, 0x204},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMachine(t, tt.opcode)
			m.SetRegister(1, tt.v1)
			m.SetRegister(2, tt.v2)
			assert.NoError(t, m.Tick(tt.keys))
			assert.Equal(t, tt.wantPC, m.PC())
		})
	}
}

func TestInvalidKey(t *testing.T) {
	for _, opcode := range []uint16{0xE19E, 0xE1A1} {
		m := newTestMachine(t, opcode)
		m.SetRegister(1, 0x10)

		err := m.Tick(0xFFFF)
		assert.True(t, errors.Is(err, ErrInvalidKey))

		var tickErr *Error
		assert.True(t, errors.As(err, &tickErr))
		assert.Equal(t, uint16(0x200), tickErr.PC)
		assert.Equal(t, opcode, tickErr.Opcode)
	}
}

func TestJump(t *testing.T) {
	m := newTestMachine(t, 0x1ABC)
	runTicks(t, m, 1)
	assert.Equal(t, uint16(0xABC), m.PC())
}

func TestCallAndReturn(t *testing.T) {
	m := newTestMachine(t, 0x2300)
	loadOpcodes(t, m, 0x300, 0x00EE)

	runTicks(t, m, 1)
	assert.Equal(t, uint16(0x300), m.PC())
	assert.Equal(t, 1, m.SP())

	runTicks(t, m, 1)
	assert.Equal(t, uint16(0x202), m.PC())
	assert.Equal(t, 0, m.SP())
}

func TestStackLimits(t *testing.T) {
	// 0x200 calls 0x300, which calls itself, its return address 0x302
	// holds a return instruction.
	m := newTestMachine(t, 0x2300)
	loadOpcodes(t, m, 0x300, 0x2300, 0x00EE)

	runTicks(t, m, StackSize)
	assert.Equal(t, StackSize, m.SP())
	assert.Equal(t, uint16(0x300), m.PC())

	err := m.Tick(0)
	assert.True(t, errors.Is(err, ErrStackOverflow))

	m.SetPC(0x302)
	runTicks(t, m, StackSize)
	assert.Equal(t, 0, m.SP())
	assert.Equal(t, uint16(0x202), m.PC())

	loadOpcodes(t, m, 0x202, 0x00EE)
	err = m.Tick(0)
	assert.True(t, errors.Is(err, ErrStackUnderflow))
}

func TestIndexInstructions(t *testing.T) {
	m := newTestMachine(t, 0xA123, 0x6010, 0xB456, 0x61FF, 0xF11E, 0xAFFF, 0xF11E)

	runTicks(t, m, 1)
	assert.Equal(t, uint16(0x123), m.I())

	runTicks(t, m, 2)
	assert.Equal(t, uint16(0x466), m.I())

	runTicks(t, m, 2)
	assert.Equal(t, uint16(0x565), m.I())

	runTicks(t, m, 2)
	assert.Equal(t, uint16(0x0FE), m.I()) // stays within 12 bits
}

func TestLoadFont(t *testing.T) {
	for digit := range uint8(16) {
		m := newTestMachine(t, 0xF329)
		m.SetRegister(3, digit)
		runTicks(t, m, 1)
		assert.Equal(t, uint16(FontAddress+5*uint16(digit)), m.I())
		assert.Equal(t, fontSet[5*int(digit)], m.Memory()[m.I()])
	}
}

func TestStoreBCD(t *testing.T) {
	tests := []struct {
		value uint8
		want  []byte
	}{
		{0, []byte{0, 0, 0}},
		{7, []byte{0, 0, 7}},
		{42, []byte{0, 4, 2}},
		{137, []byte{1, 3, 7}},
		{255, []byte{2, 5, 5}},
	}

	for _, tt := range tests {
		m := newTestMachine(t, 0xA400, 0xF533)
		m.SetRegister(5, tt.value)
		runTicks(t, m, 2)
		assert.Equal(t, tt.want, m.Memory()[0x400:0x403])
		assert.Equal(t, uint16(0x400), m.I())
	}
}

func TestStoreAndLoadRegisters(t *testing.T) {
	m := newTestMachine(t, 0xA400, 0xF355, 0xA400, 0xF265)
	for r := range uint8(4) {
		m.SetRegister(r, 0x10+r)
	}

	runTicks(t, m, 2)
	assert.Equal(t, []byte{0x10, 0x11, 0x12, 0x13, 0x00}, m.Memory()[0x400:0x405])
	assert.Equal(t, uint16(0x404), m.I())

	for r := range uint8(4) {
		m.SetRegister(r, 0)
	}
	runTicks(t, m, 2)
	assert.Equal(t, uint8(0x10), m.Register(0))
	assert.Equal(t, uint8(0x11), m.Register(1))
	assert.Equal(t, uint8(0x12), m.Register(2))
	assert.Equal(t, uint8(0), m.Register(3))
	assert.Equal(t, uint16(0x403), m.I())
}

func TestRandom(t *testing.T) {
	program := []uint16{0xC0FF, 0xC1FF, 0xC20F, 0xC300}

	m1 := newTestMachine(t, program...)
	m2 := newTestMachine(t, program...)
	runTicks(t, m1, len(program))
	runTicks(t, m2, len(program))

	assert.Equal(t, m1.Registers(), m2.Registers())
	assert.True(t, m1.Register(2) <= 0x0F)
	assert.Equal(t, uint8(0), m1.Register(3))

	m1.Reset()
	loadOpcodes(t, m1, chip8.ProgramStart, program...)
	runTicks(t, m1, len(program))
	assert.Equal(t, m2.Registers(), m1.Registers())
}

func TestTimers(t *testing.T) {
	m := newTestMachine(t, 0x6A03, 0xFA15, 0xFA18, 0xF107, 0x1208)

	runTicks(t, m, 3)
	assert.Equal(t, uint8(2), m.DelayTimer()) // decremented before the sound timer got set
	assert.Equal(t, uint8(3), m.SoundTimer())
	assert.True(t, m.SoundActive())

	runTicks(t, m, 1)
	assert.Equal(t, uint8(1), m.Register(1)) // delay decremented twice before read
	assert.Equal(t, uint8(2), m.SoundTimer())

	runTicks(t, m, 2)
	assert.Equal(t, uint8(0), m.DelayTimer())
	assert.Equal(t, uint8(0), m.SoundTimer())
	assert.False(t, m.SoundActive())

	runTicks(t, m, 5)
	assert.Equal(t, uint8(0), m.DelayTimer())
}

func TestWaitKey(t *testing.T) {
	m := newTestMachine(t, 0x6A0A, 0xFA15, 0xF30A, 0x6105)
	runTicks(t, m, 3)

	reg, waiting := m.WaitingForKey()
	assert.True(t, waiting)
	assert.Equal(t, uint8(3), reg)
	assert.Equal(t, uint16(0x206), m.PC())
	assert.Equal(t, uint8(9), m.DelayTimer())

	registers := m.Registers()
	for range 3 {
		assert.NoError(t, m.Tick(0))
	}
	assert.Equal(t, registers, m.Registers())
	assert.Equal(t, uint16(0x206), m.PC())
	assert.Equal(t, uint8(9), m.DelayTimer()) // timers pause while waiting

	assert.NoError(t, m.Tick(1<<2|1<<7))
	_, waiting = m.WaitingForKey()
	assert.False(t, waiting)
	assert.Equal(t, uint8(2), m.Register(3))
	assert.Equal(t, uint8(5), m.Register(1))
	assert.Equal(t, uint16(0x208), m.PC())
	assert.Equal(t, uint8(8), m.DelayTimer())
}

func TestDraw(t *testing.T) {
	m := newTestMachine(t, 0xA300, 0xD011, 0xD011)
	m.Memory()[0x300] = 0x5A

	runTicks(t, m, 2)
	fb := m.Framebuffer()
	for x, on := range []bool{false, true, false, true, true, false, true, false} {
		assert.Equal(t, on, fb.Get(x, 0), "pixel %d", x)
	}
	assert.Equal(t, uint8(0), m.Register(0xF))

	runTicks(t, m, 1)
	for x := range 8 {
		assert.False(t, fb.Get(x, 0))
	}
	assert.Equal(t, uint8(1), m.Register(0xF))
	assert.Equal(t, uint16(0x300), m.I())
}

func TestDrawZeroRows(t *testing.T) {
	m := newTestMachine(t, 0xD010)
	m.SetRegister(0xF, 1)
	runTicks(t, m, 1)
	assert.Equal(t, uint8(0), m.Register(0xF))
	assert.Equal(t, uint16(0x202), m.PC())
}

func TestDrawModes(t *testing.T) {
	program := []uint16{0x603C, 0x611F, 0xA300, 0xD012}

	t.Run("wrap", func(t *testing.T) {
		m := newTestMachine(t, program...)
		m.Memory()[0x300] = 0xFF
		m.Memory()[0x301] = 0xFF
		runTicks(t, m, len(program))

		fb := m.Framebuffer()
		assert.True(t, fb.Get(63, 31))
		assert.True(t, fb.Get(0, 31))
		assert.True(t, fb.Get(3, 0))
		assert.False(t, fb.Get(4, 0))
	})

	t.Run("clip", func(t *testing.T) {
		m := New(1, WithDrawMode(DrawClip))
		loadOpcodes(t, m, chip8.ProgramStart, program...)
		m.Memory()[0x300] = 0xFF
		m.Memory()[0x301] = 0xFF
		runTicks(t, m, len(program))

		fb := m.Framebuffer()
		assert.True(t, fb.Get(60, 31))
		assert.True(t, fb.Get(63, 31))
		assert.False(t, fb.Get(0, 31))
		assert.False(t, fb.Get(3, 0))
	})
}

func TestClear(t *testing.T) {
	m := newTestMachine(t, 0x00E0)
	m.Framebuffer().Draw(10, 10, []byte{0xFF})
	runTicks(t, m, 1)
	assert.Equal(t, uint64(0), m.Framebuffer().Row(10))
}

func TestInvalidInstruction(t *testing.T) {
	m := newTestMachine(t, 0x6001, 0x8008)

	runTicks(t, m, 1)
	err := m.Tick(0)
	assert.True(t, errors.Is(err, ErrInvalidInstruction))

	var tickErr *Error
	assert.True(t, errors.As(err, &tickErr))
	assert.Equal(t, uint16(0x202), tickErr.PC)
	assert.Equal(t, uint16(0x8008), tickErr.Opcode)
	assert.Equal(t, chip8.KindInvalid, tickErr.Instruction.Kind)
	assert.ErrorContains(t, err, "202: 8008")
}

func TestZeroOpcode(t *testing.T) {
	t.Run("halts in place", func(t *testing.T) {
		m := newTestMachine(t, 0xFA15, 0x0000)
		m.SetRegister(0xA, 5)
		runTicks(t, m, 1)

		runTicks(t, m, 10)
		assert.Equal(t, uint16(0x202), m.PC())
		assert.Equal(t, uint8(5), m.DelayTimer())
	})

	t.Run("strict", func(t *testing.T) {
		m := New(1, WithStrictZeroOpcode())
		err := m.Tick(0)
		assert.True(t, errors.Is(err, ErrInvalidInstruction))
	})
}

func TestTrace(t *testing.T) {
	var traced []uint16
	m := New(1, WithTrace(func(pc uint16, ins chip8.Instruction) {
		traced = append(traced, pc)
		assert.True(t, ins.Valid())
	}))
	loadOpcodes(t, m, chip8.ProgramStart, 0x6001, 0x1200)

	runTicks(t, m, 3)
	assert.Equal(t, []uint16{0x200, 0x202, 0x200}, traced)
}
