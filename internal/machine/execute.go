package machine

import (
	"github.com/retroenv/retrochip8/internal/arch/chip8"
)

// execute evaluates the instruction. It returns true if the instruction
// set the program counter itself.
//
//nolint:funlen,cyclop // one case per instruction
func (m *Machine) execute(ins chip8.Instruction, keys uint16) (bool, error) {
	v := &m.registers

	switch ins.Kind {
	case chip8.KindClear:
		m.framebuffer.Clear()

	case chip8.KindReturn:
		if m.sp == 0 {
			return false, ErrStackUnderflow
		}
		m.sp--
		m.pc = m.stack[m.sp]
		return true, nil

	case chip8.KindJump:
		m.pc = ins.Addr
		return true, nil

	case chip8.KindCall:
		if m.sp == StackSize {
			return false, ErrStackOverflow
		}
		m.stack[m.sp] = (m.pc + chip8.OpcodeSize) & addressMask
		m.sp++
		m.pc = ins.Addr
		return true, nil

	case chip8.KindSkipEqualByte:
		return m.skipIf(v[ins.X] == ins.Byte), nil

	case chip8.KindSkipNotEqualByte:
		return m.skipIf(v[ins.X] != ins.Byte), nil

	case chip8.KindSkipEqual:
		return m.skipIf(v[ins.X] == v[ins.Y]), nil

	case chip8.KindSkipNotEqual:
		return m.skipIf(v[ins.X] != v[ins.Y]), nil

	case chip8.KindLoadByte:
		v[ins.X] = ins.Byte

	case chip8.KindAddByte:
		v[ins.X] += ins.Byte

	case chip8.KindMove:
		v[ins.X] = v[ins.Y]

	case chip8.KindOr:
		v[ins.X] |= v[ins.Y]

	case chip8.KindAnd:
		v[ins.X] &= v[ins.Y]

	case chip8.KindXor:
		v[ins.X] ^= v[ins.Y]

	case chip8.KindAdd:
		sum := uint16(v[ins.X]) + uint16(v[ins.Y])
		v[ins.X] = uint8(sum)
		v[flagRegister] = flag(sum > 0xFF)

	case chip8.KindSub:
		x, y := v[ins.X], v[ins.Y]
		v[ins.X] = x - y
		v[flagRegister] = flag(x >= y)

	case chip8.KindSubReverse:
		x, y := v[ins.X], v[ins.Y]
		v[ins.X] = y - x
		v[flagRegister] = flag(y >= x)

	case chip8.KindShiftRight:
		y := v[ins.Y]
		v[ins.X] = y >> 1
		v[flagRegister] = y & 0x01

	case chip8.KindShiftLeft:
		y := v[ins.Y]
		v[ins.X] = y << 1
		v[flagRegister] = y >> 7

	case chip8.KindLoadIndex:
		m.index = ins.Addr

	case chip8.KindLoadIndexOffset:
		m.index = (ins.Addr + uint16(v[0])) & addressMask

	case chip8.KindRandom:
		v[ins.X] = uint8(m.rng.Uint32()) & ins.Byte

	case chip8.KindDraw:
		m.draw(ins)

	case chip8.KindSkipKeyPressed, chip8.KindSkipKeyNotPressed:
		key := v[ins.X]
		if key >= KeyCount {
			return false, ErrInvalidKey
		}
		pressed := keys&(1<<key) != 0
		return m.skipIf(pressed == (ins.Kind == chip8.KindSkipKeyPressed)), nil

	case chip8.KindLoadDelay:
		v[ins.X] = m.delayTimer

	case chip8.KindWaitKey:
		m.waiting = true
		m.waitingFor = ins.X

	case chip8.KindSetDelay:
		m.delayTimer = v[ins.X]

	case chip8.KindSetSound:
		m.soundTimer = v[ins.X]

	case chip8.KindAddIndex:
		m.index = (m.index + uint16(v[ins.X])) & addressMask

	case chip8.KindLoadFont:
		m.index = GlyphAddress(v[ins.X])

	case chip8.KindStoreBCD:
		value := v[ins.X]
		m.write(m.index, value/100)
		m.write(m.index+1, value/10%10)
		m.write(m.index+2, value%10)

	case chip8.KindStoreRegisters:
		for r := range uint16(ins.X) + 1 {
			m.write(m.index+r, v[r])
		}
		m.index = (m.index + uint16(ins.X) + 1) & addressMask

	case chip8.KindLoadRegisters:
		for r := range uint16(ins.X) + 1 {
			v[r] = m.read(m.index + r)
		}
		m.index = (m.index + uint16(ins.X) + 1) & addressMask

	default:
		return false, ErrInvalidInstruction
	}

	return false, nil
}

// skipIf skips the next instruction if the condition is met. It returns
// whether the program counter was set.
func (m *Machine) skipIf(condition bool) bool {
	if !condition {
		return false
	}
	m.pc = (m.pc + 2*chip8.OpcodeSize) & addressMask
	return true
}

// draw reads the sprite rows starting at I and XORs them onto the
// framebuffer at Vx, Vy. VF is set when a lit pixel got turned off.
func (m *Machine) draw(ins chip8.Instruction) {
	var sprite [15]byte
	rows := sprite[:ins.N]
	for i := range rows {
		rows[i] = m.read(m.index + uint16(i))
	}

	x, y := int(m.registers[ins.X]), int(m.registers[ins.Y])
	var collision bool
	if m.opts.drawMode == DrawClip {
		collision = m.framebuffer.DrawClipped(x, y, rows)
	} else {
		collision = m.framebuffer.Draw(x, y, rows)
	}
	m.registers[flagRegister] = flag(collision)
}

func (m *Machine) read(address uint16) byte {
	return m.memory[address&addressMask]
}

func (m *Machine) write(address uint16, value byte) {
	m.memory[address&addressMask] = value
}

func flag(set bool) uint8 {
	if set {
		return 1
	}
	return 0
}
