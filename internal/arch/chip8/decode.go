package chip8

// Decode maps a 16-bit opcode to its instruction. Decoding never fails,
// opcodes that match no known pattern decode to an instruction of
// KindInvalid.
func Decode(opcode uint16) Instruction {
	ins := Instruction{Opcode: opcode}

	x := extractRegisterX(opcode)
	y := extractRegisterY(opcode)
	n := uint8(opcode & 0x000F)
	kk := uint8(opcode & 0x00FF)
	addr := opcode & 0x0FFF

	switch opcode >> 12 {
	case 0x0:
		switch opcode {
		case 0x00E0:
			ins.Kind = KindClear
		case 0x00EE:
			ins.Kind = KindReturn
		}

	case 0x1:
		ins.Kind, ins.Addr = KindJump, addr

	case 0x2:
		ins.Kind, ins.Addr = KindCall, addr

	case 0x3:
		ins.Kind, ins.X, ins.Byte = KindSkipEqualByte, x, kk

	case 0x4:
		ins.Kind, ins.X, ins.Byte = KindSkipNotEqualByte, x, kk

	case 0x5:
		if n == 0 {
			ins.Kind, ins.X, ins.Y = KindSkipEqual, x, y
		}

	case 0x6:
		ins.Kind, ins.X, ins.Byte = KindLoadByte, x, kk

	case 0x7:
		ins.Kind, ins.X, ins.Byte = KindAddByte, x, kk

	case 0x8:
		if kind, ok := aluKinds[n]; ok {
			ins.Kind, ins.X, ins.Y = kind, x, y
		}

	case 0x9:
		if n == 0 {
			ins.Kind, ins.X, ins.Y = KindSkipNotEqual, x, y
		}

	case 0xA:
		ins.Kind, ins.Addr = KindLoadIndex, addr

	case 0xB:
		ins.Kind, ins.Addr = KindLoadIndexOffset, addr

	case 0xC:
		ins.Kind, ins.X, ins.Byte = KindRandom, x, kk

	case 0xD:
		ins.Kind, ins.X, ins.Y, ins.N = KindDraw, x, y, n

	case 0xE:
		switch kk {
		case 0x9E:
			ins.Kind, ins.X = KindSkipKeyPressed, x
		case 0xA1:
			ins.Kind, ins.X = KindSkipKeyNotPressed, x
		}

	case 0xF:
		if kind, ok := miscKinds[kk]; ok {
			ins.Kind, ins.X = kind, x
		}
	}

	return ins
}

// aluKinds maps the low nibble of 8xyN opcodes.
var aluKinds = map[uint8]Kind{
	0x0: KindMove,
	0x1: KindOr,
	0x2: KindAnd,
	0x3: KindXor,
	0x4: KindAdd,
	0x5: KindSub,
	0x6: KindShiftRight,
	0x7: KindSubReverse,
	0xE: KindShiftLeft,
}

// miscKinds maps the low byte of FxNN opcodes.
var miscKinds = map[uint8]Kind{
	0x07: KindLoadDelay,
	0x0A: KindWaitKey,
	0x15: KindSetDelay,
	0x18: KindSetSound,
	0x1E: KindAddIndex,
	0x29: KindLoadFont,
	0x33: KindStoreBCD,
	0x55: KindStoreRegisters,
	0x65: KindLoadRegisters,
}

// DecodeBytes decodes the big-endian opcode stored in the first two bytes
// of data. It returns false if data holds less than two bytes.
func DecodeBytes(data []byte) (Instruction, bool) {
	if len(data) < OpcodeSize {
		return Instruction{}, false
	}
	return Decode(uint16(data[0])<<8 | uint16(data[1])), true
}

// extractRegisterX extracts the X register nibble from a CHIP-8 opcode.
func extractRegisterX(opcode uint16) uint8 {
	return uint8((opcode & 0x0F00) >> 8)
}

// extractRegisterY extracts the Y register nibble from a CHIP-8 opcode.
func extractRegisterY(opcode uint16) uint8 {
	return uint8((opcode & 0x00F0) >> 4)
}
