package chip8

import (
	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Kind identifies the variant of a decoded instruction.
type Kind uint8

// Instruction kinds. The comment of each kind shows the opcode pattern it is
// decoded from.
const (
	KindInvalid Kind = iota

	KindClear             // 00E0
	KindReturn            // 00EE
	KindJump              // 1nnn
	KindCall              // 2nnn
	KindSkipEqualByte     // 3xkk
	KindSkipNotEqualByte  // 4xkk
	KindSkipEqual         // 5xy0
	KindLoadByte          // 6xkk
	KindAddByte           // 7xkk
	KindMove              // 8xy0
	KindOr                // 8xy1
	KindAnd               // 8xy2
	KindXor               // 8xy3
	KindAdd               // 8xy4
	KindSub               // 8xy5
	KindShiftRight        // 8xy6
	KindSubReverse        // 8xy7
	KindShiftLeft         // 8xyE
	KindSkipNotEqual      // 9xy0
	KindLoadIndex         // Annn
	KindLoadIndexOffset   // Bnnn
	KindRandom            // Cxkk
	KindDraw              // Dxyn
	KindSkipKeyPressed    // Ex9E
	KindSkipKeyNotPressed // ExA1
	KindLoadDelay         // Fx07
	KindWaitKey           // Fx0A
	KindSetDelay          // Fx15
	KindSetSound          // Fx18
	KindAddIndex          // Fx1E
	KindLoadFont          // Fx29
	KindStoreBCD          // Fx33
	KindStoreRegisters    // Fx55
	KindLoadRegisters     // Fx65
	kindCount
)

type kindInfo struct {
	name     string
	mnemonic *chip8.Instruction
}

var kinds = [kindCount]kindInfo{
	KindInvalid:           {"invalid", nil},
	KindClear:             {"clear", chip8.ClsInst},
	KindReturn:            {"return", chip8.RetInst},
	KindJump:              {"jump", chip8.JpInst},
	KindCall:              {"call", chip8.CallInst},
	KindSkipEqualByte:     {"skip_equal_byte", chip8.SeInst},
	KindSkipNotEqualByte:  {"skip_not_equal_byte", chip8.SneInst},
	KindSkipEqual:         {"skip_equal", chip8.SeInst},
	KindLoadByte:          {"load_byte", chip8.LdInst},
	KindAddByte:           {"add_byte", chip8.AddInst},
	KindMove:              {"move", chip8.LdInst},
	KindOr:                {"or", chip8.OrInst},
	KindAnd:               {"and", chip8.AndInst},
	KindXor:               {"xor", chip8.XorInst},
	KindAdd:               {"add", chip8.AddInst},
	KindSub:               {"sub", chip8.SubInst},
	KindShiftRight:        {"shift_right", chip8.ShrInst},
	KindSubReverse:        {"sub_reverse", chip8.SubnInst},
	KindShiftLeft:         {"shift_left", chip8.ShlInst},
	KindSkipNotEqual:      {"skip_not_equal", chip8.SneInst},
	KindLoadIndex:         {"load_index", chip8.LdInst},
	KindLoadIndexOffset:   {"load_index_offset", chip8.LdInst},
	KindRandom:            {"random", chip8.RndInst},
	KindDraw:              {"draw", chip8.DrwInst},
	KindSkipKeyPressed:    {"skip_key_pressed", chip8.SkpInst},
	KindSkipKeyNotPressed: {"skip_key_not_pressed", chip8.SknpInst},
	KindLoadDelay:         {"load_delay", chip8.LdInst},
	KindWaitKey:           {"wait_key", chip8.LdInst},
	KindSetDelay:          {"set_delay", chip8.LdInst},
	KindSetSound:          {"set_sound", chip8.LdInst},
	KindAddIndex:          {"add_index", chip8.AddInst},
	KindLoadFont:          {"load_font", chip8.LdInst},
	KindStoreBCD:          {"store_bcd", chip8.LdInst},
	KindStoreRegisters:    {"store_registers", chip8.LdInst},
	KindLoadRegisters:     {"load_registers", chip8.LdInst},
}

// String returns the name of the kind.
func (k Kind) String() string {
	if k >= kindCount {
		return kinds[KindInvalid].name
	}
	return kinds[k].name
}

// Instruction is a decoded CHIP-8 instruction. Kind selects the variant,
// only the operand fields used by that variant are set.
type Instruction struct {
	Kind   Kind
	Opcode uint16 // raw opcode the instruction was decoded from

	X    uint8  // first register index
	Y    uint8  // second register index
	N    uint8  // 4-bit sprite height
	Byte uint8  // 8-bit immediate
	Addr uint16 // 12-bit address
}

// Valid returns whether the instruction decoded to a known variant.
func (i Instruction) Valid() bool {
	return i.Kind != KindInvalid && i.Kind < kindCount
}

// Mnemonic returns the retrogolib instruction definition that names this
// instruction in assembly listings, nil for invalid instructions.
func (i Instruction) Mnemonic() *chip8.Instruction {
	if !i.Valid() {
		return nil
	}
	return kinds[i.Kind].mnemonic
}

// IsJump returns true if the instruction is an unconditional jump.
func (i Instruction) IsJump() bool {
	return i.Kind == KindJump
}

// IsCall returns true if the instruction is a subroutine call.
func (i Instruction) IsCall() bool {
	return i.Kind == KindCall
}

// IsReturn returns true if the instruction returns from a subroutine.
func (i Instruction) IsReturn() bool {
	return i.Kind == KindReturn
}

// IsSkip returns true if the instruction is a conditional skip instruction.
func (i Instruction) IsSkip() bool {
	switch i.Kind {
	case KindSkipEqualByte, KindSkipNotEqualByte, KindSkipEqual, KindSkipNotEqual,
		KindSkipKeyPressed, KindSkipKeyNotPressed:
		return true
	default:
		return false
	}
}
