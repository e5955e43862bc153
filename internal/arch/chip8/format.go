package chip8

import (
	"fmt"
)

// String returns the instruction in assembly notation, for example
// "ld V1, $2A". Invalid instructions are rendered as a .byte directive.
func (i Instruction) String() string {
	return i.format(formatAddress)
}

// format renders the instruction, using addr to render 12-bit address
// operands of jump and call instructions.
func (i Instruction) format(addr func(uint16) string) string {
	mnemonic := i.Mnemonic()
	if mnemonic == nil {
		return fmt.Sprintf(".byte $%02X, $%02X", i.Opcode>>8, i.Opcode&0xFF)
	}

	params := i.formatParams(addr)
	if params == "" {
		return mnemonic.Name
	}
	return mnemonic.Name + " " + params
}

func (i Instruction) formatParams(addr func(uint16) string) string {
	switch i.Kind {
	case KindClear, KindReturn:
		return ""

	case KindJump, KindCall:
		return addr(i.Addr)

	case KindSkipEqualByte, KindSkipNotEqualByte, KindLoadByte, KindAddByte, KindRandom:
		return fmt.Sprintf("V%X, $%02X", i.X, i.Byte)

	case KindSkipEqual, KindSkipNotEqual, KindMove, KindOr, KindAnd, KindXor,
		KindAdd, KindSub, KindSubReverse, KindShiftRight, KindShiftLeft:
		return fmt.Sprintf("V%X, V%X", i.X, i.Y)

	case KindLoadIndex:
		return "I, " + formatAddress(i.Addr)

	case KindLoadIndexOffset:
		return "I, V0+" + formatAddress(i.Addr)

	case KindDraw:
		return fmt.Sprintf("V%X, V%X, $%X", i.X, i.Y, i.N)

	case KindSkipKeyPressed, KindSkipKeyNotPressed:
		return fmt.Sprintf("V%X", i.X)

	case KindLoadDelay:
		return fmt.Sprintf("V%X, DT", i.X)
	case KindWaitKey:
		return fmt.Sprintf("V%X, K", i.X)
	case KindSetDelay:
		return fmt.Sprintf("DT, V%X", i.X)
	case KindSetSound:
		return fmt.Sprintf("ST, V%X", i.X)
	case KindAddIndex:
		return fmt.Sprintf("I, V%X", i.X)
	case KindLoadFont:
		return fmt.Sprintf("F, V%X", i.X)
	case KindStoreBCD:
		return fmt.Sprintf("B, V%X", i.X)
	case KindStoreRegisters:
		return fmt.Sprintf("[I], V%X", i.X)
	case KindLoadRegisters:
		return fmt.Sprintf("V%X, [I]", i.X)
	}
	return ""
}

func formatAddress(address uint16) string {
	return fmt.Sprintf("$%03X", address)
}
