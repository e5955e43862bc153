// Package chip8 provides CHIP-8 instruction decoding and listing support.
//
// # Instruction Set
//
// CHIP-8 instructions are 2 bytes (16 bits), stored big-endian. An opcode is
// described by its four nibbles n0n1n2n3:
//   - n0 selects the instruction group
//   - n1 and n2 hold the register indices X and Y
//   - the low byte holds an 8-bit immediate, the low 12 bits an address
//
// Groups 0x0, 0x5, 0x8, 0x9, 0xE and 0xF contain several instructions and
// are further dispatched on the low nibble or the low byte.
//
// # Decoding
//
// Decode is a total function: every 16-bit value maps to exactly one
// Instruction. Opcodes that match no known pattern decode to KindInvalid,
// it is up to the caller to reject them. Decoding has no side effects and
// can be used speculatively, for example to describe the instruction at a
// failing program counter.
//
// # Usage Example
//
//	ins := chip8.Decode(0x6A2F)
//	fmt.Println(ins.Kind, ins.X, ins.Byte) // load_byte 10 47
//	fmt.Println(ins)                       // ld VA, $2F
//
// # Listings
//
// Disassembler writes an assembly listing of a program image, labelling
// jump and call destinations:
//
//	dis := chip8.NewDisassembler(chip8.ProgramStart)
//	if err := dis.Write(os.Stdout, program); err != nil {
//		return fmt.Errorf("writing listing: %w", err)
//	}
package chip8
