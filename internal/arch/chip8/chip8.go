package chip8

// CHIP-8 memory layout constants.
//
// CHIP-8 memory map (4KB total):
//
//	0x000-0x1FF: Interpreter and font data (512 bytes)
//	0x200-0xFFF: User program space (3584 bytes)
const (
	// ProgramStart is the memory address where CHIP-8 programs are loaded
	// and begin execution.
	ProgramStart = 0x200

	// MaxAddress is the highest valid address in CHIP-8 memory space (4KB total).
	MaxAddress = 0xFFF

	// OpcodeSize is the size of CHIP-8 instructions in bytes.
	OpcodeSize = 2
)
