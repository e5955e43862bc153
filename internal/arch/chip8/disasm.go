package chip8

import (
	"fmt"
	"io"

	"github.com/retroenv/retrogolib/set"
)

// Disassembler writes assembly listings of CHIP-8 program images.
type Disassembler struct {
	base               uint16
	branchDestinations set.Set[uint16] // set of all addresses that are jumped to or called
}

// NewDisassembler returns a disassembler for a program image that is loaded
// at the given base address.
func NewDisassembler(base uint16) *Disassembler {
	return &Disassembler{
		base:               base,
		branchDestinations: set.New[uint16](),
	}
}

// Write writes the listing of the program to w. Every two-byte word is
// listed as an instruction, words that do not decode are written as .byte
// directives. Jump and call destinations inside the program get a label.
func (d *Disassembler) Write(w io.Writer, program []byte) error {
	d.branchDestinations.Clear()
	d.collectBranchDestinations(program)

	if _, err := fmt.Fprintf(w, "; CHIP-8 program listing\n"); err != nil {
		return fmt.Errorf("writing header comment: %w", err)
	}
	if _, err := fmt.Fprintf(w, ".org $%03X\n\n", d.base); err != nil {
		return fmt.Errorf("writing org directive: %w", err)
	}

	for offset := 0; offset < len(program); offset += OpcodeSize {
		address := d.base + uint16(offset)

		if d.branchDestinations.Contains(address) {
			if _, err := fmt.Fprintf(w, "%s:\n", labelName(address)); err != nil {
				return fmt.Errorf("writing label: %w", err)
			}
		}

		ins, ok := DecodeBytes(program[offset:])
		if !ok {
			line := fmt.Sprintf("    .byte $%02X", program[offset])
			if _, err := fmt.Fprintf(w, "%-32s ; $%03X\n", line, address); err != nil {
				return fmt.Errorf("writing data: %w", err)
			}
			continue
		}

		line := "    " + ins.format(d.formatAddress)
		if _, err := fmt.Fprintf(w, "%-32s ; $%03X: %04X\n", line, address, ins.Opcode); err != nil {
			return fmt.Errorf("writing code: %w", err)
		}
	}

	return nil
}

func (d *Disassembler) collectBranchDestinations(program []byte) {
	end := int(d.base) + len(program)
	for offset := 0; offset+OpcodeSize <= len(program); offset += OpcodeSize {
		ins, _ := DecodeBytes(program[offset:])
		if !ins.IsJump() && !ins.IsCall() {
			continue
		}
		if int(ins.Addr) >= int(d.base) && int(ins.Addr) < end {
			d.branchDestinations.Add(ins.Addr)
		}
	}
}

// formatAddress renders jump and call targets as label names when the
// target is inside the listed program.
func (d *Disassembler) formatAddress(address uint16) string {
	if d.branchDestinations.Contains(address) {
		return labelName(address)
	}
	return formatAddress(address)
}

func labelName(address uint16) string {
	return fmt.Sprintf("label_%03X", address)
}
