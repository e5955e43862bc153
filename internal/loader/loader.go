// Package loader handles program file loading operations.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrochip8/internal/hexfmt"
	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrochip8/internal/options"
)

// ErrEmptyProgram is returned for program files without any content.
var ErrEmptyProgram = errors.New("program is empty")

// Loader handles loading program files from disk.
type Loader struct{}

// New creates a new program loader.
func New() *Loader {
	return &Loader{}
}

// Load reads the program file named in the options. Hex text files are
// decoded to the program image they describe.
func (l *Loader) Load(opts options.Program, format string) ([]byte, error) {
	file, err := os.Open(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", opts.Input, err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", opts.Input, err)
	}

	return l.LoadFromBytes(data, format)
}

// LoadFromBytes converts the file content into a program image and checks
// that it fits into the program memory of the machine.
func (l *Loader) LoadFromBytes(data []byte, format string) ([]byte, error) {
	program := data
	if format == options.FormatHex {
		var err error
		program, err = hexfmt.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decoding hex text: %w", err)
		}
	}

	if len(program) == 0 {
		return nil, ErrEmptyProgram
	}
	if len(program) > machine.MaxProgramSize {
		return nil, fmt.Errorf("%w: %d bytes exceed the available %d bytes",
			machine.ErrProgramTooLarge, len(program), machine.MaxProgramSize)
	}
	return program, nil
}

// LoadMachine creates a machine with the given options and writes the
// program into its memory at the program start address.
func (l *Loader) LoadMachine(program []byte, seed uint64, machineOpts ...machine.Option) (*machine.Machine, error) {
	m := machine.New(seed, machineOpts...)
	if err := m.Load(program); err != nil {
		return nil, fmt.Errorf("loading program: %w", err)
	}
	return m, nil
}
