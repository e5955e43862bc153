// Package options contains the program options.
package options

// Frontends that can present a running machine.
const (
	FrontendHeadless = "headless"
	FrontendTerminal = "terminal"
	FrontendWindow   = "window"
)

// Input formats of program files.
const (
	FormatBinary = "bin"
	FormatHex    = "hex"
)

// Parameters contains file path options.
type Parameters struct {
	Input  string `flag:"i" usage:"input program file"`
	Output string `flag:"o" usage:"output file for the program listing (default: stdout)"`
}

// Flags contains behavior options.
type Flags struct {
	Format   string `flag:"format" usage:"input format: bin, hex (default: auto-detect)"`
	Frontend string `flag:"frontend" usage:"presentation: terminal, window, headless" default:"window"`
	Disasm   bool   `flag:"disasm" usage:"print a program listing instead of running the program"`
	Trace    bool   `flag:"trace" usage:"log every executed instruction"`
	Debug    bool   `flag:"debug" usage:"enable debug logging"`
	Quiet    bool   `flag:"q" usage:"quiet mode"`
}

// MachineFlags contains options of the virtual machine.
type MachineFlags struct {
	Seed          uint64 `flag:"seed" usage:"seed of the random number generator"`
	TicksPerFrame int    `flag:"tpf" usage:"instructions executed per frame" default:"1"`
	Frames        int    `flag:"frames" usage:"number of frames to run, 0 runs until quit"`
	Scale         int    `flag:"scale" usage:"window pixel scale" default:"10"`
	Clip          bool   `flag:"clip" usage:"clip sprites at the screen edges instead of wrapping"`
	StrictZero    bool   `flag:"strict" usage:"treat the zero opcode as invalid instead of halting"`
}

// Program options of the emulator.
type Program struct {
	Parameters
	Flags
	MachineFlags
}

// Conversion modes of the converter.
const (
	ModeBinToHex = "bin2hex"
	ModeHexToBin = "hex2bin"
)

// ConverterFlags contains behavior options of the converter.
type ConverterFlags struct {
	Mode    string `flag:"m" usage:"conversion mode: bin2hex, hex2bin" default:"bin2hex"`
	Columns int    `flag:"columns" usage:"bytes per line of hex output" default:"16"`
	Verify  bool   `flag:"verify" usage:"verify output by converting it back and comparing to input"`
	Debug   bool   `flag:"debug" usage:"enable debug logging"`
	Quiet   bool   `flag:"q" usage:"quiet mode"`
}

// ConverterParameters contains file path options of the converter.
type ConverterParameters struct {
	Input  string `flag:"i" usage:"input file"`
	Output string `flag:"o" usage:"output file (default: derived from input)"`
	Batch  string `flag:"batch" usage:"batch process files matching pattern (e.g. *.ch8)"`
}

// Converter options of the hex converter.
type Converter struct {
	ConverterParameters
	ConverterFlags
}
