// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/retroenv/retrochip8/internal/options"
)

// ParseFlags parses the command line flags of the emulator.
func ParseFlags() (options.Program, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	var opts options.Program
	readOptionFlags(flags, &opts)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Input == "") {
		return opts, &UsageError{flags: flags, usage: emulatorUsage}
	}

	if err := validateArgs(args, "program file"); err != nil {
		return opts, err
	}

	if err := normalizeOptions(&opts); err != nil {
		return opts, err
	}

	if len(args) > 0 {
		opts.Input = args[0]
	}
	return opts, nil
}

// ParseConverterFlags parses the command line flags of the hex converter.
func ParseConverterFlags() (options.Converter, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	var opts options.Converter
	readConverterFlags(flags, &opts)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Input == "" && opts.Batch == "") {
		return opts, &UsageError{flags: flags, usage: converterUsage}
	}

	if err := validateArgs(args, "file to convert"); err != nil {
		return opts, err
	}

	opts.Mode = strings.ToLower(opts.Mode)
	if opts.Mode != options.ModeBinToHex && opts.Mode != options.ModeHexToBin {
		return opts, fmt.Errorf("unsupported mode: %s. Valid options: %s, %s",
			opts.Mode, options.ModeBinToHex, options.ModeHexToBin)
	}
	if opts.Columns <= 0 {
		return opts, fmt.Errorf("invalid column count %d", opts.Columns)
	}

	if opts.Batch == "" && len(args) > 0 {
		opts.Input = args[0]
	}
	return opts, nil
}

const defaultScale = 10

const (
	emulatorUsage  = "usage: retrochip8 [options] <program file>"
	converterUsage = "usage: chip8hex [options] <file to convert>"
)

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	usage string
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("%s\n\n", e.usage)
	if e.flags != nil {
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string, name string) error {
	for i, arg := range args {
		if i > 0 && strings.HasPrefix(arg, "-") {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after %s, please pass the %s as last argument", arg, name, name),
			}
		}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	opts.Frontend = strings.ToLower(opts.Frontend)
	validFrontends := []string{options.FrontendTerminal, options.FrontendWindow, options.FrontendHeadless}
	if !slices.Contains(validFrontends, opts.Frontend) {
		return fmt.Errorf("unsupported frontend: %s. Valid options: %s",
			opts.Frontend, strings.Join(validFrontends, ", "))
	}

	opts.Format = strings.ToLower(opts.Format)
	if opts.Format != "" && opts.Format != options.FormatBinary && opts.Format != options.FormatHex {
		return fmt.Errorf("unsupported format: %s. Valid options: %s, %s",
			opts.Format, options.FormatBinary, options.FormatHex)
	}

	if opts.TicksPerFrame <= 0 {
		return fmt.Errorf("invalid ticks per frame %d", opts.TicksPerFrame)
	}
	if opts.Frames < 0 {
		return fmt.Errorf("invalid frame count %d", opts.Frames)
	}
	if opts.Scale <= 0 {
		return fmt.Errorf("invalid scale %d", opts.Scale)
	}

	// trace records are logged at debug level
	if opts.Trace {
		opts.Debug = true
	}
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Input, "i", "", "name of the input program file")
	flags.StringVar(&opts.Output, "o", "", "name of the output listing file for -disasm, printed on console if no name given")
	flags.StringVar(&opts.Format, "format", "", "format of the program file (bin/hex) - if not auto-detected from file extension or content")
	flags.StringVar(&opts.Frontend, "frontend", options.FrontendWindow, "presentation of the running program (window/terminal/headless)")
	flags.BoolVar(&opts.Disasm, "disasm", false, "print a program listing instead of running the program")
	flags.BoolVar(&opts.Trace, "trace", false, "log every executed instruction, implies -debug")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")

	flags.Uint64Var(&opts.Seed, "seed", 0, "seed of the random number generator, runs with the same seed are reproducible")
	flags.IntVar(&opts.TicksPerFrame, "tpf", 1, "instructions executed per 60 Hz frame, timers count down once per instruction")
	flags.IntVar(&opts.Frames, "frames", 0, "number of frames to run, 0 runs until quit (headless runs default to 600)")
	flags.IntVar(&opts.Scale, "scale", defaultScale, "pixel scale of the window frontend")
	flags.BoolVar(&opts.Clip, "clip", false, "clip sprites at the screen edges instead of wrapping them around")
	flags.BoolVar(&opts.StrictZero, "strict", false, "fail on the zero opcode instead of halting in place")
}

func readConverterFlags(flags *flag.FlagSet, opts *options.Converter) {
	flags.StringVar(&opts.Input, "i", "", "name of the input file")
	flags.StringVar(&opts.Output, "o", "", "name of the output file, derived from the input file name if not given")
	flags.StringVar(&opts.Batch, "batch", "", "process a batch of given path and file mask and automatically name the output files, for example *.ch8")
	flags.StringVar(&opts.Mode, "m", options.ModeBinToHex, "conversion mode (bin2hex/hex2bin)")
	flags.IntVar(&opts.Columns, "columns", 16, "bytes per line of hex output")
	flags.BoolVar(&opts.Verify, "verify", false, "verify the output by converting it back and check if it matches the input")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}
