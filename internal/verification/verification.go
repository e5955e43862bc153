// Package verification verifies that the generated output file recreates the input.
package verification

import (
	"errors"
	"fmt"
	"os"

	"github.com/retroenv/retrochip8/internal/hexfmt"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// VerifyOutput verifies that the output file describes the same program
// image as the input file.
func VerifyOutput(logger *log.Logger, opts options.Converter) error {
	if opts.Output == "" {
		return errors.New("can not verify console output")
	}

	source, err := os.ReadFile(opts.Input)
	if err != nil {
		return fmt.Errorf("reading source file for comparison: %w", err)
	}

	destination, err := os.ReadFile(opts.Output)
	if err != nil {
		return fmt.Errorf("reading destination file for comparison: %w", err)
	}

	return VerifyConversion(logger, opts.Mode, source, destination)
}

// VerifyConversion converts the output back into a program image and
// compares it to the program image of the input.
func VerifyConversion(logger *log.Logger, mode string, input, output []byte) error {
	var expected, got []byte
	var err error

	switch mode {
	case options.ModeBinToHex:
		expected = input
		got, err = hexfmt.DecodeBytes(output)
		if err != nil {
			return fmt.Errorf("decoding output: %w", err)
		}

	case options.ModeHexToBin:
		expected, err = hexfmt.DecodeBytes(input)
		if err != nil {
			return fmt.Errorf("decoding input: %w", err)
		}
		got = output

	default:
		return fmt.Errorf("unsupported mode '%s'", mode)
	}

	if err := checkBufferEqual(logger, expected, got); err != nil {
		return fmt.Errorf("program mismatch: %w", err)
	}
	return nil
}

func checkBufferEqual(logger *log.Logger, input, output []byte) error {
	if len(input) != len(output) {
		return fmt.Errorf("mismatched lengths, %d != %d", len(input), len(output))
	}

	var diffs uint64
	for i := range input {
		if input[i] == output[i] {
			continue
		}

		diffs++
		if diffs < 10 {
			logger.Error("Offset mismatch",
				log.Hex("offset", i),
				log.Hex("expected", input[i]),
				log.Hex("got", output[i]))
		}
	}
	if diffs == 0 {
		return nil
	}
	return fmt.Errorf("%d offset mismatches", diffs)
}
