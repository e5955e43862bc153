// Package fileprocessor handles file loading and processing operations
package fileprocessor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/retroenv/retrochip8/internal/hexfmt"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/verification"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

// ProcessFile converts a single file between the binary and the hex text
// representation of a program.
func ProcessFile(ctx context.Context, logger *log.Logger, opts options.Converter) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("processing %s: %w", opts.Input, err)
	}

	input, err := os.ReadFile(opts.Input)
	if err != nil {
		return fmt.Errorf("reading file %s: %w", opts.Input, err)
	}

	output, err := Convert(opts, input)
	if err != nil {
		return fmt.Errorf("converting %s: %w", opts.Input, err)
	}

	if err := writeOutput(opts, output); err != nil {
		return err
	}

	logger.Debug("Converted file",
		log.String("input", opts.Input),
		log.String("output", opts.Output),
		log.Int("size", len(output)))

	if opts.Verify {
		if err := verification.VerifyOutput(logger, opts); err != nil {
			return fmt.Errorf("verification failed: %w", err)
		}
		logger.Info("Verification successful", log.String("file", opts.Output))
	}
	return nil
}

// Convert returns the converted content of a file.
func Convert(opts options.Converter, input []byte) ([]byte, error) {
	switch opts.Mode {
	case options.ModeBinToHex:
		var buf bytes.Buffer
		if err := hexfmt.Encode(&buf, input, opts.Columns); err != nil {
			return nil, fmt.Errorf("encoding hex text: %w", err)
		}
		return buf.Bytes(), nil

	case options.ModeHexToBin:
		data, err := hexfmt.DecodeBytes(input)
		if err != nil {
			return nil, fmt.Errorf("decoding hex text: %w", err)
		}
		return data, nil

	default:
		return nil, fmt.Errorf("unsupported mode '%s'", opts.Mode)
	}
}

// GetFilesToProcess returns list of files to process based on options
func GetFilesToProcess(opts *options.Converter) ([]string, error) {
	if opts.Batch != "" {
		matches, err := filepath.Glob(opts.Batch)
		if err != nil {
			return nil, fmt.Errorf("globbing batch pattern: %w", err)
		}
		return matches, nil
	}
	return []string{opts.Input}, nil
}

// GenerateOutputFilename generates output filename for a given input file
// and conversion mode.
func GenerateOutputFilename(inputFile, mode string) string {
	ext := filepath.Ext(inputFile)
	base := inputFile[:len(inputFile)-len(ext)]
	if mode == options.ModeHexToBin {
		return base + ".ch8"
	}
	return base + ".hex"
}

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, name string, quiet bool, version, commit, date string) {
	if quiet {
		return
	}
	logger.Info(name, log.String("version", buildinfo.Version(version, commit, date)))
}

func writeOutput(opts options.Converter, output []byte) error {
	var writer io.Writer = os.Stdout
	if opts.Output != "" {
		file, err := os.Create(opts.Output)
		if err != nil {
			return fmt.Errorf("creating output file %s: %w", opts.Output, err)
		}
		defer func() { _ = file.Close() }()
		writer = file
	}

	if _, err := writer.Write(output); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
