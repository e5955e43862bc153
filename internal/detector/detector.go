// Package detector handles input format detection.
package detector

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// sniffSize is the number of bytes read to guess the format of files with
// an unknown extension.
const sniffSize = 512

// Detector handles input format detection from file extensions and options.
type Detector struct {
	logger *log.Logger
}

// New creates a new format detector.
func New(logger *log.Logger) *Detector {
	return &Detector{
		logger: logger,
	}
}

// Detect determines the input format from options or file auto-detection.
// It first checks if a format is explicitly specified in options, otherwise
// the format is derived from the filename extension and, for unknown
// extensions, from the file content.
func (d *Detector) Detect(opts options.Program) string {
	format := strings.ToLower(opts.Format)
	if format == options.FormatBinary || format == options.FormatHex {
		return format
	}

	format = d.detectFromFile(opts.Input)
	d.logger.Debug("Auto-detected format",
		log.String("format", format),
		log.String("file", opts.Input))
	return format
}

// detectFromFile determines the input format based on file extension.
func (d *Detector) detectFromFile(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".hex", ".txt":
		return options.FormatHex
	case ".ch8", ".c8", ".rom", ".bin":
		return options.FormatBinary
	}

	file, err := os.Open(filename)
	if err != nil {
		// the loader reports the error
		return options.FormatBinary
	}
	defer func() { _ = file.Close() }()

	buf := make([]byte, sniffSize)
	n, err := io.ReadFull(file, buf)
	if err != nil && n == 0 {
		return options.FormatBinary
	}
	return DetectFromContent(buf[:n])
}

// DetectFromContent guesses the format of the given file head. Data that
// only consists of hex digits, whitespace and comments is hex text.
func DetectFromContent(data []byte) string {
	if len(data) == 0 {
		return options.FormatBinary
	}

	comment := false
	digits := 0
	for _, b := range data {
		switch {
		case b == '\n':
			comment = false
		case comment:
			if b < 0x20 && b != '\t' && b != '\r' {
				return options.FormatBinary
			}
		case b == '#' || b == ';':
			comment = true
		case b == ' ' || b == '\t' || b == '\r':
		case isHexDigit(b):
			digits++
		default:
			return options.FormatBinary
		}
	}

	if digits == 0 {
		return options.FormatBinary
	}
	return options.FormatHex
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
