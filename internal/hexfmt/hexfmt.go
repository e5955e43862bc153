// Package hexfmt converts between raw program images and their hex text
// representation.
//
// The text format is a sequence of whitespace separated pairs of hexadecimal
// digits, case-insensitive. A token may contain several pairs, "00e0" reads
// the same as "00 e0". The characters '#' and ';' start a comment that runs
// to the end of the line.
package hexfmt

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// DefaultColumns is the number of bytes per line written by Encode when no
// column count is given.
const DefaultColumns = 16

// maxLineLength limits the length of a single line of hex text, a whole
// program image may be written on one line.
const maxLineLength = 1 << 30

// ErrInvalidToken is returned for tokens that are not pairs of hex digits.
var ErrInvalidToken = errors.New("invalid hex token")

// Encode writes data as hex text, columns bytes per line. Bytes are written
// in pairs of lowercase digits separated by a single space.
func Encode(w io.Writer, data []byte, columns int) error {
	if columns <= 0 {
		columns = DefaultColumns
	}

	bw := bufio.NewWriter(w)
	for offset := 0; offset < len(data); offset += columns {
		end := min(offset+columns, len(data))
		for i, b := range data[offset:end] {
			if i > 0 {
				_ = bw.WriteByte(' ')
			}
			_, _ = fmt.Fprintf(bw, "%02x", b)
		}
		_ = bw.WriteByte('\n')
	}

	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, "writing hex text")
	}
	return nil
}

// Decode reads hex text and returns the bytes it describes. No validation
// of the resulting opcodes is done.
func Decode(r io.Reader) ([]byte, error) {
	var data []byte
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineLength)

	line := 0
	for scanner.Scan() {
		line++
		text := stripComment(scanner.Text())

		for _, token := range strings.Fields(text) {
			decoded, err := decodeToken(token)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", line)
			}
			data = append(data, decoded...)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading hex text")
	}
	return data, nil
}

// DecodeBytes is a convenience wrapper around Decode for in-memory text.
func DecodeBytes(text []byte) ([]byte, error) {
	return Decode(bytes.NewReader(text))
}

func decodeToken(token string) ([]byte, error) {
	if len(token)%2 != 0 {
		return nil, errors.Wrapf(ErrInvalidToken, "odd number of digits in '%s'", token)
	}
	decoded, err := hex.DecodeString(token)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidToken, "'%s'", token)
	}
	return decoded, nil
}

func stripComment(line string) string {
	if i := strings.IndexAny(line, "#;"); i >= 0 {
		return line[:i]
	}
	return line
}
