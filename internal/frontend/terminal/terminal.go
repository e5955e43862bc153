// Package terminal presents a running machine in a text terminal. The screen
// is drawn with half block characters, two pixel rows per text line, and the
// keypad is read from raw standard input.
package terminal

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrochip8/internal/runner"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/term"
)

// HoldFrames is the number of frames a key stays pressed after its
// character was read. Terminals do not report key releases.
const HoldFrames = 6

const (
	keyEscape   = 0x1b
	keyCtrlC    = 0x03
	cursorHome  = "\x1b[H"
	clearScreen = "\x1b[2J"
	hideCursor  = "\x1b[?25l"
	showCursor  = "\x1b[?25h"
)

// keymap maps the left side of a QWERTY keyboard to the hexadecimal keypad:
//
//	1 2 3 4      1 2 3 C
//	q w e r  ->  4 5 6 D
//	a s d f      7 8 9 E
//	z x c v      A 0 B F
var keymap = map[byte]uint8{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

// Terminal is a display that renders to a terminal.
type Terminal struct {
	logger *log.Logger
	in     io.Reader
	out    *bufio.Writer
	fd     int

	oldState *term.State

	mu   sync.Mutex
	held [machine.KeyCount]int // remaining frames per key
	quit bool

	soundOn bool
}

// New returns a terminal display reading keys from in and rendering to out.
func New(logger *log.Logger, in *os.File, out io.Writer) *Terminal {
	return &Terminal{
		logger: logger,
		in:     in,
		out:    bufio.NewWriter(out),
		fd:     int(in.Fd()),
	}
}

// Start switches the terminal into raw mode and starts reading keys.
func (t *Terminal) Start() error {
	if !term.IsTerminal(t.fd) {
		return fmt.Errorf("file descriptor %d is not a terminal", t.fd)
	}

	if width, height, err := term.GetSize(t.fd); err == nil &&
		(width < machine.Width || height < machine.Height/2+1) {
		t.logger.Warn("Terminal is smaller than the screen",
			log.Int("width", width),
			log.Int("height", height))
	}

	oldState, err := term.MakeRaw(t.fd)
	if err != nil {
		return fmt.Errorf("setting raw mode: %w", err)
	}
	t.oldState = oldState

	_, _ = t.out.WriteString(clearScreen + hideCursor)
	go t.readInput()
	return nil
}

// Close restores the terminal state.
func (t *Terminal) Close() error {
	_, _ = t.out.WriteString(showCursor + "\r\n")
	_ = t.out.Flush()

	if t.oldState == nil {
		return nil
	}
	if err := term.Restore(t.fd, t.oldState); err != nil {
		return fmt.Errorf("restoring terminal: %w", err)
	}
	t.oldState = nil
	return nil
}

// Keys returns the keypad state and ages the held keys by one frame.
func (t *Terminal) Keys() uint16 {
	t.mu.Lock()
	defer t.mu.Unlock()

	var keys uint16
	for key, frames := range t.held {
		if frames == 0 {
			continue
		}
		keys |= 1 << key
		t.held[key]--
	}
	return keys
}

// Present renders the frame. It returns runner.ErrQuit once escape or
// ctrl-c was pressed.
func (t *Terminal) Present(fb *machine.Framebuffer, sound bool) error {
	t.mu.Lock()
	quit := t.quit
	t.mu.Unlock()
	if quit {
		return runner.ErrQuit
	}

	_, _ = t.out.WriteString(cursorHome)
	if sound && !t.soundOn {
		_ = t.out.WriteByte('\a')
	}
	t.soundOn = sound

	if err := Render(t.out, fb, sound); err != nil {
		return err
	}
	if err := t.out.Flush(); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	return nil
}

func (t *Terminal) readInput() {
	buf := make([]byte, 64)
	for {
		n, err := t.in.Read(buf)
		if n > 0 {
			t.handleInput(buf[:n])
		}
		if err != nil {
			return
		}
	}
}

// handleInput processes a chunk of raw input. Escape sequences sent by
// cursor or function keys are skipped, a lone escape quits.
func (t *Terminal) handleInput(data []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := 0; i < len(data); i++ {
		b := data[i]
		switch {
		case b == keyCtrlC:
			t.quit = true

		case b == keyEscape:
			if i+1 < len(data) && (data[i+1] == '[' || data[i+1] == 'O') {
				i = skipSequence(data, i+2)
				continue
			}
			t.quit = true

		default:
			if b >= 'A' && b <= 'Z' {
				b += 'a' - 'A'
			}
			if key, ok := keymap[b]; ok {
				t.held[key] = HoldFrames
			}
		}
	}
}

// skipSequence returns the index of the final byte of the escape sequence
// whose parameters start at i.
func skipSequence(data []byte, i int) int {
	for ; i < len(data); i++ {
		if data[i] >= 0x40 && data[i] <= 0x7e {
			return i
		}
	}
	return len(data) - 1
}

// Render writes the framebuffer using half block characters followed by a
// status line.
func Render(w io.Writer, fb *machine.Framebuffer, sound bool) error {
	bw, ok := w.(*bufio.Writer)
	if !ok {
		bw = bufio.NewWriter(w)
	}

	for y := 0; y < machine.Height; y += 2 {
		for x := range machine.Width {
			top, bottom := fb.Get(x, y), fb.Get(x, y+1)
			switch {
			case top && bottom:
				_, _ = bw.WriteString("█")
			case top:
				_, _ = bw.WriteString("▀")
			case bottom:
				_, _ = bw.WriteString("▄")
			default:
				_ = bw.WriteByte(' ')
			}
		}
		_, _ = bw.WriteString("\r\n")
	}

	status := "     "
	if sound {
		status = "BEEP "
	}
	_, _ = bw.WriteString(status + "\r\n")

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("rendering frame: %w", err)
	}
	return nil
}
