//go:build headless

package window

import (
	"context"
	"errors"

	"github.com/retroenv/retrochip8/internal/runner"
	"github.com/retroenv/retrogolib/log"
)

// ErrUnavailable is returned when the window backend was not built in.
var ErrUnavailable = errors.New("window frontend is not available in headless builds")

// Window is a placeholder for builds without a window backend.
type Window struct {
	opts Options
}

// New returns a window that can not be opened.
func New(_ *log.Logger, _ *runner.Runner, opts Options) *Window {
	return &Window{opts: normalizeOptions(opts)}
}

// Run returns ErrUnavailable.
func (w *Window) Run(context.Context) error {
	return ErrUnavailable
}
