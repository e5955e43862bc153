// Package pipeline orchestrates the emulator workflow stages.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrochip8/internal/arch/chip8"
	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrochip8/internal/detector"
	"github.com/retroenv/retrochip8/internal/frontend/headless"
	"github.com/retroenv/retrochip8/internal/frontend/terminal"
	"github.com/retroenv/retrochip8/internal/frontend/window"
	"github.com/retroenv/retrochip8/internal/loader"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/runner"
	"github.com/retroenv/retrogolib/log"
)

// DefaultHeadlessFrames is the number of frames of a headless run without
// a configured frame limit.
const DefaultHeadlessFrames = 10 * runner.FrameRate

// Pipeline orchestrates the complete emulator workflow.
type Pipeline struct {
	logger   *log.Logger
	detector *detector.Detector
	loader   *loader.Loader
}

// New creates a new emulator pipeline.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger:   logger,
		detector: detector.New(logger),
		loader:   loader.New(),
	}
}

// Execute loads the program file and either writes its listing or runs it.
// Listings and the final screen of headless runs are written to writer.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program, writer io.Writer) error {
	format := p.detector.Detect(opts)

	program, err := p.loader.Load(opts, format)
	if err != nil {
		return fmt.Errorf("loading program: %w", err)
	}

	p.printInfo(opts, format, program)
	return p.ExecuteWithProgram(ctx, program, opts, writer)
}

// ExecuteWithProgram runs the pipeline with a pre-loaded program image.
// This is useful for testing and programmatic usage where the program is already in memory.
func (p *Pipeline) ExecuteWithProgram(ctx context.Context, program []byte, opts options.Program, writer io.Writer) error {
	if opts.Disasm {
		dis := chip8.NewDisassembler(chip8.ProgramStart)
		if err := dis.Write(writer, program); err != nil {
			return fmt.Errorf("writing listing: %w", err)
		}
		return nil
	}

	machineOpts := config.CreateMachineOptions(p.logger, opts)
	m, err := p.loader.LoadMachine(program, opts.Seed, machineOpts...)
	if err != nil {
		return fmt.Errorf("creating machine: %w", err)
	}

	r := runner.New(p.logger, m, runner.Options{
		TicksPerFrame: opts.TicksPerFrame,
		Frames:        opts.Frames,
	})

	switch opts.Frontend {
	case options.FrontendHeadless:
		return p.runHeadless(ctx, r, opts, writer)

	case options.FrontendTerminal:
		return p.runTerminal(ctx, r, writer)

	case options.FrontendWindow, "":
		w := window.New(p.logger, r, window.Options{Scale: opts.Scale})
		if err := w.Run(ctx); err != nil {
			return fmt.Errorf("running window: %w", err)
		}
		return nil

	default:
		return fmt.Errorf("unsupported frontend '%s'", opts.Frontend)
	}
}

func (p *Pipeline) runHeadless(ctx context.Context, r *runner.Runner, opts options.Program, writer io.Writer) error {
	frames := opts.Frames
	if frames == 0 {
		frames = DefaultHeadlessFrames
	}

	display := headless.New()
	runErr := r.RunFrames(ctx, display, frames)

	p.logger.Info("Run finished",
		log.Int("frames", display.Frames()),
		log.Int("sound_frames", display.SoundFrames()))

	if _, err := display.WriteTo(writer); err != nil {
		return fmt.Errorf("writing screen: %w", err)
	}
	if runErr != nil {
		return fmt.Errorf("running program: %w", runErr)
	}
	return nil
}

func (p *Pipeline) runTerminal(ctx context.Context, r *runner.Runner, writer io.Writer) error {
	display := terminal.New(p.logger, os.Stdin, writer)
	if err := display.Start(); err != nil {
		return fmt.Errorf("starting terminal: %w", err)
	}

	runErr := r.Run(ctx, display)
	if err := display.Close(); err != nil {
		p.logger.Error("Closing terminal failed", log.Err(err))
	}
	if runErr != nil {
		return fmt.Errorf("running program: %w", runErr)
	}
	return nil
}

// printInfo prints information about the program being processed.
func (p *Pipeline) printInfo(opts options.Program, format string, program []byte) {
	if opts.Quiet {
		return
	}

	p.logger.Info("Processing CHIP-8 program",
		log.String("file", opts.Input),
		log.String("format", format),
		log.Int("size", len(program)),
	)
}
