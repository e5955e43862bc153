// Package config handles application configuration and setup
package config

import (
	"github.com/retroenv/retrochip8/internal/arch/chip8"
	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// CreateMachineOptions converts the program options into machine options.
// Tracing logs every executed instruction at debug level.
func CreateMachineOptions(logger *log.Logger, opts options.Program) []machine.Option {
	var machineOpts []machine.Option
	if opts.Clip {
		machineOpts = append(machineOpts, machine.WithDrawMode(machine.DrawClip))
	}
	if opts.StrictZero {
		machineOpts = append(machineOpts, machine.WithStrictZeroOpcode())
	}
	if opts.Trace {
		machineOpts = append(machineOpts, machine.WithTrace(func(pc uint16, ins chip8.Instruction) {
			logger.Debug("Executing",
				log.Hex("pc", pc),
				log.Hex("opcode", ins.Opcode),
				log.Stringer("instruction", ins))
		}))
	}
	return machineOpts
}
