// Package sim drives the fetch-execute loop: fetch at pc, advance pc,
// disassemble and trace, execute, and optionally yield to an
// interactive debugger, until HALT or a fatal fault.
package sim

import (
	"errors"
	"fmt"
	"log/slog"

	"simproc/internal/exec"
	"simproc/internal/isa"
	"simproc/internal/machine"
)

// Options configures a Run: whether to start in interactive debug mode,
// the sink for trace/error/warning lines, and the debugger to consult
// when debugging is active. Logger and Debugger may be nil; Run then
// discards trace output and never enters the debug prompt regardless of
// Debug.
type Options struct {
	Debug    bool
	Logger   *slog.Logger
	Debugger *Debugger
}

// Run executes m to completion: either a clean HALT (nil error) or a
// fatal fault (the *exec.Fault, already logged as an ERROR: line).
func Run(m *machine.Machine, opts Options) error {
	debugging := opts.Debug && opts.Debugger != nil
	for {
		if int(m.PC) >= m.TextSize() {
			err := exec.NewFault(exec.ErrSegText, m.PC)
			logLine(opts.Logger, err.Error())
			return err
		}
		m.PC++
		at := m.PC - 1
		instr := m.Text[at]
		logLine(opts.Logger, fmt.Sprintf("TRACE: Executing: 0x%04x: %s", at, isa.Disassemble(instr)))

		err := exec.Execute(m, instr)
		if err != nil {
			if errors.Is(err, exec.ErrHalted) {
				logLine(opts.Logger, fmt.Sprintf("WARNING: HALT reached at address 0x%04x", at))
				return nil
			}
			logLine(opts.Logger, err.Error())
			return err
		}

		if debugging {
			cont, askErr := opts.Debugger.Ask(m)
			if askErr != nil {
				return askErr
			}
			debugging = cont
		}
	}
}

func logLine(logger *slog.Logger, msg string) {
	if logger == nil {
		return
	}
	logger.Info(msg)
}
