package sim

import (
	"bufio"
	"fmt"
	"io"

	"simproc/internal/machine"
)

// Debugger drives the interactive "DEBUG? " prompt. It reads
// whitespace-delimited tokens rather than lines, the way scanf("%s", ...)
// does: a bare newline produces no token and the scan blocks for the
// next one, so in practice every prompt gets answered by a real command
// or EOF.
type Debugger struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewDebugger builds a Debugger reading tokens from in and writing
// prompts and command output to out.
func NewDebugger(in io.Reader, out io.Writer) *Debugger {
	s := bufio.NewScanner(in)
	s.Split(bufio.ScanWords)
	return &Debugger{scanner: s, out: out}
}

// Ask implements debug_ask: it prints the prompt, reads one command
// token, and acts on it. The returned bool says whether debug mode
// should continue for the next instruction; it is false only after "c",
// and also false on EOF (nothing left to drive the prompt with).
func (d *Debugger) Ask(m *machine.Machine) (bool, error) {
	fmt.Fprint(d.out, "DEBUG? ")
	if !d.scanner.Scan() {
		return false, d.scanner.Err()
	}
	switch d.scanner.Text() {
	case "h":
		fmt.Fprint(d.out, "h\thelp\n")
		fmt.Fprint(d.out, "c\tcontinue (exit interactive debug mode)\n")
		fmt.Fprint(d.out, "s\tstep by step (next instruction)\n")
		fmt.Fprint(d.out, "r\tprint registers\n")
		fmt.Fprint(d.out, "d\tprint data memory\n")
		fmt.Fprint(d.out, "t\tprint text (program) memory\n")
		fmt.Fprint(d.out, "p\tprint text (program) memory\n")
		fmt.Fprint(d.out, "m\tprint registers and data memory\n")
	case "c":
		return false, nil
	case "r":
		machine.PrintCPU(d.out, m)
	case "d":
		machine.PrintData(d.out, m)
	case "t", "p":
		machine.PrintProgram(d.out, m)
	case "m":
		machine.PrintCPU(d.out, m)
		machine.PrintData(d.out, m)
	}
	return true, nil
}
