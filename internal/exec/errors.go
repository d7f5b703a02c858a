package exec

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// Code is a member of the closed set of fatal fault conditions Execute
// can raise.
type Code int

const (
	ErrNoError   Code = iota // diagnostic success path only; never raised by Execute
	ErrUnknown               // opcode field not among the 12 defined values
	ErrIllegal               // defined opcode, invalid operand combination
	ErrCondition             // condition selector out of range
	ErrImmediate             // I=1 on an opcode that forbids immediate mode
	ErrSegText               // pc, or a branch/call target, outside [0, textsize)
	ErrSegData               // data access outside [0, datasize), or a stack-region store/pop target
	ErrSegStack              // sp outside [dataend, datasize)
)

// labels are the French diagnostic strings printed verbatim in every
// fault message.
var labels = [...]string{
	"Pas d'erreur",
	"Instruction inconnue",
	"Instruction illégale",
	"Condition illégale",
	"Valeur immédiate interdite",
	"Violation de taille du segment de texte",
	"Violation de taille du segment de données",
	"Violation de taille du segment de pile",
}

// Label returns the diagnostic string for c.
func (c Code) Label() string {
	if int(c) < 0 || int(c) >= len(labels) {
		return "Erreur inconnue"
	}
	return labels[c]
}

// Fault is a fatal simulator fault: one of the Code values, tagged with
// the address of the instruction that raised it. Every Fault carries a
// stack trace from the point it was raised, via github.com/pkg/errors,
// so a crash report shows both the diagnostic label and where in the Go
// code it originated.
type Fault struct {
	Code  Code
	Addr  uint32
	cause error
}

func newFault(code Code, addr uint32) error {
	return &Fault{
		Code:  code,
		Addr:  addr,
		cause: pkgerrors.WithStack(fmt.Errorf("%s", code.Label())),
	}
}

// NewFault builds a Fault for use by callers outside this package, such
// as the fetch loop's own segment-text check, which happens before any
// instruction is decoded.
func NewFault(code Code, addr uint32) error {
	return newFault(code, addr)
}

// Error renders the fault as "ERROR: <label> 0x<4-hex>".
func (f *Fault) Error() string {
	return fmt.Sprintf("ERROR: %s 0x%04x", f.Code.Label(), f.Addr)
}

// Unwrap exposes the stack-carrying cause for errors.As/errors.Is chains.
func (f *Fault) Unwrap() error {
	return f.cause
}

// ErrHalted signals a clean HALT. It is not a Fault: HALT is the single
// non-fatal terminating condition, reported as a warning rather than as
// an error diagnostic.
var ErrHalted = errors.New("exec: halted")
