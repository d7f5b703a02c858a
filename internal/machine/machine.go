// Package machine holds the simulator's mutable state: the text and data
// segments, the register bank, the program counter, the condition code,
// and the stack pointer.
package machine

import (
	"fmt"

	"simproc/internal/isa"
)

// CC is the condition code, set by LOAD/ADD/SUB from the sign of their
// result. CCU is only ever the initial value; execution never sets it.
type CC int

const (
	CCU CC = iota // unset
	CCZ           // zero
	CCN           // negative
	CCP           // positive
)

// String renders the one-letter form used in CPU dumps.
func (c CC) String() string {
	switch c {
	case CCZ:
		return "Z"
	case CCN:
		return "N"
	case CCP:
		return "P"
	default:
		return "U"
	}
}

// Machine is one simulator instance: the text segment, the data segment
// (initialized data below DataEnd, stack above it), the register bank,
// and the PC/CC/SP trio. A Machine is not safe for concurrent use; the
// fetch loop is the only thing that should ever touch one.
type Machine struct {
	Text      []isa.Instruction
	Data      []isa.Word
	Registers [isa.NumRegisters]isa.Word
	PC        uint32
	CC        CC
	SP        int
	DataEnd   int
}

// TextSize is the number of instructions in the text segment.
func (m *Machine) TextSize() int {
	return len(m.Text)
}

// DataSize is the total size of the data segment, initialized data plus
// stack region.
func (m *Machine) DataSize() int {
	return len(m.Data)
}

// Load constructs a Machine with pc=0, cc=CC_U, all registers zeroed, and
// sp=datasize-1. text supplies the text segment; dataInit supplies the
// first dataend words of the data segment, with the remainder (the
// initial stack region) zeroed.
func Load(text []isa.Instruction, datasize int, dataInit []isa.Word, dataend int) (*Machine, error) {
	if dataend < 0 || dataend > datasize {
		return nil, fmt.Errorf("machine: dataend %d out of range [0, %d]", dataend, datasize)
	}
	if len(dataInit) != dataend {
		return nil, fmt.Errorf("machine: data initializer has %d words, dataend is %d", len(dataInit), dataend)
	}
	data := make([]isa.Word, datasize)
	copy(data, dataInit)
	textCopy := make([]isa.Instruction, len(text))
	copy(textCopy, text)
	return &Machine{
		Text:    textCopy,
		Data:    data,
		PC:      0,
		CC:      CCU,
		SP:      datasize - 1,
		DataEnd: dataend,
	}, nil
}
