package machine

import (
	"fmt"
	"io"

	"simproc/internal/isa"
)

// PrintProgram renders the text segment: a header followed by one
// "0xAAAA: 0xIIIIIIII\t<disasm>" line per instruction.
func PrintProgram(w io.Writer, m *Machine) {
	fmt.Fprintf(w, "\n*** PROGRAM (size: %d) ***\n", m.TextSize())
	for i, instr := range m.Text {
		fmt.Fprintf(w, "0x%04x: 0x%08x\t%s\n", i, instr.Raw(), isa.Disassemble(instr))
	}
}

// PrintData renders the data segment: a header naming the size and the
// data/stack boundary, then each cell three to a line.
func PrintData(w io.Writer, m *Machine) {
	fmt.Fprintf(w, "\n*** DATA (size: %d, end = 0x%08x (%d)) ***\n", m.DataSize(), m.DataEnd, m.DataEnd)
	for i, word := range m.Data {
		sep := "\t"
		if (i+1)%3 == 0 {
			sep = "\n"
		}
		fmt.Fprintf(w, "0x%04x: 0x%08x %d%s", i, uint32(word), word, sep)
	}
	fmt.Fprintln(w)
}

// PrintCPU renders the register bank, PC, and CC.
func PrintCPU(w io.Writer, m *Machine) {
	fmt.Fprint(w, "\n*** CPU ***\n")
	fmt.Fprintf(w, "PC: 0x%08x\tCC: %s\n\n", m.PC, m.CC)
	for i := 0; i < isa.NumRegisters; i++ {
		sep := "\t"
		if (i+1)%3 == 0 {
			sep = "\n"
		}
		fmt.Fprintf(w, "R%02d: 0x%08x %d%s", i, uint32(m.Registers[i]), m.Registers[i], sep)
	}
	fmt.Fprintln(w)
}
