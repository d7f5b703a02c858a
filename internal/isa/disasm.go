package isa

import "fmt"

// operandString renders an instruction's operand: absolute addresses as
// "@0xNNNN", immediates as "#N", indexed operands as "off[Rnn]".
func operandString(i Instruction) string {
	switch {
	case !i.IFlag() && !i.XFlag():
		return fmt.Sprintf("@0x%04x", i.AbsoluteAddress())
	case i.IFlag() && !i.XFlag():
		return fmt.Sprintf("#%d", i.ImmediateRaw())
	case !i.IFlag() && i.XFlag():
		rindex, offset := i.Indexed()
		return fmt.Sprintf("%d[R%02d]", offset, rindex)
	default:
		return "<reserved>"
	}
}

// Disassemble renders an instruction in its textual mnemonic form.
func Disassemble(i Instruction) string {
	op := i.Cop()
	switch op {
	case OpRET, OpHALT, OpILLOP, OpNOP:
		return op.String()
	case OpLOAD, OpSTORE, OpADD, OpSUB:
		return fmt.Sprintf("%s R%02d, %s", op.String(), i.RegCond(), operandString(i))
	case OpPUSH, OpPOP:
		return fmt.Sprintf("%s %s", op.String(), operandString(i))
	case OpBRANCH, OpCALL:
		return fmt.Sprintf("%s %s, %s", op.String(), Condition(i.RegCond()), operandString(i))
	default:
		return fmt.Sprintf("<unknown opcode %d>", uint32(op))
	}
}
