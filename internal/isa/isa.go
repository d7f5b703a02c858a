// Package isa describes the 32-bit instruction encoding of the simulated
// processor: opcodes, the condition selector, and the Word type that every
// register and data cell holds.
//
// Instruction format
//
// Every instruction is a single 32-bit word, read MSB to LSB as:
//
//	<cop:6><I:1><X:1><regcond:8><payload:16>
//
// The payload is interpreted according to the (I, X) pair:
//
//  1. I=0, X=0 (absolute): payload is an unsigned 16-bit address.
//  2. I=1, X=0 (immediate): payload is an unsigned 16-bit literal,
//     sign-extended to a Word.
//  3. I=0, X=1 (indexed): payload splits into a 4-bit register number and
//     a signed 12-bit offset; the effective address is R[rindex]+offset.
//  4. I=1, X=1 is reserved and illegal.
package isa

// Word is the signed 32-bit cell used for registers, data memory, and
// immediate values. Arithmetic on a Word wraps silently on overflow, the
// same as the underlying int32.
type Word = int32

// NumRegisters is the size of the general-purpose register bank. It is
// not a coincidence that this matches the width of the indexed-mode
// rindex field (4 bits): every valid rindex value already names a real
// register.
const NumRegisters = 16

// Opcode identifies one of the twelve defined operations. The cop field
// is 6 bits wide; any value at or above NumOpcodes is undefined.
type Opcode uint32

const (
	OpILLOP Opcode = iota
	OpNOP
	OpLOAD
	OpSTORE
	OpADD
	OpSUB
	OpBRANCH
	OpCALL
	OpRET
	OpPUSH
	OpPOP
	OpHALT
)

// NumOpcodes is the number of defined opcodes.
const NumOpcodes = 12

var opcodeNames = [NumOpcodes]string{
	"ILLOP", "NOP", "LOAD", "STORE", "ADD", "SUB",
	"BRANCH", "CALL", "RET", "PUSH", "POP", "HALT",
}

// String renders the opcode mnemonic, or a placeholder for an opcode
// value outside the defined range.
func (op Opcode) String() string {
	if int(op) >= 0 && int(op) < len(opcodeNames) {
		return opcodeNames[op]
	}
	return "UNKNOWN"
}

// Condition selects when a BRANCH or CALL is taken. It reuses the
// regcond field of those two opcodes.
type Condition uint32

const (
	CondNC Condition = iota // always
	CondEQ                  // cc == CC_Z
	CondNE                  // cc == CC_P || cc == CC_N
	CondGT                  // cc == CC_P
	CondGE                  // cc == CC_Z || cc == CC_P
	CondLT                  // cc == CC_N
	CondLE                  // cc == CC_N || cc == CC_Z
)

// NumConditions is the number of defined condition selectors.
const NumConditions = 7

var conditionNames = [NumConditions]string{"NC", "EQ", "NE", "GT", "GE", "LT", "LE"}

// String renders the condition mnemonic, or a placeholder outside the
// defined range.
func (c Condition) String() string {
	if int(c) >= 0 && int(c) < len(conditionNames) {
		return conditionNames[c]
	}
	return "UNKNOWN"
}
