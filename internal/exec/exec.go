// Package exec decodes and executes one instruction against a
// machine.Machine. Execute is the only entry point: it returns nil on
// ordinary completion, ErrHalted on HALT, or a *Fault for any of the
// closed set of fatal conditions.
package exec

import (
	"simproc/internal/isa"
	"simproc/internal/machine"
)

// Execute decodes instr and applies its effect to m. The caller is
// responsible for having already advanced m.PC past instr, so addr below
// is m.PC-1, the address of the instruction actually being executed.
func Execute(m *machine.Machine, instr isa.Instruction) error {
	addr := m.PC - 1
	switch instr.Cop() {
	case isa.OpILLOP:
		return newFault(ErrIllegal, addr)
	case isa.OpNOP:
		return nil
	case isa.OpLOAD:
		return execLoad(m, instr, addr)
	case isa.OpSTORE:
		return execStore(m, instr, addr)
	case isa.OpADD:
		return execArith(m, instr, addr, true)
	case isa.OpSUB:
		return execArith(m, instr, addr, false)
	case isa.OpBRANCH:
		return execBranch(m, instr, addr)
	case isa.OpCALL:
		return execCall(m, instr, addr)
	case isa.OpRET:
		return execRet(m, addr)
	case isa.OpPUSH:
		return execPush(m, instr, addr)
	case isa.OpPOP:
		return execPop(m, instr, addr)
	case isa.OpHALT:
		return ErrHalted
	default:
		return newFault(ErrUnknown, addr)
	}
}

// operandAddress implements the shared addr(instr) helper: R[rindex]+offset
// when indexed, else the absolute payload address. It does not range-check
// the result against any segment: BRANCH/CALL targets live in text,
// everything else lives in data, so each caller applies its own bound. A
// negative effective address wraps to a large uint32 the same way the
// original's unsigned arithmetic did, which the caller's own bound check
// then rejects.
func operandAddress(m *machine.Machine, instr isa.Instruction, addr uint32) (uint32, error) {
	if !instr.XFlag() {
		return instr.AbsoluteAddress(), nil
	}
	rindex, offset := instr.Indexed()
	if rindex >= isa.NumRegisters {
		return 0, newFault(ErrIllegal, addr)
	}
	eff := int64(m.Registers[rindex]) + int64(offset)
	return uint32(eff), nil
}

// operandValue resolves the "op" operand shared by LOAD/ADD/SUB/PUSH:
// the immediate value when I=1, or the data cell at operandAddress when
// I=0. I=1, X=1 is the reserved combination and is always illegal.
func operandValue(m *machine.Machine, instr isa.Instruction, addr uint32) (isa.Word, error) {
	if instr.IFlag() {
		if instr.XFlag() {
			return 0, newFault(ErrIllegal, addr)
		}
		return instr.ImmediateValue(), nil
	}
	a, err := operandAddress(m, instr, addr)
	if err != nil {
		return 0, err
	}
	if int(a) >= m.DataSize() {
		return 0, newFault(ErrSegData, addr)
	}
	return m.Data[a], nil
}

func setCC(v isa.Word) machine.CC {
	switch {
	case v < 0:
		return machine.CCN
	case v > 0:
		return machine.CCP
	default:
		return machine.CCZ
	}
}

// condHolds reports whether cond is satisfied by the current condition
// code cc.
func condHolds(cc machine.CC, cond uint32, addr uint32) (bool, error) {
	switch isa.Condition(cond) {
	case isa.CondNC:
		return true, nil
	case isa.CondEQ:
		return cc == machine.CCZ, nil
	case isa.CondNE:
		return cc == machine.CCP || cc == machine.CCN, nil
	case isa.CondGT:
		return cc == machine.CCP, nil
	case isa.CondGE:
		return cc == machine.CCZ || cc == machine.CCP, nil
	case isa.CondLT:
		return cc == machine.CCN, nil
	case isa.CondLE:
		return cc == machine.CCN || cc == machine.CCZ, nil
	default:
		return false, newFault(ErrCondition, addr)
	}
}

// checkStackSlot requires sp to name a writable stack slot: within
// [dataend, datasize), i.e. a stack cell that is not already part of the
// initialized-data region or past the end of memory. PUSH and CALL check
// this before writing data[sp].
func checkStackSlot(m *machine.Machine, addr uint32) error {
	if m.SP < m.DataEnd || m.SP >= m.DataSize() {
		return newFault(ErrSegStack, addr)
	}
	return nil
}

// checkStackAtRest enforces the invariant that dataend-1 <= sp <=
// datasize-1 must hold after any completed instruction. PUSH and CALL
// check this after decrementing sp.
func checkStackAtRest(m *machine.Machine, addr uint32) error {
	if m.SP < m.DataEnd-1 || m.SP > m.DataSize()-1 {
		return newFault(ErrSegStack, addr)
	}
	return nil
}

func execLoad(m *machine.Machine, instr isa.Instruction, addr uint32) error {
	rd := instr.RegCond()
	if rd >= isa.NumRegisters {
		return newFault(ErrIllegal, addr)
	}
	val, err := operandValue(m, instr, addr)
	if err != nil {
		return err
	}
	m.Registers[rd] = val
	m.CC = setCC(val)
	return nil
}

func execStore(m *machine.Machine, instr isa.Instruction, addr uint32) error {
	if instr.IFlag() {
		return newFault(ErrImmediate, addr)
	}
	rd := instr.RegCond()
	if rd >= isa.NumRegisters {
		return newFault(ErrIllegal, addr)
	}
	dst, err := operandAddress(m, instr, addr)
	if err != nil {
		return err
	}
	if int(dst) >= m.DataEnd {
		// Covers both out-of-segment addresses and stores aimed at the
		// stack region: the destination must be initialized data.
		return newFault(ErrSegData, addr)
	}
	m.Data[dst] = m.Registers[rd]
	return nil
}

func execArith(m *machine.Machine, instr isa.Instruction, addr uint32, isAdd bool) error {
	rd := instr.RegCond()
	if rd >= isa.NumRegisters {
		return newFault(ErrIllegal, addr)
	}
	val, err := operandValue(m, instr, addr)
	if err != nil {
		return err
	}
	if isAdd {
		m.Registers[rd] += val
	} else {
		m.Registers[rd] -= val
	}
	m.CC = setCC(m.Registers[rd])
	return nil
}

func execBranch(m *machine.Machine, instr isa.Instruction, addr uint32) error {
	if instr.IFlag() {
		return newFault(ErrImmediate, addr)
	}
	take, err := condHolds(m.CC, instr.RegCond(), addr)
	if err != nil {
		return err
	}
	if !take {
		return nil
	}
	target, err := operandAddress(m, instr, addr)
	if err != nil {
		return err
	}
	if int(target) >= m.TextSize() {
		return newFault(ErrSegText, addr)
	}
	m.PC = target
	return nil
}

func execCall(m *machine.Machine, instr isa.Instruction, addr uint32) error {
	if instr.IFlag() {
		return newFault(ErrImmediate, addr)
	}
	take, err := condHolds(m.CC, instr.RegCond(), addr)
	if err != nil {
		return err
	}
	if !take {
		return nil
	}
	if err := checkStackSlot(m, addr); err != nil {
		return err
	}
	target, err := operandAddress(m, instr, addr)
	if err != nil {
		return err
	}
	m.Data[m.SP] = isa.Word(m.PC)
	m.SP--
	if err := checkStackAtRest(m, addr); err != nil {
		return err
	}
	if int(target) >= m.TextSize() {
		return newFault(ErrSegText, addr)
	}
	m.PC = target
	return nil
}

func execRet(m *machine.Machine, addr uint32) error {
	if m.SP+1 >= m.DataSize() {
		return newFault(ErrSegStack, addr)
	}
	m.SP++
	m.PC = uint32(m.Data[m.SP])
	return nil
}

func execPush(m *machine.Machine, instr isa.Instruction, addr uint32) error {
	if err := checkStackSlot(m, addr); err != nil {
		return err
	}
	val, err := operandValue(m, instr, addr)
	if err != nil {
		return err
	}
	m.Data[m.SP] = val
	m.SP--
	return checkStackAtRest(m, addr)
}

func execPop(m *machine.Machine, instr isa.Instruction, addr uint32) error {
	if instr.IFlag() {
		return newFault(ErrImmediate, addr)
	}
	dst, err := operandAddress(m, instr, addr)
	if err != nil {
		return err
	}
	if int(dst) >= m.DataEnd {
		return newFault(ErrSegData, addr)
	}
	if m.SP+1 >= m.DataSize() {
		return newFault(ErrSegStack, addr)
	}
	m.SP++
	m.Data[dst] = m.Data[m.SP]
	return nil
}
