package exec

import (
	"errors"
	"testing"

	"simproc/internal/isa"
	"simproc/internal/machine"
)

// newMachine builds a machine with a 1-word text segment (so PC can be
// advanced past instr the way the fetch loop would) and the requested
// data layout, then positions pc/sp as if instr had just been fetched.
func newMachine(t *testing.T, datasize int, dataInit []isa.Word, dataend int) *machine.Machine {
	t.Helper()
	text := make([]isa.Instruction, 1)
	m, err := machine.Load(text, datasize, dataInit, dataend)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	m.PC = 1 // pretend the fetch loop already advanced past instr
	return m
}

func TestExecuteLoadAbsolute(t *testing.T) {
	m := newMachine(t, 4, []isa.Word{99, 0, 0, 0}, 4)
	instr := isa.NewAbsolute(isa.OpLOAD, 2, 0)
	if err := Execute(m, instr); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if m.Registers[2] != 99 {
		t.Fatalf("R02 = %d, want 99", m.Registers[2])
	}
	if m.CC != machine.CCP {
		t.Fatalf("CC = %v, want CCP", m.CC)
	}
}

func TestExecuteLoadImmediateSetsZeroCC(t *testing.T) {
	m := newMachine(t, 2, []isa.Word{0, 0}, 2)
	instr := isa.NewImmediate(isa.OpLOAD, 0, 0)
	if err := Execute(m, instr); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if m.CC != machine.CCZ {
		t.Fatalf("CC = %v, want CCZ", m.CC)
	}
}

func TestExecuteStoreRejectsImmediate(t *testing.T) {
	m := newMachine(t, 2, []isa.Word{0, 0}, 2)
	instr := isa.NewImmediate(isa.OpSTORE, 0, 5)
	assertFault(t, Execute(m, instr), ErrImmediate)
}

func TestExecuteStoreIntoStackRegionIsSegData(t *testing.T) {
	m := newMachine(t, 4, []isa.Word{0, 0}, 2)
	instr := isa.NewAbsolute(isa.OpSTORE, 0, 2) // dataend=2, so index 2 is stack region
	assertFault(t, Execute(m, instr), ErrSegData)
}

func TestExecuteArithAddWraps(t *testing.T) {
	m := newMachine(t, 1, []isa.Word{0}, 1)
	m.Registers[0] = 5
	instr := isa.NewImmediate(isa.OpADD, 0, 0xFFFD) // -3 as a 16-bit literal
	if err := Execute(m, instr); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if m.Registers[0] != 2 {
		t.Fatalf("R00 = %d, want 2", m.Registers[0])
	}
	if m.CC != machine.CCP {
		t.Fatalf("CC = %v, want CCP", m.CC)
	}
}

func TestExecuteBranchTakenAndNotTaken(t *testing.T) {
	m := newMachine(t, 1, []isa.Word{0}, 1)
	m.CC = machine.CCZ
	taken := isa.NewAbsolute(isa.OpBRANCH, uint32(isa.CondEQ), 0)
	if err := Execute(m, taken); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if m.PC != 0 {
		t.Fatalf("PC = %d, want 0 after taken branch", m.PC)
	}

	m2 := newMachine(t, 1, []isa.Word{0}, 1)
	m2.CC = machine.CCN
	notTaken := isa.NewAbsolute(isa.OpBRANCH, uint32(isa.CondEQ), 0)
	if err := Execute(m2, notTaken); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if m2.PC != 1 {
		t.Fatalf("PC = %d, want unchanged 1 after untaken branch", m2.PC)
	}
}

func TestExecuteBranchUnknownConditionIsErrCondition(t *testing.T) {
	m := newMachine(t, 1, []isa.Word{0}, 1)
	raw := isa.NewAbsolute(isa.OpBRANCH, 9, 0) // 9 is outside the 7 defined selectors
	assertFault(t, Execute(m, raw), ErrCondition)
}

func TestExecuteBranchTargetOutsideTextIsSegText(t *testing.T) {
	m := newMachine(t, 1, []isa.Word{0}, 1) // text size is 1
	instr := isa.NewAbsolute(isa.OpBRANCH, uint32(isa.CondNC), 5)
	assertFault(t, Execute(m, instr), ErrSegText)
}

func TestExecuteCallPushesReturnAddressAndJumps(t *testing.T) {
	m := newMachine(t, 4, []isa.Word{0, 0}, 2) // stack region is [2,4), sp starts at 3
	m.PC = 1
	instr := isa.NewAbsolute(isa.OpCALL, uint32(isa.CondNC), 0)
	if err := Execute(m, instr); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if m.Data[3] != 1 {
		t.Fatalf("pushed return address = %d, want 1", m.Data[3])
	}
	if m.SP != 2 {
		t.Fatalf("SP = %d, want 2", m.SP)
	}
	if m.PC != 0 {
		t.Fatalf("PC = %d, want 0 (call target)", m.PC)
	}
}

func TestExecuteCallStackFullIsSegStack(t *testing.T) {
	m := newMachine(t, 2, nil, 0)
	m.SP = -1 // no room left below dataend
	instr := isa.NewAbsolute(isa.OpCALL, uint32(isa.CondNC), 0)
	assertFault(t, Execute(m, instr), ErrSegStack)
}

func TestExecuteRetRestoresPC(t *testing.T) {
	m := newMachine(t, 4, []isa.Word{0, 0}, 2)
	m.SP = 1
	m.Data[2] = 7
	if err := Execute(m, isa.NewPlain(isa.OpRET)); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if m.SP != 2 {
		t.Fatalf("SP = %d, want 2", m.SP)
	}
	if m.PC != 7 {
		t.Fatalf("PC = %d, want 7", m.PC)
	}
}

func TestExecutePushPop(t *testing.T) {
	m := newMachine(t, 4, []isa.Word{0, 0}, 2)
	m.Registers[1] = 55
	push := isa.NewAbsolute(isa.OpPUSH, 1, 0)
	// PUSH's operand is the "op" operand: absolute reads data[0].
	m.Data[0] = 55
	if err := Execute(m, push); err != nil {
		t.Fatalf("Execute(push): %v", err)
	}
	if m.Data[m.SP+1] != 55 {
		t.Fatalf("pushed value = %d, want 55", m.Data[m.SP+1])
	}

	pop := isa.NewAbsolute(isa.OpPOP, 0, 1)
	if err := Execute(m, pop); err != nil {
		t.Fatalf("Execute(pop): %v", err)
	}
	if m.Data[1] != 55 {
		t.Fatalf("popped destination = %d, want 55", m.Data[1])
	}
}

func TestExecuteIllop(t *testing.T) {
	m := newMachine(t, 1, []isa.Word{0}, 1)
	assertFault(t, Execute(m, isa.NewPlain(isa.OpILLOP)), ErrIllegal)
}

func TestExecuteHalt(t *testing.T) {
	m := newMachine(t, 1, []isa.Word{0}, 1)
	err := Execute(m, isa.NewPlain(isa.OpHALT))
	if !errors.Is(err, ErrHalted) {
		t.Fatalf("Execute(HALT) = %v, want ErrHalted", err)
	}
}

func TestExecuteUnknownOpcode(t *testing.T) {
	m := newMachine(t, 1, []isa.Word{0}, 1)
	raw := uint32(31) << 26 // outside the 12 defined opcodes
	assertFault(t, Execute(m, isa.Instruction(raw)), ErrUnknown)
}

func TestExecuteOutOfRangeRegisterIsIllegal(t *testing.T) {
	m := newMachine(t, 1, []isa.Word{0}, 1)
	instr := isa.NewAbsolute(isa.OpLOAD, 31, 0) // regcond 31 has no register
	assertFault(t, Execute(m, instr), ErrIllegal)
}

func TestFaultErrorFormat(t *testing.T) {
	err := newFault(ErrSegStack, 0x12)
	want := "ERROR: Violation de taille du segment de pile 0x0012"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
}

func assertFault(t *testing.T, err error, want Code) {
	t.Helper()
	var f *Fault
	if !errors.As(err, &f) {
		t.Fatalf("err = %v, want a *Fault", err)
	}
	if f.Code != want {
		t.Fatalf("fault code = %v, want %v", f.Code, want)
	}
}
