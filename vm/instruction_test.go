package vm

import (
	"strings"
	"testing"
)

func TestDecodeZeroWord(t *testing.T) {
	i := Instruction(0)
	if i.Opcode() != OpMove {
		t.Errorf("Opcode() = %v, want MOVE", i.Opcode())
	}
	a, b, c := i.ABC()
	if a != 0 || b != 0 || c != 0 {
		t.Errorf("ABC() = %d %d %d, want 0 0 0", a, b, c)
	}
}

func TestDecodeABC(t *testing.T) {
	tests := []struct {
		word    uint32
		op      Opcode
		a, b, c int
	}{
		{0x00800026, OpReturn, 0, 1, 0},
		{0x00400006, OpGetTabUp, 0, 0, 256},
		{0x01000024, OpCall, 0, 2, 0},
		{0xFFFFFFCD, OpAdd, 255, 511, 511},
	}
	for _, tt := range tests {
		i := Instruction(tt.word)
		if i.Opcode() != tt.op {
			t.Errorf("0x%08X Opcode() = %v, want %v", tt.word, i.Opcode(), tt.op)
			continue
		}
		a, b, c := i.ABC()
		if a != tt.a || b != tt.b || c != tt.c {
			t.Errorf("0x%08X ABC() = %d %d %d, want %d %d %d", tt.word, a, b, c, tt.a, tt.b, tt.c)
		}
	}
}

func TestDecodeABx(t *testing.T) {
	// LOADK 3 7
	i := Instruction(0x3<<6 | 0x7<<14 | uint32(OpLoadK))
	a, bx := i.ABx()
	if a != 3 || bx != 7 {
		t.Errorf("ABx() = %d %d, want 3 7", a, bx)
	}
	if i.OpMode() != IABx {
		t.Errorf("OpMode() = %v, want iABx", i.OpMode())
	}

	a, bx = Instruction(0xFFFFC000 | uint32(OpClosure)).ABx()
	if a != 0 || bx != MaxArgBx {
		t.Errorf("ABx() = %d %d, want 0 %d", a, bx, MaxArgBx)
	}
}

func TestDecodeAsBx(t *testing.T) {
	tests := []struct {
		word uint32
		a    int
		sbx  int
	}{
		{0x7FFF801E, 0, -1},      // JMP 0 -1
		{0x0000001E, 0, -131071}, // bx = 0
		{0xFFFFC01E, 0, 131072},  // bx = max
		{0x80000000 | 1<<6 | uint32(OpForLoop), 1, 0x20000 - MaxArgSBx},
	}
	for _, tt := range tests {
		a, sbx := Instruction(tt.word).AsBx()
		if a != tt.a || sbx != tt.sbx {
			t.Errorf("0x%08X AsBx() = %d %d, want %d %d", tt.word, a, sbx, tt.a, tt.sbx)
		}
	}
}

func TestDecodeAx(t *testing.T) {
	i := Instruction(0x0000016E) // EXTRAARG 5
	if i.Opcode() != OpExtraArg {
		t.Fatalf("Opcode() = %v, want EXTRAARG", i.Opcode())
	}
	if got := i.Ax(); got != 5 {
		t.Errorf("Ax() = %d, want 5", got)
	}
	if got := Instruction(0xFFFFFFEE).Ax(); got != MaxArgAx {
		t.Errorf("Ax() = %d, want %d", got, MaxArgAx)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	if got := ABC(OpReturn, 0, 1, 0); got != 0x00800026 {
		t.Errorf("ABC(RETURN 0 1 0) = 0x%08X, want 0x00800026", uint32(got))
	}
	if got := ABC(OpGetTabUp, 0, 0, RK(0)); got != 0x00400006 {
		t.Errorf("ABC(GETTABUP 0 0 K0) = 0x%08X, want 0x00400006", uint32(got))
	}
	if got := AsBx(OpJmp, 0, -1); got != 0x7FFF801E {
		t.Errorf("AsBx(JMP 0 -1) = 0x%08X, want 0x7FFF801E", uint32(got))
	}
	if got := Ax(OpExtraArg, 5); got != 0x16E {
		t.Errorf("Ax(EXTRAARG 5) = 0x%08X, want 0x0000016E", uint32(got))
	}

	a, b, c := ABC(OpSetTable, 12, RK(3), 200).ABC()
	if a != 12 || b != 259 || c != 200 {
		t.Errorf("ABC() = %d %d %d, want 12 259 200", a, b, c)
	}
}

func TestInstructionString(t *testing.T) {
	tests := []struct {
		i    Instruction
		want string
	}{
		{ABC(OpMove, 1, 0, 0), "MOVE 1 0 0"},
		{ABx(OpLoadK, 2, 4), "LOADK 2 4"},
		{AsBx(OpJmp, 0, -3), "JMP 0 -3"},
		{Ax(OpExtraArg, 9), "EXTRAARG 9"},
	}
	for _, tt := range tests {
		got := strings.Join(strings.Fields(tt.i.String()), " ")
		if got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestExecuteExtraArgUnsupported(t *testing.T) {
	err := Ax(OpExtraArg, 0).Execute(nil)
	if err == nil || !strings.Contains(err.Error(), "EXTRAARG") {
		t.Errorf("Execute(EXTRAARG) error = %v, want unsupported opcode", err)
	}
}
