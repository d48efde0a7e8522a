package vm

import (
	"strings"
	"testing"
)

func TestAllOpcodesHaveMetadata(t *testing.T) {
	for op := Opcode(0); int(op) < OpcodeCount(); op++ {
		info := op.Info()
		if info.Name == "" || strings.HasPrefix(info.Name, "UNKNOWN") {
			t.Errorf("Opcode %d has no metadata", op)
		}
		if info.Action == nil && op != OpExtraArg {
			t.Errorf("%s has no handler", info.Name)
		}
	}
}

func TestOpcodeCount(t *testing.T) {
	if got := OpcodeCount(); got != 47 {
		t.Errorf("OpcodeCount() = %d, want 47", got)
	}
}

func TestOpcodeString(t *testing.T) {
	tests := []struct {
		op   Opcode
		want string
	}{
		{OpMove, "MOVE"},
		{OpLoadKX, "LOADKX"},
		{OpGetTabUp, "GETTABUP"},
		{OpIdiv, "IDIV"},
		{OpConcat, "CONCAT"},
		{OpTailCall, "TAILCALL"},
		{OpTForLoop, "TFORLOOP"},
		{OpExtraArg, "EXTRAARG"},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("Opcode(%d).String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}

func TestUnknownOpcodeString(t *testing.T) {
	got := Opcode(60).String()
	if !strings.HasPrefix(got, "UNKNOWN") {
		t.Errorf("Opcode(60).String() = %q, want UNKNOWN prefix", got)
	}
}

func TestOpcodeModes(t *testing.T) {
	tests := []struct {
		op   Opcode
		mode OpMode
		b, c OpArgMask
	}{
		{OpMove, IABC, OpArgR, OpArgN},
		{OpLoadK, IABx, OpArgK, OpArgN},
		{OpAdd, IABC, OpArgK, OpArgK},
		{OpJmp, IAsBx, OpArgR, OpArgN},
		{OpForPrep, IAsBx, OpArgR, OpArgN},
		{OpClosure, IABx, OpArgU, OpArgN},
		{OpExtraArg, IAx, OpArgU, OpArgU},
	}
	for _, tt := range tests {
		i := ABC(tt.op, 0, 0, 0)
		if i.OpMode() != tt.mode || i.BMode() != tt.b || i.CMode() != tt.c {
			t.Errorf("%s modes = %v %d %d, want %v %d %d",
				tt.op, i.OpMode(), i.BMode(), i.CMode(), tt.mode, tt.b, tt.c)
		}
	}
}

func TestOpcodeIsJump(t *testing.T) {
	for _, op := range []Opcode{OpJmp, OpForLoop, OpForPrep, OpTForLoop} {
		if !op.IsJump() {
			t.Errorf("%s.IsJump() = false, want true", op)
		}
	}
	if OpCall.IsJump() {
		t.Error("CALL.IsJump() = true, want false")
	}
	if !OpReturn.IsReturn() {
		t.Error("RETURN.IsReturn() = false, want true")
	}
}
