package vm

import (
	"errors"
	"fmt"

	"github.com/chazu/luavm/api"
)

var (
	// ErrUnsupportedOpcode is returned for opcodes that are never
	// dispatched directly (EXTRAARG) or are out of range.
	ErrUnsupportedOpcode = errors.New("unsupported opcode")

	// ErrUpvalueUnsupported is returned when bytecode touches an upvalue
	// other than the _ENV environment.
	ErrUpvalueUnsupported = errors.New("upvalue access is not supported")
)

// OpMode is the operand encoding of an opcode.
type OpMode byte

const (
	IABC  OpMode = iota // [  B:9  ][  C:9  ][ A:8  ][OP:6]
	IABx                // [      Bx:18     ][ A:8  ][OP:6]
	IAsBx               // [     sBx:18     ][ A:8  ][OP:6]
	IAx                 // [           Ax:26        ][OP:6]
)

func (m OpMode) String() string {
	switch m {
	case IABC:
		return "iABC"
	case IABx:
		return "iABx"
	case IAsBx:
		return "iAsBx"
	case IAx:
		return "iAx"
	default:
		return fmt.Sprintf("OpMode(%d)", byte(m))
	}
}

// OpArgMask describes how an operand is used.
type OpArgMask byte

const (
	OpArgN OpArgMask = iota // argument is not used
	OpArgU                  // argument is used
	OpArgR                  // argument is a register or a jump offset
	OpArgK                  // argument is a constant or register/constant
)

// Opcode is a Lua 5.3 opcode.
type Opcode byte

const (
	OpMove Opcode = iota
	OpLoadK
	OpLoadKX
	OpLoadBool
	OpLoadNil
	OpGetUpval
	OpGetTabUp
	OpGetTable
	OpSetTabUp
	OpSetUpval
	OpSetTable
	OpNewTable
	OpSelf
	OpAdd
	OpSub
	OpMul
	OpMod
	OpPow
	OpDiv
	OpIdiv
	OpBand
	OpBor
	OpBxor
	OpShl
	OpShr
	OpUnm
	OpBnot
	OpNot
	OpLen
	OpConcat
	OpJmp
	OpEq
	OpLt
	OpLe
	OpTest
	OpTestSet
	OpCall
	OpTailCall
	OpReturn
	OpForLoop
	OpForPrep
	OpTForCall
	OpTForLoop
	OpSetList
	OpClosure
	OpVararg
	OpExtraArg
)

// Action executes one decoded instruction.
type Action func(i Instruction, vm api.LuaVM) error

// OpcodeInfo describes an opcode's encoding and handler.
type OpcodeInfo struct {
	TestFlag byte // next instruction is a jump
	SetAFlag byte // instruction sets register A
	ArgB     OpArgMask
	ArgC     OpArgMask
	Mode     OpMode
	Name     string
	Action   Action
}

var opcodeInfoTable []OpcodeInfo

func init() {
	opcodeInfoTable = []OpcodeInfo{
		/*     T  A  B       C       mode   name */
		OpMove:     {0, 1, OpArgR, OpArgN, IABC, "MOVE", move},          // R(A) := R(B)
		OpLoadK:    {0, 1, OpArgK, OpArgN, IABx, "LOADK", loadK},        // R(A) := Kst(Bx)
		OpLoadKX:   {0, 1, OpArgN, OpArgN, IABx, "LOADKX", loadKx},      // R(A) := Kst(extra arg)
		OpLoadBool: {0, 1, OpArgU, OpArgU, IABC, "LOADBOOL", loadBool},  // R(A) := (bool)B; if (C) pc++
		OpLoadNil:  {0, 1, OpArgU, OpArgN, IABC, "LOADNIL", loadNil},    // R(A), ..., R(A+B) := nil
		OpGetUpval: {0, 1, OpArgU, OpArgN, IABC, "GETUPVAL", getUpval},  // R(A) := UpValue[B]
		OpGetTabUp: {0, 1, OpArgU, OpArgK, IABC, "GETTABUP", getTabUp},  // R(A) := UpValue[B][RK(C)]
		OpGetTable: {0, 1, OpArgR, OpArgK, IABC, "GETTABLE", getTable},  // R(A) := R(B)[RK(C)]
		OpSetTabUp: {0, 0, OpArgK, OpArgK, IABC, "SETTABUP", setTabUp},  // UpValue[A][RK(B)] := RK(C)
		OpSetUpval: {0, 0, OpArgU, OpArgN, IABC, "SETUPVAL", setUpval},  // UpValue[B] := R(A)
		OpSetTable: {0, 0, OpArgK, OpArgK, IABC, "SETTABLE", setTable},  // R(A)[RK(B)] := RK(C)
		OpNewTable: {0, 1, OpArgU, OpArgU, IABC, "NEWTABLE", newTable},  // R(A) := {} (size = B,C)
		OpSelf:     {0, 1, OpArgR, OpArgK, IABC, "SELF", self},          // R(A+1) := R(B); R(A) := R(B)[RK(C)]
		OpAdd:      {0, 1, OpArgK, OpArgK, IABC, "ADD", add},            // R(A) := RK(B) + RK(C)
		OpSub:      {0, 1, OpArgK, OpArgK, IABC, "SUB", sub},            // R(A) := RK(B) - RK(C)
		OpMul:      {0, 1, OpArgK, OpArgK, IABC, "MUL", mul},            // R(A) := RK(B) * RK(C)
		OpMod:      {0, 1, OpArgK, OpArgK, IABC, "MOD", mod},            // R(A) := RK(B) % RK(C)
		OpPow:      {0, 1, OpArgK, OpArgK, IABC, "POW", pow},            // R(A) := RK(B) ^ RK(C)
		OpDiv:      {0, 1, OpArgK, OpArgK, IABC, "DIV", div},            // R(A) := RK(B) / RK(C)
		OpIdiv:     {0, 1, OpArgK, OpArgK, IABC, "IDIV", idiv},          // R(A) := RK(B) // RK(C)
		OpBand:     {0, 1, OpArgK, OpArgK, IABC, "BAND", band},          // R(A) := RK(B) & RK(C)
		OpBor:      {0, 1, OpArgK, OpArgK, IABC, "BOR", bor},            // R(A) := RK(B) | RK(C)
		OpBxor:     {0, 1, OpArgK, OpArgK, IABC, "BXOR", bxor},          // R(A) := RK(B) ~ RK(C)
		OpShl:      {0, 1, OpArgK, OpArgK, IABC, "SHL", shl},            // R(A) := RK(B) << RK(C)
		OpShr:      {0, 1, OpArgK, OpArgK, IABC, "SHR", shr},            // R(A) := RK(B) >> RK(C)
		OpUnm:      {0, 1, OpArgR, OpArgN, IABC, "UNM", unm},            // R(A) := -R(B)
		OpBnot:     {0, 1, OpArgR, OpArgN, IABC, "BNOT", bnot},          // R(A) := ~R(B)
		OpNot:      {0, 1, OpArgR, OpArgN, IABC, "NOT", not},            // R(A) := not R(B)
		OpLen:      {0, 1, OpArgR, OpArgN, IABC, "LEN", length},         // R(A) := length of R(B)
		OpConcat:   {0, 1, OpArgR, OpArgR, IABC, "CONCAT", concat},      // R(A) := R(B).. ... ..R(C)
		OpJmp:      {0, 0, OpArgR, OpArgN, IAsBx, "JMP", jmp},           // pc+=sBx; if (A) close all upvalues >= R(A - 1)
		OpEq:       {1, 0, OpArgK, OpArgK, IABC, "EQ", eq},              // if ((RK(B) == RK(C)) ~= A) then pc++
		OpLt:       {1, 0, OpArgK, OpArgK, IABC, "LT", lt},              // if ((RK(B) <  RK(C)) ~= A) then pc++
		OpLe:       {1, 0, OpArgK, OpArgK, IABC, "LE", le},              // if ((RK(B) <= RK(C)) ~= A) then pc++
		OpTest:     {1, 0, OpArgN, OpArgU, IABC, "TEST", test},          // if not (R(A) <=> C) then pc++
		OpTestSet:  {1, 1, OpArgR, OpArgU, IABC, "TESTSET", testSet},    // if (R(B) <=> C) then R(A) := R(B) else pc++
		OpCall:     {0, 1, OpArgU, OpArgU, IABC, "CALL", call},          // R(A), ... ,R(A+C-2) := R(A)(R(A+1), ... ,R(A+B-1))
		OpTailCall: {0, 1, OpArgU, OpArgU, IABC, "TAILCALL", tailCall},  // return R(A)(R(A+1), ... ,R(A+B-1))
		OpReturn:   {0, 0, OpArgU, OpArgN, IABC, "RETURN", _return},     // return R(A), ... ,R(A+B-2)
		OpForLoop:  {0, 1, OpArgR, OpArgN, IAsBx, "FORLOOP", forLoop},   // R(A)+=R(A+2); if R(A) <?= R(A+1) then { pc+=sBx; R(A+3)=R(A) }
		OpForPrep:  {0, 1, OpArgR, OpArgN, IAsBx, "FORPREP", forPrep},   // R(A)-=R(A+2); pc+=sBx
		OpTForCall: {0, 0, OpArgN, OpArgU, IABC, "TFORCALL", tForCall},  // R(A+3), ... ,R(A+2+C) := R(A)(R(A+1), R(A+2));
		OpTForLoop: {0, 1, OpArgR, OpArgN, IAsBx, "TFORLOOP", tForLoop}, // if R(A+1) ~= nil then { R(A)=R(A+1); pc += sBx }
		OpSetList:  {0, 0, OpArgU, OpArgU, IABC, "SETLIST", setList},    // R(A)[(C-1)*FPF+i] := R(A+i), 1 <= i <= B
		OpClosure:  {0, 1, OpArgU, OpArgN, IABx, "CLOSURE", closure},    // R(A) := closure(KPROTO[Bx])
		OpVararg:   {0, 1, OpArgU, OpArgN, IABC, "VARARG", vararg},      // R(A), R(A+1), ..., R(A+B-2) = vararg
		OpExtraArg: {0, 0, OpArgU, OpArgU, IAx, "EXTRAARG", nil},        // extra (larger) argument for previous opcode
	}
}

// Info returns the metadata for op. Unknown opcodes get a placeholder with
// no action.
func (op Opcode) Info() OpcodeInfo {
	if int(op) < len(opcodeInfoTable) {
		return opcodeInfoTable[op]
	}
	return OpcodeInfo{Mode: IABC, Name: fmt.Sprintf("UNKNOWN(%d)", byte(op))}
}

// String returns the opcode mnemonic.
func (op Opcode) String() string {
	return op.Info().Name
}

// IsJump reports whether the opcode adjusts the program counter by sBx.
func (op Opcode) IsJump() bool {
	return op == OpJmp || op == OpForLoop || op == OpForPrep || op == OpTForLoop
}

// IsReturn reports whether the opcode ends the running function.
func (op Opcode) IsReturn() bool {
	return op == OpReturn
}

// OpcodeCount returns the number of defined opcodes.
func OpcodeCount() int {
	return len(opcodeInfoTable)
}
