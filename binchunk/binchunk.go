// Package binchunk reads and writes Lua 5.3 precompiled chunks (the output
// of luac) as a tree of function prototypes.
//
// Layout of a chunk:
//
//	header:   "\x1bLua" 0x53 0x00 LUAC_DATA(6) sizes(5) LUAC_INT(8) LUAC_NUM(8)
//	          size_upvalues(1)
//	function: source lineDefined lastLineDefined numParams isVararg
//	          maxStackSize code constants upvalues protos
//	          lineInfo locVars upvalueNames
//
// Ints are 4 bytes, lua_Integer and lua_Number 8 bytes, all little-endian.
package binchunk

const (
	LuaSignature    = "\x1bLua"
	LuacVersion     = 0x53
	LuacFormat      = 0
	LuacData        = "\x19\x93\r\n\x1a\n"
	CIntSize        = 4
	CSizetSize      = 8
	InstructionSize = 4
	LuaIntegerSize  = 8
	LuaNumberSize   = 8
	LuacInt         = 0x5678
	LuacNum         = 370.5
)

// Constant tags.
const (
	TagNil      = 0x00
	TagBoolean  = 0x01
	TagNumber   = 0x03
	TagInteger  = 0x13
	TagShortStr = 0x04
	TagLongStr  = 0x14
)

// HeaderSize is the number of bytes before the root prototype, including
// the size_upvalues byte.
const HeaderSize = 4 + 1 + 1 + 6 + 5 + 8 + 8 + 1

// Prototype is an immutable function template. Constants hold nil, bool,
// int64, float64 or string.
type Prototype struct {
	Source          string
	LineDefined     uint32
	LastLineDefined uint32
	NumParams       byte
	IsVararg        byte
	MaxStackSize    byte
	Code            []uint32
	Constants       []any
	Upvalues        []Upvalue
	Protos          []*Prototype
	LineInfo        []uint32
	LocVars         []LocVar
	UpvalueNames    []string
}

// Upvalue describes where a closure finds an upvalue when it is created:
// in a register of the enclosing function (Instack = 1) or among the
// enclosing function's own upvalues.
type Upvalue struct {
	Instack byte
	Idx     byte
}

// LocVar is debug information for a local variable.
type LocVar struct {
	VarName string
	StartPC uint32
	EndPC   uint32
}

// Variadic reports whether the function accepts extra arguments.
func (p *Prototype) Variadic() bool {
	return p.IsVararg != 0
}

// Line returns the source line for the instruction at pc, or 0 when line
// information is absent.
func (p *Prototype) Line(pc int) uint32 {
	if pc >= 0 && pc < len(p.LineInfo) {
		return p.LineInfo[pc]
	}
	return 0
}

// IsChunk reports whether data starts with the precompiled chunk signature.
func IsChunk(data []byte) bool {
	return len(data) >= len(LuaSignature) && string(data[:len(LuaSignature)]) == LuaSignature
}
