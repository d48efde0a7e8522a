package api

const (
	// MinStack is the number of free slots every frame is guaranteed to have
	// above its registers.
	MinStack = 20

	// MaxStack bounds the value slots of a single frame.
	MaxStack = 1000000

	// RegistryIndex is the pseudo-index addressing the registry table.
	RegistryIndex = -MaxStack - 1000

	// RegistryGlobals is the registry key holding the global table.
	RegistryGlobals int64 = 2

	// MultRet asks Call to keep every result.
	MultRet = -1

	// FieldsPerFlush is the number of list items SETLIST stores per batch.
	FieldsPerFlush = 50
)

// Type identifies the basic type of a Lua value.
type Type int

const (
	TypeNone Type = iota - 1
	TypeNil
	TypeBoolean
	TypeLightUserdata
	TypeNumber
	TypeString
	TypeTable
	TypeFunction
	TypeUserdata
	TypeThread
)

// String returns the name Lua uses for the type.
func (t Type) String() string {
	switch t {
	case TypeNone:
		return "no value"
	case TypeNil:
		return "nil"
	case TypeBoolean:
		return "boolean"
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeTable:
		return "table"
	case TypeFunction:
		return "function"
	case TypeThread:
		return "thread"
	default:
		return "userdata"
	}
}

// ArithOp selects an arithmetic or bitwise operator for Arith.
type ArithOp int

const (
	OpAdd  ArithOp = iota // +
	OpSub                 // -
	OpMul                 // *
	OpMod                 // %
	OpPow                 // ^
	OpDiv                 // /
	OpIdiv                // //
	OpBand                // &
	OpBor                 // |
	OpBxor                // ~
	OpShl                 // <<
	OpShr                 // >>
	OpUnm                 // - (unary)
	OpBnot                // ~ (unary)
)

var arithOpNames = [...]string{"add", "sub", "mul", "mod", "pow", "div", "idiv", "band", "bor", "bxor", "shl", "shr", "unm", "bnot"}

// String returns the short name of the operator.
func (op ArithOp) String() string {
	if op >= 0 && int(op) < len(arithOpNames) {
		return arithOpNames[op]
	}
	return "unknown"
}

// IsUnary reports whether the operator takes a single operand.
func (op ArithOp) IsUnary() bool {
	return op == OpUnm || op == OpBnot
}

// CompareOp selects a comparison for Compare.
type CompareOp int

const (
	OpEq CompareOp = iota // ==
	OpLt                  // <
	OpLe                  // <=
)
