// Package api defines the embedding surface of the virtual machine: the
// stack-indexed state operations host code and opcode handlers are written
// against.
package api

// HostFunction is a Go callback callable from Lua. It receives the state
// with its own frame active (arguments at indices 1..GetTop()) and returns
// the number of results it left on top of that frame.
type HostFunction func(ls LuaState) (int, error)

// LuaState is the stack-indexed accessor/mutator surface.
//
// Indices are 1-based from the bottom of the current frame; negative
// indices count down from the top and RegistryIndex addresses the registry.
type LuaState interface {
	/* basic stack manipulation */
	GetTop() int
	AbsIndex(idx int) int
	CheckStack(n int) bool
	Pop(n int)
	Copy(fromIdx, toIdx int) error
	PushValue(idx int)
	Replace(idx int) error
	Insert(idx int) error
	Remove(idx int) error
	Rotate(idx, n int) error
	SetTop(idx int) error

	/* access functions (stack -> Go) */
	TypeName(tp Type) string
	Type(idx int) Type
	IsNone(idx int) bool
	IsNil(idx int) bool
	IsNoneOrNil(idx int) bool
	IsBoolean(idx int) bool
	IsInteger(idx int) bool
	IsNumber(idx int) bool
	IsString(idx int) bool
	IsTable(idx int) bool
	IsFunction(idx int) bool
	IsHostFunction(idx int) bool
	ToBoolean(idx int) bool
	ToInteger(idx int) int64
	ToIntegerX(idx int) (int64, bool)
	ToNumber(idx int) float64
	ToNumberX(idx int) (float64, bool)
	ToString(idx int) string
	ToStringX(idx int) (string, bool)
	ToHostFunction(idx int) HostFunction

	/* push functions (Go -> stack) */
	PushNil()
	PushBoolean(b bool)
	PushInteger(n int64)
	PushNumber(n float64)
	PushString(s string)
	PushFString(format string, a ...any)
	PushHostFunction(f HostFunction)
	PushGlobalTable()

	/* comparison and arithmetic */
	Arith(op ArithOp) error
	Compare(idx1, idx2 int, op CompareOp) (bool, error)
	RawEqual(idx1, idx2 int) bool

	/* get functions (Lua -> stack) */
	NewTable()
	CreateTable(nArr, nRec int)
	GetTable(idx int) (Type, error)
	GetField(idx int, k string) (Type, error)
	GetI(idx int, i int64) (Type, error)
	GetGlobal(name string) (Type, error)

	/* set functions (stack -> Lua) */
	SetTable(idx int) error
	SetField(idx int, k string) error
	SetI(idx int, i int64) error
	SetGlobal(name string) error
	Register(name string, f HostFunction) error

	/* load and call */
	Load(chunk []byte, chunkName, mode string) error
	Call(nArgs, nResults int) error
	PCall(nArgs, nResults int) error

	/* miscellaneous */
	Len(idx int) error
	RawLen(idx int) int
	Concat(n int) error
	Next(idx int) (bool, error)
}

// LuaVM extends LuaState with the operations opcode handlers need to reach
// the running function.
type LuaVM interface {
	LuaState

	PC() int
	AddPC(n int)
	Fetch() uint32
	GetConst(idx int)
	GetRK(rk int)
	RegisterCount() int
	LoadVararg(n int)
	LoadProto(idx int)
	PushUpvalue(idx int) error
	SetUpvalue(idx int) error
}
