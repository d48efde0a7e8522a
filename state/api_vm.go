package state

import (
	"github.com/chazu/luavm/api"
	"github.com/chazu/luavm/binchunk"
	"github.com/chazu/luavm/vm"
)

// ---------------------------------------------------------------------------
// api.LuaVM: operations used by the opcode handlers
// ---------------------------------------------------------------------------

func (ls *LuaState) PC() int {
	return ls.stack.pc
}

func (ls *LuaState) AddPC(n int) {
	ls.stack.pc += n
}

// Fetch returns the instruction at pc and advances pc.
func (ls *LuaState) Fetch() uint32 {
	code := ls.proto().Code
	pc := ls.stack.pc
	if pc < 0 || pc >= len(code) {
		panic(newError(ErrMalformedCode, "pc %d outside %d instructions", pc, len(code)))
	}
	ls.stack.pc++
	return code[pc]
}

// GetConst pushes constant idx of the running function.
func (ls *LuaState) GetConst(idx int) {
	consts := ls.proto().Constants
	if idx < 0 || idx >= len(consts) {
		panic(newError(ErrMalformedCode, "constant %d outside %d constants", idx, len(consts)))
	}
	ls.stack.push(valueOf(consts[idx]))
}

// GetRK pushes a constant when rk has its constant bit set and a register
// otherwise.
func (ls *LuaState) GetRK(rk int) {
	if rk > 0xFF { // constant
		ls.GetConst(rk & 0xFF)
	} else { // register
		ls.PushValue(rk + 1)
	}
}

// RegisterCount returns the number of registers of the running function.
func (ls *LuaState) RegisterCount() int {
	return int(ls.proto().MaxStackSize)
}

// LoadVararg pushes n of the frame's extra arguments, or all of them when
// n is negative.
func (ls *LuaState) LoadVararg(n int) {
	if n < 0 {
		n = len(ls.stack.varargs)
	}
	ls.stack.check(n)
	ls.stack.pushN(ls.stack.varargs, n)
}

// LoadProto instantiates nested prototype idx as a closure and pushes it.
// Upvalues captured from the enclosing function's upvalues inherit their
// environment flag.
func (ls *LuaState) LoadProto(idx int) {
	parent := ls.stack.closure
	protos := parent.proto.Protos
	if idx < 0 || idx >= len(protos) {
		panic(newError(ErrMalformedCode, "prototype %d outside %d prototypes", idx, len(protos)))
	}

	c := newLuaClosure(protos[idx])
	for i, uv := range protos[idx].Upvalues {
		if uv.Instack == 0 && int(uv.Idx) < len(parent.envUpvals) {
			c.envUpvals[i] = parent.envUpvals[uv.Idx]
		}
	}
	ls.stack.push(c)
}

// PushUpvalue pushes upvalue idx of the running function. Only the
// environment upvalue can be read.
func (ls *LuaState) PushUpvalue(idx int) error {
	if err := ls.checkEnvUpvalue(idx); err != nil {
		return err
	}
	ls.PushGlobalTable()
	return nil
}

// SetUpvalue pops a value into upvalue idx. Assigning a table to the
// environment upvalue replaces the globals table.
func (ls *LuaState) SetUpvalue(idx int) error {
	if err := ls.checkEnvUpvalue(idx); err != nil {
		return err
	}
	v := ls.stack.get(-1)
	t, ok := v.(*Table)
	if !ok {
		return &RuntimeError{Kind: vm.ErrUpvalueUnsupported, Msg: "environment must be a table, got " + typeName(v)}
	}
	ls.registry.Put(Integer(api.RegistryGlobals), t)
	ls.stack.pop()
	return nil
}

func (ls *LuaState) checkEnvUpvalue(idx int) error {
	c := ls.stack.closure
	if c != nil && idx >= 0 && idx < len(c.envUpvals) && c.envUpvals[idx] {
		return nil
	}
	name := "?"
	if c != nil && c.proto != nil && idx >= 0 && idx < len(c.proto.UpvalueNames) {
		name = c.proto.UpvalueNames[idx]
	}
	return &RuntimeError{Kind: vm.ErrUpvalueUnsupported, Msg: "upvalue " + name}
}

func (ls *LuaState) proto() *binchunk.Prototype {
	c := ls.stack.closure
	if c == nil || c.proto == nil {
		panic(newError(ErrMalformedCode, "no Lua function is running"))
	}
	return c.proto
}
