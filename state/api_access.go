package state

import (
	"fmt"

	"github.com/chazu/luavm/api"
)

// ---------------------------------------------------------------------------
// Access functions (stack -> Go)
// ---------------------------------------------------------------------------

func (ls *LuaState) TypeName(tp api.Type) string {
	return tp.String()
}

// Type returns the type of the value at idx, or api.TypeNone for an
// index outside the frame.
func (ls *LuaState) Type(idx int) api.Type {
	if ls.stack.isValid(idx) {
		return typeOf(ls.stack.get(idx))
	}
	return api.TypeNone
}

func (ls *LuaState) IsNone(idx int) bool {
	return ls.Type(idx) == api.TypeNone
}

func (ls *LuaState) IsNil(idx int) bool {
	return ls.Type(idx) == api.TypeNil
}

func (ls *LuaState) IsNoneOrNil(idx int) bool {
	return ls.Type(idx) <= api.TypeNil
}

func (ls *LuaState) IsBoolean(idx int) bool {
	return ls.Type(idx) == api.TypeBoolean
}

func (ls *LuaState) IsInteger(idx int) bool {
	_, ok := ls.stack.get(idx).(Integer)
	return ok
}

// IsNumber reports whether the value at idx is a number or a string
// convertible to one.
func (ls *LuaState) IsNumber(idx int) bool {
	_, ok := ls.ToNumberX(idx)
	return ok
}

// IsString reports whether the value at idx is a string or a number.
func (ls *LuaState) IsString(idx int) bool {
	t := ls.Type(idx)
	return t == api.TypeString || t == api.TypeNumber
}

func (ls *LuaState) IsTable(idx int) bool {
	return ls.Type(idx) == api.TypeTable
}

func (ls *LuaState) IsFunction(idx int) bool {
	return ls.Type(idx) == api.TypeFunction
}

func (ls *LuaState) IsHostFunction(idx int) bool {
	c, ok := ls.stack.get(idx).(*Closure)
	return ok && c.hostFn != nil
}

func (ls *LuaState) ToBoolean(idx int) bool {
	return toBoolean(ls.stack.get(idx))
}

func (ls *LuaState) ToInteger(idx int) int64 {
	i, _ := ls.ToIntegerX(idx)
	return i
}

// ToIntegerX converts the value at idx to an integer. Floats with an exact
// integer value and numeric strings convert; anything else reports false.
func (ls *LuaState) ToIntegerX(idx int) (int64, bool) {
	return toInteger(ls.stack.get(idx))
}

func (ls *LuaState) ToNumber(idx int) float64 {
	n, _ := ls.ToNumberX(idx)
	return n
}

// ToNumberX converts the value at idx to a float. Numbers and numeric
// strings convert; anything else reports false.
func (ls *LuaState) ToNumberX(idx int) (float64, bool) {
	return toFloat(ls.stack.get(idx))
}

func (ls *LuaState) ToString(idx int) string {
	s, _ := ls.ToStringX(idx)
	return s
}

// ToStringX converts a string or number at idx to a string.
func (ls *LuaState) ToStringX(idx int) (string, bool) {
	return toStringX(ls.stack.get(idx))
}

func (ls *LuaState) ToHostFunction(idx int) api.HostFunction {
	if c, ok := ls.stack.get(idx).(*Closure); ok {
		return c.hostFn
	}
	return nil
}

// ToValue returns the raw value at idx, or None.
func (ls *LuaState) ToValue(idx int) Value {
	return ls.stack.get(idx)
}

// ---------------------------------------------------------------------------
// Push functions (Go -> stack)
// ---------------------------------------------------------------------------

func (ls *LuaState) PushNil()             { ls.stack.push(Nil) }
func (ls *LuaState) PushBoolean(b bool)   { ls.stack.push(Boolean(b)) }
func (ls *LuaState) PushInteger(n int64)  { ls.stack.push(Integer(n)) }
func (ls *LuaState) PushNumber(n float64) { ls.stack.push(Float(n)) }
func (ls *LuaState) PushString(s string)  { ls.stack.push(String(s)) }

// PushFString pushes a string formatted with fmt.Sprintf verbs.
func (ls *LuaState) PushFString(format string, a ...any) {
	ls.stack.push(String(fmt.Sprintf(format, a...)))
}

func (ls *LuaState) PushHostFunction(f api.HostFunction) {
	ls.stack.push(newHostClosure(f))
}

func (ls *LuaState) PushGlobalTable() {
	ls.stack.push(ls.registry.Get(Integer(api.RegistryGlobals)))
}
