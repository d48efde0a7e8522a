package state

import (
	"math"
	"strconv"
	"strings"

	"github.com/chazu/luavm/api"
	"github.com/chazu/luavm/binchunk"
	"github.com/chazu/luavm/number"
)

// Value is any Lua value. The set of implementations is closed: None,
// Nil, Boolean, Integer, Float, String, *Table and *Closure.
type Value interface {
	luaValue()
}

type (
	noneValue struct{}
	nilValue  struct{}

	// Boolean is a Lua boolean.
	Boolean bool
	// Integer is a Lua 64-bit integer.
	Integer int64
	// Float is a Lua 64-bit float.
	Float float64
	// String is an immutable Lua string.
	String string
)

var (
	// None marks an index that holds no value at all.
	None Value = noneValue{}
	// Nil is the Lua nil value.
	Nil Value = nilValue{}
)

func (noneValue) luaValue() {}
func (nilValue) luaValue()  {}
func (Boolean) luaValue()   {}
func (Integer) luaValue()   {}
func (Float) luaValue()     {}
func (String) luaValue()    {}
func (*Table) luaValue()    {}
func (*Closure) luaValue()  {}

// Closure is a callable value: either a Lua function instantiated from a
// prototype or a Go host function.
type Closure struct {
	proto  *binchunk.Prototype
	hostFn api.HostFunction

	// envUpvals marks which of the prototype's upvalues resolve to the
	// globals table.
	envUpvals []bool
}

func newLuaClosure(proto *binchunk.Prototype) *Closure {
	return &Closure{proto: proto, envUpvals: make([]bool, len(proto.Upvalues))}
}

func newHostClosure(f api.HostFunction) *Closure {
	return &Closure{hostFn: f}
}

// Proto returns the prototype of a Lua closure, or nil for a host closure.
func (c *Closure) Proto() *binchunk.Prototype {
	return c.proto
}

func typeOf(v Value) api.Type {
	switch v.(type) {
	case nilValue:
		return api.TypeNil
	case Boolean:
		return api.TypeBoolean
	case Integer, Float:
		return api.TypeNumber
	case String:
		return api.TypeString
	case *Table:
		return api.TypeTable
	case *Closure:
		return api.TypeFunction
	default:
		return api.TypeNone
	}
}

// valueOf converts a prototype constant into a Value.
func valueOf(k any) Value {
	switch k := k.(type) {
	case nil:
		return Nil
	case bool:
		return Boolean(k)
	case int64:
		return Integer(k)
	case float64:
		return Float(k)
	case string:
		return String(k)
	default:
		panic(newError(ErrMalformedCode, "unsupported constant %T", k))
	}
}

func toBoolean(v Value) bool {
	switch v := v.(type) {
	case nilValue, noneValue:
		return false
	case Boolean:
		return bool(v)
	default:
		return true
	}
}

// toFloat coerces numbers and numeric strings to a float.
func toFloat(v Value) (float64, bool) {
	switch v := v.(type) {
	case Float:
		return float64(v), true
	case Integer:
		return float64(v), true
	case String:
		return number.ParseFloat(string(v))
	default:
		return 0, false
	}
}

// toInteger coerces integers, floats with an exact integer value and
// numeric strings to an integer.
func toInteger(v Value) (int64, bool) {
	switch v := v.(type) {
	case Integer:
		return int64(v), true
	case Float:
		return number.FloatToInteger(float64(v))
	case String:
		return stringToInteger(string(v))
	default:
		return 0, false
	}
}

func stringToInteger(s string) (int64, bool) {
	if i, ok := number.ParseInteger(s); ok {
		return i, true
	}
	if f, ok := number.ParseFloat(s); ok {
		return number.FloatToInteger(f)
	}
	return 0, false
}

// toStringX converts strings and numbers to their string form.
func toStringX(v Value) (string, bool) {
	switch v := v.(type) {
	case String:
		return string(v), true
	case Integer:
		return strconv.FormatInt(int64(v), 10), true
	case Float:
		return formatFloat(float64(v)), true
	default:
		return "", false
	}
}

// formatFloat renders f the way Lua's "%.14g" does, keeping a ".0" suffix
// on integral values so they stay distinguishable from integers.
func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	s := strconv.FormatFloat(f, 'g', 14, 64)
	if !strings.ContainsAny(s, ".eEn") {
		s += ".0"
	}
	return s
}

func typeName(v Value) string {
	return typeOf(v).String()
}
