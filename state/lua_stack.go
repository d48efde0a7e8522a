package state

import "github.com/chazu/luavm/api"

// luaStack is one call frame: the value slots of a function activation
// plus its program counter, closure, vararg tail and caller link.
type luaStack struct {
	slots   []Value
	state   *LuaState
	closure *Closure
	varargs []Value
	pc      int
	prev    *luaStack
}

func newLuaStack(size int, state *LuaState) *luaStack {
	return &luaStack{
		slots: make([]Value, 0, size),
		state: state,
	}
}

func (s *luaStack) top() int {
	return len(s.slots)
}

// check reports whether n more values fit under the slot ceiling and
// reserves room for them.
func (s *luaStack) check(n int) bool {
	if n <= 0 {
		return true
	}
	if len(s.slots)+n > s.state.maxSlots {
		return false
	}
	if free := cap(s.slots) - len(s.slots); free < n {
		grown := make([]Value, len(s.slots), len(s.slots)+n+api.MinStack)
		copy(grown, s.slots)
		s.slots = grown
	}
	return true
}

func (s *luaStack) push(val Value) {
	if len(s.slots) >= s.state.maxSlots {
		panic(newError(ErrStackOverflow, "more than %d slots in one frame", s.state.maxSlots))
	}
	if val == nil || val == None {
		val = Nil
	}
	s.slots = append(s.slots, val)
}

func (s *luaStack) pop() Value {
	n := len(s.slots)
	if n == 0 {
		panic(newError(ErrInvalidIndex, "stack underflow"))
	}
	val := s.slots[n-1]
	s.slots[n-1] = nil
	s.slots = s.slots[:n-1]
	return val
}

// pushN pushes vals, truncated or padded with Nil to exactly n values.
// A negative n pushes all of them.
func (s *luaStack) pushN(vals []Value, n int) {
	if n < 0 {
		n = len(vals)
	}
	for i := 0; i < n; i++ {
		if i < len(vals) {
			s.push(vals[i])
		} else {
			s.push(Nil)
		}
	}
}

// popN removes the top n values and returns them bottom first.
func (s *luaStack) popN(n int) []Value {
	if n <= 0 {
		return nil
	}
	if n > len(s.slots) {
		panic(newError(ErrInvalidIndex, "stack underflow"))
	}
	vals := make([]Value, n)
	for i := n - 1; i >= 0; i-- {
		vals[i] = s.pop()
	}
	return vals
}

func (s *luaStack) absIndex(idx int) int {
	if idx >= 0 || idx <= api.RegistryIndex {
		return idx
	}
	return idx + len(s.slots) + 1
}

func (s *luaStack) isValid(idx int) bool {
	if idx == api.RegistryIndex {
		return true
	}
	abs := s.absIndex(idx)
	return abs > 0 && abs <= len(s.slots)
}

func (s *luaStack) get(idx int) Value {
	if idx == api.RegistryIndex {
		return s.state.registry
	}
	abs := s.absIndex(idx)
	if abs > 0 && abs <= len(s.slots) {
		return s.slots[abs-1]
	}
	return None
}

func (s *luaStack) set(idx int, val Value) error {
	if val == nil || val == None {
		val = Nil
	}
	if idx == api.RegistryIndex {
		t, ok := val.(*Table)
		if !ok {
			return newError(ErrNotTable, "registry must be a table, got %s", typeName(val))
		}
		s.state.registry = t
		return nil
	}
	abs := s.absIndex(idx)
	if abs > 0 && abs <= len(s.slots) {
		s.slots[abs-1] = val
		return nil
	}
	return newError(ErrInvalidIndex, "index %d out of range (top %d)", idx, len(s.slots))
}

// reverse reverses slots[from..to], zero-based and inclusive.
func (s *luaStack) reverse(from, to int) {
	for from < to {
		s.slots[from], s.slots[to] = s.slots[to], s.slots[from]
		from++
		to--
	}
}
