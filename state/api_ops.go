package state

import (
	"strings"

	"github.com/chazu/luavm/api"
)

// Arith pops one (unary) or two operands, applies op and pushes the
// result. On error the operands stay on the stack.
func (ls *LuaState) Arith(op api.ArithOp) error {
	need := 2
	if op.IsUnary() {
		need = 1
	}
	if ls.stack.top() < need {
		return newError(ErrInvalidIndex, "%s needs %d operands", op, need)
	}

	b := ls.stack.get(-1)
	a := b
	if need == 2 {
		a = ls.stack.get(-2)
	}
	result, err := arith(a, b, op)
	if err != nil {
		return err
	}
	ls.Pop(need)
	ls.stack.push(result)
	return nil
}

// Compare compares the values at idx1 and idx2. An invalid index compares
// false.
func (ls *LuaState) Compare(idx1, idx2 int, op api.CompareOp) (bool, error) {
	if !ls.stack.isValid(idx1) || !ls.stack.isValid(idx2) {
		return false, nil
	}
	a, b := ls.stack.get(idx1), ls.stack.get(idx2)
	switch op {
	case api.OpEq:
		return eq(a, b), nil
	case api.OpLt:
		return lt(a, b)
	case api.OpLe:
		return le(a, b)
	default:
		return false, newError(ErrComparison, "unknown comparison %d", op)
	}
}

// RawEqual compares two values for primitive equality.
func (ls *LuaState) RawEqual(idx1, idx2 int) bool {
	if !ls.stack.isValid(idx1) || !ls.stack.isValid(idx2) {
		return false
	}
	return eq(ls.stack.get(idx1), ls.stack.get(idx2))
}

// Len pushes the length of the string or table at idx.
func (ls *LuaState) Len(idx int) error {
	switch v := ls.stack.get(idx).(type) {
	case String:
		ls.stack.push(Integer(len(v)))
	case *Table:
		ls.stack.push(Integer(v.Len()))
	default:
		return newError(ErrLength, "attempt to get length of a %s value", typeName(v))
	}
	return nil
}

// RawLen returns the length of the string or table at idx, and 0 for
// anything else.
func (ls *LuaState) RawLen(idx int) int {
	switch v := ls.stack.get(idx).(type) {
	case String:
		return len(v)
	case *Table:
		return v.Len()
	default:
		return 0
	}
}

// Concat pops n values, concatenates them and pushes the result. Every
// operand must be a string or a number.
func (ls *LuaState) Concat(n int) error {
	if n < 0 || n > ls.stack.top() {
		return newError(ErrInvalidIndex, "cannot concatenate %d values (top %d)", n, ls.stack.top())
	}
	switch n {
	case 0:
		ls.stack.push(String(""))
		return nil
	case 1:
		return nil
	}

	var sb strings.Builder
	for i := -n; i < 0; i++ {
		v := ls.stack.get(i)
		s, ok := toStringX(v)
		if !ok {
			return newError(ErrConcatenation, "attempt to concatenate a %s value", typeName(v))
		}
		sb.WriteString(s)
	}
	ls.Pop(n)
	ls.stack.push(String(sb.String()))
	return nil
}

// Next pops a key and pushes the following key/value pair of the table at
// idx. It returns false, with nothing pushed, once the traversal is done.
func (ls *LuaState) Next(idx int) (bool, error) {
	t, ok := ls.stack.get(idx).(*Table)
	if !ok {
		return false, newError(ErrNotTable, "table expected, got %s", typeName(ls.stack.get(idx)))
	}
	k, v, err := t.Next(ls.stack.get(-1))
	if err != nil {
		return false, err
	}
	ls.stack.pop()
	if k == Nil {
		return false, nil
	}
	ls.stack.push(k)
	ls.stack.push(v)
	return true, nil
}
