package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/chazu/luavm/api"
	"github.com/chazu/luavm/state"
)

// openBuiltins registers print, the only global chunks get.
func openBuiltins(ls api.LuaState, out io.Writer) error {
	return ls.Register("print", newPrint(out))
}

func newPrint(out io.Writer) api.HostFunction {
	return func(l api.LuaState) (int, error) {
		n := l.GetTop()
		parts := make([]string, n)
		for i := 1; i <= n; i++ {
			parts[i-1] = tostring(l, i)
		}
		_, err := fmt.Fprintln(out, strings.Join(parts, "\t"))
		return 0, err
	}
}

// tostring renders the value at idx the way print shows it.
func tostring(l api.LuaState, idx int) string {
	if s, ok := l.ToStringX(idx); ok {
		return s
	}
	switch tp := l.Type(idx); tp {
	case api.TypeNone, api.TypeNil:
		return "nil"
	case api.TypeBoolean:
		if l.ToBoolean(idx) {
			return "true"
		}
		return "false"
	default:
		if vs, ok := l.(interface{ ToValue(int) state.Value }); ok {
			return fmt.Sprintf("%s: %p", l.TypeName(tp), vs.ToValue(idx))
		}
		return l.TypeName(tp)
	}
}
