package state

import "github.com/chazu/luavm/api"

// ---------------------------------------------------------------------------
// Get functions (Lua -> stack)
// ---------------------------------------------------------------------------

func (ls *LuaState) NewTable() {
	ls.CreateTable(0, 0)
}

// CreateTable pushes a new table presized for nArr array entries and nRec
// map entries.
func (ls *LuaState) CreateTable(nArr, nRec int) {
	ls.stack.push(NewTable(nArr, nRec))
}

// GetTable pops a key and pushes t[key], where t is the value at idx.
func (ls *LuaState) GetTable(idx int) (api.Type, error) {
	t, err := ls.tableAt(idx)
	if err != nil {
		return api.TypeNone, err
	}
	if ls.stack.top() < 1 {
		return api.TypeNone, newError(ErrInvalidIndex, "GetTable needs a key")
	}
	k := ls.stack.pop()
	return ls.pushField(t, k), nil
}

// GetField pushes t[k], where t is the value at idx.
func (ls *LuaState) GetField(idx int, k string) (api.Type, error) {
	t, err := ls.tableAt(idx)
	if err != nil {
		return api.TypeNone, err
	}
	return ls.pushField(t, String(k)), nil
}

// GetI pushes t[i], where t is the value at idx.
func (ls *LuaState) GetI(idx int, i int64) (api.Type, error) {
	t, err := ls.tableAt(idx)
	if err != nil {
		return api.TypeNone, err
	}
	return ls.pushField(t, Integer(i)), nil
}

// GetGlobal pushes the global name.
func (ls *LuaState) GetGlobal(name string) (api.Type, error) {
	g, err := ls.globalsTable()
	if err != nil {
		return api.TypeNone, err
	}
	return ls.pushField(g, String(name)), nil
}

func (ls *LuaState) pushField(t *Table, k Value) api.Type {
	v := t.Get(k)
	ls.stack.push(v)
	return typeOf(v)
}

func (ls *LuaState) tableAt(idx int) (*Table, error) {
	v := ls.stack.get(idx)
	if t, ok := v.(*Table); ok {
		return t, nil
	}
	return nil, newError(ErrNotTable, "attempt to index a %s value", typeName(v))
}

// ---------------------------------------------------------------------------
// Set functions (stack -> Lua)
// ---------------------------------------------------------------------------

// SetTable does t[k] = v, where t is the value at idx, v the top value and
// k the value below it. Both are popped on success.
func (ls *LuaState) SetTable(idx int) error {
	t, err := ls.tableAt(idx)
	if err != nil {
		return err
	}
	if ls.stack.top() < 2 {
		return newError(ErrInvalidIndex, "SetTable needs a key and a value")
	}
	if err := t.Put(ls.stack.get(-2), ls.stack.get(-1)); err != nil {
		return err
	}
	ls.Pop(2)
	return nil
}

// SetField does t[k] = v, where t is the value at idx and v the top value,
// which is popped.
func (ls *LuaState) SetField(idx int, k string) error {
	return ls.setField(idx, String(k))
}

// SetI does t[i] = v, where t is the value at idx and v the top value,
// which is popped.
func (ls *LuaState) SetI(idx int, i int64) error {
	return ls.setField(idx, Integer(i))
}

func (ls *LuaState) setField(idx int, k Value) error {
	t, err := ls.tableAt(idx)
	if err != nil {
		return err
	}
	if ls.stack.top() < 1 {
		return newError(ErrInvalidIndex, "no value to store")
	}
	if err := t.Put(k, ls.stack.get(-1)); err != nil {
		return err
	}
	ls.stack.pop()
	return nil
}

// SetGlobal pops a value and stores it as the global name.
func (ls *LuaState) SetGlobal(name string) error {
	g, err := ls.globalsTable()
	if err != nil {
		return err
	}
	if ls.stack.top() < 1 {
		return newError(ErrInvalidIndex, "no value to store")
	}
	if err := g.Put(String(name), ls.stack.get(-1)); err != nil {
		return err
	}
	ls.stack.pop()
	return nil
}

// Register binds a host function to the global name.
func (ls *LuaState) Register(name string, f api.HostFunction) error {
	ls.PushHostFunction(f)
	return ls.SetGlobal(name)
}
