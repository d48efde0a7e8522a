package state

import (
	"math"

	"github.com/chazu/luavm/number"
)

// Table is a Lua table: a dense array segment for the keys 1..n plus a
// map segment for everything else. A key stored in the array segment is
// never also present in the map segment.
type Table struct {
	arr  []Value
	hash map[Value]Value

	// order records map keys in insertion order for Next. Deleted keys
	// stay in place until the slice is compacted so that a traversal can
	// continue past a key it just cleared.
	order []Value
	slot  map[Value]int
}

// NewTable returns an empty table with room for nArr array entries and
// nRec map entries.
func NewTable(nArr, nRec int) *Table {
	t := &Table{}
	if nArr > 0 {
		t.arr = make([]Value, 0, nArr)
	}
	if nRec > 0 {
		t.hash = make(map[Value]Value, nRec)
	}
	return t
}

// Len returns the size of the array segment.
func (t *Table) Len() int {
	return len(t.arr)
}

// Get returns the value stored under key, or Nil.
func (t *Table) Get(key Value) Value {
	key = normalizeKey(key)
	if idx, ok := key.(Integer); ok && idx >= 1 && int64(idx) <= int64(len(t.arr)) {
		return t.arr[idx-1]
	}
	if v, ok := t.hash[key]; ok {
		return v
	}
	return Nil
}

// Put stores val under key. Storing Nil removes the key.
func (t *Table) Put(key, val Value) error {
	switch k := key.(type) {
	case nilValue, noneValue:
		return newError(ErrTableKey, "table index is nil")
	case Float:
		if math.IsNaN(float64(k)) {
			return newError(ErrTableKey, "table index is NaN")
		}
	}
	if val == nil || val == None {
		val = Nil
	}

	key = normalizeKey(key)
	if idx, ok := key.(Integer); ok && idx >= 1 {
		arrLen := Integer(len(t.arr))
		if idx <= arrLen {
			t.arr[idx-1] = val
			if idx == arrLen && val == Nil {
				t.shrinkArray()
			}
			return nil
		}
		if idx == arrLen+1 {
			delete(t.hash, key)
			if val != Nil {
				t.arr = append(t.arr, val)
				t.expandArray()
			}
			return nil
		}
	}

	if val == Nil {
		delete(t.hash, key)
		return nil
	}
	if t.hash == nil {
		t.hash = make(map[Value]Value)
	}
	if _, seen := t.slot[key]; !seen {
		t.track(key)
	}
	t.hash[key] = val
	return nil
}

// Next returns the entry following key in traversal order: the array
// segment first, then the map segment in insertion order. Passing Nil
// starts a traversal; a Nil key in the result ends it.
func (t *Table) Next(key Value) (Value, Value, error) {
	key = normalizeKey(key)

	start := 0
	if idx, ok := key.(Integer); ok && idx >= 1 && int64(idx) <= int64(len(t.arr)) {
		start = int(idx)
	} else if key != Nil {
		pos, ok := t.slot[key]
		if ok {
			return t.nextInMap(pos + 1)
		}
		// an array key cut off by shrinkArray; the rest of the array is nil
		if idx, isInt := key.(Integer); isInt && idx >= 1 {
			return t.nextInMap(0)
		}
		return nil, nil, newError(ErrTableKey, "invalid key to 'next'")
	}

	for i := start; i < len(t.arr); i++ {
		if t.arr[i] != Nil {
			return Integer(i + 1), t.arr[i], nil
		}
	}
	return t.nextInMap(0)
}

func (t *Table) nextInMap(pos int) (Value, Value, error) {
	for ; pos < len(t.order); pos++ {
		k := t.order[pos]
		if v, ok := t.hash[k]; ok {
			return k, v, nil
		}
	}
	return Nil, Nil, nil
}

// track appends a new map key to the traversal order, compacting away
// deleted keys once they dominate the slice.
func (t *Table) track(key Value) {
	if t.slot == nil {
		t.slot = make(map[Value]int)
	}
	if len(t.order) >= 2*len(t.hash)+16 {
		live := t.order[:0]
		clear(t.slot)
		for _, k := range t.order {
			if _, ok := t.hash[k]; ok {
				t.slot[k] = len(live)
				live = append(live, k)
			}
		}
		clear(t.order[len(live):])
		t.order = live
	}
	t.slot[key] = len(t.order)
	t.order = append(t.order, key)
}

func (t *Table) shrinkArray() {
	i := len(t.arr)
	for i > 0 && t.arr[i-1] == Nil {
		i--
	}
	clear(t.arr[i:])
	t.arr = t.arr[:i]
}

// expandArray pulls consecutive integer keys out of the map segment onto
// the end of the array segment.
func (t *Table) expandArray() {
	for idx := Integer(len(t.arr) + 1); ; idx++ {
		val, found := t.hash[idx]
		if !found {
			return
		}
		delete(t.hash, idx)
		t.arr = append(t.arr, val)
	}
}

// normalizeKey turns floats with an exact integer value into integers so
// that 1 and 1.0 address the same entry.
func normalizeKey(key Value) Value {
	if f, ok := key.(Float); ok {
		if i, ok := number.FloatToInteger(float64(f)); ok {
			return Integer(i)
		}
	}
	return key
}
