package state

import (
	"errors"
	"math"
	"testing"
)

func mustPut(t *testing.T, tbl *Table, k, v Value) {
	t.Helper()
	if err := tbl.Put(k, v); err != nil {
		t.Fatalf("Put(%v, %v): %v", k, v, err)
	}
}

func TestTableMigration(t *testing.T) {
	tbl := NewTable(0, 0)
	mustPut(t, tbl, Integer(1), String("a"))
	mustPut(t, tbl, Integer(3), String("c"))
	mustPut(t, tbl, Integer(2), String("b"))

	if got := tbl.Len(); got != 3 {
		t.Errorf("Len() = %d, want 3", got)
	}
	for i, want := range []String{"a", "b", "c"} {
		if got := tbl.Get(Integer(i + 1)); got != want {
			t.Errorf("Get(%d) = %v, want %v", i+1, got, want)
		}
	}
	if len(tbl.hash) != 0 {
		t.Errorf("map segment holds %d entries after migration, want 0", len(tbl.hash))
	}
}

func TestTablePutOrderIndependent(t *testing.T) {
	keys := []Value{Integer(1), Integer(2), Integer(3), Integer(5), String("x"), Float(2.5), Boolean(true)}
	vals := []Value{String("one"), String("two"), String("three"), String("five"), Integer(10), Integer(25), Float(0.5)}

	var permute func([]int, int)
	count := 0
	permute = func(order []int, k int) {
		if k == len(order) {
			count++
			tbl := NewTable(0, 0)
			for _, i := range order {
				mustPut(t, tbl, keys[i], vals[i])
			}
			for i, key := range keys {
				if got := tbl.Get(key); got != vals[i] {
					t.Fatalf("order %v: Get(%v) = %v, want %v", order, key, got, vals[i])
				}
			}
			if got := tbl.Len(); got != 3 {
				t.Fatalf("order %v: Len() = %d, want 3", order, got)
			}
			return
		}
		for i := k; i < len(order); i++ {
			order[k], order[i] = order[i], order[k]
			permute(order, k+1)
			order[k], order[i] = order[i], order[k]
		}
	}
	permute([]int{0, 1, 2, 3, 4, 5, 6}, 0)
	if count != 5040 {
		t.Errorf("checked %d permutations, want 5040", count)
	}
}

func TestTableShrink(t *testing.T) {
	tbl := NewTable(4, 0)
	for i := 1; i <= 4; i++ {
		mustPut(t, tbl, Integer(i), Integer(i*10))
	}
	mustPut(t, tbl, Integer(3), Nil)
	if got := tbl.Len(); got != 4 {
		t.Errorf("Len() after clearing an inner slot = %d, want 4", got)
	}

	mustPut(t, tbl, Integer(4), Nil)
	if got := tbl.Len(); got != 2 {
		t.Errorf("Len() after clearing the last slot = %d, want 2", got)
	}

	mustPut(t, tbl, Integer(3), Integer(30))
	if got := tbl.Len(); got != 3 {
		t.Errorf("Len() after re-inserting = %d, want 3", got)
	}
}

func TestTableFloatKeysNormalized(t *testing.T) {
	tbl := NewTable(0, 0)
	mustPut(t, tbl, Float(1.0), String("one"))
	if got := tbl.Get(Integer(1)); got != String("one") {
		t.Errorf("Get(1) = %v, want one", got)
	}
	if got := tbl.Len(); got != 1 {
		t.Errorf("Len() = %d, want 1", got)
	}

	mustPut(t, tbl, Integer(7), String("seven"))
	if got := tbl.Get(Float(7)); got != String("seven") {
		t.Errorf("Get(7.0) = %v, want seven", got)
	}
	if got := tbl.Get(Float(7.5)); got != Nil {
		t.Errorf("Get(7.5) = %v, want nil", got)
	}
}

func TestTableBadKeys(t *testing.T) {
	tbl := NewTable(0, 0)
	for _, key := range []Value{Nil, Float(math.NaN())} {
		err := tbl.Put(key, Integer(1))
		if !errors.Is(err, ErrTableKey) {
			t.Errorf("Put(%v) error = %v, want ErrTableKey", key, err)
		}
	}
}

func TestTableNilDeletes(t *testing.T) {
	tbl := NewTable(0, 0)
	mustPut(t, tbl, String("k"), Integer(1))
	mustPut(t, tbl, String("k"), Nil)
	if got := tbl.Get(String("k")); got != Nil {
		t.Errorf("Get(k) = %v, want nil", got)
	}
	if _, ok := tbl.hash[String("k")]; ok {
		t.Error("deleted key still present in map segment")
	}
}

func TestTableNext(t *testing.T) {
	tbl := NewTable(0, 0)
	mustPut(t, tbl, Integer(1), String("a"))
	mustPut(t, tbl, Integer(2), String("b"))
	mustPut(t, tbl, String("x"), Integer(1))
	mustPut(t, tbl, String("y"), Integer(2))
	mustPut(t, tbl, Integer(10), Integer(3))

	var keys []Value
	k := Nil
	for {
		nk, _, err := tbl.Next(k)
		if err != nil {
			t.Fatalf("Next(%v): %v", k, err)
		}
		if nk == Nil {
			break
		}
		keys = append(keys, nk)
		k = nk
	}

	want := []Value{Integer(1), Integer(2), String("x"), String("y"), Integer(10)}
	if len(keys) != len(want) {
		t.Fatalf("traversal = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("key %d = %v, want %v", i, keys[i], want[i])
		}
	}
}

func TestTableNextWhileClearing(t *testing.T) {
	tbl := NewTable(0, 0)
	for _, s := range []string{"a", "b", "c", "d"} {
		mustPut(t, tbl, String(s), Boolean(true))
	}

	seen := 0
	k := Nil
	for {
		nk, _, err := tbl.Next(k)
		if err != nil {
			t.Fatalf("Next(%v): %v", k, err)
		}
		if nk == Nil {
			break
		}
		seen++
		mustPut(t, tbl, nk, Nil)
		k = nk
	}
	if seen != 4 {
		t.Errorf("visited %d keys, want 4", seen)
	}
	if nk, _, _ := tbl.Next(Nil); nk != Nil {
		t.Errorf("table not empty after clearing, first key %v", nk)
	}
}

func TestTableNextWhileClearingArray(t *testing.T) {
	tbl := NewTable(0, 0)
	for i := int64(1); i <= 3; i++ {
		mustPut(t, tbl, Integer(i), Integer(i*10))
	}
	mustPut(t, tbl, String("x"), Boolean(true))

	seen := 0
	k := Nil
	for {
		nk, _, err := tbl.Next(k)
		if err != nil {
			t.Fatalf("Next(%v): %v", k, err)
		}
		if nk == Nil {
			break
		}
		seen++
		mustPut(t, tbl, nk, Nil)
		k = nk
	}
	if seen != 4 {
		t.Errorf("visited %d keys, want 4", seen)
	}
	if tbl.Len() != 0 {
		t.Errorf("Len() = %d after clearing, want 0", tbl.Len())
	}
}

func TestTableNextUnknownKey(t *testing.T) {
	tbl := NewTable(0, 0)
	mustPut(t, tbl, String("a"), Integer(1))
	if _, _, err := tbl.Next(String("zzz")); !errors.Is(err, ErrTableKey) {
		t.Errorf("Next(unknown) error = %v, want ErrTableKey", err)
	}
}

func TestTableOrderCompaction(t *testing.T) {
	tbl := NewTable(0, 0)
	for i := 0; i < 100; i++ {
		key := String(string(rune('A'+i%26)) + string(rune('a'+i/26)))
		mustPut(t, tbl, key, Integer(i))
		mustPut(t, tbl, key, Nil)
	}
	mustPut(t, tbl, String("keep"), Integer(1))
	if len(tbl.order) > 2*len(tbl.hash)+17 {
		t.Errorf("order holds %d keys for %d live entries", len(tbl.order), len(tbl.hash))
	}
	if k, v, _ := tbl.Next(Nil); k != String("keep") || v != Integer(1) {
		t.Errorf("Next(nil) = %v, %v, want keep, 1", k, v)
	}
}
