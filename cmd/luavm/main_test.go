package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/luavm/binchunk"
	"github.com/chazu/luavm/config"
	"github.com/chazu/luavm/state"
	"github.com/chazu/luavm/vm"
)

// helloProto is print("hello", 42, ...) with a nested no-op function.
func helloProto() *binchunk.Prototype {
	code := []vm.Instruction{
		vm.ABC(vm.OpGetTabUp, 0, 0, vm.RK(0)),
		vm.ABx(vm.OpLoadK, 1, 1),
		vm.ABx(vm.OpLoadK, 2, 2),
		vm.ABC(vm.OpVararg, 3, 0, 0),
		vm.ABC(vm.OpCall, 0, 0, 1),
		vm.ABC(vm.OpReturn, 0, 1, 0),
	}
	p := &binchunk.Prototype{
		Source:       "@hello.lua",
		IsVararg:     1,
		MaxStackSize: 4,
		Constants:    []any{"print", "hello", int64(42)},
		Upvalues:     []binchunk.Upvalue{{Instack: 1, Idx: 0}},
		LineInfo:     []uint32{1, 1, 1, 1, 1, 2},
		Protos: []*binchunk.Prototype{{
			Source:       "@hello.lua",
			LineDefined:  3,
			MaxStackSize: 2,
			Code:         []uint32{uint32(vm.ABC(vm.OpReturn, 0, 1, 0))},
		}},
	}
	for _, i := range code {
		p.Code = append(p.Code, uint32(i))
	}
	return p
}

func writeChunk(t *testing.T, dir, name string, p *binchunk.Prototype) string {
	t.Helper()
	data, err := binchunk.Dump(p)
	if err != nil {
		t.Fatalf("Dump: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestPrintBuiltin(t *testing.T) {
	var out bytes.Buffer
	ls := state.New()
	if err := openBuiltins(ls, &out); err != nil {
		t.Fatalf("openBuiltins: %v", err)
	}

	data, _ := binchunk.Dump(helloProto())
	if err := ls.Load(data, "hello", "b"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	ls.PushString("x")
	ls.PushNumber(2.5)
	if err := ls.Call(2, 0); err != nil {
		t.Fatalf("Call: %v", err)
	}
	if got, want := out.String(), "hello\t42\tx\t2.5\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestToString(t *testing.T) {
	ls := state.New()
	ls.PushNil()
	ls.PushBoolean(false)
	ls.PushInteger(3)
	ls.PushNumber(1e100)
	ls.NewTable()

	want := []string{"nil", "false", "3", "1e+100"}
	for i, w := range want {
		if got := tostring(ls, i+1); got != w {
			t.Errorf("tostring(%d) = %q, want %q", i+1, got, w)
		}
	}
	if got := tostring(ls, 5); !strings.HasPrefix(got, "table: 0x") {
		t.Errorf("tostring(table) = %q, want table: 0x...", got)
	}
	if got := tostring(ls, 9); got != "nil" {
		t.Errorf("tostring(none) = %q, want nil", got)
	}
}

func TestCheckChunks(t *testing.T) {
	dir := t.TempDir()
	good := writeChunk(t, dir, "good.luac", helloProto())
	bad := filepath.Join(dir, "bad.luac")
	if err := os.WriteFile(bad, []byte("\x1bLua\x53\x00truncated"), 0644); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(dir, "missing.luac")

	var out bytes.Buffer
	failed := checkChunks(context.Background(), &out, nil, []string{good, bad, missing})
	if failed != 2 {
		t.Errorf("failed = %d, want 2", failed)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), out.String())
	}
	if !strings.HasPrefix(lines[0], "ok   "+good) || !strings.Contains(lines[0], "2 functions, 7 instructions") {
		t.Errorf("line 1 = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "FAIL "+bad) {
		t.Errorf("line 2 = %q, want FAIL for %s", lines[1], bad)
	}
	if !strings.HasPrefix(lines[2], "FAIL "+missing) {
		t.Errorf("line 3 = %q, want FAIL for %s", lines[2], missing)
	}
}

func TestListChunk(t *testing.T) {
	path := writeChunk(t, t.TempDir(), "hello.luac", helloProto())

	var out bytes.Buffer
	if err := listChunk(&out, nil, path); err != nil {
		t.Fatalf("listChunk: %v", err)
	}
	got := out.String()
	for _, want := range []string{
		"main <@hello.lua:0,0> (6 instructions)",
		"0+ params, 4 slots, 1 upvalues, 3 constants, 1 functions",
		"\t1\t[1]\tGETTABUP  0 0 256\n",
		"\t6\t[2]\tRETURN    0 1 0\n",
		"function <@hello.lua:3,0> (1 instructions)",
		"\t1\t[-]\tRETURN    0 1 0\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("listing lacks %q:\n%s", want, got)
		}
	}
}

func TestRunChunkWithCache(t *testing.T) {
	dir := t.TempDir()
	path := writeChunk(t, dir, "hello.luac", helloProto())

	cfg := config.Default()
	cfg.Cache.Enabled = true
	cfg.Cache.Path = filepath.Join(dir, "cache.db")

	loader, release, err := openLoader(context.Background(), cfg, false)
	if err != nil {
		t.Fatalf("openLoader: %v", err)
	}
	defer release()
	if loader == nil {
		t.Fatal("openLoader returned no loader with the cache enabled")
	}

	// runChunk prints to stdout; only the error matters here
	for i := 0; i < 2; i++ {
		if err := runChunk(context.Background(), cfg, loader, path, nil); err != nil {
			t.Fatalf("runChunk #%d: %v", i, err)
		}
	}
	if _, err := os.Stat(cfg.Cache.Path); err != nil {
		t.Errorf("cache database not created: %v", err)
	}
}

func TestRunChunkBudget(t *testing.T) {
	p := &binchunk.Prototype{
		Source:       "@loop.lua",
		MaxStackSize: 2,
		Code:         []uint32{uint32(vm.AsBx(vm.OpJmp, 0, -1))},
		Upvalues:     []binchunk.Upvalue{{Instack: 1, Idx: 0}},
	}
	path := writeChunk(t, t.TempDir(), "loop.luac", p)

	cfg := config.Default()
	cfg.VM.InstructionBudget = 1000
	err := runChunk(context.Background(), cfg, nil, path, nil)
	if err == nil || !strings.Contains(err.Error(), "1000 instructions") {
		t.Errorf("runChunk error = %v, want budget exhaustion", err)
	}
}
