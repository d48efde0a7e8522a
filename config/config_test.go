package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/chazu/luavm/state"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, TOMLFile, `
[vm]
max-stack-slots = 5000
max-call-depth = 64
instruction-budget = 1000000

[cache]
enabled = true
path = ".luavm/cache.db"

[log]
verbosity = 2
file = "luavm.log"
`)

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.VM.MaxStackSlots != 5000 {
		t.Errorf("max-stack-slots = %d, want 5000", c.VM.MaxStackSlots)
	}
	if c.VM.MaxCallDepth != 64 {
		t.Errorf("max-call-depth = %d, want 64", c.VM.MaxCallDepth)
	}
	if c.VM.InstructionBudget != 1000000 {
		t.Errorf("instruction-budget = %d, want 1000000", c.VM.InstructionBudget)
	}
	if !c.Cache.Enabled {
		t.Error("cache enabled = false, want true")
	}
	if want := filepath.Join(c.Dir, ".luavm", "cache.db"); c.CachePath() != want {
		t.Errorf("CachePath() = %q, want %q", c.CachePath(), want)
	}
	if c.Log.Verbosity != 2 || c.Log.File != "luavm.log" {
		t.Errorf("log = %+v, want verbosity 2 file luavm.log", c.Log)
	}
	if filepath.Base(c.File) != TOMLFile {
		t.Errorf("File = %q, want %s", c.File, TOMLFile)
	}
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, TOMLFile, "[log]\nverbosity = 1\n")

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.VM.MaxStackSlots != state.DefaultMaxStackSlots {
		t.Errorf("max-stack-slots = %d, want %d", c.VM.MaxStackSlots, state.DefaultMaxStackSlots)
	}
	if c.VM.MaxCallDepth != state.DefaultMaxCallDepth {
		t.Errorf("max-call-depth = %d, want %d", c.VM.MaxCallDepth, state.DefaultMaxCallDepth)
	}
	if c.VM.InstructionBudget != 0 {
		t.Errorf("instruction-budget = %d, want 0", c.VM.InstructionBudget)
	}
	if c.Cache.Enabled || c.CachePath() != "" {
		t.Errorf("cache = %+v, want disabled in-memory", c.Cache)
	}
	if got := len(c.StateOptions()); got != 2 {
		t.Errorf("StateOptions() has %d options, want 2", got)
	}

	d := Default()
	if d.VM.MaxCallDepth != state.DefaultMaxCallDepth {
		t.Errorf("Default() max-call-depth = %d, want %d", d.VM.MaxCallDepth, state.DefaultMaxCallDepth)
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, YAMLFile, `
vm:
  max-call-depth: 32
  instruction-budget: 500
cache:
  enabled: true
  path: /tmp/luavm-cache.db
`)

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.VM.MaxCallDepth != 32 {
		t.Errorf("max-call-depth = %d, want 32", c.VM.MaxCallDepth)
	}
	if c.VM.InstructionBudget != 500 {
		t.Errorf("instruction-budget = %d, want 500", c.VM.InstructionBudget)
	}
	if c.CachePath() != "/tmp/luavm-cache.db" {
		t.Errorf("CachePath() = %q, want /tmp/luavm-cache.db", c.CachePath())
	}
	if got := len(c.StateOptions()); got != 3 {
		t.Errorf("StateOptions() has %d options, want 3", got)
	}
}

func TestTOMLWinsOverYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, TOMLFile, "[vm]\nmax-call-depth = 10\n")
	writeFile(t, dir, YAMLFile, "vm:\n  max-call-depth: 20\n")

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.VM.MaxCallDepth != 10 {
		t.Errorf("max-call-depth = %d, want 10 from %s", c.VM.MaxCallDepth, TOMLFile)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name, file, content string
	}{
		{"bad toml", TOMLFile, "[vm\n"},
		{"bad yaml", YAMLFile, "vm: [1, 2\n"},
		{"negative depth", TOMLFile, "[vm]\nmax-call-depth = -1\n"},
		{"negative budget", YAMLFile, "vm:\n  instruction-budget: -5\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, tt.file, tt.content)
			if _, err := Load(dir); err == nil {
				t.Error("Load succeeded, want error")
			}
		})
	}

	if _, err := Load(t.TempDir()); err == nil {
		t.Error("Load of an empty dir succeeded, want error")
	}
}

func TestFindAndLoad(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, TOMLFile, "[vm]\nmax-call-depth = 77\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	c, err := FindAndLoad(nested)
	if err != nil {
		t.Fatalf("FindAndLoad failed: %v", err)
	}
	if c == nil {
		t.Fatal("FindAndLoad returned nil, want config")
	}
	if c.VM.MaxCallDepth != 77 {
		t.Errorf("max-call-depth = %d, want 77", c.VM.MaxCallDepth)
	}
	if want, _ := filepath.Abs(root); c.Dir != want {
		t.Errorf("Dir = %q, want %q", c.Dir, want)
	}
}

func TestFindAndLoadNone(t *testing.T) {
	dir := t.TempDir()
	c, err := FindAndLoad(dir)
	if err != nil {
		t.Fatalf("FindAndLoad failed: %v", err)
	}
	// a config may exist above the temp dir on this machine; only check
	// that the walk ended cleanly
	if c != nil && c.File == "" {
		t.Error("FindAndLoad returned a config with no file")
	}
}
