// Package state implements the Lua value model, tables, call frames and the
// LuaState orchestrator that drives the opcode handlers in package vm.
package state

import (
	"context"

	"github.com/google/uuid"
	"github.com/tliron/commonlog"

	"github.com/chazu/luavm/api"
	"github.com/chazu/luavm/binchunk"
)

const (
	// DefaultMaxStackSlots bounds the number of values a single frame may
	// hold.
	DefaultMaxStackSlots = 1_000_000

	// DefaultMaxCallDepth bounds the number of nested calls.
	DefaultMaxCallDepth = 2000
)

var log = commonlog.GetLogger("luavm.state")

// ProtoLoader turns a binary chunk into a prototype. The default is
// binchunk.Undump; a caching loader can be substituted with
// WithProtoLoader.
type ProtoLoader func(chunk []byte) (*binchunk.Prototype, error)

// LuaState is a single, non-reentrant Lua virtual machine. It implements
// api.LuaVM. Independent states share nothing and may run on separate
// goroutines.
type LuaState struct {
	id       string
	registry *Table
	stack    *luaStack
	depth    int

	maxSlots int
	maxDepth int
	budget   int64
	executed int64
	ctx      context.Context
	loader   ProtoLoader
	log      commonlog.Logger
}

var _ api.LuaVM = (*LuaState)(nil)

// Option configures a LuaState.
type Option func(*LuaState)

// WithMaxStackSlots sets the per-frame slot ceiling.
func WithMaxStackSlots(n int) Option {
	return func(ls *LuaState) {
		if n > 0 {
			ls.maxSlots = n
		}
	}
}

// WithMaxCallDepth sets the maximum nesting of calls.
func WithMaxCallDepth(n int) Option {
	return func(ls *LuaState) {
		if n > 0 {
			ls.maxDepth = n
		}
	}
}

// WithInstructionBudget limits the number of instructions a single
// top-level call may dispatch. Zero means unlimited.
func WithInstructionBudget(n int64) Option {
	return func(ls *LuaState) {
		if n >= 0 {
			ls.budget = n
		}
	}
}

// WithProtoLoader replaces the chunk decoder used by Load.
func WithProtoLoader(loader ProtoLoader) Option {
	return func(ls *LuaState) {
		if loader != nil {
			ls.loader = loader
		}
	}
}

// New creates a state with an empty globals table and a bottom frame for
// host code.
func New(opts ...Option) *LuaState {
	ls := &LuaState{
		id:       uuid.New().String(),
		maxSlots: DefaultMaxStackSlots,
		maxDepth: DefaultMaxCallDepth,
		loader:   binchunk.Undump,
	}
	for _, opt := range opts {
		opt(ls)
	}
	ls.log = commonlog.NewKeyValueLogger(log, "state", ls.id)

	ls.registry = NewTable(0, 0)
	ls.registry.Put(Integer(api.RegistryGlobals), NewTable(0, 0))

	ls.pushLuaStack(newLuaStack(api.MinStack, ls))
	return ls
}

// ID returns the unique identifier of the state, as it appears in logs.
func (ls *LuaState) ID() string {
	return ls.id
}

// Globals returns the globals table, or nil if the registry slot no
// longer holds a table.
func (ls *LuaState) Globals() *Table {
	t, _ := ls.registry.Get(Integer(api.RegistryGlobals)).(*Table)
	return t
}

func (ls *LuaState) globalsTable() (*Table, error) {
	v := ls.registry.Get(Integer(api.RegistryGlobals))
	if t, ok := v.(*Table); ok {
		return t, nil
	}
	return nil, newError(ErrNotTable, "globals is a %s value", typeName(v))
}

// Depth returns the number of calls currently in progress.
func (ls *LuaState) Depth() int {
	return ls.depth
}

func (ls *LuaState) pushLuaStack(stack *luaStack) {
	stack.prev = ls.stack
	ls.stack = stack
}

func (ls *LuaState) popLuaStack() {
	stack := ls.stack
	ls.stack = stack.prev
	stack.prev = nil
}
