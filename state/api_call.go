package state

import (
	"context"
	"errors"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/chazu/luavm/api"
	"github.com/chazu/luavm/vm"
)

// ---------------------------------------------------------------------------
// Load and call
// ---------------------------------------------------------------------------

// Load decodes a binary chunk and pushes its main function. Only binary
// chunks are supported, so a mode of "t" is rejected.
func (ls *LuaState) Load(chunk []byte, chunkName, mode string) error {
	if mode != "" && !strings.Contains(mode, "b") {
		return newError(ErrMalformedCode, "attempt to load a binary chunk (mode is '%s')", mode)
	}
	proto, err := ls.loader(chunk)
	if err != nil {
		ls.log.Info("chunk rejected", "chunk", chunkName, "error", err.Error())
		return err
	}

	c := newLuaClosure(proto)
	if len(c.envUpvals) > 0 {
		c.envUpvals[0] = true
	}
	ls.stack.push(c)
	ls.log.Debug("chunk loaded", "chunk", chunkName, "source", proto.Source, "instructions", len(proto.Code))
	return nil
}

// Call calls the function sitting below its nArgs arguments. Results are
// adjusted to nResults, or all kept when nResults is api.MultRet.
//
// A top-level call recovers stack faults raised while running (overflow,
// underflow, malformed bytecode) and reports them as errors with the
// caller's frame restored.
func (ls *LuaState) Call(nArgs, nResults int) error {
	if ls.depth > 0 {
		return ls.call(nArgs, nResults)
	}
	ls.executed = 0
	return ls.protectedCall(nArgs, nResults)
}

// CallContext is Call with ctx checked between instructions.
func (ls *LuaState) CallContext(ctx context.Context, nArgs, nResults int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	saved := ls.ctx
	ls.ctx = ctx
	defer func() { ls.ctx = saved }()
	return ls.Call(nArgs, nResults)
}

// PCall is Call for callers that want to continue after a failure: on
// error the function and its arguments are removed, the error message is
// pushed in their place and the error is returned.
func (ls *LuaState) PCall(nArgs, nResults int) error {
	caller := ls.stack
	base := caller.top() - nArgs - 1
	if ls.depth == 0 {
		ls.executed = 0
	}

	err := ls.protectedCall(nArgs, nResults)
	if err == nil {
		return nil
	}
	ls.stack = caller
	for caller.top() > max(base, 0) {
		caller.pop()
	}
	caller.push(String(err.Error()))
	return err
}

func (ls *LuaState) protectedCall(nArgs, nResults int) (err error) {
	caller, depth := ls.stack, ls.depth
	defer func() {
		if r := recover(); r != nil {
			rerr, ok := r.(*RuntimeError)
			if !ok {
				panic(r)
			}
			ls.stack, ls.depth = caller, depth
			err = rerr
		}
	}()
	return ls.call(nArgs, nResults)
}

func (ls *LuaState) call(nArgs, nResults int) error {
	val := ls.stack.get(-(nArgs + 1))
	c, ok := val.(*Closure)
	if !ok || nArgs < 0 {
		return newError(ErrNotCallable, "attempt to call a %s value", typeName(val))
	}
	if ls.depth >= ls.maxDepth {
		return newError(ErrStackOverflow, "call depth exceeds %d", ls.maxDepth)
	}

	ls.depth++
	defer func() { ls.depth-- }()

	if c.proto != nil {
		return ls.callLuaClosure(nArgs, nResults, c)
	}
	return ls.callHostClosure(nArgs, nResults, c)
}

func (ls *LuaState) callHostClosure(nArgs, nResults int, c *Closure) error {
	newStack := newLuaStack(nArgs+api.MinStack, ls)
	newStack.closure = c

	// pass args, pop func
	if nArgs > 0 {
		newStack.pushN(ls.stack.popN(nArgs), nArgs)
	}
	ls.stack.pop()

	ls.pushLuaStack(newStack)
	r, err := c.hostFn(ls)
	ls.popLuaStack()
	if err != nil {
		return err
	}
	if r < 0 || r > newStack.top() {
		return newError(ErrInvalidIndex, "host function returned %d results with %d values on its stack", r, newStack.top())
	}

	if nResults != 0 {
		results := newStack.popN(r)
		ls.stack.check(len(results))
		ls.stack.pushN(results, nResults)
	}
	return nil
}

func (ls *LuaState) callLuaClosure(nArgs, nResults int, c *Closure) error {
	proto := c.proto
	nRegs := int(proto.MaxStackSize)
	nParams := int(proto.NumParams)

	newStack := newLuaStack(nRegs+api.MinStack, ls)
	newStack.closure = c

	// pass args, pop func
	funcAndArgs := ls.stack.popN(nArgs + 1)
	newStack.pushN(funcAndArgs[1:], nParams)
	if nArgs > nParams && proto.Variadic() {
		newStack.varargs = funcAndArgs[nParams+1:]
	}

	if ls.log.AllowLevel(commonlog.Debug) {
		ls.log.Debugf("call %s:%d depth=%d args=%d", chunkID(proto.Source), proto.LineDefined, ls.depth, nArgs)
	}

	ls.pushLuaStack(newStack)
	err := ls.SetTop(nRegs)
	if err == nil {
		err = ls.runLuaClosure()
	}
	ls.popLuaStack()
	if err != nil {
		return err
	}

	if nResults != 0 {
		results := newStack.popN(newStack.top() - nRegs)
		ls.stack.check(len(results))
		ls.stack.pushN(results, nResults)
	}
	return nil
}

// runLuaClosure is the fetch/decode/dispatch loop of the current frame.
func (ls *LuaState) runLuaClosure() error {
	for {
		if err := ls.tick(); err != nil {
			return err
		}
		i := vm.Instruction(ls.Fetch())
		if err := i.Execute(ls); err != nil {
			ls.annotate(err)
			return err
		}
		if i.Opcode().IsReturn() {
			return nil
		}
	}
}

// tick charges one instruction against the budget and polls the context.
func (ls *LuaState) tick() error {
	if ls.budget > 0 {
		ls.executed++
		if ls.executed > ls.budget {
			ls.log.Warning("instruction budget exhausted", "budget", ls.budget)
			return newError(ErrBudgetExhausted, "limit of %d instructions reached", ls.budget)
		}
	}
	if ls.ctx != nil {
		select {
		case <-ls.ctx.Done():
			return ls.ctx.Err()
		default:
		}
	}
	return nil
}

// annotate records the position of the failing instruction on a runtime
// error that does not carry one yet.
func (ls *LuaState) annotate(err error) {
	var rerr *RuntimeError
	if !errors.As(err, &rerr) || rerr.Line > 0 {
		return
	}
	proto := ls.stack.closure.proto
	if line := int(proto.Line(ls.stack.pc - 1)); line > 0 {
		rerr.Source = chunkID(proto.Source)
		rerr.Line = line
	}
}

// chunkID strips the "@" or "=" marker luac puts in front of a source name.
func chunkID(source string) string {
	if len(source) > 0 && (source[0] == '@' || source[0] == '=') {
		return source[1:]
	}
	if source == "" {
		return "?"
	}
	return source
}
