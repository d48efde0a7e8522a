// Package vm decodes Lua 5.3 instructions and implements the opcode
// handlers. Handlers are written purely against api.LuaVM; the state
// package supplies the implementation and drives the fetch/execute loop.
package vm
