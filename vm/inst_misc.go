package vm

import "github.com/chazu/luavm/api"

// R(A) := R(B)
func move(i Instruction, vm api.LuaVM) error {
	a, b, _ := i.ABC()
	return vm.Copy(b+1, a+1)
}

// pc+=sBx; if (A) close all upvalues >= R(A - 1)
//
// Upvalues are never left open, so the close request has nothing to act on.
func jmp(i Instruction, vm api.LuaVM) error {
	_, sbx := i.AsBx()
	vm.AddPC(sbx)
	return nil
}
