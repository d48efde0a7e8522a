package vm

import "github.com/chazu/luavm/api"

// R(A), R(A+1), ..., R(A+B) := nil
func loadNil(i Instruction, vm api.LuaVM) error {
	a, b, _ := i.ABC()
	a++

	vm.PushNil()
	for j := a; j <= a+b; j++ {
		if err := vm.Copy(-1, j); err != nil {
			vm.Pop(1)
			return err
		}
	}
	vm.Pop(1)
	return nil
}

// R(A) := (bool)B; if (C) pc++
func loadBool(i Instruction, vm api.LuaVM) error {
	a, b, c := i.ABC()
	vm.PushBoolean(b != 0)
	if err := vm.Replace(a + 1); err != nil {
		return err
	}
	if c != 0 {
		vm.AddPC(1)
	}
	return nil
}

// R(A) := Kst(Bx)
func loadK(i Instruction, vm api.LuaVM) error {
	a, bx := i.ABx()
	vm.GetConst(bx)
	return vm.Replace(a + 1)
}

// R(A) := Kst(extra arg)
func loadKx(i Instruction, vm api.LuaVM) error {
	a, _ := i.ABx()
	ax := Instruction(vm.Fetch()).Ax()
	vm.GetConst(ax)
	return vm.Replace(a + 1)
}
