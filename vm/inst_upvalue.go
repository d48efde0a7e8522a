package vm

import "github.com/chazu/luavm/api"

// R(A) := UpValue[B]
func getUpval(i Instruction, vm api.LuaVM) error {
	a, b, _ := i.ABC()
	if err := vm.PushUpvalue(b); err != nil {
		return err
	}
	return vm.Replace(a + 1)
}

// UpValue[B] := R(A)
func setUpval(i Instruction, vm api.LuaVM) error {
	a, b, _ := i.ABC()
	vm.PushValue(a + 1)
	if err := vm.SetUpvalue(b); err != nil {
		vm.Pop(1)
		return err
	}
	return nil
}

// R(A) := UpValue[B][RK(C)]
func getTabUp(i Instruction, vm api.LuaVM) error {
	a, b, c := i.ABC()
	if err := vm.PushUpvalue(b); err != nil {
		return err
	}
	vm.GetRK(c)
	if _, err := vm.GetTable(-2); err != nil {
		vm.Pop(2)
		return err
	}
	if err := vm.Replace(a + 1); err != nil {
		return err
	}
	vm.Pop(1)
	return nil
}

// UpValue[A][RK(B)] := RK(C)
func setTabUp(i Instruction, vm api.LuaVM) error {
	a, b, c := i.ABC()
	if err := vm.PushUpvalue(a); err != nil {
		return err
	}
	vm.GetRK(b)
	vm.GetRK(c)
	if err := vm.SetTable(-3); err != nil {
		vm.Pop(3)
		return err
	}
	vm.Pop(1)
	return nil
}
