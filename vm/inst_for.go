package vm

import "github.com/chazu/luavm/api"

// R(A)-=R(A+2); pc+=sBx
func forPrep(i Instruction, vm api.LuaVM) error {
	a, sbx := i.AsBx()
	a++

	// numeric strings are converted once, up front
	for j := a; j <= a+2; j++ {
		if vm.Type(j) == api.TypeString {
			vm.PushNumber(vm.ToNumber(j))
			if err := vm.Replace(j); err != nil {
				return err
			}
		}
	}

	vm.PushValue(a)
	vm.PushValue(a + 2)
	if err := vm.Arith(api.OpSub); err != nil {
		vm.Pop(2)
		return err
	}
	if err := vm.Replace(a); err != nil {
		return err
	}
	vm.AddPC(sbx)
	return nil
}

// forLoop steps R(A) by R(A+2). While R(A) is still within R(A+1) it
// jumps back by sBx and copies R(A) into R(A+3).
func forLoop(i Instruction, vm api.LuaVM) error {
	a, sbx := i.AsBx()
	a++

	vm.PushValue(a + 2)
	vm.PushValue(a)
	if err := vm.Arith(api.OpAdd); err != nil {
		vm.Pop(2)
		return err
	}
	if err := vm.Replace(a); err != nil {
		return err
	}

	var (
		cont bool
		err  error
	)
	if vm.ToNumber(a+2) >= 0 {
		cont, err = vm.Compare(a, a+1, api.OpLe)
	} else {
		cont, err = vm.Compare(a+1, a, api.OpLe)
	}
	if err != nil {
		return err
	}
	if cont {
		vm.AddPC(sbx)
		return vm.Copy(a, a+3)
	}
	return nil
}

// if R(A+1) ~= nil then { R(A)=R(A+1); pc += sBx }
func tForLoop(i Instruction, vm api.LuaVM) error {
	a, sbx := i.AsBx()
	a++

	if !vm.IsNil(a + 1) {
		if err := vm.Copy(a+1, a); err != nil {
			return err
		}
		vm.AddPC(sbx)
	}
	return nil
}
