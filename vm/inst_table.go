package vm

import (
	"github.com/chazu/luavm/api"
	"github.com/chazu/luavm/number"
)

// R(A) := {} (size = B,C)
func newTable(i Instruction, vm api.LuaVM) error {
	a, b, c := i.ABC()
	vm.CreateTable(number.Fb2int(b), number.Fb2int(c))
	return vm.Replace(a + 1)
}

// R(A) := R(B)[RK(C)]
func getTable(i Instruction, vm api.LuaVM) error {
	a, b, c := i.ABC()
	vm.GetRK(c)
	if _, err := vm.GetTable(b + 1); err != nil {
		vm.Pop(1)
		return err
	}
	return vm.Replace(a + 1)
}

// R(A)[RK(B)] := RK(C)
func setTable(i Instruction, vm api.LuaVM) error {
	a, b, c := i.ABC()
	vm.GetRK(b)
	vm.GetRK(c)
	if err := vm.SetTable(a + 1); err != nil {
		vm.Pop(2)
		return err
	}
	return nil
}

// R(A+1) := R(B); R(A) := R(B)[RK(C)]
func self(i Instruction, vm api.LuaVM) error {
	a, b, c := i.ABC()
	a, b = a+1, b+1
	if err := vm.Copy(b, a+1); err != nil {
		return err
	}
	vm.GetRK(c)
	if _, err := vm.GetTable(b); err != nil {
		vm.Pop(1)
		return err
	}
	return vm.Replace(a)
}

// R(A)[(C-1)*FPF+i] := R(A+i), 1 <= i <= B
//
// B == 0 stores everything up to the top left by a preceding open call or
// VARARG. C == 0 takes the batch number from the following EXTRAARG.
func setList(i Instruction, vm api.LuaVM) error {
	a, b, c := i.ABC()
	a++

	if c == 0 {
		c = Instruction(vm.Fetch()).Ax()
	}
	c-- // batch number is 1-based

	open := b == 0
	if open {
		b = int(vm.ToInteger(-1)) - a - 1
		vm.Pop(1)
	}

	vm.CheckStack(1)
	idx := int64(c * api.FieldsPerFlush)
	for j := 1; j <= b; j++ {
		idx++
		vm.PushValue(a + j)
		if err := vm.SetI(a, idx); err != nil {
			vm.Pop(1)
			return err
		}
	}

	if open {
		for j := vm.RegisterCount() + 1; j <= vm.GetTop(); j++ {
			idx++
			vm.PushValue(j)
			if err := vm.SetI(a, idx); err != nil {
				vm.Pop(1)
				return err
			}
		}
		return vm.SetTop(vm.RegisterCount())
	}
	return nil
}
