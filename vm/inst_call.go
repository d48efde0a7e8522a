package vm

import "github.com/chazu/luavm/api"

// R(A) := closure(KPROTO[Bx])
func closure(i Instruction, vm api.LuaVM) error {
	a, bx := i.ABx()
	vm.LoadProto(bx)
	return vm.Replace(a + 1)
}

// R(A), ... ,R(A+C-2) := R(A)(R(A+1), ... ,R(A+B-1))
func call(i Instruction, vm api.LuaVM) error {
	a, b, c := i.ABC()
	a++

	nArgs, err := pushFuncAndArgs(a, b, vm)
	if err != nil {
		return err
	}
	if err = vm.Call(nArgs, c-1); err != nil {
		return err
	}
	return popResults(a, c, vm)
}

// return R(A)(R(A+1), ... ,R(A+B-1))
//
// Frames are not reused: the call runs nested and every result is kept for
// the RETURN that follows.
func tailCall(i Instruction, vm api.LuaVM) error {
	a, b, _ := i.ABC()
	a++

	nArgs, err := pushFuncAndArgs(a, b, vm)
	if err != nil {
		return err
	}
	if err = vm.Call(nArgs, api.MultRet); err != nil {
		return err
	}
	return popResults(a, 0, vm)
}

// return R(A), ... ,R(A+B-2)
func _return(i Instruction, vm api.LuaVM) error {
	a, b, _ := i.ABC()
	a++

	switch {
	case b == 1:
		// no return values
	case b > 1:
		vm.CheckStack(b - 1)
		for j := a; j <= a+b-2; j++ {
			vm.PushValue(j)
		}
	default:
		return fixStack(a, vm)
	}
	return nil
}

// R(A), R(A+1), ..., R(A+B-2) = vararg
func vararg(i Instruction, vm api.LuaVM) error {
	a, b, _ := i.ABC()
	a++

	if b != 1 { // b==0 or b>1
		vm.LoadVararg(b - 1)
		return popResults(a, b, vm)
	}
	return nil
}

// R(A+3), ... ,R(A+2+C) := R(A)(R(A+1), R(A+2));
func tForCall(i Instruction, vm api.LuaVM) error {
	a, _, c := i.ABC()
	a++

	if _, err := pushFuncAndArgs(a, 3, vm); err != nil {
		return err
	}
	if err := vm.Call(2, c); err != nil {
		return err
	}
	return popResults(a+3, c+1, vm)
}

// pushFuncAndArgs pushes R(a) and its arguments and returns the argument
// count. b == 0 means the arguments run up to the top left by an earlier
// open call or VARARG.
func pushFuncAndArgs(a, b int, vm api.LuaVM) (int, error) {
	if b >= 1 {
		vm.CheckStack(b)
		for j := a; j < a+b; j++ {
			vm.PushValue(j)
		}
		return b - 1, nil
	}
	if err := fixStack(a, vm); err != nil {
		return 0, err
	}
	return vm.GetTop() - vm.RegisterCount() - 1, nil
}

// fixStack consumes the integer marker on top of the stack and moves
// R(a)..R(marker-1) beneath the values already sitting above the registers.
func fixStack(a int, vm api.LuaVM) error {
	x := int(vm.ToInteger(-1))
	vm.Pop(1)

	vm.CheckStack(x - a)
	for j := a; j < x; j++ {
		vm.PushValue(j)
	}
	return vm.Rotate(vm.RegisterCount()+1, x-a)
}

// popResults stores call results into R(a)..R(a+c-2). c == 0 leaves them
// on the stack followed by a marker holding a, for the next open consumer.
func popResults(a, c int, vm api.LuaVM) error {
	switch {
	case c == 1:
		// no results wanted
	case c > 1:
		for j := a + c - 2; j >= a; j-- {
			if err := vm.Replace(j); err != nil {
				return err
			}
		}
	default:
		vm.CheckStack(1)
		vm.PushInteger(int64(a))
	}
	return nil
}
