package vm

import "github.com/chazu/luavm/api"

// ---------------------------------------------------------------------------
// Arithmetic and bitwise
// ---------------------------------------------------------------------------

// R(A) := RK(B) op RK(C)
func binaryArith(i Instruction, vm api.LuaVM, op api.ArithOp) error {
	a, b, c := i.ABC()
	vm.GetRK(b)
	vm.GetRK(c)
	if err := vm.Arith(op); err != nil {
		vm.Pop(2)
		return err
	}
	return vm.Replace(a + 1)
}

// R(A) := op R(B)
func unaryArith(i Instruction, vm api.LuaVM, op api.ArithOp) error {
	a, b, _ := i.ABC()
	vm.PushValue(b + 1)
	if err := vm.Arith(op); err != nil {
		vm.Pop(1)
		return err
	}
	return vm.Replace(a + 1)
}

func add(i Instruction, vm api.LuaVM) error  { return binaryArith(i, vm, api.OpAdd) }  // +
func sub(i Instruction, vm api.LuaVM) error  { return binaryArith(i, vm, api.OpSub) }  // -
func mul(i Instruction, vm api.LuaVM) error  { return binaryArith(i, vm, api.OpMul) }  // *
func mod(i Instruction, vm api.LuaVM) error  { return binaryArith(i, vm, api.OpMod) }  // %
func pow(i Instruction, vm api.LuaVM) error  { return binaryArith(i, vm, api.OpPow) }  // ^
func div(i Instruction, vm api.LuaVM) error  { return binaryArith(i, vm, api.OpDiv) }  // /
func idiv(i Instruction, vm api.LuaVM) error { return binaryArith(i, vm, api.OpIdiv) } // //
func band(i Instruction, vm api.LuaVM) error { return binaryArith(i, vm, api.OpBand) } // &
func bor(i Instruction, vm api.LuaVM) error  { return binaryArith(i, vm, api.OpBor) }  // |
func bxor(i Instruction, vm api.LuaVM) error { return binaryArith(i, vm, api.OpBxor) } // ~
func shl(i Instruction, vm api.LuaVM) error  { return binaryArith(i, vm, api.OpShl) }  // <<
func shr(i Instruction, vm api.LuaVM) error  { return binaryArith(i, vm, api.OpShr) }  // >>
func unm(i Instruction, vm api.LuaVM) error  { return unaryArith(i, vm, api.OpUnm) }   // -
func bnot(i Instruction, vm api.LuaVM) error { return unaryArith(i, vm, api.OpBnot) }  // ~

// ---------------------------------------------------------------------------
// Comparison
// ---------------------------------------------------------------------------

// if ((RK(B) op RK(C)) ~= A) then pc++
func compare(i Instruction, vm api.LuaVM, op api.CompareOp) error {
	a, b, c := i.ABC()
	vm.GetRK(b)
	vm.GetRK(c)
	ok, err := vm.Compare(-2, -1, op)
	vm.Pop(2)
	if err != nil {
		return err
	}
	if ok != (a != 0) {
		vm.AddPC(1)
	}
	return nil
}

func eq(i Instruction, vm api.LuaVM) error { return compare(i, vm, api.OpEq) } // ==
func lt(i Instruction, vm api.LuaVM) error { return compare(i, vm, api.OpLt) } // <
func le(i Instruction, vm api.LuaVM) error { return compare(i, vm, api.OpLe) } // <=

// ---------------------------------------------------------------------------
// Logical
// ---------------------------------------------------------------------------

// R(A) := not R(B)
func not(i Instruction, vm api.LuaVM) error {
	a, b, _ := i.ABC()
	vm.PushBoolean(!vm.ToBoolean(b + 1))
	return vm.Replace(a + 1)
}

// if not (R(A) <=> C) then pc++
func test(i Instruction, vm api.LuaVM) error {
	a, _, c := i.ABC()
	if vm.ToBoolean(a+1) != (c != 0) {
		vm.AddPC(1)
	}
	return nil
}

// if (R(B) <=> C) then R(A) := R(B) else pc++
func testSet(i Instruction, vm api.LuaVM) error {
	a, b, c := i.ABC()
	if vm.ToBoolean(b+1) == (c != 0) {
		return vm.Copy(b+1, a+1)
	}
	vm.AddPC(1)
	return nil
}

// ---------------------------------------------------------------------------
// Length and concatenation
// ---------------------------------------------------------------------------

// R(A) := length of R(B)
func length(i Instruction, vm api.LuaVM) error {
	a, b, _ := i.ABC()
	if err := vm.Len(b + 1); err != nil {
		return err
	}
	return vm.Replace(a + 1)
}

// R(A) := R(B).. ... ..R(C)
func concat(i Instruction, vm api.LuaVM) error {
	a, b, c := i.ABC()
	a, b, c = a+1, b+1, c+1
	n := c - b + 1

	vm.CheckStack(n)
	for j := b; j <= c; j++ {
		vm.PushValue(j)
	}
	if err := vm.Concat(n); err != nil {
		vm.Pop(n)
		return err
	}
	return vm.Replace(a)
}
