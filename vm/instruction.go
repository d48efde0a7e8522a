package vm

import (
	"fmt"

	"github.com/chazu/luavm/api"
)

// Instruction is a single 32-bit Lua 5.3 instruction.
//
//	 31       22       13       5    0
//	  +-------+^------+-^-----+-^-----
//	  |b=9bits |c=9bits |a=8bits|op=6|
//	  +-------+^------+-^-----+-^-----
//	  |    bx=18bits    |a=8bits|op=6|
//	  +-------+^------+-^-----+-^-----
//	  |   sbx=18bits    |a=8bits|op=6|
//	  +-------+^------+-^-----+-^-----
//	  |    ax=26bits            |op=6|
//	  +-------+^------+-^-----+-^-----
type Instruction uint32

const (
	sizeOp = 6
	sizeA  = 8
	sizeB  = 9
	sizeC  = 9
	sizeBx = sizeB + sizeC
	sizeAx = sizeA + sizeBx

	posA  = sizeOp
	posC  = posA + sizeA
	posB  = posC + sizeC
	posBx = posC
	posAx = posA

	MaxArgA   = 1<<sizeA - 1
	MaxArgB   = 1<<sizeB - 1
	MaxArgC   = 1<<sizeC - 1
	MaxArgBx  = 1<<sizeBx - 1 // 262143
	MaxArgSBx = MaxArgBx >> 1 // 131071
	MaxArgAx  = 1<<sizeAx - 1

	// BitRK marks an RK operand as a constant index.
	BitRK = 1 << (sizeB - 1)
)

// Opcode returns the instruction's opcode.
func (i Instruction) Opcode() Opcode {
	return Opcode(i & (1<<sizeOp - 1))
}

// ABC decodes the iABC operand fields.
func (i Instruction) ABC() (a, b, c int) {
	a = int(i >> posA & MaxArgA)
	c = int(i >> posC & MaxArgC)
	b = int(i >> posB & MaxArgB)
	return
}

// ABx decodes the iABx operand fields.
func (i Instruction) ABx() (a, bx int) {
	a = int(i >> posA & MaxArgA)
	bx = int(i >> posBx)
	return
}

// AsBx decodes the iAsBx operand fields. sBx is stored with a bias of
// MaxArgSBx rather than in two's complement.
func (i Instruction) AsBx() (a, sbx int) {
	a, bx := i.ABx()
	return a, bx - MaxArgSBx
}

// Ax decodes the iAx operand field.
func (i Instruction) Ax() int {
	return int(i >> posAx)
}

// OpName returns the mnemonic of the instruction's opcode.
func (i Instruction) OpName() string {
	return i.Opcode().String()
}

// OpMode returns the operand encoding of the instruction's opcode.
func (i Instruction) OpMode() OpMode {
	return i.Opcode().Info().Mode
}

// BMode returns how the B operand is used.
func (i Instruction) BMode() OpArgMask {
	return i.Opcode().Info().ArgB
}

// CMode returns how the C operand is used.
func (i Instruction) CMode() OpArgMask {
	return i.Opcode().Info().ArgC
}

// String formats the instruction with its decoded operands.
func (i Instruction) String() string {
	switch i.OpMode() {
	case IABC:
		a, b, c := i.ABC()
		return fmt.Sprintf("%-9s %d %d %d", i.OpName(), a, b, c)
	case IABx:
		a, bx := i.ABx()
		return fmt.Sprintf("%-9s %d %d", i.OpName(), a, bx)
	case IAsBx:
		a, sbx := i.AsBx()
		return fmt.Sprintf("%-9s %d %d", i.OpName(), a, sbx)
	default:
		return fmt.Sprintf("%-9s %d", i.OpName(), i.Ax())
	}
}

// Execute runs the instruction's handler against vm.
func (i Instruction) Execute(vm api.LuaVM) error {
	info := i.Opcode().Info()
	if info.Action == nil {
		return fmt.Errorf("%w: %s", ErrUnsupportedOpcode, info.Name)
	}
	return info.Action(i, vm)
}

// ---------------------------------------------------------------------------
// Encoding helpers
// ---------------------------------------------------------------------------

// ABC encodes an iABC instruction.
func ABC(op Opcode, a, b, c int) Instruction {
	return Instruction(op) |
		Instruction(a&MaxArgA)<<posA |
		Instruction(b&MaxArgB)<<posB |
		Instruction(c&MaxArgC)<<posC
}

// ABx encodes an iABx instruction.
func ABx(op Opcode, a, bx int) Instruction {
	return Instruction(op) |
		Instruction(a&MaxArgA)<<posA |
		Instruction(bx&MaxArgBx)<<posBx
}

// AsBx encodes an iAsBx instruction.
func AsBx(op Opcode, a, sbx int) Instruction {
	return ABx(op, a, sbx+MaxArgSBx)
}

// Ax encodes an iAx instruction.
func Ax(op Opcode, ax int) Instruction {
	return Instruction(op) | Instruction(ax&MaxArgAx)<<posAx
}

// RK marks constant index k for use as an RK operand.
func RK(k int) int {
	return k | BitRK
}
