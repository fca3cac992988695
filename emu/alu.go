// Package emu provides functional Y64 emulation.
package emu

import "github.com/sarchlab/y64sim/insts"

// aluCompute evaluates an OPq function. Subtraction computes b - a, with b
// sourced from rB (valB) and a from rA (valA).
func aluCompute(fun insts.ALUFun, b, a uint64) (result uint64, ok bool) {
	switch fun {
	case insts.ALUAdd:
		return b + a, true
	case insts.ALUSub:
		return b - a, true
	case insts.ALUAnd:
		return b & a, true
	case insts.ALUXor:
		return b ^ a, true
	}
	return 0, false
}

// addOverflow reports signed overflow of lhs + rhs = result: both operands
// share a sign and the result has the opposite one.
func addOverflow(lhs, rhs, result int64) bool {
	lhsPos := lhs >= 0
	rhsPos := rhs >= 0
	resPos := result >= 0
	return (lhsPos && rhsPos && !resPos) || (!lhsPos && !rhsPos && resPos)
}

// subOverflow reports signed overflow of lhs - rhs = result: the operands
// differ in sign and the result's sign differs from the minuend's.
func subOverflow(lhs, rhs, result int64) bool {
	lhsPos := lhs >= 0
	rhsPos := rhs >= 0
	resPos := result >= 0
	return (lhsPos && !rhsPos && !resPos) || (!lhsPos && rhsPos && resPos)
}
