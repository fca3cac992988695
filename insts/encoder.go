// Package insts provides Y64 instruction definitions and encoding.
package insts

import "encoding/binary"

func regByte(rA, rB Register) byte {
	return byte(rA)<<4 | byte(rB)&0xF
}

func appendImm(b []byte, v uint64) []byte {
	var imm [ImmBytes]byte
	binary.LittleEndian.PutUint64(imm[:], v)
	return append(b, imm[:]...)
}

// EncodeHalt encodes halt.
func EncodeHalt() []byte {
	return []byte{byte(OpHalt) << 4}
}

// EncodeNop encodes nop.
func EncodeNop() []byte {
	return []byte{byte(OpNop) << 4}
}

// EncodeCMov encodes cmovXX rA, rB with the given condition function.
// CondAlways yields the unconditional rrmovq.
func EncodeCMov(cond Cond, rA, rB Register) []byte {
	return []byte{byte(OpCMovXX)<<4 | byte(cond), regByte(rA, rB)}
}

// EncodeIRMovQ encodes irmovq $v, rB.
func EncodeIRMovQ(rB Register, v uint64) []byte {
	b := []byte{byte(OpIRMovQ) << 4, regByte(RNone, rB)}
	return appendImm(b, v)
}

// EncodeRMMovQ encodes rmmovq rA, disp(rB).
func EncodeRMMovQ(rA, rB Register, disp uint64) []byte {
	b := []byte{byte(OpRMMovQ) << 4, regByte(rA, rB)}
	return appendImm(b, disp)
}

// EncodeMRMovQ encodes mrmovq disp(rB), rA.
func EncodeMRMovQ(rA, rB Register, disp uint64) []byte {
	b := []byte{byte(OpMRMovQ) << 4, regByte(rA, rB)}
	return appendImm(b, disp)
}

// EncodeOp encodes an OPq instruction: rB = alu(fun, rB, rA).
func EncodeOp(fun ALUFun, rA, rB Register) []byte {
	return []byte{byte(OpOpQ)<<4 | byte(fun), regByte(rA, rB)}
}

// EncodeJump encodes jXX dest with the given condition function.
func EncodeJump(cond Cond, dest uint64) []byte {
	return appendImm([]byte{byte(OpJXX)<<4 | byte(cond)}, dest)
}

// EncodeCall encodes call dest.
func EncodeCall(dest uint64) []byte {
	return appendImm([]byte{byte(OpCall) << 4}, dest)
}

// EncodeRet encodes ret.
func EncodeRet() []byte {
	return []byte{byte(OpRet) << 4}
}

// EncodePush encodes pushq rA.
func EncodePush(rA Register) []byte {
	return []byte{byte(OpPushQ) << 4, regByte(rA, RNone)}
}

// EncodePop encodes popq rA.
func EncodePop(rA Register) []byte {
	return []byte{byte(OpPopQ) << 4, regByte(rA, RNone)}
}

// EncodeIAddQ encodes iaddq $v, rB.
func EncodeIAddQ(rB Register, v uint64) []byte {
	b := []byte{byte(OpIAddQ) << 4, regByte(RNone, rB)}
	return appendImm(b, v)
}
