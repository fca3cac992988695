package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/y64sim/insts"
)

var _ = Describe("Instruction metadata", func() {
	DescribeTable("ifun validity",
		func(icode uint8, ifun uint8, valid bool) {
			Expect(insts.ValidIfun(icode, ifun)).To(Equal(valid))
		},
		Entry("halt requires ifun 0", uint8(0x0), uint8(0x0), true),
		Entry("halt rejects ifun 1", uint8(0x0), uint8(0x1), false),
		Entry("nop requires ifun 0", uint8(0x1), uint8(0x0), true),
		Entry("cmov accepts the greater-than condition", uint8(0x2), uint8(0x6), true),
		Entry("cmov rejects ifun 7", uint8(0x2), uint8(0x7), false),
		Entry("OPq accepts xor", uint8(0x6), uint8(0x3), true),
		Entry("OPq rejects ifun 4", uint8(0x6), uint8(0x4), false),
		Entry("jump accepts the greater-than condition", uint8(0x7), uint8(0x6), true),
		Entry("jump rejects ifun 7", uint8(0x7), uint8(0x7), false),
		Entry("iaddq requires ifun 0", uint8(0xC), uint8(0x1), false),
	)

	It("should reject icodes past iaddq", func() {
		Expect(insts.ValidOpcode(0xC)).To(BeTrue())
		Expect(insts.ValidOpcode(0xD)).To(BeFalse())
		Expect(insts.ValidOpcode(0xF)).To(BeFalse())
	})

	DescribeTable("encoded lengths",
		func(op insts.Opcode, length uint64) {
			Expect(insts.Length(op)).To(Equal(length))
		},
		Entry("halt", insts.OpHalt, uint64(1)),
		Entry("nop", insts.OpNop, uint64(1)),
		Entry("cmov", insts.OpCMovXX, uint64(2)),
		Entry("irmovq", insts.OpIRMovQ, uint64(10)),
		Entry("rmmovq", insts.OpRMMovQ, uint64(10)),
		Entry("mrmovq", insts.OpMRMovQ, uint64(10)),
		Entry("OPq", insts.OpOpQ, uint64(2)),
		Entry("jump", insts.OpJXX, uint64(9)),
		Entry("call", insts.OpCall, uint64(9)),
		Entry("ret", insts.OpRet, uint64(1)),
		Entry("pushq", insts.OpPushQ, uint64(2)),
		Entry("popq", insts.OpPopQ, uint64(2)),
		Entry("iaddq", insts.OpIAddQ, uint64(10)),
	)

	It("should name registers in file order", func() {
		Expect(insts.RAX.String()).To(Equal("rax"))
		Expect(insts.RSP.String()).To(Equal("rsp"))
		Expect(insts.R14.String()).To(Equal("r14"))
		Expect(insts.RNone.String()).To(Equal("rnone"))
	})

	It("should treat RNone as invalid", func() {
		Expect(insts.RNone.Valid()).To(BeFalse())
		Expect(insts.R14.Valid()).To(BeTrue())
	})
})

var _ = Describe("Encoder", func() {
	It("should encode halt and nop as single bytes", func() {
		Expect(insts.EncodeHalt()).To(Equal([]byte{0x00}))
		Expect(insts.EncodeNop()).To(Equal([]byte{0x10}))
	})

	It("should encode irmovq with RNone in the rA slot", func() {
		got := insts.EncodeIRMovQ(insts.RDX, 10)
		Expect(got).To(Equal([]byte{0x30, 0xf2, 10, 0, 0, 0, 0, 0, 0, 0}))
	})

	It("should encode the immediate little-endian", func() {
		got := insts.EncodeIRMovQ(insts.RAX, 0x0123456789ABCDEF)
		Expect(got[2:]).To(Equal([]byte{0xEF, 0xCD, 0xAB, 0x89, 0x67, 0x45, 0x23, 0x01}))
	})

	It("should encode an add with both register ids", func() {
		Expect(insts.EncodeOp(insts.ALUAdd, insts.RDX, insts.RAX)).
			To(Equal([]byte{0x60, 0x20}))
	})

	It("should encode subtraction with ifun 1", func() {
		Expect(insts.EncodeOp(insts.ALUSub, insts.RBX, insts.RCX)).
			To(Equal([]byte{0x61, 0x31}))
	})

	It("should encode a conditional jump with its target", func() {
		got := insts.EncodeJump(insts.CondNE, 0x100)
		Expect(got[0]).To(Equal(byte(0x74)))
		Expect(got[1:]).To(Equal([]byte{0x00, 0x01, 0, 0, 0, 0, 0, 0}))
	})

	It("should encode push and pop with RNone in the rB slot", func() {
		Expect(insts.EncodePush(insts.RDI)).To(Equal([]byte{0xA0, 0x7F}))
		Expect(insts.EncodePop(insts.RSI)).To(Equal([]byte{0xB0, 0x6F}))
	})

	It("should encode memory moves with displacement", func() {
		got := insts.EncodeRMMovQ(insts.RCX, insts.RDX, 0)
		Expect(got[:2]).To(Equal([]byte{0x40, 0x12}))

		got = insts.EncodeMRMovQ(insts.RAX, insts.RDX, 0x80)
		Expect(got[:2]).To(Equal([]byte{0x50, 0x02}))
		Expect(got[2]).To(Equal(byte(0x80)))
	})

	It("should round-trip lengths against the metadata table", func() {
		Expect(insts.EncodeCall(0)).To(HaveLen(int(insts.Length(insts.OpCall))))
		Expect(insts.EncodeIAddQ(insts.RBX, 1)).To(HaveLen(int(insts.Length(insts.OpIAddQ))))
		Expect(insts.EncodeCMov(insts.CondE, insts.RAX, insts.RBX)).
			To(HaveLen(int(insts.Length(insts.OpCMovXX))))
	})
})
