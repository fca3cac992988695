// Package emu provides functional Y64 emulation.
package emu

import "github.com/sarchlab/y64sim/insts"

// RegFile is the Y64 register file: 15 general-purpose 64-bit registers
// indexed by insts.Register. The RNone sentinel (0xF) never indexes it;
// reads of an invalid id return 0 and writes to one are dropped.
type RegFile struct {
	regs [insts.RegisterCount]uint64
}

// Read returns the value of the given register, or 0 for an invalid id.
func (rf *RegFile) Read(r insts.Register) uint64 {
	if !r.Valid() {
		return 0
	}
	return rf.regs[r]
}

// Write stores a value in the given register. Writes to invalid ids are
// dropped.
func (rf *RegFile) Write(r insts.Register, v uint64) {
	if !r.Valid() {
		return
	}
	rf.regs[r] = v
}

// Values returns a copy of the register file contents in id order.
func (rf *RegFile) Values() [insts.RegisterCount]uint64 {
	return rf.regs
}

// Reset zeroes every register.
func (rf *RegFile) Reset() {
	rf.regs = [insts.RegisterCount]uint64{}
}

// ConditionCodes holds the three arithmetic flags. Only OPq and iaddq
// update them, and only while the processor status is AOK.
type ConditionCodes struct {
	ZF bool
	SF bool
	OF bool
}

// Reset restores the flags to their architectural reset state.
func (cc *ConditionCodes) Reset() {
	cc.ZF = true
	cc.SF = false
	cc.OF = false
}

// Eval evaluates a condition function against the flags, with
// s = SF xor OF.
func (cc *ConditionCodes) Eval(cond insts.Cond) bool {
	s := cc.SF != cc.OF
	switch cond {
	case insts.CondAlways:
		return true
	case insts.CondLE:
		return s || cc.ZF
	case insts.CondL:
		return s
	case insts.CondE:
		return cc.ZF
	case insts.CondNE:
		return !cc.ZF
	case insts.CondGE:
		return !s
	case insts.CondG:
		return !s && !cc.ZF
	}
	return false
}
