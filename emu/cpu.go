// Package emu provides functional Y64 emulation.
package emu

import "github.com/sarchlab/y64sim/insts"

const wordBytes = 8

// stage is the per-cycle scratch record. It is rebuilt at the start of
// every cycle so the guards always describe this cycle alone.
type stage struct {
	instPC uint64
	icode  uint8
	ifun   uint8
	rA     insts.Register
	rB     insts.Register
	valC   uint64
	valA   uint64
	valB   uint64
	valE   uint64
	valM   uint64
	valP   uint64
	cnd    bool

	fetchOK   bool
	decodeOK  bool
	executeOK bool
	memOK     bool
}

// CPU is the five-stage sequential Y64 interpreter. All memory traffic,
// instruction fetch included, goes through the bus one byte at a time.
type CPU struct {
	bus   *Bus
	regs  RegFile
	cc    ConditionCodes
	stat  Stat
	pc    uint64
	stage stage
}

// NewCPU creates a CPU attached to the given bus and resets it.
func NewCPU(bus *Bus) *CPU {
	c := &CPU{bus: bus}
	c.Reset()
	return c
}

// Reset restores the architectural reset state: PC 0, status AOK, all
// registers zero, ZF set, SF and OF clear.
func (c *CPU) Reset() {
	c.regs.Reset()
	c.cc.Reset()
	c.stat = StatAOK
	c.pc = 0
	c.stage = stage{memOK: true}
}

// PC returns the program counter.
func (c *CPU) PC() uint64 {
	return c.pc
}

// Stat returns the processor status.
func (c *CPU) Stat() Stat {
	return c.stat
}

// ConditionCodes returns the current arithmetic flags.
func (c *CPU) ConditionCodes() ConditionCodes {
	return c.cc
}

// RegFile returns the CPU's register file.
func (c *CPU) RegFile() *RegFile {
	return &c.regs
}

// Register returns the value of a single register.
func (c *CPU) Register(r insts.Register) uint64 {
	return c.regs.Read(r)
}

// RunCycle executes one instruction through the five stages. It is a no-op
// when the status is not AOK. If a stage raises a status, later stages
// short-circuit per the stage guards but the cycle still completes.
func (c *CPU) RunCycle() {
	if c.stat != StatAOK {
		return
	}

	c.stage = stage{instPC: c.pc}

	c.fetch()
	c.decode()
	c.execute()
	c.memory()
	c.writeBack()
	c.updatePC()
}

func (c *CPU) fetch() {
	s := &c.stage
	s.rA = insts.RNone
	s.rB = insts.RNone

	instByte, ok := c.readByte(c.pc)
	if !ok {
		return
	}

	s.icode = instByte >> 4
	s.ifun = instByte & 0xF
	s.valP = c.pc + 1

	if !insts.ValidOpcode(s.icode) || !insts.ValidIfun(s.icode, s.ifun) {
		c.setStat(StatINS)
		return
	}

	op := insts.Opcode(s.icode)
	if insts.UsesRegisters(op) {
		regByte, ok := c.readByte(s.valP)
		if !ok {
			return
		}
		s.rA = insts.Register(regByte >> 4)
		s.rB = insts.Register(regByte & 0xF)
		s.valP++
	}

	if insts.UsesValC(op) {
		valC, ok := c.readWord(s.valP)
		if !ok {
			return
		}
		s.valC = valC
		s.valP += wordBytes
	}

	s.fetchOK = true
}

func (c *CPU) decode() {
	s := &c.stage
	if !s.fetchOK {
		return
	}

	s.decodeOK = true

	requireReg := func(r insts.Register) bool {
		if !r.Valid() {
			c.setStat(StatINS)
			s.decodeOK = false
			return false
		}
		return true
	}

	switch insts.Opcode(s.icode) {
	case insts.OpCMovXX:
		if !requireReg(s.rA) || !requireReg(s.rB) {
			return
		}
		s.valA = c.regs.Read(s.rA)
	case insts.OpIRMovQ:
		if !requireReg(s.rB) {
			return
		}
	case insts.OpRMMovQ:
		if !requireReg(s.rA) || !requireReg(s.rB) {
			return
		}
		s.valA = c.regs.Read(s.rA)
		s.valB = c.regs.Read(s.rB)
	case insts.OpMRMovQ:
		if !requireReg(s.rA) || !requireReg(s.rB) {
			return
		}
		s.valB = c.regs.Read(s.rB)
	case insts.OpOpQ:
		if !requireReg(s.rA) || !requireReg(s.rB) {
			return
		}
		s.valA = c.regs.Read(s.rA)
		s.valB = c.regs.Read(s.rB)
	case insts.OpJXX:
		// No register operands.
	case insts.OpCall:
		s.valA = s.valP
		s.valB = c.regs.Read(insts.RSP)
	case insts.OpRet:
		s.valA = c.regs.Read(insts.RSP)
		s.valB = s.valA
	case insts.OpPushQ:
		if !requireReg(s.rA) {
			return
		}
		s.valA = c.regs.Read(s.rA)
		s.valB = c.regs.Read(insts.RSP)
	case insts.OpPopQ:
		if !requireReg(s.rA) {
			return
		}
		s.valA = c.regs.Read(insts.RSP)
		s.valB = s.valA
	case insts.OpIAddQ:
		if !requireReg(s.rB) {
			return
		}
		s.valB = c.regs.Read(s.rB)
	}
}

func (c *CPU) execute() {
	s := &c.stage
	if !s.decodeOK {
		return
	}

	s.executeOK = true
	s.cnd = true

	switch insts.Opcode(s.icode) {
	case insts.OpCMovXX:
		s.cnd = c.cc.Eval(insts.Cond(s.ifun))
		s.valE = s.valA
	case insts.OpIRMovQ:
		s.valE = s.valC
	case insts.OpRMMovQ, insts.OpMRMovQ:
		s.valE = s.valB + s.valC
	case insts.OpOpQ:
		result, ok := aluCompute(insts.ALUFun(s.ifun), s.valB, s.valA)
		if !ok {
			c.setStat(StatINS)
			s.executeOK = false
			return
		}
		s.valE = result
		c.updateCC(insts.ALUFun(s.ifun), s.valB, s.valA, s.valE)
	case insts.OpJXX:
		s.cnd = c.cc.Eval(insts.Cond(s.ifun))
	case insts.OpCall, insts.OpPushQ:
		s.valE = s.valB - wordBytes
	case insts.OpRet, insts.OpPopQ:
		s.valE = s.valB + wordBytes
	case insts.OpIAddQ:
		s.valE = s.valB + s.valC
		c.updateCC(insts.ALUAdd, s.valB, s.valC, s.valE)
	case insts.OpHalt:
		c.setStat(StatHLT)
	}
}

func (c *CPU) memory() {
	s := &c.stage
	if !s.executeOK {
		s.memOK = false
		return
	}

	s.memOK = true
	switch insts.Opcode(s.icode) {
	case insts.OpRMMovQ:
		s.memOK = c.writeWord(s.valE, s.valA)
	case insts.OpMRMovQ:
		s.valM, s.memOK = c.readWord(s.valE)
	case insts.OpPushQ, insts.OpCall:
		s.memOK = c.writeWord(s.valE, s.valA)
	case insts.OpPopQ, insts.OpRet:
		s.valM, s.memOK = c.readWord(s.valA)
	}
}

func (c *CPU) writeBack() {
	s := &c.stage
	if !s.decodeOK {
		return
	}

	switch insts.Opcode(s.icode) {
	case insts.OpCMovXX:
		if s.cnd {
			c.regs.Write(s.rB, s.valE)
		}
	case insts.OpIRMovQ, insts.OpOpQ, insts.OpIAddQ:
		c.regs.Write(s.rB, s.valE)
	case insts.OpMRMovQ:
		c.regs.Write(s.rA, s.valM)
	case insts.OpPopQ:
		c.regs.Write(insts.RSP, s.valE)
		c.regs.Write(s.rA, s.valM)
	case insts.OpRet:
		c.regs.Write(insts.RSP, s.valE)
	case insts.OpPushQ, insts.OpCall:
		c.regs.Write(insts.RSP, s.valE)
	}
}

// updatePC is suppressed on a fetch or memory fault so the PC stays at the
// faulting instruction.
func (c *CPU) updatePC() {
	s := &c.stage
	if !s.fetchOK || !s.memOK {
		return
	}

	switch insts.Opcode(s.icode) {
	case insts.OpHalt:
		c.pc = s.instPC
	case insts.OpJXX:
		if s.cnd {
			c.pc = s.valC
		} else {
			c.pc = s.valP
		}
	case insts.OpCall:
		c.pc = s.valC
	case insts.OpRet:
		c.pc = s.valM
	default:
		c.pc = s.valP
	}
}

// updateCC sets the flags from an ALU result. AND and XOR leave no defined
// overflow, so OF is cleared for them.
func (c *CPU) updateCC(fun insts.ALUFun, lhs, rhs, result uint64) {
	if c.stat != StatAOK {
		return
	}

	c.cc.ZF = result == 0
	c.cc.SF = int64(result) < 0

	switch fun {
	case insts.ALUAdd:
		c.cc.OF = addOverflow(int64(lhs), int64(rhs), int64(result))
	case insts.ALUSub:
		c.cc.OF = subOverflow(int64(lhs), int64(rhs), int64(result))
	default:
		c.cc.OF = false
	}
}

// setStat merges a status candidate under the priority rule: equal or
// higher priority wins, AOK never overwrites a fault.
func (c *CPU) setStat(candidate Stat) {
	if candidate == c.stat {
		return
	}
	if candidate.Priority() >= c.stat.Priority() {
		c.stat = candidate
	}
}

func (c *CPU) readByte(addr uint64) (byte, bool) {
	res := c.bus.Read(addr)
	if res.Stat != StatAOK {
		c.setStat(res.Stat)
		return 0, false
	}
	return res.Data, true
}

func (c *CPU) writeByte(addr uint64, data byte) bool {
	res := c.bus.Write(addr, data)
	if res.Stat != StatAOK {
		c.setStat(res.Stat)
		return false
	}
	return true
}

// readWord reads an 8-byte little-endian word as eight byte accesses.
func (c *CPU) readWord(addr uint64) (uint64, bool) {
	var value uint64
	for offset := uint64(0); offset < wordBytes; offset++ {
		b, ok := c.readByte(addr + offset)
		if !ok {
			return 0, false
		}
		value |= uint64(b) << (offset * 8)
	}
	return value, true
}

// writeWord writes an 8-byte little-endian word as eight byte accesses.
func (c *CPU) writeWord(addr uint64, value uint64) bool {
	for offset := uint64(0); offset < wordBytes; offset++ {
		b := byte(value >> (offset * 8))
		if !c.writeByte(addr+offset, b) {
			return false
		}
	}
	return true
}
