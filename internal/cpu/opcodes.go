package cpu

// opcodeTable is the base (non-CB) 256-entry dispatch table. Building it
// in init() lets the regular families (LD r,r' and the ALU block) be
// generated by loops instead of 64+64 near-identical case arms, while
// the irregular 0x00-0x3F and 0xC0-0xFF opcodes get explicit handlers.
var opcodeTable [256]func(*CPU) uint32

func init() {
	opcodeTable[0x00] = func(c *CPU) uint32 { return 1 } // NOP

	// 01/11/21/31: LD rr,imm16
	for slot := uint8(0); slot < 4; slot++ {
		slot := slot
		opcodeTable[0x01+slot*0x10] = func(c *CPU) uint32 {
			c.setR16(slot, c.fetch16())
			return 3
		}
	}

	opcodeTable[0x02] = func(c *CPU) uint32 { c.Mem.Write8(c.Regs.BC(), c.Regs.A()); return 2 }
	opcodeTable[0x12] = func(c *CPU) uint32 { c.Mem.Write8(c.Regs.DE(), c.Regs.A()); return 2 }
	opcodeTable[0x22] = func(c *CPU) uint32 {
		hl := c.Regs.HL()
		c.Mem.Write8(hl, c.Regs.A())
		c.Regs.SetHL(hl + 1)
		return 2
	}
	opcodeTable[0x32] = func(c *CPU) uint32 {
		hl := c.Regs.HL()
		c.Mem.Write8(hl, c.Regs.A())
		c.Regs.SetHL(hl - 1)
		return 2
	}
	opcodeTable[0x0A] = func(c *CPU) uint32 { c.Regs.SetA(c.Mem.Read8(c.Regs.BC())); return 2 }
	opcodeTable[0x1A] = func(c *CPU) uint32 { c.Regs.SetA(c.Mem.Read8(c.Regs.DE())); return 2 }
	opcodeTable[0x2A] = func(c *CPU) uint32 {
		hl := c.Regs.HL()
		c.Regs.SetA(c.Mem.Read8(hl))
		c.Regs.SetHL(hl + 1)
		return 2
	}
	opcodeTable[0x3A] = func(c *CPU) uint32 {
		hl := c.Regs.HL()
		c.Regs.SetA(c.Mem.Read8(hl))
		c.Regs.SetHL(hl - 1)
		return 2
	}

	// 03/13/23/33 and 0B/1B/2B/3B: 16-bit INC/DEC, no flag effects.
	for slot := uint8(0); slot < 4; slot++ {
		slot := slot
		opcodeTable[0x03+slot*0x10] = func(c *CPU) uint32 { c.setR16(slot, c.getR16(slot)+1); return 2 }
		opcodeTable[0x0B+slot*0x10] = func(c *CPU) uint32 { c.setR16(slot, c.getR16(slot)-1); return 2 }
	}

	// 04/0C/.../3C and 05/0D/.../3D: 8-bit INC/DEC.
	for slot := uint8(0); slot < 8; slot++ {
		slot := slot
		cyc := uint32(1)
		if slot == slotHLInd {
			cyc = 3
		}
		opcodeTable[0x04+slot*8] = func(c *CPU) uint32 {
			c.setR8(slot, c.inc8(c.getR8(slot)))
			return cyc
		}
		opcodeTable[0x05+slot*8] = func(c *CPU) uint32 {
			c.setR8(slot, c.dec8(c.getR8(slot)))
			return cyc
		}
	}

	// 06/0E/.../3E: LD r,imm8.
	for slot := uint8(0); slot < 8; slot++ {
		slot := slot
		cyc := uint32(2)
		if slot == slotHLInd {
			cyc = 3
		}
		opcodeTable[0x06+slot*8] = func(c *CPU) uint32 {
			c.setR8(slot, c.fetch8())
			return cyc
		}
	}

	opcodeTable[0x07] = func(c *CPU) uint32 { rlca(c); return 1 }
	opcodeTable[0x0F] = func(c *CPU) uint32 { rrca(c); return 1 }
	opcodeTable[0x17] = func(c *CPU) uint32 { rla(c); return 1 }
	opcodeTable[0x1F] = func(c *CPU) uint32 { rra(c); return 1 }

	opcodeTable[0x08] = func(c *CPU) uint32 {
		addr := c.fetch16()
		c.Mem.Write16(addr, c.Regs.SP)
		return 5
	}

	for slot := uint8(0); slot < 4; slot++ {
		slot := slot
		opcodeTable[0x09+slot*0x10] = func(c *CPU) uint32 { c.addHL(c.getR16(slot)); return 2 }
	}

	opcodeTable[0x10] = func(c *CPU) uint32 { c.fetch8(); return 1 } // STOP: 2-byte NOP for the core

	opcodeTable[0x18] = func(c *CPU) uint32 { return jr(c, true) }
	opcodeTable[0x20] = func(c *CPU) uint32 { return jr(c, !c.Regs.HasFlag(FlagZ)) }
	opcodeTable[0x28] = func(c *CPU) uint32 { return jr(c, c.Regs.HasFlag(FlagZ)) }
	opcodeTable[0x30] = func(c *CPU) uint32 { return jr(c, !c.Regs.HasFlag(FlagC)) }
	opcodeTable[0x38] = func(c *CPU) uint32 { return jr(c, c.Regs.HasFlag(FlagC)) }

	opcodeTable[0x27] = func(c *CPU) uint32 { daa(c); return 1 }
	opcodeTable[0x2F] = func(c *CPU) uint32 {
		c.Regs.SetA(^c.Regs.A())
		c.Regs.SetFlag(FlagN, true)
		c.Regs.SetFlag(FlagH, true)
		return 1
	}
	opcodeTable[0x37] = func(c *CPU) uint32 {
		c.Regs.SetFlag(FlagN, false)
		c.Regs.SetFlag(FlagH, false)
		c.Regs.SetFlag(FlagC, true)
		return 1
	}
	opcodeTable[0x3F] = func(c *CPU) uint32 {
		c.Regs.SetFlag(FlagN, false)
		c.Regs.SetFlag(FlagH, false)
		c.Regs.SetFlag(FlagC, !c.Regs.HasFlag(FlagC))
		return 1
	}

	// 40-7F: LD r,r' for every pair of slots; 0x76 is HALT.
	for dst := uint8(0); dst < 8; dst++ {
		for src := uint8(0); src < 8; src++ {
			dst, src := dst, src
			op := 0x40 + dst*8 + src
			if op == 0x76 {
				continue
			}
			cyc := uint32(1)
			if dst == slotHLInd || src == slotHLInd {
				cyc = 2
			}
			opcodeTable[op] = func(c *CPU) uint32 {
				c.setR8(dst, c.getR8(src))
				return cyc
			}
		}
	}
	opcodeTable[0x76] = func(c *CPU) uint32 { c.Halted = true; return 1 }

	// 80-BF: 8 ALU ops x 8 operand slots.
	aluOps := [8]func(c *CPU, v uint8){
		func(c *CPU, v uint8) { c.Regs.SetA(c.add8(c.Regs.A(), v, false)) },
		func(c *CPU, v uint8) { c.Regs.SetA(c.add8(c.Regs.A(), v, true)) },
		func(c *CPU, v uint8) { c.Regs.SetA(c.sub8(c.Regs.A(), v, false)) },
		func(c *CPU, v uint8) { c.Regs.SetA(c.sub8(c.Regs.A(), v, true)) },
		func(c *CPU, v uint8) { c.Regs.SetA(c.and8(c.Regs.A(), v)) },
		func(c *CPU, v uint8) { c.Regs.SetA(c.xor8(c.Regs.A(), v)) },
		func(c *CPU, v uint8) { c.Regs.SetA(c.or8(c.Regs.A(), v)) },
		func(c *CPU, v uint8) { c.sub8(c.Regs.A(), v, false) }, // CP: discard result
	}
	for op := uint8(0); op < 8; op++ {
		for slot := uint8(0); slot < 8; slot++ {
			op, slot := op, slot
			cyc := uint32(1)
			if slot == slotHLInd {
				cyc = 2
			}
			opcodeTable[0x80+op*8+slot] = func(c *CPU) uint32 {
				aluOps[op](c, c.getR8(slot))
				return cyc
			}
		}
	}
	// Immediate forms of the same 8 ALU ops, at C6/CE/D6/DE/E6/EE/F6/FE.
	for op := uint8(0); op < 8; op++ {
		op := op
		opcodeTable[0xC6+op*8] = func(c *CPU) uint32 {
			aluOps[op](c, c.fetch8())
			return 2
		}
	}

	opcodeTable[0xC0] = func(c *CPU) uint32 { return ret(c, !c.Regs.HasFlag(FlagZ)) }
	opcodeTable[0xC8] = func(c *CPU) uint32 { return ret(c, c.Regs.HasFlag(FlagZ)) }
	opcodeTable[0xD0] = func(c *CPU) uint32 { return ret(c, !c.Regs.HasFlag(FlagC)) }
	opcodeTable[0xD8] = func(c *CPU) uint32 { return ret(c, c.Regs.HasFlag(FlagC)) }
	opcodeTable[0xC9] = func(c *CPU) uint32 { c.Regs.PC = c.pop16(); return 4 }
	opcodeTable[0xD9] = func(c *CPU) uint32 { c.Regs.PC = c.pop16(); c.Regs.IME = true; return 4 }

	opcodeTable[0xC2] = func(c *CPU) uint32 { return jp(c, !c.Regs.HasFlag(FlagZ)) }
	opcodeTable[0xCA] = func(c *CPU) uint32 { return jp(c, c.Regs.HasFlag(FlagZ)) }
	opcodeTable[0xD2] = func(c *CPU) uint32 { return jp(c, !c.Regs.HasFlag(FlagC)) }
	opcodeTable[0xDA] = func(c *CPU) uint32 { return jp(c, c.Regs.HasFlag(FlagC)) }
	opcodeTable[0xC3] = func(c *CPU) uint32 { return jp(c, true) }
	opcodeTable[0xE9] = func(c *CPU) uint32 { c.Regs.PC = c.Regs.HL(); return 1 }

	opcodeTable[0xC4] = func(c *CPU) uint32 { return call(c, !c.Regs.HasFlag(FlagZ)) }
	opcodeTable[0xCC] = func(c *CPU) uint32 { return call(c, c.Regs.HasFlag(FlagZ)) }
	opcodeTable[0xD4] = func(c *CPU) uint32 { return call(c, !c.Regs.HasFlag(FlagC)) }
	opcodeTable[0xDC] = func(c *CPU) uint32 { return call(c, c.Regs.HasFlag(FlagC)) }
	opcodeTable[0xCD] = func(c *CPU) uint32 { return call(c, true) }

	for slot := uint8(0); slot < 4; slot++ {
		slot := slot
		opcodeTable[0xC1+slot*0x10] = func(c *CPU) uint32 { c.setR16Pop(slot, c.pop16()); return 3 }
		opcodeTable[0xC5+slot*0x10] = func(c *CPU) uint32 { c.push16(c.getR16Push(slot)); return 4 }
	}

	for n := uint8(0); n < 8; n++ {
		n := n
		opcodeTable[0xC7+n*8] = func(c *CPU) uint32 {
			c.push16(c.Regs.PC)
			c.Regs.PC = uint16(n) * 8
			return 4
		}
	}

	opcodeTable[0xE0] = func(c *CPU) uint32 {
		addr := 0xFF00 + uint16(c.fetch8())
		c.Mem.Write8(addr, c.Regs.A())
		return 3
	}
	opcodeTable[0xF0] = func(c *CPU) uint32 {
		addr := 0xFF00 + uint16(c.fetch8())
		c.Regs.SetA(c.Mem.Read8(addr))
		return 3
	}
	opcodeTable[0xE2] = func(c *CPU) uint32 {
		c.Mem.Write8(0xFF00+uint16(c.Regs.C()), c.Regs.A())
		return 2
	}
	opcodeTable[0xF2] = func(c *CPU) uint32 {
		c.Regs.SetA(c.Mem.Read8(0xFF00 + uint16(c.Regs.C())))
		return 2
	}
	opcodeTable[0xEA] = func(c *CPU) uint32 { c.Mem.Write8(c.fetch16(), c.Regs.A()); return 4 }
	opcodeTable[0xFA] = func(c *CPU) uint32 { c.Regs.SetA(c.Mem.Read8(c.fetch16())); return 4 }

	opcodeTable[0xE8] = func(c *CPU) uint32 {
		c.Regs.SP = c.addSPSigned(int8(c.fetch8()))
		return 4
	}
	opcodeTable[0xF8] = func(c *CPU) uint32 {
		c.Regs.SetHL(c.addSPSigned(int8(c.fetch8())))
		return 3
	}
	opcodeTable[0xF9] = func(c *CPU) uint32 { c.Regs.SP = c.Regs.HL(); return 2 }

	opcodeTable[0xF3] = func(c *CPU) uint32 { c.Regs.IME = false; return 1 }
	opcodeTable[0xFB] = func(c *CPU) uint32 { c.Regs.IME = true; return 1 }
}

func jr(c *CPU, take bool) uint32 {
	e := int8(c.fetch8())
	if !take {
		return 2
	}
	c.Regs.PC = uint16(int32(c.Regs.PC) + int32(e))
	return 3
}

func jp(c *CPU, take bool) uint32 {
	addr := c.fetch16()
	if take {
		c.Regs.PC = addr
	}
	return 4
}

func call(c *CPU, take bool) uint32 {
	addr := c.fetch16()
	if !take {
		return 3
	}
	c.push16(c.Regs.PC)
	c.Regs.PC = addr
	return 6
}

func ret(c *CPU, take bool) uint32 {
	if !take {
		return 2
	}
	c.Regs.PC = c.pop16()
	return 5
}

// rlca/rrca/rla/rra compute the outgoing carry before mutating A, unlike
// the source's rotate instructions (see spec design notes: several
// rotates computed the new carry after modifying A).
func rlca(c *CPU) {
	a := c.Regs.A()
	carry := a>>7 != 0
	result := a<<1 | a>>7
	c.Regs.SetA(result)
	c.Regs.SetFlag(FlagZ, false)
	c.Regs.SetFlag(FlagN, false)
	c.Regs.SetFlag(FlagH, false)
	c.Regs.SetFlag(FlagC, carry)
}

func rrca(c *CPU) {
	a := c.Regs.A()
	carry := a&1 != 0
	result := a>>1 | a<<7
	c.Regs.SetA(result)
	c.Regs.SetFlag(FlagZ, false)
	c.Regs.SetFlag(FlagN, false)
	c.Regs.SetFlag(FlagH, false)
	c.Regs.SetFlag(FlagC, carry)
}

func rla(c *CPU) {
	a := c.Regs.A()
	oldCarry := uint8(0)
	if c.Regs.HasFlag(FlagC) {
		oldCarry = 1
	}
	carry := a>>7 != 0
	result := a<<1 | oldCarry
	c.Regs.SetA(result)
	c.Regs.SetFlag(FlagZ, false)
	c.Regs.SetFlag(FlagN, false)
	c.Regs.SetFlag(FlagH, false)
	c.Regs.SetFlag(FlagC, carry)
}

func rra(c *CPU) {
	a := c.Regs.A()
	oldCarry := uint8(0)
	if c.Regs.HasFlag(FlagC) {
		oldCarry = 1 << 7
	}
	carry := a&1 != 0
	result := a>>1 | oldCarry
	c.Regs.SetA(result)
	c.Regs.SetFlag(FlagZ, false)
	c.Regs.SetFlag(FlagN, false)
	c.Regs.SetFlag(FlagH, false)
	c.Regs.SetFlag(FlagC, carry)
}

// daa adjusts A after BCD arithmetic using N, H and C, preserving N
// (the source clears it) and otherwise clearing H per the corrected
// design-note semantics.
func daa(c *CPU) {
	a := c.Regs.A()
	adjust := uint8(0)
	carry := c.Regs.HasFlag(FlagC)

	if c.Regs.HasFlag(FlagN) {
		if c.Regs.HasFlag(FlagH) {
			adjust |= 0x06
		}
		if carry {
			adjust |= 0x60
		}
		a -= adjust
	} else {
		if c.Regs.HasFlag(FlagH) || a&0xF > 0x9 {
			adjust |= 0x06
		}
		if carry || a > 0x99 {
			adjust |= 0x60
			carry = true
		}
		a += adjust
	}

	c.Regs.SetA(a)
	c.Regs.SetFlag(FlagZ, a == 0)
	c.Regs.SetFlag(FlagH, false)
	c.Regs.SetFlag(FlagC, carry)
}
