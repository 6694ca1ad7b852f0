package cpu

// cbTable is the 256-entry dispatch table for opcodes following the 0xCB
// prefix byte: rotate/shift group, then BIT/RES/SET, each crossed with
// the 8 operand slots.
var cbTable [256]func(*CPU) uint32

func init() {
	shiftOps := [8]func(c *CPU, v uint8) uint8{
		cbRLC, cbRRC, cbRL, cbRR, cbSLA, cbSRA, cbSwap, cbSRL,
	}

	for op := uint8(0); op < 8; op++ {
		for slot := uint8(0); slot < 8; slot++ {
			op, slot := op, slot
			cyc := uint32(2)
			if slot == slotHLInd {
				cyc = 4
			}
			cbTable[op*8+slot] = func(c *CPU) uint32 {
				c.setR8(slot, shiftOps[op](c, c.getR8(slot)))
				return cyc
			}
		}
	}

	// 0x40-0x7F: BIT b,r - tests bit b of the operand, leaves it unmodified.
	for bit := uint8(0); bit < 8; bit++ {
		for slot := uint8(0); slot < 8; slot++ {
			bit, slot := bit, slot
			cyc := uint32(2)
			if slot == slotHLInd {
				cyc = 3
			}
			cbTable[0x40+bit*8+slot] = func(c *CPU) uint32 {
				v := c.getR8(slot)
				c.Regs.SetFlag(FlagZ, v&(1<<bit) == 0)
				c.Regs.SetFlag(FlagN, false)
				c.Regs.SetFlag(FlagH, true)
				return cyc
			}
		}
	}

	// 0x80-0xBF: RES b,r - clears bit b, flags untouched.
	for bit := uint8(0); bit < 8; bit++ {
		for slot := uint8(0); slot < 8; slot++ {
			bit, slot := bit, slot
			cyc := uint32(2)
			if slot == slotHLInd {
				cyc = 4
			}
			cbTable[0x80+bit*8+slot] = func(c *CPU) uint32 {
				c.setR8(slot, c.getR8(slot)&^(1<<bit))
				return cyc
			}
		}
	}

	// 0xC0-0xFF: SET b,r - sets bit b, flags untouched.
	for bit := uint8(0); bit < 8; bit++ {
		for slot := uint8(0); slot < 8; slot++ {
			bit, slot := bit, slot
			cyc := uint32(2)
			if slot == slotHLInd {
				cyc = 4
			}
			cbTable[0xC0+bit*8+slot] = func(c *CPU) uint32 {
				c.setR8(slot, c.getR8(slot)|(1<<bit))
				return cyc
			}
		}
	}
}

// Each shift/rotate helper computes the outgoing carry from the operand
// before mutating it, per the corrected rotate-carry ordering.

func cbRLC(c *CPU, v uint8) uint8 {
	carry := v>>7 != 0
	result := v<<1 | v>>7
	c.setShiftFlags(result, carry)
	return result
}

func cbRRC(c *CPU, v uint8) uint8 {
	carry := v&1 != 0
	result := v>>1 | v<<7
	c.setShiftFlags(result, carry)
	return result
}

func cbRL(c *CPU, v uint8) uint8 {
	oldCarry := uint8(0)
	if c.Regs.HasFlag(FlagC) {
		oldCarry = 1
	}
	carry := v>>7 != 0
	result := v<<1 | oldCarry
	c.setShiftFlags(result, carry)
	return result
}

func cbRR(c *CPU, v uint8) uint8 {
	oldCarry := uint8(0)
	if c.Regs.HasFlag(FlagC) {
		oldCarry = 1 << 7
	}
	carry := v&1 != 0
	result := v>>1 | oldCarry
	c.setShiftFlags(result, carry)
	return result
}

func cbSLA(c *CPU, v uint8) uint8 {
	carry := v>>7 != 0
	result := v << 1
	c.setShiftFlags(result, carry)
	return result
}

func cbSRA(c *CPU, v uint8) uint8 {
	carry := v&1 != 0
	result := v>>1 | v&0x80 // bit 7 retains its value
	c.setShiftFlags(result, carry)
	return result
}

func cbSwap(c *CPU, v uint8) uint8 {
	result := v<<4 | v>>4
	c.Regs.SetFlag(FlagZ, result == 0)
	c.Regs.SetFlag(FlagN, false)
	c.Regs.SetFlag(FlagH, false)
	c.Regs.SetFlag(FlagC, false)
	return result
}

func cbSRL(c *CPU, v uint8) uint8 {
	carry := v&1 != 0
	result := v >> 1
	c.setShiftFlags(result, carry)
	return result
}

func (c *CPU) setShiftFlags(result uint8, carry bool) {
	c.Regs.SetFlag(FlagZ, result == 0)
	c.Regs.SetFlag(FlagN, false)
	c.Regs.SetFlag(FlagH, false)
	c.Regs.SetFlag(FlagC, carry)
}
