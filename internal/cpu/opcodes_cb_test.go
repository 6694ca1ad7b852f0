package cpu

import "testing"

func TestCBBitTestsWithoutModifyingOperand(t *testing.T) {
	c, mem := newTestCPU()
	c.Regs.PC = 0x100
	c.Regs.SetB(0x80) // bit 7 set
	loadProgram(mem, 0x100, 0xCB, 0x78) // BIT 7,B
	runN(t, c, 1)

	if c.Regs.B() != 0x80 {
		t.Errorf("B = %#02x, want unchanged 0x80", c.Regs.B())
	}
	if c.Regs.HasFlag(FlagZ) {
		t.Error("expected Z clear (bit 7 was set)")
	}
	if !c.Regs.HasFlag(FlagH) {
		t.Error("expected H set")
	}
}

func TestCBBitTestSetsZeroWhenBitClear(t *testing.T) {
	c, mem := newTestCPU()
	c.Regs.PC = 0x100
	c.Regs.SetB(0x00)
	loadProgram(mem, 0x100, 0xCB, 0x78) // BIT 7,B
	runN(t, c, 1)

	if !c.Regs.HasFlag(FlagZ) {
		t.Error("expected Z set (bit 7 was clear)")
	}
}

func TestCBResClearsBitWithoutTouchingFlags(t *testing.T) {
	c, mem := newTestCPU()
	c.Regs.PC = 0x100
	c.Regs.SetB(0xFF)
	c.Regs.SetFlag(FlagC, true)
	loadProgram(mem, 0x100, 0xCB, 0x80) // RES 0,B
	runN(t, c, 1)

	if c.Regs.B() != 0xFE {
		t.Errorf("B = %#02x, want 0xFE", c.Regs.B())
	}
	if !c.Regs.HasFlag(FlagC) {
		t.Error("expected C left untouched by RES")
	}
}

func TestCBSetSetsBitWithoutTouchingFlags(t *testing.T) {
	c, mem := newTestCPU()
	c.Regs.PC = 0x100
	c.Regs.SetB(0x00)
	loadProgram(mem, 0x100, 0xCB, 0xC0) // SET 0,B
	runN(t, c, 1)

	if c.Regs.B() != 0x01 {
		t.Errorf("B = %#02x, want 0x01", c.Regs.B())
	}
}

func TestCBSwapExchangesNibbles(t *testing.T) {
	c, mem := newTestCPU()
	c.Regs.PC = 0x100
	c.Regs.SetB(0xAB)
	loadProgram(mem, 0x100, 0xCB, 0x30) // SWAP B
	runN(t, c, 1)

	if c.Regs.B() != 0xBA {
		t.Errorf("B = %#02x, want 0xBA", c.Regs.B())
	}
}

func TestCBSRAPreservesSignBit(t *testing.T) {
	c, mem := newTestCPU()
	c.Regs.PC = 0x100
	c.Regs.SetB(0x81) // 1000_0001
	loadProgram(mem, 0x100, 0xCB, 0x28) // SRA B
	runN(t, c, 1)

	if c.Regs.B() != 0xC0 { // 1100_0000: bit 7 preserved, carry out from bit 0
		t.Errorf("B = %#02x, want 0xC0", c.Regs.B())
	}
	if !c.Regs.HasFlag(FlagC) {
		t.Error("expected C set (bit 0 of 0x81 was 1)")
	}
}

func TestCBOnHLIndirectOperand(t *testing.T) {
	c, mem := newTestCPU()
	c.Regs.PC = 0x100
	c.Regs.SetHL(0xC000)
	mem[0xC000] = 0x01
	loadProgram(mem, 0x100, 0xCB, 0x86) // RES 0,(HL)
	runN(t, c, 1)
	if mem[0xC000] != 0x00 {
		t.Errorf("(HL) = %#02x, want 0x00", mem[0xC000])
	}
}
