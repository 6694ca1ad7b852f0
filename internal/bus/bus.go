// Package bus implements the 16-bit memory map that routes CPU reads
// and writes across banked ROM, VRAM, work RAM, OAM, I/O registers and
// high RAM, including the 5-bit ROM-bank selector.
package bus

import (
	"boycore-dx/internal/cartridge"
	"boycore-dx/internal/debug"
)

// IOHandler is implemented by memory-mapped I/O register blocks (the
// PPU, joypad, serial and timer stubs) that the bus dispatches
// FF00-FF7F reads/writes to.
type IOHandler interface {
	Read8(offset uint16) uint8
	Write8(offset uint16, value uint8)
}

// Bus owns every backing store in the address space and performs the
// bank-aware routing described in the data model.
type Bus struct {
	cart *cartridge.Cartridge

	selectedBank uint8

	VRAM [0x2000]uint8 // 8000-9FFF
	WRAM [0x2000]uint8 // C000-DFFF (and its E000-FDFF echo)
	OAM  [0xA0]uint8   // FE00-FE9F
	HRAM [0x7F]uint8   // FF80-FFFE
	IE   uint8         // FFFF

	// IF (FF0F) is owned directly by the bus since both the CPU's
	// interrupt dispatch and every stub IOHandler need to set bits in it.
	IF uint8

	PPU    IOHandler
	Joypad IOHandler
	Serial IOHandler
	Timer  IOHandler

	logger *debug.Logger
}

// bootIF is IF's (FF0F) value in the documented 256-byte I/O reset
// pattern applied at construction, standing in for the boot ROM's own
// hand-off state.
const bootIF = 0x01

// New creates a bus over the given cartridge with bank 1 selected, per
// the MBC1 reset state, and IF seeded to its documented post-boot
// value. PPU registers are seeded by ppu.New; the joypad, serial and
// timer stubs start from their constructors' own defaults and are not
// seeded with post-boot values. All four are wired onto the bus after
// construction.
func New(cart *cartridge.Cartridge) *Bus {
	return &Bus{cart: cart, selectedBank: 1, IF: bootIF}
}

// SetLogger attaches a debug logger; nil disables bus logging.
func (b *Bus) SetLogger(l *debug.Logger) { b.logger = l }

// SelectedBank reports the ROM bank currently windowed at 4000-7FFF.
func (b *Bus) SelectedBank() uint8 { return b.selectedBank }

// Read8 reads one byte, routing by address region.
func (b *Bus) Read8(addr uint16) uint8 {
	switch {
	case addr < 0x4000:
		return b.cart.BankZero()[addr]
	case addr < 0x8000:
		return b.cart.ReadBank(int(b.selectedBank), addr-0x4000)
	case addr < 0xA000:
		return b.VRAM[addr-0x8000]
	case addr < 0xC000:
		return 0xFF // external RAM: not core, reads as open bus
	case addr < 0xE000:
		return b.WRAM[addr-0xC000]
	case addr < 0xFE00:
		return b.WRAM[addr-0xE000] // echo of C000-DDFF
	case addr < 0xFEA0:
		return b.OAM[addr-0xFE00]
	case addr < 0xFF00:
		return 0xFF // unmapped
	case addr < 0xFF80:
		return b.readIO(addr)
	case addr < 0xFFFF:
		return b.HRAM[addr-0xFF80]
	default:
		return b.IE
	}
}

// Write8 writes one byte, routing by address region. Writes below
// 0x8000 never mutate ROM; they are interpreted as bank-control
// messages (or silently dropped outside the control window).
func (b *Bus) Write8(addr uint16, v uint8) {
	switch {
	case addr < 0x2000:
		// RAM-enable latch: not modeled (no external RAM in the core).
	case addr < 0x4000:
		bank := v & 0x1F
		if bank == 0 {
			bank = 1 // ROM-only MBC1 rule: bank 0 remaps to bank 1
		}
		b.selectedBank = bank
	case addr < 0x8000:
		// Banking modes beyond the 5-bit selector are out of scope.
	case addr < 0xA000:
		b.VRAM[addr-0x8000] = v
	case addr < 0xC000:
		// external RAM: not core
	case addr < 0xE000:
		b.WRAM[addr-0xC000] = v
	case addr < 0xFE00:
		b.WRAM[addr-0xE000] = v
	case addr < 0xFEA0:
		b.OAM[addr-0xFE00] = v
	case addr < 0xFF00:
		// unmapped
	case addr < 0xFF80:
		b.writeIO(addr, v)
	case addr < 0xFFFF:
		b.HRAM[addr-0xFF80] = v
	default:
		b.IE = v
	}
}

// Read16 reads a little-endian 16-bit value.
func (b *Bus) Read16(addr uint16) uint16 {
	return uint16(b.Read8(addr)) | uint16(b.Read8(addr+1))<<8
}

// Write16 writes a little-endian 16-bit value as two byte writes.
func (b *Bus) Write16(addr uint16, v uint16) {
	b.Write8(addr, uint8(v))
	b.Write8(addr+1, uint8(v>>8))
}

func (b *Bus) readIO(addr uint16) uint8 {
	offset := addr - 0xFF00
	switch {
	case offset == 0x00:
		if b.Joypad != nil {
			return b.Joypad.Read8(0)
		}
		return 0xFF
	case offset >= 0x01 && offset <= 0x02:
		if b.Serial != nil {
			return b.Serial.Read8(offset - 0x01)
		}
		return 0xFF
	case offset >= 0x04 && offset <= 0x07:
		if b.Timer != nil {
			return b.Timer.Read8(offset - 0x04)
		}
		return 0xFF
	case offset == 0x0F:
		return b.IF | 0xE0 // top 3 bits are unused, read as 1
	case offset >= 0x40 && offset <= 0x4B:
		if b.PPU != nil {
			return b.PPU.Read8(offset - 0x40)
		}
		return 0xFF
	default:
		return 0xFF
	}
}

func (b *Bus) writeIO(addr uint16, v uint8) {
	offset := addr - 0xFF00
	switch {
	case offset == 0x00:
		if b.Joypad != nil {
			b.Joypad.Write8(0, v)
		}
	case offset >= 0x01 && offset <= 0x02:
		if b.Serial != nil {
			b.Serial.Write8(offset-0x01, v)
		}
	case offset >= 0x04 && offset <= 0x07:
		if b.Timer != nil {
			b.Timer.Write8(offset-0x04, v)
		}
	case offset == 0x0F:
		b.IF = v & 0x1F
	case offset >= 0x40 && offset <= 0x4B:
		if b.PPU != nil {
			b.PPU.Write8(offset-0x40, v)
		}
	}
}

// RequestInterrupt sets a bit in IF. bit is one of the InterruptXxx
// constants in the cpu package (0=VBlank,1=STAT,2=Timer,
// 3=Serial,4=Joypad).
func (b *Bus) RequestInterrupt(bit uint8) {
	b.IF |= 1 << bit
}
