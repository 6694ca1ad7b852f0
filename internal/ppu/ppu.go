// Package ppu implements the tile/sprite/window compositor: a pure
// function of VRAM, OAM and the PPU register block that reconstructs a
// 160x144 buffer of two-bit palette indices once per frame.
package ppu

const (
	ScreenWidth  = 160
	ScreenHeight = 144

	bgMapWidth  = 32
	tileBytes   = 16
)

// LCDC bit positions.
const (
	lcdcEnable        = 1 << 7
	lcdcWindowMap     = 1 << 6
	lcdcWindowEnable  = 1 << 5
	lcdcTileData      = 1 << 4
	lcdcBGMap         = 1 << 3
	lcdcSpriteSize    = 1 << 2
	lcdcSpriteEnable  = 1 << 1
	lcdcBGEnable      = 1 << 0
)

// register offsets within the FF40-FF4B block.
const (
	regLCDC = 0x00
	regSTAT = 0x01
	regSCY  = 0x02
	regSCX  = 0x03
	regLY   = 0x04
	regLYC  = 0x05
	regBGP  = 0x07
	regOBP0 = 0x08
	regOBP1 = 0x09
	regWY   = 0x0A
	regWX   = 0x0B
)

// PPU owns the register block and implements bus.IOHandler over it; it
// reads VRAM/OAM from the arrays passed to Render rather than owning
// them, since the bus is the single owner of those backing arrays.
type PPU struct {
	regs [0x0C]uint8
	LY   uint8
}

// bootRegs is the post-boot-ROM reset value of the FF40-FF4B register
// block (the LCDC/STAT/SCY/SCX/LY/LYC/DMA/BGP/OBP0/OBP1/WY/WX slice of
// the documented 256-byte I/O reset pattern). LCDC=0x91 turns the
// screen on with the BG plane enabled and unsigned tile addressing
// (window and sprites disabled); BGP=0xFC maps index 0 to shade 0 and
// indices 1-3 to shade 3.
var bootRegs = [0x0C]uint8{
	0x91, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00, 0xFC, 0x00, 0x00, 0x00, 0x00,
}

// New returns a PPU seeded with the documented post-boot register
// values, standing in for the boot ROM's own initialization of LCDC/
// STAT/BGP/OBP0/OBP1/WY/WX (boot-ROM execution itself is out of scope;
// see the lifecycle invariant this substitutes for).
func New() *PPU {
	return &PPU{regs: bootRegs}
}

// Read8 reads a PPU register by its FF40-relative offset.
func (p *PPU) Read8(offset uint16) uint8 {
	if offset == regLY {
		return p.LY
	}
	if int(offset) >= len(p.regs) {
		return 0xFF
	}
	return p.regs[offset]
}

// Write8 writes a PPU register by its FF40-relative offset. LY is
// read-only from the bus side; it changes only through the exported LY
// field.
func (p *PPU) Write8(offset uint16, v uint8) {
	if offset == regLY {
		return
	}
	if int(offset) >= len(p.regs) {
		return
	}
	p.regs[offset] = v
}

func (p *PPU) lcdc() uint8 { return p.regs[regLCDC] }

// VRAMReader is the subset of the bus the compositor reads tile and map
// data from.
type VRAMReader interface {
	Read8(addr uint16) uint8
}

// Render reconstructs one frame: background, then window, then sprites,
// each pixel finally mapped through its palette register. It is a pure
// function of vram/oam and the register block — Render takes no CPU
// cycles and has no side effects on p beyond what Write8 already set.
func (p *PPU) Render(vram [0x2000]uint8, oam [0xA0]uint8) [ScreenHeight][ScreenWidth]uint8 {
	var out [ScreenHeight][ScreenWidth]uint8
	lcdc := p.lcdc()

	if lcdc&lcdcEnable == 0 {
		return out
	}

	// bgIndex holds the raw (pre-palette) two-bit index from the
	// background/window planes; sprite priority needs the index, not
	// the mapped color, so it can't be recovered from out alone.
	var bgIndex [ScreenHeight][ScreenWidth]uint8
	bgp := p.regs[regBGP]
	scx, scy := p.regs[regSCX], p.regs[regSCY]

	if lcdc&lcdcBGEnable != 0 {
		p.renderBackground(&out, &bgIndex, vram, lcdc, scx, scy, bgp)
		// LCDC bit 0 is the joint BG/window enable: clearing it blanks
		// both planes, not just the background.
		if lcdc&lcdcWindowEnable != 0 {
			p.renderWindow(&out, &bgIndex, vram, lcdc, bgp)
		}
	}
	if lcdc&lcdcSpriteEnable != 0 {
		p.renderSprites(&out, &bgIndex, vram, oam, lcdc)
	}

	return out
}

func (p *PPU) renderBackground(out, bgIndex *[ScreenHeight][ScreenWidth]uint8, vram [0x2000]uint8, lcdc, scx, scy, bgp uint8) {
	mapBase := uint16(0x1800) // 9800 relative to 8000
	if lcdc&lcdcBGMap != 0 {
		mapBase = 0x1C00 // 9C00
	}

	for y := 0; y < ScreenHeight; y++ {
		worldY := uint8(y) + scy
		tileRow := worldY / 8
		rowInTile := worldY % 8

		for x := 0; x < ScreenWidth; x++ {
			worldX := uint8(x) + scx
			tileCol := worldX / 8
			colInTile := worldX % 8

			tileIndex := vram[mapBase+uint16(tileRow)*bgMapWidth+uint16(tileCol)]
			data := tileData(vram, lcdc, tileIndex)
			idx := pixelIndex(data, int(rowInTile), int(colInTile))
			bgIndex[y][x] = idx
			out[y][x] = applyPalette(bgp, idx)
		}
	}
}

func (p *PPU) renderWindow(out, bgIndex *[ScreenHeight][ScreenWidth]uint8, vram [0x2000]uint8, lcdc, bgp uint8) {
	wy := p.regs[regWY]
	wx := int(p.regs[regWX]) - 7

	mapBase := uint16(0x1800)
	if lcdc&lcdcWindowMap != 0 {
		mapBase = 0x1C00
	}

	for y := 0; y < ScreenHeight; y++ {
		if y < int(wy) {
			continue
		}
		winY := uint8(y) - wy
		tileRow := winY / 8
		rowInTile := winY % 8

		for x := 0; x < ScreenWidth; x++ {
			if x < wx {
				continue
			}
			winX := uint8(x - wx)
			tileCol := winX / 8
			colInTile := winX % 8

			tileIndex := vram[mapBase+uint16(tileRow)*bgMapWidth+uint16(tileCol)]
			data := tileData(vram, lcdc, tileIndex)
			idx := pixelIndex(data, int(rowInTile), int(colInTile))
			bgIndex[y][x] = idx
			out[y][x] = applyPalette(bgp, idx)
		}
	}
}

// spriteEntry mirrors one 4-byte OAM record.
type spriteEntry struct {
	y, x, tile, attr uint8
}

func (p *PPU) renderSprites(out, bgIndex *[ScreenHeight][ScreenWidth]uint8, vram [0x2000]uint8, oam [0xA0]uint8, lcdc uint8) {
	tall := lcdc&lcdcSpriteSize != 0
	height := 8
	if tall {
		height = 16
	}

	for i := 0; i < 40; i++ {
		e := spriteEntry{
			y:    oam[i*4+0],
			x:    oam[i*4+1],
			tile: oam[i*4+2],
			attr: oam[i*4+3],
		}

		screenY := int(e.y) - 16
		screenX := int(e.x) - 8
		if screenY <= -height || screenY >= ScreenHeight || screenX <= -8 || screenX >= ScreenWidth {
			continue
		}

		flipY := e.attr&0x40 != 0
		flipX := e.attr&0x20 != 0
		palette := p.regs[regOBP0]
		if e.attr&0x10 != 0 {
			palette = p.regs[regOBP1]
		}
		behindBG := e.attr&0x80 != 0

		tile := e.tile
		if tall {
			tile &^= 1
		}

		for row := 0; row < height; row++ {
			py := screenY + row
			if py < 0 || py >= ScreenHeight {
				continue
			}
			srcRow := row
			if flipY {
				srcRow = height - 1 - row
			}

			t := tile
			rowInTile := srcRow
			if tall && srcRow >= 8 {
				t++
				rowInTile -= 8
			}
			data := spriteTileData(vram, t)

			for col := 0; col < 8; col++ {
				px := screenX + col
				if px < 0 || px >= ScreenWidth {
					continue
				}
				srcCol := col
				if flipX {
					srcCol = 7 - col
				}

				idx := pixelIndex(data, rowInTile, srcCol)
				if idx == 0 {
					continue // transparent
				}
				if behindBG && bgIndex[py][px] != 0 {
					continue
				}
				out[py][px] = applyPalette(palette, idx)
			}
		}
	}
}

// tileData returns the 16-byte tile pattern for a background/window
// tile number, honoring LCDC bit 4's signed/unsigned addressing switch.
func tileData(vram [0x2000]uint8, lcdc uint8, tileIndex uint8) []uint8 {
	var base uint16
	if lcdc&lcdcTileData != 0 {
		base = 0x0000 + uint16(tileIndex)*tileBytes // unsigned, from 8000
	} else {
		base = uint16(0x1000 + int(int8(tileIndex))*tileBytes) // signed, from 9000
	}
	return vram[base : base+tileBytes]
}

// spriteTileData always uses unsigned addressing from 8000, per hardware.
func spriteTileData(vram [0x2000]uint8, tileIndex uint8) []uint8 {
	base := uint16(tileIndex) * tileBytes
	return vram[base : base+tileBytes]
}

// pixelIndex extracts the two-bit palette index for (row, col) within an
// 8x8 tile's bit-planar pattern: the low byte of the row supplies bit 0,
// the high byte supplies bit 1, most significant pixel first.
func pixelIndex(data []uint8, row, col int) uint8 {
	low := data[row*2]
	high := data[row*2+1]
	shift := uint(7 - col)
	return (high>>shift&1)<<1 | (low >> shift & 1)
}

// applyPalette maps a two-bit index through a palette register (two bits
// per entry, entry 0 at bit 0).
func applyPalette(palette uint8, idx uint8) uint8 {
	return (palette >> (idx * 2)) & 0x3
}
