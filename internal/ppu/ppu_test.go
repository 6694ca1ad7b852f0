package ppu

import "testing"

func TestLCDCDisabledRendersBlankFrame(t *testing.T) {
	p := New()
	p.Write8(regLCDC, 0) // override the post-boot default to disabled
	var vram [0x2000]uint8
	var oam [0xA0]uint8
	frame := p.Render(vram, oam)
	for y := 0; y < ScreenHeight; y++ {
		for x := 0; x < ScreenWidth; x++ {
			if frame[y][x] != 0 {
				t.Fatalf("frame[%d][%d] = %d, want 0 with LCD disabled", y, x, frame[y][x])
			}
		}
	}
}

func TestNewSeedsPostBootRegisterValues(t *testing.T) {
	p := New()
	if got := p.Read8(regLCDC); got != 0x91 {
		t.Errorf("LCDC = %#02x, want post-boot 0x91", got)
	}
	if got := p.Read8(regBGP); got != 0xFC {
		t.Errorf("BGP = %#02x, want post-boot 0xFC", got)
	}
	if got := p.Read8(regOBP0); got != 0x00 {
		t.Errorf("OBP0 = %#02x, want post-boot 0x00", got)
	}
}

// LCDC bit 0 is the joint BG/window enable: clearing it must blank the
// window plane too, not just the background.
func TestWindowHiddenWhenBGEnableBitClear(t *testing.T) {
	p := New()
	p.Write8(regLCDC, lcdcEnable|lcdcWindowEnable|lcdcTileData) // bit 0 (BG enable) left clear
	p.Write8(regWY, 0)
	p.Write8(regWX, 7) // window covers the whole visible screen

	var vram [0x2000]uint8
	vram[0x1800] = 0 // window tile 0: index-3 everywhere
	vram[0] = 0xFF
	vram[1] = 0xFF

	var oam [0xA0]uint8
	frame := p.Render(vram, oam)
	if frame[0][0] != 0 {
		t.Errorf("frame[0][0] = %d, want 0 (window must be blanked with BG enable clear)", frame[0][0])
	}
}

func TestLYIsReadOnlyFromBusSide(t *testing.T) {
	p := New()
	p.LY = 0x42
	if got := p.Read8(regLY); got != 0x42 {
		t.Errorf("Read8(LY) = %#02x, want 0x42", got)
	}
	p.Write8(regLY, 0x99)
	if p.LY != 0x42 {
		t.Errorf("LY = %#02x after write, want unchanged 0x42", p.LY)
	}
}

func TestRegisterReadWriteRoundTrip(t *testing.T) {
	p := New()
	p.Write8(regSCX, 0x07)
	p.Write8(regBGP, 0xE4)
	if got := p.Read8(regSCX); got != 0x07 {
		t.Errorf("SCX = %#02x, want 0x07", got)
	}
	if got := p.Read8(regBGP); got != 0xE4 {
		t.Errorf("BGP = %#02x, want 0xE4", got)
	}
}

// Scenario: a background tile with pattern bytes chosen so every pixel
// in its top row has index 3, mapped through BGP=0xE4 (identity
// mapping), should render color 3 across that row.
func TestRenderBackgroundTopLeftTile(t *testing.T) {
	p := New()
	p.Write8(regLCDC, lcdcEnable|lcdcBGEnable|lcdcTileData) // unsigned tile addressing, BG map at 9800
	p.Write8(regBGP, 0xE4)                                  // 11 10 01 00 -> identity mapping

	var vram [0x2000]uint8
	// BG map entry (0,0) at 0x1800 points at tile 0.
	vram[0x1800] = 0x00
	// Tile 0 at 0x0000: top row all index-3 pixels (both bit planes all 1s).
	vram[0] = 0xFF // low plane, row 0
	vram[1] = 0xFF // high plane, row 0

	var oam [0xA0]uint8
	frame := p.Render(vram, oam)

	for x := 0; x < 8; x++ {
		if frame[0][x] != 3 {
			t.Fatalf("frame[0][%d] = %d, want 3", x, frame[0][x])
		}
	}
}

func TestTileDataSignedAddressingWrapsAroundBlock2(t *testing.T) {
	var vram [0x2000]uint8
	vram[0x1000] = 0xAB // tile index 0 (signed) lives at 0x1000
	data := tileData(vram, 0 /* signed addressing */, 0)
	if data[0] != 0xAB {
		t.Errorf("tileData signed idx 0 byte0 = %#02x, want 0xAB", data[0])
	}

	vram[0x0FF0] = 0xCD // tile index -1 (0xFF) lives at 0x1000 + (-1)*16 = 0x0FF0
	data = tileData(vram, 0, 0xFF)
	if data[0] != 0xCD {
		t.Errorf("tileData signed idx -1 byte0 = %#02x, want 0xCD", data[0])
	}
}

func TestTileDataUnsignedAddressing(t *testing.T) {
	var vram [0x2000]uint8
	vram[16] = 0x12 // tile index 1, unsigned, at 0x0000 + 1*16
	data := tileData(vram, lcdcTileData, 1)
	if data[0] != 0x12 {
		t.Errorf("tileData unsigned idx 1 byte0 = %#02x, want 0x12", data[0])
	}
}

func TestPixelIndexDecodesBitPlanarPattern(t *testing.T) {
	// row 0: low=0b10000000, high=0b01000000 -> pixel 0 has low-bit 1,
	// high-bit 0 giving index 1; pixel 1 has low-bit 0, high-bit 1
	// giving index 2.
	data := []uint8{0x80, 0x40}
	if got := pixelIndex(data, 0, 0); got != 1 {
		t.Errorf("pixelIndex col 0 = %d, want 1", got)
	}
	if got := pixelIndex(data, 0, 1); got != 2 {
		t.Errorf("pixelIndex col 1 = %d, want 2", got)
	}
}

func TestApplyPaletteMapsEachTwoBitEntry(t *testing.T) {
	palette := uint8(0b11_10_01_00) // idx0->0 idx1->1 idx2->2 idx3->3 (identity)
	for idx := uint8(0); idx < 4; idx++ {
		if got := applyPalette(palette, idx); got != idx {
			t.Errorf("applyPalette(idx=%d) = %d, want %d", idx, got, idx)
		}
	}
}

// Sprite priority: when the priority (behind-background) bit is set,
// the sprite is hidden only where the background's raw index is
// non-zero; a zero background index must still reveal the sprite.
func TestSpriteBehindBackgroundHiddenOnlyOverNonZeroBGIndex(t *testing.T) {
	p := New()
	p.Write8(regLCDC, lcdcEnable|lcdcBGEnable|lcdcSpriteEnable|lcdcTileData)
	p.Write8(regBGP, 0xE4)
	p.Write8(regOBP0, 0xE4)

	var vram [0x2000]uint8
	// BG tile 0 at map (0,0): all-zero index (both planes 0).
	vram[0x1800] = 0
	// Sprite tile 1: top row all index-3 pixels.
	vram[16] = 0xFF
	vram[17] = 0xFF

	var oam [0xA0]uint8
	// Sprite 0: y=16 (screenY=0), x=8 (screenX=0), tile=1, attr=0x80 (behind BG).
	oam[0] = 16
	oam[1] = 8
	oam[2] = 1
	oam[3] = 0x80

	frame := p.Render(vram, oam)
	if frame[0][0] != 3 {
		t.Errorf("frame[0][0] = %d, want 3 (sprite shows through BG index 0)", frame[0][0])
	}
}

func TestSpriteBehindBackgroundHiddenByNonZeroBGIndex(t *testing.T) {
	p := New()
	p.Write8(regLCDC, lcdcEnable|lcdcBGEnable|lcdcSpriteEnable|lcdcTileData)
	p.Write8(regBGP, 0xE4)
	p.Write8(regOBP0, 0xE4)

	var vram [0x2000]uint8
	// BG tile 0 at map (0,0): all index-1 pixels (low plane set).
	vram[0x1800] = 0
	vram[0] = 0xFF
	vram[1] = 0x00
	// Sprite tile 1: top row all index-3 pixels.
	vram[16] = 0xFF
	vram[17] = 0xFF

	var oam [0xA0]uint8
	oam[0] = 16
	oam[1] = 8
	oam[2] = 1
	oam[3] = 0x80 // behind BG

	frame := p.Render(vram, oam)
	if frame[0][0] == 3 {
		t.Error("expected background (non-zero index) to win over a behind-BG sprite")
	}
}

func TestSpriteTransparentIndexZeroNeverDrawn(t *testing.T) {
	p := New()
	p.Write8(regLCDC, lcdcEnable|lcdcSpriteEnable)
	p.Write8(regOBP0, 0xE4)

	var vram [0x2000]uint8 // sprite tile 0: all zero bits -> index 0 everywhere
	var oam [0xA0]uint8
	oam[0] = 16
	oam[1] = 8
	oam[2] = 0
	oam[3] = 0

	frame := p.Render(vram, oam)
	if frame[0][0] != 0 {
		t.Errorf("frame[0][0] = %d, want 0 (transparent sprite pixel leaves blank background)", frame[0][0])
	}
}
