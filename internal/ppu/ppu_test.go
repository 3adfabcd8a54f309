package ppu

import (
	"testing"

	"github.com/8bitgo/goboy/internal/interrupts"
)

func newTestPPU() (*PPU, *interrupts.Controller) {
	irq := interrupts.New()
	return New(irq), irq
}

// advanceDots feeds n T-cycles to the PPU in the multiple-of-4,
// uint8-sized chunks the real scheduler delivers.
func advanceDots(p *PPU, n int) {
	for n > 0 {
		step := n
		if step > 200 {
			step = 200
		}
		p.Advance(uint8(step))
		n -= step
	}
}

func TestModeFSMOneLine(t *testing.T) {
	p, _ := newTestPPU()
	if p.Mode() != modeOAMScan {
		t.Fatalf("initial mode = %d, want OAM scan (2)", p.Mode())
	}
	p.Advance(oamScanDots)
	if p.Mode() != modePixel {
		t.Errorf("after OAM scan, mode = %d, want pixel transfer (3)", p.Mode())
	}
	p.Advance(172)
	if p.Mode() != modeHBlank {
		t.Errorf("after pixel transfer, mode = %d, want H-blank (0)", p.Mode())
	}
	p.Advance(204)
	if p.LY() != 1 {
		t.Errorf("LY after one full line = %d, want 1", p.LY())
	}
	if p.Mode() != modeOAMScan {
		t.Errorf("new line mode = %d, want OAM scan (2)", p.Mode())
	}
}

func TestEntersVBlankAfterVisibleLines(t *testing.T) {
	p, irq := newTestPPU()
	for line := 0; line < ScreenHeight; line++ {
		advanceDots(p, lineDots)
	}
	if p.Mode() != modeVBlank {
		t.Errorf("mode after 144 lines = %d, want V-blank (1)", p.Mode())
	}
	if p.LY() != ScreenHeight {
		t.Errorf("LY = %d, want %d", p.LY(), ScreenHeight)
	}
	if irq.Flag&(1<<interrupts.VBlankFlag) == 0 {
		t.Error("VBlank interrupt flag should be set on entering V-blank")
	}
}

func TestFrameWrapsAt154Lines(t *testing.T) {
	p, _ := newTestPPU()
	for line := 0; line < 154; line++ {
		advanceDots(p, lineDots)
	}
	if p.LY() != 0 {
		t.Errorf("LY after 154 lines = %d, want 0 (wrapped)", p.LY())
	}
	if p.Mode() != modeOAMScan {
		t.Errorf("mode after wrap = %d, want OAM scan (2)", p.Mode())
	}
}

func TestLYLYCCoincidenceRaisesSTATInterrupt(t *testing.T) {
	p, irq := newTestPPU()
	p.Write(statRegister, 0x40) // coincidence interrupt enable
	p.Write(lycRegister, 1)

	advanceDots(p, lineDots) // LY -> 1, should now equal LYC
	if irq.Flag&(1<<interrupts.LCDFlag) == 0 {
		t.Error("STAT interrupt should fire on LY==LYC")
	}
	if p.Read(statRegister)&0x04 == 0 {
		t.Error("STAT coincidence bit should be set")
	}
}

func TestDisablingLCDForcesLY0x99(t *testing.T) {
	p, _ := newTestPPU()
	p.Write(lcdcRegister, 0x00) // clear enable bit
	if p.LY() != 0x99 {
		t.Errorf("LY after LCD disable = %#02x, want 0x99", p.LY())
	}
	if p.Mode() != modeVBlank {
		t.Errorf("mode after LCD disable = %d, want V-blank (1)", p.Mode())
	}
}

func TestOAMDMAWriteRecordsForReadback(t *testing.T) {
	p, _ := newTestPPU()
	p.Write(dmaRegister, 0xC1)
	if got := p.Read(dmaRegister); got != 0xC1 {
		t.Errorf("DMA register readback = %#02x, want 0xC1", got)
	}
}

func TestRenderBackgroundSamplesTileMap(t *testing.T) {
	p, _ := newTestPPU()
	p.Write(lcdcRegister, 0x91) // BG on, unsigned tile data, 0x9800 map
	p.Write(bgpRegister, 0xE4) // identity palette: 11 10 01 00

	// tile 1's row 0 is all color index 3 (both bitplanes all-ones).
	p.WriteVRAM(0x8000+16, 0xFF) // tile 1, row 0 low bitplane
	p.WriteVRAM(0x8000+17, 0xFF) // tile 1, row 0 high bitplane
	p.WriteVRAM(0x9800, 1)       // tile map entry (0,0) -> tile 1

	var out [ScreenWidth]uint8
	p.renderBackground(&out)
	if out[0] != 3 {
		t.Errorf("bg pixel (0,0) raw index = %d, want 3", out[0])
	}
}

func TestSpritePriorityLowestXWins(t *testing.T) {
	p, _ := newTestPPU()
	p.Write(lcdcRegister, 0x93) // BG+sprites on, 8x8 sprites
	p.Write(obp0Register, 0xE4)

	// two sprites overlapping the same screen column, OAM index 0 at a
	// higher X than OAM index 1: the lower X should win regardless of
	// OAM order.
	setSprite(p, 0, 16, 16+8, 0, 0) // y=16 (row0 of line0), x=16
	setSprite(p, 1, 16, 16+4, 1, 0) // x=12, closer to the left edge

	// tile 0 all color 1, tile 1 all color 2, so we can tell which won.
	for row := 0; row < 8; row++ {
		p.WriteVRAM(uint16(0x8000+row*2), 0xFF)
		p.WriteVRAM(uint16(0x8000+row*2+1), 0x00) // tile 0 -> index 1
		p.WriteVRAM(uint16(0x8010+row*2), 0x00)
		p.WriteVRAM(uint16(0x8010+row*2+1), 0xFF) // tile 1 -> index 2
	}

	var idx [ScreenWidth]uint8
	var pri [ScreenWidth]bool
	var drawn [ScreenWidth]bool
	p.ly = 0
	p.renderSprites(&idx, &pri, &drawn)

	// both sprites cover screen column 16; sprite 1 has the lower X
	// (20 vs 24) so it must win regardless of OAM order.
	if !drawn[16] || idx[16]&0x03 != 2 {
		t.Errorf("column 16: drawn=%v index=%d, want sprite 1 (tile 1, index 2) to win", drawn[16], idx[16]&0x03)
	}
}

// TestSpriteTileDataIgnoresBGDataSelect covers the unsigned-only
// sprite addressing rule: objects always fetch from 0x8000 even while
// LCDC bit 4 selects the signed 0x9000 base for the background.
func TestSpriteTileDataIgnoresBGDataSelect(t *testing.T) {
	p, _ := newTestPPU()
	p.Write(lcdcRegister, 0x83) // BG+sprites on, signed BG tile data (bit 4 clear)

	setSprite(p, 0, 16, 16, 0, 0) // tile 0, covering line 0 at screen x 8
	p.WriteVRAM(0x8000, 0xFF)     // tile 0 row 0 -> color index 1
	p.WriteVRAM(0x8001, 0x00)
	p.WriteVRAM(0x9000, 0x00) // signed base row 0 left blank
	p.WriteVRAM(0x9001, 0x00)

	var idx [ScreenWidth]uint8
	var pri [ScreenWidth]bool
	var drawn [ScreenWidth]bool
	p.ly = 0
	p.renderSprites(&idx, &pri, &drawn)

	if !drawn[8] || idx[8]&0x03 != 1 {
		t.Errorf("column 8: drawn=%v index=%d, want the sprite fetched unsigned from 0x8000", drawn[8], idx[8]&0x03)
	}
}

func setSprite(p *PPU, oamIndex int, y, x, tile, flags uint8) {
	base := oamIndex * 4
	p.oam[base] = y
	p.oam[base+1] = x
	p.oam[base+2] = tile
	p.oam[base+3] = flags
}
