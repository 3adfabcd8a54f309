// Package ppu implements the scanline-based pixel processing unit
// described by spec.md §4.6: the four-mode LCD state machine (OAM
// scan, pixel transfer, H-blank, V-blank), background+window+sprite
// compositing, and OAM DMA's read-side storage. It is a peer of the
// CPU, driven by the same top-level scheduler that drives CPU.Step
// and Timer.Advance, sharing only the interrupt controller and (via
// the MMU) the address space.
//
// Grounded on the teacher's internal/ppu package (ppu.go, lcd/
// controller.go, lcd/status.go, sprite.go, tile.go, renderer.go),
// stripped of CGB tile-bank/palette-RAM support, HDMA, and the
// per-dot pixel-FIFO renderer in favor of the simpler per-scanline
// renderer spec.md §4.6 describes as equivalent.
package ppu

import (
	"github.com/8bitgo/goboy/internal/interrupts"
	"github.com/8bitgo/goboy/internal/ppu/palette"
)

const (
	ScreenWidth  = 160
	ScreenHeight = 144

	lcdcRegister = 0xFF40
	statRegister = 0xFF41
	scyRegister  = 0xFF42
	scxRegister  = 0xFF43
	lyRegister   = 0xFF44
	lycRegister  = 0xFF45
	dmaRegister  = 0xFF46
	bgpRegister  = 0xFF47
	obp0Register = 0xFF48
	obp1Register = 0xFF49
	wyRegister   = 0xFF4A
	wxRegister   = 0xFF4B

	// Mode is the current value of STAT bits 0-1.
	modeHBlank  = 0
	modeVBlank  = 1
	modeOAMScan = 2
	modePixel   = 3

	oamScanDots  = 80
	pixelXferEnd = oamScanDots + 172 // 252
	lineDots     = pixelXferEnd + 204 // 456
)

// Display is the host sink a completed scanline is handed to. DrawLine
// receives the 160 final (post-palette) 2-bit shades for one line;
// Present is called once per frame, when the PPU enters V-blank.
type Display interface {
	DrawLine(line int, pixels [ScreenWidth]uint8)
	Present()
}

// nullDisplay discards everything; used when the caller doesn't wire
// a real sink (e.g. headless CPU-only test harnesses).
type nullDisplay struct{}

func (nullDisplay) DrawLine(int, [ScreenWidth]uint8) {}
func (nullDisplay) Present()                         {}

// lcdc is the decoded LCD Control register (0xFF40).
type lcdc struct {
	enabled           bool
	windowTileMap     uint16 // 0x9800 or 0x9C00
	windowEnabled     bool
	tileData          uint16 // 0x8000 (unsigned) or 0x9000 (signed base)
	bgTileMap         uint16 // 0x9800 or 0x9C00
	spriteHeight      uint8  // 8 or 16
	spriteEnabled     bool
	backgroundEnabled bool
}

func (l *lcdc) set(v uint8) {
	l.enabled = v&0x80 != 0
	if v&0x40 != 0 {
		l.windowTileMap = 0x9C00
	} else {
		l.windowTileMap = 0x9800
	}
	l.windowEnabled = v&0x20 != 0
	if v&0x10 != 0 {
		l.tileData = 0x8000
	} else {
		l.tileData = 0x9000
	}
	if v&0x08 != 0 {
		l.bgTileMap = 0x9C00
	} else {
		l.bgTileMap = 0x9800
	}
	if v&0x04 != 0 {
		l.spriteHeight = 16
	} else {
		l.spriteHeight = 8
	}
	l.spriteEnabled = v&0x02 != 0
	l.backgroundEnabled = v&0x01 != 0
}

func (l *lcdc) get() uint8 {
	var v uint8
	if l.enabled {
		v |= 0x80
	}
	if l.windowTileMap == 0x9C00 {
		v |= 0x40
	}
	if l.windowEnabled {
		v |= 0x20
	}
	if l.tileData == 0x8000 {
		v |= 0x10
	}
	if l.bgTileMap == 0x9C00 {
		v |= 0x08
	}
	if l.spriteHeight == 16 {
		v |= 0x04
	}
	if l.spriteEnabled {
		v |= 0x02
	}
	if l.backgroundEnabled {
		v |= 0x01
	}
	return v
}

// stat is the decoded LCD Status register (0xFF41), minus the
// always-1 bit 7 the MMU's read-masking table applies centrally.
type stat struct {
	coincidenceIE bool
	mode2IE       bool
	mode1IE       bool
	mode0IE       bool
	coincidence   bool
	mode          uint8
}

func (s *stat) set(v uint8) {
	s.coincidenceIE = v&0x40 != 0
	s.mode2IE = v&0x20 != 0
	s.mode1IE = v&0x10 != 0
	s.mode0IE = v&0x08 != 0
}

func (s *stat) get() uint8 {
	v := s.mode & 0x03
	if s.coincidence {
		v |= 0x04
	}
	if s.mode0IE {
		v |= 0x08
	}
	if s.mode1IE {
		v |= 0x10
	}
	if s.mode2IE {
		v |= 0x20
	}
	if s.coincidenceIE {
		v |= 0x40
	}
	return v
}

// PPU owns VRAM, OAM, the LCD registers and the per-scanline
// compositor.
type PPU struct {
	vram [0x2000]uint8
	oam  [0xA0]uint8

	lcdc lcdc
	stat stat

	scy, scx uint8
	ly, lyc  uint8
	bgp      uint8
	obp0     uint8
	obp1     uint8
	wy, wx   uint8
	lastDMA  uint8

	dot uint16

	irq     *interrupts.Controller
	display Display
	Palette palette.Palette

	line [ScreenWidth]uint8
}

// New constructs a PPU with the DMG power-on register values and a
// null Display; callers substitute a real Display with SetDisplay.
func New(irq *interrupts.Controller) *PPU {
	p := &PPU{irq: irq, display: nullDisplay{}, Palette: palette.Named[palette.Greyscale]}
	p.lcdc.set(0x91)
	p.stat.mode = modeOAMScan
	p.bgp = 0xFC
	return p
}

// SetDisplay wires the host sink completed scanlines and frames are
// delivered to.
func (p *PPU) SetDisplay(d Display) {
	if d == nil {
		d = nullDisplay{}
	}
	p.display = d
}

// LY returns the current scanline, for diagnostics/tests.
func (p *PPU) LY() uint8 { return p.ly }

// Mode returns the current STAT mode (0-3), for diagnostics/tests.
func (p *PPU) Mode() uint8 { return p.stat.mode }

// ReadVRAM and WriteVRAM serve the 0x8000-0x9FFF coarse MMU slot.
func (p *PPU) ReadVRAM(address uint16) uint8 {
	return p.vram[address-0x8000]
}

func (p *PPU) WriteVRAM(address uint16, value uint8) {
	p.vram[address-0x8000] = value
}

// Read implements the MMU handler contract for VRAM (0x8000-0x9FFF),
// OAM (0xFE00-0xFE9F) and the LCD registers (0xFF40-0xFF4B).
func (p *PPU) Read(address uint16) uint8 {
	switch {
	case address >= 0x8000 && address <= 0x9FFF:
		return p.ReadVRAM(address)
	case address >= 0xFE00 && address <= 0xFE9F:
		return p.oam[address-0xFE00]
	case address == lcdcRegister:
		return p.lcdc.get()
	case address == statRegister:
		return p.stat.get()
	case address == scyRegister:
		return p.scy
	case address == scxRegister:
		return p.scx
	case address == lyRegister:
		return p.ly
	case address == lycRegister:
		return p.lyc
	case address == dmaRegister:
		return p.lastDMA
	case address == bgpRegister:
		return p.bgp
	case address == obp0Register:
		return p.obp0
	case address == obp1Register:
		return p.obp1
	case address == wyRegister:
		return p.wy
	case address == wxRegister:
		return p.wx
	}
	return 0xFF
}

// Write implements the MMU register-handler contract. The DMA
// register's actual transfer is performed by the MMU (spec.md §4.1);
// a write here only records the source byte for later readback.
func (p *PPU) Write(address uint16, value uint8) {
	switch {
	case address >= 0x8000 && address <= 0x9FFF:
		p.WriteVRAM(address, value)
	case address >= 0xFE00 && address <= 0xFE9F:
		p.oam[address-0xFE00] = value
	case address == lcdcRegister:
		wasEnabled := p.lcdc.enabled
		p.lcdc.set(value)
		if wasEnabled && !p.lcdc.enabled {
			p.disable()
		} else if !wasEnabled && p.lcdc.enabled {
			p.enable()
		}
	case address == statRegister:
		p.stat.set(value)
	case address == scyRegister:
		p.scy = value
	case address == scxRegister:
		p.scx = value
	case address == lyRegister:
		p.ly = 0
		p.dot = 0
	case address == lycRegister:
		p.lyc = value
		p.updateCoincidence()
	case address == dmaRegister:
		p.lastDMA = value
	case address == bgpRegister:
		p.bgp = value
	case address == obp0Register:
		p.obp0 = value
	case address == obp1Register:
		p.obp1 = value
	case address == wyRegister:
		p.wy = value
	case address == wxRegister:
		p.wx = value
	}
}

// disable implements spec.md §4.6's "disabling the LCD resets the
// scanline counter, forces LY to 0x99 and mode to 1" rule.
func (p *PPU) disable() {
	p.dot = 0
	p.ly = 0x99
	p.stat.mode = modeVBlank
	p.updateCoincidence()
}

func (p *PPU) enable() {
	p.dot = 0
	p.ly = 0
	p.stat.mode = modeOAMScan
	p.updateCoincidence()
}

func (p *PPU) updateCoincidence() {
	wasEqual := p.stat.coincidence
	p.stat.coincidence = p.ly == p.lyc
	if !wasEqual && p.stat.coincidence && p.stat.coincidenceIE {
		p.irq.Request(interrupts.LCDFlag)
	}
}

// Advance consumes n T-cycles (n is always a multiple of 4), stepping
// the mode FSM across as many boundaries as n spans.
func (p *PPU) Advance(n uint8) {
	if !p.lcdc.enabled {
		return
	}
	remaining := int(n)
	for remaining > 0 {
		boundary := p.nextBoundary()
		step := boundary - int(p.dot)
		if step > remaining {
			step = remaining
		}
		p.dot += uint16(step)
		remaining -= step
		if int(p.dot) >= boundary {
			p.crossBoundary()
		}
	}
}

// nextBoundary returns the dot value at which the current mode ends.
func (p *PPU) nextBoundary() int {
	if p.ly >= ScreenHeight {
		return lineDots // V-blank: one mode spans the whole line
	}
	switch p.stat.mode {
	case modeOAMScan:
		return oamScanDots
	case modePixel:
		return pixelXferEnd
	default: // modeHBlank
		return lineDots
	}
}

// crossBoundary performs the state transition at the end of the
// current mode, raising whichever interrupts the transition enables.
func (p *PPU) crossBoundary() {
	if p.ly < ScreenHeight {
		switch p.stat.mode {
		case modeOAMScan:
			p.stat.mode = modePixel
			return
		case modePixel:
			p.stat.mode = modeHBlank
			p.renderLine()
			if p.stat.mode0IE {
				p.irq.Request(interrupts.LCDFlag)
			}
			return
		default: // modeHBlank -> next line
			p.endLine()
			return
		}
	}
	// V-blank line finished.
	p.endLine()
}

// endLine advances LY (wrapping 153->0) and sets the mode for the new
// line, per spec.md §4.6's transition table.
func (p *PPU) endLine() {
	p.dot = 0
	p.ly++
	switch {
	case p.ly == ScreenHeight:
		p.stat.mode = modeVBlank
		p.irq.Request(interrupts.VBlankFlag)
		if p.stat.mode1IE {
			p.irq.Request(interrupts.LCDFlag)
		}
		p.display.Present()
	case p.ly > 153:
		p.ly = 0
		p.stat.mode = modeOAMScan
		if p.stat.mode2IE {
			p.irq.Request(interrupts.LCDFlag)
		}
	case p.ly < ScreenHeight:
		p.stat.mode = modeOAMScan
		if p.stat.mode2IE {
			p.irq.Request(interrupts.LCDFlag)
		}
	}
	p.updateCoincidence()
}
