// Package mmu implements the 64 KiB address-space router described by
// spec.md §4.1: four coarse slots below 0xFE00, and a 512-entry
// handler page table above it. It owns work RAM and high RAM
// directly and holds onto the cartridge, PPU, timer, interrupt
// controller, joypad, serial and APU register window as the
// handlers for their respective ranges.
package mmu

import (
	"github.com/8bitgo/goboy/internal/boot"
	"github.com/8bitgo/goboy/internal/cartridge"
	"github.com/8bitgo/goboy/internal/ram"
	"github.com/8bitgo/goboy/pkg/log"
)

// handler is the register-dispatch contract: every component that
// claims a slice of the high-memory window implements this, and is
// pinned over its address range with RegisterHandler.
type handler interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// highWindowBase is the first address the page table covers; the
// table itself is 512 entries, one per byte of 0xFE00-0xFFFF.
const highWindowBase = 0xFE00
const highWindowSize = 0x10000 - highWindowBase

// MMU is the 64 KiB address-space router.
type MMU struct {
	Cart *cartridge.Cartridge
	ppu  handler // VRAM, OAM, LCD registers

	wram *ram.Ram // 8 KiB, 0xC000-0xDFFF, no CGB bank switching
	hram *ram.Ram // 127 bytes, 0xFF80-0xFFFE

	handlers [highWindowSize]handler
	fallback [highWindowSize]uint8 // backs OAM-shadow/unclaimed high memory

	boot     *boot.ROM
	bootDone bool

	Log log.Logger
}

// New constructs an MMU over the given cartridge. Peripherals are
// wired in afterward with RegisterHandler and AttachPPU — the MMU
// doesn't know their concrete types, only that they satisfy handler.
func New(cart *cartridge.Cartridge, bootROM *boot.ROM) *MMU {
	return &MMU{
		Cart:     cart,
		wram:     ram.NewRAM(0x2000),
		hram:     ram.NewRAM(0x7F),
		boot:     bootROM,
		bootDone: bootROM == nil,
		Log:      log.New(),
	}
}

// AttachPPU wires the PPU as the handler for VRAM, OAM and the LCD
// registers. It's separate from RegisterHandler because the PPU also
// claims the VRAM coarse slot, which the page table doesn't cover.
func (m *MMU) AttachPPU(ppu handler) {
	m.ppu = ppu
	m.RegisterHandler(ppu, 0xFE00, 0xFE9F)
	m.RegisterHandler(ppu, 0xFF40, 0xFF4B)
}

// RegisterHandler pins h over every address in [start, end] of the
// high window (0xFE00-0xFFFF). Registration is idempotent: the last
// call for a given address wins.
func (m *MMU) RegisterHandler(h handler, start, end uint16) {
	for addr := uint32(start); addr <= uint32(end); addr++ {
		m.handlers[uint16(addr)-highWindowBase] = h
	}
}

// readMask applies spec.md §4.1's read-masking table over whatever
// raw byte the owning handler (or the internal fallback store)
// produced.
func readMask(address uint16, raw uint8) uint8 {
	switch {
	case address >= 0xFEA0 && address <= 0xFEFF:
		return 0x00
	case address == 0xFF03 || (address >= 0xFF08 && address <= 0xFF0E):
		return 0xFF
	case address == 0xFF11 || address == 0xFF16 || address == 0xFF1A:
		return raw&0xC0 | 0x3F
	case address == 0xFF14 || address == 0xFF19 || address == 0xFF1E || address == 0xFF23:
		return raw&0x40 | 0xBF
	case address == 0xFF1C:
		return raw&0x60 | 0x9F
	case address == 0xFF41:
		return raw | 0x80
	}
	return raw
}

// Read dispatches a single 16-bit address to its coarse slot, per
// spec.md §4.1.
func (m *MMU) Read(address uint16) uint8 {
	switch {
	case address < 0x8000: // ROM
		if !m.bootDone && address < boot.Size {
			return m.boot.Read(address)
		}
		return m.Cart.Read(address)
	case address < 0xA000: // VRAM
		return m.ppu.Read(address)
	case address < 0xC000: // External RAM
		return m.Cart.Read(address)
	case address < 0xE000: // WRAM
		return m.wram.Read(address - 0xC000)
	case address < 0xFE00: // echo RAM
		return m.Read(address - 0x2000)
	case address >= 0xFF80 && address <= 0xFFFE: // HRAM
		return m.hram.Read(address - 0xFF80)
	default: // high window: registered handler or internal fallback
		idx := address - highWindowBase
		var raw uint8
		if h := m.handlers[idx]; h != nil {
			raw = h.Read(address)
		} else {
			raw = m.fallback[idx]
		}
		return readMask(address, raw)
	}
}

// Write dispatches a single 16-bit address/value pair to its coarse
// slot, applying the write-masking rules of spec.md §4.1 that are
// MMU-level rather than component-level (OAM DMA, the unusable
// region's discard, and the boot-overlay latch).
func (m *MMU) Write(address uint16, value uint8) {
	switch {
	case address < 0x8000: // ROM (bank-select writes)
		m.Cart.Write(address, value)
	case address < 0xA000: // VRAM
		m.ppu.Write(address, value)
	case address < 0xC000: // External RAM
		m.Cart.Write(address, value)
	case address < 0xE000: // WRAM
		m.wram.Write(address-0xC000, value)
	case address < 0xFE00: // echo RAM
		m.Write(address-0x2000, value)
	case address >= 0xFEA0 && address <= 0xFEFF: // unusable, discard
		return
	case address == 0xFF46: // OAM DMA trigger, not storage
		m.ppu.Write(address, value) // record for readback
		m.runOAMDMA(value)
	case address == 0xFF50: // boot-done latch
		if !m.bootDone {
			m.Log.Debugf("mmu: boot rom handed off to cartridge")
		}
		m.bootDone = true
	case address >= 0xFF80 && address <= 0xFFFE: // HRAM
		m.hram.Write(address-0xFF80, value)
	default:
		idx := address - highWindowBase
		if h := m.handlers[idx]; h != nil {
			h.Write(address, value)
			return
		}
		m.fallback[idx] = value
	}
}

// runOAMDMA copies 160 bytes from source*0x100 to OAM. The MMU itself
// never stores the byte written to 0xFF46; Write hands it to the PPU
// only so the DMA register reads back the last source written.
func (m *MMU) runOAMDMA(source uint8) {
	base := uint16(source) * 0x100
	for i := uint16(0); i < 0xA0; i++ {
		m.Write(0xFE00+i, m.Read(base+i))
	}
}
