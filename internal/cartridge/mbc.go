// Package cartridge implements the cartridge memory-bank-controller
// family described by spec.md §4.2: no-MBC (plain ROM), MBC1 and
// MBC3. The Cartridge type dispatches ROM-space and external-RAM-space
// reads/writes to whichever MemoryBankController the header selected.
package cartridge

import "fmt"

// MemoryBankController handles cart-space (0x0000-0x7FFF) and
// external-RAM-space (0xA000-0xBFFF) reads/writes. Every MBC family
// below implements this fixed two-method surface, per spec.md §9's
// "sum type / fixed method set" design note.
type MemoryBankController interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
	// RAM returns the current contents of external RAM, for save
	// persistence; nil if the cartridge has none.
	RAM() []byte
	// LoadRAM restores previously persisted external RAM contents.
	LoadRAM(data []byte)
}

// Cartridge owns the ROM image, the header parsed from it, and the
// selected MemoryBankController.
type Cartridge struct {
	MemoryBankController
	header Header
}

// New parses header and cart-type from rom and constructs the
// appropriate MemoryBankController. It returns an error for any
// cartridge type outside {ROM, MBC1, MBC1+RAM, MBC1+RAM+BATTERY,
// MBC3+RAM+BATTERY} — spec.md §6: "Other types fail cartridge load."
func New(rom []byte) (*Cartridge, error) {
	if len(rom) < 0x150 {
		return nil, fmt.Errorf("cartridge: rom too small: %d bytes", len(rom))
	}
	header, err := parseHeader(rom[0x100:0x150])
	if err != nil {
		return nil, err
	}
	if !header.Supported() {
		return nil, fmt.Errorf("cartridge: unsupported cartridge type %s", header.CartridgeType)
	}

	cart := &Cartridge{header: header}
	switch header.CartridgeType {
	case ROM:
		cart.MemoryBankController = newNoMBC(rom)
	case MBC1, MBC1RAM, MBC1RAMBATT:
		cart.MemoryBankController = newMBC1(rom, header.RAMSize)
	case MBC3RAMBATT:
		cart.MemoryBankController = newMBC3(rom, header.RAMSize)
	}
	return cart, nil
}

func (c *Cartridge) Header() Header { return c.header }
func (c *Cartridge) Title() string  { return c.header.Title }

// HasBattery reports whether this cartridge's external RAM should be
// persisted across sessions.
func (c *Cartridge) HasBattery() bool {
	switch c.header.CartridgeType {
	case MBC1RAMBATT, MBC3RAMBATT:
		return true
	}
	return false
}
