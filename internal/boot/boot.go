// Package boot provides the boot ROM overlay for the core. While the
// boot ROM is active, the MMU routes reads of 0x0000-0x00FF here
// instead of to the cartridge; a write to the BOOT register
// (0xFF50) ends the overlay permanently for the rest of the session.
package boot

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
)

// Size is the only boot ROM length this core accepts. CGB/SGB boot
// ROMs (2304 bytes) are out of scope per the core's Non-goals.
const Size = 256

// ROM is a loaded boot image.
type ROM struct {
	raw      [Size]byte
	checksum string
}

// New loads a boot ROM image. It returns an error for any image whose
// length isn't exactly Size bytes.
func New(b []byte) (*ROM, error) {
	if len(b) != Size {
		return nil, fmt.Errorf("boot: invalid boot rom length: %d (want %d)", len(b), Size)
	}
	sum := md5.Sum(b)
	r := &ROM{checksum: hex.EncodeToString(sum[:])}
	copy(r.raw[:], b)
	return r, nil
}

// Read returns the byte at the given address, which must be < Size.
func (r *ROM) Read(addr uint16) uint8 {
	return r.raw[addr]
}

// Checksum returns the MD5 checksum of the loaded boot ROM, or "" for
// a nil *ROM (no boot ROM configured).
func (r *ROM) Checksum() string {
	if r == nil {
		return ""
	}
	return r.checksum
}

// Model identifies a well-known DMG-family boot ROM by checksum, for
// diagnostics only; an unrecognized (but correctly sized) image is
// still loaded and used.
func (r *ROM) Model() string {
	if r == nil {
		return "none"
	}
	if model, ok := knownChecksums[r.checksum]; ok {
		return model
	}
	return "unknown"
}

const (
	// DMG0 is the checksum of the early DMG boot ROM, sold only in
	// Japan, which flashes the screen on a boot failure instead of
	// hanging after the logo.
	DMG0 = "a8f84a0ac44da5d3f0ee19f9cea80a8c"
	// DMG is the checksum of the common DMG-01 boot ROM.
	DMG = "32fbbd84168d3482956eb3c5051637f5"
	// MGB is the checksum of the Game Boy Pocket boot ROM, which
	// differs from DMG by loading 0xFF into A instead of 0x01 so
	// games can detect MGB hardware.
	MGB = "71a378e71ff30b2d8a1f02bf5c7896aa"
)

var knownChecksums = map[string]string{
	DMG0: "Game Boy (DMG-0)",
	DMG:  "Game Boy (DMG-01)",
	MGB:  "Game Boy Pocket",
}
