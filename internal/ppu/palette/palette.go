// Package palette maps the PPU's 2-bit decoded shade (0..3) to an RGB
// triple for a host Display sink, grounded on the teacher's
// internal/ppu/palette package minus its CGB (per-color, 15-bit BGR)
// path, which is out of scope for this DMG-only core.
package palette

const (
	Greyscale = iota
	Green
	Red
	Yellow
)

// Palette is a table of 4 RGB colors, one per decoded shade.
type Palette struct {
	Colors [4][3]uint8
}

// Named holds the built-in palettes, indexed by the constants above.
var Named = []Palette{
	Greyscale: {Colors: [4][3]uint8{
		{0xFF, 0xFF, 0xFF},
		{0xCC, 0xCC, 0xCC},
		{0x77, 0x77, 0x77},
		{0x00, 0x00, 0x00},
	}},
	Green: {Colors: [4][3]uint8{
		{0x9B, 0xBC, 0x0F},
		{0x8B, 0xAC, 0x0F},
		{0x30, 0x62, 0x30},
		{0x0F, 0x38, 0x0F},
	}},
	Red: {Colors: [4][3]uint8{
		{0xFF, 0x00, 0x00},
		{0xCC, 0x00, 0x00},
		{0x77, 0x00, 0x00},
		{0x00, 0x00, 0x00},
	}},
	Yellow: {Colors: [4][3]uint8{
		{0xFF, 0xFF, 0x00},
		{0xCC, 0xCC, 0x00},
		{0x77, 0x77, 0x00},
		{0x00, 0x00, 0x00},
	}},
}

// ColorFor returns shade's RGB triple under p. shade must be 0..3; the
// core never produces anything outside that range.
func (p Palette) ColorFor(shade uint8) [3]uint8 {
	return p.Colors[shade&0x03]
}
