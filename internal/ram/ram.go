// Package ram provides a basic flat RAM block, used for work RAM and
// high RAM. It is a plain byte slice rather than the teacher's
// map[uint16]uint8 — a Game Boy RAM block is always small (at most 8
// KiB) and fully populated immediately, so a slice is both simpler
// and avoids a map lookup on every read.
package ram

import "fmt"

// RAM is a fixed-size, addressable block of bytes.
type RAM interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
	Size() int
}

type Ram struct {
	data []uint8
}

// NewRAM returns a new RAM block of the given size, zeroed.
func NewRAM(size uint32) *Ram {
	return &Ram{data: make([]uint8, size)}
}

func (r *Ram) Size() int { return len(r.data) }

// Read returns the value at the given address, relative to the start
// of this block.
func (r *Ram) Read(address uint16) uint8 {
	if int(address) >= len(r.data) {
		panic(fmt.Sprintf("ram: address out of bounds: %04X (size %d)", address, len(r.data)))
	}
	return r.data[address]
}

// Write writes the value to the given address, relative to the start
// of this block.
func (r *Ram) Write(address uint16, value uint8) {
	if int(address) >= len(r.data) {
		panic(fmt.Sprintf("ram: address out of bounds: %04X (size %d)", address, len(r.data)))
	}
	r.data[address] = value
}

var _ RAM = (*Ram)(nil)
