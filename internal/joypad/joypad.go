// Package joypad emulates the P1 input register: four direction
// lines and four action lines, multiplexed onto the low nibble by
// the P14/P15 select bits, per spec.md §6's external input contract.
package joypad

import (
	"fmt"

	"github.com/8bitgo/goboy/internal/interrupts"
	"github.com/8bitgo/goboy/internal/types"
)

// Button is a single line on the physical input, matching the host's
// byte layout [Start|Select|B|A|Down|Up|Left|Right] (Start = bit 7).
type Button = uint8

const (
	ButtonRight Button = 1 << iota
	ButtonLeft
	ButtonUp
	ButtonDown
	ButtonA
	ButtonB
	ButtonSelect
	ButtonStart
)

const register uint16 = 0xFF00

// Controller owns P1 and the button state last reported by the host.
type Controller struct {
	sel     uint8 // bits 4-5 as last written, 0 means that row is selected
	buttons uint8 // current state, Button bits, 1 = pressed
	irq     *interrupts.Controller
}

func New(irq *interrupts.Controller) *Controller {
	return &Controller{sel: 0x30, irq: irq}
}

// SetInputs replaces the host-reported button state, requesting the
// Joypad interrupt on any 0->1 transition of a line in a selected row
// (the real falling-edge-on-P10-P13 behavior).
func (c *Controller) SetInputs(buttons uint8) {
	pressed := buttons &^ c.buttons
	c.buttons = buttons
	if pressed == 0 {
		return
	}
	if c.sel&0x10 == 0 && pressed&0x0F != 0 { // direction row selected
		c.irq.Request(interrupts.JoypadFlag)
		return
	}
	if c.sel&0x20 == 0 && pressed&0xF0 != 0 { // action row selected
		c.irq.Request(interrupts.JoypadFlag)
	}
}

func (c *Controller) directionLine() uint8 {
	var v uint8
	if types.HasBit(c.buttons, types.BitAt(0)) { // Right
		v |= 0x01
	}
	if types.HasBit(c.buttons, types.BitAt(1)) { // Left
		v |= 0x02
	}
	if types.HasBit(c.buttons, types.BitAt(2)) { // Up
		v |= 0x04
	}
	if types.HasBit(c.buttons, types.BitAt(3)) { // Down
		v |= 0x08
	}
	return v
}

func (c *Controller) actionLine() uint8 {
	var v uint8
	if types.HasBit(c.buttons, types.BitAt(4)) { // A
		v |= 0x01
	}
	if types.HasBit(c.buttons, types.BitAt(5)) { // B
		v |= 0x02
	}
	if types.HasBit(c.buttons, types.BitAt(6)) { // Select
		v |= 0x04
	}
	if types.HasBit(c.buttons, types.BitAt(7)) { // Start
		v |= 0x08
	}
	return v
}

// Read implements the MMU register-handler contract for P1. Bits 6-7
// always read 1; the low nibble is the bitwise-OR of every selected
// row, active-low.
func (c *Controller) Read(address uint16) uint8 {
	if address != register {
		panic(fmt.Sprintf("joypad: illegal read from address %04X", address))
	}
	lines := uint8(0x0F)
	if c.sel&0x10 == 0 {
		lines &^= c.directionLine()
	}
	if c.sel&0x20 == 0 {
		lines &^= c.actionLine()
	}
	return 0xC0 | c.sel | lines
}

// Write implements the MMU register-handler contract. Only bits 4-5
// (the row-select bits) are writable; the MMU passes the byte through
// unmasked, and Write keeps only those two bits.
func (c *Controller) Write(address uint16, value uint8) {
	if address != register {
		panic(fmt.Sprintf("joypad: illegal write to address %04X", address))
	}
	c.sel = value & 0x30
}
