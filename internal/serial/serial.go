// Package serial models SB/SC as plain storage. The serial link
// itself — actually shifting bits to a second machine — is out of
// scope (spec.md §1's Non-goals); the registers still occupy the
// address map and round-trip whatever a game stores in them.
package serial

import "fmt"

const (
	dataRegister    uint16 = 0xFF01 // SB
	controlRegister uint16 = 0xFF02 // SC
)

// Controller owns SB and SC without ever performing a transfer.
type Controller struct {
	data    uint8
	control uint8
}

func New() *Controller {
	return &Controller{control: 0x7E}
}

func (c *Controller) Read(address uint16) uint8 {
	switch address {
	case dataRegister:
		return c.data
	case controlRegister:
		return c.control | 0x7E
	}
	panic(fmt.Sprintf("serial: illegal read from address %04X", address))
}

func (c *Controller) Write(address uint16, value uint8) {
	switch address {
	case dataRegister:
		c.data = value
	case controlRegister:
		c.control = value
	default:
		panic(fmt.Sprintf("serial: illegal write to address %04X", address))
	}
}
