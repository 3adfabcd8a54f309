// Package timer implements DIV/TIMA/TMA/TAC. It is driven by
// Advance(n), called once per CPU.Step() with the same T-cycle count
// the CPU just retired — the "instruction-retirement cycles" model
// spec.md §2 describes, not the teacher's sub-instruction scheduler
// (that finer granularity is explicitly out of scope, spec.md §1).
package timer

import (
	"fmt"

	"github.com/8bitgo/goboy/internal/interrupts"
)

// periods, indexed by TAC[1:0], in T-cycles per TIMA increment.
var periods = [4]uint16{1024, 16, 64, 256}

const (
	DIVRegister  uint16 = 0xFF04
	TIMARegister uint16 = 0xFF05
	TMARegister  uint16 = 0xFF06
	TACRegister  uint16 = 0xFF07

	tacEnable = 0x04
)

// Controller owns the free-running 16-bit divider and the TIMA/TMA/TAC
// trio.
type Controller struct {
	div  uint16 // internal 16-bit counter; DIV is its high byte
	tima uint8
	tma  uint8
	tac  uint8

	accumulator uint16 // T-cycles accrued toward the next TIMA increment
	irq         *interrupts.Controller
}

func New(irq *interrupts.Controller) *Controller {
	return &Controller{irq: irq}
}

func (t *Controller) enabled() bool { return t.tac&tacEnable != 0 }

// period returns the current TAC-selected period in T-cycles.
func (t *Controller) period() uint16 {
	return periods[t.tac&0x03]
}

// Advance consumes n T-cycles (n is always a multiple of 4): DIV
// always advances; TIMA advances only while TAC's enable bit is set,
// and an overflow (0xFF -> 0x00) reloads TIMA from TMA and raises the
// Timer interrupt, per spec.md §4.5.
func (t *Controller) Advance(n uint8) {
	t.div += uint16(n)

	if !t.enabled() {
		return
	}

	t.accumulator += uint16(n)
	period := t.period()
	for t.accumulator >= period {
		t.accumulator -= period
		t.tima++
		if t.tima == 0 {
			t.tima = t.tma
			t.irq.Request(interrupts.TimerFlag)
		}
	}
}

// Read implements the MMU register-handler contract for DIV, TIMA,
// TMA and TAC.
func (t *Controller) Read(address uint16) uint8 {
	switch address {
	case DIVRegister:
		return uint8(t.div >> 8)
	case TIMARegister:
		return t.tima
	case TMARegister:
		return t.tma
	case TACRegister:
		return t.tac | 0xF8
	}
	panic(fmt.Sprintf("timer: illegal read from address %04X", address))
}

// Write implements the MMU register-handler contract. A write to DIV
// resets the whole internal counter and the TIMA accumulator, so the
// next TIMA increment is a full period away; a write to TAC that changes the selected
// rate resets the accumulator and immediately reloads TIMA from TMA,
// matching the teacher's TAC-write glitch handling.
func (t *Controller) Write(address uint16, value uint8) {
	switch address {
	case DIVRegister:
		t.div = 0
		t.accumulator = 0
	case TIMARegister:
		t.tima = value
	case TMARegister:
		t.tma = value
	case TACRegister:
		if value&0x03 != t.tac&0x03 {
			t.accumulator = 0
			t.tima = t.tma
		}
		t.tac = value & 0x07
	default:
		panic(fmt.Sprintf("timer: illegal write to address %04X", address))
	}
}
