// Package cpu implements the 8-bit instruction interpreter: the
// primary and CB-prefixed opcode tables, the flag-producing ALU,
// HALT (including the HALT bug), and the interrupt-acknowledgement
// sequence described by spec.md §4.3. Step() executes exactly one
// instruction plus any interrupt service and returns the number of
// T-cycles consumed, always a multiple of 4 — the caller (the
// top-level scheduler) feeds that count to the timer and PPU itself;
// the CPU never ticks a peripheral directly.
package cpu

import (
	"fmt"

	"github.com/8bitgo/goboy/internal/interrupts"
)

// Bus is the address-space the CPU fetches instructions from and
// reads/writes operands to. internal/mmu.MMU satisfies this; the
// interface lives here (rather than the CPU importing mmu directly)
// so the two packages don't need to know about each other's types,
// keeping the dependency graph acyclic.
type Bus interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// Register is an 8-bit CPU register.
type Register = uint8

// RegisterPair is a 16-bit view over two 8-bit registers, high byte
// first (B:C, D:E, H:L, A:F).
type RegisterPair struct {
	High, Low *Register
}

func (r *RegisterPair) Uint16() uint16 {
	return uint16(*r.High)<<8 | uint16(*r.Low)
}

func (r *RegisterPair) SetUint16(v uint16) {
	*r.High = uint8(v >> 8)
	*r.Low = uint8(v)
}

// CPU is the SM83-family instruction interpreter.
type CPU struct {
	A, F, B, C, D, E, H, L Register
	BC, DE, HL, AF         *RegisterPair
	SP, PC                 uint16

	IME        bool // interrupts master enable
	imePending bool // EI fired one instruction ago, not yet promoted
	halted     bool
	haltBug    bool // the byte after HALT must be fetched without PC advancing

	bus    Bus
	irq    *interrupts.Controller
	cycles uint8
}

// New constructs a CPU over bus. If bootActive is false the registers
// are initialized to the values the DMG boot ROM leaves behind
// (A=0x01 F=0xB0 B=0x00 C=0x13 D=0x00 E=0xD8 H=0x01 L=0x4D, PC=0x0100,
// SP=0xFFFE), skipping straight to cartridge entry; if true, every
// register starts zeroed and PC starts at 0x0000, letting the boot
// ROM perform its own initialization.
func New(bus Bus, irq *interrupts.Controller, bootActive bool) *CPU {
	c := &CPU{bus: bus, irq: irq}
	c.BC = &RegisterPair{&c.B, &c.C}
	c.DE = &RegisterPair{&c.D, &c.E}
	c.HL = &RegisterPair{&c.H, &c.L}
	c.AF = &RegisterPair{&c.A, &c.F}

	if bootActive {
		c.PC = 0x0000
		c.SP = 0x0000
	} else {
		c.A, c.F = 0x01, 0xB0
		c.B, c.C = 0x00, 0x13
		c.D, c.E = 0x00, 0xD8
		c.H, c.L = 0x01, 0x4D
		c.PC = 0x0100
		c.SP = 0xFFFE
	}
	return c
}

// IllegalOpcodeError reports that PC landed on one of the 11 opcode
// bytes the hardware never decodes to anything (spec.md §7).
type IllegalOpcodeError struct {
	Opcode uint8
	PC     uint16
}

func (e *IllegalOpcodeError) Error() string {
	return fmt.Sprintf("cpu: illegal opcode %02X at %04X", e.Opcode, e.PC)
}

// fetch reads the byte at PC, advances PC (unless a HALT-bug fetch is
// in flight), and charges one machine cycle.
func (c *CPU) fetch() uint8 {
	v := c.bus.Read(c.PC)
	c.cycles += 4
	if c.haltBug {
		c.haltBug = false
		return v
	}
	c.PC++
	return v
}

func (c *CPU) readByte(addr uint16) uint8 {
	c.cycles += 4
	return c.bus.Read(addr)
}

func (c *CPU) writeByte(addr uint16, v uint8) {
	c.cycles += 4
	c.bus.Write(addr, v)
}

// delay charges one internal machine cycle with no bus access (used
// by 16-bit ALU ops and taken branches).
func (c *CPU) delay() { c.cycles += 4 }

// Step executes one instruction (or, while halted, one idle cycle)
// plus any pending interrupt service, and returns the T-cycles spent.
func (c *CPU) Step() (uint8, error) {
	c.cycles = 0

	if c.imePending {
		c.IME = true
		c.imePending = false
	}

	var err error
	if c.halted {
		c.delay()
		if c.irq.Pending() {
			c.halted = false
		}
	} else {
		opcode := c.fetch()
		err = c.execute(opcode)
	}

	if err == nil && c.IME && c.irq.Pending() {
		c.serviceInterrupt()
	}

	return c.cycles, err
}

// serviceInterrupt clears IME, clears the single highest-priority
// pending bit, pushes PC and jumps to the vector, charging a flat 20
// T-cycles (spec.md §4.3 step 3).
func (c *CPU) serviceInterrupt() {
	flag, ok := c.irq.NextFlag()
	if !ok {
		return
	}
	c.IME = false
	c.irq.Clear(flag)

	c.SP--
	c.bus.Write(c.SP, uint8(c.PC>>8))
	c.SP--
	c.bus.Write(c.SP, uint8(c.PC&0xFF))
	c.PC = interrupts.VectorFor(flag)
	c.cycles += 20
}

// halt implements the HALT opcode's three-way branch (spec.md §4.3).
func (c *CPU) halt() {
	switch {
	case c.irq.Pending() && !c.IME:
		c.haltBug = true
	default:
		c.halted = true
	}
}
