package cpu

import (
	"testing"

	"github.com/8bitgo/goboy/internal/interrupts"
)

// fakeBus is a flat 64 KiB array, enough to drive the CPU in
// isolation without pulling in the MMU's dispatch rules.
type fakeBus struct {
	mem [0x10000]uint8
}

func (b *fakeBus) Read(addr uint16) uint8       { return b.mem[addr] }
func (b *fakeBus) Write(addr uint16, v uint8)   { b.mem[addr] = v }
func (b *fakeBus) load(addr uint16, program ...uint8) {
	copy(b.mem[addr:], program)
}

func newTestCPU() (*CPU, *fakeBus, *interrupts.Controller) {
	bus := &fakeBus{}
	irq := interrupts.New()
	c := New(bus, irq, false)
	c.PC = 0x0100
	c.SP = 0xFFFE
	return c, bus, irq
}

func step(t *testing.T, c *CPU) uint8 {
	t.Helper()
	cycles, err := c.Step()
	if err != nil {
		t.Fatalf("unexpected step error: %v", err)
	}
	return cycles
}

func TestPushPopRoundTrip(t *testing.T) {
	c, bus, _ := newTestCPU()
	c.B, c.C = 0xBE, 0xEF
	bus.load(c.PC, 0xC5 /* PUSH BC */, 0x01, 0x00, 0x00 /* LD BC,d16 */, 0xD1 /* POP DE */)

	if cycles := step(t, c); cycles != 16 {
		t.Errorf("PUSH BC: got %d cycles, want 16", cycles)
	}
	step(t, c) // LD BC,0x0000 clobbers BC
	if c.BC.Uint16() != 0 {
		t.Fatalf("setup failed: BC = %#04x", c.BC.Uint16())
	}
	if cycles := step(t, c); cycles != 12 {
		t.Errorf("POP DE: got %d cycles, want 12", cycles)
	}
	if got := c.DE.Uint16(); got != 0xBEEF {
		t.Errorf("POP DE round-trip: got %#04x, want 0xBEEF", got)
	}
}

func TestConditionalCallTaken(t *testing.T) {
	c, bus, _ := newTestCPU()
	c.setFlag(flagZ, true)
	bus.load(c.PC, 0xCC, 0x34, 0x12) // CALL Z,0x1234
	cycles := step(t, c)
	if cycles != 24 {
		t.Errorf("CALL Z (taken): got %d cycles, want 24", cycles)
	}
	if c.PC != 0x1234 {
		t.Errorf("CALL Z (taken): PC = %#04x, want 0x1234", c.PC)
	}
	if lo, hi := bus.Read(c.SP), bus.Read(c.SP+1); uint16(hi)<<8|uint16(lo) != 0x0103 {
		t.Errorf("CALL Z pushed return address %#04x, want 0x0103", uint16(hi)<<8|uint16(lo))
	}
}

func TestConditionalCallNotTaken(t *testing.T) {
	c, bus, _ := newTestCPU()
	c.setFlag(flagZ, false)
	bus.load(c.PC, 0xCC, 0x34, 0x12) // CALL Z,0x1234
	cycles := step(t, c)
	if cycles != 12 {
		t.Errorf("CALL Z (not taken): got %d cycles, want 12", cycles)
	}
	if c.PC != 0x0103 {
		t.Errorf("CALL Z (not taken): PC = %#04x, want 0x0103", c.PC)
	}
}

func TestRST(t *testing.T) {
	c, bus, _ := newTestCPU()
	bus.load(c.PC, 0xEF) // RST 28H
	cycles := step(t, c)
	if cycles != 16 {
		t.Errorf("RST: got %d cycles, want 16", cycles)
	}
	if c.PC != 0x0028 {
		t.Errorf("RST: PC = %#04x, want 0x0028", c.PC)
	}
}

func TestCBSetOnIndirectHL(t *testing.T) {
	c, bus, _ := newTestCPU()
	c.HL.SetUint16(0xC000)
	bus.mem[0xC000] = 0x00
	bus.load(c.PC, 0xCB, 0xDE) // SET 3,(HL)
	cycles := step(t, c)
	if cycles != 16 {
		t.Errorf("SET 3,(HL): got %d cycles, want 16", cycles)
	}
	if bus.mem[0xC000] != 0x08 {
		t.Errorf("SET 3,(HL): mem[HL] = %#02x, want 0x08", bus.mem[0xC000])
	}
}

func TestInterruptServiceChargesTwentyCycles(t *testing.T) {
	c, bus, irq := newTestCPU()
	c.IME = true
	irq.Enable = 1 << interrupts.VBlankFlag
	irq.Request(interrupts.VBlankFlag)
	bus.load(c.PC, 0x00) // NOP, then interrupt service follows

	cycles := step(t, c)
	if cycles != 24 { // 4 for the NOP + 20 for interrupt dispatch
		t.Errorf("got %d cycles, want 24", cycles)
	}
	if c.PC != 0x0040 {
		t.Errorf("PC = %#04x, want vector 0x0040", c.PC)
	}
	if c.IME {
		t.Error("IME should be cleared after dispatch")
	}
	if irq.Flag&(1<<interrupts.VBlankFlag) != 0 {
		t.Error("VBlank IF bit should be cleared after dispatch")
	}
}

func TestEIDelaysOneInstruction(t *testing.T) {
	c, bus, irq := newTestCPU()
	irq.Enable = 1 << interrupts.VBlankFlag
	irq.Request(interrupts.VBlankFlag)
	bus.load(c.PC, 0xFB, 0x00, 0x00) // EI; NOP; NOP

	step(t, c) // EI: IME not yet active, no service this step
	if c.IME {
		t.Error("IME should not be active immediately after EI")
	}
	if c.PC == 0x0040 {
		t.Fatal("interrupt must not dispatch on the EI instruction itself")
	}
	step(t, c) // the instruction after EI: IME promoted, then serviced
	if c.PC != 0x0040 {
		t.Errorf("interrupt should dispatch after the instruction following EI, PC = %#04x", c.PC)
	}
}

func TestHaltBugDuplicatesNextFetch(t *testing.T) {
	c, bus, irq := newTestCPU()
	c.IME = false
	c.A = 0 // New leaves the post-boot A=0x01; count INC A from zero
	irq.Enable = 1 << interrupts.VBlankFlag
	irq.Request(interrupts.VBlankFlag)
	bus.load(c.PC, 0x76, 0x3C) // HALT; INC A
	startPC := c.PC

	step(t, c) // HALT observes a pending, disabled interrupt: arms the bug
	if c.halted {
		t.Error("HALT with IME=0 and a pending interrupt should not actually halt")
	}
	step(t, c) // INC A executes once without PC advancing...
	if c.A != 1 {
		t.Errorf("A = %d, want 1", c.A)
	}
	if c.PC != startPC+1 {
		t.Errorf("PC = %#04x, want %#04x (unchanged by the duplicated fetch)", c.PC, startPC+1)
	}
	step(t, c) // ...so INC A executes again on the next step
	if c.A != 2 {
		t.Errorf("A = %d, want 2 after the duplicated INC A", c.A)
	}
}

func TestDAAAfterBCDAddition(t *testing.T) {
	c, _, _ := newTestCPU()
	c.A = 0x09
	c.A = c.add8(c.A, 0x09, false) // BCD 9+9, raw binary sum is 0x12
	if c.A != 0x12 {
		t.Fatalf("setup: raw sum = %#02x, want 0x12", c.A)
	}
	c.daa()
	if c.A != 0x18 {
		t.Errorf("DAA(0x09+0x09): A = %#02x, want 0x18", c.A)
	}
}
