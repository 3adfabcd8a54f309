package gameboy

import (
	"testing"

	"github.com/8bitgo/goboy/pkg/log"
)

// minimalROM builds a 32 KiB no-MBC cartridge image with a valid
// header and the given program loaded at 0x0100.
func minimalROM(program ...uint8) []byte {
	rom := make([]byte, 0x8000)
	copy(rom[0x0100:], program)
	copy(rom[0x0134:0x0143], "TEST") // title
	rom[0x0147] = 0x00               // ROM only
	rom[0x0148] = 0x00               // 32 KiB
	rom[0x0149] = 0x00               // no RAM
	return rom
}

func TestMachineStepsPushPopRoundTrip(t *testing.T) {
	m, err := New(minimalROM(0xC5 /* PUSH BC */, 0xD1 /* POP DE */), WithoutSave())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m.CPU.B, m.CPU.C = 0xBE, 0xEF

	if cycles, err := m.Step(); err != nil || cycles != 16 {
		t.Fatalf("PUSH BC: cycles=%d err=%v, want 16,nil", cycles, err)
	}
	if cycles, err := m.Step(); err != nil || cycles != 12 {
		t.Fatalf("POP DE: cycles=%d err=%v, want 12,nil", cycles, err)
	}
	if got := m.CPU.DE.Uint16(); got != 0xBEEF {
		t.Errorf("POP DE round-trip: got %#04x, want 0xBEEF", got)
	}
}

func TestMachineRejectsUnsupportedCartridge(t *testing.T) {
	rom := minimalROM()
	rom[0x0147] = 0xFF // not a supported type
	if _, err := New(rom, WithoutSave()); err == nil {
		t.Fatal("expected an error for an unsupported cartridge type")
	}
}

func TestMachineTimerOverflowRaisesInterrupt(t *testing.T) {
	m, err := New(minimalROM(), WithoutSave())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m.Irq.Enable = 1 << 2     // TimerFlag
	m.MMU.Write(0xFF06, 0x12) // TMA
	m.MMU.Write(0xFF07, 0x05) // TAC: enabled, 16 T-cycles/tick (0b101)
	m.MMU.Write(0xFF05, 0xFF) // TIMA one tick from overflow

	m.Timer.Advance(16)
	if got := m.MMU.Read(0xFF05); got != 0x12 {
		t.Errorf("TIMA after overflow = %#02x, want 0x12 (reloaded from TMA)", got)
	}
	if m.Irq.Flag&(1<<2) == 0 {
		t.Error("Timer interrupt flag should be set after TIMA overflow")
	}
}

func TestMachineSaveRoundTripsBatteryRAM(t *testing.T) {
	rom := make([]byte, 0x20000) // 128 KiB, enough for a few MBC1 banks
	copy(rom[0x0134:0x0143], "SAVEGAME")
	rom[0x0147] = 0x03 // MBC1+RAM+BATTERY
	rom[0x0148] = 0x02 // 128 KiB
	rom[0x0149] = 0x03 // 32 KiB RAM

	dir := t.TempDir()
	m, err := New(rom, WithSavePath(dir), WithLogger(log.NewNullLogger()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m.MMU.Write(0x0000, 0x0A) // enable external RAM
	m.MMU.Write(0xA000, 0x42)
	if err := m.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	m2, err := New(rom, WithSavePath(dir), WithLogger(log.NewNullLogger()))
	if err != nil {
		t.Fatalf("New (reload): %v", err)
	}
	m2.MMU.Write(0x0000, 0x0A)
	if got := m2.MMU.Read(0xA000); got != 0x42 {
		t.Errorf("reloaded save RAM[0] = %#02x, want 0x42", got)
	}
}
