package timer

import (
	"testing"

	"github.com/8bitgo/goboy/internal/interrupts"
)

func TestTIMAOverflowReloadsFromTMAAndRaisesInterrupt(t *testing.T) {
	irq := interrupts.New()
	tm := New(irq)
	tm.Write(TMARegister, 0x12)
	tm.Write(TACRegister, 0x05) // enabled, 16 T-cycles/tick
	tm.Write(TIMARegister, 0xFF)

	tm.Advance(16)

	if got := tm.Read(TIMARegister); got != 0x12 {
		t.Errorf("TIMA = %#02x, want 0x12", got)
	}
	if irq.Flag&(1<<interrupts.TimerFlag) == 0 {
		t.Error("Timer interrupt flag should be set after overflow")
	}
}

func TestTIMADoesNotAdvanceWhileDisabled(t *testing.T) {
	irq := interrupts.New()
	tm := New(irq)
	tm.Write(TACRegister, 0x01) // 16 T-cycles/tick, disabled (bit 2 clear)
	// 1024 T-cycles, fed in the uint8-sized steps Advance takes
	for i := 0; i < 1024/16; i++ {
		tm.Advance(16)
	}
	if got := tm.Read(TIMARegister); got != 0 {
		t.Errorf("TIMA = %#02x, want 0 while disabled", got)
	}
}

func TestDIVResetOnWrite(t *testing.T) {
	irq := interrupts.New()
	tm := New(irq)
	for i := 0; i < 512/16; i++ { // 512 T-cycles in uint8-sized steps
		tm.Advance(16)
	}
	if tm.Read(DIVRegister) == 0 {
		t.Fatal("setup: DIV should have advanced")
	}
	tm.Write(DIVRegister, 0xFF) // any write resets DIV to 0
	if got := tm.Read(DIVRegister); got != 0 {
		t.Errorf("DIV after write = %#02x, want 0", got)
	}
}

func TestTACRateChangeGlitchReloadsTIMA(t *testing.T) {
	irq := interrupts.New()
	tm := New(irq)
	tm.Write(TMARegister, 0x55)
	tm.Write(TIMARegister, 0x99)
	tm.Write(TACRegister, 0x04) // rate bits 00->00, enable only: no glitch
	if got := tm.Read(TIMARegister); got != 0x99 {
		t.Fatalf("no rate change: TIMA = %#02x, want unchanged 0x99", got)
	}
	tm.Write(TACRegister, 0x05) // rate bits change 00->01: glitch reload
	if got := tm.Read(TIMARegister); got != 0x55 {
		t.Errorf("rate change: TIMA = %#02x, want TMA 0x55", got)
	}
}
