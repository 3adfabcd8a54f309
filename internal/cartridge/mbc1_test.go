package cartridge

import "testing"

func newTestMBC1(banks int) *mbc1 {
	rom := make([]byte, banks*0x4000)
	for b := 0; b < banks; b++ {
		rom[b*0x4000] = uint8(b) // tag each bank's first byte with its index
	}
	return newMBC1(rom, 0x2000)
}

// TestMBC1BankZeroBecomesOne covers spec.md §4.2's zero-bank rewrite
// rule: writing 0 to the 5-bit bank register selects bank 1, never
// bank 0 (which is always the fixed 0x0000-0x3FFF window).
func TestMBC1BankZeroBecomesOne(t *testing.T) {
	m := newTestMBC1(4)
	m.Write(0x2000, 0x00) // select "bank 0"
	if got := m.Read(0x4000); got != 1 {
		t.Errorf("switchable-bank byte = %d, want 1 (bank 0 rewritten to 1)", got)
	}
}

func TestMBC1SwitchesROMBank(t *testing.T) {
	m := newTestMBC1(4)
	m.Write(0x2000, 0x03)
	if got := m.Read(0x4000); got != 3 {
		t.Errorf("switchable-bank byte = %d, want 3", got)
	}
	if got := m.Read(0x0000); got != 0 {
		t.Errorf("fixed bank byte = %d, want 0 (unaffected by bank1)", got)
	}
}

func TestMBC1RAMDisabledByDefault(t *testing.T) {
	m := newMBC1(make([]byte, 2*0x4000), 0x8000)
	m.Write(0xA000, 0x42)
	if got := m.Read(0xA000); got != 0xFF {
		t.Errorf("RAM read with RAM disabled = %#02x, want 0xFF", got)
	}
}

func TestMBC1RAMEnableAndBanking(t *testing.T) {
	m := newMBC1(make([]byte, 2*0x4000), 0x8000) // 4 RAM banks
	m.Write(0x0000, 0x0A) // enable RAM
	m.Write(0x6000, 0x01) // RAM banking mode
	m.Write(0x4000, 0x02) // RAM bank 2
	m.Write(0xA000, 0x7E)
	if got := m.Read(0xA000); got != 0x7E {
		t.Errorf("RAM bank 2 byte = %#02x, want 0x7E", got)
	}

	m.Write(0x4000, 0x00) // switch to RAM bank 0
	if got := m.Read(0xA000); got == 0x7E {
		t.Error("RAM bank 0 should not alias bank 2's contents")
	}
}
