package cartridge

// mbc3 implements the MBC3 family: a 7-bit ROM-bank register and a
// 2-bit RAM-bank register over up to 4 external RAM banks. RTC
// registers are treated as absent (spec.md §4.2 calls them optional,
// non-goal) — the 0x6000 latch write is a no-op, grounded on the
// teacher's mbc3.go minus its rtc/latchedRTC bookkeeping.
type mbc3 struct {
	rom     []byte
	romBank uint8

	ram        []byte
	ramBank    uint8
	ramEnabled bool
}

func newMBC3(rom []byte, ramSize uint) *mbc3 {
	return &mbc3{
		rom:     rom,
		romBank: 1,
		ram:     make([]byte, ramSize),
	}
}

func (m *mbc3) romBankCount() uint8 {
	return uint8(len(m.rom) / 0x4000)
}

func (m *mbc3) Read(address uint16) uint8 {
	switch {
	case address < 0x4000:
		return m.rom[address]
	case address < 0x8000:
		bank := m.romBank
		if n := m.romBankCount(); n > 0 {
			bank %= n
		}
		return m.rom[uint32(bank)*0x4000+uint32(address-0x4000)]
	default: // external RAM, 0xA000-0xBFFF
		if !m.ramEnabled || len(m.ram) == 0 {
			return 0xFF
		}
		off := uint32(m.ramBank)*0x2000 + uint32(address&0x1FFF)
		if int(off) >= len(m.ram) {
			return 0xFF
		}
		return m.ram[off]
	}
}

func (m *mbc3) Write(address uint16, value uint8) {
	switch {
	case address < 0x2000:
		m.ramEnabled = value&0x0F == 0x0A
	case address < 0x4000:
		value &= 0x7F
		if value == 0 {
			value = 1
		}
		m.romBank = value
	case address < 0x6000:
		m.ramBank = value & 0x03
	case address < 0x8000:
		// RTC latch omitted, spec.md §4.2/§9.
	default: // external RAM
		if !m.ramEnabled || len(m.ram) == 0 {
			return
		}
		off := uint32(m.ramBank)*0x2000 + uint32(address&0x1FFF)
		if int(off) < len(m.ram) {
			m.ram[off] = value
		}
	}
}

func (m *mbc3) RAM() []byte { return m.ram }
func (m *mbc3) LoadRAM(data []byte) {
	copy(m.ram, data)
}
