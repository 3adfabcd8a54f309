// Package gameboy wires the CPU, MMU, cartridge, interrupt
// controller, timer, PPU, joypad, serial and APU register window
// into the single runnable machine described by spec.md §2 and §8,
// and drives the scheduler loop that advances every peripheral by
// the T-cycle count each CPU.Step() retires. Grounded on the
// teacher's top-level GameBoy type (internal/gameboy.go in the
// original tree), adapted away from its Model/ModelDMG/ModelCGB
// scheme and GUI-bound frame pump, since this core is DMG-only and
// host-agnostic.
package gameboy

import (
	"errors"

	"github.com/8bitgo/goboy/internal/apu"
	"github.com/8bitgo/goboy/internal/boot"
	"github.com/8bitgo/goboy/internal/cartridge"
	"github.com/8bitgo/goboy/internal/corerr"
	"github.com/8bitgo/goboy/internal/cpu"
	"github.com/8bitgo/goboy/internal/debug"
	"github.com/8bitgo/goboy/internal/interrupts"
	"github.com/8bitgo/goboy/internal/joypad"
	"github.com/8bitgo/goboy/internal/mmu"
	"github.com/8bitgo/goboy/internal/ppu"
	"github.com/8bitgo/goboy/internal/saves"
	"github.com/8bitgo/goboy/internal/serial"
	"github.com/8bitgo/goboy/internal/timer"
	"github.com/8bitgo/goboy/pkg/log"
)

// ErrBreakpoint is returned by Step/RunFrame when the Machine's
// debug.Hook (if any) asked execution to stop before the next
// instruction.
var ErrBreakpoint = errors.New("gameboy: stopped at breakpoint")

// apuWindow is the address range the APU register window occupies;
// it lives here rather than in package apu because it's a wiring
// concern (RegisterHandler's argument), not the APU's own business.
const (
	apuWindowStart = 0xFF10
	apuWindowEnd   = 0xFF3F
)

// Machine is a fully wired DMG: one cartridge, one CPU, and every
// peripheral the address map exposes. Step advances it by exactly one
// CPU instruction's worth of T-cycles.
type Machine struct {
	CPU     *cpu.CPU
	MMU     *mmu.MMU
	Cart    *cartridge.Cartridge
	Irq     *interrupts.Controller
	Timer   *timer.Controller
	PPU     *ppu.PPU
	Joypad  *joypad.Controller
	Serial  *serial.Controller
	APU     *apu.Registers
	BootROM *boot.ROM

	Log log.Logger

	savePath    string
	saveSkip    bool
	fingerprint string
	hook        debug.Hook
}

// New constructs a Machine from a cartridge image. Options configure
// the boot ROM, save-file path and other deployment-specific
// behavior the core itself has no opinion about.
func New(rom []byte, opts ...Option) (*Machine, error) {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = log.New()
	}

	cart, err := cartridge.New(rom)
	if err != nil {
		return nil, corerr.New(corerr.Load, "gameboy.New", err)
	}

	var bootROM *boot.ROM
	if cfg.bootROM != nil {
		bootROM, err = boot.New(cfg.bootROM)
		if err != nil {
			return nil, corerr.New(corerr.Config, "gameboy.New", err)
		}
	}

	irq := interrupts.New()
	m := &Machine{
		Cart:        cart,
		Irq:         irq,
		Timer:       timer.New(irq),
		PPU:         ppu.New(irq),
		Joypad:      joypad.New(irq),
		Serial:      serial.New(),
		APU:         apu.New(),
		BootROM:     bootROM,
		Log:         cfg.logger,
		savePath:    cfg.savePath,
		saveSkip:    cfg.noSave,
		fingerprint: saves.Fingerprint(rom),
		hook:        cfg.hook,
	}

	m.MMU = mmu.New(cart, bootROM)
	m.MMU.Log = cfg.logger
	m.MMU.AttachPPU(m.PPU)
	m.MMU.RegisterHandler(irq, interrupts.FlagRegister, interrupts.FlagRegister)
	m.MMU.RegisterHandler(irq, interrupts.EnableRegister, interrupts.EnableRegister)
	m.MMU.RegisterHandler(m.Timer, timer.DIVRegister, timer.TACRegister)
	m.MMU.RegisterHandler(m.Joypad, 0xFF00, 0xFF00)
	m.MMU.RegisterHandler(m.Serial, 0xFF01, 0xFF02)
	m.MMU.RegisterHandler(m.APU, apuWindowStart, apuWindowEnd)

	m.CPU = cpu.New(m.MMU, irq, bootROM != nil)

	// A failed save load is a warning, not a fatal error: the game
	// simply starts from zeroed RAM.
	if !cfg.noSave {
		if data, err := saves.Load(cfg.savePath, cart.Title(), m.fingerprint); err != nil {
			m.Log.Warnf("save load failed, starting with empty RAM: %v", err)
		} else if data != nil {
			cart.LoadRAM(data)
		}
	}

	return m, nil
}

// SetDisplay wires the host's frame sink. A Machine built without a
// call to SetDisplay runs headless, discarding every scanline.
func (m *Machine) SetDisplay(d ppu.Display) {
	m.PPU.SetDisplay(d)
}

// Step executes exactly one CPU instruction (plus any pending
// interrupt service), advances the timer and PPU by the same T-cycle
// count, and returns that count. If a debug.Hook is attached and asks
// to stop before this instruction, Step returns ErrBreakpoint without
// executing anything.
func (m *Machine) Step() (uint8, error) {
	if m.hook != nil && m.hook.BeforeStep(m.CPU.PC) {
		return 0, ErrBreakpoint
	}
	cycles, err := m.CPU.Step()
	if err != nil {
		return cycles, err
	}
	m.Timer.Advance(cycles)
	m.PPU.Advance(cycles)
	return cycles, nil
}

// RunFrame steps the machine until the PPU has presented one complete
// frame, returning the total T-cycles consumed.
func (m *Machine) RunFrame() (int, error) {
	startLY, startMode := m.PPU.LY(), m.PPU.Mode()
	total := 0
	for {
		cycles, err := m.Step()
		total += int(cycles)
		if err != nil {
			return total, err
		}
		if m.PPU.LY() == 0 && m.PPU.Mode() == 2 && !(startLY == 0 && startMode == 2) {
			return total, nil
		}
		startLY, startMode = m.PPU.LY(), m.PPU.Mode()
	}
}

// SetInputs reports the host's current button state to the joypad.
func (m *Machine) SetInputs(buttons uint8) {
	m.Joypad.SetInputs(buttons)
}

// Save persists the cartridge's external RAM, if it has a battery and
// the Machine wasn't constructed with WithoutSave. A cartridge with
// no battery, or a Machine opted out of saving, makes this a no-op.
func (m *Machine) Save() error {
	if m.saveSkip || !m.Cart.HasBattery() {
		return nil
	}
	ram := m.Cart.RAM()
	if ram == nil {
		return nil
	}
	return saves.Store(m.savePath, m.Cart.Title(), m.fingerprint, ram)
}
