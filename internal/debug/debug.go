// Package debug provides an optional instruction-level hook the core
// consults before executing each instruction. It's grounded on the
// nil-by-default debugger_t pointer threaded through the original's
// cpu_update_state/execute loop (src/gameboy.c declares "debugger_t
// *debugger = 0" right before the run loop and passes it into every
// step call, always null in the shipped build): a pluggable-but-unused
// hook point rather than a built-in debugger UI.
package debug

// Hook inspects the machine before each instruction executes.
// BeforeStep is called with the program counter about to be fetched;
// returning true asks the caller to stop stepping.
type Hook interface {
	BeforeStep(pc uint16) (stop bool)
}

// Breakpoints is a Hook that stops at an exact set of addresses, the
// simplest form of the original's debugger_t hook: same idea (pause
// before the CPU touches a given PC), no single-step/register-dump UI
// attached to it.
type Breakpoints struct {
	addrs map[uint16]bool

	// Hit is the address the most recent BeforeStep call stopped at.
	Hit uint16
}

// NewBreakpoints returns a Breakpoints hook armed at the given
// addresses.
func NewBreakpoints(addrs ...uint16) *Breakpoints {
	b := &Breakpoints{addrs: make(map[uint16]bool, len(addrs))}
	for _, a := range addrs {
		b.addrs[a] = true
	}
	return b
}

func (b *Breakpoints) BeforeStep(pc uint16) bool {
	if b.addrs[pc] {
		b.Hit = pc
		return true
	}
	return false
}

// Add arms an additional breakpoint address without reconstructing the
// hook.
func (b *Breakpoints) Add(addr uint16) {
	b.addrs[addr] = true
}
