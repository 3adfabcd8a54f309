package gameboy

import (
	"github.com/8bitgo/goboy/internal/debug"
	"github.com/8bitgo/goboy/pkg/log"
)

// config collects the options a Machine is constructed with. It's
// unexported: callers only ever see functional Option values, per the
// teacher's own options pattern (internal/gameboy.go's GameBoyOpt).
type config struct {
	bootROM  []byte
	savePath string
	noSave   bool
	hook     debug.Hook
	logger   log.Logger
}

// Option configures a Machine at construction time.
type Option func(*config)

// WithBootROM supplies a boot ROM image. Without this option, the
// Machine starts with post-boot register values and jumps straight to
// the cartridge entry point at 0x0100.
func WithBootROM(image []byte) Option {
	return func(c *config) { c.bootROM = image }
}

// WithSavePath overrides the directory battery-backed save files are
// read from and written to.
func WithSavePath(path string) Option {
	return func(c *config) { c.savePath = path }
}

// WithoutSave disables save-file loading and Machine.Save, for
// throwaway sessions (test ROMs, diagnostics) that shouldn't touch
// disk.
func WithoutSave() Option {
	return func(c *config) { c.noSave = true }
}

// WithLogger overrides the Machine's logger. Tests pass
// log.NewNullLogger() here to keep output quiet.
func WithLogger(l log.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithDebugHook attaches a debug.Hook the Machine consults before
// every instruction, mirroring the original's debugger_t pointer
// threaded through its execute loop (nil by default there too: see
// internal/debug's package doc).
func WithDebugHook(h debug.Hook) Option {
	return func(c *config) { c.hook = h }
}
