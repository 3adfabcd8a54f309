// Command goboy is the headless host for the core: it loads a
// cartridge (and optional boot ROM), runs the machine, and wires one
// of the Display sinks (none, an ASCII-art terminal grid, a websocket
// frame stream, or a timing-histogram profiler) depending on the flags
// passed.
// Grounded on the teacher's cmd/goboy/main.go flag parsing and
// pprof-on-a-goroutine pattern, stripped of its Fyne window creation.
package main

import (
	"errors"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/8bitgo/goboy/internal/corerr"
	"github.com/8bitgo/goboy/internal/debug"
	"github.com/8bitgo/goboy/internal/display"
	"github.com/8bitgo/goboy/internal/display/ascii"
	"github.com/8bitgo/goboy/internal/display/plot"
	"github.com/8bitgo/goboy/internal/display/web"
	"github.com/8bitgo/goboy/internal/gameboy"
	"github.com/8bitgo/goboy/internal/ppu"
	"github.com/8bitgo/goboy/internal/remote"
	"github.com/8bitgo/goboy/internal/romload"
)

var log = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.Formatter = &logrus.TextFormatter{
		DisableColors:    true,
		DisableTimestamp: true,
		DisableSorting:   true,
		DisableQuote:     true,
	}
	return l
}

func main() {
	os.Exit(run())
}

func run() int {
	romFile := flag.String("rom", "", "cartridge ROM file to load (.gb, .gbc, .gz, .zip, .7z)")
	bootFile := flag.String("boot", "", "boot ROM file to load (256 bytes)")
	savePath := flag.String("save-dir", "", "directory battery-backed saves are read from and written to")
	noSave := flag.Bool("no-save", false, "disable save-file loading and writing")
	webAddr := flag.String("web", "", "if set, serve a diagnostic frame stream at this address (e.g. :8080)")
	profileDir := flag.String("profile-dir", "", "if set, write timing histogram PNGs to this directory every --profile-every frames")
	profileEvery := flag.Int("profile-every", 60, "frames between profiler histogram writes")
	pprofAddr := flag.String("pprof", "", "if set, serve net/http/pprof at this address")
	frames := flag.Int("frames", 0, "stop after this many frames (0 = run until the program exits)")
	turbo := flag.Bool("turbo", false, "run unthrottled instead of pacing frames to 60 Hz")
	asciiOut := flag.Bool("ascii", false, "render frames as an ASCII-art character grid to stdout instead of any other sink")
	remoteInput := flag.String("remote-input", "", "if set, read button events from a remote control server at this address (e.g. 127.0.0.1:9000) instead of running headless")
	breakpoints := flag.String("break", "", "comma-separated hex PC addresses (e.g. 0x0150,0x02A0) to stop execution at")
	flag.Parse()

	if *pprofAddr != "" {
		go func() {
			if err := http.ListenAndServe(*pprofAddr, nil); err != nil {
				log.WithError(err).Warn("pprof server exited")
			}
		}()
	}

	if *romFile == "" {
		fmt.Fprintln(os.Stderr, "goboy: -rom is required")
		flag.Usage()
		return corerr.Config.ExitCode()
	}

	rom, err := romload.Load(*romFile)
	if err != nil {
		return fail(err)
	}

	var opts []gameboy.Option
	if *savePath != "" {
		opts = append(opts, gameboy.WithSavePath(*savePath))
	}
	if *noSave {
		opts = append(opts, gameboy.WithoutSave())
	}
	if *bootFile != "" {
		bootROM, err := romload.Load(*bootFile)
		if err != nil {
			return fail(err)
		}
		opts = append(opts, gameboy.WithBootROM(bootROM))
	}
	if *breakpoints != "" {
		addrs, err := parseBreakpoints(*breakpoints)
		if err != nil {
			return fail(corerr.New(corerr.Config, "main.run", err))
		}
		opts = append(opts, gameboy.WithDebugHook(debug.NewBreakpoints(addrs...)))
	}

	m, err := gameboy.New(rom, opts...)
	if err != nil {
		return fail(err)
	}
	log.WithField("title", m.Cart.Title()).Info("loaded cartridge")

	var sink ppu.Display
	var profiler *plot.ProfileSink
	switch {
	case *asciiOut:
		sink = ascii.New(os.Stdout)
	case *webAddr != "":
		srv := web.NewServer()
		go func() {
			log.WithField("addr", *webAddr).Info("serving diagnostic frame stream")
			if err := http.ListenAndServe(*webAddr, srv); err != nil {
				log.WithError(err).Warn("diagnostic server exited")
			}
		}()
		sink = srv
	case *profileDir != "":
		if err := os.MkdirAll(*profileDir, 0o755); err != nil {
			return fail(corerr.New(corerr.IO, "main.run", err))
		}
		profiler = plot.NewProfileSink(display.NewHeadlessSink(false), *profileDir, *profileEvery)
		sink = profiler
	default:
		sink = display.NewHeadlessSink(false)
	}
	m.SetDisplay(sink)

	var input *remote.InputSource
	if *remoteInput != "" {
		input, err = remote.Dial(*remoteInput)
		if err != nil {
			return fail(corerr.New(corerr.Config, "main.run", err))
		}
		defer input.Close()
		log.WithField("addr", *remoteInput).Info("subscribed to remote input server")
	}

	// The core is purely deterministic; real-time speed comes from the
	// host waiting out the remainder of each 1/60 s frame slot here.
	pacer := time.NewTicker(time.Second / 60)
	defer pacer.Stop()

	for i := 0; *frames == 0 || i < *frames; i++ {
		if input != nil {
			buttons, quit := input.Poll()
			m.SetInputs(buttons)
			if quit {
				break
			}
		}
		cycles, err := m.RunFrame()
		if err != nil {
			if saveErr := m.Save(); saveErr != nil {
				log.WithError(saveErr).Warn("save failed after run error")
			}
			return fail(err)
		}
		if profiler != nil {
			profiler.AddCycles(cycles)
		}
		if !*turbo {
			<-pacer.C
		}
	}

	if err := m.Save(); err != nil {
		return fail(err)
	}
	return 0
}

func fail(err error) int {
	var coreErr *corerr.Error
	if errors.As(err, &coreErr) {
		log.WithError(err).Error("goboy exiting")
		return coreErr.Kind.ExitCode()
	}
	log.WithError(err).Error("goboy exiting")
	return corerr.Internal.ExitCode()
}

// parseBreakpoints parses a comma-separated list of hex addresses,
// each with or without a leading "0x".
func parseBreakpoints(s string) ([]uint16, error) {
	parts := strings.Split(s, ",")
	addrs := make([]uint16, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(p), "0x"))
		n, err := strconv.ParseUint(p, 16, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid breakpoint address %q: %w", p, err)
		}
		addrs = append(addrs, uint16(n))
	}
	return addrs, nil
}
