// Package ascii implements a terminal Display sink: each frame is
// downsampled into 2x2 pixel blocks and rendered as a density-ramp
// character grid. Grounded line-for-line on
// _examples/original_source/src/video/ascii_display.c: the same 2x2
// block averaging, the same 13-character darkest-to-lightest ramp, and
// the same "clear screen, cursor home, print" redraw sequence, ported
// from its static-buffer-of-chars C implementation to a Go
// []byte-backed one painted through an io.Writer instead of stdio.
package ascii

import (
	"fmt"
	"io"

	"github.com/8bitgo/goboy/internal/ppu"
)

// ramp is the original's density map, darkest (most "ink") first:
// "@MkmCcj(]<;. " in src/video/ascii_display.c.
const ramp = "@MkmCcj(]<;. "

const scale = 2

const (
	cols = ppu.ScreenWidth / scale
	rows = ppu.ScreenHeight / scale
)

// Sink renders frames to w as an ASCII-art character grid, one
// DrawLine call's worth of accumulation per 2x2 block.
type Sink struct {
	w       io.Writer
	sums    [cols]int // running pixel-value sum for the current block row pair
	chars   [rows][cols]byte
	lineBuf [cols]byte
}

// New returns a Sink that writes to w (typically os.Stdout).
func New(w io.Writer) *Sink {
	return &Sink{w: w}
}

// DrawLine accumulates one scanline into the in-progress 2x2 block
// row. Every second line (the bottom half of a block pair) finalizes
// that block row into a ramp character, matching the original's
// "only emit on the second of each pair of source lines" logic.
func (s *Sink) DrawLine(line int, pixels [ppu.ScreenWidth]uint8) {
	blockRow := line / scale
	if blockRow >= rows {
		return
	}
	if line%scale == 0 {
		s.sums = [cols]int{}
	}
	for bx := 0; bx < cols; bx++ {
		s.sums[bx] += int(pixels[bx*scale]) + int(pixels[bx*scale+1])
	}
	if line%scale != scale-1 {
		return
	}
	for bx := 0; bx < cols; bx++ {
		// each block sums four 2-bit shades, 0..12 — exactly one ramp
		// index per possible sum. Shade 0 is the lightest, so the sum
		// indexes the ramp from its light end.
		s.chars[blockRow][bx] = ramp[len(ramp)-1-s.sums[bx]]
	}
}

// Present writes the accumulated frame, preceded by the original's
// "\e[1;1H\e[2J" clear-screen-and-home escape sequence.
func (s *Sink) Present() {
	fmt.Fprint(s.w, "\x1b[1;1H\x1b[2J")
	for r := 0; r < rows; r++ {
		s.w.Write(s.chars[r][:])
		fmt.Fprintln(s.w)
	}
}
