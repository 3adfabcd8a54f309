package ascii

import (
	"bytes"
	"strings"
	"testing"

	"github.com/8bitgo/goboy/internal/ppu"
)

// TestPresentEmitsClearScreenAndGrid covers the original's
// "\e[1;1H\e[2J" redraw sequence, plus one ramp character per 2x2
// block.
func TestPresentEmitsClearScreenAndGrid(t *testing.T) {
	var buf bytes.Buffer
	s := New(&buf)

	var line [ppu.ScreenWidth]uint8
	for y := 0; y < ppu.ScreenHeight; y++ {
		s.DrawLine(y, line)
	}
	s.Present()

	out := buf.String()
	if !strings.HasPrefix(out, "\x1b[1;1H\x1b[2J") {
		t.Fatalf("Present output missing clear-screen prefix: %q", out[:min(20, len(out))])
	}
	lines := strings.Split(strings.TrimPrefix(out, "\x1b[1;1H\x1b[2J"), "\n")
	if len(lines) < rows {
		t.Fatalf("got %d rendered rows, want at least %d", len(lines), rows)
	}
	if len(lines[0]) != cols {
		t.Errorf("row width = %d, want %d", len(lines[0]), cols)
	}
}
