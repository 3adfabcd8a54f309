// Package plot wraps a Display sink with periodic timing diagnostics,
// grounded on the teacher's pkg/display/fyne/views/performance.go
// (per-frame T-cycle histogram), stripped of its Fyne canvas embedding
// since that's host windowing, out of scope per spec.md's Non-goals.
package plot

import (
	"fmt"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/8bitgo/goboy/internal/ppu"
)

// ProfileSink wraps another Display and records how many T-cycles
// elapsed between frames. Every sampleEvery frames it renders a
// histogram PNG to outDir for offline performance diagnostics.
type ProfileSink struct {
	inner       ppu.Display
	outDir      string
	sampleEvery int

	samples []float64
	cycles  int
	frame   int
}

// NewProfileSink wraps inner, writing a histogram PNG to outDir every
// sampleEvery frames.
func NewProfileSink(inner ppu.Display, outDir string, sampleEvery int) *ProfileSink {
	return &ProfileSink{inner: inner, outDir: outDir, sampleEvery: sampleEvery}
}

// AddCycles records T-cycles consumed since the last call; the host
// loop reports each RunFrame's total here so the sink can bucket
// per-frame cycle counts without owning the scheduler.
func (p *ProfileSink) AddCycles(cycles int) {
	p.cycles += cycles
}

func (p *ProfileSink) DrawLine(line int, pixels [ppu.ScreenWidth]uint8) {
	p.inner.DrawLine(line, pixels)
}

func (p *ProfileSink) Present() {
	p.inner.Present()
	p.frame++
	p.samples = append(p.samples, float64(p.cycles))
	p.cycles = 0

	if p.sampleEvery > 0 && p.frame%p.sampleEvery == 0 {
		if err := p.render(); err != nil {
			fmt.Fprintf(os.Stderr, "plot: render histogram: %v\n", err)
		}
		p.samples = p.samples[:0]
	}
}

func (p *ProfileSink) render() error {
	values := make(plotter.Values, len(p.samples))
	copy(values, p.samples)

	hist, err := plotter.NewHist(values, 16)
	if err != nil {
		return err
	}

	pl := plot.New()
	pl.Title.Text = "T-cycles per frame"
	pl.Add(hist)

	path := fmt.Sprintf("%s/frame-cycles-%06d.png", p.outDir, p.frame)
	return pl.Save(6*vg.Inch, 4*vg.Inch, path)
}
