// Package display provides Display sink implementations for the PPU
// (internal/ppu.Display): a zero-dependency in-memory sink for tests
// and benchmarks, plus (in the web and plot subpackages) diagnostic
// sinks grounded on the teacher's pkg/display driver registry, minus
// the GUI toolkits it otherwise pulls in.
package display

import "github.com/8bitgo/goboy/internal/ppu"

// HeadlessSink accumulates scanlines into a full frame buffer with no
// external dependency, for tests, benchmarks, and any host that only
// wants to poll the finished picture rather than stream it.
type HeadlessSink struct {
	frame     [ppu.ScreenHeight][ppu.ScreenWidth]uint8
	frames    int
	presented chan struct{}
}

// NewHeadlessSink returns a HeadlessSink. If notify is true, Present
// sends (non-blocking) on a channel a caller can select on via Wait.
func NewHeadlessSink(notify bool) *HeadlessSink {
	s := &HeadlessSink{}
	if notify {
		s.presented = make(chan struct{}, 1)
	}
	return s
}

func (s *HeadlessSink) DrawLine(line int, pixels [ppu.ScreenWidth]uint8) {
	s.frame[line] = pixels
}

func (s *HeadlessSink) Present() {
	s.frames++
	if s.presented != nil {
		select {
		case s.presented <- struct{}{}:
		default:
		}
	}
}

// Frame returns the most recently completed frame buffer.
func (s *HeadlessSink) Frame() [ppu.ScreenHeight][ppu.ScreenWidth]uint8 {
	return s.frame
}

// Frames returns the number of frames presented so far.
func (s *HeadlessSink) Frames() int { return s.frames }

// Wait blocks until the next Present call, if this sink was built with
// notify=true; otherwise it returns immediately.
func (s *HeadlessSink) Wait() {
	if s.presented == nil {
		return
	}
	<-s.presented
}
