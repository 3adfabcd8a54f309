// Package web streams completed frames to connected diagnostic
// clients over a websocket, for remote inspection of a running core
// without a local GUI. Grounded on the teacher's pkg/display/web
// hub/player/client trio (frame hashing to skip unchanged sends,
// brotli-compressed patches), rebound to this core's 2-bit-shade
// scanline contract in place of the teacher's RGB24 frame buffer, and
// stripped of its two-player input-sync protocol, which is a feature
// of that project's netplay, not this spec.
package web

import (
	"net/http"
	"sync"

	"github.com/cespare/xxhash"
	"github.com/google/brotli/go/cbrotli"
	"github.com/gorilla/websocket"

	"github.com/8bitgo/goboy/internal/ppu"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server accumulates scanlines into a frame buffer and, on Present,
// broadcasts the raw frame to every connected client as a
// brotli-compressed payload — but only when the frame's content
// actually changed, so an idle screen doesn't spam the socket.
type Server struct {
	mu      sync.Mutex
	frame   [ppu.ScreenHeight][ppu.ScreenWidth]uint8
	lastSum uint64

	clientsMu sync.Mutex
	clients   map[*websocket.Conn]struct{}
}

// NewServer returns a Server ready to be wired as a PPU Display and
// mounted as an http.Handler.
func NewServer() *Server {
	return &Server{clients: make(map[*websocket.Conn]struct{})}
}

func (s *Server) DrawLine(line int, pixels [ppu.ScreenWidth]uint8) {
	s.mu.Lock()
	s.frame[line] = pixels
	s.mu.Unlock()
}

// Present fingerprints the completed frame with xxhash and, if it
// differs from the last frame sent, brotli-compresses the raw bytes
// and broadcasts them to every connected client.
func (s *Server) Present() {
	s.mu.Lock()
	raw := make([]byte, 0, ppu.ScreenWidth*ppu.ScreenHeight)
	for _, line := range s.frame {
		raw = append(raw, line[:]...)
	}
	s.mu.Unlock()

	sum := xxhash.Sum64(raw)
	if sum == s.lastSum {
		return
	}
	s.lastSum = sum

	patch, err := cbrotli.Encode(raw, cbrotli.WriterOptions{Quality: 9})
	if err != nil {
		return
	}
	s.broadcast(patch)
}

// ServeHTTP upgrades the request to a websocket and registers the
// connection to receive future frames until it disconnects.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.clientsMu.Lock()
	s.clients[conn] = struct{}{}
	s.clientsMu.Unlock()

	defer func() {
		s.clientsMu.Lock()
		delete(s.clients, conn)
		s.clientsMu.Unlock()
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) broadcast(payload []byte) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	for c := range s.clients {
		_ = c.WriteMessage(websocket.BinaryMessage, payload)
	}
}
