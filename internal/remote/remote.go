// Package remote implements an Input source that receives button
// events over UDP, grounded on
// _examples/original_source/src/control_server/client.c (the
// subscribe/ack handshake and non-blocking polling socket) and
// src/input/remote_input.c (the "INPUT : <n>" wire format and the
// press/release-previous-key state machine). The original's
// ctrl_client_new connects to 127.0.0.1:9000, sends
// "subscribe : INPUT", waits up to one second for the ack
// "subscribe : success", then flips the socket non-blocking; this
// port keeps the same three-step handshake and swaps the C select/
// non-blocking-fd pattern for a Go read deadline.
package remote

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/8bitgo/goboy/internal/joypad"
)

// DefaultAddr matches the original's hardcoded 127.0.0.1:9000.
const DefaultAddr = "127.0.0.1:9000"

// service names the subscription channel, mirroring ctrl_service_t's
// two values (CTRL_INPUT, CTRL_CONFIG) in client.h — this package only
// ever needs the input channel.
const service = "INPUT"

const ackTimeout = time.Second

// quitValue is the out-of-band button index the original's protocol
// reserves for CTRL_GAME_BOY_QUIT, outside the 0-7 button range.
const quitValue = 8

// buttonBits maps the wire protocol's button index (the shift count
// the original's remote_input.c computes as "1 << value") onto this
// core's joypad.Button bits. The original's input_strategy.h ordering
// (RIGHT=0, LEFT=1, UP=2, DOWN=3, A=4, B=5, SELECT=6, START=7) lines
// up exactly with joypad's own bit assignment, so this is an identity
// table kept explicit rather than relying on that coincidence staying
// true.
var buttonBits = [8]joypad.Button{
	joypad.ButtonRight,
	joypad.ButtonLeft,
	joypad.ButtonUp,
	joypad.ButtonDown,
	joypad.ButtonA,
	joypad.ButtonB,
	joypad.ButtonSelect,
	joypad.ButtonStart,
}

// InputSource polls a remote control server for button events and
// reports the Quit signal the original's CTRL_GAME_BOY_QUIT value
// represents.
type InputSource struct {
	conn    *net.UDPConn
	held    uint8 // currently pressed buttons, matching remote_input_strategy_t.last_key
	lastSet joypad.Button
}

// Dial connects to addr (typically DefaultAddr) and performs the
// subscribe/ack handshake. It returns an error if the server doesn't
// ack within one second, matching the original's timed select loop.
func Dial(addr string) (*InputSource, error) {
	raddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("remote: resolve %s: %w", addr, err)
	}
	conn, err := net.DialUDP("udp", nil, raddr)
	if err != nil {
		return nil, fmt.Errorf("remote: dial %s: %w", addr, err)
	}
	if _, err := fmt.Fprintf(conn, "subscribe : %s", service); err != nil {
		conn.Close()
		return nil, fmt.Errorf("remote: send subscribe: %w", err)
	}
	conn.SetReadDeadline(time.Now().Add(ackTimeout))
	ack := make([]byte, 64)
	n, err := conn.Read(ack)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("remote: no subscribe ack from %s: %w", addr, err)
	}
	if !strings.Contains(string(ack[:n]), "success") {
		conn.Close()
		return nil, fmt.Errorf("remote: subscribe to %s rejected: %q", addr, ack[:n])
	}
	conn.SetReadDeadline(time.Time{})
	return &InputSource{conn: conn}, nil
}

// Poll drains every pending datagram and returns the resulting button
// state and whether the server asked for a quit. Matches
// handle_button_press's shape: release the previously-held key first,
// then apply whatever arrives this tick. The near-immediate read
// deadline stands in for the original's non-blocking recv — a past
// deadline would make every Read fail before looking at the socket.
func (s *InputSource) Poll() (buttons uint8, quit bool) {
	s.held &^= s.lastSet
	s.lastSet = 0
	s.conn.SetReadDeadline(time.Now().Add(time.Millisecond))
	for {
		buf := make([]byte, 64)
		n, err := s.conn.Read(buf)
		if err != nil {
			break
		}
		value, ok := parseInputMessage(string(buf[:n]))
		if !ok {
			continue
		}
		if value == quitValue {
			quit = true
			continue
		}
		if int(value) < len(buttonBits) {
			bit := buttonBits[value]
			s.held |= bit
			s.lastSet |= bit
		}
	}
	return s.held, quit
}

// parseInputMessage parses the original's "INPUT : <n>" wire format.
func parseInputMessage(msg string) (value uint8, ok bool) {
	fields := strings.Fields(msg)
	if len(fields) != 3 || fields[0] != "INPUT" || fields[1] != ":" {
		return 0, false
	}
	n, err := strconv.Atoi(fields[2])
	if err != nil || n < 0 {
		return 0, false
	}
	return uint8(n), true
}

// Close releases the underlying socket.
func (s *InputSource) Close() error {
	return s.conn.Close()
}
