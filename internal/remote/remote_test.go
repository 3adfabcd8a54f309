package remote

import "testing"

func TestParseInputMessage(t *testing.T) {
	cases := []struct {
		msg    string
		value  uint8
		wantOK bool
	}{
		{"INPUT : 0", 0, true},
		{"INPUT : 7", 7, true},
		{"INPUT : 8", 8, true},
		{"subscribe : success", 0, false},
		{"garbage", 0, false},
	}
	for _, c := range cases {
		got, ok := parseInputMessage(c.msg)
		if ok != c.wantOK {
			t.Errorf("parseInputMessage(%q) ok = %v, want %v", c.msg, ok, c.wantOK)
			continue
		}
		if ok && got != c.value {
			t.Errorf("parseInputMessage(%q) = %d, want %d", c.msg, got, c.value)
		}
	}
}

func TestButtonBitsMatchJoypadOrdering(t *testing.T) {
	// The wire protocol's button index is a shift count; confirm the
	// table doesn't silently drift from joypad's own bit assignment.
	for i, bit := range buttonBits {
		if bit != 1<<uint(i) {
			t.Errorf("buttonBits[%d] = %#02x, want %#02x", i, bit, 1<<uint(i))
		}
	}
}
