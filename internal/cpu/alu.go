package cpu

import "github.com/8bitgo/goboy/internal/types"

// Flag bit positions within F (spec.md §4.3): Z=7, N=6, H=5, C=4.
const (
	flagZ = types.FlagZero
	flagN = types.FlagSubtract
	flagH = types.FlagHalfCarry
	flagC = types.FlagCarry
)

func (c *CPU) setFlag(mask uint8, v bool) {
	if v {
		c.F |= mask
	} else {
		c.F &^= mask
	}
}

func (c *CPU) flag(mask uint8) bool { return c.F&mask != 0 }

// add8 adds b (and, if withCarry, the current C flag) to a and
// returns the result with Z/N/H/C set accordingly.
func (c *CPU) add8(a, b uint8, withCarry bool) uint8 {
	carry := uint16(0)
	if withCarry && c.flag(flagC) {
		carry = 1
	}
	sum := uint16(a) + uint16(b) + carry
	result := uint8(sum)
	c.setFlag(flagZ, result == 0)
	c.setFlag(flagN, false)
	c.setFlag(flagH, (a&0xF)+(b&0xF)+uint8(carry) > 0xF)
	c.setFlag(flagC, sum > 0xFF)
	return result
}

// sub8 subtracts b (and, if withCarry, the current C flag) from a.
func (c *CPU) sub8(a, b uint8, withCarry bool) uint8 {
	carry := uint16(0)
	if withCarry && c.flag(flagC) {
		carry = 1
	}
	diff := uint16(a) - uint16(b) - carry
	result := uint8(diff)
	c.setFlag(flagZ, result == 0)
	c.setFlag(flagN, true)
	c.setFlag(flagH, int(a&0xF)-int(b&0xF)-int(carry) < 0)
	c.setFlag(flagC, diff > 0xFF)
	return result
}

func (c *CPU) and8(a, b uint8) uint8 {
	r := a & b
	c.setFlag(flagZ, r == 0)
	c.setFlag(flagN, false)
	c.setFlag(flagH, true)
	c.setFlag(flagC, false)
	return r
}

func (c *CPU) or8(a, b uint8) uint8 {
	r := a | b
	c.setFlag(flagZ, r == 0)
	c.setFlag(flagN, false)
	c.setFlag(flagH, false)
	c.setFlag(flagC, false)
	return r
}

func (c *CPU) xor8(a, b uint8) uint8 {
	r := a ^ b
	c.setFlag(flagZ, r == 0)
	c.setFlag(flagN, false)
	c.setFlag(flagH, false)
	c.setFlag(flagC, false)
	return r
}

// cp8 is sub8 without storing the result, used by CP.
func (c *CPU) cp8(a, b uint8) { c.sub8(a, b, false) }

func (c *CPU) inc8(v uint8) uint8 {
	r := v + 1
	c.setFlag(flagZ, r == 0)
	c.setFlag(flagN, false)
	c.setFlag(flagH, v&0xF == 0xF)
	return r
}

func (c *CPU) dec8(v uint8) uint8 {
	r := v - 1
	c.setFlag(flagZ, r == 0)
	c.setFlag(flagN, true)
	c.setFlag(flagH, v&0xF == 0)
	return r
}

// addHL16 adds v to HL, leaving Z untouched (ADD HL,rr only touches
// N/H/C) and charges the extra internal cycle for the 16-bit add.
func (c *CPU) addHL16(v uint16) {
	hl := c.HL.Uint16()
	sum := uint32(hl) + uint32(v)
	c.setFlag(flagN, false)
	c.setFlag(flagH, (hl&0xFFF)+(v&0xFFF) > 0xFFF)
	c.setFlag(flagC, sum > 0xFFFF)
	c.HL.SetUint16(uint16(sum))
	c.delay()
}

// addSPSigned implements both ADD SP,r8 and LD HL,SP+r8: it reads one
// signed immediate byte, adds it to SP using 8-bit-boundary carry
// rules (the hardware computes the flags as if adding the unsigned
// byte to the low byte of SP), and returns the 16-bit result.
func (c *CPU) addSPSigned() uint16 {
	offset := int8(c.fetch())
	sp := c.SP
	result := uint16(int32(sp) + int32(offset))
	c.setFlag(flagZ, false)
	c.setFlag(flagN, false)
	c.setFlag(flagH, (sp&0xF)+uint16(uint8(offset)&0xF) > 0xF)
	c.setFlag(flagC, (sp&0xFF)+uint16(uint8(offset)) > 0xFF)
	return result
}

// daa implements the decimal-adjust algorithm of spec.md §4.3: after
// an 8-bit BCD add or subtract, correct A back into packed-BCD range.
func (c *CPU) daa() {
	a := c.A
	orig := a
	if !c.flag(flagN) {
		if c.flag(flagH) || orig&0xF > 0x9 {
			a += 0x06
		}
		if c.flag(flagC) || orig > 0x99 {
			a += 0x60
			c.setFlag(flagC, true)
		}
	} else {
		if c.flag(flagH) {
			a -= 0x06
		}
		if c.flag(flagC) {
			a -= 0x60
		}
	}
	c.A = a
	c.setFlag(flagZ, c.A == 0)
	c.setFlag(flagH, false)
}

func (c *CPU) cpl() {
	c.A = ^c.A
	c.setFlag(flagN, true)
	c.setFlag(flagH, true)
}

func (c *CPU) scf() {
	c.setFlag(flagN, false)
	c.setFlag(flagH, false)
	c.setFlag(flagC, true)
}

func (c *CPU) ccf() {
	c.setFlag(flagN, false)
	c.setFlag(flagH, false)
	c.setFlag(flagC, !c.flag(flagC))
}
