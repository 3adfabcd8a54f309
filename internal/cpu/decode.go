package cpu

// execute and executeCB decode one opcode using the standard x/y/z/p/q
// field split (x=opcode>>6, y=(opcode>>3)&7, z=opcode&7, p=y>>1,
// q=y&1). This mirrors the regularity SM83 inherits from the Z80
// encoding and keeps the table a handful of small switches instead of
// a 256-entry literal array repeating the same handful of shapes.

// isIllegal reports the set of opcode bytes the hardware never decodes
// (spec.md §7); z==3/y2-5, z==4/y4-7 and z==5/q1,p1-3 of the x==3 row.
func isIllegal(opcode uint8) bool {
	switch opcode {
	case 0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD:
		return true
	}
	return false
}

func (c *CPU) regPtr(idx uint8) *uint8 {
	switch idx {
	case 0:
		return &c.B
	case 1:
		return &c.C
	case 2:
		return &c.D
	case 3:
		return &c.E
	case 4:
		return &c.H
	case 5:
		return &c.L
	case 7:
		return &c.A
	}
	panic("cpu: regPtr called with index 6 ((HL) is memory, not a register)")
}

func (c *CPU) readR(idx uint8) uint8 {
	if idx == 6 {
		return c.readByte(c.HL.Uint16())
	}
	return *c.regPtr(idx)
}

func (c *CPU) writeR(idx uint8, v uint8) {
	if idx == 6 {
		c.writeByte(c.HL.Uint16(), v)
		return
	}
	*c.regPtr(idx) = v
}

// rpGet returns the value of the p'th 16-bit register pair from
// {BC,DE,HL,SP}; rpSet stores into it.
func (c *CPU) rpGet(p uint8) uint16 {
	switch p {
	case 0:
		return c.BC.Uint16()
	case 1:
		return c.DE.Uint16()
	case 2:
		return c.HL.Uint16()
	default:
		return c.SP
	}
}

func (c *CPU) rpSet(p uint8, v uint16) {
	switch p {
	case 0:
		c.BC.SetUint16(v)
	case 1:
		c.DE.SetUint16(v)
	case 2:
		c.HL.SetUint16(v)
	default:
		c.SP = v
	}
}

// execute runs the instruction at opcode (the CPU has already been
// charged for the fetch) and returns a non-nil error only when
// opcode is one of the 11 bytes the hardware never decodes.
func (c *CPU) execute(opcode uint8) error {
	if opcode == 0xCB {
		return c.executeCB(c.fetch())
	}
	if isIllegal(opcode) {
		return &IllegalOpcodeError{Opcode: opcode, PC: c.PC - 1}
	}

	x := opcode >> 6
	y := (opcode >> 3) & 7
	z := opcode & 7
	p := y >> 1
	q := y & 1

	switch x {
	case 0:
		c.executeX0(opcode, y, z, p, q)
	case 1:
		if y == 6 && z == 6 {
			c.halt()
		} else {
			c.writeR(y, c.readR(z))
		}
	case 2:
		c.aluOp(y, c.readR(z))
	case 3:
		c.executeX3(opcode, y, z, p, q)
	}
	return nil
}

func (c *CPU) executeX0(opcode, y, z, p, q uint8) {
	switch z {
	case 0:
		switch {
		case y == 0: // NOP
		case y == 1: // LD (a16),SP
			addr := c.fetch16()
			c.writeByte(addr, uint8(c.SP))
			c.writeByte(addr+1, uint8(c.SP>>8))
		case y == 2: // STOP
			c.fetch() // STOP's second byte, conventionally 0x00
		case y == 3: // JR d8
			c.jr(true)
		default: // JR cc,d8, y=4..7 -> cc=0..3
			c.jr(c.condition(y - 4))
		}
	case 1:
		if q == 0 { // LD rp[p],d16
			c.rpSet(p, c.fetch16())
		} else { // ADD HL,rp[p]
			c.addHL16(c.rpGet(p))
		}
	case 2:
		addr := c.indirectAddr(p, q)
		if q == 0 {
			c.writeByte(addr, c.A)
		} else {
			c.A = c.readByte(addr)
		}
	case 3:
		v := c.rpGet(p)
		if q == 0 {
			v++
		} else {
			v--
		}
		c.rpSet(p, v)
		c.delay()
	case 4:
		c.writeR(y, c.inc8(c.readR(y)))
	case 5:
		c.writeR(y, c.dec8(c.readR(y)))
	case 6:
		c.writeR(y, c.fetch())
	case 7:
		switch y {
		case 0:
			c.rlcA()
		case 1:
			c.rrcA()
		case 2:
			c.rlA()
		case 3:
			c.rrA()
		case 4:
			c.daa()
		case 5:
			c.cpl()
		case 6:
			c.scf()
		case 7:
			c.ccf()
		}
	}
}

// indirectAddr resolves the (BC)/(DE)/(HL+)/(HL-) address used by the
// z==2 LD A,(rp2)/LD (rp2),A row, applying HL's post-increment or
// post-decrement as a side effect.
func (c *CPU) indirectAddr(p, q uint8) uint16 {
	switch p {
	case 0:
		return c.BC.Uint16()
	case 1:
		return c.DE.Uint16()
	case 2:
		addr := c.HL.Uint16()
		c.HL.SetUint16(addr + 1)
		return addr
	default:
		addr := c.HL.Uint16()
		c.HL.SetUint16(addr - 1)
		return addr
	}
}

func (c *CPU) executeX3(opcode, y, z, p, q uint8) {
	switch z {
	case 0:
		switch {
		case y <= 3:
			c.retConditional(c.condition(y))
		case y == 4: // LDH (a8),A
			c.writeByte(0xFF00+uint16(c.fetch()), c.A)
		case y == 5: // ADD SP,r8
			c.SP = c.addSPSigned()
			c.delay()
			c.delay()
		case y == 6: // LDH A,(a8)
			c.A = c.readByte(0xFF00 + uint16(c.fetch()))
		case y == 7: // LD HL,SP+r8
			c.HL.SetUint16(c.addSPSigned())
			c.delay()
		}
	case 1:
		if q == 0 { // POP rp2[p]
			c.rpSet2(p, c.pop16())
		} else {
			switch p {
			case 0:
				c.retUnconditional()
			case 1:
				c.retUnconditional()
				c.IME = true // RETI: enable interrupts immediately, no delay
			case 2:
				c.PC = c.HL.Uint16()
			case 3:
				c.SP = c.HL.Uint16()
				c.delay()
			}
		}
	case 2:
		switch {
		case y <= 3:
			c.jp(c.condition(y))
		case y == 4: // LD (0xFF00+C),A
			c.writeByte(0xFF00+uint16(c.C), c.A)
		case y == 5: // LD (a16),A
			c.writeByte(c.fetch16(), c.A)
		case y == 6: // LD A,(0xFF00+C)
			c.A = c.readByte(0xFF00 + uint16(c.C))
		case y == 7: // LD A,(a16)
			c.A = c.readByte(c.fetch16())
		}
	case 3:
		switch y {
		case 0:
			c.jp(true)
		case 6:
			c.IME = false
			c.imePending = false
		case 7:
			c.imePending = true
		}
	case 4:
		c.call(c.condition(y))
	case 5:
		if q == 0 {
			c.push16(c.rpGet2(p))
		} else {
			c.call(true)
		}
	case 6:
		c.aluOp(y, c.fetch())
	case 7:
		c.rst(y * 8)
	}
}

// rpGet2/rpSet2 address {BC,DE,HL,AF} by p, used by PUSH/POP.
func (c *CPU) rpGet2(p uint8) uint16 {
	if p == 3 {
		return c.AF.Uint16()
	}
	return c.rpGet(p)
}

func (c *CPU) rpSet2(p uint8, v uint16) {
	if p == 3 {
		c.AF.SetUint16(v & 0xFFF0) // low nibble of F is always 0
		return
	}
	c.rpSet(p, v)
}

// aluOp dispatches the eight ADD/ADC/SUB/SBC/AND/XOR/OR/CP operations
// against A, selected by y, shared between the register/memory form
// (x==2) and the immediate form (x==3,z==6).
func (c *CPU) aluOp(y, operand uint8) {
	switch y {
	case 0:
		c.A = c.add8(c.A, operand, false)
	case 1:
		c.A = c.add8(c.A, operand, true)
	case 2:
		c.A = c.sub8(c.A, operand, false)
	case 3:
		c.A = c.sub8(c.A, operand, true)
	case 4:
		c.A = c.and8(c.A, operand)
	case 5:
		c.A = c.xor8(c.A, operand)
	case 6:
		c.A = c.or8(c.A, operand)
	case 7:
		c.cp8(c.A, operand)
	}
}

// executeCB decodes the CB-prefixed table: x=0 rotate/shift group
// (y selects the op), x=1 BIT, x=2 RES, x=3 SET, all over r[z].
func (c *CPU) executeCB(opcode uint8) error {
	x := opcode >> 6
	y := (opcode >> 3) & 7
	z := opcode & 7

	v := c.readR(z)
	switch x {
	case 0:
		switch y {
		case 0:
			v = c.rlc(v)
		case 1:
			v = c.rrc(v)
		case 2:
			v = c.rl(v)
		case 3:
			v = c.rr(v)
		case 4:
			v = c.sla(v)
		case 5:
			v = c.sra(v)
		case 6:
			v = c.swap(v)
		case 7:
			v = c.srl(v)
		}
		c.writeR(z, v)
	case 1:
		c.bit(y, v)
	case 2:
		c.writeR(z, res(y, v))
	case 3:
		c.writeR(z, set(y, v))
	}
	return nil
}
