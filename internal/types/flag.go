package types

// Flag is a bit position in the F register's upper nibble; the low
// nibble always reads 0 (cpu.CPU.F enforces this on every ALU result
// and on POP AF). MSB first: Z, N, H, C.
type Flag = uint8

const (
	FlagZero      Flag = Bit7 // result of the last op was 0x00
	FlagSubtract  Flag = Bit6 // last op subtracted; gates DAA's correction direction
	FlagHalfCarry Flag = Bit5 // carry out of bit 3 (bit 11 for 16-bit ops)
	FlagCarry     Flag = Bit4 // carry/borrow out of bit 7 (bit 15 for 16-bit ops)
)
