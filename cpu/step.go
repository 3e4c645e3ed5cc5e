package cpu

import "breadboard/mask"

// The interpreter is one exhaustive match over (instruction, address mode,
// TCU). The explicit enumeration is the correctness argument: every arm is a
// line in the datasheet's cycle-by-cycle tables. Address-mode setup that
// instructions share is factored into wildcard arms at the bottom, matched
// on (mode, TCU) alone.

// arm indexes the instruction-specific cases.
type arm struct {
	inst Instruction
	mode AddressMode
	tcu  uint8
}

// modeArm indexes the shared address-mode setup cases.
type modeArm struct {
	mode AddressMode
	tcu  uint8
}

// step runs one Run-state tick: a fetch/decode when TCU is 0, one
// interpreter arm otherwise.
func (c *CPU) step() {
	if c.TCU == 0 {
		if c.irq && c.P&FlagIRQB == 0 {
			c.IR = IR{Inst: BRK, Mode: Implied}
			c.TCU = 1
			return
		}
		c.IR = decode(c.fetch())
		if c.IR.Inst == NOP && c.IR.Cyc == 1 {
			// single-cycle NOP: the fetch was the whole instruction
			return
		}
		c.TCU = 1
		return
	}

	if c.IR.Inst == NOP {
		c.stepNop()
		return
	}

	c.exec()
}

// stepNop walks a NOP of IR.Len bytes and IR.Cyc cycles: the declared
// operand bytes are consumed first, then the remaining cycles idle.
func (c *CPU) stepNop() {
	if c.TCU < c.IR.Len {
		c.fetch()
	}
	if c.TCU >= c.IR.Cyc-1 {
		c.TCU = 0
	} else {
		c.TCU++
	}
}

// operand reads the resolved operand: the next program byte in immediate
// mode, the byte at the effective address otherwise.
func (c *CPU) operand() byte {
	if c.IR.Mode == Immediate {
		return c.fetch()
	}
	return c.read(c.Temp16)
}

// branch fetches the displacement and decides: a taken branch continues to
// the shared Relative arm that moves PC, an untaken one ends here.
func (c *CPU) branch(flag byte, want bool) {
	c.Temp8 = c.fetch()
	if (c.P&flag != 0) == want {
		c.TCU++
	} else {
		c.TCU = 0
	}
}

// offsetPC applies a signed 8-bit displacement to PC.
func (c *CPU) offsetPC(off byte) {
	c.PC += uint16(int16(int8(off)))
}

func (c *CPU) adcBinary(op byte) {
	sum := uint16(c.A) + uint16(op) + uint16(c.P&FlagCarry)
	res := byte(sum)
	c.updateOverflow((res^c.A)&(res^op)&0x80 != 0)
	c.A = res
	c.updateZero(res)
	c.updateNegative(res)
	c.updateCarry(sum > 0xff)
}

// adcDecimal is the BCD correction path: fix the low nibble past 9, carry
// into the high nibble, fix that past 9 too. Flags come from the corrected
// result.
func (c *CPU) adcDecimal(op byte) {
	lo := mask.LoNibble(c.A) + mask.LoNibble(op) + c.P&FlagCarry
	if lo > 9 {
		lo += 6
	}
	hi := mask.HiNibble(c.A) + mask.HiNibble(op)
	if lo > 0x0f {
		hi++
	}
	if hi > 9 {
		hi += 6
	}
	res := hi<<4 | mask.LoNibble(lo)
	c.updateOverflow((res^c.A)&(res^op)&0x80 != 0)
	c.A = res
	c.updateZero(res)
	c.updateNegative(res)
	c.updateCarry(hi > 0x0f)
}

// adc dispatches on the decimal flag; the decimal path charges the extra
// cycle by leaving TCU to the per-mode settle arm.
func (c *CPU) adc(op byte) {
	if c.P&FlagDecimal != 0 {
		c.adcDecimal(op)
		c.TCU++
	} else {
		c.adcBinary(op)
		c.TCU = 0
	}
}

func (c *CPU) sbc(op byte) {
	if c.P&FlagDecimal != 0 {
		// nine's-complement the operand, then the decimal add path
		c.adcDecimal(0x99 - op)
		c.TCU++
	} else {
		c.adcBinary(op ^ 0xff)
		c.TCU = 0
	}
}

func (c *CPU) compare(reg byte, op byte) {
	c.updateCarry(reg >= op)
	val := reg - op
	c.updateZero(val)
	c.updateNegative(val)
	c.TCU = 0
}

func (c *CPU) exec() {
	switch (arm{c.IR.Inst, c.IR.Mode, c.TCU}) {

	//
	// ADC / SBC
	//
	case arm{ADC, Immediate, 1},
		arm{ADC, ZeroPage, 2},
		arm{ADC, ZeroPageX, 3},
		arm{ADC, Absolute, 3},
		arm{ADC, AbsoluteX, 3},
		arm{ADC, AbsoluteY, 3},
		arm{ADC, IndirectX, 5},
		arm{ADC, IndirectY, 4},
		arm{ADC, ZPIndirect, 4}:
		c.adc(c.operand())

	case arm{SBC, Immediate, 1},
		arm{SBC, ZeroPage, 2},
		arm{SBC, ZeroPageX, 3},
		arm{SBC, Absolute, 3},
		arm{SBC, AbsoluteX, 3},
		arm{SBC, AbsoluteY, 3},
		arm{SBC, IndirectX, 5},
		arm{SBC, IndirectY, 4},
		arm{SBC, ZPIndirect, 4}:
		c.sbc(c.operand())

	// decimal-mode settle cycle
	case arm{ADC, Immediate, 2},
		arm{ADC, ZeroPage, 3},
		arm{ADC, ZeroPageX, 4},
		arm{ADC, Absolute, 4},
		arm{ADC, AbsoluteX, 4},
		arm{ADC, AbsoluteY, 4},
		arm{ADC, IndirectX, 6},
		arm{ADC, IndirectY, 5},
		arm{ADC, ZPIndirect, 5},
		arm{SBC, Immediate, 2},
		arm{SBC, ZeroPage, 3},
		arm{SBC, ZeroPageX, 4},
		arm{SBC, Absolute, 4},
		arm{SBC, AbsoluteX, 4},
		arm{SBC, AbsoluteY, 4},
		arm{SBC, IndirectX, 6},
		arm{SBC, IndirectY, 5},
		arm{SBC, ZPIndirect, 5}:
		c.TCU = 0

	//
	// AND / ORA / EOR
	//
	case arm{AND, Immediate, 1},
		arm{AND, ZeroPage, 2},
		arm{AND, ZeroPageX, 3},
		arm{AND, Absolute, 3},
		arm{AND, AbsoluteX, 3},
		arm{AND, AbsoluteY, 3},
		arm{AND, IndirectX, 5},
		arm{AND, IndirectY, 4},
		arm{AND, ZPIndirect, 4}:
		c.A &= c.operand()
		c.updateZero(c.A)
		c.updateNegative(c.A)
		c.TCU = 0

	case arm{ORA, Immediate, 1},
		arm{ORA, ZeroPage, 2},
		arm{ORA, ZeroPageX, 3},
		arm{ORA, Absolute, 3},
		arm{ORA, AbsoluteX, 3},
		arm{ORA, AbsoluteY, 3},
		arm{ORA, IndirectX, 5},
		arm{ORA, IndirectY, 4},
		arm{ORA, ZPIndirect, 4}:
		c.A |= c.operand()
		c.updateZero(c.A)
		c.updateNegative(c.A)
		c.TCU = 0

	case arm{EOR, Immediate, 1},
		arm{EOR, ZeroPage, 2},
		arm{EOR, ZeroPageX, 3},
		arm{EOR, Absolute, 3},
		arm{EOR, AbsoluteX, 3},
		arm{EOR, AbsoluteY, 3},
		arm{EOR, IndirectX, 5},
		arm{EOR, IndirectY, 4},
		arm{EOR, ZPIndirect, 4}:
		c.A ^= c.operand()
		c.updateZero(c.A)
		c.updateNegative(c.A)
		c.TCU = 0

	//
	// ASL
	//
	case arm{ASL, Accumulator, 1}:
		c.updateCarry(c.A&0x80 != 0)
		c.A <<= 1
		c.updateZero(c.A)
		c.updateNegative(c.A)
		c.TCU = 0
	case arm{ASL, ZeroPage, 2},
		arm{ASL, ZeroPageX, 3},
		arm{ASL, Absolute, 3},
		arm{ASL, AbsoluteX, 3}:
		c.Temp8 = c.read(c.Temp16)
		c.TCU++
	case arm{ASL, ZeroPage, 3},
		arm{ASL, ZeroPageX, 4},
		arm{ASL, Absolute, 4},
		arm{ASL, AbsoluteX, 4}:
		c.updateCarry(c.Temp8&0x80 != 0)
		c.Temp8 <<= 1
		c.updateZero(c.Temp8)
		c.updateNegative(c.Temp8)
		c.TCU++
	case arm{ASL, AbsoluteX, 5}:
		c.TCU++
	case arm{ASL, ZeroPage, 4},
		arm{ASL, ZeroPageX, 5},
		arm{ASL, Absolute, 5},
		arm{ASL, AbsoluteX, 6}:
		c.write(c.Temp16, c.Temp8)
		c.TCU = 0

	//
	// LSR
	//
	case arm{LSR, Accumulator, 1}:
		c.updateCarry(c.A&0x01 != 0)
		c.A >>= 1
		c.updateZero(c.A)
		c.updateNegative(c.A)
		c.TCU = 0
	case arm{LSR, ZeroPage, 2},
		arm{LSR, ZeroPageX, 3},
		arm{LSR, Absolute, 3},
		arm{LSR, AbsoluteX, 3}:
		c.Temp8 = c.read(c.Temp16)
		c.TCU++
	case arm{LSR, ZeroPage, 3},
		arm{LSR, ZeroPageX, 4},
		arm{LSR, Absolute, 4},
		arm{LSR, AbsoluteX, 4}:
		c.updateCarry(c.Temp8&0x01 != 0)
		c.Temp8 >>= 1
		c.updateZero(c.Temp8)
		c.updateNegative(c.Temp8)
		c.TCU++
	case arm{LSR, AbsoluteX, 5}:
		c.TCU++
	case arm{LSR, ZeroPage, 4},
		arm{LSR, ZeroPageX, 5},
		arm{LSR, Absolute, 5},
		arm{LSR, AbsoluteX, 6}:
		c.write(c.Temp16, c.Temp8)
		c.TCU = 0

	//
	// ROL
	//
	case arm{ROL, Accumulator, 1}:
		carry := c.P & FlagCarry
		c.updateCarry(c.A&0x80 != 0)
		c.A = c.A<<1 | carry
		c.updateZero(c.A)
		c.updateNegative(c.A)
		c.TCU = 0
	case arm{ROL, ZeroPage, 2},
		arm{ROL, ZeroPageX, 3},
		arm{ROL, Absolute, 3},
		arm{ROL, AbsoluteX, 3}:
		c.Temp8 = c.read(c.Temp16)
		c.TCU++
	case arm{ROL, ZeroPage, 3},
		arm{ROL, ZeroPageX, 4},
		arm{ROL, Absolute, 4},
		arm{ROL, AbsoluteX, 4}:
		carry := c.P & FlagCarry
		c.updateCarry(c.Temp8&0x80 != 0)
		c.Temp8 = c.Temp8<<1 | carry
		c.updateZero(c.Temp8)
		c.updateNegative(c.Temp8)
		c.TCU++
	case arm{ROL, AbsoluteX, 5}:
		c.TCU++
	case arm{ROL, ZeroPage, 4},
		arm{ROL, ZeroPageX, 5},
		arm{ROL, Absolute, 5},
		arm{ROL, AbsoluteX, 6}:
		c.write(c.Temp16, c.Temp8)
		c.TCU = 0

	//
	// ROR
	//
	case arm{ROR, Accumulator, 1}:
		carry := c.P & FlagCarry
		c.updateCarry(c.A&0x01 != 0)
		c.A = c.A>>1 | carry<<7
		c.updateZero(c.A)
		c.updateNegative(c.A)
		c.TCU = 0
	case arm{ROR, ZeroPage, 2},
		arm{ROR, ZeroPageX, 3},
		arm{ROR, Absolute, 3},
		arm{ROR, AbsoluteX, 3}:
		c.Temp8 = c.read(c.Temp16)
		c.TCU++
	case arm{ROR, ZeroPage, 3},
		arm{ROR, ZeroPageX, 4},
		arm{ROR, Absolute, 4},
		arm{ROR, AbsoluteX, 4}:
		carry := c.P & FlagCarry
		c.updateCarry(c.Temp8&0x01 != 0)
		c.Temp8 = c.Temp8>>1 | carry<<7
		c.updateZero(c.Temp8)
		c.updateNegative(c.Temp8)
		c.TCU++
	case arm{ROR, AbsoluteX, 5}:
		c.TCU++
	case arm{ROR, ZeroPage, 4},
		arm{ROR, ZeroPageX, 5},
		arm{ROR, Absolute, 5},
		arm{ROR, AbsoluteX, 6}:
		c.write(c.Temp16, c.Temp8)
		c.TCU = 0

	//
	// BBR / BBS
	//
	case arm{BBR, Relative, 1}, arm{BBS, Relative, 1}:
		c.Temp16 = uint16(c.fetch())
		c.TCU++
	case arm{BBR, Relative, 2}, arm{BBS, Relative, 2}:
		c.Temp8 = c.fetch()
		c.TCU++
	case arm{BBR, Relative, 3}, arm{BBS, Relative, 3}:
		c.Temp16 = uint16(c.read(c.Temp16))
		c.TCU++
	case arm{BBR, Relative, 4}:
		if !mask.Bit(byte(c.Temp16), c.IR.Bit) {
			c.offsetPC(c.Temp8)
		}
		c.TCU = 0
	case arm{BBS, Relative, 4}:
		if mask.Bit(byte(c.Temp16), c.IR.Bit) {
			c.offsetPC(c.Temp8)
		}
		c.TCU = 0

	//
	// Branches
	//
	case arm{BCC, Relative, 1}:
		c.branch(FlagCarry, false)
	case arm{BCS, Relative, 1}:
		c.branch(FlagCarry, true)
	case arm{BEQ, Relative, 1}:
		c.branch(FlagZero, true)
	case arm{BNE, Relative, 1}:
		c.branch(FlagZero, false)
	case arm{BMI, Relative, 1}:
		c.branch(FlagNegative, true)
	case arm{BPL, Relative, 1}:
		c.branch(FlagNegative, false)
	case arm{BVC, Relative, 1}:
		c.branch(FlagOverflow, false)
	case arm{BVS, Relative, 1}:
		c.branch(FlagOverflow, true)
	case arm{BRA, Relative, 1}:
		c.Temp8 = c.fetch()
		c.TCU++

	//
	// BIT
	//
	case arm{BIT, Immediate, 1}:
		c.updateZero(c.A & c.fetch())
		c.TCU = 0
	case arm{BIT, ZeroPage, 2},
		arm{BIT, ZeroPageX, 3},
		arm{BIT, Absolute, 3},
		arm{BIT, AbsoluteX, 3}:
		op := c.read(c.Temp16)
		c.updateZero(c.A & op)
		c.updateOverflow(op&0x40 != 0)
		c.updateNegative(op)
		c.TCU = 0

	//
	// BRK: the Stack form is the instruction, the Implied form is the
	// sequencer's interrupt entry
	//
	case arm{BRK, Stack, 1}:
		c.P |= FlagBreak
		c.fetch()
		c.TCU++
	case arm{BRK, Implied, 1}:
		c.TCU++
	case arm{BRK, Stack, 2}, arm{BRK, Implied, 2}:
		c.push(mask.Hi(c.PC))
		c.TCU++
	case arm{BRK, Stack, 3}, arm{BRK, Implied, 3}:
		c.push(mask.Lo(c.PC))
		c.TCU++
	case arm{BRK, Stack, 4}, arm{BRK, Implied, 4}:
		c.push(c.P | FlagUser)
		c.TCU++
	case arm{BRK, Stack, 5}, arm{BRK, Implied, 5}:
		c.P |= FlagIRQB
		c.P &^= FlagDecimal
		c.PC = uint16(c.read(0xfffe))
		c.TCU++
	case arm{BRK, Stack, 6}, arm{BRK, Implied, 6}:
		c.PC = mask.Word(c.read(0xffff), mask.Lo(c.PC))
		c.TCU = 0

	//
	// Flag operations
	//
	case arm{CLC, Implied, 1}:
		c.updateCarry(false)
		c.TCU = 0
	case arm{SEC, Implied, 1}:
		c.updateCarry(true)
		c.TCU = 0
	case arm{CLD, Implied, 1}:
		c.P &^= FlagDecimal
		c.TCU = 0
	case arm{SED, Implied, 1}:
		c.P |= FlagDecimal
		c.TCU = 0
	case arm{CLI, Implied, 1}:
		c.P &^= FlagIRQB
		c.TCU = 0
	case arm{SEI, Implied, 1}:
		c.P |= FlagIRQB
		c.TCU = 0
	case arm{CLV, Implied, 1}:
		c.updateOverflow(false)
		c.TCU = 0

	//
	// Compares
	//
	case arm{CMP, Immediate, 1},
		arm{CMP, ZeroPage, 2},
		arm{CMP, ZeroPageX, 3},
		arm{CMP, Absolute, 3},
		arm{CMP, AbsoluteX, 3},
		arm{CMP, AbsoluteY, 3},
		arm{CMP, IndirectX, 5},
		arm{CMP, IndirectY, 4},
		arm{CMP, ZPIndirect, 4}:
		c.compare(c.A, c.operand())
	case arm{CPX, Immediate, 1},
		arm{CPX, ZeroPage, 2},
		arm{CPX, Absolute, 3}:
		c.compare(c.X, c.operand())
	case arm{CPY, Immediate, 1},
		arm{CPY, ZeroPage, 2},
		arm{CPY, Absolute, 3}:
		c.compare(c.Y, c.operand())

	//
	// DEC / INC
	//
	case arm{DEC, Accumulator, 1}:
		c.A--
		c.updateZero(c.A)
		c.updateNegative(c.A)
		c.TCU = 0
	case arm{DEC, ZeroPage, 2},
		arm{DEC, ZeroPageX, 3},
		arm{DEC, Absolute, 3},
		arm{DEC, AbsoluteX, 3}:
		c.Temp8 = c.read(c.Temp16)
		c.TCU++
	case arm{DEC, ZeroPage, 3},
		arm{DEC, ZeroPageX, 4},
		arm{DEC, Absolute, 4},
		arm{DEC, AbsoluteX, 4}:
		c.Temp8--
		c.updateZero(c.Temp8)
		c.updateNegative(c.Temp8)
		c.TCU++
	case arm{DEC, ZeroPage, 4},
		arm{DEC, ZeroPageX, 5},
		arm{DEC, Absolute, 5},
		arm{DEC, AbsoluteX, 5}:
		c.write(c.Temp16, c.Temp8)
		c.TCU = 0

	case arm{INC, Accumulator, 1}:
		c.A++
		c.updateZero(c.A)
		c.updateNegative(c.A)
		c.TCU = 0
	case arm{INC, ZeroPage, 2},
		arm{INC, ZeroPageX, 3},
		arm{INC, Absolute, 3},
		arm{INC, AbsoluteX, 3}:
		c.Temp8 = c.read(c.Temp16)
		c.TCU++
	case arm{INC, ZeroPage, 3},
		arm{INC, ZeroPageX, 4},
		arm{INC, Absolute, 4},
		arm{INC, AbsoluteX, 4}:
		c.Temp8++
		c.updateZero(c.Temp8)
		c.updateNegative(c.Temp8)
		c.TCU++
	case arm{INC, ZeroPage, 4},
		arm{INC, ZeroPageX, 5},
		arm{INC, Absolute, 5},
		arm{INC, AbsoluteX, 5}:
		c.write(c.Temp16, c.Temp8)
		c.TCU = 0

	case arm{DEX, Implied, 1}:
		c.X--
		c.updateZero(c.X)
		c.updateNegative(c.X)
		c.TCU = 0
	case arm{DEY, Implied, 1}:
		c.Y--
		c.updateZero(c.Y)
		c.updateNegative(c.Y)
		c.TCU = 0
	case arm{INX, Implied, 1}:
		c.X++
		c.updateZero(c.X)
		c.updateNegative(c.X)
		c.TCU = 0
	case arm{INY, Implied, 1}:
		c.Y++
		c.updateZero(c.Y)
		c.updateNegative(c.Y)
		c.TCU = 0

	//
	// JMP
	//
	case arm{JMP, Absolute, 2}:
		c.PC = mask.Word(c.fetch(), mask.Lo(c.Temp16))
		c.TCU = 0
	case arm{JMP, Indirect, 3}, arm{JMP, AbsIndirectX, 3}:
		c.Temp8 = c.read(c.Temp16)
		c.TCU++
	case arm{JMP, AbsIndirectX, 4}:
		c.TCU++
	case arm{JMP, Indirect, 4}, arm{JMP, AbsIndirectX, 5}:
		c.PC = mask.Word(c.read(c.Temp16+1), c.Temp8)
		c.TCU = 0

	//
	// JSR
	//
	case arm{JSR, Absolute, 1}:
		c.Temp16 = uint16(c.fetch())
		c.TCU++
	case arm{JSR, Absolute, 2}:
		c.peekStack()
		c.TCU++
	case arm{JSR, Absolute, 3}:
		c.push(mask.Hi(c.PC))
		c.TCU++
	case arm{JSR, Absolute, 4}:
		c.push(mask.Lo(c.PC))
		c.TCU++
	case arm{JSR, Absolute, 5}:
		c.PC = mask.Word(c.fetch(), mask.Lo(c.Temp16))
		c.TCU = 0

	//
	// Loads
	//
	case arm{LDA, Immediate, 1},
		arm{LDA, ZeroPage, 2},
		arm{LDA, ZeroPageX, 3},
		arm{LDA, Absolute, 3},
		arm{LDA, AbsoluteX, 3},
		arm{LDA, AbsoluteY, 3},
		arm{LDA, IndirectX, 5},
		arm{LDA, IndirectY, 4},
		arm{LDA, ZPIndirect, 4}:
		c.A = c.operand()
		c.updateZero(c.A)
		c.updateNegative(c.A)
		c.TCU = 0
	case arm{LDX, Immediate, 1},
		arm{LDX, ZeroPage, 2},
		arm{LDX, ZeroPageY, 3},
		arm{LDX, Absolute, 3},
		arm{LDX, AbsoluteY, 3}:
		c.X = c.operand()
		c.updateZero(c.X)
		c.updateNegative(c.X)
		c.TCU = 0
	case arm{LDY, Immediate, 1},
		arm{LDY, ZeroPage, 2},
		arm{LDY, ZeroPageX, 3},
		arm{LDY, Absolute, 3},
		arm{LDY, AbsoluteX, 3}:
		c.Y = c.operand()
		c.updateZero(c.Y)
		c.updateNegative(c.Y)
		c.TCU = 0

	//
	// Stack pushes
	//
	case arm{PHA, Stack, 1}:
		c.push(c.A)
		c.TCU++
	case arm{PHP, Stack, 1}:
		c.push(c.P | FlagBreak | FlagUser)
		c.TCU++
	case arm{PHX, Stack, 1}:
		c.push(c.X)
		c.TCU++
	case arm{PHY, Stack, 1}:
		c.push(c.Y)
		c.TCU++
	case arm{PHA, Stack, 2}, arm{PHP, Stack, 2}, arm{PHX, Stack, 2}, arm{PHY, Stack, 2}:
		c.TCU = 0

	//
	// Stack pulls
	//
	case arm{PLA, Stack, 1}:
		c.A = c.pop()
		c.updateZero(c.A)
		c.updateNegative(c.A)
		c.TCU++
	case arm{PLX, Stack, 1}:
		c.X = c.pop()
		c.updateZero(c.X)
		c.updateNegative(c.X)
		c.TCU++
	case arm{PLY, Stack, 1}:
		c.Y = c.pop()
		c.updateZero(c.Y)
		c.updateNegative(c.Y)
		c.TCU++
	case arm{PLP, Stack, 1}:
		c.P = c.pop()
		c.TCU++
	case arm{PLA, Stack, 2}, arm{PLP, Stack, 2}, arm{PLX, Stack, 2}, arm{PLY, Stack, 2}:
		c.TCU++
	case arm{PLA, Stack, 3}, arm{PLP, Stack, 3}, arm{PLX, Stack, 3}, arm{PLY, Stack, 3}:
		c.TCU = 0

	//
	// RMB / SMB
	//
	case arm{RMB, ZeroPage, 2}, arm{SMB, ZeroPage, 2}:
		c.Temp8 = c.read(c.Temp16)
		c.TCU++
	case arm{RMB, ZeroPage, 3}:
		c.Temp8 = mask.ClearBit(c.Temp8, c.IR.Bit)
		c.TCU++
	case arm{SMB, ZeroPage, 3}:
		c.Temp8 = mask.SetBit(c.Temp8, c.IR.Bit)
		c.TCU++
	case arm{RMB, ZeroPage, 4}, arm{SMB, ZeroPage, 4}:
		c.write(c.Temp16, c.Temp8)
		c.TCU = 0

	//
	// TRB / TSB
	//
	case arm{TRB, ZeroPage, 2},
		arm{TRB, Absolute, 3},
		arm{TSB, ZeroPage, 2},
		arm{TSB, Absolute, 3}:
		c.Temp8 = c.read(c.Temp16)
		c.TCU++
	case arm{TRB, ZeroPage, 3}, arm{TRB, Absolute, 4}:
		c.updateZero(c.A & c.Temp8)
		c.Temp8 &^= c.A
		c.TCU++
	case arm{TSB, ZeroPage, 3}, arm{TSB, Absolute, 4}:
		c.updateZero(c.A & c.Temp8)
		c.Temp8 |= c.A
		c.TCU++
	case arm{TRB, ZeroPage, 4},
		arm{TRB, Absolute, 5},
		arm{TSB, ZeroPage, 4},
		arm{TSB, Absolute, 5}:
		c.write(c.Temp16, c.Temp8)
		c.TCU = 0

	//
	// RTI
	//
	case arm{RTI, Stack, 1}:
		// the Break bit of the pushed value is not a real flag; ignore it
		c.P = c.pop()&^FlagBreak | FlagUser
		c.TCU++
	case arm{RTI, Stack, 2}:
		c.TCU++
	case arm{RTI, Stack, 3}:
		c.PC = uint16(c.pop())
		c.TCU++
	case arm{RTI, Stack, 4}:
		c.TCU++
	case arm{RTI, Stack, 5}:
		c.PC = mask.Word(c.pop(), mask.Lo(c.PC))
		c.TCU = 0

	//
	// RTS
	//
	case arm{RTS, Stack, 1}:
		c.fetch()
		c.TCU++
	case arm{RTS, Stack, 2}:
		c.peekStack()
		c.TCU++
	case arm{RTS, Stack, 3}:
		c.Temp16 = uint16(c.pop())
		c.TCU++
	case arm{RTS, Stack, 4}:
		c.Temp16 = mask.Word(c.pop(), mask.Lo(c.Temp16))
		c.TCU++
	case arm{RTS, Stack, 5}:
		c.PC = c.Temp16
		c.fetch()
		c.TCU = 0

	//
	// Stores
	//
	case arm{STA, AbsoluteX, 3},
		arm{STA, AbsoluteY, 3},
		arm{STA, IndirectY, 4},
		arm{STZ, AbsoluteX, 3}:
		c.TCU++
	case arm{STA, ZeroPage, 2},
		arm{STA, ZeroPageX, 3},
		arm{STA, Absolute, 3},
		arm{STA, AbsoluteX, 4},
		arm{STA, AbsoluteY, 4},
		arm{STA, IndirectX, 5},
		arm{STA, IndirectY, 5},
		arm{STA, ZPIndirect, 4}:
		c.write(c.Temp16, c.A)
		c.TCU = 0
	case arm{STX, ZeroPage, 2},
		arm{STX, ZeroPageY, 3},
		arm{STX, Absolute, 3}:
		c.write(c.Temp16, c.X)
		c.TCU = 0
	case arm{STY, ZeroPage, 2},
		arm{STY, ZeroPageX, 3},
		arm{STY, Absolute, 3}:
		c.write(c.Temp16, c.Y)
		c.TCU = 0
	case arm{STZ, ZeroPage, 2},
		arm{STZ, ZeroPageX, 3},
		arm{STZ, Absolute, 3},
		arm{STZ, AbsoluteX, 4}:
		c.write(c.Temp16, 0)
		c.TCU = 0

	//
	// Transfers
	//
	case arm{TAX, Implied, 1}:
		c.X = c.A
		c.updateZero(c.X)
		c.updateNegative(c.X)
		c.TCU = 0
	case arm{TAY, Implied, 1}:
		c.Y = c.A
		c.updateZero(c.Y)
		c.updateNegative(c.Y)
		c.TCU = 0
	case arm{TSX, Implied, 1}:
		c.X = c.S
		c.updateZero(c.X)
		c.updateNegative(c.X)
		c.TCU = 0
	case arm{TXA, Implied, 1}:
		c.A = c.X
		c.updateZero(c.A)
		c.updateNegative(c.A)
		c.TCU = 0
	case arm{TXS, Implied, 1}:
		c.S = c.X
		c.TCU = 0
	case arm{TYA, Implied, 1}:
		c.A = c.Y
		c.updateZero(c.A)
		c.updateNegative(c.A)
		c.TCU = 0

	//
	// STP / WAI
	//
	case arm{STP, Implied, 1}:
		c.TCU++
	case arm{STP, Implied, 2}:
		c.State = Halt
		c.TCU = 0
	case arm{WAI, Implied, 1}:
		c.TCU++
	case arm{WAI, Implied, 2}:
		c.State = Wait
		c.TCU = 0

	default:
		if !c.modeStep() {
			c.haltDecode()
		}
	}
}

// modeStep runs the shared address-mode setup arms: operand address into
// Temp16 (or pointer byte into Temp8), index registers applied where the
// mode says so. Reports whether the (mode, TCU) pair was one of its arms.
func (c *CPU) modeStep() bool {
	switch (modeArm{c.IR.Mode, c.TCU}) {

	// fetch the address low byte
	case modeArm{Absolute, 1},
		modeArm{AbsIndirectX, 1},
		modeArm{AbsoluteX, 1},
		modeArm{AbsoluteY, 1},
		modeArm{Indirect, 1},
		modeArm{ZeroPage, 1},
		modeArm{ZeroPageX, 1},
		modeArm{ZeroPageY, 1}:
		c.Temp16 = uint16(c.fetch())
		c.TCU++

	// fetch the address high byte
	case modeArm{Absolute, 2}, modeArm{Indirect, 2}:
		c.Temp16 = mask.Word(c.fetch(), mask.Lo(c.Temp16))
		c.TCU++

	// fetch the high byte and index
	case modeArm{AbsoluteX, 2}, modeArm{AbsIndirectX, 2}:
		c.Temp16 = mask.Word(c.fetch(), mask.Lo(c.Temp16)) + uint16(c.X)
		c.TCU++
	case modeArm{AbsoluteY, 2}:
		c.Temp16 = mask.Word(c.fetch(), mask.Lo(c.Temp16)) + uint16(c.Y)
		c.TCU++

	// taken branch: move PC
	case modeArm{Relative, 2}:
		c.offsetPC(c.Temp8)
		c.TCU = 0

	// zero-page indexing wraps within the page
	case modeArm{ZeroPageX, 2}:
		c.Temp16 = uint16(byte(c.Temp16) + c.X)
		c.TCU++
	case modeArm{ZeroPageY, 2}:
		c.Temp16 = uint16(byte(c.Temp16) + c.Y)
		c.TCU++

	// fetch the zero-page pointer
	case modeArm{IndirectX, 1}, modeArm{ZPIndirect, 1}, modeArm{IndirectY, 1}:
		c.Temp8 = c.fetch()
		c.TCU++

	// pre-index the pointer by x
	case modeArm{IndirectX, 2}:
		c.Temp8 += c.X
		c.TCU++

	// read the pointer low byte
	case modeArm{IndirectX, 3}, modeArm{ZPIndirect, 2}, modeArm{IndirectY, 2}:
		c.Temp16 = uint16(c.read(uint16(c.Temp8)))
		c.TCU++

	// read the pointer high byte
	case modeArm{IndirectX, 4}, modeArm{ZPIndirect, 3}:
		c.Temp16 = mask.Word(c.read(uint16(c.Temp8+1)), mask.Lo(c.Temp16))
		c.TCU++

	// read the pointer high byte, then post-index by y
	case modeArm{IndirectY, 3}:
		c.Temp16 = mask.Word(c.read(uint16(c.Temp8+1)), mask.Lo(c.Temp16)) + uint16(c.Y)
		c.TCU++

	default:
		return false
	}
	return true
}
