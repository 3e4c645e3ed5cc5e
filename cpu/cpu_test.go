package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flatBus backs the whole address space with RAM; good enough to exercise
// every instruction.
type flatBus struct {
	mem [0x10000]byte
}

func (b *flatBus) Peek(addr uint16) byte        { return b.mem[addr] }
func (b *flatBus) Read(addr uint16) byte        { return b.mem[addr] }
func (b *flatBus) Write(addr uint16, data byte) { b.mem[addr] = data }

// load places a program at 0x0400 and returns a running CPU pointed at it.
func load(program ...byte) (*CPU, *flatBus) {
	bus := &flatBus{}
	copy(bus.mem[0x0400:], program)
	c := New(bus)
	c.State = Run
	c.PC = 0x0400
	return c, bus
}

// step runs one full instruction and returns the cycles it took.
func step(c *CPU) int {
	n := 0
	for {
		c.Cycle()
		n++
		if c.TCU == 0 || c.Halted() {
			return n
		}
	}
}

func TestResetSequence(t *testing.T) {
	bus := &flatBus{}
	bus.mem[0xfffc] = 0x34
	bus.mem[0xfffd] = 0x12
	bus.mem[0x1234] = 0xea // NOP

	c := New(bus)
	for i := 0; i < 8; i++ {
		c.Cycle()
	}
	assert.Equal(t, Run, c.State)
	assert.Equal(t, uint16(0x1235), c.PC)

	c.Cycle()
	assert.Equal(t, uint8(0), c.TCU, "NOP completes on the ninth tick")
}

func TestLDAImmediate(t *testing.T) {
	c, _ := load(0xa9, 0x42) // LDA #$42
	n := step(c)

	assert.Equal(t, 2, n)
	assert.Equal(t, byte(0x42), c.A)
	assert.Equal(t, byte(0), c.P&FlagZero)
	assert.Equal(t, byte(0), c.P&FlagNegative)

	c, _ = load(0xa9, 0x00)
	step(c)
	assert.NotEqual(t, byte(0), c.P&FlagZero)

	c, _ = load(0xa9, 0x80)
	step(c)
	assert.NotEqual(t, byte(0), c.P&FlagNegative)
}

func TestLDASTARoundTrip(t *testing.T) {
	// LDA #$42 ; STA $10 ; LDA #$00 ; LDA $10
	c, bus := load(0xa9, 0x42, 0x85, 0x10, 0xa9, 0x00, 0xa5, 0x10)

	step(c)
	assert.Equal(t, 3, step(c))
	assert.Equal(t, byte(0x42), bus.mem[0x0010])

	step(c)
	assert.Equal(t, byte(0x00), c.A)
	assert.Equal(t, 3, step(c))
	assert.Equal(t, byte(0x42), c.A)
}

func TestAddressModes(t *testing.T) {
	tests := []struct {
		name    string
		program []byte
		setup   func(c *CPU, bus *flatBus)
		cycles  int
	}{
		{"absolute", []byte{0xad, 0x00, 0x20}, func(c *CPU, b *flatBus) {
			b.mem[0x2000] = 0x42
		}, 4},
		{"absolute,x", []byte{0xbd, 0x00, 0x20}, func(c *CPU, b *flatBus) {
			c.X = 5
			b.mem[0x2005] = 0x42
		}, 4},
		{"absolute,y", []byte{0xb9, 0x00, 0x20}, func(c *CPU, b *flatBus) {
			c.Y = 7
			b.mem[0x2007] = 0x42
		}, 4},
		{"zeropage", []byte{0xa5, 0x10}, func(c *CPU, b *flatBus) {
			b.mem[0x10] = 0x42
		}, 3},
		{"zeropage,x wraps", []byte{0xb5, 0xf0}, func(c *CPU, b *flatBus) {
			c.X = 0x20
			b.mem[0x10] = 0x42
		}, 4},
		{"(zp,x)", []byte{0xa1, 0x20}, func(c *CPU, b *flatBus) {
			c.X = 4
			b.mem[0x24] = 0x00
			b.mem[0x25] = 0x30
			b.mem[0x3000] = 0x42
		}, 6},
		{"(zp),y", []byte{0xb1, 0x20}, func(c *CPU, b *flatBus) {
			c.Y = 4
			b.mem[0x20] = 0x00
			b.mem[0x21] = 0x30
			b.mem[0x3004] = 0x42
		}, 5},
		{"(zp)", []byte{0xb2, 0x20}, func(c *CPU, b *flatBus) {
			b.mem[0x20] = 0x00
			b.mem[0x21] = 0x30
			b.mem[0x3000] = 0x42
		}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, bus := load(tt.program...)
			tt.setup(c, bus)
			n := step(c)
			assert.Equal(t, tt.cycles, n, "cycle count")
			assert.Equal(t, byte(0x42), c.A)
		})
	}
}

func TestADCBinaryOverflow(t *testing.T) {
	c, _ := load(0x69, 0x50) // ADC #$50
	c.A = 0x50
	step(c)

	assert.Equal(t, byte(0xa0), c.A)
	assert.Equal(t, byte(0), c.P&FlagCarry)
	assert.NotEqual(t, byte(0), c.P&FlagOverflow)
	assert.NotEqual(t, byte(0), c.P&FlagNegative)
	assert.Equal(t, byte(0), c.P&FlagZero)
}

func TestADCCarryChain(t *testing.T) {
	c, _ := load(0x69, 0x01, 0x69, 0x00) // ADC #$01 ; ADC #$00
	c.A = 0xff
	step(c)
	assert.Equal(t, byte(0x00), c.A)
	assert.NotEqual(t, byte(0), c.P&FlagCarry)
	assert.NotEqual(t, byte(0), c.P&FlagZero)

	step(c) // adds the carry back in
	assert.Equal(t, byte(0x01), c.A)
	assert.Equal(t, byte(0), c.P&FlagCarry)
}

func TestADCDecimal(t *testing.T) {
	c, _ := load(0x69, 0x27) // ADC #$27
	c.P |= FlagDecimal
	c.A = 0x15

	n := step(c)
	assert.Equal(t, 3, n, "decimal mode costs one extra cycle")
	assert.Equal(t, byte(0x42), c.A)
	assert.Equal(t, byte(0), c.P&FlagCarry)
	assert.Equal(t, byte(0), c.P&FlagZero)
}

func TestADCDecimalCarry(t *testing.T) {
	c, _ := load(0x69, 0x19) // ADC #$19
	c.P |= FlagDecimal
	c.A = 0x99

	step(c)
	assert.Equal(t, byte(0x18), c.A)
	assert.NotEqual(t, byte(0), c.P&FlagCarry)
}

func TestSBCBinary(t *testing.T) {
	c, _ := load(0x38, 0xe9, 0x10) // SEC ; SBC #$10
	c.A = 0x50
	step(c)
	step(c)

	assert.Equal(t, byte(0x40), c.A)
	assert.NotEqual(t, byte(0), c.P&FlagCarry, "no borrow")
}

func TestSBCDecimal(t *testing.T) {
	c, _ := load(0x38, 0xe9, 0x27) // SEC ; SBC #$27
	c.P |= FlagDecimal
	c.A = 0x42
	step(c)

	n := step(c)
	assert.Equal(t, 3, n)
	assert.Equal(t, byte(0x15), c.A)
	assert.NotEqual(t, byte(0), c.P&FlagCarry)
}

func TestLogicalOps(t *testing.T) {
	c, _ := load(0x29, 0x0f) // AND #$0F
	c.A = 0x35
	step(c)
	assert.Equal(t, byte(0x05), c.A)

	c, _ = load(0x09, 0xf0) // ORA #$F0
	c.A = 0x05
	step(c)
	assert.Equal(t, byte(0xf5), c.A)
	assert.NotEqual(t, byte(0), c.P&FlagNegative)

	c, _ = load(0x49, 0xff) // EOR #$FF
	c.A = 0xff
	step(c)
	assert.Equal(t, byte(0x00), c.A)
	assert.NotEqual(t, byte(0), c.P&FlagZero)
}

func TestShifts(t *testing.T) {
	c, _ := load(0x0a) // ASL A
	c.A = 0x81
	step(c)
	assert.Equal(t, byte(0x02), c.A)
	assert.NotEqual(t, byte(0), c.P&FlagCarry)

	c, _ = load(0x4a) // LSR A
	c.A = 0x01
	step(c)
	assert.Equal(t, byte(0x00), c.A)
	assert.NotEqual(t, byte(0), c.P&FlagCarry)
	assert.NotEqual(t, byte(0), c.P&FlagZero)

	c, _ = load(0x2a) // ROL A
	c.A = 0x80
	c.P |= FlagCarry
	step(c)
	assert.Equal(t, byte(0x01), c.A)
	assert.NotEqual(t, byte(0), c.P&FlagCarry)

	c, _ = load(0x6a) // ROR A
	c.A = 0x01
	c.P |= FlagCarry
	step(c)
	assert.Equal(t, byte(0x80), c.A)
	assert.NotEqual(t, byte(0), c.P&FlagCarry)
}

func TestShiftMemory(t *testing.T) {
	c, bus := load(0x06, 0x10) // ASL $10
	bus.mem[0x10] = 0x40

	n := step(c)
	assert.Equal(t, 5, n)
	assert.Equal(t, byte(0x80), bus.mem[0x10])
	assert.NotEqual(t, byte(0), c.P&FlagNegative)
}

func TestIncDec(t *testing.T) {
	c, bus := load(0xe6, 0x10) // INC $10
	bus.mem[0x10] = 0xff
	step(c)
	assert.Equal(t, byte(0x00), bus.mem[0x10])
	assert.NotEqual(t, byte(0), c.P&FlagZero)

	c, _ = load(0x1a) // INC A
	c.A = 0x7f
	step(c)
	assert.Equal(t, byte(0x80), c.A)
	assert.NotEqual(t, byte(0), c.P&FlagNegative)

	c, _ = load(0xca) // DEX
	c.X = 0x00
	step(c)
	assert.Equal(t, byte(0xff), c.X)
	assert.NotEqual(t, byte(0), c.P&FlagNegative)
}

func TestCompare(t *testing.T) {
	c, _ := load(0xc9, 0x10) // CMP #$10
	c.A = 0x20
	step(c)
	assert.NotEqual(t, byte(0), c.P&FlagCarry)
	assert.Equal(t, byte(0), c.P&FlagZero)

	c, _ = load(0xe0, 0x10) // CPX #$10
	c.X = 0x10
	step(c)
	assert.NotEqual(t, byte(0), c.P&FlagCarry)
	assert.NotEqual(t, byte(0), c.P&FlagZero)

	c, _ = load(0xc0, 0x20) // CPY #$20
	c.Y = 0x10
	step(c)
	assert.Equal(t, byte(0), c.P&FlagCarry)
	assert.NotEqual(t, byte(0), c.P&FlagNegative)
}

func TestBIT(t *testing.T) {
	c, bus := load(0x24, 0x10) // BIT $10
	bus.mem[0x10] = 0xc0
	c.A = 0x00
	step(c)
	assert.NotEqual(t, byte(0), c.P&FlagZero)
	assert.NotEqual(t, byte(0), c.P&FlagOverflow)
	assert.NotEqual(t, byte(0), c.P&FlagNegative)

	// immediate BIT touches only the zero flag
	c, _ = load(0x89, 0xc0)
	c.A = 0x00
	step(c)
	assert.NotEqual(t, byte(0), c.P&FlagZero)
	assert.Equal(t, byte(0), c.P&FlagOverflow)
	assert.Equal(t, byte(0), c.P&FlagNegative)
}

func TestBranches(t *testing.T) {
	// BEQ taken: 3 cycles, PC moves by offset
	c, _ := load(0xf0, 0x10)
	c.P |= FlagZero
	n := step(c)
	assert.Equal(t, 3, n)
	assert.Equal(t, uint16(0x0412), c.PC)

	// BEQ untaken: 2 cycles, PC past the operand
	c, _ = load(0xf0, 0x10)
	n = step(c)
	assert.Equal(t, 2, n)
	assert.Equal(t, uint16(0x0402), c.PC)

	// backwards branch
	c, _ = load(0xd0, 0xfe) // BNE -2
	n = step(c)
	assert.Equal(t, 3, n)
	assert.Equal(t, uint16(0x0400), c.PC)

	// BRA is unconditional
	c, _ = load(0x80, 0x02)
	n = step(c)
	assert.Equal(t, 3, n)
	assert.Equal(t, uint16(0x0404), c.PC)
}

func TestBBRBBS(t *testing.T) {
	c, bus := load(0x0f, 0x10, 0x05) // BBR0 $10,+5
	bus.mem[0x10] = 0x00             // bit 0 clear: branch
	n := step(c)
	assert.Equal(t, 5, n)
	assert.Equal(t, uint16(0x0408), c.PC)

	c, bus = load(0x0f, 0x10, 0x05)
	bus.mem[0x10] = 0x01 // bit 0 set: fall through
	step(c)
	assert.Equal(t, uint16(0x0403), c.PC)

	c, bus = load(0xff, 0x10, 0x05) // BBS7 $10,+5
	bus.mem[0x10] = 0x80
	step(c)
	assert.Equal(t, uint16(0x0408), c.PC)
}

func TestRMBSMB(t *testing.T) {
	c, bus := load(0x17, 0x10) // RMB1 $10
	bus.mem[0x10] = 0xff
	n := step(c)
	assert.Equal(t, 5, n)
	assert.Equal(t, byte(0xfd), bus.mem[0x10])

	c, bus = load(0xc7, 0x10) // SMB4 $10
	bus.mem[0x10] = 0x00
	step(c)
	assert.Equal(t, byte(0x10), bus.mem[0x10])
}

func TestTRBTSB(t *testing.T) {
	c, bus := load(0x14, 0x10) // TRB $10
	bus.mem[0x10] = 0xf0
	c.A = 0x30
	n := step(c)
	assert.Equal(t, 5, n)
	assert.Equal(t, byte(0xc0), bus.mem[0x10])
	assert.Equal(t, byte(0), c.P&FlagZero)

	c, bus = load(0x04, 0x10) // TSB $10
	bus.mem[0x10] = 0x0f
	c.A = 0x30
	n = step(c)
	assert.Equal(t, 5, n)
	assert.Equal(t, byte(0x3f), bus.mem[0x10])
	assert.NotEqual(t, byte(0), c.P&FlagZero, "A & old value was zero")
}

func TestJMP(t *testing.T) {
	c, _ := load(0x4c, 0x00, 0x30) // JMP $3000
	n := step(c)
	assert.Equal(t, 3, n)
	assert.Equal(t, uint16(0x3000), c.PC)

	c, bus := load(0x6c, 0x00, 0x20) // JMP ($2000)
	bus.mem[0x2000] = 0x34
	bus.mem[0x2001] = 0x12
	n = step(c)
	assert.Equal(t, 5, n)
	assert.Equal(t, uint16(0x1234), c.PC)

	c, bus = load(0x7c, 0x00, 0x20) // JMP ($2000,X)
	c.X = 2
	bus.mem[0x2002] = 0x34
	bus.mem[0x2003] = 0x12
	n = step(c)
	assert.Equal(t, 6, n)
	assert.Equal(t, uint16(0x1234), c.PC)
}

func TestJSRRTS(t *testing.T) {
	// 0400: JSR $0410 ; BRK    0410: RTS
	c, bus := load(0x20, 0x10, 0x04, 0x00)
	bus.mem[0x0410] = 0x60
	c.S = 0xff

	n := step(c)
	assert.Equal(t, 6, n)
	assert.Equal(t, byte(0xfd), c.S)
	assert.Equal(t, byte(0x04), bus.mem[0x01ff])
	assert.Equal(t, byte(0x02), bus.mem[0x01fe])
	assert.Equal(t, uint16(0x0410), c.PC)

	n = step(c)
	assert.Equal(t, 6, n)
	assert.Equal(t, byte(0xff), c.S)
	assert.Equal(t, uint16(0x0403), c.PC)
}

func TestBRKRTI(t *testing.T) {
	c, bus := load(0x00) // BRK
	bus.mem[0xfffe] = 0x00
	bus.mem[0xffff] = 0x30
	bus.mem[0x3000] = 0x40 // RTI
	c.S = 0xff
	c.P = FlagCarry

	n := step(c)
	assert.Equal(t, 7, n)
	assert.Equal(t, uint16(0x3000), c.PC)
	assert.NotEqual(t, byte(0), c.P&FlagIRQB)

	// pushed P carries the Break and User bits
	pushed := bus.mem[0x01fd]
	assert.NotEqual(t, byte(0), pushed&FlagBreak)
	assert.NotEqual(t, byte(0), pushed&FlagUser)
	assert.NotEqual(t, byte(0), pushed&FlagCarry)

	n = step(c)
	assert.Equal(t, 6, n)
	assert.Equal(t, byte(0xff), c.S)
	// BRK pushes the byte after its padding byte as the return address
	assert.Equal(t, uint16(0x0402), c.PC)
	assert.NotEqual(t, byte(0), c.P&FlagCarry, "carry restored")
}

func TestStackRoundTrips(t *testing.T) {
	// PHA/PLA, PHX/PLX, PHY/PLY restore their registers
	c, _ := load(0x48, 0xa9, 0x00, 0x68) // PHA ; LDA #0 ; PLA
	c.A = 0x5a
	c.S = 0xff
	assert.Equal(t, 3, step(c))
	step(c)
	assert.Equal(t, 4, step(c))
	assert.Equal(t, byte(0x5a), c.A)
	assert.Equal(t, byte(0xff), c.S)

	c, _ = load(0xda, 0xa2, 0x00, 0xfa) // PHX ; LDX #0 ; PLX
	c.X = 0x77
	c.S = 0xff
	step(c)
	step(c)
	step(c)
	assert.Equal(t, byte(0x77), c.X)

	c, _ = load(0x5a, 0xa0, 0x00, 0x7a) // PHY ; LDY #0 ; PLY
	c.Y = 0x33
	c.S = 0xff
	step(c)
	step(c)
	step(c)
	assert.Equal(t, byte(0x33), c.Y)
}

func TestPHPPLP(t *testing.T) {
	c, bus := load(0x08, 0x28) // PHP ; PLP
	c.S = 0xff
	c.P = FlagCarry | FlagNegative

	step(c)
	assert.Equal(t, FlagCarry|FlagNegative|FlagBreak|FlagUser, bus.mem[0x01ff])

	step(c)
	assert.NotEqual(t, byte(0), c.P&FlagCarry)
	assert.NotEqual(t, byte(0), c.P&FlagNegative)
}

func TestFlagOps(t *testing.T) {
	c, _ := load(0x38, 0x18, 0x18) // SEC ; CLC ; CLC
	step(c)
	assert.NotEqual(t, byte(0), c.P&FlagCarry)
	step(c)
	assert.Equal(t, byte(0), c.P&FlagCarry)
	step(c) // CLC is idempotent
	assert.Equal(t, byte(0), c.P&FlagCarry)
}

func TestTransfers(t *testing.T) {
	c, _ := load(0xaa, 0xa8, 0x9a, 0xba) // TAX ; TAY ; TXS ; TSX
	c.A = 0x42
	step(c)
	assert.Equal(t, byte(0x42), c.X)
	step(c)
	assert.Equal(t, byte(0x42), c.Y)
	step(c)
	assert.Equal(t, byte(0x42), c.S)
	c.S = 0x80
	step(c)
	assert.Equal(t, byte(0x80), c.X)
	assert.NotEqual(t, byte(0), c.P&FlagNegative)
}

func TestSTZ(t *testing.T) {
	c, bus := load(0x64, 0x10) // STZ $10
	bus.mem[0x10] = 0xff
	step(c)
	assert.Equal(t, byte(0x00), bus.mem[0x10])

	c, bus = load(0x9e, 0x00, 0x20) // STZ $2000,X
	c.X = 3
	bus.mem[0x2003] = 0xff
	n := step(c)
	assert.Equal(t, 5, n)
	assert.Equal(t, byte(0x00), bus.mem[0x2003])
}

func TestNOPVariants(t *testing.T) {
	tests := []struct {
		opcode byte
		length uint16
		cycles int
	}{
		{0xea, 1, 2},
		{0x03, 1, 1},
		{0x0b, 1, 1},
		{0x02, 2, 2},
		{0x44, 2, 3},
		{0x54, 2, 4},
		{0x5c, 3, 8},
		{0xdc, 3, 4},
	}

	for _, tt := range tests {
		c, _ := load(tt.opcode, 0xff, 0xff)
		n := step(c)
		assert.Equal(t, tt.cycles, n, "cycles of %02x", tt.opcode)
		assert.Equal(t, 0x0400+tt.length, c.PC, "length of %02x", tt.opcode)
		require.False(t, c.Halted())
	}
}

func TestSTP(t *testing.T) {
	c, _ := load(0xdb, 0xea)
	step(c)
	assert.True(t, c.Halted())

	pc := c.PC
	c.Cycle()
	assert.Equal(t, pc, c.PC, "halted CPU does nothing")
}

func TestWAI(t *testing.T) {
	c, bus := load(0xcb, 0xea) // WAI ; NOP
	bus.mem[0xfffe] = 0x00
	bus.mem[0xffff] = 0x30
	c.S = 0xff

	step(c)
	assert.Equal(t, Wait, c.State)

	// no interrupt: stays asleep
	c.Cycle()
	assert.Equal(t, Wait, c.State)

	// masked interrupt: stays asleep
	c.P |= FlagIRQB
	c.SetInterrupt(true)
	c.Cycle()
	assert.Equal(t, Wait, c.State)

	// unmasked interrupt: wakes into the BRK sequence
	c.P &^= FlagIRQB
	c.Cycle()
	assert.Equal(t, Run, c.State)
	for c.TCU != 0 {
		c.Cycle()
	}
	assert.Equal(t, uint16(0x3000), c.PC)
	// the return address on the stack is the instruction after WAI
	assert.Equal(t, byte(0x04), bus.mem[0x01ff])
	assert.Equal(t, byte(0x01), bus.mem[0x01fe])
}

func TestInterruptEntry(t *testing.T) {
	c, bus := load(0xea, 0xea)
	bus.mem[0xfffe] = 0x00
	bus.mem[0xffff] = 0x30
	bus.mem[0x3000] = 0x40 // RTI
	c.S = 0xff
	c.P = 0

	c.SetInterrupt(true)
	n := step(c)
	assert.Equal(t, 7, n, "interrupt entry replaces the fetch")
	assert.Equal(t, uint16(0x3000), c.PC)

	// IRQ entry leaves the Break bit clear in the pushed P
	pushed := bus.mem[0x01fd]
	assert.Equal(t, byte(0), pushed&FlagBreak)
	assert.NotEqual(t, byte(0), pushed&FlagUser)

	// RTI returns to the interrupted instruction
	c.SetInterrupt(false)
	step(c)
	assert.Equal(t, uint16(0x0400), c.PC)
}

func TestInterruptMasked(t *testing.T) {
	c, _ := load(0xea, 0xea)
	c.P |= FlagIRQB
	c.SetInterrupt(true)

	n := step(c)
	assert.Equal(t, 2, n, "masked interrupt does not preempt")
	assert.Equal(t, uint16(0x0401), c.PC)
}

func TestDecodeCoversEveryByte(t *testing.T) {
	for b := 0; b < 0x100; b++ {
		ir := Decode(byte(b))
		if ir.Inst == NOP && b != 0xea {
			assert.NotZero(t, ir.Cyc, "NOP stand-in for %02x needs timing", b)
		}
	}
}
