// Package cpu implements the WDC 65C02S microprocessor as a cycle-stepped
// micro-sequencer: every call to Cycle is exactly one clock tick and issues
// at most one bus transaction, so instruction timing falls out of the
// interpreter rather than being bolted on afterwards.
//
// https://www.westerndesigncenter.com/wdc/documentation/w65c02s.pdf

package cpu

import (
	"fmt"

	"github.com/charmbracelet/log"

	"breadboard/mask"
)

// Bus is the CPU's window onto the rest of the machine. Peek must be free of
// side effects; it exists for debuggers, not for the sequencer.
type Bus interface {
	Peek(addr uint16) byte
	Read(addr uint16) byte
	Write(addr uint16, data byte)
}

// State is the coarse run mode of the CPU.
type State uint8

const (
	// Init is the reset sequence: five dead cycles, then the reset
	// vector at 0xFFFC/0xFFFD.
	Init State = iota
	// Run is normal fetch/execute operation.
	Run
	// Wait is entered by WAI; only an interrupt leaves it.
	Wait
	// Halt is entered by STP or by an unhandled decode; Cycle becomes a
	// no-op.
	Halt
)

func (s State) String() string {
	return [...]string{"Init", "Run", "Wait", "Halt"}[s]
}

// Processor status flag bits.
const (
	FlagCarry    byte = 0x01
	FlagZero     byte = 0x02
	FlagIRQB     byte = 0x04 // interrupt disable
	FlagDecimal  byte = 0x08
	FlagBreak    byte = 0x10
	FlagUser     byte = 0x20
	FlagOverflow byte = 0x40
	FlagNegative byte = 0x80
)

// IR is the decoded instruction register: what to do and how to find the
// operand. Bit carries the bit index of the BBR/BBS/RMB/SMB families; Len
// and Cyc parameterize the NOP that stands in for undefined opcodes.
type IR struct {
	Inst Instruction
	Mode AddressMode
	Bit  uint8
	Len  uint8
	Cyc  uint8
}

func (ir IR) String() string {
	switch ir.Inst {
	case BBR, BBS, RMB, SMB:
		return fmt.Sprintf("%v%d [%v]", ir.Inst, ir.Bit, ir.Mode)
	}
	return fmt.Sprintf("%v [%v]", ir.Inst, ir.Mode)
}

// CPU is the processor state. Registers are exported for the debugger's
// read-only introspection; mutation goes through Cycle alone.
type CPU struct {
	Bus Bus

	State State
	IR    IR
	TCU   uint8 // timing control unit: sub-step of the current instruction

	A  byte   // accumulator
	X  byte   // index register x
	Y  byte   // index register y
	P  byte   // processor status
	PC uint16 // program counter
	S  byte   // stack pointer; the stack lives at 0x0100..0x01ff

	Temp8  byte   // operand scratch
	Temp16 uint16 // address scratch

	init uint8 // reset sequence counter
	irq  bool  // asynchronous interrupt input, sampled at fetch
}

// New returns a CPU at the start of its reset sequence.
func New(bus Bus) *CPU {
	return &CPU{Bus: bus, IR: IR{Inst: NOP, Mode: Implied, Len: 1, Cyc: 2}}
}

// SetInterrupt drives the asynchronous interrupt input. The system refreshes
// it after every tick from the peripheral adapter's summary line.
func (c *CPU) SetInterrupt(v bool) {
	c.irq = v
}

// Halted reports whether the CPU has stopped for good.
func (c *CPU) Halted() bool {
	return c.State == Halt
}

// Cycle advances the CPU exactly one clock tick.
func (c *CPU) Cycle() {
	switch c.State {
	case Init:
		switch c.init {
		case 5:
			c.PC = uint16(c.read(0xfffc))
			c.init++
		case 6:
			c.PC = mask.Word(c.read(0xfffd), mask.Lo(c.PC))
			c.State = Run
		default:
			c.init++
		}
	case Run:
		c.step()
	case Wait:
		if c.irq && c.P&FlagIRQB == 0 {
			c.IR = IR{Inst: BRK, Mode: Implied}
			c.TCU = 1
			c.State = Run
		}
	case Halt:
	}
}

func (c *CPU) read(addr uint16) byte {
	return c.Bus.Read(addr)
}

func (c *CPU) write(addr uint16, data byte) {
	c.Bus.Write(addr, data)
}

// fetch reads the byte at PC and advances PC.
func (c *CPU) fetch() byte {
	val := c.read(c.PC)
	c.PC++
	return val
}

// push writes to the stack page and decrements S, wrapping within the page.
func (c *CPU) push(val byte) {
	c.write(0x0100|uint16(c.S), val)
	c.S--
}

// pop increments S and reads from the stack page.
func (c *CPU) pop() byte {
	c.S++
	return c.read(0x0100 | uint16(c.S))
}

// peekStack reads the stack page without moving S; the real part issues
// this dummy access on some stack-mode cycles.
func (c *CPU) peekStack() byte {
	return c.read(0x0100 | uint16(c.S))
}

func (c *CPU) updateZero(val byte) {
	c.P = putFlag(c.P, FlagZero, val == 0)
}

func (c *CPU) updateNegative(val byte) {
	c.P = putFlag(c.P, FlagNegative, val&0x80 != 0)
}

func (c *CPU) updateCarry(v bool) {
	c.P = putFlag(c.P, FlagCarry, v)
}

func (c *CPU) updateOverflow(v bool) {
	c.P = putFlag(c.P, FlagOverflow, v)
}

func putFlag(p byte, flag byte, v bool) byte {
	if v {
		return p | flag
	}
	return p &^ flag
}

// FlagString renders P in the debugger's NO-BDIZC order.
func FlagString(p byte) string {
	names := []byte("CZIDB-ON")
	out := make([]byte, 8)
	for i := 0; i < 8; i++ {
		if p&(1<<(7-i)) != 0 {
			out[i] = names[7-i]
		} else {
			out[i] = '-'
		}
	}
	return string(out)
}

// haltDecode records an unhandled (instruction, mode, TCU) combination. The host
// observes it through Halted; per the error model this is recoverable by the
// user, not by the program.
func (c *CPU) haltDecode() {
	log.Warn("cpu: no handler", "ir", c.IR.String(), "tcu", c.TCU, "pc", fmt.Sprintf("%04x", c.PC))
	c.State = Halt
}
