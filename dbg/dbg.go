// Package dbg is the interactive debugger: a line-oriented REPL over a
// running system, with an interactive run mode for driving the board in
// (roughly) real time. It consumes the core's peek/cycle/introspection
// operations only; nothing in here is required for headless emulation.

package dbg

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"

	"breadboard/cpu"
	"breadboard/mask"
	"breadboard/sys"
)

const (
	cycleTime       = time.Microsecond // paced cycle budget: ~1 MHz
	cyclesPerEpoch  = 10000
	statWindowSize  = 200
)

// Debugger wraps a system with breakpoints, symbols and cycle statistics.
type Debugger struct {
	sys         sys.System
	breakpoints []uint16
	sym2addr    map[string]uint16
	addr2sym    map[uint16]string

	cycleCount uint64
	epochStart time.Time
	avgEpoch   time.Duration

	bench bool
}

// New wraps a system for debugging.
func New(s sys.System) *Debugger {
	return &Debugger{
		sys:        s,
		sym2addr:   map[string]uint16{},
		addr2sym:   map[uint16]string{},
		epochStart: time.Now(),
		avgEpoch:   cyclesPerEpoch * statWindowSize * cycleTime,
	}
}

// cycle advances the system one tick and keeps the rolling cycle-time
// average current.
func (d *Debugger) cycle() {
	d.cycleCount++
	if d.cycleCount%cyclesPerEpoch == 0 {
		now := time.Now()
		d.avgEpoch = d.avgEpoch*(statWindowSize-1)/statWindowSize + now.Sub(d.epochStart)
		d.epochStart = now
	}
	d.sys.Cycle()
}

// StepInstruction runs cycles until the next instruction has been fetched
// (TCU back at 1), which leaves PC-1 pointing at the new opcode.
func (d *Debugger) StepInstruction() {
	d.cycle()
	for d.sys.CPU().TCU != 1 && !d.sys.Halted() {
		d.cycle()
	}
}

// atBreakpoint reports whether the freshly-fetched instruction sits on a
// breakpoint. PC has already moved past the opcode byte.
func (d *Debugger) atBreakpoint() bool {
	pc := d.sys.CPU().PC - 1
	for _, bp := range d.breakpoints {
		if bp == pc {
			return true
		}
	}
	return false
}

// RunHeadless free-runs until halt or a breakpoint.
func (d *Debugger) RunHeadless() {
	for {
		d.StepInstruction()
		if d.sys.Halted() || d.atBreakpoint() {
			return
		}
	}
}

// StepOver steps one instruction, treating a JSR as atomic by planting a
// transient breakpoint on the following instruction.
func (d *Debugger) StepOver() {
	if d.sys.CPU().IR.Inst == cpu.JSR {
		d.breakpoints = append(d.breakpoints, d.sys.CPU().PC+2)
		d.RunHeadless()
		d.breakpoints = d.breakpoints[:len(d.breakpoints)-1]
	} else {
		d.StepInstruction()
	}
}

// StepOut runs until the subroutine the CPU is currently in returns,
// tracking JSR/RTS nesting.
func (d *Debugger) StepOut() {
	depth := 0
	for {
		switch d.sys.CPU().IR.Inst {
		case cpu.JSR:
			depth++
		case cpu.RTS:
			depth--
		}

		d.StepInstruction()

		if d.sys.Halted() || depth < 0 {
			return
		}
	}
}

// AddBreakpoint resolves a symbol or hex address and registers it. Returns
// the breakpoint's index.
func (d *Debugger) AddBreakpoint(symOrAddr string) (int, error) {
	addr, ok := d.sym2addr[symOrAddr]
	if !ok {
		parsed, err := strconv.ParseUint(strings.TrimPrefix(symOrAddr, "$"), 16, 16)
		if err != nil {
			return 0, fmt.Errorf("breakpoint %q: not a symbol or hex address", symOrAddr)
		}
		addr = uint16(parsed)
	}

	for ix, bp := range d.breakpoints {
		if bp == addr {
			return ix, nil
		}
	}
	d.breakpoints = append(d.breakpoints, addr)
	return len(d.breakpoints) - 1, nil
}

// RemoveBreakpoint deletes by index.
func (d *Debugger) RemoveBreakpoint(ix int) error {
	if ix < 0 || ix >= len(d.breakpoints) {
		return fmt.Errorf("no breakpoint %d", ix)
	}
	d.breakpoints = append(d.breakpoints[:ix], d.breakpoints[ix+1:]...)
	return nil
}

// symFor renders an address through the symbol table.
func (d *Debugger) symFor(addr uint16) string {
	if s, ok := d.addr2sym[addr]; ok {
		return s
	}
	return fmt.Sprintf("$%04x", addr)
}

// Disassemble renders the instruction currently in IR, with its operand
// read (side-effect-free) from just past the opcode.
func (d *Debugger) Disassemble() string {
	c := d.sys.CPU()
	ir := c.IR

	arg8 := d.sys.Peek(c.PC)
	arg16 := mask.Word(d.sys.Peek(c.PC+1), arg8)

	name := ir.Inst.String()
	switch ir.Inst {
	case cpu.BBR, cpu.BBS, cpu.RMB, cpu.SMB:
		name = fmt.Sprintf("%s%d", name, ir.Bit)
	}

	switch ir.Mode {
	case cpu.Absolute:
		return fmt.Sprintf("%s %s", name, d.symFor(arg16))
	case cpu.AbsIndirectX:
		return fmt.Sprintf("%s (%s,x)", name, d.symFor(arg16))
	case cpu.AbsoluteX:
		return fmt.Sprintf("%s %s,x", name, d.symFor(arg16))
	case cpu.AbsoluteY:
		return fmt.Sprintf("%s %s,y", name, d.symFor(arg16))
	case cpu.Indirect:
		return fmt.Sprintf("%s (%s)", name, d.symFor(arg16))
	case cpu.Immediate:
		return fmt.Sprintf("%s #$%02x", name, arg8)
	case cpu.Relative:
		return fmt.Sprintf("%s #$%02x", name, arg8)
	case cpu.ZeroPage:
		return fmt.Sprintf("%s $%02x", name, arg8)
	case cpu.IndirectX:
		return fmt.Sprintf("%s ($%02x,x)", name, arg8)
	case cpu.ZeroPageX:
		return fmt.Sprintf("%s $%02x,x", name, arg8)
	case cpu.ZeroPageY:
		return fmt.Sprintf("%s $%02x,y", name, arg8)
	case cpu.ZPIndirect:
		return fmt.Sprintf("%s ($%02x)", name, arg8)
	case cpu.IndirectY:
		return fmt.Sprintf("%s ($%02x),y", name, arg8)
	default: // Implied, Accumulator, Stack
		return name
	}
}

// mhz is the effective emulated clock rate from the rolling average.
func (d *Debugger) mhz() float64 {
	perCycle := float64(d.avgEpoch) / float64(cyclesPerEpoch*statWindowSize)
	if perCycle == 0 {
		return 0
	}
	return 1000 / perCycle
}

// REPL runs the command loop until quit or EOF.
func (d *Debugger) REPL(in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		words := strings.Fields(scanner.Text())
		if len(words) == 0 {
			continue
		}

		switch words[0] {
		case "quit", "q":
			return nil

		case "run":
			d.runInteractive(out, argOr(words, 1, 1))
		case "bench":
			d.bench = true
			d.runInteractive(out, argOr(words, 1, 1))
			d.bench = false
		case "headless":
			d.RunHeadless()
			d.showCPU(out)

		case "step", "s":
			d.StepInstruction()
			d.showCPU(out)
		case "over", "o":
			d.StepOver()
			d.showCPU(out)
		case "out", "u":
			d.StepOut()
			d.showCPU(out)

		case "break", "b":
			if len(words) < 2 {
				fmt.Fprintln(out, "usage: break <sym|hex>")
				continue
			}
			ix, err := d.AddBreakpoint(words[1])
			if err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			fmt.Fprintln(out, ix)
		case "bp":
			for ix, bp := range d.breakpoints {
				fmt.Fprintf(out, "%d: %s\n", ix, d.symFor(bp))
			}
		case "del":
			if len(words) < 2 {
				fmt.Fprintln(out, "usage: del <index>")
				continue
			}
			ix, err := strconv.Atoi(words[1])
			if err == nil {
				err = d.RemoveBreakpoint(ix)
			}
			if err != nil {
				fmt.Fprintln(out, err)
			}

		case "cpu":
			d.showCPU(out)
		case "per":
			d.showPer(out)
		case "dsp":
			d.showDsp(out)
		case "zp":
			dumpBytes(out, d.sys.RAM().Mem[0:0x100], 0)
		case "stack":
			dumpBytes(out, d.sys.RAM().Mem[0x100:0x200], 0x100)
		case "ram":
			dumpBytes(out, d.sys.RAM().Mem[0x200:], 0x200)
		case "sys":
			spew.Fdump(out, d.sys.CPU())

		default:
			fmt.Fprintf(out, "unknown command: %s\n", words[0])
		}
	}
}

func argOr(words []string, ix int, def int) int {
	if ix >= len(words) {
		return def
	}
	n, err := strconv.Atoi(words[ix])
	if err != nil {
		return def
	}
	return n
}

func (d *Debugger) showCPU(out io.Writer) {
	c := d.sys.CPU()
	fmt.Fprintf(out, "<%s> %04x: %s\n", cpu.FlagString(c.P), c.PC-1, d.Disassemble())
	fmt.Fprintf(out, "A:%02x       X:%02x       Y:%02x          S:%02x\n", c.A, c.X, c.Y, c.S)
}

func (d *Debugger) showPer(out io.Writer) {
	per := d.sys.Peripheral()
	if per == nil {
		fmt.Fprintln(out, "no peripheral adapter on this board")
		return
	}
	ora, ddra, orb, ddrb, t1c, t1l, ifr, ier := per.Registers()
	fmt.Fprintf(out, "PA:%02x[%02x]  PB:%02x[%02x]  T1:%04x/%04x  I:%02x[%02x]\n",
		ora, ddra, orb, ddrb, t1c, t1l, ifr, ier)
}

func (d *Debugger) showDsp(out io.Writer) {
	dsp := d.sys.Display()
	if dsp == nil {
		fmt.Fprintln(out, "no display on this board")
		return
	}
	line1, line2 := dsp.Output()
	fmt.Fprintln(out, renderLCD(line1, line2))
}
