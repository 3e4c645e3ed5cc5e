// Package lcd implements the HD44780U character display controller: an
// 80-byte DDRAM behind a busy/ready state machine, driven over the 8-bit
// interface by register-select, read/write and enable pins.
//
// https://www.sparkfun.com/datasheets/LCD/HD44780.pdf

package lcd

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// A RegisterSelector names the register addressed by the RS pin.
type RegisterSelector uint8

const (
	Instruction RegisterSelector = 0
	Data        RegisterSelector = 1
)

func (r RegisterSelector) String() string {
	if r == Data {
		return "Data"
	}
	return "Instruction"
}

const (
	// internal delay charged after every committed command or data write
	opTicks = 37

	// power-on reset delay; long enough that busy-wait loops in ROMs
	// settle before the first command lands
	resetTicks = 150

	lineLen = 40
	cols    = 16
)

// LCD models the controller. The visible display is the first 16 columns of
// each 40-byte DDRAM line; bit 6 of the address counter selects the line.
type LCD struct {
	busy   int  // remaining internal-delay ticks; 0 means ready
	addr   byte // address counter (AC)
	ddram  [2 * lineLen]byte
	dirty  bool
	prevE  bool // previous enable level, for falling-edge detection
}

// New returns a display mid power-on reset, DDRAM cleared to spaces.
func New() *LCD {
	l := &LCD{busy: resetTicks}
	for i := range l.ddram {
		l.ddram[i] = ' '
	}
	return l
}

// Busy reports whether the controller is in its internal-delay state.
func (l *LCD) Busy() bool { return l.busy > 0 }

// Addr returns the current address counter.
func (l *LCD) Addr() byte { return l.addr }

// Cycle burns one tick of the internal delay.
func (l *LCD) Cycle() {
	if l.busy > 0 {
		l.busy--
	}
}

// Peek returns what Read would return, without logging.
func (l *LCD) Peek(rs RegisterSelector, rw bool, e bool) byte {
	if rs == Instruction {
		data := l.addr
		if l.busy > 0 {
			data |= 0x80
		}
		return data
	}
	return l.ddram[l.ddramIndex()]
}

// Read returns the busy flag and address counter (rs=Instruction) or the
// DDRAM byte under the address counter (rs=Data). The RW pin must be high;
// a read strobe with RW low is a wiring error.
func (l *LCD) Read(rs RegisterSelector, rw bool, e bool) byte {
	if !rw {
		panic(fmt.Sprintf("lcd read with rw low (rs=%v)", rs))
	}
	data := l.Peek(rs, rw, e)
	log.Debug("lcd", "op", "R", "rs", rs, "data", fmt.Sprintf("%02x", data))
	return data
}

// Write presents pin levels to the controller. The byte is committed only on
// a falling edge of the enable pin; every other combination just tracks the
// enable level.
func (l *LCD) Write(rs RegisterSelector, rw bool, e bool, data byte) {
	fall := l.prevE && !e
	l.prevE = e
	if !fall || rw {
		return
	}

	log.Debug("lcd", "op", "W", "rs", rs, "data", fmt.Sprintf("%02x", data))

	if rs == Instruction {
		l.command(data)
	} else {
		l.writeData(data)
	}
	l.busy = opTicks
}

// command decodes an instruction-register byte by its highest set bit.
func (l *LCD) command(data byte) {
	switch {
	case data&0x80 != 0: // set DDRAM address
		l.addr = (data & 0x7f) % (2 * lineLen)
	case data&0x40 != 0: // set CGRAM address; acknowledged only
	case data&0x20 != 0: // function set; fixed 8-bit 2-line mode
	case data&0x10 != 0: // cursor/display shift
	case data&0x08 != 0: // display on/off
	case data&0x04 != 0: // entry mode
	case data&0x02 != 0: // return home
		l.addr = 0
		l.dirty = true
	case data&0x01 != 0: // clear display
		for i := range l.ddram {
			l.ddram[i] = ' '
		}
		l.addr = 0
		l.dirty = true
	}
}

// writeData stores one byte at the address counter and advances it. Once the
// counter passes 40 on line 1 it moves to 0x40 (line 2); once it passes
// 0x40+40 on line 2 it returns to 0.
func (l *LCD) writeData(data byte) {
	l.ddram[l.ddramIndex()] = data
	l.addr++
	if l.addr&0x40 == 0 && l.addr > lineLen {
		l.addr = 0x40
	} else if l.addr&0x40 != 0 && l.addr > 0x40+lineLen {
		l.addr = 0
	}
	l.dirty = true
}

// ddramIndex maps the address counter into the flat buffer: bit 6 selects
// the second line, the low bits index within it.
func (l *LCD) ddramIndex() int {
	line := 0
	if l.addr&0x40 != 0 {
		line = 1
	}
	return (line*lineLen + int(l.addr&0x3f)) % len(l.ddram)
}

// Dirty reports whether the visible output changed since the last call, and
// clears the flag. Renderers poll this to redraw only on change.
func (l *LCD) Dirty() bool {
	d := l.dirty
	l.dirty = false
	return d
}

// Output returns the two visible 16-character lines, mapped through the
// character ROM.
func (l *LCD) Output() (string, string) {
	return l.renderLine(0), l.renderLine(1)
}

func (l *LCD) renderLine(n int) string {
	out := make([]rune, cols)
	for i := range out {
		out[i] = glyph(l.ddram[n*lineLen+i])
	}
	return string(out)
}

// glyph maps a character code to its displayable rune. Codes the character
// ROM has no glyph for render as space.
func glyph(code byte) rune {
	if code >= 0x20 && code <= 0x7d {
		return rune(code)
	}
	return ' '
}
