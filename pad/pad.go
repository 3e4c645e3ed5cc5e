// Package pad implements the SNES-style game pad: eight buttons behind a
// parallel-in serial-out shift register. The host strobes the latch pin to
// sample all buttons at once, then pulses the clock pin to shift them out
// one at a time, A first.

package pad

import "github.com/charmbracelet/log"

// A Button identifies one of the eight inputs by its bit position in the
// shift register. The wire protocol is active low: pressed = bit cleared.
type Button uint8

const (
	A Button = iota
	B
	Select
	Start
	Up
	Down
	Left
	Right
)

func (b Button) String() string {
	return [...]string{"A", "B", "Select", "Start", "Up", "Down", "Left", "Right"}[b]
}

// Pad holds the three 8-bit registers of the controller.
type Pad struct {
	state byte // live button levels; presses update this immediately
	latch byte // sampled levels; transfers to shift on the latch pin
	shift byte // serial register; bit 0 is the wire
}

// New returns a pad with every button released.
func New() *Pad {
	return &Pad{state: 0xff, latch: 0xff, shift: 0xff}
}

// OnPress records a button press. The latch register is updated too so a
// press between latch strobes is not lost.
func (p *Pad) OnPress(btn Button) {
	p.state &^= 1 << btn
	p.latch &^= 1 << btn
}

// OnRelease records a button release.
func (p *Pad) OnRelease(btn Button) {
	p.state |= 1 << btn
}

// Peek returns the serial output pin without logging.
func (p *Pad) Peek() byte {
	return p.shift & 1
}

// Read returns the serial output pin: bit 0 of the shift register.
func (p *Pad) Read() byte {
	log.Debug("pad", "op", "R", "data", p.shift&1)
	return p.shift & 1
}

// Write drives the latch and clock pins. A high latch reloads the shift
// register from the latched sample and re-samples the live state; a high
// clock shifts the next button onto the output pin.
func (p *Pad) Write(latch bool, clk bool) {
	log.Debug("pad", "op", "W", "latch", latch, "clk", clk)

	if latch {
		p.shift = p.latch
		p.latch = p.state
	}

	if clk {
		p.shift >>= 1
	}
}
