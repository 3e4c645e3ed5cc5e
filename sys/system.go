// Package sys assembles the boards. Ownership runs down a single tree:
// System → CPU → Bus → devices, with the VIA owning the Ports collaborator
// that owns the display and controller. External collaborators borrow
// through the accessors for the duration of a call.

package sys

import (
	"breadboard/cpu"
	"breadboard/lcd"
	"breadboard/mem"
	"breadboard/pad"
	"breadboard/via"
)

// System is what the debugger drives: one tick at a time, with read-only
// introspection of the parts. Boards without a display or controller return
// nil from those accessors.
type System interface {
	Cycle()
	Halted() bool
	Peek(addr uint16) byte

	CPU() *cpu.CPU
	RAM() *mem.RAM
	Display() *lcd.LCD
	Controller() *pad.Pad
	Peripheral() *via.VIA
}

// Breadboard is the full single-board computer: CPU, 16K RAM, 32K ROM, VIA,
// LCD and controller.
type Breadboard struct {
	cpu   *cpu.CPU
	bus   *Bus
	ports *Ports
}

// NewBreadboard wires the board around a ROM image.
func NewBreadboard(romPath string) (*Breadboard, error) {
	rom, err := mem.LoadROM(romPath)
	if err != nil {
		return nil, err
	}

	ports := NewPorts()
	bus := &Bus{
		RAM: mem.NewRAM(0x4000),
		ROM: rom,
		VIA: via.New(ports),
	}

	return &Breadboard{
		cpu:   cpu.New(bus),
		bus:   bus,
		ports: ports,
	}, nil
}

// Cycle advances the whole board one clock tick: the CPU first (its bus
// traffic reaches device registers synchronously), then the VIA's timer,
// then the display's busy counter. The VIA's interrupt line is sampled
// after its cycle and becomes the CPU's interrupt input for the next tick.
func (b *Breadboard) Cycle() {
	b.cpu.Cycle()
	b.cpu.SetInterrupt(b.bus.VIA.Cycle())
	b.ports.LCD.Cycle()
}

func (b *Breadboard) Halted() bool {
	return b.cpu.Halted()
}

func (b *Breadboard) Peek(addr uint16) byte {
	return b.bus.Peek(addr)
}

func (b *Breadboard) CPU() *cpu.CPU        { return b.cpu }
func (b *Breadboard) RAM() *mem.RAM        { return b.bus.RAM }
func (b *Breadboard) Display() *lcd.LCD    { return b.ports.LCD }
func (b *Breadboard) Controller() *pad.Pad { return b.ports.Pad }
func (b *Breadboard) Peripheral() *via.VIA { return b.bus.VIA }
