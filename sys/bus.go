package sys

import (
	"fmt"

	"breadboard/lcd"
	"breadboard/mem"
	"breadboard/pad"
	"breadboard/via"
)

// Address decoding: each device answers where (addr & mask) == value, and
// sees addr & ^mask as its local offset. The three windows are disjoint by
// construction, so exactly one device responds to every mapped address.
//
//	RAM  0x0000-0x3fff
//	VIA  0x6000-0x600f
//	ROM  0x8000-0xffff
const (
	ramMask uint16 = 0xc000
	ramVal  uint16 = 0x0000
	perMask uint16 = 0xfff0
	perVal  uint16 = 0x6000
	romMask uint16 = 0x8000
	romVal  uint16 = 0x8000
)

// Bus is the breadboard's address decoder. It is a closed set of three
// devices, dispatched statically.
type Bus struct {
	RAM *mem.RAM
	ROM *mem.ROM
	VIA *via.VIA
}

func (b *Bus) Peek(addr uint16) byte {
	switch {
	case addr&romMask == romVal:
		return b.ROM.Peek(addr &^ romMask)
	case addr&ramMask == ramVal:
		return b.RAM.Peek(addr &^ ramMask)
	case addr&perMask == perVal:
		return b.VIA.Peek(addr &^ perMask)
	default:
		panic(fmt.Sprintf("peek at unmapped address: %04x", addr))
	}
}

func (b *Bus) Read(addr uint16) byte {
	switch {
	case addr&romMask == romVal:
		return b.ROM.Read(addr &^ romMask)
	case addr&ramMask == ramVal:
		return b.RAM.Read(addr &^ ramMask)
	case addr&perMask == perVal:
		return b.VIA.Read(addr &^ perMask)
	default:
		panic(fmt.Sprintf("read at unmapped address: %04x", addr))
	}
}

func (b *Bus) Write(addr uint16, data byte) {
	switch {
	case addr&romMask == romVal:
		b.ROM.Write(addr&^romMask, data)
	case addr&ramMask == ramVal:
		b.RAM.Write(addr&^ramMask, data)
	case addr&perMask == perVal:
		b.VIA.Write(addr&^perMask, data)
	default:
		panic(fmt.Sprintf("write at unmapped address: %04x", addr))
	}
}

// Ports fans the VIA's peripheral pins out to the display and the
// controller. Port B carries the display data byte; port A carries the
// control pins for both devices.
type Ports struct {
	LCD *lcd.LCD
	Pad *pad.Pad

	aCache byte
	bCache byte
}

// Port A pin assignments.
const (
	pinLatch byte = 0x02 // controller latch
	pinClk   byte = 0x04 // controller clock
	pinRS    byte = 0x20 // display register select
	pinRW    byte = 0x40 // display read/write
	pinE     byte = 0x80 // display enable
)

func NewPorts() *Ports {
	return &Ports{LCD: lcd.New(), Pad: pad.New()}
}

func (p *Ports) dspPins() (lcd.RegisterSelector, bool, bool) {
	rs := lcd.Instruction
	if p.aCache&pinRS != 0 {
		rs = lcd.Data
	}
	return rs, p.aCache&pinRW != 0, p.aCache&pinE != 0
}

func (p *Ports) padPins() (bool, bool) {
	return p.aCache&pinLatch != 0, p.aCache&pinClk != 0
}

// doWrite presents the cached pin levels to both peripherals. The display
// commits on its enable edge, the controller acts on its latch/clock levels.
func (p *Ports) doWrite() {
	rs, rw, e := p.dspPins()
	p.LCD.Write(rs, rw, e, p.bCache)

	latch, clk := p.padPins()
	p.Pad.Write(latch, clk)
}

func (p *Ports) PeekA() byte {
	return p.Pad.Peek()
}

func (p *Ports) ReadA() byte {
	return p.Pad.Read()
}

func (p *Ports) WriteA(val byte) {
	p.aCache = val
	p.doWrite()
}

func (p *Ports) PeekB() byte {
	rs, rw, e := p.dspPins()
	return p.LCD.Peek(rs, rw, e)
}

func (p *Ports) ReadB() byte {
	rs, rw, e := p.dspPins()
	return p.LCD.Read(rs, rw, e)
}

func (p *Ports) WriteB(val byte) {
	p.bCache = val
	p.doWrite()
}
