// Package via implements the W65C22 versatile interface adapter: two 8-bit
// peripheral ports with direction registers, timer 1, and the interrupt
// flag/enable pair. Timer 2, the shift register and the handshake modes are
// outside this board's wiring and trap with a diagnostic.
//
// https://www.westerndesigncenter.com/wdc/documentation/w65c22.pdf

package via

import (
	"fmt"

	"github.com/charmbracelet/log"

	"breadboard/mask"
)

// Register selectors, as presented on the four low address lines.
const (
	regPB   = 0x0 // port B data
	regPAHS = 0x1 // port A data with handshake (unimplemented)
	regDDRB = 0x2 // port B direction
	regDDRA = 0x3 // port A direction
	regT1CL = 0x4 // timer 1 counter low
	regT1CH = 0x5 // timer 1 counter high
	regT1LL = 0x6 // timer 1 latch low
	regT1LH = 0x7 // timer 1 latch high
	regT2CL = 0x8 // timer 2 counter low (unimplemented)
	regT2CH = 0x9 // timer 2 counter high (unimplemented)
	regSR   = 0xa // shift register (unimplemented)
	regACR  = 0xb // auxiliary control
	regPCR  = 0xc // peripheral control
	regIFR  = 0xd // interrupt flags
	regIER  = 0xe // interrupt enable
	regPA   = 0xf // port A data, no handshake
)

// Interrupt flag bit positions in IFR/IER.
const (
	IntCA2 byte = 0x01
	IntCA1 byte = 0x02
	IntSR  byte = 0x04
	IntCB2 byte = 0x08
	IntCB1 byte = 0x10
	IntT2  byte = 0x20
	IntT1  byte = 0x40
	IntIRQ byte = 0x80 // summary bit, computed from the others
)

// Ports is the adapter's view of whatever hangs off its two peripheral
// ports. Peek variants must be side-effect-free.
type Ports interface {
	PeekA() byte
	ReadA() byte
	WriteA(val byte)

	PeekB() byte
	ReadB() byte
	WriteB(val byte)
}

// VIA is the adapter itself. It owns its Ports collaborator; pin writes
// reach downstream devices through it within the same cycle.
type VIA struct {
	// interrupt control; ifr holds only the seven event bits, the IRQ
	// summary bit is derived on read
	ifr byte
	ier byte

	// function control
	acr byte
	pcr byte

	// port A
	ira  byte
	ora  byte
	ddra byte

	// port B
	irb  byte
	orb  byte
	ddrb byte

	// timer 1
	t1c uint16
	t1l uint16

	// timer 2 (storage only)
	t2c uint16

	// shift register (storage only)
	sr byte

	// control line levels, for input latching edges
	cb1 bool
	cb2 bool

	Ports Ports
}

// New returns an adapter with all registers zeroed.
func New(ports Ports) *VIA {
	return &VIA{Ports: ports}
}

// Registers exposes the raw state the debugger prints.
func (v *VIA) Registers() (ora, ddra, orb, ddrb byte, t1c, t1l uint16, ifr, ier byte) {
	return v.ora, v.ddra, v.orb, v.ddrb, v.t1c, v.t1l, v.readIFR(), v.ier
}

func (v *VIA) setInterrupt(flag byte) {
	log.Debug("via", "interrupt", fmt.Sprintf("%02x", flag))
	v.ifr |= flag & 0x7f
}

func (v *VIA) clearInterrupt(flag byte) {
	v.ifr &^= flag
}

// readIFR folds the summary bit in: bit 7 is set whenever an enabled event
// flag is set.
func (v *VIA) readIFR() byte {
	ifr := v.ifr & 0x7f
	if ifr&v.ier&0x7f != 0 {
		ifr |= IntIRQ
	}
	return ifr
}

// Peek reads a register without side effects: no flag clears, no port pin
// activity beyond the Ports peek.
func (v *VIA) Peek(addr uint16) byte {
	switch addr {
	case regPB:
		return (v.orb & v.ddrb) | (v.Ports.PeekB() &^ v.ddrb)
	case regDDRB:
		return v.ddrb
	case regDDRA:
		return v.ddra
	case regT1CL:
		return mask.Lo(v.t1c)
	case regT1CH:
		return mask.Hi(v.t1c)
	case regT1LL:
		return mask.Lo(v.t1l)
	case regT1LH:
		return mask.Hi(v.t1l)
	case regIFR:
		return v.readIFR()
	case regIER:
		return v.ier
	case regPA:
		return (v.ora & v.ddra) | (v.Ports.PeekA() &^ v.ddra)
	default:
		panic(fmt.Sprintf("via: peek of unmodeled register %x", addr))
	}
}

// Read reads a register, with the datasheet side effects (T1 flag clears,
// live port sampling).
func (v *VIA) Read(addr uint16) byte {
	var data byte
	switch addr {
	case regPB:
		// with latching disabled the pins are sampled live
		if v.acr&0x02 == 0 {
			v.irb = v.Ports.ReadB()
		}
		data = (v.orb & v.ddrb) | (v.irb &^ v.ddrb)
	case regPAHS:
		panic("via: read of PA with handshake is unimplemented")
	case regDDRB:
		data = v.ddrb
	case regDDRA:
		data = v.ddra
	case regT1CL:
		v.clearInterrupt(IntT1)
		data = mask.Lo(v.t1c)
	case regT1CH:
		data = mask.Hi(v.t1c)
	case regT1LL:
		v.clearInterrupt(IntT1)
		data = mask.Lo(v.t1l)
	case regT1LH:
		data = mask.Hi(v.t1l)
	case regT2CL, regT2CH:
		panic(fmt.Sprintf("via: read of timer 2 register %x is unimplemented", addr))
	case regSR:
		panic("via: read of shift register is unimplemented")
	case regACR:
		panic("via: read of ACR is unimplemented")
	case regPCR:
		panic("via: read of PCR is unimplemented")
	case regIFR:
		data = v.readIFR()
	case regIER:
		data = v.ier
	case regPA:
		v.ira = v.Ports.ReadA()
		data = (v.ora & v.ddra) | (v.ira &^ v.ddra)
	default:
		panic(fmt.Sprintf("via: read of invalid register %x", addr))
	}
	log.Debug("via", "op", "R", "addr", fmt.Sprintf("%x", addr), "data", fmt.Sprintf("%02x", data))
	return data
}

// Write writes a register. Port writes push the masked output register onto
// the pins immediately.
func (v *VIA) Write(addr uint16, data byte) {
	log.Debug("via", "op", "W", "addr", fmt.Sprintf("%x", addr), "data", fmt.Sprintf("%02x", data))
	switch addr {
	case regPB:
		v.orb = data & v.ddrb
		v.Ports.WriteB(v.orb)
	case regPAHS:
		panic("via: write of PA with handshake is unimplemented")
	case regDDRB:
		v.ddrb = data
	case regDDRA:
		v.ddra = data
	case regT1CL:
		v.t1l = mask.Word(mask.Hi(v.t1l), data)
	case regT1CH:
		v.t1l = mask.Word(data, mask.Lo(v.t1l))
		v.t1c = v.t1l
		v.clearInterrupt(IntT1)
	case regT1LL:
		v.t1l = mask.Word(mask.Hi(v.t1l), data)
	case regT1LH:
		v.t1l = mask.Word(data, mask.Lo(v.t1l))
		v.clearInterrupt(IntT1)
	case regT2CL, regT2CH:
		panic(fmt.Sprintf("via: write of timer 2 register %x is unimplemented", addr))
	case regSR:
		panic("via: write of shift register is unimplemented")
	case regACR:
		v.acr = data
	case regPCR:
		panic("via: write of PCR is unimplemented")
	case regIFR:
		// write 1 to clear
		v.clearInterrupt(data)
	case regIER:
		v.ier = data
	case regPA:
		v.ora = data & v.ddra
		v.Ports.WriteA(v.ora)
	default:
		panic(fmt.Sprintf("via: write of invalid register %x", addr))
	}
}

// SetCB1 drives the CB1 control line. With port B latching enabled (ACR bit
// 1), IRB latches the pins on the PCR-selected edge.
func (v *VIA) SetCB1(val bool) {
	if v.acr&0x02 != 0 {
		rising := mask.Bit(v.pcr, 4)
		if (rising && !v.cb1 && val) || (!rising && v.cb1 && !val) {
			v.irb = v.Ports.ReadB()
		}
	}
	v.cb1 = val
}

// SetCB2 drives the CB2 control line. Input modes (PCR bits 7..5 = 0..3)
// latch IRB like CB1 does.
func (v *VIA) SetCB2(val bool) {
	if v.acr&0x02 != 0 {
		switch v.pcr >> 5 {
		case 0, 1: // falling-edge input modes
			if v.cb2 && !val {
				v.irb = v.Ports.ReadB()
			}
		case 2, 3: // rising-edge input modes
			if !v.cb2 && val {
				v.irb = v.Ports.ReadB()
			}
		}
	}
	v.cb2 = val
}

// Cycle advances timer 1 one tick and reports whether the IRQ line is
// asserted: any event flag set and enabled.
func (v *VIA) Cycle() bool {
	if v.t1c > 0 {
		v.t1c--
	} else {
		log.Debug("via", "timer1", "fire")
		v.setInterrupt(IntT1)
		switch v.acr >> 6 {
		case 0:
			// one-shot; counter stays down
		case 1:
			// free-run; reload from the latch
			v.t1c = v.t1l
		default:
			panic(fmt.Sprintf("via: timer 1 PB7 output mode %d is unimplemented", v.acr>>6))
		}
	}

	return v.ifr&v.ier&0x7f != 0
}
