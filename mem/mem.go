// Package mem implements the plain byte stores on the breadboard: RAM and
// ROM. Both see only their device-local offset; address decoding lives in
// the system bus.

package mem

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
)

// RAM is a zero-initialized read/write byte store.
type RAM struct {
	Mem []byte
}

// NewRAM returns a zeroed RAM of the given size.
func NewRAM(size int) *RAM {
	return &RAM{Mem: make([]byte, size)}
}

// LoadRAM returns a RAM initialized from an image file. The RAM is sized to
// the image.
func LoadRAM(path string) (*RAM, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load ram image: %w", err)
	}
	return &RAM{Mem: buf}, nil
}

// Peek returns the byte at addr without logging; it is side-effect-free.
func (r *RAM) Peek(addr uint16) byte {
	r.check(addr)
	return r.Mem[addr]
}

func (r *RAM) Read(addr uint16) byte {
	r.check(addr)
	data := r.Mem[addr]
	log.Debug("ram", "op", "R", "addr", fmt.Sprintf("%04x", addr), "data", fmt.Sprintf("%02x", data))
	return data
}

func (r *RAM) Write(addr uint16, data byte) {
	r.check(addr)
	log.Debug("ram", "op", "W", "addr", fmt.Sprintf("%04x", addr), "data", fmt.Sprintf("%02x", data))
	r.Mem[addr] = data
}

// check traps accesses past the loaded image with an addressed diagnostic;
// a short image is a configuration error, not an index bug.
func (r *RAM) check(addr uint16) {
	if int(addr) >= len(r.Mem) {
		panic(fmt.Sprintf("ram: access past end of image: %04x (size %04x)", addr, len(r.Mem)))
	}
}

// ROM is a read-only byte store loaded from a file. Writes are a programmer
// error in the ROM image and panic.
type ROM struct {
	Mem []byte
}

// LoadROM reads a raw binary image. Offset 0 of the file is offset 0 of the
// ROM window.
func LoadROM(path string) (*ROM, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load rom image: %w", err)
	}
	return &ROM{Mem: buf}, nil
}

func (r *ROM) Peek(addr uint16) byte {
	r.check(addr)
	return r.Mem[addr]
}

func (r *ROM) Read(addr uint16) byte {
	r.check(addr)
	data := r.Mem[addr]
	log.Debug("rom", "op", "R", "addr", fmt.Sprintf("%04x", addr), "data", fmt.Sprintf("%02x", data))
	return data
}

func (r *ROM) Write(addr uint16, data byte) {
	panic(fmt.Sprintf("write to rom: %04x = %02x", addr, data))
}

func (r *ROM) check(addr uint16) {
	if int(addr) >= len(r.Mem) {
		panic(fmt.Sprintf("rom: read past end of image: %04x (size %04x)", addr, len(r.Mem)))
	}
}
