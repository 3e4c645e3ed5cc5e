package sys

import (
	"breadboard/cpu"
	"breadboard/lcd"
	"breadboard/mem"
	"breadboard/pad"
	"breadboard/via"
)

// CPUTest is the functional-test board: the whole 16-bit address space is
// RAM loaded from an image, the reset vector patched to the configured
// entry point, and no peripherals at all.
type CPUTest struct {
	cpu *cpu.CPU
	ram *mem.RAM
}

// testBus is the trivial decoder for the test board: everything is RAM.
type testBus struct {
	ram *mem.RAM
}

func (b *testBus) Peek(addr uint16) byte        { return b.ram.Peek(addr) }
func (b *testBus) Read(addr uint16) byte        { return b.ram.Read(addr) }
func (b *testBus) Write(addr uint16, data byte) { b.ram.Write(addr, data) }

// NewCPUTest loads a 64K RAM image and points the reset vector at entry.
func NewCPUTest(ramPath string, entry uint16) (*CPUTest, error) {
	ram, err := mem.LoadRAM(ramPath)
	if err != nil {
		return nil, err
	}
	if len(ram.Mem) < 0x10000 {
		grown := make([]byte, 0x10000)
		copy(grown, ram.Mem)
		ram.Mem = grown
	}
	ram.Mem[0xfffc] = byte(entry)
	ram.Mem[0xfffd] = byte(entry >> 8)

	return &CPUTest{
		cpu: cpu.New(&testBus{ram: ram}),
		ram: ram,
	}, nil
}

func (t *CPUTest) Cycle() {
	t.cpu.Cycle()
}

func (t *CPUTest) Halted() bool {
	return t.cpu.Halted()
}

func (t *CPUTest) Peek(addr uint16) byte {
	return t.ram.Peek(addr)
}

func (t *CPUTest) CPU() *cpu.CPU        { return t.cpu }
func (t *CPUTest) RAM() *mem.RAM        { return t.ram }
func (t *CPUTest) Display() *lcd.LCD    { return nil }
func (t *CPUTest) Controller() *pad.Pad { return nil }
func (t *CPUTest) Peripheral() *via.VIA { return nil }
