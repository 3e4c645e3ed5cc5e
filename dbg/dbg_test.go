package dbg

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"breadboard/sys"
)

// testSystem builds a CPU-test board around the given program at 0x0400.
func testSystem(t *testing.T, prog []byte) sys.System {
	t.Helper()
	img := make([]byte, 0x10000)
	copy(img[0x0400:], prog)
	path := filepath.Join(t.TempDir(), "image.bin")
	require.NoError(t, os.WriteFile(path, img, 0o644))

	s, err := sys.NewCPUTest(path, 0x0400)
	require.NoError(t, err)
	return s
}

func TestStepInstruction(t *testing.T) {
	s := testSystem(t, []byte{0xa9, 0x42, 0xea}) // LDA #$42 ; NOP
	d := New(s)

	d.StepInstruction() // through reset, lands after the LDA fetch
	d.StepInstruction() // LDA executes, NOP fetched
	assert.Equal(t, byte(0x42), s.CPU().A)
	assert.Equal(t, uint16(0x0403), s.CPU().PC)
}

func TestRunHeadlessStopsAtHalt(t *testing.T) {
	s := testSystem(t, []byte{0xea, 0xea, 0xdb}) // NOP ; NOP ; STP
	d := New(s)

	d.RunHeadless()
	assert.True(t, s.Halted())
}

func TestBreakpoints(t *testing.T) {
	s := testSystem(t, []byte{0xea, 0xea, 0xea, 0xdb})
	d := New(s)

	ix, err := d.AddBreakpoint("0402")
	require.NoError(t, err)
	assert.Equal(t, 0, ix)

	// duplicates return the existing index
	ix, err = d.AddBreakpoint("$0402")
	require.NoError(t, err)
	assert.Equal(t, 0, ix)

	d.RunHeadless()
	assert.False(t, s.Halted())
	assert.Equal(t, uint16(0x0403), s.CPU().PC, "stopped with the breakpointed opcode fetched")

	require.NoError(t, d.RemoveBreakpoint(0))
	assert.Error(t, d.RemoveBreakpoint(3))

	d.RunHeadless()
	assert.True(t, s.Halted())
}

func TestBreakpointBySymbol(t *testing.T) {
	symfile := filepath.Join(t.TempDir(), "rom.sym")
	require.NoError(t, os.WriteFile(symfile, []byte(
		"al 000402 .loop\nal 00FFFC .vector\ngarbage\n"), 0o644))

	s := testSystem(t, []byte{0xea, 0xea, 0xea, 0xdb})
	d := New(s)
	require.NoError(t, d.LoadSymbols(symfile))

	_, err := d.AddBreakpoint("loop")
	require.NoError(t, err)

	d.RunHeadless()
	assert.Equal(t, uint16(0x0403), s.CPU().PC)

	_, err = d.AddBreakpoint("nonsense")
	assert.Error(t, err)
}

func TestStepOver(t *testing.T) {
	// 0400: JSR $0410 ; STP    0410: LDA #$55 ; RTS
	prog := make([]byte, 0x20)
	copy(prog, []byte{0x20, 0x10, 0x04, 0xdb})
	copy(prog[0x10:], []byte{0xa9, 0x55, 0x60})
	s := testSystem(t, prog)
	s.CPU().S = 0xff
	d := New(s)

	d.StepInstruction() // through reset; JSR is fetched
	d.StepOver()        // runs the whole subroutine
	assert.Equal(t, byte(0x55), s.CPU().A)
	assert.Equal(t, uint16(0x0404), s.CPU().PC, "back after the call, STP fetched")
}

func TestStepOut(t *testing.T) {
	// 0400: JSR $0410 ; STP    0410: LDA #$55 ; NOP ; RTS
	prog := make([]byte, 0x20)
	copy(prog, []byte{0x20, 0x10, 0x04, 0xdb})
	copy(prog[0x10:], []byte{0xa9, 0x55, 0xea, 0x60})
	s := testSystem(t, prog)
	s.CPU().S = 0xff
	d := New(s)

	d.StepInstruction() // JSR fetched
	d.StepInstruction() // inside the subroutine
	d.StepOut()
	assert.Equal(t, uint16(0x0404), s.CPU().PC)
}

func TestDisassemble(t *testing.T) {
	s := testSystem(t, []byte{0xad, 0x34, 0x12}) // LDA $1234
	d := New(s)

	d.StepInstruction()
	assert.Equal(t, "LDA $1234", d.Disassemble())
}

func TestDisassembleWithSymbol(t *testing.T) {
	symfile := filepath.Join(t.TempDir(), "rom.sym")
	require.NoError(t, os.WriteFile(symfile, []byte("al 001234 .target\n"), 0o644))

	s := testSystem(t, []byte{0xad, 0x34, 0x12})
	d := New(s)
	require.NoError(t, d.LoadSymbols(symfile))

	d.StepInstruction()
	assert.Equal(t, "LDA target", d.Disassemble())
}

func TestREPLQuit(t *testing.T) {
	s := testSystem(t, []byte{0xdb})
	d := New(s)

	var out bytes.Buffer
	err := d.REPL(strings.NewReader("cpu\nzp\nquit\n"), &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "A:")
}

func TestDumpBytesElides(t *testing.T) {
	var out bytes.Buffer
	buf := make([]byte, 64)
	buf[0] = 0x41
	dumpBytes(&out, buf, 0)

	text := out.String()
	assert.Contains(t, text, "0000:")
	assert.Contains(t, text, "41")
	assert.Contains(t, text, "A", "ascii gutter")
	assert.Contains(t, text, "*", "zero rows elide")
	assert.Equal(t, 1, strings.Count(text, "*"), "a single marker per run")
}
