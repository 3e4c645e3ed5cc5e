package lcd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// ready burns through the power-on delay.
func ready(l *LCD) {
	for l.Busy() {
		l.Cycle()
	}
}

// strobe commits one byte: enable high, then the falling edge.
func strobe(l *LCD, rs RegisterSelector, data byte) {
	l.Write(rs, false, true, data)
	l.Write(rs, false, false, data)
}

func TestPowerOnBusy(t *testing.T) {
	l := New()
	assert.True(t, l.Busy())
	assert.Equal(t, byte(0x80), l.Read(Instruction, true, false))

	ready(l)
	assert.Equal(t, byte(0x00), l.Read(Instruction, true, false))
}

func TestEnableEdgeCommits(t *testing.T) {
	l := New()
	ready(l)

	// no falling edge, no commit
	l.Write(Data, false, true, 'A')
	assert.Equal(t, byte(0), l.Addr())

	l.Write(Data, false, false, 'A')
	assert.Equal(t, byte(1), l.Addr())
	assert.True(t, l.Busy())
}

func TestBusyDuration(t *testing.T) {
	l := New()
	ready(l)

	strobe(l, Instruction, 0x01)
	ticks := 0
	for l.Busy() {
		l.Cycle()
		ticks++
	}
	assert.Equal(t, 37, ticks)
}

func TestReadWithRWLowIsFatal(t *testing.T) {
	l := New()
	assert.Panics(t, func() { l.Read(Instruction, false, false) })
}

func TestWriteAndRender(t *testing.T) {
	l := New()
	ready(l)

	for _, c := range []byte("Hello") {
		strobe(l, Data, c)
		ready(l)
	}

	line1, line2 := l.Output()
	assert.Equal(t, "Hello"+strings.Repeat(" ", 11), line1)
	assert.Equal(t, strings.Repeat(" ", 16), line2)
	assert.Equal(t, byte(5), l.Addr())
}

func TestSecondLineAddressing(t *testing.T) {
	l := New()
	ready(l)

	strobe(l, Instruction, 0x80|0x40) // DDRAM address 0x40
	ready(l)
	strobe(l, Data, '2')
	ready(l)

	_, line2 := l.Output()
	assert.Equal(t, "2"+strings.Repeat(" ", 15), line2)
}

func TestAddressWrap(t *testing.T) {
	l := New()
	ready(l)

	// past the end of line 1 the counter jumps to line 2
	strobe(l, Instruction, 0x80|39)
	ready(l)
	strobe(l, Data, 'x')
	ready(l)
	assert.Equal(t, byte(40), l.Addr())
	strobe(l, Data, 'x')
	ready(l)
	assert.Equal(t, byte(0x40), l.Addr())

	// and past the end of line 2 back to line 1
	strobe(l, Instruction, 0x80|0x40|39)
	ready(l)
	strobe(l, Data, 'y')
	ready(l)
	assert.Equal(t, byte(0x40+40), l.Addr())
	strobe(l, Data, 'y')
	ready(l)
	assert.Equal(t, byte(0x00), l.Addr())
}

func TestClearDisplay(t *testing.T) {
	l := New()
	ready(l)

	strobe(l, Data, 'Z')
	ready(l)
	strobe(l, Instruction, 0x01)
	ready(l)

	line1, line2 := l.Output()
	assert.Equal(t, strings.Repeat(" ", 16), line1)
	assert.Equal(t, strings.Repeat(" ", 16), line2)
	assert.Equal(t, byte(0), l.Addr())
}

func TestReturnHome(t *testing.T) {
	l := New()
	ready(l)

	strobe(l, Data, 'Z')
	ready(l)
	strobe(l, Instruction, 0x02)
	ready(l)

	assert.Equal(t, byte(0), l.Addr())
	line1, _ := l.Output()
	assert.Equal(t, "Z"+strings.Repeat(" ", 15), line1)
}

func TestDataRead(t *testing.T) {
	l := New()
	ready(l)

	strobe(l, Data, 'Q')
	ready(l)
	strobe(l, Instruction, 0x80) // back to address 0
	ready(l)

	assert.Equal(t, byte('Q'), l.Read(Data, true, false))
}

func TestDirtyFlag(t *testing.T) {
	l := New()
	ready(l)
	l.Dirty() // drain

	strobe(l, Data, 'A')
	assert.True(t, l.Dirty())
	assert.False(t, l.Dirty())
}

func TestUnmappedGlyph(t *testing.T) {
	l := New()
	ready(l)

	strobe(l, Data, 0x01)
	ready(l)

	line1, _ := l.Output()
	assert.Equal(t, strings.Repeat(" ", 16), line1)
}
