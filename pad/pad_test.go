package pad

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReleasedReadsHigh(t *testing.T) {
	p := New()
	p.Write(true, false)
	for i := 0; i < 8; i++ {
		assert.Equal(t, byte(1), p.Read())
		p.Write(false, true)
	}
}

func TestShiftOrder(t *testing.T) {
	// press B and Start, then clock all eight buttons out in the
	// documented order {A, B, Select, Start, Up, Down, Left, Right}
	p := New()
	p.OnPress(B)
	p.OnPress(Start)

	p.Write(true, false)

	want := []byte{1, 0, 1, 0, 1, 1, 1, 1}
	for i, w := range want {
		assert.Equal(t, w, p.Read(), "button index %d", i)
		p.Write(false, true)
	}
}

func TestLatchSamples(t *testing.T) {
	p := New()
	p.OnPress(A)
	p.Write(true, false) // shift <- latch (A pressed), latch <- state
	p.OnRelease(A)

	// the release must not disturb the shifted sample
	assert.Equal(t, byte(0), p.Read())

	// but the next latch sees the released state
	p.Write(true, false)
	p.Write(true, false)
	assert.Equal(t, byte(1), p.Read())
}

func TestPressBetweenLatches(t *testing.T) {
	// a press lands in the latch register immediately, so it is visible
	// after a single strobe even if the live state changed since
	p := New()
	p.OnPress(Up)
	p.OnRelease(Up)

	p.Write(true, false)
	for i := 0; i < int(Up); i++ {
		p.Write(false, true)
	}
	assert.Equal(t, byte(0), p.Read())
}

func TestPeekIsPure(t *testing.T) {
	p := New()
	p.OnPress(A)
	p.Write(true, false)

	before := *p
	_ = p.Peek()
	assert.Equal(t, before, *p)
}
