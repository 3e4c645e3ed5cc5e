package mask

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWord(t *testing.T) {
	assert.Equal(t, uint16(0x1234), Word(0x12, 0x34))
	assert.Equal(t, uint16(0x00ff), Word(0x00, 0xff))
	assert.Equal(t, uint16(0xff00), Word(0xff, 0x00))

	assert.Equal(t, byte(0x34), Lo(0x1234))
	assert.Equal(t, byte(0x12), Hi(0x1234))
}

func TestNibbles(t *testing.T) {
	assert.Equal(t, byte(0x05), LoNibble(0xa5))
	assert.Equal(t, byte(0x0a), HiNibble(0xa5))
}

func TestBit(t *testing.T) {
	assert.True(t, Bit(0b0000_0001, 0))
	assert.True(t, Bit(0b1000_0000, 7))
	assert.False(t, Bit(0b0100_0000, 7))

	assert.Equal(t, byte(0b0001_0000), SetBit(0, 4))
	assert.Equal(t, byte(0b1110_1111), ClearBit(0xff, 4))
	assert.Equal(t, byte(0b0000_0100), PutBit(0, 2, true))
	assert.Equal(t, byte(0xfb), PutBit(0xff, 2, false))
}
