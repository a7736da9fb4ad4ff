package mask

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMask16(t *testing.T) {
	// opcode[6] | reg_a[4] | reg_b[4] | reserved[2]=0, bits 15..0
	word := uint16(0b000010_0011_0101_00)

	assert.Equal(t, Range16(word, W1, W6), uint16(0b000010))
	assert.Equal(t, Range16(word, W7, W10), uint16(0b0011))
	assert.Equal(t, Range16(word, W11, W14), uint16(0b0101))

	assert.Equal(t, Last16(word, W16), word)
	assert.Equal(t, First16(word, W6), uint16(0b000010))

	assert.True(t, IsSet16(0b1000_0000_0000_0000, W1))
	assert.False(t, IsSet16(0b0100_0000_0000_0000, W1))
}
