package assemble_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strm16/assemble"
	"strm16/isa"
)

func TestSequenceProducesInverseMaps(t *testing.T) {
	instrs := []isa.Instruction{
		isa.NewInstructionA(isa.Nop, 0),
		isa.NewImmediate(isa.LoadI, 0, 42),
		isa.NewInstructionA(isa.Halt, 0),
	}
	extras := []int{0, 1, 2}

	result, err := assemble.Sequence(instrs, extras)
	require.NoError(t, err)
	assert.Equal(t, 2+4+2, len(result.Bytes))

	r1 := result.ExtraToRange[1]
	assert.Equal(t, assemble.Range{Start: 2, End: 6}, r1)

	for b := r1.Start; b < r1.End; b++ {
		assert.Equal(t, 1, result.ByteToExtra[b])
	}
	assert.Equal(t, 0, result.ByteToExtra[0])
	assert.Equal(t, 2, result.ByteToExtra[6])
}

func TestSequencePropagatesAssembleErrors(t *testing.T) {
	instrs := []isa.Instruction{isa.NewInstructionA(isa.LoadI, 0)}
	_, err := assemble.Sequence(instrs, []int{0})
	require.Error(t, err)
}
