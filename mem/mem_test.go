package mem_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strm16/mem"
)

func TestByteBoundaries(t *testing.T) {
	m := mem.New(mem.MaxSize)

	_, err := m.Byte(0)
	require.NoError(t, err)

	_, err = m.Byte(mem.MaxSize - 1)
	require.NoError(t, err)
}

func TestByteOutOfRangeFails(t *testing.T) {
	m := mem.New(8)

	_, err := m.Byte(7)
	require.NoError(t, err)

	_, err = m.Byte(8)
	require.Error(t, err)
	assert.True(t, errors.Is(err, mem.ErrMemoryAccessViolation))
}

func TestWordAtLastByteFails(t *testing.T) {
	m := mem.New(mem.MaxSize)
	_, err := m.Word(uint16(mem.MaxSize - 1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, mem.ErrMemoryAccessViolation))
}

func TestByteCellSameValueProducesNoPatch(t *testing.T) {
	m := mem.New(16)

	cell, err := m.ByteMut(4)
	require.NoError(t, err)
	cell.Set(cell.Get())
	cell.Commit()

	assert.Empty(t, m.PopPatches())
}

func TestByteCellChangedValueProducesOnePatch(t *testing.T) {
	m := mem.New(16)

	cell, err := m.ByteMut(4)
	require.NoError(t, err)
	cell.Set(0x42)
	cell.Commit()

	patches := m.PopPatches()
	require.Len(t, patches, 1)
	assert.Equal(t, mem.Patch{Addr: 4, Value: 0x42}, patches[0])
}

func TestWordCellChangedValueProducesTwoPatches(t *testing.T) {
	m := mem.New(16)

	cell, err := m.WordMut(4)
	require.NoError(t, err)
	cell.Set(0xBEEF)
	cell.Commit()

	patches := m.PopPatches()
	require.Len(t, patches, 2)
	assert.Equal(t, mem.Patch{Addr: 4, Value: 0xBE}, patches[0])
	assert.Equal(t, mem.Patch{Addr: 5, Value: 0xEF}, patches[1])
}

// Even when only one of the two physical bytes actually moves, a changed
// word cell must still emit both byte patches.
func TestWordCellPartialByteChangeStillEmitsTwoPatches(t *testing.T) {
	m := mem.New(16)

	seed, err := m.WordMut(4)
	require.NoError(t, err)
	seed.Set(0xBE00)
	seed.Commit()
	m.PopPatches()

	cell, err := m.WordMut(4)
	require.NoError(t, err)
	cell.Set(0xBE01) // only the low byte changes
	cell.Commit()

	patches := m.PopPatches()
	require.Len(t, patches, 2)
	assert.Equal(t, mem.Patch{Addr: 4, Value: 0xBE}, patches[0])
	assert.Equal(t, mem.Patch{Addr: 5, Value: 0x01}, patches[1])
}

func TestPopPatchesDrains(t *testing.T) {
	m := mem.New(16)

	cell, err := m.ByteMut(0)
	require.NoError(t, err)
	cell.Set(1)
	cell.Commit()

	assert.Len(t, m.PopPatches(), 1)
	assert.Empty(t, m.PopPatches())
}

func TestLoadProgramTooLarge(t *testing.T) {
	m := mem.New(4)
	err := m.LoadProgram([]byte{1, 2, 3, 4, 5})
	require.Error(t, err)
	assert.True(t, errors.Is(err, mem.ErrMemoryAccessViolation))
}
