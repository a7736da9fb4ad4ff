package regfile_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strm16/regfile"
)

func TestGetOutOfRange(t *testing.T) {
	f := regfile.New()
	_, err := f.Get(regfile.Count)
	require.Error(t, err)
	assert.True(t, errors.Is(err, regfile.ErrRegisterAccessViolation))
}

func TestSameValueProducesNoPatch(t *testing.T) {
	f := regfile.New()
	cell, err := f.Mut(3)
	require.NoError(t, err)
	cell.Set(cell.Get())
	cell.Commit()

	assert.Empty(t, f.PopPatches())
}

func TestChangedValueProducesOnePatch(t *testing.T) {
	f := regfile.New()
	cell, err := f.Mut(3)
	require.NoError(t, err)
	cell.Set(0xCAFE)
	cell.Commit()

	patches := f.PopPatches()
	require.Len(t, patches, 1)
	assert.Equal(t, regfile.Patch{Index: 3, Value: 0xCAFE}, patches[0])

	v, err := f.Get(3)
	require.NoError(t, err)
	assert.Equal(t, uint16(0xCAFE), v)
}

func TestAllSixteenRegistersAddressable(t *testing.T) {
	f := regfile.New()
	for i := byte(0); i < regfile.Count; i++ {
		_, err := f.Get(i)
		require.NoError(t, err)
	}
}
