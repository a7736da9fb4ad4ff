package alloc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strm16/alloc"
)

func TestRegisterRequirementWins(t *testing.T) {
	a := alloc.New(2, 1<<16)
	require.NoError(t, a.Define(1, 0, alloc.Memory))
	require.NoError(t, a.Define(2, 0, alloc.Register))
	require.NoError(t, a.Touch(1, 1))
	require.NoError(t, a.Touch(2, 1))

	m, err := a.Run()
	require.NoError(t, err)

	assert.Equal(t, alloc.KindRegister, m[2].Kind)
	assert.Equal(t, alloc.KindMemory, m[1].Kind)
}

func TestOutOfRegistersFails(t *testing.T) {
	a := alloc.New(1, 1<<16)
	require.NoError(t, a.Define(1, 0, alloc.Register))
	require.NoError(t, a.Define(2, 0, alloc.Register))
	require.NoError(t, a.Touch(1, 5))
	require.NoError(t, a.Touch(2, 5))

	_, err := a.Run()
	require.ErrorIs(t, err, alloc.ErrOutOfRegisters)
}

func TestNonOverlappingLifetimesShareASlot(t *testing.T) {
	a := alloc.New(1, 0)
	require.NoError(t, a.Define(1, 0, alloc.Register))
	require.NoError(t, a.Touch(1, 2))
	require.NoError(t, a.Define(2, 3, alloc.Register))
	require.NoError(t, a.Touch(2, 5))

	m, err := a.Run()
	require.NoError(t, err)
	assert.Equal(t, m[1].Index, m[2].Index)
}

func TestOverlappingLifetimesNeverShareASlot(t *testing.T) {
	a := alloc.New(4, 0)
	require.NoError(t, a.Define(1, 0, alloc.Register))
	require.NoError(t, a.Touch(1, 5))
	require.NoError(t, a.Define(2, 3, alloc.Register))
	require.NoError(t, a.Touch(2, 8))

	m, err := a.Run()
	require.NoError(t, err)
	assert.NotEqual(t, m[1].Index, m[2].Index)
}

func TestGenericFallsBackToMemory(t *testing.T) {
	a := alloc.New(0, 1<<16)
	require.NoError(t, a.Define(1, 0, alloc.Generic))
	require.NoError(t, a.Touch(1, 1))

	m, err := a.Run()
	require.NoError(t, err)
	assert.Equal(t, alloc.KindMemory, m[1].Kind)
}

func TestDuplicateDefinitionFails(t *testing.T) {
	a := alloc.New(16, 1<<16)
	require.NoError(t, a.Define(1, 0, alloc.Generic))
	err := a.Define(1, 0, alloc.Generic)
	require.ErrorIs(t, err, alloc.ErrDuplicateDefinition)
}

func TestTouchUndefinedFails(t *testing.T) {
	a := alloc.New(16, 1<<16)
	err := a.Touch(99, 0)
	require.ErrorIs(t, err, alloc.ErrUndefinedVariable)
}

func TestDeterministicAcrossRuns(t *testing.T) {
	build := func() alloc.Map {
		a := alloc.New(16, 1<<16)
		for i := uint64(0); i < 20; i++ {
			req := alloc.Generic
			if i%3 == 0 {
				req = alloc.Register
			} else if i%5 == 0 {
				req = alloc.Memory
			}
			require.NoError(t, a.Define(i, int(i), req))
			require.NoError(t, a.Touch(i, int(i)+int(i%4)))
		}
		m, err := a.Run()
		require.NoError(t, err)
		return m
	}

	first := build()
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, build())
	}
}

// With a single register slot and two overlapping Register-required
// variables, the more important one is assigned first and claims the only
// slot, leaving the other to fail allocation outright rather than falling
// back to memory.
func TestImportanceOrdersRegisterContention(t *testing.T) {
	a := alloc.New(1, 0)
	require.NoError(t, a.Define(1, 0, alloc.Register))
	require.NoError(t, a.Define(2, 0, alloc.Register))
	for i := 0; i < 5; i++ {
		require.NoError(t, a.Touch(2, 0))
	}
	require.NoError(t, a.Touch(1, 0))

	_, err := a.Run()
	require.ErrorIs(t, err, alloc.ErrOutOfRegisters)
}
