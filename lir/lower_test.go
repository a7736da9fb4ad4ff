package lir_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strm16/alloc"
	"strm16/emulator"
	"strm16/isa"
	"strm16/lir"
)

func buildAdditionProgram() []lir.Instr {
	x := lir.NewVar(lir.Register)
	y := lir.NewVar(lir.Register)
	sum := lir.NewVar(lir.Memory)

	return []lir.Instr{
		lir.DefineVar(x),
		lir.LoadImmediate(x, 10),
		lir.DefineVar(y),
		lir.LoadImmediate(y, 20),
		lir.Add(x, y),
		lir.DefineVar(sum),
		lir.StoreVar(sum, x),
		lir.TargetPassthrough([]isa.Instruction{isa.NewInstructionA(isa.Halt, 0)}),
	}
}

func runProgram(t *testing.T, instrs []isa.Instruction) *emulator.Emulator {
	t.Helper()
	var program []byte
	for _, instr := range instrs {
		bs, err := isa.Assemble(instr)
		require.NoError(t, err)
		program = append(program, bs...)
	}
	e, err := emulator.New(program, nil)
	require.NoError(t, err)
	require.NoError(t, e.ExecuteToHalt())
	return e
}

func TestRoundTripLIRAddition(t *testing.T) {
	lowerer := lir.NewLowerer(1 << 12)
	preallocInstrs := buildAdditionProgram()

	out, allocMap, err := lowerer.Lower(preallocInstrs)
	require.NoError(t, err)

	e := runProgram(t, out)

	var sumKey uint64
	var sumAlloc alloc.Alloc
	for id, a := range allocMap {
		if a.Kind == alloc.KindMemory {
			sumKey = id
			sumAlloc = a
		}
	}
	require.NotZero(t, sumKey)

	word, err := e.Memory.Word(uint16(sumAlloc.Addr))
	require.NoError(t, err)
	assert.Equal(t, uint16(30), word)
}

func TestLoweringIsDeterministic(t *testing.T) {
	compile := func() []isa.Instruction {
		lowerer := lir.NewLowerer(1 << 12)
		out, _, err := lowerer.Lower(buildAdditionProgram())
		require.NoError(t, err)
		return out
	}

	first := compile()
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, compile())
	}
}

func TestUndefinedVariableFails(t *testing.T) {
	ghost := lir.VarKey{ID: 999999, Capability: lir.Register}
	lowerer := lir.NewLowerer(1 << 12)
	_, _, err := lowerer.Lower([]lir.Instr{lir.LoadImmediate(ghost, 1)})
	require.ErrorIs(t, err, lir.ErrUndefinedVariable)
}

func TestOutOfRegistersPropagates(t *testing.T) {
	lowerer := lir.NewLowerer(1 << 12)

	const n = 17 // one more than the machine's 16 registers
	vars := make([]lir.VarKey, n)
	for i := range vars {
		vars[i] = lir.NewVar(lir.Register)
	}

	var instrs []lir.Instr
	for _, v := range vars {
		instrs = append(instrs, lir.DefineVar(v))
	}
	// Touching every variable after all are defined makes their lifetimes
	// pairwise overlap, so all n must be live in registers simultaneously.
	for _, v := range vars {
		instrs = append(instrs, lir.LoadImmediate(v, 0))
	}

	_, _, err := lowerer.Lower(instrs)
	require.ErrorIs(t, err, lir.ErrOutOfRegisters)
}
