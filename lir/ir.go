// Package lir implements the backend's prealloc intermediate
// representation and its lowering to target instructions: variable keys
// stand in for registers/memory until the allocator assigns them a home,
// and the Lowerer's two prepasses perform that assignment plus the
// Von-Neumann code/data offset fix-up before the main pass emits concrete
// isa.Instruction values.
package lir

import (
	"strm16/alloc"
	"strm16/isa"
)

// Capability constrains where a variable key's eventual home may live.
// It is exactly alloc.Requirement; the two packages agree on the same
// three-way constraint so the allocator's sort order and the IR's
// declared capabilities never have to be translated back and forth.
type Capability = alloc.Requirement

const (
	Register = alloc.Register
	Generic  = alloc.Generic
	Memory   = alloc.Memory
)

// VarKey names one prealloc variable and the capability it was declared
// with.
type VarKey struct {
	ID         uint64
	Capability Capability
}

// NewVar mints a fresh variable key with the given capability.
func NewVar(capability Capability) VarKey {
	return VarKey{ID: NextVarID(), Capability: capability}
}

// Op identifies a prealloc instruction's variant.
type Op int

const (
	OpDefineVar Op = iota
	OpExplicitRegister
	OpExplicitMemory
	OpLoadImmediate
	OpLoadVar
	OpStoreVar
	OpJmp
	OpJmpC
	OpJmpZ
	OpAdd
	OpSub
	OpAddC
	OpSubC
	OpAnd
	OpTargetPassthrough
)

// Instr is one prealloc IR instruction. Only the fields relevant to Op are
// meaningful; this mirrors isa.Instruction's compact tagged-struct style
// rather than a class hierarchy per variant.
type Instr struct {
	Op Op

	// DefineVar: the variable being defined.
	// LoadImmediate, LoadVar: the destination (always Register capability).
	// StoreVar: the destination (any capability).
	// Jmp/JmpC/JmpZ: the address operand (Register capability).
	// Add/Sub/AddC/SubC/And: the first operand and the result destination.
	Dest VarKey

	// LoadVar: the source variable (any capability).
	// StoreVar: the source (Register capability).
	// Add/Sub/AddC/SubC/And: the second operand (Register capability).
	Src VarKey

	// LoadImmediate: the immediate value.
	Immediate uint16

	// TargetPassthrough: raw target instructions inlined verbatim.
	Target []isa.Instruction
}

// DefineVar builds a DefineVar instruction for key at its definition
// point.
func DefineVar(key VarKey) Instr { return Instr{Op: OpDefineVar, Dest: key} }

// LoadImmediate builds dest <- value.
func LoadImmediate(dest VarKey, value uint16) Instr {
	return Instr{Op: OpLoadImmediate, Dest: dest, Immediate: value}
}

// LoadVar builds dest <- src (copy of src's current value into a
// register).
func LoadVar(dest, src VarKey) Instr { return Instr{Op: OpLoadVar, Dest: dest, Src: src} }

// StoreVar builds dest <- src (write src's register value into dest's
// home).
func StoreVar(dest, src VarKey) Instr { return Instr{Op: OpStoreVar, Dest: dest, Src: src} }

// Jmp/JmpC/JmpZ build unconditional/conditional branches to addr.
func Jmp(addr VarKey) Instr  { return Instr{Op: OpJmp, Dest: addr} }
func JmpC(addr VarKey) Instr { return Instr{Op: OpJmpC, Dest: addr} }
func JmpZ(addr VarKey) Instr { return Instr{Op: OpJmpZ, Dest: addr} }

// Add/Sub/AddC/SubC/And build a <- alu_op(a, b), result written back to a.
func Add(a, b VarKey) Instr  { return Instr{Op: OpAdd, Dest: a, Src: b} }
func Sub(a, b VarKey) Instr  { return Instr{Op: OpSub, Dest: a, Src: b} }
func AddC(a, b VarKey) Instr { return Instr{Op: OpAddC, Dest: a, Src: b} }
func SubC(a, b VarKey) Instr { return Instr{Op: OpSubC, Dest: a, Src: b} }
func And(a, b VarKey) Instr  { return Instr{Op: OpAnd, Dest: a, Src: b} }

// TargetPassthrough inlines target instructions verbatim, unseen by
// allocation.
func TargetPassthrough(instructions []isa.Instruction) Instr {
	return Instr{Op: OpTargetPassthrough, Target: instructions}
}
