package isa

import (
	"fmt"

	"strm16/mask"
)

// BytesPerWord is the size in bytes of one machine word, used throughout
// the toolchain wherever a byte count must be derived from a word count.
const BytesPerWord = 2

// Instruction is the tuple (kind, reg_a?, reg_b?, immediate?). RegA/RegB
// are only meaningful when their corresponding hasRegA/hasRegB flag is
// set; Immediate is only meaningful when HasImmediate is set.
type Instruction struct {
	Kind      Kind
	RegA      byte
	RegB      byte
	hasRegA   bool
	hasRegB   bool
	Immediate uint16
	hasImm    bool
}

// NewInstruction builds an instruction with both register operands set.
func NewInstruction(kind Kind, regA, regB byte) Instruction {
	return Instruction{Kind: kind, RegA: regA, RegB: regB, hasRegA: true, hasRegB: true}
}

// NewInstructionA builds an instruction with only reg_a set.
func NewInstructionA(kind Kind, regA byte) Instruction {
	return Instruction{Kind: kind, RegA: regA, hasRegA: true}
}

// NewImmediate builds a LoadI-style instruction carrying an immediate.
func NewImmediate(kind Kind, regA byte, value uint16) Instruction {
	return Instruction{Kind: kind, RegA: regA, hasRegA: true, Immediate: value, hasImm: true}
}

// HasRegA reports whether RegA was populated (by construction or decode).
func (i Instruction) HasRegA() bool { return i.hasRegA }

// HasRegB reports whether RegB was populated (by construction or decode).
func (i Instruction) HasRegB() bool { return i.hasRegB }

// HasImmediate reports whether Immediate was set to a meaningful value.
func (i Instruction) HasImmediate() bool { return i.hasImm }

func (i Instruction) String() string {
	switch {
	case i.hasImm && i.hasRegA:
		return fmt.Sprintf("%s r%d, %d", i.Kind, i.RegA, i.Immediate)
	case i.hasRegA && i.hasRegB:
		return fmt.Sprintf("%s r%d, r%d", i.Kind, i.RegA, i.RegB)
	case i.hasRegA:
		return fmt.Sprintf("%s r%d", i.Kind, i.RegA)
	default:
		return i.Kind.String()
	}
}

// encodeFirstWord packs opcode[6] | reg_a[4] | reg_b[4] | reserved[2]=0,
// bits 15..0, per the instruction set's fixed encoding.
func encodeFirstWord(i Instruction) uint16 {
	return uint16(i.Kind.Opcode())<<10 | uint16(i.RegA&0xF)<<6 | uint16(i.RegB&0xF)<<2
}

// Assemble encodes instr into its wire bytes: 2 bytes if it has no
// immediate, 4 bytes (instruction word followed by immediate word) if it
// does. Fails with ErrMissingImmediate if the kind requires an immediate
// that was never set.
func Assemble(instr Instruction) ([]byte, error) {
	if instr.Kind.HasImmediate() && !instr.hasImm {
		return nil, fmt.Errorf("%w: %s", ErrMissingImmediate, instr.Kind)
	}

	word := encodeFirstWord(instr)
	out := make([]byte, 0, 4)
	out = append(out, byte(word>>8), byte(word))
	if instr.Kind.HasImmediate() {
		out = append(out, byte(instr.Immediate>>8), byte(instr.Immediate))
	}
	return out, nil
}

// DeassembleWord decodes a single instruction word (not including any
// trailing immediate word) into an Instruction. Fails with
// ErrUnrecognizedOpcode for unknown opcode values. RegA/RegB are marked
// populated iff the kind uses them or the corresponding bits are nonzero,
// per the instruction model's contract.
func DeassembleWord(word uint16) (Instruction, error) {
	opcode := byte(mask.Range16(word, 1, 6))
	kind, ok := kindFromOpcode(opcode)
	if !ok {
		return Instruction{}, fmt.Errorf("%w: 0x%02x", ErrUnrecognizedOpcode, opcode)
	}

	regA := byte(mask.Range16(word, 7, 10))
	regB := byte(mask.Range16(word, 11, 14))

	instr := Instruction{Kind: kind}
	if kind.usesRegA() || regA != 0 {
		instr.RegA = regA
		instr.hasRegA = true
	}
	if kind.usesRegB() || regB != 0 {
		instr.RegB = regB
		instr.hasRegB = true
	}
	return instr, nil
}
