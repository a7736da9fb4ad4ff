package lir

import (
	"fmt"

	"strm16/alloc"
	"strm16/isa"
)

// Lowerer drives the two prepasses and the main emission pass over one
// prealloc instruction sequence. It owns the allocator instance so
// AllocatePass, the offset computation, and EmitPass all see the same
// variable state.
type Lowerer struct {
	allocator *alloc.Allocator
	scratch   map[int]VarKey // instruction index -> internal address-holder var
}

// NewLowerer builds a lowerer whose allocator has the machine's 16
// registers and the given memory capacity available for variable homes.
func NewLowerer(memorySlots int) *Lowerer {
	return &Lowerer{
		allocator: alloc.New(regfileCount, memorySlots),
		scratch:   make(map[int]VarKey),
	}
}

const regfileCount = 16

// Lower runs AllocatePass, resolves the allocation, applies the
// Von-Neumann offset fix-up, and runs the main emission pass, returning
// the target instructions and the final (offset-applied) allocation map.
func (l *Lowerer) Lower(instrs []Instr) ([]isa.Instruction, alloc.Map, error) {
	if err := l.allocatePass(instrs); err != nil {
		return nil, nil, err
	}

	allocMap, err := l.allocator.Run()
	if err != nil {
		return nil, nil, translateAllocErr(err)
	}

	codeLen := l.offsetPass(instrs, allocMap)
	applyOffset(allocMap, codeLen*isa.BytesPerWord)

	out, err := l.emitPass(instrs, allocMap)
	if err != nil {
		return nil, nil, err
	}
	return out, allocMap, nil
}

func translateAllocErr(err error) error {
	switch err {
	case alloc.ErrOutOfRegisters:
		return ErrOutOfRegisters
	case alloc.ErrOutOfMemory:
		return ErrOutOfMemory
	default:
		return err
	}
}

// allocatePass is Prepass A: it walks the prealloc IR once, defining each
// variable at its DefineVar point, minting an internal scratch register
// for every StoreVar whose destination is not itself Register capability,
// and extending every referenced variable's lifetime plus importance.
func (l *Lowerer) allocatePass(instrs []Instr) error {
	for idx, instr := range instrs {
		switch instr.Op {
		case OpDefineVar:
			if err := l.allocator.Define(instr.Dest.ID, idx, instr.Dest.Capability); err != nil {
				return err
			}
			continue

		case OpExplicitRegister, OpExplicitMemory:
			continue

		case OpStoreVar:
			if instr.Dest.Capability != Register {
				scratch := NewVar(Register)
				if err := l.allocator.Define(scratch.ID, idx, Register); err != nil {
					return err
				}
				if err := l.allocator.Touch(scratch.ID, idx+1); err != nil {
					return err
				}
				l.scratch[idx] = scratch
			}
		}

		for _, ref := range operandsOf(instr) {
			if err := l.allocator.Touch(ref.ID, idx); err != nil {
				return fmt.Errorf("%w: var %d at instruction %d", ErrUndefinedVariable, ref.ID, idx)
			}
		}
	}
	return nil
}

// operandsOf returns the variable operands an instruction reads or
// writes, excluding DefineVar's own definition and TargetPassthrough
// (which has none).
func operandsOf(instr Instr) []VarKey {
	switch instr.Op {
	case OpLoadImmediate:
		return []VarKey{instr.Dest}
	case OpLoadVar, OpStoreVar:
		return []VarKey{instr.Dest, instr.Src}
	case OpJmp, OpJmpC, OpJmpZ:
		return []VarKey{instr.Dest}
	case OpAdd, OpSub, OpAddC, OpSubC, OpAnd:
		return []VarKey{instr.Dest, instr.Src}
	default:
		return nil
	}
}

// wordsFor returns the number of target-instruction words instr expands
// to once lowered, given the (pre-offset) allocation map. LoadImmediate
// is one LoadI carrying an immediate word, and any Memory-homed
// LoadVar/StoreVar needs two target instructions (a LoadI with its
// immediate word plus a Load/Store), so this counts real
// assembled words rather than abstract instruction slots -- the total
// must be the actual number of code words preceding data, or variable
// homes in memory would alias unemitted code.
func wordsFor(instr Instr, allocMap alloc.Map, scratch map[int]VarKey, idx int) int {
	switch instr.Op {
	case OpDefineVar, OpExplicitRegister, OpExplicitMemory:
		return 0

	case OpLoadImmediate:
		return 2

	case OpLoadVar:
		if allocMap[instr.Src.ID].Kind == alloc.KindRegister {
			return 1
		}
		return 2 + 1 // LoadI (2 words) + Load (1 word)

	case OpStoreVar:
		if allocMap[instr.Dest.ID].Kind == alloc.KindRegister {
			return 1
		}
		return 2 + 1 // LoadI t, addr (2 words) + Store (1 word)

	case OpJmp, OpJmpC, OpJmpZ, OpAdd, OpSub, OpAddC, OpSubC, OpAnd:
		return 1

	case OpTargetPassthrough:
		total := 0
		for _, ti := range instr.Target {
			if ti.Kind.HasImmediate() {
				total += 2
			} else {
				total++
			}
		}
		return total

	default:
		return 0
	}
}

// offsetPass is Prepass B's sizing half: sum every instruction's expanded
// word count without emitting anything, to learn how many words of code
// will precede the data region.
func (l *Lowerer) offsetPass(instrs []Instr, allocMap alloc.Map) int {
	total := 0
	for idx, instr := range instrs {
		total += wordsFor(instr, allocMap, l.scratch, idx)
	}
	return total
}

// applyOffset adds codeLen, a byte count, to every Memory allocation's address, so IR-level
// memory addresses (which index a flat space starting at 0) land after the
// code region that Prepass A/B just sized.
func applyOffset(allocMap alloc.Map, codeLen int) {
	for id, a := range allocMap {
		if a.Kind == alloc.KindMemory {
			a.Addr += codeLen
			allocMap[id] = a
		}
	}
}

func (l *Lowerer) resolve(allocMap alloc.Map, key VarKey) (alloc.Alloc, error) {
	a, ok := allocMap[key.ID]
	if !ok {
		return alloc.Alloc{}, fmt.Errorf("%w: var %d", ErrUndefinedVariable, key.ID)
	}
	return a, nil
}

func (l *Lowerer) reg(allocMap alloc.Map, key VarKey) (byte, error) {
	a, err := l.resolve(allocMap, key)
	if err != nil {
		return 0, err
	}
	return byte(a.Index), nil
}

// emitPass is the main pass: it maps each prealloc instruction to its
// concrete target instructions per the lowering table.
func (l *Lowerer) emitPass(instrs []Instr, allocMap alloc.Map) ([]isa.Instruction, error) {
	var out []isa.Instruction

	for idx, instr := range instrs {
		switch instr.Op {
		case OpDefineVar, OpExplicitRegister, OpExplicitMemory:
			continue

		case OpLoadImmediate:
			destReg, err := l.reg(allocMap, instr.Dest)
			if err != nil {
				return nil, err
			}
			out = append(out, isa.NewImmediate(isa.LoadI, destReg, instr.Immediate))

		case OpLoadVar:
			destReg, err := l.reg(allocMap, instr.Dest)
			if err != nil {
				return nil, err
			}
			srcAlloc, err := l.resolve(allocMap, instr.Src)
			if err != nil {
				return nil, err
			}
			if srcAlloc.Kind == alloc.KindRegister {
				out = append(out, isa.NewInstruction(isa.Cpy, destReg, byte(srcAlloc.Index)))
			} else {
				out = append(out,
					isa.NewImmediate(isa.LoadI, destReg, uint16(srcAlloc.Addr)),
					isa.NewInstruction(isa.Load, destReg, destReg),
				)
			}

		case OpStoreVar:
			srcReg, err := l.reg(allocMap, instr.Src)
			if err != nil {
				return nil, err
			}
			destAlloc, err := l.resolve(allocMap, instr.Dest)
			if err != nil {
				return nil, err
			}
			if destAlloc.Kind == alloc.KindRegister {
				out = append(out, isa.NewInstruction(isa.Cpy, byte(destAlloc.Index), srcReg))
				continue
			}
			scratchKey, ok := l.scratch[idx]
			if !ok {
				return nil, fmt.Errorf("%w: missing scratch register for instruction %d", ErrUndefinedVariable, idx)
			}
			scratchReg, err := l.reg(allocMap, scratchKey)
			if err != nil {
				return nil, err
			}
			out = append(out,
				isa.NewImmediate(isa.LoadI, scratchReg, uint16(destAlloc.Addr)),
				isa.NewInstruction(isa.Store, scratchReg, srcReg),
			)

		case OpJmp, OpJmpC, OpJmpZ:
			addrReg, err := l.reg(allocMap, instr.Dest)
			if err != nil {
				return nil, err
			}
			var kind isa.Kind
			switch instr.Op {
			case OpJmp:
				kind = isa.Jmp
			case OpJmpC:
				kind = isa.JmpC
			case OpJmpZ:
				kind = isa.JmpZ
			}
			out = append(out, isa.NewInstructionA(kind, addrReg))

		case OpAdd, OpSub, OpAddC, OpSubC, OpAnd:
			aReg, err := l.reg(allocMap, instr.Dest)
			if err != nil {
				return nil, err
			}
			bReg, err := l.reg(allocMap, instr.Src)
			if err != nil {
				return nil, err
			}
			var kind isa.Kind
			switch instr.Op {
			case OpAdd:
				kind = isa.Add
			case OpSub:
				kind = isa.Sub
			case OpAddC:
				kind = isa.AddC
			case OpSubC:
				kind = isa.SubC
			case OpAnd:
				kind = isa.And
			}
			out = append(out, isa.NewInstruction(kind, aReg, bReg))

		case OpTargetPassthrough:
			out = append(out, instr.Target...)
		}
	}

	return out, nil
}
