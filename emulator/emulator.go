// Package emulator implements the fetch-decode-execute-drain-trace
// instruction cycle for the machine: it wires isa's bit-exact decoder,
// mem's guarded memory, regfile's guarded registers, and an ALU into one
// interpreter, recording every state change into a TraceSink so historical
// queries ("what was r3 at PC=40?") work without the interpreter itself
// knowing anything about tracing.
package emulator

import (
	"fmt"

	"strm16/isa"
	"strm16/mem"
	"strm16/regfile"
)

// Status is the outcome of one instruction cycle.
type Status int

const (
	// Normal means the cycle completed and execution should continue.
	Normal Status = iota
	// Halted means a Halt instruction completed this cycle.
	Halted
)

func (s Status) String() string {
	if s == Halted {
		return "Halted"
	}
	return "Normal"
}

// Emulator holds one machine's full execution state: memory, registers,
// ALU flags, program counter, and the trace index being built as
// instructions execute.
type Emulator struct {
	Memory *mem.Memory
	Regs   *regfile.File
	ALU    ALU
	PC     uint16

	sink TraceSink
}

// New constructs an emulator with program copied into memory starting at
// address 0, all registers zeroed, PC at 0, flags clear, and an empty
// trace index. sink receives one IterationTrace per completed instruction;
// pass NoopTraceSink{} to disable tracing entirely, or a *TraceIndex
// (see NewTraced) to enable historical queries.
func New(program []byte, sink TraceSink) (*Emulator, error) {
	m := mem.New(mem.MaxSize)
	if err := m.LoadProgram(program); err != nil {
		return nil, err
	}
	if sink == nil {
		sink = NoopTraceSink{}
	}
	return &Emulator{
		Memory: m,
		Regs:   regfile.New(),
		sink:   sink,
	}, nil
}

// NewTraced constructs an emulator backed by a fresh TraceIndex and
// returns both, for callers that want historical "value as of PC"
// queries.
func NewTraced(program []byte) (*Emulator, *TraceIndex, error) {
	idx := NewTraceIndex()
	e, err := New(program, idx)
	if err != nil {
		return nil, nil, err
	}
	return e, idx, nil
}

func wrapMemErr(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrMemoryAccessViolation, err)
}

// Step executes exactly one instruction cycle: fetch, decode, dispatch,
// drain patches, record one iteration trace. Returns Halted once a Halt
// instruction completes, Normal otherwise.
func (e *Emulator) Step() (Status, error) {
	instructionPC := e.PC

	firstWord, err := e.Memory.Word(e.PC)
	if err != nil {
		return Normal, wrapMemErr(err)
	}
	e.PC += isa.BytesPerWord

	instr, err := isa.DeassembleWord(firstWord)
	if err != nil {
		return Normal, fmt.Errorf("%w: %v", ErrIllegalInstruction, err)
	}

	if instr.Kind.HasImmediate() {
		immWord, err := e.Memory.Word(e.PC)
		if err != nil {
			return Normal, wrapMemErr(err)
		}
		e.PC += isa.BytesPerWord
		instr = isa.NewImmediate(instr.Kind, instr.RegA, immWord)
	}

	status, execErr := e.execute(instr)

	memPatches := e.Memory.PopPatches()
	regPatches := e.Regs.PopPatches()
	if execErr == nil {
		e.sink.Record(instructionPC, IterationTrace{MemPatches: memPatches, RegPatches: regPatches})
	}

	return status, execErr
}

// ExecuteToHalt steps the emulator until Halted or an error occurs.
func (e *Emulator) ExecuteToHalt() error {
	for {
		status, err := e.Step()
		if err != nil {
			return err
		}
		if status == Halted {
			return nil
		}
	}
}

func (e *Emulator) execute(instr isa.Instruction) (Status, error) {
	switch instr.Kind {
	case isa.Nop:
		return Normal, nil

	case isa.LoadI:
		return Normal, e.setReg(instr.RegA, instr.Immediate)

	case isa.Load:
		addr, err := e.getReg(instr.RegB)
		if err != nil {
			return Normal, err
		}
		v, err := e.Memory.Word(addr)
		if err != nil {
			return Normal, wrapMemErr(err)
		}
		return Normal, e.setReg(instr.RegA, v)

	case isa.Store:
		addr, err := e.getReg(instr.RegA)
		if err != nil {
			return Normal, err
		}
		v, err := e.getReg(instr.RegB)
		if err != nil {
			return Normal, err
		}
		cell, err := e.Memory.WordMut(addr)
		if err != nil {
			return Normal, wrapMemErr(err)
		}
		cell.Set(v)
		cell.Commit()
		return Normal, nil

	case isa.Cpy:
		v, err := e.getReg(instr.RegB)
		if err != nil {
			return Normal, err
		}
		return Normal, e.setReg(instr.RegA, v)

	case isa.Jmp:
		addr, err := e.getReg(instr.RegA)
		if err != nil {
			return Normal, err
		}
		e.PC = addr
		return Normal, nil

	case isa.JmpC:
		if e.ALU.Flags.Carry {
			addr, err := e.getReg(instr.RegA)
			if err != nil {
				return Normal, err
			}
			e.PC = addr
		}
		return Normal, nil

	case isa.JmpZ:
		if e.ALU.Flags.Zero {
			addr, err := e.getReg(instr.RegA)
			if err != nil {
				return Normal, err
			}
			e.PC = addr
		}
		return Normal, nil

	case isa.Add, isa.Sub, isa.AddC, isa.SubC, isa.And:
		a, err := e.getReg(instr.RegA)
		if err != nil {
			return Normal, err
		}
		b, err := e.getReg(instr.RegB)
		if err != nil {
			return Normal, err
		}
		var result uint16
		switch instr.Kind {
		case isa.Add:
			result = e.ALU.Add(a, b)
		case isa.Sub:
			result = e.ALU.Sub(a, b)
		case isa.AddC:
			result = e.ALU.AddC(a, b)
		case isa.SubC:
			result = e.ALU.SubC(a, b)
		case isa.And:
			result = e.ALU.And(a, b)
		}
		return Normal, e.setReg(instr.RegA, result)

	case isa.LoadH, isa.LoadL:
		addr, err := e.getReg(instr.RegB)
		if err != nil {
			return Normal, err
		}
		b, err := e.Memory.Byte(addr)
		if err != nil {
			return Normal, wrapMemErr(err)
		}
		current, err := e.getReg(instr.RegA)
		if err != nil {
			return Normal, err
		}
		var next uint16
		if instr.Kind == isa.LoadH {
			next = uint16(b)<<8 | (current & 0x00FF)
		} else {
			next = (current & 0xFF00) | uint16(b)
		}
		return Normal, e.setReg(instr.RegA, next)

	case isa.StoreH, isa.StoreL:
		addr, err := e.getReg(instr.RegA)
		if err != nil {
			return Normal, err
		}
		v, err := e.getReg(instr.RegB)
		if err != nil {
			return Normal, err
		}
		cell, err := e.Memory.ByteMut(addr)
		if err != nil {
			return Normal, wrapMemErr(err)
		}
		if instr.Kind == isa.StoreH {
			cell.Set(byte(v >> 8))
		} else {
			cell.Set(byte(v))
		}
		cell.Commit()
		return Normal, nil

	case isa.Halt:
		return Halted, nil

	default:
		return Normal, fmt.Errorf("%w: unhandled kind %s", ErrIllegalInstruction, instr.Kind)
	}
}

func (e *Emulator) getReg(idx byte) (uint16, error) {
	v, err := e.Regs.Get(idx)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrIllegalInstruction, err)
	}
	return v, nil
}

func (e *Emulator) setReg(idx byte, v uint16) error {
	cell, err := e.Regs.Mut(idx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIllegalInstruction, err)
	}
	cell.Set(v)
	cell.Commit()
	return nil
}
