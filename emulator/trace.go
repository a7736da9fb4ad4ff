package emulator

import (
	"strm16/mem"
	"strm16/regfile"
)

// IterationTrace is the pair of drained memory and register patches
// produced by one executed instruction cycle.
type IterationTrace struct {
	MemPatches []mem.Patch
	RegPatches []regfile.Patch
}

// TraceSink receives one IterationTrace per completed instruction cycle.
// The emulator is parameterised over a TraceSink so tracing can be turned
// off entirely without branching inside the instruction cycle.
type TraceSink interface {
	Record(instructionPC uint16, trace IterationTrace)
}

// NoopTraceSink discards every trace it receives.
type NoopTraceSink struct{}

// Record implements TraceSink by doing nothing.
func (NoopTraceSink) Record(uint16, IterationTrace) {}

type traceEntry struct {
	pc    uint16
	trace IterationTrace
}

// TraceIndex is the by-PC history used for time-travel inspection: a
// mapping from PC to the sequence of iterations recorded at that PC, plus
// the global recording order needed to answer "value as of PC" queries.
type TraceIndex struct {
	entries []traceEntry
	perPC   map[uint16][]IterationTrace
}

// NewTraceIndex returns an empty trace index.
func NewTraceIndex() *TraceIndex {
	return &TraceIndex{perPC: make(map[uint16][]IterationTrace)}
}

// Record appends trace under instructionPC, both to the per-PC bucket and
// to the global recording order.
func (t *TraceIndex) Record(instructionPC uint16, trace IterationTrace) {
	t.entries = append(t.entries, traceEntry{pc: instructionPC, trace: trace})
	t.perPC[instructionPC] = append(t.perPC[instructionPC], trace)
}

// IterationsAt returns every iteration trace recorded at exactly pc, in
// recording order.
func (t *TraceIndex) IterationsAt(pc uint16) []IterationTrace {
	return t.perPC[pc]
}

// IterationsUpTo returns every iteration trace recorded at a PC strictly
// less than pc, in recording order. Since it filters on the PC value
// rather than the position of the querying PC in the global sequence, it
// never depends on iterations that have yet to occur at a not-yet-reached
// point in the program.
func (t *TraceIndex) IterationsUpTo(pc uint16) []IterationTrace {
	var out []IterationTrace
	for _, e := range t.entries {
		if e.pc < pc {
			out = append(out, e.trace)
		}
	}
	return out
}

// RegisterAt returns the latest value register idx was patched to in any
// iteration recorded strictly before pc, and whether such a patch exists.
func (t *TraceIndex) RegisterAt(pc uint16, idx byte) (uint16, bool) {
	var value uint16
	found := false
	for _, e := range t.entries {
		if e.pc >= pc {
			continue
		}
		for _, p := range e.trace.RegPatches {
			if p.Index == idx {
				value = p.Value
				found = true
			}
		}
	}
	return value, found
}

// MemoryByteAt returns the latest value byte addr was patched to in any
// iteration recorded strictly before pc, and whether such a patch exists.
func (t *TraceIndex) MemoryByteAt(pc uint16, addr uint16) (byte, bool) {
	var value byte
	found := false
	for _, e := range t.entries {
		if e.pc >= pc {
			continue
		}
		for _, p := range e.trace.MemPatches {
			if p.Addr == addr {
				value = p.Value
				found = true
			}
		}
	}
	return value, found
}

// MemoryWordAt composes two MemoryByteAt lookups, big-endian, at addr and
// addr+1. It reports found only if both bytes have a recorded patch
// strictly before pc.
func (t *TraceIndex) MemoryWordAt(pc uint16, addr uint16) (uint16, bool) {
	hi, ok := t.MemoryByteAt(pc, addr)
	if !ok {
		return 0, false
	}
	lo, ok := t.MemoryByteAt(pc, addr+1)
	if !ok {
		return 0, false
	}
	return uint16(hi)<<8 | uint16(lo), true
}
