// Package assemble turns a sequence of target instructions into machine
// code bytes, recording the byte-range each instruction produced so
// debuggers and the compiler backend can map a PC back to the instruction
// that emitted it. The incremental emit-and-grow-buffer style follows the
// assembler's emitWord in the example corpus's wut4 toolchain, adapted
// from little-endian words into this machine's big-endian encoding.
package assemble

import "strm16/isa"

// Range is a half-open byte range [Start, End) within the assembled
// output.
type Range struct {
	Start int
	End   int
}

// Result is the assembled output: the raw bytes plus the two mutually
// inverse index maps tying byte offsets back to source instructions.
type Result[Extra comparable] struct {
	Bytes        []byte
	ByteToExtra  map[int]Extra
	ExtraToRange map[Extra]Range
}

// Sequence assembles instrs in order, tagging each one's emitted bytes
// with the corresponding entry from extras (typically the originating
// instruction index). instrs and extras must be the same length.
func Sequence[Extra comparable](instrs []isa.Instruction, extras []Extra) (Result[Extra], error) {
	result := Result[Extra]{
		ByteToExtra:  make(map[int]Extra),
		ExtraToRange: make(map[Extra]Range),
	}

	for i, instr := range instrs {
		bs, err := isa.Assemble(instr)
		if err != nil {
			return Result[Extra]{}, err
		}

		start := len(result.Bytes)
		result.Bytes = append(result.Bytes, bs...)
		end := len(result.Bytes)

		extra := extras[i]
		for b := start; b < end; b++ {
			result.ByteToExtra[b] = extra
		}
		result.ExtraToRange[extra] = Range{Start: start, End: end}
	}

	return result, nil
}
