package isa

import "errors"

// ErrMissingImmediate is returned by Assemble when an instruction's kind
// requires an immediate but none was set.
var ErrMissingImmediate = errors.New("isa: missing immediate")

// ErrUnrecognizedOpcode is returned by DeassembleWord when the word's
// opcode field does not correspond to any known Kind.
var ErrUnrecognizedOpcode = errors.New("isa: unrecognized opcode")
