package lir

import "errors"

// ErrUndefinedVariable is returned when an instruction references a
// variable id that was never defined via DefineVar.
var ErrUndefinedVariable = errors.New("lir: undefined variable")

// ErrOutOfRegisters is returned when a Register-capability variable could
// not be placed in any register.
var ErrOutOfRegisters = errors.New("lir: out of registers")

// ErrOutOfMemory is returned when a Memory-capability variable could not
// be placed in any memory slot.
var ErrOutOfMemory = errors.New("lir: out of memory")
