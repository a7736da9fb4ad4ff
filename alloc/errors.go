package alloc

import "errors"

// ErrUndefinedVariable is returned when a variable id is referenced before
// Define is called for it.
var ErrUndefinedVariable = errors.New("alloc: undefined variable")

// ErrOutOfRegisters is returned when a Register-requirement variable
// cannot be placed in any of the 16 registers.
var ErrOutOfRegisters = errors.New("alloc: out of registers")

// ErrOutOfMemory is returned when a Memory-requirement variable cannot be
// placed in any remaining memory slot.
var ErrOutOfMemory = errors.New("alloc: out of memory")

// ErrDuplicateDefinition is returned when Define is called twice for the
// same variable id.
var ErrDuplicateDefinition = errors.New("alloc: duplicate definition")
