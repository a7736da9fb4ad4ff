package regfile

import "errors"

// ErrRegisterAccessViolation is returned for any register index outside
// 0..Count-1. The 4-bit register fields in isa.Instruction guarantee this
// never fires for decoded instructions, but constructors bypassing decode
// (tests, the compiler backend) route through here like anything else.
var ErrRegisterAccessViolation = errors.New("regfile: access violation")
