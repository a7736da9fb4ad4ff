package emulator

import "errors"

// ErrMemoryAccessViolation is the execution-layer counterpart of
// mem.ErrMemoryAccessViolation. Memory faults during execution are reported
// under this sentinel with the mem error's text appended (not wrapped, so
// errors.Is does not match the mem sentinel), so callers can distinguish
// "fault during this instruction's execution" from a raw memory-package error.
var ErrMemoryAccessViolation = errors.New("emulator: memory access violation")

// ErrIllegalInstruction is returned when fetch decodes an unrecognized
// opcode.
var ErrIllegalInstruction = errors.New("emulator: illegal instruction")
