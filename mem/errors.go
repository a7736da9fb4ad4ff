package mem

import "errors"

// ErrMemoryAccessViolation is returned by any byte or word access outside
// the memory's addressable range.
var ErrMemoryAccessViolation = errors.New("mem: access violation")
