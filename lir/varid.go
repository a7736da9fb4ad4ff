package lir

import "sync/atomic"

var nextVarID atomic.Uint64

// NextVarID returns a fresh, process-wide unique variable id. The counter
// is a monotonic package-level atomic created at initialisation with no
// teardown, so internal scratch variables minted by the allocator prepass
// can never collide with ids the front end assigned.
func NextVarID() uint64 {
	return nextVarID.Add(1)
}
