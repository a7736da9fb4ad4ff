// Package regfile implements the machine's 16-entry general-purpose
// register file, addressed by the 4-bit reg_a/reg_b fields in isa.Instruction.
// It mirrors mem's guarded-cell patch capture so the emulator can trace
// register writes with the same snapshot/commit discipline it uses for
// memory.
package regfile

import "fmt"

// Count is the number of general-purpose registers, fixed by the
// instruction encoding's 4-bit register fields.
const Count = 16

// Patch is an (index, new_value) record appended when a guarded register
// cell is released with a changed value.
type Patch struct {
	Index byte
	Value uint16
}

// File holds the 16 general-purpose registers plus deferred write-patch
// collection.
type File struct {
	regs    [Count]uint16
	patches []Patch
}

// New returns a zero-initialized register file.
func New() *File {
	return &File{}
}

func inRange(idx byte) bool { return int(idx) < Count }

// Get reads one untraced register value. Fails with
// ErrRegisterAccessViolation if idx is out of range.
func (f *File) Get(idx byte) (uint16, error) {
	if !inRange(idx) {
		return 0, fmt.Errorf("%w: r%d", ErrRegisterAccessViolation, idx)
	}
	return f.regs[idx], nil
}

// GuardedCell is a scoped handle over one register: snapshot on
// acquisition, Get/Set over the live value, one patch appended on Commit
// if the value changed.
type GuardedCell struct {
	file     *File
	idx      byte
	snapshot uint16
	value    uint16
}

// Mut acquires a guarded handle to register idx. Fails with
// ErrRegisterAccessViolation if idx is out of range.
func (f *File) Mut(idx byte) (*GuardedCell, error) {
	if !inRange(idx) {
		return nil, fmt.Errorf("%w: r%d", ErrRegisterAccessViolation, idx)
	}
	v := f.regs[idx]
	return &GuardedCell{file: f, idx: idx, snapshot: v, value: v}, nil
}

// Get returns the cell's current (possibly uncommitted) value.
func (c *GuardedCell) Get() uint16 { return c.value }

// Set overwrites the cell's current value.
func (c *GuardedCell) Set(v uint16) { c.value = v }

// Commit writes the cell's current value back to the register file and, if
// it differs from the value at acquisition time, appends one patch.
func (c *GuardedCell) Commit() {
	c.file.regs[c.idx] = c.value
	if c.value != c.snapshot {
		c.file.patches = append(c.file.patches, Patch{Index: c.idx, Value: c.value})
	}
}

// PopPatches drains and returns every patch recorded since the last call.
func (f *File) PopPatches() []Patch {
	if len(f.patches) == 0 {
		return nil
	}
	drained := f.patches
	f.patches = nil
	return drained
}
