// Package mem implements the machine's byte-addressable memory: a fixed-size
// byte array with a big-endian word view, plus the guarded-cell contract
// that captures "this cell was just overwritten" as a patch for later
// tracing. The memory is the direct generalization of the teacher's
// Bus.FakeRam ([64*1024]byte accessed by plain Read/Write) into a store
// whose writes are observable after the fact without the caller having to
// thread tracing state through every instruction handler.
package mem

import "fmt"

// MaxSize is the machine's maximum addressable memory, 2^16 bytes.
const MaxSize = 1 << 16

// Patch is an (address, new_value) record appended when a guarded cell is
// released with a changed value.
type Patch struct {
	Addr  uint16
	Value byte
}

// Memory is a fixed-size byte array addressed by word, with deferred
// write-patch collection. It is exclusively owned by one emulator instance;
// guarded cells borrow it for the duration of one read/write.
type Memory struct {
	bytes   []byte
	patches []Patch
}

// New creates a memory of the given size (bytes), which must not exceed
// MaxSize. All cells are zero-initialized.
func New(size int) *Memory {
	if size <= 0 || size > MaxSize {
		size = MaxSize
	}
	return &Memory{bytes: make([]byte, size)}
}

// Size returns the memory's addressable capacity in bytes.
func (m *Memory) Size() int { return len(m.bytes) }

func (m *Memory) inRange(addr uint16) bool {
	return int(addr) < len(m.bytes)
}

// LoadProgram copies program into memory starting at address 0. The
// program's length must not exceed the memory's size.
func (m *Memory) LoadProgram(program []byte) error {
	if len(program) > len(m.bytes) {
		return fmt.Errorf("%w: program of %d bytes exceeds memory size %d", ErrMemoryAccessViolation, len(program), len(m.bytes))
	}
	copy(m.bytes, program)
	return nil
}

// Byte reads one untraced byte. Fails with ErrMemoryAccessViolation if addr
// is out of range.
func (m *Memory) Byte(addr uint16) (byte, error) {
	if !m.inRange(addr) {
		return 0, fmt.Errorf("%w: byte read at 0x%04x", ErrMemoryAccessViolation, addr)
	}
	return m.bytes[addr], nil
}

// Word reads a big-endian untraced word: (mem[a]<<8) | mem[a+1]. Fails if
// either byte is out of range.
func (m *Memory) Word(addr uint16) (uint16, error) {
	hi, err := m.Byte(addr)
	if err != nil {
		return 0, err
	}
	// addr+1 must be range-checked in int space: at addr == 0xFFFF it wraps
	// back to 0 as a uint16, which would wrongly read byte 0 as the low byte
	// instead of failing.
	if int(addr)+1 >= len(m.bytes) {
		return 0, fmt.Errorf("%w: word read at 0x%04x", ErrMemoryAccessViolation, addr)
	}
	lo := m.bytes[addr+1]
	return uint16(hi)<<8 | uint16(lo), nil
}

// GuardedByteCell is a scoped handle over one memory byte: on acquisition it
// snapshots the current value; while held it exposes Get/Set over the live
// value; on Commit, if the value changed, one patch is appended to the
// memory's patch log.
type GuardedByteCell struct {
	mem      *Memory
	addr     uint16
	snapshot byte
	value    byte
}

// ByteMut acquires a guarded handle to the byte at addr. Fails with
// ErrMemoryAccessViolation if addr is out of range.
func (m *Memory) ByteMut(addr uint16) (*GuardedByteCell, error) {
	if !m.inRange(addr) {
		return nil, fmt.Errorf("%w: byte write at 0x%04x", ErrMemoryAccessViolation, addr)
	}
	v := m.bytes[addr]
	return &GuardedByteCell{mem: m, addr: addr, snapshot: v, value: v}, nil
}

// Get returns the cell's current (possibly uncommitted) value.
func (c *GuardedByteCell) Get() byte { return c.value }

// Set overwrites the cell's current value. The change is not visible to
// other readers of Memory until Commit is called.
func (c *GuardedByteCell) Set(v byte) { c.value = v }

// Commit writes the cell's current value back to memory and, if it differs
// from the value at acquisition time, appends one patch to the memory's
// patch log. Commit must run on every control-flow exit, including error
// paths, typically via a deferred call.
func (c *GuardedByteCell) Commit() {
	c.mem.bytes[c.addr] = c.value
	if c.value != c.snapshot {
		c.mem.patches = append(c.mem.patches, Patch{Addr: c.addr, Value: c.value})
	}
}

// GuardedWordCell is the word-granular counterpart to GuardedByteCell. It
// addresses two consecutive bytes, big-endian; on Commit, if the composed
// word changed, it appends two byte-granular patches (one per physical
// byte), regardless of whether both bytes actually moved.
type GuardedWordCell struct {
	mem      *Memory
	addr     uint16
	snapshot uint16
	value    uint16
}

// WordMut acquires a guarded handle to the word at addr. Fails if either of
// the two bytes it covers is out of range.
func (m *Memory) WordMut(addr uint16) (*GuardedWordCell, error) {
	v, err := m.Word(addr)
	if err != nil {
		return nil, err
	}
	return &GuardedWordCell{mem: m, addr: addr, snapshot: v, value: v}, nil
}

// Get returns the cell's current (possibly uncommitted) value.
func (c *GuardedWordCell) Get() uint16 { return c.value }

// Set overwrites the cell's current value.
func (c *GuardedWordCell) Set(v uint16) { c.value = v }

// Commit writes the cell's current value back to memory (high byte at addr,
// low byte at addr+1) and, if it differs from the snapshot, appends two
// patches to the memory's patch log.
func (c *GuardedWordCell) Commit() {
	c.mem.bytes[c.addr] = byte(c.value >> 8)
	c.mem.bytes[c.addr+1] = byte(c.value)
	if c.value != c.snapshot {
		c.mem.patches = append(c.mem.patches,
			Patch{Addr: c.addr, Value: byte(c.value >> 8)},
			Patch{Addr: c.addr + 1, Value: byte(c.value)},
		)
	}
}

// PopPatches drains and returns every patch recorded since the last call.
// It must be called exactly once per instruction cycle by the emulator; no
// other consumer may drain it.
func (m *Memory) PopPatches() []Patch {
	if len(m.patches) == 0 {
		return nil
	}
	drained := m.patches
	m.patches = nil
	return drained
}
