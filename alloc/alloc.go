// Package alloc implements the backend's live-range variable allocator:
// given each prealloc variable's lifetime, importance (heat), and
// allocation requirement, it assigns each one a home in the 16-register
// file or in a configurable memory region, deterministically and without
// silent fallback when a hard requirement cannot be met. The algorithm is
// a priority-ordered variant of linear-scan register allocation.
package alloc

import "sort"

// Requirement constrains where a variable may be placed. Its integer
// value doubles as the dominant sort key during assignment: Register
// variables are placed first, then Generic, then Memory.
type Requirement int

const (
	Register Requirement = iota
	Generic
	Memory
)

// Kind identifies which home an Alloc describes.
type Kind int

const (
	KindRegister Kind = iota
	KindMemory
)

// Alloc is one variable's resolved home.
type Alloc struct {
	Kind  Kind
	Index int // register index, when Kind == KindRegister
	Addr  int // memory address, when Kind == KindMemory
}

// Map is the final VarId -> home assignment.
type Map map[uint64]Alloc

type variable struct {
	id          uint64
	start       int
	end         int
	importance  int
	requirement Requirement
}

// Allocator accumulates variable metadata across a single pass over the
// prealloc IR, then produces an assignment in one deterministic Run.
type Allocator struct {
	vars  map[uint64]*variable
	order []uint64

	registerSlots int
	memorySlots   int
}

// New returns an allocator configured with the machine's fixed register
// count and the given memory capacity (number of addressable slots
// available for variable homes).
func New(registerSlots, memorySlots int) *Allocator {
	return &Allocator{
		vars:          make(map[uint64]*variable),
		registerSlots: registerSlots,
		memorySlots:   memorySlots,
	}
}

// Define registers a new variable id with its lifetime start and
// allocation requirement, importance initialized to zero. Fails with
// ErrDuplicateDefinition if id was already defined.
func (a *Allocator) Define(id uint64, start int, requirement Requirement) error {
	if _, exists := a.vars[id]; exists {
		return ErrDuplicateDefinition
	}
	a.vars[id] = &variable{id: id, start: start, end: start, requirement: requirement}
	a.order = append(a.order, id)
	return nil
}

// Touch records a use of id at instruction index: extends its lifetime end
// to index and increments its importance. Fails with ErrUndefinedVariable
// if id was never Defined.
func (a *Allocator) Touch(id uint64, index int) error {
	v, ok := a.vars[id]
	if !ok {
		return ErrUndefinedVariable
	}
	if index > v.end {
		v.end = index
	}
	v.importance++
	return nil
}

// Run produces the final allocation map. Variables are sorted descending
// by importance, then stably by requirement (Register first), so ties
// within a requirement class keep their importance order. Register
// variables that fail to place are a fatal ErrOutOfRegisters; Memory
// variables that fail are a fatal ErrOutOfMemory; Generic variables try a
// register first and fall back to memory.
func (a *Allocator) Run() (Map, error) {
	vars := make([]*variable, 0, len(a.order))
	for _, id := range a.order {
		vars = append(vars, a.vars[id])
	}

	sort.SliceStable(vars, func(i, j int) bool {
		return vars[i].importance > vars[j].importance
	})
	sort.SliceStable(vars, func(i, j int) bool {
		return vars[i].requirement < vars[j].requirement
	})

	regMap := NewFixedUsageMap(a.registerSlots)
	memMap := NewGrowableUsageMap(a.memorySlots)

	result := make(Map, len(vars))
	for _, v := range vars {
		lifetime := Range{Start: v.start, End: v.end}

		switch v.requirement {
		case Register:
			idx, ok := regMap.ReserveFree(lifetime)
			if !ok {
				return nil, ErrOutOfRegisters
			}
			result[v.id] = Alloc{Kind: KindRegister, Index: idx}

		case Memory:
			addr, ok := memMap.ReserveFree(lifetime)
			if !ok {
				return nil, ErrOutOfMemory
			}
			result[v.id] = Alloc{Kind: KindMemory, Addr: addr}

		case Generic:
			if idx, ok := regMap.ReserveFree(lifetime); ok {
				result[v.id] = Alloc{Kind: KindRegister, Index: idx}
				continue
			}
			addr, ok := memMap.ReserveFree(lifetime)
			if !ok {
				return nil, ErrOutOfMemory
			}
			result[v.id] = Alloc{Kind: KindMemory, Addr: addr}
		}
	}

	return result, nil
}
