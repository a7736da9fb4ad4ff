// Package transform implements the compiler backend's pass-composition
// discipline: a Transformer turns one typed payload into another, carrying
// an Extras sidecar of out-of-band byte blobs (index maps, allocation
// metadata) that downstream passes and tooling can look up by key without
// threading new return values through every stage.
package transform

// Extras is the sidecar channel attached to every pipeline payload. Data
// is the pass's primary typed result; Sidecar holds out-of-band artefacts
// keyed by name (e.g. "byte_to_instr", "alloc_map").
type Extras[T any] struct {
	Data    T
	Sidecar map[string][]byte
}

// NewExtras wraps data in a fresh Extras with an empty sidecar.
func NewExtras[T any](data T) Extras[T] {
	return Extras[T]{Data: data, Sidecar: make(map[string][]byte)}
}

// Put attaches a sidecar artefact under key, overwriting any existing
// value.
func (e *Extras[T]) Put(key string, value []byte) {
	if e.Sidecar == nil {
		e.Sidecar = make(map[string][]byte)
	}
	e.Sidecar[key] = value
}

// Get looks up a sidecar artefact by key.
func (e *Extras[T]) Get(key string) ([]byte, bool) {
	v, ok := e.Sidecar[key]
	return v, ok
}
