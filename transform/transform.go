package transform

// Prepass is a named side-effecting step that runs before the main
// transform, typically accumulating state (e.g. the allocator's lifetime
// pass) that the transform function then consumes.
type Prepass[In any] struct {
	Name string
	Run  func(in In) error
}

// Transformer turns an In into an Out, running its ordered prepasses
// first. It is the unit of composition offered for backend passes. The
// backend stages in this repository (lir.Lowerer, assemble.Sequence) are
// ordinary functions and are not wrapped as Transformers.
type Transformer[In, Out any] struct {
	prepasses []Prepass[In]
	transform func(in In) (Out, error)
}

// New builds a Transformer from its prepasses (run in order) and its main
// transform function.
func New[In, Out any](transform func(in In) (Out, error), prepasses ...Prepass[In]) Transformer[In, Out] {
	return Transformer[In, Out]{prepasses: prepasses, transform: transform}
}

// Apply runs every prepass in order, then the transform function. A
// prepass or the transform returning an error aborts the call.
func (t Transformer[In, Out]) Apply(in In) (Out, error) {
	for _, p := range t.prepasses {
		if err := p.Run(in); err != nil {
			var zero Out
			return zero, err
		}
	}
	return t.transform(in)
}

// Chain composes two transformers so the first's output feeds the
// second's input.
func Chain[A, B, C any](first Transformer[A, B], second Transformer[B, C]) Transformer[A, C] {
	return New(func(in A) (C, error) {
		mid, err := first.Apply(in)
		if err != nil {
			var zero C
			return zero, err
		}
		return second.Apply(mid)
	})
}

// Repeat folds the same endo-transformer over its input n times in
// sequence, with no fixed-point detection: it always runs exactly n
// iterations.
func Repeat[T any](t Transformer[T, T], n int) Transformer[T, T] {
	return New(func(in T) (T, error) {
		out := in
		for i := 0; i < n; i++ {
			var err error
			out, err = t.Apply(out)
			if err != nil {
				var zero T
				return zero, err
			}
		}
		return out, nil
	})
}
