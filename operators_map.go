package sourcechain

// Map transforms each item emitted by parent through fn and emits the
// result on the returned child. fn runs inside the item callback
// registered on parent, so a panic inside fn is trapped by parent's emit
// (§4.B), which fails parent; the child then fails with it.
func Map[In, Out any](parent *Source[In], label string, fn func(In) Out) *Source[Out] {
	return attach(parent, label, func(item In, child *Source[Out]) {
		_ = child.Emit(fn(item))
	})
}

// Tap runs fn for its side effect on every item, passing each through
// unchanged. Grounded on the source material's Tap processor, the
// simplest one in the catalogue: it observes without interfering.
func Tap[T any](parent *Source[T], label string, fn func(T)) *Source[T] {
	return attach(parent, label, func(item T, child *Source[T]) {
		fn(item)
		_ = child.Emit(item)
	})
}

// WithIndex pairs each item with its zero-based position in the stream.
type Indexed[T any] struct {
	Index int
	Value T
}

func WithIndex[T any](parent *Source[T], label string) *Source[Indexed[T]] {
	i := 0
	return attach(parent, label, func(item T, child *Source[Indexed[T]]) {
		_ = child.Emit(Indexed[T]{Index: i, Value: item})
		i++
	})
}
