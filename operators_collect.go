package sourcechain

import "strings"

// AsList collects every item parent emits into a Completion that
// resolves to the full slice once parent finishes — or fails/cancels to
// match parent. Unlike the rest of the catalogue this bypasses the
// Source chain entirely and returns the Completion directly (§4.D), the
// same "—" wiring as the blocking bridge but without blocking the
// caller.
func AsList[T any](parent *Source[T], site string) *Completion[[]T] {
	out := NewCompletion[[]T]()
	var items []T
	parent.Each(func(item T) { items = append(items, item) })
	forwardTerminal(parent.completed.asView(), out.asView(),
		func() { _ = out.Done(items) },
		func(f *Failure) { _ = out.Fail(f.Err, f.Site, f.Tags...) },
		func() { _ = out.Cancel() },
	)
	return out
}

// AsArrayRef is AsList with the result wrapped behind a pointer, the
// reference-semantics counterpart the source material distinguishes
// from a plain list.
func AsArrayRef[T any](parent *Source[T], site string) *Completion[*[]T] {
	out := NewCompletion[*[]T]()
	var items []T
	parent.Each(func(item T) { items = append(items, item) })
	forwardTerminal(parent.completed.asView(), out.asView(),
		func() { _ = out.Done(&items) },
		func(f *Failure) { _ = out.Fail(f.Err, f.Site, f.Tags...) },
		func() { _ = out.Cancel() },
	)
	return out
}

// AsString concatenates every string item parent emits into a single
// Completion, resolving once parent finishes.
func AsString(parent *Source[string], site string, sep string) *Completion[string] {
	out := NewCompletion[string]()
	var parts []string
	parent.Each(func(item string) { parts = append(parts, item) })
	forwardTerminal(parent.completed.asView(), out.asView(),
		func() { _ = out.Done(strings.Join(parts, sep)) },
		func(f *Failure) { _ = out.Fail(f.Err, f.Site, f.Tags...) },
		func() { _ = out.Cancel() },
	)
	return out
}
