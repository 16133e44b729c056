package sourcechain

import (
	"sync"

	"github.com/google/uuid"
)

// Merge fans multiple sources of the same item type into one: every item
// any input emits is forwarded, in arrival order, to the output. The
// output fails the moment any input fails, finishes once every input has
// finished, and cancels if every input cancels without any of them
// having finished or failed. Because an output here has more than one
// parent, it is wired by hand rather than through newChild, which
// assumes exactly one.
func Merge[T any](label string, inputs ...*Source[T]) *Source[T] {
	if len(inputs) == 0 {
		return Empty[T](label)
	}

	out := New[T](label)
	var mu sync.Mutex
	remaining := len(inputs)
	anyDone := false

	for _, in := range inputs {
		in := in
		id := uuid.New()

		in.mu.Lock()
		in.children[id] = out
		in.mu.Unlock()
		wireItem(in, id, func(item T) { _ = out.Emit(item) })

		in.completed.OnReady(func() {
			in.handle.removeChild(id)

			if out.completed.IsReady() {
				return
			}
			switch in.completed.State() {
			case Failed:
				f := in.Failure()
				_ = out.completed.Fail(f.Err, f.Site, f.Tags...)
			case Done:
				mu.Lock()
				anyDone = true
				remaining--
				done := remaining == 0
				mu.Unlock()
				if done {
					_ = out.Finish()
				}
			case Cancelled:
				mu.Lock()
				remaining--
				done := remaining == 0
				mu.Unlock()
				if done {
					if anyDone {
						_ = out.Finish()
					} else {
						_ = out.Cancel()
					}
				}
			}
		})
	}

	return out
}

// FlatMap maps each item to a slice and emits its elements individually,
// grounded on the source material's flatten.go/unbatcher.go pair
// collapsed into one operator now that batching itself has no host here.
func FlatMap[In, Out any](parent *Source[In], label string, fn func(In) []Out) *Source[Out] {
	return attach(parent, label, func(item In, child *Source[Out]) {
		for _, out := range fn(item) {
			if err := child.Emit(out); err != nil {
				return
			}
		}
	})
}

// Apply runs fn against every item concurrently (up to no bound beyond
// the caller's own fn), emitting each result as soon as it is ready; the
// output finishes once parent has finished and every in-flight fn call
// has returned. Ordering is arrival order of completion, not input
// order; OrderedFutures likewise relays in completion order, and no
// operator here restores input order.
func Apply[In, Out any](parent *Source[In], label string, fn func(In) Out) *Source[Out] {
	var wg sync.WaitGroup
	return attachBuffered(parent, label,
		func(item In, child *Source[Out]) {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = child.Emit(fn(item))
			}()
		},
		func(child *Source[Out]) {
			go func() {
				wg.Wait()
				_ = child.Finish()
			}()
		},
	)
}

// OrderedFutures relays the done value of each completion handle emitted
// by parent onto D in completion order, not input order — consumers that
// need the results back in input order have no operator for that here
// (see the Open Questions decision this is grounded on). A completion
// that fails or is cancelled fails or is skipped the same way; D finishes
// once parent has finished and every completion it emitted has itself
// resolved.
func OrderedFutures[Out any](parent *Source[*Completion[Out]], label string) *Source[Out] {
	var mu sync.Mutex
	pending := 0
	parentDone := false

	finishIfDone := func(child *Source[Out]) {
		mu.Lock()
		done := parentDone && pending == 0
		mu.Unlock()
		if done {
			_ = child.Finish()
		}
	}

	return attachBuffered(parent, label,
		func(item *Completion[Out], child *Source[Out]) {
			mu.Lock()
			pending++
			mu.Unlock()

			item.OnReady(func() {
				switch item.State() {
				case Done:
					v, _ := item.Value()
					_ = child.Emit(v)
				case Failed:
					f := item.Failure()
					_ = child.completed.Fail(f.Err, f.Site, f.Tags...)
				}
				mu.Lock()
				pending--
				mu.Unlock()
				finishIfDone(child)
			})
		},
		func(child *Source[Out]) {
			mu.Lock()
			parentDone = true
			mu.Unlock()
			finishIfDone(child)
		},
	)
}

// EachAsSource runs fn for every item, treating fn's return as a nested
// Source whose items are relayed onto the single output in the order
// their owning nested Source produces them; the output finishes once
// parent and every nested Source have finished.
func EachAsSource[In, Out any](parent *Source[In], label string, fn func(In) *Source[Out]) *Source[Out] {
	var mu sync.Mutex
	pending := 0
	parentDone := false

	finishIfDone := func(child *Source[Out]) {
		mu.Lock()
		done := parentDone && pending == 0
		mu.Unlock()
		if done {
			_ = child.Finish()
		}
	}

	return attachBuffered(parent, label,
		func(item In, child *Source[Out]) {
			nested := fn(item)
			mu.Lock()
			pending++
			mu.Unlock()

			nested.Each(func(out Out) { _ = child.Emit(out) })
			nested.completed.OnReady(func() {
				if nested.IsFailed() {
					f := nested.Failure()
					_ = child.completed.Fail(f.Err, f.Site, f.Tags...)
					return
				}
				mu.Lock()
				pending--
				mu.Unlock()
				finishIfDone(child)
			})
		},
		func(child *Source[Out]) {
			mu.Lock()
			parentDone = true
			mu.Unlock()
			finishIfDone(child)
		},
	)
}

// Catch lets handler observe and optionally recover from a failed
// parent: if handler returns a non-nil recovery source, its emissions are
// spliced into child and child inherits its completion; if handler
// returns nil, child's own completion fails the same way parent's did.
// Items preceding the failure pass through unchanged. This needs its own
// wiring rather than newChild/attach, which forward a parent's Failed
// state into the child automatically — exactly the step Catch exists to
// intercept.
func Catch[T any](parent *Source[T], label string, handler func(*Failure) *Source[T]) *Source[T] {
	child := newSource[T](parent.engine, label)

	id := uuid.New()
	child.id = id
	parent.mu.Lock()
	parent.children[id] = child
	parent.mu.Unlock()
	wireItem(parent, id, func(item T) { _ = child.Emit(item) })

	parent.completed.OnReady(func() {
		defer parent.handle.removeChild(id)
		if child.completed.IsReady() {
			return
		}
		switch parent.completed.State() {
		case Done:
			_ = child.Finish()
		case Cancelled:
			_ = child.Cancel()
		case Failed:
			recovery := handler(parent.Failure())
			if recovery == nil {
				f := parent.Failure()
				_ = child.completed.Fail(f.Err, f.Site, f.Tags...)
				return
			}
			recovery.Each(func(item T) { _ = child.Emit(item) })
			forwardTerminal(recovery.completed.asView(), child.completed.asView(),
				func() { _ = child.Finish() },
				func(f *Failure) { _ = child.completed.Fail(f.Err, f.Site, f.Tags...) },
				func() { _ = child.Cancel() },
			)
		}
	})

	child.completed.OnReady(func() {
		parent.handle.removeChild(id)
	})

	return child
}

// SwitchCase pairs a key value with the transform to run when key(item)
// string-equals Key.
type SwitchCase[T, U any] struct {
	Key string
	Fn  func(T) U
}

// SwitchStr finds the first case whose Key string-equals key(item) and
// emits its Fn(item) on the single output D; if none matches and
// defaultFn is non-nil, emits defaultFn(item) instead. If none matches
// and defaultFn is nil, the item is silently dropped — switch_str has no
// other fallback.
func SwitchStr[T, U any](parent *Source[T], label string, key func(T) string, cases []SwitchCase[T, U], defaultFn func(T) U) *Source[U] {
	return attach(parent, label, func(item T, child *Source[U]) {
		k := key(item)
		for _, c := range cases {
			if c.Key == k {
				_ = child.Emit(c.Fn(item))
				return
			}
		}
		if defaultFn != nil {
			_ = child.Emit(defaultFn(item))
		}
	})
}
