package sourcechain

import (
	"weak"

	"github.com/google/uuid"
)

// newChild creates a Source[U] downstream of parent: parent owns it
// strongly (parent.children[id]), the child observes parent only through
// a weak.Pointer to parent's nodeHandle. Only Failed/Cancelled propagate
// automatically here — Done does not, because whole-stream operators
// (sort, aggregate, as_list) need to run their own flush before the
// child finishes. Pass-through operators get their "parent done -> child
// done" behavior from attach below, which installs it as an ordinary
// onDone hook rather than baking it into construction.
func newChild[T, U any](parent *Source[T], label string) *Source[U] {
	child := newSource[U](parent.engine, label)

	id := uuid.New()
	child.id = id
	child.parentRef = weak.Make(parent.handle)

	parent.mu.Lock()
	parent.children[id] = child
	parent.mu.Unlock()

	parent.completed.OnReady(func() {
		if child.completed.IsReady() {
			return
		}
		switch parent.completed.State() {
		case Failed:
			f := parent.Failure()
			_ = child.completed.Fail(f.Err, f.Site, f.Tags...)
		case Cancelled:
			_ = child.Cancel()
		}
	})

	// When the child itself reaches a terminal state, the parent drops
	// its ownership entry and the matching on_item callback by identity
	// (§4.C rule 1); if that empties the parent's children while it is
	// still pending, the parent cancels (§4.C rule 2, enforced in
	// Source.removeChild).
	child.completed.OnReady(func() {
		parent.handle.removeChild(id)
	})

	return child
}

// wireItem registers a callback on parent's on_item list tagged with id,
// so it can later be removed by that same identity from newChild's
// completion hook. Kept as a free function alongside newChild for the
// same generic-method restriction.
func wireItem[T any](parent *Source[T], id uuid.UUID, cb func(T)) {
	parent.mu.Lock()
	parent.onItem = append(parent.onItem, itemCallback[T]{id: id, fn: cb})
	parent.mu.Unlock()
}

// attach is the common shape behind every pass-through operator in the
// catalogue: build the child with newChild, deliver items to it through
// fn using the child's own identity (so the newChild teardown hook
// removes both the ownership entry and this callback together), and
// finish the child the moment parent finishes — correct whenever an
// operator has nothing left to do once input stops (map, filter, skip,
// take, distinct, ...).
func attach[In, Out any](parent *Source[In], label string, fn func(item In, child *Source[Out])) *Source[Out] {
	child := attachBuffered(parent, label, fn, func(child *Source[Out]) { _ = child.Finish() })
	return child
}

// attachBuffered is attach's general form for operators that must run a
// flush step — draining a sort/aggregate/collect buffer — before
// deciding how the child finishes, instead of finishing unconditionally
// the moment parent does.
func attachBuffered[In, Out any](parent *Source[In], label string, fn func(item In, child *Source[Out]), onParentDone func(child *Source[Out])) *Source[Out] {
	child := newChild[In, Out](parent, label)
	wireItem(parent, child.id, func(item In) { fn(item, child) })
	parent.completed.OnReady(func() {
		if parent.IsDone() && !child.completed.IsReady() {
			onParentDone(child)
		}
	})
	return child
}
