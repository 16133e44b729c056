package sourcechain

import (
	"context"
	"sync"
)

// Completion is a single-assignment, observable result with four mutually
// exclusive terminal states: pending, done, failed, and cancelled. It is
// the rendezvous point every operator needing "end of stream" semantics
// builds on: aggregators emit when a Completion transitions to done,
// combiners time their own emission off several Completions at once.
//
// A Completion's state transitions at most once, and only away from
// Pending; registered observers fire exactly once, in registration order,
// and an observer registered after the transition fires immediately on
// the calling goroutine.
//
//nolint:govet // fieldalignment: struct layout optimized for readability
type Completion[T any] struct {
	mu        sync.Mutex
	state     State
	value     T
	failure   *Failure
	observers []func()
	ready     chan struct{}
}

// NewCompletion creates a pending Completion. Source construction is the
// only expected caller — see Engine.newCompletion, which is the single
// point where alternate construction concerns (tagging, metrics) hook in,
// standing in for the fully replaceable "completion-handle factory" of
// the source material: Go disallows generic methods and generic package
// variables, so a literal runtime-swappable constructor for Completion[T]
// has no idiomatic home. NewCompletion itself stays fixed; Engine's
// construction hook is the pluggable seam.
func NewCompletion[T any]() *Completion[T] {
	return &Completion[T]{
		state: Pending,
		ready: make(chan struct{}),
	}
}

// Done transitions the Completion from pending to done, carrying value as
// the final result. Returns ErrNotPending if already terminal.
func (c *Completion[T]) Done(value T) error {
	return c.transition(func() {
		c.state = Done
		c.value = value
	})
}

// Fail transitions the Completion from pending to failed.
func (c *Completion[T]) Fail(err error, site string, tags ...string) error {
	return c.transition(func() {
		c.state = Failed
		c.failure = NewFailure(err, site, tags...)
	})
}

// Cancel transitions the Completion from pending to cancelled.
func (c *Completion[T]) Cancel() error {
	return c.transition(func() {
		c.state = Cancelled
	})
}

// transition performs a single terminal move and fires every observer
// exactly once, in registration order, outside the lock.
func (c *Completion[T]) transition(mutate func()) error {
	c.mu.Lock()
	if c.state != Pending {
		c.mu.Unlock()
		return ErrNotPending
	}
	mutate()
	observers := c.observers
	c.observers = nil
	close(c.ready)
	c.mu.Unlock()

	for _, obs := range observers {
		obs()
	}
	return nil
}

// OnReady registers cb to run when the Completion transitions. If the
// Completion is already terminal, cb runs immediately, synchronously, on
// the calling goroutine.
func (c *Completion[T]) OnReady(cb func()) {
	c.mu.Lock()
	if c.state != Pending {
		c.mu.Unlock()
		cb()
		return
	}
	c.observers = append(c.observers, cb)
	c.mu.Unlock()
}

// State returns the current terminal state.
func (c *Completion[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsReady reports whether the Completion has left the pending state.
func (c *Completion[T]) IsReady() bool {
	return c.State() != Pending
}

// IsDone, IsFailed, and IsCancelled are pure queries over State.
func (c *Completion[T]) IsDone() bool      { return c.State() == Done }
func (c *Completion[T]) IsFailed() bool    { return c.State() == Failed }
func (c *Completion[T]) IsCancelled() bool { return c.State() == Cancelled }

// Failure returns the failure payload, or nil if the Completion is not
// (yet) failed.
func (c *Completion[T]) Failure() *Failure {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failure
}

// Value returns the done value and true, or the zero value and false if
// the Completion has not transitioned to done.
func (c *Completion[T]) Value() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Done {
		var zero T
		return zero, false
	}
	return c.value, true
}

// Await blocks the calling goroutine until the Completion is ready or ctx
// is done, whichever happens first. On done it returns the value and a
// nil error; on failed it returns the failure as an error; on cancelled
// it returns the zero value and a nil error (a cancelled stream is not a
// user-visible error, per §7).
func (c *Completion[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-c.ready:
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case Failed:
		var zero T
		return zero, c.failure
	default:
		return c.value, nil
	}
}

// asView narrows the Completion down to the type-erased surface the chain
// graph and parent notifications operate on, independent of T.
func (c *Completion[T]) asView() completionView {
	return completionAdapter[T]{c}
}

// completionView is the surface every Completion exposes to code that
// does not know its item type: the chain graph, forward-completion
// wiring, and combining operators that coordinate several Completions of
// different types at once (combine_latest, merge, apply).
type completionView interface {
	State() State
	IsReady() bool
	OnReady(func())
	Failure() *Failure
}

type completionAdapter[T any] struct{ c *Completion[T] }

func (a completionAdapter[T]) State() State       { return a.c.State() }
func (a completionAdapter[T]) IsReady() bool      { return a.c.IsReady() }
func (a completionAdapter[T]) OnReady(cb func())  { a.c.OnReady(cb) }
func (a completionAdapter[T]) Failure() *Failure  { return a.c.Failure() }

// TransformDone returns a new Completion that, when c transitions to
// done with value v, transitions to done with f(v); other terminal
// states propagate unchanged. This is §4.A's transform(done -> f).
func TransformDone[T, U any](c *Completion[T], f func(T) U) *Completion[U] {
	out := NewCompletion[U]()
	c.OnReady(func() {
		switch c.State() {
		case Done:
			v, _ := c.Value()
			_ = out.Done(f(v))
		case Failed:
			fl := c.Failure()
			_ = out.Fail(fl.Err, fl.Site, fl.Tags...)
		case Cancelled:
			_ = out.Cancel()
		}
	})
	return out
}

// forwardTerminal propagates from's terminal state into into, unless
// into is already terminal. This is the "forward U" completion wiring
// every pass-through operator in §4.D uses.
func forwardTerminal(from completionView, into completionView, intoDone func(), intoFail func(*Failure), intoCancel func()) {
	from.OnReady(func() {
		if into.IsReady() {
			return
		}
		switch from.State() {
		case Done:
			intoDone()
		case Failed:
			fl := from.Failure()
			intoFail(fl)
		case Cancelled:
			intoCancel()
		}
	})
}
