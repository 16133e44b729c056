package sourcechain

import (
	"fmt"
	"sync"
	"weak"

	"github.com/google/uuid"
)

// itemCallback is one entry on a Source's on_item list. id is also the
// key under which the owning child is tracked in the parent's children
// map, so a single identity removes both the delivery callback and the
// ownership entry when the child's completion transitions (§4.C).
type itemCallback[T any] struct {
	id uuid.UUID
	fn func(T)
}

// nodeHandle is the type-erased, non-generic face a Source presents to
// its children. It is owned by the Source it describes; a child's
// parentRef is a weak.Pointer to it, and parents own children strongly
// (Source.children). parentRef is not the child's only link upward:
// the removal hook newChild registers on the child's completion captures
// the parent directly, so a child that is still pending keeps its
// parent reachable.
//
// parent and invokeGet let a descendant walk to the root of its ancestor
// chain and fire that root's on_get thunk without knowing the root's item
// type (§4.F get()).
type nodeHandle struct {
	describe    func() string
	removeChild func(uuid.UUID)
	parent      func() *nodeHandle
	invokeGet   func()
}

// Source is a push endpoint: a label, an optional weak parent link, a
// strongly-owned list of children, an ordered on_item callback list, and
// a lazily-terminating Completion. See spec §3 "Source node (S)".
//
//nolint:govet // fieldalignment: struct layout optimized for readability
type Source[T any] struct {
	mu sync.Mutex

	label  string
	engine *Engine

	id        uuid.UUID // this Source's identity within its parent's bookkeeping; zero for roots.
	parentRef weak.Pointer[nodeHandle]
	handle    *nodeHandle
	children  map[uuid.UUID]any

	onItem []itemCallback[T]

	completed *Completion[void]

	// onGet is this Source's on_get thunk (§3): set by a factory whose
	// production is deferred until something pulls it via get(), rather
	// than started at construction time. onGetOnce guards against firing
	// it more than once when several descendants each call get().
	onGet     func()
	onGetOnce sync.Once

	isPaused bool
}

// New constructs a root Source with no parent. label defaults to
// "unknown" when empty, matching §3's Source node invariants.
func New[T any](label string) *Source[T] {
	return newSource[T](DefaultEngine, label)
}

// NewWithEngine constructs a root Source bound to a specific Engine,
// rather than the process-wide DefaultEngine.
func NewWithEngine[T any](engine *Engine, label string) *Source[T] {
	return newSource[T](engine, label)
}

func newSource[T any](engine *Engine, label string) *Source[T] {
	if engine == nil {
		engine = DefaultEngine
	}
	if label == "" {
		label = "unknown"
	}

	s := &Source[T]{
		label:    label,
		engine:   engine,
		children: make(map[uuid.UUID]any),
	}
	s.completed = engine.newCompletion(label)
	s.handle = &nodeHandle{
		describe:    s.describe,
		removeChild: s.removeChild,
		parent:      func() *nodeHandle { return s.parentRef.Value() },
		invokeGet:   s.triggerOwnGet,
	}

	// §3: once completed is ready, on_item is cleared; §5: a source
	// notifies its parent and releases its own buffers on transition.
	s.completed.OnReady(func() {
		s.mu.Lock()
		s.onItem = nil
		s.mu.Unlock()
		instrumentCompletion(engine, label, s.completed.State())
	})

	return s
}

// Label returns this Source's label.
func (s *Source[T]) Label() string { return s.label }

// parent returns the parent Source's nodeHandle, or nil if the weak back-reference no longer resolves (the upstream
// chain was dropped) or this Source is a root.
func (s *Source[T]) parent() *nodeHandle {
	return s.parentRef.Value()
}

// Completed returns this Source's Completion, the authoritative
// "terminated" predicate (§3).
func (s *Source[T]) Completed() *Completion[void] { return s.completed }

// IsReady, IsDone, IsFailed, IsCancelled, Failure mirror Completion's
// queries for convenience on the Source itself.
func (s *Source[T]) IsReady() bool     { return s.completed.IsReady() }
func (s *Source[T]) IsDone() bool      { return s.completed.IsDone() }
func (s *Source[T]) IsFailed() bool    { return s.completed.IsFailed() }
func (s *Source[T]) IsCancelled() bool { return s.completed.IsCancelled() }
func (s *Source[T]) Failure() *Failure { return s.completed.Failure() }

// Pause and Resume toggle the advisory is_paused flag. Per spec §9 this
// core does not wire it to emission; it is observable only via IsPaused.
func (s *Source[T]) Pause() {
	s.mu.Lock()
	s.isPaused = true
	s.mu.Unlock()
}

func (s *Source[T]) Resume() {
	s.mu.Lock()
	s.isPaused = false
	s.mu.Unlock()
}

func (s *Source[T]) IsPaused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isPaused
}

// Finish transitions this Source's completion to done.
func (s *Source[T]) Finish() error { return s.completed.Done(void{}) }

// Fail transitions this Source's completion to failed.
func (s *Source[T]) Fail(err error, tags ...string) error {
	return s.completed.Fail(err, s.label, tags...)
}

// Cancel transitions this Source's completion to cancelled.
func (s *Source[T]) Cancel() error { return s.completed.Cancel() }

// Describe returns "label0=>label1=>...=>labelN(state)" by walking the
// weak parent chain. If a weak link has gone stale, the walk stops there
// rather than panicking — the diagnostic is still useful, just truncated.
func (s *Source[T]) Describe() string { return s.describe() }

func (s *Source[T]) describe() string {
	prefix := ""
	if p := s.parent(); p != nil {
		prefix = p.describe() + "=>"
	}
	return fmt.Sprintf("%s%s(%s)", prefix, s.label, s.completed.State())
}

// Each appends cb to on_item and returns self. Intended for terminal
// sinks that never need their registration removed explicitly — it is
// cleared automatically, along with every other callback, once this
// Source's own completion transitions (§4.B).
func (s *Source[T]) Each(cb func(T)) *Source[T] {
	s.mu.Lock()
	s.onItem = append(s.onItem, itemCallback[T]{id: uuid.New(), fn: cb})
	s.mu.Unlock()
	return s
}

// Emit delivers each item to a snapshot of the current on_item list, in
// order. If the completion is already ready before any callback runs,
// emit fails with ErrAlreadyCompleted. If a callback panics, emit logs a
// warning, fails the completion with the recovered value tagged
// "exception in on_item callback", and aborts the remaining items in
// this call (§4.B, §7a/b).
func (s *Source[T]) Emit(items ...T) error {
	for _, item := range items {
		if err := s.emitOne(item); err != nil {
			return err
		}
	}
	return nil
}

func (s *Source[T]) emitOne(item T) error {
	if s.completed.IsReady() {
		_ = s.completed.Fail(ErrAlreadyCompleted, s.label)
		return ErrAlreadyCompleted
	}

	s.mu.Lock()
	callbacks := make([]itemCallback[T], len(s.onItem))
	copy(callbacks, s.onItem)
	s.mu.Unlock()

	for _, cb := range callbacks {
		if err := s.runCallback(cb, item); err != nil {
			return err
		}
	}
	instrumentEmit(s.engine, s.label)
	return nil
}

func (s *Source[T]) runCallback(cb itemCallback[T], item T) (retErr error) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%v", r)
			logCallbackPanic(s.label, err)
			_ = s.completed.Fail(err, s.label, calleeExceptionTag)
			retErr = err
		}
	}()
	cb.fn(item)
	return nil
}

// removeChild extracts the callback/ownership entry for id, then applies
// §4.C rule 2: if this Source has no children left and is not yet ready,
// it cancels itself.
func (s *Source[T]) removeChild(id uuid.UUID) {
	s.mu.Lock()
	delete(s.children, id)
	filtered := s.onItem[:0]
	for _, cb := range s.onItem {
		if cb.id != id {
			filtered = append(filtered, cb)
		}
	}
	s.onItem = filtered
	empty := len(s.children) == 0
	s.mu.Unlock()

	if empty && !s.completed.IsReady() {
		_ = s.Cancel()
	}
}

// Then registers cb to run when this Source's completion transitions,
// mirroring Completion.OnReady at the Source level.
func (s *Source[T]) Then(cb func()) *Source[T] {
	s.completed.OnReady(cb)
	return s
}

// triggerOwnGet runs this Source's on_get thunk exactly once, if one was
// set. Safe to call on a Source with no on_get of its own — it is then a
// no-op.
func (s *Source[T]) triggerOwnGet() {
	s.onGetOnce.Do(func() {
		s.mu.Lock()
		fn := s.onGet
		s.mu.Unlock()
		if fn != nil {
			fn()
		}
	})
}

// triggerGet walks up the ancestor chain to the root Source and invokes
// its on_get thunk, if any (§4.F get(): "walk up to root and invoke its
// on_get thunk if present"). Called once per terminal consumer (Get,
// GetOne); onGetOnce makes repeated calls harmless.
func (s *Source[T]) triggerGet() {
	h := s.handle
	for {
		p := h.parent()
		if p == nil {
			break
		}
		h = p
	}
	h.invokeGet()
}

// Print and Say are diagnostic sinks: Print writes items with fmt.Print
// semantics (no trailing newline management beyond fmt's own), Say adds
// one. Both are convenience wrappers over Each, intended for quick
// pipeline debugging the way the source material's say()/print() are.
func (s *Source[T]) Print() *Source[T] {
	return s.Each(func(item T) { fmt.Print(item) })
}

func (s *Source[T]) Say() *Source[T] {
	return s.Each(func(item T) { fmt.Println(item) })
}

// Empty returns a root Source that finishes immediately without emitting
// anything.
func Empty[T any](label string) *Source[T] {
	s := New[T](label)
	_ = s.Finish()
	return s
}

// Never returns a root Source that never emits and never completes.
func Never[T any](label string) *Source[T] {
	return New[T](label)
}

// Throw returns a root Source that fails immediately with err.
func Throw[T any](label string, err error) *Source[T] {
	s := New[T](label)
	_ = s.Fail(err)
	return s
}
