package sourcechain

import (
	"sync"

	"github.com/google/uuid"
)

// CombineLatest emits combine(a, b) every time either input produces an
// item, once both have produced at least one. D completes the moment
// either input does — the first of a/b to reach any terminal state
// forwards that state into out immediately, rather than waiting for both.
func CombineLatest[A, B, R any](a *Source[A], b *Source[B], label string, combine func(A, B) R) *Source[R] {
	out := New[R](label)
	var mu sync.Mutex
	var latestA A
	var latestB B
	haveA, haveB := false, false

	emit := func() {
		mu.Lock()
		ready := haveA && haveB
		va, vb := latestA, latestB
		mu.Unlock()
		if ready {
			_ = out.Emit(combine(va, vb))
		}
	}

	idA := uuid.New()
	a.mu.Lock()
	a.children[idA] = out
	a.mu.Unlock()
	wireItem(a, idA, func(item A) {
		mu.Lock()
		latestA, haveA = item, true
		mu.Unlock()
		emit()
	})

	idB := uuid.New()
	b.mu.Lock()
	b.children[idB] = out
	b.mu.Unlock()
	wireItem(b, idB, func(item B) {
		mu.Lock()
		latestB, haveB = item, true
		mu.Unlock()
		emit()
	})

	a.completed.OnReady(func() {
		a.handle.removeChild(idA)
		if out.completed.IsReady() {
			return
		}
		switch a.completed.State() {
		case Failed:
			f := a.Failure()
			_ = out.completed.Fail(f.Err, f.Site, f.Tags...)
		case Done:
			_ = out.Finish()
		case Cancelled:
			_ = out.Cancel()
		}
	})
	b.completed.OnReady(func() {
		b.handle.removeChild(idB)
		if out.completed.IsReady() {
			return
		}
		switch b.completed.State() {
		case Failed:
			f := b.Failure()
			_ = out.completed.Fail(f.Err, f.Site, f.Tags...)
		case Done:
			_ = out.Finish()
		case Cancelled:
			_ = out.Cancel()
		}
	})

	return out
}

// WithLatestFrom emits combine(item, latest) each time primary emits,
// using the most recent value secondary has produced; items from
// primary that arrive before secondary has produced anything are
// dropped. The output's lifetime tracks primary alone: it finishes,
// fails, or cancels exactly when primary does.
func WithLatestFrom[A, B, R any](primary *Source[A], secondary *Source[B], label string, combine func(A, B) R) *Source[R] {
	var mu sync.Mutex
	var latest B
	have := false

	secondary.Each(func(item B) {
		mu.Lock()
		latest, have = item, true
		mu.Unlock()
	})

	return attach(primary, label, func(item A, child *Source[R]) {
		mu.Lock()
		v, ok := latest, have
		mu.Unlock()
		if !ok {
			return
		}
		_ = child.Emit(combine(item, v))
	})
}
