package sourcechain

import "context"

// Get is the blocking bridge (§4.F): it attaches a collecting sink to s,
// walks up to the root of its ancestor chain to fire any deferred on_get
// thunk, then blocks the calling goroutine on s's own completion. On done
// it returns every item observed, in emission order; on failed it returns
// the Failure as an error; on cancelled it returns the items observed
// before cancellation and a nil error, matching Completion.Await's
// treatment of cancellation as not a user-visible error.
func (s *Source[T]) Get(ctx context.Context) ([]T, error) {
	var items []T
	s.Each(func(item T) { items = append(items, item) })
	s.triggerGet()

	if _, err := s.completed.Await(ctx); err != nil {
		return nil, err
	}
	if s.IsFailed() {
		return nil, s.Failure()
	}
	return items, nil
}

// GetOne blocks until s produces its first item or completes, whichever
// is first. If s completes before any item arrives, it returns the zero
// value and false alongside any failure.
func (s *Source[T]) GetOne(ctx context.Context) (T, bool, error) {
	type result struct {
		item T
		ok   bool
	}
	resultCh := make(chan result, 1)
	done := make(chan struct{})

	var sent bool
	s.Each(func(item T) {
		if sent {
			return
		}
		sent = true
		select {
		case resultCh <- result{item: item, ok: true}:
		case <-done:
		}
	})
	s.completed.OnReady(func() { close(done) })
	s.triggerGet()

	select {
	case r := <-resultCh:
		return r.item, r.ok, nil
	case <-done:
		var zero T
		if s.IsFailed() {
			return zero, false, s.Failure()
		}
		return zero, false, nil
	case <-ctx.Done():
		var zero T
		return zero, false, ctx.Err()
	}
}
