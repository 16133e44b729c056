package sourcechain

import (
	"bufio"
	"context"
	"io"

	"github.com/nats-io/nats.go"
)

const readerChunkSize = 4096

// FromSlice returns a root Source whose on_get thunk emits every element
// of items, in order, then finishes. This is §4.E's in-memory factory:
// production is deferred until something pulls the chain via get(), not
// started at construction (an in-memory slice is not the asynchronous-I/O
// exception §5 carves out of the single-threaded cooperative model).
func FromSlice[T any](label string, items []T) *Source[T] {
	s := New[T](label)
	s.onGet = func() {
		for _, item := range items {
			if err := s.Emit(item); err != nil {
				return
			}
		}
		_ = s.Finish()
	}
	return s
}

// FromReader returns a root Source whose on_get thunk reads r in
// readerChunkSize pieces, emitting each as a []byte chunk, finishing on
// io.EOF or failing on any other read error. This is §4.E's byte-reader
// factory; codecs (utf8, by_line) are layered on top as operators, not
// baked into the factory. Like FromSlice, reading is deferred to get()
// rather than started at construction.
func FromReader(label string, r io.Reader) *Source[[]byte] {
	s := New[[]byte](label)
	s.onGet = func() {
		buf := bufio.NewReaderSize(r, readerChunkSize)
		chunk := make([]byte, readerChunkSize)
		for {
			n, err := buf.Read(chunk)
			if n > 0 {
				item := make([]byte, n)
				copy(item, chunk[:n])
				if emitErr := s.Emit(item); emitErr != nil {
					return
				}
			}
			if err != nil {
				if err == io.EOF {
					_ = s.Finish()
				} else {
					_ = s.Fail(err)
				}
				return
			}
		}
	}
	return s
}

// FromCompletion returns a root Source that emits the single value c
// resolves to, then finishes — or fails/cancels to match c — bridging an
// already-in-flight Completion into the chain graph (§4.E "From(existing
// completion)").
func FromCompletion[T any](label string, c *Completion[T]) *Source[T] {
	s := New[T](label)
	c.OnReady(func() {
		switch c.State() {
		case Done:
			v, _ := c.Value()
			if err := s.Emit(v); err == nil {
				_ = s.Finish()
			}
		case Failed:
			f := c.Failure()
			_ = s.Fail(f.Err, f.Tags...)
		case Cancelled:
			_ = s.Cancel()
		}
	})
	return s
}

// FromNATSSubscription returns a root Source that emits messages pulled
// from sub, decoded by decode, until ctx is cancelled or the
// subscription itself is torn down (nats.ErrConnectionClosed /
// nats.ErrBadSubscription), at which point it finishes. A decode error
// fails the source. This is the concrete async-I/O factory beyond
// spec.md's in-memory/byte-reader pair.
func FromNATSSubscription[T any](ctx context.Context, label string, sub *nats.Subscription, decode func(*nats.Msg) (T, error)) *Source[T] {
	s := New[T](label)
	go func() {
		for {
			msg, err := sub.NextMsgWithContext(ctx)
			if err != nil {
				switch err {
				case context.Canceled, context.DeadlineExceeded, nats.ErrConnectionClosed, nats.ErrBadSubscription, nats.ErrTimeout:
					_ = s.Finish()
				default:
					_ = s.Fail(err)
				}
				return
			}
			item, err := decode(msg)
			if err != nil {
				_ = s.Fail(err)
				return
			}
			if err := s.Emit(item); err != nil {
				return
			}
		}
	}()
	return s
}

// From dispatches on the runtime type of input to the matching factory
// above, returning ErrUnsupportedInput for any other shape (§4.E).
func From(label string, input any) (*Source[any], error) {
	switch v := input.(type) {
	case []any:
		return FromSlice(label, v), nil
	case io.Reader:
		bytesSource := FromReader(label, v)
		out := New[any](label)
		bytesSource.Each(func(chunk []byte) { _ = out.Emit(chunk) })
		forwardTerminal(bytesSource.completed.asView(), out.completed.asView(),
			func() { _ = out.Finish() },
			func(f *Failure) { _ = out.completed.Fail(f.Err, f.Site, f.Tags...) },
			func() { _ = out.Cancel() },
		)
		// out is itself a root (New, not newChild), so a get() on out
		// would otherwise find no ancestor and never reach bytesSource's
		// deferred on_get; delegate explicitly.
		out.onGet = bytesSource.triggerGet
		return out, nil
	case *Completion[any]:
		return FromCompletion(label, v), nil
	default:
		return nil, ErrUnsupportedInput
	}
}
