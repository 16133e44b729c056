package sourcechain

import "time"

// Debounce and Interval are left unimplemented: both need a clock
// abstraction to be testable, and nothing in this catalogue currently
// hosts one (see DESIGN.md for why the source material's clock
// dependency was dropped rather than carried forward unused). Both
// return ErrNotImplemented so callers fail fast instead of silently
// getting a pass-through.

// Debounce would emit an item only after quiet seconds of silence
// following it.
func Debounce[T any](_ *Source[T], _ string, _ time.Duration) (*Source[T], error) {
	return nil, ErrNotImplemented
}

// Interval would emit a tick on a fixed period, independent of any
// upstream source.
func Interval(_ string, _ time.Duration) (*Source[time.Time], error) {
	return nil, ErrNotImplemented
}
