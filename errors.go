package sourcechain

import (
	"fmt"
	"time"
)

// Failure is the payload carried by a Completion that has transitioned to
// Failed. It captures the underlying error, the site that raised it (an
// operator name or callback description), and free-form tags so a caller
// can distinguish "a callback raised" from "upstream failed" without
// parsing strings.
//
//nolint:govet // fieldalignment: struct layout optimized for readability
type Failure struct {
	Err       error
	Site      string
	Tags      []string
	Timestamp time.Time
}

// NewFailure builds a Failure with the current timestamp.
func NewFailure(err error, site string, tags ...string) *Failure {
	return &Failure{
		Err:       err,
		Site:      site,
		Tags:      tags,
		Timestamp: time.Now(),
	}
}

// Error implements the error interface.
func (f *Failure) Error() string {
	if f == nil || f.Err == nil {
		return "sourcechain: failure"
	}
	return fmt.Sprintf("sourcechain[%s]: %v (tags: %v, time: %s)",
		f.Site, f.Err, f.Tags, f.Timestamp.Format(time.RFC3339))
}

// Unwrap returns the underlying error, enabling errors.Is/errors.As chains.
func (f *Failure) Unwrap() error {
	if f == nil {
		return nil
	}
	return f.Err
}

// HasTag reports whether tag was attached to this failure.
func (f *Failure) HasTag(tag string) bool {
	if f == nil {
		return false
	}
	for _, t := range f.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Sentinel errors surfaced at construction time or across the blocking
// bridge. These are synchronous domain errors (§7c), never completion
// transitions.
var (
	// ErrAlreadyCompleted is raised when emit is called on a source whose
	// completion has already transitioned.
	ErrAlreadyCompleted = fmt.Errorf("sourcechain: already completed")

	// ErrNotPending is raised by Done/Fail/Cancel when the completion has
	// already left the pending state.
	ErrNotPending = fmt.Errorf("sourcechain: completion is not pending")

	// ErrNotImplemented is raised by operators the spec defers to a
	// timing-capable extension (debounce, interval).
	ErrNotImplemented = fmt.Errorf("sourcechain: operator not implemented")

	// ErrUnsupportedInput is raised by From when given a value that is
	// neither a []any, an io.Reader, nor a *Completion[any].
	ErrUnsupportedInput = fmt.Errorf("sourcechain: unsupported input")

	// ErrUnknownCodec is raised when encode/decode is asked for a kind
	// that has no factory registered on the Engine.
	ErrUnknownCodec = fmt.Errorf("sourcechain: unknown codec kind")

	// ErrInvalidArgument is raised by operator constructors for
	// out-of-range arguments (e.g. chunksize(0)).
	ErrInvalidArgument = fmt.Errorf("sourcechain: invalid operator argument")
)

// calleeExceptionTag tags a Failure raised because an item-callback
// panicked while running inside emit (§4.B).
const calleeExceptionTag = "exception in on_item callback"
