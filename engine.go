package sourcechain

import (
	"sync"

	"go.opentelemetry.io/otel/metric"
)

// void is the completion-value type every Source's own Completion carries.
// finish()/fail()/cancel() in the source material take no value; the
// "transform(done -> f)" operation in §4.A is how a derived, value-carrying
// Completion (e.g. the blocking bridge's collected list) is built on top.
type void struct{}

// Engine is the process-wide state the source material keeps as module
// globals: the completion-handle construction hook and the two codec
// registries (§5, §6, §9 "A port should expose them as an engine context
// passed at source construction"). DefaultEngine is that process-wide
// instance; tests that would otherwise fight over registry mutation
// construct a private Engine instead.
//
//nolint:govet // fieldalignment: struct layout optimized for readability
type Engine struct {
	mu sync.RWMutex

	// completionHook runs whenever a Source constructs its own
	// Completion. It stands in for a fully replaceable completion-handle
	// factory (see NewCompletion's doc comment for why Go's lack of
	// generic methods/variables rules that out) and is where
	// instrumentation (metrics.go) attaches.
	completionHook func(label string)

	encoders map[string]CodecFactory
	decoders map[string]CodecFactory

	meter metric.Meter
	instr *instruments
}

// NewEngine creates an Engine with the built-in utf8/json/base64 codecs
// registered and no instrumentation hooks installed.
func NewEngine() *Engine {
	e := &Engine{
		encoders: make(map[string]CodecFactory),
		decoders: make(map[string]CodecFactory),
	}
	registerBuiltinCodecs(e)
	return e
}

// DefaultEngine is the process-wide Engine used by every construction
// helper that doesn't take an explicit *Engine. Installing custom codecs
// or a completion hook on it is not synchronized against source
// construction — per §5, installation must happen before any source is
// built from it.
var DefaultEngine = NewEngine()

// SetCompletionHook installs a hook invoked with a Source's label each
// time that Source constructs its own Completion. Pass nil to remove it.
func (e *Engine) SetCompletionHook(hook func(label string)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.completionHook = hook
}

// SetMeter installs an OpenTelemetry meter used to record per-label
// emission/completion counters (metrics.go). Passing nil disables
// metrics; this is the default.
func (e *Engine) SetMeter(m metric.Meter) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.meter = m
	if m != nil {
		e.initInstruments()
	} else {
		e.instr = nil
	}
}

func (e *Engine) newCompletion(label string) *Completion[void] {
	e.mu.RLock()
	hook := e.completionHook
	e.mu.RUnlock()
	if hook != nil {
		hook(label)
	}
	return NewCompletion[void]()
}
