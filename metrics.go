package sourcechain

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Engine's optional instrumentation: a pair of OpenTelemetry counters
// keyed by source label, the generalized successor to the source
// material's Monitor[T] (StreamStats' Count/Rate). Where Monitor sampled
// one pipeline stage on a timer, these counters accumulate across every
// Source built from this Engine and are read out through whatever
// exporter the caller wired the Meter to — no interval/ticker of our own
// to manage.
type instruments struct {
	emissions   metric.Int64Counter
	completions metric.Int64Counter
}

func (e *Engine) initInstruments() {
	emissions, err := e.meter.Int64Counter(
		"sourcechain.emissions",
		metric.WithDescription("items emitted by a source"),
	)
	if err != nil {
		return
	}
	completions, err := e.meter.Int64Counter(
		"sourcechain.completions",
		metric.WithDescription("sources that reached a terminal state, by state"),
	)
	if err != nil {
		return
	}
	e.instr = &instruments{emissions: emissions, completions: completions}
}

func instrumentEmit(e *Engine, label string) {
	e.mu.RLock()
	instr := e.instr
	e.mu.RUnlock()
	if instr == nil {
		return
	}
	instr.emissions.Add(context.Background(), 1, metric.WithAttributes(attribute.String("label", label)))
}

func instrumentCompletion(e *Engine, label string, state State) {
	e.mu.RLock()
	instr := e.instr
	e.mu.RUnlock()
	if instr == nil {
		return
	}
	instr.completions.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String("label", label),
			attribute.String("state", state.String()),
		),
	)
}
