// Package telemetry times the stages of a report run: parsing the
// statement, fetching rates, posting the books, the tax computation and
// rendering. Stages nest, and the collected tree prints as an indented
// breakdown at the end of the run.
//
// Collectors travel through context so instrumented code needs no extra
// parameters; without a collector in the context every operation is a no-op.
package telemetry

import (
	"context"
	"io"
)

type contextKey struct{}

var collectorKey = contextKey{}

// Collector gathers stage timings for one run.
type Collector interface {
	// Start begins timing a stage; End on the returned timer stops it.
	Start(name string) Timer

	// Report writes the collected breakdown.
	Report(w io.Writer)
}

// Timer tracks one stage. Nested stages are created with Child.
type Timer interface {
	End()
	Child(name string) Timer
}

// WithCollector carries the collector in the context.
func WithCollector(ctx context.Context, c Collector) context.Context {
	return context.WithValue(ctx, collectorKey, c)
}

// FromContext returns the context's collector, or a no-op one.
func FromContext(ctx context.Context) Collector {
	if c, ok := ctx.Value(collectorKey).(Collector); ok {
		return c
	}
	return noopCollector{}
}

type noopCollector struct{}

func (noopCollector) Start(string) Timer { return noopTimer{} }
func (noopCollector) Report(io.Writer)   {}

type noopTimer struct{}

func (noopTimer) End()               {}
func (noopTimer) Child(string) Timer { return noopTimer{} }
