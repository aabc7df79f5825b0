package engine

import "time"

// Instrumentation is the hook point a latency sampler attaches to. The
// matching core calls Observe around AddOrder/CancelOrder/ModifyOrder when
// one is configured via WithInstrumentation; it never aggregates or
// reports percentiles itself — that belongs to whatever external
// benchmark harness a caller wires up.
type Instrumentation interface {
	Observe(op string, d time.Duration)
}
