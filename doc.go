// Package flowz provides a lightweight, type-safe library for building composable
// asynchronous stream-processing pipelines in Go.
//
// # Overview
//
// flowz lets you build data/event pipelines out of small, reusable flows, each
// being a function from one asynchronous sequence of values to another. A flow is
// the unit of composition: pipelines are built by chaining, nesting, and
// parallelizing flows the same way pipz chains, nests, and parallelizes
// processors — except the thing flowing through a flowz pipeline is a Stream,
// not a single value.
//
// # Core Concepts
//
//	type Stream[T any] struct { ... } // lazy, pull-based, single-consumer, cancellable
//	type Flow[In, Out any] struct {   // named wrapper around a transform
//	    name      Name
//	    transform func(*Stream[In]) *Stream[Out]
//	    metadata  Metadata
//	}
//
// A Stream is consumed by repeatedly calling Next(ctx); it yields values in
// production order until it terminates by exhaustion, error, or cancellation —
// never more than one of the three. A Flow wraps a transform function plus a
// name and metadata, the way a pipz Processor wraps a function plus a name.
//
// # Core Constructors
//
//	FromIterable(xs)     // emit elements of xs in order, then complete
//	FromSyncFn(name, f)  // per item, emit f(item)
//	FromValueFn(name, f) // per item, await f(item) then emit it
//	FromEventFn(name, g) // per item, flatten g(item)'s emissions in order
//	FromEmitter(name, r) // buffer callback registration r(cb) into a stream
//	Identity[T]()        // pass items through unchanged
//	Pure(v)              // emit v once, then complete
//
// # Combinator Library
//
// Combinators are grouped the way pipz groups connectors, one concern per
// file: transformation (Map, Filter, FlatMap, Flatten, Guard), control (Take,
// Skip, Until, Collect, Share), aggregation (Batch, Window, Scan, GroupBy,
// Distinct, Pairwise, Memoize, Buffer, Expand, Finalize), temporal (Delay,
// Debounce, Throttle, Sample, Timeout), concurrency (Parallel, Race,
// ParallelMap, Merge, Zip, ChainStreams), error handling (CatchAndContinue,
// Recover, Retry, CircuitBreaker, LogErrors), observability (Log, Trace,
// Metrics, Inspect, Materialize), and context integration (GetKey, SetKey,
// RequireKeys, OptionalKey, MoveKey, CopyKey, ForgetKey, TransformKey,
// ContextFlow).
//
// Stateful combinators that talk to the outside world — Retry, CircuitBreaker,
// Timeout, ParallelMap, Merge, Race — carry the same observability triad pipz
// wires into its stateful connectors: github.com/zoobzio/metricz for
// counters/gauges, github.com/zoobzio/tracez for span tracing, and
// github.com/zoobzio/hookz for typed async event hooks. Anything involving a
// clock (Delay, Debounce, Throttle, Sample, Timeout, Retry's backoff) takes a
// github.com/zoobzio/clockz.Clock, defaulting to clockz.RealClock: Timeout
// and Retry expose a WithClock setter, and Delay, Debounce, Throttle and
// Sample have DelayWithClock/DebounceWithClock/ThrottleWithClock/
// SampleWithClock variants, for deterministic tests.
//
// # Example
//
//	double := flowz.Map("double", func(_ context.Context, n int) int { return n * 2 })
//	evens := flowz.Filter("even", func(_ context.Context, n int) bool { return n%2 == 0 })
//	pipeline := flowz.Pipe(double, evens)
//
//	out, err := pipeline.Apply(flowz.FromIterable([]int{0, 1, 2, 3, 4})).ToList(context.Background())
//	// out: [0, 2, 4, 6, 8], err: nil
//
// # Design Philosophy
//
//   - Flows are immutable values; composition returns a new flow.
//   - Streams are owned by a single consumer; sharing requires Share.
//   - Cancellation is cooperative: it is signalled at the next suspension
//     point (the next upstream pull, the next await, the next timer) and is
//     a distinct termination mode, never an error.
//   - No combinator busy-loops; every suspension point is a channel receive,
//     a context-aware await, or an explicit timer.
package flowz
