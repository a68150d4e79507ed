package flowz

import (
	"context"
	"time"

	"github.com/zoobzio/clockz"
	"github.com/zoobzio/hookz"
	"github.com/zoobzio/metricz"
	"github.com/zoobzio/tracez"
)

// Observability keys for Timeout, grounded on the wiring pattern the
// teacher library uses for its own Timeout connector.
const (
	TimeoutProcessedTotal = metricz.Key("flowz.timeout.processed.total")
	TimeoutTimeoutsTotal  = metricz.Key("flowz.timeout.timeouts.total")
	TimeoutProcessSpan    = tracez.Key("flowz.timeout.process")
	TimeoutTagElapsed     = tracez.Tag("flowz.timeout.elapsed")
	TimeoutEventTimeout   = hookz.Key("flowz.timeout.timeout")
)

// TimeoutEvent is fired via hooks when a single item's processing exceeds
// its bound.
type TimeoutEvent struct {
	Name      Name
	Bound     time.Duration
	Elapsed   time.Duration
	Timestamp time.Time
}

// Timeout wraps a Flow so that each item's full pass through it (the pull
// that produces the corresponding output item) must complete within d, or
// the stream terminates with a TimeoutError. It carries metrics, a trace
// span per item, and a hook fired on timeout — the full observability triad
// pipz wires into its own stateful connectors.
type Timeout[In, Out any] struct {
	flow    Flow[In, Out]
	clock   clockz.Clock
	name    Name
	bound   time.Duration
	metrics *metricz.Registry
	tracer  *tracez.Tracer
	hooks   *hookz.Hooks[TimeoutEvent]
}

// NewTimeout constructs a Timeout wrapper around flow with bound d, using
// clockz.RealClock. Use WithClock to substitute a fake clock in tests.
func NewTimeout[In, Out any](name Name, flow Flow[In, Out], d time.Duration) *Timeout[In, Out] {
	metrics := metricz.New()
	metrics.Counter(TimeoutProcessedTotal)
	metrics.Counter(TimeoutTimeoutsTotal)
	return &Timeout[In, Out]{
		name:    name,
		flow:    flow,
		bound:   d,
		clock:   clockz.RealClock,
		metrics: metrics,
		tracer:  tracez.New(),
		hooks:   hookz.New[TimeoutEvent](),
	}
}

// WithClock substitutes the clock used for the bound; intended for tests.
func (t *Timeout[In, Out]) WithClock(clock clockz.Clock) *Timeout[In, Out] {
	t.clock = clock
	return t
}

// OnTimeout registers a hook invoked when an item exceeds the bound.
func (t *Timeout[In, Out]) OnTimeout(fn func(context.Context, TimeoutEvent) error) error {
	_, err := t.hooks.Hook(TimeoutEventTimeout, fn)
	return err
}

// Flow returns the bounded Flow. Each pull of the returned Flow's output
// stream that doesn't complete within the bound terminates the stream with
// a TimeoutError.
func (t *Timeout[In, Out]) Flow() Flow[In, Out] {
	return NewFlow(t.name, func(in *Stream[In]) *Stream[Out] {
		upstream := t.flow.Apply(in)
		return newStream(func(ctx context.Context) (Out, bool, error) {
			t.metrics.Counter(TimeoutProcessedTotal).Inc()
			start := t.clock.Now()
			ctx, span := t.tracer.StartSpan(ctx, TimeoutProcessSpan)
			cctx, cancel := t.clock.WithTimeout(ctx, t.bound)
			defer cancel()

			type pulled struct {
				v   Out
				ok  bool
				err error
			}
			ch := make(chan pulled, 1)
			go func() {
				v, ok, err := upstream.Next(cctx)
				ch <- pulled{v, ok, err}
			}()

			select {
			case p := <-ch:
				elapsed := t.clock.Now().Sub(start)
				span.SetTag(TimeoutTagElapsed, elapsed.String())
				span.Finish()
				return p.v, p.ok, p.err
			case <-cctx.Done():
				elapsed := t.clock.Now().Sub(start)
				span.SetTag(TimeoutTagElapsed, elapsed.String())
				span.Finish()
				t.metrics.Counter(TimeoutTimeoutsTotal).Inc()
				event := TimeoutEvent{Name: t.name, Bound: t.bound, Elapsed: elapsed, Timestamp: t.clock.Now()}
				_ = t.hooks.Emit(ctx, TimeoutEventTimeout, event)
				var zero Out
				var noInput In
				return zero, false, withPath(t.name, noInput, false, &TimeoutError{Bound: t.bound})
			}
		})
	}, cloneMeta(t.flow.Metadata(), Metadata{"kind": "timeout", "bound": t.bound}))
}
