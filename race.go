package flowz

import (
	"context"
	"sync"
	"time"

	"github.com/zoobzio/hookz"
	"github.com/zoobzio/metricz"
	"github.com/zoobzio/tracez"
)

// Observability keys for Race, following the same per-connector constant
// grouping used for Retry/Timeout.
const (
	RaceRunsTotal    = metricz.Key("flowz.race.runs.total")
	RaceWinnersTotal = metricz.Key("flowz.race.winners.total")
	RaceProcessSpan  = tracez.Key("flowz.race.process")
	RaceTagWinner    = tracez.Tag("flowz.race.winner_index")
	RaceEventWinner  = hookz.Key("flowz.race.winner")
)

// RaceEvent is fired via hooks each time a race over one input item
// concludes, naming the index of the child that finished first.
type RaceEvent struct {
	Name        Name
	WinnerIndex int
	Error       error
	Timestamp   time.Time
}

// Race carries per-connector observability (metrics, a span per item, and a
// winner hook) for the fan-in race that its Flow method builds; RaceFlows
// is the shorthand that returns just that Flow.
type Race[In, Out any] struct {
	name     Name
	children []Flow[In, Out]
	metrics  *metricz.Registry
	tracer   *tracez.Tracer
	hooks    *hookz.Hooks[RaceEvent]
}

// NewRace constructs a Race over the given children.
func NewRace[In, Out any](name Name, children ...Flow[In, Out]) *Race[In, Out] {
	metrics := metricz.New()
	metrics.Counter(RaceRunsTotal)
	metrics.Counter(RaceWinnersTotal)
	return &Race[In, Out]{
		name:     name,
		children: children,
		metrics:  metrics,
		tracer:   tracez.New(),
		hooks:    hookz.New[RaceEvent](),
	}
}

// OnWinner registers a hook invoked after each item's race concludes.
func (r *Race[In, Out]) OnWinner(fn func(context.Context, RaceEvent) error) error {
	_, err := r.hooks.Hook(RaceEventWinner, fn)
	return err
}

type raceResult[Out any] struct {
	idx int
	val Out
	err error
}

// Flow returns the racing Flow: per input item, every child runs
// concurrently against a copy of that item; the first to produce a result
// (success or error) is emitted and every other child is canceled via
// context, per §4.7's "emit the first result, cancel the others."
func (r *Race[In, Out]) Flow() Flow[In, Out] {
	return NewFlow(r.name, func(in *Stream[In]) *Stream[Out] {
		return newStream(func(ctx context.Context) (Out, bool, error) {
			v, ok, err := in.Next(ctx)
			if err != nil || !ok {
				var zero Out
				return zero, false, err
			}
			if len(r.children) == 0 {
				var zero Out
				return zero, false, nil
			}
			r.metrics.Counter(RaceRunsTotal).Inc()
			ctx, span := r.tracer.StartSpan(ctx, RaceProcessSpan)
			cctx, cancel := context.WithCancel(ctx)

			ch := make(chan raceResult[Out], len(r.children))
			var wg sync.WaitGroup
			for i, c := range r.children {
				wg.Add(1)
				go func(i int, c Flow[In, Out]) {
					defer wg.Done()
					val, e := applyOne(cctx, c, v)
					select {
					case ch <- raceResult[Out]{idx: i, val: val, err: e}:
					case <-cctx.Done():
					}
				}(i, c)
			}
			go func() {
				wg.Wait()
				close(ch)
			}()

			first, any := <-ch
			cancel()
			span.SetTag(RaceTagWinner, "")
			span.Finish()
			r.metrics.Counter(RaceWinnersTotal).Inc()
			event := RaceEvent{Name: r.name, WinnerIndex: first.idx, Error: first.err, Timestamp: time.Now()}
			_ = r.hooks.Emit(ctx, RaceEventWinner, event)
			if !any {
				var zero Out
				return zero, false, nil
			}
			if first.err != nil {
				var zero Out
				return zero, false, withPath(r.name, v, true, &ExecutionError{Combinator: r.name, Cause: first.err})
			}
			return first.val, true, nil
		})
	}, Metadata{"kind": "race", "children": len(r.children)})
}

// RaceFlows is a convenience constructor returning just the Flow, for
// callers that don't need the hook/metrics handle.
func RaceFlows[In, Out any](name Name, children ...Flow[In, Out]) Flow[In, Out] {
	return NewRace(name, children...).Flow()
}
