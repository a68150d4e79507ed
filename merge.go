package flowz

import (
	"context"
	"sync"
	"time"

	"github.com/zoobzio/hookz"
	"github.com/zoobzio/metricz"
	"github.com/zoobzio/tracez"
)

// Observability keys for Merge.
const (
	MergeItemsTotal    = metricz.Key("flowz.merge.items.total")
	MergeSourcesActive = metricz.Key("flowz.merge.sources.active")
	MergeProcessSpan   = tracez.Key("flowz.merge.process")
	MergeEventSource   = hookz.Key("flowz.merge.source_done")
)

// MergeSourceDoneEvent is fired via hooks each time one of Merge's sources
// completes or fails, including the last one.
type MergeSourceDoneEvent struct {
	Name      Name
	Index     int
	Error     error
	Timestamp time.Time
}

// Merge consumes multiple upstream streams concurrently and emits items as
// they arrive from any source, in arrival order (no cross-source ordering
// guarantee). It completes once every source has completed; if any source
// errors, Merge terminates immediately and cancels the remaining sources —
// per §4.7's "any source error terminates the merge."
func Merge[T any](name Name, sources ...*Stream[T]) *Stream[T] {
	metrics := metricz.New()
	metrics.Counter(MergeItemsTotal)
	metrics.Gauge(MergeSourcesActive)
	tracer := tracez.New()
	hooks := hookz.New[MergeSourceDoneEvent]()

	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan result[T], 16)
	metrics.Gauge(MergeSourcesActive).Set(float64(len(sources)))

	var wg sync.WaitGroup
	var once sync.Once
	failFast := func(err error) {
		once.Do(func() {
			select {
			case out <- result[T]{err: err}:
			case <-ctx.Done():
			}
			cancel()
		})
	}

	for i, s := range sources {
		wg.Add(1)
		go func(i int, s *Stream[T]) {
			defer wg.Done()
			_, span := tracer.StartSpan(ctx, MergeProcessSpan)
			defer span.Finish()
			for {
				v, ok, err := s.Next(ctx)
				if err != nil {
					metrics.Gauge(MergeSourcesActive).Dec()
					_ = hooks.Emit(ctx, MergeEventSource, MergeSourceDoneEvent{Name: name, Index: i, Error: err, Timestamp: time.Now()})
					if !IsCancellation(err) {
						failFast(err)
					}
					return
				}
				if !ok {
					metrics.Gauge(MergeSourcesActive).Dec()
					_ = hooks.Emit(ctx, MergeEventSource, MergeSourceDoneEvent{Name: name, Index: i, Timestamp: time.Now()})
					return
				}
				metrics.Counter(MergeItemsTotal).Inc()
				select {
				case out <- result[T]{val: v, ok: true}:
				case <-ctx.Done():
					return
				}
			}
		}(i, s)
	}

	go func() {
		wg.Wait()
		once.Do(func() {
			close(out)
		})
	}()

	return newManagedStream(chanNext(out), func() {
		cancel()
		for _, s := range sources {
			s.Close()
		}
	})
}
