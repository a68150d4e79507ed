package flowz

import (
	"context"
	"sync"
	"time"

	"github.com/zoobzio/hookz"
	"github.com/zoobzio/metricz"
	"github.com/zoobzio/tracez"
	"golang.org/x/sync/errgroup"
)

// Observability keys for ParallelMap.
const (
	ParallelMapProcessedTotal = metricz.Key("flowz.parallel_map.processed.total")
	ParallelMapInFlight       = metricz.Key("flowz.parallel_map.in_flight")
	ParallelMapProcessSpan    = tracez.Key("flowz.parallel_map.process")
	ParallelMapTagOrder       = tracez.Tag("flowz.parallel_map.index")
	ParallelMapEventItem      = hookz.Key("flowz.parallel_map.item")
)

// ParallelMapEvent is fired via hooks after each item completes.
type ParallelMapEvent struct {
	Name      Name
	Index     int
	Error     error
	Duration  time.Duration
	Timestamp time.Time
}

type pmSlot[Out any] struct {
	val Out
	err error
	ok  bool
}

// ParallelMap applies f to items with bounded concurrency, honoring
// maxConcurrent in-flight applications at once (via errgroup.SetLimit). If
// preserveOrder is true, output order equals input order (§4.7, §5); the
// bounded concurrency is still exploited — items complete out of order
// internally but are released downstream in arrival order, buffering
// completed-but-not-yet-due results. If preserveOrder is false, output order
// is completion order.
func ParallelMap[In, Out any](name Name, f func(context.Context, In) (Out, error), maxConcurrent int, preserveOrder bool) Flow[In, Out] {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	metrics := metricz.New()
	metrics.Counter(ParallelMapProcessedTotal)
	metrics.Gauge(ParallelMapInFlight)
	tracer := tracez.New()
	hooks := hookz.New[ParallelMapEvent]()

	return NewFlow(name, func(in *Stream[In]) *Stream[Out] {
		ctx, cancel := context.WithCancel(context.Background())
		out := make(chan result[Out], maxConcurrent)

		go func() {
			defer close(out)
			g, gctx := errgroup.WithContext(ctx)
			g.SetLimit(maxConcurrent)

			if preserveOrder {
				var mu sync.Mutex
				pending := make(map[int]pmSlot[Out])
				nextToEmit := 0
				emit := func(idx int, slot pmSlot[Out]) bool {
					mu.Lock()
					pending[idx] = slot
					ready := make([]pmSlot[Out], 0)
					for {
						s, has := pending[nextToEmit]
						if !has {
							break
						}
						ready = append(ready, s)
						delete(pending, nextToEmit)
						nextToEmit++
					}
					mu.Unlock()
					for _, s := range ready {
						if !s.ok {
							select {
							case out <- result[Out]{err: s.err}:
							case <-ctx.Done():
							}
							return false
						}
						select {
						case out <- result[Out]{val: s.val, ok: true}:
						case <-ctx.Done():
							return false
						}
					}
					return true
				}

				idx := 0
				for {
					v, ok, err := in.Next(gctx)
					if err != nil {
						emit(idx, pmSlot[Out]{err: err})
						break
					}
					if !ok {
						break
					}
					i := idx
					idx++
					metrics.Gauge(ParallelMapInFlight).Inc()
					g.Go(func() error {
						defer metrics.Gauge(ParallelMapInFlight).Dec()
						start := time.Now()
						_, span := tracer.StartSpan(gctx, ParallelMapProcessSpan)
						res, ferr := f(gctx, v)
						span.Finish()
						metrics.Counter(ParallelMapProcessedTotal).Inc()
						_ = hooks.Emit(gctx, ParallelMapEventItem, ParallelMapEvent{
							Name: name, Index: i, Error: ferr, Duration: time.Since(start), Timestamp: time.Now(),
						})
						if ferr != nil {
							emit(i, pmSlot[Out]{err: withPath(name, v, true, &ExecutionError{Combinator: name, Cause: ferr})})
							return ferr
						}
						emit(i, pmSlot[Out]{val: res, ok: true})
						return nil
					})
				}
				_ = g.Wait()
				return
			}

			// completion-order variant: emit as each task finishes.
			idx := 0
			for {
				v, ok, err := in.Next(gctx)
				if err != nil {
					select {
					case out <- result[Out]{err: err}:
					case <-ctx.Done():
					}
					break
				}
				if !ok {
					break
				}
				i := idx
				idx++
				metrics.Gauge(ParallelMapInFlight).Inc()
				g.Go(func() error {
					defer metrics.Gauge(ParallelMapInFlight).Dec()
					start := time.Now()
					_, span := tracer.StartSpan(gctx, ParallelMapProcessSpan)
					res, ferr := f(gctx, v)
					span.Finish()
					metrics.Counter(ParallelMapProcessedTotal).Inc()
					_ = hooks.Emit(gctx, ParallelMapEventItem, ParallelMapEvent{
						Name: name, Index: i, Error: ferr, Duration: time.Since(start), Timestamp: time.Now(),
					})
					if ferr != nil {
						wrapped := withPath(name, v, true, &ExecutionError{Combinator: name, Cause: ferr})
						select {
						case out <- result[Out]{err: wrapped}:
						case <-ctx.Done():
						}
						return ferr
					}
					select {
					case out <- result[Out]{val: res, ok: true}:
					case <-ctx.Done():
					}
					return nil
				})
			}
			_ = g.Wait()
		}()

		return newManagedStream(chanNext(out), func() {
			cancel()
			in.Close()
		})
	}, Metadata{"kind": "parallel_map", "max_concurrent": maxConcurrent, "preserve_order": preserveOrder})
}
