package flowz

import (
	"context"
	"time"

	"github.com/zoobzio/clockz"
)

// Sample returns a Flow that emits the most recent upstream item once every
// d, dropping every item that arrived in between. If no new item arrived
// since the last tick, that tick emits nothing.
func Sample[T any](name Name, d time.Duration) Flow[T, T] {
	return SampleWithClock[T](name, d, clockz.RealClock)
}

// SampleWithClock is Sample parameterized by an explicit clock.
func SampleWithClock[T any](name Name, d time.Duration, clock clockz.Clock) Flow[T, T] {
	return NewFlow(name, func(in *Stream[T]) *Stream[T] {
		ctx, cancel := context.WithCancel(context.Background())
		out := make(chan result[T], 1)
		updates := make(chan debounceMsg[T])

		go func() {
			defer close(updates)
			for {
				v, ok, err := in.Next(ctx)
				if err != nil || !ok {
					select {
					case updates <- debounceMsg[T]{done: true, err: err}:
					case <-ctx.Done():
					}
					return
				}
				select {
				case updates <- debounceMsg[T]{val: v}:
				case <-ctx.Done():
					return
				}
			}
		}()

		go func() {
			defer close(out)
			var pending T
			var hasPending bool
			upstreamDone := false
			var finalErr error
			tick := clock.After(d)

			for {
				if upstreamDone && !hasPending {
					select {
					case out <- result[T]{err: finalErr}:
					case <-ctx.Done():
					}
					return
				}
				select {
				case <-ctx.Done():
					return
				case msg, ok := <-updates:
					if !ok {
						updates = nil
						continue
					}
					if msg.done {
						upstreamDone = true
						finalErr = msg.err
						continue
					}
					pending = msg.val
					hasPending = true
				case <-tick:
					tick = clock.After(d)
					if hasPending {
						select {
						case out <- result[T]{val: pending, ok: true}:
						case <-ctx.Done():
							return
						}
						hasPending = false
					}
				}
			}
		}()

		return newManagedStream(chanNext(out), func() {
			cancel()
			in.Close()
		})
	}, Metadata{"kind": "sample", "duration": d})
}
