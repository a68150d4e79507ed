package flowz

import (
	"context"
	"time"

	"github.com/zoobzio/clockz"
)

// Debounce returns a Flow that emits an item only after d has elapsed
// without a newer item arriving — the trailing-edge debounce familiar from
// UI event handling. Items superseded within the quiet window are dropped,
// never surfaced as errors.
func Debounce[T any](name Name, d time.Duration) Flow[T, T] {
	return DebounceWithClock[T](name, d, clockz.RealClock)
}

type debounceMsg[T any] struct {
	val  T
	done bool
	err  error
}

// DebounceWithClock is Debounce parameterized by an explicit clock.
func DebounceWithClock[T any](name Name, d time.Duration, clock clockz.Clock) Flow[T, T] {
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
			var timer <-chan time.Time
			var pending T
			var hasPending bool

			for {
				select {
				case <-ctx.Done():
					return
				case msg, ok := <-updates:
					if !ok {
						return
					}
					if msg.done {
						if hasPending {
							select {
							case out <- result[T]{val: pending, ok: true}:
							case <-ctx.Done():
								return
							}
						}
						select {
						case out <- result[T]{err: msg.err}:
						case <-ctx.Done():
						}
						return
					}
					pending = msg.val
					hasPending = true
					timer = clock.After(d)
				case <-timer:
					if hasPending {
						select {
						case out <- result[T]{val: pending, ok: true}:
						case <-ctx.Done():
							return
						}
						hasPending = false
					}
					timer = nil
				}
			}
		}()

		return newManagedStream(chanNext(out), func() {
			cancel()
			in.Close()
		})
	}, Metadata{"kind": "debounce", "duration": d})
}
