package flowz

import (
	"context"
	"time"

	"github.com/zoobzio/clockz"
)

// Throttle returns a Flow that emits every item, spaced out by at least d:
// the first item passes through immediately, and each item after it waits
// out whatever remains of d since the previous emission before being
// emitted in turn. No item is ever dropped — items are merely delayed,
// never discarded, as opposed to Debounce's trailing-edge semantics.
func Throttle[T any](name Name, d time.Duration) Flow[T, T] {
	return ThrottleWithClock[T](name, d, clockz.RealClock)
}

// ThrottleRate is Throttle expressed directly in items-per-second, the
// form §4.6 names it in: items are spaced out by at least 1/rate.
// Non-positive rate is clamped to 1 item/second.
func ThrottleRate[T any](name Name, rate float64) Flow[T, T] {
	if rate <= 0 {
		rate = 1
	}
	return Throttle[T](name, time.Duration(float64(time.Second)/rate))
}

// ThrottleWithClock is Throttle parameterized by an explicit clock.
func ThrottleWithClock[T any](name Name, d time.Duration, clock clockz.Clock) Flow[T, T] {
	return NewFlow(name, func(in *Stream[T]) *Stream[T] {
		var blockedUntil <-chan time.Time
		return newStream(func(ctx context.Context) (T, bool, error) {
			v, ok, err := in.Next(ctx)
			if err != nil || !ok {
				var zero T
				return zero, false, err
			}
			if blockedUntil != nil {
				select {
				case <-blockedUntil:
				case <-ctx.Done():
					var zero T
					return zero, false, ctx.Err()
				}
			}
			blockedUntil = clock.After(d)
			return v, true, nil
		})
	}, Metadata{"kind": "throttle", "duration": d})
}
