package flowz

import (
	"context"
	"time"

	"github.com/zoobzio/clockz"
)

// Delay returns a Flow that delays every item by d before emitting it,
// preserving order. It defaults to clockz.RealClock; call WithClock on the
// returned value's metadata-free variant is not available since Flow is a
// plain value, so tests needing determinism should use DelayWithClock.
func Delay[T any](name Name, d time.Duration) Flow[T, T] {
	return DelayWithClock[T](name, d, clockz.RealClock)
}

// DelayWithClock is Delay parameterized by an explicit clock, for
// deterministic tests with clockz.NewFakeClock().
func DelayWithClock[T any](name Name, d time.Duration, clock clockz.Clock) Flow[T, T] {
	return NewFlow(name, func(in *Stream[T]) *Stream[T] {
		return newStream(func(ctx context.Context) (T, bool, error) {
			v, ok, err := in.Next(ctx)
			if err != nil || !ok {
				var zero T
				return zero, false, err
			}
			select {
			case <-clock.After(d):
				return v, true, nil
			case <-ctx.Done():
				var zero T
				return zero, false, ctx.Err()
			}
		})
	}, Metadata{"kind": "delay", "duration": d})
}
