package flowz

import "context"

// Filter returns a Flow that emits only the items for which pred returns
// true, preserving the relative order of the items that pass. Items that
// don't pass are dropped silently, never surfaced as errors — dropping an
// item is not a failure.
func Filter[T any](name Name, pred func(context.Context, T) bool) Flow[T, T] {
	return NewFlow(name, func(in *Stream[T]) *Stream[T] {
		return newStream(func(ctx context.Context) (T, bool, error) {
			for {
				v, ok, err := in.Next(ctx)
				if err != nil || !ok {
					var zero T
					return zero, false, err
				}
				if pred(ctx, v) {
					return v, true, nil
				}
			}
		})
	}, Metadata{"kind": "filter"})
}
