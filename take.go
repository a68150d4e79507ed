package flowz

import "context"

// Take returns a Flow that emits at most the first n items, then completes —
// even if the upstream would have produced more. Once n items have been
// emitted, Take closes the upstream stream so its resources are released
// immediately rather than waiting for a consumer that no longer cares.
func Take[T any](name Name, n int) Flow[T, T] {
	return NewFlow(name, func(in *Stream[T]) *Stream[T] {
		count := 0
		return newManagedStream(func(ctx context.Context) (T, bool, error) {
			if n <= 0 || count >= n {
				var zero T
				return zero, false, nil
			}
			v, ok, err := in.Next(ctx)
			if err != nil || !ok {
				var zero T
				return zero, false, err
			}
			count++
			if count >= n {
				in.Close()
			}
			return v, true, nil
		}, in.Close)
	}, Metadata{"kind": "take", "n": n})
}
