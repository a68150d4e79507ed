package flowz

import "context"

// Skip returns a Flow that discards the first n items of the upstream
// stream and emits every item after that.
func Skip[T any](name Name, n int) Flow[T, T] {
	return NewFlow(name, func(in *Stream[T]) *Stream[T] {
		skipped := 0
		return newStream(func(ctx context.Context) (T, bool, error) {
			for skipped < n {
				_, ok, err := in.Next(ctx)
				if err != nil || !ok {
					var zero T
					return zero, false, err
				}
				skipped++
			}
			return in.Next(ctx)
		})
	}, Metadata{"kind": "skip", "n": n})
}
