package flowz

import "context"

// Until returns a Flow that emits items up to and including the first item
// for which pred returns true, then completes. It is the stopping-condition
// counterpart to Take: Take bounds by count, Until bounds by content.
func Until[T any](name Name, pred func(context.Context, T) bool) Flow[T, T] {
	return NewFlow(name, func(in *Stream[T]) *Stream[T] {
		done := false
		return newManagedStream(func(ctx context.Context) (T, bool, error) {
			if done {
				var zero T
				return zero, false, nil
			}
			v, ok, err := in.Next(ctx)
			if err != nil || !ok {
				var zero T
				return zero, false, err
			}
			if pred(ctx, v) {
				done = true
				in.Close()
			}
			return v, true, nil
		}, in.Close)
	}, Metadata{"kind": "until"})
}
