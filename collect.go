package flowz

import "context"

// Collect returns a Flow that buffers the entire upstream into a single
// slice and emits it once, then completes. Unlike the Flow.ToList method
// (which drains a stream to a Go slice for the caller), Collect is itself a
// combinator: it can sit in the middle of a larger pipeline, turning a
// stream of T into a one-item stream of []T.
func Collect[T any](name Name) Flow[T, []T] {
	return NewFlow(name, func(in *Stream[T]) *Stream[[]T] {
		done := false
		return newStream(func(ctx context.Context) ([]T, bool, error) {
			if done {
				return nil, false, nil
			}
			done = true
			all, err := ToList(ctx, in)
			if err != nil {
				return nil, false, err
			}
			return all, true, nil
		})
	}, Metadata{"kind": "collect"})
}
