package flowz

import "context"

// ChainStreams fully drains each source in order before moving to the next,
// concatenating their items — the stream-level counterpart of append. An
// error from any source terminates the chain at that point without draining
// the remaining sources.
func ChainStreams[T any](sources ...*Stream[T]) *Stream[T] {
	idx := 0
	return newManagedStream(func(ctx context.Context) (T, bool, error) {
		for idx < len(sources) {
			v, ok, err := sources[idx].Next(ctx)
			if err != nil {
				var zero T
				return zero, false, err
			}
			if ok {
				return v, true, nil
			}
			idx++
		}
		var zero T
		return zero, false, nil
	}, func() {
		for _, s := range sources {
			s.Close()
		}
	})
}
