package flowz

import "context"

// Batch returns a Flow that groups input items into slices of size n,
// emitting a full batch as soon as n items have accumulated. If the
// upstream exhausts with a partial batch pending, that partial batch is
// emitted before completion. A non-positive n is not reported as a
// ConfigurationError (§7): it is clamped to 1, the same clamp-at-construction convention
// used by Retry's maxAttempts and CircuitBreaker's threshold, rather
// than threading an error return through every combinator constructor.
func Batch[T any](name Name, n int) Flow[T, []T] {
	if n < 1 {
		n = 1
	}
	return NewFlow(name, func(in *Stream[T]) *Stream[[]T] {
		exhausted := false
		return newStream(func(ctx context.Context) ([]T, bool, error) {
			if exhausted {
				return nil, false, nil
			}
			batch := make([]T, 0, n)
			for len(batch) < n {
				v, ok, err := in.Next(ctx)
				if err != nil {
					return nil, false, err
				}
				if !ok {
					exhausted = true
					if len(batch) == 0 {
						return nil, false, nil
					}
					return batch, true, nil
				}
				batch = append(batch, v)
			}
			return batch, true, nil
		})
	}, Metadata{"kind": "batch", "n": n})
}

// Chunk is an alias of Batch, matching the naming some pipelines prefer for
// fixed-size grouping.
func Chunk[T any](name Name, n int) Flow[T, []T] {
	return Batch[T](name, n)
}
