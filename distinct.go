package flowz

import "context"

// Distinct returns a Flow that emits only the first item seen for each key
// produced by keyFn, suppressing every subsequent item with a key already
// seen — a stream-wide "seen before" filter, unbounded in memory for the
// lifetime of the stream.
func Distinct[T any, K comparable](name Name, keyFn func(context.Context, T) K) Flow[T, T] {
	return NewFlow(name, func(in *Stream[T]) *Stream[T] {
		seen := make(map[K]struct{})
		return newStream(func(ctx context.Context) (T, bool, error) {
			for {
				v, ok, err := in.Next(ctx)
				if err != nil || !ok {
					var zero T
					return zero, false, err
				}
				k := keyFn(ctx, v)
				if _, dup := seen[k]; dup {
					continue
				}
				seen[k] = struct{}{}
				return v, true, nil
			}
		})
	}, Metadata{"kind": "distinct"})
}

// DistinctIdentity is Distinct keyed by the item itself — the plain
// `distinct` of §4.5/Scenario D, for any comparable T.
func DistinctIdentity[T comparable](name Name) Flow[T, T] {
	return Distinct[T, T](name, func(_ context.Context, v T) T { return v })
}
