package flowz

import "context"

// Memoize returns a Flow that maintains a key → first-value-seen map: the
// first item observed for a given key passes through unchanged (and is
// cached), and every later item with the same key is replaced by that
// cached first value — it is never dropped, only substituted (§4.5). The
// cache is private to one application's stream, per §5's rule that
// combinator state does not survive stream termination.
func Memoize[T any, K comparable](name Name, keyFn func(context.Context, T) K) Flow[T, T] {
	return NewFlow(name, func(in *Stream[T]) *Stream[T] {
		cache := make(map[K]T)
		return newStream(func(ctx context.Context) (T, bool, error) {
			v, ok, err := in.Next(ctx)
			if err != nil || !ok {
				var zero T
				return zero, false, err
			}
			k := keyFn(ctx, v)
			if cached, seen := cache[k]; seen {
				return cached, true, nil
			}
			cache[k] = v
			return v, true, nil
		})
	}, Metadata{"kind": "memoize"})
}
