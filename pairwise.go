package flowz

import "context"

// Pair is the (previous, current) pair emitted by Pairwise.
type Pair[T any] struct {
	Prev T
	Curr T
}

// Pairwise returns a Flow that emits a Pair for every two consecutive
// items, starting from the second item. A stream of a single item (or
// none) emits nothing.
func Pairwise[T any](name Name) Flow[T, Pair[T]] {
	return NewFlow(name, func(in *Stream[T]) *Stream[Pair[T]] {
		var prev T
		hasPrev := false
		return newStream(func(ctx context.Context) (Pair[T], bool, error) {
			for {
				v, ok, err := in.Next(ctx)
				if err != nil || !ok {
					var zero Pair[T]
					return zero, false, err
				}
				if !hasPrev {
					prev = v
					hasPrev = true
					continue
				}
				pair := Pair[T]{Prev: prev, Curr: v}
				prev = v
				return pair, true, nil
			}
		})
	}, Metadata{"kind": "pairwise"})
}
