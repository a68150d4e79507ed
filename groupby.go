package flowz

import "context"

// Group is the (key, items) pair emitted by GroupBy.
type Group[K comparable, T any] struct {
	Key   K
	Items []T
}

// GroupBy returns a Flow that partitions the upstream by keyFn, buffering
// every item into its group, and emits one Group per distinct key — in the
// order each key was first seen — once the upstream is exhausted.
func GroupBy[T any, K comparable](name Name, keyFn func(context.Context, T) K) Flow[T, Group[K, T]] {
	return NewFlow(name, func(in *Stream[T]) *Stream[Group[K, T]] {
		var order []K
		groups := make(map[K][]T)
		collected := false
		idx := 0
		return newStream(func(ctx context.Context) (Group[K, T], bool, error) {
			if !collected {
				for {
					v, ok, err := in.Next(ctx)
					if err != nil {
						var zero Group[K, T]
						return zero, false, err
					}
					if !ok {
						collected = true
						break
					}
					k := keyFn(ctx, v)
					if _, seen := groups[k]; !seen {
						order = append(order, k)
					}
					groups[k] = append(groups[k], v)
				}
			}
			if idx >= len(order) {
				var zero Group[K, T]
				return zero, false, nil
			}
			k := order[idx]
			idx++
			return Group[K, T]{Key: k, Items: groups[k]}, true, nil
		})
	}, Metadata{"kind": "group_by"})
}
