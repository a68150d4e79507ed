package flowz

import "context"

// expandNode is one entry in Expand's breadth-first frontier queue: a
// visited value together with how many further generations it may still
// expand into.
type expandNode[T any] struct {
	val   T
	depth int
}

// Expand returns a Flow that, for each input item, emits it and then
// recursively expands it via g up to maxDepth further generations,
// emitting every visited item before moving to the next input item —
// parent before children, breadth-first across generations (§4.5). g
// returns the direct children of a visited value; a value at depth 0 is
// emitted but not expanded further.
func Expand[T any](name Name, g func(context.Context, T) []T, maxDepth int) Flow[T, T] {
	if maxDepth < 0 {
		maxDepth = 0
	}
	return NewFlow(name, func(in *Stream[T]) *Stream[T] {
		var queue []expandNode[T]
		return newStream(func(ctx context.Context) (T, bool, error) {
			for {
				if len(queue) > 0 {
					node := queue[0]
					queue = queue[1:]
					if node.depth > 0 {
						for _, child := range g(ctx, node.val) {
							queue = append(queue, expandNode[T]{val: child, depth: node.depth - 1})
						}
					}
					return node.val, true, nil
				}
				v, ok, err := in.Next(ctx)
				if err != nil || !ok {
					var zero T
					return zero, false, err
				}
				queue = append(queue, expandNode[T]{val: v, depth: maxDepth})
			}
		})
	}, Metadata{"kind": "expand", "max_depth": maxDepth})
}
