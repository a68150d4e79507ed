package flowz

import "context"

// Zip2 pulls one item from each of two sources per emission and returns
// their Tuple2, completing as soon as either source completes (§4.7). It is
// a lean, one-to-one combinator like Map — no concurrency is needed since
// the two pulls are sequential and neither blocks the other's progress more
// than a single-consumer Stream already would.
func Zip2[A, B any](name Name, sa *Stream[A], sb *Stream[B]) *Stream[Tuple2[A, B]] {
	return newManagedStream(func(ctx context.Context) (Tuple2[A, B], bool, error) {
		a, ok, err := sa.Next(ctx)
		if err != nil || !ok {
			var zero Tuple2[A, B]
			return zero, false, err
		}
		b, ok, err := sb.Next(ctx)
		if err != nil || !ok {
			var zero Tuple2[A, B]
			return zero, false, err
		}
		return Tuple2[A, B]{A: a, B: b}, true, nil
	}, func() {
		sa.Close()
		sb.Close()
	})
}

// Zip3 is the three-source variant of Zip2.
func Zip3[A, B, C any](name Name, sa *Stream[A], sb *Stream[B], sc *Stream[C]) *Stream[Tuple3[A, B, C]] {
	return newManagedStream(func(ctx context.Context) (Tuple3[A, B, C], bool, error) {
		a, ok, err := sa.Next(ctx)
		if err != nil || !ok {
			var zero Tuple3[A, B, C]
			return zero, false, err
		}
		b, ok, err := sb.Next(ctx)
		if err != nil || !ok {
			var zero Tuple3[A, B, C]
			return zero, false, err
		}
		c, ok, err := sc.Next(ctx)
		if err != nil || !ok {
			var zero Tuple3[A, B, C]
			return zero, false, err
		}
		return Tuple3[A, B, C]{A: a, B: b, C: c}, true, nil
	}, func() {
		sa.Close()
		sb.Close()
		sc.Close()
	})
}
