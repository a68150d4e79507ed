package flowz

import "context"

// flatMapFlow is the shared implementation behind FlatMap and the core
// constructor FromEventFn: for each input item, the sub-stream g(item) is
// pulled to exhaustion, in order, before the next input item is pulled.
func flatMapFlow[In, Out any](name Name, g func(context.Context, In) *Stream[Out]) Flow[In, Out] {
	return NewFlow(name, func(in *Stream[In]) *Stream[Out] {
		var cur *Stream[Out]
		return newStream(func(ctx context.Context) (Out, bool, error) {
			for {
				if cur != nil {
					v, ok, err := cur.Next(ctx)
					if err != nil {
						cur = nil
						var zero Out
						return zero, false, err
					}
					if ok {
						return v, true, nil
					}
					cur = nil
				}
				v, ok, err := in.Next(ctx)
				if err != nil || !ok {
					var zero Out
					return zero, false, err
				}
				cur = g(ctx, v)
			}
		})
	}, Metadata{"kind": "flat_map"})
}

// FlatMap returns a Flow that, for each input item, fully drains the
// sub-stream produced by g(item) before pulling the next input item,
// concatenating every sub-stream's emissions in order.
func FlatMap[In, Out any](name Name, g func(context.Context, In) *Stream[Out]) Flow[In, Out] {
	return flatMapFlow(name, g)
}

// Flatten returns a Flow that concatenates a stream of streams into a single
// stream of their elements, draining each inner stream to exhaustion before
// moving to the next.
func Flatten[T any](name Name) Flow[*Stream[T], T] {
	return flatMapFlow(name, func(_ context.Context, s *Stream[T]) *Stream[T] { return s })
}
