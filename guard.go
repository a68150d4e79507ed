package flowz

import "context"

// Guard returns a Flow that passes every item through unchanged as long as
// pred holds for it. The first item that fails pred terminates the stream
// with a ValidationError naming the offending item — unlike Filter, which
// drops failing items silently, Guard treats a failing item as a defect in
// the data itself.
func Guard[T any](name Name, pred func(context.Context, T) bool, message string) Flow[T, T] {
	return NewFlow(name, func(in *Stream[T]) *Stream[T] {
		failed := false
		return newStream(func(ctx context.Context) (T, bool, error) {
			if failed {
				var zero T
				return zero, false, nil
			}
			v, ok, err := in.Next(ctx)
			if err != nil || !ok {
				var zero T
				return zero, false, err
			}
			if !pred(ctx, v) {
				failed = true
				var zero T
				return zero, false, withPath(name, v, true, &ValidationError[T]{Item: v, Message: message})
			}
			return v, true, nil
		})
	}, Metadata{"kind": "guard"})
}
