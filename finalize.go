package flowz

import (
	"context"
	"sync"
)

// Finalize returns a Flow that passes every item through unchanged and
// invokes onDone exactly once when the upstream terminates, regardless of
// whether termination was exhaustion, an error, or a cancellation (in which
// case IsCancellation(err) is true). It is the stream-level analogue of a
// defer/finally block, most often used to release a resource acquired
// earlier in the pipeline.
//
// onDone also fires if the downstream closes Finalize's stream directly
// (e.g. via Take's early upstream Close) without ever observing a
// terminal Next call, since Close is itself a termination per §5.
func Finalize[T any](name Name, onDone func(err error)) Flow[T, T] {
	return NewFlow(name, func(in *Stream[T]) *Stream[T] {
		var once sync.Once
		fire := func(err error) { once.Do(func() { onDone(err) }) }
		return newManagedStream(func(ctx context.Context) (T, bool, error) {
			v, ok, err := in.Next(ctx)
			if !ok {
				fire(err)
			}
			return v, ok, err
		}, func() {
			in.Close()
			fire(context.Canceled)
		})
	}, Metadata{"kind": "finalize"})
}
