package flowz

import (
	"context"
	"sync"
)

// FromSyncFn returns a Flow that, per input item, emits f(item) — a pure,
// synchronous per-item transformation with ordering preserved. It is the
// core-constructor framing of Map (§4.3); the two share an implementation.
func FromSyncFn[In, Out any](name Name, f func(context.Context, In) Out) Flow[In, Out] {
	return NewFlow(name, func(in *Stream[In]) *Stream[Out] {
		return newStream(func(ctx context.Context) (Out, bool, error) {
			v, ok, err := in.Next(ctx)
			if err != nil || !ok {
				var zero Out
				return zero, false, err
			}
			return f(ctx, v), true, nil
		})
	}, Metadata{"kind": "from_sync_fn"})
}

// FromValueFn returns a Flow that, per input item, awaits f(item) and emits
// the result. Each item is fully awaited before the next is pulled, so
// ordering is preserved. A returned error becomes an ExecutionError naming
// this flow.
func FromValueFn[In, Out any](name Name, f func(context.Context, In) (Out, error)) Flow[In, Out] {
	return NewFlow(name, func(in *Stream[In]) *Stream[Out] {
		return newStream(func(ctx context.Context) (Out, bool, error) {
			v, ok, err := in.Next(ctx)
			if err != nil || !ok {
				var zero Out
				return zero, false, err
			}
			out, err := f(ctx, v)
			if err != nil {
				var zero Out
				return zero, false, withPath(name, v, true, &ExecutionError{Combinator: name, Cause: err})
			}
			return out, true, nil
		})
	}, Metadata{"kind": "from_value_fn"})
}

// FromEventFn returns a Flow that, per input item, runs g(item) as an async
// generator and flattens its emissions in order before pulling the next
// input item. This is the core-constructor framing of FlatMap (§4.3); the
// two share an implementation.
func FromEventFn[In, Out any](name Name, g func(context.Context, In) *Stream[Out]) Flow[In, Out] {
	return flatMapFlow(name, g)
}

// FromEmitter returns a Stream that adapts a callback-registration API (the
// shape common to event emitters, pub/sub subscriptions, and UI widgets)
// into a pull-based Stream. register is invoked exactly once, at
// construction, with a context and an emit callback; every call to emit(v)
// is buffered into the output stream in arrival order until the returned
// Stream is closed. Close cancels that context and calls the stop function
// register returned.
//
// FromEmitter takes no input stream: it is a source like FromIterable, and
// cancellation reaches it only through Close on the returned Stream.
func FromEmitter[T any](name Name, register func(ctx context.Context, emit func(T)) (stop func())) *Stream[T] {
	cctx, cancel := context.WithCancel(context.Background())
	ch := make(chan result[T], 64)

	var closeOnce sync.Once
	stop := register(cctx, func(v T) {
		select {
		case ch <- result[T]{val: v, ok: true}:
		case <-cctx.Done():
		}
	})

	go func() {
		<-cctx.Done()
		closeOnce.Do(func() {
			if stop != nil {
				stop()
			}
			select {
			case ch <- result[T]{ok: false, err: cctx.Err()}:
			default:
			}
			close(ch)
		})
	}()

	return newManagedStream(chanNext(ch), cancel)
}
