package flowz

import (
	"context"
	"sync"
)

// Name is a type alias for flow and combinator names, mirroring pipz's Name
// alias. Using this type encourages naming flows with constants rather than
// scattering inline strings through a pipeline.
type Name = string

// Stream is a lazy, forward-only, single-consumer, cancellable asynchronous
// sequence of values of type T. It is the core data type of flowz: every
// Flow is a function from one Stream to another.
//
// A Stream is consumed by repeatedly calling Next until it terminates. It
// terminates in exactly one of three ways:
//
//   - exhaustion: Next returns (zero, false, nil)
//   - error:      Next returns (zero, false, err) where err is not a
//     cancellation (see IsCancellation)
//   - cancellation: Next returns (zero, false, err) where IsCancellation(err)
//
// A Stream may only be consumed once end-to-end. Calling Next after
// termination is allowed but not uniform: channel-backed streams keep
// returning the terminal result, while pull-function streams ask their
// upstream again, so after a per-item error from FromValueFn the next call
// moves on to the next input item (CatchAndContinue relies on this).
// Re-driving a Stream from the start is not supported — build a new one from
// the originating Flow instead.
type Stream[T any] struct {
	next      func(context.Context) (T, bool, error)
	closeOnce sync.Once
	closeFn   func()
}

// newStream wraps a pull function with no background resources to release.
// Most one-to-one and stateful-but-synchronous combinators (Map, Filter,
// Batch, Scan, ...) use this: the returned Stream suspends only by delegating
// to the upstream Stream's own Next call, so no goroutine is ever spawned.
func newStream[T any](next func(context.Context) (T, bool, error)) *Stream[T] {
	return &Stream[T]{next: next}
}

// newManagedStream wraps a pull function together with the function that
// releases what it holds. Combinators backed by a background goroutine
// (Merge, ParallelMap, Debounce, Sample, Buffer, Share, FromEmitter) use this
// so that Close/cancellation always tears down what they started; Take,
// Until, Zip2/Zip3, ChainStreams and Finalize use it to forward Close to
// their sources.
func newManagedStream[T any](next func(context.Context) (T, bool, error), closeFn func()) *Stream[T] {
	return &Stream[T]{next: next, closeFn: closeFn}
}

// Next pulls the next value from the stream, suspending until a value is
// ready, the stream terminates, or ctx is done. It is the only required
// primitive of the stream contract; every combinator is expressed in terms
// of it.
func (s *Stream[T]) Next(ctx context.Context) (T, bool, error) {
	if s == nil || s.next == nil {
		var zero T
		return zero, false, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return s.next(ctx)
}

// Close releases any resource (goroutine, timer, buffer) held by this stream
// instance. It is idempotent and safe to call even if the stream already
// terminated normally. Combinators call Close on their upstream stream when
// they themselves are cancelled or have no further use for it (e.g. Take
// after its n-th item).
func (s *Stream[T]) Close() {
	if s == nil {
		return
	}
	s.closeOnce.Do(func() {
		if s.closeFn != nil {
			s.closeFn()
		}
	})
}

// result is the internal channel payload used by channel-backed streams.
// ok=true carries a value; ok=false terminates the stream, with err nil for
// exhaustion and non-nil for an error or cancellation.
type result[T any] struct {
	val T
	err error
	ok  bool
}

// chanNext builds a Next function that reads from a results channel produced
// by a background goroutine, respecting ctx cancellation at the receive
// point. Once the channel reports termination the terminal state is cached
// so repeated calls to Next don't race a closed channel.
func chanNext[T any](ch <-chan result[T]) func(context.Context) (T, bool, error) {
	var (
		mu   sync.Mutex
		done bool
		err  error
	)
	return func(ctx context.Context) (T, bool, error) {
		mu.Lock()
		if done {
			e := err
			mu.Unlock()
			var zero T
			return zero, false, e
		}
		mu.Unlock()

		select {
		case <-ctx.Done():
			return *new(T), false, ctx.Err()
		case r, chOk := <-ch:
			if !chOk || !r.ok {
				mu.Lock()
				done = true
				if chOk {
					err = r.err
				}
				mu.Unlock()
				var zero T
				return zero, false, err
			}
			return r.val, true, nil
		}
	}
}

// FromIterable returns a Stream that emits the elements of xs in order, then
// completes. It is the simplest source: no goroutine, no await — a pure
// index-walk gated by the consumer's own pull cadence.
func FromIterable[T any](xs []T) *Stream[T] {
	i := 0
	return newStream(func(ctx context.Context) (T, bool, error) {
		if ctx.Err() != nil {
			var zero T
			return zero, false, ctx.Err()
		}
		if i >= len(xs) {
			var zero T
			return zero, false, nil
		}
		v := xs[i]
		i++
		return v, true, nil
	})
}

// Identity returns a Flow that passes items through unchanged.
func Identity[T any]() Flow[T, T] {
	return Flow[T, T]{
		name: "identity",
		transform: func(in *Stream[T]) *Stream[T] {
			return in
		},
		metadata: Metadata{"kind": "identity"},
	}
}

// Pure returns a Stream that emits v exactly once and then completes,
// ignoring whatever input stream it might logically follow. It satisfies
// law 3 of the composition laws (§4.1): Pure(v) emits [v] for any input.
func Pure[T any](v T) *Stream[T] {
	emitted := false
	return newStream(func(ctx context.Context) (T, bool, error) {
		if ctx.Err() != nil {
			var zero T
			return zero, false, ctx.Err()
		}
		if emitted {
			var zero T
			return zero, false, nil
		}
		emitted = true
		return v, true, nil
	})
}

// ToList drains s to completion and returns every emitted value as a slice.
// It returns an error if the stream terminates with an error or cancellation
// rather than exhaustion.
func ToList[T any](ctx context.Context, s *Stream[T]) ([]T, error) {
	var out []T
	for {
		v, ok, err := s.Next(ctx)
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, v)
	}
}

// Preview drains up to n items from s and returns them, leaving the stream
// positioned after the n-th item (or at its natural end if shorter). Unlike
// ToList it does not treat stream errors as fatal to the returned prefix; it
// returns whatever was collected plus the error.
func Preview[T any](ctx context.Context, s *Stream[T], n int) ([]T, error) {
	out := make([]T, 0, n)
	for len(out) < n {
		v, ok, err := s.Next(ctx)
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, v)
	}
	return out, nil
}

// ToList is a convenience method equivalent to the free function ToList(ctx, s).
func (s *Stream[T]) ToList(ctx context.Context) ([]T, error) {
	return ToList(ctx, s)
}

// Preview is a convenience method equivalent to the free function Preview(ctx, s, n).
func (s *Stream[T]) Preview(ctx context.Context, n int) ([]T, error) {
	return Preview(ctx, s, n)
}

// IsCancellation reports whether err represents the stream's cancellation
// termination mode rather than a genuine processing error. Cancellation is
// never surfaced to error handlers, but does trigger Finalize, per the
// propagation policy in §7.
func IsCancellation(err error) bool {
	return err != nil && (err == context.Canceled || isCanceledChain(err))
}
