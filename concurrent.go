package flowz

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// applyOne drives a single-item transformer flow against exactly one input
// value and returns its single output, the way Parallel's children (§4.7)
// are specified: "children must be single-item transformers." A child that
// emits nothing for its one input yields the zero value with no error —
// callers that need otherwise should guard with Guard or RequireKeys
// upstream of the Parallel combinator.
func applyOne[In, Out any](ctx context.Context, flow Flow[In, Out], item In) (Out, error) {
	out := flow.Apply(Pure(item))
	v, ok, err := out.Next(ctx)
	if err != nil {
		var zero Out
		return zero, err
	}
	if !ok {
		var zero Out
		return zero, nil
	}
	return v, nil
}

// Tuple2 is the positional-alignment output of Parallel2, one field per
// child flow, per §5's "output tuple has positional alignment" guarantee.
type Tuple2[A, B any] struct {
	A A
	B B
}

// Tuple3 is the three-child variant of Tuple2.
type Tuple3[A, B, C any] struct {
	A A
	B B
	C C
}

// Parallel2 returns a Flow that, per input item, dispatches the item to both
// f1 and f2 concurrently (via errgroup.Group) and emits the tuple of their
// outputs once both complete. If either child fails, the other is canceled
// (errgroup.WithContext cancels the group context on first error) and the
// stream terminates with an ExecutionError naming this flow.
func Parallel2[In, A, B any](name Name, f1 Flow[In, A], f2 Flow[In, B]) Flow[In, Tuple2[A, B]] {
	return NewFlow(name, func(in *Stream[In]) *Stream[Tuple2[A, B]] {
		return newStream(func(ctx context.Context) (Tuple2[A, B], bool, error) {
			v, ok, err := in.Next(ctx)
			if err != nil || !ok {
				var zero Tuple2[A, B]
				return zero, false, err
			}
			var a A
			var b B
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				res, e := applyOne(gctx, f1, v)
				a = res
				return e
			})
			g.Go(func() error {
				res, e := applyOne(gctx, f2, v)
				b = res
				return e
			})
			if err := g.Wait(); err != nil {
				var zero Tuple2[A, B]
				return zero, false, withPath(name, v, true, &ExecutionError{Combinator: name, Cause: err})
			}
			return Tuple2[A, B]{A: a, B: b}, true, nil
		})
	}, Metadata{"kind": "parallel", "arity": 2})
}

// Parallel3 is the three-child variant of Parallel2.
func Parallel3[In, A, B, C any](name Name, f1 Flow[In, A], f2 Flow[In, B], f3 Flow[In, C]) Flow[In, Tuple3[A, B, C]] {
	return NewFlow(name, func(in *Stream[In]) *Stream[Tuple3[A, B, C]] {
		return newStream(func(ctx context.Context) (Tuple3[A, B, C], bool, error) {
			v, ok, err := in.Next(ctx)
			if err != nil || !ok {
				var zero Tuple3[A, B, C]
				return zero, false, err
			}
			var a A
			var b B
			var c C
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				res, e := applyOne(gctx, f1, v)
				a = res
				return e
			})
			g.Go(func() error {
				res, e := applyOne(gctx, f2, v)
				b = res
				return e
			})
			g.Go(func() error {
				res, e := applyOne(gctx, f3, v)
				c = res
				return e
			})
			if err := g.Wait(); err != nil {
				var zero Tuple3[A, B, C]
				return zero, false, withPath(name, v, true, &ExecutionError{Combinator: name, Cause: err})
			}
			return Tuple3[A, B, C]{A: a, B: b, C: c}, true, nil
		})
	}, Metadata{"kind": "parallel", "arity": 3})
}
