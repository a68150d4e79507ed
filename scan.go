package flowz

import "context"

// Scan returns a Flow that always emits seed first (even for an empty
// input, per §8 invariant 7), then folds f over the upstream items,
// emitting the running accumulator after every item — a running-total/
// reduce-with-history combinator, as opposed to Flow.ToList's eventual
// single result.
func Scan[In, Acc any](name Name, seed Acc, f func(context.Context, Acc, In) Acc) Flow[In, Acc] {
	return NewFlow(name, func(in *Stream[In]) *Stream[Acc] {
		acc := seed
		seeded := false
		return newStream(func(ctx context.Context) (Acc, bool, error) {
			if !seeded {
				seeded = true
				return acc, true, nil
			}
			v, ok, err := in.Next(ctx)
			if err != nil || !ok {
				var zero Acc
				return zero, false, err
			}
			acc = f(ctx, acc, v)
			return acc, true, nil
		})
	}, Metadata{"kind": "scan"})
}
