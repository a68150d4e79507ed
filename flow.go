package flowz

import "context"

// Metadata is an open map carried by every Flow, the stream-domain analogue
// of the metadata pipz attaches to Filter/Timeout/Retry for introspection.
// The constructors in this package set a "kind" tag naming the combinator
// plus combinator-specific keys such as batch size, delay, or parallelism,
// and Pipe adds "composed_with"; the analysis code (analysis.go) reads
// "kind" and "composed_with". No input or output type tag is recorded.
type Metadata map[string]any

// Flow is the triple (name, transform, metadata) from §3: a named wrapper
// around a function from one Stream to another. Flows are immutable values;
// Pipe and the combinator constructors always return a new Flow rather than
// mutating one, mirroring pipz's own "Processor is an immutable value"
// convention — the difference is that a flowz Flow's unit is a Stream, not a
// single T.
//
// Because Go generic methods cannot introduce new type parameters, Flow
// composition across differing element types is a free function (Pipe),
// not a method.
type Flow[In, Out any] struct {
	name      Name
	transform func(*Stream[In]) *Stream[Out]
	metadata  Metadata
}

// NewFlow constructs a Flow from a name and a transform function. Adapter
// functions (Map, Filter, Batch, ...) are thin callers of NewFlow that also
// populate combinator-specific metadata.
func NewFlow[In, Out any](name Name, transform func(*Stream[In]) *Stream[Out], metadata Metadata) Flow[In, Out] {
	if metadata == nil {
		metadata = Metadata{}
	}
	return Flow[In, Out]{name: name, transform: transform, metadata: metadata}
}

// Apply runs the flow's transform against in, producing a new Stream. Apply
// never blocks: the returned Stream is lazy and only begins producing when
// its consumer calls Next.
func (f Flow[In, Out]) Apply(in *Stream[In]) *Stream[Out] {
	return f.transform(in)
}

// Name returns the flow's informational name.
func (f Flow[In, Out]) Name() Name { return f.name }

// Metadata returns the flow's metadata map. Callers must not mutate the
// returned map; Flow values are meant to be immutable.
func (f Flow[In, Out]) Metadata() Metadata { return f.metadata }

// ToList drives a stream built from this flow's output to completion and
// returns every value emitted, mirroring Flow's to_list helper in §4.1.
func (f Flow[In, Out]) ToList(ctx context.Context, in *Stream[In]) ([]Out, error) {
	return ToList(ctx, f.Apply(in))
}

// Collect is an alias of ToList, per §4.1.
func (f Flow[In, Out]) Collect(ctx context.Context, in *Stream[In]) ([]Out, error) {
	return f.ToList(ctx, in)
}

// Preview drives at most n items from this flow's output and returns them.
func (f Flow[In, Out]) Preview(ctx context.Context, in *Stream[In], n int) ([]Out, error) {
	return Preview(ctx, f.Apply(in), n)
}

// WithFallback returns a Flow that behaves like f, except that if f's output
// stream ends without emitting anything, it emits v before completing.
func (f Flow[In, Out]) WithFallback(v Out) Flow[In, Out] {
	name := f.name + ".with_fallback"
	return NewFlow(name, func(in *Stream[In]) *Stream[Out] {
		upstream := f.Apply(in)
		emitted := false
		fellBack := false
		return newStream(func(ctx context.Context) (Out, bool, error) {
			if fellBack {
				var zero Out
				return zero, false, nil
			}
			val, ok, err := upstream.Next(ctx)
			if err != nil {
				var zero Out
				return zero, false, err
			}
			if ok {
				emitted = true
				return val, true, nil
			}
			if emitted {
				var zero Out
				return zero, false, nil
			}
			fellBack = true
			return v, true, nil
		})
	}, cloneMeta(f.metadata, Metadata{"fallback": true}))
}

// Pipe composes two flows of possibly different element types into one,
// implementing §4.1's "then"/pipe operation. The resulting flow's transform
// is the functional composition g.transform ∘ f.transform, and its name
// concatenates the two names with "∘" the way pipz concatenates connector
// identities along an error Path.
//
// Pipe preserves the composition laws: piping with Identity on either side
// is observationally a no-op, and Pipe is associative — Pipe(Pipe(f,g),h) and
// Pipe(f,Pipe(g,h)) drive identical sequences of Next calls against the same
// upstream.
func Pipe[In, Mid, Out any](f Flow[In, Mid], g Flow[Mid, Out]) Flow[In, Out] {
	name := f.name + " ∘ " + g.name
	return NewFlow(name, func(in *Stream[In]) *Stream[Out] {
		return g.Apply(f.Apply(in))
	}, cloneMeta(f.metadata, Metadata{"composed_with": g.name}))
}

// Pipe3 composes three flows left to right; a small, common-case convenience
// over nested Pipe calls.
func Pipe3[A, B, C, D any](f Flow[A, B], g Flow[B, C], h Flow[C, D]) Flow[A, D] {
	return Pipe(Pipe(f, g), h)
}

func cloneMeta(base Metadata, extra Metadata) Metadata {
	out := make(Metadata, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}
