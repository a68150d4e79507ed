package flowz

import "context"

// Map returns a Flow that emits f(item) for every input item, preserving
// order. It is the everyday transformation combinator (§4.3) and shares its
// implementation with the core constructor FromSyncFn.
func Map[In, Out any](name Name, f func(context.Context, In) Out) Flow[In, Out] {
	return NewFlow(name, FromSyncFn(name, f).transform, Metadata{"kind": "map"})
}
