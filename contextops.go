package flowz

import (
	"context"
	"reflect"
)

// GetKey returns a Flow that, per input Context, emits the value bound to
// K — failing the stream with a MissingKeyError or TypeMismatchError (as
// produced by Get) the first time K is absent or mistyped (§4.10).
func GetKey[T any](name Name, k TypedKey[T]) Flow[Context, T] {
	return NewFlow(name, func(in *Stream[Context]) *Stream[T] {
		return newStream(func(ctx context.Context) (T, bool, error) {
			c, ok, err := in.Next(ctx)
			if err != nil || !ok {
				var zero T
				return zero, false, err
			}
			v, gerr := Get(c, k)
			if gerr != nil {
				var zero T
				return zero, false, withPath(name, c, true, gerr)
			}
			return v, true, nil
		})
	}, Metadata{"kind": "get_key", "context_inputs": []string{k.Path()}})
}

// SetKey returns a Flow that, per input Context, emits a Context with K
// bound to v in the current top frame (see Set).
func SetKey[T any](name Name, k TypedKey[T], v T) Flow[Context, Context] {
	return NewFlow(name, func(in *Stream[Context]) *Stream[Context] {
		return newStream(func(ctx context.Context) (Context, bool, error) {
			c, ok, err := in.Next(ctx)
			if err != nil || !ok {
				return Context{}, false, err
			}
			return Set(c, k, v), true, nil
		})
	}, Metadata{"kind": "set_key", "context_outputs": []string{k.Path()}})
}

// SetKeyFunc is SetKey parameterized by a function of the input item,
// for values that depend on the incoming Context rather than being fixed
// at construction time.
func SetKeyFunc[T any](name Name, k TypedKey[T], f func(context.Context, Context) T) Flow[Context, Context] {
	return NewFlow(name, func(in *Stream[Context]) *Stream[Context] {
		return newStream(func(ctx context.Context) (Context, bool, error) {
			c, ok, err := in.Next(ctx)
			if err != nil || !ok {
				return Context{}, false, err
			}
			return Set(c, k, f(ctx, c)), true, nil
		})
	}, Metadata{"kind": "set_key", "context_outputs": []string{k.Path()}})
}

// KeyRef names a TypedKey without committing to its element type, so
// RequireKeys can accept a heterogeneous list. Every TypedKey[T] implements
// KeyRef implicitly.
type KeyRef interface {
	checkIn(Context) error
	refPath() string
}

func (k TypedKey[T]) checkIn(c Context) error {
	_, err := Get(c, k)
	return err
}

func (k TypedKey[T]) refPath() string { return k.path }

// RequireKeys returns a Flow that passes a Context through unchanged if
// every key in keys is present with a matching type, and fails with the
// first violation's error otherwise (§4.10).
func RequireKeys(name Name, keys ...KeyRef) Flow[Context, Context] {
	paths := make([]string, len(keys))
	for i, k := range keys {
		paths[i] = k.refPath()
	}
	return NewFlow(name, func(in *Stream[Context]) *Stream[Context] {
		return newStream(func(ctx context.Context) (Context, bool, error) {
			c, ok, err := in.Next(ctx)
			if err != nil || !ok {
				return Context{}, false, err
			}
			for _, k := range keys {
				if kerr := k.checkIn(c); kerr != nil {
					return Context{}, false, withPath(name, c, true, kerr)
				}
			}
			return c, true, nil
		})
	}, Metadata{"kind": "require_keys", "context_inputs": paths})
}

// OptionalKey returns a Flow that, per input Context, emits the value bound
// to K if present and well-typed, or def otherwise — never failing the
// stream (§4.10).
func OptionalKey[T any](name Name, k TypedKey[T], def T) Flow[Context, T] {
	return NewFlow(name, func(in *Stream[Context]) *Stream[T] {
		return newStream(func(ctx context.Context) (T, bool, error) {
			c, ok, err := in.Next(ctx)
			if err != nil || !ok {
				var zero T
				return zero, false, err
			}
			v, gerr := Get(c, k)
			if gerr != nil {
				return def, true, nil
			}
			return v, true, nil
		})
	}, Metadata{"kind": "optional_key", "context_inputs": []string{k.Path()}})
}

// MoveKey returns a Flow that rebinds src's value to dst and forgets src,
// per Context in.
func MoveKey[T any](name Name, src, dst TypedKey[T]) Flow[Context, Context] {
	return NewFlow(name, func(in *Stream[Context]) *Stream[Context] {
		return newStream(func(ctx context.Context) (Context, bool, error) {
			c, ok, err := in.Next(ctx)
			if err != nil || !ok {
				return Context{}, false, err
			}
			v, gerr := Get(c, src)
			if gerr != nil {
				return Context{}, false, withPath(name, c, true, gerr)
			}
			c = Forget(c, src)
			c = Set(c, dst, v)
			return c, true, nil
		})
	}, Metadata{"kind": "move_key", "context_inputs": []string{src.Path()}, "context_outputs": []string{dst.Path()}})
}

// CopyKey returns a Flow that binds dst to src's current value, leaving src
// untouched, per Context in.
func CopyKey[T any](name Name, src, dst TypedKey[T]) Flow[Context, Context] {
	return NewFlow(name, func(in *Stream[Context]) *Stream[Context] {
		return newStream(func(ctx context.Context) (Context, bool, error) {
			c, ok, err := in.Next(ctx)
			if err != nil || !ok {
				return Context{}, false, err
			}
			v, gerr := Get(c, src)
			if gerr != nil {
				return Context{}, false, withPath(name, c, true, gerr)
			}
			return Set(c, dst, v), true, nil
		})
	}, Metadata{"kind": "copy_key", "context_inputs": []string{src.Path()}, "context_outputs": []string{dst.Path()}})
}

// ForgetKey returns a Flow that removes K's binding, per Context in. A
// subsequent Get for K anywhere downstream sees it as absent, even if an
// earlier (parent) frame still binds it.
func ForgetKey[T any](name Name, k TypedKey[T]) Flow[Context, Context] {
	return NewFlow(name, func(in *Stream[Context]) *Stream[Context] {
		return newStream(func(ctx context.Context) (Context, bool, error) {
			c, ok, err := in.Next(ctx)
			if err != nil || !ok {
				return Context{}, false, err
			}
			return Forget(c, k), true, nil
		})
	}, Metadata{"kind": "forget_key", "context_outputs": []string{k.Path()}})
}

// Forget returns a new Context in which k is no longer visible, by writing a
// tombstone into the current top frame — forgetting blocks visibility of any
// binding for k.Path() in frames beneath it too, not just the most recent
// one. Like Set, it writes into the top frame rather than pushing a new
// layer, so it composes with PushLayer/PopLayer the same way Set does.
func Forget[T any](c Context, k TypedKey[T]) Context {
	var parent *ctxFrame
	values := make(map[string]ctxEntry, 1)
	if c.top != nil {
		parent = c.top.parent
		values = make(map[string]ctxEntry, len(c.top.values)+1)
		for p, e := range c.top.values {
			values[p] = e
		}
	}
	values[k.path] = ctxEntry{forgotten: true}
	return Context{top: &ctxFrame{parent: parent, values: values}}
}

// TransformKey returns a Flow that reads k, applies f, and writes the
// result back to dst (or to k itself if dst is the same key), per Context
// in (§4.10).
func TransformKey[T any](name Name, k, dst TypedKey[T], f func(context.Context, T) T) Flow[Context, Context] {
	return NewFlow(name, func(in *Stream[Context]) *Stream[Context] {
		return newStream(func(ctx context.Context) (Context, bool, error) {
			c, ok, err := in.Next(ctx)
			if err != nil || !ok {
				return Context{}, false, err
			}
			v, gerr := Get(c, k)
			if gerr != nil {
				return Context{}, false, withPath(name, c, true, gerr)
			}
			return Set(c, dst, f(ctx, v)), true, nil
		})
	}, Metadata{"kind": "transform_key", "context_inputs": []string{k.Path()}, "context_outputs": []string{dst.Path()}})
}

// ComputedKey returns a Flow that binds dst to compute's result, reusing the
// previous result instead of recomputing it when none of deps' current
// values differ from the values they held the last time compute ran — the
// immutable-Context equivalent of the original system's cached, dependency-
// invalidated computed property. If graph is non-nil, each dependency in
// deps is registered as a source of dst in graph at construction time, so
// later DependencyGraph queries can report what reads dst's inputs.
func ComputedKey[T any](name Name, dst TypedKey[T], deps []KeyRef, compute func(context.Context, Context) T, graph *DependencyGraph) Flow[Context, Context] {
	depPaths := make([]string, len(deps))
	for i, d := range deps {
		depPaths[i] = d.refPath()
		if graph != nil {
			graph.AddDependency(d.refPath(), dst.Path())
		}
	}
	return NewFlow(name, func(in *Stream[Context]) *Stream[Context] {
		var cachedDeps map[string]any
		var cachedResult T
		haveCache := false
		return newStream(func(ctx context.Context) (Context, bool, error) {
			c, ok, err := in.Next(ctx)
			if err != nil || !ok {
				return Context{}, false, err
			}
			flat := flattenFrames(c)
			current := make(map[string]any, len(depPaths))
			for _, p := range depPaths {
				if e, ok := flat[p]; ok && !e.forgotten {
					current[p] = e.value
				}
			}
			if !haveCache || !sameDepValues(cachedDeps, current) {
				cachedResult = compute(ctx, c)
				cachedDeps = current
				haveCache = true
			}
			return Set(c, dst, cachedResult), true, nil
		})
	}, Metadata{"kind": "computed_key", "context_inputs": depPaths, "context_outputs": []string{dst.Path()}})
}

func sameDepValues(a, b map[string]any) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		bv, ok := b[k]
		if !ok || !reflect.DeepEqual(v, bv) {
			return false
		}
	}
	return true
}

// ContextFlow attaches a declared dependency footprint (the keys this flow
// reads and writes) to flow's metadata, the decorator-style constructor of
// §4.10. The footprint is informational only: it is recorded under
// "context_inputs" and "context_outputs", and nothing in this package checks
// that declared inputs are produced by earlier flows in a composition.
func ContextFlow[In, Out any](flow Flow[In, Out], inputs, outputs []string) Flow[In, Out] {
	return NewFlow(flow.Name(), func(in *Stream[In]) *Stream[Out] {
		return flow.Apply(in)
	}, cloneMeta(flow.Metadata(), Metadata{"context_inputs": inputs, "context_outputs": outputs}))
}
