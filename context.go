package flowz

import "reflect"

// TypedKey is a (path, type-tag, description) triple per §3. Equality and
// hashing are by path only — two keys constructed independently with the
// same path refer to the same binding, even across packages, which is why
// TypedKey carries no identity beyond its path.
type TypedKey[T any] struct {
	path string
	desc string
}

// NewTypedKey constructs a TypedKey bound to T. The key stores only its path
// and description; its type tag is derived from T (typeTag) when needed, so
// Get can detect a stored-value/key type mismatch without the caller ever
// naming the type again.
func NewTypedKey[T any](path, description string) TypedKey[T] {
	return TypedKey[T]{path: path, desc: description}
}

// Path returns the key's path, the sole component of its identity.
func (k TypedKey[T]) Path() string { return k.path }

// Description returns the key's human-readable description.
func (k TypedKey[T]) Description() string { return k.desc }

func (k TypedKey[T]) typeTag() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// ctxEntry is one binding stored in a frame: the value plus the reflect.Type
// it was stored under, so a later Get with a mismatched TypedKey[T] can be
// detected as a TypeMismatchError rather than a silent bad type-assertion.
type ctxEntry struct {
	value     any
	typ       reflect.Type
	forgotten bool
}

// ctxFrame is one frame of the logical frame stack (§3). Frames are
// immutable once built: Fork/PushLayer allocate a new frame layered on top
// of the existing chain, while Set/Forget build a modified copy of the top
// frame with the same parent, so no frame is mutated in place, giving every
// Context value the same "immutable value, derive a new one" shape as Flow
// itself.
type ctxFrame struct {
	parent *ctxFrame
	values map[string]ctxEntry
}

// Context is the logical frame stack threaded through context-aware
// combinators (§4.10): a sequence of frames, each a mapping from typed keys
// to values, searched top-down on lookup. The root frame can never be
// popped.
type Context struct {
	top *ctxFrame
}

// NewContext returns an empty Context consisting of just the (unpoppable)
// root frame.
func NewContext() Context {
	return Context{top: &ctxFrame{values: map[string]ctxEntry{}}}
}

// IsRoot reports whether c's top frame is the root frame (has no parent),
// i.e. whether PopLayer would fail.
func (c Context) IsRoot() bool {
	return c.top == nil || c.top.parent == nil
}

// Get looks up k by walking c's frame stack top-down and returns
// MissingKeyError if no frame binds k.path, or TypeMismatchError if a frame
// binds k.path to a value of a different type than k's type tag.
func Get[T any](c Context, k TypedKey[T]) (T, error) {
	want := k.typeTag()
	for f := c.top; f != nil; f = f.parent {
		if e, ok := f.values[k.path]; ok {
			var zero T
			if e.forgotten {
				return zero, &MissingKeyError{Path: k.path}
			}
			if e.typ != want {
				return zero, &TypeMismatchError{Path: k.path, Expected: want.String(), Actual: e.typ.String()}
			}
			v, _ := e.value.(T)
			return v, nil
		}
	}
	var zero T
	return zero, &MissingKeyError{Path: k.path}
}

// Has reports whether k is present with a matching type anywhere in c's
// frame stack.
func Has[T any](c Context, k TypedKey[T]) bool {
	_, err := Get(c, k)
	return err == nil
}

// Set returns a new Context identical to c except that k is bound to v in the
// current top frame — "the top frame is always writable" per §3. It does not
// push a new layer: the returned Context's frame has the same parent as c's
// top frame, only its own bindings differ (copy-on-write), so a sequence of
// Sets between a PushLayer and its matching PopLayer is undone as one unit by
// that single PopLayer. Mutations via Set never affect c itself, since the
// frame map is copied rather than written in place.
func Set[T any](c Context, k TypedKey[T], v T) Context {
	var parent *ctxFrame
	values := make(map[string]ctxEntry, 1)
	if c.top != nil {
		parent = c.top.parent
		values = make(map[string]ctxEntry, len(c.top.values)+1)
		for p, e := range c.top.values {
			values[p] = e
		}
	}
	values[k.path] = ctxEntry{value: v, typ: k.typeTag()}
	return Context{top: &ctxFrame{parent: parent, values: values}}
}

// Fork returns an isolated child Context: a new, empty, writable top frame
// layered over c's existing stack. Writes to the fork (via Set) never
// affect c, satisfying the Context invariant that fork produces an
// isolated child.
func Fork(c Context) Context {
	return Context{top: &ctxFrame{parent: c.top, values: map[string]ctxEntry{}}}
}

// PushLayer is an alias of Fork, named for the §3 operation list.
func PushLayer(c Context) Context { return Fork(c) }

// PopLayer removes the top frame and returns the Context beneath it. It
// fails if c is already at the root frame, since the root frame can never
// be popped.
func PopLayer(c Context) (Context, error) {
	if c.IsRoot() {
		return c, &ConfigurationError{Combinator: "pop_layer", Reason: "cannot pop the root frame"}
	}
	return Context{top: c.top.parent}, nil
}

// MergeContexts returns a new single-frame Context built by flattening both a and b
// (root to top) and layering b's bindings over a's on key conflicts —
// associative in keys, right-biased in values, per §3.
func MergeContexts(a, b Context) Context {
	flat := flattenFrames(a)
	for k, v := range flattenFrames(b) {
		flat[k] = v
	}
	return Context{top: &ctxFrame{values: flat}}
}

// contextID returns a stable, process-local identity for c's frame chain,
// distinct across Context values built by independent Set/Fork/MergeContexts
// calls. It backs TrackHistory's ContextChangeEvent.ContextID the same way
// the original system used id(context) for its change-history events.
func contextID(c Context) uint64 {
	return uint64(reflect.ValueOf(c.top).Pointer())
}

func flattenFrames(c Context) map[string]ctxEntry {
	var chain []*ctxFrame
	for f := c.top; f != nil; f = f.parent {
		chain = append(chain, f)
	}
	out := make(map[string]ctxEntry)
	for i := len(chain) - 1; i >= 0; i-- {
		for k, v := range chain[i].values {
			out[k] = v
		}
	}
	return out
}
