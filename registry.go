package flowz

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// AnyFlow is the minimal view the Registry needs of a Flow value: its name
// and metadata. Every Flow[In, Out] satisfies AnyFlow automatically, since
// Name and Metadata take no extra type parameters — the Registry itself
// never needs to know a flow's In/Out types, only its identity. Callers
// retrieving an entry type-assert it back to the concrete Flow[In, Out]
// they registered, the same way a heterogeneous Go container always
// requires the caller to know (or re-check) the concrete type on the way
// out.
type AnyFlow interface {
	Name() Name
	Metadata() Metadata
}

// RegistryEntry is one (name, flow, categories) binding held by the
// Registry (§4.11), plus an instance id distinct from the flow's
// informational Name: every Register call mints a new ID, so an entry can be
// told apart from the one it replaced under the same name.
type RegistryEntry struct {
	ID         uuid.UUID
	Flow       AnyFlow
	Categories map[string]struct{}
}

// Registry is a process-wide, name-indexed catalogue of flows (§4.11).
// Registration is last-write-wins; there is no persistence (§6 —
// "Registry persistence: None").
type Registry struct {
	mu      sync.RWMutex
	entries map[string]RegistryEntry
}

// NewRegistry returns an empty Registry. Most callers use the package-level
// DefaultRegistry instead of constructing their own, but an explicit
// instance is useful for tests that must not share global state.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]RegistryEntry)}
}

// DefaultRegistry is the process-wide registry most host applications use
// directly; it is plain package state, not implicitly shared across
// isolates or OS processes (§3 — "Global state").
var DefaultRegistry = NewRegistry()

// Register inserts flow under name with the given categories, replacing any
// existing entry of the same name (last-write-wins).
func (r *Registry) Register(name Name, flow AnyFlow, categories ...string) RegistryEntry {
	cats := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		cats[c] = struct{}{}
	}
	entry := RegistryEntry{ID: uuid.New(), Flow: flow, Categories: cats}
	r.mu.Lock()
	r.entries[name] = entry
	r.mu.Unlock()
	return entry
}

// Get returns the entry registered under name, or false if none exists.
func (r *Registry) Get(name Name) (RegistryEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	return e, ok
}

// List returns the names of every registered flow, optionally filtered to
// those tagged with category. An empty category returns every name.
func (r *Registry) List(category string) []Name {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Name, 0, len(r.entries))
	for name, e := range r.entries {
		if category == "" {
			out = append(out, name)
			continue
		}
		if _, ok := e.Categories[category]; ok {
			out = append(out, name)
		}
	}
	return out
}

// Search returns the names of every registered flow whose name or metadata
// description contains substr (case-sensitive), a full-text search across
// name and metadata description per §4.11.
func (r *Registry) Search(substr string) []Name {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Name
	for name, e := range r.entries {
		if strings.Contains(name, substr) {
			out = append(out, name)
			continue
		}
		if desc, ok := e.Flow.Metadata()["description"].(string); ok && strings.Contains(desc, substr) {
			out = append(out, name)
		}
	}
	return out
}

// Remove deletes the entry registered under name, if any.
func (r *Registry) Remove(name Name) {
	r.mu.Lock()
	delete(r.entries, name)
	r.mu.Unlock()
}

// Clear removes every registered entry.
func (r *Registry) Clear() {
	r.mu.Lock()
	r.entries = make(map[string]RegistryEntry)
	r.mu.Unlock()
}

// Info is the introspection summary returned by (*Registry).Info: the
// flow's name, its categories, its metadata, and a repr string suitable for
// debug output.
type Info struct {
	Name       Name
	Categories []string
	Metadata   Metadata
	Repr       string
}

// Info returns the introspection summary for name, or false if unregistered.
func (r *Registry) Info(name Name) (Info, bool) {
	r.mu.RLock()
	e, ok := r.entries[name]
	r.mu.RUnlock()
	if !ok {
		return Info{}, false
	}
	cats := make([]string, 0, len(e.Categories))
	for c := range e.Categories {
		cats = append(cats, c)
	}
	return Info{
		Name:       e.Flow.Name(),
		Categories: cats,
		Metadata:   e.Flow.Metadata(),
		Repr:       "flow(" + e.Flow.Name() + ")",
	}, true
}
