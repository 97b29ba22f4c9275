package graph

import (
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/specialistvlad/gridwire/internal/nodeid"
	"github.com/specialistvlad/gridwire/internal/vocab"
)

// node holds the shared, mutable data of a graph node.
type node struct {
	mu     sync.RWMutex
	props  map[string][]*Resource
	list   []*Resource
	isList bool
}

// Resource is a handle to a graph node, optionally decorated with markers
// that only apply to this particular use of the node.
type Resource struct {
	ID nodeid.ID

	node *node

	lazy   bool
	unique bool
	raw    any
	hasRaw bool
}

func newResource(id nodeid.ID) *Resource {
	return &Resource{ID: id, node: &node{props: make(map[string][]*Resource)}}
}

// Value returns the IRI, blank label or lexical form of the resource.
func (r *Resource) Value() string {
	return r.ID.Value
}

// Key returns the identity under which instances of this resource are
// memoized. Named and blank nodes never collide thanks to the `_:` marker.
func (r *Resource) Key() string {
	return r.ID.String()
}

// IsNamed reports whether the resource is a named node.
func (r *Resource) IsNamed() bool { return r.ID.Kind == nodeid.NamedNode }

// IsBlank reports whether the resource is a blank node.
func (r *Resource) IsBlank() bool { return r.ID.Kind == nodeid.BlankNode }

// IsLiteral reports whether the resource is a literal.
func (r *Resource) IsLiteral() bool { return r.ID.Kind == nodeid.Literal }

// Same reports whether both handles point at the same underlying node,
// regardless of the markers carried by either view.
func (r *Resource) Same(other *Resource) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.node == other.node
}

// Property returns the first value of a predicate, or nil.
func (r *Resource) Property(predicate string) *Resource {
	r.node.mu.RLock()
	defer r.node.mu.RUnlock()
	if values := r.node.props[predicate]; len(values) > 0 {
		return values[0]
	}
	return nil
}

// Properties returns a copy of all values of a predicate.
func (r *Resource) Properties(predicate string) []*Resource {
	r.node.mu.RLock()
	defer r.node.mu.RUnlock()
	return slices.Clone(r.node.props[predicate])
}

// HasProperty reports whether the predicate has at least one value.
func (r *Resource) HasProperty(predicate string) bool {
	r.node.mu.RLock()
	defer r.node.mu.RUnlock()
	return len(r.node.props[predicate]) > 0
}

// SetProperty replaces all values of a predicate. Passing no values removes
// the predicate entirely.
func (r *Resource) SetProperty(predicate string, values ...*Resource) {
	r.node.mu.Lock()
	defer r.node.mu.Unlock()
	if len(values) == 0 {
		delete(r.node.props, predicate)
		return
	}
	r.node.props[predicate] = slices.Clone(values)
}

// AddProperty appends values to a predicate.
func (r *Resource) AddProperty(predicate string, values ...*Resource) {
	if len(values) == 0 {
		return
	}
	r.node.mu.Lock()
	defer r.node.mu.Unlock()
	r.node.props[predicate] = append(r.node.props[predicate], values...)
}

// AddPropertyUnique appends each value that is not already present by
// reference. It returns the number of values actually added.
func (r *Resource) AddPropertyUnique(predicate string, values ...*Resource) int {
	r.node.mu.Lock()
	defer r.node.mu.Unlock()
	added := 0
	for _, v := range values {
		if !slices.ContainsFunc(r.node.props[predicate], v.Same) {
			r.node.props[predicate] = append(r.node.props[predicate], v)
			added++
		}
	}
	return added
}

// Predicates returns all predicates that have values, sorted.
func (r *Resource) Predicates() []string {
	r.node.mu.RLock()
	defer r.node.mu.RUnlock()
	preds := make([]string, 0, len(r.node.props))
	for p := range r.node.props {
		preds = append(preds, p)
	}
	sort.Strings(preds)
	return preds
}

// ReplaceProperties drops every property of the node and copies the
// properties of src in their place.
func (r *Resource) ReplaceProperties(src *Resource) {
	snapshot := src.snapshot()
	r.node.mu.Lock()
	defer r.node.mu.Unlock()
	r.node.props = snapshot
}

// snapshot returns a copy of the property table.
func (r *Resource) snapshot() map[string][]*Resource {
	r.node.mu.RLock()
	defer r.node.mu.RUnlock()
	out := make(map[string][]*Resource, len(r.node.props))
	for k, v := range r.node.props {
		out[k] = slices.Clone(v)
	}
	return out
}

// List returns the ordered members of the node when it is a list.
func (r *Resource) List() ([]*Resource, bool) {
	r.node.mu.RLock()
	defer r.node.mu.RUnlock()
	if !r.node.isList {
		return nil, false
	}
	return slices.Clone(r.node.list), true
}

// IsList reports whether the node is an ordered list.
func (r *Resource) IsList() bool {
	r.node.mu.RLock()
	defer r.node.mu.RUnlock()
	return r.node.isList
}

// SetList turns the node into a list holding the given members.
func (r *Resource) SetList(members []*Resource) {
	r.node.mu.Lock()
	defer r.node.mu.Unlock()
	r.node.isList = true
	r.node.list = slices.Clone(members)
}

// Types returns the declared types of the node.
func (r *Resource) Types() []*Resource {
	return r.Properties(vocab.Type)
}

// IsA reports whether one of the declared types has the given IRI.
func (r *Resource) IsA(typeIRI string) bool {
	for _, t := range r.Types() {
		if t.Value() == typeIRI {
			return true
		}
	}
	return false
}

// Lazy reports whether this use of the node carries the lazy marker.
func (r *Resource) Lazy() bool { return r.lazy }

// Unique reports whether this use of the node carries the unique marker.
func (r *Resource) Unique() bool { return r.unique }

// RawValue returns the hidden raw value of a literal, if one was attached.
func (r *Resource) RawValue() (any, bool) { return r.raw, r.hasRaw }

// WithLazy returns a view of the same node carrying the lazy marker.
func (r *Resource) WithLazy() *Resource {
	view := *r
	view.lazy = true
	return &view
}

// WithUnique returns a view of the same node carrying the unique marker.
func (r *Resource) WithUnique() *Resource {
	view := *r
	view.unique = true
	return &view
}

// WithRaw returns a view of the same node carrying a hidden raw value that
// takes precedence over the textual value during construction.
func (r *Resource) WithRaw(v any) *Resource {
	view := *r
	view.raw = v
	view.hasRaw = true
	return &view
}

// String renders the identity and declared types, for logs and errors.
func (r *Resource) String() string {
	if r == nil {
		return "<nil>"
	}
	types := r.Types()
	if len(types) == 0 {
		return r.Key()
	}
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.Value()
	}
	return r.Key() + " (types: " + strings.Join(names, ", ") + ")"
}

// Flag reports whether the first value of a predicate is the literal "true".
func (r *Resource) Flag(predicate string) bool {
	v := r.Property(predicate)
	return v != nil && v.IsLiteral() && v.Value() == "true"
}
