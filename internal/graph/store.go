package graph

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/specialistvlad/gridwire/internal/nodeid"
	"github.com/specialistvlad/gridwire/internal/vocab"
)

// Store interns named and blank nodes so that each identity maps to exactly
// one underlying node. It is safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	nodes map[nodeid.ID]*Resource
	// order records insertion order for deterministic iteration.
	order []nodeid.ID
}

// NewStore creates a new, empty resource store.
func NewStore() *Store {
	return &Store{nodes: make(map[nodeid.ID]*Resource)}
}

// Resource returns the resource for an identifier, creating named and blank
// nodes on first use. Literals are always created fresh.
func (s *Store) Resource(id nodeid.ID) *Resource {
	if id.Kind == nodeid.Literal {
		return newResource(id)
	}

	s.mu.RLock()
	r, ok := s.nodes[id]
	s.mu.RUnlock()
	if ok {
		return r
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.nodes[id]; ok {
		return r
	}
	r = newResource(id)
	s.nodes[id] = r
	s.order = append(s.order, id)
	return r
}

// Named returns the named node with the given IRI.
func (s *Store) Named(iri string) *Resource {
	return s.Resource(nodeid.Named(iri))
}

// Blank returns the blank node with the given label.
func (s *Store) Blank(label string) *Resource {
	return s.Resource(nodeid.Blank(label))
}

// NewBlank creates a blank node with a fresh, collision-free label.
func (s *Store) NewBlank() *Resource {
	return s.Blank(uuid.Must(uuid.NewV7()).String())
}

// Literal creates a plain literal.
func (s *Store) Literal(value string) *Resource {
	return newResource(nodeid.Lit(value))
}

// TypedLiteral creates a literal annotated with a datatype IRI.
func (s *Store) TypedLiteral(value, datatype string) *Resource {
	return newResource(nodeid.ID{Kind: nodeid.Literal, Value: value, Datatype: datatype})
}

// NewList creates a blank node holding the given members as an ordered list.
func (s *Store) NewList(members ...*Resource) *Resource {
	list := s.NewBlank()
	list.SetList(members)
	return list
}

// Lookup returns an already interned node without creating it.
func (s *Store) Lookup(id nodeid.ID) (*Resource, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.nodes[id]
	return r, ok
}

// All returns every interned node in insertion order.
func (s *Store) All() []*Resource {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Resource, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.nodes[id])
	}
	return out
}

// OfType returns every interned node declaring the given type, sorted by key.
func (s *Store) OfType(typeIRI string) []*Resource {
	var out []*Resource
	for _, r := range s.All() {
		if r.IsA(typeIRI) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

// Len returns the number of interned nodes.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}

// True is the literal used for boolean flags written by the engine.
func (s *Store) True() *Resource {
	return s.TypedLiteral("true", vocab.XSDBoolean)
}
