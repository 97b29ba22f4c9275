package preprocess

import (
	"fmt"
	"sync"

	"github.com/specialistvlad/gridwire/internal/graph"
	"github.com/specialistvlad/gridwire/internal/registry"
	"github.com/specialistvlad/gridwire/internal/vocab"
)

// SeenInstances records the configs handled so far, per component type.
// It is append-only until Reset.
type SeenInstances struct {
	mu     sync.RWMutex
	byType map[string][]*graph.Resource
}

// NewSeenInstances creates an empty record.
func NewSeenInstances() *SeenInstances {
	return &SeenInstances{byType: make(map[string][]*graph.Resource)}
}

// Add records a config as an instance of the component type.
func (s *SeenInstances) Add(componentIRI string, config *graph.Resource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.byType[componentIRI] {
		if existing.Same(config) {
			return
		}
	}
	s.byType[componentIRI] = append(s.byType[componentIRI], config)
}

// Of returns the configs seen for the component type, in order.
func (s *SeenInstances) Of(componentIRI string) []*graph.Resource {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*graph.Resource(nil), s.byType[componentIRI]...)
}

// Reset forgets every recorded config.
func (s *SeenInstances) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byType = make(map[string][]*graph.Resource)
}

// inheritParameterValues copies values of parameters restricted with
// inheritValues from every previously seen instance of the source types onto
// the config. Source parameters unknown to the component are registered on
// it so they end up in the canonical arguments.
func inheritParameterValues(catalog *registry.Registry, seen *SeenInstances, component, config *graph.Resource) error {
	for _, parameter := range component.Properties(vocab.Parameters) {
		for _, restriction := range parameter.Properties(vocab.InheritValues) {
			for _, from := range restriction.Properties(vocab.From) {
				if _, ok := catalog.Component(from.Value()); !ok {
					return graph.NewError(
						fmt.Sprintf("Detected invalid component %s to inherit parameter values from", from.Value()),
						"component", component,
						"parameter", parameter,
					)
				}
				for _, instance := range seen.Of(from.Value()) {
					for _, onParameter := range restriction.Properties(vocab.OnParameter) {
						values := instance.Properties(onParameter.Value())
						if len(values) == 0 {
							continue
						}
						config.AddPropertyUnique(onParameter.Value(), values...)
						component.AddPropertyUnique(vocab.Parameters, onParameter)
					}
				}
			}
		}
	}
	return nil
}
