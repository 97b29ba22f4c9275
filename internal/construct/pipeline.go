package construct

import (
	"github.com/specialistvlad/gridwire/internal/graph"
	"github.com/specialistvlad/gridwire/internal/override"
	"github.com/specialistvlad/gridwire/internal/params"
	"github.com/specialistvlad/gridwire/internal/preprocess"
	"github.com/specialistvlad/gridwire/internal/registry"
)

// DefaultPreprocessors returns the standard pipeline: overrides first, then
// mapped components, then plain components. Configs already in canonical
// form pass through all of them. ranges may be nil.
func DefaultPreprocessors(store *graph.Store, catalog *registry.Registry, ranges params.RangeValidator) []preprocess.Preprocessor {
	resolver := params.New(store, catalog, ranges)
	seen := preprocess.NewSeenInstances()
	return []preprocess.Preprocessor{
		override.New(store),
		preprocess.NewMappedNormalizer(store, catalog, preprocess.NewMapper(store, resolver), seen),
		preprocess.NewComponentNormalizer(store, catalog, resolver, seen),
	}
}
