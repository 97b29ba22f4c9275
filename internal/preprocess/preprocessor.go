package preprocess

import (
	"context"

	"github.com/specialistvlad/gridwire/internal/graph"
)

// Result is the output of a preprocessor that claimed a config.
type Result struct {
	// Config is the transformed config node.
	Config *graph.Resource
	// Finished reports whether Config is in canonical form. Unfinished
	// results are handed to the next preprocessor.
	Finished bool
}

// Preprocessor turns higher-level configs into the canonical shape consumed
// by the constructor.
type Preprocessor interface {
	// Preprocess reports false when the config is not claimed.
	Preprocess(ctx context.Context, config *graph.Resource) (Result, bool, error)
	// Reset drops every piece of state collected across configs.
	Reset()
}
