// Package override resolves override directives into ordered patch steps and
// applies them to their target configs in place.
//
// Overrides may target configs or other overrides. Targets are followed until
// a non-override terminal is reached, and the steps of the whole chain are
// merged so that the override closest to the terminal applies first and the
// head of the chain applies last.
package override

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/specialistvlad/gridwire/internal/ctxlog"
	"github.com/specialistvlad/gridwire/internal/graph"
	"github.com/specialistvlad/gridwire/internal/preprocess"
	"github.com/specialistvlad/gridwire/internal/vocab"
)

// Engine is the override preprocessor. The merged step lists are computed
// from the store on first use and cached until Reset.
type Engine struct {
	store    *graph.Store
	handlers []StepHandler

	mu       sync.Mutex
	resolved bool
	steps    map[string][]*graph.Resource
	err      error
}

// New creates an Engine reading override nodes from the store.
func New(store *graph.Store) *Engine {
	return &Engine{
		store: store,
		handlers: []StepHandler{
			parametersHandler{},
			listInsertBeforeHandler{store: store},
			listInsertAfterHandler{store: store},
			listInsertAtHandler{store: store},
			listRemoveHandler{store: store},
			mapEntryHandler{store: store},
		},
	}
}

// Preprocess applies the overrides targeting the config, if any. The config
// is never finished by this step.
func (e *Engine) Preprocess(ctx context.Context, config *graph.Resource) (preprocess.Result, bool, error) {
	steps, ok, err := e.CanHandle(ctx, config)
	if err != nil || !ok {
		return preprocess.Result{}, false, err
	}
	out, err := e.Transform(ctx, config, steps)
	if err != nil {
		return preprocess.Result{}, false, err
	}
	return preprocess.Result{Config: out}, true, nil
}

// CanHandle returns the merged override steps targeting the config.
func (e *Engine) CanHandle(ctx context.Context, config *graph.Resource) ([]*graph.Resource, bool, error) {
	all, err := e.resolve(ctx)
	if err != nil {
		return nil, false, err
	}
	steps, ok := all[config.Key()]
	return steps, ok, nil
}

// Transform applies the steps to the config in order and returns it.
func (e *Engine) Transform(ctx context.Context, config *graph.Resource, steps []*graph.Resource) (*graph.Resource, error) {
	logger := ctxlog.FromContext(ctx)
	for _, step := range steps {
		handler, err := e.handlerFor(config, step)
		if err != nil {
			return nil, err
		}
		logger.Debug("Applying override step.", "config", config.Key(), "step", step.String())
		if config, err = handler.Handle(config, step); err != nil {
			return nil, err
		}
	}
	return config, nil
}

// Reset drops the cached override steps. Configs already transformed keep
// their changes.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resolved = false
	e.steps = nil
	e.err = nil
}

func (e *Engine) handlerFor(config, step *graph.Resource) (StepHandler, error) {
	for _, h := range e.handlers {
		if h.CanHandle(config, step) {
			return h, nil
		}
	}
	return nil, graph.NewError(
		"Found no handler supporting an override step",
		"config", config,
		"step", step,
	)
}

func (e *Engine) resolve(ctx context.Context) (map[string][]*graph.Resource, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.resolved {
		e.steps, e.err = e.buildSteps(ctx)
		e.resolved = true
	}
	return e.steps, e.err
}

// buildSteps finds all overrides, links them into chains and merges the
// steps of every chain, keyed by the chain's terminal.
func (e *Engine) buildSteps(ctx context.Context) (map[string][]*graph.Resource, error) {
	logger := ctxlog.FromContext(ctx)

	links, err := e.findOverrideTargets(ctx)
	if err != nil {
		return nil, err
	}
	chains := e.chainOverrides(ctx, links)

	out := make(map[string][]*graph.Resource, len(chains))
	heads := make(map[string]*graph.Resource, len(chains))
	for _, key := range sortedKeys(chains) {
		chain := chains[key]
		terminal := chain[len(chain)-1]
		if types := terminal.Types(); len(types) != 1 {
			return nil, graph.NewError(
				fmt.Sprintf("Found %d types for override target %s, while exactly 1 is required", len(types), terminal.Key()),
				"override", chain[0],
				"target", terminal,
			)
		}
		if other, exists := heads[terminal.Key()]; exists {
			return nil, graph.NewError(
				fmt.Sprintf("Found multiple overrides targeting %s. Overrides targeting the same resource must be chained", terminal.Key()),
				"target", terminal,
				"overrides", []*graph.Resource{other, chain[0]},
			)
		}
		heads[terminal.Key()] = chain[0]

		var steps []*graph.Resource
		for i := len(chain) - 2; i >= 0; i-- {
			ownSteps, err := e.extractSteps(ctx, chain[i])
			if err != nil {
				return nil, err
			}
			steps = append(steps, ownSteps...)
		}
		out[terminal.Key()] = steps
		logger.Debug("Resolved override chain.", "target", terminal.Key(), "overrides", len(chain)-1, "steps", len(steps))
	}
	return out, nil
}

// findOverrideTargets links every valid override to its single target.
func (e *Engine) findOverrideTargets(ctx context.Context) ([][]*graph.Resource, error) {
	logger := ctxlog.FromContext(ctx)
	var out [][]*graph.Resource
	for _, override := range e.store.OfType(vocab.Override) {
		targets := override.Properties(vocab.OverrideInstance)
		switch {
		case len(targets) == 0:
			logger.Warn("Override has no target and is ignored.", "override", override.Key())
		case len(targets) > 1:
			return nil, graph.NewError(
				fmt.Sprintf("Detected multiple targets for override %s", override.Key()),
				"override", override,
				"targets", targets,
			)
		default:
			out = append(out, []*graph.Resource{override, targets[0]})
		}
	}
	return out, nil
}

// chainOverrides starts from the direct override->target links and splices
// chains together until no chain ends where another one starts. A chain that
// loops back onto its own head is dropped.
func (e *Engine) chainOverrides(ctx context.Context, links [][]*graph.Resource) map[string][]*graph.Resource {
	logger := ctxlog.FromContext(ctx)

	chains := make(map[string][]*graph.Resource, len(links))
	for _, link := range links {
		chains[link[0].Key()] = link
	}

	for changed := true; changed; {
		changed = false
		for _, key := range sortedKeys(chains) {
			chain, ok := chains[key]
			if !ok {
				continue
			}
			tailKey := chain[len(chain)-1].Key()
			if tailKey == key {
				logger.Warn("Override chain loops back onto itself and is ignored.", "override", key, "length", len(chain)-1)
				delete(chains, key)
				changed = true
				continue
			}
			next, ok := chains[tailKey]
			if !ok {
				continue
			}
			chains[key] = append(chain, next[1:]...)
			delete(chains, tailKey)
			changed = true
		}
	}
	return chains
}

// extractSteps returns the steps of a single override, expanding the
// parameters shorthand into a single parameters step.
func (e *Engine) extractSteps(ctx context.Context, override *graph.Resource) ([]*graph.Resource, error) {
	if shorthand := override.Properties(vocab.OverrideParameters); len(shorthand) > 0 {
		if len(shorthand) > 1 {
			return nil, graph.NewError(
				fmt.Sprintf("Detected multiple values for overrideParameters in override %s", override.Key()),
				"override", override,
			)
		}
		step := e.store.NewBlank()
		step.SetProperty(vocab.Type, e.store.Named(vocab.StepParameters))
		step.SetProperty(vocab.OverrideValue, shorthand[0])
		return []*graph.Resource{step}, nil
	}

	values := override.Properties(vocab.OverrideSteps)
	if len(values) == 0 {
		ctxlog.FromContext(ctx).Warn("Override has no steps and is ignored.", "override", override.Key())
		return nil, nil
	}
	if len(values) == 1 {
		if members, ok := values[0].List(); ok {
			return members, nil
		}
	}
	return values, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
