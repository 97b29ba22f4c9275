package construct

import (
	"context"
	"fmt"
	"sync"

	"github.com/specialistvlad/gridwire/internal/ctxlog"
	"github.com/specialistvlad/gridwire/internal/graph"
	"github.com/specialistvlad/gridwire/internal/preprocess"
	"github.com/specialistvlad/gridwire/internal/vocab"
)

// Pool is the construction orchestrator. It owns the instance cache and the
// preprocessing pipeline, and delegates argument resolution to its
// Constructor.
type Pool struct {
	strategy      Strategy
	preprocessors []preprocess.Preprocessor
	constructor   *Constructor
	instances     *instanceCache

	// preprocessMu serializes preprocessing, which mutates the graph.
	preprocessMu sync.Mutex
}

// NewPool creates a Pool. Preprocessors are offered each config in order.
func NewPool(strategy Strategy, preprocessors []preprocess.Preprocessor) *Pool {
	p := &Pool{
		strategy:      strategy,
		preprocessors: preprocessors,
		instances:     newInstanceCache(),
	}
	p.constructor = newConstructor(p, strategy)
	return p
}

// Constructor returns the argument resolver used by the pool.
func (p *Pool) Constructor() *Constructor {
	return p.constructor
}

// Instantiate returns the instance of a config, building it on first
// request. A config requested again within its own dependency chain resolves
// to the strategy's undefined value.
func (p *Pool) Instantiate(ctx context.Context, config *graph.Resource, settings Settings) (Instance, error) {
	logger := ctxlog.FromContext(ctx)
	key := config.Key()

	if settings.Blacklisted(key) {
		logger.Debug("Cyclic reference resolved to undefined.", "config", key)
		return p.strategy.CreateUndefined(ctx), nil
	}

	if config.IsA(vocab.Variable) {
		return p.strategy.GetVariableValue(ctx, VariableOptions{VariableName: config.Value(), Settings: settings})
	}

	instance, cyclic, err := p.instances.do(ctx, settings.owner, key, func() (Instance, error) {
		sub := settings.withBlacklisted(key)
		raw, err := p.GetRawConfig(ctx, config)
		if err != nil {
			return nil, err
		}
		logger.Debug("Creating instance.", "config", key)
		return p.constructor.CreateInstance(ctx, raw, sub)
	})
	if cyclic {
		logger.Debug("Cyclic reference across concurrent branches resolved to undefined.", "config", key, "requestedBy", settings.owner)
		return p.strategy.CreateUndefined(ctx), nil
	}
	return instance, err
}

// GetRawConfig runs the config through the preprocessing pipeline and
// validates the canonical result. Configs no preprocessor claims are
// validated as-is.
func (p *Pool) GetRawConfig(ctx context.Context, config *graph.Resource) (*graph.Resource, error) {
	p.preprocessMu.Lock()
	defer p.preprocessMu.Unlock()

	for _, pre := range p.preprocessors {
		res, handled, err := pre.Preprocess(ctx, config)
		if err != nil {
			return nil, err
		}
		if !handled {
			continue
		}
		if res.Finished {
			return validated(res.Config, config)
		}
		config = res.Config
	}
	return validated(config, config)
}

// Reset clears the instance cache and the state of every preprocessor.
// Configs are not restored: overrides already applied in place stay applied,
// and instantiating again runs their steps a second time.
func (p *Pool) Reset() {
	p.instances.reset()
	for _, pre := range p.preprocessors {
		pre.Reset()
	}
}

// Cached returns the number of cached instantiation results.
func (p *Pool) Cached() int {
	return p.instances.size()
}

func validated(raw, original *graph.Resource) (*graph.Resource, error) {
	if err := validateRawConfig(raw, original); err != nil {
		return nil, err
	}
	return raw, nil
}

// validateRawConfig checks the canonical shape: a literal module and
// optionally a literal member and no-constructor flag.
func validateRawConfig(raw, original *graph.Resource) error {
	modules := raw.Properties(vocab.Module)
	if len(modules) != 1 {
		return graph.NewError(
			fmt.Sprintf("Invalid config: %s has %d module names, while exactly 1 is required", original.Key(), len(modules)),
			"config", original,
		)
	}
	if !modules[0].IsLiteral() {
		return graph.NewError(
			fmt.Sprintf("Invalid module name: %s must be a literal", modules[0].Key()),
			"config", original,
		)
	}
	for _, predicate := range []string{vocab.Member, vocab.NoConstructor} {
		values := raw.Properties(predicate)
		if len(values) > 1 || (len(values) == 1 && !values[0].IsLiteral()) {
			return graph.NewError(
				fmt.Sprintf("Invalid %s in config %s: must be a single literal", predicate, original.Key()),
				"config", original,
				"values", values,
			)
		}
	}
	return nil
}
