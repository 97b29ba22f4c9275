package app

import (
	"context"
	"fmt"
	"io"

	"github.com/specialistvlad/gridwire/internal/construct"
	"github.com/specialistvlad/gridwire/internal/ctxlog"
	"github.com/specialistvlad/gridwire/internal/graph"
	"golang.org/x/sync/errgroup"
)

// Run builds the requested instances and writes the result: a summary line
// per instance for the native strategy, the plan for the plan strategy.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	targets, err := a.targets()
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		a.logger.Warn("No configs found, construction not required.")
		return nil
	}
	settings := construct.Settings{Variables: a.variables()}

	a.logger.Info("Starting construction.", "instances", len(targets), "strategy", a.config.Strategy)
	instances := make([]construct.Instance, len(targets))
	var g errgroup.Group
	for i, target := range targets {
		g.Go(func() error {
			instance, err := a.pool.Instantiate(ctx, target, settings)
			if err != nil {
				return fmt.Errorf("failed to build %s: %w", target.Key(), err)
			}
			instances[i] = instance
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	a.logger.Info("Construction finished.", "cached", a.pool.Cached())

	if a.plan != nil {
		_, err := a.outW.Write(a.plan.Bytes())
		return err
	}
	for i, target := range targets {
		if err := writeSummary(a.outW, a.doc.Prefixes.Compact(target.Value()), instances[i]); err != nil {
			return err
		}
	}
	return nil
}

// targets resolves the requested instances, or every declared config.
func (a *App) targets() ([]*graph.Resource, error) {
	if len(a.config.Instances) == 0 {
		return a.doc.Configs, nil
	}
	out := make([]*graph.Resource, 0, len(a.config.Instances))
	for _, raw := range a.config.Instances {
		r, err := a.doc.Resolve(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid instance %q: %w", raw, err)
		}
		out = append(out, r)
	}
	return out, nil
}

// variables expands the variable names with the configuration prefixes.
func (a *App) variables() map[string]any {
	out := make(map[string]any, len(a.config.Variables))
	for name, value := range a.config.Variables {
		out[a.doc.Prefixes.Expand(name)] = value
	}
	return out
}

func writeSummary(w io.Writer, name string, instance construct.Instance) error {
	var err error
	switch v := instance.(type) {
	case fmt.Stringer:
		_, err = fmt.Fprintf(w, "%s:\n%s\n", name, v)
	default:
		_, err = fmt.Fprintf(w, "%s: %v\n", name, v)
	}
	return err
}
