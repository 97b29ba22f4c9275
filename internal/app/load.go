package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/gridwire/internal/ctxlog"
	"github.com/specialistvlad/gridwire/internal/params"
	"github.com/specialistvlad/gridwire/internal/rangecheck"
	"github.com/specialistvlad/gridwire/internal/registry"
)

// load reads the configuration and builds the component catalog.
func (a *App) load(ctx context.Context, loader Loader) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading configuration...", "paths", a.config.ConfigPaths)

	doc, err := loader.Load(ctx, a.config.ConfigPaths...)
	if err != nil {
		return err
	}
	a.doc = doc
	logger.Debug("Configuration loaded into resource graph.", "nodes", doc.Store.Len(), "files", len(doc.Files))

	a.catalog = registry.New()
	if err := a.catalog.PopulateFromStore(ctx, doc.Store); err != nil {
		return fmt.Errorf("failed to register components: %w", err)
	}
	if err := a.catalog.Finalize(ctx); err != nil {
		return fmt.Errorf("failed to resolve component inheritance: %w", err)
	}
	logger.Info("Components loaded successfully.", "components", len(a.catalog.Components()), "configs", len(doc.Configs))
	return nil
}

func (a *App) rangeChecker() params.RangeValidator {
	return rangecheck.New(a.catalog)
}
