package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/gridwire/internal/construct"
	"github.com/specialistvlad/gridwire/internal/ctxlog"
	"github.com/specialistvlad/gridwire/internal/handlers"
	"github.com/specialistvlad/gridwire/internal/hcl_adapter"
	"github.com/specialistvlad/gridwire/internal/hclplan"
	"github.com/specialistvlad/gridwire/internal/native"
	"github.com/specialistvlad/gridwire/internal/registry"
)

// Loader reads configuration files into a document.
type Loader interface {
	Load(ctx context.Context, paths ...string) (*hcl_adapter.Document, error)
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	handlers *handlers.Handlers
	doc      *hcl_adapter.Document
	catalog  *registry.Registry
	strategy construct.Strategy
	plan     *hclplan.Strategy
	pool     *construct.Pool
}

// NewApp is the constructor for the main application. It loads the
// configuration and prepares the construction pool. A configuration that
// cannot be loaded is a fatal startup error and panics.
func NewApp(outW io.Writer, cfg *Config, loader Loader, modules ...handlers.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	if len(modules) == 0 {
		modules = coreModules
	}
	a := &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		handlers: handlers.New(ctx, modules...),
	}
	logger.Debug("All Go modules registered.", "count", len(modules), "components", a.handlers.Names())

	if err := a.load(ctx, loader); err != nil {
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}

	switch cfg.Strategy {
	case StrategyPlan:
		a.plan = hclplan.New()
		a.strategy = a.plan
	default:
		a.strategy = native.New(a.handlers)
	}
	a.pool = construct.NewPool(a.strategy, construct.DefaultPreprocessors(a.doc.Store, a.catalog, a.rangeChecker()))
	logger.Debug("Construction pool ready.", "strategy", cfg.Strategy)
	return a
}

// Document returns the loaded configuration. This is primarily for testing.
func (a *App) Document() *hcl_adapter.Document {
	return a.doc
}

// Pool returns the construction pool. This is primarily for testing.
func (a *App) Pool() *construct.Pool {
	return a.pool
}
