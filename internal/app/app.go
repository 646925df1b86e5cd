package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/objgraph/internal/ctxlog"
	"github.com/vk/objgraph/internal/reflectschema"
	"github.com/vk/objgraph/internal/schema"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *reflectschema.Registry
	schema   *schema.Context
	config   *Config
}

// NewApp is the constructor for the main application. Results are written to
// outW and logs to logW. Without modules the compiled-in ones are registered.
func NewApp(outW, logW io.Writer, cfg *Config, modules ...reflectschema.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	sc := schema.NewContext()
	reg := reflectschema.New(sc)
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All type modules registered.", "count", len(modules), "types", len(sc.Types()))

	if err := reg.Validate(ctx); err != nil {
		// A module that describes its types inconsistently is a programmer error.
		panic(fmt.Errorf("type registry is invalid: %w", err))
	}
	logger.Debug("Registry validation passed.")

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		schema:   sc,
		config:   cfg,
	}
}

// Schema returns the application's schema context. This is primarily for testing.
func (a *App) Schema() *schema.Context {
	return a.schema
}
