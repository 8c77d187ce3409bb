package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/pbxgraph/internal/config"
	"github.com/specialistvlad/pbxgraph/internal/ctxlog"
	"github.com/specialistvlad/pbxgraph/internal/pbx"
	"github.com/specialistvlad/pbxgraph/internal/projectcache"
	"github.com/specialistvlad/pbxgraph/internal/xcodeproj"
)

// App encapsulates the application's dependencies and configuration.
type App struct {
	logger *slog.Logger
	config *config.Model
	cache  *projectcache.Cache
}

// New builds an App with its own logger writing to logW.
func New(logW io.Writer, cfg *config.Model) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := newLogger(cfg.Log, logW)
	logger.Debug("Logger configured successfully.", "level", cfg.Log.Level, "format", cfg.Log.Format)

	cache, err := projectcache.New(cfg.CacheSize, nil)
	if err != nil {
		return nil, err
	}

	return &App{
		logger: logger,
		config: cfg.Clone(),
		cache:  cache,
	}, nil
}

// Config returns a copy of the application's configuration.
func (a *App) Config() *config.Model { return a.config.Clone() }

// Logger returns the application's logger.
func (a *App) Logger() *slog.Logger { return a.logger }

// Context attaches the application's logger to ctx.
func (a *App) Context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

// Open loads the project at path through the cache.
func (a *App) Open(ctx context.Context, path string) (*xcodeproj.Project, error) {
	p, err := a.cache.Get(a.Context(ctx), path)
	if err != nil {
		return nil, err
	}
	for _, d := range p.Diagnostics() {
		a.logger.Debug("Load diagnostic.", "code", d.Code, "id", d.ID, "isa", d.Isa)
	}
	return p, nil
}

// CacheStats reports the project cache counters.
func (a *App) CacheStats() projectcache.Stats { return a.cache.Stats() }

// roots returns the configured root directories, with SOURCE_ROOT defaulting
// to the project's source root.
func (a *App) roots(p *xcodeproj.Project) map[pbx.SourceTreeFolder]string {
	roots := a.Config().Roots
	if roots == nil {
		roots = make(map[pbx.SourceTreeFolder]string)
	}
	if _, ok := roots[pbx.SourceRoot]; !ok {
		roots[pbx.SourceRoot] = p.SourceRoot()
	}
	return roots
}

func targetName(t pbx.Target) string {
	if n, err := t.Name(); err == nil {
		return n
	}
	return fmt.Sprintf("<%s>", t.ID())
}
