package providers

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/km-arc/go-container/framework/config"
	"github.com/km-arc/go-container/framework/container"
	gohttp "github.com/km-arc/go-container/framework/http"
	"github.com/km-arc/go-container/framework/routing"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider loads the application configuration from .env and
// binds it into the container.
//
// Bound keys:
//   - "config"  → *config.Config (singleton)
type ConfigServiceProvider struct {
	container.BaseProvider
	EnvFiles []string
}

func (p *ConfigServiceProvider) Register(app *container.Container) {
	envFiles := p.EnvFiles
	_ = app.Singleton("config", func(_ *container.Context) any {
		return config.Load(envFiles...)
	})
}

// ── LoggingServiceProvider ────────────────────────────────────────────────────

// LoggingServiceProvider builds the application logger from "config" and
// points the container's own debug output at it once booted.
//
// Bound keys:
//   - "logger"  → *zap.Logger (singleton)
type LoggingServiceProvider struct {
	container.BaseProvider
}

func (p *LoggingServiceProvider) Register(app *container.Container) {
	_ = app.Singleton("logger", func(ctx *container.Context) any {
		cfg := container.MustGet[*config.Config](ctx.Container(), "config")
		logger, err := NewLogger(cfg.Log)
		if err != nil {
			panic(err)
		}
		return logger
	})
}

func (p *LoggingServiceProvider) Boot(app *container.Container) {
	logger := container.MustGet[*zap.Logger](app, "logger")
	app.SetLogger(logger.Named("container"))
}

// NewLogger builds a zap logger: development encoding for "console",
// production encoding for "json".
func NewLogger(cfg config.LogConfig) (*zap.Logger, error) {
	zc := zap.NewDevelopmentConfig()
	if cfg.Format == "json" {
		zc = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, errors.Wrapf(err, "parse LOG_LEVEL %q", cfg.Level)
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	logger, err := zc.Build()
	if err != nil {
		return nil, errors.Wrap(err, "build logger")
	}
	return logger, nil
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider registers the HTTP router and, when
// DEBUG_ROUTES is on, mounts the container endpoints under /_container.
//
// Bound keys:
//   - "router"  → *routing.Router (singleton)
type RoutingServiceProvider struct {
	container.BaseProvider
}

func (p *RoutingServiceProvider) Register(app *container.Container) {
	_ = app.Singleton("router", func(ctx *container.Context) any {
		return routing.New(container.MustGet[*zap.Logger](ctx.Container(), "logger"))
	})
}

func (p *RoutingServiceProvider) Boot(app *container.Container) {
	cfg := container.MustGet[*config.Config](app, "config")
	if !cfg.App.DebugRoutes {
		return
	}
	router := container.MustGet[*routing.Router](app, "router")
	logger := container.MustGet[*zap.Logger](app, "logger")
	router.Prefix("/_container", gohttp.NewContainerHandler(app, logger).Routes)
}

// ── IdentityServiceProvider ───────────────────────────────────────────────────

// IdentityServiceProvider is deferred: nothing is registered until the first
// resolution of "request.id".
//
// Bound keys:
//   - "request.id"  → string (factory, fresh UUID per resolution)
//
// Resolved with a string argument the id is prefixed:
//
//	app.Resolve("request.id", "req") // "req-2f1c…"
type IdentityServiceProvider struct {
	container.BaseProvider
}

func (p *IdentityServiceProvider) Register(app *container.Container) {
	_ = app.Factory("request.id", func(ctx *container.Context) any {
		id := uuid.NewString()
		if prefix, ok := ctx.String(0); ok && prefix != "" {
			return prefix + "-" + id
		}
		return id
	})
}

func (p *IdentityServiceProvider) IsDeferred() bool   { return true }
func (p *IdentityServiceProvider) Provides() []string { return []string{"request.id"} }
