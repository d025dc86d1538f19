package app

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/km-arc/go-container/framework/config"
	"github.com/km-arc/go-container/framework/container"
	"github.com/km-arc/go-container/framework/providers"
	"github.com/km-arc/go-container/framework/routing"
)

// Application is the top-level application container.
// It embeds the Container and ProviderRegistry so user code can call
// app.Singleton(), app.Factory(), app.Register() directly.
type Application struct {
	*container.Container
	Providers *container.ProviderRegistry
}

// New creates the application and registers the framework providers.
func New(envFiles ...string) *Application {
	c := container.New()
	registry := container.NewProviderRegistry(c)

	app := &Application{
		Container: c,
		Providers: registry,
	}

	registry.Register(&providers.ConfigServiceProvider{EnvFiles: envFiles})
	registry.Register(&providers.LoggingServiceProvider{})
	registry.Register(&providers.RoutingServiceProvider{})
	registry.Register(&providers.IdentityServiceProvider{})

	return app
}

// RegisterProvider adds a ServiceProvider to the application.
func (a *Application) RegisterProvider(provider container.ServiceProvider) {
	a.Providers.Register(provider)
}

// Boot runs the Boot() phase on all providers.
func (a *Application) Boot() {
	a.Providers.Boot()
}

// Config resolves *config.Config from the container.
func (a *Application) Config() *config.Config {
	return container.MustGet[*config.Config](a.Container, "config")
}

// Logger resolves *zap.Logger from the container.
func (a *Application) Logger() *zap.Logger {
	return container.MustGet[*zap.Logger](a.Container, "logger")
}

// Router resolves *routing.Router from the container.
func (a *Application) Router() *routing.Router {
	return container.MustGet[*routing.Router](a.Container, "router")
}

// Handler boots the application if needed and returns its HTTP handler.
func (a *Application) Handler() http.Handler {
	if !a.Providers.Booted() {
		a.Boot()
	}
	return a.Router()
}

// Run boots the application (if needed) and starts the HTTP server.
func (a *Application) Run() {
	handler := a.Handler()
	cfg := a.Config()
	logger := a.Logger()
	defer func() { _ = logger.Sync() }()

	addr := ":" + cfg.App.Port
	logger.Info("application listening",
		zap.String("name", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("addr", addr),
		zap.Int("bindings", a.Count()),
	)
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

// Environment returns APP_ENV value.
func (a *Application) Environment() string { return a.Config().App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
func (a *Application) IsTesting() bool     { return a.Environment() == "testing" }
func (a *Application) IsDebug() bool       { return a.Config().App.Debug }
