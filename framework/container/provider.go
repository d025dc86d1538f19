package container

import (
	"maps"
	"slices"
	"sync"
)

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider groups related registrations.
//
// Register only binds entries. Boot runs after every eager provider has been
// registered, so it is the place to resolve other services.
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(app *container.Container) {
//	    app.Singleton("mailer", func(ctx *container.Context) any {
//	        cfg := container.MustGet[*config.Config](ctx.Container(), "config")
//	        return mail.NewSMTP(cfg.Mail)
//	    })
//	}
type ServiceProvider interface {
	// Register binds services into the container.
	Register(app *Container)

	// Boot is called after all eager providers are registered.
	Boot(app *Container)

	// Provides lists the keys a deferred provider registers.
	Provides() []string

	// IsDeferred reports whether Register waits until one of Provides()
	// is first resolved.
	IsDeferred() bool
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider gives no-op Boot, Provides and IsDeferred.
// Embed it and implement Register.
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Container)  {}
func (p *BaseProvider) Provides() []string { return nil }
func (p *BaseProvider) IsDeferred() bool   { return false }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry registers and boots providers, loading deferred ones on
// first use of a key they provide.
type ProviderRegistry struct {
	app *Container

	mu         sync.Mutex
	eager      []ServiceProvider
	deferred   map[string]ServiceProvider // key → provider
	loaders    map[ServiceProvider]*sync.Once
	registered map[ServiceProvider]bool
	booted     bool
}

// NewProviderRegistry creates a registry bound to app.
func NewProviderRegistry(app *Container) *ProviderRegistry {
	return &ProviderRegistry{
		app:        app,
		deferred:   make(map[string]ServiceProvider),
		loaders:    make(map[ServiceProvider]*sync.Once),
		registered: make(map[ServiceProvider]bool),
	}
}

// Register adds a provider. Eager providers register immediately and, if the
// registry has already booted, boot immediately too. Registering the same
// provider twice is a no-op.
func (r *ProviderRegistry) Register(provider ServiceProvider) {
	r.mu.Lock()
	if r.registered[provider] {
		r.mu.Unlock()
		return
	}
	r.registered[provider] = true

	if provider.IsDeferred() {
		r.loaders[provider] = new(sync.Once)
		for _, key := range provider.Provides() {
			r.deferred[key] = provider
		}
		r.mu.Unlock()
		r.interceptDeferred(provider)
		return
	}

	r.eager = append(r.eager, provider)
	booted := r.booted
	r.mu.Unlock()

	provider.Register(r.app)
	if booted {
		provider.Boot(r.app)
	}
}

// interceptDeferred binds a placeholder factory for each provided key. The
// first resolution loads the provider, whose Register replaces the
// placeholder, and then resolves the real entry with the caller's arguments.
// Goroutines racing on the placeholder each resolve the real entry themselves,
// so a deferred factory still runs once per resolution.
func (r *ProviderRegistry) interceptDeferred(provider ServiceProvider) {
	for _, key := range provider.Provides() {
		_ = r.app.Factory(key, func(ctx *Context) any {
			r.load(provider)
			if ctx.Positional() {
				v, err := ctx.Container().ResolveArray(ctx.Key(), ctx.Args())
				if err != nil {
					panic(err)
				}
				return v
			}
			return ctx.Make(ctx.Key())
		})
	}
}

func (r *ProviderRegistry) load(provider ServiceProvider) {
	r.mu.Lock()
	once := r.loaders[provider]
	r.mu.Unlock()

	once.Do(func() {
		provider.Register(r.app)

		r.mu.Lock()
		for _, key := range provider.Provides() {
			delete(r.deferred, key)
		}
		booted := r.booted
		r.mu.Unlock()

		if booted {
			provider.Boot(r.app)
		}
	})
}

// Boot calls Boot on every eager provider. Later calls are no-ops.
func (r *ProviderRegistry) Boot() {
	r.mu.Lock()
	if r.booted {
		r.mu.Unlock()
		return
	}
	r.booted = true
	eager := slices.Clone(r.eager)
	r.mu.Unlock()

	for _, provider := range eager {
		provider.Boot(r.app)
	}
}

// Booted reports whether Boot has been called.
func (r *ProviderRegistry) Booted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.booted
}

// Providers returns the eager providers in registration order.
func (r *ProviderRegistry) Providers() []ServiceProvider {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.eager)
}

// Pending returns, sorted, the keys whose deferred provider has not loaded yet.
func (r *ProviderRegistry) Pending() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Sorted(maps.Keys(r.deferred))
}
