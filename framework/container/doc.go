// Package container provides a small runtime dependency container and a
// Service Provider system built on it.
//
// # Overview
//
// A Container maps string keys to entries. An entry is one of:
//
//   - a value, returned as-is;
//   - a singleton producer, run on first resolution and cached;
//   - a factory producer, run on every resolution and never cached.
//
// Resolving walks that order: cached value, singleton producer, factory
// producer. An unknown key resolves to nil without an error. There is no
// autowiring and no graph analysis; producers are ordinary functions that
// resolve what they need themselves.
//
// # Registering
//
//	c := container.New()
//
//	// Value
//	c.Instance("db", conn)
//
//	// Singleton — created once, reused
//	c.Singleton("logger", func(ctx *container.Context) any {
//	    return zap.NewExample()
//	})
//
//	// Factory — fresh value every time
//	c.Factory("request.id", func(ctx *container.Context) any {
//	    return uuid.NewString()
//	})
//
//	// Explicit form
//	c.Register("cache", container.Singleton(newCache))
//
// Registering a key again replaces its entry, whatever the previous kind.
//
// # Resolving
//
//	v, err := c.Resolve("db")           // container path
//	v, err := c.Resolve("conn", "ro")   // positional path, ctx.Args() == ["ro"]
//	v, err := c.ResolveArray("conn", []any{"ro"})
//
//	db := container.MustGet[*sql.DB](c, "db")
//
// A producer always receives a *Context. On the container path ctx.Args() is
// nil; on the positional path ctx.Positional() is true and ctx.Args() holds
// the caller's arguments.
//
// # Extend
//
//	c.Extend("logger", func(old any, c *container.Container) container.Entry {
//	    return container.Value(old.(*zap.Logger).Named("app"))
//	})
//
// # Concurrency
//
// All methods are safe for concurrent use. A singleton producer runs at most
// once even under concurrent first resolution. A producer that resolves its
// own entry again on the same goroutine gets ErrCyclicResolution.
//
// # Service Providers
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(app *container.Container) {
//	    app.Singleton("mailer", newMailer)
//	}
//
//	registry := container.NewProviderRegistry(c)
//	registry.Register(&AppServiceProvider{})
//	registry.Boot()
//
// Deferred providers return true from IsDeferred and list their keys in
// Provides; their Register runs on the first resolution of one of those keys.
package container
