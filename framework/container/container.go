package container

import (
	"fmt"
	"maps"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/petermattis/goid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Extender decorates the current value of a key. The returned entry replaces
// the key's registration, so it may be a new value or a new producer.
type Extender func(old any, c *Container) Entry

// ── Container ─────────────────────────────────────────────────────────────────

// Container is a keyed registry of values, singleton producers and factory
// producers.
//
// Each key holds one entry. Resolution walks a fixed order: a cached value is
// returned as-is, a singleton producer runs once and its result is cached, a
// factory producer runs every time, and an unknown key resolves to nil
// without an error.
//
// A Container is safe for concurrent use. Producers run outside the lock and
// may resolve other keys; resolving their own entry again on the same
// goroutine fails with ErrCyclicResolution.
type Container struct {
	mu sync.RWMutex

	// key → registration
	entries map[string]*entry

	// callbacks fired after a producer built a value
	afterResolving []func(string, any)

	// collapses concurrent first resolutions of one singleton
	flights singleflight.Group

	// goroutine id → entries whose producers are running on it
	stackMu sync.Mutex
	stacks  map[int64][]frame

	log atomic.Pointer[zap.Logger]
}

type frame struct {
	key string
	e   *entry
}

// New creates an empty container.
func New(opts ...Option) *Container {
	c := &Container{
		entries: make(map[string]*entry),
		stacks:  make(map[int64][]frame),
	}
	c.log.Store(zap.NewNop())
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetLogger swaps the logger used for debug output. A nil logger disables it.
func (c *Container) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	c.log.Store(l)
}

func (c *Container) logger() *zap.Logger { return c.log.Load() }

// ── Registration ──────────────────────────────────────────────────────────────

// Register stores e under key, replacing whatever the key held before,
// whatever its kind. A singleton or factory entry without a producer is
// rejected with ErrInvalidArgument; a value entry always succeeds.
//
//	c.Register("db", container.Value(conn))
//	c.Register("mailer", container.Singleton(newMailer))
func (c *Container) Register(key string, e Entry) error {
	_, err := c.store(key, e, nil)
	return err
}

// store installs e under key. With a non-nil match it only does so while
// match(current) holds, current being nil for an unknown key, and reports
// whether it did.
func (c *Container) store(key string, e Entry, match func(current *entry) bool) (bool, error) {
	if e.Kind() != KindValue && e.producer == nil {
		return false, invalidArgument("nil producer for [%s]", key)
	}

	c.mu.Lock()
	current, replaced := c.entries[key]
	if match != nil && !match(current) {
		c.mu.Unlock()
		return false, nil
	}
	c.entries[key] = newEntry(e)
	c.mu.Unlock()

	c.logger().Debug("container: registered",
		zap.String("key", key),
		zap.Stringer("kind", e.Kind()),
		zap.Bool("replaced", replaced),
	)
	return true, nil
}

// Instance registers a pre-built value.
//
//	c.Instance("config", cfg)
func (c *Container) Instance(key string, v any) {
	_ = c.Register(key, Value(v))
}

// Singleton registers a producer whose result is cached after the first
// resolution.
func (c *Container) Singleton(key string, p Producer) error {
	return c.Register(key, Singleton(p))
}

// Factory registers a producer that runs on every resolution and is never
// cached. A nil producer is rejected with ErrInvalidArgument.
//
//	c.Factory("request.id", func(ctx *container.Context) any { return uuid.NewString() })
func (c *Container) Factory(key string, p Producer) error {
	return c.Register(key, Factory(p))
}

// Set registers v, picking the entry kind from its dynamic type: an Entry is
// registered as-is, a producer function becomes a singleton, anything else is
// a concrete value. Prefer Register when the kind is known.
func (c *Container) Set(key string, v any) error {
	switch x := v.(type) {
	case Entry:
		return c.Register(key, x)
	case Producer:
		return c.Singleton(key, x)
	case func(*Context) any:
		return c.Singleton(key, x)
	case func(*Container) any:
		if x == nil {
			return invalidArgument("nil producer for [%s]", key)
		}
		return c.Singleton(key, func(ctx *Context) any { return x(ctx.Container()) })
	default:
		c.Instance(key, v)
		return nil
	}
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Resolve returns the value for key.
//
// With extra args the call is forwarded to ResolveArray, so producers see
// the arguments positionally. A cached value always wins over args.
// An unknown key yields (nil, nil).
//
//	db, err := c.Resolve("db")
//	conn, err := c.Resolve("conn", "replica", 2)
func (c *Container) Resolve(key string, args ...any) (any, error) {
	if len(args) > 0 {
		return c.ResolveArray(key, args)
	}
	return c.resolve(&Context{container: c, key: key})
}

// ResolveArray is Resolve with the producer invoked on the positional path:
// ctx.Args() holds args and ctx.Positional() is true. A singleton resolved
// this way is cached like any other.
func (c *Container) ResolveArray(key string, args []any) (any, error) {
	if args == nil {
		args = []any{}
	}
	return c.resolve(&Context{container: c, key: key, args: args, positional: true})
}

// Make resolves key and discards the error. It panics only when the
// resolution is cyclic, since that is a wiring bug rather than data.
//
//	logger := c.Make("logger").(*zap.Logger)
func (c *Container) Make(key string) any {
	v, err := c.Resolve(key)
	if err != nil {
		panic(err)
	}
	return v
}

func (c *Container) resolve(ctx *Context) (any, error) {
	key := ctx.key

	c.mu.RLock()
	e, ok := c.entries[key]
	var (
		v        any
		cached   bool
		producer Producer
	)
	if ok {
		v, cached = e.cached()
		producer = e.producer
	}
	c.mu.RUnlock()

	switch {
	case !ok:
		return nil, nil
	case cached:
		return v, nil
	}

	gid := goid.Get()
	if path, cyclic := c.enter(gid, key, e); cyclic {
		c.logger().Debug("container: cyclic resolution rejected",
			zap.String("key", key),
			zap.Strings("path", path),
		)
		return nil, &CyclicResolutionError{Key: key, Path: path}
	}
	defer c.leave(gid)

	if e.kind == KindFactory {
		v = producer(ctx)
		c.fireAfterResolving(key, v)
		return v, nil
	}
	return c.materialize(key, e, ctx)
}

// materialize runs a singleton producer at most once, even when several
// goroutines resolve the key for the first time together.
func (c *Container) materialize(key string, e *entry, ctx *Context) (any, error) {
	v, err, _ := c.flights.Do(fmt.Sprintf("%s\x00%p", key, e), func() (any, error) {
		c.mu.RLock()
		v, cached := e.cached()
		producer := e.producer
		c.mu.RUnlock()
		if cached {
			return v, nil
		}

		v = producer(ctx)

		c.mu.Lock()
		current := c.entries[key] == e
		if current {
			e.value = v
			e.resolved = true
			e.producer = nil
		}
		c.mu.Unlock()

		c.logger().Debug("container: singleton resolved",
			zap.String("key", key),
			zap.Bool("cached", current),
			zap.Bool("positional", ctx.positional),
		)
		c.fireAfterResolving(key, v)
		return v, nil
	})
	return v, err
}

// enter records that e's producer is about to run on goroutine gid. If it is
// already running there, it returns the resolution path instead.
func (c *Container) enter(gid int64, key string, e *entry) ([]string, bool) {
	c.stackMu.Lock()
	defer c.stackMu.Unlock()

	stack := c.stacks[gid]
	for i, f := range stack {
		if f.e == e {
			path := make([]string, 0, len(stack)-i+1)
			for _, g := range stack[i:] {
				path = append(path, g.key)
			}
			return append(path, key), true
		}
	}
	c.stacks[gid] = append(stack, frame{key: key, e: e})
	return nil, false
}

func (c *Container) leave(gid int64) {
	c.stackMu.Lock()
	defer c.stackMu.Unlock()

	stack := c.stacks[gid]
	if len(stack) <= 1 {
		delete(c.stacks, gid)
		return
	}
	c.stacks[gid] = stack[:len(stack)-1]
}

// ── Extend ────────────────────────────────────────────────────────────────────

// Extend resolves key, passes the value to fn and registers the entry fn
// returns in its place. fn runs even when key is unknown, with a nil value.
//
// If the key is re-registered, removed or extended by someone else between
// the resolve and the write, the whole step is retried against the new entry,
// so fn may run more than once and must not have side effects.
//
//	c.Extend("logger", func(old any, c *container.Container) container.Entry {
//	    return container.Value(old.(*zap.Logger).Named("app"))
//	})
func (c *Container) Extend(key string, fn Extender) error {
	if fn == nil {
		return invalidArgument("nil extender for [%s]", key)
	}
	for {
		c.mu.RLock()
		base := c.entries[key]
		c.mu.RUnlock()

		old, err := c.Resolve(key)
		if err != nil {
			return err
		}
		stored, err := c.store(key, fn(old, c), func(current *entry) bool {
			return current == base
		})
		if err != nil || stored {
			return err
		}
		c.logger().Debug("container: extend raced, retrying", zap.String("key", key))
	}
}

// ── Inspection ────────────────────────────────────────────────────────────────

// Has reports whether key is registered. It says nothing about what the key
// resolves to.
func (c *Container) Has(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[key]
	return ok
}

// KindOf returns the kind key was registered with.
func (c *Container) KindOf(key string) (Kind, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok {
		return 0, false
	}
	return e.kind, true
}

// Resolved reports whether key currently resolves without running a producer.
func (c *Container) Resolved(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok {
		return false
	}
	_, cached := e.cached()
	return cached
}

// Count returns the number of registered keys.
func (c *Container) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Keys returns the registered keys in sorted order.
func (c *Container) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Sorted(maps.Keys(c.entries))
}

// ── Removal ───────────────────────────────────────────────────────────────────

// Remove forgets key entirely. Removing an unknown key is a no-op.
func (c *Container) Remove(key string) {
	c.mu.Lock()
	_, ok := c.entries[key]
	delete(c.entries, key)
	c.mu.Unlock()

	if ok {
		c.logger().Debug("container: removed", zap.String("key", key))
	}
}

// Flush removes every entry. Callbacks stay registered.
func (c *Container) Flush() {
	c.mu.Lock()
	c.entries = make(map[string]*entry)
	c.mu.Unlock()
}

// ── Callbacks ─────────────────────────────────────────────────────────────────

// AfterResolving registers cb to run each time a producer builds a value.
// Cached values do not trigger it.
//
//	c.AfterResolving(func(key string, v any) { metrics.Inc(key) })
func (c *Container) AfterResolving(cb func(key string, v any)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.afterResolving = append(c.afterResolving, cb)
}

func (c *Container) fireAfterResolving(key string, v any) {
	c.mu.RLock()
	cbs := c.afterResolving
	c.mu.RUnlock()
	for _, cb := range cbs {
		cb(key, v)
	}
}
