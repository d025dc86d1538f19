package container

// ── Entry kinds ───────────────────────────────────────────────────────────────

// Kind tells the container how an entry turns into a value.
type Kind int

const (
	// KindValue is a concrete, already-built value.
	KindValue Kind = iota + 1
	// KindSingleton is a producer invoked once; its result is cached.
	KindSingleton
	// KindFactory is a producer invoked on every resolution.
	KindFactory
)

func (k Kind) String() string {
	switch k {
	case KindValue:
		return "value"
	case KindSingleton:
		return "singleton"
	case KindFactory:
		return "factory"
	default:
		return "unknown"
	}
}

// Producer builds the value for a key. ctx carries the container and, on the
// positional path, the caller's arguments.
type Producer func(ctx *Context) any

// Entry is a registration: exactly one of a value, a singleton producer or a
// factory producer. Build one with Value, Singleton or Factory.
//
// The zero Entry registers a nil value.
type Entry struct {
	kind     Kind
	value    any
	producer Producer
}

// Value wraps a concrete value.
//
//	c.Register("db", container.Value(conn))
func Value(v any) Entry { return Entry{kind: KindValue, value: v} }

// Singleton wraps a producer that runs at most once per registration.
//
//	c.Register("logger", container.Singleton(func(ctx *container.Context) any {
//	    return zap.NewExample()
//	}))
func Singleton(p Producer) Entry { return Entry{kind: KindSingleton, producer: p} }

// Factory wraps a producer that runs on every resolution.
func Factory(p Producer) Entry { return Entry{kind: KindFactory, producer: p} }

// Kind reports which variant e holds.
func (e Entry) Kind() Kind {
	if e.kind == 0 {
		return KindValue
	}
	return e.kind
}

// entry is the stored, mutable form of an Entry. A singleton keeps its kind
// after materialising; resolved flips and value holds the cached result.
type entry struct {
	kind     Kind
	value    any
	producer Producer
	resolved bool
}

func newEntry(e Entry) *entry {
	return &entry{kind: e.Kind(), value: e.value, producer: e.producer}
}

// cached reports the value an entry resolves to without running a producer.
func (e *entry) cached() (any, bool) {
	if e.kind == KindValue || e.resolved {
		return e.value, true
	}
	return nil, false
}
