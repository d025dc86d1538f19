package container

// Context is what a Producer receives. It replaces the two calling shapes a
// producer could see (the container alone, or a positional argument list)
// with one value that always says which shape applies.
//
//	c.Factory("greeting", func(ctx *container.Context) any {
//	    if name, ok := ctx.String(0); ok {
//	        return "hello " + name
//	    }
//	    return "hello"
//	})
//
//	c.Resolve("greeting")          // "hello"
//	c.Resolve("greeting", "gopher") // "hello gopher"
type Context struct {
	container  *Container
	key        string
	args       []any
	positional bool
}

// Container returns the container performing the resolution.
func (ctx *Context) Container() *Container { return ctx.container }

// Key returns the key being resolved.
func (ctx *Context) Key() string { return ctx.key }

// Positional is true when the producer was reached through ResolveArray or
// Resolve with extra arguments, even if the argument list is empty.
func (ctx *Context) Positional() bool { return ctx.positional }

// Args returns the positional arguments, nil on the container path.
func (ctx *Context) Args() []any { return ctx.args }

// Len returns the number of positional arguments.
func (ctx *Context) Len() int { return len(ctx.args) }

// Arg returns the i-th positional argument, or nil when out of range.
func (ctx *Context) Arg(i int) any {
	if i < 0 || i >= len(ctx.args) {
		return nil
	}
	return ctx.args[i]
}

// String returns the i-th argument if it is a string.
func (ctx *Context) String(i int) (string, bool) {
	s, ok := ctx.Arg(i).(string)
	return s, ok
}

// Int returns the i-th argument if it is an int.
func (ctx *Context) Int(i int) (int, bool) {
	n, ok := ctx.Arg(i).(int)
	return n, ok
}

// Make resolves another key through the same container. See Container.Make.
func (ctx *Context) Make(key string) any {
	return ctx.container.Make(key)
}
