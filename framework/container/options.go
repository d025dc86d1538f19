package container

import "go.uber.org/zap"

// Option configures a Container at construction.
type Option func(*Container)

// WithLogger routes the container's debug logs to l.
//
//	c := container.New(container.WithLogger(logger.Named("container")))
func WithLogger(l *zap.Logger) Option {
	return func(c *Container) {
		c.SetLogger(l)
	}
}
