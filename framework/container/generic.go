package container

import (
	"fmt"

	"github.com/pkg/errors"
)

// ── Generics helpers ──────────────────────────────────────────────────────────

// Get resolves key and type-asserts the result.
//
// Unlike Resolve it treats absence as an error: an unregistered key yields
// ErrNotFound and a value of another type a *TypeMismatchError. A key that is
// registered but resolves to nil returns the zero T and no error.
//
//	db, err := container.Get[*sql.DB](c, "db")
func Get[T any](c *Container, key string, args ...any) (T, error) {
	var zero T

	v, err := c.Resolve(key, args...)
	if err != nil {
		return zero, errors.Wrapf(err, "resolve [%s]", key)
	}
	if v == nil {
		if !c.Has(key) {
			return zero, errors.Wrapf(ErrNotFound, "resolve [%s]", key)
		}
		return zero, nil
	}

	typed, ok := v.(T)
	if !ok {
		return zero, &TypeMismatchError{
			Key:  key,
			Want: fmt.Sprintf("%T", &zero)[1:],
			Got:  fmt.Sprintf("%T", v),
		}
	}
	return typed, nil
}

// MustGet is Get for bootstrap code, where a missing or mistyped service is
// fatal. It panics with the error Get would have returned.
//
//	cfg := container.MustGet[*config.Config](c, "config")
func MustGet[T any](c *Container, key string, args ...any) T {
	v, err := Get[T](c, key, args...)
	if err != nil {
		panic(err)
	}
	return v
}
