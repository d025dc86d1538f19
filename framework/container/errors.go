package container

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidArgument is returned when a producer or extender is nil.
	ErrInvalidArgument = errors.New("container: invalid argument")

	// ErrCyclicResolution is matched by every *CyclicResolutionError.
	ErrCyclicResolution = errors.New("container: cyclic resolution")

	// ErrNotFound is returned by Get when the key was never registered.
	// Resolve itself never reports a missing key.
	ErrNotFound = errors.New("container: no entry registered")
)

// CyclicResolutionError is returned when a producer, directly or through
// other producers on the same goroutine, resolves its own entry again.
type CyclicResolutionError struct {
	Key  string
	Path []string
}

func (e *CyclicResolutionError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("container: cyclic resolution of [%s]", e.Key)
	}
	return fmt.Sprintf("container: cyclic resolution of [%s]: %s", e.Key, strings.Join(e.Path, " -> "))
}

// Is makes errors.Is(err, ErrCyclicResolution) hold.
func (e *CyclicResolutionError) Is(target error) bool {
	return target == ErrCyclicResolution
}

// TypeMismatchError is returned by Get when the resolved value is not a T.
type TypeMismatchError struct {
	Key  string
	Want string
	Got  string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("container: [%s] resolved to %s, want %s", e.Key, e.Got, e.Want)
}

func invalidArgument(format string, args ...any) error {
	return errors.Wrapf(ErrInvalidArgument, format, args...)
}
