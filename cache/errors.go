package cache

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidStorage is returned when a referenced service does not
	// implement Storage.
	ErrInvalidStorage = errors.New("invalid cache storage")

	// ErrDecode is returned when a stored payload cannot be decoded.
	ErrDecode = errors.New("cache payload cannot be decoded")

	// ErrInvalidResultType is returned by GetOrFetch when the cached value
	// does not have the requested type.
	ErrInvalidResultType = errors.New("cached value has unexpected type")
)

// TypeMismatchError reports a cached value whose type differs from the one
// requested through GetOrFetch.
type TypeMismatchError struct {
	Key string
	Got any
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("cached value for key %q has type %T", e.Key, e.Got)
}

func (e *TypeMismatchError) Unwrap() error {
	return ErrInvalidResultType
}
