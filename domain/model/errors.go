package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks a lookup that matched no record. The core reports absence as a nil
	// value; this sentinel is for outer layers that need an error.
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidFilter is returned for a Filter without exactly one active dimension.
	ErrInvalidFilter = errors.New("invalid filter")
	// ErrUnsupportedFilter is returned by a Transport for a filter its collection cannot serve.
	ErrUnsupportedFilter = errors.New("unsupported filter")
	// ErrDetached is returned by lazy accessors of an entity built without a Loader.
	ErrDetached = errors.New("entity has no loader")
	// ErrMissingField is wrapped by a MappingError for a required field that is absent.
	ErrMissingField = errors.New("missing required field")
)

// MappingError reports a raw record field that is missing or cannot be parsed.
type MappingError struct {
	Kind  string
	Field string
	Path  string
	Err   error
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("map %s: field %s at %q: %v", e.Kind, e.Field, e.Path, e.Err)
}

func (e *MappingError) Unwrap() error {
	return e.Err
}

// TransportError wraps any failure of the remote call itself.
type TransportError struct {
	Op         string
	Collection Collection
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("transport %s %s: status %d: %v", e.Op, e.Collection, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("transport %s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
