package domain

import "errors"

// Taxonomia estable de errores del motor. Los handlers mapean cada
// clase a un status HTTP; capas internas envuelven con fmt.Errorf y %w.
var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrStoreFailure    = errors.New("store failure")
)
