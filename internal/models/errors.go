package models

import "errors"

// Store errors. Handlers map ErrProductNotFound to 404 and everything else
// to 500.
var (
	// ErrProductNotFound is returned when no product has the requested ID.
	ErrProductNotFound = errors.New("product not found")
	// ErrInvalidID is returned when an ID is not well formed for the store.
	ErrInvalidID = errors.New("invalid product id")
	// ErrStoreUnavailable is returned by every call when the store could not
	// be reached at startup.
	ErrStoreUnavailable = errors.New("product store unavailable")
	// ErrInvalidField is returned when an update value cannot be stored in
	// the named field.
	ErrInvalidField = errors.New("invalid product field")
)
