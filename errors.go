package savetrack

import "errors"

var (
	// ErrNotFound is returned when an identifier matches nothing in the store.
	ErrNotFound = errors.New("not found")
	// ErrDefaultCategory is returned when deleting one of the built-in categories.
	ErrDefaultCategory = errors.New("default categories cannot be deleted")
	ErrInvalidEntry    = errors.New("invalid entry")
	ErrInvalidGoal     = errors.New("invalid goal")
	ErrInvalidCategory = errors.New("invalid category")
)
