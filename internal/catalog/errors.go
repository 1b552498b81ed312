package catalog

import "errors"

var (
	// ErrNotFound is returned when no record carries the requested ID.
	ErrNotFound = errors.New("book not found")
	// ErrDuplicate is returned by Add when the ID is already catalogued.
	ErrDuplicate = errors.New("book already exists")
	// ErrNoCopiesAvailable is returned when every copy is already lent out.
	ErrNoCopiesAvailable = errors.New("no copies available")
	// ErrNothingToReturn is returned when no copy of the title is lent out.
	ErrNothingToReturn = errors.New("no borrowed copies to return")
	// ErrInvalidRecord wraps field validation failures.
	ErrInvalidRecord = errors.New("invalid record")
)
