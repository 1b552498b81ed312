package catalog

import "fmt"

// Record is one catalogued title and its loan state.
type Record struct {
	ID       string
	Title    string
	Author   string
	Year     int
	Copies   int
	Borrowed int
}

// Available returns the number of copies that can still be lent.
func (r Record) Available() int {
	return r.Copies - r.Borrowed
}

// Lend marks one more copy as borrowed.
func (r *Record) Lend() error {
	if r.Available() <= 0 {
		return ErrNoCopiesAvailable
	}
	r.Borrowed++
	return nil
}

// Return marks one borrowed copy as back on the shelf.
func (r *Record) Return() error {
	if r.Borrowed <= 0 {
		return ErrNothingToReturn
	}
	r.Borrowed--
	return nil
}

// Validate checks the counter invariants of a record. Any string, including
// the empty one, is a usable ID.
func (r Record) Validate() error {
	if r.Copies < 0 {
		return fmt.Errorf("%w: copies must be >= 0 (got %d)", ErrInvalidRecord, r.Copies)
	}
	if r.Borrowed < 0 || r.Borrowed > r.Copies {
		return fmt.Errorf("%w: borrowed must be between 0 and %d (got %d)", ErrInvalidRecord, r.Copies, r.Borrowed)
	}
	return nil
}
