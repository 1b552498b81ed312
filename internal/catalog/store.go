package catalog

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"golang.org/x/text/cases"
)

// Source supplies a full snapshot of the collection in insertion order.
type Source interface {
	Read(ctx context.Context) ([]Record, error)
}

// Sink persists a full snapshot of the collection, replacing any previous one.
type Sink interface {
	Write(ctx context.Context, records []Record) error
}

// Stats aggregates copy counts across the collection.
type Stats struct {
	Titles    int `json:"titles"`
	Copies    int `json:"copies"`
	Borrowed  int `json:"borrowed"`
	Available int `json:"available"`
}

// Store is the in-memory collection keyed by book ID.
type Store struct {
	records map[string]*Record
	order   []string
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{records: make(map[string]*Record)}
}

// Open creates a store populated from src.
func Open(ctx context.Context, src Source) (*Store, error) {
	s := NewStore()
	if err := s.Load(ctx, src); err != nil {
		return nil, err
	}
	return s, nil
}

// Len reports the number of distinct titles.
func (s *Store) Len() int {
	return len(s.order)
}

// Add inserts a new record. Existing IDs are never overwritten.
func (s *Store) Add(rec Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	if _, exists := s.records[rec.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicate, rec.ID)
	}
	stored := rec
	s.records[rec.ID] = &stored
	s.order = append(s.order, rec.ID)
	return nil
}

// Get returns a copy of the record with the given ID.
func (s *Store) Get(id string) (Record, bool) {
	rec, ok := s.records[id]
	if !ok {
		return Record{}, false
	}
	return *rec, true
}

// Search returns records whose title or author contains keyword, ignoring
// case. An empty keyword matches every record.
func (s *Store) Search(keyword string) []Record {
	fold := cases.Fold()
	needle := fold.String(keyword)

	matches := make([]Record, 0)
	for rec := range s.All() {
		if needle == "" ||
			strings.Contains(fold.String(rec.Title), needle) ||
			strings.Contains(fold.String(rec.Author), needle) {
			matches = append(matches, rec)
		}
	}
	return matches
}

// Lend lends one copy of the identified title and returns its updated state.
func (s *Store) Lend(id string) (Record, error) {
	rec, ok := s.records[id]
	if !ok {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := rec.Lend(); err != nil {
		return *rec, err
	}
	return *rec, nil
}

// Return takes back one copy of the identified title.
func (s *Store) Return(id string) (Record, error) {
	rec, ok := s.records[id]
	if !ok {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := rec.Return(); err != nil {
		return *rec, err
	}
	return *rec, nil
}

// All yields a copy of every record in insertion order. The sequence can be
// ranged over any number of times.
func (s *Store) All() iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for _, id := range s.order {
			if !yield(*s.records[id]) {
				return
			}
		}
	}
}

// Stats sums copy counts over the collection.
func (s *Store) Stats() Stats {
	var st Stats
	for rec := range s.All() {
		st.Titles++
		st.Copies += rec.Copies
		st.Borrowed += rec.Borrowed
	}
	st.Available = st.Copies - st.Borrowed
	return st
}

// Load replaces the in-memory state with the snapshot read from src. The
// store is left untouched when src fails.
func (s *Store) Load(ctx context.Context, src Source) error {
	records, err := src.Read(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	loaded := NewStore()
	for _, rec := range records {
		if err := loaded.Add(rec); err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
	}
	s.records = loaded.records
	s.order = loaded.order
	return nil
}

// Save writes the whole collection to dst.
func (s *Store) Save(ctx context.Context, dst Sink) error {
	records := make([]Record, 0, len(s.order))
	for rec := range s.All() {
		records = append(records, rec)
	}
	if err := dst.Write(ctx, records); err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}
	return nil
}
