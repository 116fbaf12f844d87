package lead

import (
	"fmt"
	"os"
)

// Store is the ordered, read-only list of leads for one review session.
type Store struct {
	path    string
	records []Record
}

// Load reads a JSONL leads file. A missing file yields an error that matches
// fs.ErrNotExist via errors.Is.
func Load(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open leads: %w", err)
	}
	defer f.Close()

	records, err := ReadJSONL(f)
	if err != nil {
		return nil, fmt.Errorf("parse leads %s: %w", path, err)
	}
	return &Store{path: path, records: records}, nil
}

// NewStore builds a store from records already in memory.
func NewStore(records []Record) *Store {
	cp := make([]Record, len(records))
	copy(cp, records)
	return &Store{records: cp}
}

// Path returns the file the store was loaded from, or "" for in-memory stores.
func (s *Store) Path() string { return s.path }

// Len returns the number of records.
func (s *Store) Len() int { return len(s.records) }

// At returns the record at index i.
func (s *Store) At(i int) (Record, bool) {
	if i < 0 || i >= len(s.records) {
		return Record{}, false
	}
	return s.records[i], true
}

// Valid reports whether i is a record position.
func (s *Store) Valid(i int) bool {
	return i >= 0 && i < len(s.records)
}
