// Package tabstate keeps the latest verdict for every open browser tab.
//
// The store lives in memory only: verdicts are re-derived on every page
// load, and a record is dropped as soon as its tab closes.
package tabstate

import (
	"sort"
	"sync"

	"github.com/nao1215/phishguard/internal/model"
)

// Store maps tab identifiers to their latest URLRecord.
// It is safe for concurrent use. Records are stored and returned by value,
// so readers never observe a partially written record.
type Store struct {
	mu      sync.RWMutex
	records map[int]model.URLRecord
}

// New creates an empty Store.
func New() *Store {
	return &Store{records: make(map[int]model.URLRecord)}
}

// Set stores rec under rec.TabID, replacing any previous record.
func (s *Store) Set(rec model.URLRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.TabID] = rec
}

// Get returns the record for tabID.
func (s *Store) Get(tabID int) (model.URLRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[tabID]
	return rec, ok
}

// Delete removes the record for tabID. Deleting a missing key is a no-op.
func (s *Store) Delete(tabID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, tabID)
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Snapshot returns a copy of all records ordered by tab identifier.
func (s *Store) Snapshot() []model.URLRecord {
	s.mu.RLock()
	out := make([]model.URLRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].TabID < out[j].TabID })
	return out
}
