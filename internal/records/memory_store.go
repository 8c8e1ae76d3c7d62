// internal/records/memory_store.go
package records

import (
	"context"
	"sync"
)

// MemoryStore keeps records in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	records []SavedRecord
	max     int
}

// NewMemoryStore keeps at most max records (0 for unbounded).
func NewMemoryStore(max int) *MemoryStore {
	return &MemoryStore{max: max}
}

func (s *MemoryStore) Backend() string { return "memory" }

func (s *MemoryStore) Append(_ context.Context, rec *SavedRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, *rec)
	if s.max > 0 && len(s.records) > s.max {
		s.records = append([]SavedRecord(nil), s.records[len(s.records)-s.max:]...)
	}
	return nil
}

func (s *MemoryStore) List(_ context.Context, limit int) ([]SavedRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := 0
	if limit > 0 && limit < len(s.records) {
		start = len(s.records) - limit
	}
	return append([]SavedRecord(nil), s.records[start:]...), nil
}
