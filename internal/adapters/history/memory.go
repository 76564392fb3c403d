package history

import (
	"context"
	"sort"
	"sync"

	"github.com/0xcro3dile/makanapa-go/internal/domain/entities"
)

// MemoryStore is an in-process history store.
// Records are lost on restart; intended for tests and local runs.
type MemoryStore struct {
	mu      sync.RWMutex
	records []entities.HistoryRecord
	ids     map[string]struct{}
	stamper
}

// NewMemoryStore creates an empty in-memory history store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		ids:     make(map[string]struct{}),
		stamper: defaultStamper(),
	}
}

// Save appends one record.
func (s *MemoryStore) Save(ctx context.Context, category string, lat, lon *float64, result entities.RecommendationResult) (rec entities.HistoryRecord, err error) {
	defer func() { observeSave("memory", err) }()

	if err := ctx.Err(); err != nil {
		return entities.HistoryRecord{}, unavailable(opSave, err)
	}

	rec = s.record(category, lat, lon, result)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.ids[rec.ID]; exists {
		return entities.HistoryRecord{}, conflict(nil)
	}
	s.ids[rec.ID] = struct{}{}
	s.records = append(s.records, rec)
	return rec, nil
}

// List returns every record, newest first.
func (s *MemoryStore) List(ctx context.Context) ([]entities.HistoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entities.HistoryRecord, len(s.records))
	// Reverse insertion order breaks ties between equal timestamps.
	for i, rec := range s.records {
		out[len(s.records)-1-i] = rec
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
