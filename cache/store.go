package cache

import (
	"context"
	"sync"
	"time"

	"weather-dashboard/models"
)

// Entry is a cached geocoding result with the time it was stored
type Entry struct {
	Locations []models.Location `json:"locations"`
	StoredAt  time.Time         `json:"storedAt"`
}

// Store persists cache entries by key
type Store interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Put(ctx context.Context, key string, entry Entry) error
	// Prune removes entries stored before cutoff and reports how many went
	Prune(ctx context.Context, cutoff time.Time) (int, error)
	Close() error
}

// MemoryStore keeps entries in process memory
type MemoryStore struct {
	data  map[string]Entry
	mutex sync.RWMutex
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]Entry),
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (Entry, bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	entry, exists := s.data[key]
	return entry, exists, nil
}

func (s *MemoryStore) Put(_ context.Context, key string, entry Entry) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.data[key] = entry
	return nil
}

func (s *MemoryStore) Prune(_ context.Context, cutoff time.Time) (int, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	pruned := 0
	for key, entry := range s.data {
		if entry.StoredAt.Before(cutoff) {
			delete(s.data, key)
			pruned++
		}
	}
	return pruned, nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
