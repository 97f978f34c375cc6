// Package keywords extracts screening keywords from job descriptions through
// the model and memoizes the results per job description content.
package keywords

import (
	"context"
	"sync"
)

// Store caches generated keyword lists per job description key. A Store never
// fails a run: lookups that cannot be served report a miss.
type Store interface {
	Get(ctx context.Context, key string) ([]string, bool)
	Set(ctx context.Context, key string, keywords []string)
}

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string][]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string][]string)}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keywords, ok := s.items[key]
	if !ok {
		return nil, false
	}

	copied := make([]string, len(keywords))
	copy(copied, keywords)

	return copied, true
}

func (s *MemoryStore) Set(_ context.Context, key string, keywords []string) {
	copied := make([]string, len(keywords))
	copy(copied, keywords)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[key] = copied
}
