package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/codyseavey/cardledger/backend/internal/models"
)

// MemoryStore is the in-process tier: a size-bounded LRU whose entries also
// age out after ttl.
type MemoryStore struct {
	lru *expirable.LRU[string, models.CacheEntry]
}

func NewMemoryStore(size int, ttl time.Duration) *MemoryStore {
	return &MemoryStore{lru: expirable.NewLRU[string, models.CacheEntry](size, nil, ttl)}
}

func (m *MemoryStore) Name() string { return "memory" }

func (m *MemoryStore) Get(_ context.Context, key string) (models.CacheEntry, error) {
	entry, ok := m.lru.Get(key)
	if !ok {
		return models.CacheEntry{}, ErrMiss
	}
	return entry, nil
}

func (m *MemoryStore) Set(_ context.Context, entry models.CacheEntry) error {
	m.lru.Add(entry.QueryHash, entry)
	return nil
}

// Len is the number of live entries.
func (m *MemoryStore) Len() int {
	return m.lru.Len()
}
