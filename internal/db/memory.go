package db

import (
	"context"
	"sync"

	"github.com/spacesedan/wordlens/internal/models"
)

type MemoryStore struct {
	mu     sync.RWMutex
	record *models.LastAnalysis
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Save(ctx context.Context, text string) (models.LastAnalysis, error) {
	if err := ctx.Err(); err != nil {
		return models.LastAnalysis{}, err
	}
	rec := newRecord(text)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.record = &rec
	return rec, nil
}

func (m *MemoryStore) Latest(ctx context.Context) (models.LastAnalysis, error) {
	if err := ctx.Err(); err != nil {
		return models.LastAnalysis{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.record == nil {
		return models.LastAnalysis{}, ErrNotFound
	}
	return *m.record, nil
}

func (m *MemoryStore) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record = nil
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}
