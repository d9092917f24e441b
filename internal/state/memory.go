package state

import (
	"context"
	"sync"
)

// MemStore is an in-memory Store for tests and local runs. Entries
// are copied on the way in and out so callers can't mutate stored
// state behind the store's back.
type MemStore struct {
	mu      sync.Mutex
	entries map[string]Entry
}

func NewMemStore() *MemStore {
	return &MemStore{
		entries: make(map[string]Entry),
	}
}

func (ms *MemStore) Get(ctx context.Context, fileID string) (*Entry, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	entry, ok := ms.entries[fileID]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

func (ms *MemStore) Put(ctx context.Context, entry *Entry) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.entries[entry.FileID] = *entry
	return nil
}

// Len reports how many file identifiers have committed state.
func (ms *MemStore) Len() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	return len(ms.entries)
}
