package blobstore

import (
	"context"
	"sync"

	"fragments/internal/models"
)

const memoryBackendName = "memory"

// Memory keeps payloads in process memory, one map per owner.
type Memory struct {
	mu   sync.RWMutex
	data map[string]map[string][]byte
}

// NewMemory creates an empty in-memory payload store.
func NewMemory() *Memory {
	return &Memory{data: map[string]map[string][]byte{}}
}

func (m *Memory) Put(ctx context.Context, ownerID, id string, data []byte) error {
	if err := validateKey(ownerID, id); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return models.WrapStorage(memoryBackendName, "put", models.StorageKey(ownerID, id), err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	owned, ok := m.data[ownerID]
	if !ok {
		owned = map[string][]byte{}
		m.data[ownerID] = owned
	}
	owned[id] = append([]byte{}, data...)
	return nil
}

func (m *Memory) Get(ctx context.Context, ownerID, id string) ([]byte, bool, error) {
	if err := validateKey(ownerID, id); err != nil {
		return nil, false, err
	}
	if err := ctx.Err(); err != nil {
		return nil, false, models.WrapStorage(memoryBackendName, "get", models.StorageKey(ownerID, id), err)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.data[ownerID][id]
	if !ok {
		return nil, false, nil
	}
	return append([]byte{}, data...), true, nil
}

func (m *Memory) Delete(ctx context.Context, ownerID, id string) error {
	if err := validateKey(ownerID, id); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return models.WrapStorage(memoryBackendName, "delete", models.StorageKey(ownerID, id), err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	owned, ok := m.data[ownerID]
	if !ok {
		return nil
	}
	delete(owned, id)
	if len(owned) == 0 {
		delete(m.data, ownerID)
	}
	return nil
}
