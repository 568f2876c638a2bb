package store

import (
	"context"
	"sync"

	"fragments/internal/models"
)

const memoryBackendName = "memory"

// Memory is an in-process metadata store. Records are copied on the way in
// and out so callers never share backing arrays with the store.
type Memory struct {
	mu      sync.RWMutex
	records map[string]map[string][]byte
	order   map[string][]string
}

// NewMemory creates an empty in-memory metadata store.
func NewMemory() *Memory {
	return &Memory{
		records: map[string]map[string][]byte{},
		order:   map[string][]string{},
	}
}

func (m *Memory) Put(ctx context.Context, ownerID, id string, record []byte) error {
	if err := validateKey(ownerID, id); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return models.WrapStorage(memoryBackendName, "put", models.StorageKey(ownerID, id), err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	owned, ok := m.records[ownerID]
	if !ok {
		owned = map[string][]byte{}
		m.records[ownerID] = owned
	}
	if _, exists := owned[id]; !exists {
		m.order[ownerID] = append(m.order[ownerID], id)
	}
	owned[id] = append([]byte(nil), record...)
	return nil
}

func (m *Memory) Get(ctx context.Context, ownerID, id string) ([]byte, error) {
	if err := validateKey(ownerID, id); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, models.WrapStorage(memoryBackendName, "get", models.StorageKey(ownerID, id), err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.records[ownerID][id]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), record...), nil
}

func (m *Memory) Query(ctx context.Context, ownerID string) ([][]byte, error) {
	if err := validateOwner(ownerID); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, models.WrapStorage(memoryBackendName, "query", ownerID, err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := m.order[ownerID]
	out := make([][]byte, 0, len(ids))
	for _, id := range ids {
		out = append(out, append([]byte(nil), m.records[ownerID][id]...))
	}
	return out, nil
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
	owned, ok := m.records[ownerID]
	if !ok {
		return nil
	}
	if _, exists := owned[id]; !exists {
		return nil
	}
	delete(owned, id)
	ids := m.order[ownerID]
	for i, existing := range ids {
		if existing == id {
			m.order[ownerID] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
	if len(owned) == 0 {
		delete(m.records, ownerID)
		delete(m.order, ownerID)
	}
	return nil
}
