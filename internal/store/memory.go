package store

import (
	"context"
	"slices"
	"sync"

	"clientdesk/internal/client"
)

// MemoryStore keeps clients in a slice, assigning ids from a counter that
// never goes backwards.
type MemoryStore struct {
	mu      sync.RWMutex
	clients []client.Client
	nextID  int64
}

var _ Repository = (*MemoryStore)(nil)

// NewMemoryStore returns an empty store whose first id is 1.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{clients: []client.Client{}, nextID: 1}
}

// List returns all clients ordered by id.
func (m *MemoryStore) List(_ context.Context) ([]client.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.clients), nil
}

// Get returns a client by id.
func (m *MemoryStore) Get(_ context.Context, id int64) (client.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i := m.index(id); i >= 0 {
		return m.clients[i], nil
	}
	return client.Client{}, client.ErrNotFound
}

// FindByEmail returns the client using email, ignoring case.
func (m *MemoryStore) FindByEmail(_ context.Context, email string) (client.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.clients {
		if client.SameEmail(c.Email, email) {
			return c, nil
		}
	}
	return client.Client{}, client.ErrNotFound
}

// Create stores c under the next id and returns it.
func (m *MemoryStore) Create(_ context.Context, c client.Client) (client.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = m.nextID
	m.nextID++
	m.clients = append(m.clients, c)
	return c, nil
}

// Update replaces the client with c.ID.
func (m *MemoryStore) Update(_ context.Context, c client.Client) (client.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.index(c.ID)
	if i < 0 {
		return client.Client{}, client.ErrNotFound
	}
	m.clients[i] = c
	return c, nil
}

// Delete removes a client by id.
func (m *MemoryStore) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.index(id)
	if i < 0 {
		return client.ErrNotFound
	}
	m.clients = slices.Delete(m.clients, i, i+1)
	return nil
}

// Count returns the number of clients.
func (m *MemoryStore) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients), nil
}

// Ping always succeeds.
func (m *MemoryStore) Ping(context.Context) error { return nil }

// Close is a no-op.
func (m *MemoryStore) Close() error { return nil }

// index must be called with mu held.
func (m *MemoryStore) index(id int64) int {
	return slices.IndexFunc(m.clients, func(c client.Client) bool { return c.ID == id })
}
