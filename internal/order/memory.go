package order

import (
	"context"
	"sort"
	"sync"

	"github.com/example/sneaker-shop/internal/checkout"
)

// MemoryRepository keeps quotations in memory; used in tests and local
// development.
type MemoryRepository struct {
	mu     sync.RWMutex
	orders map[string]checkout.Snapshot
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{orders: make(map[string]checkout.Snapshot)}
}

func (m *MemoryRepository) Save(ctx context.Context, snap checkout.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.orders[snap.ID] = snap
	return nil
}

func (m *MemoryRepository) Get(ctx context.Context, id string) (checkout.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap, ok := m.orders[id]
	if !ok {
		return checkout.Snapshot{}, ErrNotFound
	}
	return snap, nil
}

func (m *MemoryRepository) List(ctx context.Context) ([]checkout.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	orders := make([]checkout.Snapshot, 0, len(m.orders))
	for _, snap := range m.orders {
		orders = append(orders, snap)
	}
	// Newest first, the way the admin panel lists them.
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	return orders, nil
}

func (m *MemoryRepository) UpdateStatus(ctx context.Context, id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap, ok := m.orders[id]
	if !ok {
		return ErrNotFound
	}
	snap.Status = status
	m.orders[id] = snap
	return nil
}
