package cart

import (
	"context"
	"sync"
)

// Manager hands out one cart Store per session, rehydrating each from its
// slot on first use. Carts outlive individual requests; they disappear only
// when Drop is called (logout) or the process restarts, in which case the
// slot rehydrates them again.
type Manager struct {
	mu    sync.Mutex
	slots SlotFactory
	carts map[string]*Store
}

func NewManager(slots SlotFactory) *Manager {
	return &Manager{
		slots: slots,
		carts: make(map[string]*Store),
	}
}

// Cart returns the session's store, creating it from the slot if needed.
func (m *Manager) Cart(ctx context.Context, sessionID string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.carts[sessionID]; ok {
		return s
	}
	s := NewStore(ctx, m.slots(sessionID))
	m.carts[sessionID] = s
	return s
}

// Drop clears the session's cart and forgets it.
func (m *Manager) Drop(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	s, ok := m.carts[sessionID]
	delete(m.carts, sessionID)
	m.mu.Unlock()

	if !ok {
		// Still erase whatever the slot holds.
		return m.slots(sessionID).Clear(ctx)
	}
	return s.Clear(ctx)
}
