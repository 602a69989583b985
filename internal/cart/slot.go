package cart

import (
	"context"
	"errors"
	"sync"
)

// ErrSlotEmpty reports that the slot holds no cart yet.
var ErrSlotEmpty = errors.New("cart slot is empty")

// Slot is one durable key holding the serialized cart. It is overwritten
// wholesale on every mutation and read once at startup.
type Slot interface {
	Load(ctx context.Context) ([]byte, error)
	Store(ctx context.Context, data []byte) error
	Clear(ctx context.Context) error
}

// SlotFactory binds a session ID to its slot.
type SlotFactory func(sessionID string) Slot

// MemorySlotFactory hands out one shared MemorySlot per session ID, so a
// dropped cart rehydrates from the same slot. Used in tests and local
// development.
func MemorySlotFactory() SlotFactory {
	var mu sync.Mutex
	slots := make(map[string]*MemorySlot)
	return func(sessionID string) Slot {
		mu.Lock()
		defer mu.Unlock()

		if s, ok := slots[sessionID]; ok {
			return s
		}
		s := NewMemorySlot()
		slots[sessionID] = s
		return s
	}
}

// MemorySlot keeps the payload in memory; used in tests and local
// development.
type MemorySlot struct {
	mu   sync.Mutex
	data []byte
}

func NewMemorySlot() *MemorySlot {
	return &MemorySlot{}
}

func (m *MemorySlot) Load(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.data == nil {
		return nil, ErrSlotEmpty
	}
	out := make([]byte, len(m.data))
	copy(out, m.data)
	return out, nil
}

func (m *MemorySlot) Store(ctx context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data = make([]byte, len(data))
	copy(m.data, data)
	return nil
}

func (m *MemorySlot) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data = nil
	return nil
}
