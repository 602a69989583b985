package catalog

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
)

var ErrProductNotFound = errors.New("product not found")

// Store is the catalog collaborator contract. Implementations live under
// internal/infrastructure/store.
type Store interface {
	Get(ctx context.Context, id string) (Product, error)
	List(ctx context.Context) ([]Product, error)
	ListByCategory(ctx context.Context, category string) ([]Product, error)
	Put(ctx context.Context, p Product) error
	Delete(ctx context.Context, id string) error
}

// Search filters products by a case-insensitive substring scan over name,
// brand, model and category. The catalog is small enough that a linear scan
// is the whole search story.
func Search(products []Product, query string) []Product {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var matches []Product
	for _, p := range products {
		haystack := strings.ToLower(p.DisplayName() + " " + p.Name + " " + p.Category)
		if strings.Contains(haystack, q) {
			matches = append(matches, p)
		}
	}
	return matches
}

// MemoryStore is an in-memory catalog used in tests and local development.
type MemoryStore struct {
	mu       sync.RWMutex
	products map[string]Product
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{products: make(map[string]Product)}
}

func (m *MemoryStore) Get(ctx context.Context, id string) (Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.products[id]
	if !ok {
		return Product{}, ErrProductNotFound
	}
	return p, nil
}

func (m *MemoryStore) List(ctx context.Context) ([]Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	products := make([]Product, 0, len(m.products))
	for _, p := range m.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

func (m *MemoryStore) ListByCategory(ctx context.Context, category string) ([]Product, error) {
	all, err := m.List(ctx)
	if err != nil {
		return nil, err
	}

	var products []Product
	for _, p := range all {
		if strings.EqualFold(p.Category, category) {
			products = append(products, p)
		}
	}
	return products, nil
}

func (m *MemoryStore) Put(ctx context.Context, p Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.products[p.ID] = p
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.products[id]; !ok {
		return ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}
