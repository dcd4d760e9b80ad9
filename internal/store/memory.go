package store

import (
	"context"
	"slices"
	"sync"

	catalogerrors "github.com/abgdnv/shoecatalog/internal/errors"
)

// MemoryStore implements ProductStore using an in-memory map.
// Insertion order is the store-native order.
type MemoryStore struct {
	mu       sync.RWMutex
	products map[int64]Product
	order    []int64
}

// NewMemoryStore creates a new, empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products: make(map[int64]Product),
	}
}

func (s *MemoryStore) FindAll(ctx context.Context) ([]Product, error) {
	return s.Find(ctx, Query{})
}

func (s *MemoryStore) Find(ctx context.Context, q Query) ([]Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]Product, 0, len(s.order))
	for _, sku := range s.order {
		list = append(list, s.products[sku])
	}
	return q.Apply(list), nil
}

func (s *MemoryStore) FindBySKU(ctx context.Context, sku int64) (*Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[sku]
	if !ok {
		return nil, catalogerrors.ErrProductNotFound
	}
	return &p, nil
}

func (s *MemoryStore) Insert(ctx context.Context, p Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[p.SKU]; exists {
		return catalogerrors.ErrDuplicateSKU
	}
	s.products[p.SKU] = p
	s.order = append(s.order, p.SKU)
	return nil
}

func (s *MemoryStore) ReplaceBySKU(ctx context.Context, sku int64, p Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[sku]; !exists {
		return catalogerrors.ErrProductNotFound
	}
	p.SKU = sku
	s.products[sku] = p
	return nil
}

func (s *MemoryStore) DeleteBySKU(ctx context.Context, sku int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[sku]; !exists {
		return false, nil
	}
	delete(s.products, sku)
	s.order = slices.DeleteFunc(s.order, func(v int64) bool { return v == sku })
	return true, nil
}

func (s *MemoryStore) Ping(_ context.Context) error {
	return nil
}
