// Package memory is the in-memory Repository used in dev/demo mode and by
// the tests. All operations take the store mutex for their full duration, so
// each row write is atomic.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"piecesitos/backend/internal/domain"
	"piecesitos/backend/internal/store"
)

type Store struct {
	mu        sync.RWMutex
	combos    map[string]domain.Combo
	inventory map[string]domain.InventoryItem
	sales     map[string]domain.Sale
	settings  map[string]string
}

func New() *Store {
	return &Store{
		combos:    make(map[string]domain.Combo),
		inventory: make(map[string]domain.InventoryItem),
		sales:     make(map[string]domain.Sale),
		settings:  make(map[string]string),
	}
}

func (s *Store) ListCombos(_ context.Context) ([]domain.Combo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	combos := make([]domain.Combo, 0, len(s.combos))
	for _, c := range s.combos {
		combos = append(combos, c)
	}

	// Ascending by creation time for a stable catalog display order.
	slices.SortFunc(combos, func(a, b domain.Combo) int {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return strings.Compare(a.ID, b.ID)
		}
		if a.CreatedAt.Before(b.CreatedAt) {
			return -1
		}
		return 1
	})

	return combos, nil
}

func (s *Store) GetCombo(_ context.Context, id string) (*domain.Combo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	combo, ok := s.combos[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &combo, nil
}

func (s *Store) CreateCombo(_ context.Context, combo domain.Combo) (*domain.Combo, error) {
	if combo.ID == "" || combo.Name == "" {
		return nil, store.ErrValidation
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.combos[combo.ID]; exists {
		return nil, store.ErrValidation
	}
	s.combos[combo.ID] = combo

	created := combo
	return &created, nil
}

func (s *Store) UpdateCombo(_ context.Context, combo domain.Combo) (*domain.Combo, error) {
	if combo.ID == "" || combo.Name == "" {
		return nil, store.ErrValidation
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.combos[combo.ID]
	if !ok {
		return nil, store.ErrNotFound
	}

	// Creation time is immutable regardless of what the caller sends.
	combo.CreatedAt = existing.CreatedAt
	s.combos[combo.ID] = combo

	updated := combo
	return &updated, nil
}

func (s *Store) DeleteCombo(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.combos[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.combos, id)
	return nil
}

func (s *Store) ListInventory(_ context.Context) ([]domain.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]domain.InventoryItem, 0, len(s.inventory))
	for _, item := range s.inventory {
		items = append(items, item)
	}

	// Most recent first.
	slices.SortFunc(items, func(a, b domain.InventoryItem) int {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return strings.Compare(b.ID, a.ID)
		}
		if a.CreatedAt.After(b.CreatedAt) {
			return -1
		}
		return 1
	})

	return items, nil
}

func (s *Store) CreateInventoryItem(_ context.Context, item domain.InventoryItem) (*domain.InventoryItem, error) {
	if item.ID == "" || item.ProductName == "" {
		return nil, store.ErrValidation
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.inventory[item.ID]; exists {
		return nil, store.ErrValidation
	}
	s.inventory[item.ID] = item

	created := item
	return &created, nil
}

func (s *Store) UpdateInventoryItem(_ context.Context, item domain.InventoryItem) (*domain.InventoryItem, error) {
	if item.ID == "" || item.ProductName == "" {
		return nil, store.ErrValidation
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.inventory[item.ID]
	if !ok {
		return nil, store.ErrNotFound
	}

	item.CreatedAt = existing.CreatedAt
	s.inventory[item.ID] = item

	updated := item
	return &updated, nil
}

func (s *Store) DeleteInventoryItem(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.inventory[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.inventory, id)
	return nil
}

func (s *Store) ListSales(_ context.Context) ([]domain.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sales := make([]domain.Sale, 0, len(s.sales))
	for _, sale := range s.sales {
		sales = append(sales, sale)
	}

	// Most recent first.
	slices.SortFunc(sales, func(a, b domain.Sale) int {
		if a.SaleDate.Equal(b.SaleDate) {
			return strings.Compare(b.ID, a.ID)
		}
		if a.SaleDate.After(b.SaleDate) {
			return -1
		}
		return 1
	})

	return sales, nil
}

func (s *Store) CreateSale(_ context.Context, sale domain.Sale) (*domain.Sale, error) {
	if sale.ID == "" || sale.ComboType == "" || sale.Quantity < 1 {
		return nil, store.ErrValidation
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sales[sale.ID]; exists {
		return nil, store.ErrValidation
	}
	s.sales[sale.ID] = sale

	created := sale
	return &created, nil
}

func (s *Store) DeleteSale(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sales[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.sales, id)
	return nil
}

func (s *Store) GetSetting(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.settings[key]
	if !ok {
		return "", store.ErrNotFound
	}
	return value, nil
}

func (s *Store) PutSetting(_ context.Context, key string, value string) error {
	if key == "" {
		return store.ErrValidation
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings[key] = value
	return nil
}
