package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"piecesitos/backend/internal/domain"
	"piecesitos/backend/internal/store"
)

const defaultCategory = "General"

func (s *Service) ListInventory(ctx context.Context) ([]domain.InventoryItem, error) {
	return s.repo.ListInventory(ctx)
}

func (s *Service) CreateInventoryItem(ctx context.Context, req domain.InventoryItemRequest) (domain.InventoryItem, error) {
	req.ProductName = strings.TrimSpace(req.ProductName)
	if req.ProductName == "" {
		return domain.InventoryItem{}, store.ErrValidation
	}

	item := itemFromRequest(req)
	item.ID = uuid.NewString()
	item.CreatedAt = time.Now().UTC()

	created, err := s.repo.CreateInventoryItem(ctx, item)
	if err != nil {
		return domain.InventoryItem{}, err
	}
	return *created, nil
}

// UpdateInventoryItem is a full replace. The image reference is whatever the
// request carries: a fresh upload path, the previous path resent by the
// caller, or empty to drop the image.
func (s *Service) UpdateInventoryItem(ctx context.Context, id string, req domain.InventoryItemRequest) (domain.InventoryItem, error) {
	req.ProductName = strings.TrimSpace(req.ProductName)
	if id == "" || req.ProductName == "" {
		return domain.InventoryItem{}, store.ErrValidation
	}

	item := itemFromRequest(req)
	item.ID = id

	updated, err := s.repo.UpdateInventoryItem(ctx, item)
	if err != nil {
		return domain.InventoryItem{}, err
	}
	return *updated, nil
}

func (s *Service) DeleteInventoryItem(ctx context.Context, id string) error {
	if id == "" {
		return store.ErrValidation
	}
	// The referenced image file, if any, stays on disk.
	return s.repo.DeleteInventoryItem(ctx, id)
}

func itemFromRequest(req domain.InventoryItemRequest) domain.InventoryItem {
	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = defaultCategory
	}

	// Quantity is a free-standing counter; negative values are allowed.
	return domain.InventoryItem{
		ProductName: req.ProductName,
		Category:    category,
		Quantity:    req.Quantity,
		CostPrice:   req.CostPrice,
		SalePrice:   req.SalePrice,
		ImageURL:    req.ImageURL,
	}
}
