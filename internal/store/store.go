package store

import (
	"context"
	"errors"

	"piecesitos/backend/internal/domain"
)

var (
	// ErrNotFound reports that the targeted row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation reports a missing or out-of-range required field.
	ErrValidation = errors.New("validation failed")
)

// Repository is the persistence boundary for the four entities. Every call is
// a single atomic row operation; any error other than the two sentinels above
// is an underlying store failure and is surfaced to the operator as a generic
// one.
type Repository interface {
	ListCombos(ctx context.Context) ([]domain.Combo, error)
	GetCombo(ctx context.Context, id string) (*domain.Combo, error)
	CreateCombo(ctx context.Context, combo domain.Combo) (*domain.Combo, error)
	UpdateCombo(ctx context.Context, combo domain.Combo) (*domain.Combo, error)
	DeleteCombo(ctx context.Context, id string) error

	ListInventory(ctx context.Context) ([]domain.InventoryItem, error)
	CreateInventoryItem(ctx context.Context, item domain.InventoryItem) (*domain.InventoryItem, error)
	UpdateInventoryItem(ctx context.Context, item domain.InventoryItem) (*domain.InventoryItem, error)
	DeleteInventoryItem(ctx context.Context, id string) error

	ListSales(ctx context.Context) ([]domain.Sale, error)
	CreateSale(ctx context.Context, sale domain.Sale) (*domain.Sale, error)
	DeleteSale(ctx context.Context, id string) error

	GetSetting(ctx context.Context, key string) (string, error)
	PutSetting(ctx context.Context, key string, value string) error
}
