package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"piecesitos/backend/internal/domain"
	"piecesitos/backend/internal/pricing"
	"piecesitos/backend/internal/store"
)

func (s *Service) ListCombos(ctx context.Context) ([]domain.Combo, error) {
	return s.repo.ListCombos(ctx)
}

func (s *Service) CreateCombo(ctx context.Context, req domain.ComboRequest) (domain.Combo, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.SalePrice.IsZero() {
		return domain.Combo{}, store.ErrValidation
	}
	if req.Diapers < 0 {
		return domain.Combo{}, store.ErrValidation
	}

	combo := comboFromRequest(req)
	combo.ID = uuid.NewString()
	combo.CreatedAt = time.Now().UTC()

	created, err := s.repo.CreateCombo(ctx, combo)
	if err != nil {
		return domain.Combo{}, err
	}
	return *created, nil
}

// UpdateCombo is a full replace: fields the caller omits come through as
// zero values and are persisted as such.
func (s *Service) UpdateCombo(ctx context.Context, id string, req domain.ComboRequest) (domain.Combo, error) {
	req.Name = strings.TrimSpace(req.Name)
	if id == "" || req.Name == "" || req.SalePrice.IsZero() {
		return domain.Combo{}, store.ErrValidation
	}

	combo := comboFromRequest(req)
	combo.ID = id

	updated, err := s.repo.UpdateCombo(ctx, combo)
	if err != nil {
		return domain.Combo{}, err
	}
	return *updated, nil
}

func (s *Service) DeleteCombo(ctx context.Context, id string) error {
	if id == "" {
		return store.ErrValidation
	}
	// No cascade: historical sales keep citing the combo name.
	return s.repo.DeleteCombo(ctx, id)
}

// comboFromRequest builds the persisted record. The client-sent profit is
// ignored; profit is always recomputed from the submitted costs so the stored
// value cannot drift from its inputs through this API.
func comboFromRequest(req domain.ComboRequest) domain.Combo {
	return domain.Combo{
		Name:           req.Name,
		Diapers:        req.Diapers,
		FabricCost:     req.FabricCost,
		SeamstressCost: req.SeamstressCost,
		PackagingCost:  req.PackagingCost,
		SalePrice:      req.SalePrice,
		Profit:         pricing.ComboProfit(req.SalePrice, req.FabricCost, req.SeamstressCost, req.PackagingCost),
	}
}
