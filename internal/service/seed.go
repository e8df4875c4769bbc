package service

import (
	"context"
	"errors"
	"log"

	"github.com/shopspring/decimal"

	"piecesitos/backend/internal/domain"
	"piecesitos/backend/internal/store"
)

func amount(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

func seedCombos() []domain.ComboRequest {
	return []domain.ComboRequest{
		{Name: "Combo 4 Pañales", Diapers: 4, FabricCost: amount(350), SeamstressCost: amount(100), PackagingCost: amount(90), SalePrice: amount(1000)},
		{Name: "Combo 6 Pañales", Diapers: 6, FabricCost: amount(420), SeamstressCost: amount(120), PackagingCost: amount(50), SalePrice: amount(1300)},
		{Name: "Combo 12 Pañales", Diapers: 12, FabricCost: amount(780), SeamstressCost: amount(240), PackagingCost: amount(130), SalePrice: amount(2200)},
	}
}

// EnsureSeedData inserts the three starter combos the first time the shop
// starts with an empty catalog. The catalog_seeded setting makes the seed a
// one-time event: deleting every combo later, or restarting afterwards, never
// reseeds.
func (s *Service) EnsureSeedData(ctx context.Context) error {
	_, err := s.repo.GetSetting(ctx, domain.SettingCatalogSeeded)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	combos, err := s.repo.ListCombos(ctx)
	if err != nil {
		return err
	}

	if len(combos) == 0 {
		for _, req := range seedCombos() {
			if _, err := s.CreateCombo(ctx, req); err != nil {
				return err
			}
		}
		log.Printf("[service] seeded %d starter combos", len(seedCombos()))
	}

	return s.repo.PutSetting(ctx, domain.SettingCatalogSeeded, "true")
}
