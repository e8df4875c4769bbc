package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"piecesitos/backend/internal/domain"
	"piecesitos/backend/internal/store"
)

// RecordSale converts a combo plus quantity into one immutable ledger row.
// Income and profit are snapshots of the combo's current values; later combo
// edits or deletion leave the sale untouched. Inventory is not adjusted.
func (s *Service) RecordSale(ctx context.Context, req domain.SaleRequest) (domain.Sale, error) {
	if req.ComboID == "" || req.Quantity < 1 {
		return domain.Sale{}, store.ErrValidation
	}

	combo, err := s.repo.GetCombo(ctx, req.ComboID)
	if err != nil {
		return domain.Sale{}, err
	}

	qty := decimal.NewFromInt(int64(req.Quantity))
	sale := domain.Sale{
		ID:          uuid.NewString(),
		ComboType:   combo.Name,
		Quantity:    req.Quantity,
		TotalIncome: combo.SalePrice.Mul(qty),
		TotalProfit: combo.Profit.Mul(qty),
		SaleDate:    time.Now().UTC(),
	}

	created, err := s.repo.CreateSale(ctx, sale)
	if err != nil {
		return domain.Sale{}, err
	}

	s.invalidateSummary(ctx)

	return *created, nil
}

func (s *Service) ListSales(ctx context.Context) ([]domain.Sale, error) {
	return s.repo.ListSales(ctx)
}

func (s *Service) DeleteSale(ctx context.Context, id string) error {
	if id == "" {
		return store.ErrValidation
	}
	if err := s.repo.DeleteSale(ctx, id); err != nil {
		return err
	}

	s.invalidateSummary(ctx)
	return nil
}

// Summary recomputes the ledger totals by a full scan. The result is cached
// briefly; record/delete invalidate the cache, so cached and scanned answers
// agree.
func (s *Service) Summary(ctx context.Context) (domain.LedgerSummary, error) {
	if cached, ok, err := s.summaries.Get(ctx, summaryCacheKey); err == nil && ok {
		return *cached, nil
	} else if err != nil {
		log.Printf("[service] WARN: summary cache read failed: %v", err)
	}

	sales, err := s.repo.ListSales(ctx)
	if err != nil {
		return domain.LedgerSummary{}, err
	}

	summary := Summarize(sales)
	if err := s.summaries.Set(ctx, summaryCacheKey, &summary, s.summaryTTL); err != nil {
		log.Printf("[service] WARN: summary cache write failed: %v", err)
	}

	return summary, nil
}

// Summarize is the pure aggregation over a sale set; ordering does not matter.
func Summarize(sales []domain.Sale) domain.LedgerSummary {
	summary := domain.LedgerSummary{
		TotalIncome: decimal.Zero,
		TotalProfit: decimal.Zero,
	}
	for _, sale := range sales {
		summary.TotalIncome = summary.TotalIncome.Add(sale.TotalIncome)
		summary.TotalProfit = summary.TotalProfit.Add(sale.TotalProfit)
	}
	return summary
}

// Trend projects the most recent TrendWindow sales in chronological order,
// scaling each profit against the window maximum for a simple bar view. When
// the window maximum is not positive every ratio is zero.
func (s *Service) Trend(ctx context.Context) ([]domain.TrendPoint, error) {
	sales, err := s.repo.ListSales(ctx)
	if err != nil {
		return nil, err
	}

	if len(sales) > TrendWindow {
		sales = sales[:TrendWindow]
	}

	maxProfit := decimal.Zero
	for _, sale := range sales {
		if sale.TotalProfit.GreaterThan(maxProfit) {
			maxProfit = sale.TotalProfit
		}
	}

	// ListSales is newest-first; the bars read oldest-to-newest.
	points := make([]domain.TrendPoint, 0, len(sales))
	for i := len(sales) - 1; i >= 0; i-- {
		sale := sales[i]
		point := domain.TrendPoint{
			ID:          sale.ID,
			ComboType:   sale.ComboType,
			TotalProfit: sale.TotalProfit,
			SaleDate:    sale.SaleDate,
		}
		if maxProfit.IsPositive() {
			ratio, _ := sale.TotalProfit.Div(maxProfit).Float64()
			if ratio < 0 {
				ratio = 0
			}
			point.Ratio = ratio
		}
		points = append(points, point)
	}

	return points, nil
}

func (s *Service) invalidateSummary(ctx context.Context) {
	if err := s.summaries.Invalidate(ctx, summaryCacheKey); err != nil {
		log.Printf("[service] WARN: summary cache invalidation failed: %v", err)
	}
}
