package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"piecesitos/backend/internal/cache"
	"piecesitos/backend/internal/domain"
	"piecesitos/backend/internal/store"
	"piecesitos/backend/internal/store/memory"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestService() *Service {
	return New(memory.New(), cache.NoopSummaryCache{}, 5*time.Second)
}

// stubCache records cache traffic so invalidation behavior can be asserted.
type stubCache struct {
	entries       map[string]domain.LedgerSummary
	invalidations int
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[string]domain.LedgerSummary)}
}

func (c *stubCache) Get(_ context.Context, key string) (*domain.LedgerSummary, bool, error) {
	entry, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	return &entry, true, nil
}

func (c *stubCache) Set(_ context.Context, key string, value *domain.LedgerSummary, _ time.Duration) error {
	c.entries[key] = *value
	return nil
}

func (c *stubCache) Invalidate(_ context.Context, key string) error {
	delete(c.entries, key)
	c.invalidations++
	return nil
}

func TestSeedInsertsExactlyThreeCombosOnce(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if err := svc.EnsureSeedData(ctx); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	combos, err := svc.ListCombos(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(combos) != 3 {
		t.Fatalf("expected 3 seed combos, got %d", len(combos))
	}

	wantProfit := map[int]string{4: "4.60", 6: "7.10", 12: "10.50"}
	for _, combo := range combos {
		want, ok := wantProfit[combo.Diapers]
		if !ok {
			t.Fatalf("unexpected seed combo with %d diapers", combo.Diapers)
		}
		if !combo.Profit.Equal(d(want)) {
			t.Fatalf("seed combo %q: expected profit %s, got %s", combo.Name, want, combo.Profit)
		}
	}

	for _, combo := range combos {
		if err := svc.DeleteCombo(ctx, combo.ID); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
	}

	// A later empty catalog must not be reseeded.
	if err := svc.EnsureSeedData(ctx); err != nil {
		t.Fatalf("second seed call failed: %v", err)
	}
	combos, err = svc.ListCombos(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(combos) != 0 {
		t.Fatalf("expected empty catalog after deleting seeds, got %d combos", len(combos))
	}
}

func TestSeedSkipsNonEmptyCatalog(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.CreateCombo(ctx, domain.ComboRequest{Name: "Combo Propio", SalePrice: d("5.00")})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.EnsureSeedData(ctx); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	combos, err := svc.ListCombos(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(combos) != 1 {
		t.Fatalf("expected seed to skip a non-empty catalog, got %d combos", len(combos))
	}
}

func TestCreateComboValidation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.CreateCombo(ctx, domain.ComboRequest{Name: "  ", SalePrice: d("10.00")})
	if !errors.Is(err, store.ErrValidation) {
		t.Fatalf("expected validation error for blank name, got %v", err)
	}

	_, err = svc.CreateCombo(ctx, domain.ComboRequest{Name: "Combo"})
	if !errors.Is(err, store.ErrValidation) {
		t.Fatalf("expected validation error for missing sale price, got %v", err)
	}
}

func TestCreateComboIgnoresClientProfit(t *testing.T) {
	svc := newTestService()

	combo, err := svc.CreateCombo(context.Background(), domain.ComboRequest{
		Name:           "Combo 4 Pañales",
		Diapers:        4,
		FabricCost:     d("3.50"),
		SeamstressCost: d("1.00"),
		PackagingCost:  d("0.90"),
		SalePrice:      d("10.00"),
		Profit:         d("999.99"),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !combo.Profit.Equal(d("4.60")) {
		t.Fatalf("expected recomputed profit 4.60, got %s", combo.Profit)
	}
}

func TestUpdateComboIsFullReplace(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	combo, err := svc.CreateCombo(ctx, domain.ComboRequest{
		Name:           "Combo 6 Pañales",
		Diapers:        6,
		FabricCost:     d("4.20"),
		SeamstressCost: d("1.20"),
		PackagingCost:  d("0.50"),
		SalePrice:      d("13.00"),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Omitted fields revert to zero; profit is recomputed from what was sent.
	updated, err := svc.UpdateCombo(ctx, combo.ID, domain.ComboRequest{
		Name:      "Combo 6 Pañales",
		SalePrice: d("15.00"),
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Diapers != 0 {
		t.Fatalf("expected omitted diapers to revert to zero, got %d", updated.Diapers)
	}
	if !updated.FabricCost.IsZero() || !updated.SeamstressCost.IsZero() || !updated.PackagingCost.IsZero() {
		t.Fatalf("expected omitted costs to revert to zero")
	}
	if !updated.Profit.Equal(d("15.00")) {
		t.Fatalf("expected profit 15.00 with zero costs, got %s", updated.Profit)
	}
	if !updated.CreatedAt.Equal(combo.CreatedAt) {
		t.Fatalf("expected creation time to be immutable")
	}

	_, err = svc.UpdateCombo(ctx, "missing-id", domain.ComboRequest{Name: "X", SalePrice: d("1.00")})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found for unknown id, got %v", err)
	}
}

func TestListCombosAscendingByCreation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	for _, name := range []string{"Primero", "Segundo", "Tercero"} {
		if _, err := svc.CreateCombo(ctx, domain.ComboRequest{Name: name, SalePrice: d("1.00")}); err != nil {
			t.Fatalf("create failed: %v", err)
		}
		time.Sleep(time.Millisecond)
	}

	combos, err := svc.ListCombos(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(combos) != 3 {
		t.Fatalf("expected 3 combos, got %d", len(combos))
	}
	for i := 1; i < len(combos); i++ {
		if combos[i].CreatedAt.Before(combos[i-1].CreatedAt) {
			t.Fatalf("expected ascending creation order")
		}
	}
	if combos[0].Name != "Primero" || combos[2].Name != "Tercero" {
		t.Fatalf("unexpected catalog order: %s ... %s", combos[0].Name, combos[2].Name)
	}
}

func TestRecordSaleSnapshotsComboValues(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	combo, err := svc.CreateCombo(ctx, domain.ComboRequest{
		Name:           "Combo 6 Pañales",
		Diapers:        6,
		FabricCost:     d("4.20"),
		SeamstressCost: d("1.20"),
		PackagingCost:  d("0.50"),
		SalePrice:      d("13.00"),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	sale, err := svc.RecordSale(ctx, domain.SaleRequest{ComboID: combo.ID, Quantity: 3})
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if sale.ComboType != "Combo 6 Pañales" || sale.Quantity != 3 {
		t.Fatalf("unexpected sale row: %+v", sale)
	}
	if !sale.TotalIncome.Equal(d("39.00")) {
		t.Fatalf("expected total income 39.00, got %s", sale.TotalIncome)
	}
	if !sale.TotalProfit.Equal(d("21.30")) {
		t.Fatalf("expected total profit 21.30, got %s", sale.TotalProfit)
	}

	// Editing and then deleting the combo must not touch the recorded sale.
	if _, err := svc.UpdateCombo(ctx, combo.ID, domain.ComboRequest{Name: "Combo Renombrado", SalePrice: d("99.00")}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if err := svc.DeleteCombo(ctx, combo.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	sales, err := svc.ListSales(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(sales) != 1 {
		t.Fatalf("expected 1 sale, got %d", len(sales))
	}
	if sales[0].ComboType != "Combo 6 Pañales" || !sales[0].TotalIncome.Equal(d("39.00")) || !sales[0].TotalProfit.Equal(d("21.30")) {
		t.Fatalf("sale changed after combo edits: %+v", sales[0])
	}
}

func TestRecordSaleRejectsBadQuantityAndUnknownCombo(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	combo, err := svc.CreateCombo(ctx, domain.ComboRequest{Name: "Combo", SalePrice: d("10.00")})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	for _, qty := range []int{0, -1} {
		_, err := svc.RecordSale(ctx, domain.SaleRequest{ComboID: combo.ID, Quantity: qty})
		if !errors.Is(err, store.ErrValidation) {
			t.Fatalf("expected validation error for quantity %d, got %v", qty, err)
		}
	}

	_, err = svc.RecordSale(ctx, domain.SaleRequest{ComboID: "missing-id", Quantity: 1})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found for unknown combo, got %v", err)
	}
}

func TestListSalesDescendingBySaleDate(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	combo, err := svc.CreateCombo(ctx, domain.ComboRequest{Name: "Combo", SalePrice: d("10.00")})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := svc.RecordSale(ctx, domain.SaleRequest{ComboID: combo.ID, Quantity: i + 1}); err != nil {
			t.Fatalf("record failed: %v", err)
		}
		time.Sleep(time.Millisecond)
	}

	sales, err := svc.ListSales(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(sales) != 3 {
		t.Fatalf("expected 3 sales, got %d", len(sales))
	}
	if sales[0].Quantity != 3 || sales[2].Quantity != 1 {
		t.Fatalf("expected most recent sale first, got quantities %d ... %d", sales[0].Quantity, sales[2].Quantity)
	}
	for i := 1; i < len(sales); i++ {
		if sales[i].SaleDate.After(sales[i-1].SaleDate) {
			t.Fatalf("expected descending sale dates")
		}
	}
}

func TestDeleteSaleTwiceReturnsNotFound(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	combo, err := svc.CreateCombo(ctx, domain.ComboRequest{Name: "Combo", SalePrice: d("10.00")})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	sale, err := svc.RecordSale(ctx, domain.SaleRequest{ComboID: combo.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}

	if err := svc.DeleteSale(ctx, sale.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	sales, err := svc.ListSales(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(sales) != 0 {
		t.Fatalf("expected empty ledger after delete, got %d sales", len(sales))
	}

	if err := svc.DeleteSale(ctx, sale.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found on repeated delete, got %v", err)
	}
}

func TestSummarizeSumsFieldWise(t *testing.T) {
	sales := []domain.Sale{
		{TotalIncome: d("39.00"), TotalProfit: d("21.30")},
		{TotalIncome: d("10.00"), TotalProfit: d("4.60")},
	}

	forward := Summarize(sales)
	reversed := Summarize([]domain.Sale{sales[1], sales[0]})

	if !forward.TotalIncome.Equal(d("49.00")) || !forward.TotalProfit.Equal(d("25.90")) {
		t.Fatalf("unexpected summary: %+v", forward)
	}
	if !forward.TotalIncome.Equal(reversed.TotalIncome) || !forward.TotalProfit.Equal(reversed.TotalProfit) {
		t.Fatalf("summary must be order independent")
	}
}

func TestSummaryUsesAndInvalidatesCache(t *testing.T) {
	repo := memory.New()
	cacheStub := newStubCache()
	svc := New(repo, cacheStub, time.Minute)
	ctx := context.Background()

	combo, err := svc.CreateCombo(ctx, domain.ComboRequest{Name: "Combo", SalePrice: d("10.00")})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	sale, err := svc.RecordSale(ctx, domain.SaleRequest{ComboID: combo.ID, Quantity: 2})
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}

	summary, err := svc.Summary(ctx)
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if !summary.TotalIncome.Equal(d("20.00")) {
		t.Fatalf("expected total income 20.00, got %s", summary.TotalIncome)
	}
	if len(cacheStub.entries) != 1 {
		t.Fatalf("expected summary to be cached")
	}

	if err := svc.DeleteSale(ctx, sale.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if len(cacheStub.entries) != 0 {
		t.Fatalf("expected cache invalidation on delete")
	}
	if cacheStub.invalidations < 2 {
		t.Fatalf("expected invalidation on both record and delete, got %d", cacheStub.invalidations)
	}

	summary, err = svc.Summary(ctx)
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if !summary.TotalIncome.IsZero() || !summary.TotalProfit.IsZero() {
		t.Fatalf("expected zero summary after deleting the only sale, got %+v", summary)
	}
}

func TestTrendWindowAndRatios(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	combo, err := svc.CreateCombo(ctx, domain.ComboRequest{
		Name:      "Combo",
		SalePrice: d("10.00"),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Nine sales with quantities 1..9; profit per sale is 10*qty.
	for qty := 1; qty <= 9; qty++ {
		if _, err := svc.RecordSale(ctx, domain.SaleRequest{ComboID: combo.ID, Quantity: qty}); err != nil {
			t.Fatalf("record failed: %v", err)
		}
		time.Sleep(time.Millisecond)
	}

	points, err := svc.Trend(ctx)
	if err != nil {
		t.Fatalf("trend failed: %v", err)
	}
	if len(points) != TrendWindow {
		t.Fatalf("expected %d trend points, got %d", TrendWindow, len(points))
	}

	// Chronological: oldest surviving sale (qty=3) first, newest (qty=9) last.
	for i := 1; i < len(points); i++ {
		if points[i].SaleDate.Before(points[i-1].SaleDate) {
			t.Fatalf("expected chronological trend order")
		}
	}
	if !points[0].TotalProfit.Equal(d("30.00")) || !points[len(points)-1].TotalProfit.Equal(d("90.00")) {
		t.Fatalf("unexpected trend window: first=%s last=%s", points[0].TotalProfit, points[len(points)-1].TotalProfit)
	}

	last := points[len(points)-1]
	if last.Ratio != 1 {
		t.Fatalf("expected max-profit sale to have ratio 1, got %f", last.Ratio)
	}
	for _, p := range points {
		if p.Ratio <= 0 || p.Ratio > 1 {
			t.Fatalf("expected ratios in (0,1], got %f", p.Ratio)
		}
	}
}

func TestInventoryLifecycle(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	item, err := svc.CreateInventoryItem(ctx, domain.InventoryItemRequest{
		ProductName: "Tela Algodón",
		Quantity:    12,
		CostPrice:   d("2.50"),
		SalePrice:   d("4.00"),
		ImageURL:    "/uploads/1000.jpg",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if item.Category != "General" {
		t.Fatalf("expected default category General, got %q", item.Category)
	}

	// Full replace without the image reference drops it.
	updated, err := svc.UpdateInventoryItem(ctx, item.ID, domain.InventoryItemRequest{
		ProductName: "Tela Algodón",
		Category:    "Telas",
		Quantity:    -3,
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Quantity != -3 {
		t.Fatalf("expected negative quantity to be permitted, got %d", updated.Quantity)
	}
	if updated.ImageURL != "" {
		t.Fatalf("expected image reference to be dropped when not resent, got %q", updated.ImageURL)
	}
	if !updated.CreatedAt.Equal(item.CreatedAt) {
		t.Fatalf("expected creation time to be immutable")
	}

	// Resending the reference preserves it.
	updated, err = svc.UpdateInventoryItem(ctx, item.ID, domain.InventoryItemRequest{
		ProductName: "Tela Algodón",
		Category:    "Telas",
		Quantity:    5,
		ImageURL:    "/uploads/1000.jpg",
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.ImageURL != "/uploads/1000.jpg" {
		t.Fatalf("expected resent image reference to persist, got %q", updated.ImageURL)
	}

	if err := svc.DeleteInventoryItem(ctx, item.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := svc.DeleteInventoryItem(ctx, item.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found on repeated delete, got %v", err)
	}
}

func TestListInventoryMostRecentFirst(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	for _, name := range []string{"Primero", "Segundo", "Tercero"} {
		if _, err := svc.CreateInventoryItem(ctx, domain.InventoryItemRequest{ProductName: name}); err != nil {
			t.Fatalf("create failed: %v", err)
		}
		time.Sleep(time.Millisecond)
	}

	items, err := svc.ListInventory(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[0].ProductName != "Tercero" || items[2].ProductName != "Primero" {
		t.Fatalf("expected most recent first, got %s ... %s", items[0].ProductName, items[2].ProductName)
	}
}
