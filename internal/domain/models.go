package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Monetary fields serialize as plain JSON numbers (10.5, not "10.5") so
	// the API stays wire-compatible with clients that expect numerics.
	decimal.MarshalJSONWithoutQuotes = true
}

// Combo is a sellable product definition with its cost breakdown and the
// profit derived from it. Profit is stored at write time, not recomputed on
// read; the service recomputes it from the cost fields on every write.
type Combo struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Diapers        int             `json:"diapers"`
	FabricCost     decimal.Decimal `json:"fabric_cost"`
	SeamstressCost decimal.Decimal `json:"seamstress_cost"`
	PackagingCost  decimal.Decimal `json:"packaging_cost"`
	SalePrice      decimal.Decimal `json:"sale_price"`
	Profit         decimal.Decimal `json:"profit"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ComboRequest is the payload for both create and full-replace update.
// Profit is accepted for compatibility with clients that precompute it but is
// always recomputed server-side from the cost fields.
type ComboRequest struct {
	Name           string          `json:"name"`
	Diapers        int             `json:"diapers"`
	FabricCost     decimal.Decimal `json:"fabric_cost"`
	SeamstressCost decimal.Decimal `json:"seamstress_cost"`
	PackagingCost  decimal.Decimal `json:"packaging_cost"`
	SalePrice      decimal.Decimal `json:"sale_price"`
	Profit         decimal.Decimal `json:"profit"`
}

// InventoryItem is a physical stock unit, independent of the combo catalog.
// Quantity is operator-authoritative and may go negative; sales never touch
// it.
type InventoryItem struct {
	ID          string          `json:"id"`
	ProductName string          `json:"product_name"`
	Category    string          `json:"category"`
	Quantity    int             `json:"quantity"`
	CostPrice   decimal.Decimal `json:"cost_price"`
	SalePrice   decimal.Decimal `json:"sale_price"`
	ImageURL    string          `json:"image_url,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// InventoryItemRequest carries the full-replace payload for an inventory row.
// It arrives as a multipart form, so the handler owns string coercion and
// this struct stays typed.
type InventoryItemRequest struct {
	ProductName string
	Category    string
	Quantity    int
	CostPrice   decimal.Decimal
	SalePrice   decimal.Decimal
	ImageURL    string
}

// Sale is one completed, immutable ledger row. ComboType is a name snapshot,
// not a foreign key: the combo may be edited or deleted later without
// touching historical sales.
type Sale struct {
	ID          string          `json:"id"`
	ComboType   string          `json:"combo_type"`
	Quantity    int             `json:"quantity"`
	TotalIncome decimal.Decimal `json:"total_income"`
	TotalProfit decimal.Decimal `json:"total_profit"`
	SaleDate    time.Time       `json:"sale_date"`
}

type SaleRequest struct {
	ComboID  string `json:"combo_id"`
	Quantity int    `json:"quantity"`
}

// LedgerSummary aggregates the full sale log.
type LedgerSummary struct {
	TotalIncome decimal.Decimal `json:"total_income"`
	TotalProfit decimal.Decimal `json:"total_profit"`
}

// TrendPoint is one bar of the recent-sales visualization: a sale's profit
// relative to the maximum profit in the window, in chronological order.
type TrendPoint struct {
	ID          string          `json:"id"`
	ComboType   string          `json:"combo_type"`
	TotalProfit decimal.Decimal `json:"total_profit"`
	SaleDate    time.Time       `json:"sale_date"`
	Ratio       float64         `json:"ratio"`
}

// Setting is a key/value configuration row. The only consumer today is the
// catalog seed-once flag.
type Setting struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

const SettingCatalogSeeded = "catalog_seeded"
