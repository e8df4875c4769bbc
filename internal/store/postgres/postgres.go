// Package postgres is the durable Repository. Every operation is a single
// parameterized statement, so row-level atomicity comes from the database.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"piecesitos/backend/internal/domain"
	"piecesitos/backend/internal/store"
)

type Store struct {
	db *sql.DB
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(8)
	db.SetMaxOpenConns(30)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &Store{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			diapers INT NOT NULL DEFAULT 0,
			fabric_cost NUMERIC(12,2) NOT NULL DEFAULT 0,
			seamstress_cost NUMERIC(12,2) NOT NULL DEFAULT 0,
			packaging_cost NUMERIC(12,2) NOT NULL DEFAULT 0,
			sale_price NUMERIC(12,2) NOT NULL,
			profit NUMERIC(12,2) NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS inventory (
			id TEXT PRIMARY KEY,
			product_name TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT 'General',
			quantity INT NOT NULL DEFAULT 0,
			cost_price NUMERIC(12,2) NOT NULL DEFAULT 0,
			sale_price NUMERIC(12,2) NOT NULL DEFAULT 0,
			image_url TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS sales (
			id TEXT PRIMARY KEY,
			combo_type TEXT NOT NULL,
			quantity INT NOT NULL,
			total_income NUMERIC(12,2) NOT NULL,
			total_profit NUMERIC(12,2) NOT NULL,
			sale_date TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) ListCombos(ctx context.Context) ([]domain.Combo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, diapers, fabric_cost, seamstress_cost, packaging_cost, sale_price, profit, created_at
		FROM products
		ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	combos := make([]domain.Combo, 0, 16)
	for rows.Next() {
		var c domain.Combo
		if err := rows.Scan(&c.ID, &c.Name, &c.Diapers, &c.FabricCost, &c.SeamstressCost, &c.PackagingCost, &c.SalePrice, &c.Profit, &c.CreatedAt); err != nil {
			return nil, err
		}
		combos = append(combos, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return combos, nil
}

func (s *Store) GetCombo(ctx context.Context, id string) (*domain.Combo, error) {
	var c domain.Combo
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, diapers, fabric_cost, seamstress_cost, packaging_cost, sale_price, profit, created_at
		FROM products
		WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Diapers, &c.FabricCost, &c.SeamstressCost, &c.PackagingCost, &c.SalePrice, &c.Profit, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *Store) CreateCombo(ctx context.Context, combo domain.Combo) (*domain.Combo, error) {
	if combo.ID == "" || combo.Name == "" {
		return nil, store.ErrValidation
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products (id, name, diapers, fabric_cost, seamstress_cost, packaging_cost, sale_price, profit, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, combo.ID, combo.Name, combo.Diapers, combo.FabricCost, combo.SeamstressCost, combo.PackagingCost, combo.SalePrice, combo.Profit, combo.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrValidation
		}
		return nil, err
	}

	created := combo
	return &created, nil
}

func (s *Store) UpdateCombo(ctx context.Context, combo domain.Combo) (*domain.Combo, error) {
	if combo.ID == "" || combo.Name == "" {
		return nil, store.ErrValidation
	}

	// created_at is deliberately left untouched: creation time is immutable.
	res, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET name = $2, diapers = $3, fabric_cost = $4, seamstress_cost = $5, packaging_cost = $6, sale_price = $7, profit = $8
		WHERE id = $1
	`, combo.ID, combo.Name, combo.Diapers, combo.FabricCost, combo.SeamstressCost, combo.PackagingCost, combo.SalePrice, combo.Profit)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}

	return s.GetCombo(ctx, combo.ID)
}

func (s *Store) DeleteCombo(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ListInventory(ctx context.Context) ([]domain.InventoryItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, product_name, category, quantity, cost_price, sale_price, image_url, created_at
		FROM inventory
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.InventoryItem, 0, 32)
	for rows.Next() {
		var item domain.InventoryItem
		if err := rows.Scan(&item.ID, &item.ProductName, &item.Category, &item.Quantity, &item.CostPrice, &item.SalePrice, &item.ImageURL, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (s *Store) CreateInventoryItem(ctx context.Context, item domain.InventoryItem) (*domain.InventoryItem, error) {
	if item.ID == "" || item.ProductName == "" {
		return nil, store.ErrValidation
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO inventory (id, product_name, category, quantity, cost_price, sale_price, image_url, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, item.ID, item.ProductName, item.Category, item.Quantity, item.CostPrice, item.SalePrice, item.ImageURL, item.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrValidation
		}
		return nil, err
	}

	created := item
	return &created, nil
}

func (s *Store) UpdateInventoryItem(ctx context.Context, item domain.InventoryItem) (*domain.InventoryItem, error) {
	if item.ID == "" || item.ProductName == "" {
		return nil, store.ErrValidation
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE inventory
		SET product_name = $2, category = $3, quantity = $4, cost_price = $5, sale_price = $6, image_url = $7
		WHERE id = $1
	`, item.ID, item.ProductName, item.Category, item.Quantity, item.CostPrice, item.SalePrice, item.ImageURL)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}

	var updated domain.InventoryItem
	err = s.db.QueryRowContext(ctx, `
		SELECT id, product_name, category, quantity, cost_price, sale_price, image_url, created_at
		FROM inventory
		WHERE id = $1
	`, item.ID).Scan(&updated.ID, &updated.ProductName, &updated.Category, &updated.Quantity, &updated.CostPrice, &updated.SalePrice, &updated.ImageURL, &updated.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *Store) DeleteInventoryItem(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM inventory WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ListSales(ctx context.Context) ([]domain.Sale, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, combo_type, quantity, total_income, total_profit, sale_date
		FROM sales
		ORDER BY sale_date DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sales := make([]domain.Sale, 0, 64)
	for rows.Next() {
		var sale domain.Sale
		if err := rows.Scan(&sale.ID, &sale.ComboType, &sale.Quantity, &sale.TotalIncome, &sale.TotalProfit, &sale.SaleDate); err != nil {
			return nil, err
		}
		sales = append(sales, sale)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sales, nil
}

func (s *Store) CreateSale(ctx context.Context, sale domain.Sale) (*domain.Sale, error) {
	if sale.ID == "" || sale.ComboType == "" || sale.Quantity < 1 {
		return nil, store.ErrValidation
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sales (id, combo_type, quantity, total_income, total_profit, sale_date)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, sale.ID, sale.ComboType, sale.Quantity, sale.TotalIncome, sale.TotalProfit, sale.SaleDate)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrValidation
		}
		return nil, err
	}

	created := sale
	return &created, nil
}

func (s *Store) DeleteSale(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", store.ErrNotFound
		}
		return "", err
	}
	return value, nil
}

func (s *Store) PutSetting(ctx context.Context, key string, value string) error {
	if key == "" {
		return store.ErrValidation
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`, key, value)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
