package db

import (
	"context"
	"database/sql"
	"time"
)

const productColumns = `id, title, description, starting_price, status, seller_id, category_id, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.StartingPrice, &p.Status, &p.SellerID, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func collectProducts(rows *sql.Rows) ([]Product, error) {
	defer func() { _ = rows.Close() }()

	var items []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

const createProduct = `
INSERT INTO products (` + productColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// CreateProductParams はCreateProductの引数。
type CreateProductParams struct {
	ID            string
	Title         string
	Description   string
	StartingPrice float64
	Status        string
	SellerID      sql.NullString
	CategoryID    sql.NullString
	CreatedAt     time.Time
}

// CreateProduct は商品を作成する。
func (q *Queries) CreateProduct(ctx context.Context, arg CreateProductParams) error {
	_, err := q.db.ExecContext(ctx, createProduct,
		arg.ID, arg.Title, arg.Description, arg.StartingPrice, arg.Status,
		arg.SellerID, arg.CategoryID, arg.CreatedAt, arg.CreatedAt,
	)
	return err
}

const countProductsByStatus = `SELECT COUNT(*) FROM products WHERE status = ?`

// CountProductsByStatus はステータスごとの商品数を返す。
func (q *Queries) CountProductsByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countProductsByStatus, status).Scan(&n)
	return n, err
}

const listProductsByStatus = `
SELECT ` + productColumns + ` FROM products
WHERE status = ?
ORDER BY created_at, id
LIMIT ? OFFSET ?
`

// ListProductsByStatusParams はListProductsByStatusの引数。
type ListProductsByStatusParams struct {
	Status string
	Limit  int64
	Offset int64
}

// ListProductsByStatus はステータスで商品を絞り込んで1ページ分を返す。
func (q *Queries) ListProductsByStatus(ctx context.Context, arg ListProductsByStatusParams) ([]Product, error) {
	rows, err := q.db.QueryContext(ctx, listProductsByStatus, arg.Status, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

const listProductsBySeller = `
SELECT ` + productColumns + ` FROM products
WHERE seller_id = ?
ORDER BY created_at, id
`

// ListProductsBySeller は出品者の全商品を返す。
func (q *Queries) ListProductsBySeller(ctx context.Context, sellerID string) ([]Product, error) {
	rows, err := q.db.QueryContext(ctx, listProductsBySeller, sellerID)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}
