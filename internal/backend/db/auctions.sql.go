package db

import (
	"context"
	"database/sql"
	"time"
)

const auctionColumns = `id, product_id, last_price, end_time, is_closed, winner_id, created_at`

func collectAuctions(rows *sql.Rows) ([]Auction, error) {
	defer func() { _ = rows.Close() }()

	var items []Auction
	for rows.Next() {
		var a Auction
		if err := rows.Scan(&a.ID, &a.ProductID, &a.LastPrice, &a.EndTime, &a.IsClosed, &a.WinnerID, &a.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

const createAuction = `
INSERT INTO auctions (` + auctionColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

// CreateAuctionParams はCreateAuctionの引数。
type CreateAuctionParams struct {
	ID        string
	ProductID sql.NullString
	LastPrice sql.NullFloat64
	EndTime   time.Time
	IsClosed  bool
	WinnerID  sql.NullString
	CreatedAt time.Time
}

// CreateAuction はオークションを作成する。
func (q *Queries) CreateAuction(ctx context.Context, arg CreateAuctionParams) error {
	_, err := q.db.ExecContext(ctx, createAuction,
		arg.ID, arg.ProductID, arg.LastPrice, arg.EndTime, arg.IsClosed, arg.WinnerID, arg.CreatedAt,
	)
	return err
}

const countAuctionsByClosed = `SELECT COUNT(*) FROM auctions WHERE is_closed = ?`

// CountAuctionsByClosed は終了状態ごとのオークション数を返す。
func (q *Queries) CountAuctionsByClosed(ctx context.Context, isClosed bool) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countAuctionsByClosed, isClosed).Scan(&n)
	return n, err
}

const listAuctionsByClosed = `
SELECT ` + auctionColumns + ` FROM auctions
WHERE is_closed = ?
ORDER BY end_time, id
LIMIT ? OFFSET ?
`

// ListAuctionsByClosedParams はListAuctionsByClosedの引数。
type ListAuctionsByClosedParams struct {
	IsClosed bool
	Limit    int64
	Offset   int64
}

// ListAuctionsByClosed は終了状態でオークションを絞り込んで1ページ分を返す。
func (q *Queries) ListAuctionsByClosed(ctx context.Context, arg ListAuctionsByClosedParams) ([]Auction, error) {
	rows, err := q.db.QueryContext(ctx, listAuctionsByClosed, arg.IsClosed, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	return collectAuctions(rows)
}

const listWonAuctions = `
SELECT ` + auctionColumns + ` FROM auctions
WHERE winner_id = ? AND is_closed = 1
ORDER BY end_time DESC, id
`

// ListWonAuctions はユーザーが落札した終了済みオークションを返す。
func (q *Queries) ListWonAuctions(ctx context.Context, winnerID string) ([]Auction, error) {
	rows, err := q.db.QueryContext(ctx, listWonAuctions, winnerID)
	if err != nil {
		return nil, err
	}
	return collectAuctions(rows)
}
