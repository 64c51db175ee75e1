package backend

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	backenddb "github.com/nao1215/bidflare/internal/backend/db"
)

// seed はユーザーが1件も無い場合にサンプルデータを投入する。
func seed(ctx context.Context, sqlDB *sql.DB) error {
	count, err := backenddb.New(sqlDB).CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("ユーザー数の取得に失敗: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	q := backenddb.New(sqlDB).WithTx(tx)
	now := time.Now().UTC().Truncate(time.Second)

	users := []backenddb.CreateUserParams{
		{Name: "admin", Email: "admin@bidflare.dev", Role: RoleAdmin},
		{Name: "alice", Email: "alice@bidflare.dev", Role: RoleBuyer},
		{Name: "bob", Email: "bob@bidflare.dev", Role: RoleBuyer},
		{Name: "carol", Email: "carol@bidflare.dev", Role: RoleSeller},
		{Name: "dave", Email: "dave@bidflare.dev", Role: RoleSeller},
	}
	for i := range users {
		users[i].ID = uuid.New().String()
		users[i].CreatedAt = now.Add(time.Duration(i) * time.Minute)
		if err := q.CreateUser(ctx, users[i]); err != nil {
			return fmt.Errorf("ユーザーの作成に失敗: %w", err)
		}
	}
	alice, carol, dave := users[1].ID, users[3].ID, users[4].ID

	products := []backenddb.CreateProductParams{
		{Title: "Vintage Camera", StartingPrice: 120, Status: "LISTED", SellerID: validString(carol)},
		{Title: "Mechanical Keyboard", StartingPrice: 80, Status: "SOLD", SellerID: validString(carol)},
		{Title: "Road Bike", StartingPrice: 450, Status: "DELIVERED", SellerID: validString(dave)},
		{Title: "Desk Lamp", StartingPrice: 25.5, Status: "DRAFT", SellerID: validString(dave)},
		{Title: "Record Player", StartingPrice: 200, Status: "SHIPPED", SellerID: validString(carol)},
		{Title: "Oak Chair", StartingPrice: 60, Status: "PAID", SellerID: validString(dave)},
	}
	for i := range products {
		products[i].ID = uuid.New().String()
		products[i].Description = products[i].Title + " in good condition"
		products[i].CreatedAt = now.Add(time.Duration(i) * time.Minute)
		if err := q.CreateProduct(ctx, products[i]); err != nil {
			return fmt.Errorf("商品の作成に失敗: %w", err)
		}
	}

	auctions := []backenddb.CreateAuctionParams{
		// 入札なしで開催中
		{ProductID: validString(products[0].ID), EndTime: now.Add(72 * time.Hour)},
		// aliceが落札
		{ProductID: validString(products[1].ID), LastPrice: sql.NullFloat64{Float64: 95, Valid: true}, EndTime: now.Add(-48 * time.Hour), IsClosed: true, WinnerID: validString(alice)},
		{ProductID: validString(products[2].ID), LastPrice: sql.NullFloat64{Float64: 520, Valid: true}, EndTime: now.Add(-24 * time.Hour), IsClosed: true, WinnerID: validString(alice)},
		// 入札ありで開催中
		{ProductID: validString(products[4].ID), LastPrice: sql.NullFloat64{Float64: 210, Valid: true}, EndTime: now.Add(24 * time.Hour)},
	}
	for i := range auctions {
		auctions[i].ID = uuid.New().String()
		auctions[i].CreatedAt = now
		if err := q.CreateAuction(ctx, auctions[i]); err != nil {
			return fmt.Errorf("オークションの作成に失敗: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("コミットに失敗: %w", err)
	}
	log.Printf("[Backend] サンプルデータを投入しました: users=%d, products=%d, auctions=%d", len(users), len(products), len(auctions))
	return nil
}

func validString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}
