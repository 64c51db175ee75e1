package db

import (
	"database/sql"
	"time"
)

// User はusersテーブルの行。
type User struct {
	ID        string
	Name      string
	Email     string
	Role      string
	CreatedAt time.Time
}

// Product はproductsテーブルの行。
type Product struct {
	ID            string
	Title         string
	Description   string
	StartingPrice float64
	Status        string
	SellerID      sql.NullString
	CategoryID    sql.NullString
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Auction はauctionsテーブルの行。
type Auction struct {
	ID        string
	ProductID sql.NullString
	LastPrice sql.NullFloat64
	EndTime   time.Time
	IsClosed  bool
	WinnerID  sql.NullString
	CreatedAt time.Time
}
