package dashboard

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// User は管理者向けユーザー一覧の1件。
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Product は管理者向け商品一覧の1件。
type Product struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	StartingPrice float64 `json:"startingPrice"`
	// Status は DRAFT, LISTED, SOLD, PAID, SHIPPED, DELIVERED のいずれか。
	Status     string `json:"status"`
	SellerID   string `json:"sellerId"`
	CategoryID string `json:"categoryId"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

// Auction は管理者向けオークション一覧の1件。
type Auction struct {
	ID        string `json:"id"`
	ProductID string `json:"productId"`
	// LastPrice は最新の入札額。入札が無い場合はnil。
	LastPrice *float64 `json:"lastPrice"`
	EndTime   string   `json:"endTime"`
}

// Records は表示中のタブに対応するレコード一覧。
// UserRecords、ProductRecords、AuctionRecords のいずれかであり、
// それぞれが自身の表の描画方法を持つ。
type Records interface {
	// Tab はこのレコードが属するタブを返す。
	Tab() Tab
	// Len はレコード件数を返す。
	Len() int
	// columns は表の見出しを返す。
	columns() []string
	// writeRow はi番目の行のセルを書き出す。
	writeRow(w cellWriter, i int)
}

// UserRecords はユーザー一覧。
type UserRecords []User

// ProductRecords は商品一覧。
type ProductRecords []Product

// AuctionRecords はオークション一覧。
type AuctionRecords []Auction

func (UserRecords) Tab() Tab      { return TabUsers }
func (r UserRecords) Len() int    { return len(r) }
func (ProductRecords) Tab() Tab   { return TabProducts }
func (r ProductRecords) Len() int { return len(r) }
func (AuctionRecords) Tab() Tab   { return TabAuctions }
func (r AuctionRecords) Len() int { return len(r) }

// Empty はタブに対応する空のレコード一覧を返す。
func Empty(tab Tab) Records {
	switch tab {
	case TabProducts:
		return ProductRecords{}
	case TabAuctions:
		return AuctionRecords{}
	default:
		return UserRecords{}
	}
}

// pageEnvelope はバックエンドが返しうるページ形式のオブジェクト。
type pageEnvelope struct {
	Content    json.RawMessage `json:"content"`
	Data       json.RawMessage `json:"data"`
	TotalPages int             `json:"totalPages"`
}

// DecodePage はバックエンドの応答ボディをタブのレコード一覧と総ページ数にデコードする。
//
// 受け付ける形式:
//   - 配列そのもの: 総ページ数は1
//   - {"content": [...], "totalPages": n}: Spring形式のページ
//   - {"data": [...], "totalPages": n}: totalPagesが無い場合は1
//
// それ以外の形式は空の一覧と0ページとして扱う。JSONとして不正な場合やレコードの
// 型が合わない場合はエラーを返す。
func DecodePage(tab Tab, body []byte) (Records, int, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return Empty(tab), 0, nil
	}

	if trimmed[0] == '[' {
		records, err := decodeRecords(tab, trimmed)
		if err != nil {
			return Empty(tab), 0, err
		}
		return records, 1, nil
	}

	if trimmed[0] != '{' {
		if !json.Valid(trimmed) {
			return Empty(tab), 0, fmt.Errorf("応答のJSONが不正です")
		}
		return Empty(tab), 0, nil
	}

	var env pageEnvelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return Empty(tab), 0, fmt.Errorf("ページ形式のデコードに失敗: %w", err)
	}

	if isArray(env.Content) {
		records, err := decodeRecords(tab, env.Content)
		if err != nil {
			return Empty(tab), 0, err
		}
		return records, env.TotalPages, nil
	}
	if isArray(env.Data) {
		records, err := decodeRecords(tab, env.Data)
		if err != nil {
			return Empty(tab), 0, err
		}
		total := env.TotalPages
		if total == 0 {
			total = 1
		}
		return records, total, nil
	}
	return Empty(tab), 0, nil
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

func decodeRecords(tab Tab, raw []byte) (Records, error) {
	switch tab {
	case TabProducts:
		return decodeList[Product, ProductRecords](raw)
	case TabAuctions:
		return decodeList[Auction, AuctionRecords](raw)
	default:
		return decodeList[User, UserRecords](raw)
	}
}

func decodeList[T any, R ~[]T](raw []byte) (Records, error) {
	var list R
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("レコードのデコードに失敗: %w", err)
	}
	if list == nil {
		list = R{}
	}
	// R は UserRecords、ProductRecords、AuctionRecords のいずれか。
	records, ok := any(list).(Records)
	if !ok {
		return nil, fmt.Errorf("未対応のレコード型です: %T", list)
	}
	return records, nil
}
