package dashboard

import (
	"net/url"
	"strconv"
)

// PageSize は1ページあたりの件数。
const PageSize = 10

// Tab はダッシュボードで表示中のビュー。
type Tab string

const (
	// TabUsers はユーザー一覧。
	TabUsers Tab = "users"
	// TabProducts は商品一覧。
	TabProducts Tab = "products"
	// TabAuctions はオークション一覧。
	TabAuctions Tab = "auctions"
)

// Tabs はタブバーに並べる順序。
var Tabs = []Tab{TabUsers, TabProducts, TabAuctions}

// Valid はタブが既知の値かを返す。
func (t Tab) Valid() bool {
	switch t {
	case TabUsers, TabProducts, TabAuctions:
		return true
	}
	return false
}

// Option はフィルターの選択肢。
type Option struct {
	Value string
	Label string
}

// RoleOptions はユーザー一覧のロールフィルター。
var RoleOptions = []Option{
	{Value: "BUYER", Label: "Buyers"},
	{Value: "SELLER", Label: "Sellers"},
}

// StatusOptions は商品一覧のステータスフィルター。
var StatusOptions = []Option{
	{Value: "LISTED", Label: "Listed"},
	{Value: "DRAFT", Label: "Draft"},
	{Value: "SOLD", Label: "Sold"},
	{Value: "PAID", Label: "Paid"},
	{Value: "SHIPPED", Label: "Shipped"},
	{Value: "DELIVERED", Label: "Delivered"},
}

// ClosedOptions はオークション一覧の終了状態フィルター。
var ClosedOptions = []Option{
	{Value: "false", Label: "Open / Active"},
	{Value: "true", Label: "Closed"},
}

const (
	defaultRole   = "BUYER"
	defaultStatus = "DRAFT"
)

// Query はダッシュボードの表示条件。
type Query struct {
	// Tab は表示中のタブ。
	Tab Tab
	// Role はユーザー一覧のロールフィルター。
	Role string
	// Status は商品一覧のステータスフィルター。
	Status string
	// Closed はオークション一覧の終了状態フィルター。
	Closed bool
	// Page は0始まりのページ番号。
	Page int
}

// DefaultQuery は初期表示の条件を返す。
func DefaultQuery() Query {
	return Query{
		Tab:    TabUsers,
		Role:   defaultRole,
		Status: defaultStatus,
	}
}

// ParseQuery はURLクエリから表示条件を組み立てる。
// 不明な値や不正なページ番号は既定値に置き換える。
func ParseQuery(v url.Values) Query {
	q := DefaultQuery()

	if t := Tab(v.Get("tab")); t.Valid() {
		q.Tab = t
	}
	if r := v.Get("role"); hasOption(RoleOptions, r) {
		q.Role = r
	}
	if s := v.Get("status"); hasOption(StatusOptions, s) {
		q.Status = s
	}
	if closed, err := strconv.ParseBool(v.Get("closed")); err == nil {
		q.Closed = closed
	}
	if page, err := strconv.Atoi(v.Get("page")); err == nil && page > 0 {
		q.Page = page
	}
	return q
}

func hasOption(options []Option, value string) bool {
	for _, o := range options {
		if o.Value == value {
			return true
		}
	}
	return false
}

// Endpoint はバックエンドのエンドポイント（ベースURLからの相対パスとクエリ）を返す。
func (q Query) Endpoint() string {
	params := url.Values{}
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("size", strconv.Itoa(PageSize))

	var path string
	switch q.Tab {
	case TabProducts:
		path = "admin/products"
		params.Set("status", q.Status)
	case TabAuctions:
		path = "admin/auctions"
		params.Set("isClosed", strconv.FormatBool(q.Closed))
	default:
		path = "admin/users"
		params.Set("role", q.Role)
	}
	return path + "?" + params.Encode()
}

// WithTab はタブを切り替えた条件を返す。ページは先頭に戻す。
func (q Query) WithTab(t Tab) Query {
	q.Tab = t
	q.Page = 0
	return q
}

// WithPage はページを変更した条件を返す。
func (q Query) WithPage(page int) Query {
	q.Page = page
	return q
}

// URL はこの条件を表すダッシュボードのURLを返す。
func (q Query) URL(basePath string) string {
	params := url.Values{}
	params.Set("tab", string(q.Tab))
	switch q.Tab {
	case TabProducts:
		params.Set("status", q.Status)
	case TabAuctions:
		params.Set("closed", strconv.FormatBool(q.Closed))
	default:
		params.Set("role", q.Role)
	}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	return basePath + "?" + params.Encode()
}
