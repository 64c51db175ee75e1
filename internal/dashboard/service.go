package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/nao1215/bidflare/pkg/httpclient"
)

// ErrUnauthorized はバックエンドが認証を拒否したことを示す。
// サインイン画面への遷移はゲートウェイが要求済み。
var ErrUnauthorized = errors.New("認証が必要です")

// Fetcher は認証付きでバックエンドへリクエストを送信する。
// *httpclient.Client が満たす。
type Fetcher interface {
	Fetch(ctx context.Context, endpoint string, opts *httpclient.RequestOptions) (*http.Response, error)
}

// Result はダッシュボード1画面分の取得結果。
type Result struct {
	// Query は取得に使用した表示条件。
	Query Query
	// Records は取得したレコード一覧。
	Records Records
	// Pager はページ送りの状態。
	Pager Pager
}

// Load は表示条件に従って管理者向け一覧を取得する。
func Load(ctx context.Context, f Fetcher, q Query) (*Result, error) {
	records, totalPages, err := LoadList(ctx, f, q.Tab, q.Endpoint())
	if err != nil {
		return &Result{Query: q, Records: Empty(q.Tab), Pager: Pager{Page: q.Page}}, err
	}
	return &Result{
		Query:   q,
		Records: records,
		Pager:   Pager{Page: q.Page, TotalPages: totalPages},
	}, nil
}

// LoadList はendpointからtabのレコード一覧を取得する。
// 購入者の落札一覧や出品者の商品一覧のように、管理者以外の画面でも使用する。
func LoadList(ctx context.Context, f Fetcher, tab Tab, endpoint string) (Records, int, error) {
	resp, err := f.Fetch(ctx, endpoint, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("一覧の取得に失敗: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("レスポンスの読み込みに失敗: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, 0, ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, 0, &httpclient.StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	records, totalPages, err := DecodePage(tab, body)
	if err != nil {
		return nil, 0, err
	}
	return records, totalPages, nil
}
