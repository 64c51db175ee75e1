package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// StatusError はバックエンドが2xx以外のステータスを返したことを表す。
type StatusError struct {
	// StatusCode はHTTPステータスコード。
	StatusCode int
	// Body はレスポンスボディ。
	Body string
}

// Error はエラーメッセージを返す。
func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTPエラー: status=%d, body=%s", e.StatusCode, e.Body)
}

// Unauthorized は認証エラー（401/403）であればtrueを返す。
func (e *StatusError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// GetJSON はendpointにGETリクエストを送信し、レスポンスボディをresultにデシリアライズする。
func (c *Client) GetJSON(ctx context.Context, endpoint string, result any) error {
	return c.doJSON(ctx, http.MethodGet, endpoint, nil, result)
}

// PostJSON はendpointにJSONボディでPOSTリクエストを送信し、
// レスポンスボディをresultにデシリアライズする。
func (c *Client) PostJSON(ctx context.Context, endpoint string, body any, result any) error {
	return c.doJSON(ctx, http.MethodPost, endpoint, body, result)
}

// doJSON はFetchを使ったJSONリクエストの共通処理。
// 2xx以外のステータスは*StatusErrorとして返す。
func (c *Client) doJSON(ctx context.Context, method, endpoint string, body any, result any) error {
	resp, err := c.Fetch(ctx, endpoint, &RequestOptions{Method: method, Body: body})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("レスポンスボディのデシリアライズに失敗: %w", err)
		}
	}
	return nil
}
