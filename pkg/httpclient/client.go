package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nao1215/bidflare/pkg/metrics"
	"github.com/nao1215/bidflare/pkg/navigation"
	"github.com/nao1215/bidflare/pkg/session"
)

// unauthenticatedBody はトークンが無い場合に合成するレスポンスボディ。
const unauthenticatedBody = `{"error": "Authentication required"}`

// Client はセッションで保護されたリクエストゲートウェイ。
// ブラウザ1つ分のセッションと遷移先を保持する。
type Client struct {
	// httpClient は内部で使用するHTTPクライアント。タイムアウトは設定しない。
	httpClient *http.Client
	// baseURL はバックエンドAPIのベースURL（例: "http://backend:8080/api"）。
	baseURL string
	// session はBearerトークンを保持するセッション。
	session *session.Session
	// navigator は認証失敗時の遷移を要求する先。
	navigator navigation.Navigator
}

// Option はClientの生成オプション。
type Option func(*Client)

// WithHTTPClient は内部で使用するHTTPクライアントを差し替える。
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// New は新しいゲートウェイを生成する。
// navがnilの場合は遷移先を持たない環境として扱う。
func New(baseURL string, sess *session.Session, nav navigation.Navigator, opts ...Option) *Client {
	if nav == nil {
		nav = navigation.Nop{}
	}
	c := &Client{
		httpClient: &http.Client{},
		baseURL:    baseURL,
		session:    sess,
		navigator:  nav,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RequestOptions は1回のリクエストの設定。
type RequestOptions struct {
	// Method はHTTPメソッド。空の場合はGET。
	Method string
	// Header は呼び出し元が指定するヘッダー。ゲートウェイはコピーして使用する。
	Header http.Header
	// Body はリクエストボディ。*Form、[]byte、string、io.Reader はそのまま送信し、
	// それ以外の値はJSONにシリアライズする。
	Body any
}

// Fetch はendpointへ認証付きリクエストを送信する。
//
// トークンが無い場合はバックエンドに接続せず、サインイン画面への遷移を要求したうえで
// 401の合成レスポンスを返す。バックエンドが401または403を返した場合はトークンを削除し、
// 遷移を要求したうえでボディを読み直せる複製を返す。それ以外のレスポンスはそのまま返す。
// ネットワークエラーはリトライせずに返す。
func (c *Client) Fetch(ctx context.Context, endpoint string, opts *RequestOptions) (*http.Response, error) {
	if opts == nil {
		opts = &RequestOptions{}
	}

	token, ok, err := c.session.Token(ctx)
	if err != nil {
		metrics.GatewayRequests.WithLabelValues(metrics.OutcomeStoreError).Inc()
		return nil, err
	}
	if !ok {
		log.Printf("[AuthFetch] トークンが見つかりません。サインイン画面へ遷移します: endpoint=%s", endpoint)
		c.navigator.Redirect(ctx, navigation.SignInPath)
		metrics.GatewayRequests.WithLabelValues(metrics.OutcomeMissingToken).Inc()
		return unauthenticatedResponse(), nil
	}

	body, bodyType, isForm, err := encodeBody(opts.Body)
	if err != nil {
		return nil, err
	}

	header := opts.Header.Clone()
	if header == nil {
		header = make(http.Header)
	}
	header.Set("Authorization", "Bearer "+token)
	if header.Get("Content-Type") == "" {
		if isForm {
			header.Set("Content-Type", bodyType)
		} else {
			header.Set("Content-Type", "application/json")
		}
	}

	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, ResolveURL(c.baseURL, endpoint), body)
	if err != nil {
		return nil, fmt.Errorf("HTTPリクエストの作成に失敗: %w", err)
	}
	req.Header = header

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.GatewayDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.GatewayRequests.WithLabelValues(metrics.OutcomeTransportError).Inc()
		return nil, fmt.Errorf("HTTPリクエストの送信に失敗: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		log.Printf("[AuthFetch] 認証エラーのためサインアウトします: endpoint=%s, status=%d", endpoint, resp.StatusCode)
		if err := c.session.Clear(ctx); err != nil {
			log.Printf("[AuthFetch] セッションの破棄に失敗: %v", err)
		}
		c.navigator.Redirect(ctx, navigation.SignInPath)
		metrics.GatewayRequests.WithLabelValues(metrics.OutcomeAuthRejected).Inc()
		return duplicate(resp)
	}

	metrics.GatewayRequests.WithLabelValues(metrics.OutcomeOK).Inc()
	return resp, nil
}

// ResolveURL はエンドポイント識別子をバックエンドの完全なURLに変換する。
// 絶対URLはそのまま返し、相対パスはベースURLとスラッシュ1つで連結する。
func ResolveURL(baseURL, endpoint string) string {
	if u, err := url.Parse(endpoint); err == nil && u.IsAbs() {
		return endpoint
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(endpoint, "/")
}

// encodeBody はリクエストボディをio.Readerに変換する。
// *Formの場合はisFormがtrueになり、bodyTypeにmultipartのContent-Typeが入る。
func encodeBody(body any) (r io.Reader, bodyType string, isForm bool, err error) {
	switch b := body.(type) {
	case nil:
		return nil, "", false, nil
	case *Form:
		r, bodyType, err = b.encode()
		if err != nil {
			return nil, "", true, fmt.Errorf("フォームのエンコードに失敗: %w", err)
		}
		return r, bodyType, true, nil
	case []byte:
		return bytes.NewReader(b), "", false, nil
	case string:
		return strings.NewReader(b), "", false, nil
	case io.Reader:
		return b, "", false, nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, "", false, fmt.Errorf("リクエストボディのシリアライズに失敗: %w", err)
		}
		return bytes.NewReader(data), "", false, nil
	}
}

// unauthenticatedResponse はトークンが無い場合に返す401レスポンスを合成する。
func unauthenticatedResponse() *http.Response {
	return &http.Response{
		Status:        "401 Unauthorized",
		StatusCode:    http.StatusUnauthorized,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        http.Header{"Content-Type": {"application/json"}},
		Body:          io.NopCloser(strings.NewReader(unauthenticatedBody)),
		ContentLength: int64(len(unauthenticatedBody)),
	}
}

// duplicate はレスポンスボディを読み切り、同じステータスとボディを持つ複製を返す。
// 元のレスポンスボディは閉じる。
func duplicate(resp *http.Response) (*http.Response, error) {
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("レスポンスボディの読み込みに失敗: %w", err)
	}

	dup := *resp
	dup.Header = resp.Header.Clone()
	dup.Body = io.NopCloser(bytes.NewReader(data))
	dup.ContentLength = int64(len(data))
	return &dup, nil
}
