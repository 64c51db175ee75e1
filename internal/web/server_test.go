package web

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nao1215/bidflare/internal/config"
	"github.com/nao1215/bidflare/internal/theme"
	"github.com/nao1215/bidflare/pkg/middleware"
	"github.com/nao1215/bidflare/pkg/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// recordedRequest はモックバックエンドが受け取ったリクエスト。
type recordedRequest struct {
	path          string
	authorization string
}

// fakeBackend はREST APIのモック。固定のステータスとボディを返す。
type fakeBackend struct {
	mu       sync.Mutex
	requests []recordedRequest
	status   int
	body     string
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.requests = append(b.requests, recordedRequest{
		path:          r.URL.RequestURI(),
		authorization: r.Header.Get("Authorization"),
	})
	status, body := b.status, b.body
	b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func (b *fakeBackend) received() []recordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]recordedRequest(nil), b.requests...)
}

// testEnv はテスト用のWebサーバーとその依存。
type testEnv struct {
	server  *Server
	store   *session.MemoryStore
	backend *fakeBackend
	sid     string
}

// newTestEnv はモックバックエンドに接続したテスト用サーバーを生成する。
func newTestEnv(t *testing.T, status int, body string) *testEnv {
	t.Helper()

	backend := &fakeBackend{status: status, body: body}
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	store := session.NewMemoryStore()
	s := newServer(config.WebConfig{Port: "0", APIBaseURL: srv.URL + "/api"}, store, nil, srv.Client())
	return &testEnv{
		server:  s,
		store:   store,
		backend: backend,
		sid:     uuid.New().String(),
	}
}

// signIn はテスト用ブラウザのセッションにトークンを保存する。
func (e *testEnv) signIn(t *testing.T, token string) {
	t.Helper()

	if err := session.New(e.store, e.sid).SetToken(context.Background(), token); err != nil {
		t.Fatalf("トークンの保存に失敗: %v", err)
	}
}

// token はテスト用ブラウザのセッションのトークンを返す。
func (e *testEnv) token(t *testing.T) (string, bool) {
	t.Helper()

	token, ok, err := session.New(e.store, e.sid).Token(context.Background())
	if err != nil {
		t.Fatalf("トークンの取得に失敗: %v", err)
	}
	return token, ok
}

// do はテスト用ブラウザのCookieを付けてリクエストを送信する。
func (e *testEnv) do(method, target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.AddCookie(&http.Cookie{Name: BrowserCookie, Value: e.sid})
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(w, req)
	return w
}

// roleToken は指定したロールのトークンを生成する。
func roleToken(t *testing.T, role string) string {
	t.Helper()

	token, err := middleware.GenerateJWT("test-secret-key", "user-1", "user@example.com", role)
	if err != nil {
		t.Fatalf("トークン生成に失敗: %v", err)
	}
	return token
}

func TestHealthCheck(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t, http.StatusOK, `[]`)
	w := e.do(http.MethodGet, "/health", nil)

	if w.Code != http.StatusOK {
		t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), `"service":"web"`) {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestBrowserIdentity(t *testing.T) {
	t.Parallel()

	t.Run("Cookieが無い場合は新しい識別子が発行されること", func(t *testing.T) {
		t.Parallel()

		e := newTestEnv(t, http.StatusOK, `[]`)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()
		e.server.Handler().ServeHTTP(w, req)

		var sid *http.Cookie
		for _, c := range w.Result().Cookies() {
			if c.Name == BrowserCookie {
				sid = c
			}
		}
		if sid == nil {
			t.Fatal("bidflare_sid Cookieが発行されていない")
		}
		if _, err := uuid.Parse(sid.Value); err != nil {
			t.Errorf("識別子がUUIDではない: %q", sid.Value)
		}
		if !sid.HttpOnly {
			t.Error("HttpOnlyが設定されていない")
		}
	})

	t.Run("正しいCookieがある場合は再発行されないこと", func(t *testing.T) {
		t.Parallel()

		e := newTestEnv(t, http.StatusOK, `[]`)
		w := e.do(http.MethodGet, "/", nil)

		for _, c := range w.Result().Cookies() {
			if c.Name == BrowserCookie {
				t.Errorf("Cookieが再発行された: %q", c.Value)
			}
		}
	})

	t.Run("不正な値のCookieは新しい識別子に置き換えられること", func(t *testing.T) {
		t.Parallel()

		e := newTestEnv(t, http.StatusOK, `[]`)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: BrowserCookie, Value: "../../etc"})
		w := httptest.NewRecorder()
		e.server.Handler().ServeHTTP(w, req)

		found := false
		for _, c := range w.Result().Cookies() {
			if c.Name == BrowserCookie {
				found = true
			}
		}
		if !found {
			t.Error("新しい識別子が発行されていない")
		}
	})
}

func TestAdminDashboard(t *testing.T) {
	t.Parallel()

	t.Run("トークンが無い場合はバックエンドに接続せずサインイン画面へ遷移すること", func(t *testing.T) {
		t.Parallel()

		e := newTestEnv(t, http.StatusOK, `[]`)
		w := e.do(http.MethodGet, "/admin?tab=products", nil)

		if w.Code != http.StatusSeeOther {
			t.Fatalf("ステータスコード = %d, want %d", w.Code, http.StatusSeeOther)
		}
		if got := w.Header().Get("Location"); got != "/signin?next=%2Fadmin%3Ftab%3Dproducts" {
			t.Errorf("Location = %q", got)
		}
		if n := len(e.backend.received()); n != 0 {
			t.Errorf("バックエンドへのリクエスト数 = %d, want 0", n)
		}
	})

	t.Run("トークン付きで一覧を取得して表示すること", func(t *testing.T) {
		t.Parallel()

		e := newTestEnv(t, http.StatusOK, `{"content":[{"id":"0123456789","name":"Alice","email":"alice@example.com","role":"SELLER"}],"totalPages":2}`)
		e.signIn(t, "admin-token")

		w := e.do(http.MethodGet, "/admin?role=SELLER", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("ステータスコード = %d, want %d", w.Code, http.StatusOK)
		}

		reqs := e.backend.received()
		if len(reqs) != 1 {
			t.Fatalf("バックエンドへのリクエスト数 = %d, want 1", len(reqs))
		}
		if reqs[0].path != "/api/admin/users?page=0&role=SELLER&size=10" {
			t.Errorf("path = %q", reqs[0].path)
		}
		if reqs[0].authorization != "Bearer admin-token" {
			t.Errorf("Authorization = %q", reqs[0].authorization)
		}

		html := w.Body.String()
		for _, want := range []string{"<title>BidFlare Admin</title>", "Alice", "01234567...", "Page 1 of 2", "Sign out"} {
			if !strings.Contains(html, want) {
				t.Errorf("%q が含まれない", want)
			}
		}
	})

	t.Run("バックエンドが403を返した場合はトークンを削除してサインイン画面へ遷移すること", func(t *testing.T) {
		t.Parallel()

		e := newTestEnv(t, http.StatusForbidden, `{"error":"Admin role required"}`)
		e.signIn(t, "buyer-token")

		w := e.do(http.MethodGet, "/admin", nil)
		if w.Code != http.StatusSeeOther {
			t.Fatalf("ステータスコード = %d, want %d", w.Code, http.StatusSeeOther)
		}
		if got := w.Header().Get("Location"); got != "/signin?next=%2Fadmin" {
			t.Errorf("Location = %q", got)
		}
		if _, ok := e.token(t); ok {
			t.Error("トークンが削除されていない")
		}
	})

	t.Run("バックエンドがエラーを返した場合は空の一覧を表示すること", func(t *testing.T) {
		t.Parallel()

		e := newTestEnv(t, http.StatusInternalServerError, `oops`)
		e.signIn(t, "admin-token")

		w := e.do(http.MethodGet, "/admin?tab=auctions", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("ステータスコード = %d, want %d", w.Code, http.StatusOK)
		}
		if !strings.Contains(w.Body.String(), "No records found.") {
			t.Error("空表示が含まれない")
		}
		if _, ok := e.token(t); !ok {
			t.Error("トークンが削除された")
		}
	})
}

func TestSignIn(t *testing.T) {
	t.Parallel()

	t.Run("トークンを保存してnextへ遷移すること", func(t *testing.T) {
		t.Parallel()

		e := newTestEnv(t, http.StatusOK, `[]`)
		w := e.do(http.MethodPost, "/signin", url.Values{"token": {"  new-token  "}, "next": {"/admin?tab=auctions"}})

		if w.Code != http.StatusSeeOther {
			t.Fatalf("ステータスコード = %d, want %d", w.Code, http.StatusSeeOther)
		}
		if got := w.Header().Get("Location"); got != "/admin?tab=auctions" {
			t.Errorf("Location = %q", got)
		}
		if got, ok := e.token(t); !ok || got != "new-token" {
			t.Errorf("token = %q, %v", got, ok)
		}
	})

	t.Run("外部サイトへのnextはトップ画面に置き換えられること", func(t *testing.T) {
		t.Parallel()

		e := newTestEnv(t, http.StatusOK, `[]`)
		for _, next := range []string{"//evil.example.com", "https://evil.example.com", "/\\evil.example.com"} {
			w := e.do(http.MethodPost, "/signin", url.Values{"token": {"t"}, "next": {next}})
			if got := w.Header().Get("Location"); got != "/" {
				t.Errorf("next=%q: Location = %q, want /", next, got)
			}
		}
	})

	t.Run("トークンが空の場合は400でフォームを再表示すること", func(t *testing.T) {
		t.Parallel()

		e := newTestEnv(t, http.StatusOK, `[]`)
		w := e.do(http.MethodPost, "/signin", url.Values{"token": {"   "}})

		if w.Code != http.StatusBadRequest {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusBadRequest)
		}
		if !strings.Contains(w.Body.String(), "Please enter your access token.") {
			t.Error("エラーメッセージが含まれない")
		}
		if _, ok := e.token(t); ok {
			t.Error("空のトークンが保存された")
		}
	})

	t.Run("フォームにnextが引き継がれること", func(t *testing.T) {
		t.Parallel()

		e := newTestEnv(t, http.StatusOK, `[]`)
		w := e.do(http.MethodGet, "/signin?next=%2Fbuyer%2Fmy-wins", nil)

		if !strings.Contains(w.Body.String(), `name="next" value="/buyer/my-wins"`) {
			t.Errorf("nextが引き継がれていない: %s", w.Body.String())
		}
	})
}

func TestSignOut(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t, http.StatusOK, `[]`)
	e.signIn(t, "token")

	w := e.do(http.MethodPost, "/signout", url.Values{})
	if w.Code != http.StatusSeeOther {
		t.Fatalf("ステータスコード = %d, want %d", w.Code, http.StatusSeeOther)
	}
	if got := w.Header().Get("Location"); got != "/" {
		t.Errorf("Location = %q", got)
	}
	if _, ok := e.token(t); ok {
		t.Error("トークンが削除されていない")
	}

	// 2回目も成功する
	if w := e.do(http.MethodPost, "/signout", url.Values{}); w.Code != http.StatusSeeOther {
		t.Errorf("2回目のステータスコード = %d", w.Code)
	}
}

func TestTheme(t *testing.T) {
	t.Parallel()

	t.Run("切り替えるとダークテーマのCookieが保存されること", func(t *testing.T) {
		t.Parallel()

		e := newTestEnv(t, http.StatusOK, `[]`)
		w := e.do(http.MethodPost, "/theme", url.Values{"next": {"/signin"}})

		if w.Code != http.StatusSeeOther {
			t.Fatalf("ステータスコード = %d, want %d", w.Code, http.StatusSeeOther)
		}
		if got := w.Header().Get("Location"); got != "/signin" {
			t.Errorf("Location = %q", got)
		}
		var stored string
		for _, c := range w.Result().Cookies() {
			if c.Name == theme.CookieName {
				stored = c.Value
			}
		}
		if stored != string(theme.Dark) {
			t.Errorf("テーマCookie = %q, want dark", stored)
		}
	})

	t.Run("ダークテーマの場合はhtml要素にdarkクラスが付くこと", func(t *testing.T) {
		t.Parallel()

		e := newTestEnv(t, http.StatusOK, `[]`)
		w := e.do(http.MethodGet, "/", nil, &http.Cookie{Name: theme.CookieName, Value: "dark"})

		if !strings.Contains(w.Body.String(), `<html lang="en" class="dark">`) {
			t.Errorf("darkクラスが付いていない: %s", w.Body.String())
		}
		if got := w.Header().Get("Accept-CH"); got != theme.HintHeader {
			t.Errorf("Accept-CH = %q", got)
		}
	})

	t.Run("既定はライトテーマであること", func(t *testing.T) {
		t.Parallel()

		e := newTestEnv(t, http.StatusOK, `[]`)
		w := e.do(http.MethodGet, "/", nil)

		if !strings.Contains(w.Body.String(), `<html lang="en">`) {
			t.Errorf("ライトテーマになっていない")
		}
		if !strings.Contains(w.Body.String(), "<title>Bidflare</title>") {
			t.Error("タイトルが含まれない")
		}
	})
}

func TestRoleGuard(t *testing.T) {
	t.Parallel()

	t.Run("トークンが無い場合はサインイン画面へ遷移すること", func(t *testing.T) {
		t.Parallel()

		e := newTestEnv(t, http.StatusOK, `[]`)
		w := e.do(http.MethodGet, "/buyer/my-wins", nil)

		if w.Code != http.StatusSeeOther {
			t.Fatalf("ステータスコード = %d, want %d", w.Code, http.StatusSeeOther)
		}
		if got := w.Header().Get("Location"); got != "/signin?next=%2Fbuyer%2Fmy-wins" {
			t.Errorf("Location = %q", got)
		}
	})

	t.Run("ロールが一致しない場合はトップ画面へ遷移すること", func(t *testing.T) {
		t.Parallel()

		e := newTestEnv(t, http.StatusOK, `[]`)
		e.signIn(t, roleToken(t, "SELLER"))

		w := e.do(http.MethodGet, "/buyer/my-wins", nil)
		if w.Code != http.StatusSeeOther {
			t.Fatalf("ステータスコード = %d, want %d", w.Code, http.StatusSeeOther)
		}
		if got := w.Header().Get("Location"); got != "/" {
			t.Errorf("Location = %q", got)
		}
		if n := len(e.backend.received()); n != 0 {
			t.Errorf("バックエンドへのリクエスト数 = %d, want 0", n)
		}
	})

	t.Run("ロールを読み取れないトークンはトップ画面へ遷移すること", func(t *testing.T) {
		t.Parallel()

		e := newTestEnv(t, http.StatusOK, `[]`)
		e.signIn(t, "not-a-jwt")

		w := e.do(http.MethodGet, "/seller/products", nil)
		if got := w.Header().Get("Location"); got != "/" {
			t.Errorf("Location = %q", got)
		}
	})

	t.Run("購入者は落札一覧を表示できること", func(t *testing.T) {
		t.Parallel()

		e := newTestEnv(t, http.StatusOK, `[{"id":"auction-1234","productId":"product-1","lastPrice":120,"endTime":"2025-02-01T00:00:00"}]`)
		e.signIn(t, roleToken(t, "BUYER"))

		w := e.do(http.MethodGet, "/buyer/my-wins", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("ステータスコード = %d, want %d", w.Code, http.StatusOK)
		}
		reqs := e.backend.received()
		if len(reqs) != 1 || reqs[0].path != "/api/auctions/my-wins" {
			t.Fatalf("requests = %+v", reqs)
		}
		for _, want := range []string{"My Wins", "auction-...", "$120", "2025-02-01"} {
			if !strings.Contains(w.Body.String(), want) {
				t.Errorf("%q が含まれない", want)
			}
		}
	})

	t.Run("出品者は商品一覧を表示できること", func(t *testing.T) {
		t.Parallel()

		e := newTestEnv(t, http.StatusOK, `{"content":[{"id":"p1","title":"Vintage Lamp","startingPrice":80,"status":"LISTED"}],"totalPages":1}`)
		e.signIn(t, roleToken(t, "SELLER"))

		w := e.do(http.MethodGet, "/seller/products", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("ステータスコード = %d, want %d", w.Code, http.StatusOK)
		}
		reqs := e.backend.received()
		if len(reqs) != 1 || reqs[0].path != "/api/products/my-products" {
			t.Fatalf("requests = %+v", reqs)
		}
		for _, want := range []string{"My Products", "Vintage Lamp", "$80"} {
			if !strings.Contains(w.Body.String(), want) {
				t.Errorf("%q が含まれない", want)
			}
		}
	})

	t.Run("バックエンドが401を返した場合はサインイン画面へ遷移すること", func(t *testing.T) {
		t.Parallel()

		e := newTestEnv(t, http.StatusUnauthorized, `{"error":"Token expired"}`)
		e.signIn(t, roleToken(t, "BUYER"))

		w := e.do(http.MethodGet, "/buyer/my-wins", nil)
		if w.Code != http.StatusSeeOther {
			t.Fatalf("ステータスコード = %d, want %d", w.Code, http.StatusSeeOther)
		}
		if got := w.Header().Get("Location"); got != "/signin?next=%2Fbuyer%2Fmy-wins" {
			t.Errorf("Location = %q", got)
		}
		if _, ok := e.token(t); ok {
			t.Error("トークンが削除されていない")
		}
	})
}

func TestTokenRole(t *testing.T) {
	t.Parallel()

	if got, ok := tokenRole(roleToken(t, "ADMIN")); !ok || got != "ADMIN" {
		t.Errorf("tokenRole() = %q, %v", got, ok)
	}
	if _, ok := tokenRole("a.b.c"); ok {
		t.Error("不正なトークンでokがtrue")
	}
	if _, ok := tokenRole(roleToken(t, "")); ok {
		t.Error("roleが空のトークンでokがtrue")
	}
}

func TestPanicRecovery(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t, http.StatusOK, `[]`)
	e.server.router.GET("/boom", func(*gin.Context) {
		panic("boom")
	})

	w := e.do(http.MethodGet, "/boom", nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("ステータスコード = %d, want %d", w.Code, http.StatusInternalServerError)
	}
	if !strings.Contains(w.Body.String(), "Something went wrong.") {
		t.Errorf("エラー画面が表示されていない: %s", w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t, http.StatusOK, `[]`)
	_ = e.do(http.MethodGet, "/", nil)

	w := e.do(http.MethodGet, "/metrics", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("ステータスコード = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), "bidflare_page_renders_total") {
		t.Error("bidflare_page_renders_total が含まれない")
	}
}

func TestSafeNext(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"":                    "/",
		"/admin":              "/admin",
		"/admin?tab=products": "/admin?tab=products",
		"admin":               "/",
		"//evil.example.com":  "/",
		"http://evil.example": "/",
	}
	for in, want := range cases {
		if got := safeNext(in); got != want {
			t.Errorf("safeNext(%q) = %q, want %q", in, got, want)
		}
	}
}
