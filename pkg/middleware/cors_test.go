package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

// newCORSRouter はCORSミドルウェアを適用したテスト用ルーターを生成する。
func newCORSRouter(origins []string) (*gin.Engine, *bool) {
	called := false
	router := gin.New()
	router.Use(CORS(origins))
	router.GET("/api/admin/users", func(c *gin.Context) {
		called = true
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.OPTIONS("/api/admin/users", func(c *gin.Context) {
		called = true
		c.Status(http.StatusOK)
	})
	return router, &called
}

// preflight はプリフライトリクエストを生成する。
func preflight(origin string) *http.Request {
	req := httptest.NewRequest(http.MethodOptions, "/api/admin/users", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	req.Header.Set("Access-Control-Request-Headers", "authorization")
	return req
}

// TestCORS はCORSミドルウェアを検証する。
func TestCORS(t *testing.T) {
	t.Parallel()

	t.Run("許可されたオリジンからのリクエストにCORSヘッダーが設定されること", func(t *testing.T) {
		t.Parallel()

		router, called := newCORSRouter([]string{"http://localhost:3000", "https://bidflare.example.com"})
		req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
		req.Header.Set("Origin", "https://bidflare.example.com")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusOK)
		}
		if !*called {
			t.Error("ハンドラーが実行されていない")
		}
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://bidflare.example.com" {
			t.Errorf("Access-Control-Allow-Origin = %q", got)
		}
		if got := w.Header().Get("Vary"); got != "Origin" {
			t.Errorf("Vary = %q, want %q", got, "Origin")
		}
	})

	t.Run("許可されていないオリジンにはCORSヘッダーが設定されないこと", func(t *testing.T) {
		t.Parallel()

		router, called := newCORSRouter([]string{"http://localhost:3000"})
		req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("Access-Control-Allow-Origin = %q, want empty string", got)
		}
		if !*called {
			t.Error("単純リクエストはハンドラーまで到達するべき")
		}
	})

	t.Run("プリフライトで204が返りリクエストが中断されること", func(t *testing.T) {
		t.Parallel()

		router, called := newCORSRouter([]string{"http://localhost:3000"})
		w := httptest.NewRecorder()

		router.ServeHTTP(w, preflight("http://localhost:3000"))

		if w.Code != http.StatusNoContent {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusNoContent)
		}
		if *called {
			t.Error("プリフライトでハンドラーが実行された")
		}
		if got := w.Header().Get("Access-Control-Allow-Methods"); got != "GET, POST, OPTIONS" {
			t.Errorf("Access-Control-Allow-Methods = %q", got)
		}
		if got := w.Header().Get("Access-Control-Allow-Headers"); got != "Authorization, Content-Type" {
			t.Errorf("Access-Control-Allow-Headers = %q", got)
		}
	})

	t.Run("許可されていないオリジンからのプリフライトは403になること", func(t *testing.T) {
		t.Parallel()

		router, called := newCORSRouter([]string{"http://localhost:3000"})
		w := httptest.NewRecorder()

		router.ServeHTTP(w, preflight("https://evil.example.com"))

		if w.Code != http.StatusForbidden {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusForbidden)
		}
		if *called {
			t.Error("拒否したプリフライトでハンドラーが実行された")
		}
	})

	t.Run("ワイルドカードは全オリジンを許可すること", func(t *testing.T) {
		t.Parallel()

		router, _ := newCORSRouter([]string{"*"})
		w := httptest.NewRecorder()

		router.ServeHTTP(w, preflight("https://anywhere.example.com"))

		if w.Code != http.StatusNoContent {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusNoContent)
		}
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://anywhere.example.com" {
			t.Errorf("Access-Control-Allow-Origin = %q", got)
		}
	})

	t.Run("Access-Control-Request-Methodの無いOPTIONSはハンドラーに渡ること", func(t *testing.T) {
		t.Parallel()

		router, called := newCORSRouter([]string{"http://localhost:3000"})
		req := httptest.NewRequest(http.MethodOptions, "/api/admin/users", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if !*called {
			t.Error("ハンドラーが実行されていない")
		}
	})
}
