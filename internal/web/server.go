package web

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nao1215/bidflare/internal/config"
	"github.com/nao1215/bidflare/internal/dashboard"
	"github.com/nao1215/bidflare/internal/theme"
	"github.com/nao1215/bidflare/pkg/httpclient"
	"github.com/nao1215/bidflare/pkg/metrics"
	"github.com/nao1215/bidflare/pkg/middleware"
	"github.com/nao1215/bidflare/pkg/navigation"
	"github.com/nao1215/bidflare/pkg/session"
)

// Server はWebクライアントのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// cfg はWebクライアントの設定。
	cfg config.WebConfig
	// store はブラウザごとのトークンを保持するセッションストア。
	store session.Store
	// closer はサーバー停止時にセッションストアを閉じる。
	closer io.Closer
	// httpClient はゲートウェイが使用するHTTPクライアント。全リクエストで共有する。
	httpClient *http.Client
}

// NewServer は設定からWebクライアントのサーバーを生成する。
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	store, closer, err := OpenStore(ctx, cfg.Session)
	if err != nil {
		return nil, err
	}
	log.Printf("[Web] セッションストア: %s", cfg.Session.Store)
	return newServer(cfg.Web, store, closer, &http.Client{}), nil
}

// newServer はストアとHTTPクライアントを指定してサーバーを生成する。
func newServer(cfg config.WebConfig, store session.Store, closer io.Closer, hc *http.Client) *Server {
	if closer == nil {
		closer = nopCloser{}
	}

	router := gin.New()
	router.Use(gin.Logger())

	s := &Server{
		router:     router,
		cfg:        cfg,
		store:      store,
		closer:     closer,
		httpClient: hc,
	}
	router.Use(middleware.Recovery(s.handlePanic))
	router.Use(browserIdentity(cfg.SecureCookies))
	s.setupRoutes()

	return s
}

// Run はHTTPサーバーを起動する。
func (s *Server) Run() error {
	return s.router.Run(fmt.Sprintf(":%s", s.cfg.Port))
}

// Handler はルーティング済みのhttp.Handlerを返す。
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close はセッションストアを閉じる。
func (s *Server) Close() error {
	return s.closer.Close()
}

// setupRoutes はルーティングを設定する。
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleHome())
	s.router.GET("/signin", s.handleSignInForm())
	s.router.POST("/signin", s.handleSignIn())
	s.router.POST("/signout", s.handleSignOut())
	s.router.POST("/theme", s.handleToggleTheme())

	// 管理者ダッシュボード（権限はバックエンドが判定する）
	s.router.GET("/admin", s.handleAdmin())

	buyer := s.router.Group("/buyer")
	buyer.Use(s.requireRole("BUYER"))
	{
		buyer.GET("/my-wins", s.handleList(listPage{
			name:     "buyer_wins",
			title:    "My Wins",
			tab:      dashboard.TabAuctions,
			endpoint: "auctions/my-wins",
		}))
	}

	seller := s.router.Group("/seller")
	seller.Use(s.requireRole("SELLER"))
	{
		seller.GET("/products", s.handleList(listPage{
			name:     "seller_products",
			title:    "My Products",
			tab:      dashboard.TabProducts,
			endpoint: "products/my-products",
		}))
	}

	// ヘルスチェック
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "web"})
	})

	// Prometheusメトリクス
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// session はリクエストのブラウザに対応するセッションを返す。
func (s *Server) session(c *gin.Context) *session.Session {
	return session.New(s.store, browserID(c))
}

// gateway はリクエスト専用のゲートウェイと遷移要求の記録を返す。
func (s *Server) gateway(c *gin.Context) (*httpclient.Client, *navigation.Recorder) {
	rec := navigation.NewRecorder()
	gw := httpclient.New(s.cfg.APIBaseURL, s.session(c), rec, httpclient.WithHTTPClient(s.httpClient))
	return gw, rec
}

// followNavigation はゲートウェイが遷移を要求していれば303で応答してtrueを返す。
func (s *Server) followNavigation(c *gin.Context, rec *navigation.Recorder) bool {
	if !rec.Redirected() {
		return false
	}
	target := rec.Last()
	if target == navigation.SignInPath {
		target = signInURL(c.Request.URL.RequestURI())
	}
	c.Redirect(http.StatusSeeOther, target)
	return true
}

// page は共通レイアウトに渡す画面情報を組み立てる。
func (s *Server) page(c *gin.Context, title string) pageData {
	_, signedIn, err := s.session(c).Token(c.Request.Context())
	if err != nil {
		log.Printf("[Web] トークンの取得に失敗: path=%s, error=%v", c.Request.URL.Path, err)
	}
	return pageData{
		Title:    title,
		Theme:    theme.Resolve(c.Request),
		SignedIn: signedIn,
		Path:     c.Request.URL.RequestURI(),
	}
}

// signInURL はサインイン後にnextへ戻るサインイン画面のURLを返す。
func signInURL(next string) string {
	if next == "" || next == "/" {
		return navigation.SignInPath
	}
	return navigation.SignInPath + "?" + url.Values{"next": {next}}.Encode()
}

// safeNext はリダイレクト先として安全な相対パスを返す。
// 外部サイトへの遷移になりうる値は "/" に置き換える。
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

// observePage は画面の描画結果をメトリクスに記録する。
func observePage(page, result string) {
	metrics.PageRenders.WithLabelValues(page, result).Inc()
}
