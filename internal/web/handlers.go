package web

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"

	"github.com/nao1215/bidflare/internal/dashboard"
	"github.com/nao1215/bidflare/internal/render"
	"github.com/nao1215/bidflare/internal/theme"
)

const (
	siteTitle  = "Bidflare"
	adminTitle = "BidFlare Admin"
)

// listPage は購入者・出品者向け一覧画面の定義。
type listPage struct {
	// name はメトリクスのページ名。
	name string
	// title は画面の見出し。
	title string
	// tab はレコードの種類。
	tab dashboard.Tab
	// endpoint はバックエンドのエンドポイント。
	endpoint string
}

// handleHome はトップ画面を表示するハンドラを返す。
func (s *Server) handleHome() gin.HandlerFunc {
	return func(c *gin.Context) {
		pd := s.page(c, siteTitle)
		s.render(c, http.StatusOK, pd, homeView(pd.SignedIn))
		observePage("home", "ok")
	}
}

// handleSignInForm はサインインフォームを表示するハンドラを返す。
func (s *Server) handleSignInForm() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.render(c, http.StatusOK, s.page(c, siteTitle), signInView(safeNext(c.Query("next")), ""))
		observePage("signin", "ok")
	}
}

// handleSignIn は入力されたトークンをセッションに保存するハンドラを返す。
func (s *Server) handleSignIn() gin.HandlerFunc {
	return func(c *gin.Context) {
		next := safeNext(c.PostForm("next"))
		token := strings.TrimSpace(c.PostForm("token"))
		if token == "" {
			s.render(c, http.StatusBadRequest, s.page(c, siteTitle), signInView(next, "Please enter your access token."))
			observePage("signin", "invalid")
			return
		}

		if err := s.session(c).SetToken(c.Request.Context(), token); err != nil {
			log.Printf("[Web] トークンの保存に失敗: error=%v", err)
			s.renderError(c, http.StatusInternalServerError, "Could not sign in. Please try again.")
			return
		}
		log.Printf("[Web] サインインしました: browser=%s", browserID(c))
		c.Redirect(http.StatusSeeOther, next)
	}
}

// handleSignOut はセッションのトークンを削除するハンドラを返す。
func (s *Server) handleSignOut() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.session(c).Clear(c.Request.Context()); err != nil {
			log.Printf("[Web] トークンの削除に失敗: error=%v", err)
			s.renderError(c, http.StatusInternalServerError, "Could not sign out. Please try again.")
			return
		}
		c.Redirect(http.StatusSeeOther, "/")
	}
}

// handleToggleTheme はテーマを切り替えてCookieに保存するハンドラを返す。
func (s *Server) handleToggleTheme() gin.HandlerFunc {
	return func(c *gin.Context) {
		next := theme.Resolve(c.Request).Toggle()
		http.SetCookie(c.Writer, next.Cookie(s.cfg.SecureCookies))
		c.Redirect(http.StatusSeeOther, safeNext(c.PostForm("next")))
	}
}

// handleAdmin は管理者ダッシュボードを表示するハンドラを返す。
func (s *Server) handleAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		gw, rec := s.gateway(c)
		q := dashboard.ParseQuery(c.Request.URL.Query())

		result, err := dashboard.Load(c.Request.Context(), gw, q)
		if s.followNavigation(c, rec) {
			observePage("admin", "redirect")
			return
		}

		status := "ok"
		if err != nil {
			// 取得に失敗した場合は空の一覧を表示する
			log.Printf("[Web] 管理者データの取得に失敗: endpoint=%s, error=%v", q.Endpoint(), err)
			status = "error"
		}
		s.render(c, http.StatusOK, s.page(c, adminTitle), dashboard.View(result, "/admin"))
		observePage("admin", status)
	}
}

// handleList は購入者・出品者向けの一覧を表示するハンドラを返す。
func (s *Server) handleList(p listPage) gin.HandlerFunc {
	return func(c *gin.Context) {
		gw, rec := s.gateway(c)

		records, _, err := dashboard.LoadList(c.Request.Context(), gw, p.tab, p.endpoint)
		if s.followNavigation(c, rec) {
			observePage(p.name, "redirect")
			return
		}

		status := "ok"
		if err != nil {
			if !errors.Is(err, dashboard.ErrUnauthorized) {
				log.Printf("[Web] 一覧の取得に失敗: endpoint=%s, error=%v", p.endpoint, err)
			}
			records = dashboard.Empty(p.tab)
			status = "error"
		}
		s.render(c, http.StatusOK, s.page(c, siteTitle), listView(p.title, records))
		observePage(p.name, status)
	}
}

// handlePanic はパニック発生時にエラー画面を表示する。
func (s *Server) handlePanic(c *gin.Context, _ any) {
	s.renderError(c, http.StatusInternalServerError, "Something went wrong. Please try again.")
	observePage("panic", "error")
}

// render は共通レイアウトでbodyを描画する。
func (s *Server) render(c *gin.Context, status int, pd pageData, body templ.Component) {
	// ブラウザにカラースキームのクライアントヒントを要求する
	c.Header("Accept-CH", theme.HintHeader)
	render.Component(c, status, layout(pd, body))
}

// renderError はエラー画面を描画する。
func (s *Server) renderError(c *gin.Context, status int, message string) {
	s.render(c, status, s.page(c, siteTitle), errorView(message))
}
