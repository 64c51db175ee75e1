package web

import (
	"log"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// tokenRole はトークンのroleクレームを署名を検証せずに取り出す。
// 画面の出し分けにのみ使用し、認可の判断はバックエンドが行う。
func tokenRole(token string) (string, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", false
	}
	role, ok := claims["role"].(string)
	if !ok || role == "" {
		return "", false
	}
	return role, true
}

// requireRole は指定したロールのユーザーのみ画面を表示するGinミドルウェアを返す。
// トークンが無い場合はサインイン画面へ、ロールが一致しない場合はトップ画面へ遷移させる。
func (s *Server) requireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok, err := s.session(c).Token(c.Request.Context())
		if err != nil {
			log.Printf("[Web] トークンの取得に失敗: path=%s, error=%v", c.Request.URL.Path, err)
			s.renderError(c, http.StatusInternalServerError, "Something went wrong. Please try again.")
			c.Abort()
			return
		}
		if !ok {
			c.Redirect(http.StatusSeeOther, signInURL(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}

		role, ok := tokenRole(token)
		if !ok || !slices.Contains(roles, role) {
			log.Printf("[Web] ロールが一致しないためトップ画面へ遷移します: path=%s, role=%q", c.Request.URL.Path, role)
			c.Redirect(http.StatusSeeOther, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}
