package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BrowserCookie はブラウザを識別するCookie名。
const BrowserCookie = "bidflare_sid"

// browserIDKey はgin.Contextにブラウザ識別子を保存するキー。
const browserIDKey = "browser_id"

// browserIdentity はブラウザ識別子を割り当てるGinミドルウェアを返す。
// Cookieが無いか不正な値の場合は新しいUUIDを発行する。
func browserIdentity(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := ""
		if v, err := c.Cookie(BrowserCookie); err == nil {
			if parsed, err := uuid.Parse(v); err == nil {
				id = parsed.String()
			}
		}
		if id == "" {
			id = uuid.New().String()
			http.SetCookie(c.Writer, &http.Cookie{
				Name:     BrowserCookie,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				Secure:   secure,
				SameSite: http.SameSiteLaxMode,
			})
		}
		c.Set(browserIDKey, id)
		c.Next()
	}
}

// browserID はリクエストのブラウザ識別子を返す。
func browserID(c *gin.Context) string {
	return c.GetString(browserIDKey)
}
