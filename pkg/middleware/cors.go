package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
)

const (
	// corsAllowMethods は開発用バックエンドが受け付けるメソッド。
	corsAllowMethods = "GET, POST, OPTIONS"
	// corsAllowHeaders はWebクライアントが送信するヘッダー。
	corsAllowHeaders = "Authorization, Content-Type"
	// corsMaxAge はプリフライト結果のキャッシュ秒数。
	corsMaxAge = "86400"
)

// CORS は指定されたオリジンからのクロスオリジンリクエストを許可するGinミドルウェアを返す。
// allowedOriginsに "*" を含めると全オリジンを許可する。
//
// プリフライト（Access-Control-Request-Method付きのOPTIONS）は204で応答し、
// 許可されていないオリジンからのプリフライトは403で拒否する。
func CORS(allowedOrigins []string) gin.HandlerFunc {
	allowAny := slices.Contains(allowedOrigins, "*")
	originsSet := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		originsSet[o] = struct{}{}
	}

	allowed := func(origin string) bool {
		if origin == "" {
			return false
		}
		if allowAny {
			return true
		}
		_, ok := originsSet[origin]
		return ok
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		c.Writer.Header().Add("Vary", "Origin")

		ok := allowed(origin)
		if ok {
			c.Header("Access-Control-Allow-Origin", origin)
		}

		preflight := c.Request.Method == http.MethodOptions && c.GetHeader("Access-Control-Request-Method") != ""
		if !preflight {
			c.Next()
			return
		}

		if !ok {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Header("Access-Control-Allow-Methods", corsAllowMethods)
		c.Header("Access-Control-Allow-Headers", corsAllowHeaders)
		c.Header("Access-Control-Max-Age", corsMaxAge)
		c.AbortWithStatus(http.StatusNoContent)
	}
}
