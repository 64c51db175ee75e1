package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// PanicHandler はパニック発生時のレスポンスを書き込む関数。
type PanicHandler func(c *gin.Context, recovered any)

// Recovery はパニックからの回復を行うGinミドルウェアを返す。
// パニック発生時にログを出力し、onPanicが指定されていればそれでレスポンスを書き込む。
// 指定が無ければJSONで500エラーを返す。
func Recovery(onPanic ...PanicHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[PANIC] %s %s: %v", c.Request.Method, c.Request.URL.Path, r)
				if len(onPanic) > 0 && onPanic[0] != nil {
					onPanic[0](c, r)
					c.Abort()
					return
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
			}
		}()
		c.Next()
	}
}
