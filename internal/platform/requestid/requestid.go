// Package requestid は X-Request-ID の付与と取得を行う。
package requestid

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	Header = "X-Request-ID"
	ctxKey = "request_id"

	maxLen = 128
)

// Middleware: クライアント指定の X-Request-ID があれば引き継ぎ、無ければ UUIDv4 を採番する
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(Header))
		if id == "" || len(id) > maxLen {
			id = uuid.NewString()
		}
		c.Set(ctxKey, id)
		c.Header(Header, id)
		c.Next()
	}
}

// From はミドルウェアが設定した ID を返す（未設定なら空文字）
func From(c *gin.Context) string {
	return c.GetString(ctxKey)
}
