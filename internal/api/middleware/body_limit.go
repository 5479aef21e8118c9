package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"teamhub/backend/pkg/response"
)

// BodyLimit 요청 본문 크기 제한 미들웨어
// maxBytes: 허용하는 최대 바이트 수 (예: 1<<20 = 1MB)
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			response.Error(c, http.StatusRequestEntityTooLarge, 10005, "요청 본문이 너무 큽니다")
			c.Abort()
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()
	}
}
