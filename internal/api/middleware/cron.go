package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"teamhub/backend/pkg/response"
)

// CronSecretHeader 외부 스케줄러가 보내는 공유 비밀 헤더
const CronSecretHeader = "x-cron-secret"

// CronSecret 주기 작업 엔드포인트 인증
// secret 이 비어 있으면 모든 요청을 거부한다.
func CronSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		given := c.GetHeader(CronSecretHeader)
		if secret == "" || subtle.ConstantTimeCompare([]byte(given), []byte(secret)) != 1 {
			response.Unauthorized(c, 10002, "Unauthorized")
			c.Abort()
			return
		}
		c.Next()
	}
}
