package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"teamhub/backend/pkg/response"
)

// RateLimiter 슬라이딩 윈도우 요청 빈도 판정 (Redis)
type RateLimiter interface {
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimit Redis 슬라이딩 윈도우 기반 요청 빈도 제한
// limiter 가 nil 이거나 Redis 오류가 나면 통과시킨다 (JWTAuth 와 같은 정책)
func RateLimit(limiter RateLimiter, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		key := fmt.Sprintf("rate_limit:%s:%s", c.ClientIP(), c.FullPath())
		allowed, err := limiter.CheckRateLimit(c.Request.Context(), key, limit, window)
		if err != nil {
			c.Next()
			return
		}

		if !allowed {
			response.Error(c, http.StatusTooManyRequests, 10004, "요청이 너무 많습니다. 잠시 후 다시 시도해주세요.")
			c.Abort()
			return
		}

		c.Next()
	}
}
