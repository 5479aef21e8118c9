package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"teamhub/backend/pkg/jwt"
	"teamhub/backend/pkg/response"
)

// TokenBlacklist 로그아웃된 토큰 조회
type TokenBlacklist interface {
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// JWTAuth JWT 인증 미들웨어
// Authorization: Bearer <token> 에서 Access Token 을 꺼내 검증한다.
// blacklist 가 nil 이면 블랙리스트 확인을 생략한다.
func JWTAuth(jwtMgr *jwt.Manager, blacklist TokenBlacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "인증 헤더가 없습니다")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, 10002, "인증 헤더 형식이 올바르지 않습니다")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, 10002, "토큰이 유효하지 않거나 만료되었습니다")
			c.Abort()
			return
		}

		if claims.TokenType != "access" {
			response.Unauthorized(c, 10002, "토큰 종류가 올바르지 않습니다")
			c.Abort()
			return
		}

		// Redis 오류 시에는 통과시킨다
		if blacklist != nil {
			revoked, err := blacklist.IsBlacklisted(c.Request.Context(), claims.ID)
			if err == nil && revoked {
				response.Unauthorized(c, 10002, "로그아웃된 토큰입니다")
				c.Abort()
				return
			}
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Set("tag", claims.Tag)
		c.Set("token_jti", claims.ID)
		c.Set("token_exp", claims.ExpiresAt.Time)

		c.Next()
	}
}

// RoleAuth 권한 미들웨어
// 현재 사용자가 지정한 권한 중 하나를 가지고 있는지 확인한다
func RoleAuth(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			response.Unauthorized(c, 10002, "인증되지 않았습니다")
			c.Abort()
			return
		}

		userRole, _ := role.(string)
		for _, r := range allowedRoles {
			if userRole == r {
				c.Next()
				return
			}
		}

		response.Forbidden(c, 10003, "접근 권한이 없습니다")
		c.Abort()
	}
}
