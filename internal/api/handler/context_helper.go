package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"teamhub/backend/pkg/response"
)

// MustGetUserID Gin 컨텍스트에서 user_id 를 꺼낸다.
// JWT 미들웨어가 값을 넣지 않았다면 401 을 쓰고 false 를 반환한다.
// 호출하는 쪽은 ok=false 일 때 바로 return 한다.
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "인증되지 않았습니다")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "인증되지 않았습니다")
		return "", false
	}
	return s, true
}

// MustGetRole Gin 컨텍스트에서 role 을 꺼낸다.
func MustGetRole(c *gin.Context) (string, bool) {
	v, exists := c.Get("role")
	if !exists {
		response.Unauthorized(c, 10002, "인증되지 않았습니다")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "인증되지 않았습니다")
		return "", false
	}
	return s, true
}

// tokenInfo 현재 Access Token 의 jti, 만료 시각
func tokenInfo(c *gin.Context) (string, time.Time) {
	jti := c.GetString("token_jti")
	exp, _ := c.Get("token_exp")
	expAt, _ := exp.(time.Time)
	return jti, expAt
}
