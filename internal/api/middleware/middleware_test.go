package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"teamhub/backend/config"
	"teamhub/backend/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestJWT() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{
		JWTSecret:       "test-secret-key-for-unit-testing-2026",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: time.Hour,
	})
}

type fakeBlacklist struct {
	revoked map[string]bool
	err     error
}

func (f *fakeBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	return f.revoked[jti], f.err
}

type fakeLimiter struct {
	allowed bool
	err     error
	keys    []string
}

func (f *fakeLimiter) CheckRateLimit(_ context.Context, key string, _ int, _ time.Duration) (bool, error) {
	f.keys = append(f.keys, key)
	return f.allowed, f.err
}

func okHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"user_id": c.GetString("user_id"),
		"role":    c.GetString("role"),
	})
}

func doRequest(r *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	r.ServeHTTP(w, req)
	return w
}

// ── CronSecret ──

func TestCronSecret(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		header string
		want   int
	}{
		{"일치", "s3cret", "s3cret", http.StatusOK},
		{"불일치", "s3cret", "wrong", http.StatusUnauthorized},
		{"헤더 없음", "s3cret", "", http.StatusUnauthorized},
		{"비밀 미설정", "", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.POST("/cron", CronSecret(tt.secret), okHandler)

			headers := map[string]string{}
			if tt.header != "" {
				headers[CronSecretHeader] = tt.header
			}
			w := doRequest(r, "POST", "/cron", headers)

			if w.Code != tt.want {
				t.Errorf("기대 %d, 실제 %d", tt.want, w.Code)
			}
		})
	}
}

// ── JWTAuth ──

func TestJWTAuth_MissingHeader(t *testing.T) {
	r := gin.New()
	r.GET("/me", JWTAuth(newTestJWT(), nil), okHandler)

	w := doRequest(r, "GET", "/me", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("기대 401, 실제 %d", w.Code)
	}
}

func TestJWTAuth_RejectsRefreshToken(t *testing.T) {
	m := newTestJWT()
	token, _ := m.GenerateRefreshToken("u1", "player", "")

	r := gin.New()
	r.GET("/me", JWTAuth(m, nil), okHandler)

	w := doRequest(r, "GET", "/me", map[string]string{"Authorization": "Bearer " + token})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Refresh Token 으로는 접근할 수 없어야 합니다, 실제 %d", w.Code)
	}
}

func TestJWTAuth_Blacklisted(t *testing.T) {
	m := newTestJWT()
	token, _ := m.GenerateAccessToken("u1", "player", "")
	claims, _ := m.ParseToken(token)

	r := gin.New()
	r.GET("/me", JWTAuth(m, &fakeBlacklist{revoked: map[string]bool{claims.ID: true}}), okHandler)

	w := doRequest(r, "GET", "/me", map[string]string{"Authorization": "Bearer " + token})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("로그아웃된 토큰은 401, 실제 %d", w.Code)
	}
}

func TestJWTAuth_BlacklistErrorPassesThrough(t *testing.T) {
	m := newTestJWT()
	token, _ := m.GenerateAccessToken("u1", "manager", "감독")

	r := gin.New()
	r.GET("/me", JWTAuth(m, &fakeBlacklist{err: errors.New("redis down")}), okHandler)

	w := doRequest(r, "GET", "/me", map[string]string{"Authorization": "Bearer " + token})
	if w.Code != http.StatusOK {
		t.Errorf("Redis 오류 시 통과, 실제 %d", w.Code)
	}
}

func TestJWTAuth_SetsContext(t *testing.T) {
	m := newTestJWT()
	token, _ := m.GenerateAccessToken("u1", "manager", "감독")

	var tag, jti string
	r := gin.New()
	r.GET("/me", JWTAuth(m, nil), func(c *gin.Context) {
		tag = c.GetString("tag")
		jti = c.GetString("token_jti")
		okHandler(c)
	})

	w := doRequest(r, "GET", "/me", map[string]string{"Authorization": "Bearer " + token})
	if w.Code != http.StatusOK {
		t.Fatalf("기대 200, 실제 %d", w.Code)
	}
	if tag != "감독" || jti == "" {
		t.Errorf("컨텍스트 값 오류: tag=%s jti=%s", tag, jti)
	}
}

// ── RoleAuth ──

func TestRoleAuth(t *testing.T) {
	for _, tt := range []struct {
		role string
		want int
	}{
		{"manager", http.StatusOK},
		{"player", http.StatusForbidden},
	} {
		r := gin.New()
		r.GET("/admin", func(c *gin.Context) { c.Set("role", tt.role) }, RoleAuth("manager"), okHandler)

		w := doRequest(r, "GET", "/admin", nil)
		if w.Code != tt.want {
			t.Errorf("role=%s 기대 %d, 실제 %d", tt.role, tt.want, w.Code)
		}
	}
}

// ── RateLimit ──

func TestRateLimit(t *testing.T) {
	denied := &fakeLimiter{allowed: false}
	r := gin.New()
	r.GET("/login", RateLimit(denied, 1, time.Minute), okHandler)

	if w := doRequest(r, "GET", "/login", nil); w.Code != http.StatusTooManyRequests {
		t.Errorf("기대 429, 실제 %d", w.Code)
	}
	if len(denied.keys) != 1 || denied.keys[0] != "rate_limit:192.0.2.1:/login" {
		t.Errorf("키 형식 오류: %v", denied.keys)
	}

	broken := &fakeLimiter{err: errors.New("redis down")}
	r = gin.New()
	r.GET("/login", RateLimit(broken, 1, time.Minute), okHandler)
	if w := doRequest(r, "GET", "/login", nil); w.Code != http.StatusOK {
		t.Errorf("Redis 오류 시 통과, 실제 %d", w.Code)
	}

	r = gin.New()
	r.GET("/login", RateLimit(nil, 1, time.Minute), okHandler)
	if w := doRequest(r, "GET", "/login", nil); w.Code != http.StatusOK {
		t.Errorf("limiter 가 없으면 통과, 실제 %d", w.Code)
	}
}

// ── RequestID / BodyLimit ──

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.GET("/x", RequestID(), okHandler)

	w := doRequest(r, "GET", "/x", map[string]string{"X-Request-ID": "abc"})
	if w.Header().Get("X-Request-ID") != "abc" {
		t.Errorf("전달된 ID 를 그대로 써야 합니다: %s", w.Header().Get("X-Request-ID"))
	}

	w = doRequest(r, "GET", "/x", nil)
	if len(w.Header().Get("X-Request-ID")) != 36 {
		t.Errorf("UUID 가 생성되어야 합니다: %s", w.Header().Get("X-Request-ID"))
	}
}

func TestBodyLimit_RejectsLargeContentLength(t *testing.T) {
	r := gin.New()
	r.POST("/x", BodyLimit(10), okHandler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/x", nil)
	req.ContentLength = 11
	r.ServeHTTP(w, req)

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("기대 413, 실제 %d", w.Code)
	}
}
