package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"teamhub/backend/internal/dto"
	"teamhub/backend/internal/service"
	"teamhub/backend/pkg/response"
)

// AuthHandler 인증 모듈 HTTP 처리기
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler AuthHandler 생성
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Signup 가입
// POST /api/v1/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "입력값 검증에 실패했습니다")
		return
	}

	user, err := h.authSvc.Signup(c.Request.Context(), &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.Created(c, user)
}

// Login 이름 + 등번호 로그인
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "입력값 검증에 실패했습니다")
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, result)
}

// RefreshToken 토큰 갱신
// POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "refresh_token 이 필요합니다")
		return
	}

	result, err := h.authSvc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, result)
}

// Logout 로그아웃
// POST /api/v1/auth/logout
// 본문의 refresh_token 은 선택이다.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	_ = c.ShouldBindJSON(&req)

	jti, exp := tokenInfo(c)
	if jti == "" {
		response.Unauthorized(c, 10002, "인증되지 않았습니다")
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), jti, exp, req.RefreshToken); err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// CheckNumber 등번호 사용 가능 여부
// GET /api/v1/auth/check-number?number=10
func (h *AuthHandler) CheckNumber(c *gin.Context) {
	number, err := strconv.Atoi(c.Query("number"))
	if err != nil || number < 0 || number > 999 {
		response.BadRequest(c, 10001, "등번호는 0~999 사이의 숫자여야 합니다")
		return
	}

	result, err := h.authSvc.CheckNumberAvailability(c.Request.Context(), number)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

func (h *AuthHandler) handleAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, 11001, "이름 또는 등번호가 올바르지 않습니다")
	case errors.Is(err, service.ErrUserInactive):
		response.Forbidden(c, 11002, "비활성화된 계정입니다")
	case errors.Is(err, service.ErrNumberTaken):
		response.Conflict(c, 11003, "이미 사용 중인 등번호입니다")
	case errors.Is(err, service.ErrInvalidRefreshToken):
		response.Unauthorized(c, 11004, "유효하지 않은 Refresh Token 입니다")
	case errors.Is(err, service.ErrTokenRevoked):
		response.Unauthorized(c, 11005, "로그아웃된 토큰입니다")
	default:
		response.InternalError(c)
	}
}
