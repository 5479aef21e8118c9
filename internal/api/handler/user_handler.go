package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"teamhub/backend/internal/dto"
	"teamhub/backend/internal/service"
	"teamhub/backend/pkg/response"
)

// UserHandler 사용자 모듈 HTTP 처리기
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler UserHandler 생성
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// GetCurrentUser 내 정보
// GET /api/v1/users/me
func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	user, err := h.userSvc.GetByID(c.Request.Context(), userID)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OK(c, user)
}

// GetUser 사용자 상세
// GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OK(c, user)
}

// ListUsers 사용자 목록
// GET /api/v1/users?include_inactive=true
func (h *UserHandler) ListUsers(c *gin.Context) {
	var req dto.UserListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "입력값 검증에 실패했습니다")
		return
	}

	users, err := h.userSvc.List(c.Request.Context(), req.IncludeInactive)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": users})
}

// ListCoachingStaff 코칭스태프 목록
// GET /api/v1/users/staff
func (h *UserHandler) ListCoachingStaff(c *gin.Context) {
	staff, err := h.userSvc.ListCoachingStaff(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": staff})
}

// UpdateUser 프로필 수정 (본인 또는 매니저, Service 에서 권한 확인)
// PUT /api/v1/users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "입력값 검증에 실패했습니다")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	user, err := h.userSvc.Update(c.Request.Context(), callerID, c.Param("id"), &req)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OK(c, user)
}

// DeactivateUser 사용자 비활성화 (매니저)
// DELETE /api/v1/users/:id
func (h *UserHandler) DeactivateUser(c *gin.Context) {
	if err := h.userSvc.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *UserHandler) handleUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 12001, "사용자가 존재하지 않습니다")
	case errors.Is(err, service.ErrPermissionDenied):
		response.Forbidden(c, 12002, "권한이 없습니다")
	case errors.Is(err, service.ErrNumberTaken):
		response.Conflict(c, 12003, "이미 사용 중인 등번호입니다")
	case errors.Is(err, service.ErrInvalidRole):
		response.BadRequest(c, 12004, "허용되지 않은 권한 값입니다")
	default:
		response.InternalError(c)
	}
}
