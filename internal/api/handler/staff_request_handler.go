package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"teamhub/backend/internal/dto"
	"teamhub/backend/internal/service"
	pkgerrors "teamhub/backend/pkg/errors"
	"teamhub/backend/pkg/response"
)

// StaffRequestHandler 스태프 요청 모듈 HTTP 처리기
type StaffRequestHandler struct {
	staffSvc service.StaffRequestService
}

// NewStaffRequestHandler StaffRequestHandler 생성
func NewStaffRequestHandler(staffSvc service.StaffRequestService) *StaffRequestHandler {
	return &StaffRequestHandler{staffSvc: staffSvc}
}

// CreateRequest 스태프 요청 생성 (draft=true 면 임시 저장)
// POST /api/v1/staff-requests
func (h *StaffRequestHandler) CreateRequest(c *gin.Context) {
	var req dto.CreateStaffRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "입력값 검증에 실패했습니다")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.staffSvc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleStaffRequestError(c, err)
		return
	}

	response.Created(c, result)
}

// GetRequest 요청 상세
// GET /api/v1/staff-requests/:id
func (h *StaffRequestHandler) GetRequest(c *gin.Context) {
	result, err := h.staffSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleStaffRequestError(c, err)
		return
	}

	response.OK(c, result)
}

// ListMine 내 요청 목록 (철회한 요청 제외)
// GET /api/v1/staff-requests/me
func (h *StaffRequestHandler) ListMine(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.staffSvc.ListMine(c.Request.Context(), userID)
	if err != nil {
		h.handleStaffRequestError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// ListPending 내가 승인할 수 있는 대기 요청
// GET /api/v1/staff-requests/pending
func (h *StaffRequestHandler) ListPending(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.staffSvc.ListPending(c.Request.Context(), userID)
	if err != nil {
		h.handleStaffRequestError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// ListAll 전체 요청 (매니저)
// GET /api/v1/staff-requests
func (h *StaffRequestHandler) ListAll(c *gin.Context) {
	list, err := h.staffSvc.ListAll(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// ListByEvent 일정별 요청
// GET /api/v1/events/:id/staff-requests
func (h *StaffRequestHandler) ListByEvent(c *gin.Context) {
	list, err := h.staffSvc.ListByEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleStaffRequestError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// Submit draft 제출
// POST /api/v1/staff-requests/:id/submit
func (h *StaffRequestHandler) Submit(c *gin.Context) {
	h.requesterAction(c, h.staffSvc.Submit)
}

// Withdraw 요청 철회
// POST /api/v1/staff-requests/:id/withdraw
func (h *StaffRequestHandler) Withdraw(c *gin.Context) {
	h.requesterAction(c, h.staffSvc.Withdraw)
}

// StartReview 검토 시작
// POST /api/v1/staff-requests/:id/review
func (h *StaffRequestHandler) StartReview(c *gin.Context) {
	h.requesterAction(c, h.staffSvc.StartReview)
}

// Approve 승인. 대상 일정의 출석이 불참으로 바뀐다.
// POST /api/v1/staff-requests/:id/approve
func (h *StaffRequestHandler) Approve(c *gin.Context) {
	h.reviewAction(c, h.staffSvc.Approve)
}

// ConditionallyApprove 조건부 승인 (notes 필수)
// POST /api/v1/staff-requests/:id/conditional-approve
func (h *StaffRequestHandler) ConditionallyApprove(c *gin.Context) {
	h.reviewAction(c, h.staffSvc.ConditionallyApprove)
}

// Reject 반려
// POST /api/v1/staff-requests/:id/reject
func (h *StaffRequestHandler) Reject(c *gin.Context) {
	h.reviewAction(c, h.staffSvc.Reject)
}

type staffAction func(ctx context.Context, callerID, requestID string) (*dto.StaffRequestResponse, error)

type staffReviewAction func(ctx context.Context, approverID, requestID, notes string) (*dto.StaffRequestResponse, error)

func (h *StaffRequestHandler) requesterAction(c *gin.Context, action staffAction) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := action(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.handleStaffRequestError(c, err)
		return
	}

	response.OK(c, result)
}

func (h *StaffRequestHandler) reviewAction(c *gin.Context, action staffReviewAction) {
	var req dto.ReviewStaffRequestRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, 10001, "입력값 검증에 실패했습니다")
			return
		}
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := action(c.Request.Context(), userID, c.Param("id"), req.Notes)
	if err != nil {
		h.handleStaffRequestError(c, err)
		return
	}

	response.OK(c, result)
}

func (h *StaffRequestHandler) handleStaffRequestError(c *gin.Context, err error) {
	var denied *service.ApprovalDeniedError
	switch {
	case errors.As(err, &denied):
		response.Forbidden(c, 15001, denied.Reason)
	case errors.Is(err, service.ErrApprovalDenied):
		response.Forbidden(c, 15001, "승인 권한이 없습니다")
	case errors.Is(err, service.ErrStaffRequestNotFound):
		response.NotFound(c, 15002, "스태프 요청이 존재하지 않습니다")
	case errors.Is(err, service.ErrEventNotFound):
		response.NotFound(c, 13001, "일정이 존재하지 않습니다")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 12001, "사용자가 존재하지 않습니다")
	case errors.Is(err, service.ErrNotCoachingStaff):
		response.Forbidden(c, 15003, "코칭스태프만 스태프 요청을 제출할 수 있습니다")
	case errors.Is(err, service.ErrNotRequester):
		response.Forbidden(c, 15004, "본인의 요청만 처리할 수 있습니다")
	case errors.Is(err, service.ErrRequestConflict):
		response.Conflict(c, 15005, "이미 처리 중인 같은 유형의 요청이 있습니다. 기존 요청을 철회한 후 다시 시도해주세요.")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 15006, "다른 사용자가 먼저 요청을 변경했습니다. 새로고침 후 다시 시도해주세요.")
	case errors.Is(err, service.ErrInvalidTransition):
		response.Conflict(c, 15007, "현재 상태에서 허용되지 않는 요청 상태 변경입니다")
	case errors.Is(err, service.ErrRequestExpired):
		response.Conflict(c, 15008, "만료된 요청입니다")
	case errors.Is(err, service.ErrEventClosed):
		response.Conflict(c, 15009, "종료되었거나 취소된 일정입니다")
	case errors.Is(err, service.ErrMissingRequiredField):
		response.BadRequest(c, 15010, err.Error())
	case errors.Is(err, service.ErrReviewNotesRequired):
		response.BadRequest(c, 15011, "조건부 승인에는 조건 내용이 필요합니다")
	case errors.Is(err, service.ErrSubstituteNotFound):
		response.BadRequest(c, 15012, "대체 인원이 존재하지 않거나 비활성 상태입니다")
	default:
		response.InternalError(c)
	}
}
