package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"teamhub/backend/internal/dto"
	"teamhub/backend/internal/service"
	"teamhub/backend/pkg/response"
)

// EventHandler 일정 모듈 HTTP 처리기
type EventHandler struct {
	eventSvc service.EventService
}

// NewEventHandler EventHandler 생성
func NewEventHandler(eventSvc service.EventService) *EventHandler {
	return &EventHandler{eventSvc: eventSvc}
}

// ListEvents 일정 목록
// GET /api/v1/events?status=upcoming
func (h *EventHandler) ListEvents(c *gin.Context) {
	var req dto.EventListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "입력값 검증에 실패했습니다")
		return
	}

	events, err := h.eventSvc.List(c.Request.Context(), req.Status)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": events})
}

// GetEvent 일정 상세
// GET /api/v1/events/:id
func (h *EventHandler) GetEvent(c *gin.Context) {
	event, err := h.eventSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OK(c, event)
}

// CreateEvent 일정 생성 (매니저)
// POST /api/v1/events
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "입력값 검증에 실패했습니다")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	event, err := h.eventSvc.Create(c.Request.Context(), callerID, &req)
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.Created(c, event)
}

// UpdateEvent 일정 수정 (매니저, upcoming 만)
// PUT /api/v1/events/:id
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	var req dto.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "입력값 검증에 실패했습니다")
		return
	}

	event, err := h.eventSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OK(c, event)
}

// CancelEvent 일정 취소 (매니저)
// POST /api/v1/events/:id/cancel
func (h *EventHandler) CancelEvent(c *gin.Context) {
	event, err := h.eventSvc.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OK(c, event)
}

// DeleteEvent 일정 삭제, 출석/스태프 요청 포함 (매니저)
// DELETE /api/v1/events/:id
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	if err := h.eventSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OK(c, nil)
}

// RefreshStatus 한 일정의 시간 기반 상태 전이를 즉시 적용
// POST /api/v1/events/:id/refresh-status
func (h *EventHandler) RefreshStatus(c *gin.Context) {
	event, err := h.eventSvc.RefreshStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OK(c, event)
}

func (h *EventHandler) handleEventError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		response.NotFound(c, 13001, "일정이 존재하지 않습니다")
	case errors.Is(err, service.ErrEventNotEditable):
		response.Conflict(c, 13002, "예정된 일정만 수정할 수 있습니다")
	case errors.Is(err, service.ErrInvalidEventTransition):
		response.Conflict(c, 13003, "현재 상태에서는 변경할 수 없는 일정입니다")
	default:
		response.InternalError(c)
	}
}
