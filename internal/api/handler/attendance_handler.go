package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"teamhub/backend/internal/dto"
	"teamhub/backend/internal/model"
	"teamhub/backend/internal/service"
	"teamhub/backend/pkg/response"
)

// AttendanceHandler 출석 모듈 HTTP 처리기
type AttendanceHandler struct {
	attendanceSvc service.AttendanceService
}

// NewAttendanceHandler AttendanceHandler 생성
func NewAttendanceHandler(attendanceSvc service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceSvc: attendanceSvc}
}

// SubmitVote 출석 투표
// POST /api/v1/events/:id/vote
func (h *AttendanceHandler) SubmitVote(c *gin.Context) {
	var req dto.VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "입력값 검증에 실패했습니다")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	att, err := h.attendanceSvc.SubmitVote(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, att)
}

// GetMyVote 내 투표 상태. 출석 행이 없으면 data 가 비어 있다 (pending).
// GET /api/v1/events/:id/vote
func (h *AttendanceHandler) GetMyVote(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	att, err := h.attendanceSvc.GetUserEventAttendance(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, att)
}

// ListEventAttendance 일정별 출석 현황
// GET /api/v1/events/:id/attendance
func (h *AttendanceHandler) ListEventAttendance(c *gin.Context) {
	list, err := h.attendanceSvc.ListEventAttendance(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// ListUserAttendance 사용자별 출석 기록 (본인 또는 매니저)
// GET /api/v1/users/:id/attendance
func (h *AttendanceHandler) ListUserAttendance(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	targetID := c.Param("id")
	if targetID != callerID && role != string(model.RoleManager) {
		response.Forbidden(c, 10003, "접근 권한이 없습니다")
		return
	}

	list, err := h.attendanceSvc.ListUserAttendance(c.Request.Context(), targetID)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// OverrideActualStatus 실제 출석 수정 (매니저)
// PUT /api/v1/attendance/:id
func (h *AttendanceHandler) OverrideActualStatus(c *gin.Context) {
	var req dto.OverrideAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "입력값 검증에 실패했습니다")
		return
	}

	att, err := h.attendanceSvc.OverrideActualStatus(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, att)
}

// GetVotingBoard 다가오는 일정의 투표 현황
// GET /api/v1/attendance/board?limit=5&staff_only=true
func (h *AttendanceHandler) GetVotingBoard(c *gin.Context) {
	var req dto.VotingBoardRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "입력값 검증에 실패했습니다")
		return
	}

	board, err := h.attendanceSvc.GetVotingBoard(c.Request.Context(), req.Limit, req.StaffOnly)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": board})
}

func (h *AttendanceHandler) handleAttendanceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		response.NotFound(c, 13001, "일정이 존재하지 않습니다")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 12001, "사용자가 존재하지 않습니다")
	case errors.Is(err, service.ErrAttendanceNotFound):
		response.NotFound(c, 14001, "출석 기록이 존재하지 않습니다")
	case errors.Is(err, service.ErrVotingClosed):
		response.Conflict(c, 14002, "이미 시작되었거나 종료된 일정에는 투표할 수 없습니다")
	case errors.Is(err, service.ErrStaffMustRequest):
		response.Forbidden(c, 14003, "코칭스태프는 불참 투표 대신 스태프 요청을 제출해야 합니다")
	case errors.Is(err, service.ErrInvalidVote):
		response.BadRequest(c, 14004, "허용되지 않은 투표 값입니다")
	case errors.Is(err, service.ErrInvalidActualStatus):
		response.BadRequest(c, 14005, "허용되지 않은 출석 상태입니다")
	default:
		response.InternalError(c)
	}
}
