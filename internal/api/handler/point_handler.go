package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"teamhub/backend/internal/dto"
	"teamhub/backend/internal/model"
	"teamhub/backend/internal/service"
	"teamhub/backend/pkg/response"
)

// PointHandler 포인트 모듈 HTTP 처리기
type PointHandler struct {
	pointSvc service.PointService
}

// NewPointHandler PointHandler 생성
func NewPointHandler(pointSvc service.PointService) *PointHandler {
	return &PointHandler{pointSvc: pointSvc}
}

// AddPoint 포인트 지급/차감 (매니저, adminId 는 호출자 본인)
// POST /api/points/add
func (h *PointHandler) AddPoint(c *gin.Context) {
	var req dto.AddPointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "userId, adminId, category, reason, points 는 모두 필수입니다")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	if req.AdminID != callerID {
		response.Forbidden(c, 16001, "본인 명의로만 포인트를 지급할 수 있습니다")
		return
	}

	result, err := h.pointSvc.AddPointLog(c.Request.Context(), service.PointEntry{
		UserID:   req.UserID,
		AdminID:  &req.AdminID,
		Category: model.PointCategory(req.Category),
		Reason:   req.Reason,
		Points:   *req.Points,
	})
	if err != nil {
		h.handlePointError(c, err)
		return
	}

	response.OK(c, result)
}

// ListLogs 사용자 포인트 내역 (최신순)
// GET /api/points/logs?userId=
func (h *PointHandler) ListLogs(c *gin.Context) {
	var req dto.PointLogsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "userId 가 필요합니다")
		return
	}

	logs, err := h.pointSvc.ListLogs(c.Request.Context(), req.UserID)
	if err != nil {
		h.handlePointError(c, err)
		return
	}

	response.OK(c, gin.H{"list": logs})
}

// AwardRule 규칙표 항목으로 지급 (매니저)
// POST /api/v1/points/award
func (h *PointHandler) AwardRule(c *gin.Context) {
	var req dto.AwardRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "입력값 검증에 실패했습니다")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.pointSvc.AwardRule(c.Request.Context(), callerID, &req)
	if err != nil {
		h.handlePointError(c, err)
		return
	}

	response.OK(c, result)
}

// ListRules 포인트 규칙표
// GET /api/v1/points/rules
func (h *PointHandler) ListRules(c *gin.Context) {
	response.OK(c, gin.H{"list": h.pointSvc.Rules()})
}

// Ranking 포인트 랭킹
// GET /api/v1/points/ranking?limit=10
func (h *PointHandler) Ranking(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			response.BadRequest(c, 10001, "limit 은 0 이상의 숫자여야 합니다")
			return
		}
		limit = n
	}

	ranking, err := h.pointSvc.Ranking(c.Request.Context(), limit)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": ranking})
}

// CheckLedger 포인트 합계 정합성 점검 (매니저)
// GET /api/v1/points/ledger/:userId
func (h *PointHandler) CheckLedger(c *gin.Context) {
	result, err := h.pointSvc.CheckLedger(c.Request.Context(), c.Param("userId"))
	if err != nil {
		h.handlePointError(c, err)
		return
	}

	response.OK(c, result)
}

func (h *PointHandler) handlePointError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 12001, "사용자가 존재하지 않습니다")
	case errors.Is(err, service.ErrAdminNotManager):
		response.Forbidden(c, 16002, "매니저만 포인트를 지급할 수 있습니다")
	case errors.Is(err, service.ErrZeroPoints):
		response.BadRequest(c, 16003, "포인트는 0 이 될 수 없습니다")
	case errors.Is(err, service.ErrInvalidPointCategory):
		response.BadRequest(c, 16004, "허용되지 않은 포인트 분류입니다")
	case errors.Is(err, service.ErrUnknownPointRule):
		response.BadRequest(c, 16005, "규칙표에 없는 항목입니다")
	default:
		response.InternalError(c)
	}
}
