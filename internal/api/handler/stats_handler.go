package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"teamhub/backend/internal/service"
	"teamhub/backend/pkg/response"
)

// StatsHandler 통계 모듈 HTTP 처리기
type StatsHandler struct {
	statsSvc service.StatsService
}

// NewStatsHandler StatsHandler 생성
func NewStatsHandler(statsSvc service.StatsService) *StatsHandler {
	return &StatsHandler{statsSvc: statsSvc}
}

// GetMyStats 내 출석 통계
// GET /api/v1/stats/me
func (h *StatsHandler) GetMyStats(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	h.writeUserStats(c, userID)
}

// GetUserStats 사용자 출석 통계
// GET /api/v1/stats/users/:id
func (h *StatsHandler) GetUserStats(c *gin.Context) {
	h.writeUserStats(c, c.Param("id"))
}

// AttendanceRanking 출석률 랭킹
// GET /api/v1/stats/attendance-ranking?limit=10
func (h *StatsHandler) AttendanceRanking(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			response.BadRequest(c, 10001, "limit 은 0 이상의 숫자여야 합니다")
			return
		}
		limit = n
	}

	ranking, err := h.statsSvc.AttendanceRanking(c.Request.Context(), limit)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": ranking})
}

func (h *StatsHandler) writeUserStats(c *gin.Context, userID string) {
	stats, err := h.statsSvc.GetUserStats(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, 12001, "사용자가 존재하지 않습니다")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, stats)
}
