package handler

import (
	"github.com/gin-gonic/gin"

	"teamhub/backend/internal/service"
	"teamhub/backend/pkg/response"
)

// CronHandler 외부 스케줄러용 주기 작업 처리기
type CronHandler struct {
	lifecycleSvc service.LifecycleService
}

// NewCronHandler CronHandler 생성
func NewCronHandler(lifecycleSvc service.LifecycleService) *CronHandler {
	return &CronHandler{lifecycleSvc: lifecycleSvc}
}

// AutoPenalize 미투표 벌점, 일정 상태 전이, 요청 만료를 한 번 실행
// POST /api/cron/auto-penalize
func (h *CronHandler) AutoPenalize(c *gin.Context) {
	result, err := h.lifecycleSvc.Sweep(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}
