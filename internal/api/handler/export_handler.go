package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"teamhub/backend/internal/service"
	"teamhub/backend/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler 내보내기 모듈 HTTP 처리기
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler ExportHandler 생성
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportRankings 포인트/출석 랭킹 엑셀
// GET /api/v1/export/rankings
func (h *ExportHandler) ExportRankings(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportRankings(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrExportGenerateFail) {
			response.Error(c, http.StatusInternalServerError, 17001, "엑셀 파일 생성에 실패했습니다")
			return
		}
		response.InternalError(c)
		return
	}

	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// EventCalendar 일정 iCalendar 피드
// GET /api/v1/export/calendar.ics
func (h *ExportHandler) EventCalendar(c *gin.Context) {
	data, err := h.exportSvc.EventCalendar(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition", "inline; filename=events.ics")
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", data)
}
