package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"teamhub/backend/internal/model"
	"teamhub/backend/internal/repository"
)

var ErrExportGenerateFail = errors.New("엑셀 파일 생성에 실패했습니다")

const (
	pointRankingSheet      = "포인트 랭킹"
	attendanceRankingSheet = "출석 랭킹"
)

// ExportService 랭킹 엑셀 / 일정 캘린더 내보내기
//
// 파일은 bytes 로 반환하고 응답 헤더는 Handler 에서 설정한다.
type ExportService interface {
	// ExportRankings 포인트 랭킹, 출석 랭킹 두 시트로 된 xlsx
	ExportRankings(ctx context.Context) (*bytes.Buffer, string, error)
	// EventCalendar 취소되지 않은 일정의 iCalendar 피드
	EventCalendar(ctx context.Context) ([]byte, error)
}

type exportService struct {
	repo     *repository.Repository
	points   PointService
	stats    StatsService
	clubName string
	loc      *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

// NewExportService ExportService 생성
func NewExportService(
	repo *repository.Repository,
	points PointService,
	stats StatsService,
	clubName string,
	loc *time.Location,
	logger *zap.Logger,
) ExportService {
	return &exportService{
		repo:     repo,
		points:   points,
		stats:    stats,
		clubName: clubName,
		loc:      loc,
		logger:   logger,
		now:      time.Now,
	}
}

// ════════════════════════════════════════════
// ExportRankings
// ════════════════════════════════════════════

func (s *exportService) ExportRankings(ctx context.Context) (*bytes.Buffer, string, error) {
	pointRows, err := s.points.Ranking(ctx, 0)
	if err != nil {
		return nil, "", err
	}
	attendanceRows, err := s.stats.AttendanceRanking(ctx, 0)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 포인트 랭킹
	idx, _ := f.NewSheet(pointRankingSheet)
	f.SetActiveSheet(idx)
	writeHeader(f, pointRankingSheet, headerStyle, "순위", "이름", "등번호", "태그", "포인트")
	f.SetColWidth(pointRankingSheet, "B", "B", 14)
	for i, r := range pointRows {
		row := i + 2
		f.SetCellValue(pointRankingSheet, cell("A", row), r.Rank)
		f.SetCellValue(pointRankingSheet, cell("B", row), r.Name)
		f.SetCellValue(pointRankingSheet, cell("C", row), r.Number)
		f.SetCellValue(pointRankingSheet, cell("D", row), r.Tag)
		f.SetCellValue(pointRankingSheet, cell("E", row), r.TotalPoints)
	}

	// 출석 랭킹
	f.NewSheet(attendanceRankingSheet)
	writeHeader(f, attendanceRankingSheet, headerStyle, "순위", "이름", "등번호", "출석", "전체", "출석률(%)")
	f.SetColWidth(attendanceRankingSheet, "B", "B", 14)
	for i, r := range attendanceRows {
		row := i + 2
		f.SetCellValue(attendanceRankingSheet, cell("A", row), r.Rank)
		f.SetCellValue(attendanceRankingSheet, cell("B", row), r.Name)
		f.SetCellValue(attendanceRankingSheet, cell("C", row), r.Number)
		f.SetCellValue(attendanceRankingSheet, cell("D", row), r.Attended)
		f.SetCellValue(attendanceRankingSheet, cell("E", row), r.Total)
		f.SetCellValue(attendanceRankingSheet, cell("F", row), r.Rate)
	}

	f.DeleteSheet("Sheet1")

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("엑셀 쓰기 실패", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("%s_랭킹_%s.xlsx", s.clubName, s.now().In(s.loc).Format("20060102"))
	return buf, filename, nil
}

// ════════════════════════════════════════════
// EventCalendar
// ════════════════════════════════════════════

func (s *exportService) EventCalendar(ctx context.Context) ([]byte, error) {
	events, err := s.repo.Event.List(ctx, model.EventUpcoming, model.EventOngoing, model.EventCompleted)
	if err != nil {
		s.logger.Error("일정 목록 조회 실패", zap.Error(err))
		return nil, err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//teamhub//events//KO")
	cal.SetXWRCalName(s.clubName)
	cal.SetXWRTimezone(s.loc.String())

	stamp := s.now().UTC()
	for i := range events {
		e := &events[i]
		start, err := e.StartsAt(s.loc)
		if err != nil {
			s.logger.Warn("일정 시작 시각 해석 실패, 캘린더에서 제외",
				zap.String("event_id", e.EventID), zap.Error(err))
			continue
		}

		ev := cal.AddEvent(e.EventID + "@teamhub")
		ev.SetDtStampTime(stamp)
		ev.SetCreatedTime(e.CreatedAt)
		ev.SetModifiedAt(e.UpdatedAt)
		ev.SetStartAt(start)
		ev.SetEndAt(start.Add(model.EventDuration))
		ev.SetSummary(e.Title)
		if e.Location != "" {
			ev.SetLocation(e.Location)
		}
		if e.Description != "" {
			ev.SetDescription(e.Description)
		}
	}

	return []byte(cal.Serialize()), nil
}

// ── 보조 함수 ──

func writeHeader(f *excelize.File, sheet string, style int, titles ...string) {
	for i, title := range titles {
		c := cell(colName(i), 1)
		f.SetCellValue(sheet, c, title)
		f.SetCellStyle(sheet, c, c, style)
	}
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
