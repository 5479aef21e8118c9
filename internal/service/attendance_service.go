package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"teamhub/backend/internal/dto"
	"teamhub/backend/internal/model"
	"teamhub/backend/internal/repository"
)

var (
	ErrVotingClosed        = errors.New("이미 시작되었거나 종료된 일정에는 투표할 수 없습니다")
	ErrStaffMustRequest    = errors.New("코칭스태프는 불참 투표 대신 스태프 요청을 제출해야 합니다")
	ErrInvalidVote         = errors.New("허용되지 않은 투표 값입니다")
	ErrAttendanceNotFound  = errors.New("출석 기록이 존재하지 않습니다")
	ErrInvalidActualStatus = errors.New("허용되지 않은 출석 상태입니다")
)

const defaultVotingBoardLimit = 5

// AttendanceService 출석 투표 업무 인터페이스
type AttendanceService interface {
	// SubmitVote 시작 전 upcoming 일정에만 투표할 수 있다
	SubmitVote(ctx context.Context, userID, eventID string, req *dto.VoteRequest) (*dto.AttendanceResponse, error)
	// GetUserEventAttendance 출석 행이 없으면 nil (pending 과 동일)
	GetUserEventAttendance(ctx context.Context, userID, eventID string) (*dto.AttendanceResponse, error)
	ListEventAttendance(ctx context.Context, eventID string) ([]dto.AttendanceResponse, error)
	ListUserAttendance(ctx context.Context, userID string) ([]dto.AttendanceResponse, error)
	OverrideActualStatus(ctx context.Context, attendanceID string, req *dto.OverrideAttendanceRequest) (*dto.AttendanceResponse, error)
	GetVotingBoard(ctx context.Context, limit int, staffOnly bool) ([]dto.VotingBoardEntry, error)
}

type attendanceService struct {
	repo   *repository.Repository
	loc    *time.Location
	logger *zap.Logger
	now    func() time.Time
}

// NewAttendanceService AttendanceService 생성
func NewAttendanceService(repo *repository.Repository, loc *time.Location, logger *zap.Logger) AttendanceService {
	return &attendanceService{repo: repo, loc: loc, logger: logger, now: time.Now}
}

func (s *attendanceService) SubmitVote(ctx context.Context, userID, eventID string, req *dto.VoteRequest) (*dto.AttendanceResponse, error) {
	vote := model.VotedStatus(req.Vote)
	if vote != model.VoteAttending && vote != model.VoteAbsent {
		return nil, ErrInvalidVote
	}

	// 1. 투표자 확인
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("사용자 조회 실패", zap.Error(err))
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	if vote == model.VoteAbsent && user.IsCoachingStaff() {
		return nil, ErrStaffMustRequest
	}

	// 2. 일정 상태 / 시작 시각 확인
	event, err := s.repo.Event.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		s.logger.Error("일정 조회 실패", zap.Error(err))
		return nil, err
	}
	now := s.now()
	if event.Status != model.EventUpcoming || event.HasStarted(now, s.loc) {
		return nil, ErrVotingClosed
	}

	// 3. upsert (사유는 불참일 때만)
	row := &model.Attendance{
		UserID:       userID,
		EventID:      eventID,
		VotedStatus:  vote,
		VotedAt:      &now,
		ActualStatus: model.ActualUnknown,
	}
	if vote == model.VoteAbsent {
		row.AbsenceReason = req.Reason
	}
	if err := s.repo.Attendance.Upsert(ctx, row, "voted_status", "voted_at", "absence_reason"); err != nil {
		s.logger.Error("투표 저장 실패", zap.String("user_id", userID), zap.String("event_id", eventID), zap.Error(err))
		return nil, err
	}

	saved, err := s.repo.Attendance.Get(ctx, userID, eventID)
	if err != nil {
		s.logger.Error("투표 조회 실패", zap.Error(err))
		return nil, err
	}
	resp := toAttendanceResponse(saved)
	return &resp, nil
}

func (s *attendanceService) GetUserEventAttendance(ctx context.Context, userID, eventID string) (*dto.AttendanceResponse, error) {
	row, err := s.repo.Attendance.Get(ctx, userID, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		s.logger.Error("출석 조회 실패", zap.Error(err))
		return nil, err
	}
	resp := toAttendanceResponse(row)
	return &resp, nil
}

func (s *attendanceService) ListEventAttendance(ctx context.Context, eventID string) ([]dto.AttendanceResponse, error) {
	rows, err := s.repo.Attendance.ListByEvent(ctx, eventID)
	if err != nil {
		s.logger.Error("일정 출석 목록 조회 실패", zap.String("event_id", eventID), zap.Error(err))
		return nil, err
	}

	// 등번호 순
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].User == nil || rows[j].User == nil {
			return false
		}
		return rows[i].User.Number < rows[j].User.Number
	})

	result := make([]dto.AttendanceResponse, 0, len(rows))
	for i := range rows {
		result = append(result, toAttendanceResponse(&rows[i]))
	}
	return result, nil
}

func (s *attendanceService) ListUserAttendance(ctx context.Context, userID string) ([]dto.AttendanceResponse, error) {
	rows, err := s.repo.Attendance.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("사용자 출석 목록 조회 실패", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	// 일정 시작 순
	sort.SliceStable(rows, func(i, j int) bool {
		return eventSortKey(rows[i].Event) < eventSortKey(rows[j].Event)
	})

	result := make([]dto.AttendanceResponse, 0, len(rows))
	for i := range rows {
		result = append(result, toAttendanceResponse(&rows[i]))
	}
	return result, nil
}

func (s *attendanceService) OverrideActualStatus(ctx context.Context, attendanceID string, req *dto.OverrideAttendanceRequest) (*dto.AttendanceResponse, error) {
	status := model.ActualStatus(req.ActualStatus)
	if !status.Valid() {
		return nil, ErrInvalidActualStatus
	}

	if err := s.repo.Attendance.UpdateActual(ctx, attendanceID, status, req.Notes, s.now()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttendanceNotFound
		}
		s.logger.Error("실제 출석 수정 실패", zap.String("attendance_id", attendanceID), zap.Error(err))
		return nil, err
	}

	row, err := s.repo.Attendance.GetByID(ctx, attendanceID)
	if err != nil {
		s.logger.Error("출석 조회 실패", zap.Error(err))
		return nil, err
	}
	resp := toAttendanceResponse(row)
	return &resp, nil
}

func (s *attendanceService) GetVotingBoard(ctx context.Context, limit int, staffOnly bool) ([]dto.VotingBoardEntry, error) {
	if limit <= 0 {
		limit = defaultVotingBoardLimit
	}

	events, err := s.repo.Event.List(ctx, model.EventUpcoming)
	if err != nil {
		s.logger.Error("예정 일정 조회 실패", zap.Error(err))
		return nil, err
	}

	users, err := s.repo.User.ListActive(ctx)
	if err != nil {
		s.logger.Error("활성 사용자 조회 실패", zap.Error(err))
		return nil, err
	}
	if staffOnly {
		filtered := users[:0]
		for _, u := range users {
			if u.IsCoachingStaff() {
				filtered = append(filtered, u)
			}
		}
		users = filtered
	}

	now := s.now()
	board := make([]dto.VotingBoardEntry, 0, limit)
	for i := range events {
		if len(board) >= limit {
			break
		}
		event := &events[i]
		if event.HasStarted(now, s.loc) {
			continue
		}

		rows, err := s.repo.Attendance.ListByEvent(ctx, event.EventID)
		if err != nil {
			s.logger.Error("일정 출석 조회 실패", zap.String("event_id", event.EventID), zap.Error(err))
			return nil, err
		}
		votes := make(map[string]model.VotedStatus, len(rows))
		for _, r := range rows {
			votes[r.UserID] = r.VotedStatus
		}

		entry := dto.VotingBoardEntry{
			Event:     toEventResponse(event),
			Attending: []dto.UserBrief{},
			Absent:    []dto.UserBrief{},
			Pending:   []dto.UserBrief{},
		}
		for j := range users {
			brief := toUserBrief(&users[j])
			switch votes[users[j].UserID] {
			case model.VoteAttending:
				entry.Attending = append(entry.Attending, brief)
			case model.VoteAbsent:
				entry.Absent = append(entry.Absent, brief)
			default:
				entry.Pending = append(entry.Pending, brief)
			}
		}
		board = append(board, entry)
	}
	return board, nil
}

func eventSortKey(e *model.Event) string {
	if e == nil {
		return ""
	}
	return e.Date + " " + e.Time
}
