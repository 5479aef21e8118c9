package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"teamhub/backend/internal/dto"
	"teamhub/backend/internal/model"
	"teamhub/backend/internal/repository"
)

// LifecycleService 일정 상태 전이와 미투표 자동 벌점을 처리하는 주기 작업
type LifecycleService interface {
	// Sweep 시작 시각이 지난 upcoming 일정의 미투표자에게 벌점을 주고 투표를 확정한 뒤,
	// 종료 시각이 지난 일정을 완료 처리하고 기한이 지난 스태프 요청을 만료시킨다.
	Sweep(ctx context.Context) (*dto.SweepResult, error)
	// RefreshEvent 한 일정에 같은 규칙을 적용한다. event 의 Status 가 갱신된다.
	RefreshEvent(ctx context.Context, event *model.Event) error
}

type lifecycleService struct {
	repo   *repository.Repository
	points PointService
	staff  StaffRequestService
	loc    *time.Location
	logger *zap.Logger
	now    func() time.Time
}

// NewLifecycleService LifecycleService 생성
func NewLifecycleService(
	repo *repository.Repository,
	points PointService,
	staff StaffRequestService,
	loc *time.Location,
	logger *zap.Logger,
) LifecycleService {
	return &lifecycleService{
		repo:   repo,
		points: points,
		staff:  staff,
		loc:    loc,
		logger: logger,
		now:    time.Now,
	}
}

func (s *lifecycleService) Sweep(ctx context.Context) (*dto.SweepResult, error) {
	now := s.now()
	result := &dto.SweepResult{
		Events: []dto.EventSweepResult{},
		RanAt:  formatTime(now),
	}

	// 1. 시작된 upcoming 일정 처리
	upcoming, err := s.repo.Event.List(ctx, model.EventUpcoming)
	if err != nil {
		s.logger.Error("upcoming 일정 조회 실패", zap.Error(err))
		return nil, err
	}
	for i := range upcoming {
		event := &upcoming[i]
		if !event.HasStarted(now, s.loc) {
			continue
		}
		res := s.startEvent(ctx, event, now)
		result.Events = append(result.Events, res)
		result.TotalPenalized += res.Penalized
	}

	// 2. 종료 시각이 지난 ongoing 일정 완료 처리
	ongoing, err := s.repo.Event.List(ctx, model.EventOngoing)
	if err != nil {
		s.logger.Error("ongoing 일정 조회 실패", zap.Error(err))
		return nil, err
	}
	for i := range ongoing {
		if s.completeIfFinished(ctx, &ongoing[i], now) {
			result.Completed++
		}
	}

	// 3. 스태프 요청 만료
	expired, err := s.staff.ExpireStale(ctx)
	if err != nil {
		s.logger.Error("스태프 요청 만료 처리 실패", zap.Error(err))
	}
	result.ExpiredRequests = expired

	s.logger.Info("주기 작업 완료",
		zap.Int("events", len(result.Events)),
		zap.Int("penalized", result.TotalPenalized),
		zap.Int("completed", result.Completed),
		zap.Int("expired_requests", result.ExpiredRequests),
	)
	return result, nil
}

func (s *lifecycleService) RefreshEvent(ctx context.Context, event *model.Event) error {
	now := s.now()
	if event.Status == model.EventUpcoming && event.HasStarted(now, s.loc) {
		s.startEvent(ctx, event, now)
	}
	if event.Status == model.EventOngoing {
		s.completeIfFinished(ctx, event, now)
	}
	return nil
}

// startEvent 미투표자 벌점 → 투표 확정 → ongoing 전환
// 사용자별 실패는 기록만 하고 다음 사용자로 넘어간다.
func (s *lifecycleService) startEvent(ctx context.Context, event *model.Event, now time.Time) dto.EventSweepResult {
	res := dto.EventSweepResult{EventID: event.EventID, Title: event.Title}
	log := s.logger.With(zap.String("event_id", event.EventID))

	pending, err := s.repo.Attendance.ListPendingByEvent(ctx, event.EventID)
	if err != nil {
		log.Error("미투표자 조회 실패", zap.Error(err))
		res.Failed++
		return res
	}

	for _, row := range pending {
		inserted, err := s.points.ApplyUnvotedPenalty(ctx, row.UserID, event.EventID)
		if err != nil {
			log.Error("미투표 벌점 처리 실패", zap.String("user_id", row.UserID), zap.Error(err))
			res.Failed++
			continue
		}
		if inserted {
			res.Penalized++
		}

		if err := s.repo.Attendance.UpdateActual(ctx, row.AttendanceID, model.ActualAbsent, nil, now); err != nil {
			log.Error("미투표자 불참 처리 실패", zap.String("user_id", row.UserID), zap.Error(err))
			res.Failed++
		}
	}

	converted, err := s.repo.Attendance.ConvertVotes(ctx, event.EventID, now)
	if err != nil {
		log.Error("투표 확정 실패", zap.Error(err))
		res.Failed++
	}
	res.Converted = converted

	if err := s.repo.Event.UpdateStatus(ctx, event.EventID, model.EventOngoing); err != nil {
		log.Error("일정 상태 변경 실패", zap.Error(err))
		res.Failed++
		return res
	}
	event.Status = model.EventOngoing

	log.Info("일정 시작 처리",
		zap.Int("penalized", res.Penalized),
		zap.Int64("converted", res.Converted),
		zap.Int("failed", res.Failed),
	)
	return res
}

// completeIfFinished 시작 후 고정 시간이 지났으면 completed 로 전환한다
func (s *lifecycleService) completeIfFinished(ctx context.Context, event *model.Event, now time.Time) bool {
	start, err := event.StartsAt(s.loc)
	if err != nil {
		s.logger.Warn("일정 시작 시각 해석 실패", zap.String("event_id", event.EventID), zap.Error(err))
		return false
	}
	if now.Before(start.Add(model.EventDuration)) {
		return false
	}

	if err := s.repo.Event.UpdateStatus(ctx, event.EventID, model.EventCompleted); err != nil {
		s.logger.Error("일정 완료 처리 실패", zap.String("event_id", event.EventID), zap.Error(err))
		return false
	}
	event.Status = model.EventCompleted
	return true
}
