package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"teamhub/backend/internal/dto"
	"teamhub/backend/internal/model"
	"teamhub/backend/internal/repository"
)

var (
	ErrEventNotFound          = errors.New("일정이 존재하지 않습니다")
	ErrInvalidEventTransition = errors.New("현재 상태에서는 변경할 수 없는 일정입니다")
	ErrEventNotEditable       = errors.New("예정된 일정만 수정할 수 있습니다")
)

// EventService 일정 관리 업무 인터페이스
type EventService interface {
	// Create 일정을 만들고 활성 사용자 전원에게 출석 행을 배분한다
	Create(ctx context.Context, creatorID string, req *dto.CreateEventRequest) (*dto.EventResponse, error)
	GetByID(ctx context.Context, id string) (*dto.EventResponse, error)
	List(ctx context.Context, status string) ([]dto.EventResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateEventRequest) (*dto.EventResponse, error)
	Cancel(ctx context.Context, id string) (*dto.EventResponse, error)
	// Delete 일정과 딸린 출석/스태프 요청을 한 트랜잭션으로 삭제한다
	Delete(ctx context.Context, id string) error
	// RefreshStatus 한 일정에 대해 시간 기반 상태 전이를 즉시 적용한다
	RefreshStatus(ctx context.Context, id string) (*dto.EventResponse, error)
}

type eventService struct {
	repo      *repository.Repository
	lifecycle LifecycleService
	logger    *zap.Logger
}

// NewEventService EventService 생성
func NewEventService(repo *repository.Repository, lifecycle LifecycleService, logger *zap.Logger) EventService {
	return &eventService{repo: repo, lifecycle: lifecycle, logger: logger}
}

func (s *eventService) Create(ctx context.Context, creatorID string, req *dto.CreateEventRequest) (*dto.EventResponse, error) {
	event := &model.Event{
		Title:              req.Title,
		Description:        req.Description,
		Date:               req.Date,
		Time:               req.Time,
		Location:           req.Location,
		Type:               model.EventType(req.Type),
		IsMandatory:        true,
		RequiredStaffCount: model.DefaultRequiredStaffCount,
		Status:             model.EventUpcoming,
		CreatedBy:          &creatorID,
	}
	if req.IsMandatory != nil {
		event.IsMandatory = *req.IsMandatory
	}
	if req.RequiredStaffCount != nil {
		event.RequiredStaffCount = *req.RequiredStaffCount
	}

	// 1. 일정 생성
	if err := s.repo.Event.Create(ctx, event); err != nil {
		s.logger.Error("일정 생성 실패", zap.Error(err))
		return nil, err
	}

	// 2. 출석 행 배분 (실패해도 일정은 유지, 투표 시 upsert 로 보완됨)
	users, err := s.repo.User.ListActive(ctx)
	if err != nil {
		s.logger.Error("활성 사용자 조회 실패, 출석 배분 생략", zap.String("event_id", event.EventID), zap.Error(err))
	} else {
		rows := make([]model.Attendance, 0, len(users))
		for _, u := range users {
			rows = append(rows, model.NewPendingAttendance(u.UserID, event.EventID))
		}
		if err := s.repo.Attendance.BatchCreate(ctx, rows); err != nil {
			s.logger.Error("출석 배분 실패", zap.String("event_id", event.EventID), zap.Error(err))
		}
	}

	s.logger.Info("일정 생성",
		zap.String("event_id", event.EventID),
		zap.String("date", event.Date),
		zap.Int("attendees", len(users)),
	)

	resp := toEventResponse(event)
	return &resp, nil
}

func (s *eventService) GetByID(ctx context.Context, id string) (*dto.EventResponse, error) {
	event, err := s.getEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toEventResponse(event)
	return &resp, nil
}

func (s *eventService) List(ctx context.Context, status string) ([]dto.EventResponse, error) {
	var statuses []model.EventStatus
	if status != "" {
		statuses = append(statuses, model.EventStatus(status))
	}

	events, err := s.repo.Event.List(ctx, statuses...)
	if err != nil {
		s.logger.Error("일정 목록 조회 실패", zap.Error(err))
		return nil, err
	}

	result := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		result = append(result, toEventResponse(&events[i]))
	}
	return result, nil
}

func (s *eventService) Update(ctx context.Context, id string, req *dto.UpdateEventRequest) (*dto.EventResponse, error) {
	event, err := s.getEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.Status != model.EventUpcoming {
		return nil, ErrEventNotEditable
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Date != nil {
		event.Date = *req.Date
	}
	if req.Time != nil {
		event.Time = *req.Time
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.Type != nil {
		event.Type = model.EventType(*req.Type)
	}
	if req.IsMandatory != nil {
		event.IsMandatory = *req.IsMandatory
	}
	if req.RequiredStaffCount != nil {
		event.RequiredStaffCount = *req.RequiredStaffCount
	}

	if err := s.repo.Event.Update(ctx, event); err != nil {
		s.logger.Error("일정 수정 실패", zap.String("event_id", id), zap.Error(err))
		return nil, err
	}

	resp := toEventResponse(event)
	return &resp, nil
}

func (s *eventService) Cancel(ctx context.Context, id string) (*dto.EventResponse, error) {
	event, err := s.getEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if !event.Status.CanTransitionTo(model.EventCancelled) {
		return nil, ErrInvalidEventTransition
	}

	if err := s.repo.Event.UpdateStatus(ctx, id, model.EventCancelled); err != nil {
		s.logger.Error("일정 취소 실패", zap.String("event_id", id), zap.Error(err))
		return nil, err
	}
	event.Status = model.EventCancelled

	s.logger.Info("일정 취소", zap.String("event_id", id))
	resp := toEventResponse(event)
	return &resp, nil
}

func (s *eventService) Delete(ctx context.Context, id string) error {
	if _, err := s.getEvent(ctx, id); err != nil {
		return err
	}

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Attendance.DeleteByEvent(ctx, id); err != nil {
			return err
		}
		if err := tx.StaffRequest.DeleteByEvent(ctx, id); err != nil {
			return err
		}
		return tx.Event.Delete(ctx, id)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		s.logger.Error("일정 삭제 실패", zap.String("event_id", id), zap.Error(err))
		return err
	}

	s.logger.Info("일정 삭제", zap.String("event_id", id))
	return nil
}

func (s *eventService) RefreshStatus(ctx context.Context, id string) (*dto.EventResponse, error) {
	event, err := s.getEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.lifecycle.RefreshEvent(ctx, event); err != nil {
		return nil, err
	}

	resp := toEventResponse(event)
	return &resp, nil
}

func (s *eventService) getEvent(ctx context.Context, id string) (*model.Event, error) {
	event, err := s.repo.Event.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		s.logger.Error("일정 조회 실패", zap.String("event_id", id), zap.Error(err))
		return nil, err
	}
	return event, nil
}
