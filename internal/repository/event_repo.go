package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"teamhub/backend/internal/model"
)

// EventRepository 일정 데이터 접근 인터페이스
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	GetByID(ctx context.Context, id string) (*model.Event, error)
	Update(ctx context.Context, event *model.Event) error
	UpdateStatus(ctx context.Context, id string, status model.EventStatus) error
	Delete(ctx context.Context, id string) error
	// List statuses 가 비어 있으면 전체. 날짜/시간 오름차순.
	List(ctx context.Context, statuses ...model.EventStatus) ([]model.Event, error)
}

type eventRepo struct {
	db *gorm.DB
}

// NewEventRepo EventRepository 생성
func NewEventRepo(db *gorm.DB) EventRepository {
	return &eventRepo{db: db}
}

func (r *eventRepo) Create(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepo) GetByID(ctx context.Context, id string) (*model.Event, error) {
	var event model.Event
	err := r.db.WithContext(ctx).
		Where("event_id = ?", id).
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepo) Update(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).
		Model(&model.Event{}).
		Where("event_id = ?", event.EventID).
		Updates(map[string]interface{}{
			"title":                event.Title,
			"description":          event.Description,
			"date":                 event.Date,
			"time":                 event.Time,
			"location":             event.Location,
			"type":                 event.Type,
			"is_mandatory":         event.IsMandatory,
			"required_staff_count": event.RequiredStaffCount,
			"updated_at":           time.Now(),
		}).Error
}

func (r *eventRepo) UpdateStatus(ctx context.Context, id string, status model.EventStatus) error {
	result := r.db.WithContext(ctx).
		Model(&model.Event{}).
		Where("event_id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *eventRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("event_id = ?", id).
		Delete(&model.Event{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *eventRepo) List(ctx context.Context, statuses ...model.EventStatus) ([]model.Event, error) {
	var events []model.Event
	db := r.db.WithContext(ctx)
	if len(statuses) > 0 {
		db = db.Where("status IN ?", statuses)
	}
	if err := db.Order("date ASC").Order("time ASC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
