package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"teamhub/backend/internal/model"
	pkgerrors "teamhub/backend/pkg/errors"
)

// StaffRequestRepository 스태프 요청 데이터 접근 인터페이스
type StaffRequestRepository interface {
	Create(ctx context.Context, req *model.StaffRequest) error
	GetByID(ctx context.Context, id string) (*model.StaffRequest, error)
	// FindLatest 같은 (요청자, 일정, 종류) 의 가장 최근 요청
	FindLatest(ctx context.Context, requesterID, eventID string, requestType model.RequestType) (*model.StaffRequest, error)
	// Update version 이 일치할 때만 갱신하고 version 을 1 올린다
	Update(ctx context.Context, req *model.StaffRequest) error
	ListByStatuses(ctx context.Context, statuses []model.RequestStatus) ([]model.StaffRequest, error)
	ListByRequester(ctx context.Context, requesterID string) ([]model.StaffRequest, error)
	ListByEvent(ctx context.Context, eventID string) ([]model.StaffRequest, error)
	ListAll(ctx context.Context) ([]model.StaffRequest, error)
	// ListExpirable 만료 기한이 지난 미종결 요청
	ListExpirable(ctx context.Context, now time.Time) ([]model.StaffRequest, error)
	DeleteByEvent(ctx context.Context, eventID string) error
}

type staffRequestRepo struct {
	db *gorm.DB
}

// NewStaffRequestRepo StaffRequestRepository 생성
func NewStaffRequestRepo(db *gorm.DB) StaffRequestRepository {
	return &staffRequestRepo{db: db}
}

func (r *staffRequestRepo) Create(ctx context.Context, req *model.StaffRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *staffRequestRepo) GetByID(ctx context.Context, id string) (*model.StaffRequest, error) {
	var req model.StaffRequest
	err := r.db.WithContext(ctx).
		Preload("Requester").
		Preload("Event").
		Preload("Substitute").
		Where("request_id = ?", id).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *staffRequestRepo) FindLatest(ctx context.Context, requesterID, eventID string, requestType model.RequestType) (*model.StaffRequest, error) {
	var req model.StaffRequest
	err := r.db.WithContext(ctx).
		Where("requester_id = ? AND event_id = ? AND request_type = ?", requesterID, eventID, requestType).
		Order("created_at DESC").
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *staffRequestRepo) Update(ctx context.Context, req *model.StaffRequest) error {
	oldVersion := req.Version
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&model.StaffRequest{}).
		Where("request_id = ? AND version = ?", req.RequestID, oldVersion).
		Updates(map[string]interface{}{
			"late_arrival_time":    req.LateArrivalTime,
			"early_departure_time": req.EarlyDepartureTime,
			"partial_start_time":   req.PartialStartTime,
			"partial_end_time":     req.PartialEndTime,
			"reason_category":      req.ReasonCategory,
			"reason_detail":        req.ReasonDetail,
			"priority":             req.Priority,
			"has_substitute":       req.HasSubstitute,
			"substitute_user_id":   req.SubstituteUserID,
			"substitute_notes":     req.SubstituteNotes,
			"attachment_urls":      req.AttachmentURLs,
			"status":               req.Status,
			"submitted_at":         req.SubmittedAt,
			"expires_at":           req.ExpiresAt,
			"reviewed_by":          req.ReviewedBy,
			"reviewed_at":          req.ReviewedAt,
			"review_notes":         req.ReviewNotes,
			"version":              oldVersion + 1,
			"updated_at":           now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	req.Version = oldVersion + 1
	req.UpdatedAt = now
	return nil
}

func (r *staffRequestRepo) ListByStatuses(ctx context.Context, statuses []model.RequestStatus) ([]model.StaffRequest, error) {
	var reqs []model.StaffRequest
	err := r.db.WithContext(ctx).
		Preload("Requester").
		Preload("Event").
		Where("status IN ?", statuses).
		Order("created_at ASC").
		Find(&reqs).Error
	if err != nil {
		return nil, err
	}
	return reqs, nil
}

func (r *staffRequestRepo) ListByRequester(ctx context.Context, requesterID string) ([]model.StaffRequest, error) {
	var reqs []model.StaffRequest
	err := r.db.WithContext(ctx).
		Preload("Event").
		Where("requester_id = ? AND status <> ?", requesterID, model.RequestWithdrawn).
		Order("created_at DESC").
		Find(&reqs).Error
	if err != nil {
		return nil, err
	}
	return reqs, nil
}

func (r *staffRequestRepo) ListByEvent(ctx context.Context, eventID string) ([]model.StaffRequest, error) {
	var reqs []model.StaffRequest
	err := r.db.WithContext(ctx).
		Preload("Requester").
		Where("event_id = ?", eventID).
		Order("created_at DESC").
		Find(&reqs).Error
	if err != nil {
		return nil, err
	}
	return reqs, nil
}

func (r *staffRequestRepo) ListAll(ctx context.Context) ([]model.StaffRequest, error) {
	var reqs []model.StaffRequest
	err := r.db.WithContext(ctx).
		Preload("Requester").
		Preload("Event").
		Order("created_at DESC").
		Find(&reqs).Error
	if err != nil {
		return nil, err
	}
	return reqs, nil
}

func (r *staffRequestRepo) ListExpirable(ctx context.Context, now time.Time) ([]model.StaffRequest, error) {
	var reqs []model.StaffRequest
	err := r.db.WithContext(ctx).
		Where("status IN ? AND expires_at IS NOT NULL AND expires_at <= ?", model.OpenStatuses, now).
		Find(&reqs).Error
	if err != nil {
		return nil, err
	}
	return reqs, nil
}

func (r *staffRequestRepo) DeleteByEvent(ctx context.Context, eventID string) error {
	return r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Delete(&model.StaffRequest{}).Error
}
