package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"teamhub/backend/internal/model"
)

// PointLogRepository 포인트 내역 데이터 접근 인터페이스
type PointLogRepository interface {
	Create(ctx context.Context, log *model.PointLog) error
	// CreateIfAbsent dedup_key 가 이미 있으면 아무것도 하지 않고 false 를 반환한다
	CreateIfAbsent(ctx context.Context, log *model.PointLog) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]model.PointLog, error)
	SumByUser(ctx context.Context, userID string) (int, error)
}

type pointLogRepo struct {
	db *gorm.DB
}

// NewPointLogRepo PointLogRepository 생성
func NewPointLogRepo(db *gorm.DB) PointLogRepository {
	return &pointLogRepo{db: db}
}

func (r *pointLogRepo) Create(ctx context.Context, log *model.PointLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *pointLogRepo) CreateIfAbsent(ctx context.Context, log *model.PointLog) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "dedup_key"}},
			DoNothing: true,
		}).
		Create(log)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *pointLogRepo) ListByUser(ctx context.Context, userID string) ([]model.PointLog, error) {
	var logs []model.PointLog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *pointLogRepo) SumByUser(ctx context.Context, userID string) (int, error) {
	var sum struct{ Total int }
	err := r.db.WithContext(ctx).
		Model(&model.PointLog{}).
		Select("COALESCE(SUM(points), 0) AS total").
		Where("user_id = ?", userID).
		Scan(&sum).Error
	if err != nil {
		return 0, err
	}
	return sum.Total, nil
}
