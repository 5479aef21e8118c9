package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"teamhub/backend/internal/model"
)

// UserRepository 사용자 데이터 접근 인터페이스
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByNumber(ctx context.Context, number int) (*model.User, error)
	GetByNameAndNumber(ctx context.Context, name string, number int) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	List(ctx context.Context, includeInactive bool) ([]model.User, error)
	ListActive(ctx context.Context) ([]model.User, error)
	ListRanking(ctx context.Context, limit int) ([]model.User, error)
	// AddPoints total_points 를 원자적으로 증감하고 변경 후 값을 반환한다
	AddPoints(ctx context.Context, id string, delta int) (int, error)
}

// userRepo UserRepository 의 GORM 구현
type userRepo struct {
	db *gorm.DB
}

// NewUserRepo UserRepository 생성
func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("user_id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByNumber(ctx context.Context, number int) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("number = ?", number).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByNameAndNumber(ctx context.Context, name string, number int) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("name = ? AND number = ?", name, number).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update 프로필 필드만 갱신한다. total_points 는 AddPoints 로만 바뀐다.
func (r *userRepo) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("user_id = ?", user.UserID).
		Updates(map[string]interface{}{
			"name":       user.Name,
			"number":     user.Number,
			"role":       user.Role,
			"tag":        user.Tag,
			"position":   user.Position,
			"phone":      user.Phone,
			"join_date":  user.JoinDate,
			"is_active":  user.IsActive,
			"updated_at": time.Now(),
		}).Error
}

func (r *userRepo) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("user_id = ?", id).
		UpdateColumn("last_login_at", at).Error
}

func (r *userRepo) List(ctx context.Context, includeInactive bool) ([]model.User, error) {
	var users []model.User
	db := r.db.WithContext(ctx)
	if !includeInactive {
		db = db.Where("is_active = ?", true)
	}
	if err := db.Order("number ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepo) ListActive(ctx context.Context) ([]model.User, error) {
	return r.List(ctx, false)
}

// ListRanking 포인트 내림차순, 동점이면 등번호 오름차순
func (r *userRepo) ListRanking(ctx context.Context, limit int) ([]model.User, error) {
	var users []model.User
	db := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("total_points DESC").
		Order("number ASC")
	if limit > 0 {
		db = db.Limit(limit)
	}
	if err := db.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepo) AddPoints(ctx context.Context, id string, delta int) (int, error) {
	result := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("user_id = ?", id).
		UpdateColumn("total_points", gorm.Expr("total_points + ?", delta))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}

	var user model.User
	err := r.db.WithContext(ctx).
		Select("total_points").
		Where("user_id = ?", id).
		First(&user).Error
	if err != nil {
		return 0, err
	}
	return user.TotalPoints, nil
}
