package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 모든 Repository 의 집계 진입점
type Repository struct {
	db *gorm.DB

	User         UserRepository
	Event        EventRepository
	Attendance   AttendanceRepository
	PointLog     PointLogRepository
	StaffRequest StaffRequestRepository
}

// NewRepository Repository 집계 생성
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:           db,
		User:         NewUserRepo(db),
		Event:        NewEventRepo(db),
		Attendance:   NewAttendanceRepo(db),
		PointLog:     NewPointLogRepo(db),
		StaffRequest: NewStaffRequestRepo(db),
	}
}

// WithTx 주어진 트랜잭션 위에서 동작하는 Repository 집계를 만든다
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return NewRepository(tx)
}

// Transaction fn 안의 모든 Repository 호출을 하나의 트랜잭션으로 묶는다
// fn 이 오류를 반환하면 전체가 롤백된다. db 가 없으면 (테스트용 mock 집계) fn 을 그대로 실행한다.
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}
