package model

import (
	"time"

	"github.com/google/uuid"
)

// BaseModel 공통 감사 필드 (모든 변경 가능한 모델에 포함)
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// newID 비어 있는 기본 키에 UUID 를 채운다
func newID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

// AllModels AutoMigrate 대상 모델 목록
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Event{},
		&Attendance{},
		&PointLog{},
		&StaffRequest{},
	}
}
