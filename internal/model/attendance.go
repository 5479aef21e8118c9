package model

import (
	"time"

	"gorm.io/gorm"
)

// VotedStatus 사전 투표 상태
type VotedStatus string

const (
	VotePending   VotedStatus = "pending"
	VoteAttending VotedStatus = "attending"
	VoteAbsent    VotedStatus = "absent"
)

// ActualStatus 실제 출석 결과
type ActualStatus string

const (
	ActualUnknown    ActualStatus = "unknown"
	ActualAttended   ActualStatus = "attended"
	ActualAbsent     ActualStatus = "absent"
	ActualLate       ActualStatus = "late"
	ActualEarlyLeave ActualStatus = "early_leave"
)

// Valid 허용된 실제 출석 값인지 확인
func (s ActualStatus) Valid() bool {
	switch s {
	case ActualUnknown, ActualAttended, ActualAbsent, ActualLate, ActualEarlyLeave:
		return true
	}
	return false
}

// ConvertibleActualStatuses 투표 변환 대상이 되는 실제 출석 상태
var ConvertibleActualStatuses = []ActualStatus{ActualUnknown, ActualLate, ActualEarlyLeave}

// ResolveActual 투표 결과를 실제 출석 값으로 변환한다
// 미투표는 불참으로 처리한다.
func ResolveActual(v VotedStatus) ActualStatus {
	if v == VoteAttending {
		return ActualAttended
	}
	return ActualAbsent
}

// Attendance 출석 테이블 attendance
// (user_id, event_id) 당 한 행만 존재한다.
type Attendance struct {
	AttendanceID  string       `gorm:"type:varchar(36);primaryKey"                           json:"attendance_id"`
	UserID        string       `gorm:"type:varchar(36);not null;uniqueIndex:idx_attendance_user_event" json:"user_id"`
	EventID       string       `gorm:"type:varchar(36);not null;uniqueIndex:idx_attendance_user_event;index" json:"event_id"`
	VotedStatus   VotedStatus  `gorm:"type:varchar(20);not null"                             json:"voted_status"`
	VotedAt       *time.Time   `json:"voted_at,omitempty"`
	ActualStatus  ActualStatus `gorm:"type:varchar(20);not null"                             json:"actual_status"`
	ConfirmedAt   *time.Time   `json:"confirmed_at,omitempty"`
	AbsenceReason string       `gorm:"type:varchar(500)"                                     json:"absence_reason,omitempty"`
	Notes         string       `gorm:"type:varchar(500)"                                     json:"notes,omitempty"`
	BaseModel

	// 연관
	User  *User  `gorm:"foreignKey:UserID;references:UserID"   json:"user,omitempty"`
	Event *Event `gorm:"foreignKey:EventID;references:EventID" json:"event,omitempty"`
}

// TableName 테이블 이름 지정
func (Attendance) TableName() string { return "attendance" }

// BeforeCreate UUID 기본 키 생성
func (a *Attendance) BeforeCreate(tx *gorm.DB) error {
	newID(&a.AttendanceID)
	return nil
}

// NewPendingAttendance 일정 생성 시 배분되는 기본 출석 행
func NewPendingAttendance(userID, eventID string) Attendance {
	return Attendance{
		UserID:       userID,
		EventID:      eventID,
		VotedStatus:  VotePending,
		ActualStatus: ActualUnknown,
	}
}
