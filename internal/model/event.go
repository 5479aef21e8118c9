package model

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// EventType 일정 종류
type EventType string

const (
	EventTypeRegular    EventType = "regular"
	EventTypeGuerrilla  EventType = "guerrilla"
	EventTypeLeague     EventType = "league"
	EventTypeMercenary  EventType = "mercenary"
	EventTypeTournament EventType = "tournament"
)

// Valid 허용된 일정 종류인지 확인
func (t EventType) Valid() bool {
	switch t {
	case EventTypeRegular, EventTypeGuerrilla, EventTypeLeague, EventTypeMercenary, EventTypeTournament:
		return true
	}
	return false
}

// EventStatus 일정 상태
type EventStatus string

const (
	EventUpcoming  EventStatus = "upcoming"
	EventOngoing   EventStatus = "ongoing"
	EventCompleted EventStatus = "completed"
	EventCancelled EventStatus = "cancelled"
)

var eventTransitions = map[EventStatus][]EventStatus{
	EventUpcoming: {EventOngoing, EventCancelled},
	EventOngoing:  {EventCompleted, EventCancelled},
}

// CanTransitionTo 상태 전이 허용 여부
func (s EventStatus) CanTransitionTo(next EventStatus) bool {
	for _, allowed := range eventTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// 일정 기본값
const (
	DefaultRequiredStaffCount = 15
	// EventDuration 시작 후 완료 처리까지의 고정 시간
	EventDuration = 3 * time.Hour

	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Event 일정 테이블 events
type Event struct {
	EventID            string      `gorm:"type:varchar(36);primaryKey"          json:"event_id"`
	Title              string      `gorm:"type:varchar(200);not null"           json:"title"`
	Description        string      `gorm:"type:text"                            json:"description,omitempty"`
	Date               string      `gorm:"type:varchar(10);not null;index"      json:"date"` // YYYY-MM-DD
	Time               string      `gorm:"type:varchar(5);not null"             json:"time"` // HH:MM
	Location           string      `gorm:"type:varchar(200)"                    json:"location"`
	Type               EventType   `gorm:"type:varchar(20);not null"            json:"type"`
	IsMandatory        bool        `gorm:"not null"                             json:"is_mandatory"`
	RequiredStaffCount int         `gorm:"not null"                             json:"required_staff_count"`
	Status             EventStatus `gorm:"type:varchar(20);not null;index"      json:"status"`
	CreatedBy          *string     `gorm:"type:varchar(36)"                     json:"created_by,omitempty"`
	BaseModel
}

// TableName 테이블 이름 지정
func (Event) TableName() string { return "events" }

// BeforeCreate UUID 기본 키 생성
func (e *Event) BeforeCreate(tx *gorm.DB) error {
	newID(&e.EventID)
	return nil
}

// StartsAt 구단 시간대 기준 시작 시각
func (e *Event) StartsAt(loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout+" "+TimeLayout, e.Date+" "+e.Time, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("일정 시작 시각 파싱 실패 (%s %s): %w", e.Date, e.Time, err)
	}
	return t, nil
}

// HasStarted now 시점에 시작 시각이 지났는지 확인
// 시각을 해석할 수 없으면 시작된 것으로 본다.
func (e *Event) HasStarted(now time.Time, loc *time.Location) bool {
	start, err := e.StartsAt(loc)
	if err != nil {
		return true
	}
	return !now.Before(start)
}
