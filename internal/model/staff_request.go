package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RequestType 스태프 요청 종류
type RequestType string

const (
	RequestAbsence          RequestType = "absence"
	RequestLateArrival      RequestType = "late_arrival"
	RequestEarlyDeparture   RequestType = "early_departure"
	RequestPartialAbsence   RequestType = "partial_absence"
	RequestRoleChange       RequestType = "role_change"
	RequestSubstituteNeeded RequestType = "substitute_needed"
)

// Valid 허용된 요청 종류인지 확인
func (t RequestType) Valid() bool {
	switch t {
	case RequestAbsence, RequestLateArrival, RequestEarlyDeparture,
		RequestPartialAbsence, RequestRoleChange, RequestSubstituteNeeded:
		return true
	}
	return false
}

// ReasonCategory 요청 사유 분류
type ReasonCategory string

const (
	ReasonWork           ReasonCategory = "work"
	ReasonFamily         ReasonCategory = "family"
	ReasonHealth         ReasonCategory = "health"
	ReasonPersonal       ReasonCategory = "personal"
	ReasonTravel         ReasonCategory = "travel"
	ReasonEmergency      ReasonCategory = "emergency"
	ReasonTransportation ReasonCategory = "transportation"
	ReasonWeather        ReasonCategory = "weather"
	ReasonConflict       ReasonCategory = "conflict"
	ReasonOther          ReasonCategory = "other"
)

// Valid 허용된 사유 분류인지 확인
func (c ReasonCategory) Valid() bool {
	switch c {
	case ReasonWork, ReasonFamily, ReasonHealth, ReasonPersonal, ReasonTravel,
		ReasonEmergency, ReasonTransportation, ReasonWeather, ReasonConflict, ReasonOther:
		return true
	}
	return false
}

// Priority 요청 우선순위
type Priority string

const (
	PriorityLow       Priority = "low"
	PriorityMedium    Priority = "medium"
	PriorityHigh      Priority = "high"
	PriorityUrgent    Priority = "urgent"
	PriorityEmergency Priority = "emergency"
)

var priorityRank = map[Priority]int{
	PriorityLow:       1,
	PriorityMedium:    2,
	PriorityHigh:      3,
	PriorityUrgent:    4,
	PriorityEmergency: 5,
}

// Rank 정렬용 순위. 알 수 없는 값은 0.
func (p Priority) Rank() int {
	return priorityRank[p]
}

// Valid 허용된 우선순위인지 확인
func (p Priority) Valid() bool {
	_, ok := priorityRank[p]
	return ok
}

// RequestStatus 스태프 요청 상태
type RequestStatus string

const (
	RequestDraft                 RequestStatus = "draft"
	RequestSubmitted             RequestStatus = "submitted"
	RequestUnderReview           RequestStatus = "under_review"
	RequestApproved              RequestStatus = "approved"
	RequestConditionallyApproved RequestStatus = "conditionally_approved"
	RequestRejected              RequestStatus = "rejected"
	RequestWithdrawn             RequestStatus = "withdrawn"
	RequestExpired               RequestStatus = "expired"
)

var requestTransitions = map[RequestStatus][]RequestStatus{
	RequestDraft: {
		RequestSubmitted, RequestWithdrawn, RequestExpired,
	},
	RequestSubmitted: {
		RequestUnderReview, RequestApproved, RequestConditionallyApproved,
		RequestRejected, RequestWithdrawn, RequestExpired,
	},
	RequestUnderReview: {
		RequestApproved, RequestConditionallyApproved,
		RequestRejected, RequestWithdrawn, RequestExpired,
	},
}

// CanTransitionTo 상태 전이 허용 여부
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	for _, allowed := range requestTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsOpen 아직 종결되지 않은 상태 (draft, submitted, under_review)
func (s RequestStatus) IsOpen() bool {
	return len(requestTransitions[s]) > 0
}

// InReview 승인 대기 중인 상태 (submitted, under_review)
func (s RequestStatus) InReview() bool {
	return s == RequestSubmitted || s == RequestUnderReview
}

// ReviewableStatuses 관리 목록에 노출되는 상태
var ReviewableStatuses = []RequestStatus{RequestSubmitted, RequestUnderReview}

// OpenStatuses 만료 처리 대상 상태
var OpenStatuses = []RequestStatus{RequestDraft, RequestSubmitted, RequestUnderReview}

// ApprovalAbsenceReason 승인 시 출석 기록에 남기는 불참 사유
func ApprovalAbsenceReason(reasonDetail string) string {
	return "스태프 요청 승인: " + reasonDetail
}

// StaffRequest 스태프 요청 테이블 staff_requests
type StaffRequest struct {
	RequestID          string                      `gorm:"type:varchar(36);primaryKey"                 json:"request_id"`
	RequesterID        string                      `gorm:"type:varchar(36);not null;index:idx_staff_request_dedup" json:"requester_id"`
	EventID            string                      `gorm:"type:varchar(36);not null;index:idx_staff_request_dedup" json:"event_id"`
	RequestType        RequestType                 `gorm:"type:varchar(30);not null;index:idx_staff_request_dedup" json:"request_type"`
	LateArrivalTime    *string                     `gorm:"type:varchar(5)"                             json:"late_arrival_time,omitempty"`
	EarlyDepartureTime *string                     `gorm:"type:varchar(5)"                             json:"early_departure_time,omitempty"`
	PartialStartTime   *string                     `gorm:"type:varchar(5)"                             json:"partial_start_time,omitempty"`
	PartialEndTime     *string                     `gorm:"type:varchar(5)"                             json:"partial_end_time,omitempty"`
	ReasonCategory     ReasonCategory              `gorm:"type:varchar(20);not null"                   json:"reason_category"`
	ReasonDetail       string                      `gorm:"type:text;not null"                          json:"reason_detail"`
	Priority           Priority                    `gorm:"type:varchar(20);not null"                   json:"priority"`
	HasSubstitute      bool                        `gorm:"not null"                                    json:"has_substitute"`
	SubstituteUserID   *string                     `gorm:"type:varchar(36)"                            json:"substitute_user_id,omitempty"`
	SubstituteNotes    string                      `gorm:"type:text"                                   json:"substitute_notes,omitempty"`
	AttachmentURLs     datatypes.JSONSlice[string] `json:"attachment_urls"`
	Status             RequestStatus               `gorm:"type:varchar(30);not null;index"             json:"status"`
	SubmittedAt        *time.Time                  `json:"submitted_at,omitempty"`
	ExpiresAt          *time.Time                  `json:"expires_at,omitempty"`
	ReviewedBy         *string                     `gorm:"type:varchar(36)"                            json:"reviewed_by,omitempty"`
	ReviewedAt         *time.Time                  `json:"reviewed_at,omitempty"`
	ReviewNotes        string                      `gorm:"type:text"                                   json:"review_notes,omitempty"`
	Version            int                         `gorm:"not null"                                    json:"version"`
	BaseModel

	// 연관
	Requester  *User  `gorm:"foreignKey:RequesterID;references:UserID"      json:"requester,omitempty"`
	Event      *Event `gorm:"foreignKey:EventID;references:EventID"         json:"event,omitempty"`
	Substitute *User  `gorm:"foreignKey:SubstituteUserID;references:UserID" json:"substitute,omitempty"`
}

// TableName 테이블 이름 지정
func (StaffRequest) TableName() string { return "staff_requests" }

// BeforeCreate UUID 기본 키 생성 및 버전 초기화
func (r *StaffRequest) BeforeCreate(tx *gorm.DB) error {
	newID(&r.RequestID)
	if r.Version == 0 {
		r.Version = 1
	}
	return nil
}

// IsExpired now 시점에 만료 기한이 지났는지 확인
func (r *StaffRequest) IsExpired(now time.Time) bool {
	return r.ExpiresAt != nil && !now.Before(*r.ExpiresAt)
}
