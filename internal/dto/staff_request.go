package dto

import "time"

// ── 스태프 요청 모듈 DTO ──

// CreateStaffRequestRequest 스태프 요청 생성
type CreateStaffRequestRequest struct {
	EventID            string     `json:"event_id"             binding:"required"`
	RequestType        string     `json:"request_type"         binding:"required,oneof=absence late_arrival early_departure partial_absence role_change substitute_needed"`
	LateArrivalTime    *string    `json:"late_arrival_time"    binding:"omitempty,datetime=15:04"`
	EarlyDepartureTime *string    `json:"early_departure_time" binding:"omitempty,datetime=15:04"`
	PartialStartTime   *string    `json:"partial_start_time"   binding:"omitempty,datetime=15:04"`
	PartialEndTime     *string    `json:"partial_end_time"     binding:"omitempty,datetime=15:04"`
	ReasonCategory     string     `json:"reason_category"      binding:"required,oneof=work family health personal travel emergency transportation weather conflict other"`
	ReasonDetail       string     `json:"reason_detail"        binding:"required,max=1000"`
	Priority           string     `json:"priority"             binding:"omitempty,oneof=low medium high urgent emergency"` // 기본값 medium
	HasSubstitute      bool       `json:"has_substitute"`
	SubstituteUserID   *string    `json:"substitute_user_id"`
	SubstituteNotes    string     `json:"substitute_notes"     binding:"omitempty,max=1000"`
	AttachmentURLs     []string   `json:"attachment_urls"      binding:"omitempty,max=10,dive,url"`
	ExpiresAt          *time.Time `json:"expires_at"`
	Draft              bool       `json:"draft"` // true 면 draft 로 저장
}

// ReviewStaffRequestRequest 승인/반려 요청
type ReviewStaffRequestRequest struct {
	Notes string `json:"notes" binding:"omitempty,max=1000"`
}

// StaffRequestResponse 스태프 요청 응답
type StaffRequestResponse struct {
	ID                 string         `json:"id"`
	RequesterID        string         `json:"requester_id"`
	EventID            string         `json:"event_id"`
	RequestType        string         `json:"request_type"`
	LateArrivalTime    *string        `json:"late_arrival_time,omitempty"`
	EarlyDepartureTime *string        `json:"early_departure_time,omitempty"`
	PartialStartTime   *string        `json:"partial_start_time,omitempty"`
	PartialEndTime     *string        `json:"partial_end_time,omitempty"`
	ReasonCategory     string         `json:"reason_category"`
	ReasonDetail       string         `json:"reason_detail"`
	Priority           string         `json:"priority"`
	HasSubstitute      bool           `json:"has_substitute"`
	SubstituteUserID   *string        `json:"substitute_user_id,omitempty"`
	SubstituteNotes    string         `json:"substitute_notes,omitempty"`
	AttachmentURLs     []string       `json:"attachment_urls"`
	Status             string         `json:"status"`
	SubmittedAt        *string        `json:"submitted_at,omitempty"`
	ExpiresAt          *string        `json:"expires_at,omitempty"`
	ReviewedBy         *string        `json:"reviewed_by,omitempty"`
	ReviewedAt         *string        `json:"reviewed_at,omitempty"`
	ReviewNotes        string         `json:"review_notes,omitempty"`
	Version            int            `json:"version"`
	CreatedAt          string         `json:"created_at"`
	Requester          *UserBrief     `json:"requester,omitempty"`
	Event              *EventResponse `json:"event,omitempty"`
}
