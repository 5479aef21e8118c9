package dto

// ── 일정 모듈 DTO ──

// CreateEventRequest 일정 생성 요청
type CreateEventRequest struct {
	Title              string `json:"title"                binding:"required,max=200"`
	Description        string `json:"description"          binding:"omitempty,max=2000"`
	Date               string `json:"date"                 binding:"required,datetime=2006-01-02"`
	Time               string `json:"time"                 binding:"required,datetime=15:04"`
	Location           string `json:"location"             binding:"omitempty,max=200"`
	Type               string `json:"type"                 binding:"required,oneof=regular guerrilla league mercenary tournament"`
	IsMandatory        *bool  `json:"is_mandatory"`                                   // 기본값 true
	RequiredStaffCount *int   `json:"required_staff_count" binding:"omitempty,min=0"` // 기본값 15
}

// UpdateEventRequest 일정 수정 요청
type UpdateEventRequest struct {
	Title              *string `json:"title"                binding:"omitempty,max=200"`
	Description        *string `json:"description"          binding:"omitempty,max=2000"`
	Date               *string `json:"date"                 binding:"omitempty,datetime=2006-01-02"`
	Time               *string `json:"time"                 binding:"omitempty,datetime=15:04"`
	Location           *string `json:"location"             binding:"omitempty,max=200"`
	Type               *string `json:"type"                 binding:"omitempty,oneof=regular guerrilla league mercenary tournament"`
	IsMandatory        *bool   `json:"is_mandatory"`
	RequiredStaffCount *int    `json:"required_staff_count" binding:"omitempty,min=0"`
}

// EventListRequest 일정 목록 조회 파라미터
type EventListRequest struct {
	Status string `form:"status" binding:"omitempty,oneof=upcoming ongoing completed cancelled"`
}

// EventResponse 일정 응답
type EventResponse struct {
	ID                 string `json:"id"`
	Title              string `json:"title"`
	Description        string `json:"description,omitempty"`
	Date               string `json:"date"`
	Time               string `json:"time"`
	Location           string `json:"location"`
	Type               string `json:"type"`
	IsMandatory        bool   `json:"is_mandatory"`
	RequiredStaffCount int    `json:"required_staff_count"`
	Status             string `json:"status"`
	CreatedBy          string `json:"created_by,omitempty"`
	CreatedAt          string `json:"created_at"`
}
