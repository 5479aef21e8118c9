package dto

// ── 출석 모듈 DTO ──

// VoteRequest 출석 투표 요청
type VoteRequest struct {
	Vote   string `json:"vote"   binding:"required,oneof=attending absent"`
	Reason string `json:"reason" binding:"omitempty,max=500"` // 불참일 때만 저장
}

// OverrideAttendanceRequest 매니저의 실제 출석 수정 요청
type OverrideAttendanceRequest struct {
	ActualStatus string  `json:"actual_status" binding:"required,oneof=unknown attended absent late early_leave"`
	Notes        *string `json:"notes"         binding:"omitempty,max=500"`
}

// VotingBoardRequest 투표 현황 조회 파라미터
type VotingBoardRequest struct {
	Limit     int  `form:"limit"      binding:"omitempty,min=1,max=20"`
	StaffOnly bool `form:"staff_only"`
}

// AttendanceResponse 출석 응답
type AttendanceResponse struct {
	ID            string         `json:"id"`
	UserID        string         `json:"user_id"`
	EventID       string         `json:"event_id"`
	VotedStatus   string         `json:"voted_status"`
	VotedAt       *string        `json:"voted_at,omitempty"`
	ActualStatus  string         `json:"actual_status"`
	ConfirmedAt   *string        `json:"confirmed_at,omitempty"`
	AbsenceReason string         `json:"absence_reason,omitempty"`
	Notes         string         `json:"notes,omitempty"`
	User          *UserBrief     `json:"user,omitempty"`
	Event         *EventResponse `json:"event,omitempty"`
}

// VotingBoardEntry 일정별 투표 현황
type VotingBoardEntry struct {
	Event     EventResponse `json:"event"`
	Attending []UserBrief   `json:"attending"`
	Absent    []UserBrief   `json:"absent"`
	Pending   []UserBrief   `json:"pending"`
}
