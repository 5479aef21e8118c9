package dto

// ── 통계 / 배치 결과 DTO ──

// UserStatsResponse 사용자 출석 통계
type UserStatsResponse struct {
	UserID            string `json:"user_id"`
	TotalEvents       int    `json:"total_events"`
	Attended          int    `json:"attended"`
	AttendanceRate    int    `json:"attendance_rate"` // 반올림한 %
	CurrentStreak     int    `json:"current_streak"`
	ThisMonthAttended int    `json:"this_month_attended"`
}

// AttendanceRankingEntry 출석률 랭킹 항목
type AttendanceRankingEntry struct {
	Rank     int    `json:"rank"`
	UserID   string `json:"user_id"`
	Name     string `json:"name"`
	Number   int    `json:"number"`
	Attended int    `json:"attended"`
	Total    int    `json:"total"`
	Rate     int    `json:"rate"`
}

// EventSweepResult 일정별 자동 벌점 처리 결과
type EventSweepResult struct {
	EventID   string `json:"event_id"`
	Title     string `json:"title"`
	Penalized int    `json:"penalized"`
	Converted int64  `json:"converted"`
	Failed    int    `json:"failed"`
}

// SweepResult 주기 작업 실행 결과
type SweepResult struct {
	Events          []EventSweepResult `json:"events"`
	TotalPenalized  int                `json:"total_penalized"`
	Completed       int                `json:"completed"`
	ExpiredRequests int                `json:"expired_requests"`
	RanAt           string             `json:"ran_at"`
}
