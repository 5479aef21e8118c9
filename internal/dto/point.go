package dto

// ── 포인트 모듈 DTO ──

// AddPointRequest 포인트 지급/차감 요청
type AddPointRequest struct {
	UserID   string `json:"userId"   binding:"required"`
	AdminID  string `json:"adminId"  binding:"required"`
	Category string `json:"category" binding:"required,oneof=participation game team penalty"`
	Reason   string `json:"reason"   binding:"required,max=255"`
	Points   *int   `json:"points"   binding:"required"`
}

// AwardRuleRequest 규칙표 항목으로 포인트 지급
type AwardRuleRequest struct {
	UserID   string `json:"user_id"  binding:"required"`
	Category string `json:"category" binding:"required,oneof=participation game team penalty"`
	Label    string `json:"label"    binding:"required"`
}

// PointLogsRequest 포인트 내역 조회 파라미터
type PointLogsRequest struct {
	UserID string `form:"userId" binding:"required"`
}

// PointLogResponse 포인트 내역 응답
type PointLogResponse struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	AdminID   *string `json:"admin_id"`
	Category  string  `json:"category"`
	Reason    string  `json:"reason"`
	Points    int     `json:"points"`
	EventID   *string `json:"event_id,omitempty"`
	CreatedAt string  `json:"created_at"`
}

// AddPointResponse 지급 결과
type AddPointResponse struct {
	Log         PointLogResponse `json:"log"`
	TotalPoints int              `json:"total_points"`
}

// RankingEntry 포인트 랭킹 항목
type RankingEntry struct {
	Rank        int    `json:"rank"         msgpack:"rank"`
	UserID      string `json:"user_id"      msgpack:"user_id"`
	Name        string `json:"name"         msgpack:"name"`
	Number      int    `json:"number"       msgpack:"number"`
	Tag         string `json:"tag,omitempty" msgpack:"tag"`
	TotalPoints int    `json:"total_points" msgpack:"total_points"`
}

// LedgerCheckResponse 포인트 합계 정합성 점검 결과
type LedgerCheckResponse struct {
	UserID      string `json:"user_id"`
	TotalPoints int    `json:"total_points"`
	LogSum      int    `json:"log_sum"`
	Consistent  bool   `json:"consistent"`
}
