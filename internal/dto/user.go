package dto

// ── 사용자 모듈 DTO ──

// UserListRequest 사용자 목록 조회 파라미터
type UserListRequest struct {
	IncludeInactive bool `form:"include_inactive"`
}

// UpdateUserRequest 사용자 정보 수정 요청
// role, tag 는 매니저만 바꿀 수 있다.
type UpdateUserRequest struct {
	Name     *string `json:"name"      binding:"omitempty,min=1,max=50"`
	Number   *int    `json:"number"    binding:"omitempty,min=0,max=999"`
	Position *string `json:"position"  binding:"omitempty,max=50"`
	Phone    *string `json:"phone"     binding:"omitempty,max=30"`
	JoinDate *string `json:"join_date" binding:"omitempty,datetime=2006-01-02"`
	Role     *string `json:"role"      binding:"omitempty,oneof=player manager"`
	Tag      *string `json:"tag"       binding:"omitempty,max=20"`
}

// UserResponse 사용자 정보 응답
type UserResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Number      int     `json:"number"`
	Role        string  `json:"role"`
	Tag         string  `json:"tag,omitempty"`
	Position    string  `json:"position"`
	Phone       string  `json:"phone,omitempty"`
	TotalPoints int     `json:"total_points"`
	JoinDate    string  `json:"join_date"`
	IsActive    bool    `json:"is_active"`
	LastLoginAt *string `json:"last_login_at,omitempty"`
}

// UserBrief 목록에 포함되는 사용자 요약
type UserBrief struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Number int    `json:"number"`
	Tag    string `json:"tag,omitempty"`
}
