package dto

// ── 인증 모듈 DTO ──

// SignupRequest 가입 요청
type SignupRequest struct {
	Name     string `json:"name"      binding:"required,min=1,max=50"`
	Number   *int   `json:"number"    binding:"required,min=0,max=999"`
	Position string `json:"position"  binding:"omitempty,max=50"`
	Phone    string `json:"phone"     binding:"omitempty,max=30"`
	JoinDate string `json:"join_date" binding:"omitempty,datetime=2006-01-02"` // 기본값 오늘
}

// LoginRequest 이름 + 등번호 로그인 요청
type LoginRequest struct {
	Name   string `json:"name"   binding:"required"`
	Number *int   `json:"number" binding:"required,min=0,max=999"`
}

// RefreshTokenRequest 토큰 갱신 요청
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// TokenResponse 토큰 쌍 응답
type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"` // Access Token 유효 시간(초)
	User         UserResponse `json:"user"`
}

// NumberAvailabilityResponse 등번호 사용 가능 여부
type NumberAvailabilityResponse struct {
	Number    int  `json:"number"`
	Available bool `json:"available"`
}
