package model

import (
	"time"

	"gorm.io/gorm"
)

// Role 사용자 권한 구분
type Role string

const (
	RolePlayer  Role = "player"
	RoleManager Role = "manager"
)

// Valid 허용된 권한 값인지 확인
func (r Role) Valid() bool {
	return r == RolePlayer || r == RoleManager
}

// 조직 직책 태그
const (
	TagChairman      = "단장"
	TagHeadCoach     = "감독"
	TagChiefCoach    = "수석코치"
	TagPitchingCoach = "투수코치"
	TagBatteryCoach  = "배터리코치"
	TagFieldingCoach = "수비코치"
	TagBattingCoach  = "타격코치"
)

// coachingStaffTags 직접 불참 투표가 막히고 스태프 요청을 써야 하는 직책
var coachingStaffTags = map[string]bool{
	TagHeadCoach:     true,
	TagChiefCoach:    true,
	TagPitchingCoach: true,
	TagBatteryCoach:  true,
	TagFieldingCoach: true,
}

// IsCoachingStaffTag 코칭스태프 직책인지 확인
func IsCoachingStaffTag(tag string) bool {
	return coachingStaffTags[tag]
}

// DefaultPosition 가입 시 포지션 기본값
const DefaultPosition = "선수"

// User 사용자 테이블 users
type User struct {
	UserID      string     `gorm:"type:varchar(36);primaryKey"     json:"user_id"`
	Name        string     `gorm:"type:varchar(100);not null;index" json:"name"`
	Number      int        `gorm:"not null;uniqueIndex"             json:"number"`
	Role        Role       `gorm:"type:varchar(20);not null"        json:"role"`
	Tag         string     `gorm:"type:varchar(20)"                 json:"tag,omitempty"`
	Position    string     `gorm:"type:varchar(50)"                 json:"position"`
	Phone       string     `gorm:"type:varchar(30)"                 json:"phone,omitempty"`
	TotalPoints int        `gorm:"not null"                         json:"total_points"`
	JoinDate    string     `gorm:"type:varchar(10);not null"        json:"join_date"` // YYYY-MM-DD
	IsActive    bool       `gorm:"not null;index"                   json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	BaseModel
}

// TableName 테이블 이름 지정
func (User) TableName() string { return "users" }

// BeforeCreate UUID 기본 키 생성
func (u *User) BeforeCreate(tx *gorm.DB) error {
	newID(&u.UserID)
	return nil
}

// IsCoachingStaff 코칭스태프 여부
func (u *User) IsCoachingStaff() bool {
	return IsCoachingStaffTag(u.Tag)
}

// IsManager 매니저 권한 여부
func (u *User) IsManager() bool {
	return u.Role == RoleManager
}
