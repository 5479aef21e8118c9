package model

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// PointCategory 포인트 분류
type PointCategory string

const (
	PointParticipation PointCategory = "participation"
	PointGame          PointCategory = "game"
	PointTeam          PointCategory = "team"
	PointPenalty       PointCategory = "penalty"
)

// Valid 허용된 분류인지 확인
func (c PointCategory) Valid() bool {
	switch c {
	case PointParticipation, PointGame, PointTeam, PointPenalty:
		return true
	}
	return false
}

// PointLog 포인트 내역 테이블 point_logs
// 생성 후 수정하지 않는다. 사용자별 points 합계는 users.total_points 와 같아야 한다.
type PointLog struct {
	LogID     string        `gorm:"type:varchar(36);primaryKey"           json:"log_id"`
	UserID    string        `gorm:"type:varchar(36);not null;index"       json:"user_id"`
	AdminID   *string       `gorm:"type:varchar(36)"                      json:"admin_id"` // nil 이면 시스템 생성
	Category  PointCategory `gorm:"type:varchar(20);not null"             json:"category"`
	Reason    string        `gorm:"type:varchar(255);not null"            json:"reason"`
	Points    int           `gorm:"not null"                              json:"points"`
	EventID   *string       `gorm:"type:varchar(36);index"                json:"event_id,omitempty"`
	DedupKey  *string       `gorm:"type:varchar(120);uniqueIndex"         json:"-"`
	CreatedAt time.Time     `gorm:"not null;index"                        json:"created_at"`

	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName 테이블 이름 지정
func (PointLog) TableName() string { return "point_logs" }

// BeforeCreate UUID 기본 키 생성
func (l *PointLog) BeforeCreate(tx *gorm.DB) error {
	newID(&l.LogID)
	return nil
}

// ── 미투표 벌점 ──

// UnvotedPenaltyPoints 미투표 자동 벌점
const UnvotedPenaltyPoints = -7

// UnvotedPenaltyReason 미투표 벌점 사유 문구
func UnvotedPenaltyReason(eventID string) string {
	return fmt.Sprintf("미투표 %d (event %s)", UnvotedPenaltyPoints, eventID)
}

// UnvotedDedupKey (일정, 사용자) 당 한 번만 기록되도록 하는 고유 키
func UnvotedDedupKey(eventID, userID string) string {
	return "unvoted:" + eventID + ":" + userID
}

// ── 포인트 규칙 ──

// PointRule 분류별 고정 점수 규칙
type PointRule struct {
	Category PointCategory `json:"category"`
	Label    string        `json:"label"`
	Points   int           `json:"points"`
}

// PointRules 운영 규칙표
var PointRules = []PointRule{
	{PointParticipation, "경기 출석", 10},
	{PointParticipation, "팀 훈련 참여", 15},
	{PointParticipation, "지각 (60분 이상)", -5},
	{PointParticipation, "무단 결석", -20},
	{PointParticipation, "미투표", UnvotedPenaltyPoints},

	{PointGame, "경기 MVP", 10},
	{PointGame, "멀티 출루 (안타/볼넷/사구)", 3},
	{PointGame, "타점 3점 이상", 3},
	{PointGame, "도루 성공", 1},
	{PointGame, "팀 승리 (전원)", 5},
	{PointGame, "투수 세 타자 연속 범퇴", 15},
	{PointGame, "수비 실책/본헤드", -3},
	{PointGame, "밀어내기 볼넷", -3},
	{PointGame, "지시 무시", -10},

	{PointTeam, "팀 행사 참여", 15},
	{PointTeam, "콘텐츠 제작/제공", 5},
	{PointTeam, "실무 지원 (장비/리서치)", 10},
	{PointTeam, "장비 정리/운반", 3},
	{PointTeam, "영상/사진 촬영 제공", 5},

	{PointPenalty, "불성실 태도", -10},
	{PointPenalty, "무단결석 3회 누적", -5},
	{PointPenalty, "불필요한 언행", -7},
	{PointPenalty, "팀 분위기 저해", -20},
}

// FindPointRule 분류와 항목 이름으로 규칙 조회
func FindPointRule(category PointCategory, label string) (PointRule, bool) {
	for _, r := range PointRules {
		if r.Category == category && r.Label == label {
			return r, true
		}
	}
	return PointRule{}, false
}
