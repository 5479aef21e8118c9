package service

import (
	"errors"

	"teamhub/backend/internal/model"
)

// ErrApprovalDenied 승인 권한 없음. 구체적인 사유는 ApprovalDeniedError 에 담긴다.
var ErrApprovalDenied = errors.New("승인 권한이 없습니다")

// ApprovalDeniedError 승인 거부 사유
type ApprovalDeniedError struct {
	Reason string
}

func (e *ApprovalDeniedError) Error() string { return e.Reason }

// Unwrap errors.Is(err, ErrApprovalDenied) 지원
func (e *ApprovalDeniedError) Unwrap() error { return ErrApprovalDenied }

// assistantCoachTags 감독이 승인할 수 있는 코치진
var assistantCoachTags = map[string]bool{
	model.TagChiefCoach:    true,
	model.TagPitchingCoach: true,
	model.TagBatteryCoach:  true,
	model.TagFieldingCoach: true,
}

// authorizeApproval 2단계 승인표
//
//	단장 → 감독의 요청만
//	감독 → 수석/투수/배터리/수비코치의 요청만
//	그 외 → 승인 불가
func authorizeApproval(approver, requester *model.User) error {
	if approver == nil || requester == nil || !approver.IsActive {
		return &ApprovalDeniedError{Reason: ErrApprovalDenied.Error() + "."}
	}

	switch approver.Tag {
	case model.TagChairman:
		if requester.Tag == model.TagHeadCoach {
			return nil
		}
		return &ApprovalDeniedError{Reason: "단장은 감독의 요청만 승인할 수 있습니다."}
	case model.TagHeadCoach:
		if assistantCoachTags[requester.Tag] {
			return nil
		}
		return &ApprovalDeniedError{Reason: "감독은 코치진의 요청만 승인할 수 있습니다."}
	default:
		return &ApprovalDeniedError{Reason: ErrApprovalDenied.Error() + "."}
	}
}

// IsApprover 승인 권한이 있는 직책인지 확인
func IsApprover(tag string) bool {
	return tag == model.TagChairman || tag == model.TagHeadCoach
}
