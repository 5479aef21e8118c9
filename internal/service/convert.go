package service

import (
	"time"

	"teamhub/backend/internal/dto"
	"teamhub/backend/internal/model"
)

// ── 모델 → 응답 변환 ──

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func toUserResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:          u.UserID,
		Name:        u.Name,
		Number:      u.Number,
		Role:        string(u.Role),
		Tag:         u.Tag,
		Position:    u.Position,
		Phone:       u.Phone,
		TotalPoints: u.TotalPoints,
		JoinDate:    u.JoinDate,
		IsActive:    u.IsActive,
		LastLoginAt: formatTimePtr(u.LastLoginAt),
	}
}

func toUserBrief(u *model.User) dto.UserBrief {
	return dto.UserBrief{
		ID:     u.UserID,
		Name:   u.Name,
		Number: u.Number,
		Tag:    u.Tag,
	}
}

func toEventResponse(e *model.Event) dto.EventResponse {
	resp := dto.EventResponse{
		ID:                 e.EventID,
		Title:              e.Title,
		Description:        e.Description,
		Date:               e.Date,
		Time:               e.Time,
		Location:           e.Location,
		Type:               string(e.Type),
		IsMandatory:        e.IsMandatory,
		RequiredStaffCount: e.RequiredStaffCount,
		Status:             string(e.Status),
		CreatedAt:          formatTime(e.CreatedAt),
	}
	if e.CreatedBy != nil {
		resp.CreatedBy = *e.CreatedBy
	}
	return resp
}

func toAttendanceResponse(a *model.Attendance) dto.AttendanceResponse {
	resp := dto.AttendanceResponse{
		ID:            a.AttendanceID,
		UserID:        a.UserID,
		EventID:       a.EventID,
		VotedStatus:   string(a.VotedStatus),
		VotedAt:       formatTimePtr(a.VotedAt),
		ActualStatus:  string(a.ActualStatus),
		ConfirmedAt:   formatTimePtr(a.ConfirmedAt),
		AbsenceReason: a.AbsenceReason,
		Notes:         a.Notes,
	}
	if a.User != nil {
		u := toUserBrief(a.User)
		resp.User = &u
	}
	if a.Event != nil {
		e := toEventResponse(a.Event)
		resp.Event = &e
	}
	return resp
}

func toStaffRequestResponse(r *model.StaffRequest) dto.StaffRequestResponse {
	urls := []string(r.AttachmentURLs)
	if urls == nil {
		urls = []string{}
	}
	resp := dto.StaffRequestResponse{
		ID:                 r.RequestID,
		RequesterID:        r.RequesterID,
		EventID:            r.EventID,
		RequestType:        string(r.RequestType),
		LateArrivalTime:    r.LateArrivalTime,
		EarlyDepartureTime: r.EarlyDepartureTime,
		PartialStartTime:   r.PartialStartTime,
		PartialEndTime:     r.PartialEndTime,
		ReasonCategory:     string(r.ReasonCategory),
		ReasonDetail:       r.ReasonDetail,
		Priority:           string(r.Priority),
		HasSubstitute:      r.HasSubstitute,
		SubstituteUserID:   r.SubstituteUserID,
		SubstituteNotes:    r.SubstituteNotes,
		AttachmentURLs:     urls,
		Status:             string(r.Status),
		SubmittedAt:        formatTimePtr(r.SubmittedAt),
		ExpiresAt:          formatTimePtr(r.ExpiresAt),
		ReviewedBy:         r.ReviewedBy,
		ReviewedAt:         formatTimePtr(r.ReviewedAt),
		ReviewNotes:        r.ReviewNotes,
		Version:            r.Version,
		CreatedAt:          formatTime(r.CreatedAt),
	}
	if r.Requester != nil {
		u := toUserBrief(r.Requester)
		resp.Requester = &u
	}
	if r.Event != nil {
		e := toEventResponse(r.Event)
		resp.Event = &e
	}
	return resp
}

func toPointLogResponse(l *model.PointLog) dto.PointLogResponse {
	return dto.PointLogResponse{
		ID:        l.LogID,
		UserID:    l.UserID,
		AdminID:   l.AdminID,
		Category:  string(l.Category),
		Reason:    l.Reason,
		Points:    l.Points,
		EventID:   l.EventID,
		CreatedAt: formatTime(l.CreatedAt),
	}
}
