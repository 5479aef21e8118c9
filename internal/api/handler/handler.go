package handler

import "teamhub/backend/internal/service"

// Handler 모든 Handler 의 집계 진입점
type Handler struct {
	Auth         *AuthHandler
	User         *UserHandler
	Event        *EventHandler
	Attendance   *AttendanceHandler
	StaffRequest *StaffRequestHandler
	Point        *PointHandler
	Stats        *StatsHandler
	Export       *ExportHandler
	Cron         *CronHandler
}

// NewHandler Handler 집계 생성
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth),
		User:         NewUserHandler(svc.User),
		Event:        NewEventHandler(svc.Event),
		Attendance:   NewAttendanceHandler(svc.Attendance),
		StaffRequest: NewStaffRequestHandler(svc.StaffRequest),
		Point:        NewPointHandler(svc.Point),
		Stats:        NewStatsHandler(svc.Stats),
		Export:       NewExportHandler(svc.Export),
		Cron:         NewCronHandler(svc.Lifecycle),
	}
}
