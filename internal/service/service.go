package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"teamhub/backend/config"
	"teamhub/backend/internal/repository"
	"teamhub/backend/pkg/jwt"
)

// TokenBlacklist 로그아웃된 토큰 저장소 (Redis)
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// Cache 직렬화 캐시 (Redis + msgpack)
type Cache interface {
	GetCached(ctx context.Context, key string, dest interface{}) error
	SetCached(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

// Deps Service 생성에 필요한 외부 의존성
// Blacklist, Cache 는 Redis 가 없으면 nil 이다.
type Deps struct {
	Config    *config.Config
	Repo      *repository.Repository
	JWT       *jwt.Manager
	Blacklist TokenBlacklist
	Cache     Cache
	Logger    *zap.Logger
}

// Service 모든 Service 의 집계 진입점
type Service struct {
	Auth         AuthService
	User         UserService
	Event        EventService
	Attendance   AttendanceService
	StaffRequest StaffRequestService
	Point        PointService
	Lifecycle    LifecycleService
	Stats        StatsService
	Export       ExportService
}

// NewService Service 집계 생성
func NewService(d Deps) *Service {
	loc := d.Config.Club.Location()

	point := NewPointService(d.Repo, d.Cache, d.Logger)
	staff := NewStaffRequestService(d.Repo, d.Logger)
	lifecycle := NewLifecycleService(d.Repo, point, staff, loc, d.Logger)
	stats := NewStatsService(d.Repo, loc, d.Logger)

	return &Service{
		Auth:         NewAuthService(d.Config, d.Repo, d.JWT, d.Blacklist, d.Logger),
		User:         NewUserService(d.Repo, d.Logger),
		Event:        NewEventService(d.Repo, lifecycle, d.Logger),
		Attendance:   NewAttendanceService(d.Repo, loc, d.Logger),
		StaffRequest: staff,
		Point:        point,
		Lifecycle:    lifecycle,
		Stats:        stats,
		Export:       NewExportService(d.Repo, point, stats, d.Config.Club.Name, loc, d.Logger),
	}
}
