package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"teamhub/backend/config"
	"teamhub/backend/internal/api/handler"
	"teamhub/backend/internal/api/middleware"
	"teamhub/backend/internal/model"
	"teamhub/backend/pkg/jwt"
	"teamhub/backend/pkg/redis"
)

const manager = string(model.RoleManager)

// Setup Gin 라우터 엔진을 초기화해 반환한다
// rdb 가 nil 이면 토큰 블랙리스트와 요청 빈도 제한 없이 동작한다.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	var (
		blacklist middleware.TokenBlacklist
		limiter   middleware.RateLimiter
	)
	if rdb != nil {
		blacklist = rdb
		limiter = rdb
	}

	r := gin.New()

	// ── 전역 미들웨어 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 상태 확인 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	// ── 주기 작업 (공유 비밀) ──
	cron := api.Group("/cron")
	cron.Use(middleware.CronSecret(cfg.Cron.Secret))
	{
		cron.POST("/auto-penalize", h.Cron.AutoPenalize)
	}

	// ── 포인트 원장 ──
	points := api.Group("/points")
	points.Use(middleware.JWTAuth(jwtMgr, blacklist))
	{
		points.POST("/add", middleware.RoleAuth(manager), h.Point.AddPoint)
		points.GET("/logs", h.Point.ListLogs)
	}

	// ── API v1 ──
	v1 := api.Group("/v1")
	{
		// 인증 (인증 불필요)
		auth := v1.Group("/auth")
		auth.Use(middleware.RateLimit(limiter, 20, time.Minute))
		{
			auth.POST("/signup", h.Auth.Signup)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
			auth.GET("/check-number", h.Auth.CheckNumber)
		}

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, blacklist))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)

			// 사용자
			users := authorized.Group("/users")
			{
				users.GET("/me", h.User.GetCurrentUser)
				users.GET("/staff", h.User.ListCoachingStaff)
				users.GET("", h.User.ListUsers)
				users.GET("/:id", h.User.GetUser)
				users.PUT("/:id", h.User.UpdateUser) // 본인 또는 매니저 (Service 에서 확인)
				users.DELETE("/:id", middleware.RoleAuth(manager), h.User.DeactivateUser)
				users.GET("/:id/attendance", h.Attendance.ListUserAttendance)
			}

			// 일정
			events := authorized.Group("/events")
			{
				events.GET("", h.Event.ListEvents)
				events.GET("/:id", h.Event.GetEvent)
				events.POST("", middleware.RoleAuth(manager), h.Event.CreateEvent)
				events.PUT("/:id", middleware.RoleAuth(manager), h.Event.UpdateEvent)
				events.POST("/:id/cancel", middleware.RoleAuth(manager), h.Event.CancelEvent)
				events.DELETE("/:id", middleware.RoleAuth(manager), h.Event.DeleteEvent)
				events.POST("/:id/refresh-status", h.Event.RefreshStatus)

				events.POST("/:id/vote", h.Attendance.SubmitVote)
				events.GET("/:id/vote", h.Attendance.GetMyVote)
				events.GET("/:id/attendance", h.Attendance.ListEventAttendance)
				events.GET("/:id/staff-requests", h.StaffRequest.ListByEvent)
			}

			// 출석
			attendance := authorized.Group("/attendance")
			{
				attendance.GET("/board", h.Attendance.GetVotingBoard)
				attendance.PUT("/:id", middleware.RoleAuth(manager), h.Attendance.OverrideActualStatus)
			}

			// 스태프 요청 (승인 권한은 Service 의 승인 정책에서 확인)
			staff := authorized.Group("/staff-requests")
			{
				staff.POST("", h.StaffRequest.CreateRequest)
				staff.GET("", middleware.RoleAuth(manager), h.StaffRequest.ListAll)
				staff.GET("/me", h.StaffRequest.ListMine)
				staff.GET("/pending", h.StaffRequest.ListPending)
				staff.GET("/:id", h.StaffRequest.GetRequest)
				staff.POST("/:id/submit", h.StaffRequest.Submit)
				staff.POST("/:id/withdraw", h.StaffRequest.Withdraw)
				staff.POST("/:id/review", h.StaffRequest.StartReview)
				staff.POST("/:id/approve", h.StaffRequest.Approve)
				staff.POST("/:id/conditional-approve", h.StaffRequest.ConditionallyApprove)
				staff.POST("/:id/reject", h.StaffRequest.Reject)
			}

			// 포인트
			v1points := authorized.Group("/points")
			{
				v1points.GET("/rules", h.Point.ListRules)
				v1points.GET("/ranking", h.Point.Ranking)
				v1points.POST("/award", middleware.RoleAuth(manager), h.Point.AwardRule)
				v1points.GET("/ledger/:userId", middleware.RoleAuth(manager), h.Point.CheckLedger)
			}

			// 통계
			stats := authorized.Group("/stats")
			{
				stats.GET("/me", h.Stats.GetMyStats)
				stats.GET("/users/:id", h.Stats.GetUserStats)
				stats.GET("/attendance-ranking", h.Stats.AttendanceRanking)
			}

			// 내보내기
			export := authorized.Group("/export")
			{
				export.GET("/rankings", middleware.RoleAuth(manager), h.Export.ExportRankings)
				export.GET("/calendar.ics", h.Export.EventCalendar)
			}
		}
	}

	return r
}
