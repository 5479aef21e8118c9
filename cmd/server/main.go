package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"teamhub/backend/config"
	"teamhub/backend/internal/repository"
	"teamhub/backend/internal/service"
	"teamhub/backend/pkg/database"
	"teamhub/backend/pkg/jwt"
	applogger "teamhub/backend/pkg/logger"
	"teamhub/backend/pkg/redis"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:           "teamhub",
	Short:         "teamhub 야구팀 운영 백엔드",
	Long:          "teamhub 는 출석 투표, 스태프 요청 승인, 포인트 원장을 관리하는 야구팀 운영 백엔드입니다.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "설정 파일 경로 (기본: ./config/config.yaml)")
	rootCmd.AddCommand(serveCmd, penalizeCmd, migrateCmd, promoteCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "오류: %v\n", err)
		os.Exit(1)
	}
}

// app 하위 명령이 공유하는 의존성
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
	rdb    *redis.Client
	jwtMgr *jwt.Manager
	svc    *service.Service
}

// newApp 설정 → 로그 → DB → (Redis) → Service 순으로 초기화한다.
// withRedis 가 false 이거나 Redis 연결에 실패하면 Redis 없이 동작한다.
func newApp(withRedis bool) (*app, error) {
	// 1. 설정
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	// 2. 로그
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("로그 초기화 실패: %w", err)
	}

	// 3. 데이터베이스
	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("데이터베이스 연결 실패: %w", err)
	}

	a := &app{cfg: cfg, logger: logger, db: db, jwtMgr: jwt.NewManager(&cfg.Auth)}

	// 4. Redis (선택)
	if withRedis {
		rdb, err := redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("Redis 연결 실패, 토큰 블랙리스트/요청 제한/랭킹 캐시 없이 동작합니다", zap.Error(err))
		} else {
			a.rdb = rdb
		}
	}

	// 5. 의존성 주입: Repository → Service
	deps := service.Deps{
		Config: cfg,
		Repo:   repository.NewRepository(db),
		JWT:    a.jwtMgr,
		Logger: logger,
	}
	if a.rdb != nil {
		deps.Blacklist = a.rdb
		deps.Cache = a.rdb
	}
	a.svc = service.NewService(deps)

	return a, nil
}

// Close DB, Redis 연결 종료
func (a *app) Close() {
	if sqlDB, err := a.db.DB(); err == nil {
		sqlDB.Close()
	}
	if a.rdb != nil {
		a.rdb.Close()
	}
	a.logger.Sync()
}
