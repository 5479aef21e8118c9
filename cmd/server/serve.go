package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"teamhub/backend/internal/api/handler"
	"teamhub/backend/internal/api/router"
	"teamhub/backend/internal/service"
	"teamhub/backend/pkg/database"
)

var skipMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "HTTP 서버 실행",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "시작 시 마이그레이션을 건너뛴다")
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	a.logger.Info("서버 시작 중...",
		zap.Int("port", a.cfg.Server.Port),
		zap.String("db_driver", a.cfg.Database.Driver),
		zap.String("log_level", a.cfg.Log.Level),
	)

	if !skipMigrate {
		if err := database.Migrate(a.db, a.cfg.Database.Driver, a.logger); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 프로세스 내 주기 작업 (선택)
	if a.cfg.Scheduler.Enabled {
		scheduler := service.NewScheduler(a.svc.Lifecycle, a.cfg.Scheduler.Interval, a.logger)
		go scheduler.Run(ctx)
	}

	h := handler.NewHandler(a.svc)
	engine := router.Setup(a.cfg, h, a.jwtMgr, a.rdb, a.logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP 서버 시작", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 종료 신호 또는 서버 오류 대기
	select {
	case <-ctx.Done():
		a.logger.Info("종료 신호 수신, 정상 종료를 시작합니다")
	case err := <-errCh:
		return fmt.Errorf("HTTP 서버 오류: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("서버 종료 오류", zap.Error(err))
	}

	a.logger.Info("서버 종료 완료")
	return nil
}
