package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Scheduler 프로세스 내에서 LifecycleService.Sweep 을 주기적으로 실행한다
type Scheduler struct {
	lifecycle LifecycleService
	interval  time.Duration
	logger    *zap.Logger
}

// NewScheduler Scheduler 생성
func NewScheduler(lifecycle LifecycleService, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{lifecycle: lifecycle, interval: interval, logger: logger}
}

// Run ctx 가 취소될 때까지 실행한다. 시작 직후 한 번 실행한다.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info("주기 작업 시작", zap.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("주기 작업 종료")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	if _, err := s.lifecycle.Sweep(ctx); err != nil {
		s.logger.Error("주기 작업 실패", zap.Error(err))
	}
}
