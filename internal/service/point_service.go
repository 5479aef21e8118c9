package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"teamhub/backend/internal/dto"
	"teamhub/backend/internal/model"
	"teamhub/backend/internal/repository"
	redispkg "teamhub/backend/pkg/redis"
)

var (
	ErrInvalidPointCategory = errors.New("허용되지 않은 포인트 분류입니다")
	ErrUnknownPointRule     = errors.New("규칙표에 없는 항목입니다")
	ErrZeroPoints           = errors.New("포인트는 0 이 될 수 없습니다")
	ErrAdminNotManager      = errors.New("매니저만 포인트를 지급할 수 있습니다")
)

const (
	rankingCacheKey = "ranking:points"
	rankingCacheTTL = time.Minute
)

// PointEntry 포인트 내역 한 건의 입력값
type PointEntry struct {
	UserID   string
	AdminID  *string // nil 이면 시스템
	Category model.PointCategory
	Reason   string
	Points   int
	EventID  *string
}

// PointService 포인트 원장 업무 인터페이스
type PointService interface {
	// AddPointLog 내역 추가와 total_points 증감을 한 트랜잭션으로 처리한다
	AddPointLog(ctx context.Context, entry PointEntry) (*dto.AddPointResponse, error)
	AwardRule(ctx context.Context, adminID string, req *dto.AwardRuleRequest) (*dto.AddPointResponse, error)
	// ApplyUnvotedPenalty (일정, 사용자) 당 한 번만 미투표 벌점을 기록한다. 새로 기록했으면 true.
	ApplyUnvotedPenalty(ctx context.Context, userID, eventID string) (bool, error)
	ListLogs(ctx context.Context, userID string) ([]dto.PointLogResponse, error)
	Ranking(ctx context.Context, limit int) ([]dto.RankingEntry, error)
	Rules() []model.PointRule
	CheckLedger(ctx context.Context, userID string) (*dto.LedgerCheckResponse, error)
}

type pointService struct {
	repo   *repository.Repository
	cache  Cache
	logger *zap.Logger
}

// NewPointService PointService 생성. cache 는 nil 일 수 있다.
func NewPointService(repo *repository.Repository, cache Cache, logger *zap.Logger) PointService {
	return &pointService{repo: repo, cache: cache, logger: logger}
}

func (s *pointService) AddPointLog(ctx context.Context, entry PointEntry) (*dto.AddPointResponse, error) {
	if !entry.Category.Valid() {
		return nil, ErrInvalidPointCategory
	}
	if entry.Points == 0 {
		return nil, ErrZeroPoints
	}

	// 1. 대상 / 지급자 확인
	if _, err := s.getUser(ctx, entry.UserID); err != nil {
		return nil, err
	}
	if entry.AdminID != nil {
		admin, err := s.getUser(ctx, *entry.AdminID)
		if err != nil {
			return nil, err
		}
		if !admin.IsManager() {
			return nil, ErrAdminNotManager
		}
	}

	log := &model.PointLog{
		UserID:   entry.UserID,
		AdminID:  entry.AdminID,
		Category: entry.Category,
		Reason:   entry.Reason,
		Points:   entry.Points,
		EventID:  entry.EventID,
	}

	// 2. 내역 추가 + 원자적 증감
	var total int
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.PointLog.Create(ctx, log); err != nil {
			return err
		}
		var err error
		total, err = tx.User.AddPoints(ctx, entry.UserID, entry.Points)
		return err
	})
	if err != nil {
		s.logger.Error("포인트 기록 실패",
			zap.String("user_id", entry.UserID),
			zap.Int("points", entry.Points),
			zap.Error(err),
		)
		return nil, err
	}

	s.invalidateRanking(ctx)
	s.logger.Info("포인트 기록",
		zap.String("user_id", entry.UserID),
		zap.String("category", string(entry.Category)),
		zap.Int("points", entry.Points),
		zap.Int("total", total),
	)

	return &dto.AddPointResponse{
		Log:         toPointLogResponse(log),
		TotalPoints: total,
	}, nil
}

func (s *pointService) AwardRule(ctx context.Context, adminID string, req *dto.AwardRuleRequest) (*dto.AddPointResponse, error) {
	category := model.PointCategory(req.Category)
	if !category.Valid() {
		return nil, ErrInvalidPointCategory
	}
	rule, ok := model.FindPointRule(category, req.Label)
	if !ok {
		return nil, ErrUnknownPointRule
	}

	return s.AddPointLog(ctx, PointEntry{
		UserID:   req.UserID,
		AdminID:  &adminID,
		Category: rule.Category,
		Reason:   rule.Label,
		Points:   rule.Points,
	})
}

func (s *pointService) ApplyUnvotedPenalty(ctx context.Context, userID, eventID string) (bool, error) {
	key := model.UnvotedDedupKey(eventID, userID)
	log := &model.PointLog{
		UserID:   userID,
		Category: model.PointParticipation,
		Reason:   model.UnvotedPenaltyReason(eventID),
		Points:   model.UnvotedPenaltyPoints,
		EventID:  &eventID,
		DedupKey: &key,
	}

	inserted := false
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		ok, err := tx.PointLog.CreateIfAbsent(ctx, log)
		if err != nil || !ok {
			return err
		}
		if _, err := tx.User.AddPoints(ctx, userID, model.UnvotedPenaltyPoints); err != nil {
			return err
		}
		inserted = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if inserted {
		s.invalidateRanking(ctx)
	}
	return inserted, nil
}

func (s *pointService) ListLogs(ctx context.Context, userID string) ([]dto.PointLogResponse, error) {
	logs, err := s.repo.PointLog.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("포인트 내역 조회 실패", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.PointLogResponse, 0, len(logs))
	for i := range logs {
		result = append(result, toPointLogResponse(&logs[i]))
	}
	return result, nil
}

// Ranking 전체 랭킹은 캐시에서 읽고, 캐시 오류는 DB 조회로 대체한다
func (s *pointService) Ranking(ctx context.Context, limit int) ([]dto.RankingEntry, error) {
	var entries []dto.RankingEntry

	cached := false
	if s.cache != nil {
		err := s.cache.GetCached(ctx, rankingCacheKey, &entries)
		switch {
		case err == nil:
			cached = true
		case !errors.Is(err, redispkg.ErrCacheMiss):
			s.logger.Warn("랭킹 캐시 조회 실패", zap.Error(err))
		}
	}

	if !cached {
		users, err := s.repo.User.ListRanking(ctx, 0)
		if err != nil {
			s.logger.Error("랭킹 조회 실패", zap.Error(err))
			return nil, err
		}
		entries = make([]dto.RankingEntry, 0, len(users))
		for i, u := range users {
			entries = append(entries, dto.RankingEntry{
				Rank:        i + 1,
				UserID:      u.UserID,
				Name:        u.Name,
				Number:      u.Number,
				Tag:         u.Tag,
				TotalPoints: u.TotalPoints,
			})
		}
		if s.cache != nil {
			if err := s.cache.SetCached(ctx, rankingCacheKey, entries, rankingCacheTTL); err != nil {
				s.logger.Warn("랭킹 캐시 저장 실패", zap.Error(err))
			}
		}
	}

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (s *pointService) Rules() []model.PointRule {
	rules := make([]model.PointRule, len(model.PointRules))
	copy(rules, model.PointRules)
	return rules
}

func (s *pointService) CheckLedger(ctx context.Context, userID string) (*dto.LedgerCheckResponse, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	sum, err := s.repo.PointLog.SumByUser(ctx, userID)
	if err != nil {
		s.logger.Error("포인트 합계 조회 실패", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	if sum != user.TotalPoints {
		s.logger.Warn("포인트 합계 불일치",
			zap.String("user_id", userID),
			zap.Int("total_points", user.TotalPoints),
			zap.Int("log_sum", sum),
		)
	}

	return &dto.LedgerCheckResponse{
		UserID:      userID,
		TotalPoints: user.TotalPoints,
		LogSum:      sum,
		Consistent:  sum == user.TotalPoints,
	}, nil
}

func (s *pointService) invalidateRanking(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, rankingCacheKey); err != nil {
		s.logger.Warn("랭킹 캐시 무효화 실패", zap.Error(err))
	}
}

func (s *pointService) getUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("사용자 조회 실패", zap.String("user_id", id), zap.Error(err))
		return nil, err
	}
	return user, nil
}
