package service

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"teamhub/backend/internal/dto"
	"teamhub/backend/internal/model"
	"teamhub/backend/internal/repository"
)

// StatsService 출석 통계
//
// 집계 대상: 취소/예정이 아닌 일정 중 사용자의 입단일 이후 일정.
// 출석률 = round(attended * 100 / total)
type StatsService interface {
	GetUserStats(ctx context.Context, userID string) (*dto.UserStatsResponse, error)
	// AttendanceRanking 집계 일정이 1개 이상인 활성 사용자를 출석률 순으로 정렬한다.
	// limit <= 0 이면 전체.
	AttendanceRanking(ctx context.Context, limit int) ([]dto.AttendanceRankingEntry, error)
}

type statsService struct {
	repo   *repository.Repository
	loc    *time.Location
	logger *zap.Logger
	now    func() time.Time
}

// NewStatsService StatsService 생성
func NewStatsService(repo *repository.Repository, loc *time.Location, logger *zap.Logger) StatsService {
	return &statsService{repo: repo, loc: loc, logger: logger, now: time.Now}
}

func (s *statsService) GetUserStats(ctx context.Context, userID string) (*dto.UserStatsResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("사용자 조회 실패", zap.Error(err))
		return nil, err
	}

	return s.computeStats(ctx, user)
}

func (s *statsService) AttendanceRanking(ctx context.Context, limit int) ([]dto.AttendanceRankingEntry, error) {
	users, err := s.repo.User.ListActive(ctx)
	if err != nil {
		s.logger.Error("활성 사용자 조회 실패", zap.Error(err))
		return nil, err
	}

	type row struct {
		user  model.User
		stats *dto.UserStatsResponse
	}
	rows := make([]row, 0, len(users))
	for i := range users {
		st, err := s.computeStats(ctx, &users[i])
		if err != nil {
			return nil, err
		}
		if st.TotalEvents == 0 {
			continue
		}
		rows = append(rows, row{user: users[i], stats: st})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].stats, rows[j].stats
		if a.AttendanceRate != b.AttendanceRate {
			return a.AttendanceRate > b.AttendanceRate
		}
		if a.Attended != b.Attended {
			return a.Attended > b.Attended
		}
		return rows[i].user.Number < rows[j].user.Number
	})

	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	result := make([]dto.AttendanceRankingEntry, 0, len(rows))
	for i, r := range rows {
		result = append(result, dto.AttendanceRankingEntry{
			Rank:     i + 1,
			UserID:   r.user.UserID,
			Name:     r.user.Name,
			Number:   r.user.Number,
			Attended: r.stats.Attended,
			Total:    r.stats.TotalEvents,
			Rate:     r.stats.AttendanceRate,
		})
	}
	return result, nil
}

// ── 내부 함수 ──

func (s *statsService) computeStats(ctx context.Context, user *model.User) (*dto.UserStatsResponse, error) {
	rows, err := s.repo.Attendance.ListByUser(ctx, user.UserID)
	if err != nil {
		s.logger.Error("출석 기록 조회 실패", zap.String("user_id", user.UserID), zap.Error(err))
		return nil, err
	}

	counted := make([]model.Attendance, 0, len(rows))
	for _, r := range rows {
		if r.Event == nil {
			continue
		}
		if r.Event.Status == model.EventCancelled || r.Event.Status == model.EventUpcoming {
			continue
		}
		// 날짜 문자열(YYYY-MM-DD)은 사전순 비교가 곧 날짜 비교
		if user.JoinDate != "" && r.Event.Date < user.JoinDate {
			continue
		}
		counted = append(counted, r)
	}

	// 최신 일정부터
	sort.SliceStable(counted, func(i, j int) bool {
		return eventSortKey(counted[i].Event) > eventSortKey(counted[j].Event)
	})

	month := s.now().In(s.loc).Format("2006-01")
	st := &dto.UserStatsResponse{UserID: user.UserID, TotalEvents: len(counted)}
	streakOpen := true
	for _, r := range counted {
		attended := r.ActualStatus == model.ActualAttended
		if attended {
			st.Attended++
			if len(r.Event.Date) >= 7 && r.Event.Date[:7] == month {
				st.ThisMonthAttended++
			}
		}
		if streakOpen {
			if attended {
				st.CurrentStreak++
			} else {
				streakOpen = false
			}
		}
	}

	if st.TotalEvents > 0 {
		st.AttendanceRate = int(math.Round(float64(st.Attended) * 100 / float64(st.TotalEvents)))
	}
	return st, nil
}
