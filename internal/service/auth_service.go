package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"teamhub/backend/config"
	"teamhub/backend/internal/dto"
	"teamhub/backend/internal/model"
	"teamhub/backend/internal/repository"
	"teamhub/backend/pkg/jwt"
)

var (
	ErrInvalidCredentials  = errors.New("이름 또는 등번호가 올바르지 않습니다")
	ErrUserInactive        = errors.New("비활성화된 계정입니다")
	ErrNumberTaken         = errors.New("이미 사용 중인 등번호입니다")
	ErrInvalidRefreshToken = errors.New("유효하지 않은 Refresh Token 입니다")
	ErrTokenRevoked        = errors.New("로그아웃된 토큰입니다")
)

// AuthService 인증 업무 인터페이스
type AuthService interface {
	Signup(ctx context.Context, req *dto.SignupRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	// Logout Access Token 과 (있다면) Refresh Token 을 블랙리스트에 올린다
	Logout(ctx context.Context, accessJTI string, accessExpiresAt time.Time, refreshToken string) error
	CheckNumberAvailability(ctx context.Context, number int) (*dto.NumberAvailabilityResponse, error)
}

type authService struct {
	cfg       *config.Config
	repo      *repository.Repository
	jwtMgr    *jwt.Manager
	blacklist TokenBlacklist
	logger    *zap.Logger
	now       func() time.Time
}

// NewAuthService AuthService 생성
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:       cfg,
		repo:      repo,
		jwtMgr:    jwtMgr,
		blacklist: blacklist,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *authService) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.UserResponse, error) {
	number := *req.Number

	// 1. 등번호 중복 확인
	if _, err := s.repo.User.GetByNumber(ctx, number); err == nil {
		return nil, ErrNumberTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("등번호 조회 실패", zap.Error(err))
		return nil, err
	}

	// 2. 기본값
	joinDate := req.JoinDate
	if joinDate == "" {
		joinDate = s.now().In(s.cfg.Club.Location()).Format(model.DateLayout)
	}
	position := req.Position
	if position == "" {
		position = model.DefaultPosition
	}

	user := &model.User{
		Name:     req.Name,
		Number:   number,
		Role:     model.RolePlayer,
		Position: position,
		Phone:    req.Phone,
		JoinDate: joinDate,
		IsActive: true,
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		s.logger.Error("사용자 생성 실패", zap.Error(err))
		return nil, err
	}

	s.logger.Info("신규 가입", zap.String("user_id", user.UserID), zap.Int("number", number))
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// 1. 사용자 조회
	user, err := s.repo.User.GetByNameAndNumber(ctx, req.Name, *req.Number)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("사용자 조회 실패", zap.Error(err))
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	// 2. 마지막 로그인 시각 기록 (실패해도 로그인은 진행)
	now := s.now()
	if err := s.repo.User.UpdateLastLogin(ctx, user.UserID, now); err != nil {
		s.logger.Warn("마지막 로그인 시각 갱신 실패", zap.String("user_id", user.UserID), zap.Error(err))
	} else {
		user.LastLoginAt = &now
	}

	// 3. 토큰 발급
	return s.issueTokens(user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	claims, err := s.jwtMgr.ParseToken(refreshToken)
	if err != nil || claims.TokenType != "refresh" {
		return nil, ErrInvalidRefreshToken
	}

	if s.blacklist != nil {
		revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			s.logger.Warn("블랙리스트 조회 실패", zap.Error(err))
		} else if revoked {
			return nil, ErrTokenRevoked
		}
	}

	user, err := s.repo.User.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		s.logger.Error("사용자 조회 실패", zap.Error(err))
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	// 기존 Refresh Token 은 회전 후 폐기
	if s.blacklist != nil {
		ttl := time.Until(claims.ExpiresAt.Time)
		if err := s.blacklist.BlacklistToken(ctx, claims.ID, ttl); err != nil {
			s.logger.Warn("Refresh Token 폐기 실패", zap.Error(err))
		}
	}

	return s.issueTokens(user)
}

func (s *authService) Logout(ctx context.Context, accessJTI string, accessExpiresAt time.Time, refreshToken string) error {
	if s.blacklist == nil {
		return nil
	}

	if err := s.blacklist.BlacklistToken(ctx, accessJTI, time.Until(accessExpiresAt)); err != nil {
		s.logger.Error("Access Token 폐기 실패", zap.Error(err))
		return err
	}

	if refreshToken != "" {
		if claims, err := s.jwtMgr.ParseToken(refreshToken); err == nil {
			if err := s.blacklist.BlacklistToken(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
				s.logger.Warn("Refresh Token 폐기 실패", zap.Error(err))
			}
		}
	}
	return nil
}

func (s *authService) CheckNumberAvailability(ctx context.Context, number int) (*dto.NumberAvailabilityResponse, error) {
	_, err := s.repo.User.GetByNumber(ctx, number)
	if err == nil {
		return &dto.NumberAvailabilityResponse{Number: number, Available: false}, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &dto.NumberAvailabilityResponse{Number: number, Available: true}, nil
	}
	s.logger.Error("등번호 조회 실패", zap.Error(err))
	return nil, err
}

func (s *authService) issueTokens(user *model.User) (*dto.TokenResponse, error) {
	accessToken, err := s.jwtMgr.GenerateAccessToken(user.UserID, string(user.Role), user.Tag)
	if err != nil {
		s.logger.Error("Access Token 생성 실패", zap.Error(err))
		return nil, err
	}

	refreshToken, err := s.jwtMgr.GenerateRefreshToken(user.UserID, string(user.Role), user.Tag)
	if err != nil {
		s.logger.Error("Refresh Token 생성 실패", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.jwtMgr.AccessTokenTTL().Seconds()),
		User:         toUserResponse(user),
	}, nil
}
