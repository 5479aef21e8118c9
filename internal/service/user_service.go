package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"teamhub/backend/internal/dto"
	"teamhub/backend/internal/model"
	"teamhub/backend/internal/repository"
)

var (
	ErrUserNotFound     = errors.New("사용자가 존재하지 않습니다")
	ErrPermissionDenied = errors.New("권한이 없습니다")
	ErrInvalidRole      = errors.New("허용되지 않은 권한 값입니다")
)

// UserService 사용자 관리 업무 인터페이스
type UserService interface {
	GetByID(ctx context.Context, id string) (*dto.UserResponse, error)
	List(ctx context.Context, includeInactive bool) ([]dto.UserResponse, error)
	// Update 본인 또는 매니저가 프로필을 수정한다. role/tag 는 매니저만.
	Update(ctx context.Context, callerID, targetID string, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	Deactivate(ctx context.Context, id string) error
	// AssignRole 등번호로 사용자를 찾아 권한/직책을 지정한다 (CLI 초기 설정용)
	AssignRole(ctx context.Context, number int, role model.Role, tag string) (*dto.UserResponse, error)
	ListCoachingStaff(ctx context.Context) ([]dto.UserBrief, error)
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService UserService 생성
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

func (s *userService) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) List(ctx context.Context, includeInactive bool) ([]dto.UserResponse, error) {
	users, err := s.repo.User.List(ctx, includeInactive)
	if err != nil {
		s.logger.Error("사용자 목록 조회 실패", zap.Error(err))
		return nil, err
	}

	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, toUserResponse(&users[i]))
	}
	return result, nil
}

func (s *userService) Update(ctx context.Context, callerID, targetID string, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	caller, err := s.getUser(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if callerID != targetID && !caller.IsManager() {
		return nil, ErrPermissionDenied
	}
	if (req.Role != nil || req.Tag != nil) && !caller.IsManager() {
		return nil, ErrPermissionDenied
	}

	user, err := s.getUser(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if req.Number != nil && *req.Number != user.Number {
		if _, err := s.repo.User.GetByNumber(ctx, *req.Number); err == nil {
			return nil, ErrNumberTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("등번호 조회 실패", zap.Error(err))
			return nil, err
		}
		user.Number = *req.Number
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Position != nil {
		user.Position = *req.Position
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.JoinDate != nil {
		user.JoinDate = *req.JoinDate
	}
	if req.Role != nil {
		user.Role = model.Role(*req.Role)
	}
	if req.Tag != nil {
		user.Tag = *req.Tag
	}

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("사용자 수정 실패", zap.String("user_id", targetID), zap.Error(err))
		return nil, err
	}

	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) Deactivate(ctx context.Context, id string) error {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return err
	}
	if !user.IsActive {
		return nil
	}

	user.IsActive = false
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("사용자 비활성화 실패", zap.String("user_id", id), zap.Error(err))
		return err
	}
	s.logger.Info("사용자 비활성화", zap.String("user_id", id))
	return nil
}

func (s *userService) AssignRole(ctx context.Context, number int, role model.Role, tag string) (*dto.UserResponse, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	user, err := s.repo.User.GetByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("등번호 조회 실패", zap.Error(err))
		return nil, err
	}

	user.Role = role
	user.Tag = tag
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("권한 지정 실패", zap.Int("number", number), zap.Error(err))
		return nil, err
	}

	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) ListCoachingStaff(ctx context.Context) ([]dto.UserBrief, error) {
	users, err := s.repo.User.ListActive(ctx)
	if err != nil {
		s.logger.Error("사용자 목록 조회 실패", zap.Error(err))
		return nil, err
	}

	result := make([]dto.UserBrief, 0)
	for i := range users {
		if users[i].IsManager() && users[i].IsCoachingStaff() {
			result = append(result, toUserBrief(&users[i]))
		}
	}
	return result, nil
}

func (s *userService) getUser(ctx context.Context, id string) (*model.User, error) {
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
