package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"teamhub/backend/internal/dto"
	"teamhub/backend/internal/model"
	"teamhub/backend/internal/repository"
	pkgerrors "teamhub/backend/pkg/errors"
)

var (
	ErrStaffRequestNotFound = errors.New("스태프 요청이 존재하지 않습니다")
	ErrNotCoachingStaff     = errors.New("코칭스태프만 스태프 요청을 제출할 수 있습니다")
	ErrRequestConflict      = errors.New("이미 처리 중인 같은 유형의 요청이 있습니다. 기존 요청을 철회한 후 다시 시도해주세요.")
	ErrMissingRequiredField = errors.New("필수 항목이 누락되었습니다")
	ErrInvalidTransition    = errors.New("현재 상태에서 허용되지 않는 요청 상태 변경입니다")
	ErrRequestExpired       = errors.New("만료된 요청입니다")
	ErrNotRequester         = errors.New("본인의 요청만 처리할 수 있습니다")
	ErrReviewNotesRequired  = errors.New("조건부 승인에는 조건 내용이 필요합니다")
	ErrSubstituteNotFound   = errors.New("대체 인원이 존재하지 않거나 비활성 상태입니다")
	ErrEventClosed          = errors.New("종료되었거나 취소된 일정입니다")
)

// StaffRequestService 스태프 요청 업무 인터페이스
type StaffRequestService interface {
	Create(ctx context.Context, requesterID string, req *dto.CreateStaffRequestRequest) (*dto.StaffRequestResponse, error)
	GetByID(ctx context.Context, id string) (*dto.StaffRequestResponse, error)
	Submit(ctx context.Context, requesterID, requestID string) (*dto.StaffRequestResponse, error)
	Withdraw(ctx context.Context, requesterID, requestID string) (*dto.StaffRequestResponse, error)
	StartReview(ctx context.Context, approverID, requestID string) (*dto.StaffRequestResponse, error)
	// Approve 승인과 출석 불참 처리를 한 트랜잭션으로 적용한다
	Approve(ctx context.Context, approverID, requestID, notes string) (*dto.StaffRequestResponse, error)
	ConditionallyApprove(ctx context.Context, approverID, requestID, notes string) (*dto.StaffRequestResponse, error)
	Reject(ctx context.Context, approverID, requestID, notes string) (*dto.StaffRequestResponse, error)
	// ListPending 승인 대기 요청 중 호출자가 승인할 수 있는 것만, 우선순위 높은 순/오래된 순
	ListPending(ctx context.Context, approverID string) ([]dto.StaffRequestResponse, error)
	ListMine(ctx context.Context, requesterID string) ([]dto.StaffRequestResponse, error)
	ListAll(ctx context.Context) ([]dto.StaffRequestResponse, error)
	ListByEvent(ctx context.Context, eventID string) ([]dto.StaffRequestResponse, error)
	// ExpireStale 기한이 지난 미종결 요청을 expired 로 바꾸고 건수를 반환한다
	ExpireStale(ctx context.Context) (int, error)
}

type staffRequestService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewStaffRequestService StaffRequestService 생성
func NewStaffRequestService(repo *repository.Repository, logger *zap.Logger) StaffRequestService {
	return &staffRequestService{repo: repo, logger: logger, now: time.Now}
}

// ────────────────────── Create ──────────────────────

func (s *staffRequestService) Create(ctx context.Context, requesterID string, req *dto.CreateStaffRequestRequest) (*dto.StaffRequestResponse, error) {
	// 1. 요청자 / 일정 확인
	requester, err := s.getUser(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	if !requester.IsActive {
		return nil, ErrUserInactive
	}
	if !requester.IsCoachingStaff() {
		return nil, ErrNotCoachingStaff
	}

	event, err := s.repo.Event.GetByID(ctx, req.EventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		s.logger.Error("일정 조회 실패", zap.Error(err))
		return nil, err
	}
	if event.Status == model.EventCancelled || event.Status == model.EventCompleted {
		return nil, ErrEventClosed
	}

	// 2. 종류별 필수 항목 검증
	draft, err := buildStaffRequest(req)
	if err != nil {
		return nil, err
	}
	if draft.HasSubstitute {
		sub, err := s.repo.User.GetByID(ctx, *draft.SubstituteUserID)
		if err != nil || !sub.IsActive {
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				s.logger.Error("대체 인원 조회 실패", zap.Error(err))
				return nil, err
			}
			return nil, ErrSubstituteNotFound
		}
	}

	now := s.now()
	draft.RequesterID = requesterID
	draft.Status = model.RequestSubmitted
	draft.SubmittedAt = &now
	if req.Draft {
		draft.Status = model.RequestDraft
		draft.SubmittedAt = nil
	}

	// 3. 같은 (요청자, 일정, 종류) 요청 확인
	existing, err := s.repo.StaffRequest.FindLatest(ctx, requesterID, req.EventID, draft.RequestType)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("기존 요청 조회 실패", zap.Error(err))
		return nil, err
	}

	switch {
	case existing != nil && existing.Status.InReview():
		return nil, ErrRequestConflict

	case existing != nil && existing.Status != model.RequestApproved &&
		existing.Status != model.RequestConditionallyApproved:
		// draft / rejected / withdrawn / expired 행은 재사용
		overwriteStaffRequest(existing, draft)
		if err := s.save(ctx, existing); err != nil {
			return nil, err
		}
		s.logger.Info("스태프 요청 재제출",
			zap.String("request_id", existing.RequestID),
			zap.String("status", string(existing.Status)),
		)
		return s.reload(ctx, existing.RequestID)

	default:
		if err := s.repo.StaffRequest.Create(ctx, draft); err != nil {
			s.logger.Error("스태프 요청 생성 실패", zap.Error(err))
			return nil, err
		}
		s.logger.Info("스태프 요청 생성",
			zap.String("request_id", draft.RequestID),
			zap.String("type", string(draft.RequestType)),
		)
		return s.reload(ctx, draft.RequestID)
	}
}

// buildStaffRequest 요청 DTO 를 검증하고 종류와 무관한 시간 항목은 비운다
func buildStaffRequest(req *dto.CreateStaffRequestRequest) (*model.StaffRequest, error) {
	reqType := model.RequestType(req.RequestType)
	if !reqType.Valid() {
		return nil, fmt.Errorf("%w: request_type", ErrMissingRequiredField)
	}
	category := model.ReasonCategory(req.ReasonCategory)
	if !category.Valid() {
		return nil, fmt.Errorf("%w: reason_category", ErrMissingRequiredField)
	}
	if req.ReasonDetail == "" {
		return nil, fmt.Errorf("%w: reason_detail", ErrMissingRequiredField)
	}

	priority := model.PriorityMedium
	if req.Priority != "" {
		priority = model.Priority(req.Priority)
		if !priority.Valid() {
			return nil, fmt.Errorf("%w: priority", ErrMissingRequiredField)
		}
	}

	r := &model.StaffRequest{
		EventID:         req.EventID,
		RequestType:     reqType,
		ReasonCategory:  category,
		ReasonDetail:    req.ReasonDetail,
		Priority:        priority,
		HasSubstitute:   req.HasSubstitute,
		SubstituteNotes: req.SubstituteNotes,
		AttachmentURLs:  datatypes.JSONSlice[string](req.AttachmentURLs),
		ExpiresAt:       req.ExpiresAt,
	}

	switch reqType {
	case model.RequestLateArrival:
		if isBlank(req.LateArrivalTime) {
			return nil, fmt.Errorf("%w: late_arrival_time", ErrMissingRequiredField)
		}
		r.LateArrivalTime = req.LateArrivalTime
	case model.RequestEarlyDeparture:
		if isBlank(req.EarlyDepartureTime) {
			return nil, fmt.Errorf("%w: early_departure_time", ErrMissingRequiredField)
		}
		r.EarlyDepartureTime = req.EarlyDepartureTime
	case model.RequestPartialAbsence:
		if isBlank(req.PartialStartTime) || isBlank(req.PartialEndTime) {
			return nil, fmt.Errorf("%w: partial_start_time, partial_end_time", ErrMissingRequiredField)
		}
		r.PartialStartTime = req.PartialStartTime
		r.PartialEndTime = req.PartialEndTime
	}

	if req.HasSubstitute {
		if isBlank(req.SubstituteUserID) {
			return nil, fmt.Errorf("%w: substitute_user_id", ErrMissingRequiredField)
		}
		r.SubstituteUserID = req.SubstituteUserID
	}

	return r, nil
}

// overwriteStaffRequest 종결된 요청 행을 새 내용으로 덮어쓰고 검토 기록을 지운다
func overwriteStaffRequest(dst, src *model.StaffRequest) {
	dst.LateArrivalTime = src.LateArrivalTime
	dst.EarlyDepartureTime = src.EarlyDepartureTime
	dst.PartialStartTime = src.PartialStartTime
	dst.PartialEndTime = src.PartialEndTime
	dst.ReasonCategory = src.ReasonCategory
	dst.ReasonDetail = src.ReasonDetail
	dst.Priority = src.Priority
	dst.HasSubstitute = src.HasSubstitute
	dst.SubstituteUserID = src.SubstituteUserID
	dst.SubstituteNotes = src.SubstituteNotes
	dst.AttachmentURLs = src.AttachmentURLs
	dst.ExpiresAt = src.ExpiresAt
	dst.Status = src.Status
	dst.SubmittedAt = src.SubmittedAt
	dst.ReviewedBy = nil
	dst.ReviewedAt = nil
	dst.ReviewNotes = ""
}

func isBlank(s *string) bool {
	return s == nil || *s == ""
}

// ────────────────────── Requester actions ──────────────────────

func (s *staffRequestService) Submit(ctx context.Context, requesterID, requestID string) (*dto.StaffRequestResponse, error) {
	req, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.RequesterID != requesterID {
		return nil, ErrNotRequester
	}

	now := s.now()
	if err := s.transition(ctx, req, model.RequestSubmitted); err != nil {
		return nil, err
	}
	req.SubmittedAt = &now
	if err := s.save(ctx, req); err != nil {
		return nil, err
	}
	return s.reload(ctx, requestID)
}

func (s *staffRequestService) Withdraw(ctx context.Context, requesterID, requestID string) (*dto.StaffRequestResponse, error) {
	req, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.RequesterID != requesterID {
		return nil, ErrNotRequester
	}

	if err := s.transition(ctx, req, model.RequestWithdrawn); err != nil {
		return nil, err
	}
	if err := s.save(ctx, req); err != nil {
		return nil, err
	}

	s.logger.Info("스태프 요청 철회", zap.String("request_id", requestID))
	return s.reload(ctx, requestID)
}

// ────────────────────── Approver actions ──────────────────────

func (s *staffRequestService) StartReview(ctx context.Context, approverID, requestID string) (*dto.StaffRequestResponse, error) {
	req, err := s.authorize(ctx, approverID, requestID)
	if err != nil {
		return nil, err
	}

	if err := s.transition(ctx, req, model.RequestUnderReview); err != nil {
		return nil, err
	}
	if err := s.save(ctx, req); err != nil {
		return nil, err
	}
	return s.reload(ctx, requestID)
}

func (s *staffRequestService) Approve(ctx context.Context, approverID, requestID, notes string) (*dto.StaffRequestResponse, error) {
	return s.review(ctx, approverID, requestID, model.RequestApproved, notes)
}

func (s *staffRequestService) ConditionallyApprove(ctx context.Context, approverID, requestID, notes string) (*dto.StaffRequestResponse, error) {
	if notes == "" {
		return nil, ErrReviewNotesRequired
	}
	return s.review(ctx, approverID, requestID, model.RequestConditionallyApproved, notes)
}

func (s *staffRequestService) Reject(ctx context.Context, approverID, requestID, notes string) (*dto.StaffRequestResponse, error) {
	return s.review(ctx, approverID, requestID, model.RequestRejected, notes)
}

// review 승인/조건부 승인/반려 공통 처리
// 승인일 때만 요청자의 출석을 불참으로 확정하며, 상태 변경과 같은 트랜잭션에서 처리한다.
func (s *staffRequestService) review(ctx context.Context, approverID, requestID string, target model.RequestStatus, notes string) (*dto.StaffRequestResponse, error) {
	req, err := s.authorize(ctx, approverID, requestID)
	if err != nil {
		return nil, err
	}

	if err := s.transition(ctx, req, target); err != nil {
		return nil, err
	}

	now := s.now()
	req.ReviewedBy = &approverID
	req.ReviewedAt = &now
	req.ReviewNotes = notes

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.StaffRequest.Update(ctx, req); err != nil {
			return err
		}
		if target != model.RequestApproved {
			return nil
		}

		row := &model.Attendance{
			UserID:        req.RequesterID,
			EventID:       req.EventID,
			VotedStatus:   model.VoteAbsent,
			VotedAt:       &now,
			ActualStatus:  model.ActualAbsent,
			ConfirmedAt:   &now,
			AbsenceReason: model.ApprovalAbsenceReason(req.ReasonDetail),
		}
		return tx.Attendance.Upsert(ctx, row,
			"voted_status", "voted_at", "actual_status", "confirmed_at", "absence_reason")
	})
	if err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, err
		}
		s.logger.Error("스태프 요청 검토 실패",
			zap.String("request_id", requestID),
			zap.String("target", string(target)),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("스태프 요청 검토",
		zap.String("request_id", requestID),
		zap.String("status", string(target)),
		zap.String("approver_id", approverID),
	)
	return s.reload(ctx, requestID)
}

// authorize 승인표 확인 후 요청을 반환한다. 거부되면 상태는 바뀌지 않는다.
func (s *staffRequestService) authorize(ctx context.Context, approverID, requestID string) (*model.StaffRequest, error) {
	req, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	approver, err := s.getUser(ctx, approverID)
	if err != nil {
		return nil, err
	}

	requester := req.Requester
	if requester == nil {
		if requester, err = s.getUser(ctx, req.RequesterID); err != nil {
			return nil, err
		}
	}

	if err := authorizeApproval(approver, requester); err != nil {
		s.logger.Info("스태프 요청 승인 거부",
			zap.String("request_id", requestID),
			zap.String("approver_tag", approver.Tag),
			zap.String("requester_tag", requester.Tag),
		)
		return nil, err
	}
	return req, nil
}

// transition 전이표 확인. 기한이 지난 미종결 요청은 expired 로 저장하고 ErrRequestExpired.
func (s *staffRequestService) transition(ctx context.Context, req *model.StaffRequest, next model.RequestStatus) error {
	if next != model.RequestWithdrawn && req.IsExpired(s.now()) && req.Status.CanTransitionTo(model.RequestExpired) {
		req.Status = model.RequestExpired
		if err := s.save(ctx, req); err != nil {
			return err
		}
		return ErrRequestExpired
	}

	if !req.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s → %s", ErrInvalidTransition, req.Status, next)
	}
	req.Status = next
	return nil
}

// ────────────────────── Lists ──────────────────────

func (s *staffRequestService) GetByID(ctx context.Context, id string) (*dto.StaffRequestResponse, error) {
	req, err := s.getRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toStaffRequestResponse(req)
	return &resp, nil
}

func (s *staffRequestService) ListPending(ctx context.Context, approverID string) ([]dto.StaffRequestResponse, error) {
	approver, err := s.getUser(ctx, approverID)
	if err != nil {
		return nil, err
	}

	reqs, err := s.repo.StaffRequest.ListByStatuses(ctx, model.ReviewableStatuses)
	if err != nil {
		s.logger.Error("승인 대기 요청 조회 실패", zap.Error(err))
		return nil, err
	}

	visible := make([]model.StaffRequest, 0, len(reqs))
	for _, r := range reqs {
		if authorizeApproval(approver, r.Requester) == nil {
			visible = append(visible, r)
		}
	}
	sortByPriority(visible)

	return toStaffRequestResponses(visible), nil
}

// sortByPriority 우선순위 내림차순, 같으면 제출 시각 오름차순
func sortByPriority(reqs []model.StaffRequest) {
	sort.SliceStable(reqs, func(i, j int) bool {
		ri, rj := reqs[i].Priority.Rank(), reqs[j].Priority.Rank()
		if ri != rj {
			return ri > rj
		}
		return submittedOrCreated(&reqs[i]).Before(submittedOrCreated(&reqs[j]))
	})
}

func submittedOrCreated(r *model.StaffRequest) time.Time {
	if r.SubmittedAt != nil {
		return *r.SubmittedAt
	}
	return r.CreatedAt
}

func (s *staffRequestService) ListMine(ctx context.Context, requesterID string) ([]dto.StaffRequestResponse, error) {
	reqs, err := s.repo.StaffRequest.ListByRequester(ctx, requesterID)
	if err != nil {
		s.logger.Error("내 요청 조회 실패", zap.Error(err))
		return nil, err
	}
	return toStaffRequestResponses(reqs), nil
}

func (s *staffRequestService) ListAll(ctx context.Context) ([]dto.StaffRequestResponse, error) {
	reqs, err := s.repo.StaffRequest.ListAll(ctx)
	if err != nil {
		s.logger.Error("요청 목록 조회 실패", zap.Error(err))
		return nil, err
	}
	return toStaffRequestResponses(reqs), nil
}

func (s *staffRequestService) ListByEvent(ctx context.Context, eventID string) ([]dto.StaffRequestResponse, error) {
	reqs, err := s.repo.StaffRequest.ListByEvent(ctx, eventID)
	if err != nil {
		s.logger.Error("일정별 요청 조회 실패", zap.String("event_id", eventID), zap.Error(err))
		return nil, err
	}
	return toStaffRequestResponses(reqs), nil
}

func (s *staffRequestService) ExpireStale(ctx context.Context) (int, error) {
	reqs, err := s.repo.StaffRequest.ListExpirable(ctx, s.now())
	if err != nil {
		s.logger.Error("만료 대상 요청 조회 실패", zap.Error(err))
		return 0, err
	}

	expired := 0
	for i := range reqs {
		req := &reqs[i]
		if !req.Status.CanTransitionTo(model.RequestExpired) {
			continue
		}
		req.Status = model.RequestExpired
		if err := s.repo.StaffRequest.Update(ctx, req); err != nil {
			// 동시에 처리된 요청은 다음 주기에 다시 확인
			s.logger.Warn("요청 만료 처리 실패", zap.String("request_id", req.RequestID), zap.Error(err))
			continue
		}
		expired++
	}
	return expired, nil
}

// ── 내부 헬퍼 ──

func (s *staffRequestService) getRequest(ctx context.Context, id string) (*model.StaffRequest, error) {
	req, err := s.repo.StaffRequest.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStaffRequestNotFound
		}
		s.logger.Error("스태프 요청 조회 실패", zap.String("request_id", id), zap.Error(err))
		return nil, err
	}
	return req, nil
}

func (s *staffRequestService) getUser(ctx context.Context, id string) (*model.User, error) {
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

func (s *staffRequestService) save(ctx context.Context, req *model.StaffRequest) error {
	if err := s.repo.StaffRequest.Update(ctx, req); err != nil {
		if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
			s.logger.Error("스태프 요청 저장 실패", zap.String("request_id", req.RequestID), zap.Error(err))
		}
		return err
	}
	return nil
}

func (s *staffRequestService) reload(ctx context.Context, id string) (*dto.StaffRequestResponse, error) {
	return s.GetByID(ctx, id)
}

func toStaffRequestResponses(reqs []model.StaffRequest) []dto.StaffRequestResponse {
	result := make([]dto.StaffRequestResponse, 0, len(reqs))
	for i := range reqs {
		result = append(result, toStaffRequestResponse(&reqs[i]))
	}
	return result
}
