package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"teamhub/backend/internal/model"
)

// AttendanceRepository 출석 데이터 접근 인터페이스
type AttendanceRepository interface {
	// BatchCreate 이미 존재하는 (user, event) 행은 건너뛴다
	BatchCreate(ctx context.Context, rows []model.Attendance) error
	GetByID(ctx context.Context, id string) (*model.Attendance, error)
	Get(ctx context.Context, userID, eventID string) (*model.Attendance, error)
	// Upsert (user, event) 행이 있으면 columns 만 갱신하고 없으면 새로 만든다
	Upsert(ctx context.Context, row *model.Attendance, columns ...string) error
	UpdateActual(ctx context.Context, id string, status model.ActualStatus, notes *string, at time.Time) error
	ListByEvent(ctx context.Context, eventID string) ([]model.Attendance, error)
	ListByUser(ctx context.Context, userID string) ([]model.Attendance, error)
	ListPendingByEvent(ctx context.Context, eventID string) ([]model.Attendance, error)
	// ConvertVotes 변환 대상 행의 투표를 실제 출석으로 확정하고 변경된 행 수를 반환한다
	ConvertVotes(ctx context.Context, eventID string, at time.Time) (int64, error)
	DeleteByEvent(ctx context.Context, eventID string) error
}

type attendanceRepo struct {
	db *gorm.DB
}

// NewAttendanceRepo AttendanceRepository 생성
func NewAttendanceRepo(db *gorm.DB) AttendanceRepository {
	return &attendanceRepo{db: db}
}

var attendanceKey = []clause.Column{{Name: "user_id"}, {Name: "event_id"}}

func (r *attendanceRepo) BatchCreate(ctx context.Context, rows []model.Attendance) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: attendanceKey, DoNothing: true}).
		CreateInBatches(rows, 100).Error
}

func (r *attendanceRepo) GetByID(ctx context.Context, id string) (*model.Attendance, error) {
	var row model.Attendance
	err := r.db.WithContext(ctx).
		Where("attendance_id = ?", id).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *attendanceRepo) Get(ctx context.Context, userID, eventID string) (*model.Attendance, error) {
	var row model.Attendance
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *attendanceRepo) Upsert(ctx context.Context, row *model.Attendance, columns ...string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   attendanceKey,
			DoUpdates: clause.AssignmentColumns(append(columns, "updated_at")),
		}).
		Create(row).Error
}

func (r *attendanceRepo) UpdateActual(ctx context.Context, id string, status model.ActualStatus, notes *string, at time.Time) error {
	updates := map[string]interface{}{
		"actual_status": status,
		"confirmed_at":  at,
		"updated_at":    at,
	}
	if notes != nil {
		updates["notes"] = *notes
	}
	result := r.db.WithContext(ctx).
		Model(&model.Attendance{}).
		Where("attendance_id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *attendanceRepo) ListByEvent(ctx context.Context, eventID string) ([]model.Attendance, error) {
	var rows []model.Attendance
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("event_id = ?", eventID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *attendanceRepo) ListByUser(ctx context.Context, userID string) ([]model.Attendance, error) {
	var rows []model.Attendance
	err := r.db.WithContext(ctx).
		Preload("Event").
		Where("user_id = ?", userID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *attendanceRepo) ListPendingByEvent(ctx context.Context, eventID string) ([]model.Attendance, error) {
	var rows []model.Attendance
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND voted_status = ?", eventID, model.VotePending).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *attendanceRepo) ConvertVotes(ctx context.Context, eventID string, at time.Time) (int64, error) {
	var affected int64
	for _, vote := range []model.VotedStatus{model.VoteAttending, model.VoteAbsent, model.VotePending} {
		result := r.db.WithContext(ctx).
			Model(&model.Attendance{}).
			Where("event_id = ? AND voted_status = ? AND actual_status IN ?",
				eventID, vote, model.ConvertibleActualStatuses).
			Updates(map[string]interface{}{
				"actual_status": model.ResolveActual(vote),
				"confirmed_at":  at,
				"updated_at":    at,
			})
		if result.Error != nil {
			return affected, result.Error
		}
		affected += result.RowsAffected
	}
	return affected, nil
}

func (r *attendanceRepo) DeleteByEvent(ctx context.Context, eventID string) error {
	return r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Delete(&model.Attendance{}).Error
}
