package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"teamhub/backend/internal/model"
)

// PostgreSQL 에서 total_points 가 읽기-쓰기가 아닌 원자적 증감으로 갱신되는지 확인한다
func TestAddPoints_PostgresUsesAtomicIncrement(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "users" SET "total_points"=total_points + $1 WHERE user_id = $2`)).
		WithArgs(-7, "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "total_points" FROM "users" WHERE user_id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"total_points"}).AddRow(3))

	total, err := NewUserRepo(db).AddPoints(context.Background(), "user-1", -7)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateIfAbsent_PostgresUsesOnConflictDoNothing(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	mock.ExpectExec(`INSERT INTO "point_logs" .* ON CONFLICT \("dedup_key"\) DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	eventID := "event-1"
	key := model.UnvotedDedupKey(eventID, "user-1")
	log := &model.PointLog{
		UserID:   "user-1",
		Category: model.PointParticipation,
		Reason:   model.UnvotedPenaltyReason(eventID),
		Points:   model.UnvotedPenaltyPoints,
		EventID:  &eventID,
		DedupKey: &key,
	}
	inserted, err := NewPointLogRepo(db).CreateIfAbsent(context.Background(), log)
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
