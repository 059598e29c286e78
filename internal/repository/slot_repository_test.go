package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/tutorhive/tutorhive-api/internal/models"
)

func newSlotRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "postgres"), mock, func() { db.Close() }
}

func slotRows(slots ...models.AvailableSlot) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "teacher_id", "weekday", "start_time", "end_time", "is_active", "created_at", "updated_at"})
	for _, s := range slots {
		rows.AddRow(s.ID, s.TeacherID, s.Weekday, s.StartTime, s.EndTime, s.IsActive, time.Now(), time.Now())
	}
	return rows
}

func TestSlotRepositoryListByTeacher(t *testing.T) {
	db, mock, cleanup := newSlotRepoMock(t)
	defer cleanup()

	repo := NewSlotRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, teacher_id, weekday, start_time, end_time")).
		WithArgs("teacher-1").
		WillReturnRows(slotRows(
			models.AvailableSlot{ID: "slot-1", TeacherID: "teacher-1", Weekday: 1, StartTime: "09:00", EndTime: "10:00", IsActive: true},
			models.AvailableSlot{ID: "slot-2", TeacherID: "teacher-1", Weekday: 3, StartTime: "14:00", EndTime: "16:00", IsActive: false},
		))

	slots, err := repo.ListByTeacher(context.Background(), "teacher-1")
	require.NoError(t, err)
	require.Len(t, slots, 2)
	require.Equal(t, "slot-1", slots[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotRepositoryListByTeacherEmpty(t *testing.T) {
	db, mock, cleanup := newSlotRepoMock(t)
	defer cleanup()

	repo := NewSlotRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("FROM available_slots WHERE teacher_id")).
		WithArgs("teacher-1").
		WillReturnRows(slotRows())

	slots, err := repo.ListByTeacher(context.Background(), "teacher-1")
	require.NoError(t, err)
	require.NotNil(t, slots)
	require.Empty(t, slots)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotRepositoryListActiveByTeacherWithIDs(t *testing.T) {
	db, mock, cleanup := newSlotRepoMock(t)
	defer cleanup()

	repo := NewSlotRepository(db)
	mock.ExpectQuery("FROM available_slots WHERE teacher_id = \\$1 AND is_active = TRUE AND id IN").
		WithArgs("teacher-1", "slot-1", "slot-2").
		WillReturnRows(slotRows(
			models.AvailableSlot{ID: "slot-1", TeacherID: "teacher-1", Weekday: 1, StartTime: "09:00", EndTime: "10:00", IsActive: true},
		))

	slots, err := repo.ListActiveByTeacher(context.Background(), "teacher-1", []string{"slot-1", "slot-2"})
	require.NoError(t, err)
	require.Len(t, slots, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotRepositoryReplaceForTeacher(t *testing.T) {
	db, mock, cleanup := newSlotRepoMock(t)
	defer cleanup()

	repo := NewSlotRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM available_slots WHERE teacher_id")).
		WithArgs("teacher-1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO available_slots")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO available_slots")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	inserted, deleted, err := repo.ReplaceForTeacher(context.Background(), "teacher-1", []models.AvailableSlot{
		{Weekday: 1, StartTime: "09:00", EndTime: "10:00", IsActive: true},
		{Weekday: 3, StartTime: "14:00", EndTime: "16:00", IsActive: true},
	})
	require.NoError(t, err)
	require.Equal(t, int64(2), deleted)
	require.Len(t, inserted, 2)
	require.NotEmpty(t, inserted[0].ID)
	require.Equal(t, "teacher-1", inserted[0].TeacherID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotRepositoryReplaceForTeacherEmptySet(t *testing.T) {
	db, mock, cleanup := newSlotRepoMock(t)
	defer cleanup()

	repo := NewSlotRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM available_slots WHERE teacher_id")).
		WithArgs("teacher-1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	inserted, deleted, err := repo.ReplaceForTeacher(context.Background(), "teacher-1", nil)
	require.NoError(t, err)
	require.Equal(t, int64(3), deleted)
	require.Empty(t, inserted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotRepositoryReplaceForTeacherRollsBackOnInsertFailure(t *testing.T) {
	db, mock, cleanup := newSlotRepoMock(t)
	defer cleanup()

	repo := NewSlotRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM available_slots WHERE teacher_id")).
		WithArgs("teacher-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO available_slots")).
		WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	_, _, err := repo.ReplaceForTeacher(context.Background(), "teacher-1", []models.AvailableSlot{
		{Weekday: 1, StartTime: "09:00", EndTime: "10:00", IsActive: true},
	})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
