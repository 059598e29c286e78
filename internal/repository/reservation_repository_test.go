package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/tutorhive/tutorhive-api/internal/models"
)

func newReservationRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func reservationRows(reservations ...models.Reservation) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "teacher_id", "course_id", "student_id", "reserve_time", "teacher_status", "student_status", "created_at", "updated_at"})
	for _, r := range reservations {
		rows.AddRow(r.ID, r.TeacherID, r.CourseID, r.StudentID, r.ReserveTime, r.TeacherStatus, r.StudentStatus, time.Now(), time.Now())
	}
	return rows
}

func TestReservationRepositoryFindActiveInRange(t *testing.T) {
	db, mock, cleanup := newReservationRepoMock(t)
	defer cleanup()

	from := time.Date(2024, 6, 2, 16, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)
	repo := NewReservationRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("FROM reservations")).
		WithArgs("teacher-1", from, to, models.ReservationStatusReserved).
		WillReturnRows(reservationRows(models.Reservation{
			ID: "res-1", TeacherID: "teacher-1", CourseID: "course-1", StudentID: "student-1",
			ReserveTime:   time.Date(2024, 6, 3, 1, 30, 0, 0, time.UTC),
			TeacherStatus: models.ReservationStatusReserved,
			StudentStatus: models.ReservationStatusReserved,
		}))

	reservations, err := repo.FindActiveInRange(context.Background(), "teacher-1", from, to)
	require.NoError(t, err)
	require.Len(t, reservations, 1)
	require.Equal(t, "res-1", reservations[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepositoryExistsActiveAt(t *testing.T) {
	db, mock, cleanup := newReservationRepoMock(t)
	defer cleanup()

	at := time.Date(2024, 6, 3, 1, 0, 0, 0, time.UTC)
	repo := NewReservationRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM reservations")).
		WithArgs("teacher-1", at, models.ReservationStatusReserved).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	exists, err := repo.ExistsActiveAt(context.Background(), "teacher-1", at)
	require.NoError(t, err)
	require.True(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepositoryExistsActiveAtNoRows(t *testing.T) {
	db, mock, cleanup := newReservationRepoMock(t)
	defer cleanup()

	at := time.Date(2024, 6, 3, 1, 0, 0, 0, time.UTC)
	repo := NewReservationRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM reservations")).
		WithArgs("teacher-1", at, models.ReservationStatusReserved).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	exists, err := repo.ExistsActiveAt(context.Background(), "teacher-1", at)
	require.NoError(t, err)
	require.False(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newReservationRepoMock(t)
	defer cleanup()

	repo := NewReservationRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO reservations")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	reservation := &models.Reservation{
		TeacherID:     "teacher-1",
		CourseID:      "course-1",
		StudentID:     "student-1",
		ReserveTime:   time.Date(2024, 6, 3, 9, 0, 0, 0, time.FixedZone("CST", 8*60*60)),
		TeacherStatus: models.ReservationStatusReserved,
		StudentStatus: models.ReservationStatusReserved,
	}
	require.NoError(t, repo.Create(context.Background(), reservation))
	require.NotEmpty(t, reservation.ID)
	require.Equal(t, time.UTC, reservation.ReserveTime.Location())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepositoryListByStudent(t *testing.T) {
	db, mock, cleanup := newReservationRepoMock(t)
	defer cleanup()

	repo := NewReservationRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("FROM reservations WHERE student_id")).
		WithArgs("student-1").
		WillReturnRows(reservationRows(models.Reservation{
			ID: "res-1", TeacherID: "teacher-1", CourseID: "course-1", StudentID: "student-1",
			ReserveTime:   time.Date(2024, 6, 3, 1, 0, 0, 0, time.UTC),
			TeacherStatus: models.ReservationStatusReserved,
			StudentStatus: models.ReservationStatusReserved,
		}))

	reservations, err := repo.ListByStudent(context.Background(), "student-1")
	require.NoError(t, err)
	require.Len(t, reservations, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}
