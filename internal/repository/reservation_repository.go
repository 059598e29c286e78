package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/tutorhive/tutorhive-api/internal/models"
)

// ReservationRepository persists concrete bookings. ReserveTime values are
// stored and compared in UTC.
type ReservationRepository struct {
	db *sqlx.DB
}

// NewReservationRepository constructs a ReservationRepository.
func NewReservationRepository(db *sqlx.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// FindActiveInRange returns a teacher's committed reservations whose
// reserve_time falls in [from, to), ordered by time then id.
func (r *ReservationRepository) FindActiveInRange(ctx context.Context, teacherID string, from, to time.Time) ([]models.Reservation, error) {
	const query = `SELECT id, teacher_id, course_id, student_id, reserve_time, teacher_status, student_status, created_at, updated_at
		FROM reservations
		WHERE teacher_id = $1 AND reserve_time >= $2 AND reserve_time < $3
		  AND teacher_status = $4 AND student_status = $4
		ORDER BY reserve_time ASC, id ASC`
	reservations := []models.Reservation{}
	if err := r.db.SelectContext(ctx, &reservations, query, teacherID, from.UTC(), to.UTC(), models.ReservationStatusReserved); err != nil {
		return nil, fmt.Errorf("find reservations in range: %w", err)
	}
	return reservations, nil
}

// ExistsActiveAt reports whether a committed reservation already occupies
// the exact instant for the teacher.
func (r *ReservationRepository) ExistsActiveAt(ctx context.Context, teacherID string, at time.Time) (bool, error) {
	const query = `SELECT 1 FROM reservations
		WHERE teacher_id = $1 AND reserve_time = $2
		  AND teacher_status = $3 AND student_status = $3
		LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, teacherID, at.UTC(), models.ReservationStatusReserved); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check reservation at instant: %w", err)
	}
	return true, nil
}

// Create stores a new reservation record.
func (r *ReservationRepository) Create(ctx context.Context, reservation *models.Reservation) error {
	if reservation.ID == "" {
		reservation.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if reservation.CreatedAt.IsZero() {
		reservation.CreatedAt = now
	}
	reservation.UpdatedAt = now
	reservation.ReserveTime = reservation.ReserveTime.UTC()

	const query = `INSERT INTO reservations (id, teacher_id, course_id, student_id, reserve_time, teacher_status, student_status, created_at, updated_at)
		VALUES (:id, :teacher_id, :course_id, :student_id, :reserve_time, :teacher_status, :student_status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, reservation); err != nil {
		return fmt.Errorf("create reservation: %w", err)
	}
	return nil
}

// ListByStudent returns a student's reservations, most recent first.
func (r *ReservationRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Reservation, error) {
	const query = `SELECT id, teacher_id, course_id, student_id, reserve_time, teacher_status, student_status, created_at, updated_at
		FROM reservations WHERE student_id = $1 ORDER BY reserve_time DESC`
	reservations := []models.Reservation{}
	if err := r.db.SelectContext(ctx, &reservations, query, studentID); err != nil {
		return nil, fmt.Errorf("list reservations by student: %w", err)
	}
	return reservations, nil
}

// ListByTeacher returns a teacher's reservations, most recent first.
func (r *ReservationRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.Reservation, error) {
	const query = `SELECT id, teacher_id, course_id, student_id, reserve_time, teacher_status, student_status, created_at, updated_at
		FROM reservations WHERE teacher_id = $1 ORDER BY reserve_time DESC`
	reservations := []models.Reservation{}
	if err := r.db.SelectContext(ctx, &reservations, query, teacherID); err != nil {
		return nil, fmt.Errorf("list reservations by teacher: %w", err)
	}
	return reservations, nil
}
