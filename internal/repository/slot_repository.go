package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/tutorhive/tutorhive-api/internal/models"
)

// SlotRepository persists recurring weekly availability slots.
type SlotRepository struct {
	db *sqlx.DB
}

// NewSlotRepository constructs a SlotRepository.
func NewSlotRepository(db *sqlx.DB) *SlotRepository {
	return &SlotRepository{db: db}
}

// ListByTeacher returns every slot for a teacher ordered by weekday then
// start time. An unconfigured teacher yields an empty list, not an error.
func (r *SlotRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.AvailableSlot, error) {
	const query = `SELECT id, teacher_id, weekday, start_time, end_time, is_active, created_at, updated_at
		FROM available_slots WHERE teacher_id = $1 ORDER BY weekday ASC, start_time ASC`
	slots := []models.AvailableSlot{}
	if err := r.db.SelectContext(ctx, &slots, query, teacherID); err != nil {
		return nil, fmt.Errorf("list slots by teacher: %w", err)
	}
	return slots, nil
}

// ListActiveByTeacher returns active slots, optionally narrowed to specific
// slot ids.
func (r *SlotRepository) ListActiveByTeacher(ctx context.Context, teacherID string, slotIDs []string) ([]models.AvailableSlot, error) {
	query := `SELECT id, teacher_id, weekday, start_time, end_time, is_active, created_at, updated_at
		FROM available_slots WHERE teacher_id = ? AND is_active = TRUE`
	args := []interface{}{teacherID}

	if len(slotIDs) > 0 {
		query += " AND id IN (?)"
		args = append(args, slotIDs)
	}
	query += " ORDER BY weekday ASC, start_time ASC"

	query, expanded, err := sqlx.In(query, args...)
	if err != nil {
		return nil, fmt.Errorf("build active slots query: %w", err)
	}
	query = r.db.Rebind(query)

	slots := []models.AvailableSlot{}
	if err := r.db.SelectContext(ctx, &slots, query, expanded...); err != nil {
		return nil, fmt.Errorf("list active slots: %w", err)
	}
	return slots, nil
}

// ReplaceForTeacher atomically swaps a teacher's entire slot set: all prior
// rows are deleted and the submitted slots inserted fresh inside one
// transaction, so concurrent readers see either the full old set or the full
// new set. Returns the inserted slots and the number of deleted rows.
func (r *SlotRepository) ReplaceForTeacher(ctx context.Context, teacherID string, slots []models.AvailableSlot) ([]models.AvailableSlot, int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("begin replace slots: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `DELETE FROM available_slots WHERE teacher_id = $1`, teacherID)
	if err != nil {
		return nil, 0, fmt.Errorf("delete slots: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return nil, 0, fmt.Errorf("count deleted slots: %w", err)
	}

	now := time.Now().UTC()
	inserted := make([]models.AvailableSlot, 0, len(slots))
	for i := range slots {
		payload := slots[i]
		payload.ID = uuid.NewString()
		payload.TeacherID = teacherID
		payload.CreatedAt = now
		payload.UpdatedAt = now

		if _, err = tx.NamedExecContext(ctx, `INSERT INTO available_slots (id, teacher_id, weekday, start_time, end_time, is_active, created_at, updated_at)
			VALUES (:id, :teacher_id, :weekday, :start_time, :end_time, :is_active, :created_at, :updated_at)`, &payload); err != nil {
			return nil, 0, fmt.Errorf("insert slot: %w", err)
		}
		inserted = append(inserted, payload)
	}

	if err = tx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("commit replace slots: %w", err)
	}
	return inserted, deleted, nil
}
