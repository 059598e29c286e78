package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/tutorhive/tutorhive-api/internal/models"
)

// TeacherRepository reads tutor profiles.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository constructs a TeacherRepository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// FindByID fetches a teacher by ID.
func (r *TeacherRepository) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	const query = `SELECT id, user_id, display_name, active, created_at, updated_at FROM teachers WHERE id = $1`
	var teacher models.Teacher
	if err := r.db.GetContext(ctx, &teacher, query, id); err != nil {
		return nil, err
	}
	return &teacher, nil
}

// FindByUserID fetches the teacher profile owned by a platform user. Callers
// map sql.ErrNoRows to "caller has no teacher record".
func (r *TeacherRepository) FindByUserID(ctx context.Context, userID string) (*models.Teacher, error) {
	const query = `SELECT id, user_id, display_name, active, created_at, updated_at FROM teachers WHERE user_id = $1`
	var teacher models.Teacher
	if err := r.db.GetContext(ctx, &teacher, query, userID); err != nil {
		return nil, err
	}
	return &teacher, nil
}
