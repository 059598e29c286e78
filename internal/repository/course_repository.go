package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/tutorhive/tutorhive-api/internal/models"
)

// CourseRepository reads course offerings. Course CRUD itself lives outside
// this service; only the ownership lookup is needed by the booking flow.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// FindByID fetches a course by ID.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	const query = `SELECT id, teacher_id, name, active, created_at, updated_at FROM courses WHERE id = $1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}
