package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/tutorhive/tutorhive-api/internal/models"
	appErrors "github.com/tutorhive/tutorhive-api/pkg/errors"
)

type reservationRepository interface {
	Create(ctx context.Context, reservation *models.Reservation) error
	ListByStudent(ctx context.Context, studentID string) ([]models.Reservation, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]models.Reservation, error)
}

type slotAvailabilityChecker interface {
	IsSlotAvailable(ctx context.Context, teacherID, courseID, date, clock string) (bool, error)
	LocalInstant(date, clock string) (time.Time, error)
}

// CreateReservationRequest books one slot-sized lesson.
type CreateReservationRequest struct {
	CourseID    string `json:"course_id" validate:"required"`
	ReserveDate string `json:"reserve_date" validate:"required"`
	ReserveTime string `json:"reserve_time" validate:"required"`
}

// ReservationService is the booking flow: admission control through the
// conflict resolver, then a plain insert.
type ReservationService struct {
	reservations reservationRepository
	courses      courseRepository
	teachers     teacherRepository
	availability slotAvailabilityChecker
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewReservationService instantiates ReservationService.
func NewReservationService(reservations reservationRepository, courses courseRepository, teachers teacherRepository, availability slotAvailabilityChecker, validate *validator.Validate, logger *zap.Logger) *ReservationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReservationService{
		reservations: reservations,
		courses:      courses,
		teachers:     teachers,
		availability: availability,
		validator:    validate,
		logger:       logger,
	}
}

// Create books a reservation for the calling student if the proposed time
// sits inside an active slot and is not already taken.
func (s *ReservationService) Create(ctx context.Context, studentID string, req CreateReservationRequest) (*models.Reservation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reservation payload")
	}

	course, err := s.courses.FindByID(ctx, req.CourseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	available, err := s.availability.IsSlotAvailable(ctx, course.TeacherID, course.ID, req.ReserveDate, req.ReserveTime)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, appErrors.Clone(appErrors.ErrSlotUnavailable, "requested time is not available")
	}

	instant, err := s.availability.LocalInstant(req.ReserveDate, req.ReserveTime)
	if err != nil {
		return nil, err
	}

	reservation := &models.Reservation{
		TeacherID:     course.TeacherID,
		CourseID:      course.ID,
		StudentID:     studentID,
		ReserveTime:   instant.UTC(),
		TeacherStatus: models.ReservationStatusReserved,
		StudentStatus: models.ReservationStatusReserved,
	}
	if err := s.reservations.Create(ctx, reservation); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create reservation")
	}
	return reservation, nil
}

// ListForCaller returns the caller's reservations: their bookings as a
// student, or their incoming bookings when they hold a teacher profile.
func (s *ReservationService) ListForCaller(ctx context.Context, userID, role string) ([]models.Reservation, error) {
	if role == models.RoleTeacher {
		teacher, err := s.teachers.FindByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher profile not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher profile")
		}
		reservations, err := s.reservations.ListByTeacher(ctx, teacher.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reservations")
		}
		return reservations, nil
	}

	reservations, err := s.reservations.ListByStudent(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reservations")
	}
	return reservations, nil
}
