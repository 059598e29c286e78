package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tutorhive/tutorhive-api/internal/models"
	appErrors "github.com/tutorhive/tutorhive-api/pkg/errors"
)

func (s *reservationRepoStub) Create(ctx context.Context, reservation *models.Reservation) error {
	reservation.ID = "res-new"
	s.items = append(s.items, *reservation)
	return nil
}

func (s *reservationRepoStub) ListByStudent(ctx context.Context, studentID string) ([]models.Reservation, error) {
	result := []models.Reservation{}
	for _, r := range s.items {
		if r.StudentID == studentID {
			result = append(result, r)
		}
	}
	return result, nil
}

func (s *reservationRepoStub) ListByTeacher(ctx context.Context, teacherID string) ([]models.Reservation, error) {
	result := []models.Reservation{}
	for _, r := range s.items {
		if r.TeacherID == teacherID {
			result = append(result, r)
		}
	}
	return result, nil
}

func newReservationService(slots *slotRepoStub, reservations *reservationRepoStub) *ReservationService {
	courses := &courseRepoStub{byID: map[string]*models.Course{
		"course-1": {ID: "course-1", TeacherID: "teacher-1", Name: "Conversational English", Active: true},
	}}
	availability := newConflictService(slots, reservations, courses)
	return NewReservationService(reservations, courses, newTeacherRepoStub(), availability, nil, zap.NewNop())
}

func TestReservationServiceCreate(t *testing.T) {
	slots := &slotRepoStub{stored: []models.AvailableSlot{
		{ID: "slot-1", TeacherID: "teacher-1", Weekday: 1, StartTime: "09:00", EndTime: "11:00", IsActive: true},
	}}
	reservations := &reservationRepoStub{}
	svc := newReservationService(slots, reservations)

	created, err := svc.Create(context.Background(), "student-1", CreateReservationRequest{
		CourseID: "course-1", ReserveDate: "2024-06-03", ReserveTime: "09:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "res-new", created.ID)
	assert.Equal(t, "teacher-1", created.TeacherID)
	assert.Equal(t, models.ReservationStatusReserved, created.TeacherStatus)
	assert.Equal(t, models.ReservationStatusReserved, created.StudentStatus)
	// Monday 09:00 Taipei stored as the UTC instant.
	assert.Equal(t, time.Date(2024, 6, 3, 1, 0, 0, 0, time.UTC), created.ReserveTime)
}

func TestReservationServiceCreateSlotTaken(t *testing.T) {
	slots := &slotRepoStub{stored: []models.AvailableSlot{
		{ID: "slot-1", TeacherID: "teacher-1", Weekday: 1, StartTime: "09:00", EndTime: "11:00", IsActive: true},
	}}
	reservations := &reservationRepoStub{items: []models.Reservation{
		activeReservation("res-1", time.Date(2024, 6, 3, 1, 0, 0, 0, time.UTC)),
	}}
	svc := newReservationService(slots, reservations)

	_, err := svc.Create(context.Background(), "student-2", CreateReservationRequest{
		CourseID: "course-1", ReserveDate: "2024-06-03", ReserveTime: "09:00",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrSlotUnavailable.Code, appErrors.FromError(err).Code)
}

func TestReservationServiceCreateOutsideSchedule(t *testing.T) {
	svc := newReservationService(&slotRepoStub{}, &reservationRepoStub{})

	_, err := svc.Create(context.Background(), "student-1", CreateReservationRequest{
		CourseID: "course-1", ReserveDate: "2024-06-03", ReserveTime: "09:00",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrSlotUnavailable.Code, appErrors.FromError(err).Code)
}

func TestReservationServiceCreateMissingFields(t *testing.T) {
	svc := newReservationService(&slotRepoStub{}, &reservationRepoStub{})

	_, err := svc.Create(context.Background(), "student-1", CreateReservationRequest{CourseID: "course-1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestReservationServiceListForCaller(t *testing.T) {
	reservations := &reservationRepoStub{items: []models.Reservation{
		activeReservation("res-1", time.Date(2024, 6, 3, 1, 0, 0, 0, time.UTC)),
	}}
	svc := newReservationService(&slotRepoStub{}, reservations)

	asTeacher, err := svc.ListForCaller(context.Background(), "user-1", models.RoleTeacher)
	require.NoError(t, err)
	require.Len(t, asTeacher, 1)
	assert.Equal(t, "res-1", asTeacher[0].ID)

	asStudent, err := svc.ListForCaller(context.Background(), "student-1", models.RoleStudent)
	require.NoError(t, err)
	require.Len(t, asStudent, 1)

	other, err := svc.ListForCaller(context.Background(), "student-2", models.RoleStudent)
	require.NoError(t, err)
	assert.Empty(t, other)
}
