package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/tutorhive/tutorhive-api/internal/models"
	appErrors "github.com/tutorhive/tutorhive-api/pkg/errors"
)

const dateLayout = "2006-01-02"

type conflictSlotRepository interface {
	ListActiveByTeacher(ctx context.Context, teacherID string, slotIDs []string) ([]models.AvailableSlot, error)
}

type conflictReservationRepository interface {
	FindActiveInRange(ctx context.Context, teacherID string, from, to time.Time) ([]models.Reservation, error)
	ExistsActiveAt(ctx context.Context, teacherID string, at time.Time) (bool, error)
}

type courseRepository interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

// CheckConflictsRequest is the parsed conflict-check query.
type CheckConflictsRequest struct {
	FromDate string
	ToDate   string
	SlotIDs  []string
}

// ConflictService answers whether reservations collide with a teacher's
// declared weekly availability. It holds no state of its own: every check is
// a pure computation over the stored slots and reservations.
//
// Recurring slots are weekday + time-of-day in the canonical timezone while
// reservations are absolute UTC instants. localize is the only place the two
// representations meet; nothing else in the codebase may do UTC-offset
// arithmetic on schedule data.
type ConflictService struct {
	teachers     teacherRepository
	slots        conflictSlotRepository
	reservations conflictReservationRepository
	courses      courseRepository
	location     *time.Location
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewConflictService instantiates ConflictService. location is the canonical
// schedule timezone; it must be the same for every caller.
func NewConflictService(teachers teacherRepository, slots conflictSlotRepository, reservations conflictReservationRepository, courses courseRepository, location *time.Location, validate *validator.Validate, logger *zap.Logger) *ConflictService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if location == nil {
		location = time.UTC
	}
	return &ConflictService{
		teachers:     teachers,
		slots:        slots,
		reservations: reservations,
		courses:      courses,
		location:     location,
		validator:    validate,
		logger:       logger,
	}
}

// CheckConflicts reports every (slot, reservation) collision for the
// caller's schedule inside [from_date, to_date]. Conflicts are a business
// fact, not an error: the report is a successful result either way.
func (s *ConflictService) CheckConflicts(ctx context.Context, userID string, req CheckConflictsRequest) (*models.ConflictReport, error) {
	from, to, err := s.parseDateRange(req.FromDate, req.ToDate)
	if err != nil {
		return nil, err
	}

	teacher, err := s.requireTeacherByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	slots, err := s.slots.ListActiveByTeacher(ctx, teacher.ID, req.SlotIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load availability slots")
	}

	windows := s.slotWindows(slots)

	// The window spans whole days in the canonical timezone, converted once
	// to UTC for the range query.
	windowStart := from
	windowEnd := to.AddDate(0, 0, 1)
	reservations, err := s.reservations.FindActiveInRange(ctx, teacher.ID, windowStart.UTC(), windowEnd.UTC())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load reservations")
	}

	conflicts := []models.SlotConflict{}
	for _, reservation := range reservations {
		local, weekday, minutes := s.localize(reservation.ReserveTime)
		for _, w := range windows {
			if w.weekday != weekday {
				continue
			}
			if minutes < w.start || minutes >= w.end {
				continue
			}
			conflicts = append(conflicts, models.SlotConflict{
				SlotID:        w.slot.ID,
				ReservationID: reservation.ID,
				Reason: fmt.Sprintf("reservation at %s falls inside the %s %s-%s slot",
					local.Format("2006-01-02 15:04"), local.Weekday(), w.slot.StartTime, w.slot.EndTime),
			})
		}
	}

	// Stable output for callers and tests; the ordering itself carries no
	// contractual meaning.
	sort.Slice(conflicts, func(i, j int) bool {
		if conflicts[i].SlotID != conflicts[j].SlotID {
			return conflicts[i].SlotID < conflicts[j].SlotID
		}
		return conflicts[i].ReservationID < conflicts[j].ReservationID
	})

	return &models.ConflictReport{
		HasConflicts:   len(conflicts) > 0,
		Conflicts:      conflicts,
		TotalConflicts: len(conflicts),
		CheckPeriod:    models.CheckPeriod{FromDate: req.FromDate, ToDate: req.ToDate},
	}, nil
}

// IsSlotAvailable decides whether a proposed (date, time) may be booked for
// the teacher's course: an active slot must cover that weekday/time in the
// canonical timezone, and no committed reservation may already occupy the
// exact instant.
func (s *ConflictService) IsSlotAvailable(ctx context.Context, teacherID, courseID, date, clock string) (bool, error) {
	instant, err := s.LocalInstant(date, clock)
	if err != nil {
		return false, err
	}

	teacher, err := s.teachers.FindByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	if !teacher.Active {
		return false, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
	}

	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if course.TeacherID != teacher.ID || !course.Active {
		return false, appErrors.Clone(appErrors.ErrValidation, "course is not offered by this teacher")
	}

	slots, err := s.slots.ListActiveByTeacher(ctx, teacher.ID, nil)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load availability slots")
	}

	_, weekday, minutes := s.localize(instant)
	covered := false
	for _, w := range s.slotWindows(slots) {
		if w.weekday == weekday && minutes >= w.start && minutes < w.end {
			covered = true
			break
		}
	}
	if !covered {
		return false, nil
	}

	occupied, err := s.reservations.ExistsActiveAt(ctx, teacher.ID, instant.UTC())
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing reservations")
	}
	return !occupied, nil
}

// LocalInstant interprets a date and HH:MM clock in the canonical schedule
// timezone and returns the corresponding absolute instant.
func (s *ConflictService) LocalInstant(date, clock string) (time.Time, error) {
	instant, err := time.ParseInLocation(dateLayout+" 15:04", date+" "+clock, s.location)
	if err != nil {
		return time.Time{}, appErrors.Validation("invalid date or time", map[string]string{
			"date": "date must be YYYY-MM-DD and time must be HH:MM",
		})
	}
	return instant, nil
}

// localize is the canonical normalisation boundary: one absolute instant in,
// its weekday and minutes-since-midnight in the schedule timezone out.
func (s *ConflictService) localize(at time.Time) (time.Time, int, int) {
	local := at.In(s.location)
	return local, int(local.Weekday()), local.Hour()*60 + local.Minute()
}

type slotWindow struct {
	slot    models.AvailableSlot
	weekday int
	start   int
	end     int
}

func (s *ConflictService) slotWindows(slots []models.AvailableSlot) []slotWindow {
	windows := make([]slotWindow, 0, len(slots))
	for _, slot := range slots {
		start, err := models.ParseClock(slot.StartTime)
		if err != nil {
			s.logger.Warn("stored slot has malformed start_time", zap.String("slot_id", slot.ID), zap.Error(err))
			continue
		}
		end, err := models.ParseClock(slot.EndTime)
		if err != nil {
			s.logger.Warn("stored slot has malformed end_time", zap.String("slot_id", slot.ID), zap.Error(err))
			continue
		}
		windows = append(windows, slotWindow{slot: slot, weekday: slot.Weekday, start: start, end: end})
	}
	return windows
}

// parseDateRange validates the conflict-check window before any data access.
func (s *ConflictService) parseDateRange(fromDate, toDate string) (time.Time, time.Time, error) {
	fieldErrs := map[string]string{}

	from, err := time.ParseInLocation(dateLayout, fromDate, s.location)
	if err != nil {
		fieldErrs["from_date"] = "from_date must be in YYYY-MM-DD format"
	}
	to, err := time.ParseInLocation(dateLayout, toDate, s.location)
	if err != nil {
		fieldErrs["to_date"] = "to_date must be in YYYY-MM-DD format"
	}
	if len(fieldErrs) == 0 && from.After(to) {
		fieldErrs["from_date"] = "from_date must not be after to_date"
	}
	if len(fieldErrs) > 0 {
		return time.Time{}, time.Time{}, appErrors.Validation("invalid date range", fieldErrs)
	}
	return from, to, nil
}

func (s *ConflictService) requireTeacherByUser(ctx context.Context, userID string) (*models.Teacher, error) {
	teacher, err := s.teachers.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher profile")
	}
	return teacher, nil
}
