package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/tutorhive/tutorhive-api/internal/models"
	appErrors "github.com/tutorhive/tutorhive-api/pkg/errors"
)

type slotRepository interface {
	ListByTeacher(ctx context.Context, teacherID string) ([]models.AvailableSlot, error)
	ReplaceForTeacher(ctx context.Context, teacherID string, slots []models.AvailableSlot) ([]models.AvailableSlot, int64, error)
}

type teacherRepository interface {
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
	FindByUserID(ctx context.Context, userID string) (*models.Teacher, error)
}

// SlotInput is one submitted availability window. Weekday and IsActive are
// pointers so a missing field is distinguishable from a zero value.
type SlotInput struct {
	Weekday   *int   `json:"weekday"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	IsActive  *bool  `json:"is_active"`
}

// ReplaceScheduleRequest carries the full replacement slot set. Submitting an
// empty list clears the teacher's schedule.
type ReplaceScheduleRequest struct {
	AvailableSlots []SlotInput `json:"available_slots"`
}

// ScheduleResult is the read contract for a teacher's weekly availability.
type ScheduleResult struct {
	AvailableSlots []models.AvailableSlot `json:"available_slots"`
	TotalSlots     int                    `json:"total_slots"`
}

// ReplaceScheduleResult summarises a replacement. UpdatedCount is always
// zero: replacement deletes every prior row and inserts the submitted set
// fresh, so no row is ever updated in place. The field stays in the contract
// for clients that diff counts.
type ReplaceScheduleResult struct {
	AvailableSlots []models.AvailableSlot `json:"available_slots"`
	CreatedCount   int                    `json:"created_count"`
	UpdatedCount   int                    `json:"updated_count"`
	DeletedCount   int                    `json:"deleted_count"`
}

// ScheduleService owns the authoritative weekly availability of teachers and
// its atomic full-replacement semantics.
type ScheduleService struct {
	teachers       teacherRepository
	slots          slotRepository
	cache          *ScheduleSnapshotCache
	validator      *validator.Validate
	logger         *zap.Logger
	rejectOverlaps bool
}

// NewScheduleService instantiates ScheduleService.
func NewScheduleService(teachers teacherRepository, slots slotRepository, cache *ScheduleSnapshotCache, validate *validator.Validate, logger *zap.Logger, rejectOverlaps bool) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{
		teachers:       teachers,
		slots:          slots,
		cache:          cache,
		validator:      validate,
		logger:         logger,
		rejectOverlaps: rejectOverlaps,
	}
}

// GetSchedule returns the caller's slots ordered by (weekday, start_time).
// A teacher who never configured availability gets an empty list.
func (s *ScheduleService) GetSchedule(ctx context.Context, userID string) (*ScheduleResult, error) {
	teacher, err := s.requireTeacher(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if cached := s.cache.Get(ctx, teacher.ID); cached != nil {
			return cached, nil
		}
	}

	slots, err := s.slots.ListByTeacher(ctx, teacher.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}

	result := &ScheduleResult{AvailableSlots: slots, TotalSlots: len(slots)}
	if s.cache != nil {
		s.cache.Set(ctx, teacher.ID, result)
	}
	return result, nil
}

// ReplaceSchedule validates the submitted set and atomically swaps the
// teacher's slots. Validation is all-or-nothing: any field error rejects the
// whole batch before anything is written.
func (s *ScheduleService) ReplaceSchedule(ctx context.Context, userID string, req ReplaceScheduleRequest) (*ReplaceScheduleResult, error) {
	teacher, err := s.requireTeacher(ctx, userID)
	if err != nil {
		return nil, err
	}

	slots, fieldErrs := s.validateSlots(req.AvailableSlots)
	if len(fieldErrs) > 0 {
		return nil, appErrors.Validation("invalid schedule payload", fieldErrs)
	}

	inserted, deleted, err := s.slots.ReplaceForTeacher(ctx, teacher.ID, slots)
	if err != nil {
		s.logger.Error("schedule replacement failed", zap.String("teacher_id", teacher.ID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to replace schedule")
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, teacher.ID)
	}

	sortSlots(inserted)
	return &ReplaceScheduleResult{
		AvailableSlots: inserted,
		CreatedCount:   len(inserted),
		UpdatedCount:   0,
		DeletedCount:   int(deleted),
	}, nil
}

// validateSlots checks every submitted slot and returns the normalised rows
// plus field errors keyed "available_slots.<index>.<field>".
func (s *ScheduleService) validateSlots(inputs []SlotInput) ([]models.AvailableSlot, map[string]string) {
	fieldErrs := map[string]string{}
	slots := make([]models.AvailableSlot, 0, len(inputs))

	type window struct {
		index      int
		start, end int
	}
	perWeekday := map[int][]window{}

	for i, input := range inputs {
		key := func(field string) string { return fmt.Sprintf("available_slots.%d.%s", i, field) }
		slotOK := true

		if input.Weekday == nil {
			fieldErrs[key("weekday")] = "weekday is required"
			slotOK = false
		} else if *input.Weekday < models.MinWeekday || *input.Weekday > models.MaxWeekday {
			fieldErrs[key("weekday")] = "weekday must be between 0 and 6"
			slotOK = false
		}

		startMin, endMin := -1, -1
		if input.StartTime == "" {
			fieldErrs[key("start_time")] = "start_time is required"
			slotOK = false
		} else if m, err := models.ParseClock(input.StartTime); err != nil {
			fieldErrs[key("start_time")] = "start_time must be in HH:MM format"
			slotOK = false
		} else {
			startMin = m
		}
		if input.EndTime == "" {
			fieldErrs[key("end_time")] = "end_time is required"
			slotOK = false
		} else if m, err := models.ParseClock(input.EndTime); err != nil {
			fieldErrs[key("end_time")] = "end_time must be in HH:MM format"
			slotOK = false
		} else {
			endMin = m
		}

		// Midnight-crossing windows are rejected outright, not split.
		if startMin >= 0 && endMin >= 0 && endMin <= startMin {
			fieldErrs[key("end_time")] = "end_time must be after start_time"
			slotOK = false
		}

		if !slotOK {
			continue
		}

		active := true
		if input.IsActive != nil {
			active = *input.IsActive
		}

		if s.rejectOverlaps && active {
			wd := *input.Weekday
			for _, other := range perWeekday[wd] {
				if startMin < other.end && other.start < endMin {
					fieldErrs[key("start_time")] = fmt.Sprintf("overlaps slot at index %d on the same weekday", other.index)
					break
				}
			}
			perWeekday[wd] = append(perWeekday[wd], window{index: i, start: startMin, end: endMin})
		}

		slots = append(slots, models.AvailableSlot{
			Weekday:   *input.Weekday,
			StartTime: models.FormatClock(startMin),
			EndTime:   models.FormatClock(endMin),
			IsActive:  active,
		})
	}

	if len(fieldErrs) > 0 {
		return nil, fieldErrs
	}
	return slots, nil
}

func (s *ScheduleService) requireTeacher(ctx context.Context, userID string) (*models.Teacher, error) {
	teacher, err := s.teachers.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher profile")
	}
	return teacher, nil
}

func sortSlots(slots []models.AvailableSlot) {
	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].Weekday != slots[j].Weekday {
			return slots[i].Weekday < slots[j].Weekday
		}
		return slots[i].StartTime < slots[j].StartTime
	})
}
