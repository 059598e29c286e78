package models

import (
	"fmt"
	"time"
)

// Weekday bounds, 0 = Sunday per the scheduling contract.
const (
	MinWeekday = 0
	MaxWeekday = 6
)

// AvailableSlot is one recurring weekly availability window owned by a
// teacher. The full set of a teacher's slots is replaced atomically on each
// update; rows are deleted and re-inserted, never edited in place.
type AvailableSlot struct {
	ID        string    `db:"id" json:"id"`
	TeacherID string    `db:"teacher_id" json:"teacher_id"`
	Weekday   int       `db:"weekday" json:"weekday"`
	StartTime string    `db:"start_time" json:"start_time"`
	EndTime   string    `db:"end_time" json:"end_time"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ParseClock converts an "HH:MM" time-of-day into minutes since midnight.
func ParseClock(raw string) (int, error) {
	t, err := time.Parse("15:04", raw)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", raw, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock renders minutes since midnight as zero-padded "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
