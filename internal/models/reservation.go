package models

import "time"

// Reservation lifecycle states. A reservation counts toward conflicts only
// while both sides still hold the "reserved" status.
const (
	ReservationStatusReserved  = "reserved"
	ReservationStatusCompleted = "completed"
	ReservationStatusCanceled  = "canceled"
)

// ReservationDuration is the implicit length of every booking: one slot's
// worth of time starting at ReserveTime. There is no stored duration column.
const ReservationDuration = time.Hour

// Reservation is a concrete dated booking. ReserveTime is an absolute UTC
// instant; the conflict resolver normalises it into the canonical schedule
// timezone before any weekday or time-of-day comparison.
type Reservation struct {
	ID            string    `db:"id" json:"id"`
	TeacherID     string    `db:"teacher_id" json:"teacher_id"`
	CourseID      string    `db:"course_id" json:"course_id"`
	StudentID     string    `db:"student_id" json:"student_id"`
	ReserveTime   time.Time `db:"reserve_time" json:"reserve_time"`
	TeacherStatus string    `db:"teacher_status" json:"teacher_status"`
	StudentStatus string    `db:"student_status" json:"student_status"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// IsActive reports whether the reservation still represents a commitment.
func (r Reservation) IsActive() bool {
	return r.TeacherStatus == ReservationStatusReserved && r.StudentStatus == ReservationStatusReserved
}
