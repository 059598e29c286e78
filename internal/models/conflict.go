package models

// SlotConflict is one (slot, reservation) collision found by a conflict
// check. A reservation may in principle match several slots; every match is
// reported.
type SlotConflict struct {
	SlotID        string `json:"slot_id"`
	ReservationID string `json:"reservation_id"`
	Reason        string `json:"reason"`
}

// CheckPeriod echoes the date window a conflict check covered.
type CheckPeriod struct {
	FromDate string `json:"from_date"`
	ToDate   string `json:"to_date"`
}

// ConflictReport is the full result of a schedule conflict check. A report
// with HasConflicts true is a successful computation, not an error.
type ConflictReport struct {
	HasConflicts   bool           `json:"has_conflicts"`
	Conflicts      []SlotConflict `json:"conflicts"`
	TotalConflicts int            `json:"total_conflicts"`
	CheckPeriod    CheckPeriod    `json:"check_period"`
}
