package models

import "time"

// Teacher is an approved tutor profile linked to a platform user.
type Teacher struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"user_id"`
	DisplayName string    `db:"display_name" json:"display_name"`
	Active      bool      `db:"active" json:"active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
