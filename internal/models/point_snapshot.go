package models

import "time"

// PointSnapshot is one entry of a representative's points history.
// Rows are append-only and read back in chronological order.
type PointSnapshot struct {
	ID     int       `json:"id"`
	UserID int       `json:"user_id"`
	Date   time.Time `json:"date"`
	Points int       `json:"points"`
}
