package domain

import (
	"time"

	"github.com/google/uuid"
)

// TreasureHunt is a riddle pointing at a destination, open between its start
// and end dates.
type TreasureHunt struct {
	ID            uuid.UUID `db:"id" json:"id"`
	OwnerID       uuid.UUID `db:"owner_id" json:"owner_id"`
	DestinationID uuid.UUID `db:"destination_id" json:"destination_id"`
	Name          string    `db:"name" json:"name"`
	Riddle        string    `db:"riddle" json:"riddle"`
	StartDate     time.Time `db:"start_date" json:"start_date"`
	EndDate       time.Time `db:"end_date" json:"end_date"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// Open reports whether the hunt runs on the calendar day of at. Start and end
// dates are stored as UTC midnight.
func (h TreasureHunt) Open(at time.Time) bool {
	y, m, d := at.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return !day.Before(h.StartDate) && !day.After(h.EndDate)
}
