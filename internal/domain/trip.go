package domain

import (
	"time"

	"github.com/google/uuid"
)

type Trip struct {
	ID           uuid.UUID         `db:"id" json:"id"`
	UserID       uuid.UUID         `db:"user_id" json:"user_id"`
	Name         string            `db:"name" json:"name"`
	Description  *string           `db:"description" json:"description,omitempty"`
	CreatedAt    time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time         `db:"updated_at" json:"updated_at"`
	Destinations []TripDestination `db:"-" json:"destinations"`
}

type TripDestination struct {
	TripID        uuid.UUID  `db:"trip_id" json:"-"`
	DestinationID uuid.UUID  `db:"destination_id" json:"destination_id"`
	Ordinal       int        `db:"ordinal" json:"ordinal"`
	ArrivalDate   *time.Time `db:"arrival_date" json:"arrival_date,omitempty"`
	DepartureDate *time.Time `db:"departure_date" json:"departure_date,omitempty"`
}
