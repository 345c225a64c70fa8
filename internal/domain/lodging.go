package domain

import (
	"time"

	"github.com/google/uuid"
)

// Lodging is a stay at a place over an inclusive date range within a trip.
// At most one lodging covers any given date of a trip: creating a lodging
// whose range overlaps existing ones deletes those first (replace-on-overlap).
type Lodging struct {
	ID            uuid.UUID  `json:"id"`
	TripID        uuid.UUID  `json:"trip_id"`
	PlaceID       *uuid.UUID `json:"place_id,omitempty"`
	ArrivalDate   time.Time  `json:"arrival_date"`
	DepartureDate time.Time  `json:"departure_date"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Place is the resolved place, populated on reads when PlaceID is set.
	Place *Place `json:"place,omitempty"`
}

// Covers reports whether the lodging's stay includes the given date.
func (l Lodging) Covers(date time.Time) bool {
	return !date.Before(l.ArrivalDate) && !date.After(l.DepartureDate)
}
