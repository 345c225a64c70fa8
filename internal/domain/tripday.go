package domain

import (
	"time"

	"github.com/google/uuid"
)

// TripDay is one calendar date within a trip's span and the container for
// that date's events. Rows are created and destroyed exclusively by the
// trip-day reconciler; unique per (trip, date).
type TripDay struct {
	ID        uuid.UUID `json:"id"`
	TripID    uuid.UUID `json:"trip_id"`
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"created_at"`
}
