// Package domain contains the core data types for the JoyRoute API.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Trip represents a planned trip over an inclusive date range.
// A trip is the top-level aggregate; trip days, lodgings, and saved places
// belong to a trip. StartDate and EndDate are both required and the set of
// TripDay rows always mirrors the inclusive [StartDate, EndDate] range once
// a create/update settles.
type Trip struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	OwnerID   uuid.UUID `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TotalDays returns the number of calendar dates the trip spans, inclusive.
func (t Trip) TotalDays() int {
	return int(t.EndDate.Sub(t.StartDate).Hours()/24) + 1
}

// TripMember links a user to a trip they can access.
// The owner gets a membership row at trip creation; additional rows are for
// future collaborators. Unique per (user, trip).
type TripMember struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TripID    uuid.UUID
	CreatedAt time.Time
}
