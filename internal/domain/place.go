package domain

import (
	"time"

	"github.com/google/uuid"
)

// Place is a location resolved through the external geocoding provider.
// ExternalID is the provider's identifier and is unique: a place is
// get-or-created by ExternalID and never duplicated.
type Place struct {
	ID          uuid.UUID `json:"id"`
	ExternalID  string    `json:"external_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Address     string    `json:"address,omitempty"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HasCoordinates reports whether the place can be used as a routing
// location. Events whose place lacks coordinates cannot be routed.
func (p Place) HasCoordinates() bool {
	return p.Latitude != nil && p.Longitude != nil
}

// PlaceSuggestion is one normalized result from the place-search provider.
// It carries everything needed to get-or-create a Place later.
type PlaceSuggestion struct {
	ExternalID string   `json:"external_id"`
	Name       string   `json:"name"`
	Address    string   `json:"address"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
}

// SavedPlace bookmarks a place for a trip. Unique per (trip, place).
type SavedPlace struct {
	ID        uuid.UUID  `json:"id"`
	TripID    uuid.UUID  `json:"trip_id"`
	PlaceID   uuid.UUID  `json:"place_id"`
	SavedByID *uuid.UUID `json:"saved_by_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`

	// Place is the resolved place, populated on reads.
	Place *Place `json:"place,omitempty"`
}
