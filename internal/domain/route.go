package domain

import "github.com/google/uuid"

// RouteProposal is the outcome of a successful day-route optimization.
//
// OrderedEventIDs is a permutation of exactly the day's event ids: events
// the provider routed come first in routed order, and any event the
// provider omitted (or that had no routable place) is appended in its prior
// relative order. Applying the proposal is the caller's responsibility,
// via the explicit reorder operation.
type RouteProposal struct {
	OrderedEventIDs []uuid.UUID `json:"ordered_ids"`
	TotalDistanceKm float64     `json:"total_distance_km"`
	TotalTimeHours  float64     `json:"total_time_hours"`

	// Warning is non-empty when one or more events could not be routed and
	// were appended to the end. Not an error: the proposal is still usable.
	Warning string `json:"warning,omitempty"`
}
