package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventType categorizes an event within a trip day.
type EventType string

const (
	EventActivity    EventType = "activity"
	EventFood        EventType = "food"
	EventSightseeing EventType = "sightseeing"
	EventTransport   EventType = "transport"
	EventOther       EventType = "other"
)

// Valid reports whether t is one of the known event types.
func (t EventType) Valid() bool {
	switch t {
	case EventActivity, EventFood, EventSightseeing, EventTransport, EventOther:
		return true
	}
	return false
}

// PositionLast is the sentinel position assigned to a newly created event.
// It is guaranteed larger than any real position, so the subsequent
// normalize pass lands the event at the true end of the day.
const PositionLast = 1_000_000

// Event is a single scheduled item within a trip day.
//
// Position is the 1-based index of the event within its day. Outside of a
// reconciling operation the positions of a day's events always form a dense
// 1..N sequence; Position is nil only transiently, before the first
// normalize pass runs.
type Event struct {
	ID              uuid.UUID  `json:"id"`
	TripDayID       uuid.UUID  `json:"trip_day_id"`
	PlaceID         *uuid.UUID `json:"place_id,omitempty"`
	Type            EventType  `json:"type"`
	StartTime       *string    `json:"start_time,omitempty"` // "15:04", nil when unscheduled
	DurationMinutes *int       `json:"duration_minutes,omitempty"`
	Position        *int       `json:"position,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	// Place is the resolved place, populated on reads when PlaceID is set.
	Place *Place `json:"place,omitempty"`
}

// EventPosition is a (event id, position) pair for batched position writes.
type EventPosition struct {
	EventID  uuid.UUID
	Position int
}
