package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/joyroute/backend/internal/domain"
	"github.com/joyroute/backend/internal/middleware"
	"github.com/joyroute/backend/internal/service"
)

// eventRequest is the JSON body for creating or updating an event.
// Position is deliberately absent: ordering changes go through reorder.
type eventRequest struct {
	Type            string                  `json:"type"`
	StartTime       *string                 `json:"start_time"`
	DurationMinutes *int                    `json:"duration_minutes"`
	Notes           string                  `json:"notes"`
	Place           *domain.PlaceSuggestion `json:"place"`
}

func (b eventRequest) toInput() service.EventInput {
	t := domain.EventType(b.Type)
	if b.Type == "" {
		t = domain.EventOther
	}
	return service.EventInput{
		Type:            t,
		StartTime:       b.StartTime,
		DurationMinutes: b.DurationMinutes,
		Notes:           b.Notes,
		Place:           b.Place,
	}
}

// CreateEvent handles POST /trips/{tripID}/days/{dayID}/events.
func (s *Server) CreateEvent(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())
	tripID, dayID, ok := dayPath(w, r)
	if !ok {
		return
	}

	var body eventRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	created, err := s.events.Create(r.Context(), userID, tripID, dayID, body.toInput())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// UpdateEvent handles PUT /trips/{tripID}/days/{dayID}/events/{eventID}.
func (s *Server) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())
	tripID, dayID, ok := dayPath(w, r)
	if !ok {
		return
	}
	eventID, err := pathUUID(r, "eventID")
	if err != nil {
		badRequest(w, "invalid event id")
		return
	}

	var body eventRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	updated, err := s.events.Update(r.Context(), userID, tripID, dayID, eventID, body.toInput())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// DeleteEvent handles DELETE /trips/{tripID}/days/{dayID}/events/{eventID}.
func (s *Server) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())
	tripID, dayID, ok := dayPath(w, r)
	if !ok {
		return
	}
	eventID, err := pathUUID(r, "eventID")
	if err != nil {
		badRequest(w, "invalid event id")
		return
	}

	if err := s.events.Delete(r.Context(), userID, tripID, dayID, eventID); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReorderEvents handles POST /trips/{tripID}/events/reorder.
// The body must name a day of the trip and the complete set of its event
// ids in the desired order; anything partial is rejected unchanged.
func (s *Server) ReorderEvents(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		badRequest(w, "invalid trip id")
		return
	}

	var body struct {
		TripDayID uuid.UUID   `json:"trip_day_id"`
		EventIDs  []uuid.UUID `json:"event_ids"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.TripDayID == uuid.Nil {
		badRequest(w, "trip_day_id is required")
		return
	}

	if err := s.events.Reorder(r.Context(), userID, tripID, body.TripDayID, body.EventIDs); err != nil {
		respondError(w, err)
		return
	}

	events, err := s.events.ListByDay(r.Context(), userID, tripID, body.TripDayID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, events)
}

// OptimizeRoute handles POST /trips/{tripID}/events/optimize-route.
// Returns a route proposal without mutating anything; the client applies
// it by calling reorder with the proposed order.
func (s *Server) OptimizeRoute(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		badRequest(w, "invalid trip id")
		return
	}

	var body struct {
		TripDayID uuid.UUID `json:"trip_day_id"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.TripDayID == uuid.Nil {
		badRequest(w, "trip_day_id is required")
		return
	}

	proposal, err := s.routes.Optimize(r.Context(), userID, tripID, body.TripDayID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, proposal)
}

// dayPath parses the tripID and dayID path parameters, writing the error
// response itself when either is malformed.
func dayPath(w http.ResponseWriter, r *http.Request) (tripID, dayID uuid.UUID, ok bool) {
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		badRequest(w, "invalid trip id")
		return uuid.Nil, uuid.Nil, false
	}
	dayID, err = pathUUID(r, "dayID")
	if err != nil {
		badRequest(w, "invalid day id")
		return uuid.Nil, uuid.Nil, false
	}
	return tripID, dayID, true
}
