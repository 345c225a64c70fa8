package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/joyroute/backend/internal/domain"
	"github.com/joyroute/backend/internal/middleware"
)

// tripRequest is the JSON body for creating or updating a trip.
// Dates are calendar dates in "2006-01-02" form.
type tripRequest struct {
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// tripResponse renders a trip with calendar dates instead of timestamps.
type tripResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
	TotalDays int       `json:"total_days"`
	OwnerID   uuid.UUID `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// dayResponse renders a trip day; Events is only populated by GetDay.
type dayResponse struct {
	ID        uuid.UUID      `json:"id"`
	TripID    uuid.UUID      `json:"trip_id"`
	Date      string         `json:"date"`
	CreatedAt time.Time      `json:"created_at"`
	Events    []domain.Event `json:"events,omitempty"`
}

func tripToResponse(t domain.Trip) tripResponse {
	return tripResponse{
		ID:        t.ID,
		Name:      t.Name,
		StartDate: t.StartDate.Format("2006-01-02"),
		EndDate:   t.EndDate.Format("2006-01-02"),
		TotalDays: t.TotalDays(),
		OwnerID:   t.OwnerID,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func dayToResponse(d domain.TripDay) dayResponse {
	return dayResponse{
		ID:        d.ID,
		TripID:    d.TripID,
		Date:      d.Date.Format("2006-01-02"),
		CreatedAt: d.CreatedAt,
	}
}

// requestToTrip parses and validates the request body's date fields.
func requestToTrip(body tripRequest) (domain.Trip, string) {
	start, err := time.Parse("2006-01-02", body.StartDate)
	if err != nil {
		return domain.Trip{}, "start_date must be a date in YYYY-MM-DD form"
	}
	end, err := time.Parse("2006-01-02", body.EndDate)
	if err != nil {
		return domain.Trip{}, "end_date must be a date in YYYY-MM-DD form"
	}
	return domain.Trip{Name: body.Name, StartDate: start, EndDate: end}, ""
}

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	var body tripRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	trip, msg := requestToTrip(body)
	if msg != "" {
		badRequest(w, msg)
		return
	}

	created, err := s.trips.Create(r.Context(), userID, trip)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, tripToResponse(created))
}

// ListTrips handles GET /trips.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())
	params := domain.NewPaginationParams(queryInt(r, "page"), queryInt(r, "limit"))

	trips, total, err := s.trips.ListPaged(r.Context(), userID, params)
	if err != nil {
		respondError(w, err)
		return
	}

	data := make([]tripResponse, len(trips))
	for i, t := range trips {
		data[i] = tripToResponse(t)
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"data": data,
		"pagination": map[string]int{
			"page":  params.Page,
			"limit": params.Limit,
			"total": int(total),
		},
	})
}

// GetTrip handles GET /trips/{tripID}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		badRequest(w, "invalid trip id")
		return
	}

	trip, err := s.trips.GetByID(r.Context(), userID, tripID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tripToResponse(trip))
}

// UpdateTrip handles PUT /trips/{tripID}.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		badRequest(w, "invalid trip id")
		return
	}

	var body tripRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	trip, msg := requestToTrip(body)
	if msg != "" {
		badRequest(w, msg)
		return
	}
	trip.ID = tripID

	updated, err := s.trips.Update(r.Context(), userID, trip)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tripToResponse(updated))
}

// DeleteTrip handles DELETE /trips/{tripID}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		badRequest(w, "invalid trip id")
		return
	}

	if err := s.trips.Delete(r.Context(), userID, tripID); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListDays handles GET /trips/{tripID}/days.
func (s *Server) ListDays(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		badRequest(w, "invalid trip id")
		return
	}

	days, err := s.trips.ListDays(r.Context(), userID, tripID)
	if err != nil {
		respondError(w, err)
		return
	}

	data := make([]dayResponse, len(days))
	for i, d := range days {
		data[i] = dayToResponse(d)
	}
	respondJSON(w, http.StatusOK, data)
}

// GetDay handles GET /trips/{tripID}/days/{dayID}.
// The response includes the day's events in position order.
func (s *Server) GetDay(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		badRequest(w, "invalid trip id")
		return
	}
	dayID, err := pathUUID(r, "dayID")
	if err != nil {
		badRequest(w, "invalid day id")
		return
	}

	day, err := s.trips.GetDay(r.Context(), userID, tripID, dayID)
	if err != nil {
		respondError(w, err)
		return
	}
	events, err := s.events.ListByDay(r.Context(), userID, tripID, dayID)
	if err != nil {
		respondError(w, err)
		return
	}

	resp := dayToResponse(day)
	resp.Events = events
	respondJSON(w, http.StatusOK, resp)
}

// queryInt returns the named query parameter as *int, or nil when absent
// or malformed. Malformed values fall back to the pagination defaults
// rather than erroring.
func queryInt(r *http.Request, name string) *int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}
