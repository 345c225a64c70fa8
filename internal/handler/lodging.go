package handler

import (
	"net/http"
	"time"

	"github.com/joyroute/backend/internal/domain"
	"github.com/joyroute/backend/internal/middleware"
)

// lodgingRequest is the JSON body for creating a lodging.
// Dates are calendar dates in "2006-01-02" form.
type lodgingRequest struct {
	ArrivalDate   string                  `json:"arrival_date"`
	DepartureDate string                  `json:"departure_date"`
	Place         *domain.PlaceSuggestion `json:"place"`
}

// CreateLodging handles POST /trips/{tripID}/lodgings.
// A lodging overlapping existing ones replaces them.
func (s *Server) CreateLodging(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		badRequest(w, "invalid trip id")
		return
	}

	var body lodgingRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	arrival, err := time.Parse("2006-01-02", body.ArrivalDate)
	if err != nil {
		badRequest(w, "arrival_date must be a date in YYYY-MM-DD form")
		return
	}
	departure, err := time.Parse("2006-01-02", body.DepartureDate)
	if err != nil {
		badRequest(w, "departure_date must be a date in YYYY-MM-DD form")
		return
	}

	created, err := s.lodgings.Create(r.Context(), userID, tripID, domain.Lodging{
		ArrivalDate:   arrival,
		DepartureDate: departure,
	}, body.Place)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// ListLodgings handles GET /trips/{tripID}/lodgings.
func (s *Server) ListLodgings(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		badRequest(w, "invalid trip id")
		return
	}

	lodgings, err := s.lodgings.ListByTrip(r.Context(), userID, tripID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, lodgings)
}

// DeleteLodging handles DELETE /trips/{tripID}/lodgings/{lodgingID}.
func (s *Server) DeleteLodging(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		badRequest(w, "invalid trip id")
		return
	}
	lodgingID, err := pathUUID(r, "lodgingID")
	if err != nil {
		badRequest(w, "invalid lodging id")
		return
	}

	if err := s.lodgings.Delete(r.Context(), userID, tripID, lodgingID); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
