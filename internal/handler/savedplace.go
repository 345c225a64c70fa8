package handler

import (
	"net/http"

	"github.com/joyroute/backend/internal/domain"
	"github.com/joyroute/backend/internal/middleware"
)

// SavePlace handles POST /trips/{tripID}/saved-places.
// The body is a place suggestion as returned by GET /places/search.
func (s *Server) SavePlace(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		badRequest(w, "invalid trip id")
		return
	}

	var body domain.PlaceSuggestion
	if !decodeJSON(w, r, &body) {
		return
	}

	saved, err := s.savedPlaces.Save(r.Context(), userID, tripID, body)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, saved)
}

// ListSavedPlaces handles GET /trips/{tripID}/saved-places.
func (s *Server) ListSavedPlaces(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		badRequest(w, "invalid trip id")
		return
	}

	saved, err := s.savedPlaces.ListByTrip(r.Context(), userID, tripID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, saved)
}

// DeleteSavedPlace handles DELETE /trips/{tripID}/saved-places/{savedID}.
func (s *Server) DeleteSavedPlace(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		badRequest(w, "invalid trip id")
		return
	}
	savedID, err := pathUUID(r, "savedID")
	if err != nil {
		badRequest(w, "invalid saved place id")
		return
	}

	if err := s.savedPlaces.Delete(r.Context(), userID, tripID, savedID); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
