package handler

import (
	"net/http"
	"strconv"
)

// SearchPlaces handles GET /places/search.
// Query parameters: q (required, min 2 chars), limit (1–10, default 5),
// autocomplete (default true).
func (s *Server) SearchPlaces(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 5
	if raw := q.Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}
	autocomplete := true
	if raw := q.Get("autocomplete"); raw != "" {
		if b, err := strconv.ParseBool(raw); err == nil {
			autocomplete = b
		}
	}

	suggestions, err := s.places.Search(r.Context(), q.Get("q"), autocomplete, limit)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, suggestions)
}
