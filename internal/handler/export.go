// Package handler — export.go implements GET /trips/{tripID}/export.
// Returns the trip's itinerary as a flat table, one row per (day, event).
// Supports content negotiation via ?format=csv (CSV) or default (JSON).
package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"

	"github.com/joyroute/backend/internal/middleware"
	"github.com/joyroute/backend/internal/service"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"date", "position", "type", "start_time", "duration_minutes",
	"place_name", "address", "notes",
}

// ExportTrip handles GET /trips/{tripID}/export.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) ExportTrip(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())
	tripID, err := pathUUID(r, "tripID")
	if err != nil {
		badRequest(w, "invalid trip id")
		return
	}

	rows, err := s.export.Export(r.Context(), userID, tripID)
	if err != nil {
		respondError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		writeCSV(w, rows)
		return
	}
	respondJSON(w, http.StatusOK, rows)
}

// writeCSV encodes the rows as CSV with a header line.
func writeCSV(w http.ResponseWriter, rows []service.ItineraryRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	//nolint:errcheck — bytes.Buffer.Write never returns an error.
	cw.Write(csvHeaders)
	for _, r := range rows {
		//nolint:errcheck
		cw.Write(rowToCSVRecord(r))
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="itinerary.csv"`)
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck
	w.Write(buf.Bytes())
}

// rowToCSVRecord encodes an ItineraryRow as a flat string slice.
// Zero position and duration (days with no events, unset durations) are
// encoded as empty strings.
func rowToCSVRecord(r service.ItineraryRow) []string {
	position := ""
	if r.Position > 0 {
		position = strconv.Itoa(r.Position)
	}
	duration := ""
	if r.Duration > 0 {
		duration = strconv.Itoa(r.Duration)
	}
	return []string{
		r.Date,
		position,
		r.Type,
		r.StartTime,
		duration,
		r.PlaceName,
		r.Address,
		r.Notes,
	}
}
